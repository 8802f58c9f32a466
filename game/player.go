package game

import "github.com/vpatov/justpoker-sub000/poker"

type Player struct {
	UUID       string `json:"uuid"`
	Name       string `json:"name"`
	SeatNumber int    `json:"seatNumber"`

	Chips              int64 `json:"chips"`
	ChipsAtStartOfHand int64 `json:"chipsAtStartOfHand"`
	// BetAmount is the total committed this betting round. It stays part of
	// Chips until the round is settled.
	BetAmount int64 `json:"betAmount"`

	HoleCards     []poker.Card       `json:"holeCards"`
	CardsRevealed []bool             `json:"cardsRevealed"`
	BestHand      *poker.HandValue   `json:"bestHand"`
	LastAction    BettingRoundAction `json:"lastAction"`

	DealtIn      bool `json:"dealtIn"`
	Folded       bool `json:"folded"`
	AllIn        bool `json:"allIn"`
	SittingOut   bool `json:"sittingOut"`
	Disconnected bool `json:"disconnected"`
	Quitting     bool `json:"quitting"`
	Winner       bool `json:"winner"`

	OwesMissedBigBlind bool `json:"owesMissedBigBlind"`
	WantsStraddle      bool `json:"wantsStraddle"`

	TimeBanksLeft           int `json:"timeBanksLeft"`
	TimeBanksUsedThisAction int `json:"timeBanksUsedThisAction"`
}

func newPlayer(uuid string, name string, timeBanks int) *Player {
	return &Player{
		UUID:          uuid,
		Name:          name,
		SeatNumber:    -1,
		LastAction:    ActionWaitingToAct,
		TimeBanksLeft: timeBanks,
	}
}

func (p *Player) isSeated() bool {
	return p.SeatNumber >= 0
}

// readyToPlay is true when the player can be dealt into the next hand.
func (p *Player) readyToPlay() bool {
	return p.isSeated() && !p.SittingOut && !p.Quitting && p.Chips > 0
}

// inHand is true for a dealt in player that has not folded.
func (p *Player) inHand() bool {
	return p.DealtIn && !p.Folded
}

// canAct is true when the player still has betting decisions to make.
func (p *Player) canAct() bool {
	return p.inHand() && !p.AllIn
}

func (p *Player) revealAll() {
	for i := range p.CardsRevealed {
		p.CardsRevealed[i] = true
	}
}

func (p *Player) revealedCards() []poker.Card {
	var cards []poker.Card
	for i, c := range p.HoleCards {
		if i < len(p.CardsRevealed) && p.CardsRevealed[i] {
			cards = append(cards, c)
		}
	}
	return cards
}

func (p *Player) resetForHand() {
	p.BetAmount = 0
	p.HoleCards = nil
	p.CardsRevealed = nil
	p.BestHand = nil
	p.LastAction = ActionWaitingToAct
	p.DealtIn = false
	p.Folded = false
	p.AllIn = false
	p.Winner = false
	p.TimeBanksUsedThisAction = 0
}
