package game

import (
	"sort"
	"time"

	"github.com/vpatov/justpoker-sub000/poker"
)

// HandSummary is what remains of a hand after cleanup.
type HandSummary struct {
	HandNumber int              `json:"handNumber"`
	Results    []*PotResult     `json:"results"`
	ChipDeltas map[string]int64 `json:"chipDeltas"`
}

// TableState is the single store of table and hand state. It is owned by
// one table loop and never shared across goroutines.
type TableState struct {
	ID     string
	Params GameParameters

	Stage      Stage
	HandNumber int
	Round      BettingRoundStage
	SmallBlind int64
	BigBlind   int64

	Players map[string]*Player

	Board     []poker.Card
	Deck      *poker.Deck
	Pots      []*Pot
	Positions []Position

	DealerSeat           int
	PreviousBigBlindSeat int
	DealerUUID           string
	SmallBlindUUID       string
	BigBlindUUID         string
	StraddleUUID         string

	FirstToActUUID     string
	CurrentPlayerToAct string
	TurnStartedAt      time.Time
	BettingRound       BettingRoundState

	IsAllInRunOut      bool
	ShouldDealNextHand bool

	queue commandQueue

	HandResults []*PotResult
	LastHand    *HandSummary
}

func NewTableState(id string, params GameParameters) *TableState {
	return &TableState{
		ID:                   id,
		Params:               params,
		Stage:                NotInProgress,
		Round:                Waiting,
		SmallBlind:           params.SmallBlind,
		BigBlind:             params.BigBlind,
		Players:              make(map[string]*Player),
		DealerSeat:           -1,
		PreviousBigBlindSeat: -1,
	}
}

func (t *TableState) player(uuid string) *Player {
	if uuid == "" {
		return nil
	}
	return t.Players[uuid]
}

// seatedPlayers returns the seated players ordered by seat number.
func (t *TableState) seatedPlayers() []*Player {
	var players []*Player
	for _, p := range t.Players {
		if p.isSeated() {
			players = append(players, p)
		}
	}
	sort.Slice(players, func(i, j int) bool {
		return players[i].SeatNumber < players[j].SeatNumber
	})
	return players
}

func (t *TableState) playerInSeat(seat int) *Player {
	for _, p := range t.Players {
		if p.SeatNumber == seat {
			return p
		}
	}
	return nil
}

func (t *TableState) readyPlayers() []*Player {
	var ready []*Player
	for _, p := range t.seatedPlayers() {
		if p.readyToPlay() {
			ready = append(ready, p)
		}
	}
	return ready
}

// playerAt returns the player at a position index of the current hand.
func (t *TableState) playerAt(index int) *Player {
	if index < 0 || index >= len(t.Positions) {
		return nil
	}
	return t.Players[t.Positions[index].UUID]
}

func (t *TableState) positionOf(uuid string) int {
	for _, pos := range t.Positions {
		if pos.UUID == uuid {
			return pos.Index
		}
	}
	return -1
}

// dealtInPlayers returns the players of the current hand in position order.
func (t *TableState) dealtInPlayers() []*Player {
	players := make([]*Player, 0, len(t.Positions))
	for i := range t.Positions {
		if p := t.playerAt(i); p != nil && p.DealtIn {
			players = append(players, p)
		}
	}
	return players
}

func (t *TableState) playersInHand() []*Player {
	var players []*Player
	for _, p := range t.dealtInPlayers() {
		if p.inHand() {
			players = append(players, p)
		}
	}
	return players
}

func (t *TableState) isHeadsUp() bool {
	return len(t.Positions) == 2
}

// isPlayerInActiveHand is true while the player takes part in a hand that
// has not been cleaned up yet.
func (t *TableState) isPlayerInActiveHand(p *Player) bool {
	return t.Stage.HandInProgress() && p.DealtIn
}

func (t *TableState) highestBet() int64 {
	var highest int64
	for _, p := range t.dealtInPlayers() {
		if p.BetAmount > highest {
			highest = p.BetAmount
		}
	}
	return highest
}

func (t *TableState) totalPotValue() int64 {
	var total int64
	for _, pot := range t.Pots {
		total += pot.Value
	}
	return total
}

func (t *TableState) totalRoundBets() int64 {
	var total int64
	for _, p := range t.dealtInPlayers() {
		total += p.BetAmount
	}
	return total
}

func (t *TableState) stacks() []int64 {
	var stacks []int64
	for _, p := range t.seatedPlayers() {
		stacks = append(stacks, p.Chips)
	}
	return stacks
}

func (t *TableState) removePlayer(uuid string) {
	delete(t.Players, uuid)
}

func sortByUUID(players []*Player) {
	sort.Slice(players, func(i, j int) bool {
		return players[i].UUID < players[j].UUID
	})
}
