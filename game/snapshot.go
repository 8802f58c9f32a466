package game

import (
	"github.com/vpatov/justpoker-sub000/poker"
)

// PlayerSnapshot is the public view of a player. Only revealed cards are
// included.
type PlayerSnapshot struct {
	UUID          string             `json:"uuid"`
	Name          string             `json:"name"`
	SeatNumber    int                `json:"seatNumber"`
	Position      string             `json:"position,omitempty"`
	Chips         int64              `json:"chips"`
	BetAmount     int64              `json:"betAmount"`
	LastAction    BettingRoundAction `json:"lastAction"`
	RevealedCards []poker.Card       `json:"revealedCards,omitempty"`
	HandLabel     string             `json:"handLabel,omitempty"`
	DealtIn       bool               `json:"dealtIn"`
	Folded        bool               `json:"folded"`
	AllIn         bool               `json:"allIn"`
	SittingOut    bool               `json:"sittingOut"`
	Disconnected  bool               `json:"disconnected"`
	Quitting      bool               `json:"quitting"`
	Winner        bool               `json:"winner"`
	OwesBigBlind  bool               `json:"owesBigBlind"`
	TimeBanksLeft int                `json:"timeBanksLeft"`
}

// Snapshot is an immutable copy of the table handed to transports and
// persistence.
type Snapshot struct {
	TableID            string            `json:"tableID"`
	Stage              Stage             `json:"stage"`
	HandNumber         int               `json:"handNumber"`
	Round              BettingRoundStage `json:"round"`
	SmallBlind         int64             `json:"smallBlind"`
	BigBlind           int64             `json:"bigBlind"`
	Board              []poker.Card      `json:"board"`
	Pots               []Pot             `json:"pots"`
	Players            []PlayerSnapshot  `json:"players"`
	DealerUUID         string            `json:"dealerUUID"`
	CurrentPlayerToAct string            `json:"currentPlayerToAct"`
	BettingRound       BettingRoundState `json:"bettingRound"`
	IsAllInRunOut      bool              `json:"isAllInRunOut"`
	ShouldDealNextHand bool              `json:"shouldDealNextHand"`
	QueuedCommands     int               `json:"queuedCommands"`
	HandResults        []PotResult       `json:"handResults"`
	LastHand           *HandSummary      `json:"lastHand,omitempty"`
	Params             GameParameters    `json:"params"`
}

func (t *TableState) Snapshot() *Snapshot {
	s := &Snapshot{
		TableID:            t.ID,
		Stage:              t.Stage,
		HandNumber:         t.HandNumber,
		Round:              t.Round,
		SmallBlind:         t.SmallBlind,
		BigBlind:           t.BigBlind,
		Board:              append([]poker.Card(nil), t.Board...),
		DealerUUID:         t.DealerUUID,
		CurrentPlayerToAct: t.CurrentPlayerToAct,
		BettingRound:       t.BettingRound,
		IsAllInRunOut:      t.IsAllInRunOut,
		ShouldDealNextHand: t.ShouldDealNextHand,
		QueuedCommands:     len(t.queue),
		Params:             t.Params,
	}
	s.Params.BlindSchedule = append([]BlindLevel(nil), t.Params.BlindSchedule...)
	for _, pot := range t.Pots {
		s.Pots = append(s.Pots, Pot{Value: pot.Value, Contestors: append([]string(nil), pot.Contestors...)})
	}
	for _, r := range t.HandResults {
		s.HandResults = append(s.HandResults, copyPotResult(r))
	}
	if t.LastHand != nil {
		last := &HandSummary{HandNumber: t.LastHand.HandNumber, ChipDeltas: make(map[string]int64)}
		for k, v := range t.LastHand.ChipDeltas {
			last.ChipDeltas[k] = v
		}
		for _, r := range t.LastHand.Results {
			copied := copyPotResult(r)
			last.Results = append(last.Results, &copied)
		}
		s.LastHand = last
	}

	// seated players first by seat, then everyone else
	seen := make(map[string]bool)
	for _, p := range t.seatedPlayers() {
		s.Players = append(s.Players, t.playerSnapshot(p))
		seen[p.UUID] = true
	}
	var standing []*Player
	for _, p := range t.Players {
		if !seen[p.UUID] {
			standing = append(standing, p)
		}
	}
	sortByUUID(standing)
	for _, p := range standing {
		s.Players = append(s.Players, t.playerSnapshot(p))
	}
	return s
}

func (t *TableState) playerSnapshot(p *Player) PlayerSnapshot {
	ps := PlayerSnapshot{
		UUID:          p.UUID,
		Name:          p.Name,
		SeatNumber:    p.SeatNumber,
		Chips:         p.Chips,
		BetAmount:     p.BetAmount,
		LastAction:    p.LastAction,
		RevealedCards: p.revealedCards(),
		DealtIn:       p.DealtIn,
		Folded:        p.Folded,
		AllIn:         p.AllIn,
		SittingOut:    p.SittingOut,
		Disconnected:  p.Disconnected,
		Quitting:      p.Quitting,
		Winner:        p.Winner,
		OwesBigBlind:  p.OwesMissedBigBlind,
		TimeBanksLeft: p.TimeBanksLeft,
	}
	if idx := t.positionOf(p.UUID); idx >= 0 && t.Stage.HandInProgress() {
		ps.Position = t.Positions[idx].Name
	}
	if p.BestHand != nil && len(ps.RevealedCards) == len(p.HoleCards) && len(p.HoleCards) > 0 {
		ps.HandLabel = p.BestHand.Description
	}
	return ps
}

func copyPotResult(r *PotResult) PotResult {
	c := PotResult{
		Value:   r.Value,
		Winners: append([]string(nil), r.Winners...),
		Amounts: append([]int64(nil), r.Amounts...),
	}
	if r.WinningHand != nil {
		hand := *r.WinningHand
		hand.Cards = append([]poker.Card(nil), r.WinningHand.Cards...)
		c.WinningHand = &hand
	}
	return c
}

// Marshal encodes the snapshot as JSON.
func (s *Snapshot) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	s := &Snapshot{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}
