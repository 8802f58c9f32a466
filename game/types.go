package game

type GameType string

const (
	NLHE GameType = "NLHE"
	PLO  GameType = "PLO"
)

// HoleCardCount is the number of cards dealt to each player.
func (t GameType) HoleCardCount() int {
	if t == PLO {
		return 4
	}
	return 2
}

type BettingRoundStage string

const (
	Waiting BettingRoundStage = "WAITING"
	Preflop BettingRoundStage = "PREFLOP"
	Flop    BettingRoundStage = "FLOP"
	Turn    BettingRoundStage = "TURN"
	River   BettingRoundStage = "RIVER"
)

var nextRound = map[BettingRoundStage]BettingRoundStage{
	Waiting: Preflop,
	Preflop: Flop,
	Flop:    Turn,
	Turn:    River,
}

// boardCardsToDeal is how many community cards are dealt when a round starts.
var boardCardsToDeal = map[BettingRoundStage]int{
	Preflop: 0,
	Flop:    3,
	Turn:    1,
	River:   1,
}

// BettingRoundAction is both the type of a bet action and the last action
// recorded on a player.
type BettingRoundAction string

const (
	ActionWaitingToAct BettingRoundAction = "WAITING_TO_ACT"
	ActionCheck        BettingRoundAction = "CHECK"
	ActionFold         BettingRoundAction = "FOLD"
	ActionBet          BettingRoundAction = "BET"
	ActionCall         BettingRoundAction = "CALL"
	ActionAllIn        BettingRoundAction = "ALL_IN"
	ActionPlaceBlind   BettingRoundAction = "PLACE_BLIND"
)

// BetAction is a betting decision by the player to act.
// Amount is the total the player wants committed this round and is only
// read for ActionBet.
type BetAction struct {
	Type   BettingRoundAction `json:"type" yaml:"type"`
	Amount int64              `json:"amount" yaml:"amount"`
}

// Pot is a pile of chips and the players eligible to win it.
// Contestors are ordered by position index.
type Pot struct {
	Value      int64    `json:"value"`
	Contestors []string `json:"contestors"`
}

// BettingRoundState is reset at the start of every betting round.
type BettingRoundState struct {
	PreviousRaise        int64  `json:"previousRaise"`
	MinRaiseDiff         int64  `json:"minRaiseDiff"`
	PartialAllInLeftOver int64  `json:"partialAllInLeftOver"`
	LastAggressorUUID    string `json:"lastAggressorUUID"`
	LastFullRaiserUUID   string `json:"lastFullRaiserUUID"`
}

// Position is one entry of the per-hand seat assignment. Index 0 is the dealer.
type Position struct {
	Index      int    `json:"index"`
	UUID       string `json:"uuid"`
	SeatNumber int    `json:"seatNumber"`
	Name       string `json:"name"`
}
