package game

type Stage string

const (
	NotInProgress           Stage = "NOT_IN_PROGRESS"
	InitializeNewHand       Stage = "INITIALIZE_NEW_HAND"
	ShowStartOfHand         Stage = "SHOW_START_OF_HAND"
	ShowStartOfBettingRound Stage = "SHOW_START_OF_BETTING_ROUND"
	SetCurrentPlayerToAct   Stage = "SET_CURRENT_PLAYER_TO_ACT"
	WaitingForBetAction     Stage = "WAITING_FOR_BET_ACTION"
	ShowBetAction           Stage = "SHOW_BET_ACTION"
	FinishBettingRound      Stage = "FINISH_BETTING_ROUND"
	ShowWinner              Stage = "SHOW_WINNER"
	PostHandCleanup         Stage = "POST_HAND_CLEANUP"
)

// AllStages lists the stages in lifecycle order.
var AllStages = []Stage{
	NotInProgress,
	InitializeNewHand,
	ShowStartOfHand,
	ShowStartOfBettingRound,
	SetCurrentPlayerToAct,
	WaitingForBetAction,
	ShowBetAction,
	FinishBettingRound,
	ShowWinner,
	PostHandCleanup,
}

// HandInProgress is true for every stage between the start of a hand and
// the end of its cleanup.
func (s Stage) HandInProgress() bool {
	return s != NotInProgress
}
