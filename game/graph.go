package game

// MaxConditionDepth bounds how many conditions may be chained on one edge.
const MaxConditionDepth = 3

// Predicate is a pure function of the table state.
type Predicate func(t *TableState) bool

// Edge leads to a fixed stage, or to a condition choosing between two edges.
type Edge struct {
	Stage Stage
	Cond  *Condition
}

type Condition struct {
	Name      string
	Predicate Predicate
	True      Edge
	False     Edge
}

func to(stage Stage) Edge {
	return Edge{Stage: stage}
}

func when(name string, predicate Predicate, ifTrue Edge, ifFalse Edge) Edge {
	return Edge{Cond: &Condition{Name: name, Predicate: predicate, True: ifTrue, False: ifFalse}}
}

// StageGraph maps a stage and an event to the edge to follow.
type StageGraph map[Stage]map[EventType]Edge

// NextStage resolves the edge for the event. It returns false when the
// stage has no edge for the event.
func (g StageGraph) NextStage(stage Stage, event EventType, t *TableState) (Stage, bool, error) {
	edges, ok := g[stage]
	if !ok {
		return "", false, nil
	}
	edge, ok := edges[event]
	if !ok {
		return "", false, nil
	}
	for depth := 0; edge.Cond != nil; depth++ {
		if depth >= MaxConditionDepth {
			return "", false, invariantf("condition chain from %s on %s is deeper than %d", stage, event, MaxConditionDepth)
		}
		if edge.Cond.Predicate(t) {
			edge = edge.Cond.True
		} else {
			edge = edge.Cond.False
		}
	}
	return edge.Stage, true, nil
}

func canContinueGame(t *TableState) bool {
	return t.ShouldDealNextHand && len(t.readyPlayers()) >= 2
}

func isAllInRunOut(t *TableState) bool {
	return t.IsAllInRunOut
}

func everyoneButOneFolded(t *TableState) bool {
	return t.everyoneButOneFolded()
}

func isBettingRoundOver(t *TableState) bool {
	return t.isBettingRoundOver()
}

func isHandOver(t *TableState) bool {
	return t.everyoneButOneFolded() || t.Round == River
}

func potsRemain(t *TableState) bool {
	return len(t.Pots) > 0
}

// DefaultStageGraph is the hand lifecycle.
func DefaultStageGraph() StageGraph {
	startHand := when("canContinueGame", canContinueGame, to(InitializeNewHand), to(NotInProgress))
	return StageGraph{
		NotInProgress: {
			EventStart:    startHand,
			EventSitDown:  startHand,
			EventSitIn:    startHand,
			EventBuyChips: startHand,
			EventSetChips: startHand,
		},
		InitializeNewHand: {
			EventTimeout: to(ShowStartOfHand),
		},
		ShowStartOfHand: {
			EventTimeout: to(ShowStartOfBettingRound),
		},
		ShowStartOfBettingRound: {
			EventTimeout: when("isAllInRunOut", isAllInRunOut, to(FinishBettingRound), to(SetCurrentPlayerToAct)),
		},
		SetCurrentPlayerToAct: {
			EventTimeout: to(WaitingForBetAction),
		},
		WaitingForBetAction: {
			EventBetAction:   to(ShowBetAction),
			EventTimeout:     to(ShowBetAction),
			EventUseTimeBank: to(WaitingForBetAction),
		},
		ShowBetAction: {
			EventTimeout: when("everyoneButOneFolded", everyoneButOneFolded,
				to(FinishBettingRound),
				when("isBettingRoundOver", isBettingRoundOver, to(FinishBettingRound), to(SetCurrentPlayerToAct))),
		},
		FinishBettingRound: {
			EventTimeout: when("isHandOver", isHandOver, to(ShowWinner), to(ShowStartOfBettingRound)),
		},
		ShowWinner: {
			EventTimeout: when("potsRemain", potsRemain, to(ShowWinner), to(PostHandCleanup)),
		},
		PostHandCleanup: {
			EventTimeout: startHand,
		},
	}
}
