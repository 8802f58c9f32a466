package game

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/vpatov/justpoker-sub000/logging"
	"github.com/vpatov/justpoker-sub000/poker"
	"github.com/vpatov/justpoker-sub000/util"
)

var machineLogger = logging.GetZeroLogger("game::machine", nil)

type NoticeKind string

const (
	NoticeHandInitialized NoticeKind = "HAND_INITIALIZED"
	NoticePotAwarded      NoticeKind = "POT_AWARDED"
	NoticeHandFinished    NoticeKind = "HAND_FINISHED"
)

// Notice is a hand log entry produced while processing an event.
type Notice struct {
	Kind       NoticeKind   `json:"kind"`
	TableID    string       `json:"tableID"`
	HandNumber int          `json:"handNumber"`
	Positions  []Position   `json:"positions,omitempty"`
	Board      []poker.Card `json:"board,omitempty"`
	Result     *PotResult   `json:"result,omitempty"`
	Summary    *HandSummary `json:"summary,omitempty"`
}

// Transition is the outcome of one processed event.
type Transition struct {
	From    Stage
	To      Stage
	Changed bool
	// ArmTimer is set when the new stage needs a TIMEOUT after Delay.
	ArmTimer bool
	Delay    time.Duration
	Notices  []Notice
}

// Machine drives one table through the hand lifecycle. It is not safe for
// concurrent use; the table loop owns it.
type Machine struct {
	state     *TableState
	graph     StageGraph
	delays    Delays
	evaluator poker.Evaluator
	newDeck   func() *poker.Deck
	now       func() time.Time
	notices   []Notice
	logger    zerolog.Logger
}

type MachineOption func(*Machine)

func WithGraph(g StageGraph) MachineOption {
	return func(m *Machine) { m.graph = g }
}

func WithDelays(d Delays) MachineOption {
	return func(m *Machine) { m.delays = d }
}

func WithEvaluator(e poker.Evaluator) MachineOption {
	return func(m *Machine) { m.evaluator = e }
}

// WithDeckSource replaces the shuffled deck used for every new hand.
func WithDeckSource(f func() *poker.Deck) MachineOption {
	return func(m *Machine) { m.newDeck = f }
}

func WithClock(now func() time.Time) MachineOption {
	return func(m *Machine) { m.now = now }
}

func NewMachine(tableID string, params GameParameters, opts ...MachineOption) *Machine {
	m := &Machine{
		state:     NewTableState(tableID, params),
		graph:     DefaultStageGraph(),
		delays:    DefaultDelays(),
		evaluator: poker.NewEvaluator(),
		newDeck:   func() *poker.Deck { return poker.NewDeck(nil) },
		now:       time.Now,
		logger:    machineLogger.With().Str(logging.TableIDKey, tableID).Logger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State exposes the table state for reading.
func (m *Machine) State() *TableState {
	return m.state
}

// AllowedActions returns the options of the player to act, if any.
func (m *Machine) AllowedActions() (string, AllowedActions, bool) {
	t := m.state
	p := t.player(t.CurrentPlayerToAct)
	if t.Stage != WaitingForBetAction || p == nil {
		return "", AllowedActions{}, false
	}
	return p.UUID, t.allowedActions(p), true
}

// Process validates and applies one event and moves to the next stage when
// the stage graph has an edge for it. A *ValidationError leaves the state
// untouched. Invariant violations panic with an *InvariantError.
func (m *Machine) Process(ev Event) (Transition, error) {
	t := m.state
	tr := Transition{From: t.Stage, To: t.Stage}
	if err := m.validate(ev); err != nil {
		util.Metrics.ValidationRejected()
		m.logger.Debug().
			Str(logging.PlayerIDKey, ev.PlayerUUID).
			Str(logging.ActionTypeKey, string(ev.Type())).
			Msgf("Rejected event: %s", err)
		return tr, err
	}

	if err := m.apply(ev); err != nil {
		m.fatal(err)
	}

	next, ok, err := m.graph.NextStage(t.Stage, ev.Type(), t)
	if err != nil {
		m.fatal(err)
	}
	if ok {
		m.enter(next)
		tr.To = next
		tr.Changed = true
		tr.Delay, tr.ArmTimer = m.delayFor(next)
	}
	tr.Notices = m.notices
	m.notices = nil
	return tr, nil
}

func (m *Machine) apply(ev Event) error {
	t := m.state
	player := t.player(ev.PlayerUUID)
	switch p := ev.Payload.(type) {
	case StartPayload:
		t.ShouldDealNextHand = true
	case StopPayload:
		t.ShouldDealNextHand = false
	case JoinPayload:
		t.Players[ev.PlayerUUID] = newPlayer(ev.PlayerUUID, p.Name, t.Params.TimeBankCount)
	case SitDownPayload:
		player.SeatNumber = p.Seat
		player.SittingOut = false
	case SitOutPayload:
		player.SittingOut = true
	case SitInPayload:
		player.SittingOut = false
	case LeavePayload:
		if t.isPlayerInActiveHand(player) {
			player.Quitting = true
			t.enqueue(queuedLeave{uuid: player.UUID})
		} else {
			t.removePlayer(player.UUID)
		}
	case BuyChipsPayload:
		if t.isPlayerInActiveHand(player) {
			t.enqueue(queuedBuyChips{uuid: player.UUID, amount: p.Amount})
		} else {
			player.Chips += p.Amount
		}
	case SetChipsPayload:
		target := t.player(p.TargetUUID)
		if t.isPlayerInActiveHand(target) {
			t.enqueue(queuedSetChips{uuid: target.UUID, amount: p.Amount})
		} else {
			target.Chips = p.Amount
		}
	case SetStraddlePayload:
		player.WantsStraddle = p.Straddle
	case UseTimeBankPayload:
		t.useTimeBank(player)
	case ShowCardPayload:
		for _, c := range p.Cards {
			for i, h := range player.HoleCards {
				if h == c {
					player.CardsRevealed[i] = true
				}
			}
		}
	case BootPlayerPayload:
		target := t.player(p.TargetUUID)
		if t.isPlayerInActiveHand(target) {
			target.Quitting = true
			t.enqueue(queuedBootPlayer{uuid: target.UUID})
		} else {
			t.removePlayer(target.UUID)
		}
	case SetParametersPayload:
		if t.Stage.HandInProgress() {
			t.enqueue(queuedSetParameters{params: p.Params})
		} else {
			t.Params = p.Params
			t.SmallBlind, t.BigBlind = p.Params.blindsForHand(t.HandNumber)
		}
	case SetDisconnectedPayload:
		player.Disconnected = p.Disconnected
	case BetActionPayload:
		if err := t.applyAction(player, p.Action); err != nil {
			return err
		}
		util.Metrics.ActionApplied()
	case TimeoutPayload:
		if t.Stage == WaitingForBetAction {
			return m.applyTimeoutAction()
		}
	default:
		return invariantf("unhandled event %T", ev.Payload)
	}
	return nil
}

// applyTimeoutAction checks for the player to act when possible and folds
// otherwise.
func (m *Machine) applyTimeoutAction() error {
	t := m.state
	p := t.player(t.CurrentPlayerToAct)
	if p == nil {
		return invariantf("timed out with no player to act")
	}
	action := BetAction{Type: ActionFold}
	if t.allowedActions(p).Check {
		action.Type = ActionCheck
	}
	m.logger.Info().
		Int(logging.HandNumKey, t.HandNumber).
		Str(logging.PlayerIDKey, p.UUID).
		Msgf("Player timed out, auto %s", action.Type)
	if err := t.applyAction(p, action); err != nil {
		return err
	}
	util.Metrics.ActionApplied()
	return nil
}

func (m *Machine) delayFor(stage Stage) (time.Duration, bool) {
	if stage == WaitingForBetAction {
		return m.state.actionDelay(m.now()), true
	}
	return m.delays.fixedDelay(stage, m.state.IsAllInRunOut)
}

func (m *Machine) enter(stage Stage) {
	t := m.state
	t.Stage = stage
	m.logger.Debug().Int(logging.HandNumKey, t.HandNumber).Str(logging.StageKey, string(stage)).Msg("Entering stage")

	var err error
	switch stage {
	case NotInProgress:
	case InitializeNewHand:
		err = m.initializeNewHand()
	case ShowStartOfHand:
	case ShowStartOfBettingRound:
		err = m.showStartOfBettingRound()
	case SetCurrentPlayerToAct:
		err = m.setCurrentPlayerToAct()
	case WaitingForBetAction:
		m.waitForBetAction()
	case ShowBetAction:
		m.showBetAction()
	case FinishBettingRound:
		err = m.finishBettingRound()
	case ShowWinner:
		err = m.showWinner()
	case PostHandCleanup:
		err = m.postHandCleanup()
	default:
		err = invariantf("unknown stage %q", stage)
	}
	if err != nil {
		m.fatal(err)
	}
}

// fatal logs the violation with the full table state and panics. The table
// loop recovers and stops the table.
func (m *Machine) fatal(err error) {
	dump, merr := m.state.Snapshot().Marshal()
	if merr != nil {
		dump = []byte(merr.Error())
	}
	m.logger.Error().
		Err(err).
		Int(logging.HandNumKey, m.state.HandNumber).
		Str(logging.StageKey, string(m.state.Stage)).
		RawJSON("state", dump).
		Msg("Table invariant violated")
	if _, ok := err.(*InvariantError); !ok {
		err = invariantf("%v", err)
	}
	panic(err)
}

func (m *Machine) notify(n Notice) {
	n.TableID = m.state.ID
	n.HandNumber = m.state.HandNumber
	m.notices = append(m.notices, n)
}

func (m *Machine) initializeNewHand() error {
	t := m.state
	t.HandNumber++
	t.SmallBlind, t.BigBlind = t.Params.blindsForHand(t.HandNumber)
	t.replenishTimeBanks()
	t.Deck = m.newDeck()

	for _, p := range t.Players {
		p.resetForHand()
	}
	t.Board = nil
	t.Pots = nil
	t.HandResults = nil
	t.Round = Waiting
	t.IsAllInRunOut = false
	t.SmallBlindUUID, t.BigBlindUUID, t.StraddleUUID = "", "", ""
	t.FirstToActUUID, t.CurrentPlayerToAct = "", ""
	t.BettingRound = BettingRoundState{MinRaiseDiff: t.BigBlind}

	if err := t.advanceDealer(); err != nil {
		return err
	}
	t.assignPositions()
	_, bbIdx := t.blindIndices()
	bigBlindSeat := t.Positions[bbIdx].SeatNumber
	t.markMissedBigBlinds(bigBlindSeat)

	for _, p := range t.dealtInPlayers() {
		p.ChipsAtStartOfHand = p.Chips
	}
	t.postBlinds()
	t.PreviousBigBlindSeat = bigBlindSeat

	util.Metrics.HandDealt()
	m.logger.Info().
		Int(logging.HandNumKey, t.HandNumber).
		Int("players", len(t.Positions)).
		Str("dealer", t.DealerUUID).
		Msg("New hand")
	m.notify(Notice{Kind: NoticeHandInitialized, Positions: append([]Position(nil), t.Positions...)})
	return nil
}

func (m *Machine) showStartOfBettingRound() error {
	t := m.state
	next, ok := nextRound[t.Round]
	if !ok {
		return invariantf("no betting round after %s", t.Round)
	}
	t.Round = next

	if t.Round == Preflop {
		if err := m.dealHoleCards(); err != nil {
			return err
		}
	} else {
		for _, p := range t.playersInHand() {
			p.BetAmount = 0
			if !p.AllIn {
				p.LastAction = ActionWaitingToAct
			}
		}
		t.BettingRound = BettingRoundState{MinRaiseDiff: t.BigBlind}
		cards, err := t.Deck.Draw(boardCardsToDeal[t.Round])
		if err != nil {
			return invariantf("dealing %s: %v", t.Round, err)
		}
		t.Board = append(t.Board, cards...)
	}

	t.CurrentPlayerToAct = ""
	t.FirstToActUUID = t.computeFirstToAct()
	if t.FirstToActUUID == "" && !t.IsAllInRunOut {
		// nobody left who can bet
		t.IsAllInRunOut = true
		for _, p := range t.playersInHand() {
			p.revealAll()
		}
	}
	if err := t.updateBestHands(m.evaluator); err != nil {
		return invariantf("evaluating hands: %v", err)
	}
	return nil
}

// dealHoleCards deals one card at a time around the table, starting left
// of the dealer.
func (m *Machine) dealHoleCards() error {
	t := m.state
	n := len(t.Positions)
	count := t.Params.GameType.HoleCardCount()
	for round := 0; round < count; round++ {
		for i := 1; i <= n; i++ {
			p := t.playerAt(i % n)
			cards, err := t.Deck.Draw(1)
			if err != nil {
				return invariantf("dealing hole cards: %v", err)
			}
			p.HoleCards = append(p.HoleCards, cards[0])
			p.CardsRevealed = append(p.CardsRevealed, false)
		}
	}
	return nil
}

func (m *Machine) setCurrentPlayerToAct() error {
	t := m.state
	var next *Player
	if t.CurrentPlayerToAct == "" {
		next = t.player(t.FirstToActUUID)
		if next != nil && !next.canAct() {
			next = t.nextActorFrom(t.positionOf(next.UUID))
		}
	} else {
		next = t.nextActorFrom(t.positionOf(t.CurrentPlayerToAct) + 1)
	}
	if next == nil {
		return invariantf("no player can act in %s", t.Round)
	}
	t.CurrentPlayerToAct = next.UUID
	return nil
}

func (m *Machine) waitForBetAction() {
	t := m.state
	p := t.player(t.CurrentPlayerToAct)
	if p != nil && p.TimeBanksUsedThisAction > 0 {
		// the clock keeps running while a time bank is in use
		return
	}
	t.TurnStartedAt = m.now()
}

func (m *Machine) showBetAction() {
	t := m.state
	if p := t.player(t.CurrentPlayerToAct); p != nil {
		p.TimeBanksUsedThisAction = 0
	}
}

func (m *Machine) finishBettingRound() error {
	t := m.state
	if !t.IsAllInRunOut && t.computeAllInRunOut() {
		t.IsAllInRunOut = true
		for _, p := range t.playersInHand() {
			p.revealAll()
		}
	}
	if err := t.coalescePots(); err != nil {
		return err
	}
	t.CurrentPlayerToAct = ""
	t.BettingRound.MinRaiseDiff = t.BigBlind
	t.BettingRound.PreviousRaise = 0
	t.BettingRound.LastFullRaiserUUID = ""
	t.BettingRound.PartialAllInLeftOver = 0
	return nil
}

func (m *Machine) showWinner() error {
	t := m.state
	result, err := t.resolveNextPot(m.evaluator)
	if err != nil {
		return err
	}
	m.logger.Info().
		Int(logging.HandNumKey, t.HandNumber).
		Int64("pot", result.Value).
		Strs("winners", result.Winners).
		Msg("Pot awarded")
	m.notify(Notice{Kind: NoticePotAwarded, Board: append([]poker.Card(nil), t.Board...), Result: result})
	return nil
}

func (m *Machine) postHandCleanup() error {
	t := m.state
	summary := &HandSummary{
		HandNumber: t.HandNumber,
		Results:    t.HandResults,
		ChipDeltas: make(map[string]int64),
	}
	for _, p := range t.dealtInPlayers() {
		summary.ChipDeltas[p.UUID] = p.Chips - p.ChipsAtStartOfHand
	}
	t.LastHand = summary

	for _, p := range t.seatedPlayers() {
		if p.Chips == 0 {
			p.SeatNumber = -1
		}
	}
	if err := t.drainQueue(); err != nil {
		return err
	}

	for _, p := range t.Players {
		p.resetForHand()
	}
	t.Board = nil
	t.Pots = nil
	t.HandResults = nil
	t.Positions = nil
	t.Round = Waiting
	t.IsAllInRunOut = false
	t.SmallBlindUUID, t.BigBlindUUID, t.StraddleUUID = "", "", ""
	t.FirstToActUUID, t.CurrentPlayerToAct = "", ""
	t.BettingRound = BettingRoundState{MinRaiseDiff: t.BigBlind}
	m.notify(Notice{Kind: NoticeHandFinished, Summary: summary})
	return nil
}
