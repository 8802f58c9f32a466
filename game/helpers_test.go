package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vpatov/justpoker-sub000/poker"
)

func testParams() GameParameters {
	params := DefaultParameters()
	params.MinBuyIn = 10
	params.MaxBuyIn = 1000
	return params
}

// testTable drives a Machine synchronously, standing in for the table loop
// and its timer.
type testTable struct {
	t     *testing.T
	m     *Machine
	now   time.Time
	decks []*poker.Deck
	total int64
}

func newTestTable(t *testing.T, params GameParameters, opts ...MachineOption) *testTable {
	tt := &testTable{t: t, now: time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)}
	opts = append([]MachineOption{
		WithClock(func() time.Time { return tt.now }),
		WithDeckSource(tt.nextDeck),
	}, opts...)
	tt.m = NewMachine("table-1", params, opts...)
	return tt
}

func (tt *testTable) nextDeck() *poker.Deck {
	if len(tt.decks) == 0 {
		return poker.NewDeck(nil)
	}
	deck := tt.decks[0]
	tt.decks = tt.decks[1:]
	return deck
}

// stackDeck queues a deck for the next hand. Hole cards are listed in
// dealing order, which starts left of the dealer.
func (tt *testTable) stackDeck(holeCards [][]string, board []string) {
	var players [][]poker.Card
	for _, cards := range holeCards {
		parsed, err := poker.ParseCards(cards)
		require.NoError(tt.t, err)
		players = append(players, parsed)
	}
	boardCards, err := poker.ParseCards(board)
	require.NoError(tt.t, err)
	deck, err := poker.DeckFromScript(players, boardCards)
	require.NoError(tt.t, err)
	tt.decks = append(tt.decks, deck)
}

func (tt *testTable) state() *TableState {
	return tt.m.State()
}

func (tt *testTable) player(uuid string) *Player {
	p := tt.state().player(uuid)
	require.NotNil(tt.t, p, "player %s", uuid)
	return p
}

func (tt *testTable) process(uuid string, payload Payload) Transition {
	tr, err := tt.m.Process(Event{PlayerUUID: uuid, Payload: payload})
	require.NoError(tt.t, err, "%s %T", uuid, payload)
	tt.assertConserved()
	return tr
}

func (tt *testTable) reject(uuid string, payload Payload, code ValidationCode) {
	_, err := tt.m.Process(Event{PlayerUUID: uuid, Payload: payload})
	require.Error(tt.t, err)
	verr, ok := err.(*ValidationError)
	require.True(tt.t, ok, "expected a validation error, got %v", err)
	require.Equal(tt.t, code, verr.Code, verr.Msg)
}

// seat joins, seats and buys in a player.
func (tt *testTable) seat(uuid string, seat int, chips int64) {
	tt.process(uuid, JoinPayload{Name: uuid})
	tt.process(uuid, SitDownPayload{Seat: seat})
	tt.total += chips
	tt.process(uuid, BuyChipsPayload{Amount: chips})
}

// advanceUntil fires timeouts until the table reaches one of the stages.
func (tt *testTable) advanceUntil(stages ...Stage) Transition {
	var tr Transition
	for i := 0; i < 100; i++ {
		for _, s := range stages {
			if tt.state().Stage == s {
				return tr
			}
		}
		tr = tt.process("", TimeoutPayload{})
	}
	tt.t.Fatalf("table never reached %v, stuck at %s", stages, tt.state().Stage)
	return tr
}

// advance runs the table to the next decision or to the end of the hand.
func (tt *testTable) advance() Transition {
	return tt.advanceUntil(WaitingForBetAction, PostHandCleanup, NotInProgress)
}

func (tt *testTable) start() {
	tt.process("", StartPayload{})
	tt.advance()
}

func (tt *testTable) act(uuid string, typ BettingRoundAction, amount int64) {
	require.Equal(tt.t, WaitingForBetAction, tt.state().Stage)
	require.Equal(tt.t, uuid, tt.state().CurrentPlayerToAct, "acting out of turn")
	tt.process(uuid, BetActionPayload{Action: BetAction{Type: typ, Amount: amount}})
	tt.advance()
}

// assertConserved checks that no chips were created or lost. Bets stay
// inside Chips until the round settles into the pots.
func (tt *testTable) assertConserved() {
	if tt.total == 0 {
		return
	}
	var sum int64
	for _, p := range tt.state().Players {
		sum += p.Chips
	}
	sum += tt.state().totalPotValue()
	require.Equal(tt.t, tt.total, sum, "chips are not conserved at %s", tt.state().Stage)
}

// bettingTable builds a table mid flop with the given stacks dealt in, in
// position order, named a, b, c...
func bettingTable(stacks ...int64) *TableState {
	t := NewTableState("table-1", testParams())
	t.Stage = WaitingForBetAction
	t.Round = Flop
	t.BettingRound = BettingRoundState{MinRaiseDiff: t.BigBlind}
	for i, chips := range stacks {
		uuid := string(rune('a' + i))
		p := newPlayer(uuid, uuid, 0)
		p.SeatNumber = i
		p.Chips = chips
		p.DealtIn = true
		t.Players[uuid] = p
		t.Positions = append(t.Positions, Position{Index: i, UUID: uuid, SeatNumber: i})
	}
	return t
}
