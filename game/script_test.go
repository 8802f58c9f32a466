package game

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vpatov/justpoker-sub000/gamescript"
	"github.com/vpatov/justpoker-sub000/poker"
)

func scriptParams(table gamescript.Table) GameParameters {
	params := testParams()
	if table.GameType != "" {
		params.GameType = GameType(table.GameType)
	}
	if table.SmallBlind > 0 {
		params.SmallBlind = table.SmallBlind
		params.BigBlind = table.BigBlind
	}
	if table.MaxPlayers > 0 {
		params.MaxPlayers = table.MaxPlayers
	}
	if table.BuyInMin > 0 {
		params.MinBuyIn = table.BuyInMin
	}
	if table.BuyInMax > 0 {
		params.MaxBuyIn = table.BuyInMax
	}
	if table.TimeToActSecs > 0 {
		params.TimeToActSecs = table.TimeToActSecs
	}
	if table.TimeBankCount > 0 {
		params.TimeBankCount = table.TimeBankCount
		params.TimeBankSecs = table.TimeBankSecs
	}
	params.AllowStraddle = table.AllowStraddle
	params.AllowHeadsUpShowCards = table.HeadsUpShowing
	return params
}

// scriptRunner plays a hand script against a machine, one player per
// starting seat named after the script's player.
type scriptRunner struct {
	*testTable
	script *gamescript.Script
}

func (r *scriptRunner) seatOf(uuid string) int {
	return r.script.GetSeatByPlayerName(uuid)
}

// dealOrder lists the players that will be dealt in next, in the order they
// receive cards.
func (r *scriptRunner) dealOrder() []*Player {
	state := r.state()
	ready := state.readyPlayers()
	dealer := 0
	for i, p := range ready {
		if p.SeatNumber > state.DealerSeat {
			dealer = i
			break
		}
	}
	var order []*Player
	for i := 1; i <= len(ready); i++ {
		order = append(order, ready[(dealer+i)%len(ready)])
	}
	return order
}

func (r *scriptRunner) setupHand(hand gamescript.Hand) {
	for _, seat := range hand.Setup.SitOut {
		r.process(r.script.GetPlayerNameBySeat(seat), SitOutPayload{})
	}
	if hand.Setup.ButtonSeat != nil {
		r.state().DealerSeat = *hand.Setup.ButtonSeat - 1
	}
	if len(hand.Setup.SeatCards) == 0 {
		return
	}
	cardsBySeat := make(map[int][]string)
	for _, sc := range hand.Setup.SeatCards {
		cardsBySeat[sc.Seat] = sc.Cards
	}
	var holeCards [][]string
	for _, p := range r.dealOrder() {
		cards, ok := cardsBySeat[p.SeatNumber]
		require.True(r.t, ok, "hand %d has no cards for seat %d", hand.Num, p.SeatNumber)
		holeCards = append(holeCards, cards)
	}
	r.stackDeck(holeCards, hand.Setup.Board)
}

func (r *scriptRunner) advanceRound() {
	r.advanceUntil(WaitingForBetAction, FinishBettingRound, PostHandCleanup)
}

func (r *scriptRunner) playRound(handNum int, name string, round gamescript.BettingRound) {
	state := r.state()
	for _, sa := range round.SeatActions {
		a := sa.Action
		uuid := r.script.GetPlayerNameBySeat(a.Seat)
		require.Equal(r.t, WaitingForBetAction, state.Stage, "hand %d %s: seat %d cannot act", handNum, name, a.Seat)
		require.Equal(r.t, uuid, state.CurrentPlayerToAct, "hand %d %s: seat %d acting out of turn", handNum, name, a.Seat)

		if a.Action == "TIMEOUT" {
			r.process("", TimeoutPayload{})
		} else {
			action := BetAction{Type: BettingRoundAction(a.Action), Amount: a.Amount}
			r.process(uuid, BetActionPayload{Action: action})
		}
		if sa.Verify != nil {
			p := r.player(uuid)
			if sa.Verify.Bet != nil {
				assert.Equal(r.t, *sa.Verify.Bet, p.BetAmount, "hand %d %s: seat %d bet", handNum, name, a.Seat)
			}
			if sa.Verify.Stack != nil {
				assert.Equal(r.t, *sa.Verify.Stack, p.Chips-p.BetAmount, "hand %d %s: seat %d stack", handNum, name, a.Seat)
			}
		}
		r.advanceRound()
	}

	require.Equal(r.t, FinishBettingRound, state.Stage, "hand %d %s: betting did not finish", handNum, name)
	if round.Verify.Board != nil {
		board, err := poker.ParseCards(round.Verify.Board)
		require.NoError(r.t, err)
		assert.Equal(r.t, board, state.Board, "hand %d %s: board", handNum, name)
	}
	if round.Verify.Pots != nil {
		var pots []gamescript.Pot
		for _, pot := range state.Pots {
			var seats []int
			for _, uuid := range pot.Contestors {
				seats = append(seats, r.seatOf(uuid))
			}
			pots = append(pots, gamescript.Pot{Pot: pot.Value, SeatsInPot: seats})
		}
		assert.Equal(r.t, round.Verify.Pots, pots, "hand %d %s: pots", handNum, name)
	}
}

// finishHand runs the showdown and returns which seats showed their cards
// and which mucked.
func (r *scriptRunner) finishHand() ([]int, []int) {
	state := r.state()
	var shown, mucked []int
	for i := 0; i < 100 && state.Stage != PostHandCleanup; i++ {
		if state.Stage == ShowWinner {
			shown, mucked = nil, nil
			for _, p := range state.playersInHand() {
				if len(p.revealedCards()) == len(p.HoleCards) {
					shown = append(shown, p.SeatNumber)
				} else {
					mucked = append(mucked, p.SeatNumber)
				}
			}
		}
		r.process("", TimeoutPayload{})
	}
	require.Equal(r.t, PostHandCleanup, state.Stage)
	sort.Ints(shown)
	sort.Ints(mucked)
	return shown, mucked
}

func (r *scriptRunner) verifyResult(hand gamescript.Hand, shown []int, mucked []int) {
	state := r.state()
	require.NotNil(r.t, state.LastHand)
	assert.Equal(r.t, hand.Num, state.LastHand.HandNumber)

	if hand.Result.Winners != nil {
		var winners []gamescript.HandWinner
		for i, result := range state.LastHand.Results {
			for j, uuid := range result.Winners {
				winners = append(winners, gamescript.HandWinner{Pot: i, Seat: r.seatOf(uuid), Receive: result.Amounts[j]})
			}
		}
		assert.Equal(r.t, hand.Result.Winners, winners, "hand %d winners", hand.Num)
	}
	for _, s := range hand.Result.Stacks {
		p := r.player(r.script.GetPlayerNameBySeat(s.Seat))
		assert.Equal(r.t, s.Stack, p.Chips, "hand %d: seat %d stack", hand.Num, s.Seat)
	}
	if hand.Result.Shown != nil {
		assert.Equal(r.t, hand.Result.Shown, shown, "hand %d shown", hand.Num)
	}
	if hand.Result.Mucked != nil {
		assert.Equal(r.t, hand.Result.Mucked, mucked, "hand %d mucked", hand.Num)
	}
}

func (r *scriptRunner) run() {
	for _, seat := range r.script.StartingSeats {
		r.seat(seat.Player, seat.Seat, seat.BuyIn)
		if seat.Straddle {
			r.process(seat.Player, SetStraddlePayload{Straddle: true})
		}
	}

	for i, hand := range r.script.Hands {
		r.setupHand(hand)
		if i == 0 {
			r.process("", StartPayload{})
		} else {
			require.Equal(r.t, PostHandCleanup, r.state().Stage)
			r.process("", TimeoutPayload{})
		}
		require.Equal(r.t, hand.Num, r.state().HandNumber)
		r.advanceRound()

		names := []string{"preflop", "flop", "turn", "river"}
		handOver := false
		for j, round := range hand.Rounds() {
			if handOver {
				require.Empty(r.t, round.SeatActions, "hand %d %s: hand is already over", hand.Num, names[j])
				continue
			}
			r.playRound(hand.Num, names[j], round)
			if isHandOver(r.state()) {
				handOver = true
				continue
			}
			r.process("", TimeoutPayload{})
			r.advanceRound()
		}
		shown, mucked := r.finishHand()
		r.verifyResult(hand, shown, mucked)
	}
}

func TestGameScripts(t *testing.T) {
	files, err := filepath.Glob("testdata/script_*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for _, file := range files {
		file := file
		t.Run(filepath.Base(file), func(t *testing.T) {
			script, err := gamescript.ReadGameScript(file)
			require.NoError(t, err)
			r := &scriptRunner{
				testTable: newTestTable(t, scriptParams(script.Table)),
				script:    script,
			}
			r.run()
		})
	}
}
