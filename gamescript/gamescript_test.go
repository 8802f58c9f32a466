package gamescript

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestReadGameScript(t *testing.T) {
	script, err := ReadGameScript("test_scripts/script1.yaml")
	require.NoError(t, err)
	require.NotNil(t, script)

	expectedTable := Table{
		GameType:      "NLHE",
		SmallBlind:    1,
		BigBlind:      2,
		MaxPlayers:    6,
		BuyInMin:      20,
		BuyInMax:      300,
		AllowStraddle: true,
	}
	if !cmp.Equal(script.Table, expectedTable) {
		t.Error(cmp.Diff(expectedTable, script.Table))
	}

	expectedSeats := []StartingSeat{
		{Seat: 0, Player: "yong", BuyIn: 100},
		{Seat: 1, Player: "brian", BuyIn: 100, Straddle: true},
		{Seat: 2, Player: "tom", BuyIn: 150},
	}
	if !cmp.Equal(script.StartingSeats, expectedSeats) {
		t.Error(cmp.Diff(expectedSeats, script.StartingSeats))
	}

	require.Len(t, script.Hands, 1)
	hand := script.Hands[0]
	require.NotNil(t, hand.Setup.ButtonSeat)
	assert.Equal(t, 0, *hand.Setup.ButtonSeat)
	expectedActions := []Action{
		{Seat: 0, Action: "CALL"},
		{Seat: 1, Action: "BET", Amount: 6},
		{Seat: 2, Action: "FOLD"},
		{Seat: 0, Action: "TIMEOUT"},
	}
	var actions []Action
	for _, sa := range hand.Preflop.SeatActions {
		actions = append(actions, sa.Action)
	}
	if !cmp.Equal(actions, expectedActions) {
		t.Error(cmp.Diff(expectedActions, actions))
	}
	require.NotNil(t, hand.Preflop.SeatActions[1].Verify)
	assert.Equal(t, int64(6), *hand.Preflop.SeatActions[1].Verify.Bet)
	assert.Equal(t, []Pot{{Pot: 14, SeatsInPot: []int{1}}}, hand.Preflop.Verify.Pots)
	assert.Equal(t, []HandWinner{{Pot: 0, Seat: 1, Receive: 14}}, hand.Result.Winners)

	assert.Equal(t, 1, script.GetSeatByPlayerName("brian"))
	assert.Equal(t, -1, script.GetSeatByPlayerName("nobody"))
	assert.Equal(t, "tom", script.GetPlayerNameBySeat(2))
}

func TestActionUnmarshal(t *testing.T) {
	var a Action
	require.NoError(t, yaml.Unmarshal([]byte(`"3, bet, 40"`), &a))
	assert.Equal(t, Action{Seat: 3, Action: "BET", Amount: 40}, a)

	assert.Error(t, yaml.Unmarshal([]byte(`"3"`), &a))
	assert.Error(t, yaml.Unmarshal([]byte(`"x, FOLD"`), &a))
	assert.Error(t, yaml.Unmarshal([]byte(`"1, BET, lots"`), &a))
}

func TestValidate(t *testing.T) {
	dupSeat := Script{StartingSeats: []StartingSeat{{Seat: 1, Player: "a"}, {Seat: 1, Player: "b"}}}
	assert.Error(t, dupSeat.Validate())

	dupName := Script{StartingSeats: []StartingSeat{{Seat: 1, Player: "a"}, {Seat: 2, Player: "a"}}}
	assert.Error(t, dupName.Validate())

	badAction := Script{
		StartingSeats: []StartingSeat{{Seat: 1, Player: "a"}},
		Hands: []Hand{{
			Preflop: BettingRound{SeatActions: []SeatAction{{Action: Action{Seat: 1, Action: "RAISE"}}}},
		}},
	}
	assert.Error(t, badAction.Validate())

	dupCard := Script{
		StartingSeats: []StartingSeat{{Seat: 1, Player: "a"}},
		Hands: []Hand{{
			Setup: HandSetup{
				SeatCards: []SeatCards{{Seat: 1, Cards: []string{"As", "Kd"}}},
				Board:     []string{"As", "2c", "3c"},
			},
		}},
	}
	assert.Error(t, dupCard.Validate())

	unknownSeat := Script{
		StartingSeats: []StartingSeat{{Seat: 1, Player: "a"}},
		Hands: []Hand{{
			Flop: BettingRound{SeatActions: []SeatAction{{Action: Action{Seat: 4, Action: "CHECK"}}}},
		}},
	}
	assert.Error(t, unknownSeat.Validate())
}
