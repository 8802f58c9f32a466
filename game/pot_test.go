package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func potValues(pots []*Pot) []Pot {
	var values []Pot
	for _, p := range pots {
		values = append(values, *p)
	}
	return values
}

func TestCoalesceThreeWayAllIn(t *testing.T) {
	table := bettingTable(50, 120, 120)
	table.bet(table.Players["a"], 50, false)
	table.bet(table.Players["b"], 120, false)
	table.call(table.Players["c"])

	require.NoError(t, table.coalescePots())
	assert.Equal(t, []Pot{
		{Value: 150, Contestors: []string{"a", "b", "c"}},
		{Value: 140, Contestors: []string{"b", "c"}},
	}, potValues(table.Pots))
	for _, p := range table.Players {
		assert.Equal(t, int64(0), p.Chips, p.UUID)
		assert.Equal(t, int64(0), p.BetAmount, p.UUID)
	}
}

func TestCoalesceReturnsUncalledBet(t *testing.T) {
	table := bettingTable(100, 100)
	a, b := table.Players["a"], table.Players["b"]
	a.BetAmount = 30
	b.BetAmount = 10
	b.Folded = true

	require.NoError(t, table.coalescePots())
	assert.Equal(t, []Pot{{Value: 20, Contestors: []string{"a"}}}, potValues(table.Pots))
	assert.Equal(t, int64(90), a.Chips)
	assert.Equal(t, int64(90), b.Chips)
}

func TestCoalesceMergesSamePlayers(t *testing.T) {
	table := bettingTable(100, 100, 100)
	a, b, c := table.Players["a"], table.Players["b"], table.Players["c"]
	table.Pots = []*Pot{{Value: 30, Contestors: []string{"a", "b", "c"}}}
	a.BetAmount = 20
	b.BetAmount = 10
	c.BetAmount = 20
	b.Folded = true

	require.NoError(t, table.coalescePots())
	assert.Equal(t, []Pot{{Value: 80, Contestors: []string{"a", "c"}}}, potValues(table.Pots))
	assert.Equal(t, int64(80), a.Chips)
	assert.Equal(t, int64(90), b.Chips)
	assert.Equal(t, int64(80), c.Chips)
}

func TestCoalesceKeepsSidePotsApart(t *testing.T) {
	table := bettingTable(20, 100, 100)
	table.Pots = []*Pot{{Value: 60, Contestors: []string{"a", "b", "c"}}}
	table.bet(table.Players["a"], 20, false)
	table.bet(table.Players["b"], 50, false)
	table.call(table.Players["c"])

	require.NoError(t, table.coalescePots())
	assert.Equal(t, []Pot{
		{Value: 120, Contestors: []string{"a", "b", "c"}},
		{Value: 60, Contestors: []string{"b", "c"}},
	}, potValues(table.Pots))
}

func TestCoalesceWithoutLiveContestor(t *testing.T) {
	table := bettingTable(100, 100, 100)
	table.Pots = []*Pot{{Value: 10, Contestors: []string{"c"}}}
	table.Players["c"].Folded = true

	err := table.coalescePots()
	require.Error(t, err)
	_, ok := err.(*InvariantError)
	assert.True(t, ok)
}
