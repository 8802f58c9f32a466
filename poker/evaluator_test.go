package poker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cards(t *testing.T, s ...string) []Card {
	c, err := ParseCards(s)
	require.NoError(t, err)
	return c
}

func TestHoldemRanking(t *testing.T) {
	e := NewEvaluator()
	board := cards(t, "Ac", "Ad", "2c", "Td", "3s")

	trips, err := e.Holdem(cards(t, "Ah", "Qd"), board)
	require.NoError(t, err)
	twoPair, err := e.Holdem(cards(t, "Kh", "Kd"), board)
	require.NoError(t, err)
	wheel, err := e.Holdem(cards(t, "4h", "5d"), board)
	require.NoError(t, err)

	assert.Equal(t, 1, wheel.Compare(trips))
	assert.Equal(t, 1, trips.Compare(twoPair))
	assert.Equal(t, -1, twoPair.Compare(wheel))
	assert.Len(t, trips.Cards, 5)
	assert.NotEmpty(t, trips.Description)
}

func TestHoldemTie(t *testing.T) {
	e := NewEvaluator()
	board := cards(t, "Ac", "Kd", "Qh", "Js", "Tc")
	a, err := e.Holdem(cards(t, "2h", "3d"), board)
	require.NoError(t, err)
	b, err := e.Holdem(cards(t, "4h", "5d"), board)
	require.NoError(t, err)
	assert.Equal(t, 0, a.Compare(b))
}

func TestOmahaUsesExactlyTwoHoleCards(t *testing.T) {
	e := NewEvaluator()
	// four hearts in hand and two on board is not a flush in omaha
	board := cards(t, "2h", "7h", "Kc", "8d", "3s")
	flushless, err := e.Omaha(cards(t, "Ah", "Qh", "Jh", "9h"), board)
	require.NoError(t, err)
	holdemFlush, err := e.Holdem(cards(t, "Ah", "Qh"), cards(t, "2h", "7h", "Kh", "8d", "3s"))
	require.NoError(t, err)
	assert.Equal(t, -1, flushless.Compare(holdemFlush))

	_, err = e.Omaha(cards(t, "Ah", "Qh", "Jh", "9h"), board[:2])
	assert.Error(t, err)
}

func TestCombinations(t *testing.T) {
	assert.Len(t, combinations(7, 5), 21)
	assert.Len(t, combinations(4, 2), 6)
	assert.Equal(t, [][]int{{0, 1}, {0, 2}, {1, 2}}, combinations(3, 2))
}
