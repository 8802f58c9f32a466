package poker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCard(t *testing.T) {
	c, err := NewCard("As")
	require.NoError(t, err)
	assert.Equal(t, 12, c.Rank())
	assert.Equal(t, uint8(1), c.Suit())
	assert.Equal(t, "As", c.String())

	c, err = NewCard("2c")
	require.NoError(t, err)
	assert.Equal(t, 0, c.Rank())
	assert.Equal(t, "2c", c.String())

	for _, bad := range []string{"", "A", "1s", "Ax", "Asd"} {
		_, err := NewCard(bad)
		assert.Error(t, err, bad)
	}
}

func TestCardJSON(t *testing.T) {
	c := MustCard("Td")
	b, err := c.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"Td"`, string(b))

	var back Card
	require.NoError(t, back.UnmarshalJSON(b))
	assert.Equal(t, c, back)
}

func TestDeckIsComplete(t *testing.T) {
	deck := NewDeck(nil)
	assert.Equal(t, 52, deck.Remaining())
	cards, err := deck.Draw(52)
	require.NoError(t, err)
	seen := make(map[Card]bool)
	for _, c := range cards {
		assert.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}
	assert.Len(t, seen, 52)
	_, err = deck.Draw(1)
	assert.Error(t, err)
}

func TestDeckFromScript(t *testing.T) {
	players := [][]Card{
		{MustCard("As"), MustCard("Ad")},
		{MustCard("Kh"), MustCard("Kc")},
	}
	board := []Card{MustCard("2c"), MustCard("7d"), MustCard("9h"), MustCard("Js"), MustCard("3s")}
	deck, err := DeckFromScript(players, board)
	require.NoError(t, err)

	first, _ := deck.Draw(4)
	assert.Equal(t, []Card{MustCard("As"), MustCard("Kh"), MustCard("Ad"), MustCard("Kc")}, first)
	flop, _ := deck.Draw(3)
	assert.Equal(t, board[:3], flop)
	assert.Equal(t, 45, deck.Remaining())
	assert.True(t, strings.HasPrefix(deck.PrettyPrint(), "[J♠ 3♠ "), deck.PrettyPrint())

	_, err = DeckFromScript([][]Card{{MustCard("As"), MustCard("As")}}, nil)
	assert.Error(t, err)
}
