package poker

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Card packs a card into one byte.
// high 4 bits rank of the card, low 4 bits suit of the card
// 0000: 2 ... 1100: A
// 0001: Spade
// 0010: Heart
// 0100: Diamond
// 1000: Club
type Card uint8

const strRanks = "23456789TJQKA"

var (
	charSuitToIntSuit = map[uint8]uint8{
		's': 1, // spades
		'h': 2, // hearts
		'd': 4, // diamonds
		'c': 8, // clubs
	}
	intSuitToCharSuit = "xshxdxxxc"
	suitOrder         = []uint8{1, 2, 4, 8}
)

var prettySuits = map[uint8]string{
	1: "♠", // spades
	2: "❤", // hearts
	4: "♦", // diamonds
	8: "♣", // clubs
}

// NewCard parses a two character card such as "As" or "Td".
func NewCard(s string) (Card, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("invalid card %q", s)
	}
	rank := strings.IndexByte(strRanks, s[0])
	if rank < 0 {
		return 0, fmt.Errorf("invalid rank in card %q", s)
	}
	suit, ok := charSuitToIntSuit[s[1]]
	if !ok {
		return 0, fmt.Errorf("invalid suit in card %q", s)
	}
	return Card(uint8(rank)<<4 | suit), nil
}

// MustCard is NewCard for literals known to be valid.
func MustCard(s string) Card {
	c, err := NewCard(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseCards parses a list of card strings.
func ParseCards(cards []string) ([]Card, error) {
	ret := make([]Card, 0, len(cards))
	for _, s := range cards {
		c, err := NewCard(s)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %v", cards)
		}
		ret = append(ret, c)
	}
	return ret, nil
}

// Rank returns 0 for a deuce up to 12 for an ace.
func (c Card) Rank() int {
	return int(c >> 4)
}

func (c Card) Suit() uint8 {
	return uint8(c) & 0xF
}

func (c Card) String() string {
	if int(c.Rank()) >= len(strRanks) || int(c.Suit()) >= len(intSuitToCharSuit) {
		return "??"
	}
	return string(strRanks[c.Rank()]) + string(intSuitToCharSuit[c.Suit()])
}

// Pretty renders the card with a suit symbol.
func (c Card) Pretty() string {
	return fmt.Sprintf("%s%s", string(strRanks[c.Rank()]), prettySuits[c.Suit()])
}

func (c Card) MarshalJSON() ([]byte, error) {
	return []byte("\"" + c.String() + "\""), nil
}

func (c *Card) UnmarshalJSON(b []byte) error {
	if len(b) != 4 {
		return fmt.Errorf("invalid card json %s", string(b))
	}
	card, err := NewCard(string(b[1:3]))
	if err != nil {
		return err
	}
	*c = card
	return nil
}

func CardsToString(cards []Card) string {
	var b strings.Builder
	b.Grow(32)
	b.WriteString("[")
	for i, c := range cards {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(c.Pretty())
	}
	b.WriteString("]")
	return b.String()
}
