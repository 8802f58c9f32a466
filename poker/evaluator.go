package poker

import (
	"fmt"

	ph "github.com/paulhankin/poker"
	"github.com/pkg/errors"
)

// HandValue is the best five card hand a player can make.
// Higher Strength is better; equal strengths tie.
type HandValue struct {
	Strength    int16  `json:"strength"`
	Description string `json:"description"`
	Cards       []Card `json:"cards"`
}

// Compare returns 1 if h beats other, -1 if it loses and 0 on a tie.
func (h *HandValue) Compare(other *HandValue) int {
	switch {
	case h.Strength > other.Strength:
		return 1
	case h.Strength < other.Strength:
		return -1
	}
	return 0
}

// Evaluator ranks hands. Holdem plays any five of hole and board cards,
// Omaha exactly two hole cards and three board cards.
type Evaluator interface {
	Holdem(hole []Card, board []Card) (*HandValue, error)
	Omaha(hole []Card, board []Card) (*HandValue, error)
}

type tableEvaluator struct{}

// NewEvaluator returns the default evaluator backed by paulhankin/poker.
func NewEvaluator() Evaluator {
	return tableEvaluator{}
}

// paulhankin suits are club, diamond, heart, spade (0-3) and ranks run
// ace=1 through king=13.
var suitToEvalSuit = map[uint8]int{8: 0, 4: 1, 2: 2, 1: 3}

func toEvalCard(c Card) (ph.Card, error) {
	suit, ok := suitToEvalSuit[c.Suit()]
	if !ok {
		return 0, fmt.Errorf("invalid suit in card %d", c)
	}
	rank := c.Rank() + 2
	if rank == 14 {
		rank = 1
	}
	return ph.MakeCard(ph.Suit(suit), ph.Rank(rank))
}

func (e tableEvaluator) Holdem(hole []Card, board []Card) (*HandValue, error) {
	cards := make([]Card, 0, len(hole)+len(board))
	cards = append(cards, hole...)
	cards = append(cards, board...)
	if len(cards) < 5 {
		return nil, fmt.Errorf("need at least 5 cards to evaluate, got %d", len(cards))
	}
	var best *HandValue
	for _, combo := range combinations(len(cards), 5) {
		five := []Card{cards[combo[0]], cards[combo[1]], cards[combo[2]], cards[combo[3]], cards[combo[4]]}
		v, err := eval5(five)
		if err != nil {
			return nil, err
		}
		if best == nil || v.Strength > best.Strength {
			best = v
		}
	}
	return describe(best)
}

func (e tableEvaluator) Omaha(hole []Card, board []Card) (*HandValue, error) {
	if len(hole) < 2 || len(board) < 3 {
		return nil, fmt.Errorf("need 2 hole and 3 board cards, got %d and %d", len(hole), len(board))
	}
	var best *HandValue
	for _, h := range combinations(len(hole), 2) {
		for _, b := range combinations(len(board), 3) {
			five := []Card{hole[h[0]], hole[h[1]], board[b[0]], board[b[1]], board[b[2]]}
			v, err := eval5(five)
			if err != nil {
				return nil, err
			}
			if best == nil || v.Strength > best.Strength {
				best = v
			}
		}
	}
	return describe(best)
}

func eval5(cards []Card) (*HandValue, error) {
	var hand [5]ph.Card
	for i, c := range cards {
		ec, err := toEvalCard(c)
		if err != nil {
			return nil, err
		}
		hand[i] = ec
	}
	return &HandValue{Strength: ph.Eval5(&hand), Cards: cards}, nil
}

func describe(v *HandValue) (*HandValue, error) {
	hand := make([]ph.Card, len(v.Cards))
	for i, c := range v.Cards {
		ec, err := toEvalCard(c)
		if err != nil {
			return nil, err
		}
		hand[i] = ec
	}
	desc, err := ph.Describe(hand)
	if err != nil {
		return nil, errors.Wrap(err, "describing hand")
	}
	v.Description = desc
	return v, nil
}

// combinations returns every k-subset of 0..n-1 in lexicographic order.
func combinations(n int, k int) [][]int {
	var result [][]int
	combo := make([]int, k)
	var rec func(start int, depth int)
	rec = func(start int, depth int) {
		if depth == k {
			c := make([]int, k)
			copy(c, combo)
			result = append(result, c)
			return
		}
		for i := start; i <= n-(k-depth); i++ {
			combo[depth] = i
			rec(i+1, depth+1)
		}
	}
	rec(0, 0)
	return result
}
