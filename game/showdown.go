package game

import (
	"github.com/vpatov/justpoker-sub000/poker"
)

// PotResult records how one pot was awarded.
type PotResult struct {
	Value       int64            `json:"value"`
	Winners     []string         `json:"winners"`
	Amounts     []int64          `json:"amounts"`
	WinningHand *poker.HandValue `json:"winningHand"`
}

// splitPot divides value among n winners. Leftover chips go one at a time
// to the earliest winners.
func splitPot(value int64, n int) []int64 {
	amounts := make([]int64, n)
	share := value / int64(n)
	remainder := value % int64(n)
	for i := range amounts {
		amounts[i] = share
		if int64(i) < remainder {
			amounts[i]++
		}
	}
	return amounts
}

func (t *TableState) evaluate(eval poker.Evaluator, p *Player) (*poker.HandValue, error) {
	if t.Params.GameType == PLO {
		return eval.Omaha(p.HoleCards, t.Board)
	}
	return eval.Holdem(p.HoleCards, t.Board)
}

// updateBestHands recomputes the hand each live player currently holds.
func (t *TableState) updateBestHands(eval poker.Evaluator) error {
	if len(t.Board) < 3 {
		return nil
	}
	for _, p := range t.playersInHand() {
		v, err := t.evaluate(eval, p)
		if err != nil {
			return err
		}
		p.BestHand = v
	}
	return nil
}

// resolveNextPot awards the earliest remaining pot.
func (t *TableState) resolveNextPot(eval poker.Evaluator) (*PotResult, error) {
	if len(t.Pots) == 0 {
		return nil, invariantf("no pot left to award")
	}
	pot := t.Pots[0]
	t.Pots = t.Pots[1:]

	contestors := make([]*Player, 0, len(pot.Contestors))
	for _, uuid := range pot.Contestors {
		p := t.player(uuid)
		if p == nil {
			return nil, invariantf("pot contestor %s is not at the table", uuid)
		}
		contestors = append(contestors, p)
	}
	if len(contestors) == 0 {
		return nil, invariantf("pot of %d has no contestors", pot.Value)
	}

	result := &PotResult{Value: pot.Value}
	uncontested := t.everyoneButOneFolded() || len(contestors) == 1
	values := make(map[string]*poker.HandValue, len(contestors))
	var winners []*Player
	if uncontested {
		winners = contestors
	} else {
		var best *poker.HandValue
		for _, p := range contestors {
			v, err := t.evaluate(eval, p)
			if err != nil {
				return nil, invariantf("evaluating %s: %v", p.UUID, err)
			}
			values[p.UUID] = v
			p.BestHand = v
			switch {
			case best == nil || v.Compare(best) > 0:
				best = v
				winners = []*Player{p}
			case v.Compare(best) == 0:
				winners = append(winners, p)
			}
		}
		result.WinningHand = best
	}

	// contestors are in position order, so winners are too
	amounts := splitPot(pot.Value, len(winners))
	for i, w := range winners {
		w.Chips += amounts[i]
		w.Winner = true
		result.Winners = append(result.Winners, w.UUID)
		result.Amounts = append(result.Amounts, amounts[i])
	}

	for _, w := range winners {
		w.revealAll()
	}
	if !uncontested {
		t.revealShowdownHands(contestors, values, result.WinningHand)
	}
	t.HandResults = append(t.HandResults, result)
	return result, nil
}

// revealShowdownHands walks the contestors starting from the last aggressor
// and turns over every hand that beats or ties the best one shown so far.
func (t *TableState) revealShowdownHands(contestors []*Player, values map[string]*poker.HandValue, winning *poker.HandValue) {
	start := 1 % len(t.Positions)
	if idx := t.positionOf(t.BettingRound.LastAggressorUUID); idx >= 0 {
		start = idx
	}
	n := len(t.Positions)
	walk := make([]*Player, 0, len(contestors))
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		for _, c := range contestors {
			if t.positionOf(c.UUID) == idx {
				walk = append(walk, c)
			}
		}
	}

	var best *poker.HandValue
	for _, p := range walk {
		v := values[p.UUID]
		if best != nil && v.Compare(best) < 0 {
			continue
		}
		p.revealAll()
		best = v
		if v.Compare(winning) == 0 {
			break
		}
	}
}
