package game

import (
	mapset "github.com/deckarep/golang-set"
)

func contestorSet(contestors []string) mapset.Set {
	set := mapset.NewSet()
	for _, c := range contestors {
		set.Add(c)
	}
	return set
}

// coalescePots moves the round's bets into pots, returns uncalled excess to
// its bettor and deducts the settled bets from the stacks.
func (t *TableState) coalescePots() error {
	players := t.dealtInPlayers()
	remaining := make(map[string]int64, len(players))
	for _, p := range players {
		remaining[p.UUID] = p.BetAmount
	}

	var newPots []*Pot
	for {
		var contributors []string
		var lowest int64
		for _, p := range players {
			bet := remaining[p.UUID]
			if bet <= 0 {
				continue
			}
			contributors = append(contributors, p.UUID)
			if lowest == 0 || bet < lowest {
				lowest = bet
			}
		}
		if len(contributors) == 0 {
			break
		}
		for _, uuid := range contributors {
			remaining[uuid] -= lowest
		}
		pot := &Pot{Value: lowest * int64(len(contributors)), Contestors: contributors}
		if len(contributors) == 1 {
			// uncalled
			t.Players[contributors[0]].BetAmount -= pot.Value
			continue
		}
		newPots = append(newPots, pot)
	}

	pots := append(t.Pots, newPots...)
	for _, pot := range pots {
		var live []string
		for _, uuid := range pot.Contestors {
			if p := t.player(uuid); p != nil && !p.Folded {
				live = append(live, uuid)
			}
		}
		if len(live) == 0 {
			return invariantf("pot of %d has no live contestors", pot.Value)
		}
		pot.Contestors = live
	}

	var merged []*Pot
	for _, pot := range pots {
		found := false
		set := contestorSet(pot.Contestors)
		for _, m := range merged {
			if contestorSet(m.Contestors).Equal(set) {
				m.Value += pot.Value
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, pot)
		}
	}
	t.Pots = merged

	for _, p := range players {
		p.Chips -= p.BetAmount
		p.BetAmount = 0
	}
	return nil
}
