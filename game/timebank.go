package game

import "time"

// replenishTimeBanks gives every player one time bank back every
// TimeBankReplenishIntervalHands hands, up to the table's count.
func (t *TableState) replenishTimeBanks() {
	interval := t.Params.TimeBankReplenishIntervalHands
	if interval <= 0 || t.HandNumber%interval != 0 {
		return
	}
	for _, p := range t.Players {
		if p.TimeBanksLeft < t.Params.TimeBankCount {
			p.TimeBanksLeft++
		}
	}
}

func (t *TableState) useTimeBank(p *Player) {
	p.TimeBanksLeft--
	p.TimeBanksUsedThisAction++
}

// actionDelay is the time the player to act has left, including any time
// banks spent on this decision.
func (t *TableState) actionDelay(now time.Time) time.Duration {
	p := t.player(t.CurrentPlayerToAct)
	total := t.Params.TimeToAct()
	if p != nil {
		total += time.Duration(p.TimeBanksUsedThisAction) * t.Params.TimeBankValue()
	}
	remaining := total - now.Sub(t.TurnStartedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}
