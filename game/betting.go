package game

func max64(values ...int64) int64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func min64(a int64, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// AllowedActions describes what the player to act may do.
type AllowedActions struct {
	Fold       bool  `json:"fold"`
	Check      bool  `json:"check"`
	Call       bool  `json:"call"`
	Bet        bool  `json:"bet"`
	CallAmount int64 `json:"callAmount"`
	MinBet     int64 `json:"minBet"`
	MaxBet     int64 `json:"maxBet"`
}

func (t *TableState) allowedActions(p *Player) AllowedActions {
	highest := t.highestBet()
	r := t.BettingRound
	allowed := AllowedActions{Fold: true}
	if p.BetAmount >= highest {
		allowed.Check = true
	} else {
		allowed.Call = true
		allowed.CallAmount = min64(r.PreviousRaise, p.Chips)
	}

	othersCanAct := false
	for _, other := range t.playersInHand() {
		if other.UUID != p.UUID && !other.AllIn {
			othersCanAct = true
			break
		}
	}
	// a short all-in does not reopen the action to the last full raiser
	allowed.Bet = p.Chips > highest && othersCanAct && p.UUID != r.LastFullRaiserUUID
	if allowed.Bet {
		allowed.MinBet = min64(r.PreviousRaise+r.MinRaiseDiff, p.Chips)
		allowed.MaxBet = p.Chips
		if t.Params.GameType == PLO {
			allowed.MaxBet = min64(t.potLimitMaxBet(p), p.Chips)
		}
	}
	return allowed
}

// potLimitMaxBet is the largest total the player may commit this round: the
// highest bet plus the pot after calling it.
func (t *TableState) potLimitMaxBet(p *Player) int64 {
	highest := t.highestBet()
	toCall := highest - p.BetAmount
	return highest + t.totalPotValue() + t.totalRoundBets() + toCall
}

// applyAction mutates the table for a validated bet action by the player
// to act.
func (t *TableState) applyAction(p *Player, action BetAction) error {
	if t.Stage != WaitingForBetAction || p.UUID != t.CurrentPlayerToAct {
		return invariantf("%s acted out of turn at stage %s", p.UUID, t.Stage)
	}
	switch action.Type {
	case ActionCheck:
		t.check(p)
	case ActionFold:
		t.fold(p)
	case ActionCall:
		t.call(p)
	case ActionBet:
		t.bet(p, action.Amount, false)
	default:
		return invariantf("unknown bet action %q", action.Type)
	}
	return nil
}

func (t *TableState) check(p *Player) {
	p.LastAction = ActionCheck
}

func (t *TableState) fold(p *Player) {
	p.Folded = true
	p.LastAction = ActionFold
}

func (t *TableState) call(p *Player) {
	r := &t.BettingRound
	amount := min64(r.PreviousRaise, p.Chips)
	p.BetAmount = amount
	if amount == p.Chips {
		p.AllIn = true
		p.LastAction = ActionAllIn
		if amount < r.PreviousRaise {
			r.PartialAllInLeftOver = r.PreviousRaise - amount
		}
		return
	}
	p.LastAction = ActionCall
}

// bet commits amount as the player's total for the round. Blinds go
// through the same path.
func (t *TableState) bet(p *Player, amount int64, blind bool) {
	if amount > p.Chips {
		amount = p.Chips
	}
	r := &t.BettingRound
	allIn := amount == p.Chips
	if amount-r.PreviousRaise >= r.MinRaiseDiff {
		r.MinRaiseDiff = max64(t.BigBlind, amount-r.PreviousRaise)
		if !blind {
			r.LastFullRaiserUUID = p.UUID
		}
		r.PartialAllInLeftOver = 0
	} else if allIn {
		if amount <= r.PreviousRaise {
			r.PartialAllInLeftOver = r.PreviousRaise - amount
		} else {
			r.PartialAllInLeftOver = r.PreviousRaise + r.MinRaiseDiff - amount
		}
	}
	r.PreviousRaise = max64(r.PreviousRaise, t.BigBlind, amount)
	r.LastAggressorUUID = p.UUID

	p.BetAmount = amount
	switch {
	case allIn:
		p.AllIn = true
		p.LastAction = ActionAllIn
	case blind:
		p.LastAction = ActionPlaceBlind
	default:
		p.LastAction = ActionBet
	}
}

// postBlinds posts the small blind, any owed big blinds, the big blind and
// the straddle, in that order.
func (t *TableState) postBlinds() {
	sbIdx, bbIdx := t.blindIndices()
	sb := t.playerAt(sbIdx)
	bb := t.playerAt(bbIdx)

	t.bet(sb, t.SmallBlind, true)
	t.SmallBlindUUID = sb.UUID
	sb.OwesMissedBigBlind = false

	for i := range t.Positions {
		p := t.playerAt(i)
		if i == sbIdx || i == bbIdx || !p.OwesMissedBigBlind {
			continue
		}
		t.bet(p, t.BigBlind, true)
		p.OwesMissedBigBlind = false
	}

	t.bet(bb, t.BigBlind, true)
	t.BigBlindUUID = bb.UUID
	bb.OwesMissedBigBlind = false

	n := len(t.Positions)
	if t.Params.AllowStraddle && n >= 3 {
		straddler := t.playerAt((bbIdx + 1) % n)
		if straddler.WantsStraddle && !straddler.AllIn {
			t.bet(straddler, 2*t.BigBlind, true)
			t.StraddleUUID = straddler.UUID
		}
	}
}

// isBettingRoundOver holds when every dealt in player has folded, is all
// in, or has matched the highest bet, and nobody still owes a decision.
func (t *TableState) isBettingRoundOver() bool {
	highest := t.highestBet()
	for _, p := range t.dealtInPlayers() {
		if p.Folded || p.AllIn {
			continue
		}
		if p.BetAmount != highest {
			return false
		}
		if p.LastAction == ActionWaitingToAct || p.LastAction == ActionPlaceBlind {
			return false
		}
	}
	return true
}

func (t *TableState) everyoneButOneFolded() bool {
	return len(t.playersInHand()) <= 1
}

// nextActorFrom scans positions circularly starting at index start.
func (t *TableState) nextActorFrom(start int) *Player {
	n := len(t.Positions)
	for i := 0; i < n; i++ {
		p := t.playerAt((start + i) % n)
		if p != nil && p.canAct() {
			return p
		}
	}
	return nil
}

// computeFirstToAct returns the uuid of the first player to act this round,
// or an empty string when nobody can act.
func (t *TableState) computeFirstToAct() string {
	start := 1
	if t.Round == Preflop {
		_, bbIdx := t.blindIndices()
		switch {
		case t.isHeadsUp():
			start = 0
		case t.StraddleUUID != "":
			start = t.positionOf(t.StraddleUUID) + 1
		default:
			start = bbIdx + 1
		}
	}
	if len(t.Positions) > 0 {
		start = start % len(t.Positions)
	}
	if p := t.nextActorFrom(start); p != nil {
		return p.UUID
	}
	return ""
}

// computeAllInRunOut is true when at most one player can still bet and that
// player is not facing a bet.
func (t *TableState) computeAllInRunOut() bool {
	inHand := t.playersInHand()
	if len(inHand) < 2 {
		return false
	}
	var canBet []*Player
	for _, p := range inHand {
		if !p.AllIn {
			canBet = append(canBet, p)
		}
	}
	switch len(canBet) {
	case 0:
		return true
	case 1:
		return canBet[0].BetAmount >= t.highestBet()
	}
	return false
}
