package game

import "github.com/vpatov/justpoker-sub000/poker"

// validate checks an event against the current state without mutating it.
func (m *Machine) validate(ev Event) error {
	t := m.state
	if ev.Payload == nil {
		return reject(CodeMalformed, "event has no payload")
	}

	switch p := ev.Payload.(type) {
	case StartPayload, StopPayload, TimeoutPayload:
		return nil
	case JoinPayload:
		if ev.PlayerUUID == "" || p.Name == "" {
			return reject(CodeMalformed, "join needs a player uuid and a name")
		}
		if t.player(ev.PlayerUUID) != nil {
			return reject(CodeDuplicatePlayer, "player %s already joined", ev.PlayerUUID)
		}
		return nil
	case SetChipsPayload:
		target := t.player(p.TargetUUID)
		if target == nil {
			return reject(CodeUnknownPlayer, "unknown player %s", p.TargetUUID)
		}
		if p.Amount < 0 {
			return reject(CodeMalformed, "chips cannot be negative")
		}
		return nil
	case BootPlayerPayload:
		if t.player(p.TargetUUID) == nil {
			return reject(CodeUnknownPlayer, "unknown player %s", p.TargetUUID)
		}
		return nil
	case SetParametersPayload:
		if err := p.Params.Validate(); err != nil {
			return err
		}
		for _, seated := range t.seatedPlayers() {
			if seated.SeatNumber >= p.Params.MaxPlayers {
				return reject(CodeInvalidParameters, "seat %d is occupied", seated.SeatNumber)
			}
		}
		return nil
	}

	player := t.player(ev.PlayerUUID)
	if player == nil {
		return reject(CodeUnknownPlayer, "unknown player %s", ev.PlayerUUID)
	}

	switch p := ev.Payload.(type) {
	case SitDownPayload:
		if player.isSeated() {
			return reject(CodeAlreadySeated, "player is already in seat %d", player.SeatNumber)
		}
		if p.Seat < 0 || p.Seat >= t.pendingMaxPlayers() {
			return reject(CodeInvalidSeat, "seat %d does not exist", p.Seat)
		}
		if t.playerInSeat(p.Seat) != nil {
			return reject(CodeSeatTaken, "seat %d is taken", p.Seat)
		}
	case SitOutPayload, SitInPayload:
		if !player.isSeated() {
			return reject(CodeInvalidSeat, "player is not seated")
		}
	case LeavePayload, SetStraddlePayload, SetDisconnectedPayload:
	case BuyChipsPayload:
		if p.Amount <= 0 {
			return reject(CodeInvalidBuyIn, "buy-in must be positive")
		}
		total := t.pendingChips(player) + p.Amount
		if total < t.Params.MinBuyIn {
			return reject(CodeInvalidBuyIn, "stack of %d is below the minimum buy-in %d", total, t.Params.MinBuyIn)
		}
		if limit := t.Params.maxBuyIn(t.stacks()); total > limit {
			return reject(CodeInvalidBuyIn, "stack of %d is above the maximum buy-in %d", total, limit)
		}
	case UseTimeBankPayload:
		if t.Stage != WaitingForBetAction {
			return reject(CodeWrongStage, "no action pending")
		}
		if t.CurrentPlayerToAct != player.UUID {
			return reject(CodeNotYourTurn, "it is not your turn")
		}
		if player.TimeBanksLeft <= 0 {
			return reject(CodeNoTimeBank, "no time banks left")
		}
	case ShowCardPayload:
		return m.validateShowCards(player, p.Cards)
	case BetActionPayload:
		return m.validateBetAction(player, p.Action)
	default:
		return reject(CodeMalformed, "unhandled event %T", ev.Payload)
	}
	return nil
}

func (m *Machine) validateShowCards(p *Player, cards []poker.Card) error {
	t := m.state
	if len(p.HoleCards) == 0 {
		return reject(CodeCannotShowCards, "player has no cards")
	}
	if len(cards) == 0 {
		return reject(CodeMalformed, "no cards to show")
	}
	for _, c := range cards {
		found := false
		for _, h := range p.HoleCards {
			if h == c {
				found = true
				break
			}
		}
		if !found {
			return reject(CodeCannotShowCards, "card %s is not in the player's hand", c)
		}
	}
	handDone := t.Stage == ShowWinner || t.Stage == PostHandCleanup
	headsUp := t.Params.AllowHeadsUpShowCards && t.isHeadsUp()
	if !p.Folded && !handDone && !headsUp {
		return reject(CodeCannotShowCards, "cards can only be shown after folding or once the hand is over")
	}
	return nil
}

func (m *Machine) validateBetAction(p *Player, action BetAction) error {
	t := m.state
	if t.Stage != WaitingForBetAction {
		return reject(CodeWrongStage, "bet actions are not accepted at %s", t.Stage)
	}
	if t.CurrentPlayerToAct != p.UUID {
		return reject(CodeNotYourTurn, "it is not your turn")
	}

	allowed := t.allowedActions(p)
	switch action.Type {
	case ActionFold:
		return nil
	case ActionCheck:
		if !allowed.Check {
			return reject(CodeIllegalBet, "cannot check facing a bet")
		}
		return nil
	case ActionCall:
		if !allowed.Call {
			return reject(CodeIllegalBet, "nothing to call")
		}
		return nil
	case ActionBet:
	default:
		return reject(CodeIllegalBet, "unknown bet action %q", action.Type)
	}

	amount := min64(action.Amount, p.Chips)
	if amount <= p.BetAmount || amount <= 0 {
		return reject(CodeIllegalBet, "bet of %d does not add to the %d already committed", action.Amount, p.BetAmount)
	}
	allIn := amount == p.Chips
	highest := t.highestBet()
	if amount <= highest {
		if !allIn {
			return reject(CodeIllegalBet, "bet of %d does not exceed the current bet %d", amount, highest)
		}
		return nil
	}
	if !allowed.Bet {
		return reject(CodeIllegalBet, "raising is not allowed")
	}
	if !allIn && amount < allowed.MinBet {
		return reject(CodeIllegalBet, "minimum bet is %d", allowed.MinBet)
	}
	if amount > allowed.MaxBet {
		return reject(CodeIllegalBet, "maximum bet is %d", allowed.MaxBet)
	}
	return nil
}
