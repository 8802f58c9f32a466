package game

// queuedCommand is a request deferred until the current hand is cleaned up.
type queuedCommand interface {
	queued()
}

type queuedBuyChips struct {
	uuid   string
	amount int64
}

type queuedSetChips struct {
	uuid   string
	amount int64
}

type queuedBootPlayer struct {
	uuid string
}

type queuedLeave struct {
	uuid string
}

type queuedSetParameters struct {
	params GameParameters
}

func (queuedBuyChips) queued()      {}
func (queuedSetChips) queued()      {}
func (queuedBootPlayer) queued()    {}
func (queuedLeave) queued()         {}
func (queuedSetParameters) queued() {}

type commandQueue []queuedCommand

func (t *TableState) enqueue(cmd queuedCommand) {
	t.queue = append(t.queue, cmd)
}

// QueuedCount is the number of commands waiting for the hand to end.
func (t *TableState) QueuedCount() int {
	return len(t.queue)
}

// pendingChips is the stack the player will have once their queued chip
// commands have run.
func (t *TableState) pendingChips(p *Player) int64 {
	chips := p.Chips
	for _, cmd := range t.queue {
		switch c := cmd.(type) {
		case queuedBuyChips:
			if c.uuid == p.UUID {
				chips += c.amount
			}
		case queuedSetChips:
			if c.uuid == p.UUID {
				chips = c.amount
			}
		}
	}
	return chips
}

// pendingMaxPlayers is the table size after queued parameter changes.
func (t *TableState) pendingMaxPlayers() int {
	limit := t.Params.MaxPlayers
	for _, cmd := range t.queue {
		if c, ok := cmd.(queuedSetParameters); ok {
			limit = c.params.MaxPlayers
		}
	}
	return limit
}

// drainQueue executes queued commands in arrival order.
func (t *TableState) drainQueue() error {
	queue := t.queue
	t.queue = nil
	for _, cmd := range queue {
		switch c := cmd.(type) {
		case queuedBuyChips:
			if p := t.player(c.uuid); p != nil {
				p.Chips += c.amount
			}
		case queuedSetChips:
			if p := t.player(c.uuid); p != nil {
				p.Chips = c.amount
			}
		case queuedBootPlayer:
			t.removePlayer(c.uuid)
		case queuedLeave:
			t.removePlayer(c.uuid)
		case queuedSetParameters:
			t.Params = c.params
		default:
			return invariantf("unhandled queued command %T", cmd)
		}
	}
	return nil
}
