package game

import (
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/vpatov/justpoker-sub000/logging"
	"github.com/vpatov/justpoker-sub000/timer"
	"github.com/vpatov/justpoker-sub000/util"
)

var gameLogger = logging.GetZeroLogger("game::game", nil)

var ErrTableStopped = errors.New("table is not running")

// Observer receives every snapshot and hand notice a table produces. It is
// called from the table loop and must not block.
type Observer interface {
	TableUpdated(snapshot *Snapshot)
	HandNotice(notice Notice)
	TableEnded(tableID string, crashed bool)
}

type request struct {
	event      Event
	reply      chan error
	timeout    bool
	generation uint64
}

// Game runs one table. All events, including its own timeouts, are applied
// in order by a single goroutine.
type Game struct {
	tableID   string
	machine   *Machine
	timer     *timer.StageTimer
	persist   PersistSnapshot
	observers []Observer
	manager   *Manager

	chEvents chan request
	chEnd    chan bool
	done     chan struct{}
	endOnce  sync.Once
	crashed  int32
	latest   atomic.Value

	logger zerolog.Logger
}

func NewGame(manager *Manager, tableID string, params GameParameters, persist PersistSnapshot, observers []Observer, opts ...MachineOption) *Game {
	g := &Game{
		tableID:   tableID,
		machine:   NewMachine(tableID, params, opts...),
		persist:   persist,
		observers: observers,
		manager:   manager,
		chEvents:  make(chan request, 32),
		chEnd:     make(chan bool, 1),
		done:      make(chan struct{}),
		logger:    gameLogger.With().Str(logging.TableIDKey, tableID).Logger(),
	}
	g.timer = timer.NewStageTimer(tableID, g.onTimeout, g.End)
	g.latest.Store(g.machine.State().Snapshot())
	return g
}

func (g *Game) TableID() string {
	return g.tableID
}

func (g *Game) Run() {
	g.timer.Run()
	go g.runGame()
}

// End stops the table loop and its timer.
func (g *Game) End() {
	g.endOnce.Do(func() {
		g.chEnd <- true
	})
}

// Done is closed once the table loop has returned.
func (g *Game) Done() <-chan struct{} {
	return g.done
}

func (g *Game) Crashed() bool {
	return atomic.LoadInt32(&g.crashed) == 1
}

// Snapshot returns the snapshot taken after the last processed event.
func (g *Game) Snapshot() *Snapshot {
	return g.latest.Load().(*Snapshot)
}

// Submit queues an event for the table and waits until it has been
// processed. Validation failures are returned as *ValidationError.
func (g *Game) Submit(ev Event) error {
	if ev.Type() == EventTimeout {
		return reject(CodeMalformed, "timeouts are internal to the table")
	}
	reply := make(chan error, 1)
	select {
	case g.chEvents <- request{event: ev, reply: reply}:
	case <-g.done:
		return ErrTableStopped
	}
	select {
	case err := <-reply:
		return err
	case <-g.done:
		return ErrTableStopped
	}
}

func (g *Game) onTimeout(msg timer.TimerMsg) {
	// never block the timer loop
	go func() {
		select {
		case g.chEvents <- request{event: Event{Payload: TimeoutPayload{}}, timeout: true, generation: msg.Generation}:
		case <-g.done:
		}
	}()
}

func (g *Game) runGame() {
	defer func() {
		err := recover()
		if err != nil {
			atomic.StoreInt32(&g.crashed, 1)
			util.Metrics.TableCrashed()
			g.logger.Error().
				Msgf("Table loop returning due to panic: %s\nStack Trace:\n%s", err, string(debug.Stack()))
		} else {
			g.logger.Info().Msg("Table loop returning")
		}
		g.timer.Destroy()
		if g.manager != nil {
			g.manager.tableEnded(g)
		}
		for _, o := range g.observers {
			o.TableEnded(g.tableID, g.Crashed())
		}
		close(g.done)
	}()

	for {
		select {
		case <-g.chEnd:
			return
		case req := <-g.chEvents:
			g.handle(req)
		}
	}
}

func (g *Game) handle(req request) {
	if req.timeout {
		if req.generation != g.timer.Generation() {
			g.logger.Debug().Uint64("generation", req.generation).Msg("Ignoring stale timeout")
			return
		}
		util.Metrics.TimeoutFired()
	}

	tr, err := g.machine.Process(req.event)
	if req.reply != nil {
		req.reply <- err
	}
	if err != nil {
		return
	}

	if tr.Changed {
		if tr.ArmTimer {
			if _, err := g.timer.Arm(string(tr.To), tr.Delay); err != nil {
				g.logger.Error().Err(err).Str(logging.StageKey, string(tr.To)).Msg("Unable to arm stage timer")
			}
		} else {
			g.timer.Cancel()
		}
	}

	snapshot := g.machine.State().Snapshot()
	g.latest.Store(snapshot)
	if g.persist != nil {
		if err := g.persist.Save(g.tableID, snapshot); err != nil {
			g.logger.Error().Err(err).Msg("Unable to persist table snapshot")
		}
	}
	for _, o := range g.observers {
		o.TableUpdated(snapshot)
		for _, n := range tr.Notices {
			o.HandNotice(n)
		}
	}
}
