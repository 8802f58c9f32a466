package nats

import (
	"fmt"

	natsgo "github.com/nats-io/nats.go"
	cmap "github.com/orcaman/concurrent-map"

	"github.com/vpatov/justpoker-sub000/game"
	"github.com/vpatov/justpoker-sub000/logging"
)

var managerLogger = logging.GetZeroLogger("nats::manager", nil)

const (
	DefaultEventsPerSec = 10
	DefaultEventBurst   = 20
)

// TableController is the part of game.Manager the control subject drives.
type TableController interface {
	Submitter
	CreateTable(tableID string, params game.GameParameters, opts ...game.MachineOption) (*game.Game, error)
	EndTable(tableID string) error
}

// ControlMessage creates or ends a table.
//  {"type": "NewTable", "tableID": "t1", "params": {...}}
//  {"type": "EndTable", "tableID": "t1"}
type ControlMessage struct {
	Type    string              `json:"type"`
	TableID string              `json:"tableID"`
	Params  game.GameParameters `json:"params"`
}

type ControlReply struct {
	Reply
	TableID string `json:"tableID,omitempty"`
}

// TableManager keeps one NatsTable per running table. It is similar to
// game.Manager, but owns only the subscriptions.
type TableManager struct {
	nc           *natsgo.Conn
	pub          publisher
	games        TableController
	activeTables cmap.ConcurrentMap
	controlSub   *natsgo.Subscription
	eventsPerSec float64
	burst        int
}

func NewTableManager(natsURL string) (*TableManager, error) {
	nc, err := natsgo.Connect(natsURL, natsgo.Name("table-server"))
	if err != nil {
		managerLogger.Error().Msg(fmt.Sprintf("Failed to connect to nats server: %v", err))
		return nil, err
	}
	managerLogger.Info().Str("url", natsURL).Msg("Connected to nats server")
	return &TableManager{
		nc:           nc,
		pub:          nc,
		activeTables: cmap.New(),
		eventsPerSec: DefaultEventsPerSec,
		burst:        DefaultEventBurst,
	}, nil
}

// Bind attaches the table manager and starts listening for control
// messages. It must be called before any table is created.
func (tm *TableManager) Bind(games TableController) error {
	tm.games = games
	sub, err := tm.nc.Subscribe(ControlSubject, tm.handleControl)
	if err != nil {
		return err
	}
	tm.controlSub = sub
	return nil
}

// Observers is a game.ObserverFactory.
func (tm *TableManager) Observers(tableID string) []game.Observer {
	if tm.activeTables.Has(tableID) {
		// creating the table fails; keep the live subscriptions
		return nil
	}
	t := tm.newTable(tableID)
	if tm.nc != nil {
		if err := t.subscribe(tm.nc); err != nil {
			managerLogger.Error().Err(err).Str(logging.TableIDKey, tableID).Msg("Unable to subscribe table subjects")
			tm.activeTables.Remove(tableID)
			return nil
		}
	}
	return []game.Observer{t}
}

func (tm *TableManager) newTable(tableID string) *NatsTable {
	t := newNatsTable(tableID, tm.pub, tm.games, newPlayerLimiter(tm.eventsPerSec, tm.burst))
	t.onEnded = tm.tableEnded
	tm.activeTables.Set(tableID, t)
	return t
}

func (tm *TableManager) tableEnded(tableID string) {
	tm.activeTables.Remove(tableID)
}

func (tm *TableManager) TableCount() int {
	return tm.activeTables.Count()
}

func (tm *TableManager) handleControl(msg *natsgo.Msg) {
	cm := ControlMessage{Params: game.DefaultParameters()}
	var reply ControlReply
	if err := json.Unmarshal(msg.Data, &cm); err != nil {
		managerLogger.Error().Err(err).Msg("Invalid control message")
		reply.Reply = Reply{Code: string(game.CodeMalformed), Error: err.Error()}
		tm.respond(msg, reply)
		return
	}

	managerLogger.Info().Str("type", cm.Type).Str(logging.TableIDKey, cm.TableID).Msg("Control message")
	reply.TableID = cm.TableID
	switch cm.Type {
	case "NewTable":
		g, err := tm.games.CreateTable(cm.TableID, cm.Params)
		reply.Reply = toReply(err)
		if err == nil {
			reply.TableID = g.TableID()
		}
	case "EndTable":
		reply.Reply = toReply(tm.games.EndTable(cm.TableID))
	default:
		reply.Reply = Reply{Code: string(game.CodeMalformed), Error: fmt.Sprintf("unknown control type %q", cm.Type)}
	}
	tm.respond(msg, reply)
}

func (tm *TableManager) respond(msg *natsgo.Msg, reply ControlReply) {
	if msg.Reply == "" {
		return
	}
	data, _ := json.Marshal(reply)
	if err := tm.pub.Publish(msg.Reply, data); err != nil {
		managerLogger.Error().Err(err).Msg("Unable to publish control reply")
	}
}

func (tm *TableManager) Close() {
	if tm.controlSub != nil {
		tm.controlSub.Unsubscribe()
	}
	for item := range tm.activeTables.IterBuffered() {
		item.Val.(*NatsTable).cleanup()
	}
	if tm.nc != nil {
		tm.nc.Drain()
	}
}
