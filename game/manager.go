package game

import (
	"fmt"

	"github.com/google/uuid"
	cmap "github.com/orcaman/concurrent-map"

	"github.com/vpatov/justpoker-sub000/logging"
	"github.com/vpatov/justpoker-sub000/util"
)

var managerLogger = logging.GetZeroLogger("game::manager", nil)

// ObserverFactory builds the observers of a new table.
type ObserverFactory func(tableID string) []Observer

// Manager keeps the running tables. Tables share no state with each other.
type Manager struct {
	persist      PersistSnapshot
	delays       Delays
	observers    ObserverFactory
	activeTables cmap.ConcurrentMap
}

func NewManager(persist PersistSnapshot, delays Delays, observers ObserverFactory) *Manager {
	return &Manager{
		persist:      persist,
		delays:       delays,
		observers:    observers,
		activeTables: cmap.New(),
	}
}

// CreateTable starts a table. An empty id gets a generated one.
func (m *Manager) CreateTable(tableID string, params GameParameters, opts ...MachineOption) (*Game, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if tableID == "" {
		tableID = uuid.New().String()
	}
	var observers []Observer
	if m.observers != nil {
		observers = m.observers(tableID)
	}
	opts = append([]MachineOption{WithDelays(m.delays)}, opts...)
	g := NewGame(m, tableID, params, m.persist, observers, opts...)
	if !m.activeTables.SetIfAbsent(tableID, g) {
		return nil, fmt.Errorf("Table %s already exists", tableID)
	}
	g.Run()
	util.Metrics.SetActiveTables(m.activeTables.Count())
	managerLogger.Info().Str(logging.TableIDKey, tableID).Msg("Table created")
	return g, nil
}

func (m *Manager) GetTable(tableID string) (*Game, bool) {
	v, ok := m.activeTables.Get(tableID)
	if !ok {
		return nil, false
	}
	return v.(*Game), true
}

func (m *Manager) TableIDs() []string {
	return m.activeTables.Keys()
}

// Submit forwards an event to a running table.
func (m *Manager) Submit(tableID string, ev Event) error {
	g, ok := m.GetTable(tableID)
	if !ok {
		return ErrTableStopped
	}
	return g.Submit(ev)
}

// Snapshot returns the live snapshot of a table, or the persisted one once
// the table has stopped.
func (m *Manager) Snapshot(tableID string) (*Snapshot, error) {
	if g, ok := m.GetTable(tableID); ok {
		return g.Snapshot(), nil
	}
	if m.persist == nil {
		return nil, fmt.Errorf("Table %s is not found", tableID)
	}
	return m.persist.Load(tableID)
}

func (m *Manager) EndTable(tableID string) error {
	g, ok := m.GetTable(tableID)
	if !ok {
		return fmt.Errorf("Table %s is not found", tableID)
	}
	g.End()
	<-g.Done()
	return nil
}

func (m *Manager) tableEnded(g *Game) {
	m.activeTables.Remove(g.tableID)
	util.Metrics.SetActiveTables(m.activeTables.Count())
	managerLogger.Info().Str(logging.TableIDKey, g.tableID).Bool("crashed", g.Crashed()).Msg("Table ended")
}
