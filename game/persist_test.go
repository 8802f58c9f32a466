package game

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySnapshotStore(t *testing.T) {
	store, err := NewMemorySnapshotStore(2)
	require.NoError(t, err)

	tt := newTestTable(t, testParams())
	tt.seat("a", 0, 100)
	tt.seat("b", 1, 100)
	tt.start()
	snapshot := tt.state().Snapshot()

	require.NoError(t, store.Save("t1", snapshot))
	loaded, err := store.Load("t1")
	require.NoError(t, err)
	if diff := cmp.Diff(snapshot, loaded); diff != "" {
		t.Errorf("loaded snapshot differs (-saved +loaded):\n%s", diff)
	}

	// least recently used tables fall out
	require.NoError(t, store.Save("t2", snapshot))
	require.NoError(t, store.Save("t3", snapshot))
	_, err = store.Load("t1")
	assert.Error(t, err)

	require.NoError(t, store.Remove("t3"))
	_, err = store.Load("t3")
	assert.Error(t, err)
	_, err = store.Load("t2")
	assert.NoError(t, err)
}

func TestMemorySnapshotStoreSize(t *testing.T) {
	_, err := NewMemorySnapshotStore(0)
	assert.Error(t, err)
}

func TestSnapshotHidesCards(t *testing.T) {
	tt := newTestTable(t, testParams())
	tt.seat("a", 0, 100)
	tt.seat("b", 1, 100)
	tt.process("c", JoinPayload{Name: "carol"})
	tt.start()

	snapshot := tt.state().Snapshot()
	require.Len(t, snapshot.Players, 3)
	assert.Equal(t, "a", snapshot.Players[0].UUID)
	assert.Equal(t, "Dealer", snapshot.Players[0].Position)
	assert.Equal(t, "b", snapshot.Players[1].UUID)
	assert.Equal(t, "c", snapshot.Players[2].UUID)
	assert.Equal(t, -1, snapshot.Players[2].SeatNumber)
	for _, p := range snapshot.Players {
		assert.Empty(t, p.RevealedCards, p.UUID)
		assert.Empty(t, p.HandLabel, p.UUID)
	}

	data, err := snapshot.Marshal()
	require.NoError(t, err)
	for _, p := range tt.state().Players {
		for _, c := range p.HoleCards {
			assert.NotContains(t, string(data), `"`+c.String()+`"`)
		}
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	table := bettingTable(100, 100)
	table.Pots = []*Pot{{Value: 10, Contestors: []string{"a", "b"}}}
	snapshot := table.Snapshot()

	table.Pots[0].Value = 50
	table.Pots[0].Contestors[0] = "z"
	assert.Equal(t, int64(10), snapshot.Pots[0].Value)
	assert.Equal(t, []string{"a", "b"}, snapshot.Pots[0].Contestors)
}
