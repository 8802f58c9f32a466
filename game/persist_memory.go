package game

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

// MemorySnapshotStore keeps encoded snapshots in a bounded LRU cache.
type MemorySnapshotStore struct {
	cache *lru.Cache
}

func NewMemorySnapshotStore(size int) (*MemorySnapshotStore, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to create snapshot LRU cache")
	}
	return &MemorySnapshotStore{cache: cache}, nil
}

func (m *MemorySnapshotStore) Load(tableID string) (*Snapshot, error) {
	v, ok := m.cache.Get(tableID)
	if !ok {
		return nil, fmt.Errorf("Snapshot for table: %s is not found", tableID)
	}
	return UnmarshalSnapshot(v.([]byte))
}

func (m *MemorySnapshotStore) Save(tableID string, snapshot *Snapshot) error {
	data, err := snapshot.Marshal()
	if err != nil {
		return errors.Wrapf(err, "Unable to encode snapshot for table %s", tableID)
	}
	m.cache.Add(tableID, data)
	return nil
}

func (m *MemorySnapshotStore) Remove(tableID string) error {
	m.cache.Remove(tableID)
	return nil
}
