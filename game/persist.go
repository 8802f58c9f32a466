package game

// PersistSnapshot stores the latest snapshot of every table.
type PersistSnapshot interface {
	Load(tableID string) (*Snapshot, error)
	Save(tableID string, snapshot *Snapshot) error
	Remove(tableID string) error
}
