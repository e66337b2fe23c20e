package testutil

import (
	"github.com/norangai/Minimal-Pair-Test/internal/catalog"
	"github.com/norangai/Minimal-Pair-Test/internal/models"
	"github.com/norangai/Minimal-Pair-Test/internal/progress"
)

// MemStore is an in-memory progress.Store for tests. It records every saved
// snapshot and can be made to fail.
type MemStore struct {
	Snapshots []progress.Snapshot
	LoadSnap  *progress.Snapshot
	SaveErr   error
}

var _ progress.Store = (*MemStore)(nil)

func (m *MemStore) Load() (progress.Snapshot, error) {
	if m.LoadSnap == nil {
		return progress.Snapshot{}, progress.ErrNotFound
	}
	return *m.LoadSnap, nil
}

func (m *MemStore) Save(snap progress.Snapshot) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Snapshots = append(m.Snapshots, snap)
	return nil
}

// SaveCount returns how many saves succeeded.
func (m *MemStore) SaveCount() int { return len(m.Snapshots) }

// Latest returns the most recent saved snapshot.
func (m *MemStore) Latest() progress.Snapshot {
	return m.Snapshots[len(m.Snapshots)-1]
}

// NewCatalog builds a small catalog for tests. Each entry is
// (category, spokenA, spokenB); ids follow slice order.
func NewCatalog(entries ...[3]string) *catalog.Catalog {
	cat := &catalog.Catalog{}
	for i, e := range entries {
		cat.Pairs = append(cat.Pairs, models.Pair{
			ID:       i,
			Category: e[0],
			WordA:    models.Word{Display: e[1], Spoken: e[1]},
			WordB:    models.Word{Display: e[2], Spoken: e[2]},
		})
	}
	return cat
}
