package assets

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/norangai/Minimal-Pair-Test/internal/catalog"
	"github.com/norangai/Minimal-Pair-Test/internal/models"
)

// Store is the audio artifact layout: one WAV per (pair id, slot) under a
// single directory.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the artifact directory.
func (s *Store) Dir() string { return s.dir }

// PathFor returns the deterministic artifact path for a pair and slot.
func (s *Store) PathFor(pairID int, slot models.Slot) string {
	return filepath.Join(s.dir, fmt.Sprintf("%d_%s.wav", pairID, slot))
}

// Exists reports whether the artifact for the pair and slot is present.
func (s *Store) Exists(pairID int, slot models.Slot) bool {
	_, err := os.Stat(s.PathFor(pairID, slot))
	return err == nil
}

// EnsureDir creates the artifact directory if needed.
func (s *Store) EnsureDir() error {
	return os.MkdirAll(s.dir, 0o755)
}

// Missing scans the catalog and returns a task for every absent artifact,
// in (pair, slot) order. Existing artifacts are never touched.
func (s *Store) Missing(cat *catalog.Catalog) []Task {
	var tasks []Task
	for _, pair := range cat.Pairs {
		for _, slot := range []models.Slot{models.SlotA, models.SlotB} {
			if s.Exists(pair.ID, slot) {
				continue
			}
			tasks = append(tasks, Task{
				PairID: pair.ID,
				Slot:   slot,
				Text:   pair.WordFor(slot).Spoken,
				Dest:   s.PathFor(pair.ID, slot),
			})
		}
	}
	return tasks
}
