package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/norangai/Minimal-Pair-Test/internal/logger"
	"github.com/norangai/Minimal-Pair-Test/internal/models"
)

// ErrNotFound signals that no snapshot exists yet. Callers start from a
// fresh state; this is not a failure. A snapshot that exists but cannot be
// decoded is a hard error, never silently discarded.
var ErrNotFound = errors.New("no saved progress found")

// Snapshot is the full persisted state: per-item scheduling, session
// counters, and the daily history.
type Snapshot struct {
	Progress   map[int]models.ItemProgress
	Counters   models.SessionCounters
	DailyStats map[string]models.DailyStat
	LastSaved  time.Time
}

// NewSnapshot returns an empty snapshot with allocated maps.
func NewSnapshot() Snapshot {
	return Snapshot{
		Progress:   map[int]models.ItemProgress{},
		DailyStats: map[string]models.DailyStat{},
	}
}

// Store persists snapshots. Implementations must round-trip every field.
type Store interface {
	Load() (Snapshot, error)
	Save(Snapshot) error
}

// fileSnapshot is the on-disk layout. Pair ids are stringified map keys and
// timestamps are ISO-8601, matching the historical save format.
type fileSnapshot struct {
	Progress            map[string]models.ItemProgress `json:"progress"`
	SessionCorrect      int                            `json:"session_correct"`
	SessionTotal        int                            `json:"session_total"`
	CurrentStreak       int                            `json:"current_streak"`
	ExtraQuestionsAdded int                            `json:"extra_questions_added"`
	DailyStats          map[string]models.DailyStat    `json:"daily_stats"`
	LastSaved           time.Time                      `json:"last_saved"`
}

// FileStore stores the snapshot as a single JSON file, rewritten whole on
// every save.
type FileStore struct {
	path string
	log  *logger.Logger
}

// NewFileStore creates a FileStore writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
		log:  logger.Default().WithPrefix("progress"),
	}
}

var _ Store = (*FileStore)(nil)

// Load reads the snapshot file. Returns ErrNotFound when the file does not
// exist and a decode error when it exists but is corrupt.
func (s *FileStore) Load() (Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Debug("no snapshot at %s", s.path)
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, fmt.Errorf("read snapshot %s: %w", s.path, err)
	}

	var file fileSnapshot
	if err := json.Unmarshal(data, &file); err != nil {
		return Snapshot{}, fmt.Errorf("corrupt snapshot %s: %w", s.path, err)
	}

	snap := NewSnapshot()
	for key, item := range file.Progress {
		id, err := strconv.Atoi(key)
		if err != nil {
			return Snapshot{}, fmt.Errorf("corrupt snapshot %s: bad pair id %q", s.path, key)
		}
		snap.Progress[id] = item
	}
	for day, stat := range file.DailyStats {
		snap.DailyStats[day] = stat
	}
	snap.Counters = models.SessionCounters{
		SessionCorrect:      file.SessionCorrect,
		SessionTotal:        file.SessionTotal,
		CurrentStreak:       file.CurrentStreak,
		ExtraQuestionsAdded: file.ExtraQuestionsAdded,
	}
	snap.LastSaved = file.LastSaved

	s.log.Info("loaded snapshot: %d items, %d days of history", len(snap.Progress), len(snap.DailyStats))
	return snap, nil
}

// Save writes the whole snapshot, replacing any previous file. The write
// goes through a temp file and rename so a crash mid-write leaves the old
// snapshot intact.
func (s *FileStore) Save(snap Snapshot) error {
	file := fileSnapshot{
		Progress:            map[string]models.ItemProgress{},
		SessionCorrect:      snap.Counters.SessionCorrect,
		SessionTotal:        snap.Counters.SessionTotal,
		CurrentStreak:       snap.Counters.CurrentStreak,
		ExtraQuestionsAdded: snap.Counters.ExtraQuestionsAdded,
		DailyStats:          snap.DailyStats,
		LastSaved:           time.Now(),
	}
	for id, item := range snap.Progress {
		file.Progress[strconv.Itoa(id)] = item
	}
	if file.DailyStats == nil {
		file.DailyStats = map[string]models.DailyStat{}
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp := s.path + ".tmp"
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace snapshot %s: %w", s.path, err)
	}

	s.log.Debug("saved snapshot: %d items", len(snap.Progress))
	return nil
}
