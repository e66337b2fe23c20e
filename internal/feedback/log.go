// Package feedback records externally reported audio artifact problems in
// an append-only JSON log. The core never reads these entries back for its
// own decisions; the log is a side channel for regenerating bad clips.
package feedback

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/norangai/Minimal-Pair-Test/internal/logger"
	"github.com/norangai/Minimal-Pair-Test/internal/models"
)

// Entry is one reported issue against a generated clip.
type Entry struct {
	Timestamp time.Time   `json:"timestamp"`
	AudioFile string      `json:"audio_file"`
	PairID    int         `json:"pair_id"`
	Slot      models.Slot `json:"slot"`
	Issue     string      `json:"issue"`
}

// Log is a JSON-array file of entries, rewritten whole on each append.
type Log struct {
	path string
	log  *logger.Logger
}

// NewLog creates a Log backed by the file at path.
func NewLog(path string) *Log {
	return &Log{
		path: path,
		log:  logger.Default().WithPrefix("feedback"),
	}
}

// Append adds an entry for the given pair and slot at now.
func (l *Log) Append(pairID int, slot models.Slot, issue string, now time.Time) error {
	entries, err := l.read()
	if err != nil {
		return err
	}

	entries = append(entries, Entry{
		Timestamp: now,
		AudioFile: fmt.Sprintf("%d_%s.wav", pairID, slot),
		PairID:    pairID,
		Slot:      slot,
		Issue:     issue,
	})

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode feedback: %w", err)
	}
	if err := os.WriteFile(l.path, data, 0o644); err != nil {
		return fmt.Errorf("write feedback log %s: %w", l.path, err)
	}

	l.log.Info("logged issue for %d_%s: %s", pairID, slot, issue)
	return nil
}

// Count returns the number of logged entries. A missing file counts as zero.
func (l *Log) Count() (int, error) {
	entries, err := l.read()
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// Entries returns all logged entries in order.
func (l *Log) Entries() ([]Entry, error) {
	return l.read()
}

func (l *Log) read() ([]Entry, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read feedback log %s: %w", l.path, err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("corrupt feedback log %s: %w", l.path, err)
	}
	return entries, nil
}
