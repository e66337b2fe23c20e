package feedback_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/norangai/Minimal-Pair-Test/internal/feedback"
	"github.com/norangai/Minimal-Pair-Test/internal/models"
)

func TestAppendAndCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio_feedback.json")
	log := feedback.NewLog(path)

	count, err := log.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count, "missing log file means zero entries")

	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	require.NoError(t, log.Append(5, models.SlotA, "pronunciation incorrect", now))
	require.NoError(t, log.Append(5, models.SlotB, "audio cuts off", now.Add(time.Minute)))

	count, err = log.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	entries, err := log.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "5_A.wav", entries[0].AudioFile)
	assert.Equal(t, 5, entries[0].PairID)
	assert.Equal(t, models.SlotA, entries[0].Slot)
	assert.Equal(t, "pronunciation incorrect", entries[0].Issue)
	assert.True(t, entries[0].Timestamp.Equal(now))
	assert.Equal(t, "5_B.wav", entries[1].AudioFile, "entries append in order")
}

func TestCorruptLogIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio_feedback.json")
	require.NoError(t, os.WriteFile(path, []byte("[{"), 0o644))

	log := feedback.NewLog(path)
	_, err := log.Count()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt")
}
