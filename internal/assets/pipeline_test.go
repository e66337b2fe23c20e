package assets_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/norangai/Minimal-Pair-Test/internal/assets"
	"github.com/norangai/Minimal-Pair-Test/internal/catalog"
	"github.com/norangai/Minimal-Pair-Test/internal/models"
	"github.com/norangai/Minimal-Pair-Test/internal/testutil"
	"github.com/norangai/Minimal-Pair-Test/internal/testutil/mocks"
)

var wav = []byte("RIFFxxxxWAVE")

func threePairCatalog() *catalog.Catalog {
	return testutil.NewCatalog(
		[3]string{"shi-tsu", "した", "つた"},
		[3]string{"shi-tsu", "かし", "かつ"},
		[3]string{"r-l", "らく", "りく"},
	)
}

func newPipeline(t *testing.T, synth *mocks.MockSynthesizer, workers int) (*assets.Pipeline, *assets.Store) {
	t.Helper()
	store := assets.NewStore(t.TempDir())
	return assets.NewPipeline(synth, store, []int{13}, workers, rand.New(rand.NewSource(1))), store
}

func TestReconcile_GeneratesAllMissing(t *testing.T) {
	synth := &mocks.MockSynthesizer{}
	synth.On("AudioQuery", mock.Anything, mock.Anything, 13).Return(json.RawMessage(`{}`), nil)
	synth.On("Synthesize", mock.Anything, mock.Anything, 13).Return(wav, nil)

	pipeline, store := newPipeline(t, synth, 4)
	cat := threePairCatalog()

	report, err := pipeline.Reconcile(context.Background(), cat)

	require.NoError(t, err)
	assert.Equal(t, 6, report.Total, "3 pairs * 2 slots")
	assert.Equal(t, 6, report.Succeeded)
	assert.Empty(t, report.Failed)

	for _, pair := range cat.Pairs {
		for _, slot := range []models.Slot{models.SlotA, models.SlotB} {
			assert.True(t, store.Exists(pair.ID, slot), "artifact %d_%s should exist", pair.ID, slot)
		}
	}
}

func TestReconcile_ZeroWorkWhenComplete(t *testing.T) {
	synth := &mocks.MockSynthesizer{}
	pipeline, store := newPipeline(t, synth, 4)
	cat := threePairCatalog()

	require.NoError(t, store.EnsureDir())
	for _, pair := range cat.Pairs {
		for _, slot := range []models.Slot{models.SlotA, models.SlotB} {
			require.NoError(t, os.WriteFile(store.PathFor(pair.ID, slot), wav, 0o644))
		}
	}

	report, err := pipeline.Reconcile(context.Background(), cat)

	require.NoError(t, err)
	assert.Equal(t, 0, report.Total)
	synth.AssertNotCalled(t, "AudioQuery", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcile_SkipsExistingArtifacts(t *testing.T) {
	synth := &mocks.MockSynthesizer{}
	synth.On("AudioQuery", mock.Anything, mock.Anything, 13).Return(json.RawMessage(`{}`), nil)
	synth.On("Synthesize", mock.Anything, mock.Anything, 13).Return(wav, nil)

	pipeline, store := newPipeline(t, synth, 4)
	cat := threePairCatalog()

	require.NoError(t, store.EnsureDir())
	existing := []byte("do not touch")
	require.NoError(t, os.WriteFile(store.PathFor(0, models.SlotA), existing, 0o644))
	require.NoError(t, os.WriteFile(store.PathFor(0, models.SlotB), existing, 0o644))

	report, err := pipeline.Reconcile(context.Background(), cat)

	require.NoError(t, err)
	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 4, report.Succeeded)

	kept, err := os.ReadFile(store.PathFor(0, models.SlotA))
	require.NoError(t, err)
	assert.Equal(t, existing, kept, "existing artifacts are never rewritten")
}

func TestReconcile_PartialFailure(t *testing.T) {
	synth := &mocks.MockSynthesizer{}
	// Pair 1's two spoken forms fail at the query step; everything else works.
	synth.On("AudioQuery", mock.Anything, "かし", 13).Return(nil, errors.New("engine busy"))
	synth.On("AudioQuery", mock.Anything, "かつ", 13).Return(nil, errors.New("engine busy"))
	synth.On("AudioQuery", mock.Anything, mock.Anything, 13).Return(json.RawMessage(`{}`), nil)
	synth.On("Synthesize", mock.Anything, mock.Anything, 13).Return(wav, nil)

	pipeline, store := newPipeline(t, synth, 4)
	cat := threePairCatalog()

	report, err := pipeline.Reconcile(context.Background(), cat)

	require.NoError(t, err, "per-task failures are not a pipeline error")
	assert.Equal(t, 6, report.Total)
	assert.Equal(t, 4, report.Succeeded)
	require.Len(t, report.Failed, 2)

	failedKeys := map[string]bool{}
	for _, f := range report.Failed {
		failedKeys[fmt.Sprintf("%d_%s", f.PairID, f.Slot)] = true
		assert.Contains(t, f.Reason, "engine busy")
	}
	assert.True(t, failedKeys["1_A"])
	assert.True(t, failedKeys["1_B"])

	assert.False(t, store.Exists(1, models.SlotA), "failed artifacts stay missing")
	assert.True(t, store.Exists(2, models.SlotB))
}

func TestReconcile_SynthesisStepFailure(t *testing.T) {
	synth := &mocks.MockSynthesizer{}
	synth.On("AudioQuery", mock.Anything, mock.Anything, 13).Return(json.RawMessage(`{}`), nil)
	synth.On("Synthesize", mock.Anything, mock.Anything, 13).Return(nil, errors.New("timeout"))

	pipeline, _ := newPipeline(t, synth, 2)

	report, err := pipeline.Reconcile(context.Background(), threePairCatalog())

	require.NoError(t, err)
	assert.Equal(t, 0, report.Succeeded)
	assert.Len(t, report.Failed, 6)
}

func TestReconcile_BoundedConcurrency(t *testing.T) {
	const workers = 2

	var inFlight, peak int64
	synth := &mocks.MockSynthesizer{}
	synth.On("AudioQuery", mock.Anything, mock.Anything, 13).
		Run(func(mock.Arguments) {
			n := atomic.AddInt64(&inFlight, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt64(&inFlight, -1)
		}).
		Return(json.RawMessage(`{}`), nil)
	synth.On("Synthesize", mock.Anything, mock.Anything, 13).Return(wav, nil)

	pipeline, _ := newPipeline(t, synth, workers)

	report, err := pipeline.Reconcile(context.Background(), threePairCatalog())

	require.NoError(t, err)
	assert.Equal(t, 6, report.Succeeded)
	assert.LessOrEqual(t, peak, int64(workers), "no more than %d tasks in flight", workers)
}
