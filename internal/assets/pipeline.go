// Package assets keeps the audio artifact set in sync with the catalog:
// every pair needs one clip per slot, synthesized from its spoken form.
package assets

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sync"

	"github.com/norangai/Minimal-Pair-Test/internal/catalog"
	"github.com/norangai/Minimal-Pair-Test/internal/logger"
	"github.com/norangai/Minimal-Pair-Test/internal/models"
	"github.com/norangai/Minimal-Pair-Test/internal/voicevox"
)

// Task is one missing artifact to generate.
type Task struct {
	PairID  int
	Slot    models.Slot
	Text    string
	Dest    string
	Speaker int
}

// Failure identifies a task that could not be completed and why.
type Failure struct {
	PairID int         `json:"pair_id"`
	Slot   models.Slot `json:"slot"`
	Reason string      `json:"reason"`
}

// Report aggregates one Reconcile run. Failures are degraded-but-non-fatal:
// the affected artifacts stay missing until a later run succeeds.
type Report struct {
	Total     int       `json:"total"`
	Succeeded int       `json:"succeeded"`
	Failed    []Failure `json:"failed"`
}

// Pipeline generates missing artifacts with a bounded worker pool. The
// concurrency ceiling is fixed and independent of catalog size.
type Pipeline struct {
	synth   voicevox.Synthesizer
	store   *Store
	voices  []int
	workers int
	rng     *rand.Rand
	log     *logger.Logger
}

// NewPipeline creates a Pipeline. voices is the speaker pool a voice is
// drawn from per task; workers is the concurrency ceiling.
func NewPipeline(synth voicevox.Synthesizer, store *Store, voices []int, workers int, rng *rand.Rand) *Pipeline {
	if workers <= 0 {
		workers = 8
	}
	if len(voices) == 0 {
		voices = []int{13}
	}
	return &Pipeline{
		synth:   synth,
		store:   store,
		voices:  voices,
		workers: workers,
		rng:     rng,
		log:     logger.Default().WithPrefix("assets"),
	}
}

// Reconcile scans for missing artifacts and generates them all before
// returning. A task failure never aborts sibling tasks, and the run has no
// overall timeout: only the individual synthesis calls are time-bounded.
// The returned error covers structural problems (cannot create the artifact
// directory), never per-task failures.
func (p *Pipeline) Reconcile(ctx context.Context, cat *catalog.Catalog) (Report, error) {
	log := logger.FromContext(ctx).WithPrefix("assets")

	if err := p.store.EnsureDir(); err != nil {
		return Report{}, fmt.Errorf("create audio dir %s: %w", p.store.Dir(), err)
	}

	tasks := p.store.Missing(cat)
	report := Report{Total: len(tasks)}
	if len(tasks) == 0 {
		log.Info("all %d audio files exist", cat.Size()*2)
		return report, nil
	}

	// Voices are drawn up front, single-threaded, so workers never share
	// the random source.
	for i := range tasks {
		tasks[i].Speaker = p.voices[p.rng.Intn(len(p.voices))]
	}

	log.Info("generating %d missing audio files with %d workers", len(tasks), p.workers)

	type result struct {
		task Task
		err  error
	}

	results := make(chan result, len(tasks))
	sem := make(chan struct{}, p.workers)

	var wg sync.WaitGroup
	for _, task := range tasks {
		wg.Add(1)
		go func(t Task) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results <- result{task: t, err: p.generate(ctx, t)}
		}(task)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		if res.err != nil {
			log.Error("failed to generate %d_%s: %v", res.task.PairID, res.task.Slot, res.err)
			report.Failed = append(report.Failed, Failure{
				PairID: res.task.PairID,
				Slot:   res.task.Slot,
				Reason: res.err.Error(),
			})
			continue
		}
		report.Succeeded++
	}

	if len(report.Failed) > 0 {
		log.Warn("reconcile finished: %d/%d generated, %d failed", report.Succeeded, report.Total, len(report.Failed))
	} else {
		log.Info("reconcile finished: generated %d audio files", report.Succeeded)
	}
	return report, nil
}

// generate runs the two-step synthesis exchange for one task and writes the
// audio to the task's destination.
func (p *Pipeline) generate(ctx context.Context, t Task) error {
	query, err := p.synth.AudioQuery(ctx, t.Text, t.Speaker)
	if err != nil {
		return fmt.Errorf("audio query for %q: %w", t.Text, err)
	}

	audio, err := p.synth.Synthesize(ctx, query, t.Speaker)
	if err != nil {
		return fmt.Errorf("synthesis for %q: %w", t.Text, err)
	}

	if err := os.WriteFile(t.Dest, audio, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", t.Dest, err)
	}
	return nil
}
