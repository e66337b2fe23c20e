// Package scheduler decides which pair to quiz next and how review
// intervals evolve with performance. It runs single-threaded: the caller
// serializes all operations.
package scheduler

import (
	"math/rand"
	"time"

	"github.com/norangai/Minimal-Pair-Test/internal/catalog"
	"github.com/norangai/Minimal-Pair-Test/internal/logger"
	"github.com/norangai/Minimal-Pair-Test/internal/models"
	"github.com/norangai/Minimal-Pair-Test/internal/progress"
	"github.com/norangai/Minimal-Pair-Test/internal/review"
)

// UrgencyWindow is how far past the earliest due time an item may fall and
// still count as equally urgent for selection.
const UrgencyWindow = 5 * time.Minute

// State is all mutable scheduling state. The owner (the API layer) holds one
// State and passes it to the store for persistence.
type State struct {
	Items        map[int]models.ItemProgress
	Counters     models.SessionCounters
	DailyStats   map[string]models.DailyStat
	LastCategory string // category of the most recently shown pair
}

// NewState returns an empty state with allocated maps.
func NewState() *State {
	return &State{
		Items:      map[int]models.ItemProgress{},
		DailyStats: map[string]models.DailyStat{},
	}
}

// StateFromSnapshot rebuilds state from a loaded snapshot.
func StateFromSnapshot(snap progress.Snapshot) *State {
	s := NewState()
	for id, item := range snap.Progress {
		s.Items[id] = item
	}
	for day, stat := range snap.DailyStats {
		s.DailyStats[day] = stat
	}
	s.Counters = snap.Counters
	return s
}

// Snapshot converts the state into its persistable form.
func (s *State) Snapshot() progress.Snapshot {
	snap := progress.NewSnapshot()
	for id, item := range s.Items {
		snap.Progress[id] = item
	}
	for day, stat := range s.DailyStats {
		snap.DailyStats[day] = stat
	}
	snap.Counters = s.Counters
	return snap
}

// item returns the progress for a pair, creating default state on first
// reference. A fresh item is due at now.
func (s *State) item(id int, now time.Time) models.ItemProgress {
	if p, ok := s.Items[id]; ok {
		return p
	}
	p := models.NewItemProgress(now)
	s.Items[id] = p
	return p
}

// Scheduler selects items and records answers against a State. All
// randomness flows through the injected source so tests can fix seeds.
type Scheduler struct {
	state *State
	store progress.Store
	rng   *rand.Rand
	log   *logger.Logger
}

// New creates a Scheduler over the given state and store.
func New(state *State, store progress.Store, rng *rand.Rand) *Scheduler {
	return &Scheduler{
		state: state,
		store: store,
		rng:   rng,
		log:   logger.Default().WithPrefix("scheduler"),
	}
}

// State exposes the scheduler's state for read-only derived views.
func (s *Scheduler) State() *State { return s.state }

// SelectNext picks the next due pair, or returns ok=false when nothing is
// due. Among items due within UrgencyWindow of the earliest due time, it
// prefers a random pick from a different category than the last shown pair;
// the preference is soft and never excludes the only available category.
func (s *Scheduler) SelectNext(cat *catalog.Catalog, now time.Time) (int, bool) {
	type candidate struct {
		id       int
		dueAt    time.Time
		category string
	}

	var due []candidate
	for _, pair := range cat.Pairs {
		p := s.state.item(pair.ID, now)
		if p.Due(now) {
			due = append(due, candidate{id: pair.ID, dueAt: p.NextReview, category: pair.Category})
		}
	}
	if len(due) == 0 {
		s.log.Debug("nothing due")
		return 0, false
	}

	earliest := due[0].dueAt
	for _, c := range due[1:] {
		if c.dueAt.Before(earliest) {
			earliest = c.dueAt
		}
	}
	deadline := earliest.Add(UrgencyWindow)

	var urgent []candidate
	for _, c := range due {
		if !c.dueAt.After(deadline) {
			urgent = append(urgent, c)
		}
	}

	pool := urgent
	if len(urgent) > 1 && s.state.LastCategory != "" {
		var other []candidate
		for _, c := range urgent {
			if c.category != s.state.LastCategory {
				other = append(other, c)
			}
		}
		if len(other) > 0 {
			pool = other
		}
	}

	chosen := pool[0]
	if len(pool) > 1 {
		chosen = pool[s.rng.Intn(len(pool))]
	}
	s.state.LastCategory = chosen.category

	s.log.Debug("selected pair %d (category %s, %d due, %d urgent)", chosen.id, chosen.category, len(due), len(urgent))
	return chosen.id, true
}

// BuildQuestion constructs an odd-one-out round for the pair: a fair coin
// picks the majority slot, the 4-slot sequence carries exactly one odd slot,
// and the correct position is the odd slot's 1-indexed post-shuffle location.
func (s *Scheduler) BuildQuestion(pair models.Pair) models.Question {
	majority := models.SlotA
	if s.rng.Float64() < 0.5 {
		majority = models.SlotB
	}
	odd := majority.Other()

	seq := [models.SequenceLength]models.Slot{majority, majority, majority, odd}
	s.rng.Shuffle(len(seq), func(i, j int) {
		seq[i], seq[j] = seq[j], seq[i]
	})

	correct := 0
	for i, slot := range seq {
		if slot == odd {
			correct = i + 1
			break
		}
	}

	return models.Question{
		PairID:          pair.ID,
		Sequence:        seq,
		CorrectPosition: correct,
		Majority:        majority,
		Odd:             odd,
		WordA:           pair.WordA,
		WordB:           pair.WordB,
		Category:        pair.Category,
	}
}

// RecordAnswer applies the answer to the item's scheduling state, updates
// session counters and today's tally, and saves the full snapshot before
// returning. A save failure is surfaced but the in-memory update stands.
func (s *Scheduler) RecordAnswer(pairID int, correct bool, now time.Time) error {
	item := s.state.item(pairID, now)
	s.state.Items[pairID] = review.ApplyAnswer(item, correct, now)

	s.state.Counters.SessionTotal++
	if correct {
		s.state.Counters.SessionCorrect++
		s.state.Counters.CurrentStreak++
	} else {
		s.state.Counters.CurrentStreak = 0
	}

	key := models.DayKey(now)
	day, ok := s.state.DailyStats[key]
	if !ok {
		day = models.DailyStat{StartedAt: now}
	}
	day.QuestionsAnswered++
	if correct {
		day.CorrectAnswers++
	}
	s.state.DailyStats[key] = day

	s.log.Debug("recorded answer for pair %d: correct=%t streak=%d", pairID, correct, s.state.Items[pairID].CorrectStreak)

	if err := s.store.Save(s.state.Snapshot()); err != nil {
		s.log.Error("failed to save progress: %v", err)
		return err
	}
	return nil
}

// SessionComplete reports whether there is nothing more to show today:
// either the daily target (plus any extra questions) has been met, or every
// pair has been answered correctly at least once and none is due.
func (s *Scheduler) SessionComplete(cat *catalog.Catalog, dailyTarget int, now time.Time) bool {
	target := dailyTarget + s.state.Counters.ExtraQuestionsAdded
	if day, ok := s.state.DailyStats[models.DayKey(now)]; ok && day.QuestionsAnswered >= target {
		return true
	}

	for _, pair := range cat.Pairs {
		p := s.state.item(pair.ID, now)
		if !p.EverCorrect || p.Due(now) {
			return false
		}
	}
	return true
}

// AddExtraQuestions raises today's target so practice can continue past it.
func (s *Scheduler) AddExtraQuestions(n int) error {
	if n > 0 {
		s.state.Counters.ExtraQuestionsAdded += n
	}
	return s.store.Save(s.state.Snapshot())
}

// Requeue marks the first min(n, catalog size) pairs due now, so a fully
// mastered catalog can be practiced again immediately.
func (s *Scheduler) Requeue(cat *catalog.Catalog, n int, now time.Time) error {
	if n > cat.Size() {
		n = cat.Size()
	}
	for _, pair := range cat.Pairs[:n] {
		p := s.state.item(pair.ID, now)
		p.NextReview = now
		s.state.Items[pair.ID] = p
	}
	s.log.Info("requeued %d pairs", n)
	return s.store.Save(s.state.Snapshot())
}

// Reset clears all item progress and session counters. Daily history is
// kept: past days remain part of the record.
func (s *Scheduler) Reset() error {
	s.state.Items = map[int]models.ItemProgress{}
	s.state.Counters = models.SessionCounters{}
	s.state.LastCategory = ""
	s.log.Info("progress reset")
	return s.store.Save(s.state.Snapshot())
}
