package models

import "time"

// DefaultEaseFactor is the ease assigned to an item that has never been
// reviewed.
const DefaultEaseFactor = 2.5

// ItemProgress is the scheduling state for one pair. A fresh item has a zero
// streak, the default ease, a zero interval, and NextReview set to the moment
// it was first seen, which makes it immediately due.
type ItemProgress struct {
	CorrectStreak int       `json:"correct_streak"`
	EaseFactor    float64   `json:"ease_factor"`
	IntervalDays  float64   `json:"interval_days"`
	NextReview    time.Time `json:"next_review"`
	EverCorrect   bool      `json:"ever_correct"`
}

// NewItemProgress returns the state of a never-reviewed item, due at now.
func NewItemProgress(now time.Time) ItemProgress {
	return ItemProgress{
		EaseFactor: DefaultEaseFactor,
		NextReview: now,
	}
}

// Due reports whether the item should be shown at the given time.
func (p ItemProgress) Due(now time.Time) bool {
	return !p.NextReview.After(now)
}

// ItemState is the learning phase of an item derived from its progress.
type ItemState string

const (
	ItemUntouched ItemState = "untouched"
	ItemLearning  ItemState = "learning"
	ItemMastered  ItemState = "mastered"
)

// MasteryStreak is the correct streak at which an item counts as mastered.
const MasteryStreak = 3

// State classifies the item: mastered at a streak of MasteryStreak or more,
// learning once it has ever been answered correctly, untouched otherwise.
func (p ItemProgress) State() ItemState {
	switch {
	case p.CorrectStreak >= MasteryStreak:
		return ItemMastered
	case p.EverCorrect:
		return ItemLearning
	default:
		return ItemUntouched
	}
}

// DailyStat accumulates answers for one local calendar day.
type DailyStat struct {
	QuestionsAnswered int       `json:"questions_answered"`
	CorrectAnswers    int       `json:"correct_answers"`
	StartedAt         time.Time `json:"started_at"`
}

// SessionCounters track the running session. They survive process restarts
// (they are part of the saved snapshot) but are cleared by a full reset.
type SessionCounters struct {
	SessionCorrect      int `json:"session_correct"`
	SessionTotal        int `json:"session_total"`
	CurrentStreak       int `json:"current_streak"`
	ExtraQuestionsAdded int `json:"extra_questions_added"`
}

// DayKey formats a timestamp as the local-date key used for DailyStat maps.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
