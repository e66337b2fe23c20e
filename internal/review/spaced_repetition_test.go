package review_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/norangai/Minimal-Pair-Test/internal/models"
	"github.com/norangai/Minimal-Pair-Test/internal/review"
)

var now = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func TestApplyAnswer_FirstCorrect(t *testing.T) {
	p := models.NewItemProgress(now)

	updated := review.ApplyAnswer(p, true, now)

	assert.Equal(t, 1, updated.CorrectStreak)
	assert.True(t, updated.EverCorrect)
	assert.Equal(t, 1.0, updated.IntervalDays, "first correct answer sets a one-day interval")
	assert.Equal(t, now.Add(24*time.Hour), updated.NextReview)
}

func TestApplyAnswer_IntervalGrowsWithEase(t *testing.T) {
	p := models.NewItemProgress(now)

	p = review.ApplyAnswer(p, true, now) // streak 1, interval 1
	p = review.ApplyAnswer(p, true, now) // streak 2, interval floor(1*2.5)=2
	assert.Equal(t, 2.0, p.IntervalDays)
	assert.Equal(t, now.Add(2*24*time.Hour), p.NextReview)

	p = review.ApplyAnswer(p, true, now) // streak 3, interval floor(2*2.5)=5
	assert.Equal(t, 3, p.CorrectStreak)
	assert.Equal(t, 5.0, p.IntervalDays)
	assert.Equal(t, now.Add(5*24*time.Hour), p.NextReview)
}

func TestApplyAnswer_Wrong(t *testing.T) {
	p := models.ItemProgress{
		CorrectStreak: 4,
		EaseFactor:    models.DefaultEaseFactor,
		IntervalDays:  12,
		NextReview:    now.Add(12 * 24 * time.Hour),
		EverCorrect:   true,
	}

	updated := review.ApplyAnswer(p, false, now)

	assert.Equal(t, 0, updated.CorrectStreak)
	assert.Equal(t, 0.0, updated.IntervalDays)
	assert.False(t, updated.NextReview.After(now), "item should be due immediately")
	assert.True(t, updated.EverCorrect, "ever-correct survives wrong answers")
}

func TestApplyAnswer_EverCorrectMonotonic(t *testing.T) {
	p := models.NewItemProgress(now)
	assert.False(t, p.EverCorrect)

	p = review.ApplyAnswer(p, true, now)
	for i := 0; i < 5; i++ {
		p = review.ApplyAnswer(p, false, now)
		assert.True(t, p.EverCorrect)
	}
}

func TestApplyAnswer_WrongThenCorrectRestartsAtOneDay(t *testing.T) {
	p := models.ItemProgress{
		CorrectStreak: 3,
		EaseFactor:    models.DefaultEaseFactor,
		IntervalDays:  5,
		EverCorrect:   true,
	}

	p = review.ApplyAnswer(p, false, now)
	p = review.ApplyAnswer(p, true, now)

	assert.Equal(t, 1, p.CorrectStreak)
	assert.Equal(t, 1.0, p.IntervalDays)
	assert.Equal(t, now.Add(24*time.Hour), p.NextReview)
}

func TestApplyAnswer_IntervalNeverBelowOneDay(t *testing.T) {
	p := models.ItemProgress{
		CorrectStreak: 1,
		EaseFactor:    0.2, // would shrink the interval without the floor
		IntervalDays:  1,
		EverCorrect:   true,
	}

	p = review.ApplyAnswer(p, true, now)

	assert.Equal(t, 1.0, p.IntervalDays)
	assert.Equal(t, now.Add(24*time.Hour), p.NextReview)
}

func TestApplyAnswer_StateTransitions(t *testing.T) {
	p := models.NewItemProgress(now)
	assert.Equal(t, models.ItemUntouched, p.State())

	p = review.ApplyAnswer(p, true, now)
	assert.Equal(t, models.ItemLearning, p.State())

	p = review.ApplyAnswer(p, true, now)
	assert.Equal(t, models.ItemLearning, p.State())

	p = review.ApplyAnswer(p, true, now)
	assert.Equal(t, models.ItemMastered, p.State())

	p = review.ApplyAnswer(p, false, now)
	assert.Equal(t, models.ItemLearning, p.State(), "wrong answer demotes but keeps ever-correct")
}
