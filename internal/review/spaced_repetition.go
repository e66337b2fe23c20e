package review

import (
	"math"
	"time"

	"github.com/norangai/Minimal-Pair-Test/internal/models"
)

// ApplyAnswer updates an item's scheduling state after one answer.
//
// Correct: the streak grows, the interval becomes 1 day on the first correct
// answer of a streak and floor(interval * ease) days after that (never below
// 1), and the item comes due again after that interval. Sub-day intervals are
// scheduled in minutes, never sooner than one minute out.
//
// Wrong: the streak and interval reset and the item is due immediately.
// EverCorrect is monotonic; a wrong answer does not clear it.
func ApplyAnswer(p models.ItemProgress, correct bool, now time.Time) models.ItemProgress {
	if !correct {
		p.CorrectStreak = 0
		p.IntervalDays = 0
		p.NextReview = now
		return p
	}

	p.CorrectStreak++
	p.EverCorrect = true

	interval := 1.0
	if p.CorrectStreak > 1 {
		interval = math.Max(1, math.Floor(p.IntervalDays*p.EaseFactor))
	}
	p.IntervalDays = interval

	if interval < 1 {
		minutes := math.Max(1, math.Round(interval*24*60))
		p.NextReview = now.Add(time.Duration(minutes) * time.Minute)
	} else {
		p.NextReview = now.Add(time.Duration(interval*24) * time.Hour)
	}
	return p
}
