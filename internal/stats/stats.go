// Package stats derives read-only views over saved progress. Nothing here
// mutates scheduling state.
package stats

import (
	"sort"
	"time"

	"github.com/norangai/Minimal-Pair-Test/internal/catalog"
	"github.com/norangai/Minimal-Pair-Test/internal/models"
)

// CategoryStat is the mastery rollup for one phoneme-contrast category.
type CategoryStat struct {
	Category   string `json:"category"`
	Mastered   int    `json:"mastered"`
	Learning   int    `json:"learning"`
	Untouched  int    `json:"untouched"`
	Total      int    `json:"total"`
	ProgressPct int   `json:"progress_pct"`
}

// OverallStat is the whole-catalog mastery summary.
type OverallStat struct {
	Mastered int     `json:"mastered"`
	Total    int     `json:"total"`
	Ratio    float64 `json:"ratio"`
}

// TodayStat is today's answer tally and accuracy percentage.
type TodayStat struct {
	QuestionsAnswered int `json:"questions_answered"`
	CorrectAnswers    int `json:"correct_answers"`
	AccuracyPct       int `json:"accuracy_pct"`
}

// DayStat is one day of the trailing history window.
type DayStat struct {
	Date              string `json:"date"`
	QuestionsAnswered int    `json:"questions_answered"`
	CorrectAnswers    int    `json:"correct_answers"`
	AccuracyPct       int    `json:"accuracy_pct"`
}

// ByCategory rolls progress up per category, sorted by completion descending
// then category name for stable output. Items without progress count as
// untouched.
func ByCategory(cat *catalog.Catalog, items map[int]models.ItemProgress) []CategoryStat {
	byName := map[string]*CategoryStat{}
	var order []string

	for _, pair := range cat.Pairs {
		cs, ok := byName[pair.Category]
		if !ok {
			cs = &CategoryStat{Category: pair.Category}
			byName[pair.Category] = cs
			order = append(order, pair.Category)
		}
		cs.Total++
		switch items[pair.ID].State() {
		case models.ItemMastered:
			cs.Mastered++
		case models.ItemLearning:
			cs.Learning++
		default:
			cs.Untouched++
		}
	}

	out := make([]CategoryStat, 0, len(order))
	for _, name := range order {
		cs := byName[name]
		if cs.Total > 0 {
			cs.ProgressPct = cs.Mastered * 100 / cs.Total
		}
		out = append(out, *cs)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ProgressPct != out[j].ProgressPct {
			return out[i].ProgressPct > out[j].ProgressPct
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// Overall returns the catalog-wide mastery count and ratio.
func Overall(cat *catalog.Catalog, items map[int]models.ItemProgress) OverallStat {
	s := OverallStat{Total: cat.Size()}
	for _, pair := range cat.Pairs {
		if items[pair.ID].State() == models.ItemMastered {
			s.Mastered++
		}
	}
	if s.Total > 0 {
		s.Ratio = float64(s.Mastered) / float64(s.Total)
	}
	return s
}

// Today returns today's tally. Accuracy is 0 when nothing was answered.
func Today(daily map[string]models.DailyStat, now time.Time) TodayStat {
	day, ok := daily[models.DayKey(now)]
	if !ok {
		return TodayStat{}
	}
	return TodayStat{
		QuestionsAnswered: day.QuestionsAnswered,
		CorrectAnswers:    day.CorrectAnswers,
		AccuracyPct:       accuracyPct(day.CorrectAnswers, day.QuestionsAnswered),
	}
}

// LastDays returns up to n trailing calendar days including today, oldest
// first. Days with no recorded answers are omitted, not zero-filled.
func LastDays(daily map[string]models.DailyStat, now time.Time, n int) []DayStat {
	var out []DayStat
	for i := n - 1; i >= 0; i-- {
		key := models.DayKey(now.AddDate(0, 0, -i))
		day, ok := daily[key]
		if !ok {
			continue
		}
		out = append(out, DayStat{
			Date:              key,
			QuestionsAnswered: day.QuestionsAnswered,
			CorrectAnswers:    day.CorrectAnswers,
			AccuracyPct:       accuracyPct(day.CorrectAnswers, day.QuestionsAnswered),
		})
	}
	return out
}

func accuracyPct(correct, total int) int {
	if total == 0 {
		return 0
	}
	return correct * 100 / total
}
