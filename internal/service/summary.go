package service

import "github.com/rianperassoli/daily-diet-api/internal/model"

// Summarize folds a user's diet entries into aggregate statistics.
//
// The input must be ordered by meal_date descending (the order the
// repository returns). BestSequenceOnDiet is the longest run of
// consecutive diet entries in THAT order — a run is broken by any
// non-diet meal, and the fold never looks at the dates themselves, so
// this is a positional streak, not a calendar-day streak. That matches
// the API's documented behavior.
//
// Single left-to-right pass: O(n) time, O(1) extra space.
func Summarize(entries []model.DietEntry) model.Summary {
	var summary model.Summary
	currentSequence := 0

	for _, entry := range entries {
		summary.TotalMeals++

		if entry.Diet {
			summary.MealsOnDiet++
			currentSequence++
		} else {
			summary.MealsOnNonDiet++
			currentSequence = 0
		}

		if currentSequence > summary.BestSequenceOnDiet {
			summary.BestSequenceOnDiet = currentSequence
		}
	}

	return summary
}
