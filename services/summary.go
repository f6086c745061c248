package services

import (
	"strings"

	"fitgenix/models"
)

// DaySummary is the progress view of one daily log.
type DaySummary struct {
	Calories      int `json:"calories"`
	Protein       int `json:"protein"`
	Carbs         int `json:"carbs"`
	WorkoutsDone  int `json:"workoutsDone"`
	TotalWorkouts int `json:"totalWorkouts"`
}

// Summarize totals the log's macros over all four slots and counts workouts by
// distinct exercise name (trimmed, case-insensitive). Logging the same exercise
// twice does not raise the total; one completed entry marks the name done.
func Summarize(log *models.DailyLog) DaySummary {
	var out DaySummary
	if log == nil {
		return out
	}

	for _, slot := range models.MealSlots {
		for _, f := range *log.Nutrition.Slot(slot) {
			out.Calories += int(f.Calories)
			out.Protein += f.Protein.Value()
			out.Carbs += f.Carbs.Value()
		}
	}

	seen := map[string]bool{}
	for _, e := range log.Exercises {
		key := strings.ToLower(strings.TrimSpace(e.Name))
		if key == "" {
			continue
		}
		seen[key] = seen[key] || e.Completed
	}
	out.TotalWorkouts = len(seen)
	for _, done := range seen {
		if done {
			out.WorkoutsDone++
		}
	}
	return out
}
