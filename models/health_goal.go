package models

// Goals holds the user's weekly workout count and daily macro targets.
type Goals struct {
	Workouts int     `json:"workouts"` // sessions per week
	Calories float64 `json:"calories"` // kcal
	Protein  float64 `json:"protein"`  // g
	Carbs    float64 `json:"carbs"`    // g
}

func DefaultGoals() Goals {
	return Goals{Workouts: 5, Calories: 2500, Protein: 150, Carbs: 250}
}
