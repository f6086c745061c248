package models

import "time"

// DateLayout is the calendar-date key format of daily logs. It is fixed-width
// and zero-padded, so string comparison orders dates chronologically.
const DateLayout = "2006-01-02"

type DailyLog struct {
	ID        uint            `gorm:"primaryKey" json:"-"`
	UserID    uint            `gorm:"uniqueIndex:idx_daily_logs_user_date;not null" json:"-"`
	Date      string          `gorm:"size:10;uniqueIndex:idx_daily_logs_user_date;not null" json:"date"`
	Water     int             `json:"water"`
	Exercises []ExerciseEntry `gorm:"foreignKey:LogID;constraint:OnDelete:CASCADE" json:"exercises"`
	Foods     []FoodEntry     `gorm:"foreignKey:LogID;constraint:OnDelete:CASCADE" json:"-"`
	Nutrition Nutrition       `gorm:"-" json:"nutrition"`
}

type ExerciseEntry struct {
	ID        string    `gorm:"primaryKey;size:36" json:"_id"`
	LogID     uint      `gorm:"index;not null" json:"-"`
	Position  int       `json:"-"`
	Name      string    `json:"name"`
	Sets      int       `json:"sets"`
	Reps      int       `json:"reps"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"-"`
}

type FoodEntry struct {
	ID        string    `gorm:"primaryKey;size:36" json:"_id"`
	LogID     uint      `gorm:"index;not null" json:"-"`
	Meal      MealSlot  `gorm:"size:16;not null" json:"-"`
	Position  int       `json:"-"`
	CreatedAt time.Time `json:"-"`
	FoodItem  `gorm:"embedded"`
}

// Nutrition is the per-slot view of a log's food entries.
type Nutrition struct {
	Breakfast []FoodEntry `json:"breakfast"`
	Lunch     []FoodEntry `json:"lunch"`
	Dinner    []FoodEntry `json:"dinner"`
	Snacks    []FoodEntry `json:"snacks"`
}

func (n *Nutrition) Slot(s MealSlot) *[]FoodEntry {
	switch s {
	case Breakfast:
		return &n.Breakfast
	case Lunch:
		return &n.Lunch
	case Dinner:
		return &n.Dinner
	case Snacks:
		return &n.Snacks
	}
	return nil
}

// GroupFoods rebuilds Nutrition from Foods, keeping their order. Slices are
// never nil so that empty slots encode as [].
func (l *DailyLog) GroupFoods() {
	l.Nutrition = Nutrition{
		Breakfast: []FoodEntry{},
		Lunch:     []FoodEntry{},
		Dinner:    []FoodEntry{},
		Snacks:    []FoodEntry{},
	}
	for _, f := range l.Foods {
		if slot := l.Nutrition.Slot(f.Meal); slot != nil {
			*slot = append(*slot, f)
		}
	}
	if l.Exercises == nil {
		l.Exercises = []ExerciseEntry{}
	}
}

// NextExercisePosition returns the position after the last loaded exercise.
func (l *DailyLog) NextExercisePosition() int {
	next := 0
	for _, e := range l.Exercises {
		if e.Position >= next {
			next = e.Position + 1
		}
	}
	return next
}

func (l *DailyLog) NextFoodPosition() int {
	next := 0
	for _, f := range l.Foods {
		if f.Position >= next {
			next = f.Position + 1
		}
	}
	return next
}
