package models

import (
	"fmt"
	"strings"
	"time"
)

// MealSlot is one of the four fixed meal slots of a day.
type MealSlot string

const (
	Breakfast MealSlot = "breakfast"
	Lunch     MealSlot = "lunch"
	Dinner    MealSlot = "dinner"
	Snacks    MealSlot = "snacks"
)

var MealSlots = []MealSlot{Breakfast, Lunch, Dinner, Snacks}

// ParseMealSlot maps a case-insensitive slot name to its MealSlot.
func ParseMealSlot(s string) (MealSlot, bool) {
	slot := MealSlot(strings.ToLower(strings.TrimSpace(s)))
	for _, m := range MealSlots {
		if m == slot {
			return slot, true
		}
	}
	return "", false
}

type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays is the week in plan order, Monday first.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func ParseWeekday(s string) (Weekday, error) {
	d := Weekday(strings.ToLower(strings.TrimSpace(s)))
	if d.Index() < 0 {
		return "", fmt.Errorf("unknown weekday %q", s)
	}
	return d, nil
}

// Index is the position of d in Weekdays, or -1.
func (d Weekday) Index() int {
	for i, w := range Weekdays {
		if w == d {
			return i
		}
	}
	return -1
}

func (d Weekday) Title() string {
	if d == "" {
		return ""
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:])
}

// WeekdayOf converts a time.Weekday (Sunday=0) to the plan's weekday.
func WeekdayOf(wd time.Weekday) Weekday {
	return Weekday(strings.ToLower(wd.String()))
}

// PlannedFood is a template item of a meal plan.
type PlannedFood struct {
	Name     string `json:"name"`
	Calories Kcal   `json:"calories"`
	Protein  Grams  `json:"protein"`
	Carbs    Grams  `json:"carbs"`
	Fats     Grams  `json:"fats"`
	Notes    string `json:"notes,omitempty"`
}

// FoodItem drops the preparation notes.
func (p PlannedFood) FoodItem() FoodItem {
	return FoodItem{Name: p.Name, Calories: p.Calories, Protein: p.Protein, Carbs: p.Carbs, Fats: p.Fats}
}

type DayPlan struct {
	Breakfast []PlannedFood `json:"breakfast"`
	Lunch     []PlannedFood `json:"lunch"`
	Dinner    []PlannedFood `json:"dinner"`
	Snacks    []PlannedFood `json:"snacks"`
}

func EmptyDayPlan() DayPlan {
	return DayPlan{
		Breakfast: []PlannedFood{},
		Lunch:     []PlannedFood{},
		Dinner:    []PlannedFood{},
		Snacks:    []PlannedFood{},
	}
}

func (p *DayPlan) Slot(s MealSlot) *[]PlannedFood {
	switch s {
	case Breakfast:
		return &p.Breakfast
	case Lunch:
		return &p.Lunch
	case Dinner:
		return &p.Dinner
	case Snacks:
		return &p.Snacks
	}
	return nil
}

// MealPlan is a weekly template keyed by weekday.
type MealPlan map[Weekday]DayPlan

// RawMealPlan is a meal plan as it arrives over the wire, before validation.
type RawMealPlan map[string]map[string][]PlannedFood

// NormalizeMealPlan lower-cases day and slot keys and validates them. Unknown
// keys are an error rather than being dropped.
func NormalizeMealPlan(raw RawMealPlan) (MealPlan, error) {
	plan := make(MealPlan, len(raw))
	for dayKey, slots := range raw {
		day, err := ParseWeekday(dayKey)
		if err != nil {
			return nil, err
		}
		dp, ok := plan[day]
		if !ok {
			dp = EmptyDayPlan()
		}
		for slotKey, items := range slots {
			slot, ok := ParseMealSlot(slotKey)
			if !ok {
				return nil, fmt.Errorf("unknown meal slot %q for %s", slotKey, day)
			}
			dst := dp.Slot(slot)
			*dst = append(*dst, items...)
		}
		plan[day] = dp
	}
	return plan, nil
}

// MealPlanItem is the stored row form of one planned food.
type MealPlanItem struct {
	ID          uint     `gorm:"primaryKey"`
	UserID      uint     `gorm:"index;not null"`
	Day         Weekday  `gorm:"size:9;not null"`
	Meal        MealSlot `gorm:"size:16;not null"`
	Position    int
	PlannedFood `gorm:"embedded"`
}

// Items flattens the plan into rows for userID.
func (p MealPlan) Items(userID uint) []MealPlanItem {
	var rows []MealPlanItem
	for _, day := range Weekdays {
		dp, ok := p[day]
		if !ok {
			continue
		}
		for _, slot := range MealSlots {
			for i, item := range *dp.Slot(slot) {
				rows = append(rows, MealPlanItem{UserID: userID, Day: day, Meal: slot, Position: i, PlannedFood: item})
			}
		}
	}
	return rows
}

// MealPlanFromItems rebuilds a full week from rows ordered by position. Every
// weekday is present, with empty slots where nothing is planned.
func MealPlanFromItems(rows []MealPlanItem) MealPlan {
	plan := make(MealPlan, len(Weekdays))
	for _, d := range Weekdays {
		plan[d] = EmptyDayPlan()
	}
	for _, r := range rows {
		dp, ok := plan[r.Day]
		if !ok {
			continue
		}
		if slot := dp.Slot(r.Meal); slot != nil {
			*slot = append(*slot, r.PlannedFood)
		}
		plan[r.Day] = dp
	}
	return plan
}
