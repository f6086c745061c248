package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"fitgenix/models"
	"fitgenix/utils"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/prompts"
	"gorm.io/gorm"
)

// BatchSize is how many weekdays one generation call covers. Larger batches
// make truncated model output more likely.
const BatchSize = 2

const mealPlanDirective = `You are a certified nutritionist. You create practical, home-cookable meal plans.
Return ONLY a valid JSON object. No markdown, no commentary.`

const mealPlanTemplate = `Create a meal plan for exactly these days: {{.Days}}.
Diet type: {{.DietType}}. Preference: {{.DietPreference}}.
Daily calorie target: {{.CalorieGoal}}.
Exclude these allergens completely: {{.Allergies}}.
Goals and preferences: {{.Preferences}}.

Use the lowercase day names as keys. Each day has the keys "breakfast", "lunch", "dinner" and "snacks",
each an array of 1-3 items shaped like
{"name": "Food", "calories": 300, "protein": "20g", "carbs": "30g", "fats": "10g", "notes": "short prep note"}.
Example shape: {"{{.FirstDay}}": {"breakfast": [...], "lunch": [...], "dinner": [...], "snacks": [...]}}`

const alternativeDirective = `You are a nutritionist. Suggest ONE replacement food item with similar calories and macros.
Return ONLY valid JSON: {"name": "Food", "calories": 300, "protein": "20g", "carbs": "30g", "fats": "10g", "notes": "short prep note"}.`

type GenerateRequest struct {
	DietType       string `json:"dietType"`
	DietPreference string `json:"dietPreference"`
	Preferences    string `json:"preferences"`
	CalorieGoal    int    `json:"calorieGoal"`
	Allergies      string `json:"allergies"`
	Days           int    `json:"days"`
	StartDay       string `json:"startDay"`
}

type AlternativeRequest struct {
	FoodItem  models.PlannedFood `json:"foodItem"`
	DietType  string             `json:"dietType"`
	Allergies string             `json:"allergies"`
}

type MealPlanService struct {
	db     *gorm.DB
	llm    Completer
	logs   *DailyLogService
	prompt prompts.PromptTemplate
}

func NewMealPlanService(db *gorm.DB, llm Completer, logs *DailyLogService) *MealPlanService {
	return &MealPlanService{
		db:   db,
		llm:  llm,
		logs: logs,
		prompt: prompts.NewPromptTemplate(mealPlanTemplate,
			[]string{"Days", "FirstDay", "DietType", "DietPreference", "CalorieGoal", "Allergies", "Preferences"}),
	}
}

// Get returns the stored weekly plan with every weekday present.
func (s *MealPlanService) Get(userID uint) (models.MealPlan, error) {
	var items []models.MealPlanItem
	if err := s.db.Where("user_id = ?", userID).Order("position ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return models.MealPlanFromItems(items), nil
}

// Save replaces the whole stored plan, then copies today's planned items into
// today's log for every slot where an item of the same name is not logged yet.
func (s *MealPlanService) Save(userID uint, raw models.RawMealPlan) error {
	plan, err := models.NormalizeMealPlan(raw)
	if err != nil {
		return invalid(err.Error())
	}

	today := s.logs.Today()
	var log *models.DailyLog
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.MealPlanItem{}).Error; err != nil {
			return err
		}
		if rows := plan.Items(userID); len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}

		dp, ok := plan[s.logs.TodayWeekday()]
		if !ok {
			return nil
		}
		current, err := s.logs.ensureLog(tx, userID, today)
		if err != nil {
			return err
		}
		added, err := reconcileDay(tx, current, dp)
		if err != nil || added == 0 {
			return err
		}
		log, err = s.logs.findLog(tx, userID, today)
		return err
	})
	if err != nil {
		return err
	}
	s.logs.broadcast(userID, log)
	return nil
}

// reconcileDay appends planned items missing from the log, matched by exact name.
func reconcileDay(tx *gorm.DB, log *models.DailyLog, dp models.DayPlan) (int, error) {
	var entries []models.FoodEntry
	pos := log.NextFoodPosition()
	for _, slot := range models.MealSlots {
		logged := map[string]bool{}
		for _, f := range *log.Nutrition.Slot(slot) {
			logged[f.Name] = true
		}
		for _, item := range *dp.Slot(slot) {
			if logged[item.Name] {
				continue
			}
			logged[item.Name] = true
			entries = append(entries, models.FoodEntry{
				ID:       uuid.NewString(),
				LogID:    log.ID,
				Meal:     slot,
				Position: pos,
				FoodItem: item.FoodItem(),
			})
			pos++
		}
	}
	if len(entries) == 0 {
		return 0, nil
	}
	return len(entries), tx.Create(&entries).Error
}

// PlanDays lists the target weekdays starting at startDay (Monday when empty).
// days is clamped to 1..7, with 0 meaning a full week, and the window wraps
// from Sunday back to Monday.
func PlanDays(days int, startDay string) ([]models.Weekday, error) {
	switch {
	case days == 0 || days > len(models.Weekdays):
		days = len(models.Weekdays)
	case days < 0:
		days = 1
	}
	start := models.Monday
	if strings.TrimSpace(startDay) != "" {
		d, err := models.ParseWeekday(startDay)
		if err != nil {
			return nil, invalid(err.Error())
		}
		start = d
	}

	out := make([]models.Weekday, days)
	for i := range out {
		out[i] = models.Weekdays[(start.Index()+i)%len(models.Weekdays)]
	}
	return out, nil
}

// Batches splits days into consecutive groups of at most size.
func Batches(days []models.Weekday, size int) [][]models.Weekday {
	var out [][]models.Weekday
	for len(days) > 0 {
		n := min(size, len(days))
		out = append(out, days[:n])
		days = days[n:]
	}
	return out
}

// Generate builds a plan batch by batch and merges the results. Nothing is
// stored. Any unrecoverable batch fails the whole request.
func (s *MealPlanService) Generate(ctx context.Context, req GenerateRequest) (models.MealPlan, error) {
	days, err := PlanDays(req.Days, req.StartDay)
	if err != nil {
		return nil, err
	}

	merged := make(models.MealPlan, len(days))
	for _, batch := range Batches(days, BatchSize) {
		part, err := s.generateBatch(ctx, req, batch)
		if err != nil {
			return nil, err
		}
		for day, dp := range part {
			merged[day] = dp
		}
	}
	return merged, nil
}

func (s *MealPlanService) generateBatch(ctx context.Context, req GenerateRequest, batch []models.Weekday) (models.MealPlan, error) {
	userPrompt, err := s.batchPrompt(req, batch)
	if err != nil {
		return nil, err
	}
	text, err := s.llm.Complete(ctx, mealPlanDirective, userPrompt)
	if err != nil {
		return nil, err
	}

	raw, err := parsePlanJSON(text)
	if err != nil {
		utils.Log.WithError(err).WithField("batch", batch).Warn("meal plan batch unrecoverable")
		return nil, &GenerationError{Batch: batch, Err: err}
	}

	part, err := models.NormalizeMealPlan(raw)
	if err != nil {
		return nil, &GenerationError{Batch: batch, Err: err}
	}
	out := make(models.MealPlan, len(batch))
	for _, day := range batch {
		if dp, ok := part[day]; ok {
			out[day] = dp
		}
	}
	if len(out) == 0 {
		return nil, &GenerationError{Batch: batch, Err: errors.New("no requested day in model output")}
	}
	if len(out) < len(batch) {
		utils.Log.WithField("batch", batch).Warn("meal plan batch is missing days")
	}
	return out, nil
}

func (s *MealPlanService) batchPrompt(req GenerateRequest, batch []models.Weekday) (string, error) {
	names := make([]string, len(batch))
	for i, d := range batch {
		names[i] = string(d)
	}
	calories := "not specified"
	if req.CalorieGoal > 0 {
		calories = fmt.Sprintf("%d kcal", req.CalorieGoal)
	}
	return s.prompt.Format(map[string]any{
		"Days":           strings.Join(names, ", "),
		"FirstDay":       names[0],
		"DietType":       orDefault(req.DietType, "Balanced"),
		"DietPreference": orDefault(req.DietPreference, "non-veg"),
		"CalorieGoal":    calories,
		"Allergies":      orDefault(req.Allergies, "none"),
		"Preferences":    orDefault(req.Preferences, "none"),
	})
}

// parsePlanJSON reads the object in the model reply. On a parse failure it
// makes a single repair attempt on the text from the first '{'.
func parsePlanJSON(text string) (models.RawMealPlan, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return nil, errors.New("no JSON object in model output")
	}

	var plan models.RawMealPlan
	raw, ok := utils.ExtractJSON(text, '{', '}')
	if ok {
		err := json.Unmarshal([]byte(raw), &plan)
		if err == nil {
			return plan, nil
		}
	}

	repaired, ok := utils.RepairJSON(text[start:])
	if !ok {
		return nil, errors.New("model output is not valid JSON and could not be repaired")
	}
	plan = nil
	if err := json.Unmarshal([]byte(repaired), &plan); err != nil {
		return nil, fmt.Errorf("repaired JSON has the wrong shape: %w", err)
	}
	return plan, nil
}

// SuggestAlternative asks for one replacement item. Nothing is stored.
func (s *MealPlanService) SuggestAlternative(ctx context.Context, req AlternativeRequest) (models.PlannedFood, error) {
	item := req.FoodItem
	userPrompt := fmt.Sprintf(
		"Replace %q (%d kcal, protein %s, carbs %s, fats %s). Diet type: %s. Avoid allergens: %s.",
		item.Name, item.Calories, item.Protein, item.Carbs, item.Fats,
		orDefault(req.DietType, "Balanced"), orDefault(req.Allergies, "none"),
	)

	text, err := s.llm.Complete(ctx, alternativeDirective, userPrompt)
	if err != nil {
		return models.PlannedFood{}, err
	}
	raw, ok := utils.ExtractJSON(text, '{', '}')
	if !ok {
		return models.PlannedFood{}, fmt.Errorf("%w: no JSON object in model output", ErrServiceUnavailable)
	}
	var alt models.PlannedFood
	if err := json.Unmarshal([]byte(raw), &alt); err != nil || alt.Name == "" {
		return models.PlannedFood{}, fmt.Errorf("%w: invalid alternative in model output", ErrServiceUnavailable)
	}
	return alt, nil
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v == "" {
		return fallback
	}
	return v
}
