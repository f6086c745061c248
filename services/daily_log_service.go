package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fitgenix/models"
	"fitgenix/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RetentionDays is how far back daily logs are kept, counted from today.
const RetentionDays = 7

type ExerciseInput struct {
	Name string `json:"name" binding:"required"`
	Sets int    `json:"sets"`
	Reps int    `json:"reps"`
}

type DailyLogService struct {
	db  *gorm.DB
	loc *time.Location
	rt  LogBroadcaster

	// Now is the server clock. Tests replace it.
	Now func() time.Time
}

func NewDailyLogService(db *gorm.DB, loc *time.Location, rt LogBroadcaster) *DailyLogService {
	if loc == nil {
		loc = time.UTC
	}
	return &DailyLogService{db: db, loc: loc, rt: rt, Now: time.Now}
}

func (s *DailyLogService) now() time.Time { return s.Now().In(s.loc) }

// Today is the server's calendar date.
func (s *DailyLogService) Today() string { return s.now().Format(models.DateLayout) }

// TodayWeekday is the meal-plan weekday of Today.
func (s *DailyLogService) TodayWeekday() models.Weekday { return models.WeekdayOf(s.now().Weekday()) }

// Dashboard prunes logs older than the retention window and returns the user
// with the log for date (today when empty). Today's log is created on demand;
// a past date without a log yields a nil log.
func (s *DailyLogService) Dashboard(userID uint, date string) (*models.User, *models.DailyLog, error) {
	today := s.Today()
	if date == "" {
		date = today
	} else if _, err := time.Parse(models.DateLayout, date); err != nil {
		return nil, nil, invalid("date must be YYYY-MM-DD")
	}

	if _, err := s.Prune(userID); err != nil {
		return nil, nil, err
	}
	if date == today {
		if _, err := s.ensureLog(s.db, userID, today); err != nil {
			return nil, nil, err
		}
	}

	user, err := s.loadUser(userID)
	if err != nil {
		return nil, nil, err
	}
	for i := range user.DailyLogs {
		if user.DailyLogs[i].Date == date {
			return user, &user.DailyLogs[i], nil
		}
	}
	return user, nil, nil
}

// Prune deletes the user's logs dated before the retention cutoff and returns
// how many were removed.
func (s *DailyLogService) Prune(userID uint) (int64, error) {
	cutoff := s.now().AddDate(0, 0, -RetentionDays).Format(models.DateLayout)

	var removed int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		stale := tx.Model(&models.DailyLog{}).Select("id").Where("user_id = ? AND date < ?", userID, cutoff)
		if err := tx.Where("log_id IN (?)", stale).Delete(&models.ExerciseEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("log_id IN (?)", stale).Delete(&models.FoodEntry{}).Error; err != nil {
			return err
		}
		res := tx.Where("user_id = ? AND date < ?", userID, cutoff).Delete(&models.DailyLog{})
		removed = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, fmt.Errorf("prune daily logs: %w", err)
	}
	if removed > 0 {
		utils.Log.WithFields(map[string]any{"user_id": userID, "removed": removed, "cutoff": cutoff}).Debug("pruned daily logs")
	}
	return removed, nil
}

func (s *DailyLogService) LogExercise(userID uint, in ExerciseInput) (*models.DailyLog, error) {
	return s.appendToday(userID, func(tx *gorm.DB, log *models.DailyLog) error {
		return tx.Create(newExerciseEntry(log.ID, log.NextExercisePosition(), in)).Error
	})
}

// LogExercises appends all inputs to today's log in one transaction.
func (s *DailyLogService) LogExercises(userID uint, in []ExerciseInput) (int, error) {
	if len(in) == 0 {
		return 0, invalid("exercises must not be empty")
	}
	_, err := s.appendToday(userID, func(tx *gorm.DB, log *models.DailyLog) error {
		pos := log.NextExercisePosition()
		entries := make([]models.ExerciseEntry, len(in))
		for i, ex := range in {
			entries[i] = *newExerciseEntry(log.ID, pos+i, ex)
		}
		return tx.Create(&entries).Error
	})
	if err != nil {
		return 0, err
	}
	return len(in), nil
}

func (s *DailyLogService) LogFood(userID uint, mealType string, item models.FoodItem) (*models.DailyLog, error) {
	slot, ok := models.ParseMealSlot(mealType)
	if !ok {
		return nil, invalid("Invalid meal type")
	}
	return s.appendToday(userID, func(tx *gorm.DB, log *models.DailyLog) error {
		return tx.Create(&models.FoodEntry{
			ID:       uuid.NewString(),
			LogID:    log.ID,
			Meal:     slot,
			Position: log.NextFoodPosition(),
			FoodItem: item,
		}).Error
	})
}

// ToggleExercise flips the completed flag and returns its new value.
func (s *DailyLogService) ToggleExercise(userID uint, date, exerciseID string) (bool, error) {
	var completed bool
	var log *models.DailyLog
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		if log, err = s.findLog(tx, userID, date); err != nil {
			return err
		}
		ex, err := findExercise(log, exerciseID)
		if err != nil {
			return err
		}
		completed = !ex.Completed
		if err := tx.Model(&models.ExerciseEntry{}).Where("id = ?", ex.ID).Update("completed", completed).Error; err != nil {
			return err
		}
		ex.Completed = completed
		return nil
	})
	if err != nil {
		return false, err
	}
	s.broadcast(userID, log)
	return completed, nil
}

// DeleteExercise removes exactly one exercise entry.
func (s *DailyLogService) DeleteExercise(userID uint, date, exerciseID string) error {
	var log *models.DailyLog
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		if log, err = s.findLog(tx, userID, date); err != nil {
			return err
		}
		if _, err := findExercise(log, exerciseID); err != nil {
			return err
		}
		if err := tx.Where("id = ? AND log_id = ?", exerciseID, log.ID).Delete(&models.ExerciseEntry{}).Error; err != nil {
			return err
		}
		kept := log.Exercises[:0]
		for _, e := range log.Exercises {
			if e.ID != exerciseID {
				kept = append(kept, e)
			}
		}
		log.Exercises = kept
		return nil
	})
	if err != nil {
		return err
	}
	s.broadcast(userID, log)
	return nil
}

// appendToday runs add against today's log, creating the log if needed, and
// returns the reloaded log.
func (s *DailyLogService) appendToday(userID uint, add func(tx *gorm.DB, log *models.DailyLog) error) (*models.DailyLog, error) {
	today := s.Today()
	var log *models.DailyLog
	err := s.db.Transaction(func(tx *gorm.DB) error {
		current, err := s.ensureLog(tx, userID, today)
		if err != nil {
			return err
		}
		if err := add(tx, current); err != nil {
			return err
		}
		log, err = s.findLog(tx, userID, today)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.broadcast(userID, log)
	return log, nil
}

// ensureLog is an atomic find-or-create on (user_id, date). Concurrent callers
// race on the unique index instead of inserting duplicates.
func (s *DailyLogService) ensureLog(tx *gorm.DB, userID uint, date string) (*models.DailyLog, error) {
	fresh := models.DailyLog{UserID: userID, Date: date}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&fresh).Error; err != nil {
		return nil, fmt.Errorf("create daily log: %w", err)
	}
	return s.findLog(tx, userID, date)
}

func (s *DailyLogService) findLog(tx *gorm.DB, userID uint, date string) (*models.DailyLog, error) {
	var log models.DailyLog
	err := tx.
		Preload("Exercises", orderByPosition).
		Preload("Foods", orderByPosition).
		Where("user_id = ? AND date = ?", userID, date).
		First(&log).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Log not found")
	}
	if err != nil {
		return nil, err
	}
	log.GroupFoods()
	return &log, nil
}

func (s *DailyLogService) loadUser(userID uint) (*models.User, error) {
	var user models.User
	err := s.db.
		Preload("DailyLogs", func(db *gorm.DB) *gorm.DB { return db.Order("date ASC") }).
		Preload("DailyLogs.Exercises", orderByPosition).
		Preload("DailyLogs.Foods", orderByPosition).
		First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("User not found")
	}
	if err != nil {
		return nil, err
	}
	for i := range user.DailyLogs {
		user.DailyLogs[i].GroupFoods()
	}

	var items []models.MealPlanItem
	if err := s.db.Where("user_id = ?", userID).Order("position ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	user.MealPlan = models.MealPlanFromItems(items)
	return &user, nil
}

func (s *DailyLogService) broadcast(userID uint, log *models.DailyLog) {
	if s.rt != nil && log != nil {
		s.rt.BroadcastLog(userID, log)
	}
}

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC").Order("created_at ASC")
}

func findExercise(log *models.DailyLog, id string) (*models.ExerciseEntry, error) {
	for i := range log.Exercises {
		if log.Exercises[i].ID == id {
			return &log.Exercises[i], nil
		}
	}
	return nil, notFound("Exercise not found")
}

func newExerciseEntry(logID uint, position int, in ExerciseInput) *models.ExerciseEntry {
	return &models.ExerciseEntry{
		ID:       uuid.NewString(),
		LogID:    logID,
		Position: position,
		Name:     strings.TrimSpace(in.Name),
		Sets:     in.Sets,
		Reps:     in.Reps,
	}
}
