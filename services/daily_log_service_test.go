package services

import (
	"testing"
	"time"

	"fitgenix/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardCreatesTodayLog(t *testing.T) {
	db := newTestDB(t)
	svc := newTestLogService(t, db)
	u := newTestUser(t, db, "a@example.com")

	user, log, err := svc.Dashboard(u.ID, "")
	require.NoError(t, err)
	require.NotNil(t, log)
	assert.Equal(t, "2024-03-13", log.Date)
	assert.Empty(t, log.Exercises)
	assert.NotNil(t, log.Nutrition.Breakfast)
	assert.Len(t, user.DailyLogs, 1)
	assert.Len(t, user.MealPlan, 7)

	// a second read does not add another log
	user, _, err = svc.Dashboard(u.ID, "2024-03-13")
	require.NoError(t, err)
	assert.Len(t, user.DailyLogs, 1)
}

func TestDashboardPastDateWithoutLog(t *testing.T) {
	db := newTestDB(t)
	svc := newTestLogService(t, db)
	u := newTestUser(t, db, "a@example.com")

	user, log, err := svc.Dashboard(u.ID, "2024-03-10")
	require.NoError(t, err)
	assert.Nil(t, log)
	assert.Empty(t, user.DailyLogs)
}

func TestDashboardRejectsMalformedDate(t *testing.T) {
	db := newTestDB(t)
	svc := newTestLogService(t, db)
	u := newTestUser(t, db, "a@example.com")

	_, _, err := svc.Dashboard(u.ID, "13/03/2024")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDashboardPrunesOldLogs(t *testing.T) {
	db := newTestDB(t)
	svc := newTestLogService(t, db)
	u := newTestUser(t, db, "a@example.com")

	for _, date := range []string{"2024-03-01", "2024-03-05", "2024-03-06", "2024-03-12"} {
		log := models.DailyLog{UserID: u.ID, Date: date}
		require.NoError(t, db.Create(&log).Error)
		require.NoError(t, db.Create(&models.ExerciseEntry{ID: date, LogID: log.ID, Name: "Run"}).Error)
	}

	user, _, err := svc.Dashboard(u.ID, "")
	require.NoError(t, err)

	var dates []string
	for _, l := range user.DailyLogs {
		dates = append(dates, l.Date)
	}
	assert.Equal(t, []string{"2024-03-06", "2024-03-12", "2024-03-13"}, dates)

	var orphans int64
	require.NoError(t, db.Model(&models.ExerciseEntry{}).Where("id IN ?", []string{"2024-03-01", "2024-03-05"}).Count(&orphans).Error)
	assert.Zero(t, orphans)
}

func TestDuplicateExerciseNamesCountOnce(t *testing.T) {
	db := newTestDB(t)
	svc := newTestLogService(t, db)
	u := newTestUser(t, db, "a@example.com")

	_, err := svc.LogExercise(u.ID, ExerciseInput{Name: "Squats", Sets: 3, Reps: 10})
	require.NoError(t, err)
	_, err = svc.LogExercise(u.ID, ExerciseInput{Name: "Squats", Sets: 3, Reps: 12})
	require.NoError(t, err)

	_, log, err := svc.Dashboard(u.ID, "")
	require.NoError(t, err)
	require.Len(t, log.Exercises, 2)
	assert.Equal(t, 10, log.Exercises[0].Reps)
	assert.Equal(t, 12, log.Exercises[1].Reps)

	sum := Summarize(log)
	assert.Equal(t, 1, sum.TotalWorkouts)
	assert.Equal(t, 0, sum.WorkoutsDone)
}

func TestLogExercisesBulk(t *testing.T) {
	db := newTestDB(t)
	svc := newTestLogService(t, db)
	u := newTestUser(t, db, "a@example.com")

	n, err := svc.LogExercises(u.ID, []ExerciseInput{{Name: "Push Ups", Sets: 3, Reps: 15}, {Name: "Plank"}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, log, err := svc.Dashboard(u.ID, "")
	require.NoError(t, err)
	require.Len(t, log.Exercises, 2)
	assert.Equal(t, "Plank", log.Exercises[1].Name)
	assert.Zero(t, log.Exercises[1].Sets)
	assert.False(t, log.Exercises[1].Completed)

	_, err = svc.LogExercises(u.ID, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestToggleExerciseTwiceRestoresState(t *testing.T) {
	db := newTestDB(t)
	svc := newTestLogService(t, db)
	u := newTestUser(t, db, "a@example.com")

	log, err := svc.LogExercise(u.ID, ExerciseInput{Name: "Lunges"})
	require.NoError(t, err)
	id := log.Exercises[0].ID

	done, err := svc.ToggleExercise(u.ID, log.Date, id)
	require.NoError(t, err)
	assert.True(t, done)

	done, err = svc.ToggleExercise(u.ID, log.Date, id)
	require.NoError(t, err)
	assert.False(t, done)
}

func TestToggleExerciseNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newTestLogService(t, db)
	u := newTestUser(t, db, "a@example.com")

	_, err := svc.ToggleExercise(u.ID, "2024-03-13", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "Log not found")

	_, err = svc.LogExercise(u.ID, ExerciseInput{Name: "Lunges"})
	require.NoError(t, err)
	_, err = svc.ToggleExercise(u.ID, "2024-03-13", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "Exercise not found")
}

func TestDeleteExerciseRemovesOnlyThatEntry(t *testing.T) {
	db := newTestDB(t)
	svc := newTestLogService(t, db)
	u := newTestUser(t, db, "a@example.com")

	_, err := svc.LogExercise(u.ID, ExerciseInput{Name: "A"})
	require.NoError(t, err)
	log, err := svc.LogExercise(u.ID, ExerciseInput{Name: "B"})
	require.NoError(t, err)

	err = svc.DeleteExercise(u.ID, log.Date, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.DeleteExercise(u.ID, log.Date, log.Exercises[0].ID))

	_, log, err = svc.Dashboard(u.ID, "")
	require.NoError(t, err)
	require.Len(t, log.Exercises, 1)
	assert.Equal(t, "B", log.Exercises[0].Name)
}

func TestLogFood(t *testing.T) {
	db := newTestDB(t)
	svc := newTestLogService(t, db)
	u := newTestUser(t, db, "a@example.com")

	item := models.FoodItem{Name: "Oats", Calories: 150, Protein: "5g", Carbs: "27g", Fats: "3g"}
	log, err := svc.LogFood(u.ID, "Breakfast", item)
	require.NoError(t, err)
	require.Len(t, log.Nutrition.Breakfast, 1)
	assert.Equal(t, "Oats", log.Nutrition.Breakfast[0].Name)
	assert.Empty(t, log.Nutrition.Lunch)

	_, err = svc.LogFood(u.ID, "brunch", item)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEnsureLogIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newTestLogService(t, db)
	u := newTestUser(t, db, "a@example.com")

	first, err := svc.ensureLog(db, u.ID, "2024-03-13")
	require.NoError(t, err)
	second, err := svc.ensureLog(db, u.ID, "2024-03-13")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.DailyLog{}).Where("user_id = ?", u.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestTodayUsesConfiguredLocation(t *testing.T) {
	loc := time.FixedZone("UTC+14", 14*60*60)
	svc := NewDailyLogService(nil, loc, nil)
	svc.Now = func() time.Time { return fixedNow }

	assert.Equal(t, "2024-03-14", svc.Today())
	assert.Equal(t, models.Thursday, svc.TodayWeekday())
}

type recordingBroadcaster struct{ dates []string }

func (r *recordingBroadcaster) BroadcastLog(_ uint, log *models.DailyLog) {
	r.dates = append(r.dates, log.Date)
}

func TestMutationsBroadcastLog(t *testing.T) {
	db := newTestDB(t)
	rec := &recordingBroadcaster{}
	svc := NewDailyLogService(db, time.UTC, rec)
	svc.Now = func() time.Time { return fixedNow }
	u := newTestUser(t, db, "a@example.com")

	log, err := svc.LogExercise(u.ID, ExerciseInput{Name: "A"})
	require.NoError(t, err)
	_, err = svc.ToggleExercise(u.ID, log.Date, log.Exercises[0].ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-03-13", "2024-03-13"}, rec.dates)
}
