package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fitgenix/config"
	"fitgenix/controllers"
	"fitgenix/services"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type downLLM struct{}

func (downLLM) Complete(context.Context, string, string) (string, error) {
	return "", services.ErrServiceUnavailable
}

type noVideos struct{}

func (noVideos) SearchVideoID(context.Context, string) (string, error) {
	return "", errors.New("offline")
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), quietGormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, config.Migrate(db))

	const secret = "router-secret"
	hub := services.NewRealtimeHub()
	logs := services.NewDailyLogService(db, time.UTC, hub)
	return SetupRouter(Deps{
		JWTSecret: secret,
		Auth:      controllers.NewAuthController(services.NewAuthService(db, secret, nil)),
		Users:     controllers.NewUserController(services.NewUserService(db, nil)),
		Logs:      controllers.NewDailyLogController(logs),
		AI:        controllers.NewAIController(services.NewAIService(downLLM{}, noVideos{})),
		MealPlan:  controllers.NewMealPlanController(services.NewMealPlanService(db, downLLM{}, logs)),
		Realtime:  controllers.NewRealtimeController(hub, nil),
	})
}

func do(t *testing.T, r http.Handler, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(w.Body.Bytes(), &out)
	}
	return w.Code, out
}

func register(t *testing.T, r http.Handler, email string) string {
	t.Helper()
	code, body := do(t, r, http.MethodPost, "/api/register", "", gin.H{"name": "Sam", "email": email, "password": "pw123456"})
	require.Equal(t, http.StatusCreated, code)
	user := body["user"].(map[string]any)
	assert.Equal(t, true, user["isNewUser"])
	return body["token"].(string)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "running")
}

func TestAuthFlow(t *testing.T) {
	r := newTestRouter(t)
	register(t, r, "sam@example.com")

	code, body := do(t, r, http.MethodPost, "/api/register", "", gin.H{"name": "Sam", "email": "sam@example.com", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Email already exists", body["error"])

	code, body = do(t, r, http.MethodPost, "/api/login", "", gin.H{"email": "sam@example.com", "password": "nope"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid credentials", body["error"])

	code, body = do(t, r, http.MethodPost, "/api/login", "", gin.H{"email": "sam@example.com", "password": "pw123456"})
	assert.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, body["token"])
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	r := newTestRouter(t)
	code, _ := do(t, r, http.MethodGet, "/api/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = do(t, r, http.MethodGet, "/api/dashboard", "bogus", nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestDailyLogFlow(t *testing.T) {
	r := newTestRouter(t)
	token := register(t, r, "log@example.com")

	code, body := do(t, r, http.MethodGet, "/api/dashboard", token, nil)
	require.Equal(t, http.StatusOK, code)
	today := body["todayLog"].(map[string]any)
	assert.Empty(t, today["exercises"])

	code, body = do(t, r, http.MethodPost, "/api/user/log/exercise", token, gin.H{"name": "Squats", "sets": 3, "reps": 10})
	require.Equal(t, http.StatusOK, code)
	exercises := body["todayLog"].(map[string]any)["exercises"].([]any)
	require.Len(t, exercises, 1)
	ex := exercises[0].(map[string]any)
	date := body["todayLog"].(map[string]any)["date"].(string)

	code, body = do(t, r, http.MethodPost, "/api/user/log/exercise/toggle", token, gin.H{"date": date, "exerciseId": ex["_id"]})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["completed"])

	code, body = do(t, r, http.MethodPost, "/api/user/log/exercise/toggle", token, gin.H{"date": date, "exerciseId": "missing"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Exercise not found", body["error"])

	code, _ = do(t, r, http.MethodPost, "/api/user/log/food", token, gin.H{"mealType": "brunch", "foodItem": gin.H{"name": "Cake"}})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = do(t, r, http.MethodPost, "/api/user/log/food", token, gin.H{"mealType": "Lunch", "foodItem": gin.H{"name": "Rice", "calories": 200, "protein": "4g"}})
	require.Equal(t, http.StatusOK, code)
	lunch := body["todayLog"].(map[string]any)["nutrition"].(map[string]any)["lunch"].([]any)
	assert.Len(t, lunch, 1)

	code, body = do(t, r, http.MethodGet, "/api/dashboard", token, nil)
	require.Equal(t, http.StatusOK, code)
	summary := body["summary"].(map[string]any)
	assert.EqualValues(t, 200, summary["calories"])
	assert.EqualValues(t, 1, summary["workoutsDone"])
}

func TestAIFallbacks(t *testing.T) {
	r := newTestRouter(t)

	code, body := do(t, r, http.MethodPost, "/api/diet", "", gin.H{"query": "banana"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "banana", body["name"])
	assert.EqualValues(t, 250, body["calories"])

	code, body = do(t, r, http.MethodPost, "/api/chatbot", "", gin.H{"message": "hi"})
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "AI Service Unavailable. Please check API Key.", body["error"])
}

func quietGormConfig() *gorm.Config {
	cfg := config.GormConfig()
	cfg.Logger = logger.Default.LogMode(logger.Silent)
	return cfg
}

func TestOnboardingWithFormStrings(t *testing.T) {
	r := newTestRouter(t)
	token := register(t, r, "onboard@example.com")

	code, body := do(t, r, http.MethodPost, "/api/user/details", token, gin.H{
		"age": "25", "height": "180", "weight": "75", "goalWeight": "70", "goal": "Weight Loss",
	})
	require.Equal(t, http.StatusOK, code, body)
	details := body["details"].(map[string]any)
	assert.EqualValues(t, 25, details["age"])
	assert.EqualValues(t, 180, details["height"])

	code, body = do(t, r, http.MethodPost, "/api/login", "", gin.H{"email": "onboard@example.com", "password": "pw123456"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["user"].(map[string]any)["isNewUser"])

	code, _ = do(t, r, http.MethodPost, "/api/user/details", token, gin.H{"age": "twenty"})
	assert.Equal(t, http.StatusBadRequest, code)
}
