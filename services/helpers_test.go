package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"fitgenix/config"
	"fitgenix/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fixedNow is a Wednesday.
var fixedNow = time.Date(2024, time.March, 13, 10, 30, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), quietGormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

func newTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	u := models.NewUser("Test", email, "hash")
	require.NoError(t, db.Create(u).Error)
	return u
}

func newTestLogService(t *testing.T, db *gorm.DB) *DailyLogService {
	t.Helper()
	svc := NewDailyLogService(db, time.UTC, nil)
	svc.Now = func() time.Time { return fixedNow }
	return svc
}

// scriptedLLM answers Complete calls in order and records the prompts.
type scriptedLLM struct {
	mu      sync.Mutex
	replies []string
	errs    []error
	prompts []string
}

func (s *scriptedLLM) Complete(_ context.Context, _, user string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := len(s.prompts)
	s.prompts = append(s.prompts, user)
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.replies) {
		return s.replies[i], nil
	}
	return "", errors.New("unexpected call")
}

type failingLLM struct{}

func (failingLLM) Complete(context.Context, string, string) (string, error) {
	return "", fmt.Errorf("%w: all API keys failed", ErrServiceUnavailable)
}

func quietGormConfig() *gorm.Config {
	cfg := config.GormConfig()
	cfg.Logger = logger.Default.LogMode(logger.Silent)
	return cfg
}
