package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"fitgenix/models"
	"fitgenix/utils"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const defaultJWTSecret = "supersecretkey123"

type Settings struct {
	Port        string
	GinMode     string
	LogLevel    string
	JWTSecret   string
	DatabaseDSN string
	Location    *time.Location
	CORSOrigins []string

	GroqKeys    []string
	GroqBaseURL string
	GroqModel   string

	YouTubeAPIKey string

	AWSRegion     string
	S3Bucket      string
	S3Region      string
	CloudFrontURL string
	SESEmail      string
}

// Load reads .env (if present) and the process environment.
func Load() (*Settings, error) {
	if err := godotenv.Load(); err != nil {
		utils.Log.Info("no .env file found, using environment variables")
	}

	s := &Settings{
		Port:          getenv("PORT", "5000"),
		GinMode:       getenv("GIN_MODE", "debug"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		DatabaseDSN:   databaseDSN(),
		GroqBaseURL:   getenv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GroqModel:     getenv("GROQ_MODEL", "llama-3.3-70b-versatile"),
		YouTubeAPIKey: os.Getenv("YOUTUBE_API_KEY"),
		AWSRegion:     os.Getenv("AWS_REGION"),
		S3Bucket:      os.Getenv("S3_BUCKET"),
		S3Region:      os.Getenv("S3_REGION"),
		CloudFrontURL: os.Getenv("CLOUDFRONT_URL"),
		SESEmail:      os.Getenv("SES_EMAIL"),
	}
	if s.JWTSecret == "" {
		utils.Log.Warn("JWT_SECRET not set, using the built-in development secret")
		s.JWTSecret = defaultJWTSecret
	}
	if s.S3Region == "" {
		s.S3Region = s.AWSRegion
	}

	for _, name := range []string{"GROQ_API_KEY", "GROQ_API_KEY_BACKUP1", "GROQ_API_KEY_BACKUP2"} {
		if k := strings.TrimSpace(os.Getenv(name)); k != "" {
			s.GroqKeys = append(s.GroqKeys, k)
		}
	}

	for _, o := range strings.Split(os.Getenv("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			s.CORSOrigins = append(s.CORSOrigins, o)
		}
	}

	s.Location = time.UTC
	if tz := os.Getenv("APP_TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", tz, err)
		}
		s.Location = loc
	}
	return s, nil
}

func InitDB(s *Settings) (*gorm.DB, error) {
	if s.DatabaseDSN == "" {
		return nil, fmt.Errorf("database is not configured: set DATABASE_URL or DB_HOST")
	}
	db, err := gorm.Open(postgres.Open(s.DatabaseDSN), GormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// GormConfig translates driver errors, so a unique-index violation surfaces
// as gorm.ErrDuplicatedKey.
func GormConfig() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.DailyLog{},
		&models.ExerciseEntry{},
		&models.FoodEntry{},
		&models.MealPlanItem{},
	)
	if err != nil {
		return fmt.Errorf("AutoMigrate failed: %w", err)
	}
	return nil
}

func databaseDSN() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	if os.Getenv("DB_HOST") == "" {
		return ""
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		getenv("DB_PORT", "5432"),
	)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
