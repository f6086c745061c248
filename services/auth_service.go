package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fitgenix/models"
	"fitgenix/utils"

	"gorm.io/gorm"
)

const (
	resetCodeLength = 6
	resetCodeTTL    = 15 * time.Minute
)

type Mailer interface {
	SendResetEmail(ctx context.Context, to, code string) error
}

type AuthService struct {
	db     *gorm.DB
	secret string
	mailer Mailer
}

// NewAuthService wires the auth flows. mailer may be nil, in which case reset
// codes are stored but not delivered.
func NewAuthService(db *gorm.DB, secret string, mailer Mailer) *AuthService {
	return &AuthService{db: db, secret: secret, mailer: mailer}
}

func (s *AuthService) Register(name, email, password string) (string, *models.User, error) {
	email = normalizeEmail(email)

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return "", nil, err
	}
	if count > 0 {
		return "", nil, ErrEmailExists
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.NewUser(strings.TrimSpace(name), email, hashed)
	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", nil, ErrEmailExists
		}
		return "", nil, err
	}

	token, err := utils.GenerateJWT(user.ID, s.secret)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) Login(email, password string) (string, *models.User, error) {
	user, err := s.FindUserByEmail(email)
	if err != nil {
		return "", nil, err
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.ID, s.secret)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ForgotPassword stores a short-lived reset code and mails it. Unknown emails
// succeed silently so the endpoint does not reveal which accounts exist.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.FindUserByEmail(email)
	if errors.Is(err, ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	code, err := utils.GenerateRandomToken(resetCodeLength)
	if err != nil {
		return err
	}
	user.ResetToken = code
	user.ResetTokenExp = time.Now().Add(resetCodeTTL)
	if err := s.db.Model(user).Select("reset_token", "reset_token_exp").Updates(user).Error; err != nil {
		return err
	}

	if s.mailer == nil {
		utils.Log.WithField("user_id", user.ID).Warn("password reset requested but no mailer is configured")
		return nil
	}
	return s.mailer.SendResetEmail(ctx, user.Email, code)
}

func (s *AuthService) ResetPassword(token, newPassword string) error {
	if token == "" || newPassword == "" {
		return invalid("Invalid input")
	}

	var user models.User
	err := s.db.Where("reset_token = ?", token).First(&user).Error
	if err != nil || time.Now().After(user.ResetTokenExp) {
		return invalid("Invalid or expired token")
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.db.Model(&user).Select("password", "reset_token", "reset_token_exp").Updates(map[string]any{
		"password":        hashed,
		"reset_token":     "",
		"reset_token_exp": time.Time{},
	}).Error
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
