package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fitgenix/models"
	"fitgenix/utils"

	"gorm.io/gorm"
)

type ImageUploader interface {
	UploadBase64Image(ctx context.Context, dataURI, prefix string) (string, error)
}

type DetailsInput struct {
	Age            models.Count  `json:"age"`
	Height         models.Number `json:"height"`
	Weight         models.Number `json:"weight"`
	GoalWeight     models.Number `json:"goalWeight"`
	Goal           string        `json:"goal"`
	ProfilePicture string        `json:"profilePicture"`
}

// GoalsInput is a partial update; nil fields are left unchanged.
type GoalsInput struct {
	Workouts *int     `json:"workouts"`
	Calories *float64 `json:"calories"`
	Protein  *float64 `json:"protein"`
	Carbs    *float64 `json:"carbs"`
}

type UserService struct {
	db       *gorm.DB
	uploader ImageUploader
}

func NewUserService(db *gorm.DB, uploader ImageUploader) *UserService {
	return &UserService{db: db, uploader: uploader}
}

func (s *UserService) FindByID(userID uint) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("User not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateDetails replaces the details block. A data-URI profile picture is
// uploaded and stored as its URL; an empty one keeps the current picture.
func (s *UserService) UpdateDetails(ctx context.Context, userID uint, in DetailsInput) (models.Details, error) {
	user, err := s.FindByID(userID)
	if err != nil {
		return models.Details{}, err
	}

	details := models.Details{
		Age:            int(in.Age),
		Height:         float64(in.Height),
		Weight:         float64(in.Weight),
		GoalWeight:     float64(in.GoalWeight),
		Goal:           strings.TrimSpace(in.Goal),
		ProfilePicture: user.Details.ProfilePicture,
	}
	if details.Goal == "" {
		details.Goal = models.DefaultGoal
	}

	switch pic := in.ProfilePicture; {
	case pic == "":
	case strings.HasPrefix(pic, "data:"):
		if s.uploader == nil {
			return models.Details{}, invalid("profile picture uploads are not configured")
		}
		url, err := s.uploader.UploadBase64Image(ctx, pic, fmt.Sprintf("user-%d", user.ID))
		if errors.Is(err, utils.ErrInvalidImage) {
			return models.Details{}, invalid(err.Error())
		}
		if err != nil {
			return models.Details{}, fmt.Errorf("failed to upload image: %w", err)
		}
		details.ProfilePicture = url
	default:
		details.ProfilePicture = pic
	}

	user.Details = details
	if err := s.db.Save(user).Error; err != nil {
		return models.Details{}, err
	}
	return details, nil
}

func (s *UserService) UpdateGoals(userID uint, in GoalsInput) (models.Goals, error) {
	user, err := s.FindByID(userID)
	if err != nil {
		return models.Goals{}, err
	}

	if in.Workouts != nil {
		user.Goals.Workouts = *in.Workouts
	}
	if in.Calories != nil {
		user.Goals.Calories = *in.Calories
	}
	if in.Protein != nil {
		user.Goals.Protein = *in.Protein
	}
	if in.Carbs != nil {
		user.Goals.Carbs = *in.Carbs
	}

	if err := s.db.Save(user).Error; err != nil {
		return models.Goals{}, err
	}
	return user.Goals, nil
}
