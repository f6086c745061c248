package models

import "time"

// Details is the onboarding profile block. It is replaced as a whole on update.
type Details struct {
	Age            int     `json:"age"`
	Height         float64 `json:"height"`
	Weight         float64 `json:"weight"`
	GoalWeight     float64 `json:"goalWeight"`
	Goal           string  `json:"goal"`
	ProfilePicture string  `json:"profilePicture,omitempty"`
}

const DefaultGoal = "Health Maintenance"

type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"not null" json:"name"`
	Email     string     `gorm:"uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"not null" json:"-"`
	Details   Details    `gorm:"embedded;embeddedPrefix:details_" json:"details"`
	Goals     Goals      `gorm:"embedded;embeddedPrefix:goals_" json:"goals"`
	DailyLogs []DailyLog `gorm:"constraint:OnDelete:CASCADE" json:"dailyLogs"`
	MealPlan  MealPlan   `gorm:"-" json:"mealPlan"`

	ResetToken    string    `gorm:"index" json:"-"`
	ResetTokenExp time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewUser returns a user with the default details and goals filled in.
func NewUser(name, email, passwordHash string) *User {
	return &User{
		Name:     name,
		Email:    email,
		Password: passwordHash,
		Details:  Details{Goal: DefaultGoal},
		Goals:    DefaultGoals(),
	}
}

// IsNew reports whether onboarding has not been completed yet.
func (u *User) IsNew() bool { return u.Details.Age == 0 }
