package services

import (
	"errors"
	"fmt"
	"strings"

	"fitgenix/models"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailExists        = errors.New("Email already exists")
	ErrUserNotFound       = errors.New("User not found")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrServiceUnavailable = errors.New("AI service unavailable")
	ErrGenerationFailed   = errors.New("meal plan generation failed")
)

// notFound and invalid keep the sentinel for errors.Is while carrying a
// message meant for the client.
func notFound(msg string) error { return &clientError{kind: ErrNotFound, msg: msg} }

func invalid(msg string) error { return &clientError{kind: ErrInvalidInput, msg: msg} }

type clientError struct {
	kind error
	msg  string
}

func (e *clientError) Error() string { return e.msg }
func (e *clientError) Unwrap() error { return e.kind }

// GenerationError names the batch whose model output could not be recovered.
type GenerationError struct {
	Batch []models.Weekday
	Err   error
}

func (e *GenerationError) Error() string {
	days := make([]string, len(e.Batch))
	for i, d := range e.Batch {
		days[i] = d.Title()
	}
	return fmt.Sprintf("Failed to generate meal plan for %s: %v", strings.Join(days, ", "), e.Err)
}

func (e *GenerationError) Unwrap() []error { return []error{ErrGenerationFailed, e.Err} }
