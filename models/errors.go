package models

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("already exists")
	ErrOrphanAbility = errors.New("this ability does not belong to a niko")
	ErrNoPick        = errors.New("no niko available to pick")
)

// ValidationError is returned for malformed or out of bounds input
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// RateLimitError tells the user how long to wait before commenting again
type RateLimitError struct {
	Remaining time.Duration
}

func (e *RateLimitError) Error() string {
	minutes := int(math.Floor(e.Remaining.Minutes()))
	seconds := int(math.Ceil(math.Mod(e.Remaining.Seconds(), 60)))
	return fmt.Sprintf("You have %d minutes and %d seconds left before you can comment.", minutes, seconds)
}

func forbidden(reason string) error {
	return fmt.Errorf("%w: %s", ErrForbidden, reason)
}
