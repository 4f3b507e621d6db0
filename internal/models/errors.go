package models

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInsufficientHistory marks a value that needs more bars than were supplied.
	// The engine itself reports these as nil fields; callers that require a field
	// may wrap this error.
	ErrInsufficientHistory = errors.New("insufficient history")

	// ErrMalformedInput is returned for unsorted, duplicate, non-positive or
	// non-finite bar data.
	ErrMalformedInput = errors.New("malformed input")

	// ErrUnknownEnum is returned when a direction, horizon or label falls outside its closed set.
	ErrUnknownEnum = errors.New("unknown enum value")

	// ErrInvalidInput covers out-of-range scalar inputs such as a win rate above 100.
	ErrInvalidInput = errors.New("invalid input")
)

var validate = validator.New()

// Validate runs struct tag validation shared by all boundary types
func Validate(s interface{}) error {
	return validate.Struct(s)
}
