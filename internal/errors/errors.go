package errors

import (
	"errors"
)

// Outcomes of a single panel interaction.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrOutOfRange   = errors.New("value out of range")
	ErrUnauthorized = errors.New("unauthorized")
)

// IsValidation reports whether err is an input problem the admin can fix by resending.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrOutOfRange)
}
