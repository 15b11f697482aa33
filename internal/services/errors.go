package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrMissingID is returned for an empty, "undefined" or "null" id.
	ErrMissingID = errors.New("missing skill id")
	// ErrInvalidID is returned when an id is not a UUID.
	ErrInvalidID         = errors.New("malformed skill id")
	ErrSkillNotFound     = errors.New("skill not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrForbidden         = errors.New("not the owner of this skill")
	ErrUnknownUser       = errors.New("user does not exist")
	ErrIncorrectPassword = errors.New("incorrect password")
)

// ValidationError carries user-facing messages in the order they were found.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, ", ")
}

func newValidationError(msgs ...string) *ValidationError {
	return &ValidationError{Errors: msgs}
}

// AsValidation unwraps a *ValidationError from err.
func AsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// CheckSkillID rejects ids that cannot name a stored skill, before any
// storage access.
func CheckSkillID(id string) error {
	switch id {
	case "", "undefined", "null":
		return ErrMissingID
	}
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}
