package services

import (
	"errors"
	"fmt"

	"github.com/sportify-app/apiserver/internal/store"
	"github.com/sportify-app/apiserver/types"
)

// ErrInvalidCredentials is returned when a login does not match any user.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrNoStats signals that a user has no recorded statistics.
var ErrNoStats = fmt.Errorf("no statistics for this user: %w", store.ErrNotFound)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// parseSport and parseLevel are the single validation path for the
// enumerations; every operation that stores a sport or level goes through
// them.
func parseSport(field, raw string) (types.Sport, error) {
	if raw == "" {
		return "", invalid(field, "is required")
	}
	sport, err := types.ParseSport(raw)
	if err != nil {
		return "", invalid(field, fmt.Sprintf("must be one of %v", types.Sports()))
	}
	return sport, nil
}

func parseLevel(field, raw string) (types.Level, error) {
	if raw == "" {
		return "", invalid(field, "is required")
	}
	level, err := types.ParseLevel(raw)
	if err != nil {
		return "", invalid(field, fmt.Sprintf("must be one of %v", types.Levels()))
	}
	return level, nil
}
