package store

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write would break a uniqueness rule.
	ErrConflict = errors.New("already exists")

	// ErrMatchFull is returned when a match has no seat left.
	ErrMatchFull = errors.New("match is full")
)

// Specific failures. They match their kind with errors.Is and carry a
// message fit for API clients.
var (
	ErrUserNotFound  error = kindError{kind: ErrNotFound, msg: "user not found"}
	ErrMatchNotFound error = kindError{kind: ErrNotFound, msg: "match not found"}
	ErrEmailTaken    error = kindError{kind: ErrConflict, msg: "email already registered"}
	ErrUsernameTaken error = kindError{kind: ErrConflict, msg: "username already taken"}
	ErrAlreadyJoined error = kindError{kind: ErrConflict, msg: "user already joined this match"}
)

type kindError struct {
	kind error
	msg  string
}

func (e kindError) Error() string { return e.msg }

func (e kindError) Unwrap() error { return e.kind }

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// translate maps constraint violations reported by PostgreSQL onto the
// store errors. Other errors are returned unchanged.
func translate(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case pqUniqueViolation:
		switch pqErr.Constraint {
		case "users_email_key":
			return ErrEmailTaken
		case "users_username_key":
			return ErrUsernameTaken
		case "participants_match_id_user_id_key":
			return ErrAlreadyJoined
		}
		return ErrConflict
	case pqForeignKeyViolation:
		switch pqErr.Constraint {
		case "participants_match_id_fkey":
			return ErrMatchNotFound
		case "matches_organizer_id_fkey", "participants_user_id_fkey", "stats_user_id_fkey", "events_organizer_id_fkey":
			return ErrUserNotFound
		}
		return ErrNotFound
	}
	return err
}
