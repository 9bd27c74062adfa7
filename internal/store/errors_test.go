package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestTranslateUniqueViolation(t *testing.T) {
	cases := map[string]error{
		"users_email_key":                   ErrEmailTaken,
		"users_username_key":                ErrUsernameTaken,
		"participants_match_id_user_id_key": ErrAlreadyJoined,
		"some_other_key":                    ErrConflict,
	}
	for constraint, want := range cases {
		err := translate(fmt.Errorf("insert: %w", &pq.Error{Code: pqUniqueViolation, Constraint: constraint}))
		if err != want {
			t.Fatalf("%s: got %v, want %v", constraint, err, want)
		}
		if !errors.Is(err, ErrConflict) {
			t.Fatalf("%s: expected conflict kind", constraint)
		}
	}
}

func TestTranslateForeignKeyViolation(t *testing.T) {
	err := translate(&pq.Error{Code: pqForeignKeyViolation, Constraint: "stats_user_id_fkey"})
	if err != ErrUserNotFound || !errors.Is(err, ErrNotFound) {
		t.Fatalf("unexpected error: %v", err)
	}
	if err.Error() != "user not found" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestTranslatePassesThroughOtherErrors(t *testing.T) {
	plain := errors.New("boom")
	if got := translate(plain); got != plain {
		t.Fatalf("expected passthrough, got %v", got)
	}
}
