package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sportify-app/apiserver/internal/store"
	"github.com/sportify-app/apiserver/types"
)

func seedUsers(t *testing.T, s *Store, n int) []types.User {
	t.Helper()
	users := make([]types.User, 0, n)
	for i := 0; i < n; i++ {
		user, err := s.Users().Create(context.Background(), types.User{
			Username: "player" + string(rune('a'+i)),
			Email:    "player" + string(rune('a'+i)) + "@example.com",
			Sport:    types.SportFootball,
			Level:    types.LevelBeginner,
		})
		if err != nil {
			t.Fatalf("create user %d: %v", i, err)
		}
		users = append(users, user)
	}
	return users
}

func TestConcurrentJoinsNeverExceedCapacity(t *testing.T) {
	s := New()
	ctx := context.Background()
	users := seedUsers(t, s, 10)

	match, err := s.Matches().Create(ctx, types.Match{
		Title:           "Five a side",
		Date:            time.Now().Add(time.Hour),
		Location:        "Stade",
		OrganizerID:     users[0].ID,
		Level:           types.LevelBeginner,
		Sport:           types.SportFootball,
		MaxParticipants: 3,
	})
	if err != nil {
		t.Fatalf("create match: %v", err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	joined, full := 0, 0
	for _, user := range users {
		wg.Add(1)
		go func(userID int) {
			defer wg.Done()
			_, _, err := s.Matches().Join(ctx, match.ID, userID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				joined++
			case errors.Is(err, store.ErrMatchFull):
				full++
			default:
				t.Errorf("unexpected join error: %v", err)
			}
		}(user.ID)
	}
	wg.Wait()

	if joined != 3 || full != 7 {
		t.Fatalf("expected 3 joins and 7 rejections, got %d and %d", joined, full)
	}
	roster, err := s.Matches().Participants(ctx, match.ID)
	if err != nil {
		t.Fatalf("participants: %v", err)
	}
	if len(roster) != 3 {
		t.Fatalf("expected roster of 3, got %d", len(roster))
	}
}

func TestUpdateRejectsTakenEmail(t *testing.T) {
	s := New()
	users := seedUsers(t, s, 2)

	email := users[1].Email
	_, err := s.Users().Update(context.Background(), users[0].ID, types.UserPatch{Email: &email})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	current, _ := s.Users().GetByID(context.Background(), users[0].ID)
	if current.Email == email {
		t.Fatalf("failed update must not be visible")
	}
}

func TestClearAllResetsSequences(t *testing.T) {
	s := New()
	seedUsers(t, s, 2)

	if err := s.Admin().ClearAll(context.Background()); err != nil {
		t.Fatalf("clear: %v", err)
	}
	users := seedUsers(t, s, 1)
	if users[0].ID != 1 {
		t.Fatalf("expected ids to restart at 1, got %d", users[0].ID)
	}
}
