package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sportify-app/apiserver/internal/store"
	"github.com/sportify-app/apiserver/internal/store/memory"
	"github.com/sportify-app/apiserver/types"
)

type recordingNotifier struct {
	mu    sync.Mutex
	notes []Notification
	err   error
}

func (r *recordingNotifier) Notify(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
	return r.err
}

func (r *recordingNotifier) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.notes))
	for _, n := range r.notes {
		out = append(out, n.Type)
	}
	return out
}

func matchInput(organizerID, max int) CreateMatchInput {
	return CreateMatchInput{
		Title:           "Sunday five-a-side",
		Description:     "Bring both shirts",
		Date:            time.Date(2026, 11, 1, 10, 0, 0, 0, time.UTC),
		Location:        "Parc des Sports",
		Level:           "Débutant",
		Sport:           "Football",
		MaxParticipants: max,
		OrganizerID:     organizerID,
	}
}

func TestMatchScenario(t *testing.T) {
	st := memory.New()
	users := newUserService(st)
	notifier := &recordingNotifier{}
	matches := NewMatchService(st.Matches(), notifier, nil)
	ctx := context.Background()

	alice := mustRegister(t, users, "alice", "Football", "Débutant")
	bob := mustRegister(t, users, "bob", "Football", "Beginner")
	carol := mustRegister(t, users, "carol", "Football", "Intermediate")
	dave := mustRegister(t, users, "dave", "Football", "Advanced")

	match, err := matches.Create(ctx, matchInput(alice.ID, 2))
	if err != nil {
		t.Fatalf("create match: %v", err)
	}
	if match.Level != types.LevelBeginner {
		t.Fatalf("expected level alias to be normalized, got %s", match.Level)
	}

	res, err := matches.Join(ctx, match.ID, bob.ID)
	if err != nil {
		t.Fatalf("bob joins: %v", err)
	}
	if res.Count != 1 {
		t.Fatalf("expected count 1, got %d", res.Count)
	}
	if res, err = matches.Join(ctx, match.ID, carol.ID); err != nil || res.Count != 2 {
		t.Fatalf("carol joins: count=%d err=%v", res.Count, err)
	}

	if _, err := matches.Join(ctx, match.ID, bob.ID); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected conflict for repeat join of a full match, got %v", err)
	}
	if _, err := matches.Join(ctx, match.ID, dave.ID); !errors.Is(err, store.ErrMatchFull) {
		t.Fatalf("expected match full, got %v", err)
	}

	roster, err := matches.Participants(ctx, match.ID)
	if err != nil {
		t.Fatalf("participants: %v", err)
	}
	if len(roster) != 2 || roster[0].Username != "bob" || roster[1].Username != "carol" {
		t.Fatalf("unexpected roster %+v", roster)
	}
	for _, p := range roster {
		if p.Sport != types.SportFootball {
			t.Fatalf("expected match sport on roster, got %s", p.Sport)
		}
	}

	list, err := matches.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].OrganizerName != "alice" || list[0].ParticipantCount != 2 {
		t.Fatalf("unexpected match list %+v", list)
	}

	got := notifier.kinds()
	want := []string{NotificationMatchCreated, NotificationMatchJoined, NotificationMatchJoined}
	if len(got) != len(want) {
		t.Fatalf("expected notifications %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected notifications %v, got %v", want, got)
		}
	}
}

func TestCreateMatchValidation(t *testing.T) {
	st := memory.New()
	users := newUserService(st)
	matches := NewMatchService(st.Matches(), nil, nil)
	alice := mustRegister(t, users, "alice", "Tennis", "Advanced")
	ctx := context.Background()

	noTitle := matchInput(alice.ID, 2)
	noTitle.Title = "  "
	noDate := matchInput(alice.ID, 2)
	noDate.Date = time.Time{}
	badSport := matchInput(alice.ID, 2)
	badSport.Sport = "Curling"
	badLevel := matchInput(alice.ID, 2)
	badLevel.Level = "Pro"

	cases := map[string]CreateMatchInput{
		"title":            noTitle,
		"date":             noDate,
		"sport":            badSport,
		"level":            badLevel,
		"max_participants": matchInput(alice.ID, 0),
	}
	for field, in := range cases {
		_, err := matches.Create(ctx, in)
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Field != field {
			t.Fatalf("expected validation error on %s, got %v", field, err)
		}
	}

	if _, err := matches.Create(ctx, matchInput(42, 2)); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected unknown organizer to be not found, got %v", err)
	}
}

func TestJoinErrors(t *testing.T) {
	st := memory.New()
	users := newUserService(st)
	matches := NewMatchService(st.Matches(), nil, nil)
	alice := mustRegister(t, users, "alice", "Football", "Beginner")
	ctx := context.Background()

	match, err := matches.Create(ctx, matchInput(alice.ID, 3))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var verr *ValidationError
	if _, err := matches.Join(ctx, 0, alice.ID); !errors.As(err, &verr) {
		t.Fatalf("expected validation error for missing match id, got %v", err)
	}
	if _, err := matches.Join(ctx, match.ID, 0); !errors.As(err, &verr) {
		t.Fatalf("expected validation error for missing user id, got %v", err)
	}
	if _, err := matches.Join(ctx, match.ID+1, alice.ID); !errors.Is(err, store.ErrMatchNotFound) {
		t.Fatalf("expected match not found, got %v", err)
	}
	if _, err := matches.Join(ctx, match.ID, 77); !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
}

func TestJoinSucceedsWhenNotificationFails(t *testing.T) {
	st := memory.New()
	users := newUserService(st)
	notifier := &recordingNotifier{err: errors.New("broker down")}
	matches := NewMatchService(st.Matches(), notifier, nil)
	alice := mustRegister(t, users, "alice", "Basketball", "Beginner")
	ctx := context.Background()

	match, err := matches.Create(ctx, matchInput(alice.ID, 2))
	if err != nil {
		t.Fatalf("create with failing notifier: %v", err)
	}
	if _, err := matches.Join(ctx, match.ID, alice.ID); err != nil {
		t.Fatalf("join with failing notifier: %v", err)
	}
	if len(notifier.kinds()) != 2 {
		t.Fatalf("expected both notifications to be attempted")
	}
}

func TestConcurrentJoinsRespectCapacity(t *testing.T) {
	st := memory.New()
	users := newUserService(st)
	matches := NewMatchService(st.Matches(), nil, nil)
	ctx := context.Background()

	organizer := mustRegister(t, users, "organizer", "Football", "Beginner")
	match, err := matches.Create(ctx, matchInput(organizer.ID, 4))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	const players = 12
	ids := make([]int, players)
	for i := range ids {
		ids[i] = mustRegister(t, users, "player"+string(rune('a'+i)), "Football", "Beginner").ID
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		joined int
		full   int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(userID int) {
			defer wg.Done()
			_, err := matches.Join(ctx, match.ID, userID)
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
		}(id)
	}
	wg.Wait()

	if joined != 4 || full != players-4 {
		t.Fatalf("expected 4 joins and %d rejections, got %d and %d", players-4, joined, full)
	}
	view, err := matches.Get(ctx, match.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.ParticipantCount != 4 {
		t.Fatalf("expected 4 participants, got %d", view.ParticipantCount)
	}
}

func TestParticipantsOfUnknownMatch(t *testing.T) {
	matches := NewMatchService(memory.New().Matches(), nil, nil)

	roster, err := matches.Participants(context.Background(), 5)
	if err != nil {
		t.Fatalf("participants: %v", err)
	}
	if roster == nil || len(roster) != 0 {
		t.Fatalf("expected empty roster, got %v", roster)
	}
}
