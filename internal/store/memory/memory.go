// Package memory is an in-process implementation of the store repositories.
// It is used for local development without PostgreSQL and as the repository
// fake in tests. Its error semantics mirror the SQL repositories.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sportify-app/apiserver/internal/store"
	"github.com/sportify-app/apiserver/types"
)

// Store holds every table behind one lock. Each repository call takes the
// lock once, which makes it a single unit of work.
type Store struct {
	mu sync.RWMutex

	now func() time.Time

	seq          map[string]int
	users        map[int]types.User
	matches      map[int]types.Match
	participants []types.Participant
	stats        []types.Stat
	events       []types.Event
}

func New() *Store {
	s := &Store{now: func() time.Time { return time.Now().UTC() }}
	s.reset()
	return s
}

// SetClock overrides the time source. Tests use it to pin timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

func (s *Store) reset() {
	s.seq = make(map[string]int)
	s.users = make(map[int]types.User)
	s.matches = make(map[int]types.Match)
	s.participants = nil
	s.stats = nil
	s.events = nil
}

func (s *Store) nextID(table string) int {
	s.seq[table]++
	return s.seq[table]
}

func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }
func (s *Store) Matches() *MatchRepository { return &MatchRepository{s: s} }
func (s *Store) Stats() *StatRepository { return &StatRepository{s: s} }
func (s *Store) Events() *EventRepository { return &EventRepository{s: s} }
func (s *Store) Admin() *AdminRepository { return &AdminRepository{s: s} }

type UserRepository struct{ s *Store }

func (r *UserRepository) GetByID(ctx context.Context, id int) (types.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return types.User{}, store.ErrUserNotFound
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, user := range r.s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrUserNotFound
}

func (r *UserRepository) List(ctx context.Context) ([]types.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]types.User, 0, len(r.s.users))
	for _, user := range r.s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.checkUnique(0, user.Username, user.Email); err != nil {
		return types.User{}, err
	}
	user.ID = r.s.nextID("users")
	user.RegisteredAt = r.s.now()
	r.s.users[user.ID] = user
	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, id int, patch types.UserPatch) (types.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok {
		return types.User{}, store.ErrUserNotFound
	}
	patch.Apply(&user)
	if err := r.s.checkUnique(id, user.Username, user.Email); err != nil {
		return types.User{}, err
	}
	r.s.users[id] = user
	return user, nil
}

func (s *Store) checkUnique(selfID int, username, email string) error {
	for id, other := range s.users {
		if id == selfID {
			continue
		}
		if other.Email == email {
			return store.ErrEmailTaken
		}
		if other.Username == username {
			return store.ErrUsernameTaken
		}
	}
	return nil
}

type MatchRepository struct{ s *Store }

func (r *MatchRepository) Create(ctx context.Context, match types.Match) (types.Match, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[match.OrganizerID]; !ok {
		return types.Match{}, store.ErrUserNotFound
	}
	match.ID = r.s.nextID("matches")
	match.CreatedAt = r.s.now()
	r.s.matches[match.ID] = match
	return match, nil
}

func (r *MatchRepository) Get(ctx context.Context, id int) (types.MatchView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	match, ok := r.s.matches[id]
	if !ok {
		return types.MatchView{}, store.ErrMatchNotFound
	}
	return r.s.matchView(match), nil
}

func (r *MatchRepository) List(ctx context.Context) ([]types.MatchView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	views := make([]types.MatchView, 0, len(r.s.matches))
	for _, match := range r.s.matches {
		views = append(views, r.s.matchView(match))
	}
	sort.Slice(views, func(i, j int) bool {
		if !views[i].Date.Equal(views[j].Date) {
			return views[i].Date.Before(views[j].Date)
		}
		return views[i].ID < views[j].ID
	})
	return views, nil
}

func (s *Store) matchView(match types.Match) types.MatchView {
	return types.MatchView{
		Match:            match,
		OrganizerName:    s.users[match.OrganizerID].Username,
		ParticipantCount: s.participantCount(match.ID),
	}
}

func (s *Store) participantCount(matchID int) int {
	count := 0
	for _, p := range s.participants {
		if p.MatchID == matchID {
			count++
		}
	}
	return count
}

func (r *MatchRepository) Join(ctx context.Context, matchID, userID int) (types.Participant, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	match, ok := r.s.matches[matchID]
	if !ok {
		return types.Participant{}, 0, store.ErrMatchNotFound
	}
	if _, ok := r.s.users[userID]; !ok {
		return types.Participant{}, 0, store.ErrUserNotFound
	}
	for _, p := range r.s.participants {
		if p.MatchID == matchID && p.UserID == userID {
			return types.Participant{}, 0, store.ErrAlreadyJoined
		}
	}
	count := r.s.participantCount(matchID)
	if count >= match.MaxParticipants {
		return types.Participant{}, 0, store.ErrMatchFull
	}

	participant := types.Participant{
		ID:       r.s.nextID("participants"),
		MatchID:  matchID,
		UserID:   userID,
		JoinedAt: r.s.now(),
	}
	r.s.participants = append(r.s.participants, participant)
	return participant, count + 1, nil
}

func (r *MatchRepository) Participants(ctx context.Context, matchID int) ([]types.ParticipantView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	views := make([]types.ParticipantView, 0)
	match, ok := r.s.matches[matchID]
	if !ok {
		return views, nil
	}
	for _, p := range r.s.participants {
		if p.MatchID != matchID {
			continue
		}
		views = append(views, types.ParticipantView{
			UserID:   p.UserID,
			Username: r.s.users[p.UserID].Username,
			Sport:    match.Sport,
		})
	}
	return views, nil
}

func (r *MatchRepository) StartingBetween(ctx context.Context, from, to time.Time) ([]types.Match, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matches := make([]types.Match, 0)
	for _, match := range r.s.matches {
		if !match.Date.Before(from) && match.Date.Before(to) {
			matches = append(matches, match)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return matches, nil
}

type StatRepository struct{ s *Store }

func (r *StatRepository) Create(ctx context.Context, stat types.Stat) (types.Stat, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[stat.UserID]; !ok {
		return types.Stat{}, store.ErrUserNotFound
	}
	stat.ID = r.s.nextID("stats")
	stat.RecordedAt = r.s.now()
	r.s.stats = append(r.s.stats, stat)
	return stat, nil
}

func (r *StatRepository) ListByUser(ctx context.Context, userID int) ([]types.Stat, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stats := make([]types.Stat, 0)
	for _, stat := range r.s.stats {
		if stat.UserID == userID {
			stats = append(stats, stat)
		}
	}
	return stats, nil
}

type EventRepository struct{ s *Store }

func (r *EventRepository) List(ctx context.Context) ([]types.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	events := make([]types.Event, len(r.s.events))
	copy(events, r.s.events)
	sort.SliceStable(events, func(i, j int) bool { return events[i].Date.Before(events[j].Date) })
	return events, nil
}

func (r *EventRepository) Create(ctx context.Context, event types.Event) (types.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if event.OrganizerID != nil {
		if _, ok := r.s.users[*event.OrganizerID]; !ok {
			return types.Event{}, store.ErrUserNotFound
		}
	}
	event.ID = r.s.nextID("events")
	event.CreatedAt = r.s.now()
	r.s.events = append(r.s.events, event)
	return event, nil
}

type AdminRepository struct{ s *Store }

func (r *AdminRepository) ClearAll(ctx context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.reset()
	return nil
}
