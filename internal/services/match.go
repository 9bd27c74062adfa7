package services

import (
	"context"
	"strings"
	"time"

	"github.com/sportify-app/apiserver/types"
	"go.uber.org/zap"
)

// MatchRepository defines persistence operations for matches.
type MatchRepository interface {
	Create(ctx context.Context, match types.Match) (types.Match, error)
	Get(ctx context.Context, id int) (types.MatchView, error)
	List(ctx context.Context) ([]types.MatchView, error)
	Join(ctx context.Context, matchID, userID int) (types.Participant, int, error)
	Participants(ctx context.Context, matchID int) ([]types.ParticipantView, error)
	StartingBetween(ctx context.Context, from, to time.Time) ([]types.Match, error)
}

// MatchService encapsulates the match lifecycle: creation, joining and rosters.
type MatchService struct {
	repo     MatchRepository
	notifier Notifier
	logger   *zap.Logger
}

func NewMatchService(repo MatchRepository, notifier Notifier, logger *zap.Logger) *MatchService {
	if notifier == nil {
		notifier = NopNotifier()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchService{repo: repo, notifier: notifier, logger: logger}
}

type CreateMatchInput struct {
	Title           string
	Description     string
	Date            time.Time
	Location        string
	Level           string
	Sport           string
	MaxParticipants int
	OrganizerID     int
}

// JoinResult is the outcome of a successful join.
type JoinResult struct {
	Participant types.Participant `json:"participant"`
	Count       int               `json:"count"`
}

func (s *MatchService) Create(ctx context.Context, in CreateMatchInput) (types.Match, error) {
	title := strings.TrimSpace(in.Title)
	location := strings.TrimSpace(in.Location)
	if title == "" {
		return types.Match{}, invalid("title", "is required")
	}
	if location == "" {
		return types.Match{}, invalid("location", "is required")
	}
	if in.Date.IsZero() {
		return types.Match{}, invalid("date", "is required")
	}
	if in.OrganizerID <= 0 {
		return types.Match{}, invalid("organizer_id", "is required")
	}
	if in.MaxParticipants <= 0 {
		return types.Match{}, invalid("max_participants", "must be greater than zero")
	}
	level, err := parseLevel("level", in.Level)
	if err != nil {
		return types.Match{}, err
	}
	sport, err := parseSport("sport", in.Sport)
	if err != nil {
		return types.Match{}, err
	}

	match, err := s.repo.Create(ctx, types.Match{
		Title:           title,
		Description:     strings.TrimSpace(in.Description),
		Date:            in.Date.UTC(),
		Location:        location,
		OrganizerID:     in.OrganizerID,
		Level:           level,
		Sport:           sport,
		MaxParticipants: in.MaxParticipants,
	})
	if err != nil {
		return types.Match{}, err
	}

	s.notify(ctx, Notification{
		Type:    NotificationMatchCreated,
		MatchID: match.ID,
		UserID:  match.OrganizerID,
		Title:   match.Title,
		Date:    match.Date,
	})
	return match, nil
}

func (s *MatchService) Get(ctx context.Context, id int) (types.MatchView, error) {
	return s.repo.Get(ctx, id)
}

func (s *MatchService) List(ctx context.Context) ([]types.MatchView, error) {
	return s.repo.List(ctx)
}

// Join adds userID to matchID. A repeat join reports a conflict even when
// the match is full; a join over capacity reports store.ErrMatchFull.
func (s *MatchService) Join(ctx context.Context, matchID, userID int) (JoinResult, error) {
	if matchID <= 0 {
		return JoinResult{}, invalid("match_id", "is required")
	}
	if userID <= 0 {
		return JoinResult{}, invalid("user_id", "is required")
	}

	participant, count, err := s.repo.Join(ctx, matchID, userID)
	if err != nil {
		return JoinResult{}, err
	}

	s.notify(ctx, Notification{
		Type:    NotificationMatchJoined,
		MatchID: matchID,
		UserID:  userID,
		Count:   count,
	})
	return JoinResult{Participant: participant, Count: count}, nil
}

func (s *MatchService) Participants(ctx context.Context, matchID int) ([]types.ParticipantView, error) {
	return s.repo.Participants(ctx, matchID)
}

// notify runs after the write is committed, so a broker failure is only
// logged and never turns a successful operation into an error.
func (s *MatchService) notify(ctx context.Context, note Notification) {
	if err := s.notifier.Notify(ctx, note); err != nil {
		s.logger.Warn("publish notification failed",
			zap.String("type", note.Type),
			zap.Int("match_id", note.MatchID),
			zap.Error(err),
		)
	}
}
