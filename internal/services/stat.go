package services

import (
	"context"
	"strings"

	"github.com/sportify-app/apiserver/types"
)

// StatRepository defines persistence operations for performance entries.
type StatRepository interface {
	Create(ctx context.Context, stat types.Stat) (types.Stat, error)
	ListByUser(ctx context.Context, userID int) ([]types.Stat, error)
}

type StatService struct {
	repo StatRepository
}

func NewStatService(repo StatRepository) *StatService {
	return &StatService{repo: repo}
}

// AddStatInput carries a new entry. Fields that do not apply to Sport are
// dropped and missing ones stay zero.
type AddStatInput struct {
	UserID   int
	Category string
	Sport    string
	Value    float64
	Fields   types.StatFields
}

func (s *StatService) Add(ctx context.Context, in AddStatInput) (types.Stat, error) {
	if in.UserID <= 0 {
		return types.Stat{}, invalid("user_id", "is required")
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		return types.Stat{}, invalid("category", "is required")
	}
	sport, err := parseSport("sport", in.Sport)
	if err != nil {
		return types.Stat{}, err
	}
	line, ok := types.NewStatLine(sport, in.Fields)
	if !ok {
		return types.Stat{}, invalid("sport", "has no statistics layout")
	}

	return s.repo.Create(ctx, types.Stat{
		UserID:   in.UserID,
		Category: category,
		Sport:    sport,
		Value:    in.Value,
		Line:     line,
	})
}

// List returns the user's entries in recording order. A user without
// entries yields ErrNoStats.
func (s *StatService) List(ctx context.Context, userID int) ([]types.StatView, error) {
	stats, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(stats) == 0 {
		return nil, ErrNoStats
	}

	views := make([]types.StatView, 0, len(stats))
	for _, stat := range stats {
		views = append(views, stat.View())
	}
	return views, nil
}

// History is List ordered newest first.
func (s *StatService) History(ctx context.Context, userID int) ([]types.StatView, error) {
	views, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(views)-1; i < j; i, j = i+1, j-1 {
		views[i], views[j] = views[j], views[i]
	}
	return views, nil
}
