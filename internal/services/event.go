package services

import (
	"context"
	"strings"
	"time"

	"github.com/sportify-app/apiserver/types"
)

// EventRepository defines persistence operations for events.
type EventRepository interface {
	List(ctx context.Context) ([]types.Event, error)
	Create(ctx context.Context, event types.Event) (types.Event, error)
}

type EventService struct {
	repo EventRepository
}

func NewEventService(repo EventRepository) *EventService {
	return &EventService{repo: repo}
}

type CreateEventInput struct {
	Title       string
	Description string
	Date        time.Time
	Location    string
	OrganizerID *int
	// AdminEvent defaults to true when nil.
	AdminEvent  *bool
}

func (s *EventService) List(ctx context.Context) ([]types.Event, error) {
	return s.repo.List(ctx)
}

func (s *EventService) Create(ctx context.Context, in CreateEventInput) (types.Event, error) {
	title := strings.TrimSpace(in.Title)
	location := strings.TrimSpace(in.Location)
	if title == "" {
		return types.Event{}, invalid("title", "is required")
	}
	if location == "" {
		return types.Event{}, invalid("location", "is required")
	}
	if in.Date.IsZero() {
		return types.Event{}, invalid("date", "is required")
	}
	if in.OrganizerID != nil && *in.OrganizerID <= 0 {
		return types.Event{}, invalid("organizer_id", "must be a positive id")
	}

	adminEvent := true
	if in.AdminEvent != nil {
		adminEvent = *in.AdminEvent
	}

	return s.repo.Create(ctx, types.Event{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Date:        in.Date.UTC(),
		Location:    location,
		OrganizerID: in.OrganizerID,
		AdminEvent:  adminEvent,
	})
}
