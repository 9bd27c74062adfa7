package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/sportify-app/apiserver/types"
)

// EventRepository handles persistence for events.
type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) List(ctx context.Context) ([]types.Event, error) {
	const query = `
		SELECT id, title, description, date, location, organizer_id, is_admin_event, created_at
		FROM events
		ORDER BY date, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]types.Event, 0)
	for rows.Next() {
		var event types.Event
		var description sql.NullString
		var organizerID sql.NullInt64
		if err := rows.Scan(
			&event.ID,
			&event.Title,
			&description,
			&event.Date,
			&event.Location,
			&organizerID,
			&event.AdminEvent,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		event.Description = description.String
		if organizerID.Valid {
			id := int(organizerID.Int64)
			event.OrganizerID = &id
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *EventRepository) Create(ctx context.Context, event types.Event) (types.Event, error) {
	event.CreatedAt = time.Now().UTC()

	var organizerID sql.NullInt64
	if event.OrganizerID != nil {
		organizerID = sql.NullInt64{Int64: int64(*event.OrganizerID), Valid: true}
	}

	const query = `
		INSERT INTO events (title, description, date, location, organizer_id, is_admin_event, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		event.Title,
		nullString(event.Description),
		event.Date,
		event.Location,
		organizerID,
		event.AdminEvent,
		event.CreatedAt,
	).Scan(&event.ID); err != nil {
		return types.Event{}, translate(err)
	}
	return event, nil
}
