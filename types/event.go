package types

import "time"

// Event is an announcement published by the platform, such as a tournament
// or an open day. Unlike a Match it has no roster.
type Event struct {
	ID          int       `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description,omitempty" db:"description"`
	Date        time.Time `json:"date" db:"date"`
	Location    string    `json:"location" db:"location"`

	// OrganizerID optionally references the user behind the event.
	OrganizerID *int `json:"organizer_id,omitempty" db:"organizer_id"`

	// AdminEvent marks events published by administrators.
	AdminEvent bool `json:"is_admin_event" db:"is_admin_event"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
