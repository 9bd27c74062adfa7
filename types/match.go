package types

import "time"

// Match represents an organised sporting session that users can join.
type Match struct {
	// ID is the unique identifier of the match.
	ID int `json:"id" db:"id"`

	// Title is the short human-readable name of the match.
	Title string `json:"title" db:"title"`

	// Description is an optional free-text presentation of the match.
	Description string `json:"description,omitempty" db:"description"`

	// Date is the scheduled start of the match.
	Date time.Time `json:"date" db:"date"`

	// Location is where the match takes place.
	Location string `json:"location" db:"location"`

	// OrganizerID references the user who created the match.
	OrganizerID int `json:"organizer_id" db:"organizer_id"`

	// Level is the skill tier required to take part.
	Level Level `json:"level" db:"level"`

	// Sport is the sport played.
	Sport Sport `json:"sport" db:"sport"`

	// MaxParticipants caps the number of participants. Always positive.
	MaxParticipants int `json:"max_participants" db:"max_participants"`

	// CreatedAt is the timestamp when the match was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// MatchView is the read projection of a match for listings.
type MatchView struct {
	Match

	// OrganizerName is the username of the organizer.
	OrganizerName string `json:"organizer_name"`

	// ParticipantCount is the number of users who joined so far.
	ParticipantCount int `json:"participant_count"`
}

// Participant is the join record between a user and a match.
// A (MatchID, UserID) pair is unique.
type Participant struct {
	ID       int       `json:"id" db:"id"`
	MatchID  int       `json:"match_id" db:"match_id"`
	UserID   int       `json:"user_id" db:"user_id"`
	JoinedAt time.Time `json:"joined_at" db:"joined_at"`
}

// ParticipantView is the roster projection: the user joined with the
// sport of the match they joined.
type ParticipantView struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Sport    Sport  `json:"sport"`
}
