package types

import "time"

// User represents a registered player.
// It contains identity, the matchmaking profile, and audit metadata.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Username is the unique display name chosen by the user.
	Username string `json:"username" db:"username"`

	// Email is the unique address used to log in.
	Email string `json:"email" db:"email"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// Sport is the user's main sport.
	Sport Sport `json:"sport" db:"sport"`

	// Level is the user's self-declared skill tier.
	Level Level `json:"level" db:"level"`

	// RegisteredAt is the timestamp when the account was created.
	RegisteredAt time.Time `json:"registered_at" db:"registered_at"`
}

// UserPatch holds the profile fields a user may change after registration.
// Nil fields are left untouched.
type UserPatch struct {
	Username *string
	Email    *string
	Sport    *Sport
	Level    *Level
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Username == nil && p.Email == nil && p.Sport == nil && p.Level == nil
}

// Apply copies the supplied fields onto user.
func (p UserPatch) Apply(user *User) {
	if p.Username != nil {
		user.Username = *p.Username
	}
	if p.Email != nil {
		user.Email = *p.Email
	}
	if p.Sport != nil {
		user.Sport = *p.Sport
	}
	if p.Level != nil {
		user.Level = *p.Level
	}
}
