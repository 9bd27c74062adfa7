package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sportify-app/apiserver/types"
)

// MatchRepository handles persistence for matches and their participants.
type MatchRepository struct {
	db *sql.DB
}

func NewMatchRepository(db *sql.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

const matchViewQuery = `
	SELECT m.id, m.title, m.description, m.date, m.location, m.organizer_id,
	       m.level, m.sport, m.max_participants, m.created_at,
	       u.username,
	       (SELECT COUNT(1) FROM participants p WHERE p.match_id = m.id)
	FROM matches m
	JOIN users u ON u.id = m.organizer_id`

func scanMatchView(row rowScanner) (types.MatchView, error) {
	var view types.MatchView
	var description sql.NullString
	err := row.Scan(
		&view.ID,
		&view.Title,
		&description,
		&view.Date,
		&view.Location,
		&view.OrganizerID,
		&view.Level,
		&view.Sport,
		&view.MaxParticipants,
		&view.CreatedAt,
		&view.OrganizerName,
		&view.ParticipantCount,
	)
	view.Description = description.String
	return view, err
}

// Create inserts a match after checking, in the same transaction, that the
// organizer exists.
func (r *MatchRepository) Create(ctx context.Context, match types.Match) (types.Match, error) {
	match.CreatedAt = time.Now().UTC()

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		exists, err := userExists(ctx, tx, match.OrganizerID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrUserNotFound
		}

		const query = `
			INSERT INTO matches (title, description, date, location, organizer_id, level, sport, max_participants, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id`
		return tx.QueryRowContext(
			ctx,
			query,
			match.Title,
			nullString(match.Description),
			match.Date,
			match.Location,
			match.OrganizerID,
			match.Level,
			match.Sport,
			match.MaxParticipants,
			match.CreatedAt,
		).Scan(&match.ID)
	})
	if err != nil {
		return types.Match{}, err
	}
	return match, nil
}

func (r *MatchRepository) Get(ctx context.Context, id int) (types.MatchView, error) {
	view, err := scanMatchView(r.db.QueryRowContext(ctx, matchViewQuery+` WHERE m.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.MatchView{}, ErrMatchNotFound
		}
		return types.MatchView{}, err
	}
	return view, nil
}

func (r *MatchRepository) List(ctx context.Context) ([]types.MatchView, error) {
	rows, err := r.db.QueryContext(ctx, matchViewQuery+` ORDER BY m.date, m.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]types.MatchView, 0)
	for rows.Next() {
		view, err := scanMatchView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return views, nil
}

// Join records userID as a participant of matchID and returns the new
// participant count. The match row is locked for the duration of the
// transaction, so the duplicate and capacity checks cannot race with a
// concurrent join of the same match.
func (r *MatchRepository) Join(ctx context.Context, matchID, userID int) (types.Participant, int, error) {
	participant := types.Participant{MatchID: matchID, UserID: userID}
	var count int

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var maxParticipants int
		err := tx.QueryRowContext(ctx, `SELECT max_participants FROM matches WHERE id = $1 FOR UPDATE`, matchID).
			Scan(&maxParticipants)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrMatchNotFound
			}
			return err
		}

		exists, err := userExists(ctx, tx, userID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrUserNotFound
		}

		var joined bool
		const joinedQuery = `SELECT EXISTS (SELECT 1 FROM participants WHERE match_id = $1 AND user_id = $2)`
		if err := tx.QueryRowContext(ctx, joinedQuery, matchID, userID).Scan(&joined); err != nil {
			return err
		}
		if joined {
			return ErrAlreadyJoined
		}

		if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM participants WHERE match_id = $1`, matchID).
			Scan(&count); err != nil {
			return err
		}
		if count >= maxParticipants {
			return ErrMatchFull
		}

		const insert = `
			INSERT INTO participants (match_id, user_id, joined_at)
			VALUES ($1, $2, $3)
			RETURNING id, joined_at`
		if err := tx.QueryRowContext(ctx, insert, matchID, userID, time.Now().UTC()).
			Scan(&participant.ID, &participant.JoinedAt); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return types.Participant{}, 0, err
	}
	return participant, count, nil
}

// Participants lists the roster of a match. An unknown match has an empty
// roster.
func (r *MatchRepository) Participants(ctx context.Context, matchID int) ([]types.ParticipantView, error) {
	const query = `
		SELECT u.id, u.username, m.sport
		FROM participants p
		JOIN users u ON u.id = p.user_id
		JOIN matches m ON m.id = p.match_id
		WHERE p.match_id = $1
		ORDER BY p.id`
	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]types.ParticipantView, 0)
	for rows.Next() {
		var view types.ParticipantView
		if err := rows.Scan(&view.UserID, &view.Username, &view.Sport); err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return views, nil
}

// StartingBetween lists matches scheduled in [from, to).
func (r *MatchRepository) StartingBetween(ctx context.Context, from, to time.Time) ([]types.Match, error) {
	const query = `
		SELECT id, title, description, date, location, organizer_id, level, sport, max_participants, created_at
		FROM matches
		WHERE date >= $1 AND date < $2
		ORDER BY date, id`
	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]types.Match, 0)
	for rows.Next() {
		var match types.Match
		var description sql.NullString
		if err := rows.Scan(
			&match.ID,
			&match.Title,
			&description,
			&match.Date,
			&match.Location,
			&match.OrganizerID,
			&match.Level,
			&match.Sport,
			&match.MaxParticipants,
			&match.CreatedAt,
		); err != nil {
			return nil, err
		}
		match.Description = description.String
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}
