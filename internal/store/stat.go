package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/sportify-app/apiserver/types"
)

// StatRepository handles persistence for performance entries.
type StatRepository struct {
	db *sql.DB
}

func NewStatRepository(db *sql.DB) *StatRepository {
	return &StatRepository{db: db}
}

func (r *StatRepository) Create(ctx context.Context, stat types.Stat) (types.Stat, error) {
	stat.RecordedAt = time.Now().UTC()

	var fields types.StatFields
	if stat.Line != nil {
		fields = stat.Line.Fields()
	}

	const query = `
		INSERT INTO stats (user_id, category, sport, value, goals, assists, minutes_played, rebounds,
		                   aces, double_faults, games_won, distance_swum, strokes, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		stat.UserID,
		stat.Category,
		stat.Sport,
		stat.Value,
		fields.Goals,
		fields.Assists,
		fields.MinutesPlayed,
		fields.Rebounds,
		fields.Aces,
		fields.DoubleFaults,
		fields.GamesWon,
		fields.DistanceSwum,
		fields.Strokes,
		stat.RecordedAt,
	).Scan(&stat.ID); err != nil {
		return types.Stat{}, translate(err)
	}
	return stat, nil
}

// ListByUser returns the entries of a user in recording order.
func (r *StatRepository) ListByUser(ctx context.Context, userID int) ([]types.Stat, error) {
	const query = `
		SELECT id, user_id, category, sport, value, goals, assists, minutes_played, rebounds,
		       aces, double_faults, games_won, distance_swum, strokes, recorded_at
		FROM stats
		WHERE user_id = $1
		ORDER BY recorded_at, id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make([]types.Stat, 0)
	for rows.Next() {
		var stat types.Stat
		var fields types.StatFields
		if err := rows.Scan(
			&stat.ID,
			&stat.UserID,
			&stat.Category,
			&stat.Sport,
			&stat.Value,
			&fields.Goals,
			&fields.Assists,
			&fields.MinutesPlayed,
			&fields.Rebounds,
			&fields.Aces,
			&fields.DoubleFaults,
			&fields.GamesWon,
			&fields.DistanceSwum,
			&fields.Strokes,
			&stat.RecordedAt,
		); err != nil {
			return nil, err
		}
		stat.Line, _ = types.NewStatLine(stat.Sport, fields)
		stats = append(stats, stat)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}
