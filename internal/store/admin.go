package store

import (
	"context"
	"database/sql"
)

// AdminRepository holds maintenance operations spanning every table.
type AdminRepository struct {
	db *sql.DB
}

func NewAdminRepository(db *sql.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// ClearAll removes every row, children before parents, in one transaction.
func (r *AdminRepository) ClearAll(ctx context.Context) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, table := range []string{"participants", "stats", "events", "matches", "users"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `ALTER SEQUENCE `+table+`_id_seq RESTART WITH 1`); err != nil {
				return err
			}
		}
		return nil
	})
}
