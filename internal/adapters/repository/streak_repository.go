package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/disciplineos/core/internal/domain/entities"
	"github.com/disciplineos/core/internal/ports"
)

// StreakRepositoryImpl implements the StreakRepository interface
type StreakRepositoryImpl struct {
	db *sqlx.DB
}

// NewStreakRepository creates a new streak repository
func NewStreakRepository(db *sqlx.DB) ports.StreakRepository {
	return &StreakRepositoryImpl{db: db}
}

type streakRow struct {
	Current      int     `db:"current"`
	Longest      int     `db:"longest"`
	LastSafeDate *string `db:"last_safe_date"`
}

// Get returns zero-value counters for users without a streak row yet.
func (r *StreakRepositoryImpl) Get(ctx context.Context, userID uuid.UUID) (entities.StreakData, error) {
	query := `SELECT current, longest, last_safe_date FROM streaks WHERE user_id = $1`

	var row streakRow
	err := r.db.GetContext(ctx, &row, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return entities.StreakData{}, nil
		}
		return entities.StreakData{}, fmt.Errorf("get streak: %w", err)
	}

	data := entities.StreakData{Current: row.Current, Longest: row.Longest}
	if row.LastSafeDate != nil {
		d := entities.Date(*row.LastSafeDate)
		data.LastSafeDate = &d
	}
	return data, nil
}

func (r *StreakRepositoryImpl) Set(ctx context.Context, userID uuid.UUID, data entities.StreakData) error {
	query := `
		INSERT INTO streaks (user_id, current, longest, last_safe_date, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			current = EXCLUDED.current,
			longest = EXCLUDED.longest,
			last_safe_date = EXCLUDED.last_safe_date,
			updated_at = NOW()`

	var lastSafe *string
	if data.LastSafeDate != nil {
		s := string(*data.LastSafeDate)
		lastSafe = &s
	}

	if _, err := r.db.ExecContext(ctx, query, userID, data.Current, data.Longest, lastSafe); err != nil {
		return fmt.Errorf("set streak: %w", err)
	}
	return nil
}
