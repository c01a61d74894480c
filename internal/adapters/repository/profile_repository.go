package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/disciplineos/core/internal/domain/entities"
	"github.com/disciplineos/core/internal/ports"
)

// ProfileRepositoryImpl implements the ProfileRepository interface. Settings
// live in a jsonb column.
type ProfileRepositoryImpl struct {
	db *sqlx.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *sqlx.DB) ports.ProfileRepository {
	return &ProfileRepositoryImpl{db: db}
}

type profileRow struct {
	ID          uuid.UUID  `db:"id"`
	Email       string     `db:"email"`
	DisplayName string     `db:"display_name"`
	Settings    []byte     `db:"settings"`
	CircleID    *uuid.UUID `db:"circle_id"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

func (row *profileRow) toEntity() (*entities.UserProfile, error) {
	profile := &entities.UserProfile{
		ID:          row.ID,
		Email:       row.Email,
		DisplayName: row.DisplayName,
		CircleID:    row.CircleID,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if len(row.Settings) > 0 {
		if err := json.Unmarshal(row.Settings, &profile.Settings); err != nil {
			return nil, fmt.Errorf("decode profile settings: %w", err)
		}
	}
	return profile, nil
}

const profileColumns = `id, email, display_name, settings, circle_id, created_at, updated_at`

func (r *ProfileRepositoryImpl) Create(ctx context.Context, profile *entities.UserProfile) error {
	settings, err := json.Marshal(profile.Settings)
	if err != nil {
		return fmt.Errorf("encode profile settings: %w", err)
	}

	query := `
		INSERT INTO profiles (id, email, display_name, settings, circle_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}

	_, err = r.db.ExecContext(ctx, query,
		profile.ID, profile.Email, profile.DisplayName, settings,
		profile.CircleID, profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}

	return nil
}

func (r *ProfileRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	var row profileRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("get profile by id: %w", err)
	}

	return row.toEntity()
}

func (r *ProfileRepositoryImpl) Update(ctx context.Context, profile *entities.UserProfile) error {
	settings, err := json.Marshal(profile.Settings)
	if err != nil {
		return fmt.Errorf("encode profile settings: %w", err)
	}

	query := `
		UPDATE profiles
		SET email = $2, display_name = $3, settings = $4, circle_id = $5, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		profile.ID, profile.Email, profile.DisplayName, settings, profile.CircleID,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return entities.ErrUserNotFound
	}

	return nil
}

func (r *ProfileRepositoryImpl) List(ctx context.Context) ([]entities.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at ASC`

	var rows []profileRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	profiles := make([]entities.UserProfile, 0, len(rows))
	for i := range rows {
		profile, err := rows[i].toEntity()
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
	}
	return profiles, nil
}
