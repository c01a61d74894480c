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

// CircleRepositoryImpl implements the CircleRepository interface. Members
// and mutual challenges are stored as jsonb; capacity is enforced by the
// service, the unique invite code by the schema.
type CircleRepositoryImpl struct {
	db *sqlx.DB
}

// NewCircleRepository creates a new circle repository
func NewCircleRepository(db *sqlx.DB) ports.CircleRepository {
	return &CircleRepositoryImpl{db: db}
}

type circleRow struct {
	ID               uuid.UUID `db:"id"`
	Name             string    `db:"name"`
	Members          []byte    `db:"members"`
	InviteCode       string    `db:"invite_code"`
	SharedStreak     int       `db:"shared_streak"`
	MutualChallenges []byte    `db:"mutual_challenges"`
	CreatedBy        uuid.UUID `db:"created_by"`
	CreatedAt        time.Time `db:"created_at"`
}

func (row *circleRow) toEntity() (*entities.CouplesCircle, error) {
	circle := &entities.CouplesCircle{
		ID:           row.ID,
		Name:         row.Name,
		InviteCode:   row.InviteCode,
		SharedStreak: row.SharedStreak,
		CreatedBy:    row.CreatedBy,
		CreatedAt:    row.CreatedAt,
	}
	if len(row.Members) > 0 {
		if err := json.Unmarshal(row.Members, &circle.Members); err != nil {
			return nil, fmt.Errorf("decode circle members: %w", err)
		}
	}
	if len(row.MutualChallenges) > 0 {
		if err := json.Unmarshal(row.MutualChallenges, &circle.MutualChallenges); err != nil {
			return nil, fmt.Errorf("decode mutual challenges: %w", err)
		}
	}
	return circle, nil
}

const circleColumns = `id, name, members, invite_code, shared_streak, mutual_challenges, created_by, created_at`

func (r *CircleRepositoryImpl) Create(ctx context.Context, circle *entities.CouplesCircle) error {
	members, challenges, err := encodeCircle(circle)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO circles (id, name, members, invite_code, shared_streak,
			mutual_challenges, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if circle.ID == uuid.Nil {
		circle.ID = uuid.New()
	}

	_, err = r.db.ExecContext(ctx, query,
		circle.ID, circle.Name, members, circle.InviteCode,
		circle.SharedStreak, challenges, circle.CreatedBy, circle.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create circle: %w", err)
	}

	return nil
}

func (r *CircleRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.CouplesCircle, error) {
	query := `SELECT ` + circleColumns + ` FROM circles WHERE id = $1`

	var row circleRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrCircleNotFound
		}
		return nil, fmt.Errorf("get circle by id: %w", err)
	}

	return row.toEntity()
}

func (r *CircleRepositoryImpl) GetByInviteCode(ctx context.Context, code string) (*entities.CouplesCircle, error) {
	query := `SELECT ` + circleColumns + ` FROM circles WHERE invite_code = $1`

	var row circleRow
	err := r.db.GetContext(ctx, &row, query, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrCircleNotFound
		}
		return nil, fmt.Errorf("get circle by invite code: %w", err)
	}

	return row.toEntity()
}

func (r *CircleRepositoryImpl) Update(ctx context.Context, circle *entities.CouplesCircle) error {
	members, challenges, err := encodeCircle(circle)
	if err != nil {
		return err
	}

	query := `
		UPDATE circles
		SET name = $2, members = $3, shared_streak = $4, mutual_challenges = $5
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		circle.ID, circle.Name, members, circle.SharedStreak, challenges,
	)
	if err != nil {
		return fmt.Errorf("update circle: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return entities.ErrCircleNotFound
	}

	return nil
}

func (r *CircleRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM circles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete circle: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return entities.ErrCircleNotFound
	}
	return nil
}

func encodeCircle(circle *entities.CouplesCircle) (members, challenges []byte, err error) {
	members, err = json.Marshal(circle.Members)
	if err != nil {
		return nil, nil, fmt.Errorf("encode circle members: %w", err)
	}
	challenges, err = json.Marshal(circle.MutualChallenges)
	if err != nil {
		return nil, nil, fmt.Errorf("encode mutual challenges: %w", err)
	}
	return members, challenges, nil
}
