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

// PenaltyRepositoryImpl implements the PenaltyRepository interface
type PenaltyRepositoryImpl struct {
	db *sqlx.DB
}

// NewPenaltyRepository creates a new penalty repository
func NewPenaltyRepository(db *sqlx.DB) ports.PenaltyRepository {
	return &PenaltyRepositoryImpl{db: db}
}

const penaltyColumns = `id, user_id, date, type, severity, description, status,
	edited_by, edited_at, original_type, completed_at, waived_at, created_at`

func (r *PenaltyRepositoryImpl) Create(ctx context.Context, penalty *entities.Penalty) error {
	query := `
		INSERT INTO penalties (id, user_id, date, type, severity, description,
			status, edited_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	if penalty.ID == uuid.Nil {
		penalty.ID = uuid.New()
	}

	_, err := r.db.ExecContext(ctx, query,
		penalty.ID, penalty.UserID, string(penalty.Date), penalty.Type,
		penalty.Severity, penalty.Description, penalty.Status,
		penalty.EditedBy, penalty.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create penalty: %w", err)
	}

	return nil
}

func (r *PenaltyRepositoryImpl) GetByID(ctx context.Context, userID, id uuid.UUID) (*entities.Penalty, error) {
	query := `SELECT ` + penaltyColumns + ` FROM penalties WHERE id = $1 AND user_id = $2`

	var penalty entities.Penalty
	err := r.db.GetContext(ctx, &penalty, query, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrPenaltyNotFound
		}
		return nil, fmt.Errorf("get penalty by id: %w", err)
	}

	return &penalty, nil
}

func (r *PenaltyRepositoryImpl) Pending(ctx context.Context, userID uuid.UUID) ([]entities.Penalty, error) {
	query := `SELECT ` + penaltyColumns + `
		FROM penalties
		WHERE user_id = $1 AND status = $2
		ORDER BY date DESC`

	var penalties []entities.Penalty
	if err := r.db.SelectContext(ctx, &penalties, query, userID, entities.PenaltyPending); err != nil {
		return nil, fmt.Errorf("list pending penalties: %w", err)
	}
	return penalties, nil
}

func (r *PenaltyRepositoryImpl) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]entities.Penalty, error) {
	query := `SELECT ` + penaltyColumns + `
		FROM penalties
		WHERE user_id = $1
		ORDER BY date DESC
		LIMIT $2`

	var penalties []entities.Penalty
	if err := r.db.SelectContext(ctx, &penalties, query, userID, limit); err != nil {
		return nil, fmt.Errorf("list recent penalties: %w", err)
	}
	return penalties, nil
}

func (r *PenaltyRepositoryImpl) Update(ctx context.Context, penalty *entities.Penalty) error {
	query := `
		UPDATE penalties
		SET status = $3, completed_at = $4, waived_at = $5
		WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query,
		penalty.ID, penalty.UserID, penalty.Status,
		penalty.CompletedAt, penalty.WaivedAt,
	)
	if err != nil {
		return fmt.Errorf("update penalty: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return entities.ErrPenaltyNotFound
	}

	return nil
}

// PartnerEdit writes the swapped type with a guard on the stored edited_by,
// so two partners racing on the same penalty cannot both succeed.
func (r *PenaltyRepositoryImpl) PartnerEdit(ctx context.Context, penalty *entities.Penalty) error {
	query := `
		UPDATE penalties
		SET type = $3, description = $4, edited_by = $5, edited_at = $6, original_type = $7
		WHERE id = $1 AND user_id = $2
			AND status = $8
			AND (edited_by IS NULL OR edited_by <> $5)`

	result, err := r.db.ExecContext(ctx, query,
		penalty.ID, penalty.UserID, penalty.Type, penalty.Description,
		entities.EditedByPartner, penalty.EditedAt, penalty.OriginalType,
		entities.PenaltyPending,
	)
	if err != nil {
		return fmt.Errorf("partner edit penalty: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("partner edit penalty: %w", err)
	}
	if rows == 0 {
		return entities.ErrPenaltyAlreadyEdited
	}

	return nil
}
