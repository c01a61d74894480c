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

// RewardRepositoryImpl implements the RewardRepository interface
type RewardRepositoryImpl struct {
	db *sqlx.DB
}

// NewRewardRepository creates a new reward repository
func NewRewardRepository(db *sqlx.DB) ports.RewardRepository {
	return &RewardRepositoryImpl{db: db}
}

const rewardColumns = `id, user_id, type, milestone, name, description, status,
	claimed_at, expires_at, created_at`

func (r *RewardRepositoryImpl) Create(ctx context.Context, reward *entities.Reward) error {
	query := `
		INSERT INTO rewards (id, user_id, type, milestone, name, description,
			status, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	if reward.ID == uuid.Nil {
		reward.ID = uuid.New()
	}

	_, err := r.db.ExecContext(ctx, query,
		reward.ID, reward.UserID, reward.Type, reward.Milestone,
		reward.Name, reward.Description, reward.Status,
		reward.ExpiresAt, reward.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create reward: %w", err)
	}

	return nil
}

func (r *RewardRepositoryImpl) GetByID(ctx context.Context, userID, id uuid.UUID) (*entities.Reward, error) {
	query := `SELECT ` + rewardColumns + ` FROM rewards WHERE id = $1 AND user_id = $2`

	var reward entities.Reward
	err := r.db.GetContext(ctx, &reward, query, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrRewardNotFound
		}
		return nil, fmt.Errorf("get reward by id: %w", err)
	}

	return &reward, nil
}

func (r *RewardRepositoryImpl) Claimable(ctx context.Context, userID uuid.UUID) ([]entities.Reward, error) {
	query := `SELECT ` + rewardColumns + `
		FROM rewards
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at DESC`

	var rewards []entities.Reward
	if err := r.db.SelectContext(ctx, &rewards, query, userID, entities.RewardClaimable); err != nil {
		return nil, fmt.Errorf("list claimable rewards: %w", err)
	}
	return rewards, nil
}

func (r *RewardRepositoryImpl) Update(ctx context.Context, reward *entities.Reward) error {
	query := `
		UPDATE rewards
		SET status = $3, claimed_at = $4
		WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query,
		reward.ID, reward.UserID, reward.Status, reward.ClaimedAt,
	)
	if err != nil {
		return fmt.Errorf("update reward: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return entities.ErrRewardNotFound
	}

	return nil
}
