package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/disciplineos/core/internal/domain/entities"
)

// DailyRecordRepository defines the interface for daily record persistence
type DailyRecordRepository interface {
	Get(ctx context.Context, userID uuid.UUID, date entities.Date) (*entities.DailyRecord, error)
	Upsert(ctx context.Context, record *entities.DailyRecord) error
	Range(ctx context.Context, userID uuid.UUID, start, end entities.Date) ([]entities.DailyRecord, error)
}

// PenaltyRepository defines the interface for penalty persistence.
// PartnerEdit must enforce the single-edit invariant with a guard on the
// stored edited_by value, not on the caller's copy.
type PenaltyRepository interface {
	Create(ctx context.Context, penalty *entities.Penalty) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*entities.Penalty, error)
	Pending(ctx context.Context, userID uuid.UUID) ([]entities.Penalty, error)
	Recent(ctx context.Context, userID uuid.UUID, limit int) ([]entities.Penalty, error)
	Update(ctx context.Context, penalty *entities.Penalty) error
	PartnerEdit(ctx context.Context, penalty *entities.Penalty) error
}

// RewardRepository defines the interface for reward persistence
type RewardRepository interface {
	Create(ctx context.Context, reward *entities.Reward) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*entities.Reward, error)
	Claimable(ctx context.Context, userID uuid.UUID) ([]entities.Reward, error)
	Update(ctx context.Context, reward *entities.Reward) error
}

// StreakRepository defines the interface for the running streak counters.
// Get returns zero-value StreakData for users without one.
type StreakRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (entities.StreakData, error)
	Set(ctx context.Context, userID uuid.UUID, data entities.StreakData) error
}

// CircleRepository defines the interface for couples circle persistence
type CircleRepository interface {
	Create(ctx context.Context, circle *entities.CouplesCircle) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.CouplesCircle, error)
	GetByInviteCode(ctx context.Context, code string) (*entities.CouplesCircle, error)
	Update(ctx context.Context, circle *entities.CouplesCircle) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProfileRepository defines the interface for user profile persistence
type ProfileRepository interface {
	Create(ctx context.Context, profile *entities.UserProfile) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.UserProfile, error)
	Update(ctx context.Context, profile *entities.UserProfile) error
	List(ctx context.Context) ([]entities.UserProfile, error)
}
