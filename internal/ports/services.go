package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/disciplineos/core/internal/domain/analytics"
	"github.com/disciplineos/core/internal/domain/catalog"
	"github.com/disciplineos/core/internal/domain/entities"
	"github.com/disciplineos/core/internal/domain/streak"
)

// DayService interface for daily record operations
type DayService interface {
	GetDay(ctx context.Context, userID uuid.UUID, date entities.Date, now time.Time) (*entities.DailyRecord, error)
	SetTaskCompletion(ctx context.Context, req SetTaskCompletionRequest) (*entities.DailyRecord, *catalog.ValidationResult, error)
	FinalizeDay(ctx context.Context, userID uuid.UUID, date entities.Date, now time.Time) (*entities.DailyVerdict, error)
	GetRange(ctx context.Context, userID uuid.UUID, start, end entities.Date) ([]entities.DailyRecord, error)
}

// PenaltyService interface for penalty operations
type PenaltyService interface {
	GetPending(ctx context.Context, userID uuid.UUID) ([]entities.Penalty, error)
	Complete(ctx context.Context, userID, penaltyID uuid.UUID, now time.Time) (*entities.Penalty, error)
	Waive(ctx context.Context, userID, penaltyID uuid.UUID, now time.Time) (*entities.Penalty, error)
	PartnerEdit(ctx context.Context, req PartnerEditRequest) (*entities.Penalty, error)
	Alternatives(ctx context.Context, userID, penaltyID uuid.UUID) ([]entities.PenaltyDefinition, error)
	EscalationSignal(ctx context.Context, userID uuid.UUID, now time.Time) (bool, error)
}

// RewardService interface for reward operations
type RewardService interface {
	GetClaimable(ctx context.Context, userID uuid.UUID, now time.Time) ([]entities.Reward, error)
	Claim(ctx context.Context, userID, rewardID uuid.UUID, now time.Time) (*entities.Reward, error)
	Suggestions(rewardType entities.RewardType) []string
}

// StreakService interface for streak counters and repair
type StreakService interface {
	Get(ctx context.Context, userID uuid.UUID) (entities.StreakData, error)
	Progress(ctx context.Context, userID uuid.UUID) (streak.Progress, error)
	Recompute(ctx context.Context, userID uuid.UUID, start, end entities.Date) (entities.StreakData, error)
}

// CircleService interface for couples circle operations
type CircleService interface {
	Create(ctx context.Context, userID uuid.UUID, name string, now time.Time) (*entities.CouplesCircle, error)
	Join(ctx context.Context, userID uuid.UUID, inviteCode string) (*entities.CouplesCircle, error)
	Leave(ctx context.Context, userID uuid.UUID) error
	Get(ctx context.Context, userID uuid.UUID) (*entities.CouplesCircle, error)
	PartnerProgress(ctx context.Context, userID uuid.UUID, date entities.Date) (*PartnerProgress, error)
}

// AnalyticsService interface for report generation
type AnalyticsService interface {
	WeeklyReport(ctx context.Context, userID uuid.UUID, weekStart entities.Date) (*analytics.WeeklyReport, error)
	MonthlyReport(ctx context.Context, userID uuid.UUID, year int, month time.Month) (*analytics.MonthlyReport, error)
	Heatmap(ctx context.Context, userID uuid.UUID, start, end entities.Date) ([]analytics.HeatmapPoint, error)
	CompareWithPartner(ctx context.Context, userID uuid.UUID, start, end entities.Date) (*analytics.Comparison, error)
}

// Request/Response Types

type SetTaskCompletionRequest struct {
	UserID    uuid.UUID `json:"-"`
	Date      entities.Date
	TaskID    string   `json:"task_id" validate:"required"`
	Completed bool     `json:"completed"`
	Value     *float64 `json:"value,omitempty"`
	Notes     string   `json:"notes,omitempty" validate:"max=500"`
	Now       time.Time
}

type PartnerEditRequest struct {
	EditorID  uuid.UUID
	OwnerID   uuid.UUID
	PenaltyID uuid.UUID
	NewType   entities.PenaltyType `json:"new_type" validate:"required"`
	Now       time.Time
}

// PartnerProgress is the mutual-visibility view one member gets of the
// other: today's live score plus streak and pending penalties.
type PartnerProgress struct {
	PartnerID      uuid.UUID             `json:"partner_id"`
	DisplayName    string                `json:"display_name"`
	Record         *entities.DailyRecord `json:"record,omitempty"`
	Streak         entities.StreakData   `json:"streak"`
	PendingPenalty []entities.Penalty    `json:"pending_penalties"`
}
