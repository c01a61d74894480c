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

// DailyRecordRepositoryImpl implements the DailyRecordRepository interface
// on Postgres. Task completions live in a jsonb column keyed by task id.
type DailyRecordRepositoryImpl struct {
	db *sqlx.DB
}

// NewDailyRecordRepository creates a new daily record repository
func NewDailyRecordRepository(db *sqlx.DB) ports.DailyRecordRepository {
	return &DailyRecordRepositoryImpl{db: db}
}

type dailyRecordRow struct {
	UserID               uuid.UUID  `db:"user_id"`
	Date                 string     `db:"date"`
	Tasks                []byte     `db:"tasks"`
	TotalPoints          int        `db:"total_points"`
	EarnedPoints         int        `db:"earned_points"`
	BonusPoints          int        `db:"bonus_points"`
	CompletionPercentage int        `db:"completion_percentage"`
	Status               string     `db:"status"`
	DayEndedAt           *time.Time `db:"day_ended_at"`
	PenaltyID            *uuid.UUID `db:"penalty_id"`
	RewardID             *uuid.UUID `db:"reward_id"`
	CreatedAt            time.Time  `db:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at"`
}

func (row *dailyRecordRow) toEntity() (*entities.DailyRecord, error) {
	tasks := make(map[string]entities.TaskCompletion)
	if len(row.Tasks) > 0 {
		if err := json.Unmarshal(row.Tasks, &tasks); err != nil {
			return nil, fmt.Errorf("decode tasks: %w", err)
		}
	}
	return &entities.DailyRecord{
		UserID:               row.UserID,
		Date:                 entities.Date(row.Date),
		Tasks:                tasks,
		TotalPoints:          row.TotalPoints,
		EarnedPoints:         row.EarnedPoints,
		BonusPoints:          row.BonusPoints,
		CompletionPercentage: row.CompletionPercentage,
		Status:               entities.DayStatus(row.Status),
		DayEndedAt:           row.DayEndedAt,
		PenaltyID:            row.PenaltyID,
		RewardID:             row.RewardID,
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
	}, nil
}

func (r *DailyRecordRepositoryImpl) Get(ctx context.Context, userID uuid.UUID, date entities.Date) (*entities.DailyRecord, error) {
	query := `
		SELECT user_id, date, tasks, total_points, earned_points, bonus_points,
			completion_percentage, status, day_ended_at, penalty_id, reward_id,
			created_at, updated_at
		FROM daily_records
		WHERE user_id = $1 AND date = $2`

	var row dailyRecordRow
	err := r.db.GetContext(ctx, &row, query, userID, string(date))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrRecordNotFound
		}
		return nil, fmt.Errorf("get daily record: %w", err)
	}

	return row.toEntity()
}

func (r *DailyRecordRepositoryImpl) Upsert(ctx context.Context, record *entities.DailyRecord) error {
	tasks, err := json.Marshal(record.Tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}

	query := `
		INSERT INTO daily_records (user_id, date, tasks, total_points, earned_points,
			bonus_points, completion_percentage, status, day_ended_at, penalty_id,
			reward_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (user_id, date) DO UPDATE SET
			tasks = EXCLUDED.tasks,
			total_points = EXCLUDED.total_points,
			earned_points = EXCLUDED.earned_points,
			bonus_points = EXCLUDED.bonus_points,
			completion_percentage = EXCLUDED.completion_percentage,
			status = EXCLUDED.status,
			day_ended_at = EXCLUDED.day_ended_at,
			penalty_id = EXCLUDED.penalty_id,
			reward_id = EXCLUDED.reward_id,
			updated_at = EXCLUDED.updated_at`

	_, err = r.db.ExecContext(ctx, query,
		record.UserID, string(record.Date), tasks, record.TotalPoints,
		record.EarnedPoints, record.BonusPoints, record.CompletionPercentage,
		record.Status, record.DayEndedAt, record.PenaltyID, record.RewardID,
		record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert daily record: %w", err)
	}

	return nil
}

func (r *DailyRecordRepositoryImpl) Range(ctx context.Context, userID uuid.UUID, start, end entities.Date) ([]entities.DailyRecord, error) {
	query := `
		SELECT user_id, date, tasks, total_points, earned_points, bonus_points,
			completion_percentage, status, day_ended_at, penalty_id, reward_id,
			created_at, updated_at
		FROM daily_records
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC`

	var rows []dailyRecordRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, string(start), string(end)); err != nil {
		return nil, fmt.Errorf("range daily records: %w", err)
	}

	records := make([]entities.DailyRecord, 0, len(rows))
	for i := range rows {
		record, err := rows[i].toEntity()
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, nil
}
