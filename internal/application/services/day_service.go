package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/disciplineos/core/internal/domain/catalog"
	"github.com/disciplineos/core/internal/domain/entities"
	"github.com/disciplineos/core/internal/domain/penalty"
	"github.com/disciplineos/core/internal/domain/scoring"
	"github.com/disciplineos/core/internal/domain/streak"
	"github.com/disciplineos/core/internal/infrastructure/logger"
	"github.com/disciplineos/core/internal/ports"
)

// DayService handles daily record operations: lazy creation, live scoring
// and the once-only day-end finalization that drives penalties, streaks
// and rewards.
type DayService struct {
	recordRepo  ports.DailyRecordRepository
	penaltyRepo ports.PenaltyRepository
	rewardRepo  ports.RewardRepository
	streakRepo  ports.StreakRepository
	rng         *rand.Rand
	logger      *logger.Logger
}

// NewDayService creates a new day service. The rng seeds penalty selection
// and is injected so tests can pin outcomes.
func NewDayService(recordRepo ports.DailyRecordRepository, penaltyRepo ports.PenaltyRepository, rewardRepo ports.RewardRepository, streakRepo ports.StreakRepository, rng *rand.Rand, logger *logger.Logger) *DayService {
	return &DayService{
		recordRepo:  recordRepo,
		penaltyRepo: penaltyRepo,
		rewardRepo:  rewardRepo,
		streakRepo:  streakRepo,
		rng:         rng,
		logger:      logger,
	}
}

// GetDay returns the record for a (user, date), creating an empty pending
// record on first access.
func (s *DayService) GetDay(ctx context.Context, userID uuid.UUID, date entities.Date, now time.Time) (*entities.DailyRecord, error) {
	record, err := s.recordRepo.Get(ctx, userID, date)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, entities.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load daily record: %w", err)
	}

	record = catalog.NewDailyRecord(userID, date, now)
	if err := s.recordRepo.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create daily record: %w", err)
	}
	s.logger.Info("Daily record created", "user_id", userID, "date", date)
	return record, nil
}

// SetTaskCompletion updates one task on the day and rescores the record.
// Rejected values come back as a validation result, not an error; the stored
// completion stays untouched in that case.
func (s *DayService) SetTaskCompletion(ctx context.Context, req ports.SetTaskCompletionRequest) (*entities.DailyRecord, *catalog.ValidationResult, error) {
	def, ok := catalog.ByID(req.TaskID)
	if !ok {
		return nil, nil, fmt.Errorf("unknown task id %q", req.TaskID)
	}

	record, err := s.GetDay(ctx, req.UserID, req.Date, req.Now)
	if err != nil {
		return nil, nil, err
	}
	if record.IsFinalized() {
		return nil, nil, entities.ErrRecordFinalized
	}

	result := catalog.ValidateCompletionValue(def, req.Completed, req.Value)
	if !result.Valid {
		return record, &result, nil
	}

	completion := entities.TaskCompletion{
		TaskID:    req.TaskID,
		Completed: req.Completed,
		Value:     req.Value,
		Notes:     req.Notes,
	}
	if req.Completed {
		now := req.Now
		completion.CompletedAt = &now
	}
	record.Tasks[req.TaskID] = completion

	scoring.UpdateRecordScores(record, req.Now)
	if err := s.recordRepo.Upsert(ctx, record); err != nil {
		return nil, nil, fmt.Errorf("failed to save task completion: %w", err)
	}

	return record, &result, nil
}

// GetRange returns the records between two dates inclusive.
func (s *DayService) GetRange(ctx context.Context, userID uuid.UUID, start, end entities.Date) ([]entities.DailyRecord, error) {
	records, err := s.recordRepo.Range(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load record range: %w", err)
	}
	return records, nil
}

// FinalizeDay commits the day's verdict. It runs exactly once per date:
// a second call returns the stored outcome without re-assigning a penalty
// or touching the streak. Finalizing a date before the last safe date is
// rejected; run a streak recompute first.
func (s *DayService) FinalizeDay(ctx context.Context, userID uuid.UUID, date entities.Date, now time.Time) (*entities.DailyVerdict, error) {
	record, err := s.GetDay(ctx, userID, date, now)
	if err != nil {
		return nil, err
	}

	if record.IsFinalized() {
		verdict := scoring.GenerateVerdict(record)
		s.logger.Debug("Day already finalized, returning stored verdict", "user_id", userID, "date", date)
		return &verdict, nil
	}

	streakData, err := s.streakRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load streak: %w", err)
	}
	if streakData.LastSafeDate != nil && date.Before(*streakData.LastSafeDate) {
		return nil, entities.ErrOutOfOrderFinalize
	}

	record.DayEndedAt = &now
	scoring.UpdateRecordScores(record, now)
	verdict := scoring.GenerateVerdict(record)

	if verdict.Status == entities.DayStatusFailure {
		recent, err := s.penaltyRepo.Recent(ctx, userID, 3)
		if err != nil {
			return nil, fmt.Errorf("failed to load recent penalties: %w", err)
		}
		p, err := penalty.New(userID, record, recent, s.rng, now)
		if err != nil {
			return nil, fmt.Errorf("failed to select penalty: %w", err)
		}
		if err := s.penaltyRepo.Create(ctx, p); err != nil {
			return nil, fmt.Errorf("failed to create penalty: %w", err)
		}
		record.PenaltyID = &p.ID
		verdict.PenaltyType = &p.Type
		s.logger.Info("Penalty assigned", "user_id", userID, "date", date, "type", p.Type, "severity", p.Severity)
	}

	dayEnd := streak.ProcessDayEnd(streakData, verdict.Status, date)
	if err := s.streakRepo.Set(ctx, userID, dayEnd.Streak); err != nil {
		return nil, fmt.Errorf("failed to save streak: %w", err)
	}

	if dayEnd.Reward != nil {
		rw, ok := streak.NewReward(userID, dayEnd.Milestone, now)
		if ok {
			if err := s.rewardRepo.Create(ctx, rw); err != nil {
				return nil, fmt.Errorf("failed to create reward: %w", err)
			}
			record.RewardID = &rw.ID
			verdict.RewardType = &rw.Type
			s.logger.Info("Milestone reward earned", "user_id", userID, "milestone", dayEnd.Milestone, "type", rw.Type)
		}
	}

	if err := s.recordRepo.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save finalized record: %w", err)
	}

	s.logger.Info("Day finalized", "user_id", userID, "date", date, "status", verdict.Status, "score", verdict.Score)
	return &verdict, nil
}
