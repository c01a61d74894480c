package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/disciplineos/core/internal/domain/entities"
	"github.com/disciplineos/core/internal/domain/streak"
	"github.com/disciplineos/core/internal/infrastructure/logger"
	"github.com/disciplineos/core/internal/ports"
)

// StreakService exposes the running streak counters and the explicit repair
// operation used after out-of-order finalization.
type StreakService struct {
	streakRepo ports.StreakRepository
	recordRepo ports.DailyRecordRepository
	logger     *logger.Logger
}

// NewStreakService creates a new streak service
func NewStreakService(streakRepo ports.StreakRepository, recordRepo ports.DailyRecordRepository, logger *logger.Logger) *StreakService {
	return &StreakService{
		streakRepo: streakRepo,
		recordRepo: recordRepo,
		logger:     logger,
	}
}

// Get returns the user's streak counters, zero-valued for new users.
func (s *StreakService) Get(ctx context.Context, userID uuid.UUID) (entities.StreakData, error) {
	data, err := s.streakRepo.Get(ctx, userID)
	if err != nil {
		return entities.StreakData{}, fmt.Errorf("failed to load streak: %w", err)
	}
	if err := data.Validate(); err != nil {
		return entities.StreakData{}, err
	}
	return data, nil
}

// Progress returns the milestone progress view for the current streak.
func (s *StreakService) Progress(ctx context.Context, userID uuid.UUID) (streak.Progress, error) {
	data, err := s.Get(ctx, userID)
	if err != nil {
		return streak.Progress{}, err
	}
	return streak.MilestoneProgress(data.Current), nil
}

// Recompute replays the finalized history over [start, end] and overwrites
// the running counters. This is the repair path for backfilled days; the
// fold in day-end finalization stays the normal path.
func (s *StreakService) Recompute(ctx context.Context, userID uuid.UUID, start, end entities.Date) (entities.StreakData, error) {
	records, err := s.recordRepo.Range(ctx, userID, start, end)
	if err != nil {
		return entities.StreakData{}, fmt.Errorf("failed to load record range: %w", err)
	}

	var finalized []entities.DailyRecord
	for _, r := range records {
		if r.IsFinalized() {
			finalized = append(finalized, r)
		}
	}

	existing, err := s.streakRepo.Get(ctx, userID)
	if err != nil {
		return entities.StreakData{}, fmt.Errorf("failed to load streak: %w", err)
	}

	current := streak.FromHistory(finalized, 0)
	data := entities.StreakData{
		Current: current,
		Longest: existing.Longest,
	}
	if current > data.Longest {
		data.Longest = current
	}
	if last := lastSafeDate(finalized); last != nil {
		data.LastSafeDate = last
	}

	if err := s.streakRepo.Set(ctx, userID, data); err != nil {
		return entities.StreakData{}, fmt.Errorf("failed to save streak: %w", err)
	}

	s.logger.Info("Streak recomputed", "user_id", userID, "current", data.Current, "longest", data.Longest)
	return data, nil
}

func lastSafeDate(records []entities.DailyRecord) *entities.Date {
	var last *entities.Date
	for i := range records {
		if records[i].Status != entities.DayStatusSafe {
			continue
		}
		if last == nil || last.Before(records[i].Date) {
			d := records[i].Date
			last = &d
		}
	}
	return last
}
