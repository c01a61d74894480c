package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/disciplineos/core/internal/domain/entities"
	"github.com/disciplineos/core/internal/domain/streak"
	"github.com/disciplineos/core/internal/infrastructure/logger"
	"github.com/disciplineos/core/internal/ports"
)

// RewardService handles claiming and listing of milestone rewards. Rewards
// are created by day-end finalization, never here.
type RewardService struct {
	rewardRepo ports.RewardRepository
	logger     *logger.Logger
}

// NewRewardService creates a new reward service
func NewRewardService(rewardRepo ports.RewardRepository, logger *logger.Logger) *RewardService {
	return &RewardService{
		rewardRepo: rewardRepo,
		logger:     logger,
	}
}

// GetClaimable lists the user's open rewards with expiry folded into the
// returned status. Expired entries are included so the caller can show them.
func (s *RewardService) GetClaimable(ctx context.Context, userID uuid.UUID, now time.Time) ([]entities.Reward, error) {
	rewards, err := s.rewardRepo.Claimable(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load claimable rewards: %w", err)
	}
	for i := range rewards {
		rewards[i].Status = rewards[i].EffectiveStatus(now)
	}
	return rewards, nil
}

// Claim transitions a reward to claimed. Expired rewards are rejected.
func (s *RewardService) Claim(ctx context.Context, userID, rewardID uuid.UUID, now time.Time) (*entities.Reward, error) {
	rw, err := s.rewardRepo.GetByID(ctx, userID, rewardID)
	if err != nil {
		return nil, fmt.Errorf("reward not found: %w", err)
	}
	if err := rw.Claim(now); err != nil {
		return nil, err
	}
	if err := s.rewardRepo.Update(ctx, rw); err != nil {
		return nil, fmt.Errorf("failed to update reward: %w", err)
	}
	s.logger.Info("Reward claimed", "user_id", userID, "reward_id", rewardID, "type", rw.Type)
	return rw, nil
}

// Suggestions returns the static suggestion list for a reward tier.
func (s *RewardService) Suggestions(rewardType entities.RewardType) []string {
	return streak.Suggestions(rewardType)
}
