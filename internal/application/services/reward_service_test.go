package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/disciplineos/core/internal/adapters/repository/memory"
	"github.com/disciplineos/core/internal/domain/entities"
	"github.com/disciplineos/core/internal/domain/streak"
	"github.com/disciplineos/core/internal/infrastructure/logger"
)

func newRewardService(store *memory.Store) *RewardService {
	return NewRewardService(store.Rewards(), logger.NewNop())
}

func TestRewardClaim(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newRewardService(store)
	userID := uuid.New()
	created := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	rw := seedReward(t, store, userID, created)

	claimTime := created.Add(2 * 24 * time.Hour)
	claimed, err := svc.Claim(ctx, userID, rw.ID, claimTime)
	assert.NoError(t, err)
	assert.Equal(t, entities.RewardClaimed, claimed.Status)
	assert.Equal(t, claimTime, *claimed.ClaimedAt)

	_, err = svc.Claim(ctx, userID, rw.ID, claimTime)
	assert.ErrorIs(t, err, entities.ErrRewardNotClaimable)
}

func TestRewardClaimExpiredRejected(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newRewardService(store)
	userID := uuid.New()
	created := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	rw := seedReward(t, store, userID, created)

	_, err := svc.Claim(ctx, userID, rw.ID, created.Add(8*24*time.Hour))
	assert.ErrorIs(t, err, entities.ErrRewardExpired)
}

func TestRewardGetClaimableFoldsExpiry(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newRewardService(store)
	userID := uuid.New()
	created := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	seedReward(t, store, userID, created)

	fresh, err := svc.GetClaimable(ctx, userID, created.Add(24*time.Hour))
	assert.NoError(t, err)
	assert.Len(t, fresh, 1)
	assert.Equal(t, entities.RewardClaimable, fresh[0].Status)

	stale, err := svc.GetClaimable(ctx, userID, created.Add(9*24*time.Hour))
	assert.NoError(t, err)
	assert.Len(t, stale, 1)
	assert.Equal(t, entities.RewardExpired, stale[0].Status)
}

func TestRewardSuggestions(t *testing.T) {
	svc := newRewardService(memory.NewStore())

	assert.Len(t, svc.Suggestions(entities.RewardMinor), 4)
	assert.Len(t, svc.Suggestions(entities.RewardMajor), 6)
	assert.Nil(t, svc.Suggestions("unknown"))
}

func seedReward(t *testing.T, store *memory.Store, userID uuid.UUID, created time.Time) *entities.Reward {
	t.Helper()
	rw, ok := streak.NewReward(userID, 3, created)
	assert.True(t, ok)
	assert.NoError(t, store.Rewards().Create(context.Background(), rw))
	return rw
}
