package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/disciplineos/core/internal/adapters/repository/memory"
	"github.com/disciplineos/core/internal/domain/entities"
	"github.com/disciplineos/core/internal/infrastructure/logger"
)

func newProfileService(store *memory.Store) *ProfileService {
	return NewProfileService(store.Profiles(), logger.NewNop())
}

func TestProfileRegister(t *testing.T) {
	ctx := context.Background()
	svc := newProfileService(memory.NewStore())
	userID := uuid.New()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	profile, err := svc.Register(ctx, userID, "alice@example.com", "Alice", now)
	assert.NoError(t, err)
	assert.Equal(t, userID, profile.ID)
	assert.Equal(t, "Alice", profile.DisplayName)
	assert.Equal(t, DefaultSettings(), profile.Settings)
	assert.Nil(t, profile.CircleID)
}

func TestProfileRegisterIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newProfileService(memory.NewStore())
	userID := uuid.New()

	first, err := svc.Register(ctx, userID, "alice@example.com", "Alice", time.Now())
	assert.NoError(t, err)

	second, err := svc.Register(ctx, userID, "other@example.com", "Other", time.Now())
	assert.NoError(t, err)
	assert.Equal(t, first.Email, second.Email)
	assert.Equal(t, first.DisplayName, second.DisplayName)
}

func TestProfileGetMissing(t *testing.T) {
	ctx := context.Background()
	svc := newProfileService(memory.NewStore())

	_, err := svc.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, entities.ErrUserNotFound)
}

func TestProfileUpdateSettings(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newProfileService(store)
	userID := uuid.New()

	_, err := svc.Register(ctx, userID, "alice@example.com", "Alice", time.Now())
	assert.NoError(t, err)

	settings := entities.UserSettings{
		DayEndTime:         "22:00",
		SleepTarget:        "21:30",
		DailyCalorieTarget: 1800,
		DailyWaterTarget:   10,
		DailyStepsTarget:   12000,
		ScreenTimeLimit:    90,
	}
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	updated, err := svc.UpdateSettings(ctx, userID, settings, now)
	assert.NoError(t, err)
	assert.Equal(t, settings, updated.Settings)
	assert.Equal(t, now, updated.UpdatedAt)

	stored, err := svc.Get(ctx, userID)
	assert.NoError(t, err)
	assert.Equal(t, settings, stored.Settings)
}
