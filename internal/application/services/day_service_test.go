package services

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/disciplineos/core/internal/adapters/repository/memory"
	"github.com/disciplineos/core/internal/domain/catalog"
	"github.com/disciplineos/core/internal/domain/entities"
	"github.com/disciplineos/core/internal/infrastructure/logger"
	"github.com/disciplineos/core/internal/ports"
)

func newDayService(store *memory.Store) *DayService {
	return NewDayService(store.Records(), store.Penalties(), store.Rewards(), store.Streaks(),
		rand.New(rand.NewSource(1)), logger.NewNop())
}

func TestGetDayCreatesPendingRecord(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newDayService(store)
	userID := uuid.New()

	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	record, err := svc.GetDay(ctx, userID, "2025-06-01", now)
	assert.NoError(t, err)
	assert.Equal(t, entities.DayStatusPending, record.Status)
	assert.Len(t, record.Tasks, 28)
	assert.Equal(t, catalog.TotalMandatoryPoints(), record.TotalPoints)
	assert.Equal(t, now, record.CreatedAt)

	again, err := svc.GetDay(ctx, userID, "2025-06-01", now.Add(time.Hour))
	assert.NoError(t, err)
	assert.Equal(t, record.Date, again.Date)
	assert.Equal(t, now, again.CreatedAt)
}

func TestSetTaskCompletionScoresRecord(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newDayService(store)
	userID := uuid.New()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	record, result, err := svc.SetTaskCompletion(ctx, ports.SetTaskCompletionRequest{
		UserID:    userID,
		Date:      "2025-06-01",
		TaskID:    "fajr",
		Completed: true,
		Now:       now,
	})
	assert.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, 15, record.EarnedPoints)
	assert.Equal(t, entities.DayStatusPending, record.Status)
	assert.NotNil(t, record.Tasks["fajr"].CompletedAt)
}

func TestSetTaskCompletionRejectsInvalidValue(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newDayService(store)
	userID := uuid.New()
	low := 5000.0

	record, result, err := svc.SetTaskCompletion(ctx, ports.SetTaskCompletionRequest{
		UserID:    userID,
		Date:      "2025-06-01",
		TaskID:    "steps",
		Completed: true,
		Value:     &low,
		Now:       time.Now(),
	})
	assert.NoError(t, err)
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Reason)
	assert.False(t, record.Tasks["steps"].Completed)

	stored, err := svc.GetDay(ctx, userID, "2025-06-01", time.Now())
	assert.NoError(t, err)
	assert.False(t, stored.Tasks["steps"].Completed)
	assert.Zero(t, stored.EarnedPoints)
}

func TestSetTaskCompletionUnknownTask(t *testing.T) {
	ctx := context.Background()
	svc := newDayService(memory.NewStore())

	_, _, err := svc.SetTaskCompletion(ctx, ports.SetTaskCompletionRequest{
		UserID: uuid.New(),
		Date:   "2025-06-01",
		TaskID: "no_such_task",
		Now:    time.Now(),
	})
	assert.Error(t, err)
}

func TestSetTaskCompletionRejectedAfterFinalize(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newDayService(store)
	userID := uuid.New()
	now := time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC)

	_, err := svc.FinalizeDay(ctx, userID, "2025-06-01", now)
	assert.NoError(t, err)

	_, _, err = svc.SetTaskCompletion(ctx, ports.SetTaskCompletionRequest{
		UserID:    userID,
		Date:      "2025-06-01",
		TaskID:    "fajr",
		Completed: true,
		Now:       now,
	})
	assert.ErrorIs(t, err, entities.ErrRecordFinalized)
}

func TestFinalizeDayFailureAssignsPenalty(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newDayService(store)
	userID := uuid.New()
	now := time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC)

	verdict, err := svc.FinalizeDay(ctx, userID, "2025-06-01", now)
	assert.NoError(t, err)
	assert.Equal(t, entities.DayStatusFailure, verdict.Status)
	assert.NotNil(t, verdict.PenaltyType)

	pending, err := store.Penalties().Pending(ctx, userID)
	assert.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.Equal(t, entities.SeverityMajor, pending[0].Severity)

	record, err := svc.GetDay(ctx, userID, "2025-06-01", now)
	assert.NoError(t, err)
	assert.NotNil(t, record.PenaltyID)
	assert.Equal(t, pending[0].ID, *record.PenaltyID)

	streakData, err := store.Streaks().Get(ctx, userID)
	assert.NoError(t, err)
	assert.Zero(t, streakData.Current)
}

func TestFinalizeDayIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newDayService(store)
	userID := uuid.New()
	now := time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC)

	first, err := svc.FinalizeDay(ctx, userID, "2025-06-01", now)
	assert.NoError(t, err)

	second, err := svc.FinalizeDay(ctx, userID, "2025-06-01", now.Add(time.Hour))
	assert.NoError(t, err)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.Score, second.Score)

	// The replay must not assign a second penalty.
	recent, err := store.Penalties().Recent(ctx, userID, 10)
	assert.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestFinalizeDaySafeFiresMilestoneReward(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newDayService(store)
	userID := uuid.New()
	now := time.Date(2025, 6, 3, 23, 59, 0, 0, time.UTC)

	last := entities.Date("2025-06-02")
	err := store.Streaks().Set(ctx, userID, entities.StreakData{Current: 2, Longest: 2, LastSafeDate: &last})
	assert.NoError(t, err)

	record := catalog.NewDailyRecord(userID, "2025-06-03", now)
	markDone(record, mandatoryTaskIDs()...)
	assert.NoError(t, store.Records().Upsert(ctx, record))

	verdict, err := svc.FinalizeDay(ctx, userID, "2025-06-03", now)
	assert.NoError(t, err)
	assert.Equal(t, entities.DayStatusSafe, verdict.Status)
	assert.Nil(t, verdict.PenaltyType)
	assert.NotNil(t, verdict.RewardType)
	assert.Equal(t, entities.RewardMinor, *verdict.RewardType)

	streakData, err := store.Streaks().Get(ctx, userID)
	assert.NoError(t, err)
	assert.Equal(t, 3, streakData.Current)
	assert.Equal(t, entities.Date("2025-06-03"), *streakData.LastSafeDate)

	rewards, err := store.Rewards().Claimable(ctx, userID)
	assert.NoError(t, err)
	assert.Len(t, rewards, 1)
	assert.Equal(t, 3, rewards[0].Milestone)
}

func TestFinalizeDayOutOfOrderRejected(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newDayService(store)
	userID := uuid.New()

	last := entities.Date("2025-06-05")
	err := store.Streaks().Set(ctx, userID, entities.StreakData{Current: 5, Longest: 5, LastSafeDate: &last})
	assert.NoError(t, err)

	_, err = svc.FinalizeDay(ctx, userID, "2025-06-03", time.Now())
	assert.ErrorIs(t, err, entities.ErrOutOfOrderFinalize)
}

func TestFinalizeDayWarningLeavesStreakUntouched(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newDayService(store)
	userID := uuid.New()
	now := time.Date(2025, 6, 3, 23, 59, 0, 0, time.UTC)

	last := entities.Date("2025-06-02")
	err := store.Streaks().Set(ctx, userID, entities.StreakData{Current: 4, Longest: 8, LastSafeDate: &last})
	assert.NoError(t, err)

	record := catalog.NewDailyRecord(userID, "2025-06-03", now)
	markDone(record,
		"fajr", "zuhr", "asr", "maghrib", "isha",
		"top_3_tasks",
		"workout", "steps", "mobility",
		"sleep_time", "sleep_duration", "no_phone_before_bed",
	)
	assert.NoError(t, store.Records().Upsert(ctx, record))

	verdict, err := svc.FinalizeDay(ctx, userID, "2025-06-03", now)
	assert.NoError(t, err)
	assert.Equal(t, entities.DayStatusWarning, verdict.Status)
	assert.Nil(t, verdict.PenaltyType)

	streakData, err := store.Streaks().Get(ctx, userID)
	assert.NoError(t, err)
	assert.Equal(t, 4, streakData.Current)
	assert.Equal(t, last, *streakData.LastSafeDate)
}

func mandatoryTaskIDs() []string {
	var ids []string
	for _, def := range catalog.Mandatory() {
		ids = append(ids, def.ID)
	}
	return ids
}

func markDone(record *entities.DailyRecord, ids ...string) {
	for _, id := range ids {
		tc := record.Tasks[id]
		tc.Completed = true
		record.Tasks[id] = tc
	}
}
