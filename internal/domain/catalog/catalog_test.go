package catalog

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/disciplineos/core/internal/domain/entities"
)

func TestCatalogComposition(t *testing.T) {
	assert.Len(t, All(), 28)
	assert.Len(t, Mandatory(), 24)
	assert.Len(t, Optional(), 4)
	assert.Equal(t, 211, TotalMandatoryPoints())
	assert.Equal(t, 237, TotalPossiblePoints())
}

func TestCatalogCriticalTasks(t *testing.T) {
	var critical []string
	for _, def := range All() {
		if def.IsCritical() {
			critical = append(critical, def.ID)
		}
	}
	assert.Equal(t, []string{"fajr", "zuhr", "asr", "maghrib", "isha", "top_3_tasks"}, critical)
}

func TestByID(t *testing.T) {
	def, ok := ByID("fajr")
	assert.True(t, ok)
	assert.Equal(t, 15, def.Weight)
	assert.Equal(t, entities.PriorityCritical, def.Priority)

	_, ok = ByID("does_not_exist")
	assert.False(t, ok)
}

func TestOptionalTasksAreUpgradeOrDigital(t *testing.T) {
	for _, def := range Optional() {
		assert.Contains(t, []string{"social_media_fast", "quran", "dhikr", "charity"}, def.ID)
	}
}

func TestByCategory(t *testing.T) {
	deen := ByCategory(entities.CategoryDeen)
	assert.Len(t, deen, 5)
	for _, def := range deen {
		assert.False(t, def.IsOptional)
	}
}

func TestGroupedByCategoryCoversAllCategories(t *testing.T) {
	grouped := GroupedByCategory()
	assert.Len(t, grouped, len(entities.Categories()))
	total := 0
	for _, defs := range grouped {
		total += len(defs)
	}
	assert.Equal(t, len(All()), total)
}

func TestStatsByCategoryExcludesOptional(t *testing.T) {
	tasks := EmptyCompletions()
	markCompleted(tasks, "fajr", "quran")

	stats := StatsByCategory(tasks)
	deen := stats[entities.CategoryDeen]
	assert.Equal(t, 1, deen.Completed)
	assert.Equal(t, 5, deen.Total)
	assert.Equal(t, 15, deen.Points)
	assert.Equal(t, 63, deen.MaxPoints)

	// quran is optional: the upgrade category has no mandatory tasks at all.
	_, ok := stats[entities.CategoryDeenUpgrade]
	assert.False(t, ok)
}

func TestUncompletedMandatory(t *testing.T) {
	tasks := EmptyCompletions()
	assert.Len(t, UncompletedMandatory(tasks), 24)

	markCompleted(tasks, "fajr", "workout")
	open := UncompletedMandatory(tasks)
	assert.Len(t, open, 22)
	for _, def := range open {
		assert.NotContains(t, []string{"fajr", "workout"}, def.ID)
	}
}

func TestNewDailyRecord(t *testing.T) {
	userID := uuid.New()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	record := NewDailyRecord(userID, entities.Date("2025-06-01"), now)

	assert.Equal(t, userID, record.UserID)
	assert.Equal(t, entities.DayStatusPending, record.Status)
	assert.Equal(t, 211, record.TotalPoints)
	assert.Len(t, record.Tasks, 28)
	assert.False(t, record.IsFinalized())
	for id, tc := range record.Tasks {
		assert.Equal(t, id, tc.TaskID)
		assert.False(t, tc.Completed)
	}
}

func TestValidateCompletionValueNoValueRequired(t *testing.T) {
	def, _ := ByID("fajr")
	result := ValidateCompletionValue(def, true, nil)
	assert.True(t, result.Valid)
}

func TestValidateCompletionValueMissingValue(t *testing.T) {
	def, _ := ByID("steps")
	result := ValidateCompletionValue(def, true, nil)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Reason, "steps")
}

func TestValidateCompletionValueStepsMinimum(t *testing.T) {
	def, _ := ByID("steps")

	low := 9999.0
	result := ValidateCompletionValue(def, true, &low)
	assert.False(t, result.Valid)

	exact := 10000.0
	result = ValidateCompletionValue(def, true, &exact)
	assert.True(t, result.Valid)
}

func TestValidateCompletionValueSleepBounds(t *testing.T) {
	def, _ := ByID("sleep_duration")

	short := 6.5
	result := ValidateCompletionValue(def, true, &short)
	assert.False(t, result.Valid)

	long := 9.5
	result = ValidateCompletionValue(def, true, &long)
	assert.False(t, result.Valid)

	good := 7.5
	result = ValidateCompletionValue(def, true, &good)
	assert.True(t, result.Valid)
}

func TestValidateCompletionValueRejectsNegative(t *testing.T) {
	// Tasks without an explicit minimum still reject negative measurements.
	for _, id := range []string{"water", "deep_work", "learning", "quran", "calories_target", "screen_time"} {
		def, ok := ByID(id)
		assert.True(t, ok, id)

		neg := -3.0
		result := ValidateCompletionValue(def, true, &neg)
		assert.False(t, result.Valid, id)
		assert.Contains(t, result.Reason, "negative")
	}
}

func TestValidateCompletionValueIncompleteSkipsBounds(t *testing.T) {
	def, _ := ByID("sleep_duration")
	result := ValidateCompletionValue(def, false, nil)
	assert.True(t, result.Valid)
}

func markCompleted(tasks map[string]entities.TaskCompletion, ids ...string) {
	for _, id := range ids {
		tc := tasks[id]
		tc.Completed = true
		tasks[id] = tc
	}
}
