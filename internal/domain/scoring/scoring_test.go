package scoring

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/disciplineos/core/internal/domain/catalog"
	"github.com/disciplineos/core/internal/domain/entities"
)

func TestSafeThreshold(t *testing.T) {
	tests := []struct {
		taskCount int
		want      int
	}{
		{10, 65},
		{20, 65},
		{24, 63},
		{26, 62},
		{40, 55},
		{50, 55},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SafeThreshold(tt.taskCount), "taskCount=%d", tt.taskCount)
	}
}

func TestSafeThresholdMonotonicWithFloor(t *testing.T) {
	prev := SafeThreshold(1)
	for n := 2; n <= 100; n++ {
		cur := SafeThreshold(n)
		assert.LessOrEqual(t, cur, prev)
		assert.GreaterOrEqual(t, cur, 55)
		prev = cur
	}
}

func TestWarningThreshold(t *testing.T) {
	assert.Equal(t, 50, WarningThreshold(20))
	assert.Equal(t, 47, WarningThreshold(26))
	assert.Equal(t, 40, WarningThreshold(50))
}

func TestCompletionPercentage(t *testing.T) {
	assert.Equal(t, 0, CompletionPercentage(0, 0))
	assert.Equal(t, 0, CompletionPercentage(0, 211))
	assert.Equal(t, 100, CompletionPercentage(211, 211))
	assert.Equal(t, 50, CompletionPercentage(50, 100))
	// 129/211 = 61.14 rounds down
	assert.Equal(t, 61, CompletionPercentage(129, 211))
}

func TestEarnedAndBonusPoints(t *testing.T) {
	tasks := catalog.EmptyCompletions()
	complete(tasks, "fajr", "quran")

	assert.Equal(t, 15, EarnedPoints(tasks))
	assert.Equal(t, 8, BonusPoints(tasks))
}

func TestCriticalPenalty(t *testing.T) {
	tasks := catalog.EmptyCompletions()
	assert.InDelta(t, 7.2, CriticalPenalty(tasks), 0.0001)

	complete(tasks, "fajr", "zuhr", "asr", "maghrib", "isha")
	assert.InDelta(t, 1.2, CriticalPenalty(tasks), 0.0001)

	complete(tasks, "top_3_tasks")
	assert.Zero(t, CriticalPenalty(tasks))
}

func TestDayStatusCriticalMissDemotesThresholdDay(t *testing.T) {
	// At exactly the safe threshold with every critical task done the day
	// is safe; one missed critical task pushes the adjusted score below it.
	allCritical := catalog.EmptyCompletions()
	complete(allCritical, "fajr", "zuhr", "asr", "maghrib", "isha", "top_3_tasks")
	assert.Equal(t, entities.DayStatusSafe, DayStatus(63, 24, allCritical))

	oneMissed := catalog.EmptyCompletions()
	complete(oneMissed, "zuhr", "asr", "maghrib", "isha", "top_3_tasks")
	assert.Equal(t, entities.DayStatusWarning, DayStatus(63, 24, oneMissed))
}

func TestDayStatusBands(t *testing.T) {
	allCritical := catalog.EmptyCompletions()
	complete(allCritical, "fajr", "zuhr", "asr", "maghrib", "isha", "top_3_tasks")

	assert.Equal(t, entities.DayStatusSafe, DayStatus(100, 24, allCritical))
	assert.Equal(t, entities.DayStatusWarning, DayStatus(50, 24, allCritical))
	assert.Equal(t, entities.DayStatusFailure, DayStatus(30, 24, allCritical))
}

func TestWeakestCategory(t *testing.T) {
	tasks := catalog.EmptyCompletions()

	// Everything at zero: ties resolve to the first category in order.
	weakest, ok := WeakestCategory(tasks)
	assert.True(t, ok)
	assert.Equal(t, entities.CategoryDeen, weakest)

	complete(tasks, "fajr", "zuhr", "asr", "maghrib", "isha")
	weakest, ok = WeakestCategory(tasks)
	assert.True(t, ok)
	assert.Equal(t, entities.CategoryHealth, weakest)
}

func TestWeakestCategoryExcludesUpgrade(t *testing.T) {
	tasks := catalog.EmptyCompletions()
	for _, def := range catalog.Mandatory() {
		complete(tasks, def.ID)
	}
	// Optional upgrade tasks all missed, yet never reported as weakest.
	weakest, ok := WeakestCategory(tasks)
	assert.True(t, ok)
	assert.NotEqual(t, entities.CategoryDeenUpgrade, weakest)
}

func TestUpdateRecordScoresStaysPendingUntilFinalized(t *testing.T) {
	now := time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC)
	record := catalog.NewDailyRecord(uuid.New(), "2025-06-01", now)
	for _, def := range catalog.Mandatory() {
		complete(record.Tasks, def.ID)
	}

	UpdateRecordScores(record, now)
	assert.Equal(t, entities.DayStatusPending, record.Status)
	assert.Equal(t, 100, record.CompletionPercentage)

	record.DayEndedAt = &now
	UpdateRecordScores(record, now)
	assert.Equal(t, entities.DayStatusSafe, record.Status)
}

func TestUpdateRecordScoresIdempotent(t *testing.T) {
	now := time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC)
	record := catalog.NewDailyRecord(uuid.New(), "2025-06-01", now)
	complete(record.Tasks, "fajr", "workout")
	record.DayEndedAt = &now

	UpdateRecordScores(record, now)
	first := *record
	UpdateRecordScores(record, now)
	assert.Equal(t, first.EarnedPoints, record.EarnedPoints)
	assert.Equal(t, first.CompletionPercentage, record.CompletionPercentage)
	assert.Equal(t, first.Status, record.Status)
}

func TestGenerateVerdictSafe(t *testing.T) {
	now := time.Now()
	record := catalog.NewDailyRecord(uuid.New(), "2025-06-01", now)
	for _, def := range catalog.Mandatory() {
		complete(record.Tasks, def.ID)
	}
	record.DayEndedAt = &now
	UpdateRecordScores(record, now)

	verdict := GenerateVerdict(record)
	assert.Equal(t, entities.DayStatusSafe, verdict.Status)
	assert.Equal(t, 100, verdict.Score)
	assert.Equal(t, 63, verdict.Threshold)
	assert.Equal(t, "Exceptional day. 100% compliance, keep this standard.", verdict.Message)
	assert.NotEmpty(t, verdict.Breakdown)
}

func TestGenerateVerdictFailure(t *testing.T) {
	now := time.Now()
	record := catalog.NewDailyRecord(uuid.New(), "2025-06-01", now)
	record.DayEndedAt = &now
	UpdateRecordScores(record, now)

	verdict := GenerateVerdict(record)
	assert.Equal(t, entities.DayStatusFailure, verdict.Status)
	assert.Equal(t, "Day failed at 0%. A penalty has been assigned.", verdict.Message)
}

func TestGenerateVerdictWarningNamesWeakestCategory(t *testing.T) {
	now := time.Now()
	record := catalog.NewDailyRecord(uuid.New(), "2025-06-01", now)
	complete(record.Tasks,
		"fajr", "zuhr", "asr", "maghrib", "isha",
		"top_3_tasks",
		"workout", "steps", "mobility",
		"sleep_time", "sleep_duration", "no_phone_before_bed",
	)
	record.DayEndedAt = &now
	UpdateRecordScores(record, now)

	verdict := GenerateVerdict(record)
	assert.Equal(t, entities.DayStatusWarning, verdict.Status)
	assert.Equal(t, 61, verdict.Score)
	assert.Contains(t, verdict.Message, "Nutrition is dragging you down")
}

func complete(tasks map[string]entities.TaskCompletion, ids ...string) {
	for _, id := range ids {
		tc := tasks[id]
		tc.Completed = true
		tasks[id] = tc
	}
}
