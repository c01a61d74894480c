package streak

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/disciplineos/core/internal/domain/entities"
)

func TestFromHistoryAllSafe(t *testing.T) {
	records := []entities.DailyRecord{
		finalized("2025-06-01", entities.DayStatusSafe),
		finalized("2025-06-02", entities.DayStatusSafe),
		finalized("2025-06-03", entities.DayStatusSafe),
	}
	assert.Equal(t, 3, FromHistory(records, 0))
}

func TestFromHistoryFailureStopsWalk(t *testing.T) {
	records := []entities.DailyRecord{
		finalized("2025-06-01", entities.DayStatusSafe),
		finalized("2025-06-02", entities.DayStatusFailure),
		finalized("2025-06-03", entities.DayStatusSafe),
		finalized("2025-06-04", entities.DayStatusSafe),
	}
	assert.Equal(t, 2, FromHistory(records, 0))
}

func TestFromHistoryWarningIsNeutral(t *testing.T) {
	records := []entities.DailyRecord{
		finalized("2025-06-01", entities.DayStatusSafe),
		finalized("2025-06-02", entities.DayStatusWarning),
		finalized("2025-06-03", entities.DayStatusSafe),
	}
	assert.Equal(t, 2, FromHistory(records, 0))
}

func TestFromHistoryEmptyKeepsPrior(t *testing.T) {
	assert.Equal(t, 5, FromHistory(nil, 5))
}

func TestProcessDayEndSafeIncrements(t *testing.T) {
	data := entities.StreakData{Current: 2, Longest: 10}
	result := ProcessDayEnd(data, entities.DayStatusSafe, "2025-06-03")

	assert.Equal(t, 3, result.Streak.Current)
	assert.Equal(t, 10, result.Streak.Longest)
	assert.Equal(t, entities.Date("2025-06-03"), *result.Streak.LastSafeDate)
	assert.Equal(t, 3, result.Milestone)
	assert.NotNil(t, result.Reward)
	assert.Equal(t, entities.RewardMinor, result.Reward.Type)
}

func TestProcessDayEndFailureResets(t *testing.T) {
	last := entities.Date("2025-06-02")
	data := entities.StreakData{Current: 6, Longest: 6, LastSafeDate: &last}
	result := ProcessDayEnd(data, entities.DayStatusFailure, "2025-06-03")

	assert.Equal(t, 0, result.Streak.Current)
	assert.Equal(t, 6, result.Streak.Longest)
	assert.Nil(t, result.Streak.LastSafeDate)
	assert.Zero(t, result.Milestone)
	assert.Nil(t, result.Reward)
}

func TestProcessDayEndWarningIsNoOp(t *testing.T) {
	last := entities.Date("2025-06-02")
	data := entities.StreakData{Current: 4, Longest: 8, LastSafeDate: &last}
	result := ProcessDayEnd(data, entities.DayStatusWarning, "2025-06-03")

	assert.Equal(t, data, result.Streak)
	assert.Zero(t, result.Milestone)
	assert.Nil(t, result.Reward)
}

func TestProcessDayEndExtendsLongest(t *testing.T) {
	data := entities.StreakData{Current: 9, Longest: 9}
	result := ProcessDayEnd(data, entities.DayStatusSafe, "2025-06-03")
	assert.Equal(t, 10, result.Streak.Current)
	assert.Equal(t, 10, result.Streak.Longest)
}

func TestProcessDayEndMilestoneWithoutRewardTier(t *testing.T) {
	data := entities.StreakData{Current: 13, Longest: 13}
	result := ProcessDayEnd(data, entities.DayStatusSafe, "2025-06-03")
	assert.Equal(t, 14, result.Milestone)
	assert.Nil(t, result.Reward)
}

func TestCheckMilestoneExactMatchOnly(t *testing.T) {
	m, ok := CheckMilestone(7)
	assert.True(t, ok)
	assert.Equal(t, 7, m)

	_, ok = CheckMilestone(8)
	assert.False(t, ok)
	_, ok = CheckMilestone(0)
	assert.False(t, ok)
}

func TestNextMilestone(t *testing.T) {
	assert.Equal(t, 3, NextMilestone(0))
	assert.Equal(t, 7, NextMilestone(3))
	assert.Equal(t, 14, NextMilestone(10))
	assert.Equal(t, 365, NextMilestone(365))
	assert.Equal(t, 365, NextMilestone(500))
}

func TestMilestoneProgress(t *testing.T) {
	p := MilestoneProgress(5)
	assert.Equal(t, 5, p.Current)
	assert.Equal(t, 7, p.Next)
	assert.Equal(t, 3, p.Previous)
	assert.InDelta(t, 50.0, p.ProgressPercent, 0.0001)
}

func TestMilestoneProgressClamped(t *testing.T) {
	p := MilestoneProgress(500)
	assert.Equal(t, 365, p.Next)
	assert.Equal(t, 100.0, p.ProgressPercent)

	p = MilestoneProgress(0)
	assert.Equal(t, 3, p.Next)
	assert.Equal(t, 0.0, p.ProgressPercent)
}

func TestRewardForMilestone(t *testing.T) {
	def, ok := RewardForMilestone(30)
	assert.True(t, ok)
	assert.Equal(t, entities.RewardMajor, def.Type)
	assert.Contains(t, def.Suggestions, "Significant purchase you've been wanting")

	_, ok = RewardForMilestone(14)
	assert.False(t, ok)
}

func TestRewardTypeFor(t *testing.T) {
	_, ok := RewardTypeFor(2)
	assert.False(t, ok)

	tier, _ := RewardTypeFor(3)
	assert.Equal(t, entities.RewardMinor, tier)
	tier, _ = RewardTypeFor(15)
	assert.Equal(t, entities.RewardMedium, tier)
	tier, _ = RewardTypeFor(90)
	assert.Equal(t, entities.RewardMajor, tier)
}

func TestSuggestions(t *testing.T) {
	assert.Len(t, Suggestions(entities.RewardMinor), 4)
	assert.Len(t, Suggestions(entities.RewardMedium), 5)
	assert.Len(t, Suggestions(entities.RewardMajor), 6)
	assert.Nil(t, Suggestions("nonexistent"))
}

func TestEarnedRewards(t *testing.T) {
	assert.Empty(t, EarnedRewards(2))
	assert.Len(t, EarnedRewards(7), 2)
	assert.Len(t, EarnedRewards(100), 3)
}

func TestNewReward(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	rw, ok := NewReward(uuid.New(), 7, now)
	assert.True(t, ok)
	assert.Equal(t, entities.RewardMedium, rw.Type)
	assert.Equal(t, entities.RewardClaimable, rw.Status)
	assert.Equal(t, now.Add(7*24*time.Hour), rw.ExpiresAt)
	assert.False(t, rw.IsExpired(now.Add(6*24*time.Hour)))
	assert.True(t, rw.IsExpired(now.Add(8*24*time.Hour)))
}

func TestNewRewardNoTier(t *testing.T) {
	rw, ok := NewReward(uuid.New(), 14, time.Now())
	assert.False(t, ok)
	assert.Nil(t, rw)
}

func finalized(date entities.Date, status entities.DayStatus) entities.DailyRecord {
	ended := date.Time().Add(23 * time.Hour)
	return entities.DailyRecord{
		Date:       date,
		Status:     status,
		DayEndedAt: &ended,
	}
}
