// Package streak maintains the consecutive-safe-day counters and the
// milestone reward rules. ProcessDayEnd is the authoritative per-day fold;
// FromHistory is the pure replay used for repair after out-of-order
// finalization. Both treat warning days as neutral.
package streak

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/disciplineos/core/internal/domain/entities"
)

// Milestones is the fixed ascending milestone list. Reward definitions exist
// only for 3, 7 and 30; the rest fire a milestone signal without a reward.
var Milestones = []int{3, 7, 14, 21, 30, 60, 90, 180, 365}

// rewardTTL is how long an unclaimed reward stays claimable.
const rewardTTL = 7 * 24 * time.Hour

var rewardDefinitions = []entities.RewardDefinition{
	{
		Type:           entities.RewardMinor,
		StreakRequired: 3,
		Name:           "3-Day Streak Reward",
		Description:    "Earned for maintaining 3 consecutive safe days",
		Suggestions: []string{
			"Favorite snack or treat",
			"Extra 30 minutes of leisure time",
			"Watch an episode of favorite show",
			"Small purchase under $10",
		},
	},
	{
		Type:           entities.RewardMedium,
		StreakRequired: 7,
		Name:           "7-Day Streak Reward",
		Description:    "Earned for maintaining 7 consecutive safe days (1 week)",
		Suggestions: []string{
			"Nice meal at favorite restaurant",
			"Purchase something under $30",
			"Half-day off from extra tasks",
			"Movie night or gaming session",
			"Spa treatment or massage",
		},
	},
	{
		Type:           entities.RewardMajor,
		StreakRequired: 30,
		Name:           "30-Day Streak Reward",
		Description:    "Earned for maintaining 30 consecutive safe days (1 month)",
		Suggestions: []string{
			"Significant purchase you've been wanting",
			"Weekend trip or staycation",
			"Premium subscription for a month",
			"New equipment or gear",
			"Special experience (concert, event, etc.)",
			"Charity donation in your name",
		},
	},
}

// FromHistory derives a streak by replaying finalized records, most recent
// first: safe days count, a failure stops the walk, warnings are skipped.
// An empty history returns priorCurrent unchanged.
func FromHistory(records []entities.DailyRecord, priorCurrent int) int {
	if len(records) == 0 {
		return priorCurrent
	}
	sorted := make([]entities.DailyRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[j].Date.Before(sorted[i].Date)
	})

	streak := 0
	for _, r := range sorted {
		switch r.Status {
		case entities.DayStatusSafe:
			streak++
		case entities.DayStatusFailure:
			return streak
		}
	}
	return streak
}

// DayEndResult is the outcome of one day's streak fold. Milestone is 0 when
// none fired; Reward is nil when the milestone carries no reward tier.
type DayEndResult struct {
	Streak    entities.StreakData
	Milestone int
	Reward    *entities.RewardDefinition
}

// ProcessDayEnd applies one finalized day to the running counters. Safe
// increments, failure resets, warning leaves the data untouched.
func ProcessDayEnd(data entities.StreakData, todayStatus entities.DayStatus, todayDate entities.Date) DayEndResult {
	switch todayStatus {
	case entities.DayStatusSafe:
		data.Current++
		if data.Current > data.Longest {
			data.Longest = data.Current
		}
		d := todayDate
		data.LastSafeDate = &d
	case entities.DayStatusFailure:
		data.Current = 0
		data.LastSafeDate = nil
	}

	result := DayEndResult{Streak: data}
	if todayStatus == entities.DayStatusSafe {
		if m, ok := CheckMilestone(data.Current); ok {
			result.Milestone = m
			if def, found := RewardForMilestone(m); found {
				result.Reward = &def
			}
		}
	}
	return result
}

// CheckMilestone fires only on an exact milestone match, never on >=.
func CheckMilestone(current int) (int, bool) {
	for _, m := range Milestones {
		if m == current {
			return m, true
		}
	}
	return 0, false
}

// NextMilestone is the smallest milestone strictly above current, or the
// largest milestone once past the end of the ladder.
func NextMilestone(current int) int {
	for _, m := range Milestones {
		if m > current {
			return m
		}
	}
	return Milestones[len(Milestones)-1]
}

// Progress describes where the current streak sits between milestones.
type Progress struct {
	Current         int     `json:"current"`
	Next            int     `json:"next"`
	Previous        int     `json:"previous_milestone"`
	ProgressPercent float64 `json:"progress"`
}

// MilestoneProgress computes the clamped percentage of the way from the last
// reached milestone to the next one.
func MilestoneProgress(current int) Progress {
	next := NextMilestone(current)
	previous := 0
	for _, m := range Milestones {
		if m < current {
			previous = m
		}
	}

	pct := 0.0
	if span := next - previous; span > 0 {
		pct = float64(current-previous) / float64(span) * 100
	} else if current >= next {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	return Progress{
		Current:         current,
		Next:            next,
		Previous:        previous,
		ProgressPercent: pct,
	}
}

// RewardForMilestone returns the reward definition tied to an exact streak
// length, if one exists.
func RewardForMilestone(milestone int) (entities.RewardDefinition, bool) {
	for _, def := range rewardDefinitions {
		if def.StreakRequired == milestone {
			return def, true
		}
	}
	return entities.RewardDefinition{}, false
}

// RewardTypeFor maps a streak length to the highest reward tier it has
// reached, if any.
func RewardTypeFor(current int) (entities.RewardType, bool) {
	switch {
	case current >= 30:
		return entities.RewardMajor, true
	case current >= 7:
		return entities.RewardMedium, true
	case current >= 3:
		return entities.RewardMinor, true
	default:
		return "", false
	}
}

// Suggestions returns the static suggestion list for a reward tier. Display
// data only, nothing depends on it.
func Suggestions(t entities.RewardType) []string {
	for _, def := range rewardDefinitions {
		if def.Type == t {
			return def.Suggestions
		}
	}
	return nil
}

// EarnedRewards lists every reward tier a streak length has passed.
func EarnedRewards(current int) []entities.RewardDefinition {
	var out []entities.RewardDefinition
	for _, def := range rewardDefinitions {
		if current >= def.StreakRequired {
			out = append(out, def)
		}
	}
	return out
}

// NewReward instantiates a claimable reward for a milestone. It expires a
// week after creation; expiry is evaluated on read, not stored back.
func NewReward(userID uuid.UUID, milestone int, now time.Time) (*entities.Reward, bool) {
	def, ok := RewardForMilestone(milestone)
	if !ok {
		return nil, false
	}
	return &entities.Reward{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        def.Type,
		Milestone:   milestone,
		Name:        def.Name,
		Description: def.Description,
		Status:      entities.RewardClaimable,
		ExpiresAt:   now.Add(rewardTTL),
		CreatedAt:   now,
	}, true
}
