// Package scoring turns a day's task completions into points, thresholds and
// a day status. Every function is pure and total: empty days degrade to
// 0% / failure instead of erroring.
package scoring

import (
	"fmt"
	"math"
	"time"

	"github.com/disciplineos/core/internal/domain/catalog"
	"github.com/disciplineos/core/internal/domain/entities"
)

const (
	baseThreshold      = 65.0
	thresholdFloor     = 55.0
	thresholdStep      = 0.5
	thresholdFreeTasks = 20
	warningMargin      = 15
	criticalMissCost   = 1.2
)

// SafeThreshold returns the percentage a day must reach to be safe. The bar
// drops half a point per mandatory task above twenty, never below the floor.
func SafeThreshold(taskCount int) int {
	adjusted := baseThreshold
	if taskCount > thresholdFreeTasks {
		adjusted -= float64(taskCount-thresholdFreeTasks) * thresholdStep
	}
	if adjusted < thresholdFloor {
		adjusted = thresholdFloor
	}
	return int(math.Round(adjusted))
}

// WarningThreshold is the safe threshold minus a fixed margin; below it the
// day is a failure.
func WarningThreshold(taskCount int) int {
	return SafeThreshold(taskCount) - warningMargin
}

// EarnedPoints sums the weights of completed mandatory tasks. Optional task
// completions never count here.
func EarnedPoints(tasks map[string]entities.TaskCompletion) int {
	earned := 0
	for _, def := range catalog.Mandatory() {
		if tc, ok := tasks[def.ID]; ok && tc.Completed {
			earned += def.Weight
		}
	}
	return earned
}

// BonusPoints sums the weights of completed optional tasks. Bonus points are
// informational and excluded from the pass/fail decision.
func BonusPoints(tasks map[string]entities.TaskCompletion) int {
	bonus := 0
	for _, def := range catalog.Optional() {
		if tc, ok := tasks[def.ID]; ok && tc.Completed {
			bonus += def.Weight
		}
	}
	return bonus
}

// CompletionPercentage is round(earned/total*100), 0 when total is 0.
func CompletionPercentage(earned, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(earned) / float64(total) * 100))
}

// CriticalPenalty returns the percentage points deducted for missed critical
// mandatory tasks.
func CriticalPenalty(tasks map[string]entities.TaskCompletion) float64 {
	missed := 0
	for _, def := range catalog.Mandatory() {
		if !def.IsCritical() {
			continue
		}
		if tc, ok := tasks[def.ID]; !ok || !tc.Completed {
			missed++
		}
	}
	return float64(missed) * criticalMissCost
}

// AdjustedScore is the raw percentage minus the critical penalty. It can go
// below zero; classification only compares it against thresholds.
func AdjustedScore(percentage int, tasks map[string]entities.TaskCompletion) float64 {
	return float64(percentage) - CriticalPenalty(tasks)
}

// DayStatus classifies an adjusted score against the dynamic thresholds. The
// critical penalty applies before comparison, so a day at exactly the safe
// threshold with one missed critical task is not safe.
func DayStatus(percentage, taskCount int, tasks map[string]entities.TaskCompletion) entities.DayStatus {
	adjusted := AdjustedScore(percentage, tasks)
	switch {
	case adjusted >= float64(SafeThreshold(taskCount)):
		return entities.DayStatusSafe
	case adjusted >= float64(WarningThreshold(taskCount)):
		return entities.DayStatusWarning
	default:
		return entities.DayStatusFailure
	}
}

// WeakestCategory returns the mandatory category with the lowest completion
// ratio, excluding the optional upgrade category. Ties resolve to the first
// category in catalog order; the tie-break is arbitrary but deterministic.
// ok is false when no category has mandatory tasks.
func WeakestCategory(tasks map[string]entities.TaskCompletion) (entities.TaskCategory, bool) {
	stats := catalog.StatsByCategory(tasks)
	var (
		weakest entities.TaskCategory
		lowest  = math.MaxFloat64
		found   bool
	)
	for _, cat := range entities.Categories() {
		if cat.IsUpgrade() {
			continue
		}
		s, ok := stats[cat]
		if !ok || s.Total == 0 {
			continue
		}
		ratio := float64(s.Completed) / float64(s.Total)
		if ratio < lowest {
			lowest = ratio
			weakest = cat
			found = true
		}
	}
	return weakest, found
}

// Breakdown returns per-category mandatory completion counters in catalog
// category order.
func Breakdown(tasks map[string]entities.TaskCompletion) []entities.CategoryBreakdown {
	stats := catalog.StatsByCategory(tasks)
	var out []entities.CategoryBreakdown
	for _, cat := range entities.Categories() {
		if s, ok := stats[cat]; ok {
			out = append(out, s)
		}
	}
	return out
}

// UpdateRecordScores recomputes the denormalized score fields on a record.
// Status stays pending until the record is finalized; running it twice with
// unchanged completions is a no-op.
func UpdateRecordScores(record *entities.DailyRecord, now time.Time) {
	taskCount := len(catalog.Mandatory())
	record.TotalPoints = catalog.TotalMandatoryPoints()
	record.EarnedPoints = EarnedPoints(record.Tasks)
	record.BonusPoints = BonusPoints(record.Tasks)
	record.CompletionPercentage = CompletionPercentage(record.EarnedPoints, record.TotalPoints)

	if record.IsFinalized() {
		record.Status = DayStatus(record.CompletionPercentage, taskCount, record.Tasks)
	} else {
		record.Status = entities.DayStatusPending
	}
	record.UpdatedAt = now
}

// FinalStatus computes the authoritative verdict status for a record
// independent of the pending override.
func FinalStatus(record *entities.DailyRecord) entities.DayStatus {
	return DayStatus(record.CompletionPercentage, len(catalog.Mandatory()), record.Tasks)
}

// GenerateVerdict builds the human-facing outcome for a scored day. The
// penalty and reward fields stay unset; downstream engines fill them.
func GenerateVerdict(record *entities.DailyRecord) entities.DailyVerdict {
	status := FinalStatus(record)
	score := record.CompletionPercentage
	threshold := SafeThreshold(len(catalog.Mandatory()))

	var message string
	switch status {
	case entities.DayStatusSafe:
		switch {
		case score >= 90:
			message = fmt.Sprintf("Exceptional day. %d%% compliance, keep this standard.", score)
		case score >= 80:
			message = fmt.Sprintf("Strong day at %d%%. Consistency is building.", score)
		default:
			message = fmt.Sprintf("Safe at %d%%, but there is room for improvement.", score)
		}
	case entities.DayStatusWarning:
		if weakest, ok := WeakestCategory(record.Tasks); ok {
			message = fmt.Sprintf("Warning: %d%% compliance. %s is dragging you down.", score, catalog.CategoryName(weakest))
		} else {
			message = fmt.Sprintf("Warning: %d%% compliance. Tighten up tomorrow.", score)
		}
	default:
		message = fmt.Sprintf("Day failed at %d%%. A penalty has been assigned.", score)
	}

	return entities.DailyVerdict{
		Date:      record.Date,
		Status:    status,
		Score:     score,
		Threshold: threshold,
		Message:   message,
		Breakdown: Breakdown(record.Tasks),
	}
}
