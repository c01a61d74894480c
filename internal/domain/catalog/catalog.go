// Package catalog holds the fixed daily task catalog and its lookups. The
// catalog is process-wide static data: it is never persisted per user and
// per-day state only ever references it by task id.
package catalog

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/disciplineos/core/internal/domain/entities"
)

// All returns every task definition in catalog order.
func All() []entities.TaskDefinition {
	out := make([]entities.TaskDefinition, len(definitions))
	copy(out, definitions)
	return out
}

// ByID looks up a single definition.
func ByID(id string) (entities.TaskDefinition, bool) {
	for _, def := range definitions {
		if def.ID == id {
			return def, true
		}
	}
	return entities.TaskDefinition{}, false
}

// ByCategory returns the definitions of one category in catalog order.
func ByCategory(cat entities.TaskCategory) []entities.TaskDefinition {
	var out []entities.TaskDefinition
	for _, def := range definitions {
		if def.Category == cat {
			out = append(out, def)
		}
	}
	return out
}

// Mandatory returns all non-optional definitions. These are the tasks that
// count toward the daily score denominator.
func Mandatory() []entities.TaskDefinition {
	var out []entities.TaskDefinition
	for _, def := range definitions {
		if !def.IsOptional {
			out = append(out, def)
		}
	}
	return out
}

// Optional returns the bonus-only definitions.
func Optional() []entities.TaskDefinition {
	var out []entities.TaskDefinition
	for _, def := range definitions {
		if def.IsOptional {
			out = append(out, def)
		}
	}
	return out
}

// TotalMandatoryPoints is the score denominator: the weight sum of all
// mandatory tasks.
func TotalMandatoryPoints() int {
	total := 0
	for _, def := range definitions {
		if !def.IsOptional {
			total += def.Weight
		}
	}
	return total
}

// TotalPossiblePoints includes optional task weights on top of the
// mandatory total.
func TotalPossiblePoints() int {
	total := 0
	for _, def := range definitions {
		total += def.Weight
	}
	return total
}

// CategoryName returns the display name for a category.
func CategoryName(cat entities.TaskCategory) string {
	if name, ok := categoryNames[cat]; ok {
		return name
	}
	return string(cat)
}

// GroupedByCategory splits the catalog into per-category slices keyed in
// catalog order via entities.Categories.
func GroupedByCategory() map[entities.TaskCategory][]entities.TaskDefinition {
	grouped := make(map[entities.TaskCategory][]entities.TaskDefinition)
	for _, def := range definitions {
		grouped[def.Category] = append(grouped[def.Category], def)
	}
	return grouped
}

// StatsByCategory reduces one day's completions into per-category
// mandatory-task counters. Optional tasks are excluded so the numbers line
// up with the pass/fail score.
func StatsByCategory(tasks map[string]entities.TaskCompletion) map[entities.TaskCategory]entities.CategoryBreakdown {
	stats := make(map[entities.TaskCategory]entities.CategoryBreakdown)
	for _, def := range definitions {
		if def.IsOptional {
			continue
		}
		s := stats[def.Category]
		s.Category = def.Category
		s.Total++
		s.MaxPoints += def.Weight
		if tc, ok := tasks[def.ID]; ok && tc.Completed {
			s.Completed++
			s.Points += def.Weight
		}
		stats[def.Category] = s
	}
	return stats
}

// UncompletedMandatory lists the mandatory tasks still open for the day, in
// catalog order.
func UncompletedMandatory(tasks map[string]entities.TaskCompletion) []entities.TaskDefinition {
	var out []entities.TaskDefinition
	for _, def := range definitions {
		if def.IsOptional {
			continue
		}
		if tc, ok := tasks[def.ID]; !ok || !tc.Completed {
			out = append(out, def)
		}
	}
	return out
}

// EmptyCompletions builds the untouched completion map for a fresh day: one
// entry per catalog task, nothing completed.
func EmptyCompletions() map[string]entities.TaskCompletion {
	tasks := make(map[string]entities.TaskCompletion, len(definitions))
	for _, def := range definitions {
		tasks[def.ID] = entities.TaskCompletion{TaskID: def.ID}
	}
	return tasks
}

// NewDailyRecord creates the pending record for a (user, date) pair. Records
// are created lazily on first access, so the caller supplies the clock.
func NewDailyRecord(userID uuid.UUID, date entities.Date, now time.Time) *entities.DailyRecord {
	return &entities.DailyRecord{
		UserID:      userID,
		Date:        date,
		Tasks:       EmptyCompletions(),
		TotalPoints: TotalMandatoryPoints(),
		Status:      entities.DayStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ValidationResult reports whether a submitted completion value is
// acceptable. Rejections are data, not errors: the caller surfaces Reason
// to the user and leaves the completion untouched.
type ValidationResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// ValidateCompletionValue checks a measured completion against the task's
// acceptance bounds. Tasks without RequiresValue accept anything; tasks with
// RequiresValue need a value when marked complete.
func ValidateCompletionValue(def entities.TaskDefinition, completed bool, value *float64) ValidationResult {
	if !def.RequiresValue {
		return ValidationResult{Valid: true}
	}
	if !completed {
		return ValidationResult{Valid: true}
	}
	if value == nil {
		return ValidationResult{Valid: false, Reason: fmt.Sprintf("%s requires a %s value", def.Name, def.ValueLabel)}
	}
	if *value < 0 {
		return ValidationResult{Valid: false, Reason: fmt.Sprintf("%s cannot be negative", def.Name)}
	}
	if def.MinValue != nil && *value < *def.MinValue {
		return ValidationResult{Valid: false, Reason: fmt.Sprintf("%s must be at least %g %s", def.Name, *def.MinValue, def.ValueLabel)}
	}
	if def.MaxValue != nil && *value > *def.MaxValue {
		return ValidationResult{Valid: false, Reason: fmt.Sprintf("%s must be at most %g %s", def.Name, *def.MaxValue, def.ValueLabel)}
	}
	return ValidationResult{Valid: true}
}
