// Package penalty selects and tracks the consequences of failed days. The
// penalty state machine lives on the entity; this package owns the fixed
// definition pool and the selection and escalation rules.
package penalty

import (
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/disciplineos/core/internal/domain/entities"
	"github.com/disciplineos/core/internal/domain/scoring"
)

// majorScoreCutoff is the completion percentage below which a failed day
// earns a major penalty instead of a minor one.
const majorScoreCutoff = 35

// antiRepeatWindow is how many of the most recent penalties block their type
// from being reassigned.
const antiRepeatWindow = 3

// escalationWindow and escalationCount define the escalation signal: this
// many penalties within the trailing window of days.
const (
	escalationWindowDays = 7
	escalationCount      = 3
)

var definitions = []entities.PenaltyDefinition{
	{
		Type:        entities.PenaltyExtraCardio,
		Severity:    entities.SeverityMinor,
		Name:        "Extra Cardio",
		Description: "30 minutes of additional cardio exercise",
		Duration:    "Same day or next morning",
	},
	{
		Type:        entities.PenaltyColdShower,
		Severity:    entities.SeverityMinor,
		Name:        "Cold Shower",
		Description: "3-minute cold shower (no warm water)",
		Duration:    "Next morning",
	},
	{
		Type:        entities.PenaltyEntertainmentRestriction,
		Severity:    entities.SeverityMinor,
		Name:        "Entertainment Restriction",
		Description: "No entertainment (TV, games, streaming) for 24 hours",
		Duration:    "24 hours",
	},
	{
		Type:        entities.PenaltySocialMediaLockout,
		Severity:    entities.SeverityMinor,
		Name:        "Social Media Lockout",
		Description: "No social media access for 24 hours",
		Duration:    "24 hours",
	},
	{
		Type:        entities.PenaltyFullEntertainmentBan,
		Severity:    entities.SeverityMajor,
		Name:        "Full Entertainment Ban",
		Description: "Complete ban on all entertainment for 48 hours",
		Duration:    "48 hours",
	},
	{
		Type:        entities.PenaltyExtraWorkout,
		Severity:    entities.SeverityMajor,
		Name:        "Extra Full Workout",
		Description: "Additional full workout session (not just cardio)",
		Duration:    "Within 24 hours",
	},
	{
		Type:        entities.PenaltyCharityDonation,
		Severity:    entities.SeverityMajor,
		Name:        "Mandatory Charity",
		Description: "Donate predetermined amount to charity",
		Duration:    "Same day",
	},
	{
		Type:        entities.PenaltyEarlierWakeup,
		Severity:    entities.SeverityMajor,
		Name:        "Earlier Wake-up",
		Description: "Wake up 1 hour earlier than usual for 3 days",
		Duration:    "3 days",
	},
}

// Definitions returns every assignable penalty definition.
func Definitions() []entities.PenaltyDefinition {
	out := make([]entities.PenaltyDefinition, len(definitions))
	copy(out, definitions)
	return out
}

// BySeverity returns the definition pool for one severity. Each pool holds
// four entries; an empty pool is an invariant violation upstream.
func BySeverity(severity entities.PenaltySeverity) []entities.PenaltyDefinition {
	var out []entities.PenaltyDefinition
	for _, def := range definitions {
		if def.Severity == severity {
			out = append(out, def)
		}
	}
	return out
}

// DefinitionByType looks up a single definition.
func DefinitionByType(t entities.PenaltyType) (entities.PenaltyDefinition, bool) {
	for _, def := range definitions {
		if def.Type == t {
			return def, true
		}
	}
	return entities.PenaltyDefinition{}, false
}

// SeverityForScore maps the failed day's completion percentage to a penalty
// severity.
func SeverityForScore(completionPercentage int) entities.PenaltySeverity {
	if completionPercentage < majorScoreCutoff {
		return entities.SeverityMajor
	}
	return entities.SeverityMinor
}

// Select picks the penalty for a failed day. The pool excludes types used in
// the three most recent penalties; if the exclusion empties it the full
// severity pool is restored. The day's weakest category biases the pick:
// physical penalties for health/sleep weakness, digital lockouts for digital
// weakness, charity for deen weakness. Anything else falls to rng.
func Select(severity entities.PenaltySeverity, record *entities.DailyRecord, recent []entities.Penalty, rng *rand.Rand) (entities.PenaltyDefinition, error) {
	available := BySeverity(severity)
	if len(available) == 0 {
		return entities.PenaltyDefinition{}, entities.ErrEmptyPenaltyPool
	}

	recentTypes := make(map[entities.PenaltyType]bool, antiRepeatWindow)
	for i, p := range recent {
		if i >= antiRepeatWindow {
			break
		}
		recentTypes[p.Type] = true
	}

	var pool []entities.PenaltyDefinition
	for _, def := range available {
		if !recentTypes[def.Type] {
			pool = append(pool, def)
		}
	}
	if len(pool) == 0 {
		pool = available
	}

	weakest, ok := scoring.WeakestCategory(record.Tasks)
	if ok {
		switch weakest {
		case entities.CategoryHealth, entities.CategorySleep:
			if def, found := firstOfTypes(pool, entities.PenaltyExtraCardio, entities.PenaltyExtraWorkout, entities.PenaltyEarlierWakeup); found {
				return def, nil
			}
			return pool[0], nil
		case entities.CategoryDigital:
			if def, found := firstOfTypes(pool, entities.PenaltySocialMediaLockout, entities.PenaltyEntertainmentRestriction); found {
				return def, nil
			}
			return pool[0], nil
		case entities.CategoryDeen:
			if def, found := firstOfTypes(pool, entities.PenaltyCharityDonation); found {
				return def, nil
			}
			return pool[0], nil
		}
	}

	return pool[rng.Intn(len(pool))], nil
}

func firstOfTypes(pool []entities.PenaltyDefinition, types ...entities.PenaltyType) (entities.PenaltyDefinition, bool) {
	for _, def := range pool {
		for _, t := range types {
			if def.Type == t {
				return def, true
			}
		}
	}
	return entities.PenaltyDefinition{}, false
}

// New builds the pending penalty for a failed record. Severity comes from
// the record's completion percentage; persistence is the caller's job.
func New(userID uuid.UUID, record *entities.DailyRecord, recent []entities.Penalty, rng *rand.Rand, now time.Time) (*entities.Penalty, error) {
	severity := SeverityForScore(record.CompletionPercentage)
	def, err := Select(severity, record, recent, rng)
	if err != nil {
		return nil, err
	}
	return &entities.Penalty{
		ID:          uuid.New(),
		UserID:      userID,
		Date:        record.Date,
		Type:        def.Type,
		Severity:    severity,
		Description: def.Description,
		Status:      entities.PenaltyPending,
		CreatedAt:   now,
	}, nil
}

// Streak counts consecutive penalty days walking backward from the most
// recent penalty. The walk breaks on the first gap larger than one day.
func Streak(penalties []entities.Penalty) int {
	if len(penalties) == 0 {
		return 0
	}
	sorted := make([]entities.Penalty, len(penalties))
	copy(sorted, penalties)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[j].Date.Before(sorted[i].Date)
	})

	streak := 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Date.DaysBetween(sorted[i].Date) == 1 {
			streak++
		} else {
			break
		}
	}
	return streak
}

// ShouldEscalate reports whether penalties are piling up: three or more
// assigned within the trailing seven days. It is a signal for callers only;
// severity selection never auto-escalates.
func ShouldEscalate(penalties []entities.Penalty, now time.Time) bool {
	today := entities.NewDate(now)
	count := 0
	for _, p := range penalties {
		if today.DaysBetween(p.Date) <= escalationWindowDays && !today.Before(p.Date) {
			count++
		}
	}
	return count >= escalationCount
}

// SuggestedAlternatives lists the other definitions of the same severity,
// for a partner editing a pending penalty.
func SuggestedAlternatives(p *entities.Penalty) []entities.PenaltyDefinition {
	var out []entities.PenaltyDefinition
	for _, def := range definitions {
		if def.Severity == p.Severity && def.Type != p.Type {
			out = append(out, def)
		}
	}
	return out
}
