package catalog

import "github.com/disciplineos/core/internal/domain/entities"

func fptr(v float64) *float64 { return &v }

// definitions is the full immutable task catalog. Order matters: category
// iteration and tie-breaks follow the order tasks appear here.
var definitions = []entities.TaskDefinition{
	// Deen - mandatory prayers
	{
		ID:          "fajr",
		Category:    entities.CategoryDeen,
		Name:        "Fajr Prayer",
		Description: "Performed Fajr prayer on time",
		Weight:      15,
		Priority:    entities.PriorityCritical,
		IsDaily:     true,
	},
	{
		ID:          "zuhr",
		Category:    entities.CategoryDeen,
		Name:        "Zuhr Prayer",
		Description: "Performed Zuhr prayer on time",
		Weight:      12,
		Priority:    entities.PriorityCritical,
		IsDaily:     true,
	},
	{
		ID:          "asr",
		Category:    entities.CategoryDeen,
		Name:        "Asr Prayer",
		Description: "Performed Asr prayer on time",
		Weight:      12,
		Priority:    entities.PriorityCritical,
		IsDaily:     true,
	},
	{
		ID:          "maghrib",
		Category:    entities.CategoryDeen,
		Name:        "Maghrib Prayer",
		Description: "Performed Maghrib prayer on time",
		Weight:      12,
		Priority:    entities.PriorityCritical,
		IsDaily:     true,
	},
	{
		ID:          "isha",
		Category:    entities.CategoryDeen,
		Name:        "Isha Prayer",
		Description: "Performed Isha prayer on time",
		Weight:      12,
		Priority:    entities.PriorityCritical,
		IsDaily:     true,
	},

	// Health & fitness
	{
		ID:          "workout",
		Category:    entities.CategoryHealth,
		Name:        "Workout",
		Description: "Completed workout session",
		Weight:      12,
		Priority:    entities.PriorityHigh,
		IsDaily:     true,
	},
	{
		ID:            "steps",
		Category:      entities.CategoryHealth,
		Name:          "Steps Goal",
		Description:   "Reached daily steps target",
		Weight:        8,
		Priority:      entities.PriorityHigh,
		IsDaily:       true,
		RequiresValue: true,
		ValueLabel:    "steps",
		TargetValue:   10000,
		MinValue:      fptr(10000),
	},
	{
		ID:          "mobility",
		Category:    entities.CategoryHealth,
		Name:        "Mobility/Stretching",
		Description: "Completed mobility or stretching routine",
		Weight:      6,
		Priority:    entities.PriorityMedium,
		IsDaily:     true,
	},

	// Sleep discipline
	{
		ID:          "sleep_time",
		Category:    entities.CategorySleep,
		Name:        "Sleep Before Target",
		Description: "Went to bed before target time",
		Weight:      10,
		Priority:    entities.PriorityHigh,
		IsDaily:     true,
	},
	{
		ID:            "sleep_duration",
		Category:      entities.CategorySleep,
		Name:          "7-8 Hours Sleep",
		Description:   "Got 7-8 hours of quality sleep",
		Weight:        10,
		Priority:      entities.PriorityHigh,
		IsDaily:       true,
		RequiresValue: true,
		ValueLabel:    "hours",
		TargetValue:   7.5,
		MinValue:      fptr(7),
		MaxValue:      fptr(9),
	},
	{
		ID:          "no_phone_before_bed",
		Category:    entities.CategorySleep,
		Name:        "No Phone 30min Before Bed",
		Description: "No phone usage 30 minutes before sleep",
		Weight:      8,
		Priority:    entities.PriorityHigh,
		IsDaily:     true,
	},

	// Nutrition
	{
		ID:          "calories_logged",
		Category:    entities.CategoryNutrition,
		Name:        "Calories Logged",
		Description: "Tracked all food intake for the day",
		Weight:      6,
		Priority:    entities.PriorityMedium,
		IsDaily:     true,
	},
	{
		ID:            "calories_target",
		Category:      entities.CategoryNutrition,
		Name:          "Within Calorie Target",
		Description:   "Stayed within daily calorie target",
		Weight:        8,
		Priority:      entities.PriorityHigh,
		IsDaily:       true,
		RequiresValue: true,
		ValueLabel:    "calories",
	},
	{
		ID:          "no_junk",
		Category:    entities.CategoryNutrition,
		Name:        "No Junk Food",
		Description: "Avoided junk food and processed snacks",
		Weight:      8,
		Priority:    entities.PriorityHigh,
		IsDaily:     true,
	},
	{
		ID:            "water",
		Category:      entities.CategoryNutrition,
		Name:          "Water Goal Met",
		Description:   "Drank target amount of water",
		Weight:        6,
		Priority:      entities.PriorityMedium,
		IsDaily:       true,
		RequiresValue: true,
		ValueLabel:    "glasses",
		TargetValue:   8,
	},

	// Productivity
	{
		ID:          "top_3_tasks",
		Category:    entities.CategoryProductivity,
		Name:        "Top 3 Tasks Done",
		Description: "Completed all 3 priority tasks for the day",
		Weight:      12,
		Priority:    entities.PriorityCritical,
		IsDaily:     true,
	},
	{
		ID:          "todo_70",
		Category:    entities.CategoryProductivity,
		Name:        ">=70% To-Do List",
		Description: "Completed at least 70% of to-do list",
		Weight:      8,
		Priority:    entities.PriorityHigh,
		IsDaily:     true,
	},
	{
		ID:            "deep_work",
		Category:      entities.CategoryProductivity,
		Name:          "Deep Work Session",
		Description:   "Completed focused deep work session",
		Weight:        10,
		Priority:      entities.PriorityHigh,
		IsDaily:       true,
		RequiresValue: true,
		ValueLabel:    "minutes",
		TargetValue:   90,
	},
	{
		ID:            "learning",
		Category:      entities.CategoryProductivity,
		Name:          "Learning/Reading",
		Description:   "Spent time learning or reading",
		Weight:        6,
		Priority:      entities.PriorityMedium,
		IsDaily:       true,
		RequiresValue: true,
		ValueLabel:    "minutes",
		TargetValue:   30,
	},

	// Mental control
	{
		ID:          "mood_check",
		Category:    entities.CategoryMental,
		Name:        "Mood Check-in",
		Description: "Completed mood check-in and reflection",
		Weight:      4,
		Priority:    entities.PriorityMedium,
		IsDaily:     true,
	},
	{
		ID:          "gratitude",
		Category:    entities.CategoryMental,
		Name:        "Gratitude Practice",
		Description: "Listed 3 things grateful for",
		Weight:      4,
		Priority:    entities.PriorityMedium,
		IsDaily:     true,
	},
	{
		ID:          "journaling",
		Category:    entities.CategoryMental,
		Name:        "Journaling",
		Description: "Completed daily journal entry",
		Weight:      6,
		Priority:    entities.PriorityMedium,
		IsDaily:     true,
	},

	// Digital discipline
	{
		ID:            "screen_time",
		Category:      entities.CategoryDigital,
		Name:          "Screen Time Under Limit",
		Description:   "Kept screen time under daily limit",
		Weight:        8,
		Priority:      entities.PriorityHigh,
		IsDaily:       true,
		RequiresValue: true,
		ValueLabel:    "minutes",
	},
	{
		ID:          "no_phone_after_isha",
		Category:    entities.CategoryDigital,
		Name:        "No Phone After Isha",
		Description: "No unnecessary phone use after Isha",
		Weight:      8,
		Priority:    entities.PriorityHigh,
		IsDaily:     true,
	},
	{
		ID:          "social_media_fast",
		Category:    entities.CategoryDigital,
		Name:        "Social Media Fast",
		Description: "Avoided social media for the day",
		Weight:      6,
		Priority:    entities.PriorityMedium,
		IsDaily:     true,
		IsOptional:  true,
	},

	// Deen upgrade (optional, bonus only)
	{
		ID:            "quran",
		Category:      entities.CategoryDeenUpgrade,
		Name:          "Quran Reading",
		Description:   "Read Quran today",
		Weight:        8,
		Priority:      entities.PriorityHigh,
		IsDaily:       true,
		IsOptional:    true,
		RequiresValue: true,
		ValueLabel:    "pages",
		TargetValue:   5,
	},
	{
		ID:          "dhikr",
		Category:    entities.CategoryDeenUpgrade,
		Name:        "Dhikr/Adhkar",
		Description: "Completed morning/evening adhkar",
		Weight:      6,
		Priority:    entities.PriorityMedium,
		IsDaily:     true,
		IsOptional:  true,
	},
	{
		ID:          "charity",
		Category:    entities.CategoryDeenUpgrade,
		Name:        "Daily Charity/Sadaqah",
		Description: "Gave charity or helped someone",
		Weight:      6,
		Priority:    entities.PriorityMedium,
		IsDaily:     true,
		IsOptional:  true,
	},
}

// categoryNames maps each category to its display name.
var categoryNames = map[entities.TaskCategory]string{
	entities.CategoryDeen:         "Deen",
	entities.CategoryHealth:       "Health & Fitness",
	entities.CategorySleep:        "Sleep Discipline",
	entities.CategoryNutrition:    "Nutrition",
	entities.CategoryProductivity: "Productivity",
	entities.CategoryMental:       "Mental Control",
	entities.CategoryDigital:      "Digital Discipline",
	entities.CategoryDeenUpgrade:  "Deen Upgrade",
}
