// Package analytics reduces finalized daily records into summaries, trends
// and reports. Every function is a pure reducer over its input slice; no
// function here performs I/O.
package analytics

import (
	"math"
	"sort"

	"github.com/disciplineos/core/internal/domain/catalog"
	"github.com/disciplineos/core/internal/domain/entities"
)

// Trend buckets the direction of a period's scores.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// trendMinRecords is the minimum sample size before a trend is computed;
// smaller sets report stable.
const trendMinRecords = 7

// trendMargin is the mean-score difference that separates stable from
// improving or declining.
const trendMargin = 5.0

// Summary aggregates scores and outcomes over a set of records.
type Summary struct {
	TotalDays    int `json:"total_days"`
	AverageScore int `json:"average_score"`
	SafeDays     int `json:"safe_days"`
	WarningDays  int `json:"warning_days"`
	FailureDays  int `json:"failure_days"`
}

// CategoryStats holds per-category completion figures over a period.
type CategoryStats struct {
	TotalTasks     int `json:"total_tasks"`
	CompletedTasks int `json:"completed_tasks"`
	CompletionRate int `json:"completion_rate"`
	AveragePoints  int `json:"average_points"`
}

// TaskMissCount ranks a task by how often it was missed.
type TaskMissCount struct {
	TaskID    string                `json:"task_id"`
	TaskName  string                `json:"task_name"`
	Category  entities.TaskCategory `json:"category"`
	MissCount int                   `json:"miss_count"`
}

// HeatmapPoint is one calendar cell: a date with its score and status.
// Dates without a record carry score 0 and status pending.
type HeatmapPoint struct {
	Date   entities.Date      `json:"date"`
	Score  int                `json:"score"`
	Status entities.DayStatus `json:"status"`
}

// Summarize computes the period summary. Empty input degrades to zeroes.
func Summarize(records []entities.DailyRecord) Summary {
	s := Summary{TotalDays: len(records)}
	if len(records) == 0 {
		return s
	}
	total := 0
	for _, r := range records {
		total += r.CompletionPercentage
		switch r.Status {
		case entities.DayStatusSafe:
			s.SafeDays++
		case entities.DayStatusWarning:
			s.WarningDays++
		case entities.DayStatusFailure:
			s.FailureDays++
		}
	}
	s.AverageScore = int(math.Round(float64(total) / float64(len(records))))
	return s
}

// CategoryBreakdown computes per-category completion rate and average daily
// points over a period. Only mandatory tasks count, so the figures line up
// with the pass/fail score.
func CategoryBreakdown(records []entities.DailyRecord) map[entities.TaskCategory]CategoryStats {
	breakdown := make(map[entities.TaskCategory]CategoryStats)
	for _, cat := range entities.Categories() {
		breakdown[cat] = CategoryStats{}
	}
	if len(records) == 0 {
		return breakdown
	}

	points := make(map[entities.TaskCategory]int)
	for _, r := range records {
		for _, def := range catalog.Mandatory() {
			s := breakdown[def.Category]
			s.TotalTasks++
			if tc, ok := r.Tasks[def.ID]; ok && tc.Completed {
				s.CompletedTasks++
				points[def.Category] += def.Weight
			}
			breakdown[def.Category] = s
		}
	}

	for cat, s := range breakdown {
		if s.TotalTasks > 0 {
			s.CompletionRate = int(math.Round(float64(s.CompletedTasks) / float64(s.TotalTasks) * 100))
			s.AveragePoints = int(math.Round(float64(points[cat]) / float64(len(records))))
		}
		breakdown[cat] = s
	}
	return breakdown
}

// WeakestCategory returns the category with the lowest completion rate over
// a period, excluding the optional upgrade category. Ties resolve to the
// first category in catalog order.
func WeakestCategory(breakdown map[entities.TaskCategory]CategoryStats) (entities.TaskCategory, bool) {
	return extremeCategory(breakdown, func(candidate, best int) bool { return candidate < best })
}

// StrongestCategory mirrors WeakestCategory for the highest rate.
func StrongestCategory(breakdown map[entities.TaskCategory]CategoryStats) (entities.TaskCategory, bool) {
	return extremeCategory(breakdown, func(candidate, best int) bool { return candidate > best })
}

func extremeCategory(breakdown map[entities.TaskCategory]CategoryStats, better func(candidate, best int) bool) (entities.TaskCategory, bool) {
	var (
		result entities.TaskCategory
		found  bool
		best   int
	)
	for _, cat := range entities.Categories() {
		if cat.IsUpgrade() {
			continue
		}
		s, ok := breakdown[cat]
		if !ok || s.TotalTasks == 0 {
			continue
		}
		if !found || better(s.CompletionRate, best) {
			result = cat
			best = s.CompletionRate
			found = true
		}
	}
	return result, found
}

// MostMissedTasks ranks task ids by miss count over the period, descending,
// capped at limit. Ties keep catalog order via a stable sort.
func MostMissedTasks(records []entities.DailyRecord, limit int) []TaskMissCount {
	misses := make(map[string]int)
	for _, r := range records {
		for id, tc := range r.Tasks {
			if !tc.Completed {
				misses[id]++
			}
		}
	}

	var ranked []TaskMissCount
	for _, def := range catalog.All() {
		if count, ok := misses[def.ID]; ok {
			ranked = append(ranked, TaskMissCount{
				TaskID:    def.ID,
				TaskName:  def.Name,
				Category:  def.Category,
				MissCount: count,
			})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MissCount > ranked[j].MissCount
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// TrendOf splits the records chronologically in half and compares the mean
// scores. A rise above the margin is improving, a fall below it declining.
func TrendOf(records []entities.DailyRecord) Trend {
	if len(records) < trendMinRecords {
		return TrendStable
	}
	sorted := make([]entities.DailyRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	mid := len(sorted) / 2
	diff := meanScore(sorted[mid:]) - meanScore(sorted[:mid])
	switch {
	case diff > trendMargin:
		return TrendImproving
	case diff < -trendMargin:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func meanScore(records []entities.DailyRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	total := 0
	for _, r := range records {
		total += r.CompletionPercentage
	}
	return float64(total) / float64(len(records))
}

// DayOfWeekPerformance returns the best and worst weekday by mean score.
// Days with no records are ignored; empty input returns empty names.
func DayOfWeekPerformance(records []entities.DailyRecord) (best, worst string) {
	scores := make(map[string][]int)
	for _, r := range records {
		day := r.Date.Weekday()
		scores[day] = append(scores[day], r.CompletionPercentage)
	}
	if len(scores) == 0 {
		return "", ""
	}

	type dayAvg struct {
		day string
		avg float64
	}
	var averages []dayAvg
	for day, vals := range scores {
		total := 0
		for _, v := range vals {
			total += v
		}
		averages = append(averages, dayAvg{day: day, avg: float64(total) / float64(len(vals))})
	}
	sort.Slice(averages, func(i, j int) bool {
		if averages[i].avg != averages[j].avg {
			return averages[i].avg > averages[j].avg
		}
		return averages[i].day < averages[j].day
	})
	return averages[0].day, averages[len(averages)-1].day
}

// Heatmap maps every calendar date in [start, end] to a score and status,
// filling absent days with 0/pending.
func Heatmap(records []entities.DailyRecord, start, end entities.Date) []HeatmapPoint {
	byDate := make(map[entities.Date]entities.DailyRecord, len(records))
	for _, r := range records {
		byDate[r.Date] = r
	}

	var out []HeatmapPoint
	for d := start; !end.Before(d); d = d.AddDays(1) {
		point := HeatmapPoint{Date: d, Status: entities.DayStatusPending}
		if r, ok := byDate[d]; ok {
			point.Score = r.CompletionPercentage
			point.Status = r.Status
		}
		out = append(out, point)
	}
	return out
}

// WeeklyReport is the composite weekly rollup.
type WeeklyReport struct {
	WeekStart         entities.Date                           `json:"week_start"`
	WeekEnd           entities.Date                           `json:"week_end"`
	Summary           Summary                                 `json:"summary"`
	Breakdown         map[entities.TaskCategory]CategoryStats `json:"category_breakdown"`
	WeakestCategory   entities.TaskCategory                   `json:"weakest_category,omitempty"`
	StrongestCategory entities.TaskCategory                   `json:"strongest_category,omitempty"`
	MostMissed        []TaskMissCount                         `json:"most_missed"`
	StreakMaintained  bool                                    `json:"streak_maintained"`
}

// BuildWeeklyReport reduces one week of records. StreakMaintained means no
// failure day occurred in the week.
func BuildWeeklyReport(records []entities.DailyRecord, weekStart entities.Date) WeeklyReport {
	summary := Summarize(records)
	breakdown := CategoryBreakdown(records)
	report := WeeklyReport{
		WeekStart:        weekStart,
		WeekEnd:          weekStart.AddDays(6),
		Summary:          summary,
		Breakdown:        breakdown,
		MostMissed:       MostMissedTasks(records, 5),
		StreakMaintained: summary.FailureDays == 0,
	}
	if cat, ok := WeakestCategory(breakdown); ok {
		report.WeakestCategory = cat
	}
	if cat, ok := StrongestCategory(breakdown); ok {
		report.StrongestCategory = cat
	}
	return report
}

// MonthlyReport is the composite monthly rollup.
type MonthlyReport struct {
	Month            string                                  `json:"month"`
	Summary          Summary                                 `json:"summary"`
	Breakdown        map[entities.TaskCategory]CategoryStats `json:"category_breakdown"`
	Trend            Trend                                   `json:"trend"`
	FailureFrequency float64                                 `json:"failure_frequency"`
	BestDayOfWeek    string                                  `json:"best_day_of_week"`
	WorstDayOfWeek   string                                  `json:"worst_day_of_week"`
	FocusArea        entities.TaskCategory                   `json:"focus_area,omitempty"`
	ScoreDiff        *int                                    `json:"score_diff_vs_previous,omitempty"`
}

// BuildMonthlyReport reduces one month of records. FailureFrequency is
// failures per week, rounded to one decimal. ScoreDiff compares against the
// previous month when its records are supplied.
func BuildMonthlyReport(records []entities.DailyRecord, month string, previous []entities.DailyRecord) MonthlyReport {
	summary := Summarize(records)
	breakdown := CategoryBreakdown(records)
	best, worst := DayOfWeekPerformance(records)

	weeks := math.Ceil(float64(summary.TotalDays) / 7)
	if weeks < 1 {
		weeks = 1
	}
	frequency := math.Round(float64(summary.FailureDays)/weeks*10) / 10

	report := MonthlyReport{
		Month:            month,
		Summary:          summary,
		Breakdown:        breakdown,
		Trend:            TrendOf(records),
		FailureFrequency: frequency,
		BestDayOfWeek:    best,
		WorstDayOfWeek:   worst,
	}
	if cat, ok := WeakestCategory(breakdown); ok {
		report.FocusArea = cat
	}
	if len(previous) > 0 {
		diff := summary.AverageScore - Summarize(previous).AverageScore
		report.ScoreDiff = &diff
	}
	return report
}

// Comparison holds the couples side-by-side numbers for a period.
type Comparison struct {
	UserAverage       int    `json:"user_average"`
	PartnerAverage    int    `json:"partner_average"`
	Difference        int    `json:"difference"`
	Leader            string `json:"leader"`
	SharedSafeDays    int    `json:"shared_safe_days"`
	SharedFailureDays int    `json:"shared_failure_days"`
}

// ComparePartners reduces both members' records into comparative stats.
// Shared days count dates where both partners landed the same terminal
// outcome.
func ComparePartners(userRecords, partnerRecords []entities.DailyRecord) Comparison {
	c := Comparison{
		UserAverage:    Summarize(userRecords).AverageScore,
		PartnerAverage: Summarize(partnerRecords).AverageScore,
	}
	c.Difference = c.UserAverage - c.PartnerAverage
	if c.Difference < 0 {
		c.Difference = -c.Difference
	}
	switch {
	case c.UserAverage > c.PartnerAverage:
		c.Leader = "user"
	case c.PartnerAverage > c.UserAverage:
		c.Leader = "partner"
	default:
		c.Leader = "tie"
	}

	userStatus := make(map[entities.Date]entities.DayStatus, len(userRecords))
	for _, r := range userRecords {
		userStatus[r.Date] = r.Status
	}
	for _, pr := range partnerRecords {
		if st, ok := userStatus[pr.Date]; ok {
			if st == entities.DayStatusSafe && pr.Status == entities.DayStatusSafe {
				c.SharedSafeDays++
			}
			if st == entities.DayStatusFailure && pr.Status == entities.DayStatusFailure {
				c.SharedFailureDays++
			}
		}
	}
	return c
}
