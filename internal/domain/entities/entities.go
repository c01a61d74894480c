package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrRecordNotFound       = errors.New("daily record not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrRecordFinalized      = errors.New("daily record is already finalized")
	ErrOutOfOrderFinalize   = errors.New("finalization out of chronological order; run streak recompute")
	ErrPenaltyNotFound      = errors.New("penalty not found")
	ErrPenaltyNotPending    = errors.New("penalty is not pending")
	ErrPenaltyAlreadyEdited = errors.New("penalty was already edited by partner")
	ErrEmptyPenaltyPool     = errors.New("penalty pool is empty")
	ErrRewardNotFound       = errors.New("reward not found")
	ErrRewardNotClaimable   = errors.New("reward is not claimable")
	ErrRewardExpired        = errors.New("reward has expired")
	ErrStreakInvariant      = errors.New("streak data violates current <= longest")
	ErrCircleNotFound       = errors.New("couples circle not found")
	ErrCircleFull           = errors.New("circle is already full")
	ErrAlreadyInCircle      = errors.New("user is already in this circle")
	ErrNotInCircle          = errors.New("user is not a member of this circle")
	ErrInvalidInviteCode    = errors.New("invalid invite code")
)

// Enums and types
type TaskCategory string

const (
	CategoryDeen         TaskCategory = "deen"
	CategoryHealth       TaskCategory = "health"
	CategorySleep        TaskCategory = "sleep"
	CategoryNutrition    TaskCategory = "nutrition"
	CategoryProductivity TaskCategory = "productivity"
	CategoryMental       TaskCategory = "mental"
	CategoryDigital      TaskCategory = "digital"
	CategoryDeenUpgrade  TaskCategory = "deen_upgrade"
)

// Categories returns the closed category set in catalog order. The order is
// load-bearing: weakest-category ties resolve to the first entry encountered.
func Categories() []TaskCategory {
	return []TaskCategory{
		CategoryDeen,
		CategoryHealth,
		CategorySleep,
		CategoryNutrition,
		CategoryProductivity,
		CategoryMental,
		CategoryDigital,
		CategoryDeenUpgrade,
	}
}

// IsUpgrade reports whether the category holds optional bonus tasks that are
// excluded from the pass/fail computation.
func (tc TaskCategory) IsUpgrade() bool {
	return tc == CategoryDeenUpgrade
}

type TaskPriority string

const (
	PriorityCritical TaskPriority = "critical"
	PriorityHigh     TaskPriority = "high"
	PriorityMedium   TaskPriority = "medium"
	PriorityLow      TaskPriority = "low"
)

type DayStatus string

const (
	DayStatusPending DayStatus = "pending"
	DayStatusSafe    DayStatus = "safe"
	DayStatusWarning DayStatus = "warning"
	DayStatusFailure DayStatus = "failure"
)

// IsFinal reports whether the status is one of the terminal day outcomes.
func (ds DayStatus) IsFinal() bool {
	return ds == DayStatusSafe || ds == DayStatusWarning || ds == DayStatusFailure
}

type PenaltySeverity string

const (
	SeverityMinor PenaltySeverity = "minor"
	SeverityMajor PenaltySeverity = "major"
)

type PenaltyType string

const (
	PenaltyExtraCardio              PenaltyType = "extra_cardio"
	PenaltyColdShower               PenaltyType = "cold_shower"
	PenaltyEntertainmentRestriction PenaltyType = "entertainment_restriction"
	PenaltySocialMediaLockout       PenaltyType = "social_media_lockout"
	PenaltyFullEntertainmentBan     PenaltyType = "full_entertainment_ban"
	PenaltyExtraWorkout             PenaltyType = "extra_workout"
	PenaltyCharityDonation          PenaltyType = "charity_donation"
	PenaltyEarlierWakeup            PenaltyType = "earlier_wakeup"
)

type PenaltyStatus string

const (
	PenaltyPending   PenaltyStatus = "pending"
	PenaltyCompleted PenaltyStatus = "completed"
	PenaltyWaived    PenaltyStatus = "waived"
)

type EditActor string

const (
	EditedBySelf    EditActor = "self"
	EditedByPartner EditActor = "partner"
)

type RewardType string

const (
	RewardMinor  RewardType = "minor"
	RewardMedium RewardType = "medium"
	RewardMajor  RewardType = "major"
)

type RewardStatus string

const (
	RewardClaimable RewardStatus = "claimable"
	RewardClaimed   RewardStatus = "claimed"
	RewardExpired   RewardStatus = "expired"
)

// Date is a calendar day in YYYY-MM-DD form. Day-level arithmetic goes
// through Time/AddDays so records, penalties and streaks compare uniformly.
type Date string

const dateLayout = "2006-01-02"

// NewDate truncates a timestamp to its calendar day.
func NewDate(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

// Time parses the date at midnight UTC. Malformed dates parse to the zero time.
func (d Date) Time() time.Time {
	t, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddDays returns the date shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return NewDate(d.Time().AddDate(0, 0, n))
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return string(d) < string(other)
}

// DaysBetween returns the whole-day difference d - other.
func (d Date) DaysBetween(other Date) int {
	return int(d.Time().Sub(other.Time()).Hours() / 24)
}

// Weekday returns the day-of-week name for the date.
func (d Date) Weekday() string {
	return d.Time().Weekday().String()
}

// TaskDefinition is an immutable catalog entry. Definitions are fixed at
// process start and never persisted per user.
type TaskDefinition struct {
	ID            string       `json:"id"`
	Category      TaskCategory `json:"category"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Weight        int          `json:"weight"`
	Priority      TaskPriority `json:"priority"`
	IsDaily       bool         `json:"is_daily"`
	IsOptional    bool         `json:"is_optional"`
	RequiresValue bool         `json:"requires_value,omitempty"`
	ValueLabel    string       `json:"value_label,omitempty"`
	TargetValue   float64      `json:"target_value,omitempty"`
	// MinValue/MaxValue own acceptance; TargetValue owns display and progress.
	MinValue *float64 `json:"min_value,omitempty"`
	MaxValue *float64 `json:"max_value,omitempty"`
}

// IsCritical reports whether missing the task carries the extra score penalty.
func (td TaskDefinition) IsCritical() bool {
	return td.Priority == PriorityCritical && !td.IsOptional
}

// TaskCompletion is the per-task, per-day record. Created empty when the day
// record is created, overwritten on every toggle, never deleted.
type TaskCompletion struct {
	TaskID      string     `json:"task_id" db:"task_id"`
	Completed   bool       `json:"completed" db:"completed"`
	Value       *float64   `json:"value,omitempty" db:"value"`
	Notes       string     `json:"notes,omitempty" db:"notes"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// DailyRecord holds one (user, date) day of completions and its denormalized
// scores. Status stays pending until DayEndedAt is set; after that the record
// is append-only history.
type DailyRecord struct {
	UserID               uuid.UUID                 `json:"user_id"`
	Date                 Date                      `json:"date"`
	Tasks                map[string]TaskCompletion `json:"tasks"`
	TotalPoints          int                       `json:"total_points"`
	EarnedPoints         int                       `json:"earned_points"`
	BonusPoints          int                       `json:"bonus_points"`
	CompletionPercentage int                       `json:"completion_percentage"`
	Status               DayStatus                 `json:"status"`
	DayEndedAt           *time.Time                `json:"day_ended_at,omitempty"`
	PenaltyID            *uuid.UUID                `json:"penalty_id,omitempty"`
	RewardID             *uuid.UUID                `json:"reward_id,omitempty"`
	CreatedAt            time.Time                 `json:"created_at"`
	UpdatedAt            time.Time                 `json:"updated_at"`
}

// IsFinalized reports whether day-end has already committed this record.
func (r *DailyRecord) IsFinalized() bool {
	return r.DayEndedAt != nil
}

// DailyVerdict is the human-facing outcome of a scored day.
type DailyVerdict struct {
	Date      Date                `json:"date"`
	Status    DayStatus           `json:"status"`
	Score     int                 `json:"score"`
	Threshold int                 `json:"threshold"`
	Message   string              `json:"message"`
	Breakdown []CategoryBreakdown `json:"breakdown"`
	// PenaltyType is filled by the penalty engine after a failure verdict,
	// never by scoring itself.
	PenaltyType *PenaltyType `json:"penalty_type,omitempty"`
	RewardType  *RewardType  `json:"reward_type,omitempty"`
}

// CategoryBreakdown summarizes mandatory-task completion for one category.
type CategoryBreakdown struct {
	Category  TaskCategory `json:"category"`
	Completed int          `json:"completed"`
	Total     int          `json:"total"`
	Points    int          `json:"points"`
	MaxPoints int          `json:"max_points"`
}

// PenaltyDefinition describes one of the eight assignable penalty kinds.
type PenaltyDefinition struct {
	Type        PenaltyType     `json:"type"`
	Severity    PenaltySeverity `json:"severity"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Duration    string          `json:"duration"`
}

// Penalty is assigned to a user for a specific failed date.
// Transitions: pending -> completed or pending -> waived, both terminal.
type Penalty struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	UserID       uuid.UUID       `json:"user_id" db:"user_id"`
	Date         Date            `json:"date" db:"date"`
	Type         PenaltyType     `json:"type" db:"type"`
	Severity     PenaltySeverity `json:"severity" db:"severity"`
	Description  string          `json:"description" db:"description"`
	Status       PenaltyStatus   `json:"status" db:"status"`
	EditedBy     EditActor       `json:"edited_by,omitempty" db:"edited_by"`
	EditedAt     *time.Time      `json:"edited_at,omitempty" db:"edited_at"`
	OriginalType *PenaltyType    `json:"original_type,omitempty" db:"original_type"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty" db:"completed_at"`
	WaivedAt     *time.Time      `json:"waived_at,omitempty" db:"waived_at"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// CanPartnerEdit reports whether a circle partner may still swap this
// penalty: it must be pending and not already partner-edited.
func (p *Penalty) CanPartnerEdit() bool {
	if p.Status != PenaltyPending {
		return false
	}
	return p.EditedBy != EditedByPartner
}

// Complete transitions pending -> completed.
func (p *Penalty) Complete(now time.Time) error {
	if p.Status != PenaltyPending {
		return ErrPenaltyNotPending
	}
	p.Status = PenaltyCompleted
	p.CompletedAt = &now
	return nil
}

// Waive transitions pending -> waived.
func (p *Penalty) Waive(now time.Time) error {
	if p.Status != PenaltyPending {
		return ErrPenaltyNotPending
	}
	p.Status = PenaltyWaived
	p.WaivedAt = &now
	return nil
}

// ApplyPartnerEdit swaps the penalty for another definition of the same
// severity. Allowed exactly once while still pending.
func (p *Penalty) ApplyPartnerEdit(def PenaltyDefinition, now time.Time) error {
	if p.Status != PenaltyPending {
		return ErrPenaltyNotPending
	}
	if p.EditedBy == EditedByPartner {
		return ErrPenaltyAlreadyEdited
	}
	orig := p.Type
	p.OriginalType = &orig
	p.Type = def.Type
	p.Description = def.Description
	p.EditedBy = EditedByPartner
	p.EditedAt = &now
	return nil
}

// RewardDefinition ties a reward tier to the streak milestone that earns it.
type RewardDefinition struct {
	Type           RewardType `json:"type"`
	StreakRequired int        `json:"streak_required"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Suggestions    []string   `json:"suggestions"`
}

// Reward is earned at a streak milestone and expires 7 days after creation.
// Expiry is computed on read; the stored status is not auto-updated.
type Reward struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	UserID      uuid.UUID    `json:"user_id" db:"user_id"`
	Type        RewardType   `json:"type" db:"type"`
	Milestone   int          `json:"milestone" db:"milestone"`
	Name        string       `json:"name" db:"name"`
	Description string       `json:"description" db:"description"`
	Status      RewardStatus `json:"status" db:"status"`
	ClaimedAt   *time.Time   `json:"claimed_at,omitempty" db:"claimed_at"`
	ExpiresAt   time.Time    `json:"expires_at" db:"expires_at"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
}

// IsExpired is evaluated against the caller's clock, independent of the
// stored status field.
func (rw *Reward) IsExpired(now time.Time) bool {
	return now.After(rw.ExpiresAt)
}

// EffectiveStatus folds computed expiry into the stored status.
func (rw *Reward) EffectiveStatus(now time.Time) RewardStatus {
	if rw.Status == RewardClaimable && rw.IsExpired(now) {
		return RewardExpired
	}
	return rw.Status
}

// Claim transitions claimable -> claimed. Expired rewards are rejected.
func (rw *Reward) Claim(now time.Time) error {
	if rw.Status != RewardClaimable {
		return ErrRewardNotClaimable
	}
	if rw.IsExpired(now) {
		return ErrRewardExpired
	}
	rw.Status = RewardClaimed
	rw.ClaimedAt = &now
	return nil
}

// StreakData is the per-user running counter, mutated once per day-end.
type StreakData struct {
	Current      int   `json:"current" db:"current"`
	Longest      int   `json:"longest" db:"longest"`
	LastSafeDate *Date `json:"last_safe_date" db:"last_safe_date"`
}

// Validate rejects data that breaks the current <= longest invariant.
func (s StreakData) Validate() error {
	if s.Current > s.Longest {
		return ErrStreakInvariant
	}
	return nil
}

// MutualChallenge is an optional shared goal inside a couples circle.
type MutualChallenge struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Completed bool      `json:"completed"`
}

// CouplesCircle pairs exactly two users for mutual visibility. The invite
// code stops working once the second member joins; the circle is destroyed
// when membership drops to zero.
type CouplesCircle struct {
	ID               uuid.UUID         `json:"id"`
	Name             string            `json:"name"`
	Members          []uuid.UUID       `json:"members"`
	InviteCode       string            `json:"invite_code"`
	SharedStreak     int               `json:"shared_streak"`
	MutualChallenges []MutualChallenge `json:"mutual_challenges,omitempty"`
	CreatedBy        uuid.UUID         `json:"created_by"`
	CreatedAt        time.Time         `json:"created_at"`
}

// IsFull reports whether the circle reached its capacity of two members.
func (c *CouplesCircle) IsFull() bool {
	return len(c.Members) >= 2
}

// HasMember reports whether the user belongs to the circle.
func (c *CouplesCircle) HasMember(userID uuid.UUID) bool {
	for _, m := range c.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// PartnerOf returns the other member of a full circle.
func (c *CouplesCircle) PartnerOf(userID uuid.UUID) (uuid.UUID, bool) {
	for _, m := range c.Members {
		if m != userID {
			return m, true
		}
	}
	return uuid.Nil, false
}

// UserSettings holds per-user targets consumed at the transport edge.
type UserSettings struct {
	DayEndTime         string `json:"day_end_time"`
	SleepTarget        string `json:"sleep_target"`
	DailyCalorieTarget int    `json:"daily_calorie_target"`
	DailyWaterTarget   int    `json:"daily_water_target"`
	DailyStepsTarget   int    `json:"daily_steps_target"`
	ScreenTimeLimit    int    `json:"screen_time_limit"`
}

// UserProfile is the owning identity for records, penalties and rewards.
// CircleID is nulled when the user leaves their couples circle.
type UserProfile struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	Email       string       `json:"email" db:"email"`
	DisplayName string       `json:"display_name" db:"display_name"`
	Settings    UserSettings `json:"settings"`
	CircleID    *uuid.UUID   `json:"circle_id,omitempty" db:"circle_id"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}

// Utility methods
func (tc TaskCategory) IsValid() bool {
	switch tc {
	case CategoryDeen, CategoryHealth, CategorySleep, CategoryNutrition,
		CategoryProductivity, CategoryMental, CategoryDigital, CategoryDeenUpgrade:
		return true
	default:
		return false
	}
}

func (tp TaskPriority) IsValid() bool {
	switch tp {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

func (ds DayStatus) IsValid() bool {
	switch ds {
	case DayStatusPending, DayStatusSafe, DayStatusWarning, DayStatusFailure:
		return true
	default:
		return false
	}
}

func (ps PenaltyStatus) IsValid() bool {
	switch ps {
	case PenaltyPending, PenaltyCompleted, PenaltyWaived:
		return true
	default:
		return false
	}
}

func (rs RewardStatus) IsValid() bool {
	switch rs {
	case RewardClaimable, RewardClaimed, RewardExpired:
		return true
	default:
		return false
	}
}
