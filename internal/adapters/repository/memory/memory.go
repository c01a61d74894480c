// Package memory holds mutex-guarded in-memory implementations of the
// repository ports. They back the service tests and the no-database dev
// mode; semantics mirror the Postgres adapters, including the partner-edit
// guard.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/disciplineos/core/internal/domain/entities"
	"github.com/disciplineos/core/internal/ports"
)

// Store bundles every repository over one shared lock. Each port is exposed
// as a view on the store, so cross-repository operations in a test see one
// consistent dataset.
type Store struct {
	mu        sync.RWMutex
	records   map[uuid.UUID]map[entities.Date]*entities.DailyRecord
	penalties map[uuid.UUID]map[uuid.UUID]*entities.Penalty
	rewards   map[uuid.UUID]map[uuid.UUID]*entities.Reward
	streaks   map[uuid.UUID]entities.StreakData
	circles   map[uuid.UUID]*entities.CouplesCircle
	profiles  map[uuid.UUID]*entities.UserProfile
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		records:   make(map[uuid.UUID]map[entities.Date]*entities.DailyRecord),
		penalties: make(map[uuid.UUID]map[uuid.UUID]*entities.Penalty),
		rewards:   make(map[uuid.UUID]map[uuid.UUID]*entities.Reward),
		streaks:   make(map[uuid.UUID]entities.StreakData),
		circles:   make(map[uuid.UUID]*entities.CouplesCircle),
		profiles:  make(map[uuid.UUID]*entities.UserProfile),
	}
}

// Records returns the DailyRecordRepository view.
func (s *Store) Records() ports.DailyRecordRepository { return &recordRepo{s} }

// Penalties returns the PenaltyRepository view.
func (s *Store) Penalties() ports.PenaltyRepository { return &penaltyRepo{s} }

// Rewards returns the RewardRepository view.
func (s *Store) Rewards() ports.RewardRepository { return &rewardRepo{s} }

// Streaks returns the StreakRepository view.
func (s *Store) Streaks() ports.StreakRepository { return &streakRepo{s} }

// Circles returns the CircleRepository view.
func (s *Store) Circles() ports.CircleRepository { return &circleRepo{s} }

// Profiles returns the ProfileRepository view.
func (s *Store) Profiles() ports.ProfileRepository { return &profileRepo{s} }

func cloneRecord(r *entities.DailyRecord) *entities.DailyRecord {
	clone := *r
	clone.Tasks = make(map[string]entities.TaskCompletion, len(r.Tasks))
	for id, tc := range r.Tasks {
		clone.Tasks[id] = tc
	}
	return &clone
}

func cloneCircle(c *entities.CouplesCircle) *entities.CouplesCircle {
	clone := *c
	clone.Members = append([]uuid.UUID(nil), c.Members...)
	clone.MutualChallenges = append([]entities.MutualChallenge(nil), c.MutualChallenges...)
	return &clone
}

type recordRepo struct{ s *Store }

func (r *recordRepo) Get(ctx context.Context, userID uuid.UUID, date entities.Date) (*entities.DailyRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if rec, ok := r.s.records[userID][date]; ok {
		return cloneRecord(rec), nil
	}
	return nil, entities.ErrRecordNotFound
}

func (r *recordRepo) Upsert(ctx context.Context, record *entities.DailyRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.records[record.UserID] == nil {
		r.s.records[record.UserID] = make(map[entities.Date]*entities.DailyRecord)
	}
	r.s.records[record.UserID][record.Date] = cloneRecord(record)
	return nil
}

func (r *recordRepo) Range(ctx context.Context, userID uuid.UUID, start, end entities.Date) ([]entities.DailyRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []entities.DailyRecord
	for date, rec := range r.s.records[userID] {
		if !date.Before(start) && !end.Before(date) {
			out = append(out, *cloneRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

type penaltyRepo struct{ s *Store }

func (r *penaltyRepo) Create(ctx context.Context, penalty *entities.Penalty) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if penalty.ID == uuid.Nil {
		penalty.ID = uuid.New()
	}
	if r.s.penalties[penalty.UserID] == nil {
		r.s.penalties[penalty.UserID] = make(map[uuid.UUID]*entities.Penalty)
	}
	clone := *penalty
	r.s.penalties[penalty.UserID][penalty.ID] = &clone
	return nil
}

func (r *penaltyRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*entities.Penalty, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if p, ok := r.s.penalties[userID][id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, entities.ErrPenaltyNotFound
}

func (r *penaltyRepo) Pending(ctx context.Context, userID uuid.UUID) ([]entities.Penalty, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []entities.Penalty
	for _, p := range r.s.penalties[userID] {
		if p.Status == entities.PenaltyPending {
			out = append(out, *p)
		}
	}
	sortPenaltiesDesc(out)
	return out, nil
}

func (r *penaltyRepo) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]entities.Penalty, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []entities.Penalty
	for _, p := range r.s.penalties[userID] {
		out = append(out, *p)
	}
	sortPenaltiesDesc(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *penaltyRepo) Update(ctx context.Context, penalty *entities.Penalty) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.penalties[penalty.UserID][penalty.ID]; !ok {
		return entities.ErrPenaltyNotFound
	}
	clone := *penalty
	r.s.penalties[penalty.UserID][penalty.ID] = &clone
	return nil
}

// PartnerEdit re-checks the stored copy before writing, mirroring the
// conditional UPDATE of the SQL adapter.
func (r *penaltyRepo) PartnerEdit(ctx context.Context, penalty *entities.Penalty) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.penalties[penalty.UserID][penalty.ID]
	if !ok {
		return entities.ErrPenaltyNotFound
	}
	if stored.Status != entities.PenaltyPending || stored.EditedBy == entities.EditedByPartner {
		return entities.ErrPenaltyAlreadyEdited
	}
	clone := *penalty
	r.s.penalties[penalty.UserID][penalty.ID] = &clone
	return nil
}

func sortPenaltiesDesc(penalties []entities.Penalty) {
	sort.Slice(penalties, func(i, j int) bool {
		return penalties[j].Date.Before(penalties[i].Date)
	})
}

type rewardRepo struct{ s *Store }

func (r *rewardRepo) Create(ctx context.Context, reward *entities.Reward) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if reward.ID == uuid.Nil {
		reward.ID = uuid.New()
	}
	if r.s.rewards[reward.UserID] == nil {
		r.s.rewards[reward.UserID] = make(map[uuid.UUID]*entities.Reward)
	}
	clone := *reward
	r.s.rewards[reward.UserID][reward.ID] = &clone
	return nil
}

func (r *rewardRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*entities.Reward, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if rw, ok := r.s.rewards[userID][id]; ok {
		clone := *rw
		return &clone, nil
	}
	return nil, entities.ErrRewardNotFound
}

func (r *rewardRepo) Claimable(ctx context.Context, userID uuid.UUID) ([]entities.Reward, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []entities.Reward
	for _, rw := range r.s.rewards[userID] {
		if rw.Status == entities.RewardClaimable {
			out = append(out, *rw)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *rewardRepo) Update(ctx context.Context, reward *entities.Reward) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.rewards[reward.UserID][reward.ID]; !ok {
		return entities.ErrRewardNotFound
	}
	clone := *reward
	r.s.rewards[reward.UserID][reward.ID] = &clone
	return nil
}

type streakRepo struct{ s *Store }

func (r *streakRepo) Get(ctx context.Context, userID uuid.UUID) (entities.StreakData, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.streaks[userID], nil
}

func (r *streakRepo) Set(ctx context.Context, userID uuid.UUID, data entities.StreakData) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.streaks[userID] = data
	return nil
}

type circleRepo struct{ s *Store }

func (r *circleRepo) Create(ctx context.Context, circle *entities.CouplesCircle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if circle.ID == uuid.Nil {
		circle.ID = uuid.New()
	}
	r.s.circles[circle.ID] = cloneCircle(circle)
	return nil
}

func (r *circleRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.CouplesCircle, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if c, ok := r.s.circles[id]; ok {
		return cloneCircle(c), nil
	}
	return nil, entities.ErrCircleNotFound
}

func (r *circleRepo) GetByInviteCode(ctx context.Context, code string) (*entities.CouplesCircle, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.circles {
		if c.InviteCode == code {
			return cloneCircle(c), nil
		}
	}
	return nil, entities.ErrCircleNotFound
}

func (r *circleRepo) Update(ctx context.Context, circle *entities.CouplesCircle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.circles[circle.ID]; !ok {
		return entities.ErrCircleNotFound
	}
	r.s.circles[circle.ID] = cloneCircle(circle)
	return nil
}

func (r *circleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.circles[id]; !ok {
		return entities.ErrCircleNotFound
	}
	delete(r.s.circles, id)
	return nil
}

type profileRepo struct{ s *Store }

func (r *profileRepo) Create(ctx context.Context, profile *entities.UserProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	clone := *profile
	r.s.profiles[profile.ID] = &clone
	return nil
}

func (r *profileRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.UserProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if p, ok := r.s.profiles[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, entities.ErrUserNotFound
}

func (r *profileRepo) Update(ctx context.Context, profile *entities.UserProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.profiles[profile.ID]; !ok {
		return entities.ErrUserNotFound
	}
	clone := *profile
	r.s.profiles[profile.ID] = &clone
	return nil
}

func (r *profileRepo) List(ctx context.Context) ([]entities.UserProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]entities.UserProfile, 0, len(r.s.profiles))
	for _, p := range r.s.profiles {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
