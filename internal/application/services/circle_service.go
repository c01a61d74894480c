package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/disciplineos/core/internal/domain/entities"
	"github.com/disciplineos/core/internal/infrastructure/logger"
	"github.com/disciplineos/core/internal/ports"
)

const (
	inviteCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	inviteCodeLength   = 6
	inviteCodeRetries  = 5
)

// CircleService handles couples circles: pairing two users for mutual
// visibility of progress and penalties.
type CircleService struct {
	circleRepo  ports.CircleRepository
	profileRepo ports.ProfileRepository
	recordRepo  ports.DailyRecordRepository
	streakRepo  ports.StreakRepository
	penaltyRepo ports.PenaltyRepository
	rng         *rand.Rand
	logger      *logger.Logger
}

// NewCircleService creates a new circle service. The rng generates invite
// codes and is injected so tests can pin them.
func NewCircleService(circleRepo ports.CircleRepository, profileRepo ports.ProfileRepository, recordRepo ports.DailyRecordRepository, streakRepo ports.StreakRepository, penaltyRepo ports.PenaltyRepository, rng *rand.Rand, logger *logger.Logger) *CircleService {
	return &CircleService{
		circleRepo:  circleRepo,
		profileRepo: profileRepo,
		recordRepo:  recordRepo,
		streakRepo:  streakRepo,
		penaltyRepo: penaltyRepo,
		rng:         rng,
		logger:      logger,
	}
}

// Create opens a new circle with the caller as its first member and a fresh
// invite code for the partner.
func (s *CircleService) Create(ctx context.Context, userID uuid.UUID, name string, now time.Time) (*entities.CouplesCircle, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile not found: %w", err)
	}
	if profile.CircleID != nil {
		return nil, entities.ErrAlreadyInCircle
	}

	code, err := s.generateInviteCode(ctx)
	if err != nil {
		return nil, err
	}

	circle := &entities.CouplesCircle{
		ID:         uuid.New(),
		Name:       name,
		Members:    []uuid.UUID{userID},
		InviteCode: code,
		CreatedBy:  userID,
		CreatedAt:  now,
	}
	if err := s.circleRepo.Create(ctx, circle); err != nil {
		return nil, fmt.Errorf("failed to create circle: %w", err)
	}

	profile.CircleID = &circle.ID
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to link profile to circle: %w", err)
	}

	s.logger.Info("Circle created", "circle_id", circle.ID, "user_id", userID)
	return circle, nil
}

// Join adds the caller to the circle behind an invite code. Full circles
// reject the attempt; the code stops working once the second member joins.
func (s *CircleService) Join(ctx context.Context, userID uuid.UUID, inviteCode string) (*entities.CouplesCircle, error) {
	code := strings.ToUpper(strings.TrimSpace(inviteCode))
	if len(code) != inviteCodeLength {
		return nil, entities.ErrInvalidInviteCode
	}

	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile not found: %w", err)
	}
	if profile.CircleID != nil {
		return nil, entities.ErrAlreadyInCircle
	}

	circle, err := s.circleRepo.GetByInviteCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve invite code: %w", err)
	}
	if circle.HasMember(userID) {
		return nil, entities.ErrAlreadyInCircle
	}
	if circle.IsFull() {
		return nil, entities.ErrCircleFull
	}

	circle.Members = append(circle.Members, userID)
	if err := s.circleRepo.Update(ctx, circle); err != nil {
		return nil, fmt.Errorf("failed to update circle: %w", err)
	}

	profile.CircleID = &circle.ID
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to link profile to circle: %w", err)
	}

	s.logger.Info("Circle joined", "circle_id", circle.ID, "user_id", userID)
	return circle, nil
}

// Leave removes the caller from their circle and nulls the profile link.
// A circle with no members left is destroyed.
func (s *CircleService) Leave(ctx context.Context, userID uuid.UUID) error {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("profile not found: %w", err)
	}
	if profile.CircleID == nil {
		return entities.ErrNotInCircle
	}

	circle, err := s.circleRepo.GetByID(ctx, *profile.CircleID)
	if err != nil {
		return fmt.Errorf("circle not found: %w", err)
	}

	remaining := circle.Members[:0:0]
	for _, m := range circle.Members {
		if m != userID {
			remaining = append(remaining, m)
		}
	}
	circle.Members = remaining

	if len(circle.Members) == 0 {
		if err := s.circleRepo.Delete(ctx, circle.ID); err != nil {
			return fmt.Errorf("failed to delete empty circle: %w", err)
		}
		s.logger.Info("Circle destroyed", "circle_id", circle.ID)
	} else {
		if err := s.circleRepo.Update(ctx, circle); err != nil {
			return fmt.Errorf("failed to update circle: %w", err)
		}
	}

	profile.CircleID = nil
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return fmt.Errorf("failed to unlink profile from circle: %w", err)
	}

	s.logger.Info("Circle left", "circle_id", circle.ID, "user_id", userID)
	return nil
}

// Get returns the caller's circle.
func (s *CircleService) Get(ctx context.Context, userID uuid.UUID) (*entities.CouplesCircle, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile not found: %w", err)
	}
	if profile.CircleID == nil {
		return nil, entities.ErrNotInCircle
	}
	circle, err := s.circleRepo.GetByID(ctx, *profile.CircleID)
	if err != nil {
		return nil, fmt.Errorf("circle not found: %w", err)
	}
	return circle, nil
}

// PartnerProgress returns the mutual-visibility view of the other member:
// their record for the date, streak counters and pending penalties.
func (s *CircleService) PartnerProgress(ctx context.Context, userID uuid.UUID, date entities.Date) (*ports.PartnerProgress, error) {
	circle, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	partnerID, ok := circle.PartnerOf(userID)
	if !ok {
		return nil, entities.ErrNotInCircle
	}

	partner, err := s.profileRepo.GetByID(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("partner profile not found: %w", err)
	}

	progress := &ports.PartnerProgress{
		PartnerID:   partnerID,
		DisplayName: partner.DisplayName,
	}

	record, err := s.recordRepo.Get(ctx, partnerID, date)
	if err == nil {
		progress.Record = record
	}

	streakData, err := s.streakRepo.Get(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load partner streak: %w", err)
	}
	progress.Streak = streakData

	pending, err := s.penaltyRepo.Pending(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load partner penalties: %w", err)
	}
	progress.PendingPenalty = pending

	return progress, nil
}

func (s *CircleService) generateInviteCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < inviteCodeRetries; attempt++ {
		b := make([]byte, inviteCodeLength)
		for i := range b {
			b[i] = inviteCodeAlphabet[s.rng.Intn(len(inviteCodeAlphabet))]
		}
		code := string(b)

		_, err := s.circleRepo.GetByInviteCode(ctx, code)
		if errors.Is(err, entities.ErrCircleNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check invite code: %w", err)
		}
	}
	return "", fmt.Errorf("failed to generate unique invite code after %d attempts", inviteCodeRetries)
}
