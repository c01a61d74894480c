package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/disciplineos/core/internal/domain/entities"
	"github.com/disciplineos/core/internal/domain/penalty"
	"github.com/disciplineos/core/internal/infrastructure/logger"
	"github.com/disciplineos/core/internal/ports"
)

// PenaltyService handles the penalty lifecycle after assignment: completion,
// waiving, partner edits and the escalation signal.
type PenaltyService struct {
	penaltyRepo ports.PenaltyRepository
	profileRepo ports.ProfileRepository
	circleRepo  ports.CircleRepository
	logger      *logger.Logger
}

// NewPenaltyService creates a new penalty service
func NewPenaltyService(penaltyRepo ports.PenaltyRepository, profileRepo ports.ProfileRepository, circleRepo ports.CircleRepository, logger *logger.Logger) *PenaltyService {
	return &PenaltyService{
		penaltyRepo: penaltyRepo,
		profileRepo: profileRepo,
		circleRepo:  circleRepo,
		logger:      logger,
	}
}

// GetPending lists the user's open penalties.
func (s *PenaltyService) GetPending(ctx context.Context, userID uuid.UUID) ([]entities.Penalty, error) {
	pending, err := s.penaltyRepo.Pending(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending penalties: %w", err)
	}
	return pending, nil
}

// Complete marks a pending penalty as served.
func (s *PenaltyService) Complete(ctx context.Context, userID, penaltyID uuid.UUID, now time.Time) (*entities.Penalty, error) {
	p, err := s.penaltyRepo.GetByID(ctx, userID, penaltyID)
	if err != nil {
		return nil, fmt.Errorf("penalty not found: %w", err)
	}
	if err := p.Complete(now); err != nil {
		return nil, err
	}
	if err := s.penaltyRepo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update penalty: %w", err)
	}
	s.logger.Info("Penalty completed", "user_id", userID, "penalty_id", penaltyID, "type", p.Type)
	return p, nil
}

// Waive dismisses a pending penalty without serving it.
func (s *PenaltyService) Waive(ctx context.Context, userID, penaltyID uuid.UUID, now time.Time) (*entities.Penalty, error) {
	p, err := s.penaltyRepo.GetByID(ctx, userID, penaltyID)
	if err != nil {
		return nil, fmt.Errorf("penalty not found: %w", err)
	}
	if err := p.Waive(now); err != nil {
		return nil, err
	}
	if err := s.penaltyRepo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update penalty: %w", err)
	}
	s.logger.Info("Penalty waived", "user_id", userID, "penalty_id", penaltyID, "type", p.Type)
	return p, nil
}

// PartnerEdit swaps a partner's pending penalty for another definition of
// the same severity. Only the circle partner may do it, and only once; the
// repository re-checks the stored edited_by on write.
func (s *PenaltyService) PartnerEdit(ctx context.Context, req ports.PartnerEditRequest) (*entities.Penalty, error) {
	if err := s.verifyPartnership(ctx, req.EditorID, req.OwnerID); err != nil {
		return nil, err
	}

	p, err := s.penaltyRepo.GetByID(ctx, req.OwnerID, req.PenaltyID)
	if err != nil {
		return nil, fmt.Errorf("penalty not found: %w", err)
	}

	def, ok := penalty.DefinitionByType(req.NewType)
	if !ok {
		return nil, fmt.Errorf("unknown penalty type %q", req.NewType)
	}
	if def.Severity != p.Severity {
		return nil, fmt.Errorf("replacement penalty must match severity %s", p.Severity)
	}

	if err := p.ApplyPartnerEdit(def, req.Now); err != nil {
		return nil, err
	}
	if err := s.penaltyRepo.PartnerEdit(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to apply partner edit: %w", err)
	}

	s.logger.Info("Penalty edited by partner", "owner_id", req.OwnerID, "editor_id", req.EditorID, "penalty_id", req.PenaltyID, "new_type", def.Type)
	return p, nil
}

// Alternatives lists the same-severity definitions a partner may swap a
// pending penalty to.
func (s *PenaltyService) Alternatives(ctx context.Context, userID, penaltyID uuid.UUID) ([]entities.PenaltyDefinition, error) {
	p, err := s.penaltyRepo.GetByID(ctx, userID, penaltyID)
	if err != nil {
		return nil, fmt.Errorf("penalty not found: %w", err)
	}
	return penalty.SuggestedAlternatives(p), nil
}

// EscalationSignal reports whether penalties are piling up over the trailing
// week. Informational only; severity selection never escalates on its own.
func (s *PenaltyService) EscalationSignal(ctx context.Context, userID uuid.UUID, now time.Time) (bool, error) {
	recent, err := s.penaltyRepo.Recent(ctx, userID, 10)
	if err != nil {
		return false, fmt.Errorf("failed to load recent penalties: %w", err)
	}
	return penalty.ShouldEscalate(recent, now), nil
}

func (s *PenaltyService) verifyPartnership(ctx context.Context, editorID, ownerID uuid.UUID) error {
	owner, err := s.profileRepo.GetByID(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("owner profile not found: %w", err)
	}
	if owner.CircleID == nil {
		return entities.ErrNotInCircle
	}
	circle, err := s.circleRepo.GetByID(ctx, *owner.CircleID)
	if err != nil {
		return fmt.Errorf("circle not found: %w", err)
	}
	if !circle.HasMember(editorID) || editorID == ownerID {
		return entities.ErrNotInCircle
	}
	return nil
}
