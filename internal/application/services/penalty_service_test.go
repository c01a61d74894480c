package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/disciplineos/core/internal/adapters/repository/memory"
	"github.com/disciplineos/core/internal/domain/entities"
	"github.com/disciplineos/core/internal/infrastructure/logger"
	"github.com/disciplineos/core/internal/ports"
)

func newPenaltyService(store *memory.Store) *PenaltyService {
	return NewPenaltyService(store.Penalties(), store.Profiles(), store.Circles(), logger.NewNop())
}

func TestPenaltyComplete(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newPenaltyService(store)
	userID := uuid.New()
	p := seedPenalty(t, store, userID, entities.PenaltyColdShower, entities.SeverityMinor)

	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	done, err := svc.Complete(ctx, userID, p.ID, now)
	assert.NoError(t, err)
	assert.Equal(t, entities.PenaltyCompleted, done.Status)
	assert.Equal(t, now, *done.CompletedAt)

	pending, err := svc.GetPending(ctx, userID)
	assert.NoError(t, err)
	assert.Empty(t, pending)

	// Already completed, cannot transition again.
	_, err = svc.Waive(ctx, userID, p.ID, now)
	assert.ErrorIs(t, err, entities.ErrPenaltyNotPending)
}

func TestPenaltyWaive(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newPenaltyService(store)
	userID := uuid.New()
	p := seedPenalty(t, store, userID, entities.PenaltyExtraCardio, entities.SeverityMinor)

	now := time.Now()
	waived, err := svc.Waive(ctx, userID, p.ID, now)
	assert.NoError(t, err)
	assert.Equal(t, entities.PenaltyWaived, waived.Status)
	assert.NotNil(t, waived.WaivedAt)
}

func TestPenaltyNotFound(t *testing.T) {
	ctx := context.Background()
	svc := newPenaltyService(memory.NewStore())

	_, err := svc.Complete(ctx, uuid.New(), uuid.New(), time.Now())
	assert.Error(t, err)
}

func TestPartnerEditSwapsSameSeverity(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newPenaltyService(store)
	ownerID, editorID := pairInCircle(t, store)
	p := seedPenalty(t, store, ownerID, entities.PenaltyColdShower, entities.SeverityMinor)

	now := time.Now()
	edited, err := svc.PartnerEdit(ctx, ports.PartnerEditRequest{
		EditorID:  editorID,
		OwnerID:   ownerID,
		PenaltyID: p.ID,
		NewType:   entities.PenaltyExtraCardio,
		Now:       now,
	})
	assert.NoError(t, err)
	assert.Equal(t, entities.PenaltyExtraCardio, edited.Type)
	assert.Equal(t, entities.PenaltyColdShower, *edited.OriginalType)
	assert.Equal(t, entities.EditedByPartner, edited.EditedBy)
	assert.Equal(t, entities.PenaltyPending, edited.Status)
}

func TestPartnerEditAllowedOnlyOnce(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newPenaltyService(store)
	ownerID, editorID := pairInCircle(t, store)
	p := seedPenalty(t, store, ownerID, entities.PenaltyColdShower, entities.SeverityMinor)

	req := ports.PartnerEditRequest{
		EditorID:  editorID,
		OwnerID:   ownerID,
		PenaltyID: p.ID,
		NewType:   entities.PenaltyExtraCardio,
		Now:       time.Now(),
	}
	_, err := svc.PartnerEdit(ctx, req)
	assert.NoError(t, err)

	req.NewType = entities.PenaltySocialMediaLockout
	_, err = svc.PartnerEdit(ctx, req)
	assert.ErrorIs(t, err, entities.ErrPenaltyAlreadyEdited)
}

func TestPartnerEditRejectsSeverityMismatch(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newPenaltyService(store)
	ownerID, editorID := pairInCircle(t, store)
	p := seedPenalty(t, store, ownerID, entities.PenaltyColdShower, entities.SeverityMinor)

	_, err := svc.PartnerEdit(ctx, ports.PartnerEditRequest{
		EditorID:  editorID,
		OwnerID:   ownerID,
		PenaltyID: p.ID,
		NewType:   entities.PenaltyFullEntertainmentBan,
		Now:       time.Now(),
	})
	assert.Error(t, err)
}

func TestPartnerEditRejectsNonPartner(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newPenaltyService(store)
	ownerID, _ := pairInCircle(t, store)
	p := seedPenalty(t, store, ownerID, entities.PenaltyColdShower, entities.SeverityMinor)

	_, err := svc.PartnerEdit(ctx, ports.PartnerEditRequest{
		EditorID:  uuid.New(),
		OwnerID:   ownerID,
		PenaltyID: p.ID,
		NewType:   entities.PenaltyExtraCardio,
		Now:       time.Now(),
	})
	assert.ErrorIs(t, err, entities.ErrNotInCircle)
}

func TestPartnerEditRejectsSelfEdit(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newPenaltyService(store)
	ownerID, _ := pairInCircle(t, store)
	p := seedPenalty(t, store, ownerID, entities.PenaltyColdShower, entities.SeverityMinor)

	_, err := svc.PartnerEdit(ctx, ports.PartnerEditRequest{
		EditorID:  ownerID,
		OwnerID:   ownerID,
		PenaltyID: p.ID,
		NewType:   entities.PenaltyExtraCardio,
		Now:       time.Now(),
	})
	assert.ErrorIs(t, err, entities.ErrNotInCircle)
}

func TestPenaltyAlternatives(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newPenaltyService(store)
	userID := uuid.New()
	p := seedPenalty(t, store, userID, entities.PenaltyColdShower, entities.SeverityMinor)

	alternatives, err := svc.Alternatives(ctx, userID, p.ID)
	assert.NoError(t, err)
	assert.Len(t, alternatives, 3)
	for _, alt := range alternatives {
		assert.Equal(t, entities.SeverityMinor, alt.Severity)
	}
}

func TestEscalationSignal(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newPenaltyService(store)
	userID := uuid.New()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	for _, date := range []entities.Date{"2025-06-04", "2025-06-07", "2025-06-09"} {
		p := seedPenalty(t, store, userID, entities.PenaltyColdShower, entities.SeverityMinor)
		p.Date = date
		assert.NoError(t, store.Penalties().Update(ctx, p))
	}

	escalating, err := svc.EscalationSignal(ctx, userID, now)
	assert.NoError(t, err)
	assert.True(t, escalating)
}

func seedPenalty(t *testing.T, store *memory.Store, userID uuid.UUID, pType entities.PenaltyType, severity entities.PenaltySeverity) *entities.Penalty {
	t.Helper()
	p := &entities.Penalty{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      pType,
		Severity:  severity,
		Date:      "2025-06-01",
		Status:    entities.PenaltyPending,
		CreatedAt: time.Now(),
	}
	assert.NoError(t, store.Penalties().Create(context.Background(), p))
	return p
}

func pairInCircle(t *testing.T, store *memory.Store) (ownerID, editorID uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	ownerID = uuid.New()
	editorID = uuid.New()

	circle := &entities.CouplesCircle{
		ID:         uuid.New(),
		Name:       "Accountability",
		Members:    []uuid.UUID{ownerID, editorID},
		InviteCode: "ABC123",
		CreatedBy:  ownerID,
		CreatedAt:  time.Now(),
	}
	assert.NoError(t, store.Circles().Create(ctx, circle))

	for _, id := range []uuid.UUID{ownerID, editorID} {
		cid := circle.ID
		assert.NoError(t, store.Profiles().Create(ctx, &entities.UserProfile{
			ID:          id,
			Email:       id.String() + "@example.com",
			DisplayName: "Member",
			Settings:    DefaultSettings(),
			CircleID:    &cid,
			CreatedAt:   time.Now(),
		}))
	}
	return ownerID, editorID
}
