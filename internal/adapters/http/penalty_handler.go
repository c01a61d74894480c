package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/disciplineos/core/internal/application/services"
	"github.com/disciplineos/core/internal/domain/entities"
	"github.com/disciplineos/core/internal/infrastructure/logger"
	"github.com/disciplineos/core/internal/ports"
)

// PenaltyHandler handles penalty lifecycle requests
type PenaltyHandler struct {
	penaltyService *services.PenaltyService
	logger         *logger.Logger
}

// NewPenaltyHandler creates a new penalty handler
func NewPenaltyHandler(penaltyService *services.PenaltyService, logger *logger.Logger) *PenaltyHandler {
	return &PenaltyHandler{
		penaltyService: penaltyService,
		logger:         logger,
	}
}

// GetPending lists the caller's open penalties.
func (h *PenaltyHandler) GetPending(c echo.Context) error {
	userID, err := userIDFromHeader(c)
	if err != nil {
		return err
	}
	pending, err := h.penaltyService.GetPending(c.Request().Context(), userID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, pending)
}

// Complete marks a penalty as served.
func (h *PenaltyHandler) Complete(c echo.Context) error {
	userID, err := userIDFromHeader(c)
	if err != nil {
		return err
	}
	penaltyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid penalty id")
	}

	p, err := h.penaltyService.Complete(c.Request().Context(), userID, penaltyID, time.Now())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, p)
}

// Waive dismisses a penalty without serving it.
func (h *PenaltyHandler) Waive(c echo.Context) error {
	userID, err := userIDFromHeader(c)
	if err != nil {
		return err
	}
	penaltyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid penalty id")
	}

	p, err := h.penaltyService.Waive(c.Request().Context(), userID, penaltyID, time.Now())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, p)
}

type partnerEditBody struct {
	OwnerID string `json:"owner_id" validate:"required,uuid"`
	NewType string `json:"new_type" validate:"required"`
}

// PartnerEdit swaps a partner's pending penalty for a same-severity
// alternative. Allowed once per penalty.
func (h *PenaltyHandler) PartnerEdit(c echo.Context) error {
	editorID, err := userIDFromHeader(c)
	if err != nil {
		return err
	}
	penaltyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid penalty id")
	}

	var body partnerEditBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ownerID, err := uuid.Parse(body.OwnerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid owner id")
	}

	p, err := h.penaltyService.PartnerEdit(c.Request().Context(), ports.PartnerEditRequest{
		EditorID:  editorID,
		OwnerID:   ownerID,
		PenaltyID: penaltyID,
		NewType:   entities.PenaltyType(body.NewType),
		Now:       time.Now(),
	})
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, p)
}

// Alternatives lists the same-severity swaps available for a penalty.
func (h *PenaltyHandler) Alternatives(c echo.Context) error {
	userID, err := userIDFromHeader(c)
	if err != nil {
		return err
	}
	penaltyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid penalty id")
	}

	alternatives, err := h.penaltyService.Alternatives(c.Request().Context(), userID, penaltyID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, alternatives)
}

// EscalationSignal reports whether penalties are piling up this week.
func (h *PenaltyHandler) EscalationSignal(c echo.Context) error {
	userID, err := userIDFromHeader(c)
	if err != nil {
		return err
	}
	escalating, err := h.penaltyService.EscalationSignal(c.Request().Context(), userID, time.Now())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"escalating": escalating})
}
