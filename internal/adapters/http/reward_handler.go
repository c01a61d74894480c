package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/disciplineos/core/internal/application/services"
	"github.com/disciplineos/core/internal/domain/entities"
	"github.com/disciplineos/core/internal/infrastructure/logger"
)

// RewardHandler handles reward requests
type RewardHandler struct {
	rewardService *services.RewardService
	logger        *logger.Logger
}

// NewRewardHandler creates a new reward handler
func NewRewardHandler(rewardService *services.RewardService, logger *logger.Logger) *RewardHandler {
	return &RewardHandler{
		rewardService: rewardService,
		logger:        logger,
	}
}

// GetClaimable lists open rewards with expiry already applied to the status.
func (h *RewardHandler) GetClaimable(c echo.Context) error {
	userID, err := userIDFromHeader(c)
	if err != nil {
		return err
	}
	rewards, err := h.rewardService.GetClaimable(c.Request().Context(), userID, time.Now())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, rewards)
}

// Claim transitions a reward to claimed.
func (h *RewardHandler) Claim(c echo.Context) error {
	userID, err := userIDFromHeader(c)
	if err != nil {
		return err
	}
	rewardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid reward id")
	}

	rw, err := h.rewardService.Claim(c.Request().Context(), userID, rewardID, time.Now())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, rw)
}

// Suggestions returns the static suggestion list for a reward tier.
func (h *RewardHandler) Suggestions(c echo.Context) error {
	rewardType := entities.RewardType(c.Param("type"))
	suggestions := h.rewardService.Suggestions(rewardType)
	if suggestions == nil {
		return echo.NewHTTPError(http.StatusNotFound, "unknown reward type")
	}
	return c.JSON(http.StatusOK, suggestions)
}
