package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/disciplineos/core/internal/application/services"
	"github.com/disciplineos/core/internal/infrastructure/logger"
)

// StreakHandler handles streak requests
type StreakHandler struct {
	streakService *services.StreakService
	logger        *logger.Logger
}

// NewStreakHandler creates a new streak handler
func NewStreakHandler(streakService *services.StreakService, logger *logger.Logger) *StreakHandler {
	return &StreakHandler{
		streakService: streakService,
		logger:        logger,
	}
}

// Get returns the running streak counters.
func (h *StreakHandler) Get(c echo.Context) error {
	userID, err := userIDFromHeader(c)
	if err != nil {
		return err
	}
	data, err := h.streakService.Get(c.Request().Context(), userID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, data)
}

// Progress returns the milestone progress view.
func (h *StreakHandler) Progress(c echo.Context) error {
	userID, err := userIDFromHeader(c)
	if err != nil {
		return err
	}
	progress, err := h.streakService.Progress(c.Request().Context(), userID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, progress)
}

// Recompute replays finalized history over a range and overwrites the
// counters. This is the explicit repair for backfilled days.
func (h *StreakHandler) Recompute(c echo.Context) error {
	userID, err := userIDFromHeader(c)
	if err != nil {
		return err
	}
	start, err := requiredDateQuery(c, "start")
	if err != nil {
		return err
	}
	end, err := requiredDateQuery(c, "end")
	if err != nil {
		return err
	}

	data, err := h.streakService.Recompute(c.Request().Context(), userID, start, end)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, data)
}
