package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/disciplineos/core/internal/application/services"
	"github.com/disciplineos/core/internal/infrastructure/logger"
)

// CircleHandler handles couples circle requests
type CircleHandler struct {
	circleService *services.CircleService
	logger        *logger.Logger
}

// NewCircleHandler creates a new circle handler
func NewCircleHandler(circleService *services.CircleService, logger *logger.Logger) *CircleHandler {
	return &CircleHandler{
		circleService: circleService,
		logger:        logger,
	}
}

type createCircleBody struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// Create opens a circle with the caller as first member.
func (h *CircleHandler) Create(c echo.Context) error {
	userID, err := userIDFromHeader(c)
	if err != nil {
		return err
	}

	var body createCircleBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	circle, err := h.circleService.Create(c.Request().Context(), userID, body.Name, time.Now())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, circle)
}

type joinCircleBody struct {
	InviteCode string `json:"invite_code" validate:"required"`
}

// Join adds the caller to the circle behind an invite code.
func (h *CircleHandler) Join(c echo.Context) error {
	userID, err := userIDFromHeader(c)
	if err != nil {
		return err
	}

	var body joinCircleBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	circle, err := h.circleService.Join(c.Request().Context(), userID, body.InviteCode)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, circle)
}

// Leave removes the caller from their circle.
func (h *CircleHandler) Leave(c echo.Context) error {
	userID, err := userIDFromHeader(c)
	if err != nil {
		return err
	}
	if err := h.circleService.Leave(c.Request().Context(), userID); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Left circle"})
}

// Get returns the caller's circle.
func (h *CircleHandler) Get(c echo.Context) error {
	userID, err := userIDFromHeader(c)
	if err != nil {
		return err
	}
	circle, err := h.circleService.Get(c.Request().Context(), userID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, circle)
}

// PartnerProgress returns the partner's record, streak and pending penalties
// for a date.
func (h *CircleHandler) PartnerProgress(c echo.Context) error {
	userID, err := userIDFromHeader(c)
	if err != nil {
		return err
	}
	date, err := dateParam(c, "date")
	if err != nil {
		return err
	}

	progress, err := h.circleService.PartnerProgress(c.Request().Context(), userID, date)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, progress)
}
