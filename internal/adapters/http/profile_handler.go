package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/disciplineos/core/internal/application/services"
	"github.com/disciplineos/core/internal/domain/entities"
	"github.com/disciplineos/core/internal/infrastructure/logger"
)

// ProfileHandler handles profile requests
type ProfileHandler struct {
	profileService *services.ProfileService
	logger         *logger.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *services.ProfileService, logger *logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		logger:         logger,
	}
}

type registerProfileBody struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=100"`
}

// Register creates the profile row for the caller identity. Idempotent for
// an already registered ID.
func (h *ProfileHandler) Register(c echo.Context) error {
	userID, err := userIDFromHeader(c)
	if err != nil {
		return err
	}

	var body registerProfileBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	profile, err := h.profileService.Register(c.Request().Context(), userID, body.Email, body.DisplayName, time.Now())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, profile)
}

// Me returns the caller's profile.
func (h *ProfileHandler) Me(c echo.Context) error {
	userID, err := userIDFromHeader(c)
	if err != nil {
		return err
	}
	profile, err := h.profileService.Get(c.Request().Context(), userID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

type updateSettingsBody struct {
	DayEndTime         string `json:"day_end_time" validate:"required"`
	SleepTarget        string `json:"sleep_target" validate:"required"`
	DailyCalorieTarget int    `json:"daily_calorie_target" validate:"min=0"`
	DailyWaterTarget   int    `json:"daily_water_target" validate:"min=0"`
	DailyStepsTarget   int    `json:"daily_steps_target" validate:"min=0"`
	ScreenTimeLimit    int    `json:"screen_time_limit" validate:"min=0"`
}

// UpdateSettings replaces the caller's targets.
func (h *ProfileHandler) UpdateSettings(c echo.Context) error {
	userID, err := userIDFromHeader(c)
	if err != nil {
		return err
	}

	var body updateSettingsBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	profile, err := h.profileService.UpdateSettings(c.Request().Context(), userID, entities.UserSettings{
		DayEndTime:         body.DayEndTime,
		SleepTarget:        body.SleepTarget,
		DailyCalorieTarget: body.DailyCalorieTarget,
		DailyWaterTarget:   body.DailyWaterTarget,
		DailyStepsTarget:   body.DailyStepsTarget,
		ScreenTimeLimit:    body.ScreenTimeLimit,
	}, time.Now())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, profile)
}
