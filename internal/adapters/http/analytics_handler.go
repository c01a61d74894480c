package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/disciplineos/core/internal/application/services"
	"github.com/disciplineos/core/internal/infrastructure/logger"
)

// AnalyticsHandler handles reporting requests
type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
	logger           *logger.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *services.AnalyticsService, logger *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

// Weekly builds the rollup for the week starting at week_start.
func (h *AnalyticsHandler) Weekly(c echo.Context) error {
	userID, err := userIDFromHeader(c)
	if err != nil {
		return err
	}
	weekStart, err := requiredDateQuery(c, "week_start")
	if err != nil {
		return err
	}

	report, err := h.analyticsService.WeeklyReport(c.Request().Context(), userID, weekStart)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, report)
}

// Monthly builds the rollup for a calendar month.
func (h *AnalyticsHandler) Monthly(c echo.Context) error {
	userID, err := userIDFromHeader(c)
	if err != nil {
		return err
	}
	year, err := strconv.Atoi(c.QueryParam("year"))
	if err != nil || year < 2000 || year > 2200 {
		return echo.NewHTTPError(http.StatusBadRequest, "year query parameter is required")
	}
	month, err := strconv.Atoi(c.QueryParam("month"))
	if err != nil || month < 1 || month > 12 {
		return echo.NewHTTPError(http.StatusBadRequest, "month must be between 1 and 12")
	}

	report, err := h.analyticsService.MonthlyReport(c.Request().Context(), userID, year, time.Month(month))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, report)
}

// Heatmap maps every date in the window to a score and status.
func (h *AnalyticsHandler) Heatmap(c echo.Context) error {
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

	points, err := h.analyticsService.Heatmap(c.Request().Context(), userID, start, end)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, points)
}

// Comparison builds the couples side-by-side stats over a window.
func (h *AnalyticsHandler) Comparison(c echo.Context) error {
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

	comparison, err := h.analyticsService.CompareWithPartner(c.Request().Context(), userID, start, end)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, comparison)
}
