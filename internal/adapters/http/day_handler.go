package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/disciplineos/core/internal/application/services"
	"github.com/disciplineos/core/internal/infrastructure/logger"
	"github.com/disciplineos/core/internal/ports"
)

// DayHandler handles daily record requests
type DayHandler struct {
	dayService *services.DayService
	logger     *logger.Logger
}

// NewDayHandler creates a new day handler
func NewDayHandler(dayService *services.DayService, logger *logger.Logger) *DayHandler {
	return &DayHandler{
		dayService: dayService,
		logger:     logger,
	}
}

// GetDay returns the record for a date, creating it on first access.
func (h *DayHandler) GetDay(c echo.Context) error {
	userID, err := userIDFromHeader(c)
	if err != nil {
		return err
	}
	date, err := dateParam(c, "date")
	if err != nil {
		return err
	}

	record, err := h.dayService.GetDay(c.Request().Context(), userID, date, time.Now())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, record)
}

type setTaskCompletionBody struct {
	Completed bool     `json:"completed"`
	Value     *float64 `json:"value,omitempty"`
	Notes     string   `json:"notes,omitempty" validate:"max=500"`
}

// SetTaskCompletion toggles one task for the day. Rejected values return
// 422 with the validation reason.
func (h *DayHandler) SetTaskCompletion(c echo.Context) error {
	userID, err := userIDFromHeader(c)
	if err != nil {
		return err
	}
	date, err := dateParam(c, "date")
	if err != nil {
		return err
	}

	var body setTaskCompletionBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	record, result, err := h.dayService.SetTaskCompletion(c.Request().Context(), ports.SetTaskCompletionRequest{
		UserID:    userID,
		Date:      date,
		TaskID:    c.Param("taskID"),
		Completed: body.Completed,
		Value:     body.Value,
		Notes:     body.Notes,
		Now:       time.Now(),
	})
	if err != nil {
		return domainError(err)
	}
	if !result.Valid {
		return c.JSON(http.StatusUnprocessableEntity, result)
	}
	return c.JSON(http.StatusOK, record)
}

// EndDay finalizes the date and returns the verdict. Re-running it returns
// the stored verdict unchanged.
func (h *DayHandler) EndDay(c echo.Context) error {
	userID, err := userIDFromHeader(c)
	if err != nil {
		return err
	}
	date, err := dateParam(c, "date")
	if err != nil {
		return err
	}

	verdict, err := h.dayService.FinalizeDay(c.Request().Context(), userID, date, time.Now())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, verdict)
}

// GetRange lists records between start and end dates.
func (h *DayHandler) GetRange(c echo.Context) error {
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

	records, err := h.dayService.GetRange(c.Request().Context(), userID, start, end)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, records)
}
