package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/disciplineos/core/internal/domain/entities"
)

// userIDHeader carries the caller identity. Authentication flows live
// outside this service; the transport trusts the upstream gateway.
const userIDHeader = "X-User-ID"

// MessageResponse is a generic message payload
type MessageResponse struct {
	Message string `json:"message"`
}

func userIDFromHeader(c echo.Context) (uuid.UUID, error) {
	raw := c.Request().Header.Get(userIDHeader)
	if raw == "" {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "missing X-User-ID header")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid X-User-ID header")
	}
	return id, nil
}

func dateParam(c echo.Context, name string) (entities.Date, error) {
	raw := c.Param(name)
	if raw == "" {
		raw = c.QueryParam(name)
	}
	if raw == "" {
		return entities.NewDate(time.Now()), nil
	}
	if _, err := time.Parse("2006-01-02", raw); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	return entities.Date(raw), nil
}

func requiredDateQuery(c echo.Context, name string) (entities.Date, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, name+" query parameter is required")
	}
	if _, err := time.Parse("2006-01-02", raw); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, name+" must be YYYY-MM-DD")
	}
	return entities.Date(raw), nil
}

// domainError maps domain sentinels to HTTP status codes. Anything
// unmatched falls through to a 500 from the global error handler.
func domainError(err error) error {
	switch {
	case errors.Is(err, entities.ErrRecordNotFound),
		errors.Is(err, entities.ErrUserNotFound),
		errors.Is(err, entities.ErrPenaltyNotFound),
		errors.Is(err, entities.ErrRewardNotFound),
		errors.Is(err, entities.ErrCircleNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, entities.ErrRecordFinalized),
		errors.Is(err, entities.ErrOutOfOrderFinalize),
		errors.Is(err, entities.ErrPenaltyNotPending),
		errors.Is(err, entities.ErrPenaltyAlreadyEdited),
		errors.Is(err, entities.ErrRewardNotClaimable),
		errors.Is(err, entities.ErrRewardExpired),
		errors.Is(err, entities.ErrCircleFull),
		errors.Is(err, entities.ErrAlreadyInCircle):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, entities.ErrNotInCircle),
		errors.Is(err, entities.ErrInvalidInviteCode):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return err
	}
}
