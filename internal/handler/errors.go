package handler

import (
	"errors"
	"net/http"

	"github.com/Eursukkul/eventhub/internal/media"
	"github.com/Eursukkul/eventhub/internal/service"
	"github.com/labstack/echo/v4"
)

// httpError maps service errors onto HTTP status codes. Unknown errors are
// passed through for the error handler to log and report as 500.
func httpError(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidEvent),
		errors.Is(err, media.ErrUnsupportedType):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUnauthenticated):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDuplicateEmail),
		errors.Is(err, service.ErrAlreadyBooked),
		errors.Is(err, service.ErrHasDependentBookings):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return err
	}
}
