package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/taskhub/internal/logging"
	authmw "github.com/Skotchmaster/taskhub/internal/middleware/auth"
	"github.com/Skotchmaster/taskhub/internal/service"
	"github.com/Skotchmaster/taskhub/internal/tokens"
)

// httpError turns a service error into the response the client sees.
// Anything unclassified is logged and reported as a bare 500.
func httpError(l *slog.Logger, err error) error {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return echo.NewHTTPError(http.StatusBadRequest, echo.Map{
			"message": "validation failed",
			"details": ve.Fields,
		})
	}

	switch {
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	l.Error("internal_error", "status", http.StatusInternalServerError, "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}

func logger(c echo.Context, handler string) *slog.Logger {
	return logging.FromContext(c.Request().Context()).With("handler", handler)
}

func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return nil
}

func identity(c echo.Context) (tokens.Identity, error) {
	id, err := authmw.IdentityFrom(c)
	if err != nil {
		return tokens.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, authmw.ErrMissingToken.Message)
	}
	return id, nil
}

func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, echo.Map{
			"message": "validation failed",
			"details": map[string]string{name: "must be a valid id"},
		})
	}
	return id, nil
}

// queryID parses an optional id from the query string.
func queryID(c echo.Context, name string) (*uuid.UUID, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, echo.Map{
			"message": "validation failed",
			"details": map[string]string{name: "must be a valid id"},
		})
	}
	return &id, nil
}
