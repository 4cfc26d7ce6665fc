package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/restaurant/internal/search"
	"github.com/Skotchmaster/restaurant/internal/service"
	"github.com/Skotchmaster/restaurant/internal/transport"
)

const internalError = "internal error"

// statusFor maps service sentinels onto HTTP codes. Anything unknown is a
// storage failure and is not echoed back to the client.
func statusFor(err error) (int, string) {
	for _, m := range []struct {
		sentinel error
		code     int
	}{
		{service.ErrValidation, http.StatusBadRequest},
		{service.ErrNotFound, http.StatusNotFound},
		{service.ErrConflict, http.StatusConflict},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrInvalidRefreshToken, http.StatusUnauthorized},
		{search.ErrDisabled, http.StatusServiceUnavailable},
	} {
		if errors.Is(err, m.sentinel) {
			return m.code, strings.TrimSuffix(err.Error(), ": "+m.sentinel.Error())
		}
	}
	return http.StatusInternalServerError, internalError
}

// fail logs err under event and writes the JSON error body.
func fail(c echo.Context, l *slog.Logger, event string, err error) error {
	code, msg := statusFor(err)
	if code >= http.StatusInternalServerError {
		l.Error(event, "status", code, "error", err)
	} else {
		l.Warn(event, "status", code, "error", err)
	}
	return c.JSON(code, transport.ErrorResponse{Error: msg})
}

func badRequest(c echo.Context, l *slog.Logger, event, msg string, err error) error {
	l.Warn(event, "status", http.StatusBadRequest, "error", err)
	return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: msg})
}

// ErrorHandler renders every echo error as {"error": "..."}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := internalError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if s, ok := he.Message.(string); ok {
			msg = s
		} else {
			msg = http.StatusText(code)
		}
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, transport.ErrorResponse{Error: msg})
}
