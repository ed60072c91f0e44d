package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/parapharma/shop/internal/events"
	"github.com/parapharma/shop/internal/service"
)

// respondError maps the service sentinels to HTTP statuses and logs with the
// same status-tagged records the rest of the handlers use.
func respondError(c echo.Context, l *slog.Logger, op string, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn(op, "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		l.Warn(op, "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrNotFound):
		l.Warn(op, "status", 404, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		l.Warn(op, "status", 409, "error", err)
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUpstream):
		l.Error(op, "status", 502, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	default:
		l.Error(op, "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

// publishEvent emits a domain event without blocking the response path; a
// broker outage is logged and otherwise ignored.
func publishEvent(l *slog.Logger, p *events.Producer, topic, key string, event any) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.Publish(ctx, topic, key, event); err != nil {
		l.Warn("event_publish_failed", "topic", topic, "key", key, "error", err)
	}
}
