package http

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
)

// Check reports whether a backing store is reachable.
type Check func(ctx context.Context) error

type Handler struct{ checks map[string]Check }

// NewHandler takes the optional dependencies to probe, by name. The quote
// engine works without any of them, so a failing check degrades the status
// rather than failing the probe.
func NewHandler(checks map[string]Check) *Handler { return &Handler{checks: checks} }

func (h *Handler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), time.Second)
	defer cancel()

	status := "ok"
	results := make(map[string]string, len(h.checks))
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			results[name] = "down"
			status = "degraded"
			continue
		}
		results[name] = "ok"
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
		"checks": results,
	})
}
