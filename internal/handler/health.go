package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hackerbomzzzhack-lab/fast-apiv1/internal/errs"
)

// Pinger is satisfied by *sql.DB and anything else that can report
// whether the store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports liveness for load balancers and monitoring.
type HealthHandler struct {
	DB Pinger
}

// Health returns plain "ok" when the store answers a ping within two
// seconds and 503 otherwise.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := h.DB.PingContext(ctx); err != nil {
		return errs.NewServiceUnavailableError("database unavailable", err)
	}
	return c.String(http.StatusOK, "ok")
}
