package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hackerbomzzzhack-lab/fast-apiv1/internal/errs"
	"github.com/hackerbomzzzhack-lab/fast-apiv1/internal/worker"
)

// SystemHandler serves the greeting and the simulated CPU task.
type SystemHandler struct {
	Pool  *worker.Pool
	Delay time.Duration
}

// NewSystemHandler panics on a nil pool.
func NewSystemHandler(pool *worker.Pool, delay time.Duration) *SystemHandler {
	if pool == nil {
		panic("nil worker pool passed to NewSystemHandler")
	}
	return &SystemHandler{Pool: pool, Delay: delay}
}

// Root handles GET /.
func (h *SystemHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "Hello from FastAPI on Vercel!"})
}

// CPUTask handles GET /cpu-task. The pause runs on the worker pool, so a
// busy pool delays only other CPU tasks, never unrelated requests.
func (h *SystemHandler) CPUTask(c echo.Context) error {
	err := h.Pool.Do(c.Request().Context(), func() error {
		time.Sleep(h.Delay)
		return nil
	})
	if err != nil {
		if errors.Is(err, c.Request().Context().Err()) {
			return errs.NewServiceUnavailableError("CPU task cancelled", err)
		}
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"result": "CPU task finished"})
}
