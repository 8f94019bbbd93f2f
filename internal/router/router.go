// Package router registers the HTTP routes of the items service.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/hackerbomzzzhack-lab/fast-apiv1/internal/handler"
)

// RegisterRoutes registers the greeting, the simulated CPU task and the
// health check.
func RegisterRoutes(e *echo.Echo, sys *handler.SystemHandler, health *handler.HealthHandler) {
	e.GET("/", sys.Root)
	e.GET("/cpu-task", sys.CPUTask)
	e.GET("/healthz", health.Health)
}

// RegisterItems registers the CRUD endpoints under /items. The given
// middleware (usually the response cache) wraps each item route. It is
// attached per route rather than to the group so that unknown paths under
// /items still produce plain 404 and 405 responses.
func RegisterItems(e *echo.Echo, h *handler.ItemHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/items")
	g.POST("", h.Create, mw...)
	g.GET("", h.List, mw...)
	g.GET("/:id", h.Get, mw...)
	g.PUT("/:id", h.Update, mw...)
	g.DELETE("/:id", h.Delete, mw...)
}
