// Package server composes the application's dependencies and owns their
// lifecycle: configuration, logger, database, Redis client, worker pool,
// event publisher and the HTTP server itself.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hackerbomzzzhack-lab/fast-apiv1/internal/config"
	"github.com/hackerbomzzzhack-lab/fast-apiv1/internal/database"
	"github.com/hackerbomzzzhack-lab/fast-apiv1/internal/handler"
	"github.com/hackerbomzzzhack-lab/fast-apiv1/internal/middleware"
	"github.com/hackerbomzzzhack-lab/fast-apiv1/internal/repository"
	"github.com/hackerbomzzzhack-lab/fast-apiv1/internal/router"
	"github.com/hackerbomzzzhack-lab/fast-apiv1/internal/service"
	"github.com/hackerbomzzzhack-lab/fast-apiv1/internal/worker"
)

// Server is the application container. It is not the HTTP server itself;
// it holds the shared resources and the *http.Server that serves Echo.
type Server struct {
	Config *config.Config
	Logger zerolog.Logger

	DB     *database.DB
	Redis  *redis.Client // nil when Redis is not configured or unreachable
	Pool   *worker.Pool
	Events service.Publisher

	Echo       *echo.Echo
	httpServer *http.Server
	items      *handler.ItemHandler
}

// New opens the store, creates the schema and wires every route.
//
// Redis is optional: without it the cache and rate limiter pass requests
// straight through. A store that cannot be opened aborts startup.
func New(cfg *config.Config, log zerolog.Logger) (*Server, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil && cfg.Redis.Addr != "" {
		log.Error().Str("addr", cfg.Redis.Addr).Msg("failed to connect to Redis, continuing without Redis")
	}

	s := &Server{
		Config: cfg,
		Logger: log,
		DB:     db,
		Redis:  rdb,
		Pool:   worker.NewPool(cfg.Tasks.Workers),
		Events: service.NewPublisher(cfg.Events, log),
	}
	s.Echo = s.newEcho()
	return s, nil
}

func (s *Server) newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.ErrorHandler(s.Logger)

	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(s.Logger))
	e.Use(middleware.NewTokenBucket(s.Config.RateLimit, s.Redis, s.Logger))

	sys := handler.NewSystemHandler(s.Pool, s.Config.Tasks.Delay)
	router.RegisterRoutes(e, sys, &handler.HealthHandler{DB: s.DB})

	s.items = handler.NewItemHandler(repository.NewItemRepo(s.DB), s.Events, s.Logger)
	router.RegisterItems(e, s.items, middleware.NewRedisCache(s.Config.Cache, s.Redis, s.Logger))
	return e
}

// Start listens on the configured port and blocks until the server stops.
// A clean Shutdown makes Start return nil.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      s.Echo,
		ReadTimeout:  s.Config.Server.ReadTimeout,
		WriteTimeout: s.Config.Server.WriteTimeout,
		IdleTimeout:  s.Config.Server.IdleTimeout,
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Str("driver", s.Config.Database.Driver).
		Msg("starting server")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones, pending
// item events and the worker pool, then releases Redis and the database.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}
	if err := s.items.WaitEvents(ctx); err != nil {
		s.Logger.Warn().Err(err).Msg("item events still in flight were dropped")
	}
	if err := s.Pool.Shutdown(ctx); err != nil {
		s.Logger.Warn().Err(err).Msg("worker pool did not drain")
	}
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			s.Logger.Warn().Err(err).Msg("failed to close redis client")
		}
	}
	if err := s.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}
