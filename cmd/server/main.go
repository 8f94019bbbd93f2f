package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/hackerbomzzzhack-lab/fast-apiv1/internal/config"
	"github.com/hackerbomzzzhack-lab/fast-apiv1/internal/logger"
	"github.com/hackerbomzzzhack-lab/fast-apiv1/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	l := logger.New(cfg.Primary.Env, cfg.Primary.LogLevel)

	srv, err := server.New(cfg, l)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to initialize server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	select {
	case err := <-errc:
		if err != nil {
			l.Fatal().Err(err).Msg("server stopped")
		}
		return
	case <-ctx.Done():
	}

	l.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Fatal().Err(err).Msg("server forced to shutdown")
	}
	l.Info().Msg("server exited properly")
}
