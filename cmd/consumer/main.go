// Command consumer reads item events from RabbitMQ and appends them to
// the items log until interrupted.
package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/hackerbomzzzhack-lab/fast-apiv1/internal/config"
	"github.com/hackerbomzzzhack-lab/fast-apiv1/internal/logger"
	"github.com/hackerbomzzzhack-lab/fast-apiv1/internal/queue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	l := logger.New(cfg.Primary.Env, cfg.Primary.LogLevel).With().Str("component", "item-consumer").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	l.Info().Str("queue", cfg.Events.Queue).Str("log_dir", cfg.Events.LogDir).Msg("consuming item events")
	if err := queue.StartItemConsumer(ctx, cfg.Events, l); err != nil && !errors.Is(err, context.Canceled) {
		l.Fatal().Err(err).Msg("consumer stopped")
	}
	l.Info().Msg("consumer exited")
}
