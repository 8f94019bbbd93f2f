package queue

// This file contains the background consumer that listens to the item
// events queue and appends one line per event to <log_dir>/items.log.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/hackerbomzzzhack-lab/fast-apiv1/internal/config"
)

// LogFileName is the file the consumer appends to inside the log dir.
const LogFileName = "items.log"

// StartItemConsumer connects to RabbitMQ, declares the durable events
// queue and consumes it until ctx is cancelled. Broker failures trigger a
// reconnect with exponential backoff capped at 30s. Messages that cannot
// be handled are rejected without requeue so a poison message cannot
// loop forever.
func StartItemConsumer(ctx context.Context, cfg config.EventsConfig, log zerolog.Logger) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(cfg.URL)
		if err != nil {
			log.Warn().Err(err).Dur("retry_in", backoff).Msg("item-consumer: failed to dial broker")
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, cfg, log)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn().Err(err).Msg("item-consumer: consume loop ended, reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, cfg config.EventsConfig, log zerolog.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn().Err(err).Msg("item-consumer: set QoS failed")
	}

	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.ConsumeWithContext(ctx, cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	log.Info().Str("queue", cfg.Queue).Msg("item-consumer: consuming")
	for d := range msgs {
		if err := HandleMessage(d.Body, cfg.LogDir); err != nil {
			log.Error().Err(err).Msg("item-consumer: handle message failed")
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

// HandleMessage decodes one ItemEvent and appends it to the log file in dir.
func HandleMessage(body []byte, dir string) error {
	var ev ItemEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Type == "" || ev.ItemID == 0 {
		return fmt.Errorf("incomplete event: %q", body)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, LogFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatEvent(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatEvent renders ev as a single log line, newline included.
func FormatEvent(ev ItemEvent) string {
	if ev.Type == ItemDeleted {
		return fmt.Sprintf("[%s] %s | item_id=%d\n", ev.OccurredAt, ev.Type, ev.ItemID)
	}
	return fmt.Sprintf("[%s] %s | item_id=%d | name=%q | description=%q\n",
		ev.OccurredAt, ev.Type, ev.ItemID, ev.Name, ev.Description)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
