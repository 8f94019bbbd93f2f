// Package service provides the publisher of item events. Publishing is a
// side channel: failures are logged and returned so callers may ignore
// them without interrupting the request that triggered the event.
package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/hackerbomzzzhack-lab/fast-apiv1/internal/config"
	"github.com/hackerbomzzzhack-lab/fast-apiv1/internal/queue"
)

// Publisher sends item events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, ev queue.ItemEvent) error
}

// NewPublisher returns an AMQP publisher when events are enabled and a
// no-op publisher otherwise.
func NewPublisher(cfg config.EventsConfig, log zerolog.Logger) Publisher {
	if !cfg.Enabled {
		return NopPublisher{}
	}
	return &AMQPPublisher{url: cfg.URL, queue: cfg.Queue, log: log}
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, queue.ItemEvent) error { return nil }

// AMQPPublisher publishes each event as a persistent JSON message on a
// durable queue through the default exchange.
type AMQPPublisher struct {
	url   string
	queue string
	log   zerolog.Logger
}

// Publish dials the broker, makes sure the queue exists and publishes ev.
// It never panics; any error is logged and returned.
func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.ItemEvent) error {
	log := p.log.With().Str("event", ev.Type).Int64("item_id", ev.ItemID).Logger()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Error().Err(err).Msg("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Error().Err(err).Msg("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		p.queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		log.Error().Err(err).Msg("rabbitmq: queue declare failed")
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Msg("rabbitmq: marshal event failed")
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Type,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		log.Error().Err(err).Msg("rabbitmq: publish failed")
		return err
	}
	return nil
}
