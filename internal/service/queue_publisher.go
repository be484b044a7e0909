// Package service holds the application services that sit between the HTTP
// and scheduler entry points and the importer: the import runner and the
// broker publisher.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/pictures-london/internal/logger"
	"github.com/iliyamo/pictures-london/internal/model"
	q "github.com/iliyamo/pictures-london/internal/queue"
)

// Publisher sends import.completed events to RabbitMQ. A connection is
// opened per message; runs finish a few times a day.
type Publisher struct {
	URL    string
	Logger *slog.Logger
}

// NewPublisher returns nil when url is empty so the importer skips events
// entirely.
func NewPublisher(url string, log *slog.Logger) *Publisher {
	if url == "" {
		return nil
	}
	return &Publisher{URL: url, Logger: log}
}

// PublishImportCompleted publishes run as a persistent message on the
// import.completed queue. Errors are logged and returned; the importer
// treats them as best-effort.
func (p *Publisher) PublishImportCompleted(ctx context.Context, run model.ImportRun) error {
	log := logger.OrDefault(p.Logger).With("component", "rabbitmq", "run_id", run.ID)

	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.Warn("dial failed", "error", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Warn("channel open failed", "error", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		q.ImportCompletedQueue, // name
		true,                   // durable
		false,                  // autoDelete
		false,                  // exclusive
		false,                  // noWait
		nil,                    // args
	); err != nil {
		log.Warn("queue declare failed", "error", err)
		return err
	}

	body, err := json.Marshal(q.NewImportCompletedEvent(run))
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    run.ID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", q.ImportCompletedQueue, false, false, pub); err != nil {
		log.Warn("publish failed", "error", err)
		return err
	}
	return nil
}
