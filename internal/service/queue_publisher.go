// Package service contains the RabbitMQ publisher for upload processing
// jobs. Errors are logged and returned so callers can fall back to inline
// completion without interrupting the request flow.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	q "github.com/obsicat/obsicat-api/internal/queue"
)

// Publisher publishes domain events to RabbitMQ. A nil *Publisher is safe
// and reports every publish as failed, letting callers degrade.
type Publisher struct {
	logger *zap.Logger
}

func NewPublisher(logger *zap.Logger) *Publisher {
	return &Publisher{logger: logger}
}

// PublishUploadReceived publishes an UploadReceivedEvent to the durable
// upload.received queue with persistent delivery. The connection is opened
// per publish; at this traffic level simplicity wins over channel pooling.
func (p *Publisher) PublishUploadReceived(ctx context.Context, event q.UploadReceivedEvent) error {
	if p == nil {
		return errors.New("publisher disabled")
	}
	conn, err := amqp.Dial(q.BrokerURL())
	if err != nil {
		p.logger.Warn("rabbitmq: dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.Warn("rabbitmq: channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(q.UploadQueueName, true, false, false, false, nil); err != nil {
		p.logger.Warn("rabbitmq: queue declare failed", zap.Error(err))
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", q.UploadQueueName, false, false, pub); err != nil {
		p.logger.Warn("rabbitmq: publish failed", zap.Error(err))
		return err
	}
	return nil
}
