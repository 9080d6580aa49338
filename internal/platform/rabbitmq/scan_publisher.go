package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"agriguard/internal/model"
)

// ScanPublisher enqueues completed scans for asynchronous persistence.
// The /analyze response does not wait for the database write.
type ScanPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewScanPublisher(conn *amqp.Connection, queueName string) *ScanPublisher {
	return &ScanPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *ScanPublisher) Publish(ctx context.Context, scan model.Scan) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		p.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue failed: %w", err)
	}

	payload, err := json.Marshal(scan)
	if err != nil {
		return fmt.Errorf("marshal scan payload failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish scan failed: %w", err)
	}
	return nil
}
