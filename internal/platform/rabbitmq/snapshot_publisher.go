package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"medilexica/internal/model"
)

// SnapshotPublisher enqueues session snapshots for the save-retry worker.
type SnapshotPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewSnapshotPublisher(conn *amqp.Connection, queueName string) *SnapshotPublisher {
	return &SnapshotPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *SnapshotPublisher) Publish(ctx context.Context, snap model.SessionSnapshot) error {
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

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot payload failed: %w", err)
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
		return fmt.Errorf("publish snapshot failed: %w", err)
	}
	return nil
}
