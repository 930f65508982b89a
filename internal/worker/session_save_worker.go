package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"medilexica/internal/app"
	"medilexica/internal/model"
	"medilexica/internal/pkg/logx"
)

// SessionSaveWorker replays session saves that failed in the request path.
// The answer was already shown to the user by then, so this is the last
// line of best-effort history durability.
type SessionSaveWorker struct {
	conn      *amqp.Connection
	sessions  *app.SessionService
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewSessionSaveWorker(conn *amqp.Connection, sessions *app.SessionService, queueName string) *SessionSaveWorker {
	return &SessionSaveWorker{
		conn:      conn,
		sessions:  sessions,
		queueName: queueName,
	}
}

func (w *SessionSaveWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				w.handle(d)
			}
		}
	}()

	return nil
}

func (w *SessionSaveWorker) handle(d amqp.Delivery) {
	var snap model.SessionSnapshot
	if err := json.Unmarshal(d.Body, &snap); err != nil {
		logx.Errorw("worker decode snapshot failed", "error", err)
		_ = d.Nack(false, false)
		return
	}

	_, err := w.sessions.Save(snap.UserID, snap.Messages, snap.SessionID)
	switch {
	case err == nil:
		_ = d.Ack(false)
	case errors.Is(err, app.ErrNotAuthenticated),
		errors.Is(err, app.ErrMessagesEmpty),
		errors.Is(err, app.ErrBadMessageRole):
		// Poison payload: replaying it can never succeed.
		logx.Warnw("worker dropping unsavable snapshot", "error", err, "user_id", snap.UserID)
		_ = d.Ack(false)
	default:
		logx.Errorw("worker replay save failed", "error", err, "user_id", snap.UserID, "session_id", snap.SessionID)
		_ = d.Nack(false, false)
	}
}

func (w *SessionSaveWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
