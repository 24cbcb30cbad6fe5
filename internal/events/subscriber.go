package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler processes one advice event. Returning an error drops the message.
type Handler func(ctx context.Context, event *AdviceEvent) error

// Subscriber consumes the advice queue
type Subscriber struct {
	conn    *Connection
	handler Handler
}

// NewSubscriber creates a subscriber that calls handler for each event
func NewSubscriber(conn *Connection, handler Handler) *Subscriber {
	return &Subscriber{conn: conn, handler: handler}
}

// Run consumes until ctx is cancelled or the delivery channel closes
func (s *Subscriber) Run(ctx context.Context) error {
	ch := s.conn.Channel()

	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set QoS: %w", err)
	}

	msgs, err := ch.Consume(
		AdviceQueueName,
		"",    // consumer tag (auto-generated)
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			s.process(ctx, msg)
		}
	}
}

func (s *Subscriber) process(ctx context.Context, msg amqp.Delivery) {
	var event AdviceEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		slog.Error("malformed advice event", "error", err)
		_ = msg.Reject(false)
		return
	}

	if err := s.handler(ctx, &event); err != nil {
		slog.Warn("advice event handler failed", "id", event.ID, "error", err)
		_ = msg.Nack(false, false)
		return
	}
	_ = msg.Ack(false)
}
