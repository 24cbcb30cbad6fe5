package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Recorder receives advice events. Implementations must not block callers
// on delivery failures.
type Recorder interface {
	Record(ctx context.Context, event *AdviceEvent)
}

// Nop discards events
type Nop struct{}

func (Nop) Record(context.Context, *AdviceEvent) {}

// Publisher sends events to the advice queue
type Publisher struct {
	conn *Connection
}

var (
	_ Recorder = Nop{}
	_ Recorder = (*Publisher)(nil)
)

// NewPublisher creates a publisher on an open connection
func NewPublisher(conn *Connection) *Publisher {
	return &Publisher{conn: conn}
}

// Publish sends event to the advice queue
func (p *Publisher) Publish(ctx context.Context, event *AdviceEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	if err := p.conn.PublishJSON(ctx, AdviceQueueName, event); err != nil {
		return fmt.Errorf("publish advice event: %w", err)
	}

	slog.Debug("published advice event", "id", event.ID, "kind", event.Kind, "source", event.Source)
	return nil
}

// Record publishes and logs failures instead of returning them
func (p *Publisher) Record(ctx context.Context, event *AdviceEvent) {
	if err := p.Publish(ctx, event); err != nil {
		slog.Warn("dropping advice event", "id", event.ID, "kind", event.Kind, "error", err)
	}
}

// Close closes the underlying connection
func (p *Publisher) Close() error {
	return p.conn.Close()
}
