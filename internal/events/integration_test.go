//go:build integration

package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/devgenius/internal/events"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
)

func setupRabbitMQ(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := rabbitmq.Run(ctx, "rabbitmq:3.12-management")
	if err != nil {
		t.Fatalf("start RabbitMQ container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	amqpURL, err := container.AmqpURL(ctx)
	if err != nil {
		t.Fatalf("get AMQP URL: %v", err)
	}
	return amqpURL
}

func TestIntegration_Connection_InvalidURL(t *testing.T) {
	if _, err := events.NewConnection("amqp://invalid:5672"); err == nil {
		t.Error("expected error for unreachable broker")
	}
}

func TestIntegration_PublishAndSubscribe(t *testing.T) {
	amqpURL := setupRabbitMQ(t)

	conn, err := events.NewConnection(amqpURL)
	if err != nil {
		t.Fatalf("NewConnection() error = %v", err)
	}
	defer conn.Close()

	if !conn.IsConnected() {
		t.Fatal("expected an open connection")
	}

	publisher := events.NewPublisher(conn)
	sent := events.NewAdviceEvent(events.KindReview, "var x = 1", "heuristic").WithScore(8)
	if err := publisher.Publish(context.Background(), sent); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	received := make(chan *events.AdviceEvent, 1)
	sub := events.NewSubscriber(conn, func(_ context.Context, e *events.AdviceEvent) error {
		received <- e
		return nil
	})
	go sub.Run(ctx)

	select {
	case got := <-received:
		if got.ID != sent.ID {
			t.Errorf("ID = %s; want %s", got.ID, sent.ID)
		}
		if got.Kind != events.KindReview || got.Score == nil || *got.Score != 8 {
			t.Errorf("event = %+v", got)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for advice event")
	}
}
