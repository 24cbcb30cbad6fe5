package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/felixgeelhaar/devgenius/internal/config"
	"github.com/felixgeelhaar/devgenius/internal/events"
)

// cmdEvents inspects the advice event queue
func cmdEvents(args []string) error {
	if len(args) < 1 || args[0] != "tail" {
		fmt.Println(`Event commands:

  devgenius events tail    Print advice events as they arrive (requires events.enabled)`)
		return nil
	}

	cfg, err := config.LoadLocalConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !cfg.Events.Enabled {
		return fmt.Errorf("events are disabled (set events.enabled in config.yaml)")
	}

	conn, err := events.NewConnection(cfg.Events.AMQPURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Fprintf(os.Stderr, "Listening on %s (Ctrl+C to stop)\n", events.AdviceQueueName)
	sub := events.NewSubscriber(conn, func(_ context.Context, e *events.AdviceEvent) error {
		printEvent(os.Stdout, e)
		return nil
	})

	if err := sub.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printEvent(w io.Writer, e *events.AdviceEvent) {
	line := fmt.Sprintf("%s  %-7s source=%s chars=%d took=%s",
		e.CreatedAt.Local().Format(time.TimeOnly), e.Kind, e.Source, e.InputChars, e.Duration.Round(time.Millisecond))
	if e.Mode != "" {
		line += " mode=" + string(e.Mode)
	}
	if e.Topic != "" {
		line += " topic=" + string(e.Topic)
	}
	if e.Score != nil {
		line += fmt.Sprintf(" score=%d", *e.Score)
	}
	fmt.Fprintln(w, line)
}
