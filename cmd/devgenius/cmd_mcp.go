package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/devgenius/internal/app"
	"github.com/felixgeelhaar/devgenius/internal/config"
	mcpserver "github.com/felixgeelhaar/devgenius/internal/mcp"
)

// cmdMCP starts the MCP server for editor integration
func cmdMCP(args []string) error {
	var httpAddr string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--http":
			if i+1 >= len(args) {
				return fmt.Errorf("--http needs an address (e.g., 127.0.0.1:7434)")
			}
			httpAddr = args[i+1]
			i++
		default:
			return fmt.Errorf("unknown flag: %s", args[i])
		}
	}

	cfg, err := config.LoadLocalConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	a, err := app.Open(ctx, app.Options{Config: cfg})
	if err != nil {
		return err
	}
	defer a.Close()
	a.WatchChallenges(ctx)

	mcpSrv := mcpserver.NewServer(mcpserver.Config{
		Tutor:      a.Tutor,
		Challenges: a.Challenges,
		Version:    Version,
	})

	if httpAddr != "" {
		return mcpSrv.ServeHTTP(ctx, httpAddr)
	}
	return mcpSrv.ServeStdio(ctx)
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}
