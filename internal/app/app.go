// Package app assembles the services behind the daemon, the MCP server and
// the CLI from a LocalConfig.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/felixgeelhaar/devgenius/internal/advisor"
	"github.com/felixgeelhaar/devgenius/internal/challenge"
	"github.com/felixgeelhaar/devgenius/internal/config"
	"github.com/felixgeelhaar/devgenius/internal/events"
	"github.com/felixgeelhaar/devgenius/internal/llm"
	"github.com/felixgeelhaar/devgenius/internal/preference"
	"github.com/felixgeelhaar/devgenius/internal/storage"
	"github.com/felixgeelhaar/devgenius/internal/tutor"
)

// App holds the wired services
type App struct {
	Config     *config.LocalConfig
	DataDir    string
	LLM        *llm.Registry
	Advisor    advisor.Advisor
	Tutor      *tutor.Service
	Challenges *challenge.Registry

	closers []io.Closer
}

// Options configures Open. Zero values select the configured backends.
type Options struct {
	Config  *config.LocalConfig
	DataDir string // default: ~/.devgenius

	// Preferences overrides the configured preference store
	Preferences preference.Store

	// Recorder overrides the configured event publisher
	Recorder events.Recorder
}

// Open builds every service named by the config
func Open(ctx context.Context, opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultLocalConfig()
	}

	dataDir := opts.DataDir
	if dataDir == "" {
		dir, err := config.EnsureDevGeniusDir()
		if err != nil {
			return nil, err
		}
		dataDir = dir
	}

	a := &App{Config: cfg, DataDir: dataDir, LLM: llm.NewRegistry()}

	closers, err := SetupProviders(ctx, cfg.LLM, a.LLM)
	a.closers = append(a.closers, closers...)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("setup llm providers: %w", err)
	}

	a.Advisor, err = advisor.New(advisor.Options{
		Backend:  cfg.Advisor.Backend,
		Provider: cfg.LLM.DefaultProvider,
		Registry: a.LLM,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	store := opts.Preferences
	if store == nil {
		store, err = storage.OpenPreferences(ctx, cfg.Preferences, dataDir)
		if err != nil {
			a.Close()
			return nil, err
		}
	}
	a.closers = append(a.closers, store)

	recorder := opts.Recorder
	if recorder == nil {
		recorder = a.openRecorder(cfg.Events)
	}

	a.Challenges, err = challenge.NewDefaultRegistry(cfg.ChallengesPath(dataDir))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("load challenges: %w", err)
	}

	prefs := preference.NewService(store, cfg.DefaultMode())
	a.Tutor = tutor.NewService(a.Advisor, prefs, recorder)

	slog.Debug("services ready",
		"advisor", a.Advisor.Name(),
		"providers", a.LLM.List(),
		"preferences", cfg.Preferences.Backend,
		"events", cfg.Events.Enabled,
	)
	return a, nil
}

// openRecorder connects to RabbitMQ when events are enabled. A broker that
// cannot be reached disables events rather than failing startup.
func (a *App) openRecorder(cfg config.EventsConfig) events.Recorder {
	if !cfg.Enabled {
		return events.Nop{}
	}

	conn, err := events.NewConnection(cfg.AMQPURL)
	if err != nil {
		slog.Warn("advice events disabled", "error", err)
		return events.Nop{}
	}

	publisher := events.NewPublisher(conn)
	a.closers = append(a.closers, publisher)
	return publisher
}

// WatchChallenges reloads user packs on change until ctx is done.
// It returns immediately when watching is disabled.
func (a *App) WatchChallenges(ctx context.Context) {
	if !a.Config.Challenges.Watch {
		return
	}

	w := challenge.NewWatcher(a.Challenges, a.Config.ChallengesPath(a.DataDir))
	go func() {
		if err := w.Run(ctx); err != nil {
			slog.Warn("challenge watcher stopped", "error", err)
		}
	}()
}

// Close releases stores, connections and provider resources
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
