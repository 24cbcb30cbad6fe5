// Package advisor answers explain, chat and review requests, either from a
// fixed table of keyword rules or through an LLM provider.
package advisor

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/devgenius/internal/domain"
)

var (
	ErrNoProvider     = errors.New("no LLM provider configured; set an API key with 'devgenius provider set-key'")
	ErrRemote         = errors.New("remote advisor failed")
	ErrUnknownBackend = errors.New("unknown advisor backend")
)

// Backend names accepted by New
const (
	BackendHeuristic = "heuristic"
	BackendRemote    = "remote"
	BackendFallback  = "fallback"
)

// Advisor is the capability shared by every backend
type Advisor interface {
	// Name identifies the backend
	Name() string

	// Explain describes what a code snippet does
	Explain(ctx context.Context, code string) (string, error)

	// Chat replies to a message in the tone of mode
	Chat(ctx context.Context, message string, mode domain.Mode) (string, error)

	// Review scores code and lists suggestions
	Review(ctx context.Context, code string) (*domain.ReviewReport, error)
}

var (
	_ Advisor = (*Heuristic)(nil)
	_ Advisor = (*Remote)(nil)
	_ Advisor = (*Fallback)(nil)
)

// Options selects and configures a backend
type Options struct {
	Backend  string
	Provider string
	Registry Resolver
}

// New builds the advisor named by opts.Backend. An empty backend means
// heuristic.
func New(opts Options) (Advisor, error) {
	switch opts.Backend {
	case "", BackendHeuristic:
		return NewHeuristic(), nil
	case BackendRemote:
		return NewRemote(opts.Registry, opts.Provider), nil
	case BackendFallback:
		return NewFallback(NewRemote(opts.Registry, opts.Provider)), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, opts.Backend)
	}
}
