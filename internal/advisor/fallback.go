package advisor

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/devgenius/internal/domain"
)

// Fallback tries the primary advisor and answers heuristically when it fails.
// It never returns an error.
type Fallback struct {
	primary   Advisor
	heuristic *Heuristic
}

// NewFallback wraps primary with the heuristic advisor
func NewFallback(primary Advisor) *Fallback {
	return &Fallback{
		primary:   primary,
		heuristic: NewHeuristic(),
	}
}

// Name identifies the advisor backend
func (f *Fallback) Name() string { return "fallback" }

// Explain falls back to the heuristic explanation on error
func (f *Fallback) Explain(ctx context.Context, code string) (string, error) {
	text, err := f.primary.Explain(ctx, code)
	if err != nil {
		slog.Warn("remote explain failed, using heuristic", "error", err)
		return f.heuristic.Explain(ctx, code)
	}
	return text, nil
}

// Chat falls back to the heuristic reply on error
func (f *Fallback) Chat(ctx context.Context, message string, mode domain.Mode) (string, error) {
	text, err := f.primary.Chat(ctx, message, mode)
	if err != nil {
		slog.Warn("remote chat failed, using heuristic", "error", err, "mode", mode)
		return f.heuristic.Chat(ctx, message, mode)
	}
	return text, nil
}

// Review falls back to the heuristic review on error
func (f *Fallback) Review(ctx context.Context, code string) (*domain.ReviewReport, error) {
	report, err := f.primary.Review(ctx, code)
	if err != nil {
		slog.Warn("remote review failed, using heuristic", "error", err)
		return f.heuristic.Review(ctx, code)
	}
	return report, nil
}
