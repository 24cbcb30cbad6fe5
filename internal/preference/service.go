package preference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/devgenius/internal/domain"
)

// Service reads and writes the advisor mode
type Service struct {
	store       Store
	defaultMode domain.Mode
}

// NewService creates a mode service; defaultMode is returned until a mode is stored
func NewService(store Store, defaultMode domain.Mode) *Service {
	if !defaultMode.Valid() {
		defaultMode = domain.DefaultMode
	}
	return &Service{store: store, defaultMode: defaultMode}
}

// Mode returns the stored mode. A missing or unreadable value yields the default.
func (s *Service) Mode(ctx context.Context) (domain.Mode, error) {
	raw, err := s.store.Get(ctx, KeyMode)
	if errors.Is(err, ErrNotFound) {
		return s.defaultMode, nil
	}
	if err != nil {
		return "", fmt.Errorf("get mode: %w", err)
	}

	mode, err := domain.ParseMode(raw)
	if err != nil {
		slog.Warn("ignoring stored mode", "value", raw, "error", err)
		return s.defaultMode, nil
	}
	return mode, nil
}

// SetMode stores mode
func (s *Service) SetMode(ctx context.Context, mode domain.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidMode, mode)
	}
	if err := s.store.Set(ctx, KeyMode, mode.String()); err != nil {
		return fmt.Errorf("set mode: %w", err)
	}
	return nil
}

// ToggleMode flips the stored mode and returns the new value
func (s *Service) ToggleMode(ctx context.Context) (domain.Mode, error) {
	current, err := s.Mode(ctx)
	if err != nil {
		return "", err
	}

	next := current.Toggle()
	if err := s.SetMode(ctx, next); err != nil {
		return "", err
	}
	slog.Info("mode toggled", "from", current, "to", next)
	return next, nil
}
