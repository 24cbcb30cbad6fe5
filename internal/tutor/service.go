// Package tutor is the request-level entry point shared by the daemon, the
// MCP server and the CLI. It validates input, resolves the mode preference,
// calls the configured advisor and records an advice event per answer.
package tutor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/devgenius/internal/advisor"
	"github.com/felixgeelhaar/devgenius/internal/domain"
	"github.com/felixgeelhaar/devgenius/internal/events"
	"github.com/felixgeelhaar/devgenius/internal/preference"
)

// Service handles explain, chat and review requests
type Service struct {
	advisor  advisor.Advisor
	prefs    *preference.Service
	recorder events.Recorder
}

// NewService creates a tutor service. A nil recorder discards events.
func NewService(adv advisor.Advisor, prefs *preference.Service, recorder events.Recorder) *Service {
	if recorder == nil {
		recorder = events.Nop{}
	}
	return &Service{advisor: adv, prefs: prefs, recorder: recorder}
}

// Explanation is the result of Explain
type Explanation struct {
	Explanation string       `json:"explanation"`
	Topic       domain.Topic `json:"topic"`
	Source      string       `json:"source"`
}

// ChatResult is the result of Chat
type ChatResult struct {
	Reply  string       `json:"reply"`
	Mode   domain.Mode  `json:"mode"`
	Topic  domain.Topic `json:"topic"`
	Source string       `json:"source"`
}

// Backend names the advisor in use
func (s *Service) Backend() string {
	return s.advisor.Name()
}

func requireText(field, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, field)
	}
	return nil
}

// Explain describes code. Empty code gets the generic explanation.
func (s *Service) Explain(ctx context.Context, code string) (*Explanation, error) {
	start := time.Now()
	text, err := s.advisor.Explain(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("explain: %w", err)
	}

	result := &Explanation{
		Explanation: text,
		Topic:       advisor.ExplainTopic(code),
		Source:      s.advisor.Name(),
	}

	event := events.NewAdviceEvent(events.KindExplain, code, result.Source)
	event.Topic = result.Topic
	event.Duration = time.Since(start)
	s.recorder.Record(ctx, event)

	return result, nil
}

// Chat replies to message. An empty mode means the stored preference.
func (s *Service) Chat(ctx context.Context, message string, mode domain.Mode) (*ChatResult, error) {
	if err := requireText("message", message); err != nil {
		return nil, err
	}

	mode, err := s.resolveMode(ctx, mode)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	reply, err := s.advisor.Chat(ctx, message, mode)
	if err != nil {
		return nil, fmt.Errorf("chat: %w", err)
	}

	result := &ChatResult{
		Reply:  reply,
		Mode:   mode,
		Topic:  advisor.ChatTopic(message),
		Source: s.advisor.Name(),
	}

	event := events.NewAdviceEvent(events.KindChat, message, result.Source)
	event.Mode = mode
	event.Topic = result.Topic
	event.Duration = time.Since(start)
	s.recorder.Record(ctx, event)

	return result, nil
}

// Review scores code
func (s *Service) Review(ctx context.Context, code string) (*domain.ReviewReport, error) {
	start := time.Now()
	report, err := s.advisor.Review(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("review: %w", err)
	}
	if report.Source == "" {
		report.Source = s.advisor.Name()
	}

	event := events.NewAdviceEvent(events.KindReview, code, report.Source).WithScore(report.Score)
	event.Duration = time.Since(start)
	s.recorder.Record(ctx, event)

	return report, nil
}

// Metrics returns the editor metrics for code. Empty code is allowed.
func (s *Service) Metrics(code string) domain.CodeMetrics {
	return advisor.Measure(code)
}

// Greeting returns the opening chat message for the stored mode
func (s *Service) Greeting(ctx context.Context) (string, domain.Mode, error) {
	mode, err := s.prefs.Mode(ctx)
	if err != nil {
		return "", "", err
	}
	return advisor.Greeting(mode), mode, nil
}

// Mode returns the stored mode
func (s *Service) Mode(ctx context.Context) (domain.Mode, error) {
	return s.prefs.Mode(ctx)
}

// SetMode parses and stores raw
func (s *Service) SetMode(ctx context.Context, raw string) (domain.Mode, error) {
	mode, err := domain.ParseMode(raw)
	if err != nil {
		return "", err
	}
	if err := s.prefs.SetMode(ctx, mode); err != nil {
		return "", err
	}
	return mode, nil
}

// ToggleMode flips the stored mode
func (s *Service) ToggleMode(ctx context.Context) (domain.Mode, error) {
	return s.prefs.ToggleMode(ctx)
}

func (s *Service) resolveMode(ctx context.Context, mode domain.Mode) (domain.Mode, error) {
	if mode == "" {
		return s.prefs.Mode(ctx)
	}
	return domain.ParseMode(string(mode))
}
