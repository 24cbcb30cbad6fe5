// Package events publishes one message per served advice request to
// RabbitMQ, and lets the CLI tail them.
package events

import (
	"time"

	"github.com/felixgeelhaar/devgenius/internal/domain"
	"github.com/google/uuid"
)

// Kind is the advisor operation that produced an event
type Kind string

const (
	KindExplain Kind = "explain"
	KindChat    Kind = "chat"
	KindReview  Kind = "review"
)

// AdviceEvent records a served request. The input text itself is not included.
type AdviceEvent struct {
	ID         uuid.UUID     `json:"id"`
	Kind       Kind          `json:"kind"`
	Mode       domain.Mode   `json:"mode,omitempty"`
	Source     string        `json:"source"`
	Topic      domain.Topic  `json:"topic,omitempty"`
	InputChars int           `json:"input_chars"`
	Score      *int          `json:"score,omitempty"`
	Duration   time.Duration `json:"duration"`
	CreatedAt  time.Time     `json:"created_at"`
}

// NewAdviceEvent stamps a new event for input
func NewAdviceEvent(kind Kind, input string, source string) *AdviceEvent {
	return &AdviceEvent{
		ID:         uuid.New(),
		Kind:       kind,
		Source:     source,
		InputChars: domain.NewInquiry(input).Length(),
		CreatedAt:  time.Now(),
	}
}

// WithScore attaches a review score
func (e *AdviceEvent) WithScore(score int) *AdviceEvent {
	e.Score = &score
	return e
}
