package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/devgenius/internal/domain"
)

// SourceHeuristic identifies answers produced by the local rule engine
const SourceHeuristic = "heuristic"

// Heuristic is the local, keyword-matching advisor. It holds no state and is
// safe for concurrent use.
type Heuristic struct{}

// NewHeuristic creates the rule-based advisor
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Name identifies the advisor backend
func (h *Heuristic) Name() string { return SourceHeuristic }

// Explain never fails.
func (h *Heuristic) Explain(_ context.Context, code string) (string, error) {
	return ExplainText(code), nil
}

// Chat never fails.
func (h *Heuristic) Chat(_ context.Context, message string, mode domain.Mode) (string, error) {
	return ChatReply(message, mode.IsDeveloper()), nil
}

// Review never fails.
func (h *Heuristic) Review(_ context.Context, code string) (*domain.ReviewReport, error) {
	return ReviewCode(code), nil
}

// ExplainText explains a snippet using the first matching explain rule
func ExplainText(code string) string {
	q := domain.NewInquiry(code)
	template := explainFallback
	if rule := matchExplainRule(code); rule != nil {
		template = rule.template
	}
	return fmt.Sprintf(template, q.ComplexityLabel(), q.Preview())
}

// ExplainTopic reports which explain rule a snippet falls under
func ExplainTopic(code string) domain.Topic {
	if rule := matchExplainRule(code); rule != nil {
		return rule.topic
	}
	return domain.TopicGeneral
}

// ChatReply answers a chat message from the template set chosen by developer
func ChatReply(message string, developer bool) string {
	rule := matchChatRule(message)
	if developer {
		return rule.developer
	}
	return rule.standard
}

// ChatTopic reports which chat rule a message falls under
func ChatTopic(message string) domain.Topic {
	return matchChatRule(message).topic
}

// ReviewCode runs every review check and scores the result
func ReviewCode(code string) *domain.ReviewReport {
	q := domain.NewInquiry(code)

	suggestions := make([]string, 0, len(reviewChecks))
	for _, check := range reviewChecks {
		if check.match(q) {
			suggestions = append(suggestions, check.suggestion)
		}
	}

	return &domain.ReviewReport{
		Score:       domain.ScoreForIssues(len(suggestions)),
		Suggestions: suggestions,
		Performance: PerformanceFor(q),
		Readability: ReadabilityFor(code),
		Source:      SourceHeuristic,
	}
}

// PerformanceFor buckets an inquiry by length
func PerformanceFor(q domain.Inquiry) domain.PerformanceTier {
	switch n := q.Length(); {
	case n < 100:
		return domain.PerformanceOptimal
	case n < 500:
		return domain.PerformanceGood
	default:
		return domain.PerformanceRefactoring
	}
}

// ReadabilityFor reports whether the code carries a comment marker
func ReadabilityFor(code string) domain.ReadabilityTier {
	if hasComment(code) {
		return domain.ReadabilityDocumented
	}
	return domain.ReadabilityAddComments
}

func hasComment(code string) bool {
	return strings.Contains(code, "//") || strings.Contains(code, "/*")
}

// Greeting returns the opening line of a new chat session
func Greeting(mode domain.Mode) string {
	if mode.IsDeveloper() {
		return "Dev mode active. I'll keep answers short and technical: paste code, ask about architecture, performance or debugging."
	}
	return "Hi! I'm DevGenius, your friendly coding tutor. Ask me anything about programming, or paste some code and I'll explain it step by step."
}
