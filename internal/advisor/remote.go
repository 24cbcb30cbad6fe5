package advisor

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/devgenius/internal/domain"
	"github.com/felixgeelhaar/devgenius/internal/llm"
)

const (
	remoteMaxTokens   = 1024
	remoteTemperature = 0.7
)

var (
	scorePattern  = regexp.MustCompile(`(?i)score(?:\s*\(\s*\d+\s*-\s*\d+\s*\))?[^\d\n(]{0,20}(\d{1,2})`)
	bulletPattern = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+(.+)$`)
)

// Resolver looks up an LLM provider by name; "" and "auto" mean the default
type Resolver interface {
	Resolve(name string) (llm.Provider, error)
}

// Remote answers through an LLM provider from the registry
type Remote struct {
	registry Resolver
	provider string
	prompter *Prompter
}

// NewRemote creates a remote advisor. An empty provider name uses the
// registry default.
func NewRemote(registry Resolver, provider string) *Remote {
	return &Remote{
		registry: registry,
		provider: provider,
		prompter: NewPrompter(),
	}
}

// Name identifies the advisor backend
func (r *Remote) Name() string { return "remote" }

func (r *Remote) resolve() (llm.Provider, error) {
	if r.registry == nil {
		return nil, ErrNoProvider
	}

	p, err := r.registry.Resolve(r.provider)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoProvider, err)
	}
	return p, nil
}

func (r *Remote) generate(ctx context.Context, system, prompt string) (string, string, error) {
	provider, err := r.resolve()
	if err != nil {
		return "", "", err
	}

	resp, err := provider.Generate(ctx, &llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: prompt},
		},
		System:      system,
		MaxTokens:   remoteMaxTokens,
		Temperature: remoteTemperature,
	})
	if err != nil {
		return "", provider.Name(), fmt.Errorf("%w: %s: %v", ErrRemote, provider.Name(), err)
	}

	content := strings.TrimSpace(resp.Content)
	if content == "" {
		return "", provider.Name(), fmt.Errorf("%w: %s returned an empty response", ErrRemote, provider.Name())
	}
	return content, provider.Name(), nil
}

// Explain asks the provider for an explanation
func (r *Remote) Explain(ctx context.Context, code string) (string, error) {
	text, _, err := r.generate(ctx, r.prompter.SystemPrompt(domain.ModeStandard), r.prompter.ExplainPrompt(code))
	return text, err
}

// Chat answers with the persona for mode
func (r *Remote) Chat(ctx context.Context, message string, mode domain.Mode) (string, error) {
	text, _, err := r.generate(ctx, r.prompter.SystemPrompt(mode), r.prompter.ChatPrompt(message))
	return text, err
}

// Review asks the provider for a review and parses the reply
func (r *Remote) Review(ctx context.Context, code string) (*domain.ReviewReport, error) {
	text, source, err := r.generate(ctx, r.prompter.SystemPrompt(domain.ModeDeveloper), r.prompter.ReviewPrompt(code))
	if err != nil {
		return nil, err
	}

	report := ParseReview(text, code)
	report.Source = source
	return report, nil
}

// ParseReview turns free-form model output into a ReviewReport. The score is
// the first number after "score", clamped to the review range; when none is
// present the score is derived from the number of suggestions. Tiers always
// come from the local rules applied to code.
func ParseReview(text, code string) *domain.ReviewReport {
	suggestions := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		m := bulletPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		item := strings.TrimSpace(m[1])
		if item == "" || scorePattern.MatchString(item) {
			continue
		}
		suggestions = append(suggestions, item)
	}

	score := domain.ScoreForIssues(len(suggestions))
	if m := scorePattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			score = domain.ClampScore(n)
		}
	}

	return &domain.ReviewReport{
		Score:       score,
		Suggestions: suggestions,
		Performance: PerformanceFor(domain.NewInquiry(code)),
		Readability: ReadabilityFor(code),
		Summary:     text,
	}
}
