package tutor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/felixgeelhaar/devgenius/internal/advisor"
	"github.com/felixgeelhaar/devgenius/internal/domain"
	"github.com/felixgeelhaar/devgenius/internal/events"
	"github.com/felixgeelhaar/devgenius/internal/preference"
)

type recordingRecorder struct {
	mu     sync.Mutex
	events []*events.AdviceEvent
}

func (r *recordingRecorder) Record(_ context.Context, e *events.AdviceEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingRecorder) last(t *testing.T) *events.AdviceEvent {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		t.Fatal("no event recorded")
	}
	return r.events[len(r.events)-1]
}

type failingAdvisor struct{}

func (failingAdvisor) Name() string { return "failing" }
func (failingAdvisor) Explain(context.Context, string) (string, error) {
	return "", advisor.ErrRemote
}
func (failingAdvisor) Chat(context.Context, string, domain.Mode) (string, error) {
	return "", advisor.ErrRemote
}
func (failingAdvisor) Review(context.Context, string) (*domain.ReviewReport, error) {
	return nil, advisor.ErrRemote
}

func newTestService(t *testing.T, adv advisor.Advisor) (*Service, *recordingRecorder) {
	t.Helper()
	rec := &recordingRecorder{}
	prefs := preference.NewService(preference.NewMemoryStore(), domain.ModeStandard)
	return NewService(adv, prefs, rec), rec
}

func TestService_Explain(t *testing.T) {
	svc, rec := newTestService(t, advisor.NewHeuristic())

	result, err := svc.Explain(context.Background(), "function add(a, b) { return a + b; }")
	if err != nil {
		t.Fatalf("Explain() error = %v", err)
	}
	if result.Topic != domain.TopicFunction || result.Source != "heuristic" {
		t.Errorf("result = %+v", result)
	}
	if result.Explanation == "" {
		t.Error("expected explanation text")
	}

	e := rec.last(t)
	if e.Kind != events.KindExplain || e.Topic != domain.TopicFunction || e.InputChars != 36 {
		t.Errorf("event = %+v", e)
	}
}

func TestService_BlankChatRejected(t *testing.T) {
	svc, rec := newTestService(t, advisor.NewHeuristic())

	if _, err := svc.Chat(context.Background(), "  \n", ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Chat(blank) error = %v; want ErrInvalidInput", err)
	}
	if len(rec.events) != 0 {
		t.Errorf("recorded %d events for rejected chat", len(rec.events))
	}
}

func TestService_EmptyCodeIsAnswered(t *testing.T) {
	svc, _ := newTestService(t, advisor.NewHeuristic())
	ctx := context.Background()

	explained, err := svc.Explain(ctx, "")
	if err != nil {
		t.Fatalf("Explain(\"\") error = %v", err)
	}
	if explained.Explanation != advisor.ExplainText("") || explained.Topic != domain.TopicGeneral {
		t.Errorf("Explain(\"\") = %+v; want generic template", explained)
	}
	if !strings.Contains(explained.Explanation, "simple") {
		t.Errorf("Explain(\"\") = %q; want simple label", explained.Explanation)
	}

	report, err := svc.Review(ctx, "   ")
	if err != nil {
		t.Fatalf("Review(blank) error = %v", err)
	}
	if report.Score != domain.MaxReviewScore || len(report.Suggestions) != 0 {
		t.Errorf("Review(blank) = %+v; want score 10 and no suggestions", report)
	}
}

func TestService_ChatUsesStoredMode(t *testing.T) {
	svc, rec := newTestService(t, advisor.NewHeuristic())
	ctx := context.Background()

	result, err := svc.Chat(ctx, "hello", "")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if result.Mode != domain.ModeStandard {
		t.Errorf("Mode = %q; want normal", result.Mode)
	}
	if result.Reply != advisor.ChatReply("hello", false) {
		t.Errorf("Reply = %q", result.Reply)
	}

	if _, err := svc.SetMode(ctx, "dev"); err != nil {
		t.Fatalf("SetMode() error = %v", err)
	}
	result, err = svc.Chat(ctx, "hello", "")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if result.Mode != domain.ModeDeveloper || result.Reply != advisor.ChatReply("hello", true) {
		t.Errorf("result = %+v", result)
	}
	if rec.last(t).Mode != domain.ModeDeveloper {
		t.Error("event should carry the resolved mode")
	}
}

func TestService_ChatExplicitMode(t *testing.T) {
	svc, _ := newTestService(t, advisor.NewHeuristic())
	ctx := context.Background()

	result, err := svc.Chat(ctx, "teach me loops", domain.ModeDeveloper)
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if result.Mode != domain.ModeDeveloper || result.Topic != domain.TopicLoop {
		t.Errorf("result = %+v", result)
	}

	if _, err := svc.Chat(ctx, "hello", domain.Mode("loud")); !errors.Is(err, domain.ErrInvalidMode) {
		t.Errorf("Chat(invalid mode) error = %v; want ErrInvalidMode", err)
	}
}

func TestService_Review(t *testing.T) {
	svc, rec := newTestService(t, advisor.NewHeuristic())

	report, err := svc.Review(context.Background(), "var x = 1;")
	if err != nil {
		t.Fatalf("Review() error = %v", err)
	}
	if report.Score != 8 || report.Source != "heuristic" {
		t.Errorf("report = %+v", report)
	}

	e := rec.last(t)
	if e.Kind != events.KindReview || e.Score == nil || *e.Score != 8 {
		t.Errorf("event = %+v", e)
	}
}

func TestService_AdvisorError(t *testing.T) {
	svc, rec := newTestService(t, failingAdvisor{})
	ctx := context.Background()

	if _, err := svc.Explain(ctx, "x"); !errors.Is(err, advisor.ErrRemote) {
		t.Errorf("Explain() error = %v; want ErrRemote", err)
	}
	if _, err := svc.Chat(ctx, "x", ""); !errors.Is(err, advisor.ErrRemote) {
		t.Errorf("Chat() error = %v; want ErrRemote", err)
	}
	if _, err := svc.Review(ctx, "x"); !errors.Is(err, advisor.ErrRemote) {
		t.Errorf("Review() error = %v; want ErrRemote", err)
	}
	if len(rec.events) != 0 {
		t.Errorf("recorded %d events for failed requests", len(rec.events))
	}
}

func TestService_ModeAndGreeting(t *testing.T) {
	svc, _ := newTestService(t, advisor.NewHeuristic())
	ctx := context.Background()

	greeting, mode, err := svc.Greeting(ctx)
	if err != nil {
		t.Fatalf("Greeting() error = %v", err)
	}
	if mode != domain.ModeStandard || greeting != advisor.Greeting(domain.ModeStandard) {
		t.Errorf("Greeting() = %q, %q", greeting, mode)
	}

	next, err := svc.ToggleMode(ctx)
	if err != nil {
		t.Fatalf("ToggleMode() error = %v", err)
	}
	if next != domain.ModeDeveloper {
		t.Errorf("ToggleMode() = %q; want developer", next)
	}

	greeting, _, _ = svc.Greeting(ctx)
	if !strings.HasPrefix(greeting, "Dev mode active.") {
		t.Errorf("developer greeting = %q", greeting)
	}

	if _, err := svc.SetMode(ctx, "expert"); !errors.Is(err, domain.ErrInvalidMode) {
		t.Errorf("SetMode(expert) error = %v; want ErrInvalidMode", err)
	}
	if got, _ := svc.Mode(ctx); got != domain.ModeDeveloper {
		t.Errorf("Mode() = %q after rejected SetMode; want developer", got)
	}
}

func TestService_Metrics(t *testing.T) {
	svc, _ := newTestService(t, advisor.NewHeuristic())

	m := svc.Metrics("")
	if m.Lines != 1 || m.Characters != 0 {
		t.Errorf("Metrics(\"\") = %+v", m)
	}
	if svc.Backend() != "heuristic" {
		t.Errorf("Backend() = %q", svc.Backend())
	}
}

func TestNewService_NilRecorder(t *testing.T) {
	prefs := preference.NewService(preference.NewMemoryStore(), domain.ModeStandard)
	svc := NewService(advisor.NewHeuristic(), prefs, nil)

	if _, err := svc.Explain(context.Background(), "let x = 1"); err != nil {
		t.Fatalf("Explain() error = %v", err)
	}
}
