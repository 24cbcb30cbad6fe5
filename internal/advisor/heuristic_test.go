package advisor

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/felixgeelhaar/devgenius/internal/domain"
	"github.com/google/go-cmp/cmp"
)

func TestExplainTopic(t *testing.T) {
	tests := []struct {
		name string
		code string
		want domain.Topic
	}{
		{"function declaration", "function add(a, b) { return a + b; }", domain.TopicFunction},
		{"function beats loop", "function foo() { for (;;) {} }", domain.TopicFunction},
		{"function beats variable", "const f = function () {};", domain.TopicFunction},
		{"let", "let count = 0;", domain.TopicVariable},
		{"const", "const name = 'Ada';", domain.TopicVariable},
		{"var", "var x = 1", domain.TopicVariable},
		{"variable beats loop", "let i = 0; while (i < 3) i++;", domain.TopicVariable},
		{"while", "while (true) {}", domain.TopicLoop},
		{"for", "for (x of xs) print(x)", domain.TopicLoop},
		{"keyword is case sensitive", "FUNCTION", domain.TopicGeneral},
		{"no keyword", "print(1)", domain.TopicGeneral},
		{"empty", "", domain.TopicGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExplainTopic(tt.code); got != tt.want {
				t.Errorf("ExplainTopic(%q) = %q; want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestExplainText_Empty(t *testing.T) {
	got := ExplainText("")
	want := fmt.Sprintf(explainFallback, "simple", "")
	if got != want {
		t.Errorf("ExplainText(\"\") = %q; want %q", got, want)
	}
	if !strings.Contains(got, "simple") {
		t.Error("empty input should be labelled simple")
	}
}

func TestExplainText_PreviewIsRaw(t *testing.T) {
	got := ExplainText("x = 1\n\ty = 2\nz = 3")

	if !strings.HasSuffix(got, "It starts with: \"x = 1\n\ty = 2\nz\"") {
		t.Errorf("ExplainText() = %q; want the unescaped preview in quotes", got)
	}
	if strings.Contains(got, `\n`) || strings.Contains(got, `\t`) {
		t.Errorf("ExplainText() = %q; preview must not contain escape sequences", got)
	}
}

func TestExplainText_Parameters(t *testing.T) {
	code := "function add(a, b) { return a + b; }"
	got := ExplainText(code)

	if !strings.Contains(got, `"function add(a,"`) {
		t.Errorf("ExplainText() = %q; want preview of the first 15 characters", got)
	}
	if !strings.Contains(got, "simple") {
		t.Errorf("ExplainText() = %q; want simple label for %d characters", got, len(code))
	}

	long := strings.Repeat("x", domain.ComplexityThreshold+1)
	if got := ExplainText(long); !strings.Contains(got, "complex") {
		t.Errorf("ExplainText(51 chars) = %q; want complex label", got)
	}

	atThreshold := strings.Repeat("x", domain.ComplexityThreshold)
	if got := ExplainText(atThreshold); !strings.Contains(got, "simple") {
		t.Errorf("ExplainText(50 chars) = %q; want simple label", got)
	}
}

func TestChatTopic(t *testing.T) {
	tests := []struct {
		message string
		want    domain.Topic
	}{
		{"Hello there", domain.TopicGreeting},
		{"HI", domain.TopicGreeting},
		{"this matches hi inside a word", domain.TopicGreeting},
		{"Tell me about JavaScript", domain.TopicLanguage},
		{"js please", domain.TopicLanguage},
		{"what is a function", domain.TopicFunction},
		{"explain loops", domain.TopicLoop},
		{"for each item", domain.TopicLoop},
		{"I want to learn", domain.TopicHelp},
		{"can you help me", domain.TopicHelp},
		{"tell me a story", domain.TopicGeneral},
		{"", domain.TopicGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			if got := ChatTopic(tt.message); got != tt.want {
				t.Errorf("ChatTopic(%q) = %q; want %q", tt.message, got, tt.want)
			}
		})
	}
}

func TestChatReply_ModeSelectsTemplate(t *testing.T) {
	dev := ChatReply("hello", true)
	std := ChatReply("hello", false)
	if dev == std {
		t.Fatal("developer and standard greetings should differ")
	}
	if dev != chatRules[0].developer {
		t.Errorf("developer reply = %q; want greeting developer template", dev)
	}
	if std != chatRules[0].standard {
		t.Errorf("standard reply = %q; want greeting standard template", std)
	}

	for _, msg := range []string{"js", "function", "loop", "help", "anything else"} {
		if ChatReply(msg, true) == ChatReply(msg, false) {
			t.Errorf("ChatReply(%q) identical in both modes", msg)
		}
	}
}

func TestHeuristic_Chat(t *testing.T) {
	h := NewHeuristic()
	ctx := context.Background()

	got, err := h.Chat(ctx, "how do loops work", domain.ModeDeveloper)
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if want := ChatReply("how do loops work", true); got != want {
		t.Errorf("Chat(developer) = %q; want %q", got, want)
	}

	got, _ = h.Chat(ctx, "how do loops work", domain.ModeStandard)
	if want := ChatReply("how do loops work", false); got != want {
		t.Errorf("Chat(standard) = %q; want %q", got, want)
	}
}

func TestReviewCode(t *testing.T) {
	const (
		varMsg   = "Use 'let' or 'const' instead of 'var' for block-scoped declarations"
		eqMsg    = "Use strict equality (===) instead of loose equality (==)"
		semiMsg  = "Add semicolons to terminate statements"
		lengthMs = "Break lines longer than 100 characters into shorter ones"
	)

	tests := []struct {
		name      string
		code      string
		wantScore int
		wantSugg  []string
	}{
		{"empty", "", 10, []string{}},
		{"var only", "var x = 1", 8, []string{varMsg}},
		{"loose equality", "if (a == b) { return 1; }", 8, []string{eqMsg}},
		{"strict equality anywhere suppresses check", "if (a === b) { return a == b; }", 10, []string{}},
		{"missing semicolons", "const total = price * quantity", 8, []string{semiMsg}},
		{"short without semicolons", "let x = 1", 10, []string{}},
		{"long line", "let a = 1;\n" + strings.Repeat("y", 101) + ";", 8, []string{lengthMs}},
		{"line of exactly 100", strings.Repeat("y", 100) + "\nlet a;", 10, []string{}},
		{"all four floor at three", "var a = b == c " + strings.Repeat("x", 100), 3, []string{varMsg, eqMsg, semiMsg, lengthMs}},
		{"two issues with comment", "var a = b == c; // compare", 6, []string{varMsg, eqMsg}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReviewCode(tt.code)
			if got.Score != tt.wantScore {
				t.Errorf("Score = %d; want %d", got.Score, tt.wantScore)
			}
			if diff := cmp.Diff(tt.wantSugg, got.Suggestions); diff != "" {
				t.Errorf("Suggestions mismatch (-want +got):\n%s", diff)
			}
			if got.Score != domain.ScoreForIssues(got.IssueCount()) {
				t.Errorf("Score %d inconsistent with %d issues", got.Score, got.IssueCount())
			}
			if got.Source != SourceHeuristic {
				t.Errorf("Source = %q; want %q", got.Source, SourceHeuristic)
			}
		})
	}
}

func TestReviewCode_PerformanceBoundaries(t *testing.T) {
	tests := []struct {
		length int
		want   domain.PerformanceTier
	}{
		{0, domain.PerformanceOptimal},
		{99, domain.PerformanceOptimal},
		{100, domain.PerformanceGood},
		{499, domain.PerformanceGood},
		{500, domain.PerformanceRefactoring},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("length %d", tt.length), func(t *testing.T) {
			got := ReviewCode(strings.Repeat("a", tt.length))
			if got.Performance != tt.want {
				t.Errorf("Performance = %q; want %q", got.Performance, tt.want)
			}
		})
	}
}

func TestReviewCode_Readability(t *testing.T) {
	tests := []struct {
		name string
		code string
		want domain.ReadabilityTier
	}{
		{"line comment with issues", "// counter\nvar x = 1", domain.ReadabilityDocumented},
		{"block comment", "/* setup */ let x = 1;", domain.ReadabilityDocumented},
		{"url counts as comment marker", "fetch('https://example.com');", domain.ReadabilityDocumented},
		{"no comment", "let x = 1;", domain.ReadabilityAddComments},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReviewCode(tt.code).Readability; got != tt.want {
				t.Errorf("Readability = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestHeuristic_Deterministic(t *testing.T) {
	h := NewHeuristic()
	ctx := context.Background()
	inputs := []string{"", "var a = b == c", "function f() {}", "hello", strings.Repeat("z", 600)}

	for _, in := range inputs {
		e1, _ := h.Explain(ctx, in)
		e2, _ := h.Explain(ctx, in)
		if e1 != e2 {
			t.Errorf("Explain(%q) not deterministic", in)
		}

		for _, mode := range []domain.Mode{domain.ModeStandard, domain.ModeDeveloper} {
			c1, _ := h.Chat(ctx, in, mode)
			c2, _ := h.Chat(ctx, in, mode)
			if c1 != c2 {
				t.Errorf("Chat(%q, %s) not deterministic", in, mode)
			}
		}

		r1, _ := h.Review(ctx, in)
		r2, _ := h.Review(ctx, in)
		if diff := cmp.Diff(r1, r2); diff != "" {
			t.Errorf("Review(%q) not deterministic:\n%s", in, diff)
		}
	}
}

func TestGreeting(t *testing.T) {
	if Greeting(domain.ModeDeveloper) == Greeting(domain.ModeStandard) {
		t.Error("greetings should differ by mode")
	}
	if !strings.HasPrefix(Greeting(domain.ModeDeveloper), "Dev mode active") {
		t.Errorf("Greeting(developer) = %q", Greeting(domain.ModeDeveloper))
	}
}
