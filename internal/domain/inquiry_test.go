package domain

import (
	"strings"
	"testing"
)

func TestInquiry_ComplexityLabel(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"empty", "", "simple"},
		{"exactly threshold", strings.Repeat("a", 50), "simple"},
		{"above threshold", strings.Repeat("a", 51), "complex"},
		{"multibyte counted as characters", strings.Repeat("é", 50), "simple"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewInquiry(tt.text).ComplexityLabel(); got != tt.want {
				t.Errorf("ComplexityLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInquiry_Preview(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"empty", "", ""},
		{"short", "let x = 1", "let x = 1"},
		{"truncated", "function greetUser(name) {}", "function greetU"},
		{"trimmed after truncation", "   const a = 1;  more", "const a = 1;"},
		{"trailing newline", "x = 1\n", "x = 1"},
		{"runes", "héllo wörld ünïcode", "héllo wörld ünï"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewInquiry(tt.text).Preview(); got != tt.want {
				t.Errorf("Preview() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInquiry_Lines(t *testing.T) {
	lines := NewInquiry("a\nb\n").Lines()
	if len(lines) != 3 {
		t.Errorf("len(Lines()) = %d, want 3", len(lines))
	}
	if got := len(NewInquiry("").Lines()); got != 1 {
		t.Errorf("len(Lines()) of empty = %d, want 1", got)
	}
}

func TestScoreForIssues(t *testing.T) {
	want := map[int]int{0: 10, 1: 8, 2: 6, 3: 4, 4: 3, 5: 3}
	for issues, score := range want {
		if got := ScoreForIssues(issues); got != score {
			t.Errorf("ScoreForIssues(%d) = %d, want %d", issues, got, score)
		}
	}
}

func TestClampScore(t *testing.T) {
	tests := []struct{ in, want int }{
		{-1, 3}, {1, 3}, {3, 3}, {7, 7}, {10, 10}, {12, 10},
	}
	for _, tt := range tests {
		if got := ClampScore(tt.in); got != tt.want {
			t.Errorf("ClampScore(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
