package domain

import (
	"strings"
	"unicode/utf8"
)

const (
	// ComplexityThreshold is the length above which an inquiry counts as complex
	ComplexityThreshold = 50

	// PreviewLength is the number of leading characters quoted back in explanations
	PreviewLength = 15
)

// Inquiry is the text submitted to the advisor: a chat message or a code body.
// Lengths are measured in characters (runes), not bytes.
type Inquiry struct {
	Text string
}

// NewInquiry wraps raw text
func NewInquiry(text string) Inquiry {
	return Inquiry{Text: text}
}

// Length returns the number of characters in the inquiry
func (q Inquiry) Length() int {
	return utf8.RuneCountInString(q.Text)
}

// IsComplex reports whether the inquiry is longer than ComplexityThreshold
func (q Inquiry) IsComplex() bool {
	return q.Length() > ComplexityThreshold
}

// ComplexityLabel returns "complex" or "simple"
func (q Inquiry) ComplexityLabel() string {
	if q.IsComplex() {
		return "complex"
	}
	return "simple"
}

// Preview returns the first PreviewLength characters with surrounding
// whitespace removed.
func (q Inquiry) Preview() string {
	text := q.Text
	if utf8.RuneCountInString(text) > PreviewLength {
		text = string([]rune(text)[:PreviewLength])
	}
	return strings.TrimSpace(text)
}

// Lines splits the inquiry on newline characters
func (q Inquiry) Lines() []string {
	return strings.Split(q.Text, "\n")
}
