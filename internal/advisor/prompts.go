package advisor

import (
	"fmt"

	"github.com/felixgeelhaar/devgenius/internal/domain"
)

// Prompter builds prompts for the remote advisor
type Prompter struct{}

// NewPrompter creates a new prompter
func NewPrompter() *Prompter {
	return &Prompter{}
}

// SystemPrompt returns the persona for a mode
func (p *Prompter) SystemPrompt(mode domain.Mode) string {
	if mode.IsDeveloper() {
		return "You are a technical AI assistant for experienced developers. Be concise and include code examples when relevant."
	}
	return "You are a friendly AI coding tutor. Explain concepts clearly and encourage learning. Use simple language and provide examples."
}

// ExplainPrompt asks for a learner-friendly walkthrough of code
func (p *Prompter) ExplainPrompt(code string) string {
	return fmt.Sprintf(`Explain this code in a friendly, educational way for someone learning programming:

%s

Focus on:
- What the code does
- Key concepts used
- How it works step by step`, code)
}

// ChatPrompt wraps a user question
func (p *Prompter) ChatPrompt(message string) string {
	return fmt.Sprintf(`User question: %s

Provide a helpful response.`, message)
}

// ReviewPrompt asks for a scored review. The reply format is fixed so
// ParseReview can extract the score and suggestions.
func (p *Prompter) ReviewPrompt(code string) string {
	return fmt.Sprintf(`Please review this code and provide:
1. Code quality score (1-10)
2. Specific suggestions for improvement
3. Performance considerations
4. Best practices recommendations

Start your answer with a line of the form "Score: N/10" and list each suggestion on its own line starting with "- ".

Code to review:
%s`, code)
}
