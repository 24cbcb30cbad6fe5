package advisor

import (
	"strings"

	"github.com/felixgeelhaar/devgenius/internal/domain"
)

// explainRule pairs a keyword predicate with an explanation template.
// Templates take the complexity label and the preview, in that order.
type explainRule struct {
	topic    domain.Topic
	keywords []string
	template string
}

// chatRule pairs a keyword predicate with one template per mode
type chatRule struct {
	topic     domain.Topic
	keywords  []string
	developer string
	standard  string
}

// reviewCheck is a single independent anti-pattern check
type reviewCheck struct {
	id         string
	suggestion string
	match      func(q domain.Inquiry) bool
}

// Evaluated in order; the first rule whose keywords appear wins.
var explainRules = []explainRule{
	{
		topic:    domain.TopicFunction,
		keywords: []string{"function"},
		template: "This is a %s piece of code that defines a function. A function wraps a block of logic under a name so it can be called again and again with different inputs. Look at its parameters to see what it needs, and at the return statement to see what it gives back. It starts with: \"%s\"",
	},
	{
		topic:    domain.TopicVariable,
		keywords: []string{"let", "const", "var"},
		template: "This is a %s piece of code that declares variables. Variables are named boxes that hold values your program can read and change later; const creates one that cannot be reassigned. It starts with: \"%s\"",
	},
	{
		topic:    domain.TopicLoop,
		keywords: []string{"for", "while"},
		template: "This is a %s piece of code that uses a loop. A loop repeats the same block of statements until its condition stops being true, which saves you from writing the same code many times. It starts with: \"%s\"",
	},
}

const explainFallback = "This is a %s piece of code. Read it top to bottom: each statement runs in order, and values computed early are used by the lines that follow. Try changing one part and running it again to see what happens. It starts with: \"%s\""

// Evaluated in order against the lowercased message; the first match wins.
var chatRules = []chatRule{
	{
		topic:     domain.TopicGreeting,
		keywords:  []string{"hello", "hi"},
		developer: "Hey. Paste code or ask a technical question: algorithms, performance, API design, debugging.",
		standard:  "Hi there! I'm your coding tutor. We can learn about variables, functions, loops and more, one small step at a time. What would you like to explore first?",
	},
	{
		topic:     domain.TopicLanguage,
		keywords:  []string{"javascript", "js"},
		developer: "JavaScript: single-threaded event loop, prototype-based objects, first-class functions. Prefer const/let, strict equality and async/await over raw promise chains.",
		standard:  "JavaScript is the language of the web! It makes pages interactive: buttons that respond, forms that check your input, games in the browser. A great first step is console.log(\"Hello!\") to print a message.",
	},
	{
		topic:     domain.TopicFunction,
		keywords:  []string{"function"},
		developer: "Functions: declarations are hoisted, arrow functions capture lexical this. Keep them pure where possible and small enough to test in isolation.\n\nconst add = (a, b) => a + b;",
		standard:  "A function is like a recipe: you give it ingredients (parameters), it follows the steps, and hands you a result. For example:\n\nfunction add(a, b) {\n  return a + b;\n}\n\nCalling add(2, 3) gives you 5!",
	},
	{
		topic:     domain.TopicLoop,
		keywords:  []string{"loop", "for"},
		developer: "Loops: for/for...of for arrays, for...in for keys, while for unknown bounds. Consider map/filter/reduce for transformations and watch for O(n^2) nesting.",
		standard:  "Loops let your program repeat something without writing it over and over. For example:\n\nfor (let i = 1; i <= 3; i++) {\n  console.log(i);\n}\n\nThis prints 1, 2 and 3. The loop stops when i is no longer <= 3.",
	},
	{
		topic:     domain.TopicHelp,
		keywords:  []string{"help", "learn"},
		developer: "Available: code explanation, heuristic review with a quality score, and editor metrics. Send a snippet or a specific question.",
		standard:  "I'd love to help you learn! Try asking \"What is a variable?\", \"How do functions work?\" or \"Explain loops to me\". You can also open the editor and press Explain on your own code.",
	},
}

var chatFallback = chatRule{
	topic:     domain.TopicGeneral,
	developer: "Noted. Narrow it down: share the code, the expected behaviour and what actually happens.",
	standard:  "That's a great question! Programming is all about breaking big problems into small steps. Could you tell me a bit more about what you're trying to do?",
}

// Every check runs; matches are reported in this order.
var reviewChecks = []reviewCheck{
	{
		id:         "legacy-var",
		suggestion: "Use 'let' or 'const' instead of 'var' for block-scoped declarations",
		match: func(q domain.Inquiry) bool {
			return strings.Contains(q.Text, "var ")
		},
	},
	{
		id:         "loose-equality",
		suggestion: "Use strict equality (===) instead of loose equality (==)",
		match: func(q domain.Inquiry) bool {
			return strings.Contains(q.Text, "==") && !strings.Contains(q.Text, "===")
		},
	},
	{
		id:         "missing-semicolons",
		suggestion: "Add semicolons to terminate statements",
		match: func(q domain.Inquiry) bool {
			return !strings.Contains(q.Text, ";") && q.Length() > 20
		},
	},
	{
		id:         "long-lines",
		suggestion: "Break lines longer than 100 characters into shorter ones",
		match: func(q domain.Inquiry) bool {
			for _, line := range q.Lines() {
				if domain.NewInquiry(line).Length() > 100 {
					return true
				}
			}
			return false
		},
	},
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// matchExplainRule returns the first matching rule, or nil for the fallback
func matchExplainRule(text string) *explainRule {
	for i := range explainRules {
		if containsAny(text, explainRules[i].keywords) {
			return &explainRules[i]
		}
	}
	return nil
}

// matchChatRule returns the first matching rule, or the fallback rule
func matchChatRule(message string) *chatRule {
	lower := strings.ToLower(message)
	for i := range chatRules {
		if containsAny(lower, chatRules[i].keywords) {
			return &chatRules[i]
		}
	}
	return &chatFallback
}
