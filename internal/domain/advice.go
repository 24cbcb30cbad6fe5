package domain

// Topic names the rule that matched an inquiry
type Topic string

const (
	TopicFunction Topic = "function"
	TopicVariable Topic = "variable"
	TopicLoop     Topic = "loop"
	TopicGreeting Topic = "greeting"
	TopicLanguage Topic = "language"
	TopicHelp     Topic = "help"
	TopicGeneral  Topic = "general"
)

// Review score bounds
const (
	MaxReviewScore = 10
	MinReviewScore = 3
	IssuePenalty   = 2
)

// PerformanceTier is a coarse length bucket reported by code review
type PerformanceTier string

const (
	PerformanceOptimal     PerformanceTier = "Optimal"
	PerformanceGood        PerformanceTier = "Good"
	PerformanceRefactoring PerformanceTier = "Consider refactoring"
)

// ReadabilityTier reports whether the code carries comments
type ReadabilityTier string

const (
	ReadabilityDocumented  ReadabilityTier = "Well documented"
	ReadabilityAddComments ReadabilityTier = "Add comments"
)

// ReviewReport is the structured result of a code review
type ReviewReport struct {
	Score       int             `json:"score"`
	Suggestions []string        `json:"suggestions"`
	Performance PerformanceTier `json:"performance"`
	Readability ReadabilityTier `json:"readability"`

	// Summary holds the raw model text for remote reviews
	Summary string `json:"summary,omitempty"`
	// Source is "heuristic" or the name of the LLM provider that produced the review
	Source string `json:"source,omitempty"`
}

// IssueCount returns the number of detected issues
func (r *ReviewReport) IssueCount() int {
	return len(r.Suggestions)
}

// ScoreForIssues applies the scoring rule: 10 minus 2 per issue, floored at 3
func ScoreForIssues(issues int) int {
	score := MaxReviewScore - IssuePenalty*issues
	if score < MinReviewScore {
		return MinReviewScore
	}
	return score
}

// ClampScore forces an externally produced score into the review range
func ClampScore(score int) int {
	if score > MaxReviewScore {
		return MaxReviewScore
	}
	if score < MinReviewScore {
		return MinReviewScore
	}
	return score
}

// ComplexityLevel is the editor's length-based complexity gauge
type ComplexityLevel string

const (
	ComplexityLow    ComplexityLevel = "Low"
	ComplexityMedium ComplexityLevel = "Medium"
	ComplexityHigh   ComplexityLevel = "High"
)

// CommentQuality is the editor's readability gauge
type CommentQuality string

const (
	CommentQualityGood CommentQuality = "Good"
	CommentQualityFair CommentQuality = "Fair"
)

// CodeMetrics are the editor panel figures for a code body
type CodeMetrics struct {
	Lines       int             `json:"lines"`
	Characters  int             `json:"characters"`
	Complexity  ComplexityLevel `json:"complexity"`
	Readability CommentQuality  `json:"readability"`
}
