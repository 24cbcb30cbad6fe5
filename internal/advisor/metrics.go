package advisor

import "github.com/felixgeelhaar/devgenius/internal/domain"

// Measure computes the editor metrics panel for a code body
func Measure(code string) domain.CodeMetrics {
	q := domain.NewInquiry(code)
	n := q.Length()

	complexity := domain.ComplexityHigh
	switch {
	case n < 100:
		complexity = domain.ComplexityLow
	case n < 500:
		complexity = domain.ComplexityMedium
	}

	readability := domain.CommentQualityFair
	if hasComment(code) {
		readability = domain.CommentQualityGood
	}

	return domain.CodeMetrics{
		Lines:       len(q.Lines()),
		Characters:  n,
		Complexity:  complexity,
		Readability: readability,
	}
}
