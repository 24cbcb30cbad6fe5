package domain

import (
	"fmt"
	"strings"
)

// Challenge is a self-contained coding exercise with starter code.
// ID has the form "<pack>/<slug>"; Order is the position within the pack.
type Challenge struct {
	ID          string     `json:"id"`
	PackID      string     `json:"pack_id"`
	Order       int        `json:"order"`
	Title       string     `json:"title"`
	Difficulty  Difficulty `json:"difficulty"`
	Description string     `json:"description"`
	StarterCode string     `json:"starter_code"`
	Language    Language   `json:"language"`
	Tags        []string   `json:"tags,omitempty"`
}

// Difficulty represents challenge difficulty level
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// Valid reports whether d is a known difficulty
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// ParseDifficulty matches s case-insensitively against the known difficulties
func ParseDifficulty(s string) (Difficulty, error) {
	for _, d := range []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced} {
		if strings.EqualFold(strings.TrimSpace(s), string(d)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: difficulty %q", ErrInvalidInput, s)
}

// StarRating is the displayed difficulty on a five-star scale
func (d Difficulty) StarRating() string {
	switch d {
	case DifficultyBeginner:
		return "1-2"
	case DifficultyIntermediate:
		return "3-4"
	default:
		return "5"
	}
}

// EstimatedTime is the expected time to solve a challenge of this difficulty
func (d Difficulty) EstimatedTime() string {
	switch d {
	case DifficultyBeginner:
		return "10-15 min"
	case DifficultyIntermediate:
		return "20-30 min"
	default:
		return "30-60 min"
	}
}

// Language is the programming language a challenge is written in
type Language string

const (
	LanguageJavaScript Language = "javascript"
	LanguagePython     Language = "python"
)

// Valid reports whether l is a supported language
func (l Language) Valid() bool {
	return l == LanguageJavaScript || l == LanguagePython
}

// ParseLanguage matches s case-insensitively; "js" is accepted for javascript
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "javascript", "js":
		return LanguageJavaScript, nil
	case "python", "py":
		return LanguagePython, nil
	}
	return "", fmt.Errorf("%w: language %q", ErrInvalidInput, s)
}

// ChallengePack is an ordered collection of challenges
type ChallengePack struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Description  string   `json:"description"`
	ChallengeIDs []string `json:"challenge_ids"`
}
