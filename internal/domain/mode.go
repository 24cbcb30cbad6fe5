package domain

import (
	"fmt"
	"strings"
)

// Mode selects which response template set the advisor draws from
type Mode string

const (
	// ModeStandard is the friendly, explanatory beginner mode
	ModeStandard Mode = "normal"
	// ModeDeveloper is the terse, technical mode
	ModeDeveloper Mode = "developer"
)

// DefaultMode is used when no preference has been stored
const DefaultMode = ModeStandard

// ParseMode converts a user-supplied string into a Mode.
// "standard" and "beginner" are accepted as aliases for the normal mode,
// "dev" for developer mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal", "standard", "beginner":
		return ModeStandard, nil
	case "developer", "dev":
		return ModeDeveloper, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// ModeFromFlag maps the developer-mode boolean used by chat callers
func ModeFromFlag(isDeveloper bool) Mode {
	if isDeveloper {
		return ModeDeveloper
	}
	return ModeStandard
}

// IsDeveloper reports whether m is developer mode
func (m Mode) IsDeveloper() bool {
	return m == ModeDeveloper
}

// Toggle returns the other mode
func (m Mode) Toggle() Mode {
	if m == ModeDeveloper {
		return ModeStandard
	}
	return ModeDeveloper
}

// Valid reports whether m is one of the known modes
func (m Mode) Valid() bool {
	return m == ModeStandard || m == ModeDeveloper
}

func (m Mode) String() string {
	return string(m)
}
