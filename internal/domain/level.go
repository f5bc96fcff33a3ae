package domain

import "strings"

// Level represents the difficulty a course is pitched at.
type Level string

// Supported course levels
const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// ParseLevel converts user input into a Level, ignoring case and surrounding
// whitespace. Returns ErrInvalidLevel for unknown values.
func ParseLevel(s string) (Level, error) {
	level := Level(strings.ToLower(strings.TrimSpace(s)))
	if !level.Valid() {
		return "", ErrInvalidLevel
	}
	return level, nil
}

// Valid reports whether the level is one of the supported levels.
func (l Level) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (l Level) String() string {
	return string(l)
}
