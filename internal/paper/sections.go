package paper

import (
	"strings"
	"unicode"
)

// PreviewRunes is the length of the section preview shown to the reader.
const PreviewRunes = 500

// SplitSections breaks text into sections. A line that is entirely upper
// case, or that starts with '#', opens a new section and belongs to it.
// Text before the first heading forms its own section. Sections are
// trimmed and empty ones are dropped.
func SplitSections(text string) []string {
	var (
		sections []string
		current  strings.Builder
	)

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			sections = append(sections, s)
		}
		current.Reset()
	}

	for _, line := range strings.Split(text, "\n") {
		if isHeading(line) {
			flush()
		}
		current.WriteString(line)
		current.WriteByte('\n')
	}
	flush()

	return sections
}

func isHeading(line string) bool {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "#") {
		return true
	}
	return isUpper(line)
}

// isUpper reports whether s has at least one cased letter and no lower
// case ones.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			return false
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			cased = true
		}
	}
	return cased
}

// Preview returns s, cut to PreviewRunes runes with a "..." suffix when
// it is longer.
func Preview(s string) string {
	runes := []rune(s)
	if len(runes) <= PreviewRunes {
		return s
	}
	return string(runes[:PreviewRunes]) + "..."
}
