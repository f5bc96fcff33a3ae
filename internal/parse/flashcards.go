package parse

import "github.com/phrazzld/scry-study/internal/domain"

// Flashcards extracts cards written as "Front: ..." followed by "Back: ...".
// A card missing either side is dropped, including a trailing Front with
// no Back.
func Flashcards(raw string) []domain.Flashcard {
	var (
		current domain.Flashcard
		out     []domain.Flashcard
	)

	m := &machine{
		fields: []field{
			{prefix: "Front:", opens: true, apply: func(v string) { current.Front = v }},
			{prefix: "Back:", apply: func(v string) { current.Back = v }},
		},
		flush: func() {
			if current.Validate() == nil {
				out = append(out, current)
			}
		},
		reset: func() { current = domain.Flashcard{} },
	}
	m.run(raw)

	return out
}
