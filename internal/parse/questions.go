package parse

import (
	"strings"

	"github.com/phrazzld/scry-study/internal/domain"
)

// Questions extracts multiple-choice questions written as
//
//	Q: question text
//	A) option
//	B) option
//	C) option
//	D) option
//	Correct: B
//	Explanation: why B is right
//
// Records without exactly one option for each of A-D and a correct letter
// in A-D are dropped.
func Questions(raw string) []domain.Question {
	var (
		current domain.Question
		options [4]string
		seen    [4]int
		out     []domain.Question
	)

	option := func(i int) func(string) {
		return func(v string) {
			options[i] = v
			seen[i]++
		}
	}

	m := &machine{
		fields: []field{
			{prefix: "Q:", opens: true, apply: func(v string) { current.Text = v }},
			{prefix: "A)", apply: option(0)},
			{prefix: "B)", apply: option(1)},
			{prefix: "C)", apply: option(2)},
			{prefix: "D)", apply: option(3)},
			{prefix: "Correct:", apply: func(v string) { current.Correct = correctLetter(v) }},
			{prefix: "Explanation:", apply: func(v string) { current.Explanation = v }},
		},
		flush: func() {
			for _, n := range seen {
				if n != 1 {
					return
				}
			}
			current.Options = append([]string(nil), options[:]...)
			if current.Validate() == nil {
				out = append(out, current)
			}
		},
		reset: func() {
			current = domain.Question{}
			options = [4]string{}
			seen = [4]int{}
		},
	}
	m.run(raw)

	return FilterQuestions(out)
}

// FilterQuestions keeps only questions that pass domain validation.
func FilterQuestions(questions []domain.Question) []domain.Question {
	kept := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		if q.Validate() == nil {
			kept = append(kept, q)
		}
	}
	return kept
}

// correctLetter normalizes the value of a "Correct:" line. "b", "B)" and
// "B." all become "B"; anything longer than one letter is returned as is
// and later fails validation.
func correctLetter(v string) string {
	v = strings.TrimSpace(v)
	if fields := strings.Fields(v); len(fields) > 0 {
		v = fields[0]
	}
	v = strings.TrimRight(v, ").:")
	return domain.NormalizeAnswer(v)
}
