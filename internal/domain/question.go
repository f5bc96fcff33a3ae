package domain

import "strings"

// OptionLetters are the answer letters a Question may use, in option order.
var OptionLetters = []string{"A", "B", "C", "D"}

// Question is a single multiple-choice test item generated for a study day.
type Question struct {
	Text        string   `json:"question"`
	Options     []string `json:"options"`
	Correct     string   `json:"correct"`
	Explanation string   `json:"explanation"`
}

// Validate checks that the question has exactly four options and a single
// correct letter in A-D.
func (q Question) Validate() error {
	if len(q.Options) != len(OptionLetters) {
		return ErrInvalidQuestion
	}
	if !IsOptionLetter(q.Correct) {
		return ErrInvalidQuestion
	}
	return nil
}

// IsOptionLetter reports whether s is exactly one of A, B, C or D.
func IsOptionLetter(s string) bool {
	for _, letter := range OptionLetters {
		if s == letter {
			return true
		}
	}
	return false
}

// NormalizeAnswer trims and upper-cases a submitted answer letter.
func NormalizeAnswer(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// QuestionFeedback reports how a single answer was graded.
type QuestionFeedback struct {
	Question    string `json:"question"`
	Given       string `json:"given"`
	Correct     string `json:"correct"`
	IsCorrect   bool   `json:"is_correct"`
	Explanation string `json:"explanation"`
}

// TestResult is the graded outcome of a submitted test.
type TestResult struct {
	Score    int                `json:"score"`
	Total    int                `json:"total"`
	Feedback []QuestionFeedback `json:"feedback"`
}

// Grade scores answers (indexed like questions) against the questions.
// Missing answers count as wrong. Returns ErrInvalidAnswer if a non-empty
// answer is not a letter in A-D.
func Grade(questions []Question, answers []string) (TestResult, error) {
	result := TestResult{
		Total:    len(questions),
		Feedback: make([]QuestionFeedback, 0, len(questions)),
	}

	for i, q := range questions {
		given := ""
		if i < len(answers) {
			given = NormalizeAnswer(answers[i])
		}
		if given != "" && !IsOptionLetter(given) {
			return TestResult{}, ErrInvalidAnswer
		}

		ok := given == q.Correct
		if ok {
			result.Score++
		}
		result.Feedback = append(result.Feedback, QuestionFeedback{
			Question:    q.Text,
			Given:       given,
			Correct:     q.Correct,
			IsCorrect:   ok,
			Explanation: q.Explanation,
		})
	}

	return result, nil
}
