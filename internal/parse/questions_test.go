package parse

import (
	"testing"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wellFormedQuiz = `Here is your test.

Q: What does a goroutine cost to start?
A) A full OS thread
B) A few kilobytes of stack
C) Nothing at all
D) One megabyte
Correct: B
Explanation: Goroutines start with a small growable stack.

Q: Which keyword defers a call?
A) go
B) defer
C) select
D) chan
Correct: b)
Explanation: defer runs the call when the function returns.
`

func TestQuestions_WellFormed(t *testing.T) {
	t.Parallel()

	got := Questions(wellFormedQuiz)
	require.Len(t, got, 2)

	assert.Equal(t, domain.Question{
		Text:        "What does a goroutine cost to start?",
		Options:     []string{"A full OS thread", "A few kilobytes of stack", "Nothing at all", "One megabyte"},
		Correct:     "B",
		Explanation: "Goroutines start with a small growable stack.",
	}, got[0])
	assert.Equal(t, "B", got[1].Correct)
}

func TestQuestions_DropsIncompleteRecords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  int
	}{
		{
			name:  "three options dropped",
			input: "Q: q\nA) 1\nB) 2\nC) 3\nCorrect: A",
			want:  0,
		},
		{
			name:  "correct E dropped",
			input: "Q: q\nA) 1\nB) 2\nC) 3\nD) 4\nCorrect: E",
			want:  0,
		},
		{
			name:  "four options and B kept",
			input: "Q: q\nA) 1\nB) 2\nC) 3\nD) 4\nCorrect: B",
			want:  1,
		},
		{
			name:  "missing correct letter dropped",
			input: "Q: q\nA) 1\nB) 2\nC) 3\nD) 4\nExplanation: none",
			want:  0,
		},
		{
			name:  "bad record between good ones",
			input: "Q: one\nA) 1\nB) 2\nC) 3\nD) 4\nCorrect: A\nQ: two\nA) 1\nCorrect: A\nQ: three\nA) 1\nB) 2\nC) 3\nD) 4\nCorrect: D",
			want:  2,
		},
		{
			name:  "repeated letter dropped",
			input: "Q: What?\nA) one\nA) two\nB) three\nC) four\nCorrect: D\nExplanation: x",
			want:  0,
		},
		{
			name:  "five option lines dropped",
			input: "Q: q\nA) 1\nB) 2\nC) 3\nD) 4\nD) 5\nCorrect: A",
			want:  0,
		},
		{
			name:  "options before any question ignored",
			input: "A) 1\nB) 2\nCorrect: A",
			want:  0,
		},
		{
			name:  "empty input",
			input: "",
			want:  0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Len(t, Questions(tc.input), tc.want)
		})
	}
}

func TestQuestions_OptionsFollowTheirLetters(t *testing.T) {
	t.Parallel()

	got := Questions("Q: order?\nB) second\nA) first\nD) fourth\nC) third\nCorrect: C")
	require.Len(t, got, 1)
	assert.Equal(t, []string{"first", "second", "third", "fourth"}, got[0].Options)
	assert.Equal(t, "C", got[0].Correct)
}

func TestQuestions_MarkdownLabels(t *testing.T) {
	t.Parallel()

	input := "**Q:** What is 2+2?\nA) 3\nB) 4\nC) 5\nD) 22\n**Correct:** B\n**Explanation:** arithmetic"
	got := Questions(input)
	require.Len(t, got, 1)
	assert.Equal(t, "What is 2+2?", got[0].Text)
	assert.Equal(t, "arithmetic", got[0].Explanation)
}

func TestQuestions_Idempotent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Questions(wellFormedQuiz), Questions(wellFormedQuiz))
}

func TestFilterQuestions(t *testing.T) {
	t.Parallel()

	four := []string{"1", "2", "3", "4"}
	in := []domain.Question{
		{Text: "three", Options: four[:3], Correct: "A"},
		{Text: "letter", Options: four, Correct: "E"},
		{Text: "good", Options: four, Correct: "B"},
	}

	got := FilterQuestions(in)
	require.Len(t, got, 1)
	assert.Equal(t, "good", got[0].Text)
}
