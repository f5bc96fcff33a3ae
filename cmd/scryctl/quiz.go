package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/state"
)

func newQuizCmd(c *cli) *cobra.Command {
	var answers string

	cmd := &cobra.Command{
		Use:   "quiz NAME DAY",
		Short: "Take a multiple choice test on a day's topic",
		Long: `Generate a test for one day of a course and grade it.

Answers are read from standard input one letter per line unless --answers
gives them all at once, e.g. --answers A,C,B,D,A.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			day, err := parseDay(args[1])
			if err != nil {
				return err
			}

			study, err := c.studyService()
			if err != nil {
				return err
			}
			st := state.New()
			c.print.Info("Generating test for %s day %d...", name, day)
			questions, err := study.GenerateTest(cmd.Context(), st, name, day)
			if err != nil {
				return err
			}

			var given []string
			if answers != "" {
				given = strings.Split(answers, ",")
				c.printQuestions(questions)
			} else {
				given = c.askQuestions(questions)
			}

			result, err := study.SubmitTest(cmd.Context(), st, name, day, given)
			if err != nil {
				return err
			}
			return c.printResult(result)
		},
	}

	cmd.Flags().StringVar(&answers, "answers", "", "comma separated answer letters")
	return cmd
}

func (c *cli) printQuestion(i int, q domain.Question) {
	c.print.Header(fmt.Sprintf("%d. %s", i+1, q.Text))
	for j, option := range q.Options {
		c.print.Text(fmt.Sprintf("   %s) %s", domain.OptionLetters[j], option))
	}
}

func (c *cli) printQuestions(questions []domain.Question) {
	for i, q := range questions {
		c.printQuestion(i, q)
	}
}

// askQuestions prints each question and reads one answer line for it. A
// closed input leaves the remaining answers empty.
func (c *cli) askQuestions(questions []domain.Question) []string {
	scanner := bufio.NewScanner(c.in)
	given := make([]string, len(questions))
	for i, q := range questions {
		c.printQuestion(i, q)
		for {
			fmt.Fprint(c.print.out, "Answer (A-D): ")
			if !scanner.Scan() {
				fmt.Fprintln(c.print.out)
				return given
			}
			answer := domain.NormalizeAnswer(scanner.Text())
			if domain.IsOptionLetter(answer) {
				given[i] = answer
				break
			}
			c.print.Warn("Please answer with one of A, B, C or D")
		}
	}
	return given
}

func (c *cli) printResult(result *domain.TestResult) error {
	rows := make([][]string, 0, len(result.Feedback))
	for i, f := range result.Feedback {
		mark := "wrong"
		if f.IsCorrect {
			mark = "correct"
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), f.Given, f.Correct, mark, f.Explanation})
	}

	c.print.Header("Results")
	if err := c.print.Table([]string{"#", "Given", "Correct", "Result", "Explanation"}, rows); err != nil {
		return err
	}

	if result.Score == result.Total {
		c.print.Success("Score: %d/%d", result.Score, result.Total)
	} else {
		c.print.Warn("Score: %d/%d", result.Score, result.Total)
	}
	return nil
}
