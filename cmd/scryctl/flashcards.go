package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/phrazzld/scry-study/internal/state"
)

func newFlashcardsCmd(c *cli) *cobra.Command {
	var shuffle bool

	cmd := &cobra.Command{
		Use:   "flashcards NAME DAY",
		Short: "Generate flashcards for a day's topic",
		Args:  cobra.ExactArgs(2),
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
			c.print.Info("Generating flashcards for %s day %d...", name, day)
			cards, err := study.GenerateFlashcards(cmd.Context(), st, name, day)
			if err != nil {
				return err
			}
			if shuffle {
				if cards, err = study.ShuffleFlashcards(cmd.Context(), st, name, day); err != nil {
					return err
				}
			}

			rows := make([][]string, 0, len(cards))
			for i, card := range cards {
				rows = append(rows, []string{strconv.Itoa(i + 1), card.Front, card.Back})
			}
			return c.print.Table([]string{"#", "Front", "Back"}, rows)
		},
	}

	cmd.Flags().BoolVar(&shuffle, "shuffle", false, "print the deck in random order")
	return cmd
}
