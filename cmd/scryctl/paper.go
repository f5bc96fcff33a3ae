package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/phrazzld/scry-study/internal/ingest"
	"github.com/phrazzld/scry-study/internal/service"
)

func newSummarizeCmd(c *cli) *cobra.Command {
	var sections bool

	cmd := &cobra.Command{
		Use:   "summarize FILE",
		Short: "Summarize a paper (.pdf, .docx or .txt) section by section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			papers, err := c.paperService(nil)
			if err != nil {
				return err
			}
			c.print.Info("Summarizing %s...", filepath.Base(args[0]))
			analysis, err := papers.Analyze(cmd.Context(), filepath.Base(args[0]), data)
			if err != nil {
				return err
			}

			if sections {
				rows := make([][]string, 0, len(analysis.Sections))
				for _, s := range analysis.Sections {
					rows = append(rows, []string{strconv.Itoa(s.Index), s.Preview, s.Summary})
				}
				if err := c.print.Table([]string{"#", "Section", "Summary"}, rows); err != nil {
					return err
				}
			}

			c.print.Header("Summary")
			c.print.Text(analysis.FullSummary)
			return nil
		},
	}

	cmd.Flags().BoolVar(&sections, "sections", false, "also print a table of section summaries")
	return cmd
}

func newPodcastCmd(c *cli) *cobra.Command {
	var audioPath string

	cmd := &cobra.Command{
		Use:   "podcast FILE",
		Short: "Write an Alice and Bob podcast script about a paper",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			text, err := ingest.ExtractText(filepath.Base(args[0]), data)
			if err != nil {
				return err
			}

			return c.podcast(cmd, text, audioPath)
		},
	}

	cmd.Flags().StringVar(&audioPath, "audio", "", "also render the script to this mp3 file")
	return cmd
}

// podcast prints the script for text and, when audioPath is set, renders
// it to that file.
func (c *cli) podcast(cmd *cobra.Command, text, audioPath string) error {
	ctx := cmd.Context()

	var audio service.AudioRenderer
	if audioPath != "" {
		synth, err := c.newAudio(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = synth.Close() }()
		audio = synth
	}

	papers, err := c.paperService(audio)
	if err != nil {
		return err
	}
	c.print.Info("Writing podcast script...")
	script, err := papers.PodcastScript(ctx, text)
	if err != nil {
		return err
	}
	c.print.Text(script)

	if audioPath == "" {
		return nil
	}

	c.print.Info("Rendering audio...")
	rendered, err := papers.RenderAudio(ctx, script)
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(rendered) }()
	if err := copyFile(rendered, audioPath); err != nil {
		return err
	}
	c.print.Success("Audio written to %s", audioPath)
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return out.Close()
}
