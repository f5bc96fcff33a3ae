// Package paper summarizes uploaded papers section by section and turns
// them into two-host podcast scripts.
package paper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/phrazzld/scry-study/internal/prompts"
)

// DefaultMaxPodcastRounds bounds the number of continuation requests made
// while waiting for the end marker.
const DefaultMaxPodcastRounds = 5

var (
	// ErrEmptyText is returned when there is nothing to analyze.
	ErrEmptyText = errors.New("paper text is empty")

	// ErrScriptIncomplete is returned when the model never ends the podcast
	// script within the allowed number of rounds.
	ErrScriptIncomplete = errors.New("podcast script did not finish")
)

// Analyzer produces summaries and podcast scripts.
type Analyzer struct {
	llm       generation.Completer
	prompts   *prompts.Library
	maxRounds int
	logger    *slog.Logger
}

// NewAnalyzer creates an Analyzer. llm is normally a generation.Backoff.
func NewAnalyzer(llm generation.Completer, lib *prompts.Library, maxRounds int, logger *slog.Logger) *Analyzer {
	if lib == nil {
		lib = prompts.Default()
	}
	if maxRounds <= 0 {
		maxRounds = DefaultMaxPodcastRounds
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Analyzer{
		llm:       llm,
		prompts:   lib,
		maxRounds: maxRounds,
		logger:    logger.With("component", "paper_analyzer"),
	}
}

// Summarize returns the model's summary of text.
func (a *Analyzer) Summarize(ctx context.Context, text string) (string, error) {
	prompt, err := a.prompts.Render(prompts.Summary, prompts.TextData{Text: text})
	if err != nil {
		return "", err
	}
	return a.llm.Complete(ctx, prompt)
}

// Analyze splits text into sections, summarizes each one and joins the
// summaries into the full summary.
func (a *Analyzer) Analyze(ctx context.Context, filename, text string) (*domain.PaperAnalysis, error) {
	parts := SplitSections(text)
	if len(parts) == 0 {
		return nil, ErrEmptyText
	}

	analysis := &domain.PaperAnalysis{
		Filename: filename,
		Sections: make([]domain.Section, 0, len(parts)),
	}
	summaries := make([]string, 0, len(parts))

	for i, part := range parts {
		summary, err := a.Summarize(ctx, part)
		if err != nil {
			return nil, fmt.Errorf("failed to summarize section %d of %d: %w", i+1, len(parts), err)
		}

		a.logger.DebugContext(ctx, "section summarized",
			"section", i+1,
			"sections", len(parts),
			"chars", len(part))

		analysis.Sections = append(analysis.Sections, domain.Section{
			Index:   i + 1,
			Preview: Preview(part),
			Text:    part,
			Summary: summary,
		})
		summaries = append(summaries, summary)
	}

	analysis.FullSummary = strings.Join(summaries, "\n\n")

	a.logger.InfoContext(ctx, "paper analyzed",
		"filename", filename,
		"sections", len(parts))

	return analysis, nil
}

// PodcastScript asks for an Alice and Bob podcast about text, requesting
// continuations until the end marker appears. The marker is removed from
// the returned script.
func (a *Analyzer) PodcastScript(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}

	prompt, err := a.prompts.Render(prompts.Podcast, prompts.TextData{Text: text, EndMarker: prompts.EndMarker})
	if err != nil {
		return "", err
	}
	continuation, err := a.prompts.Render(prompts.PodcastContinue, prompts.TextData{EndMarker: prompts.EndMarker})
	if err != nil {
		return "", err
	}

	var script strings.Builder
	for round := 1; round <= a.maxRounds; round++ {
		part, err := a.llm.Complete(ctx, prompt)
		if err != nil {
			return "", fmt.Errorf("failed to generate podcast script (round %d): %w", round, err)
		}
		script.WriteString(part)
		script.WriteString("\n")

		if strings.Contains(script.String(), prompts.EndMarker) {
			a.logger.InfoContext(ctx, "podcast script generated", "rounds", round)
			return strings.TrimSpace(strings.ReplaceAll(script.String(), prompts.EndMarker, "")), nil
		}
		prompt = continuation
	}

	return "", fmt.Errorf("%w after %d rounds", ErrScriptIncomplete, a.maxRounds)
}
