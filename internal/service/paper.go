package service

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/ingest"
)

// PaperAnalyzer summarizes paper text and writes podcast scripts.
// paper.Analyzer is the production implementation.
type PaperAnalyzer interface {
	Analyze(ctx context.Context, filename, text string) (*domain.PaperAnalysis, error)
	PodcastScript(ctx context.Context, text string) (string, error)
}

// AudioRenderer turns text into an audio file and returns its path.
// speech.Synthesizer is the production implementation.
type AudioRenderer interface {
	Render(ctx context.Context, text string) (string, error)
}

// PaperService implements the paper analyzer use cases.
type PaperService struct {
	analyzer PaperAnalyzer
	audio    AudioRenderer
	logger   *slog.Logger
}

// NewPaperService creates a PaperService. audio may be nil, in which case
// RenderAudio fails with ErrSpeechDisabled.
func NewPaperService(analyzer PaperAnalyzer, audio AudioRenderer, logger *slog.Logger) (*PaperService, error) {
	if analyzer == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "analyzer cannot be nil"}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &PaperService{
		analyzer: analyzer,
		audio:    audio,
		logger:   logger.With("component", "paper_service"),
	}, nil
}

// Analyze extracts the text of an uploaded document and summarizes it
// section by section.
func (s *PaperService) Analyze(ctx context.Context, filename string, data []byte) (*domain.PaperAnalysis, error) {
	text, err := ingest.ExtractText(filename, data)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to extract document text",
			"error", err,
			"filename", filename,
			"bytes", len(data))
		return nil, err
	}

	analysis, err := s.analyzer.Analyze(ctx, filename, text)
	if err != nil {
		return nil, NewServiceError("analyze_paper", "failed to summarize paper", err)
	}
	return analysis, nil
}

// PodcastScript writes a two-host podcast script about text.
func (s *PaperService) PodcastScript(ctx context.Context, text string) (string, error) {
	script, err := s.analyzer.PodcastScript(ctx, text)
	if err != nil {
		return "", NewServiceError("podcast_script", "failed to generate podcast script", err)
	}
	return script, nil
}

// RenderAudio renders text to an audio file. The caller owns the returned
// file and removes it when done. Failures are reported, never retried.
func (s *PaperService) RenderAudio(ctx context.Context, text string) (string, error) {
	if s.audio == nil {
		return "", ErrSpeechDisabled
	}
	if strings.TrimSpace(text) == "" {
		return "", NewServiceError("render_audio", "nothing to render", domain.ErrValidation)
	}

	path, err := s.audio.Render(ctx, text)
	if err != nil {
		s.logger.ErrorContext(ctx, "audio rendering failed", "error", err, "chars", len(text))
		return "", NewServiceError("render_audio", "failed to render audio", err)
	}
	return path, nil
}
