package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/logger"
)

// DefaultMaxUploadBytes bounds paper uploads when no limit is configured.
const DefaultMaxUploadBytes = 20 << 20

// PaperHandler serves the paper summarizer endpoints.
type PaperHandler struct {
	maxUploadBytes int64
}

// NewPaperHandler creates a PaperHandler accepting uploads of up to
// maxUploadBytes.
func NewPaperHandler(maxUploadBytes int64) *PaperHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &PaperHandler{maxUploadBytes: maxUploadBytes}
}

// Analyze handles POST /api/papers. The paper is sent as the multipart
// field "file"; its extension selects the text extractor.
func (h *PaperHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	if r.ContentLength > h.maxUploadBytes {
		h.tooLarge(w, r, nil)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.tooLarge(w, r, err)
			return
		}
		HandleAPIError(w, r, fmt.Errorf("%w: %v", domain.ErrValidation, err),
			"A multipart form with a \"file\" field is required")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to read upload")
		return
	}

	logger.FromContext(r.Context()).InfoContext(r.Context(), "paper uploaded",
		"filename", header.Filename,
		"bytes", len(data))

	r, warnings := collectWarnings(r)
	analysis, err := s.Workspace.Papers.Analyze(r.Context(), header.Filename, data)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, PaperAnalysisResponse{PaperAnalysis: analysis, Warnings: warnings.List()})
}

func (h *PaperHandler) tooLarge(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, http.StatusRequestEntityTooLarge,
		fmt.Sprintf("File exceeds the %d byte limit", h.maxUploadBytes), err)
}

// Podcast handles POST /api/papers/podcast.
func (h *PaperHandler) Podcast(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req TextRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	r, warnings := collectWarnings(r)
	script, err := s.Workspace.Papers.PodcastScript(r.Context(), req.Text)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, PodcastResponse{Script: script, Warnings: warnings.List()})
}

// Audio handles POST /api/audio. The rendered MP3 is streamed back and
// deleted afterwards.
func (h *PaperHandler) Audio(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req TextRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	path, err := s.Workspace.Papers.RenderAudio(r.Context(), req.Text)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log := logger.FromContext(r.Context())
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.WarnContext(r.Context(), "failed to remove rendered audio", "error", err)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to read rendered audio")
		return
	}
	defer func() { _ = f.Close() }()

	shared.RespondWithAttachment(w, r, "audio/mpeg", "scry-audio.mp3", f)
}
