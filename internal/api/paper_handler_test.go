package api

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scry-study/internal/domain"
)

func (h *harness) upload(filename string, data []byte) *httptest.ResponseRecorder {
	h.t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(h.t, err)
	_, err = part.Write(data)
	require.NoError(h.t, err)
	require.NoError(h.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/papers", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+h.token)
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzePaper(t *testing.T) {
	t.Parallel()

	t.Run("summarizes each section", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		h.login()
		h.llm.Responses = []string{"A short summary."}

		rec := h.upload("paper.txt", []byte("ABSTRACT\nWe study things.\n\nINTRODUCTION\nThings matter."))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var analysis domain.PaperAnalysis
		decode(t, rec, &analysis)
		assert.Equal(t, "paper.txt", analysis.Filename)
		require.NotEmpty(t, analysis.Sections)
		assert.Equal(t, "A short summary.", analysis.Sections[0].Summary)
		assert.Equal(t, len(analysis.Sections), h.llm.Calls())
		assert.NotContains(t, rec.Body.String(), "warnings", "no retries, no warnings")
	})

	t.Run("unsupported format", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		h.login()

		rec := h.upload("paper.odt", []byte("data"))
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
		assert.Zero(t, h.llm.Calls())
	})

	t.Run("too large", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		h.login()

		rec := h.upload("paper.txt", bytes.Repeat([]byte("a"), 2<<20))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("missing file field", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		h.login()

		rec := h.do(http.MethodPost, "/api/papers", TextRequest{Text: "x"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPodcast(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.login()
	h.llm.Responses = []string{"Alice: Welcome!\nBob: Thanks.\nEND_OF_PODCAST"}

	rec := h.do(http.MethodPost, "/api/papers/podcast", TextRequest{Text: "paper text"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp PodcastResponse
	decode(t, rec, &resp)
	assert.True(t, strings.HasPrefix(resp.Script, "Alice: Welcome!"))
	assert.NotContains(t, resp.Script, "END_OF_PODCAST")

	rec = h.do(http.MethodPost, "/api/papers/podcast", TextRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAudio(t *testing.T) {
	t.Parallel()

	t.Run("streams and removes the file", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		h.login()

		rec := h.do(http.MethodPost, "/api/audio", TextRequest{Text: "hello"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "audio/mpeg", rec.Header().Get("Content-Type"))
		assert.Equal(t, "ID3hello", rec.Body.String())

		_, err := os.Stat(filepath.Join(h.audio.dir, "render.mp3"))
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("render failure", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		h.audio.err = errors.New("quota exceeded for project 1234")
		h.login()

		rec := h.do(http.MethodPost, "/api/audio", TextRequest{Text: "hello"})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "1234")
	})
}
