// Package speech renders text to MP3 files with Google Cloud Text-to-Speech.
package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"google.golang.org/api/option"
)

// MaxRequestBytes is the Text-to-Speech limit on input text per request.
const MaxRequestBytes = 5000

// ErrEmptyText is returned when there is nothing to speak.
var ErrEmptyText = errors.New("text to synthesize is empty")

// Config selects the voice and credentials.
type Config struct {
	// APIKey authenticates with an API key. When empty the client falls
	// back to CredentialsFile, then to application default credentials.
	APIKey          string
	CredentialsFile string
	LanguageCode    string
	VoiceName       string
	// TempDir receives the rendered files; empty means os.TempDir().
	TempDir string
}

type synthesizeFunc func(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest) (*texttospeechpb.SynthesizeSpeechResponse, error)

// Synthesizer writes speech renditions of text to temporary MP3 files.
type Synthesizer struct {
	synthesize synthesizeFunc
	closeFn    func() error
	cfg        Config
	logger     *slog.Logger
}

// ClientOptions builds the client options for cfg.
func ClientOptions(cfg Config) []option.ClientOption {
	switch {
	case strings.TrimSpace(cfg.APIKey) != "":
		return []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		return []option.ClientOption{option.WithCredentialsFile(cfg.CredentialsFile)}
	default:
		return nil
	}
}

// New connects to Text-to-Speech.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Synthesizer, error) {
	client, err := texttospeech.NewClient(ctx, ClientOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create text-to-speech client: %w", err)
	}

	synth := newSynthesizer(func(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest) (*texttospeechpb.SynthesizeSpeechResponse, error) {
		return client.SynthesizeSpeech(ctx, req)
	}, cfg, logger)
	synth.closeFn = client.Close
	return synth, nil
}

func newSynthesizer(fn synthesizeFunc, cfg Config, logger *slog.Logger) *Synthesizer {
	if cfg.LanguageCode == "" {
		cfg.LanguageCode = "en-US"
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Synthesizer{
		synthesize: fn,
		closeFn:    func() error { return nil },
		cfg:        cfg,
		logger:     logger.With("component", "speech"),
	}
}

// Close releases the underlying client.
func (s *Synthesizer) Close() error {
	return s.closeFn()
}

// Render synthesizes text and returns the path of a new MP3 file. The
// caller owns the file and should remove it. Failures are not retried.
func (s *Synthesizer) Render(ctx context.Context, text string) (string, error) {
	chunks := Chunk(text, MaxRequestBytes)
	if len(chunks) == 0 {
		return "", ErrEmptyText
	}

	f, err := os.CreateTemp(s.cfg.TempDir, "scry-audio-*.mp3")
	if err != nil {
		return "", fmt.Errorf("failed to create audio file: %w", err)
	}
	path := f.Name()

	fail := func(err error) (string, error) {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}

	for i, chunk := range chunks {
		resp, err := s.synthesize(ctx, &texttospeechpb.SynthesizeSpeechRequest{
			Input: &texttospeechpb.SynthesisInput{
				InputSource: &texttospeechpb.SynthesisInput_Text{Text: chunk},
			},
			Voice: &texttospeechpb.VoiceSelectionParams{
				LanguageCode: s.cfg.LanguageCode,
				Name:         s.cfg.VoiceName,
			},
			AudioConfig: &texttospeechpb.AudioConfig{
				AudioEncoding: texttospeechpb.AudioEncoding_MP3,
			},
		})
		if err != nil {
			return fail(fmt.Errorf("failed to synthesize chunk %d of %d: %w", i+1, len(chunks), err))
		}
		if _, err := f.Write(resp.GetAudioContent()); err != nil {
			return fail(fmt.Errorf("failed to write audio file: %w", err))
		}
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}

	s.logger.InfoContext(ctx, "audio rendered", "chunks", len(chunks), "chars", len(text))
	return path, nil
}

// Chunk splits text into pieces of at most limit bytes, breaking after
// paragraph or sentence ends where possible and never inside a UTF-8
// sequence.
func Chunk(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var chunks []string
	for len(text) > limit {
		cut := breakPoint(text, limit)
		chunks = append(chunks, strings.TrimSpace(text[:cut]))
		text = strings.TrimSpace(text[cut:])
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

// breakPoint returns where to cut text so the piece fits in limit bytes,
// preferring the last paragraph break, then sentence end, then space.
func breakPoint(text string, limit int) int {
	window := text[:limit]
	for _, sep := range []string{"\n\n", ". ", "! ", "? ", "\n", " "} {
		if i := strings.LastIndex(window, sep); i > 0 {
			return i + len(sep)
		}
	}

	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	if cut == 0 {
		return limit
	}
	return cut
}
