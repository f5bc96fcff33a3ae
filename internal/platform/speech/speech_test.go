package speech

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunk(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Chunk("   ", 10))
	assert.Equal(t, []string{"short"}, Chunk("short", 10))

	got := Chunk("One two. Three four. Five six.", 21)
	assert.Equal(t, []string{"One two. Three four.", "Five six."}, got)

	for _, c := range Chunk(strings.Repeat("ü", 30), 7) {
		assert.LessOrEqual(t, len(c), 7)
		assert.True(t, strings.Trim(c, "ü") == "", "chunks never split a rune: %q", c)
	}
}

func TestRender_WritesConcatenatedAudio(t *testing.T) {
	t.Parallel()

	var requests []*texttospeechpb.SynthesizeSpeechRequest
	fake := func(_ context.Context, req *texttospeechpb.SynthesizeSpeechRequest) (*texttospeechpb.SynthesizeSpeechResponse, error) {
		requests = append(requests, req)
		return &texttospeechpb.SynthesizeSpeechResponse{AudioContent: []byte(req.GetInput().GetText()[:1])}, nil
	}

	dir := t.TempDir()
	synth := newSynthesizer(fake, Config{TempDir: dir, VoiceName: "en-US-Standard-C"}, nil)

	text := "Alpha sentence. " + strings.Repeat("b", MaxRequestBytes)
	path, err := synth.Render(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.Equal(t, ".mp3", filepath.Ext(path))
	require.Len(t, requests, 2)
	assert.Equal(t, "en-US", requests[0].GetVoice().GetLanguageCode())
	assert.Equal(t, "en-US-Standard-C", requests[0].GetVoice().GetName())
	assert.Equal(t, texttospeechpb.AudioEncoding_MP3, requests[0].GetAudioConfig().GetAudioEncoding())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Ab", string(data))
}

func TestRender_FailureRemovesFile(t *testing.T) {
	t.Parallel()

	boom := errors.New("permission denied")
	fake := func(context.Context, *texttospeechpb.SynthesizeSpeechRequest) (*texttospeechpb.SynthesizeSpeechResponse, error) {
		return nil, boom
	}

	dir := t.TempDir()
	_, err := newSynthesizer(fake, Config{TempDir: dir}, nil).Render(context.Background(), "hello")
	assert.ErrorIs(t, err, boom)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRender_EmptyText(t *testing.T) {
	t.Parallel()

	_, err := newSynthesizer(nil, Config{}, nil).Render(context.Background(), " ")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestClientOptions(t *testing.T) {
	t.Parallel()

	assert.Len(t, ClientOptions(Config{APIKey: "k"}), 1)
	assert.Len(t, ClientOptions(Config{CredentialsFile: "/tmp/sa.json"}), 1)
	assert.Empty(t, ClientOptions(Config{}))
}
