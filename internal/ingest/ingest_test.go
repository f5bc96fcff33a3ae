package ingest

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

const sampleDocument = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>ABSTRACT</w:t></w:r></w:p>
    <w:p><w:r><w:t xml:space="preserve">We study </w:t></w:r><w:r><w:t>graphs.</w:t></w:r></w:p>
    <w:p><w:r><w:t>a</w:t><w:tab/><w:t>b</w:t></w:r></w:p>
  </w:body>
</w:document>`

func TestExtractText_DOCX(t *testing.T) {
	t.Parallel()

	text, err := ExtractText("paper.DOCX", buildDOCX(t, sampleDocument))
	require.NoError(t, err)
	assert.Equal(t, "ABSTRACT\n\nWe study graphs.\n\na\tb\n\n", text)
}

func TestExtractText_Plain(t *testing.T) {
	t.Parallel()

	text, err := ExtractText("notes.txt", []byte("\xef\xbb\xbfhello\nworld"))
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld", text)
}

func TestExtractText_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filename string
		data     []byte
		wantErr  error
	}{
		{"unsupported extension", "slides.pptx", []byte("x"), ErrUnsupportedFormat},
		{"no extension", "README", []byte("x"), ErrUnsupportedFormat},
		{"empty upload", "paper.pdf", nil, ErrEmptyDocument},
		{"whitespace only", "notes.txt", []byte(" \n\t"), ErrEmptyDocument},
		{"invalid utf8", "notes.txt", []byte{0xff, 0xfe, 0xfd}, ErrUnreadableDocument},
		{"docx that is not a zip", "paper.docx", []byte("plain text"), ErrUnreadableDocument},
		{"pdf that is not a pdf", "paper.pdf", []byte("plain text"), ErrUnreadableDocument},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ExtractText(tc.filename, tc.data)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestExtractText_DOCXMissingDocument(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = ExtractText("paper.docx", buf.Bytes())
	assert.ErrorIs(t, err, ErrUnreadableDocument)
}
