// Package ingest extracts plain text from uploaded documents.
package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

var (
	// ErrUnsupportedFormat is returned for file extensions other than
	// .pdf, .docx, .doc and .txt.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrEmptyDocument is returned when the upload is empty or has no text.
	ErrEmptyDocument = errors.New("document contains no text")

	// ErrUnreadableDocument is returned when the file cannot be decoded.
	ErrUnreadableDocument = errors.New("document could not be read")
)

// SupportedExtensions lists the accepted file extensions.
var SupportedExtensions = []string{".pdf", ".docx", ".doc", ".txt"}

// ExtractText returns the plain text of the document named filename.
// PDF pages and DOCX paragraphs are separated by blank lines.
func ExtractText(filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyDocument
	}

	var (
		text string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".pdf":
		text, err = extractPDF(data)
	case ".docx", ".doc":
		text, err = extractDOCX(data)
	case ".txt":
		text, err = extractPlain(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}

func extractPlain(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: text is not valid UTF-8", ErrUnreadableDocument)
	}
	return string(data), nil
}
