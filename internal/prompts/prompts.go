// Package prompts renders the text prompts sent to the language model.
// Default templates are embedded in the binary; a directory may override
// any of them by providing a file with the same name.
package prompts

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"text/template"
)

// Template names.
const (
	Plan            = "plan.tmpl"
	Explain         = "explain.tmpl"
	Test            = "test.tmpl"
	Flashcards      = "flashcards.tmpl"
	Summary         = "summary.tmpl"
	Podcast         = "podcast.tmpl"
	PodcastContinue = "podcast_continue.tmpl"
)

// EndMarker terminates a complete podcast script.
const EndMarker = "END_OF_PODCAST"

var names = []string{Plan, Explain, Test, Flashcards, Summary, Podcast, PodcastContinue}

//go:embed templates/*.tmpl
var embedded embed.FS

// ErrUnknownTemplate is returned by Render for a name that was never loaded.
var ErrUnknownTemplate = errors.New("unknown prompt template")

// PlanData fills Plan.
type PlanData struct {
	Subject  string
	Level    string
	Count    int
	StartDay int
	EndDay   int
}

// TopicData fills Explain, Test and Flashcards.
type TopicData struct {
	Subject string
	Level   string
	Topic   string
	Day     int
	Count   int
}

// TextData fills Summary, Podcast and PodcastContinue.
type TextData struct {
	Text      string
	EndMarker string
}

// Library holds the parsed templates.
type Library struct {
	root *template.Template
}

// Default returns the library built from the embedded templates.
func Default() *Library {
	lib, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("embedded prompt templates are invalid: %v", err))
	}
	return lib
}

// Load parses the embedded templates, then replaces any of them found in
// dir. An empty dir uses the embedded set only.
func Load(dir string) (*Library, error) {
	root := template.New("prompts").Option("missingkey=error")

	for _, name := range names {
		content, err := fs.ReadFile(embedded, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded template %s: %w", name, err)
		}

		if dir != "" {
			override, err := os.ReadFile(filepath.Join(dir, name))
			switch {
			case err == nil:
				content = override
			case !errors.Is(err, fs.ErrNotExist):
				return nil, fmt.Errorf("failed to read prompt template %s: %w", name, err)
			}
		}

		if _, err := root.New(name).Parse(string(content)); err != nil {
			return nil, fmt.Errorf("failed to parse prompt template %s: %w", name, err)
		}
	}

	return &Library{root: root}, nil
}

// Render executes the named template with data.
func (l *Library) Render(name string, data any) (string, error) {
	tmpl := l.root.Lookup(name)
	if tmpl == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template %s: %w", name, err)
	}
	return buf.String(), nil
}
