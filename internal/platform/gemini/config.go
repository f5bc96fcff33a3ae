package gemini

import (
	"fmt"
	"strings"

	"github.com/phrazzld/scry-study/internal/generation"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gemini-1.5-flash"

// Config holds the credentials for one client. It is copied at
// construction and never changes afterwards.
type Config struct {
	APIKey string
	Model  string
}

func (c Config) validate() (Config, error) {
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.Model = strings.TrimSpace(c.Model)

	if c.APIKey == "" {
		return c, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	return c, nil
}
