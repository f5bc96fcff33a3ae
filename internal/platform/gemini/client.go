package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/phrazzld/scry-study/internal/platform/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

// contentGenerator is the subset of *genai.Models used by Client.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Client sends prompts to one Gemini model with fixed credentials.
type Client struct {
	models contentGenerator
	model  string
	logger *slog.Logger
	tracer trace.Tracer
}

var _ generation.Completer = (*Client)(nil)

// NewClient creates a client for the Gemini Developer API.
func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	cfg, err := cfg.validate()
	if err != nil {
		return nil, err
	}

	sdk, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return newClient(sdk.Models, cfg.Model, logger), nil
}

func newClient(models contentGenerator, model string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		models: models,
		model:  model,
		logger: logger.With("component", "gemini", "model", model),
		tracer: otel.Tracer("github.com/phrazzld/scry-study/internal/platform/gemini"),
	}
}

// Model returns the model name the client was built with.
func (c *Client) Model() string {
	return c.model
}

// Complete sends prompt in a single request and returns the answer text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", generation.ErrEmptyPrompt
	}

	ctx, span := c.tracer.Start(ctx, "gemini.GenerateContent", trace.WithAttributes(
		attribute.String("llm.model", c.model),
		attribute.Int("llm.prompt_chars", len(prompt)),
	))
	defer span.End()

	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	metrics.LLMRequestDuration.WithLabelValues(c.model).Observe(time.Since(start).Seconds())

	if err == nil {
		var text string
		text, err = responseText(resp)
		if err == nil {
			metrics.LLMRequestsTotal.WithLabelValues(c.model, "ok").Inc()
			span.SetAttributes(attribute.Int("llm.response_chars", len(text)))
			c.logger.DebugContext(ctx, "Gemini call succeeded",
				"prompt_chars", len(prompt),
				"response_chars", len(text),
				"duration_ms", time.Since(start).Milliseconds())
			return text, nil
		}
	}

	metrics.LLMRequestsTotal.WithLabelValues(c.model, outcome(err)).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, "gemini call failed")
	c.logger.WarnContext(ctx, "Gemini call failed",
		"error", err,
		"duration_ms", time.Since(start).Milliseconds())

	return "", err
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)", generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: answer blocked by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content", generation.ErrInvalidResponse)
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}

	text := b.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty text", generation.ErrInvalidResponse)
	}
	return text, nil
}

func outcome(err error) string {
	switch {
	case generation.IsQuotaExhausted(err):
		return "quota"
	case errors.Is(err, generation.ErrContentBlocked):
		return "blocked"
	default:
		return "error"
	}
}
