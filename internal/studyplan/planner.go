// Package studyplan generates day-by-day study plans. Long plans are
// requested from the language model in bounded batches, and each batch must
// return exactly the number of topics asked for.
package studyplan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/phrazzld/scry-study/internal/parse"
	"github.com/phrazzld/scry-study/internal/prompts"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultBatchSize is the largest number of days requested in one call.
const DefaultBatchSize = 30

var (
	// ErrInvalidDuration is returned for a plan of zero or negative days.
	ErrInvalidDuration = errors.New("study plan duration must be positive")

	// ErrPlanShapeMismatch is returned when a batch does not contain exactly
	// the requested number of topics. No partial plan is returned.
	ErrPlanShapeMismatch = errors.New("language model returned the wrong number of topics")
)

// Batch is a run of consecutive days requested together.
type Batch struct {
	// Start is the 1-based index of the first day in the batch.
	Start int
	// Size is the number of days in the batch.
	Size int
}

// End returns the last day covered by the batch.
func (b Batch) End() int {
	return b.Start + b.Size - 1
}

// Partition splits totalDays into consecutive batches of at most batchSize
// days. Batch k starts the day after batch k-1 ends.
func Partition(totalDays, batchSize int) []Batch {
	if totalDays <= 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	batches := make([]Batch, 0, (totalDays+batchSize-1)/batchSize)
	for start := 1; start <= totalDays; start += batchSize {
		size := min(batchSize, totalDays-start+1)
		batches = append(batches, Batch{Start: start, Size: size})
	}
	return batches
}

// Planner builds study plans using a Completer, normally one wrapped in
// generation.Backoff.
type Planner struct {
	llm       generation.Completer
	prompts   *prompts.Library
	batchSize int
	logger    *slog.Logger
	tracer    trace.Tracer
}

// NewPlanner creates a Planner. A non-positive batchSize selects
// DefaultBatchSize and a nil logger discards output.
func NewPlanner(llm generation.Completer, lib *prompts.Library, batchSize int, logger *slog.Logger) *Planner {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if lib == nil {
		lib = prompts.Default()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Planner{
		llm:       llm,
		prompts:   lib,
		batchSize: batchSize,
		logger:    logger.With("component", "study_planner"),
		tracer:    otel.Tracer("github.com/phrazzld/scry-study/internal/studyplan"),
	}
}

// GeneratePlan returns a plan with exactly totalDays topics or an error.
func (p *Planner) GeneratePlan(
	ctx context.Context,
	subject string,
	totalDays int,
	level domain.Level,
) (domain.StudyPlan, error) {
	if totalDays <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDuration, totalDays)
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, domain.ErrEmptySubject
	}
	if !level.Valid() {
		return nil, domain.ErrInvalidLevel
	}

	ctx, span := p.tracer.Start(ctx, "studyplan.GeneratePlan", trace.WithAttributes(
		attribute.String("plan.subject", subject),
		attribute.Int("plan.total_days", totalDays),
		attribute.String("plan.level", level.String()),
	))
	defer span.End()

	batches := Partition(totalDays, p.batchSize)
	plan := make(domain.StudyPlan, 0, totalDays)

	for i, batch := range batches {
		topics, err := p.generateBatch(ctx, subject, level, batch)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "batch failed")
			p.logger.ErrorContext(ctx, "study plan batch failed",
				"batch", i+1,
				"batches", len(batches),
				"start_day", batch.Start,
				"error", err)
			return nil, err
		}
		plan = append(plan, topics...)
	}

	p.logger.InfoContext(ctx, "study plan generated",
		"subject", subject,
		"days", len(plan),
		"batches", len(batches))

	return plan, nil
}

func (p *Planner) generateBatch(
	ctx context.Context,
	subject string,
	level domain.Level,
	batch Batch,
) (topics []string, err error) {
	ctx, span := p.tracer.Start(ctx, "studyplan.batch", trace.WithAttributes(
		attribute.Int("batch.start_day", batch.Start),
		attribute.Int("batch.size", batch.Size),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "batch failed")
		}
		span.End()
	}()

	prompt, err := p.prompts.Render(prompts.Plan, prompts.PlanData{
		Subject:  subject,
		Level:    level.String(),
		Count:    batch.Size,
		StartDay: batch.Start,
		EndDay:   batch.End(),
	})
	if err != nil {
		return nil, err
	}

	raw, err := p.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate days %d-%d: %w", batch.Start, batch.End(), err)
	}

	topics = parse.Topics(raw)
	if len(topics) != batch.Size {
		return nil, fmt.Errorf("%w: days %d-%d returned %d topics, want %d",
			ErrPlanShapeMismatch, batch.Start, batch.End(), len(topics), batch.Size)
	}

	p.logger.DebugContext(ctx, "study plan batch parsed",
		"start_day", batch.Start,
		"size", batch.Size)

	return topics, nil
}
