package planner

import (
	"context"
	"log/slog"
	"time"

	"github.com/meltforce/rowplan/internal/llm"
	"github.com/meltforce/rowplan/internal/models"
)

// Record describes one finished generation call.
type Record struct {
	Success      bool
	Kind         Kind // empty on success
	Provider     string
	Model        string
	PeriodCount  int
	WorkoutCount int
	LatencyMs    int64
	CreatedAt    time.Time
}

// Recorder receives one Record per call to Gateway.Generate.
type Recorder interface {
	RecordGeneration(rec Record)
}

// Options tune a Gateway.
type Options struct {
	// Provider is the backend name reported in records.
	Provider string
	// StrictValidation rejects plans with unknown intensities, malformed
	// dates or non-positive durations.
	StrictValidation bool
	// Recorder is optional.
	Recorder Recorder
}

// Gateway turns training periods into a workout plan through one model call.
type Gateway struct {
	client llm.Client
	opts   Options
	log    *slog.Logger
}

// NewGateway creates a Gateway backed by client.
func NewGateway(client llm.Client, opts Options, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{client: client, opts: opts, log: logger}
}

// Generate sends periods to the model once and returns the parsed plan.
// Every failure is an *Error. The returned plan is never nil on success.
func (g *Gateway) Generate(ctx context.Context, periods []models.TrainingPeriod) (models.WorkoutPlan, error) {
	start := time.Now()
	rec := Record{
		Provider:    g.opts.Provider,
		PeriodCount: len(periods),
		CreatedAt:   start.UTC(),
	}

	plan, err := g.generate(ctx, periods, &rec)
	rec.LatencyMs = time.Since(start).Milliseconds()
	if err != nil {
		rec.Kind = KindOf(err)
		g.log.Error("generate workouts",
			"kind", rec.Kind,
			"periods", rec.PeriodCount,
			"latency_ms", rec.LatencyMs,
			"error", err,
		)
	} else {
		rec.Success = true
		rec.WorkoutCount = len(plan)
		g.log.Info("generated workouts",
			"periods", rec.PeriodCount,
			"workouts", rec.WorkoutCount,
			"model", rec.Model,
			"latency_ms", rec.LatencyMs,
		)
	}
	if g.opts.Recorder != nil {
		g.opts.Recorder.RecordGeneration(rec)
	}
	return plan, err
}

func (g *Gateway) generate(ctx context.Context, periods []models.TrainingPeriod, rec *Record) (models.WorkoutPlan, error) {
	prompt, err := BuildPrompt(periods)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Err: err}
	}

	resp, err := g.client.Generate(ctx, llm.Request{Prompt: prompt, Schema: planSchema})
	if err != nil {
		return nil, &Error{Kind: providerKind(err), Err: err}
	}
	rec.Model = resp.Model

	plan, err := parsePlan(resp.Text)
	if err != nil {
		return nil, &Error{Kind: KindInvalidResponseShape, Err: err}
	}

	if g.opts.StrictValidation {
		if err := ValidatePlan(plan); err != nil {
			return nil, &Error{Kind: KindInvalidContent, Err: err}
		}
	}
	return plan, nil
}

// Available reports whether the model provider is reachable.
func (g *Gateway) Available(ctx context.Context) bool {
	return g.client.Available(ctx)
}
