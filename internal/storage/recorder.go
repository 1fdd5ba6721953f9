package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/meltforce/rowplan/internal/planner"
)

// Open returns the Log for driver: "sqlite" (dsn is a file path) or
// "postgres" (dsn is a connection URL).
func Open(ctx context.Context, driver, dsn string) (Log, error) {
	switch driver {
	case "sqlite":
		l, err := OpenSQLite(dsn)
		if err != nil {
			return nil, err
		}
		return l, nil
	case "postgres":
		l, err := OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return l, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
}

// Recorder writes planner records to a Log. Write errors are logged and
// dropped so a storage outage never fails a generation.
type Recorder struct {
	log    Log
	logger *slog.Logger
}

// NewRecorder creates a Recorder backed by l.
func NewRecorder(l Log, logger *slog.Logger) *Recorder {
	return &Recorder{log: l, logger: logger}
}

// RecordGeneration implements planner.Recorder.
func (r *Recorder) RecordGeneration(rec planner.Record) {
	g := Generation{
		CreatedAt:    rec.CreatedAt,
		Status:       StatusSuccess,
		Provider:     rec.Provider,
		Model:        rec.Model,
		PeriodCount:  rec.PeriodCount,
		WorkoutCount: rec.WorkoutCount,
		LatencyMs:    rec.LatencyMs,
	}
	if !rec.Success {
		g.Status = StatusError
		kind := string(rec.Kind)
		g.ErrorKind = &kind
	}

	ctx, cancel := contextWithTimeout()
	defer cancel()

	if _, err := r.log.Insert(ctx, g); err != nil {
		r.logger.Error("failed to log generation", "status", g.Status, "error", err)
	}
}

// contextWithTimeout returns a background context with a 5-second timeout for log writes.
func contextWithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second) //nolint:mnd
}
