package storage

import (
	"context"
	"time"
)

// Generation status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// DefaultRecentLimit is used when Recent is called with a non-positive limit.
const DefaultRecentLimit = 50

// Generation is the metadata of one workout generation call. Periods and
// workouts themselves are never stored.
type Generation struct {
	ID           int64     `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Status       string    `json:"status"`
	ErrorKind    *string   `json:"error_kind"`
	Provider     string    `json:"provider"`
	Model        string    `json:"model"`
	PeriodCount  int       `json:"period_count"`
	WorkoutCount int       `json:"workout_count"`
	LatencyMs    int64     `json:"latency_ms"`
}

// Log persists generation metadata.
type Log interface {
	// Insert stores g and returns its ID.
	Insert(ctx context.Context, g Generation) (int64, error)
	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]Generation, error)
	Close() error
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultRecentLimit
	}
	return limit
}

func createdAt(g Generation) time.Time {
	if g.CreatedAt.IsZero() {
		return time.Now().UTC()
	}
	return g.CreatedAt.UTC()
}
