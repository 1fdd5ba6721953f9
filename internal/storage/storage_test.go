package storage

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/meltforce/rowplan/internal/planner"
)

func openTestLog(t *testing.T) *SQLiteLog {
	t.Helper()
	l, err := OpenSQLite(filepath.Join(t.TempDir(), "data", "rowplan.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

// TestSQLiteInsertAndRecent stores entries and reads them back newest first.
func TestSQLiteInsertAndRecent(t *testing.T) {
	l := openTestLog(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	kind := "provider_unavailable"
	entries := []Generation{
		{CreatedAt: base, Status: StatusSuccess, Provider: "gemini", Model: "m", PeriodCount: 2, WorkoutCount: 14, LatencyMs: 900},
		{CreatedAt: base.Add(time.Minute), Status: StatusError, ErrorKind: &kind, Provider: "gemini", PeriodCount: 1},
		{CreatedAt: base.Add(2 * time.Minute), Status: StatusSuccess, Provider: "ollama", Model: "llama3.2", WorkoutCount: 7},
	}
	for i, g := range entries {
		id, err := l.Insert(ctx, g)
		if err != nil {
			t.Fatalf("Insert %d: %v", i, err)
		}
		if id != int64(i+1) {
			t.Errorf("Insert %d id = %d, want %d", i, id, i+1)
		}
	}

	got, err := l.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].Provider != "ollama" || got[0].WorkoutCount != 7 {
		t.Errorf("newest = %+v", got[0])
	}
	if got[1].ErrorKind == nil || *got[1].ErrorKind != kind {
		t.Errorf("second error_kind = %v", got[1].ErrorKind)
	}
	if !got[1].CreatedAt.Equal(base.Add(time.Minute)) {
		t.Errorf("created_at = %v", got[1].CreatedAt)
	}
}

// TestSQLiteRecentEmpty returns an empty, non-nil slice.
func TestSQLiteRecentEmpty(t *testing.T) {
	l := openTestLog(t)
	got, err := l.Recent(context.Background(), 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Recent = %#v, want empty slice", got)
	}
}

// TestOpenSQLiteTwice reapplies migrations without error.
func TestOpenSQLiteTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rowplan.db")
	for i := 0; i < 2; i++ {
		l, err := OpenSQLite(path)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		l.Close()
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), "mysql", "x"); err == nil {
		t.Error("expected error for unknown driver")
	}
}

// TestRecorderWritesEntries maps planner records to log rows.
func TestRecorderWritesEntries(t *testing.T) {
	l := openTestLog(t)
	r := NewRecorder(l, slog.Default())

	r.RecordGeneration(planner.Record{Success: true, Provider: "gemini", Model: "m", PeriodCount: 1, WorkoutCount: 3, LatencyMs: 12})
	r.RecordGeneration(planner.Record{Kind: planner.KindInvalidContent, Provider: "gemini", PeriodCount: 1})

	got, err := l.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	var failed, ok int
	for _, g := range got {
		switch g.Status {
		case StatusError:
			failed++
			if g.ErrorKind == nil || *g.ErrorKind != "invalid_content" {
				t.Errorf("error_kind = %v", g.ErrorKind)
			}
		case StatusSuccess:
			ok++
			if g.ErrorKind != nil {
				t.Errorf("success entry has error_kind %q", *g.ErrorKind)
			}
		}
	}
	if failed != 1 || ok != 1 {
		t.Errorf("failed=%d ok=%d", failed, ok)
	}
}

type failingLog struct{}

func (failingLog) Insert(context.Context, Generation) (int64, error) {
	return 0, errors.New("disk full")
}
func (failingLog) Recent(context.Context, int) ([]Generation, error) { return nil, nil }
func (failingLog) Close() error                                      { return nil }

// TestRecorderSwallowsErrors logs insert failures instead of panicking.
func TestRecorderSwallowsErrors(t *testing.T) {
	var buf bytes.Buffer
	r := NewRecorder(failingLog{}, slog.New(slog.NewTextHandler(&buf, nil)))
	r.RecordGeneration(planner.Record{Success: true})
	if !strings.Contains(buf.String(), "failed to log generation") {
		t.Errorf("log output = %q", buf.String())
	}
}
