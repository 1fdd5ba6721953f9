package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteLog stores generations in a local SQLite file.
type SQLiteLog struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and applies migrations.
func OpenSQLite(path string) (*SQLiteLog, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db dir %s: %w", dir, err)
		}
	}

	if err := RunMigrations("sqlite", "sqlite://"+path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	return &SQLiteLog{db: db}, nil
}

// Insert stores g and returns its ID.
func (s *SQLiteLog) Insert(ctx context.Context, g Generation) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO generations (created_at, status, error_kind, provider, model, period_count, workout_count, latency_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		createdAt(g), g.Status, g.ErrorKind, g.Provider, g.Model, g.PeriodCount, g.WorkoutCount, g.LatencyMs,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting generation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading generation id: %w", err)
	}
	return id, nil
}

// Recent returns up to limit entries, newest first.
func (s *SQLiteLog) Recent(ctx context.Context, limit int) ([]Generation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, status, error_kind, provider, model, period_count, workout_count, latency_ms
		 FROM generations
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("querying generations: %w", err)
	}
	defer rows.Close()

	result := []Generation{}
	for rows.Next() {
		var g Generation
		if err := rows.Scan(&g.ID, &g.CreatedAt, &g.Status, &g.ErrorKind, &g.Provider, &g.Model,
			&g.PeriodCount, &g.WorkoutCount, &g.LatencyMs); err != nil {
			return nil, fmt.Errorf("scanning generation: %w", err)
		}
		result = append(result, g)
	}
	return result, rows.Err()
}

// Close closes the database.
func (s *SQLiteLog) Close() error {
	return s.db.Close()
}
