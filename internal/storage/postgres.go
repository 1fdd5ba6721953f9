package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLog stores generations in PostgreSQL through a pgx pool.
type PostgresLog struct {
	Pool *pgxpool.Pool
}

// OpenPostgres applies migrations and creates a connection pool for dsn.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresLog, error) {
	if err := RunMigrations("postgres", dsn); err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &PostgresLog{Pool: pool}, nil
}

// Insert stores g and returns its ID.
func (p *PostgresLog) Insert(ctx context.Context, g Generation) (int64, error) {
	var id int64
	err := p.Pool.QueryRow(ctx,
		`INSERT INTO generations (created_at, status, error_kind, provider, model, period_count, workout_count, latency_ms)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 RETURNING id`,
		createdAt(g), g.Status, g.ErrorKind, g.Provider, g.Model, g.PeriodCount, g.WorkoutCount, g.LatencyMs,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting generation: %w", err)
	}
	return id, nil
}

// Recent returns up to limit entries, newest first.
func (p *PostgresLog) Recent(ctx context.Context, limit int) ([]Generation, error) {
	rows, err := p.Pool.Query(ctx,
		`SELECT id, created_at, status, error_kind, provider, model, period_count, workout_count, latency_ms
		 FROM generations
		 ORDER BY created_at DESC, id DESC
		 LIMIT $1`,
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

// Close closes the connection pool.
func (p *PostgresLog) Close() error {
	p.Pool.Close()
	return nil
}
