// Package db provides PostgreSQL access for captured demand records.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Reset discards every pooled connection so the next query opens fresh.
// The durable-write retry path calls this after a connectivity failure to
// avoid reusing a possibly-broken connection.
func (db *DB) Reset() {
	if db.pool != nil {
		db.pool.Reset()
	}
}

// Ping verifies the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// EnsureSchema creates the demand_records table if it does not exist.
// Demand strings are stored verbatim as captured; cleaned numeric forms are
// derived only at read time.
func (db *DB) EnsureSchema(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS demand_records (
			id               BIGSERIAL PRIMARY KEY,
			current_demand   TEXT NOT NULL,
			yesterday_demand TEXT NOT NULL,
			time_block       TEXT,
			date             DATE,
			captured_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("failed to ensure demand_records schema: %w", err)
	}
	return nil
}

// CreateDemandRecord inserts one captured observation.
func (db *DB) CreateDemandRecord(ctx context.Context, rec DemandRecord) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO demand_records (current_demand, yesterday_demand, time_block, date, captured_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		rec.CurrentDemand, rec.YesterdayDemand, rec.TimeBlock, rec.Date, rec.CapturedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create demand record: %w", err)
	}
	return nil
}

// LatestRecord retrieves the most recent demand record, or nil when the
// table is empty.
func (db *DB) LatestRecord(ctx context.Context) (*DemandRecord, error) {
	var rec DemandRecord
	err := db.pool.QueryRow(ctx,
		`SELECT id, current_demand, yesterday_demand, time_block, date, captured_at
		 FROM demand_records ORDER BY id DESC LIMIT 1`,
	).Scan(&rec.ID, &rec.CurrentDemand, &rec.YesterdayDemand, &rec.TimeBlock, &rec.Date, &rec.CapturedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest record: %w", err)
	}
	return &rec, nil
}

// ListRecent retrieves the most recent demand records, newest first.
func (db *DB) ListRecent(ctx context.Context, limit int) ([]DemandRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, current_demand, yesterday_demand, time_block, date, captured_at
		 FROM demand_records ORDER BY captured_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list demand records: %w", err)
	}
	defer rows.Close()

	var records []DemandRecord
	for rows.Next() {
		var rec DemandRecord
		if err := rows.Scan(&rec.ID, &rec.CurrentDemand, &rec.YesterdayDemand, &rec.TimeBlock, &rec.Date, &rec.CapturedAt); err != nil {
			return nil, fmt.Errorf("failed to scan demand record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// IsApplicationError reports whether err is a server-side application error
// (constraint violation, bad data, syntax error) rather than a connectivity
// failure. The server produced a PgError, so the connection itself worked;
// retrying the same statement cannot succeed.
func IsApplicationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr)
}
