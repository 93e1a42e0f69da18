package db

import (
	"context"
	"database/sql"
	"log/slog"
	"time"
)

// MigrateUp creates the feed_sources table. It is idempotent.
func MigrateUp(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS feed_sources (
    id                       BIGSERIAL PRIMARY KEY,
    uri_key                  TEXT NOT NULL UNIQUE,
    uri                      TEXT NOT NULL,
    refresh_interval_minutes INTEGER NOT NULL CHECK (refresh_interval_minutes > 0),
    updated_at               TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}
	return nil
}

// MigrateDown drops the feed_sources table.
func MigrateDown(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS feed_sources`)
	return err
}

// WaitForSchema polls until feed_sources is queryable, for processes that share a database
// migrated by another process. It gives up after attempts tries.
func WaitForSchema(ctx context.Context, db *sql.DB, attempts int, delay time.Duration) error {
	const probe = "SELECT 1 FROM feed_sources LIMIT 1"
	var err error
	for i := range attempts {
		if _, err = db.ExecContext(ctx, probe); err == nil {
			return nil
		}
		slog.Info("waiting for migrations", slog.Int("attempt", i+1), slog.Duration("retry_in", delay))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}
