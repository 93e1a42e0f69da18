// Package postgres implements the source repository on top of database/sql with the pgx driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"feed-aggregator/internal/domain/entity"
	"feed-aggregator/internal/repository"
)

type SourceRepo struct{ db *sql.DB }

func NewSourceRepo(db *sql.DB) repository.SourceRepository {
	return &SourceRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanSource rebuilds a Source from its stored URI text. Rows are written only through
// Upsert, so a row that no longer validates means the table was edited by hand.
func scanSource(row rowScanner) (*entity.Source, error) {
	var (
		uri      string
		interval int
	)
	if err := row.Scan(&uri, &interval); err != nil {
		return nil, err
	}
	src, err := entity.NewSource(uri, interval)
	if err != nil {
		return nil, fmt.Errorf("stored source %q: %w", uri, err)
	}
	return src, nil
}

func (repo *SourceRepo) List(ctx context.Context) ([]*entity.Source, error) {
	const query = `
SELECT uri, refresh_interval_minutes
FROM feed_sources
ORDER BY id ASC`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sources := make([]*entity.Source, 0, 16)
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("List: %w", err)
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

func (repo *SourceRepo) Get(ctx context.Context, key string) (*entity.Source, error) {
	const query = `
SELECT uri, refresh_interval_minutes
FROM feed_sources
WHERE uri_key = $1
LIMIT 1`
	src, err := scanSource(repo.db.QueryRowContext(ctx, query, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return src, nil
}

// Upsert relies on the uri_key unique constraint; xmax is zero only for freshly inserted rows.
func (repo *SourceRepo) Upsert(ctx context.Context, source *entity.Source) (bool, error) {
	const query = `
INSERT INTO feed_sources (uri_key, uri, refresh_interval_minutes)
VALUES ($1, $2, $3)
ON CONFLICT (uri_key) DO UPDATE SET
       uri                      = EXCLUDED.uri,
       refresh_interval_minutes = EXCLUDED.refresh_interval_minutes,
       updated_at               = now()
RETURNING (xmax = 0) AS inserted`
	var inserted bool
	err := repo.db.QueryRowContext(ctx, query,
		source.Key(), source.URI.String(), source.RefreshIntervalMinutes,
	).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("Upsert: %w", err)
	}
	return inserted, nil
}

func (repo *SourceRepo) Delete(ctx context.Context, key string) error {
	const query = `DELETE FROM feed_sources WHERE uri_key = $1`
	res, err := repo.db.ExecContext(ctx, query, key)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	return nil
}
