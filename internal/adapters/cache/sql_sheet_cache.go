package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"transport-report-service/internal/platform/obs"
	"transport-report-service/internal/ports"
)

// SQLSheetCache is a Postgres-backed cache shared by several server instances.
type SQLSheetCache struct {
	DB *sql.DB
}

func NewSQLSheetCache(db *sql.DB) *SQLSheetCache {
	return &SQLSheetCache{DB: db}
}

// Fetch cached exports for the given URLs.
func (s *SQLSheetCache) GetMany(ctx context.Context, keys []string) (_ map[string]ports.CachedSheet, err error) {
	defer obs.Time(ctx, "sheet.cache.sql.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("sheet cache: db is nil")
	}

	uniq := uniqueKeys(keys)
	if len(uniq) == 0 {
		return map[string]ports.CachedSheet{}, nil
	}

	q := `
	SELECT url, body, fetched_at
    FROM sheet_cache
    WHERE url = ANY($1::text[]);
	`

	rows, err := s.DB.QueryContext(ctx, q, uniq)
	if err != nil {
		return nil, fmt.Errorf("get sheet cache: query sheet_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]ports.CachedSheet, len(uniq))
	for rows.Next() {
		var url string
		var body []byte
		var fetchedAt int64
		if err := rows.Scan(&url, &body, &fetchedAt); err != nil {
			return nil, fmt.Errorf("get sheet cache: scan rows: %w", err)
		}
		out[url] = ports.CachedSheet{Body: body, FetchedAt: time.UnixMilli(fetchedAt)}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get sheet cache: row iteration: %w", err)
	}

	return out, nil
}

// Store many exports, replacing older copies of the same URL.
func (s *SQLSheetCache) PutMany(ctx context.Context, entries map[string]ports.CachedSheet) error {
	if s.DB == nil {
		return errors.New("sheet cache: db is nil")
	}

	if len(entries) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert sheet cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO sheet_cache (url, body, fetched_at)
    VALUES ($1, $2, $3)
	ON CONFLICT (url) DO UPDATE
	SET body = EXCLUDED.body,
		fetched_at = EXCLUDED.fetched_at;
	`)
	if err != nil {
		return fmt.Errorf("insert sheet cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for url, e := range entries {
		if strings.TrimSpace(url) == "" {
			return errors.New("insert sheet cache: empty url key")
		}

		if _, err := stmt.ExecContext(ctx, url, e.Body, e.FetchedAt.UnixMilli()); err != nil {
			return fmt.Errorf("insert sheet cache url=%q: %w", url, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert sheet cache commit: %w", err)
	}

	return nil
}
