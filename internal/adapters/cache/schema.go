package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the SQLite sheet cache schema.
func InitSchema(db *sql.DB) error {
	return initSchema(context.Background(), db, `
	CREATE TABLE IF NOT EXISTS sheet_cache (
        url TEXT PRIMARY KEY,
        body BLOB NOT NULL,
        fetched_at INTEGER NOT NULL
    );
	`)
}

// Initialize the Postgres sheet cache schema.
func InitPostgresSchema(ctx context.Context, db *sql.DB) error {
	return initSchema(ctx, db, `
	CREATE TABLE IF NOT EXISTS sheet_cache (
        url TEXT PRIMARY KEY,
        body BYTEA NOT NULL,
        fetched_at BIGINT NOT NULL
    );
	`)
}

func initSchema(ctx context.Context, db *sql.DB, createQuery string) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		createQuery,
		`CREATE INDEX IF NOT EXISTS idx_sheet_cache_fetched_at ON sheet_cache(fetched_at);`,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Purge removes every cached export and returns the number of rows deleted.
func Purge(ctx context.Context, db *sql.DB) (int64, error) {
	if db == nil {
		return 0, errors.New("purge sheet cache: DB is nil")
	}

	res, err := db.ExecContext(ctx, `DELETE FROM sheet_cache;`)
	if err != nil {
		return 0, fmt.Errorf("purge sheet cache: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge sheet cache: rows affected: %w", err)
	}
	return n, nil
}

func uniqueKeys(keys []string) []string {
	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}
	return uniq
}
