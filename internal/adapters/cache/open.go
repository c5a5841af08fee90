package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"
	"transport-report-service/internal/platform/db"
	"transport-report-service/internal/ports"

	"github.com/redis/go-redis/v9"
)

// Backend selects and configures a sheet cache implementation.
type Backend struct {
	Kind        string // none|memory|sqlite|postgres|redis
	DBPath      string
	DatabaseURL string
	RedisURL    string
	TTL         time.Duration
}

// Open builds the cache for b and initializes its schema where needed.
// The returned close func releases the underlying connection.
func Open(ctx context.Context, b Backend) (ports.SheetCache, func() error, error) {
	noop := func() error { return nil }

	switch b.Kind {
	case "", "none":
		return nil, noop, nil

	case "memory":
		return NewMemorySheetCache(256, b.TTL), noop, nil

	case "sqlite":
		conn, err := db.OpenSqlite(b.DBPath)
		if err != nil {
			return nil, noop, fmt.Errorf("open cache: %w", err)
		}
		if err := InitSchema(conn); err != nil {
			conn.Close()
			return nil, noop, fmt.Errorf("open cache: %w", err)
		}
		return NewSqliteSheetCache(conn), conn.Close, nil

	case "postgres":
		conn, err := db.Open(b.DatabaseURL)
		if err != nil {
			return nil, noop, fmt.Errorf("open cache: %w", err)
		}
		if err := InitPostgresSchema(ctx, conn); err != nil {
			conn.Close()
			return nil, noop, fmt.Errorf("open cache: %w", err)
		}
		return NewSQLSheetCache(conn), conn.Close, nil

	case "redis":
		opts, err := redis.ParseURL(b.RedisURL)
		if err != nil {
			return nil, noop, fmt.Errorf("open cache: parse redis url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, noop, fmt.Errorf("open cache: ping redis: %w", err)
		}
		return NewRedisSheetCache(client, b.TTL), client.Close, nil

	default:
		return nil, noop, fmt.Errorf("open cache: unknown backend %q", b.Kind)
	}
}

// OpenSQL opens the database behind a SQL backend, for maintenance tools.
func OpenSQL(ctx context.Context, b Backend) (*sql.DB, error) {
	var (
		conn *sql.DB
		err  error
	)

	switch b.Kind {
	case "sqlite":
		if conn, err = db.OpenSqlite(b.DBPath); err == nil {
			err = InitSchema(conn)
		}
	case "postgres":
		if conn, err = db.Open(b.DatabaseURL); err == nil {
			err = InitPostgresSchema(ctx, conn)
		}
	default:
		return nil, fmt.Errorf("open sql cache: backend %q is not SQL-backed", b.Kind)
	}

	if err != nil {
		if conn != nil {
			conn.Close()
		}
		return nil, fmt.Errorf("open sql cache: %w", err)
	}
	return conn, nil
}
