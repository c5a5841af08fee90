package ports

import (
	"context"
	"time"
)

// Raw export body with the time it was downloaded.
type CachedSheet struct {
	Body      []byte
	FetchedAt time.Time
}

// Port: a read-through cache for spreadsheet exports keyed by export URL.
type SheetCache interface {
	// Return cached entries for the given keys. Unknown keys are absent.
	GetMany(ctx context.Context, keys []string) (map[string]CachedSheet, error)
	// Store or replace entries.
	PutMany(ctx context.Context, entries map[string]CachedSheet) error
}
