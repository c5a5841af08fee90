package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"transport-report-service/internal/ports"

	"github.com/bluele/gcache"
)

// MemorySheetCache is an in-process LRU cache for single-instance runs.
type MemorySheetCache struct {
	lru gcache.Cache
}

func NewMemorySheetCache(size int, ttl time.Duration) *MemorySheetCache {
	b := gcache.New(size).LRU()
	if ttl > 0 {
		b = b.Expiration(ttl)
	}
	return &MemorySheetCache{lru: b.Build()}
}

func (m *MemorySheetCache) GetMany(_ context.Context, keys []string) (map[string]ports.CachedSheet, error) {
	out := make(map[string]ports.CachedSheet, len(keys))
	for _, k := range uniqueKeys(keys) {
		v, err := m.lru.Get(k)
		if errors.Is(err, gcache.KeyNotFoundError) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get sheet cache %q: %w", k, err)
		}
		if e, ok := v.(ports.CachedSheet); ok {
			out[k] = e
		}
	}
	return out, nil
}

func (m *MemorySheetCache) PutMany(_ context.Context, entries map[string]ports.CachedSheet) error {
	for url, e := range entries {
		if strings.TrimSpace(url) == "" {
			return errors.New("insert sheet cache: empty url key")
		}
		if err := m.lru.Set(url, e); err != nil {
			return fmt.Errorf("insert sheet cache url=%q: %w", url, err)
		}
	}
	return nil
}
