package cache

import (
	"context"
	"testing"
	"time"
	"transport-report-service/internal/ports"
)

func TestMemorySheetCache(t *testing.T) {
	c := NewMemorySheetCache(2, 0)
	ctx := context.Background()

	if err := c.PutMany(ctx, map[string]ports.CachedSheet{"a": {Body: []byte("1")}}); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := c.GetMany(ctx, []string{"a", "b", ""})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 || string(got["a"].Body) != "1" {
		t.Fatalf("got %+v, want only a", got)
	}
}

func TestMemorySheetCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewMemorySheetCache(2, time.Hour)
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		if err := c.PutMany(ctx, map[string]ports.CachedSheet{k: {Body: []byte(k)}}); err != nil {
			t.Fatalf("put %s: %v", k, err)
		}
	}

	got, _ := c.GetMany(ctx, []string{"a", "b", "c"})
	if _, ok := got["a"]; ok {
		t.Fatalf("expected a to be evicted, got %+v", got)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	if _, _, err := Open(context.Background(), Backend{Kind: "memcached"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestOpenNone(t *testing.T) {
	c, closeFn, err := Open(context.Background(), Backend{Kind: "none"})
	if err != nil || c != nil {
		t.Fatalf("Open(none) = %v, %v; want nil cache", c, err)
	}
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
