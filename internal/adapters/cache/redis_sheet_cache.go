package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"transport-report-service/internal/platform/obs"
	"transport-report-service/internal/ports"

	"github.com/redis/go-redis/v9"
)

// RedisSheetCache stores exports as hashes {body, fetched_at} under a key
// prefix. Entries expire on their own after ttl when ttl is positive.
type RedisSheetCache struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
}

func NewRedisSheetCache(client *redis.Client, ttl time.Duration) *RedisSheetCache {
	return &RedisSheetCache{Client: client, Prefix: "sheet:", TTL: ttl}
}

// Fetch cached exports for the given URLs in a single round trip.
func (r *RedisSheetCache) GetMany(ctx context.Context, keys []string) (_ map[string]ports.CachedSheet, err error) {
	defer obs.Time(ctx, "sheet.cache.redis.GetMany")(&err)

	if r.Client == nil {
		return nil, errors.New("sheet cache: redis client is nil")
	}

	uniq := uniqueKeys(keys)
	if len(uniq) == 0 {
		return map[string]ports.CachedSheet{}, nil
	}

	pipe := r.Client.Pipeline()
	cmds := make(map[string]*redis.MapStringStringCmd, len(uniq))
	for _, k := range uniq {
		cmds[k] = pipe.HGetAll(ctx, r.Prefix+k)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get sheet cache: redis pipeline: %w", err)
	}

	out := make(map[string]ports.CachedSheet, len(uniq))
	for k, cmd := range cmds {
		fields, err := cmd.Result()
		if err != nil || len(fields) == 0 {
			continue
		}

		ms, err := strconv.ParseInt(fields["fetched_at"], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("get sheet cache: parse fetched_at for %q: %w", k, err)
		}
		out[k] = ports.CachedSheet{Body: []byte(fields["body"]), FetchedAt: time.UnixMilli(ms)}
	}

	return out, nil
}

// Store many exports atomically.
func (r *RedisSheetCache) PutMany(ctx context.Context, entries map[string]ports.CachedSheet) error {
	if r.Client == nil {
		return errors.New("sheet cache: redis client is nil")
	}

	if len(entries) == 0 {
		return nil
	}

	for url := range entries {
		if strings.TrimSpace(url) == "" {
			return errors.New("insert sheet cache: empty url key")
		}
	}

	_, err := r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for url, e := range entries {
			key := r.Prefix + url
			pipe.HSet(ctx, key, "body", e.Body, "fetched_at", e.FetchedAt.UnixMilli())
			if r.TTL > 0 {
				pipe.Expire(ctx, key, r.TTL)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert sheet cache: redis tx: %w", err)
	}

	return nil
}
