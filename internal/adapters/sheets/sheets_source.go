package sheets

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
	"transport-report-service/internal/domain"
	"transport-report-service/internal/platform/obs"
	"transport-report-service/internal/ports"

	"golang.org/x/sync/errgroup"
)

const DefaultBaseURL = "https://docs.google.com"

// FetchMetrics receives cache and download outcomes. Optional.
type FetchMetrics interface {
	SheetCacheHit()
	SheetCacheMiss()
	SheetFetchError()
	SheetFetchRetry()
	SheetFetchObserve(d time.Duration)
}

// GoogleSheetsSource implements TableSource using spreadsheet export URLs.
//
// It coordinates:
//   - Export URL construction per worksheet
//   - Read-through caching of raw export bodies
//   - Downloads with retry/backoff
//   - CSV/XLSX decoding
//
// The source is safe for concurrent use.
type GoogleSheetsSource struct {
	session      *http.Client
	baseURL      string
	cache        ports.SheetCache
	ttl          time.Duration
	metrics      FetchMetrics
	now          func() time.Time
	maxAttempts  int
	backoff      time.Duration
	maxBodyBytes int64
	concurrency  int
}

type Option func(*GoogleSheetsSource)

func WithBaseURL(u string) Option {
	return func(g *GoogleSheetsSource) { g.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(c *http.Client) Option {
	return func(g *GoogleSheetsSource) { g.session = c }
}

func WithMetrics(m FetchMetrics) Option {
	return func(g *GoogleSheetsSource) { g.metrics = m }
}

func WithRetry(attempts int, backoff time.Duration) Option {
	return func(g *GoogleSheetsSource) {
		if attempts > 0 {
			g.maxAttempts = attempts
		}
		g.backoff = backoff
	}
}

func WithConcurrency(n int) Option {
	return func(g *GoogleSheetsSource) {
		if n > 0 {
			g.concurrency = n
		}
	}
}

func withClock(now func() time.Time) Option {
	return func(g *GoogleSheetsSource) { g.now = now }
}

// NewGoogleSheetsSource builds a source. cache may be nil; a non-positive
// ttl keeps cached exports forever.
func NewGoogleSheetsSource(cache ports.SheetCache, ttl time.Duration, opts ...Option) *GoogleSheetsSource {
	g := &GoogleSheetsSource{
		session:      &http.Client{Timeout: 15 * time.Second},
		baseURL:      DefaultBaseURL,
		cache:        cache,
		ttl:          ttl,
		now:          time.Now,
		maxAttempts:  4,
		backoff:      200 * time.Millisecond,
		maxBodyBytes: 32 << 20,
		concurrency:  4,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ExportURL returns the download URL of a worksheet.
func (g *GoogleSheetsSource) ExportURL(ref domain.SheetRef) string {
	format := ref.Format
	if format == "" {
		format = domain.FormatCSV
	}

	q := url.Values{}
	q.Set("format", string(format))
	q.Set("gid", ref.GID)

	return fmt.Sprintf("%s/spreadsheets/d/%s/export?%s", g.baseURL, url.PathEscape(ref.SheetID), q.Encode())
}

// Delegate to batched path to reuse caching logic.
func (g *GoogleSheetsSource) FetchTable(ctx context.Context, ref domain.SheetRef) (*domain.Table, error) {
	tables, errs := g.FetchTables(ctx, []domain.SheetRef{ref})
	if err, ok := errs[ref]; ok {
		return nil, err
	}

	t, ok := tables[ref]
	if !ok {
		return nil, fmt.Errorf("no table returned for sheet=%q gid=%q", ref.SheetID, ref.GID)
	}
	return t, nil
}

// FetchTables resolves many worksheets, serving fresh cache entries first and
// downloading the rest. A failure on one worksheet does not affect the others.
func (g *GoogleSheetsSource) FetchTables(
	ctx context.Context,
	refs []domain.SheetRef,
) (map[domain.SheetRef]*domain.Table, map[domain.SheetRef]error) {
	var err error
	defer obs.Time(ctx, "sheets.FetchTables")(&err)

	out := make(map[domain.SheetRef]*domain.Table, len(refs))
	errs := make(map[domain.SheetRef]error)

	urls := make(map[domain.SheetRef]string, len(refs))
	keys := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref.IsZero() {
			errs[ref] = errors.New("sheet id must be non-empty")
			continue
		}
		if _, ok := urls[ref]; ok {
			continue
		}
		u := g.ExportURL(ref)
		urls[ref] = u
		keys = append(keys, u)
	}

	if len(keys) == 0 {
		return out, errs
	}

	hits := make(map[string]ports.CachedSheet)
	// Check the cache before issuing downloads.
	if g.cache != nil {
		hits, err = g.cache.GetMany(ctx, keys)
		if err != nil {
			log.Printf("sheet cache read failed: %v", err)
			hits = map[string]ports.CachedSheet{}
			err = nil
		}
	}

	bodies := make(map[domain.SheetRef][]byte, len(urls))
	misses := make([]domain.SheetRef, 0, len(urls))
	for ref, u := range urls {
		if body, ok := g.cached(hits, u); ok {
			if g.metrics != nil {
				g.metrics.SheetCacheHit()
			}
			bodies[ref] = body
			continue
		}
		if g.metrics != nil {
			g.metrics.SheetCacheMiss()
		}
		misses = append(misses, ref)
	}

	// Download all misses concurrently; failures are recorded per ref.
	var mu sync.Mutex
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)
	for _, ref := range misses {
		ref := ref
		eg.Go(func() error {
			start := time.Now()
			b, dlErr := g.download(egctx, urls[ref])
			if g.metrics != nil {
				g.metrics.SheetFetchObserve(time.Since(start))
			}

			mu.Lock()
			defer mu.Unlock()
			if dlErr != nil {
				if g.metrics != nil {
					g.metrics.SheetFetchError()
				}
				errs[ref] = fmt.Errorf("download sheet=%q gid=%q: %w", ref.SheetID, ref.GID, dlErr)
				return nil
			}
			bodies[ref] = b
			return nil
		})
	}
	_ = eg.Wait()

	fresh := make(map[string]ports.CachedSheet, len(misses))
	for _, ref := range misses {
		if b, ok := bodies[ref]; ok {
			fresh[urls[ref]] = ports.CachedSheet{Body: b, FetchedAt: g.now()}
		}
	}

	for ref, body := range bodies {
		t, decErr := Decode(ref.Format, body)
		if decErr != nil {
			errs[ref] = fmt.Errorf("sheet=%q gid=%q: %w", ref.SheetID, ref.GID, decErr)
			delete(fresh, urls[ref])
			continue
		}
		out[ref] = t
	}

	if g.cache != nil && len(fresh) > 0 {
		if err := g.cache.PutMany(ctx, fresh); err != nil {
			log.Printf("sheet cache write failed: %v", err)
		}
	}

	if len(errs) > 0 {
		err = fmt.Errorf("%d of %d sheets failed", len(errs), len(urls))
	}

	return out, errs
}

func (g *GoogleSheetsSource) cached(hits map[string]ports.CachedSheet, u string) ([]byte, bool) {
	e, ok := hits[u]
	if !ok {
		return nil, false
	}
	if g.ttl > 0 && g.now().Sub(e.FetchedAt) > g.ttl {
		return nil, false
	}
	return e.Body, true
}
