package sheets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
	"transport-report-service/internal/adapters/cache"
	"transport-report-service/internal/domain"
)

const rosterCSV = "Chauffeur,Shift,Distance,Durée\nOmar,S1,12 km,1h30min\n"

type countingMetrics struct {
	hits, misses, errs, retries, fetches atomic.Int64
}

func (m *countingMetrics) SheetCacheHit()                  { m.hits.Add(1) }
func (m *countingMetrics) SheetCacheMiss()                 { m.misses.Add(1) }
func (m *countingMetrics) SheetFetchError()                { m.errs.Add(1) }
func (m *countingMetrics) SheetFetchRetry()                { m.retries.Add(1) }
func (m *countingMetrics) SheetFetchObserve(time.Duration) { m.fetches.Add(1) }

func newSheetServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int64) {
	t.Helper()

	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestExportURL(t *testing.T) {
	g := NewGoogleSheetsSource(nil, 0, WithBaseURL("https://sheets.example/"))

	got := g.ExportURL(domain.SheetRef{SheetID: "abc", GID: "42"})
	want := "https://sheets.example/spreadsheets/d/abc/export?format=csv&gid=42"
	if got != want {
		t.Fatalf("ExportURL = %q, want %q", got, want)
	}

	got = g.ExportURL(domain.SheetRef{SheetID: "abc", GID: "7", Format: domain.FormatXLSX})
	want = "https://sheets.example/spreadsheets/d/abc/export?format=xlsx&gid=7"
	if got != want {
		t.Fatalf("ExportURL = %q, want %q", got, want)
	}
}

func TestFetchTableUsesCache(t *testing.T) {
	srv, calls := newSheetServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/spreadsheets/d/abc/export" || r.URL.Query().Get("gid") != "0" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(rosterCSV))
	})

	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	m := &countingMetrics{}
	g := NewGoogleSheetsSource(
		cache.NewMemorySheetCache(16, 0),
		10*time.Minute,
		WithBaseURL(srv.URL),
		WithMetrics(m),
		withClock(func() time.Time { return now }),
	)
	ref := domain.SheetRef{SheetID: "abc", GID: "0"}

	for i := 0; i < 2; i++ {
		table, err := g.FetchTable(context.Background(), ref)
		if err != nil {
			t.Fatalf("fetch %d: unexpected error: %v", i, err)
		}
		if len(table.Rows) != 1 || table.Rows[0][0] != "Omar" {
			t.Fatalf("fetch %d: rows = %q", i, table.Rows)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("server calls = %d, want 1", got)
	}
	if m.hits.Load() != 1 || m.misses.Load() != 1 {
		t.Fatalf("hits=%d misses=%d, want 1 and 1", m.hits.Load(), m.misses.Load())
	}

	// Past the TTL the export is downloaded again.
	now = now.Add(11 * time.Minute)
	if _, err := g.FetchTable(context.Background(), ref); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("server calls = %d, want 2 after expiry", got)
	}
}

func TestFetchTableRetriesTransientErrors(t *testing.T) {
	var n atomic.Int64
	srv, calls := newSheetServer(t, func(w http.ResponseWriter, r *http.Request) {
		if n.Add(1) <= 2 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(rosterCSV))
	})

	g := NewGoogleSheetsSource(nil, 0, WithBaseURL(srv.URL), WithRetry(4, time.Millisecond))

	if _, err := g.FetchTable(context.Background(), domain.SheetRef{SheetID: "abc", GID: "0"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("server calls = %d, want 3", got)
	}
}

func TestFetchTableDoesNotRetryClientErrors(t *testing.T) {
	srv, calls := newSheetServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no access", http.StatusForbidden)
	})

	m := &countingMetrics{}
	g := NewGoogleSheetsSource(nil, 0, WithBaseURL(srv.URL), WithRetry(4, time.Millisecond), WithMetrics(m))

	_, err := g.FetchTable(context.Background(), domain.SheetRef{SheetID: "abc", GID: "0"})

	var he *httpStatusError
	if !errors.As(err, &he) || he.Code != http.StatusForbidden {
		t.Fatalf("err = %v, want 403 status error", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("server calls = %d, want 1", got)
	}
	if m.errs.Load() != 1 {
		t.Fatalf("fetch errors = %d, want 1", m.errs.Load())
	}
}

func TestFetchTablesPartialFailure(t *testing.T) {
	srv, _ := newSheetServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("gid") == "404" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(rosterCSV))
	})

	g := NewGoogleSheetsSource(nil, 0, WithBaseURL(srv.URL), WithRetry(1, 0))
	ok := domain.SheetRef{SheetID: "abc", GID: "0"}
	bad := domain.SheetRef{SheetID: "abc", GID: "404"}

	tables, errs := g.FetchTables(context.Background(), []domain.SheetRef{ok, bad, ok, {}})

	if _, found := tables[ok]; !found {
		t.Fatalf("missing table for %+v", ok)
	}
	if _, found := errs[bad]; !found {
		t.Fatalf("missing error for %+v", bad)
	}
	if _, found := errs[domain.SheetRef{}]; !found {
		t.Fatalf("missing error for zero ref")
	}
	if len(tables) != 1 || len(errs) != 2 {
		t.Fatalf("tables=%d errs=%d, want 1 and 2", len(tables), len(errs))
	}
}

func TestFetchTableCancelled(t *testing.T) {
	srv, calls := newSheetServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(rosterCSV))
	})

	g := NewGoogleSheetsSource(nil, 0, WithBaseURL(srv.URL))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := g.FetchTable(ctx, domain.SheetRef{SheetID: "abc", GID: "0"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if got := calls.Load(); got != 0 {
		t.Fatalf("server calls = %d, want 0", got)
	}
}

func TestFetchTableHonoursRetryAfter(t *testing.T) {
	var n atomic.Int64
	srv, calls := newSheetServer(t, func(w http.ResponseWriter, r *http.Request) {
		if n.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(rosterCSV))
	})

	m := &countingMetrics{}
	// The configured backoff would outlast the deadline; only Retry-After lets this pass.
	g := NewGoogleSheetsSource(nil, 0, WithBaseURL(srv.URL), WithRetry(3, time.Hour), WithMetrics(m))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := g.FetchTable(ctx, domain.SheetRef{SheetID: "abc", GID: "0"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("server calls = %d, want 2", got)
	}
	if got := m.retries.Load(); got != 1 {
		t.Fatalf("retries = %d, want 1", got)
	}
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		in     string
		want   time.Duration
		wantOK bool
	}{
		{"", 0, false},
		{"0", 0, true},
		{"7", 7 * time.Second, true},
		{"3600", maxRetryAfter, true},
		{"-1", 0, false},
		{"soon", 0, false},
		{now.Add(5 * time.Second).Format(http.TimeFormat), 5 * time.Second, true},
		{now.Add(-time.Minute).Format(http.TimeFormat), 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := parseRetryAfter(tc.in, now)
			if got != tc.want || ok != tc.wantOK {
				t.Errorf("parseRetryAfter(%q) = %v, %v, want %v, %v", tc.in, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}
