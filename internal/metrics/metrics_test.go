package metrics

import (
	"errors"
	"testing"
	"time"
	"transport-report-service/internal/domain"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorObserveReport(t *testing.T) {
	c := NewCollector(20)

	c.ObserveReport("hub", 10*time.Millisecond, nil)
	c.ObserveReport("hub", 10*time.Millisecond, nil)
	c.ObserveReport("hub", 10*time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(c.ReportsBuilt.WithLabelValues("hub")); got != 2 {
		t.Fatalf("reports built = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.ReportErrors.WithLabelValues("hub")); got != 1 {
		t.Fatalf("report errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.VehicleCapacity); got != 20 {
		t.Fatalf("capacity = %v, want 20", got)
	}
}

func TestCollectorSheetAndAnomalyCounters(t *testing.T) {
	c := NewCollector(20)

	c.SheetCacheHit()
	c.SheetCacheMiss()
	c.SheetCacheMiss()
	c.SheetFetchError()
	c.SheetFetchRetry()
	c.SheetFetchRetry()
	c.ObserveAnomaly(domain.InvariantViolation{Site: "hub", Matches: 2})

	if got := testutil.ToFloat64(c.SheetCache.WithLabelValues("miss")); got != 2 {
		t.Fatalf("misses = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.SheetErrors); got != 1 {
		t.Fatalf("fetch errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.SheetRetries); got != 2 {
		t.Fatalf("fetch retries = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.JoinAnomalies.WithLabelValues("hub")); got != 1 {
		t.Fatalf("anomalies = %v, want 1", got)
	}
}
