package metrics

import (
	"net/http"
	"time"
	"transport-report-service/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	ReportsBuilt  *prometheus.CounterVec // site label
	ReportErrors  *prometheus.CounterVec // site label
	ReportLatency prometheus.Histogram

	SheetCache    *prometheus.CounterVec // result label: hit|miss
	SheetErrors   prometheus.Counter
	SheetRetries  prometheus.Counter
	FetchDuration prometheus.Histogram

	JoinAnomalies *prometheus.CounterVec // site label

	VehicleCapacity prometheus.Gauge
}

func NewCollector(capacity int) *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		ReportsBuilt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "occupancy_reports_built_total",
			Help: "Site reports computed successfully.",
		}, []string{"site"}),
		ReportErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "occupancy_report_errors_total",
			Help: "Site reports that failed.",
		}, []string{"site"}),
		ReportLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "occupancy_report_duration_seconds",
			Help:    "Time to load tables and compute a site report.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		SheetCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "occupancy_sheet_cache_total",
			Help: "Sheet cache lookups by result.",
		}, []string{"result"}),
		SheetErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "occupancy_sheet_fetch_errors_total",
			Help: "Sheet downloads that failed after retries.",
		}),
		SheetRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "occupancy_sheet_fetch_retries_total",
			Help: "Sheet download attempts repeated after a transient failure.",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "occupancy_sheet_fetch_duration_seconds",
			Help:    "Duration of sheet export downloads.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		JoinAnomalies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "occupancy_join_anomalies_total",
			Help: "Shift rows matched by more than one occupancy group.",
		}, []string{"site"}),
		VehicleCapacity: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "occupancy_vehicle_capacity",
			Help: "Configured seats per vehicle.",
		}),
	}

	reg.MustRegister(
		c.ReportsBuilt, c.ReportErrors, c.ReportLatency,
		c.SheetCache, c.SheetErrors, c.SheetRetries, c.FetchDuration,
		c.JoinAnomalies, c.VehicleCapacity,
	)

	c.VehicleCapacity.Set(float64(capacity))

	return c
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

func (c *Collector) SheetCacheHit()  { c.SheetCache.WithLabelValues("hit").Inc() }
func (c *Collector) SheetCacheMiss() { c.SheetCache.WithLabelValues("miss").Inc() }
func (c *Collector) SheetFetchError() {
	c.SheetErrors.Inc()
}
func (c *Collector) SheetFetchRetry() { c.SheetRetries.Inc() }
func (c *Collector) SheetFetchObserve(d time.Duration) { c.FetchDuration.Observe(d.Seconds()) }

func (c *Collector) ObserveAnomaly(v domain.InvariantViolation) {
	c.JoinAnomalies.WithLabelValues(v.Site).Inc()
}

// ObserveReport records the outcome of one report build.
func (c *Collector) ObserveReport(site string, d time.Duration, err error) {
	c.ReportLatency.Observe(d.Seconds())
	if err != nil {
		c.ReportErrors.WithLabelValues(site).Inc()
		return
	}
	c.ReportsBuilt.WithLabelValues(site).Inc()
}
