package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry so several collectors can coexist in
// tests. A nil *Collector is a valid no-op recorder.
type Collector struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	reportsTotal    *prometheus.CounterVec
	reportDuration  prometheus.Histogram
	cacheLookups    *prometheus.CounterVec
	exportsTotal    *prometheus.CounterVec
	exportBytes     prometheus.Histogram
	jobRuns         *prometheus.CounterVec
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hrinsight_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hrinsight_http_request_duration_seconds",
			Help:    "HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		reportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hrinsight_reports_generated_total",
			Help: "Consolidated reports composed from source rows.",
		}, []string{"source"}),
		reportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hrinsight_report_duration_seconds",
			Help:    "Time spent composing a consolidated report.",
			Buckets: prometheus.DefBuckets,
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hrinsight_report_cache_lookups_total",
			Help: "Report cache lookups by result.",
		}, []string{"result"}),
		exportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hrinsight_report_exports_total",
			Help: "Rendered report exports by format.",
		}, []string{"format"}),
		exportBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hrinsight_report_export_bytes",
			Help:    "Size of rendered report exports.",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hrinsight_job_runs_total",
			Help: "Background job runs by type and status.",
		}, []string{"job_type", "status"}),
	}
	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.requestsTotal,
		c.requestDuration,
		c.reportsTotal,
		c.reportDuration,
		c.cacheLookups,
		c.exportsTotal,
		c.exportBytes,
		c.jobRuns,
	)
	return c
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Record(method, route string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	c.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func (c *Collector) ReportGenerated(source string, duration time.Duration) {
	if c == nil {
		return
	}
	c.reportsTotal.WithLabelValues(source).Inc()
	c.reportDuration.Observe(duration.Seconds())
}

func (c *Collector) CacheLookup(hit bool) {
	if c == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookups.WithLabelValues(result).Inc()
}

func (c *Collector) ExportRendered(format string, size int) {
	if c == nil {
		return
	}
	c.exportsTotal.WithLabelValues(format).Inc()
	c.exportBytes.Observe(float64(size))
}

func (c *Collector) JobFinished(jobType, status string) {
	if c == nil {
		return
	}
	c.jobRuns.WithLabelValues(jobType, status).Inc()
}
