package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "biogrid",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "biogrid",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "biogrid",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Aggregation metrics
	ReportsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "biogrid",
		Subsystem: "reports",
		Name:      "generated_total",
		Help:      "Total reports generated",
	})

	SitesEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "biogrid",
		Subsystem: "reports",
		Name:      "sites_emitted_total",
		Help:      "Total unique-site rows emitted",
	})

	SequenceKeysEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "biogrid",
		Subsystem: "reports",
		Name:      "sequence_keys_emitted_total",
		Help:      "Total sequence aggregation rows emitted",
	})

	AggregationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "biogrid",
		Subsystem: "reports",
		Name:      "aggregation_duration_seconds",
		Help:      "Time spent aggregating observation mappings",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})

	GridCells = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "biogrid",
		Subsystem: "grid",
		Name:      "cells",
		Help:      "Number of cells produced per subdivision",
		Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 500},
	}, []string{"axis"})

	BatchesIngested = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "biogrid",
		Subsystem: "batches",
		Name:      "ingested_total",
		Help:      "Total observation batches ingested",
	})

	ObservationsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "biogrid",
		Subsystem: "batches",
		Name:      "observations_ingested_total",
		Help:      "Total observations ingested across all batches",
	})

	ExportFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "biogrid",
		Subsystem: "export",
		Name:      "failures_total",
		Help:      "Total report exports that could not be written",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "biogrid",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "biogrid",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})

	// Database pool metrics
	DBPoolConnsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "biogrid",
		Subsystem: "db",
		Name:      "pool_conns_open",
		Help:      "Total connections open in the database pool",
	})

	DBPoolConnsAcquired = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "biogrid",
		Subsystem: "db",
		Name:      "pool_conns_acquired",
		Help:      "Connections currently acquired from the database pool",
	})

	DBPoolConnsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "biogrid",
		Subsystem: "db",
		Name:      "pool_conns_idle",
		Help:      "Idle connections in the database pool",
	})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}

// PoolStat is the subset of pgxpool.Stat read by UpdateDBPoolMetrics.
type PoolStat interface {
	AcquiredConns() int32
	IdleConns() int32
	TotalConns() int32
}

// UpdateDBPoolMetrics copies pool statistics into the db gauges.
func UpdateDBPoolMetrics(s PoolStat) {
	DBPoolConnsAcquired.Set(float64(s.AcquiredConns()))
	DBPoolConnsIdle.Set(float64(s.IdleConns()))
	DBPoolConnsOpen.Set(float64(s.TotalConns()))
}
