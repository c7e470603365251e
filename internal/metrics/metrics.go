// file: internal/metrics/metrics.go
// version: 2.0.0
// guid: 18ad8956-68f5-4cad-9741-976645a92307

package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "library_catalog"

var (
	registerOnce sync.Once

	booksCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "books_created_total",
		Help:      "Total number of books added to the catalog",
	})
	duplicatesRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "books_duplicate_rejected_total",
		Help:      "Total number of book creations rejected for an already registered catalog number",
	})
	loansCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loans_created_total",
		Help:      "Total number of loans recorded",
	})
	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Histogram of HTTP request durations in seconds by route and status",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms up to ~4s
	}, []string{"method", "route", "status"})

	booksGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "books_total",
		Help:      "Current total number of books in the catalog",
	})
	memoryAllocGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "process_memory_alloc_bytes",
		Help:      "Current process memory allocation (runtime.Alloc)",
	})
	goroutinesGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "process_goroutines",
		Help:      "Number of currently running goroutines",
	})
)

// Register initializes metrics with the global Prometheus registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(booksCreated, duplicatesRejected, loansCreated, requestDuration,
			booksGauge, memoryAllocGauge, goroutinesGauge)
	})
}

// Catalog event helpers
func IncBooksCreated()       { booksCreated.Inc() }
func IncDuplicatesRejected() { duplicatesRejected.Inc() }
func IncLoansCreated()       { loansCreated.Inc() }

// ObserveRequest records one HTTP request. route is the matched route pattern.
func ObserveRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Gauges
func SetBooks(n int)          { booksGauge.Set(float64(n)) }
func SetMemoryAlloc(b uint64) { memoryAllocGauge.Set(float64(b)) }
func SetGoroutines(n int)     { goroutinesGauge.Set(float64(n)) }
