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
		Namespace: "geocapture",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "geocapture",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "geocapture",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Pipeline metrics
	CapturesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geocapture",
		Subsystem: "pipeline",
		Name:      "captures_processed_total",
		Help:      "Total photo submissions processed, by terminal status",
	}, []string{"status"})

	DuplicatesSuppressed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "geocapture",
		Subsystem: "pipeline",
		Name:      "duplicates_suppressed_total",
		Help:      "Total submissions suppressed by the dedup guard",
	})

	OCRAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "geocapture",
		Subsystem: "ocr",
		Name:      "attempts_total",
		Help:      "Total OCR engine invocations, including retries",
	})

	OCRFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "geocapture",
		Subsystem: "ocr",
		Name:      "failures_total",
		Help:      "Total OCR engine invocations that returned an error",
	})

	ReportsRendered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "geocapture",
		Subsystem: "report",
		Name:      "rendered_total",
		Help:      "Total map reports rendered",
	})

	ReportRenderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "geocapture",
		Subsystem: "report",
		Name:      "render_duration_seconds",
		Help:      "Duration of map report rendering",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	ReportDeliveryErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "geocapture",
		Subsystem: "report",
		Name:      "delivery_errors_total",
		Help:      "Total report deliveries that failed",
	})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "geocapture",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geocapture",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geocapture",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})
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

// Handler returns a Fiber handler serving the Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
