package telemetry

// SLI metric names used for instrumentation.
const (
	// Latency
	MetricAPILatencyP50 = "api.latency.p50"
	MetricAPILatencyP95 = "api.latency.p95"
	MetricAPILatencyP99 = "api.latency.p99"

	// Throughput
	MetricRequestsPerSec = "api.requests_per_second"

	// Pipeline health
	MetricOCRSuccessRate   = "ocr.success_rate"
	MetricCaptureLatency   = "pipeline.capture_latency"
	MetricReportToDelivery = "report.arm_to_delivery_seconds"

	// Availability
	MetricUptime = "service.uptime_percentage"

	// Business
	MetricCapturesStored     = "business.captures_stored"
	MetricDuplicateRate      = "business.duplicate_rate"
	MetricUnresolvedCaptures = "business.unresolved_captures"
	MetricReportsDelivered   = "business.reports_delivered"
)
