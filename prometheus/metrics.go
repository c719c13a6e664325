package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// OTP login flow counters
	OTPRequestCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "menuqr_otp_requests_total",
			Help: "Total number of OTP login requests",
		},
	)

	OTPVerifyCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "menuqr_otp_verifications_total",
			Help: "Total number of OTP verification attempts",
		},
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menuqr_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // type can be "invalid_otp", "invalid_token", "delivery_failed" etc.
	)

	// Menu operation counter
	MenuOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menuqr_menu_operations_total",
			Help: "Total number of menu catalog operations",
		},
		[]string{"operation"}, // operation can be "list", "add", "update", "delete"
	)

	// Vendor profile operation counter
	VendorOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menuqr_vendor_operations_total",
			Help: "Total number of vendor profile operations",
		},
		[]string{"operation"},
	)

	// Public traffic counters
	PublicMenuCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "menuqr_public_menu_requests_total",
			Help: "Total number of public menu page requests",
		},
	)

	QRGeneratedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "menuqr_qr_generated_total",
			Help: "Total number of QR code images generated",
		},
	)

	AnalyticsEventCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menuqr_analytics_events_total",
			Help: "Total number of analytics events recorded",
		},
		[]string{"event_type"},
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menuqr_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "menuqr_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "menuqr_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // operation can be "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	// Active tokens
	ActiveTokensGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "menuqr_active_tokens",
			Help: "Number of session tokens issued and not yet expired",
		},
	)

	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "menuqr_info",
			Help: "Information about the menu publishing service",
		},
		[]string{"version"},
	)
)

func init() {
	// Register counters
	prometheus.MustRegister(OTPRequestCounter)
	prometheus.MustRegister(OTPVerifyCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(MenuOperationCounter)
	prometheus.MustRegister(VendorOperationCounter)
	prometheus.MustRegister(PublicMenuCounter)
	prometheus.MustRegister(QRGeneratedCounter)
	prometheus.MustRegister(AnalyticsEventCounter)
	prometheus.MustRegister(HTTPRequestCounter)

	// Register histograms
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	// Register gauges
	prometheus.MustRegister(ActiveTokensGauge)
	prometheus.MustRegister(InfoGauge)

	// Set initial service info
	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Execute the request handler
			err := next(c)

			// Record request duration
			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			// Record metrics
			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}

// IncreaseActiveTokens increments the active tokens gauge
func IncreaseActiveTokens() {
	ActiveTokensGauge.Inc()
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordMenuOperation records a menu catalog operation
func RecordMenuOperation(operation string) {
	MenuOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordVendorOperation records a vendor profile operation
func RecordVendorOperation(operation string) {
	VendorOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordAnalyticsEvent records a tracked analytics event by type
func RecordAnalyticsEvent(eventType string) {
	AnalyticsEventCounter.With(prometheus.Labels{"event_type": eventType}).Inc()
}
