package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestCounter counts all HTTP requests with labels
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// RequestDurationHistogram records request duration in seconds
	RequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// DbOperationDuration records store call latency
	DbOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	ProductOperationsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_product_operations_total",
			Help: "Total number of catalogue operations",
		},
		[]string{"operation", "result"},
	)

	ProductViewsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_product_views_total",
			Help: "Total number of product detail views",
		},
		[]string{"product_id", "category"},
	)

	WhatsAppSubmissionsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_whatsapp_submissions_total",
			Help: "WhatsApp number submissions by outcome",
		},
		[]string{"outcome"},
	)

	PopupDecisionsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_popup_decisions_total",
			Help: "Lead capture popup decisions",
		},
		[]string{"show"},
	)

	MediaUploadsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_media_uploads_total",
			Help: "Media uploads by bucket and result",
		},
		[]string{"bucket", "result"},
	)
)

// Register registers every collector with the given registerer
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		RequestCounter,
		RequestDurationHistogram,
		DbOperationDuration,
		ProductOperationsCounter,
		ProductViewsCounter,
		WhatsAppSubmissionsCounter,
		PopupDecisionsCounter,
		MediaUploadsCounter,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		DbOperationDuration.WithLabelValues(operationType).Observe(time.Since(startTime).Seconds())
	}
}

// RecordProductOperation increments the counter for catalogue operations
func RecordProductOperation(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	ProductOperationsCounter.WithLabelValues(operation, result).Inc()
}

// RecordProductView increments the counter for product views
func RecordProductView(productID string, category string) {
	ProductViewsCounter.WithLabelValues(productID, category).Inc()
}

// RecordWhatsAppSubmission increments the submission counter for an outcome
func RecordWhatsAppSubmission(outcome string) {
	WhatsAppSubmissionsCounter.WithLabelValues(outcome).Inc()
}

// RecordPopupDecision counts shown and suppressed popups
func RecordPopupDecision(show bool) {
	PopupDecisionsCounter.WithLabelValues(strconv.FormatBool(show)).Inc()
}

// RecordMediaUpload counts uploads per bucket
func RecordMediaUpload(bucket string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	MediaUploadsCounter.WithLabelValues(bucket, result).Inc()
}

// Middleware records HTTP request metrics
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			method := c.Request().Method
			path := c.Path()
			statusStr := strconv.Itoa(status)

			RequestCounter.WithLabelValues(method, path, statusStr).Inc()
			RequestDurationHistogram.WithLabelValues(method, path, statusStr).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// Handler returns an HTTP handler for exposing Prometheus metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
