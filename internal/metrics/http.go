package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// HTTPMetricsMiddleware records request counts and durations for every route.
// If instrument creation fails the middleware degrades to a no-op rather than
// blocking the server from starting.
func HTTPMetricsMiddleware(meterProvider *metric.MeterProvider, namespace string) gin.HandlerFunc {
	meter := meterProvider.Meter("http")

	requestCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_http_requests_total", namespace),
		otelmetric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return func(c *gin.Context) { c.Next() }
	}

	requestDuration, err := meter.Float64Histogram(
		fmt.Sprintf("%s_http_request_duration_seconds", namespace),
		otelmetric.WithDescription("HTTP request duration in seconds"),
	)
	if err != nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		attrs := otelmetric.WithAttributes(
			attribute.String("method", c.Request.Method),
			attribute.String("path", sanitizePath(c)),
			attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
		)

		ctx := c.Request.Context()
		requestCounter.Add(ctx, 1, attrs)
		requestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	}
}

// sanitizePath returns the route template rather than the raw URL, keeping
// metric cardinality bounded.
func sanitizePath(c *gin.Context) string {
	if path := c.FullPath(); path != "" {
		return path
	}
	return "unknown"
}
