package telemetry

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// TraceIDHeader carries the trace ID of a request back to the caller.
const TraceIDHeader = "X-Trace-ID"

type httpMetrics struct {
	duration metric.Float64Histogram
	active   metric.Int64UpDownCounter
}

func newHTTPMetrics() (*httpMetrics, error) {
	meter := otel.Meter(instrumentationName)

	duration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("Duration of quote API requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	active, err := meter.Int64UpDownCounter(
		"http.server.active_requests",
		metric.WithDescription("Quote API requests in flight"),
	)
	if err != nil {
		return nil, err
	}

	return &httpMetrics{duration: duration, active: active}, nil
}

// Handlers returns the otelgin tracing middleware followed by a handler that
// records request metrics and echoes the trace ID in TraceIDHeader.
func Handlers(serviceName string) []gin.HandlerFunc {
	metrics, err := newHTTPMetrics()
	if err != nil {
		otel.Handle(err)
	}

	return []gin.HandlerFunc{
		otelgin.Middleware(serviceName),
		func(c *gin.Context) {
			ctx := c.Request.Context()

			if sc := trace.SpanFromContext(ctx).SpanContext(); sc.HasTraceID() {
				c.Header(TraceIDHeader, sc.TraceID().String())
			}

			if metrics == nil {
				c.Next()
				return
			}

			route := attribute.String("http.route", c.FullPath())
			method := attribute.String("http.request.method", c.Request.Method)

			metrics.active.Add(ctx, 1, metric.WithAttributes(method, route))
			defer metrics.active.Add(ctx, -1, metric.WithAttributes(method, route))

			start := time.Now()

			c.Next()

			metrics.duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
				method, route,
				attribute.Int("http.response.status_code", c.Writer.Status()),
			))
		},
	}
}
