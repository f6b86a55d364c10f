package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Tracing returns OpenTelemetry middleware that opens a server span per
// request, named after the matched route, followed by a step that tags the
// span with the request ID
func Tracing(serviceName string) []gin.HandlerFunc {
	return []gin.HandlerFunc{otelgin.Middleware(serviceName), traceRequestID}
}

// traceRequestID must run inside the otelgin span
func traceRequestID(c *gin.Context) {
	span := trace.SpanFromContext(c.Request.Context())
	if span.IsRecording() {
		if id := GetRequestID(c); id != "" {
			span.SetAttributes(attribute.String("request_id", id))
		}
	}
	c.Next()
}
