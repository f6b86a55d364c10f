package logger

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const ginLoggerKey = "logger"

// GinMiddleware logs each HTTP request and carries a request-scoped logger
// and the request ID (set earlier by the RequestID middleware) into the
// request context, where handlers and the mediator pipeline pick them up
func GinMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		requestID := c.GetString("request_id")
		ctx, reqLogger := WithRequestID(c.Request.Context(), logger.With(
			zap.String("method", c.Request.Method),
			zap.String("path", path),
		), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Set(ginLoggerKey, reqLogger)

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("body_size", c.Writer.Size()),
		}
		if query != "" {
			fields = append(fields, zap.String("query", query))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}

		msg := "HTTP Request"
		switch {
		case status >= http.StatusInternalServerError:
			reqLogger.Error(msg, fields...)
		case status >= http.StatusBadRequest:
			reqLogger.Warn(msg, fields...)
		default:
			reqLogger.Info(msg, fields...)
		}
	}
}

// Recovery recovers from panics, logs them and answers 500 with the standard
// error envelope
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("Panic recovered",
					zap.String("request_id", c.GetString("request_id")),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Any("error", err),
					zap.Stack("stacktrace"),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "INTERNAL_ERROR",
						"message": "An internal error occurred",
					},
				})
			}
		}()
		c.Next()
	}
}

// GetGinLogger retrieves the request logger from gin context
func GetGinLogger(c *gin.Context) *zap.Logger {
	if l, ok := c.Get(ginLoggerKey); ok {
		if zl, ok := l.(*zap.Logger); ok {
			return zl
		}
	}
	return zap.NewNop()
}
