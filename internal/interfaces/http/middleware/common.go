package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID in and out
const RequestIDHeader = "X-Request-ID"

// RequestIDKey is the gin context key holding the request ID
const RequestIDKey = "request_id"

// CORSConfig holds CORS middleware configuration
type CORSConfig struct {
	AllowOrigins  []string
	AllowMethods  []string
	AllowHeaders  []string
	ExposeHeaders []string
	MaxAge        time.Duration
}

// DefaultCORSConfig returns default CORS configuration. No origin is allowed
// until one is configured.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins:  []string{},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", RequestIDHeader, "Accept", "Origin"},
		ExposeHeaders: []string{RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
}

// CORSWithConfig returns a CORS middleware. Preflight requests are always
// answered with 204; CORS headers are only set for allowed origins.
func CORSWithConfig(cfg CORSConfig) gin.HandlerFunc {
	allowWildcard := false
	for _, o := range cfg.AllowOrigins {
		if o == "*" {
			allowWildcard = true
			break
		}
	}

	allowedOrigin := func(origin string) string {
		if allowWildcard {
			return "*"
		}
		for _, o := range cfg.AllowOrigins {
			if o == origin {
				return origin
			}
		}
		return ""
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowed := allowedOrigin(origin); origin != "" && allowed != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowed)
			if allowed != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
			setCORSHeaders(c, cfg)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func setCORSHeaders(c *gin.Context, cfg CORSConfig) {
	h := c.Writer.Header()
	h.Set("Access-Control-Allow-Headers", strings.Join(cfg.AllowHeaders, ", "))
	h.Set("Access-Control-Allow-Methods", strings.Join(cfg.AllowMethods, ", "))
	if len(cfg.ExposeHeaders) > 0 {
		h.Set("Access-Control-Expose-Headers", strings.Join(cfg.ExposeHeaders, ", "))
	}
	if cfg.MaxAge > 0 {
		h.Set("Access-Control-Max-Age", strconv.Itoa(int(cfg.MaxAge.Seconds())))
	}
}

// RequestID reuses the caller's X-Request-ID or assigns a new UUID, and
// echoes it on the response
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID returns the request ID assigned by RequestID
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// Secure adds the basic security headers to every response
func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}
