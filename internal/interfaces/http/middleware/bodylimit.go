package middleware

import (
	"net/http"

	"github.com/erp/ordering/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// DefaultBodyLimit bounds request bodies when no limit is configured
const DefaultBodyLimit int64 = 1 << 20

// BodyLimit returns a middleware that limits request body size
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = DefaultBodyLimit
	}
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRequestTooLarge,
				"Request body exceeds maximum allowed size",
				GetRequestID(c),
			))
			return
		}

		// streamed bodies without a Content-Length are cut off while reading
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
