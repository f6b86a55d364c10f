package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHTTPMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg, "test")

	router := gin.New()
	router.Use(metrics.Middleware())
	router.GET("/items/:id", func(c *gin.Context) {
		if c.Param("id") == "0" {
			c.Status(http.StatusNotFound)
			return
		}
		c.String(http.StatusOK, "ok")
	})

	for _, path := range []string{"/items/1", "/items/2", "/items/0", "/missing"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.requests.WithLabelValues("GET", "/items/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("GET", "/items/:id", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.inFlight))
	assert.Equal(t, 2, testutil.CollectAndCount(metrics.duration))
}
