package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/erp/ordering/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// HealthHandler reports service liveness and the state of its dependencies
type HealthHandler struct {
	service   string
	startTime time.Time
	timeout   time.Duration
	checks    map[string]HealthCheck
}

// HealthResponse is the body of /health
type HealthResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Uptime  string            `json:"uptime"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// NewHealthHandler creates a health handler for service
func NewHealthHandler(service string) *HealthHandler {
	return &HealthHandler{
		service:   service,
		startTime: time.Now(),
		timeout:   2 * time.Second,
		checks:    make(map[string]HealthCheck),
	}
}

// AddCheck registers a named dependency probe
func (h *HealthHandler) AddCheck(name string, check HealthCheck) *HealthHandler {
	h.checks[name] = check
	return h
}

// Health godoc
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=HealthResponse}
// @Failure      503 {object} dto.Response{data=HealthResponse}
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	resp := HealthResponse{
		Status:  "healthy",
		Service: h.service,
		Uptime:  time.Since(h.startTime).Round(time.Second).String(),
	}

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	if len(names) > 0 {
		resp.Checks = make(map[string]string, len(names))
	}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "unhealthy"
			continue
		}
		resp.Checks[name] = "ok"
	}

	if resp.Status != "healthy" {
		c.JSON(http.StatusServiceUnavailable, dto.Response{Success: false, Data: resp})
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
