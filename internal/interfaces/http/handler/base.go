package handler

import (
	"net/http"

	"github.com/erp/ordering/internal/infrastructure/logger"
	"github.com/erp/ordering/internal/interfaces/http/dto"
	"github.com/erp/ordering/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// idParam binds the :id path segment. Range checks are left to the
// request validators.
type idParam struct {
	ID uint `uri:"id"`
}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 response carrying the new resource id
func (h *BaseHandler) Created(c *gin.Context, id uint) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.IDResponse{ID: id}))
}

// Result sends a 200 response carrying a command outcome
func (h *BaseHandler) Result(c *gin.Context, ok bool) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ResultResponse{Result: ok}))
}

// HandleError converts an error from the mediator into an error response
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	status, resp := dto.FromError(err, middleware.GetRequestID(c))
	if status >= http.StatusInternalServerError {
		logger.GetGinLogger(c).Error("Request failed", zap.Error(err))
	}
	c.JSON(status, resp)
}

// bindID binds the :id path segment, answering 400 when it is not a number
func (h *BaseHandler) bindID(c *gin.Context) (uint, bool) {
	var p idParam
	if err := c.ShouldBindUri(&p); err != nil {
		middleware.HandleBindingError(c, err)
		return 0, false
	}
	return p.ID, true
}

// bindJSON binds the request body, answering 400 when it is malformed
func (h *BaseHandler) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		middleware.HandleBindingError(c, err)
		return false
	}
	return true
}

// bindQuery binds the query string, answering 400 when it is malformed
func (h *BaseHandler) bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		middleware.HandleBindingError(c, err)
		return false
	}
	return true
}
