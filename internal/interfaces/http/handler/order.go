package handler

import (
	"github.com/erp/ordering/internal/application/mediator"
	orderapp "github.com/erp/ordering/internal/application/order"
	"github.com/gin-gonic/gin"
)

// OrderHandler exposes the order commands and queries
type OrderHandler struct {
	BaseHandler
	mediator *mediator.Mediator
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(m *mediator.Mediator) *OrderHandler {
	return &OrderHandler{mediator: m}
}

// RegisterRoutes implements router.RouteRegistrar
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	orders.GET("", h.List)
	orders.GET("/:id", h.Get)
	orders.POST("", h.Create)
	orders.PUT("", h.UpdateStatus)
}

// List godoc
// @Summary      List orders
// @Description  Lists every order with its items
// @Tags         orders
// @Produce      json
// @Success      200 {object} dto.Response{data=[]orderapp.OrderView}
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	views, err := mediator.Send[[]orderapp.OrderView](c.Request.Context(), h.mediator, orderapp.GetOrders{})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, views)
}

// Get godoc
// @Summary      Get order
// @Tags         orders
// @Produce      json
// @Param        id path int true "Order ID"
// @Success      200 {object} dto.Response{data=orderapp.OrderView}
// @Failure      404 {object} dto.Response
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	view, err := mediator.Send[orderapp.OrderView](c.Request.Context(), h.mediator, orderapp.GetOrder{ID: id})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Create godoc
// @Summary      Create order
// @Description  Creates a pending order priced from the product service
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body orderapp.CreateOrder true "Order"
// @Success      201 {object} dto.Response{data=dto.IDResponse}
// @Failure      400 {object} dto.Response
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req orderapp.CreateOrder
	if !h.bindJSON(c, &req) {
		return
	}
	id, err := mediator.Send[uint](c.Request.Context(), h.mediator, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, id)
}

// UpdateStatus godoc
// @Summary      Update order status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body orderapp.UpdateOrderStatus true "Status change"
// @Success      200 {object} dto.Response{data=dto.ResultResponse}
// @Failure      404 {object} dto.Response
// @Router       /orders [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req orderapp.UpdateOrderStatus
	if !h.bindJSON(c, &req) {
		return
	}
	ok, err := mediator.Send[bool](c.Request.Context(), h.mediator, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Result(c, ok)
}
