package handler

import (
	"github.com/erp/ordering/internal/application/mediator"
	productapp "github.com/erp/ordering/internal/application/product"
	"github.com/gin-gonic/gin"
)

// Paging defaults for the product list
const (
	DefaultCurrentPage = 1
	DefaultPageSize    = 10
)

// ProductHandler exposes the product commands and queries
type ProductHandler struct {
	BaseHandler
	mediator *mediator.Mediator
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(m *mediator.Mediator) *ProductHandler {
	return &ProductHandler{mediator: m}
}

// RegisterRoutes implements router.RouteRegistrar
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.GET("", h.List)
	products.GET("/:id", h.Get)
	products.POST("", h.Create)
	products.PUT("", h.Update)
	products.PATCH("/:id/stock", h.UpdateStock)
	products.DELETE("/:id", h.Delete)
}

type pagedProductsQuery struct {
	CurrentPage *int `form:"current_page"`
	PageSize    *int `form:"page_size"`
}

type updateStockBody struct {
	Stock int `json:"stock"`
}

// List godoc
// @Summary      List products
// @Description  Returns one page of products ordered by id
// @Tags         products
// @Produce      json
// @Param        current_page query int false "Page number" default(1)
// @Param        page_size    query int false "Page size"   default(10)
// @Success      200 {object} dto.Response{data=productapp.PagedProducts}
// @Failure      400 {object} dto.Response
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var q pagedProductsQuery
	if !h.bindQuery(c, &q) {
		return
	}
	req := productapp.GetPagedProductsList{CurrentPage: DefaultCurrentPage, PageSize: DefaultPageSize}
	if q.CurrentPage != nil {
		req.CurrentPage = *q.CurrentPage
	}
	if q.PageSize != nil {
		req.PageSize = *q.PageSize
	}

	page, err := mediator.Send[productapp.PagedProducts](c.Request.Context(), h.mediator, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// Get godoc
// @Summary      Get product
// @Tags         products
// @Produce      json
// @Param        id path int true "Product ID"
// @Success      200 {object} dto.Response{data=productapp.ProductView}
// @Failure      404 {object} dto.Response
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	view, err := mediator.Send[productapp.ProductView](c.Request.Context(), h.mediator, productapp.GetProduct{ID: id})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Create godoc
// @Summary      Create product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body productapp.CreateProduct true "Product"
// @Success      201 {object} dto.Response{data=dto.IDResponse}
// @Failure      400 {object} dto.Response
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req productapp.CreateProduct
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

// Update godoc
// @Summary      Update product
// @Description  Replaces every field of a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body productapp.UpdateProduct true "Product"
// @Success      200 {object} dto.Response{data=dto.ResultResponse}
// @Failure      404 {object} dto.Response
// @Router       /products [put]
func (h *ProductHandler) Update(c *gin.Context) {
	var req productapp.UpdateProduct
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

// UpdateStock godoc
// @Summary      Update product stock
// @Description  Writes only the stock column
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path int true "Product ID"
// @Param        request body updateStockBody true "Stock"
// @Success      200 {object} dto.Response{data=dto.ResultResponse}
// @Failure      404 {object} dto.Response
// @Router       /products/{id}/stock [patch]
func (h *ProductHandler) UpdateStock(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var body updateStockBody
	if !h.bindJSON(c, &body) {
		return
	}
	req := productapp.UpdateProductStock{ID: id, Stock: body.Stock}
	done, err := mediator.Send[bool](c.Request.Context(), h.mediator, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Result(c, done)
}

// Delete godoc
// @Summary      Delete product
// @Tags         products
// @Produce      json
// @Param        id path int true "Product ID"
// @Success      200 {object} dto.Response{data=dto.ResultResponse}
// @Failure      404 {object} dto.Response
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	done, err := mediator.Send[bool](c.Request.Context(), h.mediator, productapp.DeleteProduct{ID: id})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Result(c, done)
}
