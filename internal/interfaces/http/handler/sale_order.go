package handler

import (
	"github.com/gin-gonic/gin"
	tradeapp "github.com/pharmstock/backend/internal/application/trade"
)

// SaleOrderHandler handles sale order API endpoints
type SaleOrderHandler struct {
	BaseHandler
	orderService *tradeapp.SaleOrderService
}

// NewSaleOrderHandler creates a new SaleOrderHandler
func NewSaleOrderHandler(orderService *tradeapp.SaleOrderService) *SaleOrderHandler {
	return &SaleOrderHandler{orderService: orderService}
}

// Create handles POST /api/v1/sale-orders
func (h *SaleOrderHandler) Create(c *gin.Context) {
	var req tradeapp.CreateSaleOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// Get handles GET /api/v1/sale-orders/:id
func (h *SaleOrderHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "invalid order ID")
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// List handles GET /api/v1/sale-orders
func (h *SaleOrderHandler) List(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		h.BadRequest(c, "invalid query parameters")
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if customerID := c.Query("customer_id"); customerID != "" {
		filter.Filters["customer_id"] = customerID
	}

	page, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// UpdateStatus handles PATCH /api/v1/sale-orders/:id/status
func (h *SaleOrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "invalid order ID")
		return
	}
	var req tradeapp.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// RemoveItem handles DELETE /api/v1/sale-orders/:id/items/:itemID
func (h *SaleOrderHandler) RemoveItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "invalid order ID")
		return
	}
	itemID, ok := parseItemID(c)
	if !ok {
		h.BadRequest(c, "invalid item ID")
		return
	}

	order, err := h.orderService.RemoveItem(c.Request.Context(), id, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Delete handles DELETE /api/v1/sale-orders/:id
func (h *SaleOrderHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "invalid order ID")
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
