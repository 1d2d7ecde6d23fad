package handler

import (
	"github.com/gin-gonic/gin"
	partnerapp "github.com/pharmstock/backend/internal/application/partner"
)

// PartnerHandler handles supplier and customer API endpoints
type PartnerHandler struct {
	BaseHandler
	partnerService *partnerapp.PartnerService
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(partnerService *partnerapp.PartnerService) *PartnerHandler {
	return &PartnerHandler{partnerService: partnerService}
}

// CreateSupplier handles POST /api/v1/suppliers
func (h *PartnerHandler) CreateSupplier(c *gin.Context) {
	var req partnerapp.UpsertPartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	supplier, err := h.partnerService.CreateSupplier(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, supplier)
}

// GetSupplier handles GET /api/v1/suppliers/:id
func (h *PartnerHandler) GetSupplier(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "invalid supplier ID")
		return
	}

	supplier, err := h.partnerService.GetSupplier(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// ListSuppliers handles GET /api/v1/suppliers
func (h *PartnerHandler) ListSuppliers(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		h.BadRequest(c, "invalid query parameters")
		return
	}

	page, err := h.partnerService.ListSuppliers(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// UpdateSupplier handles PUT /api/v1/suppliers/:id
func (h *PartnerHandler) UpdateSupplier(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "invalid supplier ID")
		return
	}
	var req partnerapp.UpsertPartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	supplier, err := h.partnerService.UpdateSupplier(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// DeleteSupplier handles DELETE /api/v1/suppliers/:id
func (h *PartnerHandler) DeleteSupplier(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "invalid supplier ID")
		return
	}

	if err := h.partnerService.DeleteSupplier(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateCustomer handles POST /api/v1/customers
func (h *PartnerHandler) CreateCustomer(c *gin.Context) {
	var req partnerapp.UpsertPartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.partnerService.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// GetCustomer handles GET /api/v1/customers/:id
func (h *PartnerHandler) GetCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "invalid customer ID")
		return
	}

	customer, err := h.partnerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// ListCustomers handles GET /api/v1/customers
func (h *PartnerHandler) ListCustomers(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		h.BadRequest(c, "invalid query parameters")
		return
	}

	page, err := h.partnerService.ListCustomers(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// UpdateCustomer handles PUT /api/v1/customers/:id
func (h *PartnerHandler) UpdateCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "invalid customer ID")
		return
	}
	var req partnerapp.UpsertPartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.partnerService.UpdateCustomer(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// DeleteCustomer handles DELETE /api/v1/customers/:id
func (h *PartnerHandler) DeleteCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "invalid customer ID")
		return
	}

	if err := h.partnerService.DeleteCustomer(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
