package handler

import (
	"github.com/gin-gonic/gin"
	settlementapp "github.com/pharmstock/backend/internal/application/settlement"
	"github.com/pharmstock/backend/internal/domain/settlement"
)

// SettlementHandler exposes settlement records for inspection and
// reconciliation
type SettlementHandler struct {
	BaseHandler
	settlementService *settlementapp.SettlementService
}

// NewSettlementHandler creates a new SettlementHandler
func NewSettlementHandler(settlementService *settlementapp.SettlementService) *SettlementHandler {
	return &SettlementHandler{settlementService: settlementService}
}

// GetByOrder handles GET /api/v1/settlements/:kind/:id
func (h *SettlementHandler) GetByOrder(c *gin.Context) {
	var kind settlement.OrderKind
	switch c.Param("kind") {
	case "purchase":
		kind = settlement.OrderKindPurchase
	case "sale":
		kind = settlement.OrderKindSale
	default:
		h.BadRequest(c, "kind must be purchase or sale")
		return
	}

	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "invalid order ID")
		return
	}

	record, err := h.settlementService.GetByOrder(c.Request.Context(), kind, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// ListUnreconciled handles GET /api/v1/settlements/unreconciled
func (h *SettlementHandler) ListUnreconciled(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		h.BadRequest(c, "invalid query parameters")
		return
	}

	page, err := h.settlementService.ListUnreconciled(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
