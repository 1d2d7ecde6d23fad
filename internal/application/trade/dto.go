package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// ==================== Purchase order DTOs ====================

// CreatePurchaseOrderRequest creates a purchase order in Pending status
type CreatePurchaseOrderRequest struct {
	SupplierID    uuid.UUID                      `json:"supplier_id" binding:"required"`
	InvoiceNumber string                         `json:"invoice_number" binding:"required,min=1,max=100"`
	OrderDate     time.Time                      `json:"order_date" binding:"required"`
	Items         []CreatePurchaseOrderItemInput `json:"items" binding:"required,min=1,dive"`
}

// CreatePurchaseOrderItemInput is one line of a purchase order. The batch
// description is carried in full so settlement can create the batch later.
type CreatePurchaseOrderItemInput struct {
	ProductID     uuid.UUID        `json:"product_id" binding:"required"`
	BatchNumber   string           `json:"batch_number" binding:"required,min=1,max=100"`
	ExpiryDate    time.Time        `json:"expiry_date" binding:"required"`
	Quantity      int64            `json:"quantity" binding:"required,gt=0"`
	PurchasePrice decimal.Decimal  `json:"purchase_price" binding:"required"`
	SalePrice     decimal.Decimal  `json:"sale_price" binding:"required"`
	MRP           decimal.Decimal  `json:"mrp" binding:"required"`
	TaxPercent    *decimal.Decimal `json:"tax_percent"`
	HSNCode       string           `json:"hsn_code" binding:"max=15"`
}

// UpdateItemQuantityRequest changes the quantity of a pending order's line item
type UpdateItemQuantityRequest struct {
	Quantity int64 `json:"quantity" binding:"required,gt=0"`
}

// UpdateOrderStatusRequest moves an order along its status state machine
type UpdateOrderStatusRequest struct {
	Status trade.OrderStatus `json:"status" binding:"required,orderstatus"`
}

// PurchaseOrderItemResponse is the API shape of a purchase order line item
type PurchaseOrderItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	BatchNumber   string          `json:"batch_number"`
	ExpiryDate    time.Time       `json:"expiry_date"`
	Quantity      int64           `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	MRP           decimal.Decimal `json:"mrp"`
	TaxPercent    decimal.Decimal `json:"tax_percent"`
	HSNCode       string          `json:"hsn_code"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}

// PurchaseOrderResponse is the API shape of a purchase order
type PurchaseOrderResponse struct {
	ID            uuid.UUID                   `json:"id"`
	SupplierID    uuid.UUID                   `json:"supplier_id"`
	InvoiceNumber string                      `json:"invoice_number"`
	OrderDate     time.Time                   `json:"order_date"`
	Status        trade.OrderStatus           `json:"status"`
	TotalAmount   decimal.Decimal             `json:"total_amount"`
	Items         []PurchaseOrderItemResponse `json:"items"`
	CompletedAt   *time.Time                  `json:"completed_at,omitempty"`
	CancelledAt   *time.Time                  `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

// ToPurchaseOrderResponse converts a domain purchase order to its API shape
func ToPurchaseOrderResponse(o *trade.PurchaseOrder) PurchaseOrderResponse {
	items := make([]PurchaseOrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = PurchaseOrderItemResponse{
			ID:            item.ID,
			ProductID:     item.ProductID,
			BatchNumber:   item.BatchNumber,
			ExpiryDate:    item.ExpiryDate,
			Quantity:      item.Quantity,
			PurchasePrice: item.PurchasePrice,
			SalePrice:     item.SalePrice,
			MRP:           item.MRP,
			TaxPercent:    item.TaxPercent,
			HSNCode:       item.HSNCode,
			TotalPrice:    item.TotalPrice,
		}
	}
	return PurchaseOrderResponse{
		ID:            o.ID,
		SupplierID:    o.SupplierID,
		InvoiceNumber: o.InvoiceNumber,
		OrderDate:     o.OrderDate,
		Status:        o.Status,
		TotalAmount:   o.TotalAmount,
		Items:         items,
		CompletedAt:   o.CompletedAt,
		CancelledAt:   o.CancelledAt,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

// ToPurchaseOrderResponses converts a slice of domain purchase orders
func ToPurchaseOrderResponses(orders []trade.PurchaseOrder) []PurchaseOrderResponse {
	out := make([]PurchaseOrderResponse, len(orders))
	for i := range orders {
		out[i] = ToPurchaseOrderResponse(&orders[i])
	}
	return out
}

// ==================== Sale order DTOs ====================

// CreateSaleOrderRequest creates a sale order in Pending status. The invoice
// number is generated server-side.
type CreateSaleOrderRequest struct {
	CustomerID uuid.UUID                  `json:"customer_id" binding:"required"`
	OrderDate  time.Time                  `json:"order_date" binding:"required"`
	Items      []CreateSaleOrderItemInput `json:"items" binding:"required,min=1,dive"`
}

// CreateSaleOrderItemInput is one line of a sale order, selling from an
// existing stock batch
type CreateSaleOrderItemInput struct {
	StockBatchID uuid.UUID `json:"stock_batch_id" binding:"required"`
	Quantity     int64     `json:"quantity" binding:"required,gt=0"`
}

// SaleOrderItemResponse is the API shape of a sale order line item
type SaleOrderItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	StockBatchID uuid.UUID       `json:"stock_batch_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	BatchNumber  string          `json:"batch_number"`
	Quantity     int64           `json:"quantity"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	TaxPercent   decimal.Decimal `json:"tax_percent"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

// SaleOrderResponse is the API shape of a sale order
type SaleOrderResponse struct {
	ID            uuid.UUID               `json:"id"`
	CustomerID    uuid.UUID               `json:"customer_id"`
	InvoiceNumber string                  `json:"invoice_number"`
	OrderDate     time.Time               `json:"order_date"`
	Status        trade.OrderStatus       `json:"status"`
	TotalAmount   decimal.Decimal         `json:"total_amount"`
	Items         []SaleOrderItemResponse `json:"items"`
	CompletedAt   *time.Time              `json:"completed_at,omitempty"`
	CancelledAt   *time.Time              `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

// ToSaleOrderResponse converts a domain sale order to its API shape
func ToSaleOrderResponse(o *trade.SaleOrder) SaleOrderResponse {
	items := make([]SaleOrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = SaleOrderItemResponse{
			ID:           item.ID,
			StockBatchID: item.StockBatchID,
			ProductID:    item.ProductID,
			BatchNumber:  item.BatchNumber,
			Quantity:     item.Quantity,
			SalePrice:    item.SalePrice,
			TaxPercent:   item.TaxPercent,
			TotalPrice:   item.TotalPrice,
		}
	}
	return SaleOrderResponse{
		ID:            o.ID,
		CustomerID:    o.CustomerID,
		InvoiceNumber: o.InvoiceNumber,
		OrderDate:     o.OrderDate,
		Status:        o.Status,
		TotalAmount:   o.TotalAmount,
		Items:         items,
		CompletedAt:   o.CompletedAt,
		CancelledAt:   o.CancelledAt,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

// ToSaleOrderResponses converts a slice of domain sale orders
func ToSaleOrderResponses(orders []trade.SaleOrder) []SaleOrderResponse {
	out := make([]SaleOrderResponse, len(orders))
	for i := range orders {
		out[i] = ToSaleOrderResponse(&orders[i])
	}
	return out
}
