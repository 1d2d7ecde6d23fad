package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the trade domain
const (
	EventTypePurchaseOrderCreated   = "trade.purchase_order.created"
	EventTypePurchaseOrderCompleted = "trade.purchase_order.completed"
	EventTypePurchaseOrderCancelled = "trade.purchase_order.cancelled"
	EventTypeSaleOrderCreated       = "trade.sale_order.created"
	EventTypeSaleOrderCompleted     = "trade.sale_order.completed"
	EventTypeSaleOrderCancelled     = "trade.sale_order.cancelled"
)

// Aggregate types for trade events
const (
	AggregateTypePurchaseOrder = "PurchaseOrder"
	AggregateTypeSaleOrder     = "SaleOrder"
)

// PurchaseItemSnapshot is an immutable copy of a purchase line item, taken at
// the completion edge and carried by the settlement job.
type PurchaseItemSnapshot struct {
	ItemID        uuid.UUID       `json:"item_id"`
	ProductID     uuid.UUID       `json:"product_id"`
	BatchNumber   string          `json:"batch_number"`
	ExpiryDate    time.Time       `json:"expiry_date"`
	Quantity      int64           `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	MRP           decimal.Decimal `json:"mrp"`
	TaxPercent    decimal.Decimal `json:"tax_percent"`
	HSNCode       string          `json:"hsn_code"`
}

// SaleItemSnapshot is an immutable copy of a sale line item, taken at the
// completion edge and carried by the settlement job.
type SaleItemSnapshot struct {
	ItemID       uuid.UUID `json:"item_id"`
	StockBatchID uuid.UUID `json:"stock_batch_id"`
	ProductID    uuid.UUID `json:"product_id"`
	BatchNumber  string    `json:"batch_number"`
	Quantity     int64     `json:"quantity"`
}

// PurchaseOrderCreatedEvent is emitted when a purchase order is created
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	SupplierID    uuid.UUID `json:"supplier_id"`
	InvoiceNumber string    `json:"invoice_number"`
}

// NewPurchaseOrderCreatedEvent creates a new PurchaseOrderCreatedEvent
func NewPurchaseOrderCreatedEvent(o *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCreated, AggregateTypePurchaseOrder, o.ID),
		SupplierID:      o.SupplierID,
		InvoiceNumber:   o.InvoiceNumber,
	}
}

// PurchaseOrderCompletedEvent is the settlement job for a completed purchase:
// each item snapshot becomes a positive quantity delta on its batch.
type PurchaseOrderCompletedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID              `json:"order_id"`
	SupplierID    uuid.UUID              `json:"supplier_id"`
	InvoiceNumber string                 `json:"invoice_number"`
	Items         []PurchaseItemSnapshot `json:"items"`
}

// NewPurchaseOrderCompletedEvent creates a new PurchaseOrderCompletedEvent
func NewPurchaseOrderCompletedEvent(o *PurchaseOrder) *PurchaseOrderCompletedEvent {
	return &PurchaseOrderCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCompleted, AggregateTypePurchaseOrder, o.ID),
		OrderID:         o.ID,
		SupplierID:      o.SupplierID,
		InvoiceNumber:   o.InvoiceNumber,
		Items:           o.ItemSnapshots(),
	}
}

// PurchaseOrderCancelledEvent is emitted when a purchase order is cancelled
type PurchaseOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID `json:"order_id"`
	InvoiceNumber string    `json:"invoice_number"`
}

// NewPurchaseOrderCancelledEvent creates a new PurchaseOrderCancelledEvent
func NewPurchaseOrderCancelledEvent(o *PurchaseOrder) *PurchaseOrderCancelledEvent {
	return &PurchaseOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCancelled, AggregateTypePurchaseOrder, o.ID),
		OrderID:         o.ID,
		InvoiceNumber:   o.InvoiceNumber,
	}
}

// SaleOrderCreatedEvent is emitted when a sale order is created
type SaleOrderCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerID    uuid.UUID `json:"customer_id"`
	InvoiceNumber string    `json:"invoice_number"`
}

// NewSaleOrderCreatedEvent creates a new SaleOrderCreatedEvent
func NewSaleOrderCreatedEvent(o *SaleOrder) *SaleOrderCreatedEvent {
	return &SaleOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleOrderCreated, AggregateTypeSaleOrder, o.ID),
		CustomerID:      o.CustomerID,
		InvoiceNumber:   o.InvoiceNumber,
	}
}

// SaleOrderCompletedEvent is the settlement job for a completed sale: each
// item snapshot becomes a negative quantity delta on its batch.
type SaleOrderCompletedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID          `json:"order_id"`
	CustomerID    uuid.UUID          `json:"customer_id"`
	InvoiceNumber string             `json:"invoice_number"`
	Items         []SaleItemSnapshot `json:"items"`
}

// NewSaleOrderCompletedEvent creates a new SaleOrderCompletedEvent
func NewSaleOrderCompletedEvent(o *SaleOrder) *SaleOrderCompletedEvent {
	return &SaleOrderCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleOrderCompleted, AggregateTypeSaleOrder, o.ID),
		OrderID:         o.ID,
		CustomerID:      o.CustomerID,
		InvoiceNumber:   o.InvoiceNumber,
		Items:           o.ItemSnapshots(),
	}
}

// SaleOrderCancelledEvent is emitted when a sale order is cancelled
type SaleOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID `json:"order_id"`
	InvoiceNumber string    `json:"invoice_number"`
}

// NewSaleOrderCancelledEvent creates a new SaleOrderCancelledEvent
func NewSaleOrderCancelledEvent(o *SaleOrder) *SaleOrderCancelledEvent {
	return &SaleOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleOrderCancelled, AggregateTypeSaleOrder, o.ID),
		OrderID:         o.ID,
		InvoiceNumber:   o.InvoiceNumber,
	}
}
