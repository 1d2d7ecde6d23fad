package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/inventory"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SaleOrderItem is a line item on a sale order. It references one stock batch
// and freezes the batch's sale price and tax rate at creation time, so later
// batch price changes do not move an already-recorded sale.
type SaleOrderItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	StockBatchID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null"`
	BatchNumber  string          `gorm:"size:100;not null"`
	Quantity     int64           `gorm:"not null"`
	SalePrice    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TaxPercent   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for GORM
func (SaleOrderItem) TableName() string {
	return "sale_order_items"
}

// NewSaleOrderItem creates a sale line item against a stock batch. The
// quantity check against the batch is a soft pre-settlement validation; the
// authoritative check happens when the settlement worker applies the delta.
func NewSaleOrderItem(orderID uuid.UUID, batch *inventory.StockBatch, quantity int64) (*SaleOrderItem, error) {
	if batch == nil {
		return nil, shared.NewDomainError("INVALID_BATCH", "Stock batch is required")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if !batch.CanFulfill(quantity) {
		return nil, shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Insufficient stock for batch %s: available %d, requested %d",
				batch.BatchNumber, batch.Quantity, quantity))
	}

	now := time.Now()
	item := &SaleOrderItem{
		ID:           uuid.New(),
		OrderID:      orderID,
		StockBatchID: batch.ID,
		ProductID:    batch.ProductID,
		BatchNumber:  batch.BatchNumber,
		Quantity:     quantity,
		SalePrice:    batch.SalePrice,
		TaxPercent:   batch.TaxPercent,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	item.recalculate()

	return item, nil
}

// recalculate refreshes the derived total price:
// quantity * sale price * (1 + tax/100)
func (i *SaleOrderItem) recalculate() {
	qty := decimal.NewFromInt(i.Quantity)
	taxFactor := decimal.NewFromInt(1).Add(i.TaxPercent.Div(decimal.NewFromInt(100)))
	i.TotalPrice = qty.Mul(i.SalePrice).Mul(taxFactor).Round(2)
}

// Snapshot returns an immutable copy of the line item for settlement dispatch
func (i *SaleOrderItem) Snapshot() SaleItemSnapshot {
	return SaleItemSnapshot{
		ItemID:       i.ID,
		StockBatchID: i.StockBatchID,
		ProductID:    i.ProductID,
		BatchNumber:  i.BatchNumber,
		Quantity:     i.Quantity,
	}
}

// SaleOrder is the aggregate root for sales to a customer. Completing a
// pending order triggers stock depletion through the settlement pipeline.
type SaleOrder struct {
	shared.BaseAggregateRoot
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceNumber string          `gorm:"size:100;not null;uniqueIndex"`
	OrderDate     time.Time       `gorm:"not null"`
	Status        OrderStatus     `gorm:"size:50;not null;default:Pending"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Items         []SaleOrderItem `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
	CompletedAt   *time.Time
	CancelledAt   *time.Time
}

// TableName returns the table name for GORM
func (SaleOrder) TableName() string {
	return "sale_orders"
}

// NewSaleOrder creates a new pending sale order. The invoice number is
// assigned by the application service before the first save.
func NewSaleOrder(customerID uuid.UUID, invoiceNumber string, orderDate time.Time) (*SaleOrder, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice number cannot be empty")
	}
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	order := &SaleOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		InvoiceNumber:     invoiceNumber,
		OrderDate:         orderDate,
		Status:            OrderStatusPending,
		TotalAmount:       decimal.Zero,
		Items:             make([]SaleOrderItem, 0),
	}

	order.AddDomainEvent(NewSaleOrderCreatedEvent(order))

	return order, nil
}

// AddItem adds a line item drawn from a stock batch. Only allowed while pending.
func (o *SaleOrder) AddItem(batch *inventory.StockBatch, quantity int64) (*SaleOrderItem, error) {
	if o.Status != OrderStatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-pending order")
	}

	item, err := NewSaleOrderItem(o.ID, batch, quantity)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotal()
	o.UpdatedAt = time.Now()

	return item, nil
}

// RemoveItem removes a line item from a pending order
func (o *SaleOrder) RemoveItem(itemID uuid.UUID) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a non-pending order")
	}

	for idx, item := range o.Items {
		if item.ID == itemID {
			o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
			o.recalculateTotal()
			o.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// TransitionTo moves the order to a new status. The Pending -> Completed edge
// emits a settlement event with line item snapshots, at most once per order.
func (o *SaleOrder) TransitionTo(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot transition order from %s to %s", o.Status, target))
	}

	now := time.Now()
	o.Status = target
	o.UpdatedAt = now
	o.recalculateTotal()

	switch target {
	case OrderStatusCompleted:
		o.CompletedAt = &now
		o.AddDomainEvent(NewSaleOrderCompletedEvent(o))
	case OrderStatusCancelled:
		o.CancelledAt = &now
		o.AddDomainEvent(NewSaleOrderCancelledEvent(o))
	}

	return nil
}

// recalculateTotal refreshes the cached total from the live line items
func (o *SaleOrder) recalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.TotalPrice)
	}
	o.TotalAmount = total
}

// ItemSnapshots returns immutable copies of all line items in creation order
func (o *SaleOrder) ItemSnapshots() []SaleItemSnapshot {
	snapshots := make([]SaleItemSnapshot, 0, len(o.Items))
	for idx := range o.Items {
		snapshots = append(snapshots, o.Items[idx].Snapshot())
	}
	return snapshots
}

// IsPending returns true if the order is pending
func (o *SaleOrder) IsPending() bool {
	return o.Status == OrderStatusPending
}

// IsCompleted returns true if the order is completed
func (o *SaleOrder) IsCompleted() bool {
	return o.Status == OrderStatusCompleted
}

// ItemCount returns the number of line items
func (o *SaleOrder) ItemCount() int {
	return len(o.Items)
}
