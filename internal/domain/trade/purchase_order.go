package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/inventory"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PurchaseOrderItem is a line item on a purchase order. It carries the full
// batch description so settlement can create the batch if it does not exist yet.
type PurchaseOrderItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null"`
	BatchNumber   string          `gorm:"size:100;not null"`
	ExpiryDate    time.Time       `gorm:"not null"`
	Quantity      int64           `gorm:"not null"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	SalePrice     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	MRP           decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TaxPercent    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	HSNCode       string          `gorm:"size:15"`
	TotalPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// NewPurchaseOrderItem creates a new purchase order line item
func NewPurchaseOrderItem(orderID, productID uuid.UUID, batchNumber string, expiryDate time.Time, quantity int64, pricing inventory.Pricing) (*PurchaseOrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if batchNumber == "" {
		return nil, shared.NewDomainError("INVALID_BATCH_NUMBER", "Batch number cannot be empty")
	}
	if expiryDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_EXPIRY", "Expiry date is required")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if pricing.PurchasePrice.IsNegative() || pricing.SalePrice.IsNegative() || pricing.MRP.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}

	tax := pricing.TaxPercent
	if tax.IsZero() {
		tax = inventory.DefaultTaxPercent
	}

	now := time.Now()
	item := &PurchaseOrderItem{
		ID:            uuid.New(),
		OrderID:       orderID,
		ProductID:     productID,
		BatchNumber:   batchNumber,
		ExpiryDate:    expiryDate,
		Quantity:      quantity,
		PurchasePrice: pricing.PurchasePrice,
		SalePrice:     pricing.SalePrice,
		MRP:           pricing.MRP,
		TaxPercent:    tax,
		HSNCode:       pricing.HSNCode,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	item.recalculate()

	return item, nil
}

// UpdateQuantity updates the item quantity and recalculates the total price
func (i *PurchaseOrderItem) UpdateQuantity(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	i.Quantity = quantity
	i.recalculate()
	i.UpdatedAt = time.Now()
	return nil
}

// recalculate refreshes the derived total price:
// quantity * purchase price * (1 + tax/100)
func (i *PurchaseOrderItem) recalculate() {
	qty := decimal.NewFromInt(i.Quantity)
	taxFactor := decimal.NewFromInt(1).Add(i.TaxPercent.Div(decimal.NewFromInt(100)))
	i.TotalPrice = qty.Mul(i.PurchasePrice).Mul(taxFactor).Round(2)
}

// Snapshot returns an immutable copy of the line item for settlement dispatch
func (i *PurchaseOrderItem) Snapshot() PurchaseItemSnapshot {
	return PurchaseItemSnapshot{
		ItemID:        i.ID,
		ProductID:     i.ProductID,
		BatchNumber:   i.BatchNumber,
		ExpiryDate:    i.ExpiryDate,
		Quantity:      i.Quantity,
		PurchasePrice: i.PurchasePrice,
		SalePrice:     i.SalePrice,
		MRP:           i.MRP,
		TaxPercent:    i.TaxPercent,
		HSNCode:       i.HSNCode,
	}
}

// PurchaseOrder is the aggregate root for purchases from a supplier.
// Completing a pending order triggers stock replenishment through the
// settlement pipeline, exactly once per Pending -> Completed edge.
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	SupplierID    uuid.UUID           `gorm:"type:uuid;not null;index"`
	InvoiceNumber string              `gorm:"size:100;not null;uniqueIndex"`
	OrderDate     time.Time           `gorm:"not null"`
	Status        OrderStatus         `gorm:"size:50;not null;default:Pending"`
	TotalAmount   decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	Items         []PurchaseOrderItem `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
	CompletedAt   *time.Time
	CancelledAt   *time.Time
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new pending purchase order
func NewPurchaseOrder(supplierID uuid.UUID, invoiceNumber string, orderDate time.Time) (*PurchaseOrder, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice number cannot be empty")
	}
	if len(invoiceNumber) > 100 {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice number cannot exceed 100 characters")
	}
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	order := &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SupplierID:        supplierID,
		InvoiceNumber:     invoiceNumber,
		OrderDate:         orderDate,
		Status:            OrderStatusPending,
		TotalAmount:       decimal.Zero,
		Items:             make([]PurchaseOrderItem, 0),
	}

	order.AddDomainEvent(NewPurchaseOrderCreatedEvent(order))

	return order, nil
}

// AddItem adds a line item. Only allowed while the order is pending.
func (o *PurchaseOrder) AddItem(productID uuid.UUID, batchNumber string, expiryDate time.Time, quantity int64, pricing inventory.Pricing) (*PurchaseOrderItem, error) {
	if o.Status != OrderStatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-pending order")
	}

	item, err := NewPurchaseOrderItem(o.ID, productID, batchNumber, expiryDate, quantity, pricing)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotal()
	o.UpdatedAt = time.Now()

	return item, nil
}

// UpdateItemQuantity updates the quantity of an existing line item
func (o *PurchaseOrder) UpdateItemQuantity(itemID uuid.UUID, quantity int64) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items of a non-pending order")
	}

	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			if err := o.Items[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			o.recalculateTotal()
			o.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// RemoveItem removes a line item from a pending order
func (o *PurchaseOrder) RemoveItem(itemID uuid.UUID) error {
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
// emits a settlement event carrying a snapshot of the line items; re-applying
// a terminal status is rejected, so the event fires at most once per order.
func (o *PurchaseOrder) TransitionTo(target OrderStatus) error {
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
		o.AddDomainEvent(NewPurchaseOrderCompletedEvent(o))
	case OrderStatusCancelled:
		o.CancelledAt = &now
		o.AddDomainEvent(NewPurchaseOrderCancelledEvent(o))
	}

	return nil
}

// recalculateTotal refreshes the cached total from the live line items
func (o *PurchaseOrder) recalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.TotalPrice)
	}
	o.TotalAmount = total
}

// ItemSnapshots returns immutable copies of all line items in creation order
func (o *PurchaseOrder) ItemSnapshots() []PurchaseItemSnapshot {
	snapshots := make([]PurchaseItemSnapshot, 0, len(o.Items))
	for idx := range o.Items {
		snapshots = append(snapshots, o.Items[idx].Snapshot())
	}
	return snapshots
}

// IsPending returns true if the order is pending
func (o *PurchaseOrder) IsPending() bool {
	return o.Status == OrderStatusPending
}

// IsCompleted returns true if the order is completed
func (o *PurchaseOrder) IsCompleted() bool {
	return o.Status == OrderStatusCompleted
}

// ItemCount returns the number of line items
func (o *PurchaseOrder) ItemCount() int {
	return len(o.Items)
}
