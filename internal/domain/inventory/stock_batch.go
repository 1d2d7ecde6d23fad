package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultTaxPercent is applied when a batch is created without an explicit tax rate
var DefaultTaxPercent = decimal.NewFromFloat(5.00)

// BatchKey identifies a stock batch by its natural key
type BatchKey struct {
	ProductID   uuid.UUID
	BatchNumber string
}

// StockBatch is a dated, priced lot of a product. It is the aggregate root
// for stock mutation: all quantity changes go through Increase/Decrease so
// the derived total value can never drift from its inputs.
// The (ProductID, BatchNumber) pair is unique.
type StockBatch struct {
	shared.BaseAggregateRoot
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_batch_product_batch,priority:1"`
	BatchNumber   string          `gorm:"size:100;not null;uniqueIndex:idx_stock_batch_product_batch,priority:2"`
	ExpiryDate    time.Time       `gorm:"not null"`
	Quantity      int64           `gorm:"not null;default:0;check:quantity >= 0"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	SalePrice     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	MRP           decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TaxPercent    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	HSNCode       string          `gorm:"size:15"`
	TotalValue    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (StockBatch) TableName() string {
	return "stock_batches"
}

// Pricing groups the price fields required to create a batch
type Pricing struct {
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	MRP           decimal.Decimal
	TaxPercent    decimal.Decimal
	HSNCode       string
}

// NewStockBatch creates a new stock batch
func NewStockBatch(productID uuid.UUID, batchNumber string, expiryDate time.Time, quantity int64, pricing Pricing) (*StockBatch, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if batchNumber == "" {
		return nil, shared.NewDomainError("INVALID_BATCH_NUMBER", "Batch number cannot be empty")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if expiryDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_EXPIRY", "Expiry date is required")
	}
	if pricing.PurchasePrice.IsNegative() || pricing.SalePrice.IsNegative() || pricing.MRP.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}

	tax := pricing.TaxPercent
	if tax.IsZero() {
		tax = DefaultTaxPercent
	}
	if tax.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TAX", "Tax percent cannot be negative")
	}

	b := &StockBatch{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		BatchNumber:       batchNumber,
		ExpiryDate:        expiryDate,
		Quantity:          quantity,
		PurchasePrice:     pricing.PurchasePrice,
		SalePrice:         pricing.SalePrice,
		MRP:               pricing.MRP,
		TaxPercent:        tax,
		HSNCode:           pricing.HSNCode,
	}
	b.recalculate()

	b.AddDomainEvent(NewStockBatchCreatedEvent(b))

	return b, nil
}

// Key returns the batch's natural key
func (b *StockBatch) Key() BatchKey {
	return BatchKey{ProductID: b.ProductID, BatchNumber: b.BatchNumber}
}

// Increase adds quantity to the batch. A non-nil expiryDate overwrites the
// stored expiry, matching a fresh delivery of the same batch.
func (b *StockBatch) Increase(delta int64, expiryDate *time.Time) error {
	if delta <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Increase delta must be positive")
	}

	b.Quantity += delta
	if expiryDate != nil && !expiryDate.IsZero() {
		b.ExpiryDate = *expiryDate
	}
	b.recalculate()
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewStockIncreasedEvent(b, delta))

	return nil
}

// Decrease subtracts quantity from the batch. Depleting to exactly zero is
// allowed; the record is retained for audit.
func (b *StockBatch) Decrease(delta int64) error {
	if delta <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Decrease delta must be positive")
	}
	if b.Quantity < delta {
		return shared.ErrInsufficientStock
	}

	b.Quantity -= delta
	b.recalculate()
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewStockDecreasedEvent(b, delta))
	if b.Quantity == 0 {
		b.AddDomainEvent(NewStockDepletedEvent(b))
	}

	return nil
}

// UpdatePricing replaces the batch's price fields
func (b *StockBatch) UpdatePricing(pricing Pricing) error {
	if pricing.PurchasePrice.IsNegative() || pricing.SalePrice.IsNegative() || pricing.MRP.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}
	if pricing.TaxPercent.IsNegative() {
		return shared.NewDomainError("INVALID_TAX", "Tax percent cannot be negative")
	}

	b.PurchasePrice = pricing.PurchasePrice
	b.SalePrice = pricing.SalePrice
	b.MRP = pricing.MRP
	if !pricing.TaxPercent.IsZero() {
		b.TaxPercent = pricing.TaxPercent
	}
	b.HSNCode = pricing.HSNCode
	b.recalculate()
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// recalculate refreshes the derived total value:
// quantity * purchase price * (1 + tax/100)
func (b *StockBatch) recalculate() {
	qty := decimal.NewFromInt(b.Quantity)
	taxFactor := decimal.NewFromInt(1).Add(b.TaxPercent.Div(decimal.NewFromInt(100)))
	b.TotalValue = qty.Mul(b.PurchasePrice).Mul(taxFactor).Round(2)
}

// SaleTotal returns the sale value of the given quantity at this batch's
// sale price and tax rate
func (b *StockBatch) SaleTotal(quantity int64) decimal.Decimal {
	qty := decimal.NewFromInt(quantity)
	taxFactor := decimal.NewFromInt(1).Add(b.TaxPercent.Div(decimal.NewFromInt(100)))
	return qty.Mul(b.SalePrice).Mul(taxFactor).Round(2)
}

// CanFulfill returns true if the batch can cover the requested quantity
func (b *StockBatch) CanFulfill(quantity int64) bool {
	return b.Quantity >= quantity
}

// IsDepleted returns true if the batch has no remaining quantity
func (b *StockBatch) IsDepleted() bool {
	return b.Quantity == 0
}

// IsExpired returns true if the batch has expired
func (b *StockBatch) IsExpired() bool {
	return b.ExpiryDate.Before(time.Now())
}

// WillExpireWithin returns true if the batch will expire within the given duration
func (b *StockBatch) WillExpireWithin(d time.Duration) bool {
	return b.ExpiryDate.Before(time.Now().Add(d))
}
