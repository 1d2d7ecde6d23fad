package inventory

import (
	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
)

// Event types for the inventory domain
const (
	EventTypeStockBatchCreated = "inventory.stock_batch.created"
	EventTypeStockIncreased    = "inventory.stock.increased"
	EventTypeStockDecreased    = "inventory.stock.decreased"
	EventTypeStockDepleted     = "inventory.stock.depleted"
)

// AggregateTypeStockBatch is the aggregate type for stock batch events
const AggregateTypeStockBatch = "StockBatch"

// StockBatchCreatedEvent is emitted when a new batch record is created
type StockBatchCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID `json:"product_id"`
	BatchNumber string    `json:"batch_number"`
	Quantity    int64     `json:"quantity"`
}

// NewStockBatchCreatedEvent creates a new StockBatchCreatedEvent
func NewStockBatchCreatedEvent(b *StockBatch) *StockBatchCreatedEvent {
	return &StockBatchCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBatchCreated, AggregateTypeStockBatch, b.ID),
		ProductID:       b.ProductID,
		BatchNumber:     b.BatchNumber,
		Quantity:        b.Quantity,
	}
}

// StockIncreasedEvent is emitted when a batch gains quantity
type StockIncreasedEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID `json:"product_id"`
	BatchNumber string    `json:"batch_number"`
	Delta       int64     `json:"delta"`
	NewQuantity int64     `json:"new_quantity"`
}

// NewStockIncreasedEvent creates a new StockIncreasedEvent
func NewStockIncreasedEvent(b *StockBatch, delta int64) *StockIncreasedEvent {
	return &StockIncreasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockIncreased, AggregateTypeStockBatch, b.ID),
		ProductID:       b.ProductID,
		BatchNumber:     b.BatchNumber,
		Delta:           delta,
		NewQuantity:     b.Quantity,
	}
}

// StockDecreasedEvent is emitted when a batch loses quantity
type StockDecreasedEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID `json:"product_id"`
	BatchNumber string    `json:"batch_number"`
	Delta       int64     `json:"delta"`
	NewQuantity int64     `json:"new_quantity"`
}

// NewStockDecreasedEvent creates a new StockDecreasedEvent
func NewStockDecreasedEvent(b *StockBatch, delta int64) *StockDecreasedEvent {
	return &StockDecreasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockDecreased, AggregateTypeStockBatch, b.ID),
		ProductID:       b.ProductID,
		BatchNumber:     b.BatchNumber,
		Delta:           delta,
		NewQuantity:     b.Quantity,
	}
}

// StockDepletedEvent is emitted when a batch reaches zero quantity
type StockDepletedEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID `json:"product_id"`
	BatchNumber string    `json:"batch_number"`
}

// NewStockDepletedEvent creates a new StockDepletedEvent
func NewStockDepletedEvent(b *StockBatch) *StockDepletedEvent {
	return &StockDepletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockDepleted, AggregateTypeStockBatch, b.ID),
		ProductID:       b.ProductID,
		BatchNumber:     b.BatchNumber,
	}
}
