package settlement

import (
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
)

// OrderKind distinguishes the two settlement directions
type OrderKind string

const (
	OrderKindPurchase OrderKind = "PURCHASE" // settlement increases stock
	OrderKindSale     OrderKind = "SALE"     // settlement decreases stock
)

// RecordStatus is the lifecycle of a settlement record
type RecordStatus string

const (
	RecordStatusProcessing          RecordStatus = "PROCESSING"
	RecordStatusCompleted           RecordStatus = "COMPLETED"
	RecordStatusCompletedWithErrors RecordStatus = "COMPLETED_WITH_ERRORS"
	RecordStatusFailed              RecordStatus = "FAILED"
)

// Record tracks the settlement of one completed order. The unique
// (order_kind, order_id) pair makes settlement idempotent: a redelivered job
// finds the record and skips. Records whose status is not COMPLETED are the
// dead-letter surface for manual stock reconciliation.
type Record struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey"`
	OrderKind    OrderKind    `gorm:"size:20;not null;uniqueIndex:idx_settlement_order,priority:1"`
	OrderID      uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_settlement_order,priority:2"`
	EventID      uuid.UUID    `gorm:"type:uuid;not null"`
	Status       RecordStatus `gorm:"size:30;not null;default:PROCESSING"`
	ItemsTotal   int          `gorm:"not null"`
	ItemsApplied int          `gorm:"not null;default:0"`
	ItemsFailed  int          `gorm:"not null;default:0"`
	LastError    string       `gorm:"type:text"`
	StartedAt    time.Time
	FinishedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for GORM
func (Record) TableName() string {
	return "settlement_records"
}

// NewRecord starts a settlement record for an order
func NewRecord(kind OrderKind, orderID, eventID uuid.UUID, itemsTotal int) (*Record, error) {
	if kind != OrderKindPurchase && kind != OrderKindSale {
		return nil, shared.NewDomainError("INVALID_KIND", "Unknown settlement order kind")
	}
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}

	now := time.Now()
	return &Record{
		ID:         uuid.New(),
		OrderKind:  kind,
		OrderID:    orderID,
		EventID:    eventID,
		Status:     RecordStatusProcessing,
		ItemsTotal: itemsTotal,
		StartedAt:  now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// RecordItemApplied counts a successfully applied line item
func (r *Record) RecordItemApplied() {
	r.ItemsApplied++
	r.UpdatedAt = time.Now()
}

// RecordItemFailed counts a failed line item and keeps the most recent error
func (r *Record) RecordItemFailed(errMsg string) {
	r.ItemsFailed++
	r.LastError = errMsg
	r.UpdatedAt = time.Now()
}

// Finish closes the record. All items applied is COMPLETED, all items failed
// is FAILED, anything in between is COMPLETED_WITH_ERRORS.
func (r *Record) Finish() {
	now := time.Now()
	switch {
	case r.ItemsFailed == 0:
		r.Status = RecordStatusCompleted
	case r.ItemsApplied == 0 && r.ItemsTotal > 0:
		r.Status = RecordStatusFailed
	default:
		r.Status = RecordStatusCompletedWithErrors
	}
	r.FinishedAt = &now
	r.UpdatedAt = now
}

// IsFinished returns true once the record has left PROCESSING
func (r *Record) IsFinished() bool {
	return r.Status != RecordStatusProcessing
}

// HasDiscrepancy returns true if any line item failed to apply
func (r *Record) HasDiscrepancy() bool {
	return r.ItemsFailed > 0
}
