package settlement

import (
	"context"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
)

// RecordRepository defines persistence operations for settlement records
type RecordRepository interface {
	// Create inserts a new record; a (kind, order) collision returns
	// shared.ErrDuplicateKey, which callers treat as "already settled".
	Create(ctx context.Context, record *Record) error
	Update(ctx context.Context, record *Record) error
	FindByOrder(ctx context.Context, kind OrderKind, orderID uuid.UUID) (*Record, error)
	// FindUnreconciled lists finished records that still carry failed items
	FindUnreconciled(ctx context.Context, filter shared.Filter) ([]Record, int64, error)
}
