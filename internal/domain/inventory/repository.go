package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
)

// StockBatchRepository defines persistence operations for stock batches.
// IncreaseByKey and DecreaseByID are the only write paths the settlement
// worker uses: both must be implemented as atomic in-database adjustments so
// concurrent settlements of the same batch never lose updates or drive the
// quantity negative.
type StockBatchRepository interface {
	shared.Repository[StockBatch]
	// FindByKey finds a batch by its (product, batch number) natural key
	FindByKey(ctx context.Context, key BatchKey) (*StockBatch, error)
	// IncreaseByKey atomically adds delta to the batch with the given key,
	// overwriting the expiry date when one is supplied. If no batch exists it
	// creates one with quantity = delta and the supplied pricing. The second
	// return value reports whether a new batch was created. Increments on the
	// same key serialize on the batch row; the derived total value is
	// recomputed in the same write.
	IncreaseByKey(ctx context.Context, key BatchKey, delta int64, expiryDate *time.Time, pricing Pricing) (*StockBatch, bool, error)
	// DecreaseByID atomically subtracts delta from the identified batch.
	// A delta exceeding the current quantity returns
	// shared.ErrInsufficientStock and leaves the row unchanged; depletion to
	// exactly zero succeeds and the row is retained.
	DecreaseByID(ctx context.Context, batchID uuid.UUID, delta int64) (*StockBatch, error)
	// FindBelowQuantity lists batches at or below the given quantity threshold
	FindBelowQuantity(ctx context.Context, threshold int64, filter shared.Filter) ([]StockBatch, error)
	// CountReferencingSaleItems counts sale order line items referencing the batch
	CountReferencingSaleItems(ctx context.Context, batchID uuid.UUID) (int64, error)
}
