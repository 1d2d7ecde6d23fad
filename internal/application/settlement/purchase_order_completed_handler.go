package settlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/pharmstock/backend/internal/domain/inventory"
	"github.com/pharmstock/backend/internal/domain/settlement"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/pharmstock/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// PurchaseOrderCompletedHandler settles a completed purchase order by adding
// each line item's quantity to its stock batch, creating the batch when the
// (product, batch number) pair is new.
//
// Settlement is idempotent per order: the handler first claims the order by
// inserting a settlement record under the (kind, order) unique constraint,
// and a redelivered event that finds the record already present is
// acknowledged without touching stock. After the claim the handler always
// returns nil, because a bus-level retry could not distinguish applied items
// from failed ones; per-item failures are recorded on the settlement record
// for manual reconciliation instead.
type PurchaseOrderCompletedHandler struct {
	batchRepo  inventory.StockBatchRepository
	recordRepo settlement.RecordRepository
	logger     *zap.Logger
}

// NewPurchaseOrderCompletedHandler creates a new handler
func NewPurchaseOrderCompletedHandler(
	batchRepo inventory.StockBatchRepository,
	recordRepo settlement.RecordRepository,
	logger *zap.Logger,
) *PurchaseOrderCompletedHandler {
	return &PurchaseOrderCompletedHandler{
		batchRepo:  batchRepo,
		recordRepo: recordRepo,
		logger:     logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *PurchaseOrderCompletedHandler) EventTypes() []string {
	return []string{trade.EventTypePurchaseOrderCompleted}
}

// Handle settles a PurchaseOrderCompletedEvent
func (h *PurchaseOrderCompletedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	completed, ok := event.(*trade.PurchaseOrderCompletedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			trade.EventTypePurchaseOrderCompleted, event.EventType())
	}

	record, err := settlement.NewRecord(
		settlement.OrderKindPurchase, completed.OrderID, completed.EventID(), len(completed.Items))
	if err != nil {
		return err
	}

	if err := h.recordRepo.Create(ctx, record); err != nil {
		if errors.Is(err, shared.ErrDuplicateKey) {
			h.logger.Info("purchase order already settled, skipping",
				zap.String("order_id", completed.OrderID.String()),
				zap.String("event_id", completed.EventID().String()),
			)
			return nil
		}
		// The claim itself failed, so nothing was applied and a retry is safe
		return err
	}

	h.logger.Info("settling purchase order",
		zap.String("order_id", completed.OrderID.String()),
		zap.String("invoice_number", completed.InvoiceNumber),
		zap.Int("items", len(completed.Items)),
	)

	for _, item := range completed.Items {
		key := inventory.BatchKey{ProductID: item.ProductID, BatchNumber: item.BatchNumber}
		pricing := inventory.Pricing{
			PurchasePrice: item.PurchasePrice,
			SalePrice:     item.SalePrice,
			MRP:           item.MRP,
			TaxPercent:    item.TaxPercent,
			HSNCode:       item.HSNCode,
		}
		expiry := item.ExpiryDate

		_, created, err := h.batchRepo.IncreaseByKey(ctx, key, item.Quantity, &expiry, pricing)
		if err != nil {
			record.RecordItemFailed(err.Error())
			h.logger.Error("failed to apply purchase item",
				zap.String("order_id", completed.OrderID.String()),
				zap.String("item_id", item.ItemID.String()),
				zap.String("product_id", item.ProductID.String()),
				zap.String("batch_number", item.BatchNumber),
				zap.Int64("quantity", item.Quantity),
				zap.Error(err),
			)
			continue
		}

		record.RecordItemApplied()
		h.logger.Debug("purchase item applied",
			zap.String("product_id", item.ProductID.String()),
			zap.String("batch_number", item.BatchNumber),
			zap.Int64("quantity", item.Quantity),
			zap.Bool("batch_created", created),
		)
	}

	record.Finish()
	if err := h.recordRepo.Update(ctx, record); err != nil {
		h.logger.Error("failed to update settlement record",
			zap.String("order_id", completed.OrderID.String()),
			zap.Error(err),
		)
	}

	if record.HasDiscrepancy() {
		h.logger.Warn("purchase settlement finished with discrepancies",
			zap.String("order_id", completed.OrderID.String()),
			zap.Int("applied", record.ItemsApplied),
			zap.Int("failed", record.ItemsFailed),
			zap.String("status", string(record.Status)),
		)
	}
	return nil
}

// Ensure PurchaseOrderCompletedHandler implements EventHandler
var _ shared.EventHandler = (*PurchaseOrderCompletedHandler)(nil)
