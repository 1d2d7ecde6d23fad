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

// SaleOrderCompletedHandler settles a completed sale order by subtracting
// each line item's quantity from its stock batch. A batch without enough
// stock fails only that item; the remaining items still settle, and the
// shortfall is recorded on the settlement record for reconciliation.
//
// Idempotency and the always-nil return follow the same claim-first scheme
// as the purchase handler.
type SaleOrderCompletedHandler struct {
	batchRepo  inventory.StockBatchRepository
	recordRepo settlement.RecordRepository
	logger     *zap.Logger
}

// NewSaleOrderCompletedHandler creates a new handler
func NewSaleOrderCompletedHandler(
	batchRepo inventory.StockBatchRepository,
	recordRepo settlement.RecordRepository,
	logger *zap.Logger,
) *SaleOrderCompletedHandler {
	return &SaleOrderCompletedHandler{
		batchRepo:  batchRepo,
		recordRepo: recordRepo,
		logger:     logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *SaleOrderCompletedHandler) EventTypes() []string {
	return []string{trade.EventTypeSaleOrderCompleted}
}

// Handle settles a SaleOrderCompletedEvent
func (h *SaleOrderCompletedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	completed, ok := event.(*trade.SaleOrderCompletedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			trade.EventTypeSaleOrderCompleted, event.EventType())
	}

	record, err := settlement.NewRecord(
		settlement.OrderKindSale, completed.OrderID, completed.EventID(), len(completed.Items))
	if err != nil {
		return err
	}

	if err := h.recordRepo.Create(ctx, record); err != nil {
		if errors.Is(err, shared.ErrDuplicateKey) {
			h.logger.Info("sale order already settled, skipping",
				zap.String("order_id", completed.OrderID.String()),
				zap.String("event_id", completed.EventID().String()),
			)
			return nil
		}
		return err
	}

	h.logger.Info("settling sale order",
		zap.String("order_id", completed.OrderID.String()),
		zap.String("invoice_number", completed.InvoiceNumber),
		zap.Int("items", len(completed.Items)),
	)

	for _, item := range completed.Items {
		_, err := h.batchRepo.DecreaseByID(ctx, item.StockBatchID, item.Quantity)
		if err != nil {
			record.RecordItemFailed(err.Error())
			h.logger.Error("failed to apply sale item",
				zap.String("order_id", completed.OrderID.String()),
				zap.String("item_id", item.ItemID.String()),
				zap.String("batch_id", item.StockBatchID.String()),
				zap.String("batch_number", item.BatchNumber),
				zap.Int64("quantity", item.Quantity),
				zap.Error(err),
			)
			continue
		}

		record.RecordItemApplied()
		h.logger.Debug("sale item applied",
			zap.String("batch_id", item.StockBatchID.String()),
			zap.Int64("quantity", item.Quantity),
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
		h.logger.Warn("sale settlement finished with discrepancies",
			zap.String("order_id", completed.OrderID.String()),
			zap.Int("applied", record.ItemsApplied),
			zap.Int("failed", record.ItemsFailed),
			zap.String("status", string(record.Status)),
		)
	}
	return nil
}

// Ensure SaleOrderCompletedHandler implements EventHandler
var _ shared.EventHandler = (*SaleOrderCompletedHandler)(nil)
