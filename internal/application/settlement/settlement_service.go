package settlement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/settlement"
	"github.com/pharmstock/backend/internal/domain/shared"
)

// RecordResponse is the API shape of a settlement record
type RecordResponse struct {
	ID           uuid.UUID                `json:"id"`
	OrderKind    settlement.OrderKind     `json:"order_kind"`
	OrderID      uuid.UUID                `json:"order_id"`
	EventID      uuid.UUID                `json:"event_id"`
	Status       settlement.RecordStatus  `json:"status"`
	ItemsTotal   int                      `json:"items_total"`
	ItemsApplied int                      `json:"items_applied"`
	ItemsFailed  int                      `json:"items_failed"`
	LastError    string                   `json:"last_error,omitempty"`
	StartedAt    time.Time                `json:"started_at"`
	FinishedAt   *time.Time               `json:"finished_at,omitempty"`
}

// SettlementService exposes settlement records for inspection. Records with
// failed items are the reconciliation queue for operators.
type SettlementService struct {
	recordRepo settlement.RecordRepository
}

// NewSettlementService creates a new SettlementService
func NewSettlementService(recordRepo settlement.RecordRepository) *SettlementService {
	return &SettlementService{recordRepo: recordRepo}
}

// GetByOrder returns the settlement record for an order
func (s *SettlementService) GetByOrder(ctx context.Context, kind settlement.OrderKind, orderID uuid.UUID) (*RecordResponse, error) {
	record, err := s.recordRepo.FindByOrder(ctx, kind, orderID)
	if err != nil {
		return nil, err
	}
	resp := toRecordResponse(record)
	return &resp, nil
}

// ListUnreconciled lists settlement records that still carry failed items
func (s *SettlementService) ListUnreconciled(ctx context.Context, filter shared.Filter) (*shared.Paginated[RecordResponse], error) {
	records, total, err := s.recordRepo.FindUnreconciled(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]RecordResponse, len(records))
	for i := range records {
		items[i] = toRecordResponse(&records[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.Limit())
	return &page, nil
}

func toRecordResponse(r *settlement.Record) RecordResponse {
	return RecordResponse{
		ID:           r.ID,
		OrderKind:    r.OrderKind,
		OrderID:      r.OrderID,
		EventID:      r.EventID,
		Status:       r.Status,
		ItemsTotal:   r.ItemsTotal,
		ItemsApplied: r.ItemsApplied,
		ItemsFailed:  r.ItemsFailed,
		LastError:    r.LastError,
		StartedAt:    r.StartedAt,
		FinishedAt:   r.FinishedAt,
	}
}
