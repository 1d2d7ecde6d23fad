package settlement

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/settlement"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettlementService_GetByOrder(t *testing.T) {
	ctx := context.Background()
	recordRepo := newFakeRecordRepo()
	service := NewSettlementService(recordRepo)

	record, err := settlement.NewRecord(settlement.OrderKindPurchase, uuid.New(), uuid.New(), 2)
	require.NoError(t, err)
	record.RecordItemApplied()
	record.RecordItemApplied()
	record.Finish()
	require.NoError(t, recordRepo.Create(ctx, record))

	t.Run("returns the record", func(t *testing.T) {
		resp, err := service.GetByOrder(ctx, settlement.OrderKindPurchase, record.OrderID)
		require.NoError(t, err)

		assert.Equal(t, record.OrderID, resp.OrderID)
		assert.Equal(t, settlement.RecordStatusCompleted, resp.Status)
		assert.Equal(t, 2, resp.ItemsApplied)
	})

	t.Run("unknown order", func(t *testing.T) {
		_, err := service.GetByOrder(ctx, settlement.OrderKindSale, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestSettlementService_ListUnreconciled(t *testing.T) {
	ctx := context.Background()
	recordRepo := newFakeRecordRepo()
	service := NewSettlementService(recordRepo)

	clean, err := settlement.NewRecord(settlement.OrderKindSale, uuid.New(), uuid.New(), 1)
	require.NoError(t, err)
	clean.RecordItemApplied()
	clean.Finish()
	require.NoError(t, recordRepo.Create(ctx, clean))

	dirty, err := settlement.NewRecord(settlement.OrderKindSale, uuid.New(), uuid.New(), 1)
	require.NoError(t, err)
	dirty.RecordItemFailed("insufficient stock")
	dirty.Finish()
	require.NoError(t, recordRepo.Create(ctx, dirty))

	page, err := service.ListUnreconciled(ctx, shared.DefaultFilter())
	require.NoError(t, err)

	require.Len(t, page.Items, 1)
	assert.Equal(t, dirty.OrderID, page.Items[0].OrderID)
	assert.Equal(t, int64(1), page.Total)
}
