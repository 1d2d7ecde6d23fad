package settlement

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/inventory"
	"github.com/pharmstock/backend/internal/domain/settlement"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/pharmstock/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeBatchRepo keeps batches in memory and applies deltas through the
// domain's Increase/Decrease, mirroring the atomic repository contract: the
// mutex serializes adjustments the way the real repository's row lock and
// guarded UPDATE do.
type fakeBatchRepo struct {
	mu      sync.Mutex
	batches map[uuid.UUID]*inventory.StockBatch
	byKey   map[inventory.BatchKey]uuid.UUID

	failKeys map[inventory.BatchKey]error
	failIDs  map[uuid.UUID]error
}

func newFakeBatchRepo() *fakeBatchRepo {
	return &fakeBatchRepo{
		batches:  make(map[uuid.UUID]*inventory.StockBatch),
		byKey:    make(map[inventory.BatchKey]uuid.UUID),
		failKeys: make(map[inventory.BatchKey]error),
		failIDs:  make(map[uuid.UUID]error),
	}
}

func (r *fakeBatchRepo) add(batch *inventory.StockBatch) {
	r.batches[batch.ID] = batch
	r.byKey[batch.Key()] = batch.ID
}

func (r *fakeBatchRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockBatch, error) {
	batch, ok := r.batches[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return batch, nil
}

func (r *fakeBatchRepo) FindByKey(ctx context.Context, key inventory.BatchKey) (*inventory.StockBatch, error) {
	id, ok := r.byKey[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return r.batches[id], nil
}

func (r *fakeBatchRepo) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.StockBatch, error) {
	out := make([]inventory.StockBatch, 0, len(r.batches))
	for _, b := range r.batches {
		out = append(out, *b)
	}
	return out, nil
}

func (r *fakeBatchRepo) Save(ctx context.Context, batch *inventory.StockBatch) error {
	r.add(batch)
	return nil
}

func (r *fakeBatchRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.batches, id)
	return nil
}

func (r *fakeBatchRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return int64(len(r.batches)), nil
}

func (r *fakeBatchRepo) IncreaseByKey(ctx context.Context, key inventory.BatchKey, delta int64, expiryDate *time.Time, pricing inventory.Pricing) (*inventory.StockBatch, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err, ok := r.failKeys[key]; ok {
		return nil, false, err
	}

	if id, ok := r.byKey[key]; ok {
		batch := r.batches[id]
		if err := batch.Increase(delta, expiryDate); err != nil {
			return nil, false, err
		}
		return batch, false, nil
	}

	expiry := time.Now().AddDate(1, 0, 0)
	if expiryDate != nil {
		expiry = *expiryDate
	}
	batch, err := inventory.NewStockBatch(key.ProductID, key.BatchNumber, expiry, delta, pricing)
	if err != nil {
		return nil, false, err
	}
	r.add(batch)
	return batch, true, nil
}

func (r *fakeBatchRepo) DecreaseByID(ctx context.Context, batchID uuid.UUID, delta int64) (*inventory.StockBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err, ok := r.failIDs[batchID]; ok {
		return nil, err
	}
	batch, ok := r.batches[batchID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if err := batch.Decrease(delta); err != nil {
		return nil, err
	}
	return batch, nil
}

func (r *fakeBatchRepo) FindBelowQuantity(ctx context.Context, threshold int64, filter shared.Filter) ([]inventory.StockBatch, error) {
	var out []inventory.StockBatch
	for _, b := range r.batches {
		if b.Quantity <= threshold {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBatchRepo) CountReferencingSaleItems(ctx context.Context, batchID uuid.UUID) (int64, error) {
	return 0, nil
}

type fakeRecordRepo struct {
	mu      sync.Mutex
	records map[string]*settlement.Record
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{records: make(map[string]*settlement.Record)}
}

func recordKey(kind settlement.OrderKind, orderID uuid.UUID) string {
	return string(kind) + ":" + orderID.String()
}

func (r *fakeRecordRepo) Create(ctx context.Context, record *settlement.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := recordKey(record.OrderKind, record.OrderID)
	if _, ok := r.records[key]; ok {
		return shared.ErrDuplicateKey
	}
	r.records[key] = record
	return nil
}

func (r *fakeRecordRepo) Update(ctx context.Context, record *settlement.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[recordKey(record.OrderKind, record.OrderID)] = record
	return nil
}

func (r *fakeRecordRepo) FindByOrder(ctx context.Context, kind settlement.OrderKind, orderID uuid.UUID) (*settlement.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[recordKey(kind, orderID)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return record, nil
}

func (r *fakeRecordRepo) FindUnreconciled(ctx context.Context, filter shared.Filter) ([]settlement.Record, int64, error) {
	var out []settlement.Record
	for _, record := range r.records {
		if record.HasDiscrepancy() {
			out = append(out, *record)
		}
	}
	return out, int64(len(out)), nil
}

func settlementPricing() inventory.Pricing {
	return inventory.Pricing{
		PurchasePrice: decimal.NewFromInt(100),
		SalePrice:     decimal.NewFromInt(150),
		MRP:           decimal.NewFromInt(180),
		TaxPercent:    decimal.NewFromInt(12),
	}
}

func completedPurchaseEvent(t *testing.T, items int) *trade.PurchaseOrderCompletedEvent {
	t.Helper()
	order, err := trade.NewPurchaseOrder(uuid.New(), fmt.Sprintf("PINV-%s", uuid.NewString()[:8]), time.Now())
	require.NoError(t, err)
	for i := 0; i < items; i++ {
		_, err := order.AddItem(uuid.New(), fmt.Sprintf("BN-%03d", i), time.Now().AddDate(1, 0, 0), 10, settlementPricing())
		require.NoError(t, err)
	}
	order.ClearDomainEvents()
	require.NoError(t, order.TransitionTo(trade.OrderStatusCompleted))

	completed, ok := order.GetDomainEvents()[0].(*trade.PurchaseOrderCompletedEvent)
	require.True(t, ok)
	return completed
}

func TestPurchaseOrderCompletedHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("creates batches and completes the record", func(t *testing.T) {
		batchRepo := newFakeBatchRepo()
		recordRepo := newFakeRecordRepo()
		handler := NewPurchaseOrderCompletedHandler(batchRepo, recordRepo, zap.NewNop())

		evt := completedPurchaseEvent(t, 2)
		require.NoError(t, handler.Handle(ctx, evt))

		record, err := recordRepo.FindByOrder(ctx, settlement.OrderKindPurchase, evt.OrderID)
		require.NoError(t, err)
		assert.Equal(t, settlement.RecordStatusCompleted, record.Status)
		assert.Equal(t, 2, record.ItemsApplied)

		for _, item := range evt.Items {
			batch, err := batchRepo.FindByKey(ctx, inventory.BatchKey{ProductID: item.ProductID, BatchNumber: item.BatchNumber})
			require.NoError(t, err)
			assert.Equal(t, int64(10), batch.Quantity)
		}
	})

	t.Run("increases an existing batch instead of creating", func(t *testing.T) {
		batchRepo := newFakeBatchRepo()
		recordRepo := newFakeRecordRepo()
		handler := NewPurchaseOrderCompletedHandler(batchRepo, recordRepo, zap.NewNop())

		evt := completedPurchaseEvent(t, 1)
		item := evt.Items[0]
		existing, err := inventory.NewStockBatch(item.ProductID, item.BatchNumber, time.Now().AddDate(1, 0, 0), 5, settlementPricing())
		require.NoError(t, err)
		batchRepo.add(existing)

		require.NoError(t, handler.Handle(ctx, evt))

		batch, err := batchRepo.FindByID(ctx, existing.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(15), batch.Quantity)
	})

	t.Run("redelivered event is skipped without reapplying stock", func(t *testing.T) {
		batchRepo := newFakeBatchRepo()
		recordRepo := newFakeRecordRepo()
		handler := NewPurchaseOrderCompletedHandler(batchRepo, recordRepo, zap.NewNop())

		evt := completedPurchaseEvent(t, 1)
		require.NoError(t, handler.Handle(ctx, evt))
		require.NoError(t, handler.Handle(ctx, evt))

		item := evt.Items[0]
		batch, err := batchRepo.FindByKey(ctx, inventory.BatchKey{ProductID: item.ProductID, BatchNumber: item.BatchNumber})
		require.NoError(t, err)
		assert.Equal(t, int64(10), batch.Quantity, "second delivery must not double-apply")
	})

	t.Run("one failing item does not block its siblings", func(t *testing.T) {
		batchRepo := newFakeBatchRepo()
		recordRepo := newFakeRecordRepo()
		handler := NewPurchaseOrderCompletedHandler(batchRepo, recordRepo, zap.NewNop())

		evt := completedPurchaseEvent(t, 3)
		bad := evt.Items[1]
		batchRepo.failKeys[inventory.BatchKey{ProductID: bad.ProductID, BatchNumber: bad.BatchNumber}] = fmt.Errorf("connection reset")

		require.NoError(t, handler.Handle(ctx, evt), "per-item failures are recorded, not returned")

		record, err := recordRepo.FindByOrder(ctx, settlement.OrderKindPurchase, evt.OrderID)
		require.NoError(t, err)
		assert.Equal(t, settlement.RecordStatusCompletedWithErrors, record.Status)
		assert.Equal(t, 2, record.ItemsApplied)
		assert.Equal(t, 1, record.ItemsFailed)
		assert.Contains(t, record.LastError, "connection reset")

		good := evt.Items[2]
		batch, err := batchRepo.FindByKey(ctx, inventory.BatchKey{ProductID: good.ProductID, BatchNumber: good.BatchNumber})
		require.NoError(t, err)
		assert.Equal(t, int64(10), batch.Quantity)
	})

	t.Run("all items failing marks the record failed", func(t *testing.T) {
		batchRepo := newFakeBatchRepo()
		recordRepo := newFakeRecordRepo()
		handler := NewPurchaseOrderCompletedHandler(batchRepo, recordRepo, zap.NewNop())

		evt := completedPurchaseEvent(t, 2)
		for _, item := range evt.Items {
			batchRepo.failKeys[inventory.BatchKey{ProductID: item.ProductID, BatchNumber: item.BatchNumber}] = fmt.Errorf("database down")
		}

		require.NoError(t, handler.Handle(ctx, evt))

		record, err := recordRepo.FindByOrder(ctx, settlement.OrderKindPurchase, evt.OrderID)
		require.NoError(t, err)
		assert.Equal(t, settlement.RecordStatusFailed, record.Status)
	})

	t.Run("rejects foreign event types", func(t *testing.T) {
		handler := NewPurchaseOrderCompletedHandler(newFakeBatchRepo(), newFakeRecordRepo(), zap.NewNop())
		evt := shared.NewBaseDomainEvent("something.else", "Test", uuid.New())

		assert.Error(t, handler.Handle(ctx, &evt))
	})
}

func completedSaleEvent(t *testing.T, batches []*inventory.StockBatch, quantities []int64) *trade.SaleOrderCompletedEvent {
	t.Helper()
	order, err := trade.NewSaleOrder(uuid.New(), fmt.Sprintf("SALE-2026-%s", uuid.NewString()[:4]), time.Now())
	require.NoError(t, err)
	for i, batch := range batches {
		_, err := order.AddItem(batch, quantities[i])
		require.NoError(t, err)
	}
	order.ClearDomainEvents()
	require.NoError(t, order.TransitionTo(trade.OrderStatusCompleted))

	completed, ok := order.GetDomainEvents()[0].(*trade.SaleOrderCompletedEvent)
	require.True(t, ok)
	return completed
}

func TestSaleOrderCompletedHandler(t *testing.T) {
	ctx := context.Background()

	newBatch := func(t *testing.T, quantity int64) *inventory.StockBatch {
		t.Helper()
		batch, err := inventory.NewStockBatch(uuid.New(), "BN-"+uuid.NewString()[:8], time.Now().AddDate(1, 0, 0), quantity, settlementPricing())
		require.NoError(t, err)
		return batch
	}

	t.Run("decreases each referenced batch", func(t *testing.T) {
		batchRepo := newFakeBatchRepo()
		recordRepo := newFakeRecordRepo()
		handler := NewSaleOrderCompletedHandler(batchRepo, recordRepo, zap.NewNop())

		batch := newBatch(t, 50)
		batchRepo.add(batch)
		evt := completedSaleEvent(t, []*inventory.StockBatch{batch}, []int64{10})

		require.NoError(t, handler.Handle(ctx, evt))

		assert.Equal(t, int64(40), batch.Quantity)
		record, err := recordRepo.FindByOrder(ctx, settlement.OrderKindSale, evt.OrderID)
		require.NoError(t, err)
		assert.Equal(t, settlement.RecordStatusCompleted, record.Status)
	})

	t.Run("redelivered event does not double-deplete", func(t *testing.T) {
		batchRepo := newFakeBatchRepo()
		recordRepo := newFakeRecordRepo()
		handler := NewSaleOrderCompletedHandler(batchRepo, recordRepo, zap.NewNop())

		batch := newBatch(t, 50)
		batchRepo.add(batch)
		evt := completedSaleEvent(t, []*inventory.StockBatch{batch}, []int64{10})

		require.NoError(t, handler.Handle(ctx, evt))
		require.NoError(t, handler.Handle(ctx, evt))

		assert.Equal(t, int64(40), batch.Quantity)
	})

	t.Run("insufficient stock is recorded as a discrepancy", func(t *testing.T) {
		batchRepo := newFakeBatchRepo()
		recordRepo := newFakeRecordRepo()
		handler := NewSaleOrderCompletedHandler(batchRepo, recordRepo, zap.NewNop())

		healthy := newBatch(t, 50)
		drained := newBatch(t, 20)
		batchRepo.add(healthy)
		batchRepo.add(drained)
		evt := completedSaleEvent(t, []*inventory.StockBatch{healthy, drained}, []int64{10, 20})

		// another sale emptied the batch between completion and settlement
		require.NoError(t, drained.Decrease(15))

		require.NoError(t, handler.Handle(ctx, evt))

		assert.Equal(t, int64(40), healthy.Quantity)
		assert.Equal(t, int64(5), drained.Quantity, "failed item leaves the batch untouched")

		record, err := recordRepo.FindByOrder(ctx, settlement.OrderKindSale, evt.OrderID)
		require.NoError(t, err)
		assert.Equal(t, settlement.RecordStatusCompletedWithErrors, record.Status)
		assert.Equal(t, 1, record.ItemsFailed)
	})

	t.Run("missing batch is recorded, siblings still settle", func(t *testing.T) {
		batchRepo := newFakeBatchRepo()
		recordRepo := newFakeRecordRepo()
		handler := NewSaleOrderCompletedHandler(batchRepo, recordRepo, zap.NewNop())

		kept := newBatch(t, 50)
		removed := newBatch(t, 50)
		batchRepo.add(kept)
		batchRepo.add(removed)
		evt := completedSaleEvent(t, []*inventory.StockBatch{kept, removed}, []int64{10, 10})

		require.NoError(t, batchRepo.Delete(ctx, removed.ID))

		require.NoError(t, handler.Handle(ctx, evt))

		assert.Equal(t, int64(40), kept.Quantity)
		record, err := recordRepo.FindByOrder(ctx, settlement.OrderKindSale, evt.OrderID)
		require.NoError(t, err)
		assert.Equal(t, 1, record.ItemsApplied)
		assert.Equal(t, 1, record.ItemsFailed)
	})

	t.Run("concurrent settlements never oversell a batch", func(t *testing.T) {
		batchRepo := newFakeBatchRepo()
		recordRepo := newFakeRecordRepo()
		handler := NewSaleOrderCompletedHandler(batchRepo, recordRepo, zap.NewNop())

		batch := newBatch(t, 50)
		batchRepo.add(batch)

		// Two 30-unit sales against the same 50-unit batch, settled in
		// parallel. Only one can be fulfilled.
		events := []*trade.SaleOrderCompletedEvent{
			completedSaleEvent(t, []*inventory.StockBatch{batch}, []int64{30}),
			completedSaleEvent(t, []*inventory.StockBatch{batch}, []int64{30}),
		}

		errs := make([]error, len(events))
		var wg sync.WaitGroup
		for i, evt := range events {
			wg.Add(1)
			go func(i int, evt *trade.SaleOrderCompletedEvent) {
				defer wg.Done()
				errs[i] = handler.Handle(ctx, evt)
			}(i, evt)
		}
		wg.Wait()

		for _, err := range errs {
			require.NoError(t, err)
		}

		assert.Equal(t, int64(20), batch.Quantity)
		assert.GreaterOrEqual(t, batch.Quantity, int64(0), "stock must never go negative")

		var completed, failed int
		for _, evt := range events {
			record, err := recordRepo.FindByOrder(ctx, settlement.OrderKindSale, evt.OrderID)
			require.NoError(t, err)
			switch record.Status {
			case settlement.RecordStatusCompleted:
				completed++
			case settlement.RecordStatusFailed:
				failed++
				assert.Equal(t, 1, record.ItemsFailed)
				assert.Contains(t, record.LastError, "Insufficient stock")
			default:
				t.Fatalf("unexpected record status %q", record.Status)
			}
		}
		assert.Equal(t, 1, completed, "exactly one sale wins the remaining stock")
		assert.Equal(t, 1, failed, "the other is rejected, not partially applied")
	})
}
