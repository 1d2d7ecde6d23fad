package trade

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/inventory"
	"github.com/pharmstock/backend/internal/domain/partner"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/pharmstock/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSaleOrderRepo struct {
	orders    map[uuid.UUID]*trade.SaleOrder
	invoices  map[string]bool
	nextSeq   int
	saveFails int // first N saves fail with ErrDuplicateKey
	genCalls  int
}

func newFakeSaleOrderRepo() *fakeSaleOrderRepo {
	return &fakeSaleOrderRepo{
		orders:   make(map[uuid.UUID]*trade.SaleOrder),
		invoices: make(map[string]bool),
		nextSeq:  1,
	}
}

func (r *fakeSaleOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*trade.SaleOrder, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return order, nil
}

func (r *fakeSaleOrderRepo) FindAll(ctx context.Context, filter shared.Filter) ([]trade.SaleOrder, error) {
	out := make([]trade.SaleOrder, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (r *fakeSaleOrderRepo) Save(ctx context.Context, order *trade.SaleOrder) error {
	if r.saveFails > 0 {
		r.saveFails--
		return shared.ErrDuplicateKey
	}
	if _, exists := r.orders[order.ID]; !exists && r.invoices[order.InvoiceNumber] {
		return shared.ErrDuplicateKey
	}
	r.orders[order.ID] = order
	r.invoices[order.InvoiceNumber] = true
	order.ClearDomainEvents()
	return nil
}

func (r *fakeSaleOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.orders, id)
	return nil
}

func (r *fakeSaleOrderRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return int64(len(r.orders)), nil
}

func (r *fakeSaleOrderRepo) FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*trade.SaleOrder, error) {
	for _, o := range r.orders {
		if o.InvoiceNumber == invoiceNumber {
			return o, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeSaleOrderRepo) FindByStatus(ctx context.Context, status trade.OrderStatus, filter shared.Filter) ([]trade.SaleOrder, error) {
	var out []trade.SaleOrder
	for _, o := range r.orders {
		if o.Status == status {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeSaleOrderRepo) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]trade.SaleOrder, error) {
	var out []trade.SaleOrder
	for _, o := range r.orders {
		if o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeSaleOrderRepo) GenerateInvoiceNumber(ctx context.Context) (string, error) {
	r.genCalls++
	n := fmt.Sprintf("SALE-%d-%04d", time.Now().Year(), r.nextSeq)
	r.nextSeq++
	return n, nil
}

func (r *fakeSaleOrderRepo) ExistsByInvoiceNumber(ctx context.Context, invoiceNumber string) (bool, error) {
	return r.invoices[invoiceNumber], nil
}

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*partner.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]*partner.Customer)}
}

func (r *fakeCustomerRepo) add(id uuid.UUID) {
	c := &partner.Customer{}
	c.ID = id
	r.customers[id] = c
}

func (r *fakeCustomerRepo) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

func (r *fakeCustomerRepo) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	return nil, nil
}

func (r *fakeCustomerRepo) Save(ctx context.Context, c *partner.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.customers, id)
	return nil
}

func (r *fakeCustomerRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return int64(len(r.customers)), nil
}

func (r *fakeCustomerRepo) FindByName(ctx context.Context, name string) (*partner.Customer, error) {
	return nil, shared.ErrNotFound
}

// fakeStockRepo only serves reads; the service never mutates stock directly
type fakeStockRepo struct {
	batches map[uuid.UUID]*inventory.StockBatch
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{batches: make(map[uuid.UUID]*inventory.StockBatch)}
}

func (r *fakeStockRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockBatch, error) {
	b, ok := r.batches[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return b, nil
}

func (r *fakeStockRepo) FindByKey(ctx context.Context, key inventory.BatchKey) (*inventory.StockBatch, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeStockRepo) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.StockBatch, error) {
	return nil, nil
}

func (r *fakeStockRepo) Save(ctx context.Context, b *inventory.StockBatch) error {
	r.batches[b.ID] = b
	return nil
}

func (r *fakeStockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.batches, id)
	return nil
}

func (r *fakeStockRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return int64(len(r.batches)), nil
}

func (r *fakeStockRepo) IncreaseByKey(ctx context.Context, key inventory.BatchKey, delta int64, expiryDate *time.Time, pricing inventory.Pricing) (*inventory.StockBatch, bool, error) {
	return nil, false, shared.ErrNotFound
}

func (r *fakeStockRepo) DecreaseByID(ctx context.Context, batchID uuid.UUID, delta int64) (*inventory.StockBatch, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeStockRepo) FindBelowQuantity(ctx context.Context, threshold int64, filter shared.Filter) ([]inventory.StockBatch, error) {
	return nil, nil
}

func (r *fakeStockRepo) CountReferencingSaleItems(ctx context.Context, batchID uuid.UUID) (int64, error) {
	return 0, nil
}

func newServiceFixture(t *testing.T) (*SaleOrderService, *fakeSaleOrderRepo, *fakeCustomerRepo, *fakeStockRepo) {
	t.Helper()
	orderRepo := newFakeSaleOrderRepo()
	customerRepo := newFakeCustomerRepo()
	stockRepo := newFakeStockRepo()
	service := NewSaleOrderService(orderRepo, customerRepo, stockRepo, zap.NewNop())
	return service, orderRepo, customerRepo, stockRepo
}

func newServiceBatch(t *testing.T, quantity int64) *inventory.StockBatch {
	t.Helper()
	batch, err := inventory.NewStockBatch(uuid.New(), "BN-"+uuid.NewString()[:8], time.Now().AddDate(1, 0, 0), quantity, inventory.Pricing{
		PurchasePrice: decimal.NewFromInt(100),
		SalePrice:     decimal.NewFromInt(150),
		MRP:           decimal.NewFromInt(180),
		TaxPercent:    decimal.NewFromInt(12),
	})
	require.NoError(t, err)
	return batch
}

func TestSaleOrderService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending order with generated invoice", func(t *testing.T) {
		service, orderRepo, customerRepo, stockRepo := newServiceFixture(t)
		customerID := uuid.New()
		customerRepo.add(customerID)
		batch := newServiceBatch(t, 50)
		require.NoError(t, stockRepo.Save(ctx, batch))

		resp, err := service.Create(ctx, CreateSaleOrderRequest{
			CustomerID: customerID,
			OrderDate:  time.Now(),
			Items:      []CreateSaleOrderItemInput{{StockBatchID: batch.ID, Quantity: 10}},
		})
		require.NoError(t, err)

		assert.Equal(t, fmt.Sprintf("SALE-%d-0001", time.Now().Year()), resp.InvoiceNumber)
		assert.Equal(t, trade.OrderStatusPending, resp.Status)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, batch.ID, resp.Items[0].StockBatchID)
		assert.Len(t, orderRepo.orders, 1)
	})

	t.Run("line total uses frozen batch pricing with default tax", func(t *testing.T) {
		service, _, customerRepo, stockRepo := newServiceFixture(t)
		customerID := uuid.New()
		customerRepo.add(customerID)

		batch, err := inventory.NewStockBatch(uuid.New(), "BN-DEFAULT-TAX", time.Now().AddDate(1, 0, 0), 100, inventory.Pricing{
			PurchasePrice: decimal.NewFromInt(40),
			SalePrice:     decimal.NewFromInt(50),
			MRP:           decimal.NewFromInt(60),
		})
		require.NoError(t, err)
		require.NoError(t, stockRepo.Save(ctx, batch))

		resp, err := service.Create(ctx, CreateSaleOrderRequest{
			CustomerID: customerID,
			OrderDate:  time.Now(),
			Items:      []CreateSaleOrderItemInput{{StockBatchID: batch.ID, Quantity: 10}},
		})
		require.NoError(t, err)

		// 10 * 50 * 1.05 with the batch's 5% default tax
		assert.True(t, resp.Items[0].TaxPercent.Equal(decimal.NewFromInt(5)))
		assert.True(t, resp.Items[0].TotalPrice.Equal(decimal.NewFromInt(525)),
			"got %s", resp.Items[0].TotalPrice)
		assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(525)))
	})

	t.Run("retries on invoice collision", func(t *testing.T) {
		service, orderRepo, customerRepo, stockRepo := newServiceFixture(t)
		customerID := uuid.New()
		customerRepo.add(customerID)
		batch := newServiceBatch(t, 50)
		require.NoError(t, stockRepo.Save(ctx, batch))
		orderRepo.saveFails = 2

		resp, err := service.Create(ctx, CreateSaleOrderRequest{
			CustomerID: customerID,
			OrderDate:  time.Now(),
			Items:      []CreateSaleOrderItemInput{{StockBatchID: batch.ID, Quantity: 10}},
		})
		require.NoError(t, err)

		assert.Equal(t, 3, orderRepo.genCalls, "one generation per attempt")
		assert.Equal(t, fmt.Sprintf("SALE-%d-0003", time.Now().Year()), resp.InvoiceNumber)
	})

	t.Run("gives up after exhausting retries", func(t *testing.T) {
		service, orderRepo, customerRepo, stockRepo := newServiceFixture(t)
		customerID := uuid.New()
		customerRepo.add(customerID)
		batch := newServiceBatch(t, 50)
		require.NoError(t, stockRepo.Save(ctx, batch))
		orderRepo.saveFails = 3

		_, err := service.Create(ctx, CreateSaleOrderRequest{
			CustomerID: customerID,
			OrderDate:  time.Now(),
			Items:      []CreateSaleOrderItemInput{{StockBatchID: batch.ID, Quantity: 10}},
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVOICE_CONFLICT", domainErr.Code)
	})

	t.Run("unknown customer", func(t *testing.T) {
		service, _, _, _ := newServiceFixture(t)

		_, err := service.Create(ctx, CreateSaleOrderRequest{
			CustomerID: uuid.New(),
			OrderDate:  time.Now(),
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("unknown batch", func(t *testing.T) {
		service, _, customerRepo, _ := newServiceFixture(t)
		customerID := uuid.New()
		customerRepo.add(customerID)

		_, err := service.Create(ctx, CreateSaleOrderRequest{
			CustomerID: customerID,
			OrderDate:  time.Now(),
			Items:      []CreateSaleOrderItemInput{{StockBatchID: uuid.New(), Quantity: 1}},
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("insufficient batch stock fails upfront", func(t *testing.T) {
		service, _, customerRepo, stockRepo := newServiceFixture(t)
		customerID := uuid.New()
		customerRepo.add(customerID)
		batch := newServiceBatch(t, 5)
		require.NoError(t, stockRepo.Save(ctx, batch))

		_, err := service.Create(ctx, CreateSaleOrderRequest{
			CustomerID: customerID,
			OrderDate:  time.Now(),
			Items:      []CreateSaleOrderItemInput{{StockBatchID: batch.ID, Quantity: 6}},
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
	})
}

func TestSaleOrderService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	createOrder := func(t *testing.T) (*SaleOrderService, *fakeSaleOrderRepo, uuid.UUID) {
		t.Helper()
		service, orderRepo, customerRepo, stockRepo := newServiceFixture(t)
		customerID := uuid.New()
		customerRepo.add(customerID)
		batch := newServiceBatch(t, 50)
		require.NoError(t, stockRepo.Save(ctx, batch))

		resp, err := service.Create(ctx, CreateSaleOrderRequest{
			CustomerID: customerID,
			OrderDate:  time.Now(),
			Items:      []CreateSaleOrderItemInput{{StockBatchID: batch.ID, Quantity: 10}},
		})
		require.NoError(t, err)
		return service, orderRepo, resp.ID
	}

	t.Run("pending to completed", func(t *testing.T) {
		service, orderRepo, orderID := createOrder(t)

		resp, err := service.UpdateStatus(ctx, orderID, trade.OrderStatusCompleted)
		require.NoError(t, err)

		assert.Equal(t, trade.OrderStatusCompleted, resp.Status)
		assert.NotNil(t, resp.CompletedAt)
		assert.Equal(t, trade.OrderStatusCompleted, orderRepo.orders[orderID].Status)
	})

	t.Run("completed order cannot move again", func(t *testing.T) {
		service, _, orderID := createOrder(t)
		_, err := service.UpdateStatus(ctx, orderID, trade.OrderStatusCompleted)
		require.NoError(t, err)

		_, err = service.UpdateStatus(ctx, orderID, trade.OrderStatusCancelled)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestSaleOrderService_Delete(t *testing.T) {
	ctx := context.Background()
	service, orderRepo, customerRepo, stockRepo := newServiceFixture(t)
	customerID := uuid.New()
	customerRepo.add(customerID)
	batch := newServiceBatch(t, 50)
	require.NoError(t, stockRepo.Save(ctx, batch))

	resp, err := service.Create(ctx, CreateSaleOrderRequest{
		CustomerID: customerID,
		OrderDate:  time.Now(),
		Items:      []CreateSaleOrderItemInput{{StockBatchID: batch.ID, Quantity: 10}},
	})
	require.NoError(t, err)

	t.Run("pending order can be deleted", func(t *testing.T) {
		require.NoError(t, service.Delete(ctx, resp.ID))
		assert.Empty(t, orderRepo.orders)
	})

	t.Run("completed order cannot be deleted", func(t *testing.T) {
		created, err := service.Create(ctx, CreateSaleOrderRequest{
			CustomerID: customerID,
			OrderDate:  time.Now(),
			Items:      []CreateSaleOrderItemInput{{StockBatchID: batch.ID, Quantity: 10}},
		})
		require.NoError(t, err)
		_, err = service.UpdateStatus(ctx, created.ID, trade.OrderStatusCompleted)
		require.NoError(t, err)

		assert.ErrorIs(t, service.Delete(ctx, created.ID), shared.ErrInvalidState)
	})
}
