package trade

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/inventory"
	"github.com/pharmstock/backend/internal/domain/partner"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/pharmstock/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// invoiceRetries bounds the retry loop when two creations race for the same
// generated invoice number
const invoiceRetries = 3

// SaleOrderService handles sale order operations. Line items freeze the
// batch's sale price and tax at creation, and completion emits the
// settlement event that later decrements batch stock.
type SaleOrderService struct {
	orderRepo    trade.SaleOrderRepository
	customerRepo partner.CustomerRepository
	batchRepo    inventory.StockBatchRepository
	logger       *zap.Logger
}

// NewSaleOrderService creates a new SaleOrderService
func NewSaleOrderService(
	orderRepo trade.SaleOrderRepository,
	customerRepo partner.CustomerRepository,
	batchRepo inventory.StockBatchRepository,
	logger *zap.Logger,
) *SaleOrderService {
	return &SaleOrderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		batchRepo:    batchRepo,
		logger:       logger,
	}
}

// Create creates a sale order in Pending status. The invoice number is
// generated per year; a duplicate-key collision with a concurrent creation
// regenerates and retries.
func (s *SaleOrderService) Create(ctx context.Context, req CreateSaleOrderRequest) (*SaleOrderResponse, error) {
	if _, err := s.customerRepo.FindByID(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	batches := make([]*inventory.StockBatch, len(req.Items))
	for i, in := range req.Items {
		batch, err := s.batchRepo.FindByID(ctx, in.StockBatchID)
		if err != nil {
			return nil, err
		}
		batches[i] = batch
	}

	var order *trade.SaleOrder
	for attempt := 0; attempt < invoiceRetries; attempt++ {
		invoiceNumber, err := s.orderRepo.GenerateInvoiceNumber(ctx)
		if err != nil {
			return nil, err
		}

		order, err = trade.NewSaleOrder(req.CustomerID, invoiceNumber, req.OrderDate)
		if err != nil {
			return nil, err
		}
		for i, in := range req.Items {
			if _, err := order.AddItem(batches[i], in.Quantity); err != nil {
				return nil, err
			}
		}

		err = s.orderRepo.Save(ctx, order)
		if err == nil {
			break
		}
		if !errors.Is(err, shared.ErrDuplicateKey) {
			return nil, err
		}
		order = nil
	}
	if order == nil {
		return nil, shared.NewDomainError("INVOICE_CONFLICT", "Could not allocate a unique invoice number")
	}

	s.logger.Info("sale order created",
		zap.String("order_id", order.ID.String()),
		zap.String("invoice_number", order.InvoiceNumber),
		zap.Int("items", order.ItemCount()),
	)

	resp := ToSaleOrderResponse(order)
	return &resp, nil
}

// Get returns a sale order with its line items
func (s *SaleOrderService) Get(ctx context.Context, orderID uuid.UUID) (*SaleOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToSaleOrderResponse(order)
	return &resp, nil
}

// List lists sale orders with pagination
func (s *SaleOrderService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[SaleOrderResponse], error) {
	orders, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ToSaleOrderResponses(orders), total, filter.Page, filter.Limit())
	return &page, nil
}

// UpdateStatus transitions the order. Moving to Completed emits the
// settlement event in the same transaction as the status write.
func (s *SaleOrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, target trade.OrderStatus) (*SaleOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.TransitionTo(target); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("sale order status updated",
		zap.String("order_id", order.ID.String()),
		zap.String("status", string(order.Status)),
	)

	resp := ToSaleOrderResponse(order)
	return &resp, nil
}

// RemoveItem removes a line item from a pending order
func (s *SaleOrderService) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (*SaleOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.RemoveItem(itemID); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	resp := ToSaleOrderResponse(order)
	return &resp, nil
}

// Delete removes a sale order that has not been completed
func (s *SaleOrderService) Delete(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.IsCompleted() {
		return shared.ErrInvalidState
	}
	return s.orderRepo.Delete(ctx, orderID)
}
