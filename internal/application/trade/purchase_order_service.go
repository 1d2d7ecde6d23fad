package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/inventory"
	"github.com/pharmstock/backend/internal/domain/partner"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/pharmstock/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// PurchaseOrderService handles purchase order operations. Completing an
// order emits the settlement event through the order repository's outbox;
// stock itself is mutated asynchronously by the settlement handler.
type PurchaseOrderService struct {
	orderRepo    trade.PurchaseOrderRepository
	supplierRepo partner.SupplierRepository
	logger       *zap.Logger
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	orderRepo trade.PurchaseOrderRepository,
	supplierRepo partner.SupplierRepository,
	logger *zap.Logger,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		logger:       logger,
	}
}

// Create creates a purchase order in Pending status with its line items
func (s *PurchaseOrderService) Create(ctx context.Context, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	if _, err := s.supplierRepo.FindByID(ctx, req.SupplierID); err != nil {
		return nil, err
	}

	order, err := trade.NewPurchaseOrder(req.SupplierID, req.InvoiceNumber, req.OrderDate)
	if err != nil {
		return nil, err
	}

	for _, in := range req.Items {
		pricing := inventory.Pricing{
			PurchasePrice: in.PurchasePrice,
			SalePrice:     in.SalePrice,
			MRP:           in.MRP,
			HSNCode:       in.HSNCode,
		}
		if in.TaxPercent != nil {
			pricing.TaxPercent = *in.TaxPercent
		}
		if _, err := order.AddItem(in.ProductID, in.BatchNumber, in.ExpiryDate, in.Quantity, pricing); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("purchase order created",
		zap.String("order_id", order.ID.String()),
		zap.String("invoice_number", order.InvoiceNumber),
		zap.Int("items", order.ItemCount()),
	)

	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

// Get returns a purchase order with its line items
func (s *PurchaseOrderService) Get(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

// List lists purchase orders with pagination
func (s *PurchaseOrderService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[PurchaseOrderResponse], error) {
	orders, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ToPurchaseOrderResponses(orders), total, filter.Page, filter.Limit())
	return &page, nil
}

// UpdateStatus transitions the order. Moving to Completed emits the
// settlement event in the same transaction as the status write.
func (s *PurchaseOrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, target trade.OrderStatus) (*PurchaseOrderResponse, error) {
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

	s.logger.Info("purchase order status updated",
		zap.String("order_id", order.ID.String()),
		zap.String("status", string(order.Status)),
	)

	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

// UpdateItemQuantity changes a pending order's line item quantity
func (s *PurchaseOrderService) UpdateItemQuantity(ctx context.Context, orderID, itemID uuid.UUID, quantity int64) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.UpdateItemQuantity(itemID, quantity); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

// RemoveItem removes a line item from a pending order
func (s *PurchaseOrderService) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (*PurchaseOrderResponse, error) {
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

	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

// Delete removes a purchase order that has not been completed. Completed
// orders are history and cannot be deleted.
func (s *PurchaseOrderService) Delete(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.IsCompleted() {
		return shared.ErrInvalidState
	}
	return s.orderRepo.Delete(ctx, orderID)
}
