package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/catalog"
	"github.com/pharmstock/backend/internal/domain/inventory"
	"github.com/pharmstock/backend/internal/domain/settings"
	"github.com/pharmstock/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StockService handles stock batch operations outside the order pipeline:
// direct entries, write-offs, listing, and the low stock report. Order
// settlement goes through the settlement handlers instead, but both paths
// share the repository's atomic adjustments.
type StockService struct {
	batchRepo    inventory.StockBatchRepository
	productRepo  catalog.ProductRepository
	settingsRepo settings.Repository
	logger       *zap.Logger
}

// NewStockService creates a new StockService
func NewStockService(
	batchRepo inventory.StockBatchRepository,
	productRepo catalog.ProductRepository,
	settingsRepo settings.Repository,
	logger *zap.Logger,
) *StockService {
	return &StockService{
		batchRepo:    batchRepo,
		productRepo:  productRepo,
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// AddStock adds quantity to a batch, creating the batch when the (product,
// batch number) pair is new
func (s *StockService) AddStock(ctx context.Context, req AddStockRequest) (*StockBatchResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		return nil, err
	}

	pricing := inventory.Pricing{
		PurchasePrice: req.PurchasePrice,
		SalePrice:     req.SalePrice,
		MRP:           req.MRP,
		HSNCode:       req.HSNCode,
	}
	if req.TaxPercent != nil {
		pricing.TaxPercent = *req.TaxPercent
	}

	key := inventory.BatchKey{ProductID: req.ProductID, BatchNumber: req.BatchNumber}
	expiry := req.ExpiryDate
	batch, created, err := s.batchRepo.IncreaseByKey(ctx, key, req.Quantity, &expiry, pricing)
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock added",
		zap.String("product_id", req.ProductID.String()),
		zap.String("batch_number", req.BatchNumber),
		zap.Int64("quantity", req.Quantity),
		zap.Bool("created", created),
	)

	resp := ToStockBatchResponse(batch)
	return &resp, nil
}

// RemoveStock subtracts quantity from a batch. Removing more than the batch
// holds returns shared.ErrInsufficientStock.
func (s *StockService) RemoveStock(ctx context.Context, batchID uuid.UUID, req RemoveStockRequest) (*StockBatchResponse, error) {
	batch, err := s.batchRepo.DecreaseByID(ctx, batchID, req.Quantity)
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock removed",
		zap.String("batch_id", batchID.String()),
		zap.Int64("quantity", req.Quantity),
		zap.Int64("remaining", batch.Quantity),
	)

	resp := ToStockBatchResponse(batch)
	return &resp, nil
}

// GetBatch returns a single stock batch
func (s *StockService) GetBatch(ctx context.Context, batchID uuid.UUID) (*StockBatchResponse, error) {
	batch, err := s.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	resp := ToStockBatchResponse(batch)
	return &resp, nil
}

// ListBatches lists stock batches with pagination
func (s *StockService) ListBatches(ctx context.Context, filter shared.Filter) (*shared.Paginated[StockBatchResponse], error) {
	batches, err := s.batchRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.batchRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ToStockBatchResponses(batches), total, filter.Page, filter.Limit())
	return &page, nil
}

// ListLowStock lists batches at or below the configured low stock threshold
func (s *StockService) ListLowStock(ctx context.Context, filter shared.Filter) ([]StockBatchResponse, error) {
	cfg, err := s.settingsRepo.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	batches, err := s.batchRepo.FindBelowQuantity(ctx, cfg.LowStockThreshold, filter)
	if err != nil {
		return nil, err
	}
	return ToStockBatchResponses(batches), nil
}

// DeleteBatch removes a batch. Batches referenced by sale order line items
// cannot be deleted; they stay for invoice history.
func (s *StockService) DeleteBatch(ctx context.Context, batchID uuid.UUID) error {
	if err := s.batchRepo.Delete(ctx, batchID); err != nil {
		return err
	}
	s.logger.Info("stock batch deleted", zap.String("batch_id", batchID.String()))
	return nil
}
