package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// AddStockRequest is a direct stock entry, used for opening balances and
// corrections outside the purchase flow
type AddStockRequest struct {
	ProductID     uuid.UUID        `json:"product_id" binding:"required"`
	BatchNumber   string           `json:"batch_number" binding:"required,min=1,max=100"`
	ExpiryDate    time.Time        `json:"expiry_date" binding:"required"`
	Quantity      int64            `json:"quantity" binding:"required,gt=0"`
	PurchasePrice decimal.Decimal  `json:"purchase_price" binding:"required"`
	SalePrice     decimal.Decimal  `json:"sale_price" binding:"required"`
	MRP           decimal.Decimal  `json:"mrp" binding:"required"`
	TaxPercent    *decimal.Decimal `json:"tax_percent"`
	HSNCode       string           `json:"hsn_code" binding:"max=15"`
}

// RemoveStockRequest removes quantity from a batch, used for damage and
// expiry write-offs
type RemoveStockRequest struct {
	Quantity int64 `json:"quantity" binding:"required,gt=0"`
}

// StockBatchResponse is the API shape of a stock batch
type StockBatchResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	BatchNumber   string          `json:"batch_number"`
	ExpiryDate    time.Time       `json:"expiry_date"`
	Quantity      int64           `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	MRP           decimal.Decimal `json:"mrp"`
	TaxPercent    decimal.Decimal `json:"tax_percent"`
	HSNCode       string          `json:"hsn_code"`
	TotalValue    decimal.Decimal `json:"total_value"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToStockBatchResponse converts a domain batch to its API shape
func ToStockBatchResponse(b *inventory.StockBatch) StockBatchResponse {
	return StockBatchResponse{
		ID:            b.ID,
		ProductID:     b.ProductID,
		BatchNumber:   b.BatchNumber,
		ExpiryDate:    b.ExpiryDate,
		Quantity:      b.Quantity,
		PurchasePrice: b.PurchasePrice,
		SalePrice:     b.SalePrice,
		MRP:           b.MRP,
		TaxPercent:    b.TaxPercent,
		HSNCode:       b.HSNCode,
		TotalValue:    b.TotalValue,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// ToStockBatchResponses converts a slice of domain batches
func ToStockBatchResponses(batches []inventory.StockBatch) []StockBatchResponse {
	out := make([]StockBatchResponse, len(batches))
	for i := range batches {
		out[i] = ToStockBatchResponse(&batches[i])
	}
	return out
}
