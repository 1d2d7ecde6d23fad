package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
)

// PurchaseOrderRepository defines persistence operations for purchase orders.
// Save must persist the order, its line items, and any pending domain events
// (to the outbox) in a single transaction.
type PurchaseOrderRepository interface {
	shared.Repository[PurchaseOrder]
	FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*PurchaseOrder, error)
	FindByStatus(ctx context.Context, status OrderStatus, filter shared.Filter) ([]PurchaseOrder, error)
	FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)
}

// SaleOrderRepository defines persistence operations for sale orders.
// Save carries the same transactional-outbox obligation as purchase orders.
type SaleOrderRepository interface {
	shared.Repository[SaleOrder]
	FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*SaleOrder, error)
	FindByStatus(ctx context.Context, status OrderStatus, filter shared.Filter) ([]SaleOrder, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]SaleOrder, error)
	// GenerateInvoiceNumber produces the next SALE-<year>-<NNNN> number for
	// the current year. Uniqueness under concurrent creation is enforced by
	// the invoice_number unique constraint; callers retry on ErrDuplicateKey.
	GenerateInvoiceNumber(ctx context.Context) (string, error)
	ExistsByInvoiceNumber(ctx context.Context, invoiceNumber string) (bool, error)
}
