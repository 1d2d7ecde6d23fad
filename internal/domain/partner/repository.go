package partner

import (
	"context"

	"github.com/pharmstock/backend/internal/domain/shared"
)

// SupplierRepository defines persistence operations for suppliers
type SupplierRepository interface {
	shared.Repository[Supplier]
	FindByName(ctx context.Context, name string) (*Supplier, error)
}

// CustomerRepository defines persistence operations for customers
type CustomerRepository interface {
	shared.Repository[Customer]
	FindByName(ctx context.Context, name string) (*Customer, error)
}
