package catalog

import (
	"context"

	"github.com/pharmstock/backend/internal/domain/shared"
)

// CompanyRepository defines persistence operations for companies
type CompanyRepository interface {
	shared.Repository[Company]
	FindByName(ctx context.Context, name string) (*Company, error)
}

// ProductRepository defines persistence operations for products
type ProductRepository interface {
	shared.Repository[Product]
	FindByName(ctx context.Context, name string) (*Product, error)
}
