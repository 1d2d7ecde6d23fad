package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/catalog"
)

// CreateCompanyRequest creates or renames a manufacturer
type CreateCompanyRequest struct {
	Name string `json:"name" binding:"required,min=1,max=255"`
}

// CreateProductRequest creates or updates a product
type CreateProductRequest struct {
	Name      string     `json:"name" binding:"required,min=1,max=255"`
	CompanyID *uuid.UUID `json:"company_id"`
}

// CompanyResponse is the API shape of a company
type CompanyResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductResponse is the API shape of a product
type ProductResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	CompanyID *uuid.UUID `json:"company_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ToCompanyResponse converts a domain company to its API shape
func ToCompanyResponse(c *catalog.Company) CompanyResponse {
	return CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToProductResponse converts a domain product to its API shape
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		CompanyID: p.CompanyID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
