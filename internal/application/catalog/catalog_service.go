package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/catalog"
	"github.com/pharmstock/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CatalogService handles companies (manufacturers) and the products they make
type CatalogService struct {
	companyRepo catalog.CompanyRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(
	companyRepo catalog.CompanyRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		companyRepo: companyRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// CreateCompany creates a manufacturer
func (s *CatalogService) CreateCompany(ctx context.Context, req CreateCompanyRequest) (*CompanyResponse, error) {
	company, err := catalog.NewCompany(req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.companyRepo.Save(ctx, company); err != nil {
		return nil, err
	}
	resp := ToCompanyResponse(company)
	return &resp, nil
}

// GetCompany returns a company by ID
func (s *CatalogService) GetCompany(ctx context.Context, id uuid.UUID) (*CompanyResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCompanyResponse(company)
	return &resp, nil
}

// ListCompanies lists companies with pagination
func (s *CatalogService) ListCompanies(ctx context.Context, filter shared.Filter) (*shared.Paginated[CompanyResponse], error) {
	companies, err := s.companyRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.companyRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]CompanyResponse, len(companies))
	for i := range companies {
		items[i] = ToCompanyResponse(&companies[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.Limit())
	return &page, nil
}

// UpdateCompany renames a company
func (s *CatalogService) UpdateCompany(ctx context.Context, id uuid.UUID, req CreateCompanyRequest) (*CompanyResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := company.Rename(req.Name); err != nil {
		return nil, err
	}
	if err := s.companyRepo.Save(ctx, company); err != nil {
		return nil, err
	}
	resp := ToCompanyResponse(company)
	return &resp, nil
}

// DeleteCompany removes a company
func (s *CatalogService) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	return s.companyRepo.Delete(ctx, id)
}

// CreateProduct creates a product, optionally linked to its manufacturer
func (s *CatalogService) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if req.CompanyID != nil {
		if _, err := s.companyRepo.FindByID(ctx, *req.CompanyID); err != nil {
			return nil, err
		}
	}

	product, err := catalog.NewProduct(req.Name, req.CompanyID)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name),
	)

	resp := ToProductResponse(product)
	return &resp, nil
}

// GetProduct returns a product by ID
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// ListProducts lists products with pagination and name search
func (s *CatalogService) ListProducts(ctx context.Context, filter shared.Filter) (*shared.Paginated[ProductResponse], error) {
	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ProductResponse, len(products))
	for i := range products {
		items[i] = ToProductResponse(&products[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.Limit())
	return &page, nil
}

// UpdateProduct renames a product and reassigns its manufacturer
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CompanyID != nil {
		if _, err := s.companyRepo.FindByID(ctx, *req.CompanyID); err != nil {
			return nil, err
		}
	}

	if err := product.Rename(req.Name); err != nil {
		return nil, err
	}
	product.AssignCompany(req.CompanyID)

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// DeleteProduct removes a product
func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}
