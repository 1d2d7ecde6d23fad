package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/partner"
	"github.com/pharmstock/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PartnerService handles suppliers and customers
type PartnerService struct {
	supplierRepo partner.SupplierRepository
	customerRepo partner.CustomerRepository
	logger       *zap.Logger
}

// NewPartnerService creates a new PartnerService
func NewPartnerService(
	supplierRepo partner.SupplierRepository,
	customerRepo partner.CustomerRepository,
	logger *zap.Logger,
) *PartnerService {
	return &PartnerService{
		supplierRepo: supplierRepo,
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// CreateSupplier creates a supplier
func (s *PartnerService) CreateSupplier(ctx context.Context, req UpsertPartnerRequest) (*PartnerResponse, error) {
	supplier, err := partner.NewSupplier(req.Name, req.Contact())
	if err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	s.logger.Info("supplier created",
		zap.String("supplier_id", supplier.ID.String()),
		zap.String("name", supplier.Name),
	)

	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// GetSupplier returns a supplier by ID
func (s *PartnerService) GetSupplier(ctx context.Context, id uuid.UUID) (*PartnerResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// ListSuppliers lists suppliers with pagination and name search
func (s *PartnerService) ListSuppliers(ctx context.Context, filter shared.Filter) (*shared.Paginated[PartnerResponse], error) {
	suppliers, err := s.supplierRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.supplierRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]PartnerResponse, len(suppliers))
	for i := range suppliers {
		items[i] = ToSupplierResponse(&suppliers[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.Limit())
	return &page, nil
}

// UpdateSupplier replaces a supplier's name and contact details
func (s *PartnerService) UpdateSupplier(ctx context.Context, id uuid.UUID, req UpsertPartnerRequest) (*PartnerResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := supplier.Update(req.Name, req.Contact()); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// DeleteSupplier removes a supplier
func (s *PartnerService) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	return s.supplierRepo.Delete(ctx, id)
}

// CreateCustomer creates a customer
func (s *PartnerService) CreateCustomer(ctx context.Context, req UpsertPartnerRequest) (*PartnerResponse, error) {
	customer, err := partner.NewCustomer(req.Name, req.Contact())
	if err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("customer created",
		zap.String("customer_id", customer.ID.String()),
		zap.String("name", customer.Name),
	)

	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// GetCustomer returns a customer by ID
func (s *PartnerService) GetCustomer(ctx context.Context, id uuid.UUID) (*PartnerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// ListCustomers lists customers with pagination and name search
func (s *PartnerService) ListCustomers(ctx context.Context, filter shared.Filter) (*shared.Paginated[PartnerResponse], error) {
	customers, err := s.customerRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.customerRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]PartnerResponse, len(customers))
	for i := range customers {
		items[i] = ToCustomerResponse(&customers[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.Limit())
	return &page, nil
}

// UpdateCustomer replaces a customer's name and contact details
func (s *PartnerService) UpdateCustomer(ctx context.Context, id uuid.UUID, req UpsertPartnerRequest) (*PartnerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := customer.Update(req.Name, req.Contact()); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// DeleteCustomer removes a customer
func (s *PartnerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	return s.customerRepo.Delete(ctx, id)
}
