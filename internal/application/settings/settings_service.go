package settings

import (
	"context"
	"time"

	"github.com/pharmstock/backend/internal/domain/settings"
	"go.uber.org/zap"
)

// UpdateSettingsRequest replaces the pharmacy's profile
type UpdateSettingsRequest struct {
	Name              string `json:"name" binding:"required,min=1,max=255"`
	Address           string `json:"address"`
	PhoneNumber       string `json:"phone_number" binding:"max=20"`
	Email             string `json:"email" binding:"omitempty,email,max=255"`
	GSTNumber         string `json:"gst_number" binding:"max=15"`
	DrugLicenseNumber string `json:"drug_license_number" binding:"max=100"`
	LowStockThreshold int64  `json:"low_stock_threshold" binding:"gte=0"`
}

// SettingsResponse is the API shape of the company settings
type SettingsResponse struct {
	Name              string    `json:"name"`
	Address           string    `json:"address,omitempty"`
	PhoneNumber       string    `json:"phone_number,omitempty"`
	Email             string    `json:"email,omitempty"`
	GSTNumber         string    `json:"gst_number,omitempty"`
	DrugLicenseNumber string    `json:"drug_license_number,omitempty"`
	LowStockThreshold int64     `json:"low_stock_threshold"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// SettingsService manages the pharmacy's single settings row
type SettingsService struct {
	repo   settings.Repository
	logger *zap.Logger
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(repo settings.Repository, logger *zap.Logger) *SettingsService {
	return &SettingsService{repo: repo, logger: logger}
}

// Get returns the settings, creating the default row on first access
func (s *SettingsService) Get(ctx context.Context) (*SettingsResponse, error) {
	row, err := s.repo.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}
	resp := toSettingsResponse(row)
	return &resp, nil
}

// Update replaces the settings
func (s *SettingsService) Update(ctx context.Context, req UpdateSettingsRequest) (*SettingsResponse, error) {
	row, err := s.repo.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	if err := row.Update(req.Name, req.Address, req.PhoneNumber, req.Email,
		req.GSTNumber, req.DrugLicenseNumber, req.LowStockThreshold); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, row); err != nil {
		return nil, err
	}

	s.logger.Info("company settings updated",
		zap.String("name", row.Name),
		zap.Int64("low_stock_threshold", row.LowStockThreshold),
	)

	resp := toSettingsResponse(row)
	return &resp, nil
}

func toSettingsResponse(row *settings.CompanySettings) SettingsResponse {
	return SettingsResponse{
		Name:              row.Name,
		Address:           row.Address,
		PhoneNumber:       row.PhoneNumber,
		Email:             row.Email,
		GSTNumber:         row.GSTNumber,
		DrugLicenseNumber: row.DrugLicenseNumber,
		LowStockThreshold: row.LowStockThreshold,
		UpdatedAt:         row.UpdatedAt,
	}
}
