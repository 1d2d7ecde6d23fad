package persistence

import (
	"context"
	"errors"

	"github.com/pharmstock/backend/internal/domain/settings"
	"gorm.io/gorm"
)

// GormSettingsRepository implements settings.Repository using GORM
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// GetOrCreate returns the single settings row, inserting the default row if
// absent. A concurrent first access loses the insert on the primary key
// constraint and re-reads the winner's row.
func (r *GormSettingsRepository) GetOrCreate(ctx context.Context) (*settings.CompanySettings, error) {
	var row settings.CompanySettings
	err := r.db.WithContext(ctx).First(&row, "id = ?", settings.SettingsID).Error
	if err == nil {
		return &row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	defaults := settings.DefaultSettings()
	if err := r.db.WithContext(ctx).Create(defaults).Error; err != nil {
		if isDuplicateKey(err) {
			err = r.db.WithContext(ctx).First(&row, "id = ?", settings.SettingsID).Error
			return &row, err
		}
		return nil, err
	}
	return defaults, nil
}

// Save persists the settings row
func (r *GormSettingsRepository) Save(ctx context.Context, row *settings.CompanySettings) error {
	return r.db.WithContext(ctx).Save(row).Error
}

// Ensure interface compliance
var _ settings.Repository = (*GormSettingsRepository)(nil)
