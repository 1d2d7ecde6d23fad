package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// gormCrudRepository is the shared CRUD base for catalog and partner
// entities. Name lookups and search assume the model has a "name" column.
type gormCrudRepository[T any] struct {
	db *gorm.DB
}

func (r *gormCrudRepository[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).First(&entity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

func (r *gormCrudRepository[T]) FindByName(ctx context.Context, name string) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).First(&entity, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

func (r *gormCrudRepository[T]) FindAll(ctx context.Context, filter shared.Filter) ([]T, error) {
	var entities []T
	var model T
	query := r.db.WithContext(ctx).Model(&model)
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if err := query.
		Order("name ASC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *gormCrudRepository[T]) Save(ctx context.Context, entity *T) error {
	if err := r.db.WithContext(ctx).Save(entity).Error; err != nil {
		if isDuplicateKey(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *gormCrudRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	var model T
	result := r.db.WithContext(ctx).Delete(&model, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *gormCrudRepository[T]) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	var model T
	query := r.db.WithContext(ctx).Model(&model)
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	err := query.Count(&count).Error
	return count, err
}
