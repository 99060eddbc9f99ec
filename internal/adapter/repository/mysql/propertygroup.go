package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "resale-backend/internal/domain/propertygroup"
)

type PropertyGroupRepository struct{ db *gorm.DB }

func NewPropertyGroupRepository(db *gorm.DB) *PropertyGroupRepository {
	return &PropertyGroupRepository{db: db}
}

func (r *PropertyGroupRepository) Create(ctx context.Context, g *domain.PropertyGroup) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *PropertyGroupRepository) Save(ctx context.Context, g *domain.PropertyGroup) error {
	return r.db.WithContext(ctx).Save(g).Error
}

func (r *PropertyGroupRepository) GetByGroupID(ctx context.Context, groupID string) (*domain.PropertyGroup, error) {
	var out domain.PropertyGroup
	res := r.db.WithContext(ctx).Where("group_id = ?", groupID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if res.Error != nil {
		return nil, res.Error
	}
	return &out, nil
}

func (r *PropertyGroupRepository) ListByApplication(ctx context.Context, applicationID uint64) ([]domain.PropertyGroup, error) {
	var out []domain.PropertyGroup
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("is_primary DESC, property_name ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
