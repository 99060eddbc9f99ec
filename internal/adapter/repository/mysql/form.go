package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "resale-backend/internal/domain/form"
)

type FormRepository struct{ db *gorm.DB }

func NewFormRepository(db *gorm.DB) *FormRepository { return &FormRepository{db: db} }

func (r *FormRepository) Create(ctx context.Context, f *domain.Form) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *FormRepository) Save(ctx context.Context, f *domain.Form) error {
	return r.db.WithContext(ctx).Save(f).Error
}

func (r *FormRepository) GetByFormID(ctx context.Context, formID string) (*domain.Form, error) {
	var out domain.Form
	res := r.db.WithContext(ctx).Where("form_id = ?", formID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if res.Error != nil {
		return nil, res.Error
	}
	return &out, nil
}

func (r *FormRepository) GetByApplicationAndType(ctx context.Context, applicationID uint64, t domain.Type) (*domain.Form, error) {
	var out domain.Form
	res := r.db.WithContext(ctx).
		Where("application_id = ? AND form_type = ?", applicationID, t).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if res.Error != nil {
		return nil, res.Error
	}
	return &out, nil
}

func (r *FormRepository) ListByApplication(ctx context.Context, applicationID uint64) ([]domain.Form, error) {
	var out []domain.Form
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("form_type ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
