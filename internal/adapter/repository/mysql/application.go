package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "resale-backend/internal/domain/application"
)

type ApplicationRepository struct{ db *gorm.DB }

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, a *domain.Application) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ApplicationRepository) Save(ctx context.Context, a *domain.Application) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *ApplicationRepository) GetByApplicationID(ctx context.Context, applicationID string) (*domain.Application, error) {
	var out domain.Application
	res := r.db.WithContext(ctx).Where("application_id = ?", applicationID).First(&out)
	if err := translate(res.Error); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ApplicationRepository) GetByApplicationIDForUpdate(ctx context.Context, applicationID string) (*domain.Application, error) {
	tx := r.db.WithContext(ctx)
	// sqlite (tests) has no FOR UPDATE
	if tx.Dialector.Name() == "mysql" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var out domain.Application
	res := tx.Where("application_id = ?", applicationID).First(&out)
	if err := translate(res.Error); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ApplicationRepository) List(ctx context.Context, offset, limit int) ([]domain.Application, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Application{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.Application
	err := q.Order("submitted_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// translate maps the gorm sentinel to the domain one so usecases never
// import gorm.
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

type PropertyRepository struct{ db *gorm.DB }

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) Create(ctx context.Context, p *domain.Property) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PropertyRepository) GetByID(ctx context.Context, id uint64) (*domain.Property, error) {
	var out domain.Property
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	if err := translate(res.Error); err != nil {
		return nil, err
	}
	return &out, nil
}
