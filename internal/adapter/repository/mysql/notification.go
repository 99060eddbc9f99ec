package mysql

import (
	"context"

	"gorm.io/gorm"

	domain "resale-backend/internal/domain/notification"
)

type NotificationRepository struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationRepository) ListByApplication(ctx context.Context, applicationID uint64) ([]domain.Notification, error) {
	var out []domain.Notification
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("sent_at ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *NotificationRepository) HasByType(ctx context.Context, applicationID uint64, t domain.Type) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("application_id = ? AND notification_type = ?", applicationID, t).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
