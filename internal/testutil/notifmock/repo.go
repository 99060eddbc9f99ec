package notifmock

import (
	"context"

	domain "resale-backend/internal/domain/notification"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn            func(ctx context.Context, n *domain.Notification) error
	ListByApplicationFn func(ctx context.Context, applicationID uint64) ([]domain.Notification, error)
	HasByTypeFn         func(ctx context.Context, applicationID uint64, t domain.Type) (bool, error)
}

func (m *Repo) Create(ctx context.Context, n *domain.Notification) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, n)
	}
	return nil
}

func (m *Repo) ListByApplication(ctx context.Context, applicationID uint64) ([]domain.Notification, error) {
	if m.ListByApplicationFn != nil {
		return m.ListByApplicationFn(ctx, applicationID)
	}
	return nil, nil
}

func (m *Repo) HasByType(ctx context.Context, applicationID uint64, t domain.Type) (bool, error) {
	if m.HasByTypeFn != nil {
		return m.HasByTypeFn(ctx, applicationID, t)
	}
	return false, nil
}
