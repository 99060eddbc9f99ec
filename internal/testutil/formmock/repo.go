package formmock

import (
	"context"

	domain "resale-backend/internal/domain/form"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn                  func(ctx context.Context, f *domain.Form) error
	GetByFormIDFn             func(ctx context.Context, formID string) (*domain.Form, error)
	GetByApplicationAndTypeFn func(ctx context.Context, applicationID uint64, t domain.Type) (*domain.Form, error)
	ListByApplicationFn       func(ctx context.Context, applicationID uint64) ([]domain.Form, error)
	SaveFn                    func(ctx context.Context, f *domain.Form) error
}

func (m *Repo) Create(ctx context.Context, f *domain.Form) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, f)
	}
	return nil
}

func (m *Repo) GetByFormID(ctx context.Context, formID string) (*domain.Form, error) {
	if m.GetByFormIDFn != nil {
		return m.GetByFormIDFn(ctx, formID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByApplicationAndType(ctx context.Context, applicationID uint64, t domain.Type) (*domain.Form, error) {
	if m.GetByApplicationAndTypeFn != nil {
		return m.GetByApplicationAndTypeFn(ctx, applicationID, t)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) ListByApplication(ctx context.Context, applicationID uint64) ([]domain.Form, error) {
	if m.ListByApplicationFn != nil {
		return m.ListByApplicationFn(ctx, applicationID)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, f *domain.Form) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, f)
	}
	return nil
}
