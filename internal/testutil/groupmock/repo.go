package groupmock

import (
	"context"

	domain "resale-backend/internal/domain/propertygroup"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn            func(ctx context.Context, g *domain.PropertyGroup) error
	GetByGroupIDFn      func(ctx context.Context, groupID string) (*domain.PropertyGroup, error)
	ListByApplicationFn func(ctx context.Context, applicationID uint64) ([]domain.PropertyGroup, error)
	SaveFn              func(ctx context.Context, g *domain.PropertyGroup) error
}

func (m *Repo) Create(ctx context.Context, g *domain.PropertyGroup) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, g)
	}
	return nil
}

func (m *Repo) GetByGroupID(ctx context.Context, groupID string) (*domain.PropertyGroup, error) {
	if m.GetByGroupIDFn != nil {
		return m.GetByGroupIDFn(ctx, groupID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) ListByApplication(ctx context.Context, applicationID uint64) ([]domain.PropertyGroup, error) {
	if m.ListByApplicationFn != nil {
		return m.ListByApplicationFn(ctx, applicationID)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, g *domain.PropertyGroup) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, g)
	}
	return nil
}
