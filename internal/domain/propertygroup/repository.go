package propertygroup

import "context"

type Repository interface {
	Create(ctx context.Context, g *PropertyGroup) error
	GetByGroupID(ctx context.Context, groupID string) (*PropertyGroup, error)
	ListByApplication(ctx context.Context, applicationID uint64) ([]PropertyGroup, error)
	Save(ctx context.Context, g *PropertyGroup) error
}
