package form

import "context"

type Repository interface {
	Create(ctx context.Context, f *Form) error
	GetByFormID(ctx context.Context, formID string) (*Form, error)
	GetByApplicationAndType(ctx context.Context, applicationID uint64, t Type) (*Form, error)
	ListByApplication(ctx context.Context, applicationID uint64) ([]Form, error)
	Save(ctx context.Context, f *Form) error
}
