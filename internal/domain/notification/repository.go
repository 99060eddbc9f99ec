package notification

import "context"

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListByApplication(ctx context.Context, applicationID uint64) ([]Notification, error)
	HasByType(ctx context.Context, applicationID uint64, t Type) (bool, error)
}
