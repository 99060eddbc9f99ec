package uow

import (
	"context"

	"resale-backend/internal/domain/application"
	"resale-backend/internal/domain/form"
	"resale-backend/internal/domain/notification"
	"resale-backend/internal/domain/propertygroup"
)

type Repos struct {
	Applications   application.Repository
	Properties     application.PropertyRepository
	Forms          form.Repository
	Notifications  notification.Repository
	PropertyGroups propertygroup.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the application row first, then pass it in
	WithinApplicationTx(ctx context.Context, applicationID string, fn func(r Repos, a *application.Application) error) error
}
