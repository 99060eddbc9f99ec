package form

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	domainApp "resale-backend/internal/domain/application"
	domain "resale-backend/internal/domain/form"
	"resale-backend/internal/domain/uow"
	"resale-backend/internal/domain/workflow"
	"resale-backend/pkg/id"
)

type Usecase struct {
	tx  uow.UnitOfWork
	log *zap.Logger
}

func NewUsecase(tx uow.UnitOfWork, log *zap.Logger) *Usecase {
	return &Usecase{tx: tx, log: log}
}

// GetOrCreate returns the form row of the given type, creating it on first
// access. A fresh row starts at not_started with no data.
func (u *Usecase) GetOrCreate(ctx context.Context, applicationID string, t domain.Type) (*FormDTO, error) {
	if !t.Known() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownType, t)
	}

	var dto FormDTO
	err := u.tx.WithinApplicationTx(ctx, applicationID, func(r uow.Repos, a *domainApp.Application) error {
		f, err := u.getOrCreateRow(ctx, r, a, t)
		if err != nil {
			return err
		}
		dto = toDTO(a.ApplicationID, f)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// Update applies a data and/or status change. Status moves forward only;
// completing a form also stamps the matching application timestamp, and any
// write touches forms_updated_at so PDF staleness can be detected.
func (u *Usecase) Update(ctx context.Context, applicationID string, t domain.Type, in UpdateFormInput) (*FormDTO, error) {
	if !t.Known() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownType, t)
	}
	next := domain.Status(in.Status)

	var dto FormDTO
	err := u.tx.WithinApplicationTx(ctx, applicationID, func(r uow.Repos, a *domainApp.Application) error {
		f, err := u.getOrCreateRow(ctx, r, a, t)
		if err != nil {
			return err
		}

		if in.Status != "" {
			if !f.Status.CanTransition(next) {
				return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, f.Status, next)
			}
			f.Status = next
		}
		if in.FormData != nil {
			f.FormData = in.FormData
		}

		now := time.Now().UTC()
		if f.Status == domain.StatusCompleted && f.CompletedAt == nil {
			f.CompletedAt = &now
			stampFormCompletion(a, t, now)
		}
		a.FormsUpdatedAt = &now

		if err := r.Forms.Save(ctx, f); err != nil {
			return err
		}
		if err := r.Applications.Save(ctx, a); err != nil {
			return err
		}
		dto = toDTO(a.ApplicationID, f)
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Info("form updated",
		zap.String("application_id", applicationID),
		zap.String("form_type", string(t)),
		zap.String("status", dto.Status))
	return &dto, nil
}

// MarkTaskComplete is the manual override: it stamps the completion
// timestamp for a task the staff finished out of band. Form tasks also move
// the form row to completed so the derived state agrees with the stamp.
func (u *Usecase) MarkTaskComplete(ctx context.Context, applicationID string, kind workflow.TaskKind) error {
	switch kind {
	case workflow.TaskInspection, workflow.TaskResale, workflow.TaskSettlement,
		workflow.TaskPDF, workflow.TaskEmail:
	default:
		return fmt.Errorf("unknown task %q", kind)
	}

	return u.tx.WithinApplicationTx(ctx, applicationID, func(r uow.Repos, a *domainApp.Application) error {
		snap := workflow.NewSnapshot(a, nil, nil, nil)
		if act := workflow.CanMarkTaskComplete(snap, kind); !act.Allowed {
			return fmt.Errorf("%w: %s", domainApp.ErrAlreadyCompleted, kind)
		}

		now := time.Now().UTC()
		switch kind {
		case workflow.TaskInspection:
			a.InspectionFormCompletedAt = &now
		case workflow.TaskResale:
			a.ResaleCertificateCompletedAt = &now
		case workflow.TaskSettlement:
			a.SettlementFormCompletedAt = &now
		case workflow.TaskPDF:
			a.PDFCompletedAt = &now
		case workflow.TaskEmail:
			a.EmailCompletedAt = &now
		}

		if t, ok := formTypeFor(kind); ok {
			f, err := r.Forms.GetByApplicationAndType(ctx, a.ID, t)
			switch {
			case err == nil:
				if f.Status.CanTransition(domain.StatusCompleted) {
					f.Status = domain.StatusCompleted
					if f.CompletedAt == nil {
						f.CompletedAt = &now
					}
					if err := r.Forms.Save(ctx, f); err != nil {
						return err
					}
				}
			case errors.Is(err, domain.ErrNotFound):
				// nothing to sync
			default:
				return err
			}
		}

		u.log.Info("task marked complete",
			zap.String("application_id", applicationID),
			zap.String("task", string(kind)))
		return r.Applications.Save(ctx, a)
	})
}

func (u *Usecase) getOrCreateRow(ctx context.Context, r uow.Repos, a *domainApp.Application, t domain.Type) (*domain.Form, error) {
	f, err := r.Forms.GetByApplicationAndType(ctx, a.ID, t)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	f = &domain.Form{
		FormID:        id.NewID32(),
		ApplicationID: a.ID,
		FormType:      t,
		Status:        domain.StatusNotStarted,
	}
	if err := r.Forms.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func stampFormCompletion(a *domainApp.Application, t domain.Type, now time.Time) {
	switch t {
	case domain.TypeInspection:
		if a.InspectionFormCompletedAt == nil {
			a.InspectionFormCompletedAt = &now
		}
	case domain.TypeResaleCertificate:
		if a.ResaleCertificateCompletedAt == nil {
			a.ResaleCertificateCompletedAt = &now
		}
	case domain.TypeSettlement:
		if a.SettlementFormCompletedAt == nil {
			a.SettlementFormCompletedAt = &now
		}
	}
}

func formTypeFor(kind workflow.TaskKind) (domain.Type, bool) {
	switch kind {
	case workflow.TaskInspection:
		return domain.TypeInspection, true
	case workflow.TaskResale:
		return domain.TypeResaleCertificate, true
	case workflow.TaskSettlement:
		return domain.TypeSettlement, true
	}
	return "", false
}
