package certificate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainApp "resale-backend/internal/domain/application"
	domainForm "resale-backend/internal/domain/form"
	domainGroup "resale-backend/internal/domain/propertygroup"
	"resale-backend/internal/domain/uow"
	"resale-backend/internal/domain/workflow"
)

const lockKind = "pdf"

// Renderer turns HTML into PDF bytes.
type Renderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
}

// Store persists the finished PDF and returns its stable URL.
type Store interface {
	Upload(ctx context.Context, objectKey string, pdf []byte) (string, error)
}

// Locker coalesces concurrent generation requests per target.
type Locker interface {
	Acquire(ctx context.Context, kind, applicationID, groupID string) (bool, error)
	Release(ctx context.Context, kind, applicationID, groupID string) error
}

type Usecase struct {
	tx       uow.UnitOfWork
	renderer Renderer
	store    Store
	lock     Locker
	log      *zap.Logger
}

func NewUsecase(tx uow.UnitOfWork, renderer Renderer, store Store, lock Locker, log *zap.Logger) *Usecase {
	return &Usecase{tx: tx, renderer: renderer, store: store, lock: lock, log: log}
}

// Generate renders and stores the application-level certificate PDF. The
// action gate runs inside the row-locked transaction, so a stale client
// cannot race a concurrent form update past the staleness check.
func (u *Usecase) Generate(ctx context.Context, applicationID string) (*CertificateDTO, error) {
	ok, err := u.lock.Acquire(ctx, lockKind, applicationID, "")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: pdf generation for %s", ErrOperationInFlight, applicationID)
	}
	defer func() {
		if err := u.lock.Release(context.WithoutCancel(ctx), lockKind, applicationID, ""); err != nil {
			u.log.Warn("pdf lock release failed", zap.String("application_id", applicationID), zap.Error(err))
		}
	}()

	var dto CertificateDTO
	err = u.tx.WithinApplicationTx(ctx, applicationID, func(r uow.Repos, a *domainApp.Application) error {
		forms, err := r.Forms.ListByApplication(ctx, a.ID)
		if err != nil {
			return err
		}
		notes, err := r.Notifications.ListByApplication(ctx, a.ID)
		if err != nil {
			return err
		}
		groups, err := r.PropertyGroups.ListByApplication(ctx, a.ID)
		if err != nil {
			return err
		}

		snap := workflow.NewSnapshot(a, forms, notes, groups)
		variant, _ := workflow.ResolveVariant(snap)
		tasks := workflow.ResolveTasks(snap, variant)
		if act := workflow.CanGeneratePDF(tasks, variant); !act.Allowed {
			return fmt.Errorf("%w: %s", ErrNotAllowed, act.Reason)
		}

		var prop *domainApp.Property
		if a.PropertyID != 0 {
			if p, perr := r.Properties.GetByID(ctx, a.PropertyID); perr == nil {
				prop = p
			}
		}

		now := time.Now().UTC()
		html, err := renderCertificateHTML(buildData(a, prop, forms, now))
		if err != nil {
			return err
		}
		pdf, err := u.renderer.Render(ctx, html)
		if err != nil {
			return fmt.Errorf("render certificate: %w", err)
		}

		key := fmt.Sprintf("certificates/%s/%s.pdf", a.ApplicationID, uuid.NewString())
		url, err := u.store.Upload(ctx, key, pdf)
		if err != nil {
			return fmt.Errorf("store certificate: %w", err)
		}

		a.PDFURL = url
		a.PDFGeneratedAt = &now
		a.PDFCompletedAt = &now
		if err := r.Applications.Save(ctx, a); err != nil {
			return err
		}

		dto = CertificateDTO{ApplicationID: a.ApplicationID, PDFURL: url, GeneratedAt: now}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Info("certificate generated",
		zap.String("application_id", dto.ApplicationID),
		zap.String("pdf_url", dto.PDFURL))
	return &dto, nil
}

// GenerateForGroup renders the per-property certificate on a multi-community
// application. A render or upload failure moves the group's pdf_status to
// failed so the dashboard can offer a retry.
func (u *Usecase) GenerateForGroup(ctx context.Context, applicationID, groupID string) (*CertificateDTO, error) {
	ok, err := u.lock.Acquire(ctx, lockKind, applicationID, groupID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: pdf generation for group %s", ErrOperationInFlight, groupID)
	}
	defer func() {
		if err := u.lock.Release(context.WithoutCancel(ctx), lockKind, applicationID, groupID); err != nil {
			u.log.Warn("pdf lock release failed", zap.String("group_id", groupID), zap.Error(err))
		}
	}()

	var dto CertificateDTO
	err = u.tx.WithinApplicationTx(ctx, applicationID, func(r uow.Repos, a *domainApp.Application) error {
		g, err := r.PropertyGroups.GetByGroupID(ctx, groupID)
		if err != nil {
			return err
		}
		if g.ApplicationID != a.ID {
			return domainGroup.ErrNotFound
		}
		forms, err := r.Forms.ListByApplication(ctx, a.ID)
		if err != nil {
			return err
		}

		snap := workflow.NewSnapshot(a, forms, nil, []domainGroup.PropertyGroup{*g})
		if act := workflow.CanGeneratePDFForGroup(snap, snap.Groups[0]); !act.Allowed {
			return fmt.Errorf("%w: %s", ErrNotAllowed, act.Reason)
		}

		now := time.Now().UTC()
		html, err := renderCertificateHTML(certificateData{
			ApplicationID:    a.ApplicationID,
			PropertyName:     g.PropertyName,
			PropertyLocation: g.PropertyLocation,
			RequesterName:    a.RequesterName,
			UnitAddress:      a.UnitAddress,
			IssuedAt:         now,
		})
		if err != nil {
			return err
		}

		pdf, rerr := u.renderer.Render(ctx, html)
		var url string
		if rerr == nil {
			key := fmt.Sprintf("certificates/%s/%s/%s.pdf", a.ApplicationID, g.GroupID, uuid.NewString())
			url, rerr = u.store.Upload(ctx, key, pdf)
		}
		if rerr != nil {
			if g.PDFStatus.CanTransition(domainGroup.StatusFailed) {
				g.PDFStatus = domainGroup.StatusFailed
				if serr := r.PropertyGroups.Save(ctx, g); serr != nil {
					return serr
				}
			}
			return fmt.Errorf("group certificate: %w", rerr)
		}

		g.PDFStatus = domainGroup.StatusCompleted
		g.PDFURL = url
		g.PDFCompletedAt = &now
		if err := r.PropertyGroups.Save(ctx, g); err != nil {
			return err
		}

		dto = CertificateDTO{ApplicationID: a.ApplicationID, GroupID: g.GroupID, PDFURL: url, GeneratedAt: now}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Info("group certificate generated",
		zap.String("application_id", dto.ApplicationID),
		zap.String("group_id", dto.GroupID),
		zap.String("pdf_url", dto.PDFURL))
	return &dto, nil
}

func buildData(a *domainApp.Application, prop *domainApp.Property, forms []domainForm.Form, now time.Time) certificateData {
	d := certificateData{
		ApplicationID: a.ApplicationID,
		RequesterName: a.RequesterName,
		UnitAddress:   a.UnitAddress,
		IssuedAt:      now,
	}
	if prop != nil {
		d.PropertyName = prop.Name
		d.PropertyLocation = prop.Location
	}
	titles := map[domainForm.Type]string{
		domainForm.TypeInspection:        "Inspection",
		domainForm.TypeResaleCertificate: "Resale Certificate",
		domainForm.TypeSettlement:        "Settlement",
	}
	for _, f := range forms {
		if f.Status != domainForm.StatusCompleted || len(f.FormData) == 0 {
			continue
		}
		d.Sections = append(d.Sections, certificateSection{
			Title:  titles[f.FormType],
			Fields: f.FormData,
		})
	}
	return d
}
