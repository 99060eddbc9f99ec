package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	domainApp "resale-backend/internal/domain/application"
	domainForm "resale-backend/internal/domain/form"
	domainNote "resale-backend/internal/domain/notification"
	domainGroup "resale-backend/internal/domain/propertygroup"
	"resale-backend/internal/domain/uow"
	"resale-backend/internal/domain/workflow"
	"resale-backend/pkg/id"
)

var ErrPrimaryGroupRequired = errors.New("multi-community applications need exactly one primary community")

type Usecase struct {
	apps   domainApp.Repository
	props  domainApp.PropertyRepository
	forms  domainForm.Repository
	notes  domainNote.Repository
	groups domainGroup.Repository
	tx     uow.UnitOfWork
	log    *zap.Logger
}

func NewUsecase(r uow.Repos, tx uow.UnitOfWork, log *zap.Logger) *Usecase {
	return &Usecase{
		apps:   r.Applications,
		props:  r.Properties,
		forms:  r.Forms,
		notes:  r.Notifications,
		groups: r.PropertyGroups,
		tx:     tx,
		log:    log,
	}
}

func (u *Usecase) Create(ctx context.Context, in CreateApplicationInput) (*ApplicationDTO, error) {
	appType := domainApp.Type(in.ApplicationType)
	if !appType.Known() {
		return nil, fmt.Errorf("%w: %q", domainApp.ErrUnknownType, in.ApplicationType)
	}
	multi := appType == domainApp.TypeMultiCommunity
	if multi {
		primaries := 0
		for _, c := range in.Communities {
			if c.IsPrimary {
				primaries++
			}
		}
		if primaries != 1 {
			return nil, ErrPrimaryGroupRequired
		}
	}

	now := time.Now().UTC()
	var dto *ApplicationDTO

	err := u.tx.WithinTx(ctx, func(r uow.Repos) error {
		prop := &domainApp.Property{
			PropertyID:   id.NewID32(),
			Name:         in.PropertyName,
			Location:     in.PropertyLocation,
			ManagerEmail: in.ManagerEmail,
		}
		if err := r.Properties.Create(ctx, prop); err != nil {
			return err
		}

		a := &domainApp.Application{
			ApplicationID:    id.NewID32(),
			ApplicationType:  appType,
			SubmitterType:    domainApp.SubmitterType(in.SubmitterType),
			IsMultiCommunity: multi,
			PropertyID:       prop.ID,
			RequesterName:    in.RequesterName,
			RequesterEmail:   in.RequesterEmail,
			UnitAddress:      in.UnitAddress,
			SubmittedAt:      &now,
		}
		if a.SubmitterType == "" {
			a.SubmitterType = domainApp.SubmitterOwner
		}
		if err := r.Applications.Create(ctx, a); err != nil {
			return err
		}

		groups := make([]domainGroup.PropertyGroup, 0, len(in.Communities))
		for _, c := range in.Communities {
			g := domainGroup.PropertyGroup{
				GroupID:          id.NewID32(),
				ApplicationID:    a.ID,
				IsPrimary:        c.IsPrimary,
				PropertyName:     c.Name,
				PropertyLocation: c.Location,
				Status:           domainGroup.StatusPending,
				PDFStatus:        domainGroup.StatusPending,
				EmailStatus:      domainGroup.StatusPending,
			}
			if err := r.PropertyGroups.Create(ctx, &g); err != nil {
				return err
			}
			groups = append(groups, g)
		}

		d := u.buildDTO(a, prop, nil, nil, groups)
		dto = &d
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Info("application created",
		zap.String("application_id", dto.ApplicationID),
		zap.String("application_type", dto.ApplicationType))
	return dto, nil
}

func (u *Usecase) Get(ctx context.Context, applicationID string) (*ApplicationDTO, error) {
	a, err := u.apps.GetByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	forms, notes, groups, err := u.loadAssociations(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	var prop *domainApp.Property
	if a.PropertyID != 0 {
		// a dangling property reference must not break the dashboard
		if p, perr := u.props.GetByID(ctx, a.PropertyID); perr == nil {
			prop = p
		}
	}
	dto := u.buildDTO(a, prop, forms, notes, groups)
	return &dto, nil
}

func (u *Usecase) List(ctx context.Context, offset, limit int) (*ListResult, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	apps, total, err := u.apps.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	out := &ListResult{
		Applications: make([]ApplicationSummary, 0, len(apps)),
		Total:        total,
		Offset:       offset,
		Limit:        limit,
	}
	for i := range apps {
		a := &apps[i]
		forms, notes, groups, err := u.loadAssociations(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		snap := workflow.NewSnapshot(a, forms, notes, groups)
		variant, _ := workflow.ResolveVariant(snap)

		sum := ApplicationSummary{
			ApplicationID:   a.ApplicationID,
			ApplicationType: string(a.ApplicationType),
			RequesterName:   a.RequesterName,
			CurrentStep:     workflow.ResolveStep(snap, variant),
			SubmittedAt:     a.SubmittedAt,
		}
		if p, perr := u.props.GetByID(ctx, a.PropertyID); perr == nil {
			sum.PropertyName = p.Name
		}
		out.Applications = append(out.Applications, sum)
	}
	return out, nil
}

func (u *Usecase) loadAssociations(ctx context.Context, appID uint64) ([]domainForm.Form, []domainNote.Notification, []domainGroup.PropertyGroup, error) {
	forms, err := u.forms.ListByApplication(ctx, appID)
	if err != nil {
		return nil, nil, nil, err
	}
	notes, err := u.notes.ListByApplication(ctx, appID)
	if err != nil {
		return nil, nil, nil, err
	}
	groups, err := u.groups.ListByApplication(ctx, appID)
	if err != nil {
		return nil, nil, nil, err
	}
	return forms, notes, groups, nil
}

func (u *Usecase) buildDTO(a *domainApp.Application, prop *domainApp.Property, forms []domainForm.Form, notes []domainNote.Notification, groups []domainGroup.PropertyGroup) ApplicationDTO {
	snap := workflow.NewSnapshot(a, forms, notes, groups)
	variant, verr := workflow.ResolveVariant(snap)
	tasks := workflow.ResolveTasks(snap, variant)

	view := WorkflowView{
		Variant:     variant.String(),
		Step:        workflow.ResolveStep(snap, variant),
		Tasks:       tasks,
		GeneratePDF: workflow.CanGeneratePDF(tasks, variant),
		SendEmail:   workflow.CanSendEmail(tasks),
		MarkComplete: map[string]workflow.Action{
			string(workflow.TaskPDF):   workflow.CanMarkTaskComplete(snap, workflow.TaskPDF),
			string(workflow.TaskEmail): workflow.CanMarkTaskComplete(snap, workflow.TaskEmail),
		},
	}
	if verr != nil {
		view.VariantWarning = verr.Error()
		u.log.Warn("application type fell back to the standard ladder",
			zap.String("application_id", a.ApplicationID),
			zap.String("application_type", string(a.ApplicationType)))
	}
	if variant == workflow.VariantSettlement {
		view.MarkComplete[string(workflow.TaskSettlement)] = workflow.CanMarkTaskComplete(snap, workflow.TaskSettlement)
	} else {
		view.MarkComplete[string(workflow.TaskInspection)] = workflow.CanMarkTaskComplete(snap, workflow.TaskInspection)
		view.MarkComplete[string(workflow.TaskResale)] = workflow.CanMarkTaskComplete(snap, workflow.TaskResale)
	}

	if variant == workflow.VariantMultiCommunity {
		r := workflow.Aggregate(snap)
		view.Rollup = &r
		view.Groups = make([]GroupView, 0, len(snap.Groups))
		for _, g := range snap.Groups {
			view.Groups = append(view.Groups, GroupView{
				GroupID:          g.GroupID,
				IsPrimary:        g.IsPrimary,
				PropertyName:     g.PropertyName,
				PropertyLocation: g.PropertyLocation,
				Status:           string(g.Status),
				PDFStatus:        string(g.PDFStatus),
				PDFURL:           g.PDFURL,
				EmailStatus:      string(g.EmailStatus),
				PDFCompletedAt:   g.PDFCompletedAt,
				EmailCompletedAt: g.EmailCompletedAt,
				GeneratePDF:      workflow.CanGeneratePDFForGroup(snap, g),
				SendEmail:        workflow.CanSendEmailForGroup(g),
			})
		}
	}

	dto := ApplicationDTO{
		ApplicationID:   a.ApplicationID,
		ApplicationType: string(a.ApplicationType),
		SubmitterType:   string(a.SubmitterType),
		RequesterName:   a.RequesterName,
		RequesterEmail:  a.RequesterEmail,
		UnitAddress:     a.UnitAddress,
		PDFURL:          a.PDFURL,
		SubmittedAt:     a.SubmittedAt,
		CreatedAt:       a.CreatedAt,
		Workflow:        view,
	}
	if prop != nil {
		dto.PropertyName = prop.Name
	}
	return dto
}
