package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	domain "resale-backend/internal/domain/application"
	domainForm "resale-backend/internal/domain/form"
	domainGroup "resale-backend/internal/domain/propertygroup"
	"resale-backend/internal/domain/uow"
	"resale-backend/internal/domain/workflow"
	"resale-backend/internal/testutil/appmock"
	"resale-backend/internal/testutil/formmock"
	"resale-backend/internal/testutil/groupmock"
	"resale-backend/internal/testutil/notifmock"
	"resale-backend/internal/testutil/uowmock"
)

func testRepos() uow.Repos {
	return uow.Repos{
		Applications:   &appmock.Repo{},
		Properties:     &appmock.PropertyRepo{},
		Forms:          &formmock.Repo{},
		Notifications:  &notifmock.Repo{},
		PropertyGroups: &groupmock.Repo{},
	}
}

func TestCreate_Standard(t *testing.T) {
	r := testRepos()
	var createdApp *domain.Application
	var createdProp *domain.Property
	r.Applications = &appmock.Repo{
		CreateFn: func(ctx context.Context, a *domain.Application) error {
			a.ID = 7
			createdApp = a
			return nil
		},
	}
	r.Properties = &appmock.PropertyRepo{
		CreateFn: func(ctx context.Context, p *domain.Property) error {
			p.ID = 3
			createdProp = p
			return nil
		},
	}

	uc := NewUsecase(r, uowmock.Passthrough(r), zap.NewNop())
	dto, err := uc.Create(context.Background(), CreateApplicationInput{
		ApplicationType: "standard",
		RequesterName:   "Jane Seller",
		RequesterEmail:  "jane@example.com",
		PropertyName:    "Oakwood HOA",
	})
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}
	if len(dto.ApplicationID) != 32 {
		t.Fatalf("ApplicationID length: %d", len(dto.ApplicationID))
	}
	if createdApp == nil || createdProp == nil {
		t.Fatalf("expected application and property to be persisted")
	}
	if createdApp.PropertyID != createdProp.ID {
		t.Fatalf("application not linked to property: %d", createdApp.PropertyID)
	}
	if createdApp.SubmittedAt == nil {
		t.Fatalf("SubmittedAt not stamped")
	}
	if createdApp.SubmitterType != domain.SubmitterOwner {
		t.Fatalf("submitter default: %s", createdApp.SubmitterType)
	}
	if dto.Workflow.Variant != "standard" {
		t.Fatalf("variant=%s", dto.Workflow.Variant)
	}
	if dto.Workflow.Step.Number != 1 {
		t.Fatalf("fresh application step=%d", dto.Workflow.Step.Number)
	}
}

func TestCreate_UnknownType(t *testing.T) {
	r := testRepos()
	uc := NewUsecase(r, uowmock.Passthrough(r), zap.NewNop())

	_, err := uc.Create(context.Background(), CreateApplicationInput{ApplicationType: "mystery"})
	if !errors.Is(err, domain.ErrUnknownType) {
		t.Fatalf("want ErrUnknownType, got %v", err)
	}
}

func TestCreate_MultiCommunity_RequiresOnePrimary(t *testing.T) {
	r := testRepos()
	uc := NewUsecase(r, uowmock.Passthrough(r), zap.NewNop())

	cases := []struct {
		name        string
		communities []CommunityInput
	}{
		{"none primary", []CommunityInput{{Name: "A"}, {Name: "B"}}},
		{"two primary", []CommunityInput{
			{Name: "A", IsPrimary: true},
			{Name: "B", IsPrimary: true},
		}},
		{"no communities", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), CreateApplicationInput{
				ApplicationType: "multi_community",
				Communities:     tc.communities,
			})
			if !errors.Is(err, ErrPrimaryGroupRequired) {
				t.Fatalf("want ErrPrimaryGroupRequired, got %v", err)
			}
		})
	}
}

func TestCreate_MultiCommunity_CreatesGroups(t *testing.T) {
	r := testRepos()
	var groups []domainGroup.PropertyGroup
	r.Applications = &appmock.Repo{
		CreateFn: func(ctx context.Context, a *domain.Application) error {
			a.ID = 11
			return nil
		},
	}
	r.PropertyGroups = &groupmock.Repo{
		CreateFn: func(ctx context.Context, g *domainGroup.PropertyGroup) error {
			groups = append(groups, *g)
			return nil
		},
	}

	uc := NewUsecase(r, uowmock.Passthrough(r), zap.NewNop())
	dto, err := uc.Create(context.Background(), CreateApplicationInput{
		ApplicationType: "multi_community",
		Communities: []CommunityInput{
			{Name: "Master Assoc", IsPrimary: true},
			{Name: "Sub Assoc One"},
			{Name: "Sub Assoc Two"},
		},
	})
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}
	if len(groups) != 3 {
		t.Fatalf("groups created: %d", len(groups))
	}
	for _, g := range groups {
		if g.ApplicationID != 11 {
			t.Fatalf("group not linked: %d", g.ApplicationID)
		}
		if g.Status != domainGroup.StatusPending {
			t.Fatalf("group status: %s", g.Status)
		}
		if len(g.GroupID) != 32 {
			t.Fatalf("group id length: %d", len(g.GroupID))
		}
	}
	if dto.Workflow.Variant != "multi_community" {
		t.Fatalf("variant=%s", dto.Workflow.Variant)
	}
	if dto.Workflow.Rollup == nil || dto.Workflow.Rollup.Total != 3 {
		t.Fatalf("rollup=%+v", dto.Workflow.Rollup)
	}
	if len(dto.Workflow.Groups) != 3 || !dto.Workflow.Groups[0].IsPrimary {
		t.Fatalf("group views not primary-first: %+v", dto.Workflow.Groups)
	}
}

func TestCreate_TxErrorPropagates(t *testing.T) {
	r := testRepos()
	boom := errors.New("insert failed")
	r.Properties = &appmock.PropertyRepo{
		CreateFn: func(ctx context.Context, p *domain.Property) error { return boom },
	}
	uc := NewUsecase(r, uowmock.Passthrough(r), zap.NewNop())

	_, err := uc.Create(context.Background(), CreateApplicationInput{ApplicationType: "standard"})
	if !errors.Is(err, boom) {
		t.Fatalf("want tx error, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	r := testRepos()
	uc := NewUsecase(r, uowmock.Passthrough(r), zap.NewNop())

	_, err := uc.Get(context.Background(), "deadbeefdeadbeefdeadbeefdeadbeef")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestGet_DerivesWorkflow(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	app := &domain.Application{
		ID:              5,
		ApplicationID:   "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		ApplicationType: domain.TypeStandard,
		SubmitterType:   domain.SubmitterOwner,
		PropertyID:      9,
		SubmittedAt:     &now,
	}

	r := testRepos()
	r.Applications = &appmock.Repo{
		GetByApplicationIDFn: func(ctx context.Context, id string) (*domain.Application, error) {
			if id != app.ApplicationID {
				return nil, domain.ErrNotFound
			}
			return app, nil
		},
	}
	r.Properties = &appmock.PropertyRepo{
		GetByIDFn: func(ctx context.Context, id uint64) (*domain.Property, error) {
			return &domain.Property{ID: 9, Name: "Oakwood HOA"}, nil
		},
	}
	r.Forms = &formmock.Repo{
		ListByApplicationFn: func(ctx context.Context, appID uint64) ([]domainForm.Form, error) {
			return []domainForm.Form{
				{ApplicationID: 5, FormType: domainForm.TypeInspection, Status: domainForm.StatusCompleted, CompletedAt: &now},
				{ApplicationID: 5, FormType: domainForm.TypeResaleCertificate, Status: domainForm.StatusInProgress},
			}, nil
		},
	}

	uc := NewUsecase(r, uowmock.Passthrough(r), zap.NewNop())
	dto, err := uc.Get(context.Background(), app.ApplicationID)
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if dto.PropertyName != "Oakwood HOA" {
		t.Fatalf("property name: %q", dto.PropertyName)
	}
	if dto.Workflow.Tasks.Inspection != workflow.StateCompleted {
		t.Fatalf("inspection task: %s", dto.Workflow.Tasks.Inspection)
	}
	if dto.Workflow.Tasks.Resale != workflow.StateInProgress {
		t.Fatalf("resale task: %s", dto.Workflow.Tasks.Resale)
	}
	if dto.Workflow.Step.Number != 2 {
		t.Fatalf("step=%d", dto.Workflow.Step.Number)
	}
	if dto.Workflow.GeneratePDF.Allowed {
		t.Fatalf("generate pdf should be disabled while resale form is open")
	}
	if dto.Workflow.GeneratePDF.Reason != workflow.ReasonFormsIncomplete {
		t.Fatalf("reason=%q", dto.Workflow.GeneratePDF.Reason)
	}
	if _, ok := dto.Workflow.MarkComplete["settlement"]; ok {
		t.Fatalf("settlement override offered on a standard application")
	}
}

func TestGet_UnknownTypeWarnsButRenders(t *testing.T) {
	app := &domain.Application{
		ID:              6,
		ApplicationID:   "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
		ApplicationType: domain.Type("escrow_upgrade"),
	}
	r := testRepos()
	r.Applications = &appmock.Repo{
		GetByApplicationIDFn: func(ctx context.Context, id string) (*domain.Application, error) {
			return app, nil
		},
	}

	uc := NewUsecase(r, uowmock.Passthrough(r), zap.NewNop())
	dto, err := uc.Get(context.Background(), app.ApplicationID)
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if dto.Workflow.Variant != "standard" {
		t.Fatalf("fallback variant=%s", dto.Workflow.Variant)
	}
	if dto.Workflow.VariantWarning == "" {
		t.Fatalf("expected a variant warning")
	}
}

func TestList_Paginates(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	r := testRepos()
	r.Applications = &appmock.Repo{
		ListFn: func(ctx context.Context, offset, limit int) ([]domain.Application, int64, error) {
			if offset != 0 || limit != 20 {
				t.Fatalf("offset=%d limit=%d", offset, limit)
			}
			return []domain.Application{
				{ID: 1, ApplicationID: "cccccccccccccccccccccccccccccccc", ApplicationType: domain.TypeStandard, SubmittedAt: &now},
			}, 1, nil
		},
	}

	uc := NewUsecase(r, uowmock.Passthrough(r), zap.NewNop())
	// out-of-range inputs fall back to defaults
	out, err := uc.List(context.Background(), -5, 0)
	if err != nil {
		t.Fatalf("List err: %v", err)
	}
	if out.Total != 1 || len(out.Applications) != 1 {
		t.Fatalf("list result: %+v", out)
	}
	if out.Applications[0].CurrentStep.Number != 1 {
		t.Fatalf("derived step=%d", out.Applications[0].CurrentStep.Number)
	}
	if out.Limit != 20 || out.Offset != 0 {
		t.Fatalf("limit=%d offset=%d", out.Limit, out.Offset)
	}
}
