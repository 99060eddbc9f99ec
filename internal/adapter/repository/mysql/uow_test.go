package mysql

import (
	"context"
	"errors"
	"testing"

	appDomain "resale-backend/internal/domain/application"
	formDomain "resale-backend/internal/domain/form"
	"resale-backend/internal/domain/uow"
	"resale-backend/pkg/id"
)

func TestGormUoW_WithinTx_RollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	u := NewGormUoW(db)
	ctx := context.Background()

	boom := errors.New("abort")
	var appID string
	err := u.WithinTx(ctx, func(r uow.Repos) error {
		a := makeApplication(appDomain.TypeStandard)
		if err := r.Applications.Create(ctx, a); err != nil {
			return err
		}
		appID = a.ApplicationID
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want %v, got %v", boom, err)
	}

	if _, err := NewApplicationRepository(db).GetByApplicationID(ctx, appID); !errors.Is(err, appDomain.ErrNotFound) {
		t.Fatalf("insert survived rollback: %v", err)
	}
}

func TestGormUoW_WithinTx_Commits(t *testing.T) {
	db := openTestDB(t)
	u := NewGormUoW(db)
	ctx := context.Background()

	var appID string
	err := u.WithinTx(ctx, func(r uow.Repos) error {
		a := makeApplication(appDomain.TypeStandard)
		if err := r.Applications.Create(ctx, a); err != nil {
			return err
		}
		appID = a.ApplicationID
		f := &formDomain.Form{FormID: id.NewID32(), ApplicationID: a.ID, FormType: formDomain.TypeInspection, Status: formDomain.StatusNotStarted}
		return r.Forms.Create(ctx, f)
	})
	if err != nil {
		t.Fatalf("WithinTx: %v", err)
	}

	a, err := NewApplicationRepository(db).GetByApplicationID(ctx, appID)
	if err != nil {
		t.Fatalf("application not committed: %v", err)
	}
	forms, err := NewFormRepository(db).ListByApplication(ctx, a.ID)
	if err != nil || len(forms) != 1 {
		t.Fatalf("forms not committed: %v len=%d", err, len(forms))
	}
}

func TestGormUoW_WithinApplicationTx_LoadsRow(t *testing.T) {
	db := openTestDB(t)
	u := NewGormUoW(db)
	ctx := context.Background()

	seed := makeApplication(appDomain.TypeStandard)
	if err := NewApplicationRepository(db).Create(ctx, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	err := u.WithinApplicationTx(ctx, seed.ApplicationID, func(r uow.Repos, a *appDomain.Application) error {
		if a.ID != seed.ID {
			t.Fatalf("wrong row: %+v", a)
		}
		a.RequesterName = "Updated Name"
		return r.Applications.Save(ctx, a)
	})
	if err != nil {
		t.Fatalf("WithinApplicationTx: %v", err)
	}

	got, err := NewApplicationRepository(db).GetByApplicationID(ctx, seed.ApplicationID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.RequesterName != "Updated Name" {
		t.Fatalf("update lost: %+v", got)
	}
}

func TestGormUoW_WithinApplicationTx_NotFound(t *testing.T) {
	db := openTestDB(t)
	u := NewGormUoW(db)

	err := u.WithinApplicationTx(context.Background(), id.NewID32(), func(r uow.Repos, a *appDomain.Application) error {
		t.Fatalf("body must not run")
		return nil
	})
	if !errors.Is(err, appDomain.ErrNotFound) {
		t.Fatalf("want domain.ErrNotFound, got %v", err)
	}
}
