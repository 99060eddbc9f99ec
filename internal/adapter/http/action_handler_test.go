package http

import (
	"context"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	appDomain "resale-backend/internal/domain/application"
	formDomain "resale-backend/internal/domain/form"
	"resale-backend/internal/domain/uow"
	"resale-backend/internal/testutil/appmock"
	"resale-backend/internal/testutil/formmock"
	"resale-backend/internal/testutil/uowmock"
	"resale-backend/internal/usecase/certificate"
	"resale-backend/internal/usecase/notify"
)

// collaborator doubles shared by the action handler tests

type stubRenderer struct{ err error }

func (s *stubRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []byte("%PDF-1.7"), nil
}

type stubStore struct{}

func (stubStore) Upload(ctx context.Context, key string, pdf []byte) (string, error) {
	return "https://certs.local/" + key, nil
}

type stubSender struct{ err error }

func (s *stubSender) Send(ctx context.Context, to, subject, htmlBody string) error { return s.err }

type stubLocker struct{ busy bool }

func (s *stubLocker) Acquire(ctx context.Context, kind, applicationID, groupID string) (bool, error) {
	return !s.busy, nil
}
func (s *stubLocker) Release(ctx context.Context, kind, applicationID, groupID string) error {
	return nil
}

type actionFixture struct {
	app    *appDomain.Application
	repos  uow.Repos
	locker *stubLocker
	sender *stubSender
}

func newActionFixture() *actionFixture {
	fx := &actionFixture{
		app: &appDomain.Application{
			ID:              5,
			ApplicationID:   strings.Repeat("a", 32),
			ApplicationType: appDomain.TypeStandard,
			RequesterEmail:  "jane@example.com",
		},
		locker: &stubLocker{},
		sender: &stubSender{},
	}
	fx.repos = testRepos()
	fx.repos.Applications = &appmock.Repo{
		GetByApplicationIDForUpdateFn: func(ctx context.Context, id string) (*appDomain.Application, error) {
			if id != fx.app.ApplicationID {
				return nil, appDomain.ErrNotFound
			}
			return fx.app, nil
		},
	}
	return fx
}

func (fx *actionFixture) completeForms() {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	fx.repos.Forms = &formmock.Repo{
		ListByApplicationFn: func(ctx context.Context, appID uint64) ([]formDomain.Form, error) {
			return []formDomain.Form{
				{FormType: formDomain.TypeInspection, Status: formDomain.StatusCompleted, CompletedAt: &now},
				{FormType: formDomain.TypeResaleCertificate, Status: formDomain.StatusCompleted, CompletedAt: &now},
			}, nil
		},
	}
}

func (fx *actionFixture) handler() *ActionHandler {
	tx := uowmock.Passthrough(fx.repos)
	certs := certificate.NewUsecase(tx, &stubRenderer{}, stubStore{}, fx.locker, zap.NewNop())
	mails := notify.NewUsecase(tx, fx.sender, fx.locker, zap.NewNop())
	return NewActionHandler(certs, mails)
}

func postAction(e *echo.Echo, h func(echo.Context) error, appID, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(stdhttp.MethodPost, "/applications/"+appID+path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("application_id")
	c.SetParamValues(appID)
	if err := h(c); err != nil {
		panic(err)
	}
	return rec
}

func TestGeneratePDF_Success(t *testing.T) {
	e := newEchoWithValidator()
	fx := newActionFixture()
	fx.completeForms()

	rec := postAction(e, fx.handler().GeneratePDF, fx.app.ApplicationID, "/pdf")
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if fx.app.PDFURL == "" || fx.app.PDFGeneratedAt == nil {
		t.Fatalf("application not updated: %+v", fx.app)
	}
}

func TestGeneratePDF_GateDenied(t *testing.T) {
	e := newEchoWithValidator()
	fx := newActionFixture()
	// no forms at all

	rec := postAction(e, fx.handler().GeneratePDF, fx.app.ApplicationID, "/pdf")
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("status = %d, want 409: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Both forms must be completed first") {
		t.Fatalf("gate reason missing: %s", rec.Body.String())
	}
}

func TestGeneratePDF_Busy(t *testing.T) {
	e := newEchoWithValidator()
	fx := newActionFixture()
	fx.completeForms()
	fx.locker.busy = true

	rec := postAction(e, fx.handler().GeneratePDF, fx.app.ApplicationID, "/pdf")
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestGeneratePDF_InvalidID(t *testing.T) {
	e := newEchoWithValidator()
	fx := newActionFixture()

	rec := postAction(e, fx.handler().GeneratePDF, "nope", "/pdf")
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSendEmail_Success(t *testing.T) {
	e := newEchoWithValidator()
	fx := newActionFixture()
	done := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	fx.app.PDFURL = "https://certs.local/cert.pdf"
	fx.app.PDFGeneratedAt = &done
	fx.app.PDFCompletedAt = &done

	rec := postAction(e, fx.handler().SendEmail, fx.app.ApplicationID, "/email")
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if fx.app.EmailCompletedAt == nil {
		t.Fatalf("email completion not stamped")
	}
}

func TestSendEmail_PDFMissing(t *testing.T) {
	e := newEchoWithValidator()
	fx := newActionFixture()

	rec := postAction(e, fx.handler().SendEmail, fx.app.ApplicationID, "/email")
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("status = %d, want 409: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "PDF must be generated first") {
		t.Fatalf("gate reason missing: %s", rec.Body.String())
	}
}
