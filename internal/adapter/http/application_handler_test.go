package http

import (
	"bytes"
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	domain "resale-backend/internal/domain/application"
	"resale-backend/internal/domain/uow"
	"resale-backend/internal/testutil/appmock"
	"resale-backend/internal/testutil/formmock"
	"resale-backend/internal/testutil/groupmock"
	"resale-backend/internal/testutil/notifmock"
	"resale-backend/internal/testutil/uowmock"
	uc "resale-backend/internal/usecase/application"
)

// -------- helpers --------

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func testRepos() uow.Repos {
	return uow.Repos{
		Applications:   &appmock.Repo{},
		Properties:     &appmock.PropertyRepo{},
		Forms:          &formmock.Repo{},
		Notifications:  &notifmock.Repo{},
		PropertyGroups: &groupmock.Repo{},
	}
}

func appHandler(r uow.Repos) *ApplicationHandler {
	return NewApplicationHandler(uc.NewUsecase(r, uowmock.Passthrough(r), zap.NewNop()))
}

// -------- tests --------

func TestCreateApplication_Success(t *testing.T) {
	e := newEchoWithValidator()
	h := appHandler(testRepos())

	reqBody := map[string]any{
		"application_type": "standard",
		"requester_name":   "Jane Seller",
		"requester_email":  "jane@example.com",
		"property_name":    "Oakwood HOA",
	}
	req := httptest.NewRequest(stdhttp.MethodPost, "/applications", mustJSON(reqBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateApplication(c); err != nil {
		t.Fatalf("CreateApplication error: %v", err)
	}
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad response json: %v", err)
	}
	appID, _ := out["application_id"].(string)
	if len(appID) != 32 {
		t.Fatalf("application_id: %q", appID)
	}
	wf, _ := out["workflow"].(map[string]any)
	if wf == nil || wf["variant"] != "standard" {
		t.Fatalf("workflow: %v", out["workflow"])
	}
}

func TestCreateApplication_ValidationFails(t *testing.T) {
	e := newEchoWithValidator()
	h := appHandler(testRepos())

	// missing requester_name, bad email
	reqBody := map[string]any{
		"application_type": "standard",
		"requester_email":  "not-an-email",
		"property_name":    "Oakwood HOA",
	}
	req := httptest.NewRequest(stdhttp.MethodPost, "/applications", mustJSON(reqBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateApplication(c); err != nil {
		t.Fatalf("CreateApplication error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response json: %v", err)
	}
	if len(resp.Details) < 2 {
		t.Fatalf("details: %+v", resp.Details)
	}
}

func TestCreateApplication_UnknownType(t *testing.T) {
	e := newEchoWithValidator()
	h := appHandler(testRepos())

	reqBody := map[string]any{
		"application_type": "mystery",
		"requester_name":   "Jane Seller",
		"requester_email":  "jane@example.com",
		"property_name":    "Oakwood HOA",
	}
	req := httptest.NewRequest(stdhttp.MethodPost, "/applications", mustJSON(reqBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateApplication(c); err != nil {
		t.Fatalf("CreateApplication error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422: %s", rec.Code, rec.Body.String())
	}
}

func TestGetApplication_InvalidID(t *testing.T) {
	e := newEchoWithValidator()
	h := appHandler(testRepos())

	req := httptest.NewRequest(stdhttp.MethodGet, "/applications/short", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("application_id")
	c.SetParamValues("short")

	if err := h.GetApplication(c); err != nil {
		t.Fatalf("GetApplication error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetApplication_NotFound(t *testing.T) {
	e := newEchoWithValidator()
	h := appHandler(testRepos())

	id := strings.Repeat("a", 32)
	req := httptest.NewRequest(stdhttp.MethodGet, "/applications/"+id, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("application_id")
	c.SetParamValues(id)

	if err := h.GetApplication(c); err != nil {
		t.Fatalf("GetApplication error: %v", err)
	}
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGetApplication_Success(t *testing.T) {
	e := newEchoWithValidator()
	r := testRepos()
	id := strings.Repeat("a", 32)
	r.Applications = &appmock.Repo{
		GetByApplicationIDFn: func(ctx context.Context, appID string) (*domain.Application, error) {
			return &domain.Application{ID: 5, ApplicationID: appID, ApplicationType: domain.TypeStandard}, nil
		},
	}
	h := appHandler(r)

	req := httptest.NewRequest(stdhttp.MethodGet, "/applications/"+id, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("application_id")
	c.SetParamValues(id)

	if err := h.GetApplication(c); err != nil {
		t.Fatalf("GetApplication error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"current_step"`) {
		t.Fatalf("workflow view missing: %s", rec.Body.String())
	}
}

func TestListApplications(t *testing.T) {
	e := newEchoWithValidator()
	r := testRepos()
	r.Applications = &appmock.Repo{
		ListFn: func(ctx context.Context, offset, limit int) ([]domain.Application, int64, error) {
			if offset != 10 || limit != 5 {
				t.Fatalf("offset=%d limit=%d", offset, limit)
			}
			return nil, 0, nil
		},
	}
	h := appHandler(r)

	req := httptest.NewRequest(stdhttp.MethodGet, "/applications?offset=10&limit=5", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListApplications(c); err != nil {
		t.Fatalf("ListApplications error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
