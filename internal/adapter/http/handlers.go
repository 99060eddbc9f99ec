package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	appDomain "resale-backend/internal/domain/application"
	formDomain "resale-backend/internal/domain/form"
	groupDomain "resale-backend/internal/domain/propertygroup"
	appUC "resale-backend/internal/usecase/application"
	"resale-backend/internal/usecase/certificate"
	"resale-backend/internal/usecase/notify"
)

type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// writeDomainError maps usecase/domain errors to HTTP responses. Anything
// unrecognized is a 500 with no internals leaked.
func writeDomainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, appDomain.ErrNotFound),
		errors.Is(err, formDomain.ErrNotFound),
		errors.Is(err, groupDomain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})

	case errors.Is(err, appDomain.ErrUnknownType),
		errors.Is(err, formDomain.ErrUnknownType),
		errors.Is(err, appUC.ErrPrimaryGroupRequired),
		errors.Is(err, notify.ErrNoRecipient):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})

	case errors.Is(err, formDomain.ErrInvalidTransition),
		errors.Is(err, groupDomain.ErrInvalidTransition):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})

	case errors.Is(err, appDomain.ErrAlreadyCompleted),
		errors.Is(err, certificate.ErrNotAllowed),
		errors.Is(err, notify.ErrNotAllowed):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.Is(err, certificate.ErrOperationInFlight),
		errors.Is(err, notify.ErrOperationInFlight):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
