package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"resale-backend/internal/usecase/certificate"
	"resale-backend/internal/usecase/notify"
)

// ActionHandler serves the two user-triggered operations: generate the
// certificate PDF and send the approval email, application-wide or for one
// property group.
type ActionHandler struct {
	certs *certificate.Usecase
	mails *notify.Usecase
}

func NewActionHandler(certs *certificate.Usecase, mails *notify.Usecase) *ActionHandler {
	return &ActionHandler{certs: certs, mails: mails}
}

type actionReq struct {
	GroupID string `json:"group_id" validate:"omitempty,hex32"`
}

// bindTarget parses the path and optional body. When rejected is true the
// error response has already been written.
func (h *ActionHandler) bindTarget(c echo.Context) (applicationID, groupID string, rejected bool) {
	applicationID = c.Param("application_id")
	if !reHex32.MatchString(applicationID) {
		_ = c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid application_id"})
		return "", "", true
	}
	var req actionReq
	// body is optional; an empty body targets the whole application
	if err := c.Bind(&req); err != nil {
		_ = c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
		return "", "", true
	}
	if err := c.Validate(&req); err != nil {
		_ = c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
		return "", "", true
	}
	return applicationID, req.GroupID, false
}

func (h *ActionHandler) GeneratePDF(c echo.Context) error {
	applicationID, groupID, rejected := h.bindTarget(c)
	if rejected {
		return nil
	}
	if groupID != "" {
		dto, uerr := h.certs.GenerateForGroup(c.Request().Context(), applicationID, groupID)
		if uerr != nil {
			return writeDomainError(c, uerr)
		}
		return c.JSON(http.StatusOK, dto)
	}
	dto, uerr := h.certs.Generate(c.Request().Context(), applicationID)
	if uerr != nil {
		return writeDomainError(c, uerr)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ActionHandler) SendEmail(c echo.Context) error {
	applicationID, groupID, rejected := h.bindTarget(c)
	if rejected {
		return nil
	}
	if groupID != "" {
		dto, uerr := h.mails.SendApprovalForGroup(c.Request().Context(), applicationID, groupID)
		if uerr != nil {
			return writeDomainError(c, uerr)
		}
		return c.JSON(http.StatusOK, dto)
	}
	dto, uerr := h.mails.SendApproval(c.Request().Context(), applicationID)
	if uerr != nil {
		return writeDomainError(c, uerr)
	}
	return c.JSON(http.StatusOK, dto)
}
