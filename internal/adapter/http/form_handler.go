package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	formDomain "resale-backend/internal/domain/form"
	"resale-backend/internal/domain/workflow"
	formUC "resale-backend/internal/usecase/form"
)

type FormHandler struct{ uc *formUC.Usecase }

func NewFormHandler(uc *formUC.Usecase) *FormHandler { return &FormHandler{uc: uc} }

type updateFormReq struct {
	Status   string         `json:"status"    validate:"omitempty,oneof=not_started in_progress completed"`
	FormData map[string]any `json:"form_data"`
}

func (h *FormHandler) GetForm(c echo.Context) error {
	applicationID := c.Param("application_id")
	if !reHex32.MatchString(applicationID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid application_id"})
	}
	dto, err := h.uc.GetOrCreate(c.Request().Context(), applicationID, formDomain.Type(c.Param("form_type")))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *FormHandler) UpdateForm(c echo.Context) error {
	applicationID := c.Param("application_id")
	if !reHex32.MatchString(applicationID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid application_id"})
	}
	var req updateFormReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Update(c.Request().Context(), applicationID, formDomain.Type(c.Param("form_type")), formUC.UpdateFormInput{
		Status:   req.Status,
		FormData: req.FormData,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *FormHandler) MarkTaskComplete(c echo.Context) error {
	applicationID := c.Param("application_id")
	if !reHex32.MatchString(applicationID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid application_id"})
	}
	task := workflow.TaskKind(c.Param("task"))
	switch task {
	case workflow.TaskInspection, workflow.TaskResale, workflow.TaskSettlement,
		workflow.TaskPDF, workflow.TaskEmail:
	default:
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown task"})
	}

	if err := h.uc.MarkTaskComplete(c.Request().Context(), applicationID, task); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "completed", "task": string(task)})
}
