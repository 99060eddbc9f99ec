package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"resale-backend/internal/usecase/application"
)

type ApplicationHandler struct{ uc *application.Usecase }

func NewApplicationHandler(uc *application.Usecase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

type communityReq struct {
	Name      string `json:"name"       validate:"required,max=255"`
	Location  string `json:"location"   validate:"max=255"`
	IsPrimary bool   `json:"is_primary"`
}

type createApplicationReq struct {
	ApplicationType string `json:"application_type" validate:"required"`
	SubmitterType   string `json:"submitter_type"   validate:"omitempty,oneof=owner agent lender settlement"`

	RequesterName  string `json:"requester_name"  validate:"required,max=255"`
	RequesterEmail string `json:"requester_email" validate:"required,email"`
	UnitAddress    string `json:"unit_address"    validate:"max=1024"`

	PropertyName     string `json:"property_name"     validate:"required,max=255"`
	PropertyLocation string `json:"property_location" validate:"max=255"`
	ManagerEmail     string `json:"manager_email"     validate:"omitempty,email"`

	Communities []communityReq `json:"communities" validate:"omitempty,dive"`
}

func (h *ApplicationHandler) CreateApplication(c echo.Context) error {
	var req createApplicationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	in := application.CreateApplicationInput{
		ApplicationType:  req.ApplicationType,
		SubmitterType:    req.SubmitterType,
		RequesterName:    req.RequesterName,
		RequesterEmail:   req.RequesterEmail,
		UnitAddress:      req.UnitAddress,
		PropertyName:     req.PropertyName,
		PropertyLocation: req.PropertyLocation,
		ManagerEmail:     req.ManagerEmail,
	}
	for _, cm := range req.Communities {
		in.Communities = append(in.Communities, application.CommunityInput(cm))
	}

	dto, err := h.uc.Create(c.Request().Context(), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *ApplicationHandler) GetApplication(c echo.Context) error {
	applicationID := c.Param("application_id")
	if !reHex32.MatchString(applicationID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid application_id"})
	}
	dto, err := h.uc.Get(c.Request().Context(), applicationID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ApplicationHandler) ListApplications(c echo.Context) error {
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	out, err := h.uc.List(c.Request().Context(), offset, limit)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
