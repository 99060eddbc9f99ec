package application

import (
	"time"

	"resale-backend/internal/domain/workflow"
)

type CommunityInput struct {
	Name      string `json:"name"`
	Location  string `json:"location"`
	IsPrimary bool   `json:"is_primary"`
}

type CreateApplicationInput struct {
	ApplicationType string `json:"application_type"`
	SubmitterType   string `json:"submitter_type"`

	RequesterName  string `json:"requester_name"`
	RequesterEmail string `json:"requester_email"`
	UnitAddress    string `json:"unit_address"`

	PropertyName     string `json:"property_name"`
	PropertyLocation string `json:"property_location"`
	ManagerEmail     string `json:"manager_email"`

	// Multi-community only: one entry per linked property.
	Communities []CommunityInput `json:"communities,omitempty"`
}

type GroupView struct {
	GroupID          string    `json:"group_id"`
	IsPrimary        bool      `json:"is_primary"`
	PropertyName     string    `json:"property_name"`
	PropertyLocation string    `json:"property_location,omitempty"`
	Status           string    `json:"status"`
	PDFStatus        string    `json:"pdf_status"`
	PDFURL           string    `json:"pdf_url,omitempty"`
	EmailStatus      string    `json:"email_status"`
	PDFCompletedAt   time.Time `json:"pdf_completed_at,omitempty"`
	EmailCompletedAt time.Time `json:"email_completed_at,omitempty"`

	GeneratePDF workflow.Action `json:"generate_pdf"`
	SendEmail   workflow.Action `json:"send_email"`
}

type WorkflowView struct {
	Variant string `json:"variant"`
	// Set when the application type matched no known ladder and the
	// standard ladder was used as a fallback.
	VariantWarning string `json:"variant_warning,omitempty"`

	Step   workflow.Step    `json:"current_step"`
	Tasks  workflow.TaskSet `json:"tasks"`
	Rollup *workflow.Rollup `json:"rollup,omitempty"`

	GeneratePDF  workflow.Action            `json:"generate_pdf"`
	SendEmail    workflow.Action            `json:"send_email"`
	MarkComplete map[string]workflow.Action `json:"mark_complete"`

	Groups []GroupView `json:"groups,omitempty"`
}

type ApplicationDTO struct {
	ApplicationID   string `json:"application_id"`
	ApplicationType string `json:"application_type"`
	SubmitterType   string `json:"submitter_type"`

	RequesterName  string `json:"requester_name"`
	RequesterEmail string `json:"requester_email"`
	UnitAddress    string `json:"unit_address,omitempty"`

	PropertyName string `json:"property_name,omitempty"`

	PDFURL      string     `json:"pdf_url,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`

	Workflow WorkflowView `json:"workflow"`
}

type ApplicationSummary struct {
	ApplicationID   string        `json:"application_id"`
	ApplicationType string        `json:"application_type"`
	RequesterName   string        `json:"requester_name"`
	PropertyName    string        `json:"property_name,omitempty"`
	CurrentStep     workflow.Step `json:"current_step"`
	SubmittedAt     *time.Time    `json:"submitted_at,omitempty"`
}

type ListResult struct {
	Applications []ApplicationSummary `json:"applications"`
	Total        int64                `json:"total"`
	Offset       int                  `json:"offset"`
	Limit        int                  `json:"limit"`
}
