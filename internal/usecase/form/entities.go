package form

import (
	"time"

	domain "resale-backend/internal/domain/form"
)

type UpdateFormInput struct {
	Status   string         `json:"status"`
	FormData map[string]any `json:"form_data"`
}

type FormDTO struct {
	FormID        string         `json:"form_id"`
	ApplicationID string         `json:"application_id"`
	FormType      string         `json:"form_type"`
	Status        string         `json:"status"`
	FormData      map[string]any `json:"form_data,omitempty"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func toDTO(applicationID string, f *domain.Form) FormDTO {
	return FormDTO{
		FormID:        f.FormID,
		ApplicationID: applicationID,
		FormType:      string(f.FormType),
		Status:        string(f.Status),
		FormData:      f.FormData,
		CompletedAt:   f.CompletedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}
