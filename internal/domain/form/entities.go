package form

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("form not found")
	ErrInvalidTransition = errors.New("form status cannot move backward")
	ErrUnknownType       = errors.New("unknown form type")
)

type Type string

const (
	TypeInspection        Type = "inspection_form"
	TypeResaleCertificate Type = "resale_certificate"
	TypeSettlement        Type = "settlement_form"
)

func (t Type) Known() bool {
	switch t {
	case TypeInspection, TypeResaleCertificate, TypeSettlement:
		return true
	}
	return false
}

type Status string

const (
	StatusNotCreated Status = "not_created"
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// rank orders statuses for the forward-only transition guard.
func (s Status) rank() int {
	switch s {
	case StatusNotCreated:
		return 0
	case StatusNotStarted:
		return 1
	case StatusInProgress:
		return 2
	case StatusCompleted:
		return 3
	}
	return -1
}

// CanTransition reports whether a form may move from s to next.
// There is no "uncomplete" path; statuses only move forward.
func (s Status) CanTransition(next Status) bool {
	if s.rank() < 0 || next.rank() < 0 {
		return false
	}
	return next.rank() >= s.rank()
}

// Form is one property-owner form attached to an application.
// Rows are created lazily on first access.
type Form struct {
	ID     uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	FormID string `gorm:"column:form_id;type:char(32);not null;uniqueIndex"`

	ApplicationID uint64 `gorm:"column:application_id;not null;uniqueIndex:ux_forms_application_type"`
	FormType      Type   `gorm:"column:form_type;type:varchar(32);not null;uniqueIndex:ux_forms_application_type"`
	Status        Status `gorm:"column:status;type:varchar(16);not null;default:'not_started'"`

	FormData map[string]any `gorm:"column:form_data;type:json;serializer:json"`

	CompletedAt *time.Time     `gorm:"column:completed_at"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Form) TableName() string { return "forms" }
