package propertygroup

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("property group not found")
	ErrInvalidTransition = errors.New("property group status transition not allowed")
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

func (s Status) terminal() bool { return s == StatusCompleted || s == StatusFailed }

// CanTransition enforces pending → in_progress → completed, with failed
// reachable from any non-terminal state. No transition leaves a terminal state.
func (s Status) CanTransition(next Status) bool {
	if s == next {
		return true
	}
	if s.terminal() {
		return false
	}
	switch next {
	case StatusFailed:
		return true
	case StatusInProgress:
		return s == StatusPending
	case StatusCompleted:
		return s == StatusPending || s == StatusInProgress
	}
	return false
}

// PropertyGroup is one property (primary or secondary) within a
// multi-community application, tracked independently.
type PropertyGroup struct {
	ID      uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	GroupID string `gorm:"column:group_id;type:char(32);not null;uniqueIndex"`

	ApplicationID uint64 `gorm:"column:application_id;not null;index"`
	IsPrimary     bool   `gorm:"column:is_primary;not null;default:false"`

	PropertyName     string `gorm:"column:property_name;type:varchar(255);not null"`
	PropertyLocation string `gorm:"column:property_location;type:varchar(255)"`

	Status    Status `gorm:"column:status;type:varchar(16);not null;default:'pending'"`
	PDFStatus Status `gorm:"column:pdf_status;type:varchar(16);not null;default:'pending'"`
	PDFURL    string `gorm:"column:pdf_url;type:text"`

	EmailStatus Status `gorm:"column:email_status;type:varchar(16);not null;default:'pending'"`

	PDFCompletedAt   *time.Time `gorm:"column:pdf_completed_at"`
	EmailCompletedAt *time.Time `gorm:"column:email_completed_at"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (PropertyGroup) TableName() string { return "property_groups" }
