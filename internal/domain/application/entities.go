package application

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("application not found")
	ErrUnknownType      = errors.New("unknown application type")
	ErrAlreadyCompleted = errors.New("task already marked complete")
)

type Type string

const (
	TypeStandard            Type = "standard"
	TypeSettlementVA        Type = "settlement_va"
	TypeSettlementNC        Type = "settlement_nc"
	TypeMultiCommunity      Type = "multi_community"
	TypeLenderQuestionnaire Type = "lender_questionnaire"
	TypePublicOffering      Type = "public_offering"
)

func (t Type) Known() bool {
	switch t {
	case TypeStandard, TypeSettlementVA, TypeSettlementNC, TypeMultiCommunity,
		TypeLenderQuestionnaire, TypePublicOffering:
		return true
	}
	return false
}

type SubmitterType string

const (
	SubmitterOwner      SubmitterType = "owner"
	SubmitterAgent      SubmitterType = "agent"
	SubmitterLender     SubmitterType = "lender"
	SubmitterSettlement SubmitterType = "settlement"
)

// Application is one resale-certificate / settlement request.
// Numeric PK is internal; application_id (32-char hex) is the public identifier.
type Application struct {
	ID            uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	ApplicationID string `gorm:"column:application_id;type:char(32);not null;uniqueIndex:ux_applications_application_id_active"`

	ApplicationType  Type          `gorm:"column:application_type;type:varchar(32);not null;default:'standard'"`
	SubmitterType    SubmitterType `gorm:"column:submitter_type;type:varchar(32);not null;default:'owner'"`
	IsMultiCommunity bool          `gorm:"column:is_multi_community;not null;default:false"`

	PropertyID uint64 `gorm:"column:property_id;index"`

	RequesterName  string `gorm:"column:requester_name;type:varchar(255)"`
	RequesterEmail string `gorm:"column:requester_email;type:varchar(255)"`
	UnitAddress    string `gorm:"column:unit_address;type:text"`

	PDFURL string `gorm:"column:pdf_url;type:text"`

	SubmittedAt                  *time.Time `gorm:"column:submitted_at"`
	InspectionFormCompletedAt    *time.Time `gorm:"column:inspection_form_completed_at"`
	ResaleCertificateCompletedAt *time.Time `gorm:"column:resale_certificate_completed_at"`
	SettlementFormCompletedAt    *time.Time `gorm:"column:settlement_form_completed_at"`
	PDFGeneratedAt               *time.Time `gorm:"column:pdf_generated_at"`
	PDFCompletedAt               *time.Time `gorm:"column:pdf_completed_at"`
	EmailCompletedAt             *time.Time `gorm:"column:email_completed_at"`
	// Touched whenever any owner form changes; used for PDF staleness checks.
	FormsUpdatedAt *time.Time `gorm:"column:forms_updated_at"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Application) TableName() string { return "applications" }

// Property is the HOA the application is filed against.
type Property struct {
	ID         uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	PropertyID string `gorm:"column:property_id;type:char(32);not null;uniqueIndex"`

	Name         string `gorm:"column:name;type:varchar(255);not null"`
	Location     string `gorm:"column:location;type:varchar(255)"`
	ManagerEmail string `gorm:"column:manager_email;type:varchar(255)"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Property) TableName() string { return "hoa_properties" }
