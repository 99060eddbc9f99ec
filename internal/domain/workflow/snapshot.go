package workflow

import (
	"sort"
	"time"

	"resale-backend/internal/domain/application"
	"resale-backend/internal/domain/form"
	"resale-backend/internal/domain/notification"
	"resale-backend/internal/domain/propertygroup"
)

// FormSnapshot is the normalized view of one owner form. A missing row has
// Present=false and zero timestamps; resolvers never see nil.
type FormSnapshot struct {
	Present     bool
	Status      form.Status
	CompletedAt time.Time
	UpdatedAt   time.Time
}

// GroupSnapshot is the normalized view of one property group.
type GroupSnapshot struct {
	GroupID          string
	IsPrimary        bool
	PropertyName     string
	PropertyLocation string

	Status    propertygroup.Status
	PDFStatus propertygroup.Status
	PDFURL    string

	EmailStatus propertygroup.Status

	PDFCompletedAt   time.Time
	EmailCompletedAt time.Time
}

// Snapshot is a fully-defaulted, immutable view of one application and its
// associations. All derivation (tasks, step, actions, rollup) is a pure
// function of a Snapshot; absent timestamps are the zero time, never nil.
type Snapshot struct {
	ApplicationID    string
	ApplicationType  application.Type
	SubmitterType    application.SubmitterType
	IsMultiCommunity bool

	PDFURL string

	SubmittedAt                  time.Time
	InspectionFormCompletedAt    time.Time
	ResaleCertificateCompletedAt time.Time
	SettlementFormCompletedAt    time.Time
	PDFGeneratedAt               time.Time
	PDFCompletedAt               time.Time
	EmailCompletedAt             time.Time
	FormsUpdatedAt               time.Time
	UpdatedAt                    time.Time

	Forms map[form.Type]FormSnapshot

	// True when a notification of type application_approved exists.
	ApprovalEmailSent bool

	// Primary group first, remaining groups ordered by property name.
	Groups []GroupSnapshot
}

// NewSnapshot builds the normalized snapshot all resolvers run against.
// Missing associations default to empty values rather than erroring.
func NewSnapshot(a *application.Application, forms []form.Form, notes []notification.Notification, groups []propertygroup.PropertyGroup) Snapshot {
	s := Snapshot{
		ApplicationID:    a.ApplicationID,
		ApplicationType:  a.ApplicationType,
		SubmitterType:    a.SubmitterType,
		IsMultiCommunity: a.IsMultiCommunity,
		PDFURL:           a.PDFURL,

		SubmittedAt:                  timeOrZero(a.SubmittedAt),
		InspectionFormCompletedAt:    timeOrZero(a.InspectionFormCompletedAt),
		ResaleCertificateCompletedAt: timeOrZero(a.ResaleCertificateCompletedAt),
		SettlementFormCompletedAt:    timeOrZero(a.SettlementFormCompletedAt),
		PDFGeneratedAt:               timeOrZero(a.PDFGeneratedAt),
		PDFCompletedAt:               timeOrZero(a.PDFCompletedAt),
		EmailCompletedAt:             timeOrZero(a.EmailCompletedAt),
		FormsUpdatedAt:               timeOrZero(a.FormsUpdatedAt),
		UpdatedAt:                    a.UpdatedAt,

		Forms: make(map[form.Type]FormSnapshot, len(forms)),
	}

	for _, f := range forms {
		s.Forms[f.FormType] = FormSnapshot{
			Present:     true,
			Status:      f.Status,
			CompletedAt: timeOrZero(f.CompletedAt),
			UpdatedAt:   f.UpdatedAt,
		}
	}

	for _, n := range notes {
		if n.NotificationType == notification.TypeApplicationApproved {
			s.ApprovalEmailSent = true
			break
		}
	}

	s.Groups = make([]GroupSnapshot, 0, len(groups))
	for _, g := range groups {
		s.Groups = append(s.Groups, GroupSnapshot{
			GroupID:          g.GroupID,
			IsPrimary:        g.IsPrimary,
			PropertyName:     g.PropertyName,
			PropertyLocation: g.PropertyLocation,
			Status:           g.Status,
			PDFStatus:        g.PDFStatus,
			PDFURL:           g.PDFURL,
			EmailStatus:      g.EmailStatus,
			PDFCompletedAt:   timeOrZero(g.PDFCompletedAt),
			EmailCompletedAt: timeOrZero(g.EmailCompletedAt),
		})
	}
	sort.SliceStable(s.Groups, func(i, j int) bool {
		if s.Groups[i].IsPrimary != s.Groups[j].IsPrimary {
			return s.Groups[i].IsPrimary
		}
		return s.Groups[i].PropertyName < s.Groups[j].PropertyName
	})

	return s
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
