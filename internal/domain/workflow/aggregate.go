package workflow

import (
	"resale-backend/internal/domain/form"
	"resale-backend/internal/domain/propertygroup"
)

// Rollup carries the per-group counters the multi-community ladder and the
// action gate read. Derived, never persisted.
type Rollup struct {
	Total               int `json:"total"`
	CompletedProperties int `json:"completed_properties"`
	PDFsGenerated       int `json:"pdfs_generated"`
	EmailsSent          int `json:"emails_sent"`
	FormsInProgress     int `json:"forms_in_progress"`
}

// Aggregate rolls the property-group snapshots up into ladder counters.
func Aggregate(s Snapshot) Rollup {
	r := Rollup{Total: len(s.Groups)}
	for _, g := range s.Groups {
		forms := groupFormsCompleted(s, g)
		pdf := groupPDFDone(g)
		email := groupEmailDone(g)

		if forms && pdf && email {
			r.CompletedProperties++
		}
		if pdf {
			r.PDFsGenerated++
		}
		if email {
			r.EmailsSent++
		}
		if g.Status == propertygroup.StatusInProgress {
			r.FormsInProgress++
		}
	}
	return r
}

// The primary group additionally depends on the application-level inspection
// form; inspection is not a per-group concept. Secondary groups only need
// their own status completed.
func groupFormsCompleted(s Snapshot, g GroupSnapshot) bool {
	if g.IsPrimary {
		return formTask(s, form.TypeInspection) == StateCompleted &&
			g.Status == propertygroup.StatusCompleted
	}
	return g.Status == propertygroup.StatusCompleted
}

func groupPDFDone(g GroupSnapshot) bool {
	return g.PDFStatus == propertygroup.StatusCompleted || g.PDFURL != ""
}

func groupEmailDone(g GroupSnapshot) bool {
	return g.EmailStatus == propertygroup.StatusCompleted || !g.EmailCompletedAt.IsZero()
}
