package workflow

import (
	"resale-backend/internal/domain/form"
	"resale-backend/internal/domain/propertygroup"
)

// Action reports whether a user-triggerable operation is currently permitted.
// Reason is empty when allowed; when disabled it is a deterministic function
// of task state, so every caller renders the same explanation.
type Action struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

const (
	ReasonFormsIncomplete          = "Both forms must be completed first"
	ReasonSettlementFormIncomplete = "Settlement form must be completed first"
	ReasonInspectionIncomplete     = "Inspection form must be completed first"
	ReasonGroupFormsIncomplete     = "Property forms must be completed first"
	ReasonPDFNotGenerated          = "PDF must be generated first"
	ReasonPDFStale                 = "PDF needs to be regenerated after form updates"
	ReasonTaskAlreadyComplete      = "Task is already marked complete"
)

func allowed() Action             { return Action{Allowed: true} }
func denied(reason string) Action { return Action{Reason: reason} }

// CanGeneratePDF gates (re)generation at the application level: every
// required form task for the active variant must be completed.
func CanGeneratePDF(ts TaskSet, v Variant) Action {
	if v == VariantSettlement {
		if ts.Settlement != StateCompleted {
			return denied(ReasonSettlementFormIncomplete)
		}
		return allowed()
	}
	if ts.Inspection != StateCompleted || ts.Resale != StateCompleted {
		return denied(ReasonFormsIncomplete)
	}
	return allowed()
}

// CanGeneratePDFForGroup gates per-property generation on a multi-community
// application. The primary property additionally requires the
// application-level inspection task.
func CanGeneratePDFForGroup(s Snapshot, g GroupSnapshot) Action {
	if g.IsPrimary && formTask(s, form.TypeInspection) != StateCompleted {
		return denied(ReasonInspectionIncomplete)
	}
	if g.Status != propertygroup.StatusCompleted {
		return denied(ReasonGroupFormsIncomplete)
	}
	return allowed()
}

// CanSendEmail gates the approval email on a completed, non-stale PDF.
func CanSendEmail(ts TaskSet) Action {
	switch ts.PDF {
	case StateCompleted:
		return allowed()
	case StateUpdateNeeded:
		return denied(ReasonPDFStale)
	default:
		return denied(ReasonPDFNotGenerated)
	}
}

// CanSendEmailForGroup gates the per-property approval email.
func CanSendEmailForGroup(g GroupSnapshot) Action {
	if groupPDFDone(g) {
		return allowed()
	}
	return denied(ReasonPDFNotGenerated)
}

// CanMarkTaskComplete permits the manual override only while the matching
// completion timestamp is absent. The transition is one-way; once stamped
// the control disappears.
func CanMarkTaskComplete(s Snapshot, k TaskKind) Action {
	var set bool
	switch k {
	case TaskInspection:
		set = !s.InspectionFormCompletedAt.IsZero()
	case TaskResale:
		set = !s.ResaleCertificateCompletedAt.IsZero()
	case TaskSettlement:
		set = !s.SettlementFormCompletedAt.IsZero()
	case TaskPDF:
		set = !s.PDFCompletedAt.IsZero()
	case TaskEmail:
		set = !s.EmailCompletedAt.IsZero()
	}
	if set {
		return denied(ReasonTaskAlreadyComplete)
	}
	return allowed()
}
