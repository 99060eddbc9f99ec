package workflow

// Step is the single current-progress indicator shown to users.
type Step struct {
	Number int    `json:"step"`
	Label  string `json:"label"`
}

const (
	LabelFormsRequired   = "Forms Required"
	LabelFormRequired    = "Form Required"
	LabelFormsInProgress = "Forms In Progress"
	LabelGeneratePDF     = "Generate PDF"
	LabelSendEmail       = "Send Email"
	LabelCompleted       = "Completed"
)

// ResolveStep reduces the snapshot to the current workflow step for the
// given variant. Each ladder reports the lowest-numbered unmet condition,
// so partial or parallel completion can never make the step regress.
func ResolveStep(s Snapshot, v Variant) Step {
	switch v {
	case VariantMultiCommunity:
		return multiCommunityStep(s)
	case VariantSettlement:
		return settlementStep(ResolveTasks(s, v))
	default:
		return standardStep(ResolveTasks(s, v))
	}
}

func standardStep(ts TaskSet) Step {
	switch {
	case ts.Inspection == StateNotStarted && ts.Resale == StateNotStarted:
		return Step{1, LabelFormsRequired}
	case ts.Inspection != StateCompleted || ts.Resale != StateCompleted:
		return Step{2, LabelFormsInProgress}
	case ts.PDF != StateCompleted:
		return Step{3, LabelGeneratePDF}
	case ts.Email != StateCompleted:
		return Step{4, LabelSendEmail}
	default:
		return Step{5, LabelCompleted}
	}
}

func settlementStep(ts TaskSet) Step {
	switch {
	case ts.Settlement != StateCompleted:
		return Step{1, LabelFormRequired}
	case ts.PDF != StateCompleted:
		return Step{2, LabelGeneratePDF}
	case ts.Email != StateCompleted:
		return Step{3, LabelSendEmail}
	default:
		return Step{4, LabelCompleted}
	}
}

func multiCommunityStep(s Snapshot) Step {
	r := Aggregate(s)
	switch {
	case r.Total == 0:
		return Step{1, LabelFormsRequired}
	case r.CompletedProperties == r.Total:
		return Step{5, LabelCompleted}
	case r.EmailsSent > 0:
		return Step{4, LabelSendEmail}
	case r.PDFsGenerated > 0:
		return Step{3, LabelGeneratePDF}
	case r.FormsInProgress > 0 || r.PDFsGenerated == 0:
		// With any groups present this branch always matches; step 1 is
		// reserved for the zero-group case above. Matches the resolution
		// order the admin dashboard has always shown.
		return Step{2, LabelFormsInProgress}
	default:
		return Step{1, LabelFormsRequired}
	}
}
