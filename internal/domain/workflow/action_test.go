package workflow

import (
	"testing"
	"time"

	"resale-backend/internal/domain/form"
	"resale-backend/internal/domain/propertygroup"
)

func TestCanGeneratePDF_Standard(t *testing.T) {
	tests := []struct {
		name       string
		ts         TaskSet
		allowed    bool
		wantReason string
	}{
		{
			name:    "both forms completed",
			ts:      TaskSet{Inspection: StateCompleted, Resale: StateCompleted},
			allowed: true,
		},
		{
			name:       "only inspection completed",
			ts:         TaskSet{Inspection: StateCompleted, Resale: StateInProgress},
			wantReason: ReasonFormsIncomplete,
		},
		{
			name:       "only resale completed",
			ts:         TaskSet{Inspection: StateNotStarted, Resale: StateCompleted},
			wantReason: ReasonFormsIncomplete,
		},
		{
			name:       "nothing completed",
			ts:         TaskSet{Inspection: StateNotStarted, Resale: StateNotStarted},
			wantReason: ReasonFormsIncomplete,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanGeneratePDF(tt.ts, VariantStandard)
			if got.Allowed != tt.allowed {
				t.Fatalf("allowed = %v, want %v", got.Allowed, tt.allowed)
			}
			if got.Reason != tt.wantReason {
				t.Fatalf("reason = %q, want %q", got.Reason, tt.wantReason)
			}
		})
	}
}

func TestCanGeneratePDF_Settlement(t *testing.T) {
	if got := CanGeneratePDF(TaskSet{Settlement: StateCompleted}, VariantSettlement); !got.Allowed {
		t.Fatalf("expected allowed, got %+v", got)
	}
	got := CanGeneratePDF(TaskSet{Settlement: StateInProgress}, VariantSettlement)
	if got.Allowed || got.Reason != ReasonSettlementFormIncomplete {
		t.Fatalf("got %+v", got)
	}
}

func TestCanGeneratePDFForGroup(t *testing.T) {
	inspectionDone := []form.Form{formRow(form.TypeInspection, form.StatusCompleted, t0)}

	t.Run("primary needs inspection and group forms", func(t *testing.T) {
		g := GroupSnapshot{IsPrimary: true, Status: propertygroup.StatusCompleted}

		s := snap(stdApp(), nil, nil, nil) // inspection missing
		if got := CanGeneratePDFForGroup(s, g); got.Allowed || got.Reason != ReasonInspectionIncomplete {
			t.Fatalf("got %+v", got)
		}

		s = snap(stdApp(), inspectionDone, nil, nil)
		if got := CanGeneratePDFForGroup(s, g); !got.Allowed {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("secondary only needs its own status", func(t *testing.T) {
		s := snap(stdApp(), nil, nil, nil)

		g := GroupSnapshot{Status: propertygroup.StatusCompleted}
		if got := CanGeneratePDFForGroup(s, g); !got.Allowed {
			t.Fatalf("got %+v", got)
		}

		g.Status = propertygroup.StatusInProgress
		if got := CanGeneratePDFForGroup(s, g); got.Allowed || got.Reason != ReasonGroupFormsIncomplete {
			t.Fatalf("got %+v", got)
		}
	})
}

func TestCanSendEmail(t *testing.T) {
	if got := CanSendEmail(TaskSet{PDF: StateCompleted}); !got.Allowed {
		t.Fatalf("got %+v", got)
	}
	if got := CanSendEmail(TaskSet{PDF: StateNotStarted}); got.Allowed || got.Reason != ReasonPDFNotGenerated {
		t.Fatalf("got %+v", got)
	}
	// A stale PDF carries its own reason string.
	if got := CanSendEmail(TaskSet{PDF: StateUpdateNeeded}); got.Allowed || got.Reason != ReasonPDFStale {
		t.Fatalf("got %+v", got)
	}
}

func TestCanSendEmailForGroup(t *testing.T) {
	if got := CanSendEmailForGroup(GroupSnapshot{PDFStatus: propertygroup.StatusCompleted}); !got.Allowed {
		t.Fatalf("got %+v", got)
	}
	// A pdf_url alone is enough even if pdf_status lags behind.
	if got := CanSendEmailForGroup(GroupSnapshot{PDFURL: "https://store/certs/g1.pdf"}); !got.Allowed {
		t.Fatalf("got %+v", got)
	}
	if got := CanSendEmailForGroup(GroupSnapshot{}); got.Allowed || got.Reason != ReasonPDFNotGenerated {
		t.Fatalf("got %+v", got)
	}
}

func TestCanMarkTaskComplete(t *testing.T) {
	a := stdApp()
	a.InspectionFormCompletedAt = tp(t0)
	s := snap(a, nil, nil, nil)

	if got := CanMarkTaskComplete(s, TaskInspection); got.Allowed || got.Reason != ReasonTaskAlreadyComplete {
		t.Fatalf("got %+v", got)
	}
	for _, k := range []TaskKind{TaskResale, TaskSettlement, TaskPDF, TaskEmail} {
		if got := CanMarkTaskComplete(s, k); !got.Allowed {
			t.Fatalf("task %s: got %+v", k, got)
		}
	}
}

// Gating and step derivation stay in sync: whenever the standard ladder sits
// below step 3 the generate action must be disabled, and it must flip on
// exactly when both form tasks complete simultaneously.
func TestActionGate_NoPartialEnable(t *testing.T) {
	combos := []TaskState{StateNotStarted, StateInProgress, StateCompleted}
	for _, insp := range combos {
		for _, resale := range combos {
			ts := TaskSet{Inspection: insp, Resale: resale}
			got := CanGeneratePDF(ts, VariantStandard)
			want := insp == StateCompleted && resale == StateCompleted
			if got.Allowed != want {
				t.Fatalf("inspection=%s resale=%s: allowed=%v, want %v", insp, resale, got.Allowed, want)
			}
		}
	}
}

func TestScenario1_FreshApplicationActionsDisabled(t *testing.T) {
	s := snap(stdApp(), nil, nil, nil)
	ts := ResolveTasks(s, VariantStandard)

	if got := ResolveStep(s, VariantStandard); got != (Step{1, LabelFormsRequired}) {
		t.Fatalf("step = %+v", got)
	}
	if got := CanGeneratePDF(ts, VariantStandard); got.Allowed {
		t.Fatalf("generate should be disabled: %+v", got)
	}
	if got := CanSendEmail(ts); got.Allowed {
		t.Fatalf("send should be disabled: %+v", got)
	}
}

func TestScenario2_FormsDoneEnablesGenerateOnly(t *testing.T) {
	forms := []form.Form{
		formRow(form.TypeInspection, form.StatusCompleted, t0),
		formRow(form.TypeResaleCertificate, form.StatusCompleted, t0.Add(time.Minute)),
	}
	s := snap(stdApp(), forms, nil, nil)
	ts := ResolveTasks(s, VariantStandard)

	if got := ResolveStep(s, VariantStandard); got != (Step{3, LabelGeneratePDF}) {
		t.Fatalf("step = %+v", got)
	}
	if got := CanGeneratePDF(ts, VariantStandard); !got.Allowed {
		t.Fatalf("generate should be enabled: %+v", got)
	}
	if got := CanSendEmail(ts); got.Allowed {
		t.Fatalf("send should still be disabled: %+v", got)
	}
}
