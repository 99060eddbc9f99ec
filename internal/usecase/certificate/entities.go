package certificate

import (
	"errors"
	"time"
)

var (
	// ErrOperationInFlight means another generation for the same target is
	// still holding the redis lock.
	ErrOperationInFlight = errors.New("operation already in progress")
	// ErrNotAllowed carries the same reason string the action gate reports.
	ErrNotAllowed = errors.New("operation not allowed")
)

type CertificateDTO struct {
	ApplicationID string    `json:"application_id"`
	GroupID       string    `json:"group_id,omitempty"`
	PDFURL        string    `json:"pdf_url"`
	GeneratedAt   time.Time `json:"generated_at"`
}
