package notify

import (
	"errors"
	"time"
)

var (
	ErrOperationInFlight = errors.New("operation already in progress")
	ErrNotAllowed        = errors.New("operation not allowed")
	// ErrNoRecipient means the application has no requester email on file.
	ErrNoRecipient = errors.New("no recipient email on application")
)

type NotificationDTO struct {
	NotificationID string    `json:"notification_id"`
	ApplicationID  string    `json:"application_id"`
	GroupID        string    `json:"group_id,omitempty"`
	Recipient      string    `json:"recipient"`
	Subject        string    `json:"subject"`
	SentAt         time.Time `json:"sent_at"`
}
