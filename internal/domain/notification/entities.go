package notification

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("notification not found")

type Type string

const (
	TypeApplicationApproved  Type = "application_approved"
	TypeApplicationSubmitted Type = "application_submitted"
)

// Notification records one outbound email event. The workflow core treats a row
// with type application_approved as the completion signal for the email task.
type Notification struct {
	ID             uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	NotificationID string `gorm:"column:notification_id;type:char(32);not null;uniqueIndex"`

	ApplicationID    uint64  `gorm:"column:application_id;not null;index"`
	PropertyGroupID  *uint64 `gorm:"column:property_group_id;index"`
	NotificationType Type    `gorm:"column:notification_type;type:varchar(32);not null"`

	Recipient string `gorm:"column:recipient;type:varchar(255);not null"`
	Subject   string `gorm:"column:subject;type:varchar(255)"`

	SentAt    time.Time `gorm:"column:sent_at;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Notification) TableName() string { return "notifications" }
