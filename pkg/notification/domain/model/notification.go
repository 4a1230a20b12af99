package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationStatus int

const (
	Pending NotificationStatus = iota
	Sent
	Failed
)

type Notification struct {
	ID uuid.UUID
	// UserID is nil when the confirmation goes to a guest buyer.
	UserID           *uuid.UUID
	RecipientAddress string
	Subject          string
	Body             string
	Status           NotificationStatus
	FailureReason    string
	CreatedAt        time.Time
	SentAt           *time.Time
}

type NotificationRepository interface {
	NextID() (uuid.UUID, error)
	Create(notification *Notification) error
	Update(notification *Notification) error
}

// NotificationSender is the injected delivery capability, constructed once
// at process start.
type NotificationSender interface {
	Send(recipient, subject, body string) error
}
