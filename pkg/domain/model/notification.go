package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationStatus int

const (
	DeliveryPending NotificationStatus = iota
	DeliverySent
	DeliveryFailed
)

var notificationStatusNames = []string{"pending", "sent", "failed"}

func (s NotificationStatus) String() string { return enumName(notificationStatusNames, int(s)) }

func (s NotificationStatus) Valid() bool { return enumValid(notificationStatusNames, int(s)) }

func (s NotificationStatus) MarshalText() ([]byte, error) {
	return marshalEnum("notification status", notificationStatusNames, int(s))
}

func (s *NotificationStatus) UnmarshalText(text []byte) error {
	v, err := parseEnum("notification status", notificationStatusNames, text)
	*s = NotificationStatus(v)
	return err
}

type Notification struct {
	ID            uuid.UUID          `json:"id"`
	Recipient     string             `json:"recipient"`
	Subject       string             `json:"subject"`
	Body          string             `json:"body"`
	Status        NotificationStatus `json:"status"`
	FailureReason string             `json:"failureReason,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	SentAt        *time.Time         `json:"sentAt,omitempty"`
}

type NotificationRepository interface {
	Create(notification *Notification) error
	Update(notification *Notification) error
	ListFor(recipient string) ([]Notification, error)
}

type NotificationSender interface {
	Send(recipient, subject, body string) error
}
