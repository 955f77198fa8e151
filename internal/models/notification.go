package models

import "time"

type NotificationStatus string

const (
	NotificationSent     NotificationStatus = "sent"
	NotificationFailed   NotificationStatus = "failed"
	NotificationDisabled NotificationStatus = "disabled"
)

// Notification is the outcome of telling an applicant about a decision.
type Notification struct {
	NotificationID string             `json:"notificationId"`
	ApplicationID  int64              `json:"applicationId"`
	Channel        string             `json:"channel"` // "email", "sms"
	Status         NotificationStatus `json:"status"`
	SentAt         time.Time          `json:"sentAt"`
}

type NotificationTemplate struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
