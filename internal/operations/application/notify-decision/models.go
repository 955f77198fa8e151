package notifydecision

import (
	"time"

	"github.com/shopspring/decimal"

	"loan-broker/internal/models"
)

type Input struct {
	ApplicationID int64                   `json:"applicationId"`
	FullName      string                  `json:"fullName"`
	EmailAddress  string                  `json:"emailAddress"`
	PhoneNumber   string                  `json:"phoneNumber"`
	AmtRequired   decimal.Decimal         `json:"amtRequired"`
	LenderName    string                  `json:"lenderName"`
	Decision      models.ApplicationState `json:"decision"`
	Comment       string                  `json:"comment,omitempty"`
}

type Output struct {
	NotificationID string                    `json:"notificationId"`
	Status         models.NotificationStatus `json:"status"`
	SentAt         time.Time                 `json:"sentAt"`
	Deliveries     []models.Notification     `json:"deliveries,omitempty"`
}

// Delivery channels.
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)
