package notifydecision

import (
	"time"

	"loan-broker/internal/common/config"
	"loan-broker/internal/models"
)

type Config struct {
	EmailEnabled bool
	SMSEnabled   bool
	FromEmail    string
	Timeout      time.Duration
	Templates    map[models.ApplicationState]models.NotificationTemplate
}

func LoadConfig(n config.NotificationConfig) *Config {
	timeout := config.GetDuration(n.Timeout)
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Config{
		EmailEnabled: n.Email.Enabled,
		SMSEnabled:   n.SMS.Enabled,
		FromEmail:    n.Email.FromEmail,
		Timeout:      timeout,
		Templates:    DefaultTemplates(),
	}
}

// DefaultTemplates are the decision messages keyed by verdict.
func DefaultTemplates() map[models.ApplicationState]models.NotificationTemplate {
	return map[models.ApplicationState]models.NotificationTemplate{
		models.StateApproved: {
			Subject: "Your loan application was approved",
			Body:    "Hello {{fullName}}, {{lenderName}} approved your application #{{applicationId}} for {{amtRequired}}. {{comment}}",
		},
		models.StateDeclined: {
			Subject: "An update on your loan application",
			Body:    "Hello {{fullName}}, {{lenderName}} declined your application #{{applicationId}}. {{comment}}",
		},
	}
}
