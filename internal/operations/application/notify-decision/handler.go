package notifydecision

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"

	awsclient "loan-broker/internal/common/aws"
	"loan-broker/internal/common/logger"
	"loan-broker/internal/common/metrics"
	"loan-broker/internal/models"
)

const (
	Operation = "notify-decision"
)

// SESService is the part of the SES client used for e-mail.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SNSService is the part of the SNS client used for SMS.
type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Handler struct {
	config    *Config
	sesClient SESService
	snsClient SNSService
	logger    logger.Logger
	now       func() time.Time
}

func NewHandler(config *Config, sesClient SESService, snsClient SNSService, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		sesClient: sesClient,
		snsClient: snsClient,
		logger:    log.WithFields(map[string]interface{}{"operation": Operation}),
		now:       time.Now,
	}
}

// Execute sends the decision to the applicant. Delivery failures are reported in the
// output status, never as an error.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	out := &Output{
		NotificationID: uuid.New().String(),
		Status:         models.NotificationDisabled,
		SentAt:         h.now().UTC(),
	}

	tmpl, ok := h.config.Templates[input.Decision]
	if !ok {
		return nil, fmt.Errorf("no notification template for decision %q", input.Decision)
	}

	data := map[string]string{
		"applicationId": strconv.FormatInt(input.ApplicationID, 10),
		"fullName":      input.FullName,
		"lenderName":    input.LenderName,
		"decision":      string(input.Decision),
		"amtRequired":   input.AmtRequired.StringFixed(2),
		"comment":       input.Comment,
	}
	subject := renderTemplate(tmpl.Subject, data)
	body := strings.TrimSpace(renderTemplate(tmpl.Body, data))

	if h.config.EmailEnabled && h.sesClient != nil && input.EmailAddress != "" {
		_, err := h.sesClient.SendEmail(ctx, awsclient.BuildEmail(h.config.FromEmail, input.EmailAddress, subject, body))
		out.record(input.ApplicationID, ChannelEmail, err)
		h.logDelivery(ChannelEmail, input.ApplicationID, err)
	}

	if h.config.SMSEnabled && h.snsClient != nil && input.PhoneNumber != "" {
		_, err := h.snsClient.Publish(ctx, awsclient.BuildSMS(input.PhoneNumber, body))
		out.record(input.ApplicationID, ChannelSMS, err)
		h.logDelivery(ChannelSMS, input.ApplicationID, err)
	}

	return out, nil
}

// record appends one delivery and folds it into the overall status. Any failure marks
// the notification failed.
func (o *Output) record(applicationID int64, channel string, err error) {
	status := models.NotificationSent
	if err != nil {
		status = models.NotificationFailed
	}
	o.Deliveries = append(o.Deliveries, models.Notification{
		NotificationID: o.NotificationID,
		ApplicationID:  applicationID,
		Channel:        channel,
		Status:         status,
		SentAt:         o.SentAt,
	})

	switch {
	case status == models.NotificationFailed:
		o.Status = models.NotificationFailed
	case o.Status == models.NotificationDisabled:
		o.Status = models.NotificationSent
	}
}

func (h *Handler) logDelivery(channel string, applicationID int64, err error) {
	if err != nil {
		metrics.NotificationsSent.WithLabelValues(channel, string(models.NotificationFailed)).Inc()
		h.logger.Error("notification delivery failed", map[string]interface{}{
			"channel":       channel,
			"applicationId": applicationID,
			"error":         err,
		})
		return
	}
	metrics.NotificationsSent.WithLabelValues(channel, string(models.NotificationSent)).Inc()
	h.logger.Info("notification delivered", map[string]interface{}{
		"channel":       channel,
		"applicationId": applicationID,
	})
}

var placeholder = regexp.MustCompile(`\{\{\s*(\w+)\s*\}\}`)

// renderTemplate substitutes {{key}} placeholders. Unknown keys render as empty strings.
func renderTemplate(tmpl string, data map[string]string) string {
	return placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		key := placeholder.FindStringSubmatch(m)[1]
		return data[key]
	})
}
