package recorddecision

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "loan-broker/internal/common/errors"
	"loan-broker/internal/common/logger"
	"loan-broker/internal/common/metrics"
	"loan-broker/internal/models"
	notifydecision "loan-broker/internal/operations/application/notify-decision"
	"loan-broker/internal/store"
	"loan-broker/internal/workflow"
)

const (
	Operation = "record-decision"
)

const (
	MsgApplicationNotFound = "Application not found"
	MsgInvalidDecision     = "Invalid decision"
	MaxCommentLength       = 500
)

// Notifier tells the applicant about a recorded decision.
type Notifier interface {
	Execute(ctx context.Context, input *notifydecision.Input) (*notifydecision.Output, error)
}

type Handler struct {
	config   *Config
	db       *sql.DB
	notifier Notifier
	logger   logger.Logger
}

func NewHandler(config *Config, db *sql.DB, notifier Notifier, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		db:       db,
		notifier: notifier,
		logger:   log.WithFields(map[string]interface{}{"operation": Operation}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Actor == nil {
		return nil, apperrors.NewUnauthorisedError("")
	}
	role, err := workflow.RoleOf(*input.Actor)
	if err != nil {
		return nil, err
	}
	if !workflow.IsDecision(input.Decision) {
		return nil, apperrors.NewFieldError("actionId", MsgInvalidDecision)
	}
	if len(input.Comment) > MaxCommentLength {
		return nil, apperrors.NewFieldError("comment", fmt.Sprintf("Must contain at most %d character(s)", MaxCommentLength))
	}

	detail, err := store.GetApplicationDetail(ctx, h.db, input.ApplicationID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NewNotFoundError(MsgApplicationNotFound)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}

	access := workflow.Access{ApplicantID: detail.ApplicantID, LenderIDs: detail.LenderIDs()}
	if err := workflow.Authorize(role, workflow.RecordDecision, access); err != nil {
		h.logger.Warn("decision rejected", map[string]interface{}{
			"applicationId": detail.ID,
			"userId":        input.Actor.ID,
			"kind":          input.Actor.Kind,
		})
		return nil, err
	}

	// Authorize only lets lenders through.
	lender := role.(workflow.LenderRole)
	channel := ownChannel(detail.Channels, lender.LenderID)
	if channel == nil {
		return nil, apperrors.NewUnauthorisedError(workflow.MsgDifferentLender)
	}

	decision := &models.Decision{
		ChannelID: channel.ID,
		Decision:  input.Decision,
		Comment:   input.Comment,
	}
	if err := store.CreateDecision(ctx, h.db, decision); err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}
	metrics.DecisionsRecorded.WithLabelValues(string(decision.Decision)).Inc()

	overall := workflow.DeriveApplicationDecision(append(detail.AllDecisions(), *decision))
	h.logger.Info("decision recorded", map[string]interface{}{
		"applicationId": detail.ID,
		"channelId":     channel.ID,
		"lenderId":      lender.LenderID,
		"decision":      decision.Decision,
		"overall":       overall,
	})

	out := &Output{
		DecisionID: decision.ID,
		ChannelID:  channel.ID,
		Decision:   decision.Decision,
		Overall:    overall,
		RedirectTo: fmt.Sprintf("/applications/%d", detail.ID),
	}
	out.Notification = h.notify(ctx, detail, channel, decision)
	return out, nil
}

func ownChannel(channels []models.Channel, lenderID int64) *models.Channel {
	for i := range channels {
		if channels[i].LenderID == lenderID {
			return &channels[i]
		}
	}
	return nil
}

// notify returns the notification status; failures are logged only.
func (h *Handler) notify(ctx context.Context, detail *models.ApplicationDetail, channel *models.Channel, d *models.Decision) string {
	if h.notifier == nil {
		return string(models.NotificationDisabled)
	}

	res, err := h.notifier.Execute(ctx, &notifydecision.Input{
		ApplicationID: detail.ID,
		FullName:      detail.FullName,
		EmailAddress:  detail.Applicant.EmailAddress,
		PhoneNumber:   detail.PhoneNumber,
		AmtRequired:   detail.AmtRequired,
		LenderName:    channel.LenderName,
		Decision:      d.Decision,
		Comment:       d.Comment,
	})
	if err != nil {
		h.logger.Error("failed to notify applicant", map[string]interface{}{
			"applicationId": detail.ID,
			"error":         err,
		})
		return string(models.NotificationFailed)
	}
	return string(res.Status)
}
