package editadmin

import (
	"context"
	"database/sql"
	"errors"

	apperrors "loan-broker/internal/common/errors"
	"loan-broker/internal/common/logger"
	"loan-broker/internal/common/validation"
	"loan-broker/internal/models"
	"loan-broker/internal/store"
	"loan-broker/internal/workflow"
)

const (
	Operation = "edit-admin"
)

const (
	MsgAdminNotFound    = "Admin not found"
	MsgEmailAlreadyUsed = "Email address already used"
)

var form = validation.Form{
	"fullName":     {Kind: validation.KindString},
	"emailAddress": {Kind: validation.KindLowerString},
}

func schema() validation.JSONSchema {
	return validation.NewSchema(map[string]validation.Property{
		"fullName":     validation.FullName(),
		"emailAddress": validation.Email(),
	}, "fullName", "emailAddress")
}

type Handler struct {
	config *Config
	db     *sql.DB
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		logger: log.WithFields(map[string]interface{}{"operation": Operation}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := workflow.RequireKind(input.Actor, models.KindAdmin); err != nil {
		return nil, err
	}

	var fields Fields
	if err := validation.Bind(input.Form, form, schema(), &fields); err != nil {
		return nil, err
	}

	target, err := store.GetUserByID(ctx, h.db, input.AdminID)
	if errors.Is(err, store.ErrNotFound) || err == nil && target.Kind != models.KindAdmin {
		return nil, apperrors.NewNotFoundError(MsgAdminNotFound)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}

	taken, err := store.EmailTaken(ctx, h.db, fields.EmailAddress, target.ID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}
	if taken {
		return nil, apperrors.NewFieldError("emailAddress", MsgEmailAlreadyUsed)
	}

	err = store.UpdateUserProfile(ctx, h.db, target.ID, fields.FullName, fields.EmailAddress)
	if errors.Is(err, store.ErrDuplicateEmail) {
		return nil, apperrors.NewFieldError("emailAddress", MsgEmailAlreadyUsed)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}

	h.logger.Info("admin updated", map[string]interface{}{
		"userId":    target.ID,
		"updatedBy": input.Actor.ID,
	})
	return &Output{UserID: target.ID, RedirectTo: "/admins"}, nil
}
