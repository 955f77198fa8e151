package editaccount

import (
	"context"
	"database/sql"
	"errors"

	apperrors "loan-broker/internal/common/errors"
	"loan-broker/internal/common/logger"
	"loan-broker/internal/common/validation"
	"loan-broker/internal/store"
)

const (
	Operation = "edit-account"
)

const MsgEmailInUse = "Email address already in use"

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
	if input.Actor == nil {
		return nil, apperrors.NewUnauthorisedError("")
	}

	var fields Fields
	if err := validation.Bind(input.Form, form, schema(), &fields); err != nil {
		return nil, err
	}

	taken, err := store.EmailTaken(ctx, h.db, fields.EmailAddress, input.Actor.ID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}
	if taken {
		return nil, apperrors.NewFieldError("emailAddress", MsgEmailInUse)
	}

	err = store.UpdateUserProfile(ctx, h.db, input.Actor.ID, fields.FullName, fields.EmailAddress)
	switch {
	case errors.Is(err, store.ErrDuplicateEmail):
		return nil, apperrors.NewFieldError("emailAddress", MsgEmailInUse)
	case errors.Is(err, store.ErrNotFound):
		return nil, apperrors.NewUnauthorisedError("")
	case err != nil:
		return nil, apperrors.NewDatabaseError(Operation, err)
	}

	updated := *input.Actor
	updated.FullName = fields.FullName
	updated.EmailAddress = store.NormalizeEmail(fields.EmailAddress)

	h.logger.Info("account updated", map[string]interface{}{"userId": updated.ID})
	return &Output{User: &updated, RedirectTo: "/"}, nil
}
