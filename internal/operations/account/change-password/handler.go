package changepassword

import (
	"context"
	"database/sql"
	"errors"

	"loan-broker/internal/common/auth"
	apperrors "loan-broker/internal/common/errors"
	"loan-broker/internal/common/logger"
	"loan-broker/internal/common/validation"
	"loan-broker/internal/store"
)

const (
	Operation = "change-password"
)

const MsgInvalidCurrentPassword = "Invalid current password"

var form = validation.Form{
	"oldPassword":          {Kind: validation.KindString},
	"newPassword":          {Kind: validation.KindString},
	"passwordConfirmation": {Kind: validation.KindString},
}

func schema() validation.JSONSchema {
	return validation.NewSchema(map[string]validation.Property{
		"oldPassword":          validation.String(1, 0),
		"newPassword":          validation.Password(),
		"passwordConfirmation": validation.Password(),
	}, "oldPassword", "newPassword", "passwordConfirmation")
}

type Handler struct {
	config *Config
	db     *sql.DB
	hasher auth.PasswordHasher
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, hasher auth.PasswordHasher, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		hasher: hasher,
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
	if err := validation.CheckPasswords(fields.NewPassword, fields.PasswordConfirmation); err != nil {
		return nil, err
	}

	user, err := store.GetUserByID(ctx, h.db, input.Actor.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NewUnauthorisedError("")
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}
	if err := h.hasher.Compare(user.HashedPassword, fields.OldPassword); err != nil {
		return nil, apperrors.NewFormError(MsgInvalidCurrentPassword)
	}

	hashed, err := h.hasher.Hash(fields.NewPassword)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if err := store.UpdateUserPassword(ctx, h.db, user.ID, hashed); err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}

	h.logger.Info("password changed", map[string]interface{}{"userId": user.ID})
	return &Output{UserID: user.ID, RedirectTo: "/"}, nil
}
