package changelenderpassword

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"loan-broker/internal/common/auth"
	apperrors "loan-broker/internal/common/errors"
	"loan-broker/internal/common/logger"
	"loan-broker/internal/common/validation"
	"loan-broker/internal/models"
	"loan-broker/internal/store"
	"loan-broker/internal/workflow"
)

const (
	Operation = "change-lender-password"
)

const MsgLenderNotFound = "Lender record not found"

var form = validation.Form{
	"password":             {Kind: validation.KindString},
	"passwordConfirmation": {Kind: validation.KindString},
}

func schema() validation.JSONSchema {
	return validation.NewSchema(map[string]validation.Property{
		"password":             validation.Password(),
		"passwordConfirmation": validation.Password(),
	}, "password", "passwordConfirmation")
}

// Handler lets an admin reset a lender user's password.
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
	if err := workflow.RequireKind(input.Actor, models.KindAdmin); err != nil {
		return nil, err
	}

	var fields Fields
	if err := validation.Bind(input.Form, form, schema(), &fields); err != nil {
		return nil, err
	}
	if err := validation.CheckPasswords(fields.Password, fields.PasswordConfirmation); err != nil {
		return nil, err
	}

	lender, err := store.GetLender(ctx, h.db, input.LenderID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NewNotFoundError(MsgLenderNotFound)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}

	hashed, err := h.hasher.Hash(fields.Password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if err := store.UpdateUserPassword(ctx, h.db, lender.UserID, hashed); err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}

	h.logger.Info("lender password changed", map[string]interface{}{
		"lenderId": lender.ID,
		"adminId":  input.Actor.ID,
	})
	return &Output{LenderID: lender.ID, RedirectTo: fmt.Sprintf("/lenders/%d", lender.ID)}, nil
}
