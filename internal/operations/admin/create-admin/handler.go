package createadmin

import (
	"context"
	"database/sql"
	"errors"

	"loan-broker/internal/common/auth"
	apperrors "loan-broker/internal/common/errors"
	"loan-broker/internal/common/logger"
	"loan-broker/internal/common/validation"
	"loan-broker/internal/models"
	"loan-broker/internal/store"
	"loan-broker/internal/workflow"
)

const (
	Operation = "create-admin"
)

const MsgEmailAlreadyUsed = "Email address already used"

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

	var account validation.Account
	if err := validation.Bind(input.Form, validation.AccountForm, validation.AccountSchema(), &account); err != nil {
		return nil, err
	}
	if err := account.CheckPasswords(); err != nil {
		return nil, err
	}

	hashed, err := h.hasher.Hash(account.Password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &models.User{
		EmailAddress:   account.EmailAddress,
		FullName:       account.FullName,
		HashedPassword: hashed,
		Kind:           models.KindAdmin,
	}
	err = store.CreateUser(ctx, h.db, user)
	if errors.Is(err, store.ErrDuplicateEmail) {
		return nil, apperrors.NewFieldError("emailAddress", MsgEmailAlreadyUsed)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}

	h.logger.Info("admin created", map[string]interface{}{
		"userId":    user.ID,
		"createdBy": input.Actor.ID,
	})
	return &Output{UserID: user.ID, RedirectTo: "/admins"}, nil
}
