package join

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
)

const (
	Operation = "join"
)

const MsgUserExists = "A user already exists with this email address"

type SessionStarter interface {
	Create(ctx context.Context, userID int64, remember bool) (*auth.Session, error)
}

// Handler signs up applicants.
type Handler struct {
	config   *Config
	db       *sql.DB
	hasher   auth.PasswordHasher
	sessions SessionStarter
	logger   logger.Logger
}

func NewHandler(config *Config, db *sql.DB, hasher auth.PasswordHasher, sessions SessionStarter, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		db:       db,
		hasher:   hasher,
		sessions: sessions,
		logger:   log.WithFields(map[string]interface{}{"operation": Operation}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Actor != nil {
		return &Output{UserID: input.Actor.ID, RedirectTo: "/"}, nil
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
		Kind:           models.KindApplicant,
	}
	err = store.CreateUser(ctx, h.db, user)
	if errors.Is(err, store.ErrDuplicateEmail) {
		return nil, apperrors.NewFieldError("emailAddress", MsgUserExists)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}

	h.logger.Info("applicant joined", map[string]interface{}{
		"userId": user.ID,
	})

	session, err := h.sessions.Create(ctx, user.ID, false)
	if err != nil {
		h.logger.Warn("failed to start session for new applicant", map[string]interface{}{
			"userId": user.ID,
			"error":  err,
		})
		return &Output{UserID: user.ID, RedirectTo: "/login"}, nil
	}
	return &Output{UserID: user.ID, RedirectTo: "/", Session: session}, nil
}
