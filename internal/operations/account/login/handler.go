package login

import (
	"context"
	"database/sql"
	"errors"

	"loan-broker/internal/common/auth"
	apperrors "loan-broker/internal/common/errors"
	"loan-broker/internal/common/logger"
	"loan-broker/internal/common/metrics"
	"loan-broker/internal/common/validation"
	"loan-broker/internal/store"
)

const (
	Operation = "login"
)

const (
	MsgIncorrectCredentials = "Incorrect credentials"
	MsgTooManyAttempts      = "Too many login attempts, please try again later"
)

type Limiter interface {
	Allow(ctx context.Context, email string) auth.LoginDecision
	Reset(ctx context.Context, email string)
}

type SessionStarter interface {
	Create(ctx context.Context, userID int64, remember bool) (*auth.Session, error)
}

var form = validation.Form{
	"emailAddress": {Kind: validation.KindLowerString},
	"password":     {Kind: validation.KindString},
	"remember":     {Kind: validation.KindBool, Optional: true},
	"redirectTo":   {Kind: validation.KindString, Optional: true},
}

func schema() validation.JSONSchema {
	return validation.NewSchema(map[string]validation.Property{
		"emailAddress": validation.String(1, 0),
		"password":     validation.String(1, 0),
		"remember":     validation.Boolean(),
		"redirectTo":   validation.String(0, 0),
	}, "emailAddress", "password")
}

type Handler struct {
	config   *Config
	db       *sql.DB
	hasher   auth.PasswordHasher
	limiter  Limiter
	sessions SessionStarter
	logger   logger.Logger
}

func NewHandler(config *Config, db *sql.DB, hasher auth.PasswordHasher, limiter Limiter, sessions SessionStarter, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		db:       db,
		hasher:   hasher,
		limiter:  limiter,
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
	var fields Fields
	if err := validation.Bind(input.Form, form, schema(), &fields); err != nil {
		return nil, err
	}

	decision := h.limiter.Allow(ctx, fields.EmailAddress)
	if !decision.Allowed {
		metrics.LoginAttemptsThrottled.Inc()
		h.logger.Warn("login throttled", map[string]interface{}{
			"attempts":   decision.Count,
			"retryAfter": decision.RetryAfter.String(),
		})
		return nil, apperrors.NewRateLimitedError(MsgTooManyAttempts, decision.RetryAfter)
	}

	user, err := store.GetUserByEmail(ctx, h.db, fields.EmailAddress)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NewFormError(MsgIncorrectCredentials)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}
	if err := h.hasher.Compare(user.HashedPassword, fields.Password); err != nil {
		h.logger.Debug("password mismatch", map[string]interface{}{"userId": user.ID})
		return nil, apperrors.NewFormError(MsgIncorrectCredentials)
	}

	h.limiter.Reset(ctx, fields.EmailAddress)

	session, err := h.sessions.Create(ctx, user.ID, fields.Remember)
	if err != nil {
		return nil, apperrors.NewServiceUnavailableError("redis", apperrors.MsgGeneric)
	}

	h.logger.Info("user signed in", map[string]interface{}{
		"userId":   user.ID,
		"kind":     user.Kind,
		"remember": fields.Remember,
	})
	return &Output{
		UserID:     user.ID,
		Kind:       user.Kind,
		RedirectTo: SafeRedirect(fields.RedirectTo),
		Session:    session,
	}, nil
}
