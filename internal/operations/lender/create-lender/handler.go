package createlender

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"loan-broker/internal/common/auth"
	"loan-broker/internal/common/database"
	apperrors "loan-broker/internal/common/errors"
	"loan-broker/internal/common/logger"
	"loan-broker/internal/models"
	"loan-broker/internal/operations/lender/lenderform"
	"loan-broker/internal/store"
	"loan-broker/internal/workflow"
)

const (
	Operation = "create-lender"
)

const MsgEmailAlreadyUsed = "Email address already used"

// Handler creates a lender user and its lender row together.
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

	fields, err := lenderform.Bind(input.Form, true)
	if err != nil {
		return nil, err
	}

	hashed, err := h.hasher.Hash(fields.Password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &models.User{
		EmailAddress:   fields.EmailAddress,
		FullName:       fields.FullName,
		HashedPassword: hashed,
		Kind:           models.KindLender,
	}
	lender := &models.Lender{}
	fields.Apply(lender)

	err = database.WithTx(ctx, h.db, func(tx *sql.Tx) error {
		if err := store.CreateUser(ctx, tx, user); err != nil {
			return err
		}
		lender.UserID = user.ID
		return store.CreateLender(ctx, tx, lender)
	})
	if errors.Is(err, store.ErrDuplicateEmail) {
		return nil, apperrors.NewFieldError("emailAddress", MsgEmailAlreadyUsed)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}

	h.logger.Info("lender created", map[string]interface{}{
		"lenderId": lender.ID,
		"userId":   user.ID,
	})
	return &Output{
		LenderID:   lender.ID,
		UserID:     user.ID,
		RedirectTo: fmt.Sprintf("/lenders/%d", lender.ID),
	}, nil
}
