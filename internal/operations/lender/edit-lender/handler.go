package editlender

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"loan-broker/internal/common/database"
	apperrors "loan-broker/internal/common/errors"
	"loan-broker/internal/common/logger"
	"loan-broker/internal/models"
	"loan-broker/internal/operations/lender/lenderform"
	"loan-broker/internal/store"
	"loan-broker/internal/workflow"
)

const (
	Operation = "edit-lender"
)

const (
	MsgLenderNotFound   = "Lender record not found"
	MsgEmailAlreadyUsed = "Email address already used"
)

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

	lender, err := store.GetLender(ctx, h.db, input.LenderID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NewNotFoundError(MsgLenderNotFound)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}

	fields, err := lenderform.Bind(input.Form, false)
	if err != nil {
		return nil, err
	}
	fields.Apply(lender)

	err = database.WithTx(ctx, h.db, func(tx *sql.Tx) error {
		if err := store.UpdateUserProfile(ctx, tx, lender.UserID, lender.FullName, lender.EmailAddress); err != nil {
			return err
		}
		return store.UpdateLender(ctx, tx, lender)
	})
	switch {
	case errors.Is(err, store.ErrDuplicateEmail):
		return nil, apperrors.NewFieldError("emailAddress", MsgEmailAlreadyUsed)
	case errors.Is(err, store.ErrNotFound):
		return nil, apperrors.NewNotFoundError(MsgLenderNotFound)
	case err != nil:
		return nil, apperrors.NewDatabaseError(Operation, err)
	}

	h.logger.Info("lender updated", map[string]interface{}{"lenderId": lender.ID})
	return &Output{Lender: lender, RedirectTo: fmt.Sprintf("/lenders/%d", lender.ID)}, nil
}
