package viewlender

import (
	"context"
	"database/sql"
	"errors"

	apperrors "loan-broker/internal/common/errors"
	"loan-broker/internal/common/logger"
	"loan-broker/internal/models"
	"loan-broker/internal/store"
	"loan-broker/internal/workflow"
)

const (
	Operation = "view-lender"
)

const MsgLenderNotFound = "Lender record not found"

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

	detail := &models.LenderDetail{Lender: *lender}
	if detail.Preferences, err = store.ListPreferences(ctx, h.db, lender.ID); err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}
	if detail.Channels, err = store.ListLenderChannels(ctx, h.db, lender.ID); err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}
	return &Output{Lender: detail}, nil
}
