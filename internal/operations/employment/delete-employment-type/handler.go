package deleteemploymenttype

import (
	"context"
	"database/sql"
	"errors"

	"loan-broker/internal/common/database"
	apperrors "loan-broker/internal/common/errors"
	"loan-broker/internal/common/logger"
	"loan-broker/internal/models"
	"loan-broker/internal/store"
	"loan-broker/internal/workflow"
)

const (
	Operation = "delete-employment-type"
)

const MsgNotFound = "Employment type not found"

// Handler deletes an employment type together with the lender preferences naming it.
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

	if err := workflow.RequireKind(input.Actor, models.KindAdmin); err != nil {
		return nil, err
	}

	err := database.WithTx(ctx, h.db, func(tx *sql.Tx) error {
		return store.DeleteEmploymentType(ctx, tx, input.EmploymentTypeID)
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NewNotFoundError(MsgNotFound)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}

	h.logger.Info("employment type deleted", map[string]interface{}{
		"employmentTypeId": input.EmploymentTypeID,
	})
	return &Output{EmploymentTypeID: input.EmploymentTypeID, RedirectTo: "/employment-types"}, nil
}
