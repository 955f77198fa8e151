package listadmins

import (
	"context"
	"database/sql"

	apperrors "loan-broker/internal/common/errors"
	"loan-broker/internal/common/logger"
	"loan-broker/internal/models"
	"loan-broker/internal/store"
	"loan-broker/internal/workflow"
)

const (
	Operation = "list-admins"
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

	if err := workflow.RequireKind(input.Actor, models.KindAdmin); err != nil {
		return nil, err
	}

	admins, err := store.ListUsersByKind(ctx, h.db, models.KindAdmin)
	if err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}
	if admins == nil {
		admins = []models.User{}
	}
	return &Output{Admins: admins}, nil
}
