package listapplications

import (
	"context"
	"database/sql"

	apperrors "loan-broker/internal/common/errors"
	"loan-broker/internal/common/logger"
	"loan-broker/internal/store"
	"loan-broker/internal/workflow"
)

const (
	Operation = "list-applications"
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
	if input.Actor == nil {
		return nil, apperrors.NewUnauthorisedError("")
	}
	role, err := workflow.RoleOf(*input.Actor)
	if err != nil {
		return nil, err
	}

	var filter store.ApplicationFilter
	switch r := role.(type) {
	case workflow.LenderRole:
		filter.LenderID = r.LenderID
	case workflow.ApplicantRole:
		filter.ApplicantID = r.UserID
	}

	apps, err := store.ListApplications(ctx, h.db, filter)
	if err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}
	for i := range apps {
		apps[i].Decision = workflow.DeriveApplicationDecision(apps[i].Decisions)
	}

	h.logger.Debug("applications listed", map[string]interface{}{
		"userId": input.Actor.ID,
		"kind":   input.Actor.Kind,
		"count":  len(apps),
	})
	return &Output{Applications: apps}, nil
}
