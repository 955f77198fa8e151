package viewapplication

import (
	"context"
	"database/sql"
	"errors"

	apperrors "loan-broker/internal/common/errors"
	"loan-broker/internal/common/logger"
	"loan-broker/internal/store"
	"loan-broker/internal/workflow"
)

const (
	Operation = "view-application"
)

const MsgApplicationNotFound = "Application not found"

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

	detail, err := store.GetApplicationDetail(ctx, h.db, input.ApplicationID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NewNotFoundError(MsgApplicationNotFound)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}

	access := workflow.Access{ApplicantID: detail.ApplicantID, LenderIDs: detail.LenderIDs()}
	if err := workflow.Authorize(role, workflow.ViewApplication, access); err != nil {
		return nil, err
	}

	detail.Decision = workflow.DeriveApplicationDecision(detail.AllDecisions())

	allowed := func(action workflow.Action) bool {
		return workflow.Authorize(role, action, access) == nil
	}
	return &Output{
		Application: detail,
		Permissions: Permissions{
			CanDecide:  allowed(workflow.RecordDecision),
			CanEdit:    allowed(workflow.EditApplication) && !detail.Deactivated,
			CanDelete:  allowed(workflow.DeleteApplication) && !detail.Deactivated,
			CanForward: allowed(workflow.ForwardApplication),
		},
	}, nil
}
