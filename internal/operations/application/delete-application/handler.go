package deleteapplication

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
	Operation = "delete-application"
)

const MsgApplicationNotFound = "Application not found"

type Indexer interface {
	IndexApplication(ctx context.Context, a *models.Application) error
}

// Handler soft-deletes applications. The row and its channels stay; the application is
// flagged deactivated and can no longer be edited.
type Handler struct {
	config *Config
	db     *sql.DB
	index  Indexer
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, index Indexer, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		index:  index,
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

	app, err := store.GetApplication(ctx, h.db, input.ApplicationID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NewNotFoundError(MsgApplicationNotFound)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}

	if err := workflow.Authorize(role, workflow.DeleteApplication, workflow.Access{ApplicantID: app.ApplicantID}); err != nil {
		return nil, err
	}

	out := &Output{ApplicationID: app.ID, RedirectTo: "/applications"}
	if app.Deactivated {
		return out, nil
	}

	err = store.SoftDeleteApplication(ctx, h.db, app.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NewNotFoundError(MsgApplicationNotFound)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}

	app.Deactivated = true
	if err := h.index.IndexApplication(ctx, app); err != nil {
		h.logger.Warn("failed to reindex application", map[string]interface{}{
			"applicationId": app.ID,
			"error":         err.Error(),
		})
	}

	h.logger.Info("application deactivated", map[string]interface{}{
		"applicationId": app.ID,
		"userId":        input.Actor.ID,
	})
	return out, nil
}
