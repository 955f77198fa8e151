package editapplication

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"loan-broker/internal/common/database"
	apperrors "loan-broker/internal/common/errors"
	"loan-broker/internal/common/logger"
	"loan-broker/internal/models"
	"loan-broker/internal/operations/application/appform"
	"loan-broker/internal/store"
	"loan-broker/internal/workflow"
)

const (
	Operation = "edit-application"
)

const (
	MsgApplicationNotFound = "Application not found"
	MsgLenderNotFound      = "Lender record not found, please reselect a lender"
	MsgApplicationDeleted  = "This application has been deleted and can no longer be edited"
)

type Indexer interface {
	IndexApplication(ctx context.Context, a *models.Application) error
}

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

	existing, err := store.GetApplication(ctx, h.db, input.ApplicationID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NewNotFoundError(MsgApplicationNotFound)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}

	access := workflow.Access{ApplicantID: existing.ApplicantID}
	if err := workflow.Authorize(role, workflow.EditApplication, access); err != nil {
		h.logger.Warn("edit rejected", map[string]interface{}{
			"applicationId": existing.ID,
			"userId":        input.Actor.ID,
			"kind":          input.Actor.Kind,
		})
		return nil, err
	}
	if existing.Deactivated {
		return nil, apperrors.NewForbiddenError(MsgApplicationDeleted)
	}

	fields, err := appform.Bind(input.Form)
	if err != nil {
		return nil, err
	}
	if err := workflow.CheckKycDocs(fields.KycLabels()); err != nil {
		return nil, err
	}

	if _, err := store.GetActiveLender(ctx, h.db, fields.SelectedLenderID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(MsgLenderNotFound)
		}
		return nil, apperrors.NewDatabaseError(Operation, err)
	}

	app, err := fields.Application(existing.ApplicantID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	prior, err := fields.Prior()
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	app.ID = existing.ID
	app.State = existing.State
	app.CreatedAt = existing.CreatedAt

	err = database.WithTx(ctx, h.db, func(tx *sql.Tx) error {
		if err := store.UpdateApplication(ctx, tx, app); err != nil {
			return err
		}
		if err := store.EnsureChannel(ctx, tx, app.ID, fields.SelectedLenderID); err != nil {
			return err
		}
		if err := store.ReplaceKycDocs(ctx, tx, app.ID, fields.Kyc()); err != nil {
			return err
		}
		return store.SavePriorLoan(ctx, tx, app.ID, prior)
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NewNotFoundError(MsgApplicationNotFound)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}

	h.logger.Info("application updated", map[string]interface{}{
		"applicationId": app.ID,
		"userId":        input.Actor.ID,
	})

	if err := h.index.IndexApplication(ctx, app); err != nil {
		h.logger.Warn("failed to index application", map[string]interface{}{
			"applicationId": app.ID,
			"error":         err,
		})
	}

	return &Output{
		ApplicationID: app.ID,
		RedirectTo:    fmt.Sprintf("/applications/%d", app.ID),
	}, nil
}
