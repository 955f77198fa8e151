package deleteadmin

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
	Operation = "delete-admin"
)

const (
	MsgAdminNotFound = "Admin not found"
	MsgDeleteSelf    = "You can't delete your own account"
)

// Handler hard-deletes another admin.
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
	if input.AdminID == input.Actor.ID {
		return nil, apperrors.NewFormError(MsgDeleteSelf)
	}

	err := store.DeleteUser(ctx, h.db, input.AdminID, models.KindAdmin)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NewNotFoundError(MsgAdminNotFound)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}

	h.logger.Info("admin deleted", map[string]interface{}{
		"userId":    input.AdminID,
		"deletedBy": input.Actor.ID,
	})
	return &Output{UserID: input.AdminID, RedirectTo: "/admins"}, nil
}
