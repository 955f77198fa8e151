package renameemploymenttype

import (
	"context"
	"database/sql"
	"errors"

	apperrors "loan-broker/internal/common/errors"
	"loan-broker/internal/common/logger"
	"loan-broker/internal/common/validation"
	"loan-broker/internal/models"
	"loan-broker/internal/store"
	"loan-broker/internal/workflow"
)

const (
	Operation = "rename-employment-type"
)

const (
	MsgNotFound      = "Employment type not found"
	MsgAlreadyExists = "Employment type already exists"
)

var form = validation.Form{
	"newValue": {Kind: validation.KindString},
}

func schema() validation.JSONSchema {
	return validation.NewSchema(map[string]validation.Property{
		"newValue": validation.String(1, 30),
	}, "newValue")
}

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

	var fields Fields
	if err := validation.Bind(input.Form, form, schema(), &fields); err != nil {
		return nil, err
	}

	err := store.RenameEmploymentType(ctx, h.db, input.EmploymentTypeID, fields.NewValue)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, apperrors.NewNotFoundError(MsgNotFound)
	case errors.Is(err, store.ErrDuplicate):
		return nil, apperrors.NewFieldError("newValue", MsgAlreadyExists)
	case err != nil:
		return nil, apperrors.NewDatabaseError(Operation, err)
	}

	h.logger.Info("employment type renamed", map[string]interface{}{
		"employmentTypeId": input.EmploymentTypeID,
		"name":             fields.NewValue,
	})
	return &Output{EmploymentTypeID: input.EmploymentTypeID, RedirectTo: "/employment-types"}, nil
}
