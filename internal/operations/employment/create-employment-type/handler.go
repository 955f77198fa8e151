package createemploymenttype

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
	Operation = "create-employment-type"
)

const MsgAlreadyExists = "Employment type already exists"

var form = validation.Form{
	"newEntry": {Kind: validation.KindString},
}

func schema() validation.JSONSchema {
	return validation.NewSchema(map[string]validation.Property{
		"newEntry": validation.String(1, 30),
	}, "newEntry")
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

	created, err := store.CreateEmploymentType(ctx, h.db, fields.NewEntry)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, apperrors.NewFieldError("newEntry", MsgAlreadyExists)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}

	h.logger.Info("employment type created", map[string]interface{}{
		"employmentTypeId": created.ID,
		"name":             created.EmploymentType,
	})
	return &Output{EmploymentType: created, RedirectTo: "/employment-types"}, nil
}
