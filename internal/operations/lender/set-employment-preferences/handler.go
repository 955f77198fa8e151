package setemploymentpreferences

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"loan-broker/internal/common/database"
	apperrors "loan-broker/internal/common/errors"
	"loan-broker/internal/common/logger"
	"loan-broker/internal/common/validation"
	"loan-broker/internal/models"
	"loan-broker/internal/store"
	"loan-broker/internal/workflow"
)

const (
	Operation = "set-employment-preferences"
)

const (
	MsgLenderNotFound         = "Lender record not found"
	MsgEmploymentTypeNotFound = "Employment type not found"
)

var form = validation.Form{
	"employmentTypes": {Kind: validation.KindJSON},
}

func schema() validation.JSONSchema {
	return validation.NewSchema(map[string]validation.Property{
		"employmentTypes": validation.ArrayOf(validation.PositiveInteger()),
	}, "employmentTypes")
}

// Handler replaces the set of employment types a lender accepts.
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

	var fields Fields
	if err := validation.Bind(input.Form, form, schema(), &fields); err != nil {
		return nil, err
	}

	lender, err := store.GetLender(ctx, h.db, input.LenderID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NewNotFoundError(MsgLenderNotFound)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}

	types, err := store.ListEmploymentTypes(ctx, h.db)
	if err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}
	known := make(map[int64]bool, len(types))
	for _, t := range types {
		known[t.ID] = true
	}
	for _, id := range fields.EmploymentTypes {
		if !known[id] {
			return nil, apperrors.NewFieldError("employmentTypes", MsgEmploymentTypeNotFound)
		}
	}

	err = database.WithTx(ctx, h.db, func(tx *sql.Tx) error {
		return store.ReplacePreferences(ctx, tx, lender.ID, fields.EmploymentTypes)
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}

	h.logger.Info("employment preferences replaced", map[string]interface{}{
		"lenderId": lender.ID,
		"count":    len(fields.EmploymentTypes),
	})
	return &Output{
		LenderID:        lender.ID,
		EmploymentTypes: fields.EmploymentTypes,
		RedirectTo:      fmt.Sprintf("/lenders/%d", lender.ID),
	}, nil
}
