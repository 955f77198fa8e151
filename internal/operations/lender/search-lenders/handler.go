package searchlenders

import (
	"context"
	"database/sql"

	apperrors "loan-broker/internal/common/errors"
	"loan-broker/internal/common/logger"
	"loan-broker/internal/common/validation"
	"loan-broker/internal/models"
	"loan-broker/internal/store"
)

const (
	Operation = "search-lenders"
)

const MsgInvalidFilter = "Invalid filter input, please try again"

var form = validation.Form{
	"employmentTypeId": {Kind: validation.KindInteger, Optional: true},
	"requiredAmount":   {Kind: validation.KindDecimal, Optional: true},
	"repaymentPeriod":  {Kind: validation.KindInteger, Optional: true},
}

func schema() validation.JSONSchema {
	return validation.NewSchema(map[string]validation.Property{
		"employmentTypeId": validation.PositiveInteger(),
		"requiredAmount":   validation.PositiveNumber(),
		"repaymentPeriod":  validation.PositiveInteger(),
	})
}

// Handler is the public lender search on the home page.
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
	var filter Filter
	if err := validation.Bind(input.Query, form, schema(), &filter); err != nil {
		h.logger.Debug("invalid lender filter", map[string]interface{}{"error": err.Error()})
		return nil, apperrors.NewFormError(MsgInvalidFilter)
	}

	lenders, err := store.SearchLenders(ctx, h.db, store.LenderFilter{
		EmploymentTypeID: filter.EmploymentTypeID,
		RequiredAmount:   filter.RequiredAmount,
		RepaymentPeriod:  filter.RepaymentPeriod,
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}
	types, err := store.ListEmploymentTypes(ctx, h.db)
	if err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}

	if lenders == nil {
		lenders = []models.LenderSummary{}
	}
	if types == nil {
		types = []models.EmploymentType{}
	}
	return &Output{Filter: filter, Lenders: lenders, EmploymentTypes: types}, nil
}
