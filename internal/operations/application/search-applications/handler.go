package searchapplications

import (
	"context"
	"errors"

	apperrors "loan-broker/internal/common/errors"
	"loan-broker/internal/common/logger"
	"loan-broker/internal/common/validation"
	"loan-broker/internal/models"
	"loan-broker/internal/search"
	"loan-broker/internal/workflow"
)

const (
	Operation = "search-applications"
)

const MsgSearchUnavailable = "Search is not available"

type Searcher interface {
	Enabled() bool
	Search(ctx context.Context, q search.Query) (*search.Result, error)
}

var form = validation.Form{
	"q":    {Kind: validation.KindString},
	"from": {Kind: validation.KindInteger, Optional: true},
	"size": {Kind: validation.KindInteger, Optional: true},
}

func (h *Handler) schema() validation.JSONSchema {
	size := validation.Integer(1)
	max := float64(h.config.MaxSize)
	size.Maximum = &max

	return validation.NewSchema(map[string]validation.Property{
		"q":    validation.String(1, 100),
		"from": validation.Integer(0),
		"size": size,
	}, "q")
}

type Handler struct {
	config *Config
	index  Searcher
	logger logger.Logger
}

func NewHandler(config *Config, index Searcher, log logger.Logger) *Handler {
	return &Handler{
		config: config,
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
	if err := workflow.RequireKind(input.Actor, models.KindAdmin); err != nil {
		return nil, err
	}
	if !h.index.Enabled() {
		return nil, apperrors.NewServiceUnavailableError("elasticsearch", MsgSearchUnavailable)
	}

	var fields Fields
	if err := validation.Bind(input.Query, form, h.schema(), &fields); err != nil {
		return nil, err
	}
	if fields.Size == 0 {
		fields.Size = h.config.DefaultSize
	}

	result, err := h.index.Search(ctx, search.Query{Text: fields.Q, From: fields.From, Size: fields.Size})
	if errors.Is(err, search.ErrDisabled) {
		return nil, apperrors.NewServiceUnavailableError("elasticsearch", MsgSearchUnavailable)
	}
	if err != nil {
		h.logger.Error("search failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, apperrors.NewExternalServiceError("elasticsearch", err)
	}

	h.logger.Debug("search completed", map[string]interface{}{
		"total": result.Total,
		"took":  result.Took,
	})

	return &Output{
		Query: fields.Q,
		From:  fields.From,
		Size:  fields.Size,
		Total: result.Total,
		Hits:  result.Hits,
	}, nil
}
