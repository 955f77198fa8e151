package forwardapplication

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"loan-broker/internal/common/database"
	apperrors "loan-broker/internal/common/errors"
	"loan-broker/internal/common/logger"
	"loan-broker/internal/common/validation"
	"loan-broker/internal/store"
	"loan-broker/internal/workflow"
)

const (
	Operation = "forward-application"
)

const MsgApplicationNotFound = "Application not found"

var form = validation.Form{
	"lenderIds": {Kind: validation.KindJSON},
}

func schema() validation.JSONSchema {
	return validation.NewSchema(map[string]validation.Property{
		"lenderIds": validation.NonEmptyArrayOf(validation.PositiveInteger()),
	}, "lenderIds")
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
	if err := workflow.Authorize(role, workflow.ForwardApplication, workflow.Access{ApplicantID: app.ApplicantID}); err != nil {
		return nil, err
	}

	var fields Fields
	if err := validation.Bind(input.Form, form, schema(), &fields); err != nil {
		return nil, err
	}
	desired := dedupe(fields.LenderIDs)

	active, err := store.ActiveLenderIDs(ctx, h.db, desired)
	if err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}
	for _, id := range desired {
		if !active[id] {
			return nil, apperrors.NewFieldError("lenderIds", fmt.Sprintf("Lender %d not found", id))
		}
	}

	out := &Output{
		ApplicationID: app.ID,
		LenderIDs:     desired,
		RedirectTo:    fmt.Sprintf("/applications/%d", app.ID),
	}
	err = database.WithTx(ctx, h.db, func(tx *sql.Tx) error {
		existing, err := store.ChannelLenderIDs(ctx, tx, app.ID)
		if err != nil {
			return err
		}
		out.Added, out.Removed = diff(existing, desired)

		for _, lenderID := range out.Removed {
			if err := store.DeleteChannel(ctx, tx, app.ID, lenderID); err != nil {
				return err
			}
		}
		for _, lenderID := range out.Added {
			if err := store.EnsureChannel(ctx, tx, app.ID, lenderID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}

	h.logger.Info("application channels updated", map[string]interface{}{
		"applicationId": app.ID,
		"added":         out.Added,
		"removed":       out.Removed,
	})
	return out, nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// diff returns the desired ids missing from existing and the existing ids no longer desired.
func diff(existing, desired []int64) (added, removed []int64) {
	have := make(map[int64]bool, len(existing))
	for _, id := range existing {
		have[id] = true
	}
	want := make(map[int64]bool, len(desired))
	for _, id := range desired {
		want[id] = true
		if !have[id] {
			added = append(added, id)
		}
	}
	for _, id := range existing {
		if !want[id] {
			removed = append(removed, id)
		}
	}
	return added, removed
}
