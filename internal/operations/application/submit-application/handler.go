package submitapplication

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"loan-broker/internal/common/auth"
	"loan-broker/internal/common/database"
	apperrors "loan-broker/internal/common/errors"
	"loan-broker/internal/common/logger"
	"loan-broker/internal/common/metrics"
	"loan-broker/internal/models"
	"loan-broker/internal/operations/application/appform"
	"loan-broker/internal/store"
	"loan-broker/internal/workflow"
)

const (
	Operation = "submit-application"
)

const (
	MsgLenderNotFound   = "Lender record not found, please reselect a lender"
	MsgSignupRequired   = "Please provide your email and password"
	MsgEmailAlreadyUsed = "Email address already used"
)

var (
	ErrLenderNotFound = errors.New("LENDER_NOT_FOUND")
	ErrDuplicateEmail = errors.New("DUPLICATE_EMAIL")
)

type Indexer interface {
	IndexApplication(ctx context.Context, a *models.Application) error
}

type SessionStarter interface {
	Create(ctx context.Context, userID int64, remember bool) (*auth.Session, error)
}

type Handler struct {
	config   *Config
	db       *sql.DB
	hasher   auth.PasswordHasher
	sessions SessionStarter
	index    Indexer
	logger   logger.Logger
}

func NewHandler(config *Config, db *sql.DB, hasher auth.PasswordHasher, sessions SessionStarter, index Indexer, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		db:       db,
		hasher:   hasher,
		sessions: sessions,
		index:    index,
		logger:   log.WithFields(map[string]interface{}{"operation": Operation}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Actor != nil && input.Actor.Kind != models.KindApplicant {
		return nil, apperrors.NewUnauthorisedError(fmt.Sprintf("%s users can't apply for loans", input.Actor.Kind))
	}

	fields, err := appform.Bind(input.Form)
	if err != nil {
		return nil, err
	}
	if err := workflow.CheckKycDocs(fields.KycLabels()); err != nil {
		return nil, err
	}

	var signup *models.User
	if input.Actor == nil {
		if signup, err = h.prepareSignup(fields); err != nil {
			return nil, err
		}
	}

	lender, err := store.GetActiveLender(ctx, h.db, fields.SelectedLenderID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NewNotFoundError(MsgLenderNotFound)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}

	app, err := fields.Application(0)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	prior, err := fields.Prior()
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if input.Actor != nil {
		app.ApplicantID = input.Actor.ID
	}

	err = database.WithTx(ctx, h.db, func(tx *sql.Tx) error {
		if signup != nil {
			if err := store.CreateUser(ctx, tx, signup); err != nil {
				if errors.Is(err, store.ErrDuplicateEmail) {
					return ErrDuplicateEmail
				}
				return err
			}
			app.ApplicantID = signup.ID
		}
		if err := store.CreateApplication(ctx, tx, app); err != nil {
			return err
		}
		if err := store.CreateKycDocs(ctx, tx, app.ID, fields.Kyc()); err != nil {
			return err
		}
		if prior != nil {
			if err := store.SavePriorLoan(ctx, tx, app.ID, prior); err != nil {
				return err
			}
		}
		_, err := store.CreateChannel(ctx, tx, app.ID, lender.ID)
		return err
	})
	if errors.Is(err, ErrDuplicateEmail) {
		return nil, apperrors.NewFieldError("emailAddress", MsgEmailAlreadyUsed)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(Operation, err)
	}

	metrics.ApplicationsSubmitted.Inc()
	h.logger.Info("application submitted", map[string]interface{}{
		"applicationId": app.ID,
		"applicantId":   app.ApplicantID,
		"lenderId":      lender.ID,
		"newApplicant":  signup != nil,
	})

	if err := h.index.IndexApplication(ctx, app); err != nil {
		h.logger.Warn("failed to index application", map[string]interface{}{
			"applicationId": app.ID,
			"error":         err,
		})
	}

	out := &Output{
		ApplicationID: app.ID,
		ApplicantID:   app.ApplicantID,
		RedirectTo:    fmt.Sprintf("/applications/%d", app.ID),
	}
	if signup != nil && h.sessions != nil {
		session, err := h.sessions.Create(ctx, signup.ID, false)
		if err != nil {
			h.logger.Warn("failed to start session for new applicant", map[string]interface{}{
				"userId": signup.ID,
				"error":  err,
			})
			out.RedirectTo = "/login"
			return out, nil
		}
		out.Session = session
	}
	return out, nil
}

// prepareSignup validates the nested sign-up block and hashes its password.
func (h *Handler) prepareSignup(fields *appform.Fields) (*models.User, error) {
	s := fields.Signup
	if s == nil || s.EmailAddress == "" || s.Password == "" {
		return nil, apperrors.NewFieldError("emailAddress", MsgSignupRequired)
	}
	if err := s.CheckPasswords(); err != nil {
		return nil, err
	}

	hashed, err := h.hasher.Hash(s.Password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	fullName := s.FullName
	if fullName == "" {
		fullName = fields.FullName
	}
	return &models.User{
		EmailAddress:   s.EmailAddress,
		FullName:       fullName,
		HashedPassword: hashed,
		Kind:           models.KindApplicant,
	}, nil
}
