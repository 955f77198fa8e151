package submitapplication

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"loan-broker/internal/common/auth"
	apperrors "loan-broker/internal/common/errors"
	"loan-broker/internal/common/logger"
	"loan-broker/internal/models"
	"loan-broker/internal/operations/application/appform/appformtest"
	"loan-broker/internal/store/storetest"
)

// ==========================
// Test Helper Functions
// ==========================

type mockIndexer struct {
	mock.Mock
}

func (m *mockIndexer) IndexApplication(ctx context.Context, a *models.Application) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

type mockSessions struct {
	mock.Mock
}

func (m *mockSessions) Create(ctx context.Context, userID int64, remember bool) (*auth.Session, error) {
	args := m.Called(ctx, userID, remember)
	if s := args.Get(0); s != nil {
		return s.(*auth.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

type fixture struct {
	db       *sql.DB
	mock     sqlmock.Sqlmock
	index    *mockIndexer
	sessions *mockSessions
	handler  *Handler
}

func newFixture(t *testing.T) *fixture {
	db, sqlMock := storetest.NewMock(t)
	f := &fixture{db: db, mock: sqlMock, index: &mockIndexer{}, sessions: &mockSessions{}}
	f.handler = NewHandler(&Config{Timeout: 5 * time.Second}, db, auth.BcryptHasher{Cost: 4}, f.sessions, f.index, logger.NewTestLogger(t))
	return f
}

func applicant() *models.CurrentUser {
	return &models.CurrentUser{ID: 7, FullName: "You Applicant", EmailAddress: "you@example.com", Kind: models.KindApplicant}
}

func withSignup(v url.Values) url.Values {
	v.Set("signup", `{"emailAddress":"You@Example.com","password":"jarnbjorn@8901","passwordConfirmation":"jarnbjorn@8901"}`)
	return v
}

// expectApplicationInserts queues the application, KYC and channel inserts for application 42.
func expectApplicationInserts(m sqlmock.Sqlmock) {
	m.ExpectQuery(`INSERT INTO applications`).WillReturnRows(storetest.InsertReturning(42))
	for _, label := range models.RequiredKycLabels {
		m.ExpectExec(`INSERT INTO kyc_docs`).
			WithArgs(int64(42), label, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	m.ExpectQuery(`INSERT INTO channels`).
		WithArgs(int64(42), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(500)))
}

func requireStdErr(t *testing.T, err error, code apperrors.ErrorCode) *apperrors.StandardError {
	t.Helper()
	require.Error(t, err)
	stdErr, ok := apperrors.As(err)
	require.True(t, ok, "expected StandardError, got %v", err)
	assert.Equal(t, code, stdErr.Code)
	return stdErr
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_ExistingApplicant(t *testing.T) {
	f := newFixture(t)

	storetest.ExpectLender(f.mock, storetest.Lender(1, "First Lender"))
	f.mock.ExpectBegin()
	expectApplicationInserts(f.mock)
	f.mock.ExpectCommit()

	f.index.On("IndexApplication", mock.Anything, mock.MatchedBy(func(a *models.Application) bool {
		return a.ID == 42 && a.ApplicantID == 7 && a.State == models.StatePending
	})).Return(nil)

	out, err := f.handler.Execute(context.Background(), &Input{Actor: applicant(), Form: appformtest.Values()})

	require.NoError(t, err)
	assert.Equal(t, int64(42), out.ApplicationID)
	assert.Equal(t, int64(7), out.ApplicantID)
	assert.Equal(t, "/applications/42", out.RedirectTo)
	assert.Nil(t, out.Session)
	f.index.AssertExpectations(t)
	f.sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_Execute_SignupCreatesApplicantAndSession(t *testing.T) {
	f := newFixture(t)

	storetest.ExpectLender(f.mock, storetest.Lender(1, "First Lender"))
	f.mock.ExpectBegin()
	f.mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("you@example.com", "You Applicant", sqlmock.AnyArg(), "Applicant").
		WillReturnRows(storetest.InsertReturning(9))
	expectApplicationInserts(f.mock)
	f.mock.ExpectCommit()

	f.index.On("IndexApplication", mock.Anything, mock.Anything).Return(errors.New("es down"))
	f.sessions.On("Create", mock.Anything, int64(9), false).Return(&auth.Session{Token: "signed"}, nil)

	out, err := f.handler.Execute(context.Background(), &Input{Form: withSignup(appformtest.Values())})

	require.NoError(t, err, "indexing failures must not fail the submission")
	assert.Equal(t, int64(9), out.ApplicantID)
	require.NotNil(t, out.Session)
	assert.Equal(t, "signed", out.Session.Token)
	f.sessions.AssertExpectations(t)
}

func TestHandler_Execute_WithPriorLoan(t *testing.T) {
	f := newFixture(t)
	values := appformtest.Values()
	values.Set("priorLoan", `{"lender":"Old Bank","expiryDate":"2026-01-31","amount":"1000","monthlyRepayment":"100","balance":"400"}`)

	storetest.ExpectLender(f.mock, storetest.Lender(1, "First Lender"))
	f.mock.ExpectBegin()
	f.mock.ExpectQuery(`INSERT INTO applications`).WillReturnRows(storetest.InsertReturning(42))
	for range models.RequiredKycLabels {
		f.mock.ExpectExec(`INSERT INTO kyc_docs`).WillReturnResult(sqlmock.NewResult(0, 1))
	}
	f.mock.ExpectExec(`INSERT INTO prior_loans`).
		WithArgs(int64(42), "Old Bank", time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), 1000.0, 100.0, 400.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectQuery(`INSERT INTO channels`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(500)))
	f.mock.ExpectCommit()
	f.index.On("IndexApplication", mock.Anything, mock.Anything).Return(nil)

	_, err := f.handler.Execute(context.Background(), &Input{Actor: applicant(), Form: values})
	require.NoError(t, err)
}

// ==========================
// Rejection Tests
// ==========================

func TestHandler_Execute_StaffCannotApply(t *testing.T) {
	tests := []struct {
		kind    models.UserKind
		message string
	}{
		{kind: models.KindAdmin, message: "Admin users can't apply for loans"},
		{kind: models.KindLender, message: "Lender users can't apply for loans"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			f := newFixture(t)
			actor := &models.CurrentUser{ID: 1, Kind: tt.kind, LenderID: 3}

			_, err := f.handler.Execute(context.Background(), &Input{Actor: actor, Form: appformtest.Values()})

			stdErr := requireStdErr(t, err, apperrors.ErrCodeUnauthorised)
			assert.Equal(t, tt.message, stdErr.Message)
		})
	}
}

func TestHandler_Execute_SignupRequiredWithoutSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.handler.Execute(context.Background(), &Input{Form: appformtest.Values()})

	stdErr := requireStdErr(t, err, apperrors.ErrCodeValidationFailed)
	assert.Equal(t, MsgSignupRequired, stdErr.FieldErrors["emailAddress"])
}

func TestHandler_Execute_SignupPasswordsDontMatch(t *testing.T) {
	f := newFixture(t)
	values := appformtest.Values()
	values.Set("signup", `{"emailAddress":"you@example.com","password":"secret","passwordConfirmation":"secrets"}`)

	_, err := f.handler.Execute(context.Background(), &Input{Form: values})

	stdErr := requireStdErr(t, err, apperrors.ErrCodeValidationFailed)
	assert.Equal(t, "Passwords don't match", stdErr.FieldErrors["passwordConfirmation"])
}

func TestHandler_Execute_MissingKycDocs(t *testing.T) {
	f := newFixture(t)
	values := appformtest.Values()
	values.Set("kycDocs", `[{"label":"National-ID/Passport","publicId":"a"}]`)

	_, err := f.handler.Execute(context.Background(), &Input{Actor: applicant(), Form: values})

	stdErr := requireStdErr(t, err, apperrors.ErrCodeValidationFailed)
	assert.Equal(t, "Missing: Proof Of Residence, Pay Slip", stdErr.FieldErrors["kycDocs"])
}

func TestHandler_Execute_LenderNotFound(t *testing.T) {
	tests := []struct {
		name  string
		setup func(m sqlmock.Sqlmock)
	}{
		{
			name: "unknown lender",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(`WHERE l.id = \$1`).WithArgs(int64(1)).WillReturnRows(storetest.LenderRows())
			},
		},
		{
			name: "deactivated lender",
			setup: func(m sqlmock.Sqlmock) {
				l := storetest.Lender(1, "First Lender")
				l.Deactivated = true
				storetest.ExpectLender(m, l)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f.mock)

			_, err := f.handler.Execute(context.Background(), &Input{Actor: applicant(), Form: appformtest.Values()})

			stdErr := requireStdErr(t, err, apperrors.ErrCodeRecordNotFound)
			assert.Equal(t, MsgLenderNotFound, stdErr.Message)
		})
	}
}

// ==========================
// Transaction Tests
// ==========================

func TestHandler_Execute_DuplicateEmailRollsBack(t *testing.T) {
	f := newFixture(t)

	storetest.ExpectLender(f.mock, storetest.Lender(1, "First Lender"))
	f.mock.ExpectBegin()
	f.mock.ExpectQuery(`INSERT INTO users`).WillReturnError(storetest.UniqueViolation())
	f.mock.ExpectRollback()

	_, err := f.handler.Execute(context.Background(), &Input{Form: withSignup(appformtest.Values())})

	stdErr := requireStdErr(t, err, apperrors.ErrCodeValidationFailed)
	assert.Equal(t, MsgEmailAlreadyUsed, stdErr.FieldErrors["emailAddress"])
	f.index.AssertNotCalled(t, "IndexApplication", mock.Anything, mock.Anything)
	f.sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_Execute_KycInsertFailureRollsBack(t *testing.T) {
	f := newFixture(t)

	storetest.ExpectLender(f.mock, storetest.Lender(1, "First Lender"))
	f.mock.ExpectBegin()
	f.mock.ExpectQuery(`INSERT INTO applications`).WillReturnRows(storetest.InsertReturning(42))
	f.mock.ExpectExec(`INSERT INTO kyc_docs`).WillReturnError(errors.New("connection reset"))
	f.mock.ExpectRollback()

	_, err := f.handler.Execute(context.Background(), &Input{Actor: applicant(), Form: appformtest.Values()})

	stdErr := requireStdErr(t, err, apperrors.ErrCodeDatabase)
	assert.Contains(t, stdErr.Details, "connection reset")
	f.index.AssertNotCalled(t, "IndexApplication", mock.Anything, mock.Anything)
}

func TestHandler_Execute_SessionFailureRedirectsToLogin(t *testing.T) {
	f := newFixture(t)

	storetest.ExpectLender(f.mock, storetest.Lender(1, "First Lender"))
	f.mock.ExpectBegin()
	f.mock.ExpectQuery(`INSERT INTO users`).WillReturnRows(storetest.InsertReturning(9))
	expectApplicationInserts(f.mock)
	f.mock.ExpectCommit()
	f.index.On("IndexApplication", mock.Anything, mock.Anything).Return(nil)
	f.sessions.On("Create", mock.Anything, int64(9), false).Return(nil, auth.ErrSessionStore)

	out, err := f.handler.Execute(context.Background(), &Input{Form: withSignup(appformtest.Values())})

	require.NoError(t, err)
	assert.Equal(t, "/login", out.RedirectTo)
	assert.Nil(t, out.Session)
}
