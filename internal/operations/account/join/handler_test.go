package join

import (
	"context"
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
	"loan-broker/internal/common/validation"
	"loan-broker/internal/models"
	"loan-broker/internal/store/storetest"
)

// ==========================
// Test Helper Functions
// ==========================

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

func newHandler(t *testing.T) (*Handler, sqlmock.Sqlmock, *mockSessions) {
	db, sqlMock := storetest.NewMock(t)
	sessions := &mockSessions{}
	h := NewHandler(&Config{Timeout: 5 * time.Second}, db, auth.BcryptHasher{Cost: 4}, sessions, logger.NewTestLogger(t))
	return h, sqlMock, sessions
}

func joinForm() url.Values {
	return url.Values{
		"fullName":             {"You Applicant"},
		"emailAddress":         {" You@Example.com "},
		"password":             {" jarnbjorn@8901 "},
		"passwordConfirmation": {"jarnbjorn@8901"},
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_CreatesApplicantAndSession(t *testing.T) {
	h, m, sessions := newHandler(t)

	m.ExpectQuery(`INSERT INTO users`).
		WithArgs("you@example.com", "You Applicant", sqlmock.AnyArg(), "Applicant").
		WillReturnRows(storetest.InsertReturning(9))
	sessions.On("Create", mock.Anything, int64(9), false).Return(&auth.Session{Token: "tok", MaxAge: time.Hour}, nil)

	out, err := h.Execute(context.Background(), &Input{Form: joinForm()})

	require.NoError(t, err)
	assert.Equal(t, int64(9), out.UserID)
	assert.Equal(t, "/", out.RedirectTo)
	require.NotNil(t, out.Session)
	assert.Equal(t, "tok", out.Session.Token)
	sessions.AssertExpectations(t)
}

func TestHandler_Execute_SignedInUserIsRedirected(t *testing.T) {
	h, _, sessions := newHandler(t)

	out, err := h.Execute(context.Background(), &Input{
		Actor: &models.CurrentUser{ID: 7, Kind: models.KindApplicant},
		Form:  joinForm(),
	})

	require.NoError(t, err)
	assert.Equal(t, "/", out.RedirectTo)
	assert.Nil(t, out.Session)
	sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_Execute_SessionFailureSendsToLogin(t *testing.T) {
	h, m, sessions := newHandler(t)

	m.ExpectQuery(`INSERT INTO users`).WillReturnRows(storetest.InsertReturning(9))
	sessions.On("Create", mock.Anything, int64(9), false).Return(nil, errors.New("redis down"))

	out, err := h.Execute(context.Background(), &Input{Form: joinForm()})

	require.NoError(t, err)
	assert.Equal(t, "/login", out.RedirectTo)
}

// ==========================
// Rejection Tests
// ==========================

func TestHandler_Execute_DuplicateEmail(t *testing.T) {
	h, m, _ := newHandler(t)

	m.ExpectQuery(`INSERT INTO users`).WillReturnError(storetest.UniqueViolation())

	_, err := h.Execute(context.Background(), &Input{Form: joinForm()})

	require.Error(t, err)
	stdErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, MsgUserExists, stdErr.FieldErrors["emailAddress"])
}

func TestHandler_Execute_InvalidForm(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(v url.Values)
		field   string
		message string
	}{
		{
			name:    "passwords differ",
			mutate:  func(v url.Values) { v.Set("passwordConfirmation", "other") },
			field:   "passwordConfirmation",
			message: validation.MsgPasswordsDontMatch,
		},
		{
			name:    "short name",
			mutate:  func(v url.Values) { v.Set("fullName", "Yo") },
			field:   "fullName",
			message: "Must contain at least 3 character(s)",
		},
		{
			name:    "bad email",
			mutate:  func(v url.Values) { v.Set("emailAddress", "not-an-email") },
			field:   "emailAddress",
			message: "Invalid email address",
		},
		{
			name:    "missing password",
			mutate:  func(v url.Values) { v.Del("password") },
			field:   "password",
			message: "Required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, _ := newHandler(t)
			form := joinForm()
			tt.mutate(form)

			_, err := h.Execute(context.Background(), &Input{Form: form})

			require.Error(t, err)
			stdErr, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.message, stdErr.FieldErrors[tt.field])
		})
	}
}
