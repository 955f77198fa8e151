package login

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"loan-broker/internal/common/auth"
	apperrors "loan-broker/internal/common/errors"
	"loan-broker/internal/common/logger"
	"loan-broker/internal/models"
	"loan-broker/internal/store/storetest"
)

// ==========================
// Test Helper Functions
// ==========================

const password = "jarnbjorn@8901"

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
	handler  *Handler
	mock     sqlmock.Sqlmock
	redis    *miniredis.Miniredis
	sessions *mockSessions
	user     models.User
}

func newFixture(t *testing.T) *fixture {
	db, sqlMock := storetest.NewMock(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := logger.NewTestLogger(t)
	hasher := auth.BcryptHasher{Cost: 4}
	hashed, err := hasher.Hash(password)
	require.NoError(t, err)

	f := &fixture{
		mock:     sqlMock,
		redis:    mr,
		sessions: &mockSessions{},
		user: models.User{
			ID: 7, EmailAddress: "you@example.com", FullName: "You Applicant",
			HashedPassword: hashed, Kind: models.KindApplicant,
		},
	}
	limiter := auth.NewLoginLimiter(client, 3, time.Minute, log)
	f.handler = NewHandler(&Config{Timeout: 5 * time.Second}, db, hasher, limiter, f.sessions, log)
	return f
}

func (f *fixture) expectUser() {
	f.mock.ExpectQuery(`FROM users WHERE email_address = \$1`).
		WithArgs("you@example.com").
		WillReturnRows(storetest.UserRows(f.user))
}

func loginForm(pw string) url.Values {
	return url.Values{"emailAddress": {"You@Example.com"}, "password": {pw}}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_SignsIn(t *testing.T) {
	f := newFixture(t)
	f.expectUser()
	f.sessions.On("Create", mock.Anything, int64(7), true).Return(&auth.Session{Token: "tok", MaxAge: 30 * 24 * time.Hour}, nil)

	form := loginForm(password)
	form.Set("remember", "on")
	form.Set("redirectTo", "/applications")

	out, err := f.handler.Execute(context.Background(), &Input{Form: form})

	require.NoError(t, err)
	assert.Equal(t, int64(7), out.UserID)
	assert.Equal(t, models.KindApplicant, out.Kind)
	assert.Equal(t, "/applications", out.RedirectTo)
	assert.Equal(t, "tok", out.Session.Token)
	assert.False(t, f.redis.Exists("ratelimit:login:you@example.com"))
}

func TestHandler_Execute_UnknownRedirectFallsBack(t *testing.T) {
	f := newFixture(t)
	f.expectUser()
	f.sessions.On("Create", mock.Anything, int64(7), false).Return(&auth.Session{Token: "tok"}, nil)

	form := loginForm(password)
	form.Set("redirectTo", "https://evil.example.com")

	out, err := f.handler.Execute(context.Background(), &Input{Form: form})

	require.NoError(t, err)
	assert.Equal(t, "/", out.RedirectTo)
}

// ==========================
// Rejection Tests
// ==========================

func TestHandler_Execute_IncorrectCredentials(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fixture)
		pw    string
	}{
		{
			name:  "wrong password",
			setup: func(f *fixture) { f.expectUser() },
			pw:    "wrong-password",
		},
		{
			name: "unknown email",
			setup: func(f *fixture) {
				f.mock.ExpectQuery(`FROM users WHERE email_address = \$1`).
					WillReturnRows(sqlmock.NewRows(storetest.UserColumns))
			},
			pw: password,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)

			_, err := f.handler.Execute(context.Background(), &Input{Form: loginForm(tt.pw)})

			require.Error(t, err)
			stdErr, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.ErrCodeValidationFailed, stdErr.Code)
			assert.Equal(t, MsgIncorrectCredentials, stdErr.Message)
			f.sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_Execute_ThrottlesAfterLimit(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		f.expectUser()
		_, err := f.handler.Execute(context.Background(), &Input{Form: loginForm("wrong-password")})
		require.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidationFailed))
	}

	// The fourth attempt never reaches the database.
	_, err := f.handler.Execute(context.Background(), &Input{Form: loginForm(password)})

	require.Error(t, err)
	stdErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeRateLimited, stdErr.Code)
	assert.Equal(t, MsgTooManyAttempts, stdErr.Message)
}

func TestHandler_Execute_WindowExpires(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.redis.Set("ratelimit:login:you@example.com", "3"))
	f.redis.SetTTL("ratelimit:login:you@example.com", time.Minute)

	_, err := f.handler.Execute(context.Background(), &Input{Form: loginForm(password)})
	require.True(t, apperrors.HasCode(err, apperrors.ErrCodeRateLimited))

	f.redis.FastForward(time.Minute + time.Second)
	f.expectUser()
	f.sessions.On("Create", mock.Anything, int64(7), false).Return(&auth.Session{Token: "tok"}, nil)

	_, err = f.handler.Execute(context.Background(), &Input{Form: loginForm(password)})
	require.NoError(t, err)
}

func TestHandler_Execute_SessionStoreDown(t *testing.T) {
	f := newFixture(t)
	f.expectUser()
	f.sessions.On("Create", mock.Anything, int64(7), false).Return(nil, errors.New("connection refused"))

	_, err := f.handler.Execute(context.Background(), &Input{Form: loginForm(password)})

	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeServiceUnavailable))
}

func TestHandler_Execute_MissingFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.handler.Execute(context.Background(), &Input{Form: url.Values{"emailAddress": {"you@example.com"}}})

	require.Error(t, err)
	stdErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "Required", stdErr.FieldErrors["password"])
}

func TestSafeRedirect(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"/", "/"},
		{"/employment-types", "/employment-types"},
		{"/applications", "/applications"},
		{"/lenders", "/lenders"},
		{"/apply", "/apply"},
		{"", "/"},
		{"/applications/42", "/"},
		{"//evil.example.com", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeRedirect(tt.target))
		})
	}
}
