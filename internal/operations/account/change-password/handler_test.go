package changepassword

import (
	"context"
	"database/sql/driver"
	"net/url"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

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

const current = "jarnbjorn@8901"

func newHandler(t *testing.T) (*Handler, sqlmock.Sqlmock, models.User) {
	db, sqlMock := storetest.NewMock(t)
	hasher := auth.BcryptHasher{Cost: 4}
	hashed, err := hasher.Hash(current)
	require.NoError(t, err)

	user := models.User{ID: 7, EmailAddress: "you@example.com", FullName: "You Applicant", HashedPassword: hashed, Kind: models.KindApplicant}
	return NewHandler(&Config{Timeout: 5 * time.Second}, db, hasher, logger.NewTestLogger(t)), sqlMock, user
}

// bcryptOf matches a bcrypt hash of the given plain text.
type bcryptOf string

func (b bcryptOf) Match(v driver.Value) bool {
	hash, ok := v.(string)
	return ok && bcrypt.CompareHashAndPassword([]byte(hash), []byte(b)) == nil
}

func actor() *models.CurrentUser {
	return &models.CurrentUser{ID: 7, Kind: models.KindApplicant}
}

func passwordForm(old, next, confirm string) url.Values {
	return url.Values{"oldPassword": {old}, "newPassword": {next}, "passwordConfirmation": {confirm}}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_ChangesPassword(t *testing.T) {
	h, m, user := newHandler(t)

	m.ExpectQuery(`FROM users WHERE id = \$1`).WithArgs(int64(7)).WillReturnRows(storetest.UserRows(user))
	m.ExpectExec(`UPDATE users SET hashed_password`).
		WithArgs(bcryptOf("new-secret"), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	out, err := h.Execute(context.Background(), &Input{
		Actor: actor(),
		Form:  passwordForm(current, "new-secret", "new-secret"),
	})

	require.NoError(t, err)
	assert.Equal(t, "/", out.RedirectTo)
}

// ==========================
// Rejection Tests
// ==========================

func TestHandler_Execute_WrongCurrentPassword(t *testing.T) {
	h, m, user := newHandler(t)

	// No UPDATE is queued.
	m.ExpectQuery(`FROM users WHERE id = \$1`).WithArgs(int64(7)).WillReturnRows(storetest.UserRows(user))

	_, err := h.Execute(context.Background(), &Input{
		Actor: actor(),
		Form:  passwordForm("not-it", "new-secret", "new-secret"),
	})

	require.Error(t, err)
	stdErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, MsgInvalidCurrentPassword, stdErr.Message)
}

func TestHandler_Execute_InvalidForm(t *testing.T) {
	tests := []struct {
		name    string
		form    url.Values
		field   string
		message string
	}{
		{
			name:    "confirmation differs",
			form:    passwordForm(current, "new-secret", "new-secreT"),
			field:   "passwordConfirmation",
			message: validation.MsgPasswordsDontMatch,
		},
		{
			name:    "new password too short",
			form:    passwordForm(current, "abc", "abc"),
			field:   "newPassword",
			message: "Must contain at least 4 character(s)",
		},
		{
			name:    "old password missing",
			form:    passwordForm("", "new-secret", "new-secret"),
			field:   "oldPassword",
			message: "Required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, _ := newHandler(t)

			_, err := h.Execute(context.Background(), &Input{Actor: actor(), Form: tt.form})

			require.Error(t, err)
			stdErr, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.message, stdErr.FieldErrors[tt.field])
		})
	}
}

func TestHandler_Execute_NoSession(t *testing.T) {
	h, _, _ := newHandler(t)

	_, err := h.Execute(context.Background(), &Input{Form: passwordForm(current, "new-secret", "new-secret")})

	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUnauthorised))
}
