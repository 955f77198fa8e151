package createlender

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-broker/internal/common/auth"
	apperrors "loan-broker/internal/common/errors"
	"loan-broker/internal/common/logger"
	"loan-broker/internal/models"
	"loan-broker/internal/operations/lender/lenderform/lenderformtest"
	"loan-broker/internal/store/storetest"
)

func newHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	db, sqlMock := storetest.NewMock(t)
	return NewHandler(&Config{Timeout: 5 * time.Second}, db, auth.BcryptHasher{Cost: 4}, logger.NewTestLogger(t)), sqlMock
}

func admin() *models.CurrentUser {
	return &models.CurrentUser{ID: 1, Kind: models.KindAdmin}
}

func TestHandler_Execute_CreatesUserAndLender(t *testing.T) {
	h, m := newHandler(t)

	m.ExpectBegin()
	m.ExpectQuery(`INSERT INTO users`).
		WithArgs("lender@example.com", "First Lender", sqlmock.AnyArg(), "Lender").
		WillReturnRows(storetest.InsertReturning(103))
	m.ExpectQuery(`INSERT INTO lenders`).
		WithArgs(int64(103), "", "h2bkwgii1e28hltu7f99", 0, 0, 1, 5, storetest.Money("2000"), storetest.Money("10000"),
			storetest.Money("5.75"), storetest.Money("2.5"), storetest.Money("1.25")).
		WillReturnRows(storetest.InsertReturning(3))
	m.ExpectCommit()

	out, err := h.Execute(context.Background(), &Input{Actor: admin(), Form: lenderformtest.WithPassword()})

	require.NoError(t, err)
	assert.Equal(t, int64(3), out.LenderID)
	assert.Equal(t, int64(103), out.UserID)
	assert.Equal(t, "/lenders/3", out.RedirectTo)
}

func TestHandler_Execute_DuplicateEmailRollsBack(t *testing.T) {
	h, m := newHandler(t)

	m.ExpectBegin()
	m.ExpectQuery(`INSERT INTO users`).WillReturnError(storetest.UniqueViolation())
	m.ExpectRollback()

	_, err := h.Execute(context.Background(), &Input{Actor: admin(), Form: lenderformtest.WithPassword()})

	require.Error(t, err)
	stdErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, MsgEmailAlreadyUsed, stdErr.FieldErrors["emailAddress"])
}

func TestHandler_Execute_LenderInsertFailureRollsBack(t *testing.T) {
	h, m := newHandler(t)

	m.ExpectBegin()
	m.ExpectQuery(`INSERT INTO users`).WillReturnRows(storetest.InsertReturning(103))
	m.ExpectQuery(`INSERT INTO lenders`).WillReturnError(errors.New("check constraint violated"))
	m.ExpectRollback()

	_, err := h.Execute(context.Background(), &Input{Actor: admin(), Form: lenderformtest.WithPassword()})

	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeDatabase))
}

func TestHandler_Execute_AdminOnly(t *testing.T) {
	tests := []struct {
		name  string
		actor *models.CurrentUser
		code  apperrors.ErrorCode
	}{
		{name: "no session", code: apperrors.ErrCodeUnauthorised},
		{name: "lender", actor: &models.CurrentUser{ID: 101, Kind: models.KindLender, LenderID: 1}, code: apperrors.ErrCodeForbidden},
		{name: "applicant", actor: &models.CurrentUser{ID: 7, Kind: models.KindApplicant}, code: apperrors.ErrCodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newHandler(t)

			_, err := h.Execute(context.Background(), &Input{Actor: tt.actor, Form: lenderformtest.WithPassword()})

			assert.True(t, apperrors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestHandler_Execute_PasswordRequired(t *testing.T) {
	h, _ := newHandler(t)

	_, err := h.Execute(context.Background(), &Input{Actor: admin(), Form: lenderformtest.Values()})

	require.Error(t, err)
	stdErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "Required", stdErr.FieldErrors["password"])
}
