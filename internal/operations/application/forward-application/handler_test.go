package forwardapplication

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "loan-broker/internal/common/errors"
	"loan-broker/internal/common/logger"
	"loan-broker/internal/models"
	"loan-broker/internal/store/storetest"
)

// ==========================
// Test Helper Functions
// ==========================

func newHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	db, sqlMock := storetest.NewMock(t)
	return NewHandler(&Config{Timeout: 5 * time.Second}, db, logger.NewTestLogger(t)), sqlMock
}

func admin() *models.CurrentUser {
	return &models.CurrentUser{ID: 1, Kind: models.KindAdmin}
}

func lenderIDs(raw string) url.Values {
	return url.Values{"lenderIds": {raw}}
}

func expectExisting(m sqlmock.Sqlmock) {
	m.ExpectQuery(`FROM applications WHERE id = \$1`).
		WithArgs(int64(42)).
		WillReturnRows(storetest.ApplicationRows(storetest.Application(42, 7)))
}

func expectActive(m sqlmock.Sqlmock, ids ...int64) {
	rows := sqlmock.NewRows([]string{"id"})
	for _, id := range ids {
		rows.AddRow(id)
	}
	m.ExpectQuery(`FROM lenders WHERE id = ANY`).WithArgs(sqlmock.AnyArg()).WillReturnRows(rows)
}

func expectChannels(m sqlmock.Sqlmock, ids ...int64) {
	rows := sqlmock.NewRows([]string{"lender_id"})
	for _, id := range ids {
		rows.AddRow(id)
	}
	m.ExpectQuery(`SELECT lender_id FROM channels`).WithArgs(int64(42)).WillReturnRows(rows)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_AppliesDifference(t *testing.T) {
	h, m := newHandler(t)

	expectExisting(m)
	expectActive(m, 2, 3)
	m.ExpectBegin()
	expectChannels(m, 1, 2)
	m.ExpectExec(`DELETE FROM channels`).WithArgs(int64(42), int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	m.ExpectExec(`INSERT INTO channels`).WithArgs(int64(42), int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))
	m.ExpectCommit()

	out, err := h.Execute(context.Background(), &Input{Actor: admin(), ApplicationID: 42, Form: lenderIDs("[2,3,3]")})

	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, out.LenderIDs)
	assert.Equal(t, []int64{3}, out.Added)
	assert.Equal(t, []int64{1}, out.Removed)
	assert.Equal(t, "/applications/42", out.RedirectTo)
}

func TestHandler_Execute_SameSetWritesNothing(t *testing.T) {
	h, m := newHandler(t)

	expectExisting(m)
	expectActive(m, 1, 2)
	m.ExpectBegin()
	expectChannels(m, 1, 2)
	m.ExpectCommit()

	out, err := h.Execute(context.Background(), &Input{Actor: admin(), ApplicationID: 42, Form: lenderIDs("[2,1]")})

	require.NoError(t, err)
	assert.Empty(t, out.Added)
	assert.Empty(t, out.Removed)
}

func TestHandler_Execute_FailureRollsBack(t *testing.T) {
	h, m := newHandler(t)

	expectExisting(m)
	expectActive(m, 3)
	m.ExpectBegin()
	expectChannels(m, 1)
	m.ExpectExec(`DELETE FROM channels`).WillReturnResult(sqlmock.NewResult(0, 1))
	m.ExpectExec(`INSERT INTO channels`).WillReturnError(errors.New("connection reset"))
	m.ExpectRollback()

	_, err := h.Execute(context.Background(), &Input{Actor: admin(), ApplicationID: 42, Form: lenderIDs("[3]")})

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeDatabase))
}

// ==========================
// Rejection Tests
// ==========================

func TestHandler_Execute_UnknownLenderBeforeTransaction(t *testing.T) {
	h, m := newHandler(t)

	// No Begin is queued.
	expectExisting(m)
	expectActive(m, 2)

	_, err := h.Execute(context.Background(), &Input{Actor: admin(), ApplicationID: 42, Form: lenderIDs("[2,9]")})

	require.Error(t, err)
	stdErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeValidationFailed, stdErr.Code)
	assert.Equal(t, "Lender 9 not found", stdErr.FieldErrors["lenderIds"])
}

func TestHandler_Execute_InvalidForm(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty list", raw: "[]"},
		{name: "not json", raw: "1,2"},
		{name: "negative id", raw: "[-1]"},
		{name: "strings", raw: `["a"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newHandler(t)
			expectExisting(m)

			_, err := h.Execute(context.Background(), &Input{Actor: admin(), ApplicationID: 42, Form: lenderIDs(tt.raw)})

			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidationFailed), "got %v", err)
		})
	}
}

func TestHandler_Execute_OnlyAdminsForward(t *testing.T) {
	tests := []struct {
		name  string
		actor *models.CurrentUser
	}{
		{name: "lender", actor: &models.CurrentUser{ID: 101, Kind: models.KindLender, LenderID: 1}},
		{name: "owning applicant", actor: &models.CurrentUser{ID: 7, Kind: models.KindApplicant}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newHandler(t)
			expectExisting(m)

			_, err := h.Execute(context.Background(), &Input{Actor: tt.actor, ApplicationID: 42, Form: lenderIDs("[1]")})

			require.Error(t, err)
			stdErr, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.ErrCodeForbidden, stdErr.Code)
			assert.Equal(t, apperrors.MsgUnauthorised, stdErr.Message)
		})
	}
}

func TestHandler_Execute_NoSession(t *testing.T) {
	h, _ := newHandler(t)

	_, err := h.Execute(context.Background(), &Input{ApplicationID: 42, Form: lenderIDs("[1]")})

	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUnauthorised))
}
