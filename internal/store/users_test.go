package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-broker/internal/models"
	"loan-broker/internal/store/storetest"
)

// ==========================
// Create
// ==========================

func TestCreateUser_NormalizesEmailAndFillsID(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("ada@example.com", "Ada Lovelace", "hash", models.KindApplicant).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(7, storetest.FixedTime, storetest.FixedTime))

	u := &models.User{EmailAddress: "  Ada@Example.COM ", FullName: "Ada Lovelace", HashedPassword: "hash", Kind: models.KindApplicant}
	require.NoError(t, CreateUser(context.Background(), db, u))

	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, "ada@example.com", u.EmailAddress)
	assert.Equal(t, storetest.FixedTime, u.CreatedAt)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO users`).WillReturnError(uniqueViolationErr())

	err := CreateUser(context.Background(), db, &models.User{EmailAddress: "a@b.co", Kind: models.KindAdmin})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

// ==========================
// Read
// ==========================

func TestGetUserByEmail(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(`FROM users WHERE email_address = \$1`).
		WithArgs("you@example.com").
		WillReturnRows(sqlmock.NewRows(storetest.UserColumns).
			AddRow(3, "you@example.com", "You", "hash", "Applicant", storetest.FixedTime, storetest.FixedTime))

	u, err := GetUserByEmail(context.Background(), db, "YOU@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(3), u.ID)
	assert.Equal(t, models.KindApplicant, u.Kind)
	assert.Equal(t, "hash", u.HashedPassword)
}

func TestGetUserByID_NotFound(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(`FROM users WHERE id = \$1`).WithArgs(int64(99)).WillReturnError(sql.ErrNoRows)

	_, err := GetUserByID(context.Background(), db, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetCurrentUser_Lender(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(`LEFT JOIN lenders l ON l.user_id = u.id`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "email_address", "kind", "lender_id"}).
			AddRow(2, "Lender", "lender@example.com", "Lender", 5))

	u, err := GetCurrentUser(context.Background(), db, 2)
	require.NoError(t, err)
	assert.Equal(t, models.KindLender, u.Kind)
	assert.Equal(t, int64(5), u.LenderID)
}

func TestEmailTaken(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("taken@example.com", int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	taken, err := EmailTaken(context.Background(), db, "Taken@example.com", 4)
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestListUsersByKind(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(`FROM users WHERE kind = \$1`).
		WithArgs(models.KindAdmin).
		WillReturnRows(sqlmock.NewRows(storetest.UserColumns).
			AddRow(2, "b@example.com", "B", "h", "Admin", storetest.FixedTime, storetest.FixedTime).
			AddRow(1, "a@example.com", "A", "h", "Admin", storetest.FixedTime, storetest.FixedTime))

	users, err := ListUsersByKind(context.Background(), db, models.KindAdmin)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, int64(2), users[0].ID)
}

// ==========================
// Update / Delete
// ==========================

func TestUpdateUserProfile(t *testing.T) {
	tests := []struct {
		name    string
		result  func(e *sqlmock.ExpectedExec)
		wantErr error
	}{
		{
			name:   "updated",
			result: func(e *sqlmock.ExpectedExec) { e.WillReturnResult(sqlmock.NewResult(0, 1)) },
		},
		{
			name:    "missing user",
			result:  func(e *sqlmock.ExpectedExec) { e.WillReturnResult(sqlmock.NewResult(0, 0)) },
			wantErr: ErrNotFound,
		},
		{
			name:    "email clash",
			result:  func(e *sqlmock.ExpectedExec) { e.WillReturnError(uniqueViolationErr()) },
			wantErr: ErrDuplicateEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			tt.result(mock.ExpectExec(`UPDATE users SET full_name`).WithArgs("New Name", "new@example.com", int64(1)))

			err := UpdateUserProfile(context.Background(), db, 1, "New Name", "New@Example.com")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDeleteUser_ScopedToKind(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec(`DELETE FROM users WHERE id = \$1 AND kind = \$2`).
		WithArgs(int64(8), models.KindAdmin).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := DeleteUser(context.Background(), db, 8, models.KindAdmin)
	assert.ErrorIs(t, err, ErrNotFound)
}
