package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-broker/internal/models"
	"loan-broker/internal/store/storetest"
)

// ==========================
// Write Path
// ==========================

func TestCreateApplication_StartsPending(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO applications \(applicant_id, state, more_detail`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(21, storetest.FixedTime, storetest.FixedTime))

	app := storetest.Application(0, 3)
	app.State = ""
	require.NoError(t, CreateApplication(context.Background(), db, app))

	assert.Equal(t, int64(21), app.ID)
	assert.Equal(t, models.StatePending, app.State)
}

func TestUpdateApplication_NotFound(t *testing.T) {
	db, mock := newMock(t)

	app := storetest.Application(21, 3)
	mock.ExpectExec(`UPDATE applications SET more_detail = \$1, bank = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, UpdateApplication(context.Background(), db, app), ErrNotFound)
}

func TestReplaceKycDocs(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec(`DELETE FROM kyc_docs WHERE application_id = \$1`).
		WithArgs(int64(21)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`INSERT INTO kyc_docs`).
		WithArgs(int64(21), models.KycNationalID, "pub-1").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO kyc_docs`).
		WithArgs(int64(21), models.KycPaySlip, "pub-2").
		WillReturnResult(sqlmock.NewResult(2, 1))

	err := ReplaceKycDocs(context.Background(), db, 21, []models.KycDoc{
		{Label: models.KycNationalID, PublicID: "pub-1"},
		{Label: models.KycPaySlip, PublicID: "pub-2"},
	})
	require.NoError(t, err)
}

func TestSavePriorLoan(t *testing.T) {
	t.Run("nil deletes", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(`DELETE FROM prior_loans WHERE application_id = \$1`).
			WithArgs(int64(21)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, SavePriorLoan(context.Background(), db, 21, nil))
	})

	t.Run("upserts", func(t *testing.T) {
		db, mock := newMock(t)
		expiry := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
		mock.ExpectExec(`ON CONFLICT \(application_id\) DO UPDATE`).
			WithArgs(int64(21), "Old Bank", expiry, decimal.NewFromInt(1000), storetest.Money("100.50"), decimal.NewFromInt(400)).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := SavePriorLoan(context.Background(), db, 21, &models.PriorLoan{
			Lender: "Old Bank", ExpiryDate: expiry, Amount: decimal.NewFromInt(1000),
			MonthlyRepayment: storetest.Money("100.50"), Balance: decimal.NewFromInt(400),
		})
		require.NoError(t, err)
	})
}

func TestSoftDeleteApplication(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec(`UPDATE applications SET deactivated = TRUE`).
		WithArgs(int64(21)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, SoftDeleteApplication(context.Background(), db, 21))
}

// ==========================
// Read Path
// ==========================

func TestGetApplicationDetail(t *testing.T) {
	db, mock := newMock(t)

	app := storetest.Application(21, 3)

	mock.ExpectQuery(`FROM applications WHERE id = \$1`).
		WithArgs(int64(21)).
		WillReturnRows(storetest.ApplicationRows(app))
	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(storetest.UserColumns).
			AddRow(3, "you@example.com", "You Applicant", "hash", "Applicant", storetest.FixedTime, storetest.FixedTime))
	mock.ExpectQuery(`FROM channels c`).
		WithArgs(int64(21)).
		WillReturnRows(sqlmock.NewRows(storetest.ChannelColumns).AddRow(1, 21, 5, "Acme", storetest.FixedTime))
	mock.ExpectQuery(`FROM decisions`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(storetest.DecisionColumns).AddRow(9, 1, "Approved", "", storetest.FixedTime))
	mock.ExpectQuery(`FROM kyc_docs WHERE application_id = \$1`).
		WithArgs(int64(21)).
		WillReturnRows(sqlmock.NewRows(storetest.KycDocColumns).
			AddRow(1, 21, models.KycNationalID, "pub-1", storetest.FixedTime))
	mock.ExpectQuery(`FROM prior_loans WHERE application_id = \$1`).
		WithArgs(int64(21)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	detail, err := GetApplicationDetail(context.Background(), db, 21)
	require.NoError(t, err)

	assert.Equal(t, "School fees", detail.LoanPurpose)
	assert.Equal(t, "Kin Two", detail.SecondNok.FullName)
	assert.Equal(t, "you@example.com", detail.Applicant.EmailAddress)
	assert.Equal(t, []int64{5}, detail.LenderIDs())
	require.Len(t, detail.AllDecisions(), 1)
	require.Len(t, detail.KycDocs, 1)
	assert.Nil(t, detail.PriorLoan)
}

func TestGetApplication_NotFound(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(`FROM applications WHERE id = \$1`).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows(storetest.ApplicationColumns))

	_, err := GetApplication(context.Background(), db, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListApplications_Scopes(t *testing.T) {
	tests := []struct {
		name    string
		filter  ApplicationFilter
		pattern string
		args    []driver.Value
	}{
		{
			name:    "applicant sees own active applications",
			filter:  ApplicationFilter{ApplicantID: 3},
			pattern: `WHERE a.applicant_id = \$1 AND a.deactivated = FALSE`,
			args:    []driver.Value{int64(3)},
		},
		{
			name:    "lender sees routed applications",
			filter:  ApplicationFilter{LenderID: 5},
			pattern: `WHERE EXISTS \(SELECT 1 FROM channels c WHERE c.application_id = a.id AND c.lender_id = \$1\)`,
			args:    []driver.Value{int64(5)},
		},
		{
			name:    "admin sees everything",
			pattern: `JOIN users u ON u.id = a.applicant_id\s+ORDER BY a.created_at DESC`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			expect := mock.ExpectQuery(tt.pattern)
			if len(tt.args) > 0 {
				expect.WithArgs(tt.args...)
			}
			expect.WillReturnRows(sqlmock.NewRows(storetest.SummaryColumns))

			apps, err := ListApplications(context.Background(), db, tt.filter)
			require.NoError(t, err)
			assert.Empty(t, apps)
		})
	}
}

func TestListApplications_GroupsDecisions(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(`FROM applications a`).
		WillReturnRows(sqlmock.NewRows(storetest.SummaryColumns).
			AddRow(22, 3, "You", "Car", "8000.00", false, storetest.FixedTime, "{Acme,Beta}").
			AddRow(21, 3, "You", "School fees", "5000.00", true, storetest.FixedTime, "{}"))
	mock.ExpectQuery(`WHERE c.application_id = ANY\(\$1\)`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "channel_id", "decision", "comment", "created_at", "application_id"}).
			AddRow(1, 7, "Declined", "", storetest.FixedTime, 22).
			AddRow(2, 8, "Approved", "", storetest.FixedTime, 22))

	apps, err := ListApplications(context.Background(), db, ApplicationFilter{})
	require.NoError(t, err)
	require.Len(t, apps, 2)

	assert.Equal(t, []string{"Acme", "Beta"}, apps[0].Lenders)
	assert.Equal(t, "8000.00", apps[0].AmtRequired.StringFixed(2))
	assert.Len(t, apps[0].Decisions, 2)
	assert.Empty(t, apps[1].Decisions)
	assert.True(t, apps[1].Deactivated)
}

func TestListApplications_QueryError(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(`FROM applications a`).WillReturnError(errors.New("connection reset"))

	_, err := ListApplications(context.Background(), db, ApplicationFilter{})
	assert.ErrorContains(t, err, "list applications")
}

func TestApplication_RoundTrip(t *testing.T) {
	db, mock := newMock(t)

	app := storetest.Application(0, 3)
	app.MoreDetail = "Second job starts in May"
	app.FullMaidenNames = "Maiden"
	app.GrossIncome = storetest.Money("1200.75")

	mock.ExpectQuery(`INSERT INTO applications`).
		WithArgs(
			int64(3), models.StatePending, "Second job starts in May", "First Bank", "Main", "0012345", "You Applicant",
			"School fees", decimal.NewFromInt(5000), 3, "Mx", "You Applicant", app.DOB, "63-123456-A-00", "+263771000000",
			"1 Main Road", "Rented", "Maiden", "", "Single", "Teacher",
			"Ministry of Education", app.EmployedSince, storetest.Money("1200.75"), decimal.NewFromInt(950),
			"Kin One", "Sibling", "Self", "2 Road", "+2637711",
			"Kin Two", "Parent", "Retired", "3 Road", "+2637722",
		).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(21, storetest.FixedTime, storetest.FixedTime))

	require.NoError(t, CreateApplication(context.Background(), db, app))

	mock.ExpectQuery(`FROM applications WHERE id = \$1`).
		WithArgs(int64(21)).
		WillReturnRows(storetest.ApplicationRows(app))

	got, err := GetApplication(context.Background(), db, 21)
	require.NoError(t, err)
	assert.Equal(t, app, got)
	assert.True(t, got.GrossIncome.Equal(storetest.Money("1200.75")))
	assert.True(t, got.DOB.Equal(time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)))
}
