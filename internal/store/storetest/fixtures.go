// Package storetest provides sqlmock row builders matching the store's SELECT lists.
package storetest

import (
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"loan-broker/internal/models"
)

var FixedTime = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

// Money parses a literal amount. Row values carry amounts as strings, the way lib/pq
// returns NUMERIC columns.
func Money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// NewMock opens a sqlmock database that fails the test on unmet expectations.
func NewMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

// UniqueViolation is the error Postgres returns for a duplicate key.
func UniqueViolation() error {
	return &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"}
}

// InsertReturning is the RETURNING id, created_at, updated_at row of an insert.
func InsertReturning(id int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(id, FixedTime, FixedTime)
}

var (
	UserColumns     = []string{"id", "email_address", "full_name", "hashed_password", "kind", "created_at", "updated_at"}
	ChannelColumns  = []string{"id", "application_id", "lender_id", "full_name", "created_at"}
	DecisionColumns = []string{"id", "channel_id", "decision", "comment", "created_at"}
	KycDocColumns   = []string{"id", "application_id", "label", "public_id", "created_at"}
	LenderColumns   = []string{
		"id", "user_id", "full_name", "email_address", "logo", "logo_public_id", "logo_width",
		"logo_height", "min_tenure", "max_tenure", "min_amount", "max_amount", "monthly_interest",
		"admin_fee", "application_fee", "paid", "deactivated", "created_at", "updated_at",
	}
	CurrentUserColumns = []string{"id", "full_name", "email_address", "kind", "lender_id"}
	ApplicationColumns = []string{
		"id", "applicant_id", "state", "more_detail", "bank", "bank_branch", "acc_number", "acc_name",
		"loan_purpose", "amt_required", "repayment_period", "title", "full_name", "dob", "national_id", "phone_number",
		"res_address", "nature_of_res", "full_maiden_names", "full_name_of_spouse", "marital_status", "profession",
		"employer", "employed_since", "gross_income", "net_income",
		"first_nok_full_name", "first_nok_relationship", "first_nok_employer", "first_nok_res_address", "first_nok_phone_number",
		"second_nok_full_name", "second_nok_relationship", "second_nok_employer", "second_nok_res_address", "second_nok_phone_number",
		"deactivated", "created_at", "updated_at",
	}
	SummaryColumns = []string{
		"id", "applicant_id", "full_name", "loan_purpose", "amt_required", "deactivated", "created_at", "lenders",
	}
)

func UserRows(users ...models.User) *sqlmock.Rows {
	rows := sqlmock.NewRows(UserColumns)
	for _, u := range users {
		rows.AddRow(u.ID, u.EmailAddress, u.FullName, u.HashedPassword, string(u.Kind), FixedTime, FixedTime)
	}
	return rows
}

func LenderRows(lenders ...models.Lender) *sqlmock.Rows {
	rows := sqlmock.NewRows(LenderColumns)
	for _, l := range lenders {
		rows.AddRow(LenderValues(l)...)
	}
	return rows
}

func LenderValues(l models.Lender) []driver.Value {
	return []driver.Value{
		l.ID, l.UserID, l.FullName, l.EmailAddress, l.Logo, l.LogoPublicID, l.LogoWidth,
		l.LogoHeight, l.MinTenure, l.MaxTenure, l.MinAmount.String(), l.MaxAmount.String(), l.MonthlyInterest.String(),
		l.AdminFee.String(), l.ApplicationFee.String(), l.Paid, l.Deactivated, FixedTime, FixedTime,
	}
}

// LenderSummaryRows builds the rows of store.ListLenders and store.SearchLenders.
func LenderSummaryRows(summaries ...models.LenderSummary) *sqlmock.Rows {
	rows := sqlmock.NewRows(append(append([]string{}, LenderColumns...), "num_channels", "employment_types"))
	for _, s := range summaries {
		types, _ := pq.StringArray(s.EmploymentTypes).Value()
		if types == nil {
			types = "{}"
		}
		rows.AddRow(append(LenderValues(s.Lender), s.NumChannels, types)...)
	}
	return rows
}

// Lender returns an active lender with the seed terms.
func Lender(id int64, name string) models.Lender {
	return models.Lender{
		ID: id, UserID: id + 100, FullName: name, EmailAddress: "lender@example.com",
		LogoPublicID: "h2bkwgii1e28hltu7f99", MinTenure: 1, MaxTenure: 5, MinAmount: decimal.NewFromInt(2000),
		MaxAmount: decimal.NewFromInt(10000), MonthlyInterest: Money("5.75"), AdminFee: Money("2.5"),
		ApplicationFee: Money("1.25"),
	}
}

// ExpectLender queues the store.GetLender query for l.
func ExpectLender(mock sqlmock.Sqlmock, l models.Lender) {
	mock.ExpectQuery(`WHERE l.id = \$1`).WithArgs(l.ID).WillReturnRows(LenderRows(l))
}

func CurrentUserRows(u models.CurrentUser) *sqlmock.Rows {
	return sqlmock.NewRows(CurrentUserColumns).
		AddRow(u.ID, u.FullName, u.EmailAddress, string(u.Kind), u.LenderID)
}

// Application returns a complete application owned by applicantID.
func Application(id, applicantID int64) *models.Application {
	return &models.Application{
		ID:              id,
		ApplicantID:     applicantID,
		State:           models.StatePending,
		Bank:            "First Bank",
		BankBranch:      "Main",
		AccNumber:       "0012345",
		AccName:         "You Applicant",
		LoanPurpose:     "School fees",
		AmtRequired:     decimal.NewFromInt(5000),
		RepaymentPeriod: 3,
		Title:           "Mx",
		FullName:        "You Applicant",
		DOB:             time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC),
		NationalID:      "63-123456-A-00",
		PhoneNumber:     "+263771000000",
		ResAddress:      "1 Main Road",
		NatureOfRes:     "Rented",
		MaritalStatus:   "Single",
		Profession:      "Teacher",
		Employer:        "Ministry of Education",
		EmployedSince:   time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
		GrossIncome:     decimal.NewFromInt(1200),
		NetIncome:       decimal.NewFromInt(950),
		FirstNok:        models.NextOfKin{FullName: "Kin One", Relationship: "Sibling", Employer: "Self", ResAddress: "2 Road", PhoneNumber: "+2637711"},
		SecondNok:       models.NextOfKin{FullName: "Kin Two", Relationship: "Parent", Employer: "Retired", ResAddress: "3 Road", PhoneNumber: "+2637722"},
		CreatedAt:       FixedTime,
		UpdatedAt:       FixedTime,
	}
}

func ApplicationRows(apps ...*models.Application) *sqlmock.Rows {
	rows := sqlmock.NewRows(ApplicationColumns)
	for _, a := range apps {
		rows.AddRow(
			a.ID, a.ApplicantID, string(a.State), a.MoreDetail, a.Bank, a.BankBranch, a.AccNumber, a.AccName,
			a.LoanPurpose, a.AmtRequired.String(), a.RepaymentPeriod, a.Title, a.FullName, a.DOB, a.NationalID, a.PhoneNumber,
			a.ResAddress, a.NatureOfRes, a.FullMaidenNames, a.FullNameOfSpouse, a.MaritalStatus, a.Profession,
			a.Employer, a.EmployedSince, a.GrossIncome.String(), a.NetIncome.String(),
			a.FirstNok.FullName, a.FirstNok.Relationship, a.FirstNok.Employer, a.FirstNok.ResAddress, a.FirstNok.PhoneNumber,
			a.SecondNok.FullName, a.SecondNok.Relationship, a.SecondNok.Employer, a.SecondNok.ResAddress, a.SecondNok.PhoneNumber,
			a.Deactivated, a.CreatedAt, a.UpdatedAt,
		)
	}
	return rows
}

// ExpectApplicationDetail queues the queries store.GetApplicationDetail runs for app with
// the given channels and decisions and no KYC documents or prior loan.
func ExpectApplicationDetail(mock sqlmock.Sqlmock, app *models.Application, channels []models.Channel) {
	mock.ExpectQuery(`FROM applications WHERE id = \$1`).
		WithArgs(app.ID).
		WillReturnRows(ApplicationRows(app))
	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(app.ApplicantID).
		WillReturnRows(UserRows(models.User{
			ID: app.ApplicantID, EmailAddress: "you@example.com", FullName: app.FullName, Kind: models.KindApplicant,
		}))

	channelRows := sqlmock.NewRows(ChannelColumns)
	decisionRows := sqlmock.NewRows(DecisionColumns)
	for _, c := range channels {
		channelRows.AddRow(c.ID, app.ID, c.LenderID, c.LenderName, FixedTime)
		for _, d := range c.Decisions {
			decisionRows.AddRow(d.ID, c.ID, string(d.Decision), d.Comment, d.CreatedAt)
		}
	}
	mock.ExpectQuery(`FROM channels c`).WithArgs(app.ID).WillReturnRows(channelRows)
	if len(channels) > 0 {
		mock.ExpectQuery(`FROM decisions`).WithArgs(sqlmock.AnyArg()).WillReturnRows(decisionRows)
	}

	mock.ExpectQuery(`FROM kyc_docs WHERE application_id = \$1`).
		WithArgs(app.ID).
		WillReturnRows(sqlmock.NewRows(KycDocColumns))
	mock.ExpectQuery(`FROM prior_loans WHERE application_id = \$1`).
		WithArgs(app.ID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
}
