package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"loan-broker/internal/models"

	"github.com/lib/pq"
)

const applicationColumns = `id, applicant_id, state, more_detail, bank, bank_branch, acc_number, acc_name,
	loan_purpose, amt_required, repayment_period, title, full_name, dob, national_id, phone_number,
	res_address, nature_of_res, full_maiden_names, full_name_of_spouse, marital_status, profession,
	employer, employed_since, gross_income, net_income,
	first_nok_full_name, first_nok_relationship, first_nok_employer, first_nok_res_address, first_nok_phone_number,
	second_nok_full_name, second_nok_relationship, second_nok_employer, second_nok_res_address, second_nok_phone_number,
	deactivated, created_at, updated_at`

func applicationDest(a *models.Application) []interface{} {
	return []interface{}{
		&a.ID, &a.ApplicantID, &a.State, &a.MoreDetail, &a.Bank, &a.BankBranch, &a.AccNumber, &a.AccName,
		&a.LoanPurpose, &a.AmtRequired, &a.RepaymentPeriod, &a.Title, &a.FullName, &a.DOB, &a.NationalID, &a.PhoneNumber,
		&a.ResAddress, &a.NatureOfRes, &a.FullMaidenNames, &a.FullNameOfSpouse, &a.MaritalStatus, &a.Profession,
		&a.Employer, &a.EmployedSince, &a.GrossIncome, &a.NetIncome,
		&a.FirstNok.FullName, &a.FirstNok.Relationship, &a.FirstNok.Employer, &a.FirstNok.ResAddress, &a.FirstNok.PhoneNumber,
		&a.SecondNok.FullName, &a.SecondNok.Relationship, &a.SecondNok.Employer, &a.SecondNok.ResAddress, &a.SecondNok.PhoneNumber,
		&a.Deactivated, &a.CreatedAt, &a.UpdatedAt,
	}
}

// applicationValues lists the writable columns in insert order.
func applicationValues(a *models.Application) []interface{} {
	return []interface{}{
		a.MoreDetail, a.Bank, a.BankBranch, a.AccNumber, a.AccName,
		a.LoanPurpose, a.AmtRequired, a.RepaymentPeriod, a.Title, a.FullName, a.DOB, a.NationalID, a.PhoneNumber,
		a.ResAddress, a.NatureOfRes, a.FullMaidenNames, a.FullNameOfSpouse, a.MaritalStatus, a.Profession,
		a.Employer, a.EmployedSince, a.GrossIncome, a.NetIncome,
		a.FirstNok.FullName, a.FirstNok.Relationship, a.FirstNok.Employer, a.FirstNok.ResAddress, a.FirstNok.PhoneNumber,
		a.SecondNok.FullName, a.SecondNok.Relationship, a.SecondNok.Employer, a.SecondNok.ResAddress, a.SecondNok.PhoneNumber,
	}
}

var writableApplicationColumns = []string{
	"more_detail", "bank", "bank_branch", "acc_number", "acc_name",
	"loan_purpose", "amt_required", "repayment_period", "title", "full_name", "dob", "national_id", "phone_number",
	"res_address", "nature_of_res", "full_maiden_names", "full_name_of_spouse", "marital_status", "profession",
	"employer", "employed_since", "gross_income", "net_income",
	"first_nok_full_name", "first_nok_relationship", "first_nok_employer", "first_nok_res_address", "first_nok_phone_number",
	"second_nok_full_name", "second_nok_relationship", "second_nok_employer", "second_nok_res_address", "second_nok_phone_number",
}

func placeholders(from, n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(ps, ", ")
}

// CreateApplication inserts a new Pending application and fills its id and timestamps.
func CreateApplication(ctx context.Context, q Querier, a *models.Application) error {
	a.State = models.StatePending
	args := append([]interface{}{a.ApplicantID, a.State}, applicationValues(a)...)

	query := fmt.Sprintf(`
		INSERT INTO applications (applicant_id, state, %s)
		VALUES (%s)
		RETURNING id, created_at, updated_at`,
		strings.Join(writableApplicationColumns, ", "),
		placeholders(1, len(args)),
	)
	if err := q.QueryRowContext(ctx, query, args...).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

// UpdateApplication rewrites the scalar fields of an application.
func UpdateApplication(ctx context.Context, q Querier, a *models.Application) error {
	sets := make([]string, len(writableApplicationColumns))
	for i, col := range writableApplicationColumns {
		sets[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}
	args := append(applicationValues(a), a.ID)

	query := fmt.Sprintf(`UPDATE applications SET %s, updated_at = NOW() WHERE id = $%d`,
		strings.Join(sets, ", "), len(args))

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update application %d: %w", a.ID, err)
	}
	return expectOneRow(res)
}

// GetApplication loads one application, deactivated or not.
func GetApplication(ctx context.Context, q Querier, id int64) (*models.Application, error) {
	var a models.Application
	err := q.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id).
		Scan(applicationDest(&a)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get application %d: %w", id, err)
	}
	return &a, nil
}

// GetApplicationDetail loads an application with its applicant, channels, decisions,
// KYC documents and prior loan. Decision is left for the caller to derive.
func GetApplicationDetail(ctx context.Context, q Querier, id int64) (*models.ApplicationDetail, error) {
	app, err := GetApplication(ctx, q, id)
	if err != nil {
		return nil, err
	}
	detail := &models.ApplicationDetail{Application: *app}

	applicant, err := GetUserByID(ctx, q, app.ApplicantID)
	if err != nil {
		return nil, fmt.Errorf("load applicant: %w", err)
	}
	detail.Applicant = *applicant

	if detail.Channels, err = ListChannels(ctx, q, id); err != nil {
		return nil, err
	}
	if detail.KycDocs, err = ListKycDocs(ctx, q, id); err != nil {
		return nil, err
	}
	detail.PriorLoan, err = GetPriorLoan(ctx, q, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return detail, nil
}

func SoftDeleteApplication(ctx context.Context, q Querier, id int64) error {
	res, err := q.ExecContext(ctx,
		`UPDATE applications SET deactivated = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate application %d: %w", id, err)
	}
	return expectOneRow(res)
}

// ApplicationFilter scopes the applications listing. At most one of ApplicantID and
// LenderID is set; neither means every application.
type ApplicationFilter struct {
	ApplicantID int64
	LenderID    int64
}

// ListApplications returns application rows newest first, each with the decisions of all
// its channels so the caller can derive the overall state.
func ListApplications(ctx context.Context, q Querier, f ApplicationFilter) ([]models.ApplicationSummary, error) {
	var (
		where string
		args  []interface{}
	)
	switch {
	case f.ApplicantID > 0:
		where = `WHERE a.applicant_id = $1 AND a.deactivated = FALSE`
		args = append(args, f.ApplicantID)
	case f.LenderID > 0:
		where = `WHERE EXISTS (SELECT 1 FROM channels c WHERE c.application_id = a.id AND c.lender_id = $1)`
		args = append(args, f.LenderID)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT a.id, a.applicant_id, u.full_name, a.loan_purpose, a.amt_required, a.deactivated, a.created_at,
			COALESCE(ARRAY(
				SELECT lu.full_name
				FROM channels c
				JOIN lenders l ON l.id = c.lender_id
				JOIN users lu ON lu.id = l.user_id
				WHERE c.application_id = a.id
				ORDER BY c.created_at DESC, c.id DESC
			), '{}') AS lenders
		FROM applications a
		JOIN users u ON u.id = a.applicant_id
		`+where+`
		ORDER BY a.created_at DESC, a.id DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var out []models.ApplicationSummary
	index := make(map[int64]int)
	for rows.Next() {
		var s models.ApplicationSummary
		if err := rows.Scan(&s.ID, &s.ApplicantID, &s.ApplicantName, &s.LoanPurpose, &s.AmtRequired,
			&s.Deactivated, &s.CreatedAt, pq.Array(&s.Lenders)); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		index[s.ID] = len(out)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]int64, len(out))
	for i, s := range out {
		ids[i] = s.ID
	}
	drows, err := q.QueryContext(ctx, `
		SELECT d.id, d.channel_id, d.decision, d.comment, d.created_at, c.application_id
		FROM decisions d
		JOIN channels c ON c.id = d.channel_id
		WHERE c.application_id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("list application decisions: %w", err)
	}
	defer drows.Close()

	for drows.Next() {
		var (
			d     models.Decision
			appID int64
		)
		if err := drows.Scan(&d.ID, &d.ChannelID, &d.Decision, &d.Comment, &d.CreatedAt, &appID); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		if i, ok := index[appID]; ok {
			out[i].Decisions = append(out[i].Decisions, d)
		}
	}
	return out, drows.Err()
}

func ListKycDocs(ctx context.Context, q Querier, applicationID int64) ([]models.KycDoc, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, application_id, label, public_id, created_at
		FROM kyc_docs WHERE application_id = $1 ORDER BY id`, applicationID)
	if err != nil {
		return nil, fmt.Errorf("list kyc docs: %w", err)
	}
	defer rows.Close()

	var out []models.KycDoc
	for rows.Next() {
		var d models.KycDoc
		if err := rows.Scan(&d.ID, &d.ApplicationID, &d.Label, &d.PublicID, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan kyc doc: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ReplaceKycDocs deletes every KYC document of the application and inserts docs.
func ReplaceKycDocs(ctx context.Context, q Querier, applicationID int64, docs []models.KycDoc) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM kyc_docs WHERE application_id = $1`, applicationID); err != nil {
		return fmt.Errorf("delete kyc docs: %w", err)
	}
	return CreateKycDocs(ctx, q, applicationID, docs)
}

func CreateKycDocs(ctx context.Context, q Querier, applicationID int64, docs []models.KycDoc) error {
	for _, d := range docs {
		if _, err := q.ExecContext(ctx,
			`INSERT INTO kyc_docs (application_id, label, public_id) VALUES ($1, $2, $3)`,
			applicationID, d.Label, d.PublicID,
		); err != nil {
			return fmt.Errorf("insert kyc doc %q: %w", d.Label, err)
		}
	}
	return nil
}

func GetPriorLoan(ctx context.Context, q Querier, applicationID int64) (*models.PriorLoan, error) {
	var p models.PriorLoan
	err := q.QueryRowContext(ctx, `
		SELECT id, application_id, lender, expiry_date, amount, monthly_repayment, balance, created_at, updated_at
		FROM prior_loans WHERE application_id = $1`, applicationID,
	).Scan(&p.ID, &p.ApplicationID, &p.Lender, &p.ExpiryDate, &p.Amount, &p.MonthlyRepayment, &p.Balance,
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get prior loan: %w", err)
	}
	return &p, nil
}

// SavePriorLoan upserts the application's prior loan, or deletes it when loan is nil.
func SavePriorLoan(ctx context.Context, q Querier, applicationID int64, loan *models.PriorLoan) error {
	if loan == nil {
		if _, err := q.ExecContext(ctx, `DELETE FROM prior_loans WHERE application_id = $1`, applicationID); err != nil {
			return fmt.Errorf("delete prior loan: %w", err)
		}
		return nil
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO prior_loans (application_id, lender, expiry_date, amount, monthly_repayment, balance)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (application_id) DO UPDATE SET
			lender = EXCLUDED.lender,
			expiry_date = EXCLUDED.expiry_date,
			amount = EXCLUDED.amount,
			monthly_repayment = EXCLUDED.monthly_repayment,
			balance = EXCLUDED.balance,
			updated_at = NOW()`,
		applicationID, loan.Lender, loan.ExpiryDate, loan.Amount, loan.MonthlyRepayment, loan.Balance,
	)
	if err != nil {
		return fmt.Errorf("save prior loan: %w", err)
	}
	return nil
}
