package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"loan-broker/internal/models"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const lenderColumns = `l.id, l.user_id, u.full_name, u.email_address, l.logo, l.logo_public_id, l.logo_width,
	l.logo_height, l.min_tenure, l.max_tenure, l.min_amount, l.max_amount, l.monthly_interest,
	l.admin_fee, l.application_fee, l.paid, l.deactivated, l.created_at, l.updated_at`

func lenderDest(l *models.Lender) []interface{} {
	return []interface{}{
		&l.ID, &l.UserID, &l.FullName, &l.EmailAddress, &l.Logo, &l.LogoPublicID, &l.LogoWidth,
		&l.LogoHeight, &l.MinTenure, &l.MaxTenure, &l.MinAmount, &l.MaxAmount, &l.MonthlyInterest,
		&l.AdminFee, &l.ApplicationFee, &l.Paid, &l.Deactivated, &l.CreatedAt, &l.UpdatedAt,
	}
}

// CreateLender inserts the lender row for an existing lender user.
func CreateLender(ctx context.Context, q Querier, l *models.Lender) error {
	err := q.QueryRowContext(ctx, `
		INSERT INTO lenders (user_id, logo, logo_public_id, logo_width, logo_height, min_tenure, max_tenure,
			min_amount, max_amount, monthly_interest, admin_fee, application_fee)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`,
		l.UserID, l.Logo, l.LogoPublicID, l.LogoWidth, l.LogoHeight, l.MinTenure, l.MaxTenure,
		l.MinAmount, l.MaxAmount, l.MonthlyInterest, l.AdminFee, l.ApplicationFee,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert lender: %w", err)
	}
	return nil
}

// UpdateLender rewrites the lender's terms and logo.
func UpdateLender(ctx context.Context, q Querier, l *models.Lender) error {
	res, err := q.ExecContext(ctx, `
		UPDATE lenders SET logo = $1, logo_public_id = $2, logo_width = $3, logo_height = $4,
			min_tenure = $5, max_tenure = $6, min_amount = $7, max_amount = $8, monthly_interest = $9,
			admin_fee = $10, application_fee = $11, updated_at = NOW()
		WHERE id = $12`,
		l.Logo, l.LogoPublicID, l.LogoWidth, l.LogoHeight, l.MinTenure, l.MaxTenure, l.MinAmount,
		l.MaxAmount, l.MonthlyInterest, l.AdminFee, l.ApplicationFee, l.ID,
	)
	if err != nil {
		return fmt.Errorf("update lender %d: %w", l.ID, err)
	}
	return expectOneRow(res)
}

func GetLender(ctx context.Context, q Querier, id int64) (*models.Lender, error) {
	var l models.Lender
	err := q.QueryRowContext(ctx, `
		SELECT `+lenderColumns+`
		FROM lenders l
		JOIN users u ON u.id = l.user_id
		WHERE l.id = $1`, id,
	).Scan(lenderDest(&l)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get lender %d: %w", id, err)
	}
	return &l, nil
}

// GetActiveLender is GetLender restricted to lenders that are not deactivated.
func GetActiveLender(ctx context.Context, q Querier, id int64) (*models.Lender, error) {
	l, err := GetLender(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if l.Deactivated {
		return nil, ErrNotFound
	}
	return l, nil
}

func DeactivateLender(ctx context.Context, q Querier, id int64) error {
	res, err := q.ExecContext(ctx,
		`UPDATE lenders SET deactivated = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate lender %d: %w", id, err)
	}
	return expectOneRow(res)
}

// ActiveLenderIDs returns the subset of ids that name existing, active lenders.
func ActiveLenderIDs(ctx context.Context, q Querier, ids []int64) (map[int64]bool, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id FROM lenders WHERE id = ANY($1) AND deactivated = FALSE`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("check lenders: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]bool, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan lender id: %w", err)
		}
		out[id] = true
	}
	return out, rows.Err()
}

// LenderFilter narrows the public lender search. Zero values disable a filter.
type LenderFilter struct {
	EmploymentTypeID int64
	RequiredAmount   decimal.Decimal
	RepaymentPeriod  int
}

const lenderSummarySelect = `
	SELECT ` + lenderColumns + `,
		(SELECT COUNT(*) FROM channels c WHERE c.lender_id = l.id) AS num_channels,
		COALESCE(ARRAY(
			SELECT et.employment_type
			FROM employment_preferences ep
			JOIN employment_types et ON et.id = ep.employment_type_id
			WHERE ep.lender_id = l.id
			ORDER BY et.employment_type
		), '{}') AS employment_types
	FROM lenders l
	JOIN users u ON u.id = l.user_id`

func scanLenderSummaries(rows *sql.Rows) ([]models.LenderSummary, error) {
	defer rows.Close()

	var out []models.LenderSummary
	for rows.Next() {
		var s models.LenderSummary
		dest := append(lenderDest(&s.Lender), &s.NumChannels, pq.Array(&s.EmploymentTypes))
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan lender: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListLenders returns active lenders, busiest first.
func ListLenders(ctx context.Context, q Querier) ([]models.LenderSummary, error) {
	rows, err := q.QueryContext(ctx, lenderSummarySelect+`
		WHERE l.deactivated = FALSE
		ORDER BY num_channels DESC, l.id`)
	if err != nil {
		return nil, fmt.Errorf("list lenders: %w", err)
	}
	return scanLenderSummaries(rows)
}

// SearchLenders returns active lenders whose terms fit the filter, ordered by id.
func SearchLenders(ctx context.Context, q Querier, f LenderFilter) ([]models.LenderSummary, error) {
	where := []string{"l.deactivated = FALSE"}
	var args []interface{}

	if f.RequiredAmount.IsPositive() {
		args = append(args, f.RequiredAmount)
		where = append(where, fmt.Sprintf("l.min_amount <= $%d AND l.max_amount >= $%d", len(args), len(args)))
	}
	if f.RepaymentPeriod > 0 {
		args = append(args, f.RepaymentPeriod)
		where = append(where, fmt.Sprintf("l.min_tenure <= $%d AND l.max_tenure >= $%d", len(args), len(args)))
	}
	if f.EmploymentTypeID > 0 {
		args = append(args, f.EmploymentTypeID)
		where = append(where, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM employment_preferences ep WHERE ep.lender_id = l.id AND ep.employment_type_id = $%d)", len(args)))
	}

	rows, err := q.QueryContext(ctx, lenderSummarySelect+`
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY l.id`, args...)
	if err != nil {
		return nil, fmt.Errorf("search lenders: %w", err)
	}
	return scanLenderSummaries(rows)
}

// ListLenderChannels returns the channels routed to a lender with their decisions.
func ListLenderChannels(ctx context.Context, q Querier, lenderID int64) ([]models.Channel, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT c.id, c.application_id, c.lender_id, u.full_name, c.created_at
		FROM channels c
		JOIN lenders l ON l.id = c.lender_id
		JOIN users u ON u.id = l.user_id
		WHERE c.lender_id = $1
		ORDER BY c.created_at DESC, c.id DESC`, lenderID)
	if err != nil {
		return nil, fmt.Errorf("list channels for lender %d: %w", lenderID, err)
	}
	channels, err := scanChannels(rows)
	if err != nil {
		return nil, err
	}
	return attachDecisions(ctx, q, channels)
}
