package store

import (
	"context"
	"fmt"

	"loan-broker/internal/models"
)

func ListEmploymentTypes(ctx context.Context, q Querier) ([]models.EmploymentType, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, employment_type, created_at, updated_at
		FROM employment_types ORDER BY employment_type`)
	if err != nil {
		return nil, fmt.Errorf("list employment types: %w", err)
	}
	defer rows.Close()

	var out []models.EmploymentType
	for rows.Next() {
		var t models.EmploymentType
		if err := rows.Scan(&t.ID, &t.EmploymentType, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan employment type: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CreateEmploymentType inserts a type; a name clash returns ErrDuplicate.
func CreateEmploymentType(ctx context.Context, q Querier, name string) (*models.EmploymentType, error) {
	t := models.EmploymentType{EmploymentType: name}
	err := q.QueryRowContext(ctx, `
		INSERT INTO employment_types (employment_type) VALUES ($1)
		RETURNING id, created_at, updated_at`, name,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("insert employment type: %w", err)
	}
	return &t, nil
}

func RenameEmploymentType(ctx context.Context, q Querier, id int64, name string) error {
	res, err := q.ExecContext(ctx,
		`UPDATE employment_types SET employment_type = $1, updated_at = NOW() WHERE id = $2`, name, id)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("rename employment type %d: %w", id, err)
	}
	return expectOneRow(res)
}

// DeleteEmploymentType removes the type and every lender preference that names it.
func DeleteEmploymentType(ctx context.Context, q Querier, id int64) error {
	if _, err := q.ExecContext(ctx,
		`DELETE FROM employment_preferences WHERE employment_type_id = $1`, id); err != nil {
		return fmt.Errorf("delete employment preferences: %w", err)
	}
	res, err := q.ExecContext(ctx, `DELETE FROM employment_types WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete employment type %d: %w", id, err)
	}
	return expectOneRow(res)
}

func ListPreferences(ctx context.Context, q Querier, lenderID int64) ([]models.EmploymentPreference, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT p.id, p.lender_id, p.employment_type_id, t.employment_type
		FROM employment_preferences p
		JOIN employment_types t ON t.id = p.employment_type_id
		WHERE p.lender_id = $1
		ORDER BY t.employment_type`, lenderID)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	defer rows.Close()

	var out []models.EmploymentPreference
	for rows.Next() {
		var p models.EmploymentPreference
		if err := rows.Scan(&p.ID, &p.LenderID, &p.EmploymentTypeID, &p.EmploymentType); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ReplacePreferences sets the lender's preferences to exactly typeIDs.
func ReplacePreferences(ctx context.Context, q Querier, lenderID int64, typeIDs []int64) error {
	if _, err := q.ExecContext(ctx,
		`DELETE FROM employment_preferences WHERE lender_id = $1`, lenderID); err != nil {
		return fmt.Errorf("clear preferences: %w", err)
	}
	seen := make(map[int64]bool, len(typeIDs))
	for _, id := range typeIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, err := q.ExecContext(ctx,
			`INSERT INTO employment_preferences (lender_id, employment_type_id) VALUES ($1, $2)`,
			lenderID, id,
		); err != nil {
			return fmt.Errorf("insert preference %d: %w", id, err)
		}
	}
	return nil
}
