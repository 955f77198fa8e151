package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"loan-broker/internal/models"
)

const userColumns = `id, email_address, full_name, hashed_password, kind, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.EmailAddress, &u.FullName, &u.HashedPassword, &u.Kind, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// NormalizeEmail trims and lower-cases an address the way it is stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser inserts u and fills its id and timestamps. A taken address returns ErrDuplicateEmail.
func CreateUser(ctx context.Context, q Querier, u *models.User) error {
	u.EmailAddress = NormalizeEmail(u.EmailAddress)
	err := q.QueryRowContext(ctx, `
		INSERT INTO users (email_address, full_name, hashed_password, kind)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		u.EmailAddress, u.FullName, u.HashedPassword, u.Kind,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func GetUserByID(ctx context.Context, q Querier, id int64) (*models.User, error) {
	u, err := scanUser(q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

func GetUserByEmail(ctx context.Context, q Querier, email string) (*models.User, error) {
	u, err := scanUser(q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email_address = $1`, NormalizeEmail(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// GetCurrentUser loads the session actor, including the lender id for lender users.
func GetCurrentUser(ctx context.Context, q Querier, id int64) (*models.CurrentUser, error) {
	var u models.CurrentUser
	err := q.QueryRowContext(ctx, `
		SELECT u.id, u.full_name, u.email_address, u.kind, COALESCE(l.id, 0)
		FROM users u
		LEFT JOIN lenders l ON l.user_id = u.id
		WHERE u.id = $1`, id,
	).Scan(&u.ID, &u.FullName, &u.EmailAddress, &u.Kind, &u.LenderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get current user %d: %w", id, err)
	}
	return &u, nil
}

// EmailTaken reports whether another user already holds email.
func EmailTaken(ctx context.Context, q Querier, email string, exceptUserID int64) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email_address = $1 AND id <> $2)`,
		NormalizeEmail(email), exceptUserID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

func UpdateUserProfile(ctx context.Context, q Querier, id int64, fullName, email string) error {
	res, err := q.ExecContext(ctx, `
		UPDATE users SET full_name = $1, email_address = $2, updated_at = NOW()
		WHERE id = $3`,
		fullName, NormalizeEmail(email), id,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("update user %d: %w", id, err)
	}
	return expectOneRow(res)
}

func UpdateUserPassword(ctx context.Context, q Querier, id int64, hashedPassword string) error {
	res, err := q.ExecContext(ctx,
		`UPDATE users SET hashed_password = $1, updated_at = NOW() WHERE id = $2`,
		hashedPassword, id,
	)
	if err != nil {
		return fmt.Errorf("update password for user %d: %w", id, err)
	}
	return expectOneRow(res)
}

func ListUsersByKind(ctx context.Context, q Querier, kind models.UserKind) ([]models.User, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE kind = $1 ORDER BY created_at DESC, id DESC`, kind)
	if err != nil {
		return nil, fmt.Errorf("list %s users: %w", kind, err)
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// DeleteUser hard-deletes a user of the given kind.
func DeleteUser(ctx context.Context, q Querier, id int64, kind models.UserKind) error {
	res, err := q.ExecContext(ctx, `DELETE FROM users WHERE id = $1 AND kind = $2`, id, kind)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return expectOneRow(res)
}
