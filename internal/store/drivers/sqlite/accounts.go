package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/essivi/backoffice/internal/auth/domain"
)

type accountsRepo struct {
	db dbtx
}

const accountColumns = `id, email, password_hash, role, first_name, last_name, phone,
	is_verified, is_active, two_factor_enabled, two_factor_secret,
	last_login_at, created_at, updated_at`

func scanAccount(row interface{ Scan(...any) error }) (domain.Account, error) {
	var (
		a         domain.Account
		role      string
		secret    sql.NullString
		lastLogin sql.NullTime
	)
	err := row.Scan(
		&a.ID, &a.Email, &a.PasswordHash, &role, &a.FirstName, &a.LastName, &a.Phone,
		&a.IsVerified, &a.IsActive, &a.TwoFactorEnabled, &secret,
		&lastLogin, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return domain.Account{}, err
	}
	a.Role = domain.Role(role)
	a.TwoFactorSecret = mapNullStringPtr(secret)
	a.LastLoginAt = mapNullTimePtr(lastLogin)
	return a, nil
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email)
	a, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (
			id, email, password_hash, role, first_name, last_name, phone,
			is_verified, is_active, two_factor_enabled, two_factor_secret,
			last_login_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Email, a.PasswordHash, string(a.Role), a.FirstName, a.LastName, a.Phone,
		a.IsVerified, a.IsActive, a.TwoFactorEnabled, mapOptionalString(a.TwoFactorSecret),
		mapOptionalTime(a.LastLoginAt), a.CreatedAt, a.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *accountsRepo) UpdateProfile(ctx context.Context, accountID, firstName, lastName, phone string) error {
	return r.exec(ctx, `
		UPDATE accounts SET first_name = ?, last_name = ?, phone = ?, updated_at = ?
		WHERE id = ?`,
		firstName, lastName, phone, time.Now().UTC(), accountID)
}

func (r *accountsRepo) UpdatePasswordHash(ctx context.Context, accountID, newHash string) error {
	return r.exec(ctx, `
		UPDATE accounts SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, time.Now().UTC(), accountID)
}

func (r *accountsRepo) MarkVerified(ctx context.Context, accountID string) error {
	return r.exec(ctx, `
		UPDATE accounts SET is_verified = 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), accountID)
}

func (r *accountsRepo) SetActive(ctx context.Context, accountID string, active bool) error {
	return r.exec(ctx, `
		UPDATE accounts SET is_active = ?, updated_at = ? WHERE id = ?`,
		active, time.Now().UTC(), accountID)
}

func (r *accountsRepo) RecordLogin(ctx context.Context, accountID string, at time.Time) error {
	return r.exec(ctx, `
		UPDATE accounts SET last_login_at = ?, updated_at = ? WHERE id = ?`,
		at, at, accountID)
}

func (r *accountsRepo) EnableTwoFactor(ctx context.Context, accountID, secret string) error {
	return r.exec(ctx, `
		UPDATE accounts SET two_factor_enabled = 1, two_factor_secret = ?, updated_at = ?
		WHERE id = ?`,
		secret, time.Now().UTC(), accountID)
}

func (r *accountsRepo) DisableTwoFactor(ctx context.Context, accountID string) error {
	return r.exec(ctx, `
		UPDATE accounts SET two_factor_enabled = 0, two_factor_secret = NULL, updated_at = ?
		WHERE id = ?`,
		time.Now().UTC(), accountID)
}

func (r *accountsRepo) ListAccounts(ctx context.Context, role string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts`
	args := []any{}
	if role != "" {
		query += ` WHERE role = ?`
		args = append(args, role)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *accountsRepo) DeleteAccount(ctx context.Context, accountID string) error {
	return r.exec(ctx, `DELETE FROM accounts WHERE id = ?`, accountID)
}

func (r *accountsRepo) IsEmpty(ctx context.Context) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}

// exec runs a mutating statement and maps a zero-row update to ErrNotFound.
func (r *accountsRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
