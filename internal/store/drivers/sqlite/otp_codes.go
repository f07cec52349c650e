package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/essivi/backoffice/internal/auth/domain"
)

type otpCodesRepo struct {
	db dbtx
}

func (r *otpCodesRepo) CreateOTPCode(ctx context.Context, c domain.OTPCode) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO otp_codes (id, account_id, code, expires_at, used_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.AccountID, c.Code, c.ExpiresAt, mapOptionalTime(c.UsedAt), c.CreatedAt,
	)
	return err
}

func (r *otpCodesRepo) GetActiveOTPCode(ctx context.Context, accountID, code string) (domain.OTPCode, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, account_id, code, expires_at, used_at, created_at
		FROM otp_codes
		WHERE account_id = ? AND code = ? AND used_at IS NULL
		ORDER BY created_at DESC LIMIT 1`,
		accountID, code)

	var (
		c      domain.OTPCode
		usedAt sql.NullTime
	)
	err := row.Scan(&c.ID, &c.AccountID, &c.Code, &c.ExpiresAt, &usedAt, &c.CreatedAt)
	if err != nil {
		return domain.OTPCode{}, mapNotFound(err)
	}
	c.UsedAt = mapNullTimePtr(usedAt)
	return c, nil
}

// ConsumeOTPCode is a compare-and-set on used_at, same contract as
// verification tokens.
func (r *otpCodesRepo) ConsumeOTPCode(ctx context.Context, id string, usedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE otp_codes SET used_at = ? WHERE id = ? AND used_at IS NULL`,
		usedAt, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *otpCodesRepo) InvalidateAccountOTPCodes(ctx context.Context, accountID string, usedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE otp_codes SET used_at = ? WHERE account_id = ? AND used_at IS NULL`,
		usedAt, accountID)
	return err
}

func (r *otpCodesRepo) DeleteExpiredOTPCodes(ctx context.Context, before time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM otp_codes WHERE expires_at < ?`, before)
	return err
}
