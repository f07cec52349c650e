package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/essivi/backoffice/internal/auth/domain"
)

type verificationTokensRepo struct {
	db dbtx
}

func (r *verificationTokensRepo) CreateToken(ctx context.Context, t domain.VerificationToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO verification_tokens (
			id, account_id, token_hash, email, purpose, expires_at, used_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.AccountID, t.TokenHash, t.Email, string(t.Purpose),
		t.ExpiresAt, mapOptionalTime(t.UsedAt), t.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *verificationTokensRepo) GetTokenByHash(ctx context.Context, hash string) (domain.VerificationToken, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, account_id, token_hash, email, purpose, expires_at, used_at, created_at
		FROM verification_tokens WHERE token_hash = ?`, hash)

	var (
		t       domain.VerificationToken
		purpose string
		usedAt  sql.NullTime
	)
	err := row.Scan(&t.ID, &t.AccountID, &t.TokenHash, &t.Email, &purpose,
		&t.ExpiresAt, &usedAt, &t.CreatedAt)
	if err != nil {
		return domain.VerificationToken{}, mapNotFound(err)
	}
	t.Purpose = domain.TokenPurpose(purpose)
	t.UsedAt = mapNullTimePtr(usedAt)
	return t, nil
}

// ConsumeToken is a compare-and-set: the WHERE clause only matches an unused
// row, so of two concurrent redeemers exactly one sees a row affected.
func (r *verificationTokensRepo) ConsumeToken(ctx context.Context, id string, usedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE verification_tokens SET used_at = ?
		WHERE id = ? AND used_at IS NULL`,
		usedAt, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
