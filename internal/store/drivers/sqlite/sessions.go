package sqlite

import (
	"context"
	"time"

	"github.com/essivi/backoffice/internal/auth/domain"
)

type sessionsRepo struct {
	db dbtx
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, account_id, token_hash, sid, expires_at, revoked, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.AccountID, s.TokenHash, s.SID, s.ExpiresAt, s.Revoked, s.CreatedAt, s.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *sessionsRepo) GetSessionByTokenHash(ctx context.Context, hash string) (domain.Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, account_id, token_hash, sid, expires_at, revoked, created_at, updated_at
		FROM sessions WHERE token_hash = ?`, hash)

	var s domain.Session
	err := row.Scan(&s.ID, &s.AccountID, &s.TokenHash, &s.SID,
		&s.ExpiresAt, &s.Revoked, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	return s, nil
}

// RotateSession only matches when the old hash is still current and the
// session is live, so a replayed refresh token cannot rotate twice.
func (r *sessionsRepo) RotateSession(ctx context.Context, id, oldHash, newHash string, expiresAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET token_hash = ?, expires_at = ?, updated_at = ?
		WHERE id = ? AND token_hash = ? AND revoked = 0`,
		newHash, expiresAt, time.Now().UTC(), id, oldHash)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *sessionsRepo) RevokeSession(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET revoked = 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *sessionsRepo) RevokeAccountSessions(ctx context.Context, accountID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET revoked = 1, updated_at = ?
		WHERE account_id = ? AND revoked = 0`,
		time.Now().UTC(), accountID)
	return err
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context, before time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < ?`, before)
	return err
}
