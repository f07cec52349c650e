package sqlite

import (
	"context"

	"github.com/essivi/backoffice/internal/logistics/domain"
)

type activityLogRepo struct {
	db dbtx
}

func (r *activityLogRepo) AppendActivity(ctx context.Context, entry domain.ActivityLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activity_log (id, account_id, action, details, ip_address, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.AccountID, entry.Action, entry.Details, entry.IPAddress, entry.CreatedAt,
	)
	return err
}

func (r *activityLogRepo) ListAccountActivity(ctx context.Context, accountID string, limit int) ([]domain.ActivityLog, error) {
	return r.query(ctx, `
		SELECT id, account_id, action, details, ip_address, created_at
		FROM activity_log WHERE account_id = ?
		ORDER BY created_at DESC LIMIT ?`,
		accountID, limit)
}

func (r *activityLogRepo) ListRecentActivity(ctx context.Context, limit int) ([]domain.ActivityLog, error) {
	return r.query(ctx, `
		SELECT id, account_id, action, details, ip_address, created_at
		FROM activity_log ORDER BY created_at DESC LIMIT ?`,
		limit)
}

func (r *activityLogRepo) query(ctx context.Context, query string, args ...any) ([]domain.ActivityLog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ActivityLog
	for rows.Next() {
		var e domain.ActivityLog
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Action, &e.Details, &e.IPAddress, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
