package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/essivi/backoffice/internal/logistics/domain"
)

type deliveriesRepo struct {
	db dbtx
}

const deliveryColumns = `id, order_id, agent_id, outlet_id, quantity, amount_cents,
	delivered_at, status, validated, validated_by, created_at, updated_at`

func scanDelivery(row interface{ Scan(...any) error }) (domain.Delivery, error) {
	var (
		d           domain.Delivery
		orderID     sql.NullString
		status      string
		validatedBy sql.NullString
	)
	err := row.Scan(&d.ID, &orderID, &d.AgentID, &d.OutletID, &d.Quantity, &d.AmountCents,
		&d.DeliveredAt, &status, &d.Validated, &validatedBy, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return domain.Delivery{}, err
	}
	d.OrderID = mapNullString(orderID)
	d.Status = domain.DeliveryStatus(status)
	d.ValidatedBy = mapNullString(validatedBy)
	return d, nil
}

func (r *deliveriesRepo) CreateDelivery(ctx context.Context, d domain.Delivery) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO deliveries (id, order_id, agent_id, outlet_id, quantity, amount_cents,
			delivered_at, status, validated, validated_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, mapStringNull(d.OrderID), d.AgentID, d.OutletID, d.Quantity, d.AmountCents,
		d.DeliveredAt, string(d.Status), d.Validated, mapStringNull(d.ValidatedBy),
		d.CreatedAt, d.UpdatedAt,
	)
	return err
}

func (r *deliveriesRepo) GetDeliveryByID(ctx context.Context, id string) (domain.Delivery, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+deliveryColumns+` FROM deliveries WHERE id = ?`, id)
	d, err := scanDelivery(row)
	if err != nil {
		return domain.Delivery{}, mapNotFound(err)
	}
	return d, nil
}

func (r *deliveriesRepo) ListDeliveries(ctx context.Context, status domain.DeliveryStatus, agentID string) ([]domain.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM deliveries WHERE 1=1`
	args := []any{}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, string(status))
	}
	if agentID != "" {
		query += ` AND agent_id = ?`
		args = append(args, agentID)
	}
	query += ` ORDER BY delivered_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Delivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *deliveriesRepo) UpdateDeliveryStatus(ctx context.Context, id string, status domain.DeliveryStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE deliveries SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// ValidateDelivery only matches an unvalidated row, so repeated validation
// attempts fail with ErrNotFound.
func (r *deliveriesRepo) ValidateDelivery(ctx context.Context, id, validatedBy string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE deliveries SET validated = 1, validated_by = ?, updated_at = ?
		WHERE id = ? AND validated = 0`,
		validatedBy, at, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *deliveriesRepo) CountDeliveries(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM deliveries`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *deliveriesRepo) CountDeliveriesSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM deliveries WHERE delivered_at >= ?`, since).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *deliveriesRepo) SumDeliveredAmountSince(ctx context.Context, since time.Time) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0) FROM deliveries
		WHERE status = 'livre' AND delivered_at >= ?`, since).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}
