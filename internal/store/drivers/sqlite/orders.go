package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/essivi/backoffice/internal/logistics/domain"
)

type ordersRepo struct {
	db dbtx
}

const orderColumns = `id, outlet_id, quantity, ordered_at, status, agent_id, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (domain.Order, error) {
	var (
		o       domain.Order
		status  string
		agentID sql.NullString
	)
	err := row.Scan(&o.ID, &o.OutletID, &o.Quantity, &o.OrderedAt, &status,
		&agentID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return domain.Order{}, err
	}
	o.Status = domain.OrderStatus(status)
	o.AgentID = mapNullString(agentID)
	return o, nil
}

func (r *ordersRepo) CreateOrder(ctx context.Context, o domain.Order) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO orders (id, outlet_id, quantity, ordered_at, status, agent_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.OutletID, o.Quantity, o.OrderedAt, string(o.Status),
		mapStringNull(o.AgentID), o.CreatedAt, o.UpdatedAt,
	)
	return err
}

func (r *ordersRepo) GetOrderByID(ctx context.Context, id string) (domain.Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	o, err := scanOrder(row)
	if err != nil {
		return domain.Order{}, mapNotFound(err)
	}
	return o, nil
}

func (r *ordersRepo) ListOrders(ctx context.Context, status domain.OrderStatus, outletID string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`
	args := []any{}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, string(status))
	}
	if outletID != "" {
		query += ` AND outlet_id = ?`
		args = append(args, outletID)
	}
	query += ` ORDER BY ordered_at DESC`
	return r.queryOrders(ctx, query, args...)
}

func (r *ordersRepo) ListAgentOrders(ctx context.Context, agentID string) ([]domain.Order, error) {
	return r.queryOrders(ctx, `
		SELECT `+orderColumns+` FROM orders WHERE agent_id = ? ORDER BY ordered_at DESC`,
		agentID)
}

func (r *ordersRepo) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *ordersRepo) AssignAgent(ctx context.Context, orderID, agentID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET agent_id = ?, updated_at = ? WHERE id = ?`,
		agentID, time.Now().UTC(), orderID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *ordersRepo) DeleteOrder(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *ordersRepo) CountOrders(ctx context.Context, status domain.OrderStatus) (int, error) {
	query := `SELECT COUNT(*) FROM orders`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *ordersRepo) queryOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
