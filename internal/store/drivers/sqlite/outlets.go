package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/essivi/backoffice/internal/logistics/domain"
)

type outletsRepo struct {
	db dbtx
}

const outletColumns = `id, account_id, name, manager, phone, address,
	latitude, longitude, type, status, created_at, updated_at`

func scanOutlet(row interface{ Scan(...any) error }) (domain.Outlet, error) {
	var (
		o         domain.Outlet
		accountID sql.NullString
		lat, lng  sql.NullFloat64
		typ       string
		status    string
	)
	err := row.Scan(&o.ID, &accountID, &o.Name, &o.Manager, &o.Phone, &o.Address,
		&lat, &lng, &typ, &status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return domain.Outlet{}, err
	}
	o.AccountID = mapNullString(accountID)
	o.Latitude = mapNullFloatPtr(lat)
	o.Longitude = mapNullFloatPtr(lng)
	o.Type = domain.OutletType(typ)
	o.Status = domain.OutletStatus(status)
	return o, nil
}

func (r *outletsRepo) CreateOutlet(ctx context.Context, o domain.Outlet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO outlets (id, account_id, name, manager, phone, address,
			latitude, longitude, type, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, mapStringNull(o.AccountID), o.Name, o.Manager, o.Phone, o.Address,
		mapOptionalFloat(o.Latitude), mapOptionalFloat(o.Longitude),
		string(o.Type), string(o.Status), o.CreatedAt, o.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *outletsRepo) GetOutletByID(ctx context.Context, id string) (domain.Outlet, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+outletColumns+` FROM outlets WHERE id = ?`, id)
	o, err := scanOutlet(row)
	if err != nil {
		return domain.Outlet{}, mapNotFound(err)
	}
	return o, nil
}

func (r *outletsRepo) GetOutletByAccountID(ctx context.Context, accountID string) (domain.Outlet, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+outletColumns+` FROM outlets WHERE account_id = ?`, accountID)
	o, err := scanOutlet(row)
	if err != nil {
		return domain.Outlet{}, mapNotFound(err)
	}
	return o, nil
}

func (r *outletsRepo) ListOutlets(ctx context.Context, typ domain.OutletType, status domain.OutletStatus) ([]domain.Outlet, error) {
	query := `SELECT ` + outletColumns + ` FROM outlets WHERE 1=1`
	args := []any{}
	if typ != "" {
		query += ` AND type = ?`
		args = append(args, string(typ))
	}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`
	return r.queryOutlets(ctx, query, args...)
}

func (r *outletsRepo) SearchOutlets(ctx context.Context, q string) ([]domain.Outlet, error) {
	like := "%" + q + "%"
	return r.queryOutlets(ctx, `
		SELECT `+outletColumns+` FROM outlets
		WHERE name LIKE ? OR manager LIKE ? OR phone LIKE ?
		ORDER BY name`,
		like, like, like)
}

func (r *outletsRepo) UpdateOutlet(ctx context.Context, o domain.Outlet) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE outlets SET name = ?, manager = ?, phone = ?, address = ?,
			latitude = ?, longitude = ?, type = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		o.Name, o.Manager, o.Phone, o.Address,
		mapOptionalFloat(o.Latitude), mapOptionalFloat(o.Longitude),
		string(o.Type), string(o.Status), time.Now().UTC(), o.ID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *outletsRepo) DeleteOutlet(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM outlets WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *outletsRepo) CountOutlets(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM outlets`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *outletsRepo) queryOutlets(ctx context.Context, query string, args ...any) ([]domain.Outlet, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Outlet
	for rows.Next() {
		o, err := scanOutlet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
