package sqlite

import (
	"context"
	"time"

	"github.com/essivi/backoffice/internal/logistics/domain"
)

type agentsRepo struct {
	db dbtx
}

const agentColumns = `id, account_id, last_name, first_name, phone, tricycle,
	status, hired_at, created_at, updated_at`

func scanAgent(row interface{ Scan(...any) error }) (domain.Agent, error) {
	var (
		a      domain.Agent
		status string
	)
	err := row.Scan(&a.ID, &a.AccountID, &a.LastName, &a.FirstName, &a.Phone,
		&a.Tricycle, &status, &a.HiredAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return domain.Agent{}, err
	}
	a.Status = domain.AgentStatus(status)
	return a, nil
}

func (r *agentsRepo) CreateAgent(ctx context.Context, a domain.Agent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO agents (id, account_id, last_name, first_name, phone, tricycle,
			status, hired_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.AccountID, a.LastName, a.FirstName, a.Phone, a.Tricycle,
		string(a.Status), a.HiredAt, a.CreatedAt, a.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *agentsRepo) GetAgentByID(ctx context.Context, id string) (domain.Agent, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+agentColumns+` FROM agents WHERE id = ?`, id)
	a, err := scanAgent(row)
	if err != nil {
		return domain.Agent{}, mapNotFound(err)
	}
	return a, nil
}

func (r *agentsRepo) GetAgentByAccountID(ctx context.Context, accountID string) (domain.Agent, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+agentColumns+` FROM agents WHERE account_id = ?`, accountID)
	a, err := scanAgent(row)
	if err != nil {
		return domain.Agent{}, mapNotFound(err)
	}
	return a, nil
}

func (r *agentsRepo) ListAgents(ctx context.Context, status domain.AgentStatus) ([]domain.Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Agent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *agentsRepo) UpdateAgent(ctx context.Context, a domain.Agent) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE agents SET last_name = ?, first_name = ?, phone = ?, tricycle = ?,
			hired_at = ?, updated_at = ?
		WHERE id = ?`,
		a.LastName, a.FirstName, a.Phone, a.Tricycle, a.HiredAt, time.Now().UTC(), a.ID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *agentsRepo) UpdateAgentStatus(ctx context.Context, id string, status domain.AgentStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE agents SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *agentsRepo) DeleteAgent(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM agents WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *agentsRepo) CountAgents(ctx context.Context, status domain.AgentStatus) (int, error) {
	query := `SELECT COUNT(*) FROM agents`
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
