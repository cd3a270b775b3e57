package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"ClimbCoach/internal/domain"
	"ClimbCoach/internal/ports"
)

const leadsTable = "leads"

const schema = `CREATE TABLE IF NOT EXISTS leads (
    id         UUID PRIMARY KEY,
    form_name  TEXT NOT NULL,
    email      TEXT NOT NULL,
    name       TEXT NOT NULL DEFAULT '',
    phone      TEXT NOT NULL DEFAULT '',
    status     TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// uniqueViolation is the Postgres SQLSTATE for duplicate keys.
const uniqueViolation = "23505"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresRepository keeps a log of form submission attempts in Postgres.
type PostgresRepository struct {
	db *sql.DB
}

var _ ports.LeadRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the leads table when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// SaveLead inserts one lead. Re-saving an existing ID is a no-op.
func (r *PostgresRepository) SaveLead(ctx context.Context, lead domain.Lead) error {
	if r.db == nil {
		return nil
	}

	query, args, err := insertLeadQuery(lead)
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil
		}
		return fmt.Errorf("insert lead: %w", err)
	}

	return nil
}

// RecentLeads returns up to limit leads, newest first.
func (r *PostgresRepository) RecentLeads(ctx context.Context, limit int) ([]domain.Lead, error) {
	if r.db == nil {
		return nil, nil
	}

	query, args, err := recentLeadsQuery(limit)
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}

	var leads []domain.Lead
	for rows.Next() {
		var (
			lead   domain.Lead
			status string
		)
		if err := rows.Scan(&lead.ID, &lead.FormName, &lead.Email, &lead.Name, &lead.Phone, &status, &lead.CreatedAt); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		lead.Status = domain.LeadStatus(status)
		leads = append(leads, lead)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return leads, nil
}

func insertLeadQuery(lead domain.Lead) (string, []any, error) {
	createdAt := lead.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return psql.Insert(leadsTable).
		Columns("id", "form_name", "email", "name", "phone", "status", "created_at").
		Values(lead.ID, lead.FormName, lead.Email, lead.Name, lead.Phone, string(lead.Status), createdAt).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
}

func recentLeadsQuery(limit int) (string, []any, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return psql.Select("id", "form_name", "email", "name", "phone", "status", "created_at").
		From(leadsTable).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
}
