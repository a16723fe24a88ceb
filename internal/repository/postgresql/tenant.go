package postgresql

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/tenant"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type tenantRepositoryImpl struct {
	db *database.DB
}

func NewTenantRepository(db *database.DB) tenant.TenantRepository {
	return &tenantRepositoryImpl{db: db}
}

func (r *tenantRepositoryImpl) Create(ctx context.Context, t tenant.Tenant) (tenant.Tenant, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO tenants (name, plan, status)
		VALUES ($1, $2, $3)
		RETURNING id, name, plan, status, created_at, updated_at
	`
	var created tenant.Tenant
	err := q.QueryRow(ctx, query, t.Name, t.Plan, t.Status).Scan(
		&created.ID,
		&created.Name,
		&created.Plan,
		&created.Status,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	return created, err
}

func (r *tenantRepositoryImpl) GetByID(ctx context.Context, id string) (tenant.Tenant, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT id, name, plan, status, created_at, updated_at FROM tenants WHERE id = $1`
	var t tenant.Tenant
	err := q.QueryRow(ctx, query, id).Scan(
		&t.ID,
		&t.Name,
		&t.Plan,
		&t.Status,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return tenant.Tenant{}, tenant.ErrTenantNotFound
	}
	return t, err
}
