package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/newsdesk/newsroom/internal/domain"
)

type roleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository returns a Postgres-backed implementation.
func NewRoleRepository(pool *pgxpool.Pool) RoleRepository {
	return &roleRepository{pool: pool}
}

func (r *roleRepository) List(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, description FROM roles ORDER BY name ASC`)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description); err != nil {
			return nil, err
		}
		result = append(result, role)
	}
	return result, rows.Err()
}

func (r *roleRepository) GetByName(ctx context.Context, name domain.RoleName) (*domain.Role, error) {
	var role domain.Role
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description FROM roles WHERE name=$1`, name,
	).Scan(&role.ID, &role.Name, &role.Description)
	if err != nil {
		return nil, mapPgError(err)
	}
	return &role, nil
}

func (r *roleRepository) EnsureDefaults(ctx context.Context, roles []domain.Role) error {
	const query = `
        INSERT INTO roles (name, description) VALUES ($1, $2)
        ON CONFLICT (name) DO NOTHING`

	for _, role := range roles {
		if _, err := r.pool.Exec(ctx, query, role.Name, role.Description); err != nil {
			return mapPgError(err)
		}
	}
	return nil
}
