package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"esls/api/internal/models"
)

var ErrRoleNotFound = errors.New("role not found")

type RoleRepository struct {
	pool *pgxpool.Pool
}

func NewRoleRepository(pool *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{pool: pool}
}

func (r *RoleRepository) FindByID(ctx context.Context, id int64) (models.Role, error) {
	const query = `SELECT id, name, description FROM roles WHERE id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	var role models.Role
	if err := row.Scan(&role.ID, &role.Name, &role.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Role{}, ErrRoleNotFound
		}
		return models.Role{}, err
	}
	return role, nil
}

func (r *RoleRepository) ListByUser(ctx context.Context, userID int64) ([]models.Role, error) {
	const query = `
		SELECT r.id, r.name, r.description
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.id
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := make([]models.Role, 0)
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// LinkUserRole inserts the (role, user) association and returns the number of
// rows it added. A link that already exists reports zero rows, which batch
// callers treat as an unsuccessful grant.
func (r *RoleRepository) LinkUserRole(ctx context.Context, roleID, userID int64) (int64, error) {
	const query = `
		INSERT INTO user_roles (user_id, role_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, role_id) DO NOTHING
	`
	cmd, err := r.pool.Exec(ctx, query, userID, roleID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

// UnlinkUserRole removes the association and returns the rows deleted.
func (r *RoleRepository) UnlinkUserRole(ctx context.Context, roleID, userID int64) (int64, error) {
	const query = `DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`
	cmd, err := r.pool.Exec(ctx, query, userID, roleID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

// GrantBaseRoles links every role marked as part of the default set to the
// user. Existing links are left alone.
func (r *RoleRepository) GrantBaseRoles(ctx context.Context, userID int64) error {
	const query = `
		INSERT INTO user_roles (user_id, role_id, created_at)
		SELECT $1, id, NOW() FROM roles WHERE is_base = TRUE
		ON CONFLICT (user_id, role_id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query, userID)
	return err
}

// ListPermissionNames returns the permission tags reachable through the
// user's roles, used by the permission middleware.
func (r *RoleRepository) ListPermissionNames(ctx context.Context, userID int64) ([]string, error) {
	const query = `
		SELECT DISTINCT p.name
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		JOIN user_roles ur ON ur.role_id = rp.role_id
		WHERE ur.user_id = $1
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
