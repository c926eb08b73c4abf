package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/directory"
)

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// execOne maps zero affected rows to directory.ErrNotFound.
func execOne(ctx context.Context, db execer, what, query string, args ...any) error {
	tag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", what, err)
	}
	if tag.RowsAffected() == 0 {
		return directory.ErrNotFound
	}
	return nil
}

func nullID(id int64) *int64 {
	if id <= 0 {
		return nil
	}
	return &id
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (s *Store) ListEmployees(ctx context.Context) ([]directory.Employee, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT e.id, e.name, e.last_name,
		       e.role_id, COALESCE(r.name, ''),
		       e.construction_site_id, COALESCE(cs.name, ''),
		       e.hourly_rate::text, e.status, e.fire_date, e.created_at, e.updated_at
		FROM employees e
		LEFT JOIN construction_sites cs ON e.construction_site_id = cs.id
		LEFT JOIN roles r ON e.role_id = r.id
		ORDER BY e.name, e.last_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}

	employees, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (directory.Employee, error) {
		var (
			emp            directory.Employee
			roleID, siteID *int32
			rate, status   string
		)
		err := row.Scan(&emp.ID, &emp.Name, &emp.LastName,
			&roleID, &emp.Role, &siteID, &emp.Site,
			&rate, &status, &emp.FireDate, &emp.CreatedAt, &emp.UpdatedAt)
		if err != nil {
			return emp, err
		}
		if roleID != nil {
			id := int64(*roleID)
			emp.RoleID = &id
		}
		if siteID != nil {
			id := int64(*siteID)
			emp.SiteID = &id
		}
		emp.HourlyRate, _ = decimal.NewFromString(rate)
		emp.Status = directory.Status(status)
		return emp, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan employees: %w", err)
	}
	return employees, nil
}

func (s *Store) CreateEmployee(ctx context.Context, in directory.EmployeeInput) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO employees (name, last_name, role_id, construction_site_id, hourly_rate)
		VALUES ($1, $2, $3, $4, $5::text::numeric) RETURNING id`,
		in.Name, in.LastName, nullID(in.RoleID), nullID(in.SiteID), in.HourlyRate.StringFixed(2),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create employee: %w", err)
	}
	return id, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, id int64, in directory.EmployeeInput) error {
	return execOne(ctx, s.pool, "update employee", `
		UPDATE employees
		SET name = $1, last_name = $2, role_id = $3, construction_site_id = $4,
		    hourly_rate = $5::text::numeric, updated_at = NOW()
		WHERE id = $6`,
		in.Name, in.LastName, nullID(in.RoleID), nullID(in.SiteID), in.HourlyRate.StringFixed(2), id,
	)
}

func (s *Store) DeleteEmployee(ctx context.Context, id int64) error {
	return execOne(ctx, s.pool, "delete employee", `DELETE FROM employees WHERE id = $1`, id)
}

func (s *Store) FireEmployee(ctx context.Context, id int64, date time.Time) error {
	return execOne(ctx, s.pool, "fire employee", `
		UPDATE employees SET status = 'inactive', fire_date = $2, updated_at = NOW() WHERE id = $1`,
		id, date.UTC(),
	)
}

func (s *Store) HireEmployee(ctx context.Context, id int64) error {
	return execOne(ctx, s.pool, "hire employee", `
		UPDATE employees SET status = 'active', fire_date = NULL, updated_at = NOW() WHERE id = $1`, id)
}

// =============================================================================
// CONSTRUCTION SITES
// =============================================================================

func (s *Store) ListSites(ctx context.Context) ([]directory.Site, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, address, created_at, updated_at FROM construction_sites ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query construction sites: %w", err)
	}
	sites, err := pgx.CollectRows(rows, pgx.RowToStructByPos[directory.Site])
	if err != nil {
		return nil, fmt.Errorf("failed to scan construction sites: %w", err)
	}
	return sites, nil
}

func (s *Store) CreateSite(ctx context.Context, name, address string) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO construction_sites (name, address) VALUES ($1, $2) RETURNING id`, name, address,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create construction site: %w", err)
	}
	return id, nil
}

func (s *Store) UpdateSite(ctx context.Context, id int64, name, address string) error {
	return execOne(ctx, s.pool, "update construction site",
		`UPDATE construction_sites SET name = $2, address = $3, updated_at = NOW() WHERE id = $1`,
		id, name, address)
}

func (s *Store) DeleteSite(ctx context.Context, id int64) error {
	return s.deleteReferenced(ctx, "construction site",
		`UPDATE employees SET construction_site_id = NULL WHERE construction_site_id = $1`,
		`DELETE FROM construction_sites WHERE id = $1`, id)
}

// =============================================================================
// ROLES
// =============================================================================

func (s *Store) ListRoles(ctx context.Context) ([]directory.Role, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, created_at, updated_at FROM roles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles: %w", err)
	}
	roles, err := pgx.CollectRows(rows, pgx.RowToStructByPos[directory.Role])
	if err != nil {
		return nil, fmt.Errorf("failed to scan roles: %w", err)
	}
	return roles, nil
}

func (s *Store) CreateRole(ctx context.Context, name string) (int64, error) {
	var id int64
	if err := s.pool.QueryRow(ctx, `INSERT INTO roles (name) VALUES ($1) RETURNING id`, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to create role: %w", err)
	}
	return id, nil
}

func (s *Store) UpdateRole(ctx context.Context, id int64, name string) error {
	return execOne(ctx, s.pool, "update role",
		`UPDATE roles SET name = $2, updated_at = NOW() WHERE id = $1`, id, name)
}

func (s *Store) DeleteRole(ctx context.Context, id int64) error {
	return s.deleteReferenced(ctx, "role",
		`UPDATE employees SET role_id = NULL WHERE role_id = $1`,
		`DELETE FROM roles WHERE id = $1`, id)
}

// deleteReferenced nulls references and deletes the row in one transaction.
func (s *Store) deleteReferenced(ctx context.Context, what, unlink, del string, id int64) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, unlink, id); err != nil {
			return fmt.Errorf("failed to unlink %s: %w", what, err)
		}
		return execOne(ctx, tx, "delete "+what, del, id)
	})
}
