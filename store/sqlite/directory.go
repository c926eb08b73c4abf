package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/directory"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// execOne runs a single-row UPDATE/DELETE and maps zero affected rows to
// directory.ErrNotFound.
func execOne(ctx context.Context, db execer, what, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", what, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to %s: %w", what, err)
	}
	if n == 0 {
		return directory.ErrNotFound
	}
	return nil
}

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id > 0}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// ListEmployees returns all employees with role and site names, ordered by name.
func (s *Store) ListEmployees(ctx context.Context) ([]directory.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT e.id, e.name, e.last_name,
		       e.role_id, COALESCE(r.name, ''),
		       e.construction_site_id, COALESCE(cs.name, ''),
		       e.hourly_rate, e.status, e.fire_date, e.created_at, e.updated_at
		FROM employees e
		LEFT JOIN construction_sites cs ON e.construction_site_id = cs.id
		LEFT JOIN roles r ON e.role_id = r.id
		ORDER BY e.name, e.last_name
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []directory.Employee
	for rows.Next() {
		var (
			emp                directory.Employee
			roleID, siteID     sql.NullInt64
			rate, status       string
			fireDate           sql.NullString
			createdAt, updated string
		)
		if err := rows.Scan(&emp.ID, &emp.Name, &emp.LastName,
			&roleID, &emp.Role, &siteID, &emp.Site,
			&rate, &status, &fireDate, &createdAt, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		if roleID.Valid {
			emp.RoleID = &roleID.Int64
		}
		if siteID.Valid {
			emp.SiteID = &siteID.Int64
		}
		emp.HourlyRate, _ = decimal.NewFromString(rate)
		emp.Status = directory.Status(status)
		if fireDate.Valid {
			if d, err := time.Parse(dateLayout, fireDate.String); err == nil {
				emp.FireDate = &d
			}
		}
		emp.CreatedAt, _ = parseTime(createdAt)
		emp.UpdatedAt, _ = parseTime(updated)
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// CreateEmployee inserts an active employee and returns its ID.
func (s *Store) CreateEmployee(ctx context.Context, in directory.EmployeeInput) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.stamp()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (name, last_name, role_id, construction_site_id, hourly_rate, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 'active', ?, ?)`,
		in.Name, in.LastName, nullID(in.RoleID), nullID(in.SiteID), in.HourlyRate.StringFixed(2), now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create employee: %w", err)
	}
	return res.LastInsertId()
}

// UpdateEmployee replaces the editable fields of an employee.
func (s *Store) UpdateEmployee(ctx context.Context, id int64, in directory.EmployeeInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return execOne(ctx, s.db, "update employee", `
		UPDATE employees
		SET name = ?, last_name = ?, role_id = ?, construction_site_id = ?, hourly_rate = ?, updated_at = ?
		WHERE id = ?`,
		in.Name, in.LastName, nullID(in.RoleID), nullID(in.SiteID), in.HourlyRate.StringFixed(2), s.stamp(), id,
	)
}

// DeleteEmployee removes an employee. Their time entries cascade.
func (s *Store) DeleteEmployee(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return execOne(ctx, s.db, "delete employee", `DELETE FROM employees WHERE id = ?`, id)
}

// FireEmployee marks an employee inactive as of date.
func (s *Store) FireEmployee(ctx context.Context, id int64, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return execOne(ctx, s.db, "fire employee", `
		UPDATE employees SET status = 'inactive', fire_date = ?, updated_at = ? WHERE id = ?`,
		date.Format(dateLayout), s.stamp(), id,
	)
}

// HireEmployee reactivates an employee and clears the fire date.
func (s *Store) HireEmployee(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return execOne(ctx, s.db, "hire employee", `
		UPDATE employees SET status = 'active', fire_date = NULL, updated_at = ? WHERE id = ?`,
		s.stamp(), id,
	)
}

// =============================================================================
// CONSTRUCTION SITES
// =============================================================================

// ListSites returns all construction sites ordered by name.
func (s *Store) ListSites(ctx context.Context) ([]directory.Site, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, address, created_at, updated_at FROM construction_sites ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query construction sites: %w", err)
	}
	defer rows.Close()

	var sites []directory.Site
	for rows.Next() {
		var site directory.Site
		var createdAt, updatedAt string
		if err := rows.Scan(&site.ID, &site.Name, &site.Address, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan construction site: %w", err)
		}
		site.CreatedAt, _ = parseTime(createdAt)
		site.UpdatedAt, _ = parseTime(updatedAt)
		sites = append(sites, site)
	}
	return sites, rows.Err()
}

func (s *Store) CreateSite(ctx context.Context, name, address string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.stamp()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO construction_sites (name, address, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		name, address, now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create construction site: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) UpdateSite(ctx context.Context, id int64, name, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return execOne(ctx, s.db, "update construction site",
		`UPDATE construction_sites SET name = ?, address = ?, updated_at = ? WHERE id = ?`,
		name, address, s.stamp(), id,
	)
}

// DeleteSite clears employee references to the site, then deletes it.
func (s *Store) DeleteSite(ctx context.Context, id int64) error {
	return s.deleteReferenced(ctx, "construction site",
		`UPDATE employees SET construction_site_id = NULL WHERE construction_site_id = ?`,
		`DELETE FROM construction_sites WHERE id = ?`, id)
}

// =============================================================================
// ROLES
// =============================================================================

// ListRoles returns all roles ordered by name.
func (s *Store) ListRoles(ctx context.Context) ([]directory.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, created_at, updated_at FROM roles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles: %w", err)
	}
	defer rows.Close()

	var roles []directory.Role
	for rows.Next() {
		var r directory.Role
		var createdAt, updatedAt string
		if err := rows.Scan(&r.ID, &r.Name, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		r.CreatedAt, _ = parseTime(createdAt)
		r.UpdatedAt, _ = parseTime(updatedAt)
		roles = append(roles, r)
	}
	return roles, rows.Err()
}

func (s *Store) CreateRole(ctx context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.stamp()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO roles (name, created_at, updated_at) VALUES (?, ?, ?)`, name, now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to create role: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) UpdateRole(ctx context.Context, id int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return execOne(ctx, s.db, "update role",
		`UPDATE roles SET name = ?, updated_at = ? WHERE id = ?`, name, s.stamp(), id)
}

// DeleteRole clears employee references to the role, then deletes it.
func (s *Store) DeleteRole(ctx context.Context, id int64) error {
	return s.deleteReferenced(ctx, "role",
		`UPDATE employees SET role_id = NULL WHERE role_id = ?`,
		`DELETE FROM roles WHERE id = ?`, id)
}

// deleteReferenced nulls references and deletes the row in one transaction.
func (s *Store) deleteReferenced(ctx context.Context, what, unlink, del string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, unlink, id); err != nil {
		return fmt.Errorf("failed to unlink %s: %w", what, err)
	}
	if err := execOne(ctx, tx, "delete "+what, del, id); err != nil {
		return err
	}
	return tx.Commit()
}
