/*
directory.go - Employees, construction sites and roles

PURPOSE:
  The people and places side of the payroll system. None of it feeds the
  pay calculation: the engine computes across every stored punch and uses
  the single global rate. These records exist for administration only.

KEY TYPES:
  Employee: a worker with a role, a site and a per-employee rate
  Site:     a construction site (name + address)
  Role:     a job title

REFERENTIAL RULES:
  - Deleting a site or role clears the reference on employees first, in the
    same transaction, then removes the row.
  - Deleting an employee cascades to that employee's time entries.
  - Firing sets status inactive with a fire date; hiring reverses it.

SEE ALSO:
  - store/sqlite/directory.go, store/postgres/directory.go: implementations
  - seed/seed.go: default sites and roles
*/
package directory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when an update or delete targets a missing row.
var ErrNotFound = errors.New("record not found")

// Status is an employee's employment status.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Employee is a worker record. RoleID and SiteID are nil once the referenced
// role or site has been deleted.
type Employee struct {
	ID         int64
	Name       string
	LastName   string
	RoleID     *int64
	Role       string // role name, empty when unassigned
	SiteID     *int64
	Site       string // site name, empty when unassigned
	HourlyRate decimal.Decimal
	Status     Status
	FireDate   *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FullName returns "Name LastName".
func (e Employee) FullName() string {
	return strings.TrimSpace(e.Name + " " + e.LastName)
}

// Active reports whether the employee is currently employed.
func (e Employee) Active() bool { return e.Status == StatusActive }

// EmployeeInput carries the editable employee fields.
type EmployeeInput struct {
	Name       string
	LastName   string
	RoleID     int64
	SiteID     int64
	HourlyRate decimal.Decimal
}

type Site struct {
	ID        int64
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Role struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store persists directory records.
type Store interface {
	ListEmployees(ctx context.Context) ([]Employee, error)
	CreateEmployee(ctx context.Context, in EmployeeInput) (int64, error)
	UpdateEmployee(ctx context.Context, id int64, in EmployeeInput) error
	DeleteEmployee(ctx context.Context, id int64) error
	FireEmployee(ctx context.Context, id int64, date time.Time) error
	HireEmployee(ctx context.Context, id int64) error

	ListSites(ctx context.Context) ([]Site, error)
	CreateSite(ctx context.Context, name, address string) (int64, error)
	UpdateSite(ctx context.Context, id int64, name, address string) error
	DeleteSite(ctx context.Context, id int64) error

	ListRoles(ctx context.Context) ([]Role, error)
	CreateRole(ctx context.Context, name string) (int64, error)
	UpdateRole(ctx context.Context, id int64, name string) error
	DeleteRole(ctx context.Context, id int64) error
}
