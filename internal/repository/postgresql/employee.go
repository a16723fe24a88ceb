package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/user"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var employeeColumns = []string{
	"id", "tenant_id", "full_name", "employee_code", "department", "position", "created_at", "updated_at",
}

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.TenantID, &emp.FullName, &emp.EmployeeCode,
		&emp.Department, &emp.Position, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, err
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	scope, err := ScopeFromContext(ctx, r.db)
	if err != nil {
		return employee.Employee{}, err
	}

	created, err := scanEmployee(scope.Insert(ctx, TableEmployees, Values{
		"full_name":     e.FullName,
		"employee_code": e.EmployeeCode,
		"department":    e.Department,
		"position":      e.Position,
	}, employeeColumns...))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return created, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	scope, err := ScopeFromContext(ctx, r.db)
	if err != nil {
		return employee.Employee{}, err
	}
	return scanEmployee(scope.SelectOne(ctx, TableEmployees, employeeColumns, []Cond{Eq("id", id)}))
}

// ListTeam implements employee.EmployeeRepository. Logins are read separately
// and attached by employee_id.
func (r *employeeRepositoryImpl) ListTeam(ctx context.Context) ([]employee.TeamMember, error) {
	scope, err := ScopeFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	rows, err := scope.Select(ctx, TableEmployees, employeeColumns, nil, OrderBy("full_name", false))
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var members []employee.TeamMember
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, employee.TeamMember{Employee: emp})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	userRows, err := scope.Select(ctx, TableUsers, []string{"id", "employee_id", "email", "role"}, []Cond{Eq("is_active", true)})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer userRows.Close()

	type login struct {
		id    string
		email string
		role  user.Role
	}
	logins := make(map[string]login)
	for userRows.Next() {
		var (
			l          login
			employeeID *string
		)
		if err := userRows.Scan(&l.id, &employeeID, &l.email, &l.role); err != nil {
			return nil, err
		}
		if employeeID != nil {
			logins[*employeeID] = l
		}
	}
	if err := userRows.Err(); err != nil {
		return nil, err
	}

	for i := range members {
		if l, ok := logins[members[i].ID]; ok {
			members[i].UserID = &l.id
			members[i].Email = &l.email
			members[i].Role = &l.role
		}
	}
	return members, nil
}
