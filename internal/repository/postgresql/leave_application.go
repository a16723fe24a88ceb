package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var leaveApplicationColumns = []string{
	"id", "tenant_id", "employee_id", "leave_type_id", "start_date", "end_date",
	"total_days", "working_days", "reason", "status", "applied_at",
	"decided_by", "decided_at", "rejection_reason",
}

type leaveApplicationRepositoryImpl struct {
	db *database.DB
}

func NewLeaveApplicationRepository(db *database.DB) leave.ApplicationRepository {
	return &leaveApplicationRepositoryImpl{db: db}
}

func scanApplication(row pgx.Row) (leave.Application, error) {
	var app leave.Application
	err := row.Scan(
		&app.ID, &app.TenantID, &app.EmployeeID, &app.LeaveTypeID, &app.StartDate, &app.EndDate,
		&app.TotalDays, &app.WorkingDays, &app.Reason, &app.Status, &app.AppliedAt,
		&app.DecidedBy, &app.DecidedAt, &app.RejectionReason,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return leave.Application{}, leave.ErrApplicationNotFound
	}
	return app, err
}

// Create implements leave.ApplicationRepository.
func (r *leaveApplicationRepositoryImpl) Create(ctx context.Context, app leave.Application) (leave.Application, error) {
	scope, err := ScopeFromContext(ctx, r.db)
	if err != nil {
		return leave.Application{}, err
	}
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.AppliedAt.IsZero() {
		app.AppliedAt = time.Now()
	}

	created, err := scanApplication(scope.Insert(ctx, TableLeaveApplications, Values{
		"id":            app.ID,
		"employee_id":   app.EmployeeID,
		"leave_type_id": app.LeaveTypeID,
		"start_date":    app.StartDate,
		"end_date":      app.EndDate,
		"total_days":    app.TotalDays,
		"working_days":  app.WorkingDays,
		"reason":        app.Reason,
		"status":        app.Status,
		"applied_at":    app.AppliedAt.UTC(),
	}, leaveApplicationColumns...))
	if err != nil {
		return leave.Application{}, fmt.Errorf("failed to create leave application: %w", err)
	}
	created.LeaveTypeName = app.LeaveTypeName
	created.EmployeeName = app.EmployeeName
	return created, nil
}

// GetByID implements leave.ApplicationRepository.
func (r *leaveApplicationRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Application, error) {
	scope, err := ScopeFromContext(ctx, r.db)
	if err != nil {
		return leave.Application{}, err
	}
	app, err := scanApplication(scope.SelectOne(ctx, TableLeaveApplications, leaveApplicationColumns, []Cond{Eq("id", id)}))
	if err != nil {
		return leave.Application{}, err
	}

	apps := []leave.Application{app}
	if err := attachApplicationNames(ctx, scope, apps); err != nil {
		return leave.Application{}, err
	}
	return apps[0], nil
}

// List implements leave.ApplicationRepository. Newest start date first.
func (r *leaveApplicationRepositoryImpl) List(ctx context.Context, filter leave.ApplicationFilter) ([]leave.Application, error) {
	scope, err := ScopeFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var where []Cond
	if filter.EmployeeID != nil {
		where = append(where, Eq("employee_id", *filter.EmployeeID))
	}
	if filter.Status != nil {
		where = append(where, Eq("status", *filter.Status))
	}
	if filter.Year != nil {
		from := time.Date(*filter.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		where = append(where, Gte("start_date", from), Lt("start_date", from.AddDate(1, 0, 0)))
	}

	rows, err := scope.Select(ctx, TableLeaveApplications, leaveApplicationColumns, where,
		OrderBy("start_date", true), OrderBy("applied_at", true))
	if err != nil {
		return nil, fmt.Errorf("failed to list leave applications: %w", err)
	}
	defer rows.Close()

	var apps []leave.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := attachApplicationNames(ctx, scope, apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// UpdateStatus implements leave.ApplicationRepository.
func (r *leaveApplicationRepositoryImpl) UpdateStatus(ctx context.Context, app leave.Application, from leave.ApplicationStatus) error {
	scope, err := ScopeFromContext(ctx, r.db)
	if err != nil {
		return err
	}
	n, err := scope.Update(ctx, TableLeaveApplications, Values{
		"status":           app.Status,
		"decided_by":       app.DecidedBy,
		"decided_at":       app.DecidedAt,
		"rejection_reason": app.RejectionReason,
	}, []Cond{Eq("id", app.ID), Eq("status", from)})
	if err != nil {
		return fmt.Errorf("failed to update leave application %s: %w", app.ID, err)
	}
	if n == 0 {
		return leave.ErrAlreadyProcessed
	}
	return nil
}

// Delete implements leave.ApplicationRepository. Only submitted applications
// are removed; anything else reports not deletable.
func (r *leaveApplicationRepositoryImpl) Delete(ctx context.Context, id string) error {
	scope, err := ScopeFromContext(ctx, r.db)
	if err != nil {
		return err
	}
	n, err := scope.Delete(ctx, TableLeaveApplications, []Cond{
		Eq("id", id),
		Eq("status", leave.StatusSubmitted),
	})
	if err != nil {
		return fmt.Errorf("failed to delete leave application %s: %w", id, err)
	}
	if n == 0 {
		return leave.ErrNotDeletable
	}
	return nil
}

func attachApplicationNames(ctx context.Context, scope *Scope, apps []leave.Application) error {
	if len(apps) == 0 {
		return nil
	}
	typeNames, err := leaveTypeNames(ctx, scope)
	if err != nil {
		return fmt.Errorf("failed to load leave type names: %w", err)
	}
	employeeNames, err := employeeNames(ctx, scope)
	if err != nil {
		return fmt.Errorf("failed to load employee names: %w", err)
	}
	for i := range apps {
		apps[i].LeaveTypeName = lookupName(typeNames, apps[i].LeaveTypeID)
		apps[i].EmployeeName = lookupName(employeeNames, apps[i].EmployeeID)
	}
	return nil
}

func employeeNames(ctx context.Context, scope *Scope) (map[string]string, error) {
	rows, err := scope.Select(ctx, TableEmployees, []string{"id", "full_name"}, nil)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make(map[string]string)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}
	return names, rows.Err()
}
