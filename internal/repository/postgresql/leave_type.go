package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var leaveTypeColumns = []string{"id", "tenant_id", "code", "name", "policy_group", "is_active", "created_at"}

type leaveTypeRepositoryImpl struct {
	db *database.DB
}

func NewLeaveTypeRepository(db *database.DB) leave.LeaveTypeRepository {
	return &leaveTypeRepositoryImpl{db: db}
}

func scanLeaveType(row pgx.Row) (leave.LeaveType, error) {
	var lt leave.LeaveType
	err := row.Scan(&lt.ID, &lt.TenantID, &lt.Code, &lt.Name, &lt.PolicyGroup, &lt.IsActive, &lt.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return lt, err
}

// Create implements leave.LeaveTypeRepository.
func (r *leaveTypeRepositoryImpl) Create(ctx context.Context, leaveType leave.LeaveType) (leave.LeaveType, error) {
	scope, err := ScopeFromContext(ctx, r.db)
	if err != nil {
		return leave.LeaveType{}, err
	}
	if leaveType.ID == "" {
		leaveType.ID = uuid.NewString()
	}
	policyGroup := leaveType.PolicyGroup
	if policyGroup == "" {
		policyGroup = "default"
	}

	created, err := scanLeaveType(scope.Insert(ctx, TableLeaveTypes, Values{
		"id":           leaveType.ID,
		"code":         leaveType.Code,
		"name":         leaveType.Name,
		"policy_group": policyGroup,
		"is_active":    leaveType.IsActive,
	}, leaveTypeColumns...))
	if err != nil {
		return leave.LeaveType{}, fmt.Errorf("failed to create leave type %s: %w", leaveType.Code, err)
	}
	return created, nil
}

// GetByID implements leave.LeaveTypeRepository.
func (r *leaveTypeRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveType, error) {
	scope, err := ScopeFromContext(ctx, r.db)
	if err != nil {
		return leave.LeaveType{}, err
	}
	return scanLeaveType(scope.SelectOne(ctx, TableLeaveTypes, leaveTypeColumns, []Cond{Eq("id", id)}))
}

// List implements leave.LeaveTypeRepository. Only active types are returned.
func (r *leaveTypeRepositoryImpl) List(ctx context.Context) ([]leave.LeaveType, error) {
	scope, err := ScopeFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}
	rows, err := scope.Select(ctx, TableLeaveTypes, leaveTypeColumns, []Cond{Eq("is_active", true)}, OrderBy("name", false))
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}
	defer rows.Close()

	var types []leave.LeaveType
	for rows.Next() {
		lt, err := scanLeaveType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, lt)
	}
	return types, rows.Err()
}

// leaveTypeNames maps leave type ids to names for the current tenant.
func leaveTypeNames(ctx context.Context, scope *Scope) (map[string]string, error) {
	rows, err := scope.Select(ctx, TableLeaveTypes, []string{"id", "name"}, nil)
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

func lookupName(names map[string]string, id string) *string {
	if name, ok := names[id]; ok {
		return &name
	}
	return nil
}
