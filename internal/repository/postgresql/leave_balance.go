package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

var leaveBalanceColumns = []string{
	"id", "tenant_id", "employee_id", "leave_type_id", "year", "entitled_days", "used_days", "current_balance",
}

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.BalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

func scanBalance(row pgx.Row) (leave.Balance, error) {
	var b leave.Balance
	err := row.Scan(
		&b.ID, &b.TenantID, &b.EmployeeID, &b.LeaveTypeID, &b.Year,
		&b.EntitledDays, &b.UsedDays, &b.CurrentBalance,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return leave.Balance{}, leave.ErrBalanceNotFound
	}
	return b, err
}

// Create implements leave.BalanceRepository. CurrentBalance starts at the
// entitlement less any used days.
func (r *leaveBalanceRepositoryImpl) Create(ctx context.Context, b leave.Balance) (leave.Balance, error) {
	scope, err := ScopeFromContext(ctx, r.db)
	if err != nil {
		return leave.Balance{}, err
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.CurrentBalance = b.EntitledDays.Sub(b.UsedDays)

	created, err := scanBalance(scope.Insert(ctx, TableLeaveBalances, Values{
		"id":              b.ID,
		"employee_id":     b.EmployeeID,
		"leave_type_id":   b.LeaveTypeID,
		"year":            b.Year,
		"entitled_days":   b.EntitledDays,
		"used_days":       b.UsedDays,
		"current_balance": b.CurrentBalance,
	}, leaveBalanceColumns...))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return leave.Balance{}, leave.ErrBalanceExists
		}
		return leave.Balance{}, fmt.Errorf("failed to create leave balance: %w", err)
	}
	return created, nil
}

// Get implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) Get(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.Balance, error) {
	scope, err := ScopeFromContext(ctx, r.db)
	if err != nil {
		return leave.Balance{}, err
	}
	return scanBalance(scope.SelectOne(ctx, TableLeaveBalances, leaveBalanceColumns, []Cond{
		Eq("employee_id", employeeID),
		Eq("leave_type_id", leaveTypeID),
		Eq("year", year),
	}))
}

// ListByEmployee implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, year int) ([]leave.Balance, error) {
	scope, err := ScopeFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	rows, err := scope.Select(ctx, TableLeaveBalances, leaveBalanceColumns, []Cond{
		Eq("employee_id", employeeID),
		Eq("year", year),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}
	defer rows.Close()

	var balances []leave.Balance
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	names, err := leaveTypeNames(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to load leave type names: %w", err)
	}
	for i := range balances {
		balances[i].LeaveTypeName = lookupName(names, balances[i].LeaveTypeID)
	}
	return balances, nil
}

// Adjust implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) Adjust(ctx context.Context, balanceID string, days decimal.Decimal) error {
	scope, err := ScopeFromContext(ctx, r.db)
	if err != nil {
		return err
	}
	where := []Cond{Eq("id", balanceID)}
	if days.IsPositive() {
		// Guards against two approvals racing for the same days.
		where = append(where, Gte("current_balance", days))
	}
	n, err := scope.Update(ctx, TableLeaveBalances, Values{
		"current_balance": Inc{By: days.Neg()},
		"used_days":       Inc{By: days},
	}, where)
	if err != nil {
		return fmt.Errorf("failed to adjust leave balance %s: %w", balanceID, err)
	}
	if n == 0 {
		if days.IsPositive() {
			return leave.ErrInsufficientBalance
		}
		return leave.ErrBalanceNotFound
	}
	return nil
}
