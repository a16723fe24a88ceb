package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/clock"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/session"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/tenant"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/user"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tenantFixture struct {
	ctx        context.Context
	tenantID   string
	employeeID string
}

func createTenant(t *testing.T, setup *TestDatabaseSetup, name string) tenantFixture {
	t.Helper()
	ctx := context.Background()

	created, err := postgresql.NewTenantRepository(setup.DB).Create(ctx, tenant.Tenant{
		Name:   name,
		Plan:   tenant.PlanTrial,
		Status: tenant.StatusTrial,
	})
	require.NoError(t, err)

	scoped := session.NewContext(ctx, session.Session{
		ID:       "provisional",
		UserID:   "provisional",
		TenantID: created.ID,
		Role:     user.RoleOwner,
	})
	emp, err := postgresql.NewEmployeeRepository(setup.DB).Create(scoped, employee.Employee{
		FullName:     name + " Owner",
		EmployeeCode: "EMP-0001",
	})
	require.NoError(t, err)

	empID := emp.ID
	scoped = session.NewContext(ctx, session.Session{
		ID:         "provisional",
		UserID:     "provisional",
		TenantID:   created.ID,
		EmployeeID: &empID,
		Role:       user.RoleOwner,
	})
	return tenantFixture{ctx: scoped, tenantID: created.ID, employeeID: emp.ID}
}

func TestTenantIsolation_Employees(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewEmployeeRepository(setup.DB)

	a := createTenant(t, setup, "Acme")
	b := createTenant(t, setup, "Globex")

	_, err := repo.GetByID(a.ctx, b.employeeID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	got, err := repo.GetByID(b.ctx, b.employeeID)
	require.NoError(t, err)
	assert.Equal(t, b.tenantID, got.TenantID)

	team, err := repo.ListTeam(a.ctx)
	require.NoError(t, err)
	require.Len(t, team, 1)
	assert.Equal(t, a.employeeID, team[0].ID)
}

func TestTenantIsolation_SameEmployeeCodeInTwoTenants(t *testing.T) {
	setup := NewTestDatabase(t)
	a := createTenant(t, setup, "Acme")
	b := createTenant(t, setup, "Globex")

	// Both fixtures use EMP-0001; a second one in the same tenant must fail.
	assert.NotEqual(t, a.employeeID, b.employeeID)
	_, err := postgresql.NewEmployeeRepository(setup.DB).Create(a.ctx, employee.Employee{
		FullName:     "Duplicate",
		EmployeeCode: "EMP-0001",
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)
}

func TestTenantIsolation_LeaveData(t *testing.T) {
	setup := NewTestDatabase(t)
	types := postgresql.NewLeaveTypeRepository(setup.DB)
	balances := postgresql.NewLeaveBalanceRepository(setup.DB)

	a := createTenant(t, setup, "Acme")
	b := createTenant(t, setup, "Globex")

	annual, err := types.Create(a.ctx, leave.LeaveType{Code: "ANNUAL", Name: "Annual Leave", PolicyGroup: "default", IsActive: true})
	require.NoError(t, err)
	_, err = balances.Create(a.ctx, leave.Balance{
		EmployeeID:   a.employeeID,
		LeaveTypeID:  annual.ID,
		Year:         2024,
		EntitledDays: decimal.NewFromInt(12),
		UsedDays:     decimal.Zero,
	})
	require.NoError(t, err)

	_, err = types.GetByID(b.ctx, annual.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveTypeNotFound)

	listB, err := types.List(b.ctx)
	require.NoError(t, err)
	assert.Empty(t, listB)

	_, err = balances.Get(b.ctx, a.employeeID, annual.ID, 2024)
	assert.ErrorIs(t, err, leave.ErrBalanceNotFound)

	bal, err := balances.Get(a.ctx, a.employeeID, annual.ID, 2024)
	require.NoError(t, err)
	assert.True(t, bal.CurrentBalance.Equal(decimal.NewFromInt(12)))

	assert.ErrorIs(t, balances.Adjust(a.ctx, bal.ID, decimal.NewFromInt(13)), leave.ErrInsufficientBalance)
	require.NoError(t, balances.Adjust(a.ctx, bal.ID, decimal.NewFromInt(2)))

	bal, err = balances.Get(a.ctx, a.employeeID, annual.ID, 2024)
	require.NoError(t, err)
	assert.True(t, bal.CurrentBalance.Equal(decimal.NewFromInt(10)))
	assert.True(t, bal.UsedDays.Equal(decimal.NewFromInt(2)))
}

func TestTenantIsolation_ClockEvents(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewClockEventRepository(setup.DB)

	a := createTenant(t, setup, "Acme")
	b := createTenant(t, setup, "Globex")

	at := time.Date(2024, 3, 4, 2, 0, 0, 0, time.UTC)
	_, err := repo.Create(a.ctx, clock.Event{
		EmployeeID: a.employeeID,
		Type:       clock.EventClockIn,
		EventTime:  at,
		Source:     clock.SourceMobileWeb,
	})
	require.NoError(t, err)

	from, to := at.Add(-time.Hour), at.Add(time.Hour)
	events, err := repo.ListByEmployee(a.ctx, a.employeeID, from, to)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, a.tenantID, events[0].TenantID)

	events, err = repo.ListByEmployee(b.ctx, a.employeeID, from, to)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestTenantIsolation_NoSessionIsRejected(t *testing.T) {
	setup := NewTestDatabase(t)

	_, err := postgresql.NewEmployeeRepository(setup.DB).ListTeam(context.Background())
	assert.ErrorIs(t, err, session.ErrNoTenantContext)

	_, err = postgresql.NewLeaveTypeRepository(setup.DB).List(context.Background())
	assert.ErrorIs(t, err, session.ErrNoTenantContext)
}
