package leave

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/session"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/user"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tenantID      = "10000000-0000-0000-0000-000000000001"
	employeeA     = "20000000-0000-0000-0000-00000000000a"
	employeeB     = "20000000-0000-0000-0000-00000000000b"
	managerUserID = "30000000-0000-0000-0000-000000000001"
	annualTypeID  = "40000000-0000-0000-0000-000000000001"
)

// Mock repositories

type mockLeaveTypeRepo struct {
	types map[string]leave.LeaveType
}

func (m *mockLeaveTypeRepo) Create(ctx context.Context, lt leave.LeaveType) (leave.LeaveType, error) {
	m.types[lt.ID] = lt
	return lt, nil
}

func (m *mockLeaveTypeRepo) GetByID(ctx context.Context, id string) (leave.LeaveType, error) {
	if lt, ok := m.types[id]; ok {
		return lt, nil
	}
	return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
}

func (m *mockLeaveTypeRepo) List(ctx context.Context) ([]leave.LeaveType, error) {
	var out []leave.LeaveType
	for _, lt := range m.types {
		out = append(out, lt)
	}
	return out, nil
}

type mockBalanceRepo struct {
	balances []*leave.Balance
}

func (m *mockBalanceRepo) Create(ctx context.Context, b leave.Balance) (leave.Balance, error) {
	b.ID = uuid.NewString()
	b.CurrentBalance = b.EntitledDays.Sub(b.UsedDays)
	m.balances = append(m.balances, &b)
	return b, nil
}

func (m *mockBalanceRepo) Get(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.Balance, error) {
	for _, b := range m.balances {
		if b.EmployeeID == employeeID && b.LeaveTypeID == leaveTypeID && b.Year == year {
			return *b, nil
		}
	}
	return leave.Balance{}, leave.ErrBalanceNotFound
}

func (m *mockBalanceRepo) ListByEmployee(ctx context.Context, employeeID string, year int) ([]leave.Balance, error) {
	var out []leave.Balance
	for _, b := range m.balances {
		if b.EmployeeID == employeeID && b.Year == year {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *mockBalanceRepo) Adjust(ctx context.Context, balanceID string, days decimal.Decimal) error {
	for _, b := range m.balances {
		if b.ID == balanceID {
			if days.IsPositive() && b.CurrentBalance.LessThan(days) {
				return leave.ErrInsufficientBalance
			}
			b.CurrentBalance = b.CurrentBalance.Sub(days)
			b.UsedDays = b.UsedDays.Add(days)
			return nil
		}
	}
	return leave.ErrBalanceNotFound
}

type mockApplicationRepo struct {
	apps map[string]*leave.Application
}

func (m *mockApplicationRepo) Create(ctx context.Context, app leave.Application) (leave.Application, error) {
	app.ID = uuid.NewString()
	app.TenantID = tenantID
	m.apps[app.ID] = &app
	return app, nil
}

func (m *mockApplicationRepo) GetByID(ctx context.Context, id string) (leave.Application, error) {
	if a, ok := m.apps[id]; ok {
		return *a, nil
	}
	return leave.Application{}, leave.ErrApplicationNotFound
}

func (m *mockApplicationRepo) List(ctx context.Context, filter leave.ApplicationFilter) ([]leave.Application, error) {
	var out []leave.Application
	for _, a := range m.apps {
		if filter.EmployeeID != nil && a.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (m *mockApplicationRepo) UpdateStatus(ctx context.Context, app leave.Application, from leave.ApplicationStatus) error {
	stored, ok := m.apps[app.ID]
	if !ok {
		return leave.ErrApplicationNotFound
	}
	if stored.Status != from {
		return leave.ErrAlreadyProcessed
	}
	stored.Status = app.Status
	stored.DecidedBy = app.DecidedBy
	stored.DecidedAt = app.DecidedAt
	stored.RejectionReason = app.RejectionReason
	return nil
}

func (m *mockApplicationRepo) Delete(ctx context.Context, id string) error {
	a, ok := m.apps[id]
	if !ok || a.Status != leave.StatusSubmitted {
		return leave.ErrNotDeletable
	}
	delete(m.apps, id)
	return nil
}

type noopTransactor struct{}

func (noopTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Fixtures

type fixture struct {
	balances *mockBalanceRepo
	apps     *mockApplicationRepo
	svc      *LeaveServiceImpl
}

func newFixture(annualBalance int64) *fixture {
	types := &mockLeaveTypeRepo{types: map[string]leave.LeaveType{
		annualTypeID: {ID: annualTypeID, TenantID: tenantID, Code: "ANNUAL", Name: "Annual Leave", PolicyGroup: "default", IsActive: true},
	}}
	balances := &mockBalanceRepo{balances: []*leave.Balance{
		{
			ID:             "bal-a-2024",
			TenantID:       tenantID,
			EmployeeID:     employeeA,
			LeaveTypeID:    annualTypeID,
			Year:           2024,
			EntitledDays:   decimal.NewFromInt(annualBalance),
			CurrentBalance: decimal.NewFromInt(annualBalance),
		},
	}}
	apps := &mockApplicationRepo{apps: map[string]*leave.Application{}}

	svc := NewLeaveService(types, balances, apps, noopTransactor{})
	svc.now = func() time.Time { return time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC) }
	return &fixture{balances: balances, apps: apps, svc: svc}
}

func employeeCtx(employeeID string) context.Context {
	id := employeeID
	return session.NewContext(context.Background(), session.Session{
		ID:         "sess-" + employeeID,
		UserID:     "user-" + employeeID,
		TenantID:   tenantID,
		EmployeeID: &id,
		Role:       user.RoleEmployee,
	})
}

func managerCtx() context.Context {
	return session.NewContext(context.Background(), session.Session{
		ID:       "sess-manager",
		UserID:   managerUserID,
		TenantID: tenantID,
		Role:     user.RoleManager,
	})
}

func quoteReq(start, end string) leave.QuoteRequest {
	return leave.QuoteRequest{LeaveTypeID: annualTypeID, StartDate: start, EndDate: end}
}

func submit(t *testing.T, f *fixture, start, end string) leave.ApplicationResponse {
	t.Helper()
	resp, err := f.svc.Submit(employeeCtx(employeeA), leave.SubmitRequest{QuoteRequest: quoteReq(start, end), Reason: "family trip"})
	require.NoError(t, err)
	return resp
}

// Tests

func TestLeaveService_Quote_InsufficientBlocksSubmission(t *testing.T) {
	f := newFixture(3)
	ctx := employeeCtx(employeeA)

	quote, err := f.svc.Quote(ctx, quoteReq("2024-03-04", "2024-03-08"))
	require.NoError(t, err)
	assert.Equal(t, 5, quote.TotalDays)
	assert.Equal(t, 5, quote.WorkingDays)
	assert.True(t, quote.AvailableBalance.Equal(decimal.NewFromInt(3)))
	assert.False(t, quote.IsSufficient)

	_, err = f.svc.Submit(ctx, leave.SubmitRequest{QuoteRequest: quoteReq("2024-03-04", "2024-03-08")})
	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)
	assert.Empty(t, f.apps.apps)
}

func TestLeaveService_Submit_Success(t *testing.T) {
	f := newFixture(12)

	resp := submit(t, f, "2024-03-04", "2024-03-10")
	assert.Equal(t, leave.StatusSubmitted, resp.Status)
	assert.Equal(t, 7, resp.TotalDays)
	assert.Equal(t, 5, resp.WorkingDays)
	assert.Equal(t, employeeA, resp.EmployeeID)
	require.NotNil(t, resp.LeaveTypeName)
	assert.Equal(t, "Annual Leave", *resp.LeaveTypeName)

	// Submission alone does not touch the balance.
	assert.True(t, f.balances.balances[0].CurrentBalance.Equal(decimal.NewFromInt(12)))
}

func TestLeaveService_Submit_Rejections(t *testing.T) {
	f := newFixture(12)

	_, err := f.svc.Submit(employeeCtx(employeeA), leave.SubmitRequest{QuoteRequest: quoteReq("2024-03-09", "2024-03-10")})
	assert.ErrorIs(t, err, leave.ErrNoWorkingDays)

	// No balance row for this employee means zero available.
	_, err = f.svc.Submit(employeeCtx(employeeB), leave.SubmitRequest{QuoteRequest: quoteReq("2024-03-04", "2024-03-04")})
	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)

	_, err = f.svc.Submit(managerCtx(), leave.SubmitRequest{QuoteRequest: quoteReq("2024-03-04", "2024-03-04")})
	assert.ErrorIs(t, err, employee.ErrNoLinkedEmployee)

	_, err = f.svc.Submit(context.Background(), leave.SubmitRequest{QuoteRequest: quoteReq("2024-03-04", "2024-03-04")})
	assert.ErrorIs(t, err, session.ErrNoTenantContext)

	req := quoteReq("2024-03-04", "2024-03-04")
	req.LeaveTypeID = "50000000-0000-0000-0000-000000000001"
	_, err = f.svc.Submit(employeeCtx(employeeA), leave.SubmitRequest{QuoteRequest: req})
	assert.ErrorIs(t, err, leave.ErrLeaveTypeNotFound)
}

func TestLeaveService_AvailableBalance_MissingIsZero(t *testing.T) {
	f := newFixture(12)

	got, err := f.svc.AvailableBalance(context.Background(), employeeB, annualTypeID, 2024)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	got, err = f.svc.AvailableBalance(context.Background(), employeeA, annualTypeID, 2024)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(12)))
}

func TestLeaveService_ListBalances_DefaultsToCurrentYear(t *testing.T) {
	f := newFixture(12)

	balances, err := f.svc.ListBalances(employeeCtx(employeeA), 0)
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, 2024, balances[0].Year)

	balances, err = f.svc.ListBalances(employeeCtx(employeeA), 2023)
	require.NoError(t, err)
	assert.Empty(t, balances)
}

func TestLeaveService_Delete(t *testing.T) {
	f := newFixture(12)
	app := submit(t, f, "2024-03-04", "2024-03-05")

	err := f.svc.Delete(employeeCtx(employeeA), app.ID, false)
	assert.ErrorIs(t, err, leave.ErrConfirmationRequired)
	assert.Len(t, f.apps.apps, 1)

	err = f.svc.Delete(employeeCtx(employeeB), app.ID, true)
	assert.ErrorIs(t, err, leave.ErrApplicationNotFound)

	require.NoError(t, f.svc.Delete(employeeCtx(employeeA), app.ID, true))
	assert.Empty(t, f.apps.apps)
}

func TestLeaveService_Delete_OnlySubmitted(t *testing.T) {
	f := newFixture(12)
	app := submit(t, f, "2024-03-04", "2024-03-05")
	_, err := f.svc.Approve(managerCtx(), app.ID)
	require.NoError(t, err)

	err = f.svc.Delete(employeeCtx(employeeA), app.ID, true)
	assert.ErrorIs(t, err, leave.ErrNotDeletable)
}

func TestLeaveService_Approve_ConsumesBalance(t *testing.T) {
	f := newFixture(12)
	app := submit(t, f, "2024-03-04", "2024-03-08")

	_, err := f.svc.Approve(employeeCtx(employeeB), app.ID)
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	approved, err := f.svc.Approve(managerCtx(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, approved.Status)
	require.NotNil(t, approved.DecidedBy)
	assert.Equal(t, managerUserID, *approved.DecidedBy)

	b := f.balances.balances[0]
	assert.True(t, b.CurrentBalance.Equal(decimal.NewFromInt(7)))
	assert.True(t, b.UsedDays.Equal(decimal.NewFromInt(5)))

	_, err = f.svc.Approve(managerCtx(), app.ID)
	assert.ErrorIs(t, err, leave.ErrAlreadyProcessed)
	assert.True(t, b.CurrentBalance.Equal(decimal.NewFromInt(7)))
}

func TestLeaveService_Approve_RechecksBalance(t *testing.T) {
	f := newFixture(5)
	first := submit(t, f, "2024-03-04", "2024-03-08")
	second := submit(t, f, "2024-03-11", "2024-03-11")

	_, err := f.svc.Approve(managerCtx(), first.ID)
	require.NoError(t, err)

	_, err = f.svc.Approve(managerCtx(), second.ID)
	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)
	assert.Equal(t, leave.StatusSubmitted, f.apps.apps[second.ID].Status)
}

func TestLeaveService_Reject(t *testing.T) {
	f := newFixture(12)
	app := submit(t, f, "2024-03-04", "2024-03-05")

	_, err := f.svc.Reject(managerCtx(), app.ID, leave.RejectRequest{})
	require.Error(t, err)

	rejected, err := f.svc.Reject(managerCtx(), app.ID, leave.RejectRequest{Reason: "peak season"})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "peak season", *rejected.RejectionReason)

	_, err = f.svc.Cancel(employeeCtx(employeeA), app.ID)
	assert.ErrorIs(t, err, leave.ErrNotCancellable)
}

func TestLeaveService_Cancel_ApprovedRestoresBalance(t *testing.T) {
	f := newFixture(12)
	app := submit(t, f, "2024-03-04", "2024-03-08")
	_, err := f.svc.Approve(managerCtx(), app.ID)
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(employeeCtx(employeeA), app.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusCancelled, cancelled.Status)

	b := f.balances.balances[0]
	assert.True(t, b.CurrentBalance.Equal(decimal.NewFromInt(12)))
	assert.True(t, b.UsedDays.IsZero())

	_, err = f.svc.Cancel(employeeCtx(employeeA), app.ID)
	assert.ErrorIs(t, err, leave.ErrNotCancellable)
}

func TestLeaveService_ListTeamRequiresManager(t *testing.T) {
	f := newFixture(12)
	submit(t, f, "2024-03-04", "2024-03-05")

	_, err := f.svc.ListTeam(employeeCtx(employeeA), leave.ApplicationFilter{})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	pending := leave.StatusSubmitted
	apps, err := f.svc.ListTeam(managerCtx(), leave.ApplicationFilter{Status: &pending})
	require.NoError(t, err)
	assert.Len(t, apps, 1)

	mine, err := f.svc.ListMine(employeeCtx(employeeB), leave.ApplicationFilter{})
	require.NoError(t, err)
	assert.Empty(t, mine)
}
