package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/session"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/user"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/database"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type LeaveServiceImpl struct {
	types        leave.LeaveTypeRepository
	balances     leave.BalanceRepository
	applications leave.ApplicationRepository
	transactor   database.Transactor
	now          func() time.Time
}

var _ leave.LeaveService = (*LeaveServiceImpl)(nil)

func NewLeaveService(
	types leave.LeaveTypeRepository,
	balances leave.BalanceRepository,
	applications leave.ApplicationRepository,
	transactor database.Transactor,
) *LeaveServiceImpl {
	return &LeaveServiceImpl{
		types:        types,
		balances:     balances,
		applications: applications,
		transactor:   transactor,
		now:          time.Now,
	}
}

// currentEmployee returns the session and the employee it is linked to.
func currentEmployee(ctx context.Context) (session.Session, string, error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return session.Session{}, "", session.ErrNoTenantContext
	}
	if !sess.HasEmployee() {
		return session.Session{}, "", employee.ErrNoLinkedEmployee
	}
	return sess, *sess.EmployeeID, nil
}

func requirePermission(ctx context.Context, permission user.Permission) (session.Session, error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return session.Session{}, session.ErrNoTenantContext
	}
	if !user.HasPermission(sess.Role, permission) {
		return session.Session{}, user.ErrInsufficientPermissions
	}
	return sess, nil
}

// ListTypes implements leave.LeaveService.
func (s *LeaveServiceImpl) ListTypes(ctx context.Context) ([]leave.LeaveTypeResponse, error) {
	types, err := s.types.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}

	resp := make([]leave.LeaveTypeResponse, 0, len(types))
	for _, lt := range types {
		resp = append(resp, leave.LeaveTypeResponse{
			ID:          lt.ID,
			Code:        lt.Code,
			Name:        lt.Name,
			PolicyGroup: lt.PolicyGroup,
		})
	}
	return resp, nil
}

// ListBalances implements leave.LeaveService. A zero year means the current one.
func (s *LeaveServiceImpl) ListBalances(ctx context.Context, year int) ([]leave.BalanceResponse, error) {
	_, employeeID, err := currentEmployee(ctx)
	if err != nil {
		return nil, err
	}
	if year == 0 {
		year = s.now().Year()
	}

	balances, err := s.balances.ListByEmployee(ctx, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}

	resp := make([]leave.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		resp = append(resp, leave.NewBalanceResponse(b))
	}
	return resp, nil
}

// AvailableBalance implements leave.LeaveService. A missing balance row
// counts as zero days.
func (s *LeaveServiceImpl) AvailableBalance(ctx context.Context, employeeID, leaveTypeID string, year int) (decimal.Decimal, error) {
	b, err := s.balances.Get(ctx, employeeID, leaveTypeID, year)
	if err != nil {
		if errors.Is(err, leave.ErrBalanceNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return b.CurrentBalance, nil
}

// Quote implements leave.LeaveService. It is advisory only; the balance is
// checked again on approval.
func (s *LeaveServiceImpl) Quote(ctx context.Context, req leave.QuoteRequest) (leave.QuoteResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.QuoteResponse{}, err
	}
	_, employeeID, err := currentEmployee(ctx)
	if err != nil {
		return leave.QuoteResponse{}, err
	}
	quote, _, err := s.quote(ctx, employeeID, req)
	return quote, err
}

func (s *LeaveServiceImpl) quote(ctx context.Context, employeeID string, req leave.QuoteRequest) (leave.QuoteResponse, leave.LeaveType, error) {
	leaveType, err := s.types.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		return leave.QuoteResponse{}, leave.LeaveType{}, fmt.Errorf("failed to get leave type: %w", err)
	}

	start, end := req.Range()
	// Balances are per calendar year; a range crossing New Year draws on the
	// year it starts in.
	year := start.Year()
	available, err := s.AvailableBalance(ctx, employeeID, leaveType.ID, year)
	if err != nil {
		return leave.QuoteResponse{}, leave.LeaveType{}, err
	}

	workingDays := WorkingDays(start, end)
	return leave.QuoteResponse{
		LeaveTypeID:      leaveType.ID,
		StartDate:        start.Format(validator.DateLayout),
		EndDate:          end.Format(validator.DateLayout),
		Year:             year,
		TotalDays:        TotalDays(start, end),
		WorkingDays:      workingDays,
		AvailableBalance: available,
		IsSufficient:     IsSufficient(workingDays, available),
	}, leaveType, nil
}

// Submit implements leave.LeaveService.
func (s *LeaveServiceImpl) Submit(ctx context.Context, req leave.SubmitRequest) (leave.ApplicationResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.ApplicationResponse{}, err
	}
	_, employeeID, err := currentEmployee(ctx)
	if err != nil {
		return leave.ApplicationResponse{}, err
	}

	quote, leaveType, err := s.quote(ctx, employeeID, req.QuoteRequest)
	if err != nil {
		return leave.ApplicationResponse{}, err
	}
	if quote.WorkingDays == 0 {
		return leave.ApplicationResponse{}, leave.ErrNoWorkingDays
	}
	if !quote.IsSufficient {
		return leave.ApplicationResponse{}, leave.ErrInsufficientBalance
	}

	start, end := req.Range()
	app := leave.Application{
		EmployeeID:    employeeID,
		LeaveTypeID:   leaveType.ID,
		StartDate:     start,
		EndDate:       end,
		TotalDays:     quote.TotalDays,
		WorkingDays:   quote.WorkingDays,
		Reason:        req.Reason,
		Status:        leave.StatusSubmitted,
		AppliedAt:     s.now(),
		LeaveTypeName: &leaveType.Name,
	}

	created, err := s.applications.Create(ctx, app)
	if err != nil {
		return leave.ApplicationResponse{}, fmt.Errorf("failed to create leave application: %w", err)
	}
	return leave.NewApplicationResponse(created), nil
}

// ListMine implements leave.LeaveService.
func (s *LeaveServiceImpl) ListMine(ctx context.Context, filter leave.ApplicationFilter) ([]leave.ApplicationResponse, error) {
	_, employeeID, err := currentEmployee(ctx)
	if err != nil {
		return nil, err
	}
	filter.EmployeeID = &employeeID
	return s.list(ctx, filter)
}

func (s *LeaveServiceImpl) list(ctx context.Context, filter leave.ApplicationFilter) ([]leave.ApplicationResponse, error) {
	apps, err := s.applications.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave applications: %w", err)
	}
	resp := make([]leave.ApplicationResponse, 0, len(apps))
	for _, a := range apps {
		resp = append(resp, leave.NewApplicationResponse(a))
	}
	return resp, nil
}

// GetMine implements leave.LeaveService.
func (s *LeaveServiceImpl) GetMine(ctx context.Context, id string) (leave.ApplicationResponse, error) {
	app, err := s.getOwn(ctx, id)
	if err != nil {
		return leave.ApplicationResponse{}, err
	}
	return leave.NewApplicationResponse(app), nil
}

// getOwn hides other employees' applications behind not found.
func (s *LeaveServiceImpl) getOwn(ctx context.Context, id string) (leave.Application, error) {
	_, employeeID, err := currentEmployee(ctx)
	if err != nil {
		return leave.Application{}, err
	}
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return leave.Application{}, err
	}
	if app.EmployeeID != employeeID {
		return leave.Application{}, leave.ErrApplicationNotFound
	}
	return app, nil
}

// Delete implements leave.LeaveService. Nothing is sent to the store unless
// the caller confirmed.
func (s *LeaveServiceImpl) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return leave.ErrConfirmationRequired
	}
	app, err := s.getOwn(ctx, id)
	if err != nil {
		return err
	}
	if !app.CanDelete() {
		return leave.ErrNotDeletable
	}
	if err := s.applications.Delete(ctx, app.ID); err != nil {
		return err
	}
	slog.Info("Leave application deleted", "application_id", app.ID, "employee_id", app.EmployeeID)
	return nil
}

// Cancel implements leave.LeaveService. Cancelling an approved application
// gives its working days back to the balance.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, id string) (leave.ApplicationResponse, error) {
	app, err := s.getOwn(ctx, id)
	if err != nil {
		return leave.ApplicationResponse{}, err
	}
	if !app.CanCancel() {
		return leave.ApplicationResponse{}, leave.ErrNotCancellable
	}

	from := app.Status
	app.Status = leave.StatusCancelled

	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.applications.UpdateStatus(txCtx, app, from); err != nil {
			return err
		}
		if from != leave.StatusApproved {
			return nil
		}
		balance, err := s.balances.Get(txCtx, app.EmployeeID, app.LeaveTypeID, app.StartDate.Year())
		if err != nil {
			return fmt.Errorf("failed to get leave balance: %w", err)
		}
		return s.balances.Adjust(txCtx, balance.ID, decimal.NewFromInt(int64(-app.WorkingDays)))
	})
	if err != nil {
		return leave.ApplicationResponse{}, err
	}
	return leave.NewApplicationResponse(app), nil
}

// ListTeam implements leave.LeaveService.
func (s *LeaveServiceImpl) ListTeam(ctx context.Context, filter leave.ApplicationFilter) ([]leave.ApplicationResponse, error) {
	if _, err := requirePermission(ctx, user.PermissionLeaveViewAll); err != nil {
		return nil, err
	}
	return s.list(ctx, filter)
}

// Approve implements leave.LeaveService. The balance is re-checked and
// consumed in the same transaction as the status change.
func (s *LeaveServiceImpl) Approve(ctx context.Context, id string) (leave.ApplicationResponse, error) {
	sess, err := requirePermission(ctx, user.PermissionLeaveApprove)
	if err != nil {
		return leave.ApplicationResponse{}, err
	}

	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return leave.ApplicationResponse{}, err
	}
	if !app.IsPending() {
		return leave.ApplicationResponse{}, leave.ErrAlreadyProcessed
	}

	now := s.now()
	app.Status = leave.StatusApproved
	app.DecidedBy = &sess.UserID
	app.DecidedAt = &now

	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		balance, err := s.balances.Get(txCtx, app.EmployeeID, app.LeaveTypeID, app.StartDate.Year())
		if err != nil {
			if errors.Is(err, leave.ErrBalanceNotFound) {
				return leave.ErrInsufficientBalance
			}
			return fmt.Errorf("failed to get leave balance: %w", err)
		}
		if !IsSufficient(app.WorkingDays, balance.CurrentBalance) {
			return leave.ErrInsufficientBalance
		}
		if err := s.applications.UpdateStatus(txCtx, app, leave.StatusSubmitted); err != nil {
			return err
		}
		return s.balances.Adjust(txCtx, balance.ID, decimal.NewFromInt(int64(app.WorkingDays)))
	})
	if err != nil {
		return leave.ApplicationResponse{}, err
	}

	slog.Info("Leave application approved", "application_id", app.ID, "approver_id", sess.UserID, "working_days", app.WorkingDays)
	return leave.NewApplicationResponse(app), nil
}

// Reject implements leave.LeaveService.
func (s *LeaveServiceImpl) Reject(ctx context.Context, id string, req leave.RejectRequest) (leave.ApplicationResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.ApplicationResponse{}, err
	}
	sess, err := requirePermission(ctx, user.PermissionLeaveApprove)
	if err != nil {
		return leave.ApplicationResponse{}, err
	}

	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return leave.ApplicationResponse{}, err
	}
	if !app.IsPending() {
		return leave.ApplicationResponse{}, leave.ErrAlreadyProcessed
	}

	now := s.now()
	app.Status = leave.StatusRejected
	app.DecidedBy = &sess.UserID
	app.DecidedAt = &now
	app.RejectionReason = &req.Reason

	if err := s.applications.UpdateStatus(ctx, app, leave.StatusSubmitted); err != nil {
		return leave.ApplicationResponse{}, err
	}
	return leave.NewApplicationResponse(app), nil
}
