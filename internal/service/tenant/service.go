package tenant

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/session"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/tenant"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/user"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/fixtures"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/database"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/password"
	"github.com/shopspring/decimal"
)

const ownerEmployeeCode = "EMP-0001"

type TenantServiceImpl struct {
	tenants    tenant.TenantRepository
	users      user.UserRepository
	employees  employee.EmployeeRepository
	leaveTypes leave.LeaveTypeRepository
	balances   leave.BalanceRepository
	transactor database.Transactor
	defaults   func() ([]fixtures.LeaveTypeDefault, error)
	now        func() time.Time
}

var _ tenant.TenantService = (*TenantServiceImpl)(nil)

func NewTenantService(
	tenants tenant.TenantRepository,
	users user.UserRepository,
	employees employee.EmployeeRepository,
	leaveTypes leave.LeaveTypeRepository,
	balances leave.BalanceRepository,
	transactor database.Transactor,
) *TenantServiceImpl {
	return &TenantServiceImpl{
		tenants:    tenants,
		users:      users,
		employees:  employees,
		leaveTypes: leaveTypes,
		balances:   balances,
		transactor: transactor,
		defaults:   fixtures.DefaultLeaveTypes,
		now:        time.Now,
	}
}

// SignUp creates a tenant with its owner login, the owner's employee record
// and the default leave types. Everything happens in one transaction.
func (s *TenantServiceImpl) SignUp(ctx context.Context, req tenant.SignUpRequest) (tenant.SignUpResponse, error) {
	if err := req.Validate(); err != nil {
		return tenant.SignUpResponse{}, err
	}

	defaults, err := s.defaults()
	if err != nil {
		return tenant.SignUpResponse{}, err
	}

	passwordHash, err := password.Hash(req.OwnerPassword)
	if err != nil {
		return tenant.SignUpResponse{}, fmt.Errorf("failed to hash owner password: %w", err)
	}

	var resp tenant.SignUpResponse
	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		t, err := s.tenants.Create(txCtx, tenant.Tenant{
			Name:   req.CompanyName,
			Plan:   req.Plan,
			Status: tenant.StatusForPlan(req.Plan),
		})
		if err != nil {
			return fmt.Errorf("failed to create tenant: %w", err)
		}

		// Tenant-scoped repositories need a session; the owner has none yet.
		scoped := session.NewContext(txCtx, session.Session{
			TenantID:   t.ID,
			TenantName: t.Name,
			Email:      req.OwnerEmail,
			Role:       user.RoleOwner,
		})

		position := "Owner"
		emp, err := s.employees.Create(scoped, employee.Employee{
			FullName:     req.OwnerName,
			EmployeeCode: ownerEmployeeCode,
			Position:     &position,
		})
		if err != nil {
			return fmt.Errorf("failed to create owner employee: %w", err)
		}

		owner, err := s.users.Create(scoped, user.User{
			TenantID:     t.ID,
			EmployeeID:   &emp.ID,
			Email:        req.OwnerEmail,
			PasswordHash: passwordHash,
			Role:         user.RoleOwner,
			IsActive:     true,
		})
		if err != nil {
			return err
		}

		year := s.now().Year()
		leaveTypeIDs := make([]string, 0, len(defaults))
		for _, d := range defaults {
			lt, err := s.leaveTypes.Create(scoped, d.LeaveType(t.ID))
			if err != nil {
				return fmt.Errorf("failed to create leave type %s: %w", d.Code, err)
			}
			leaveTypeIDs = append(leaveTypeIDs, lt.ID)

			if !d.EntitlementDays.IsPositive() {
				continue
			}
			if _, err := s.balances.Create(scoped, leave.Balance{
				EmployeeID:   emp.ID,
				LeaveTypeID:  lt.ID,
				Year:         year,
				EntitledDays: d.EntitlementDays,
				UsedDays:     decimal.Zero,
			}); err != nil {
				return fmt.Errorf("failed to seed %s balance: %w", d.Code, err)
			}
		}

		resp = tenant.SignUpResponse{
			TenantID:     t.ID,
			TenantName:   t.Name,
			Plan:         t.Plan,
			Status:       t.Status,
			OwnerUserID:  owner.ID,
			EmployeeID:   emp.ID,
			LeaveTypeIDs: leaveTypeIDs,
		}
		return nil
	})
	if err != nil {
		return tenant.SignUpResponse{}, err
	}

	slog.Info("Tenant signed up", "tenant_id", resp.TenantID, "plan", resp.Plan, "leave_types", len(resp.LeaveTypeIDs))
	return resp, nil
}
