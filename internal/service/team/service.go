package team

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/session"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/user"
)

type TeamServiceImpl struct {
	employees employee.EmployeeRepository
}

var _ employee.TeamService = (*TeamServiceImpl)(nil)

func NewTeamService(employees employee.EmployeeRepository) *TeamServiceImpl {
	return &TeamServiceImpl{employees: employees}
}

func authorize(ctx context.Context) error {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return session.ErrNoTenantContext
	}
	if !user.HasPermission(sess.Role, user.PermissionEmployeeViewAll) {
		return user.ErrInsufficientPermissions
	}
	return nil
}

// ListMembers returns every employee of the caller's tenant with the login
// linked to it.
func (s *TeamServiceImpl) ListMembers(ctx context.Context) ([]employee.TeamMemberResponse, error) {
	if err := authorize(ctx); err != nil {
		return nil, err
	}

	members, err := s.employees.ListTeam(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}

	resp := make([]employee.TeamMemberResponse, 0, len(members))
	for _, m := range members {
		resp = append(resp, employee.NewTeamMemberResponse(m))
	}
	return resp, nil
}

func (s *TeamServiceImpl) GetMember(ctx context.Context, employeeID string) (employee.TeamMemberResponse, error) {
	if err := authorize(ctx); err != nil {
		return employee.TeamMemberResponse{}, err
	}

	members, err := s.employees.ListTeam(ctx)
	if err != nil {
		return employee.TeamMemberResponse{}, fmt.Errorf("failed to list team members: %w", err)
	}
	for _, m := range members {
		if m.ID == employeeID {
			return employee.NewTeamMemberResponse(m), nil
		}
	}
	return employee.TeamMemberResponse{}, employee.ErrEmployeeNotFound
}
