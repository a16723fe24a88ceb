package team

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/session"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockEmployeeRepo struct {
	members []employee.TeamMember
}

func (m *mockEmployeeRepo) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	return e, nil
}

func (m *mockEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (m *mockEmployeeRepo) ListTeam(ctx context.Context) ([]employee.TeamMember, error) {
	sess, _ := session.FromContext(ctx)
	var result []employee.TeamMember
	for _, tm := range m.members {
		if tm.TenantID == sess.TenantID {
			result = append(result, tm)
		}
	}
	return result, nil
}

func newRepo() *mockEmployeeRepo {
	email := "ana@acme.test"
	role := user.RoleEmployee
	userID := "u-a"
	return &mockEmployeeRepo{members: []employee.TeamMember{
		{Employee: employee.Employee{ID: "emp-a", TenantID: "tenant-1", FullName: "Ana", EmployeeCode: "E-001"}, UserID: &userID, Email: &email, Role: &role},
		{Employee: employee.Employee{ID: "emp-b", TenantID: "tenant-1", FullName: "Budi", EmployeeCode: "E-002"}},
		{Employee: employee.Employee{ID: "emp-x", TenantID: "tenant-2", FullName: "Xavier", EmployeeCode: "E-900"}},
	}}
}

func ctxWithRole(role user.Role) context.Context {
	return session.NewContext(context.Background(), session.Session{TenantID: "tenant-1", Role: role})
}

func TestListMembers(t *testing.T) {
	svc := NewTeamService(newRepo())

	_, err := svc.ListMembers(ctxWithRole(user.RoleEmployee))
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	_, err = svc.ListMembers(context.Background())
	assert.ErrorIs(t, err, session.ErrNoTenantContext)

	members, err := svc.ListMembers(ctxWithRole(user.RoleManager))
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "ana@acme.test", *members[0].Email)
	assert.Nil(t, members[1].UserID)
}

func TestGetMember(t *testing.T) {
	svc := NewTeamService(newRepo())

	m, err := svc.GetMember(ctxWithRole(user.RoleAdmin), "emp-b")
	require.NoError(t, err)
	assert.Equal(t, "Budi", m.FullName)

	_, err = svc.GetMember(ctxWithRole(user.RoleAdmin), "emp-x")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
