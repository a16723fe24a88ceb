package employee

import "context"

// EmployeeRepository is tenant-scoped: the tenant comes from the session in ctx.
type EmployeeRepository interface {
	Create(ctx context.Context, e Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	ListTeam(ctx context.Context) ([]TeamMember, error)
}
