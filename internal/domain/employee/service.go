package employee

import "context"

type TeamService interface {
	ListMembers(ctx context.Context) ([]TeamMemberResponse, error)
	GetMember(ctx context.Context, employeeID string) (TeamMemberResponse, error)
}
