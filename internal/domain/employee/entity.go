package employee

import (
	"time"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/user"
)

type Employee struct {
	ID           string
	TenantID     string
	FullName     string
	EmployeeCode string
	Department   *string
	Position     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TeamMember is an employee joined with the login linked to it, if any.
type TeamMember struct {
	Employee
	UserID *string
	Email  *string
	Role   *user.Role
}
