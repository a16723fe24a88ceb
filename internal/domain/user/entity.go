package user

import "time"

type Role string

const (
	RoleOwner    Role = "owner"    // Tenant owner - full access
	RoleAdmin    Role = "admin"    // HR administrator
	RoleManager  Role = "manager"  // Can approve leave and view the team
	RoleEmployee Role = "employee" // Regular employee
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

type User struct {
	ID                  string
	TenantID            string
	EmployeeID          *string
	Email               string
	PasswordHash        string
	Role                Role
	IsActive            bool
	FailedLoginAttempts int
	LockedUntil         *time.Time
	LastLoginAt         *time.Time
	LoginCount          int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsLocked reports whether a lockout window is still open at now.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}
