package session

import (
	"time"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/user"
)

// Session is the authenticated identity of a request: who is calling and for
// which tenant. It is passed explicitly through context.
type Session struct {
	ID         string
	UserID     string
	TenantID   string
	TenantName string
	EmployeeID *string
	Email      string
	Role       user.Role
}

// HasEmployee reports whether the session is linked to an employee record.
func (s Session) HasEmployee() bool {
	return s.EmployeeID != nil && *s.EmployeeID != ""
}

// Record is the persisted session reference. The refresh token itself is
// never stored, only its hash.
type Record struct {
	ID             string
	UserID         string
	TenantID       string
	UserAgent      string
	IPAddress      string
	ExpiresAt      time.Time
	RevokedAt      *time.Time
	LastRestoredAt *time.Time
	CreatedAt      time.Time
}

// IsActive reports whether the reference can still be restored at now.
func (r Record) IsActive(now time.Time) bool {
	return r.RevokedAt == nil && r.ExpiresAt.After(now)
}
