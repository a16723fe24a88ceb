package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

type LeaveType struct {
	ID          string
	TenantID    string
	Code        string
	Name        string
	PolicyGroup string
	IsActive    bool
	CreatedAt   time.Time
}

// Balance is an employee's entitlement for one leave type in one year.
type Balance struct {
	ID             string
	TenantID       string
	EmployeeID     string
	LeaveTypeID    string
	Year           int
	EntitledDays   decimal.Decimal
	UsedDays       decimal.Decimal
	CurrentBalance decimal.Decimal

	// Join
	LeaveTypeName *string
}

type ApplicationStatus string

const (
	StatusSubmitted ApplicationStatus = "SUBMITTED"
	StatusApproved  ApplicationStatus = "APPROVED"
	StatusRejected  ApplicationStatus = "REJECTED"
	StatusCancelled ApplicationStatus = "CANCELLED"
)

func (s ApplicationStatus) IsValid() bool {
	switch s {
	case StatusSubmitted, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

type Application struct {
	ID          string
	TenantID    string
	EmployeeID  string
	LeaveTypeID string

	StartDate time.Time
	EndDate   time.Time

	// Derived from StartDate/EndDate, never client supplied
	TotalDays   int
	WorkingDays int

	Reason          string
	Status          ApplicationStatus
	AppliedAt       time.Time
	DecidedBy       *string
	DecidedAt       *time.Time
	RejectionReason *string

	// Join
	LeaveTypeName *string
	EmployeeName  *string
}

// CanDelete reports whether the application may still be withdrawn outright.
func (a *Application) CanDelete() bool {
	return a.Status == StatusSubmitted
}

// CanCancel reports whether a cancellation request is accepted.
func (a *Application) CanCancel() bool {
	return a.Status == StatusSubmitted || a.Status == StatusApproved
}

// IsPending reports whether an approver can still decide on it.
func (a *Application) IsPending() bool {
	return a.Status == StatusSubmitted
}
