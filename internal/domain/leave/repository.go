package leave

import (
	"context"

	"github.com/shopspring/decimal"
)

// All leave repositories are tenant-scoped through the session in ctx.

type LeaveTypeRepository interface {
	Create(ctx context.Context, leaveType LeaveType) (LeaveType, error)
	GetByID(ctx context.Context, id string) (LeaveType, error)
	List(ctx context.Context) ([]LeaveType, error)
}

type BalanceRepository interface {
	Create(ctx context.Context, balance Balance) (Balance, error)
	Get(ctx context.Context, employeeID, leaveTypeID string, year int) (Balance, error)
	ListByEmployee(ctx context.Context, employeeID string, year int) ([]Balance, error)
	// Adjust moves days between used and current balance; positive days consume
	// and fail with ErrInsufficientBalance rather than go negative.
	Adjust(ctx context.Context, balanceID string, days decimal.Decimal) error
}

type ApplicationRepository interface {
	Create(ctx context.Context, app Application) (Application, error)
	GetByID(ctx context.Context, id string) (Application, error)
	List(ctx context.Context, filter ApplicationFilter) ([]Application, error)
	// UpdateStatus writes the decision fields of app only while the stored
	// status is still from; otherwise it returns ErrAlreadyProcessed.
	UpdateStatus(ctx context.Context, app Application, from ApplicationStatus) error
	Delete(ctx context.Context, id string) error
}
