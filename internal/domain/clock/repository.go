package clock

import (
	"context"
	"time"
)

// EventRepository is append-only and tenant-scoped.
type EventRepository interface {
	Create(ctx context.Context, e Event) (Event, error)
	ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]Event, error)
}
