package attendance

import (
	"context"
	"time"
)

// RecordRepository is read-only and tenant-scoped.
type RecordRepository interface {
	ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]Record, error)
}
