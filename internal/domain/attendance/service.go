package attendance

import (
	"bytes"
	"context"
	"time"
)

type AttendanceService interface {
	// Timesheet returns the caller's own records for month.
	Timesheet(ctx context.Context, month time.Time) (Timesheet, error)
	EmployeeTimesheet(ctx context.Context, employeeID string, month time.Time) (Timesheet, error)
	ExportTimesheet(ctx context.Context, month time.Time) (*bytes.Buffer, string, error)
}
