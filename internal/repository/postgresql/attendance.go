package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.RecordRepository {
	return &attendanceRepositoryImpl{db: db}
}

// ListByEmployee implements attendance.RecordRepository for work dates in
// [from, to). Intervals come back as text and are parsed by the domain.
func (r *attendanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Record, error) {
	scope, err := ScopeFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	rows, err := scope.Select(ctx, TableAttendanceRecords,
		[]string{"id", "tenant_id", "employee_id", "work_date", "clock_in", "clock_out", "total_break::text", "work_duration::text"},
		[]Cond{
			Eq("employee_id", employeeID),
			Gte("work_date", from),
			Lt("work_date", to),
		},
		OrderBy("work_date", false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		if err := rows.Scan(
			&rec.ID, &rec.TenantID, &rec.EmployeeID, &rec.WorkDate,
			&rec.ClockIn, &rec.ClockOut, &rec.TotalBreak, &rec.WorkDuration,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
