package attendance

import (
	"time"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/validator"
)

type TimesheetEntry struct {
	Date         string     `json:"date"`
	ClockIn      *time.Time `json:"clock_in"`
	ClockOut     *time.Time `json:"clock_out"`
	BreakSeconds int64      `json:"break_seconds"`
	WorkSeconds  int64      `json:"work_seconds"`
	Break        string     `json:"break"`
	Work         string     `json:"work"`
}

type Timesheet struct {
	EmployeeID        string           `json:"employee_id"`
	Month             string           `json:"month"`
	Entries           []TimesheetEntry `json:"entries"`
	DaysPresent       int              `json:"days_present"`
	TotalWorkSeconds  int64            `json:"total_work_seconds"`
	TotalBreakSeconds int64            `json:"total_break_seconds"`
	TotalWork         string           `json:"total_work"`
	TotalBreak        string           `json:"total_break"`
}

// NewTimesheet builds the month view from raw records.
func NewTimesheet(employeeID string, month time.Time, records []Record) Timesheet {
	ts := Timesheet{
		EmployeeID: employeeID,
		Month:      month.Format(validator.MonthLayout),
		Entries:    make([]TimesheetEntry, 0, len(records)),
	}
	for _, r := range records {
		breakSecs := IntervalSeconds(r.TotalBreak)
		workSecs := IntervalSeconds(r.WorkDuration)
		ts.Entries = append(ts.Entries, TimesheetEntry{
			Date:         r.WorkDate.Format(validator.DateLayout),
			ClockIn:      r.ClockIn,
			ClockOut:     r.ClockOut,
			BreakSeconds: breakSecs,
			WorkSeconds:  workSecs,
			Break:        FormatDuration(breakSecs),
			Work:         FormatDuration(workSecs),
		})
		if r.ClockIn != nil {
			ts.DaysPresent++
		}
		ts.TotalWorkSeconds += workSecs
		ts.TotalBreakSeconds += breakSecs
	}
	ts.TotalWork = FormatDuration(ts.TotalWorkSeconds)
	ts.TotalBreak = FormatDuration(ts.TotalBreakSeconds)
	return ts
}

// ParseMonth reads a YYYY-MM query value, defaulting to the month of now.
func ParseMonth(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	}
	m, ok := validator.IsValidMonth(value)
	if !ok {
		return time.Time{}, ErrInvalidMonth
	}
	return time.Date(m.Year(), m.Month(), 1, 0, 0, 0, 0, now.Location()), nil
}
