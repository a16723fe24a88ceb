package attendance

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/session"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/user"
	"github.com/xuri/excelize/v2"
)

var ErrExportFailed = errors.New("failed to generate timesheet spreadsheet")

type AttendanceServiceImpl struct {
	records   attendance.RecordRepository
	employees employee.EmployeeRepository
	location  *time.Location
}

var _ attendance.AttendanceService = (*AttendanceServiceImpl)(nil)

func NewAttendanceService(records attendance.RecordRepository, employees employee.EmployeeRepository, location *time.Location) *AttendanceServiceImpl {
	if location == nil {
		location = time.UTC
	}
	return &AttendanceServiceImpl{
		records:   records,
		employees: employees,
		location:  location,
	}
}

// Timesheet implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Timesheet(ctx context.Context, month time.Time) (attendance.Timesheet, error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return attendance.Timesheet{}, session.ErrNoTenantContext
	}
	if !sess.HasEmployee() {
		return attendance.Timesheet{}, employee.ErrNoLinkedEmployee
	}
	return s.timesheet(ctx, *sess.EmployeeID, month)
}

// EmployeeTimesheet implements attendance.AttendanceService for team views.
func (s *AttendanceServiceImpl) EmployeeTimesheet(ctx context.Context, employeeID string, month time.Time) (attendance.Timesheet, error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return attendance.Timesheet{}, session.ErrNoTenantContext
	}
	if !user.HasPermission(sess.Role, user.PermissionAttendanceViewAll) {
		return attendance.Timesheet{}, user.ErrInsufficientPermissions
	}
	if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
		return attendance.Timesheet{}, err
	}
	return s.timesheet(ctx, employeeID, month)
}

func (s *AttendanceServiceImpl) timesheet(ctx context.Context, employeeID string, month time.Time) (attendance.Timesheet, error) {
	from, to := attendance.MonthRange(month)
	records, err := s.records.ListByEmployee(ctx, employeeID, from, to)
	if err != nil {
		return attendance.Timesheet{}, fmt.Errorf("failed to list attendance records: %w", err)
	}
	return attendance.NewTimesheet(employeeID, month, records), nil
}

// ExportTimesheet renders the caller's timesheet for month as an .xlsx file
// and returns it with a suggested filename.
func (s *AttendanceServiceImpl) ExportTimesheet(ctx context.Context, month time.Time) (*bytes.Buffer, string, error) {
	ts, err := s.Timesheet(ctx, month)
	if err != nil {
		return nil, "", err
	}

	title := "Timesheet " + ts.Month
	emp, err := s.employees.GetByID(ctx, ts.EmployeeID)
	if err == nil {
		title = fmt.Sprintf("Timesheet %s - %s (%s)", ts.Month, emp.FullName, emp.EmployeeCode)
	} else if !errors.Is(err, employee.ErrEmployeeNotFound) {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Timesheet"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", ErrExportFailed
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheet, "A", "A", 14)
	f.SetColWidth(sheet, "B", "C", 12)
	f.SetColWidth(sheet, "D", "E", 12)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetCellValue(sheet, "A1", title)
	f.MergeCell(sheet, "A1", "E1")
	f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	headers := []string{"Date", "Clock In", "Clock Out", "Break", "Work"}
	for i, h := range headers {
		c, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sheet, c, h)
	}
	f.SetCellStyle(sheet, "A2", "E2", headerStyle)

	row := 3
	for _, e := range ts.Entries {
		f.SetCellValue(sheet, cell("A", row), e.Date)
		f.SetCellValue(sheet, cell("B", row), s.clockTime(e.ClockIn))
		f.SetCellValue(sheet, cell("C", row), s.clockTime(e.ClockOut))
		f.SetCellValue(sheet, cell("D", row), e.Break)
		f.SetCellValue(sheet, cell("E", row), e.Work)
		row++
	}

	f.SetCellValue(sheet, cell("A", row), "Total")
	f.SetCellValue(sheet, cell("B", row), fmt.Sprintf("%d days present", ts.DaysPresent))
	f.SetCellValue(sheet, cell("D", row), ts.TotalBreak)
	f.SetCellValue(sheet, cell("E", row), ts.TotalWork)
	f.SetCellStyle(sheet, cell("A", row), cell("E", row), headerStyle)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		slog.Error("Failed to write timesheet spreadsheet", "error", err)
		return nil, "", ErrExportFailed
	}

	return buf, fmt.Sprintf("timesheet_%s.xlsx", ts.Month), nil
}

func (s *AttendanceServiceImpl) clockTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.In(s.location).Format("15:04")
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
