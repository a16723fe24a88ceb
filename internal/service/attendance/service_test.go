package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/session"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type mockRecordRepo struct {
	records []attendance.Record
}

func (m *mockRecordRepo) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Record, error) {
	sess, _ := session.FromContext(ctx)
	var result []attendance.Record
	for _, r := range m.records {
		if r.TenantID != sess.TenantID || r.EmployeeID != employeeID {
			continue
		}
		if r.WorkDate.Before(from) || !r.WorkDate.Before(to) {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

type mockEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (m *mockEmployeeRepo) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	return e, nil
}

func (m *mockEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	sess, _ := session.FromContext(ctx)
	e, ok := m.employees[id]
	if !ok || e.TenantID != sess.TenantID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (m *mockEmployeeRepo) ListTeam(ctx context.Context) ([]employee.TeamMember, error) {
	return nil, nil
}

func strPtr(s string) *string { return &s }

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func newTestService() *AttendanceServiceImpl {
	clockIn := time.Date(2024, 3, 4, 2, 0, 0, 0, time.UTC)
	clockOut := time.Date(2024, 3, 4, 11, 0, 0, 0, time.UTC)
	records := &mockRecordRepo{records: []attendance.Record{
		{TenantID: "tenant-1", EmployeeID: "emp-a", WorkDate: day(4), ClockIn: &clockIn, ClockOut: &clockOut, TotalBreak: strPtr("01:00:00"), WorkDuration: strPtr("08:00:00")},
		{TenantID: "tenant-1", EmployeeID: "emp-a", WorkDate: day(5), ClockIn: &clockIn, WorkDuration: strPtr("04:15:00")},
		{TenantID: "tenant-1", EmployeeID: "emp-a", WorkDate: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), ClockIn: &clockIn, WorkDuration: strPtr("08:00:00")},
		{TenantID: "tenant-2", EmployeeID: "emp-x", WorkDate: day(4), ClockIn: &clockIn, WorkDuration: strPtr("08:00:00")},
	}}
	employees := &mockEmployeeRepo{employees: map[string]employee.Employee{
		"emp-a": {ID: "emp-a", TenantID: "tenant-1", FullName: "Ana", EmployeeCode: "E-001"},
		"emp-x": {ID: "emp-x", TenantID: "tenant-2", FullName: "Xavier", EmployeeCode: "E-900"},
	}}
	jakarta, _ := time.LoadLocation("Asia/Jakarta")
	return NewAttendanceService(records, employees, jakarta)
}

func ctxFor(employeeID string, role user.Role) context.Context {
	return session.NewContext(context.Background(), session.Session{
		TenantID: "tenant-1", EmployeeID: &employeeID, Role: role,
	})
}

func TestTimesheet_OwnMonth(t *testing.T) {
	svc := newTestService()

	ts, err := svc.Timesheet(ctxFor("emp-a", user.RoleEmployee), day(1))
	require.NoError(t, err)
	assert.Equal(t, "2024-03", ts.Month)
	assert.Len(t, ts.Entries, 2)
	assert.Equal(t, 2, ts.DaysPresent)
	assert.Equal(t, "12h 15m", ts.TotalWork)
	assert.Equal(t, "1h 0m", ts.TotalBreak)
}

func TestTimesheet_RequiresLinkedEmployee(t *testing.T) {
	svc := newTestService()
	ctx := session.NewContext(context.Background(), session.Session{TenantID: "tenant-1", Role: user.RoleOwner})

	_, err := svc.Timesheet(ctx, day(1))
	assert.ErrorIs(t, err, employee.ErrNoLinkedEmployee)
}

func TestEmployeeTimesheet_Permissions(t *testing.T) {
	svc := newTestService()

	_, err := svc.EmployeeTimesheet(ctxFor("emp-a", user.RoleEmployee), "emp-a", day(1))
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	ts, err := svc.EmployeeTimesheet(ctxFor("emp-m", user.RoleManager), "emp-a", day(1))
	require.NoError(t, err)
	assert.Len(t, ts.Entries, 2)

	_, err = svc.EmployeeTimesheet(ctxFor("emp-m", user.RoleManager), "emp-x", day(1))
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestExportTimesheet_WritesWorkbook(t *testing.T) {
	svc := newTestService()

	buf, filename, err := svc.ExportTimesheet(ctxFor("emp-a", user.RoleEmployee), day(1))
	require.NoError(t, err)
	assert.Equal(t, "timesheet_2024-03.xlsx", filename)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Timesheet", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Timesheet 2024-03 - Ana (E-001)", title)

	// Clock times are shown in the business timezone.
	clockIn, _ := f.GetCellValue("Timesheet", "B3")
	assert.Equal(t, "09:00", clockIn)
	clockOut, _ := f.GetCellValue("Timesheet", "C4")
	assert.Equal(t, "-", clockOut)

	total, _ := f.GetCellValue("Timesheet", "E5")
	assert.Equal(t, "12h 15m", total)
}
