package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AttendanceHandler interface {
	Timesheet(w http.ResponseWriter, r *http.Request)
	ExportTimesheet(w http.ResponseWriter, r *http.Request)
	EmployeeTimesheet(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	location          *time.Location
}

var _ AttendanceHandler = (*AttendanceHandlerImpl)(nil)

func NewAttendanceHandler(attendanceService attendance.AttendanceService, location *time.Location) *AttendanceHandlerImpl {
	if location == nil {
		location = time.UTC
	}
	return &AttendanceHandlerImpl{attendanceService: attendanceService, location: location}
}

func (a *AttendanceHandlerImpl) month(r *http.Request) (time.Time, error) {
	return attendance.ParseMonth(r.URL.Query().Get("month"), time.Now().In(a.location))
}

// Timesheet implements AttendanceHandler.
func (a *AttendanceHandlerImpl) Timesheet(w http.ResponseWriter, r *http.Request) {
	month, err := a.month(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	ts, err := a.attendanceService.Timesheet(r.Context(), month)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, ts)
}

// ExportTimesheet implements AttendanceHandler.
func (a *AttendanceHandlerImpl) ExportTimesheet(w http.ResponseWriter, r *http.Request) {
	month, err := a.month(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	buf, filename, err := a.attendanceService.ExportTimesheet(r.Context(), month)
	if err != nil {
		slog.Error("Export timesheet service error", "error", err)
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write timesheet export", "error", err)
	}
}

// EmployeeTimesheet implements AttendanceHandler.
func (a *AttendanceHandlerImpl) EmployeeTimesheet(w http.ResponseWriter, r *http.Request) {
	month, err := a.month(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	ts, err := a.attendanceService.EmployeeTimesheet(r.Context(), chi.URLParam(r, "employeeID"), month)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, ts)
}
