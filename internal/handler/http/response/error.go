package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/clock"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/session"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/tenant"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/user"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Session errors
	case errors.Is(err, session.ErrInvalidCredentials):
		ErrorWithCode(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", err.Error())
	case errors.Is(err, session.ErrAccountLocked):
		Locked(w, err.Error())
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, session.ErrInvalidToken),
		errors.Is(err, session.ErrRefreshTokenMissing):
		Unauthorized(w, err.Error())
	case errors.Is(err, session.ErrNoTenantContext):
		ErrorWithCode(w, http.StatusUnauthorized, "NO_TENANT_CONTEXT", "No tenant in session")

	// User errors
	case errors.Is(err, user.ErrInsufficientPermissions):
		ErrorWithCode(w, http.StatusForbidden, "PERMISSION_DENIED", err.Error())
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// Tenant errors
	case errors.Is(err, tenant.ErrTenantNotFound):
		NotFound(w, "Tenant not found")

	// Employee errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, employee.ErrNoLinkedEmployee):
		ErrorWithCode(w, http.StatusForbidden, "NO_LINKED_EMPLOYEE", err.Error())

	// Leave errors
	case errors.Is(err, leave.ErrApplicationNotFound):
		NotFound(w, "Leave application not found")
	case errors.Is(err, leave.ErrLeaveTypeNotFound):
		NotFound(w, "Leave type not found")
	case errors.Is(err, leave.ErrBalanceNotFound):
		NotFound(w, "Leave balance not found")
	case errors.Is(err, leave.ErrInsufficientBalance):
		ErrorWithCode(w, http.StatusBadRequest, "INSUFFICIENT_BALANCE", err.Error())
	case errors.Is(err, leave.ErrNoWorkingDays),
		errors.Is(err, leave.ErrConfirmationRequired):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, leave.ErrAlreadyProcessed),
		errors.Is(err, leave.ErrNotDeletable),
		errors.Is(err, leave.ErrNotCancellable),
		errors.Is(err, leave.ErrBalanceExists):
		Conflict(w, err.Error())

	// Clock and attendance errors
	case errors.Is(err, clock.ErrInvalidPhoto):
		ValidationError(w, map[string]string{"photo": err.Error()})
	case errors.Is(err, clock.ErrPhotoTooLarge):
		ErrorWithCode(w, http.StatusRequestEntityTooLarge, "PHOTO_TOO_LARGE", err.Error())
	case errors.Is(err, attendance.ErrInvalidMonth):
		ValidationError(w, map[string]string{"month": err.Error()})

	default:
		slog.Error("Backend request failed", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
