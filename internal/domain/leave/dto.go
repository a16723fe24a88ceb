package leave

import (
	"strconv"
	"time"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const maxReasonLength = 1000

type QuoteRequest struct {
	LeaveTypeID string `json:"leave_type_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`

	start time.Time
	end   time.Time
}

func (r *QuoteRequest) Validate() error {
	var errs validator.ValidationErrors
	r.validate(&errs)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *QuoteRequest) validate(errs *validator.ValidationErrors) {
	if !validator.IsValidUUID(r.LeaveTypeID) {
		*errs = append(*errs, validator.ValidationError{
			Field:   "leave_type_id",
			Message: "leave_type_id must be a valid UUID",
		})
	}

	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		*errs = append(*errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		*errs = append(*errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if okStart && okEnd && end.Before(start) {
		*errs = append(*errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}
	r.start, r.end = start, end
}

// Range returns the parsed dates. Valid only after Validate succeeds.
func (r *QuoteRequest) Range() (time.Time, time.Time) {
	return r.start, r.end
}

type SubmitRequest struct {
	QuoteRequest
	Reason string `json:"reason"`
}

func (r *SubmitRequest) Validate() error {
	var errs validator.ValidationErrors
	r.QuoteRequest.validate(&errs)
	if len(r.Reason) > maxReasonLength {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 1000 characters",
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

func (r *RejectRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	} else if len(r.Reason) > maxReasonLength {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 1000 characters",
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ApplicationFilter narrows application listings. EmployeeID is set by the
// service, never taken from the query string.
type ApplicationFilter struct {
	EmployeeID *string
	Status     *ApplicationStatus
	Year       *int
}

// ParseApplicationFilter reads the status and year query parameters.
func ParseApplicationFilter(status, year string) (ApplicationFilter, error) {
	var filter ApplicationFilter
	var errs validator.ValidationErrors

	if status != "" {
		s := ApplicationStatus(status)
		if !s.IsValid() {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of SUBMITTED, APPROVED, REJECTED, CANCELLED",
			})
		}
		filter.Status = &s
	}
	if year != "" {
		y, err := strconv.Atoi(year)
		if err != nil || y < 1970 || y > 9999 {
			errs = append(errs, validator.ValidationError{
				Field:   "year",
				Message: "year must be a four digit year",
			})
		}
		filter.Year = &y
	}

	if len(errs) > 0 {
		return ApplicationFilter{}, errs
	}
	return filter, nil
}

type LeaveTypeResponse struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	PolicyGroup string `json:"policy_group"`
}

type BalanceResponse struct {
	LeaveTypeID    string          `json:"leave_type_id"`
	LeaveTypeName  *string         `json:"leave_type_name,omitempty"`
	Year           int             `json:"year"`
	EntitledDays   decimal.Decimal `json:"entitled_days"`
	UsedDays       decimal.Decimal `json:"used_days"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
}

type QuoteResponse struct {
	LeaveTypeID      string          `json:"leave_type_id"`
	StartDate        string          `json:"start_date"`
	EndDate          string          `json:"end_date"`
	Year             int             `json:"year"`
	TotalDays        int             `json:"total_days"`
	WorkingDays      int             `json:"working_days"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
	IsSufficient     bool            `json:"is_sufficient"`
}

type ApplicationResponse struct {
	ID              string            `json:"id"`
	EmployeeID      string            `json:"employee_id"`
	EmployeeName    *string           `json:"employee_name,omitempty"`
	LeaveTypeID     string            `json:"leave_type_id"`
	LeaveTypeName   *string           `json:"leave_type_name,omitempty"`
	StartDate       string            `json:"start_date"`
	EndDate         string            `json:"end_date"`
	TotalDays       int               `json:"total_days"`
	WorkingDays     int               `json:"working_days"`
	Reason          string            `json:"reason"`
	Status          ApplicationStatus `json:"status"`
	AppliedAt       time.Time         `json:"applied_at"`
	DecidedBy       *string           `json:"decided_by,omitempty"`
	DecidedAt       *time.Time        `json:"decided_at,omitempty"`
	RejectionReason *string           `json:"rejection_reason,omitempty"`
}

func NewApplicationResponse(a Application) ApplicationResponse {
	return ApplicationResponse{
		ID:              a.ID,
		EmployeeID:      a.EmployeeID,
		EmployeeName:    a.EmployeeName,
		LeaveTypeID:     a.LeaveTypeID,
		LeaveTypeName:   a.LeaveTypeName,
		StartDate:       a.StartDate.Format(validator.DateLayout),
		EndDate:         a.EndDate.Format(validator.DateLayout),
		TotalDays:       a.TotalDays,
		WorkingDays:     a.WorkingDays,
		Reason:          a.Reason,
		Status:          a.Status,
		AppliedAt:       a.AppliedAt,
		DecidedBy:       a.DecidedBy,
		DecidedAt:       a.DecidedAt,
		RejectionReason: a.RejectionReason,
	}
}

func NewBalanceResponse(b Balance) BalanceResponse {
	return BalanceResponse{
		LeaveTypeID:    b.LeaveTypeID,
		LeaveTypeName:  b.LeaveTypeName,
		Year:           b.Year,
		EntitledDays:   b.EntitledDays,
		UsedDays:       b.UsedDays,
		CurrentBalance: b.CurrentBalance,
	}
}
