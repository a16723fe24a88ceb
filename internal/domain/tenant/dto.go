package tenant

import (
	"strings"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/validator"
)

// Plans accepted at sign-up.
var Plans = []string{PlanTrial, "basic", "professional", "enterprise"}

type SignUpRequest struct {
	CompanyName   string `json:"company_name"`
	Plan          string `json:"plan"`
	OwnerName     string `json:"owner_name"`
	OwnerEmail    string `json:"owner_email"`
	OwnerPassword string `json:"owner_password"`
}

func (r *SignUpRequest) Validate() error {
	var errs validator.ValidationErrors

	r.CompanyName = strings.TrimSpace(r.CompanyName)
	r.OwnerName = strings.TrimSpace(r.OwnerName)
	r.OwnerEmail = strings.ToLower(strings.TrimSpace(r.OwnerEmail))

	if validator.IsEmpty(r.CompanyName) {
		errs = append(errs, validator.ValidationError{
			Field:   "company_name",
			Message: "company_name is required",
		})
	} else if len(r.CompanyName) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "company_name",
			Message: "company_name must not exceed 255 characters",
		})
	}
	if !validator.IsInSlice(r.Plan, Plans) {
		errs = append(errs, validator.ValidationError{
			Field:   "plan",
			Message: "plan must be one of: " + strings.Join(Plans, ", "),
		})
	}
	if validator.IsEmpty(r.OwnerName) {
		errs = append(errs, validator.ValidationError{
			Field:   "owner_name",
			Message: "owner_name is required",
		})
	}
	if !validator.IsValidEmail(r.OwnerEmail) {
		errs = append(errs, validator.ValidationError{
			Field:   "owner_email",
			Message: "owner_email must be a valid email address",
		})
	}
	if len(r.OwnerPassword) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "owner_password",
			Message: "owner_password must be at least 8 characters long",
		})
	} else if len(r.OwnerPassword) > 72 {
		errs = append(errs, validator.ValidationError{
			Field:   "owner_password",
			Message: "owner_password must not exceed 72 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SignUpResponse struct {
	TenantID     string   `json:"tenant_id"`
	TenantName   string   `json:"tenant_name"`
	Plan         string   `json:"plan"`
	Status       Status   `json:"status"`
	OwnerUserID  string   `json:"owner_user_id"`
	EmployeeID   string   `json:"employee_id"`
	LeaveTypeIDs []string `json:"leave_type_ids"`
}
