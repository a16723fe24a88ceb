package session

import (
	"strings"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/user"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/validator"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalize trims and lowercases the email.
func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if len(r.Email) > 254 {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must not exceed 254 characters",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}

	if r.Password == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	} else if len(r.Password) > 72 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must not exceed 72 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RestoreRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TrackingInfo is recorded alongside a new session reference.
type TrackingInfo struct {
	UserAgent string
	IPAddress string
}

// Membership is one tenant the logged-in email holds an account in.
type Membership struct {
	TenantID   string    `json:"tenant_id"`
	TenantName string    `json:"tenant_name"`
	Role       user.Role `json:"role"`
}

type SessionResponse struct {
	SessionID   string       `json:"session_id"`
	UserID      string       `json:"user_id"`
	TenantID    string       `json:"tenant_id"`
	TenantName  string       `json:"tenant_name,omitempty"`
	EmployeeID  *string      `json:"employee_id"`
	Email       string       `json:"email"`
	Role        user.Role    `json:"role"`
	Memberships []Membership `json:"memberships,omitempty"`
}

func NewSessionResponse(s Session) SessionResponse {
	return SessionResponse{
		SessionID:  s.ID,
		UserID:     s.UserID,
		TenantID:   s.TenantID,
		TenantName: s.TenantName,
		EmployeeID: s.EmployeeID,
		Email:      s.Email,
		Role:       s.Role,
	}
}

type TokenResponse struct {
	AccessToken           string `json:"access_token"`
	AccessTokenExpiresIn  int64  `json:"access_token_expires_in"`
	RefreshToken          string `json:"refresh_token,omitempty"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in,omitempty"`
}

type AuthResponse struct {
	Session SessionResponse `json:"session"`
	Tokens  TokenResponse   `json:"tokens"`
}
