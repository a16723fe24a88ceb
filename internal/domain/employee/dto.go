package employee

import "github.com/cmlabs-hris/hrms-ess-backend/internal/domain/user"

type TeamMemberResponse struct {
	EmployeeID   string     `json:"employee_id"`
	FullName     string     `json:"full_name"`
	EmployeeCode string     `json:"employee_code"`
	Department   *string    `json:"department,omitempty"`
	Position     *string    `json:"position,omitempty"`
	UserID       *string    `json:"user_id,omitempty"`
	Email        *string    `json:"email,omitempty"`
	Role         *user.Role `json:"role,omitempty"`
}

func NewTeamMemberResponse(m TeamMember) TeamMemberResponse {
	return TeamMemberResponse{
		EmployeeID:   m.ID,
		FullName:     m.FullName,
		EmployeeCode: m.EmployeeCode,
		Department:   m.Department,
		Position:     m.Position,
		UserID:       m.UserID,
		Email:        m.Email,
		Role:         m.Role,
	}
}
