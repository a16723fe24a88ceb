package http

import (
	"net/http"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type TeamHandler interface {
	ListMembers(w http.ResponseWriter, r *http.Request)
	GetMember(w http.ResponseWriter, r *http.Request)
}

type TeamHandlerImpl struct {
	teamService employee.TeamService
}

var _ TeamHandler = (*TeamHandlerImpl)(nil)

func NewTeamHandler(teamService employee.TeamService) *TeamHandlerImpl {
	return &TeamHandlerImpl{teamService: teamService}
}

func (t *TeamHandlerImpl) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := t.teamService.ListMembers(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, members, &response.Meta{TotalItems: len(members)})
}

func (t *TeamHandlerImpl) GetMember(w http.ResponseWriter, r *http.Request) {
	member, err := t.teamService.GetMember(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, member)
}
