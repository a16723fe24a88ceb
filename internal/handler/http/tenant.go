package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/tenant"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/handler/http/response"
)

type TenantHandler interface {
	SignUp(w http.ResponseWriter, r *http.Request)
}

type TenantHandlerImpl struct {
	tenantService tenant.TenantService
}

var _ TenantHandler = (*TenantHandlerImpl)(nil)

func NewTenantHandler(tenantService tenant.TenantService) *TenantHandlerImpl {
	return &TenantHandlerImpl{tenantService: tenantService}
}

// SignUp implements TenantHandler.
func (t *TenantHandlerImpl) SignUp(w http.ResponseWriter, r *http.Request) {
	var req tenant.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SignUp decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := t.tenantService.SignUp(r.Context(), req)
	if err != nil {
		slog.Error("SignUp service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Tenant created", resp)
}
