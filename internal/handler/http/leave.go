package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/handler/http/response"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	ListTypes(w http.ResponseWriter, r *http.Request)
	ListBalances(w http.ResponseWriter, r *http.Request)
	Quote(w http.ResponseWriter, r *http.Request)

	Submit(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	GetMine(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)

	ListTeam(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

var _ LeaveHandler = (*LeaveHandlerImpl)(nil)

func NewLeaveHandler(leaveService leave.LeaveService) *LeaveHandlerImpl {
	return &LeaveHandlerImpl{leaveService: leaveService}
}

// ListTypes implements LeaveHandler.
func (l *LeaveHandlerImpl) ListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := l.leaveService.ListTypes(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, types)
}

// ListBalances implements LeaveHandler.
func (l *LeaveHandlerImpl) ListBalances(w http.ResponseWriter, r *http.Request) {
	year := 0
	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1970 || y > 9999 {
			response.HandleError(w, validator.ValidationErrors{{Field: "year", Message: "year must be a four digit year"}})
			return
		}
		year = y
	}

	balances, err := l.leaveService.ListBalances(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, balances)
}

// Quote implements LeaveHandler. The result is advisory only.
func (l *LeaveHandlerImpl) Quote(w http.ResponseWriter, r *http.Request) {
	var req leave.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	quote, err := l.leaveService.Quote(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, quote)
}

// Submit implements LeaveHandler.
func (l *LeaveHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	var req leave.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Submit leave decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	app, err := l.leaveService.Submit(r.Context(), req)
	if err != nil {
		slog.Error("Submit leave service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Leave application submitted", app)
}

// ListMine implements LeaveHandler.
func (l *LeaveHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	filter, err := leave.ParseApplicationFilter(r.URL.Query().Get("status"), r.URL.Query().Get("year"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	apps, err := l.leaveService.ListMine(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, apps, &response.Meta{TotalItems: len(apps)})
}

// GetMine implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMine(w http.ResponseWriter, r *http.Request) {
	app, err := l.leaveService.GetMine(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, app)
}

// Delete implements LeaveHandler. Requires ?confirm=true.
func (l *LeaveHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))

	if err := l.leaveService.Delete(r.Context(), chi.URLParam(r, "id"), confirmed); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave application deleted", nil)
}

// Cancel implements LeaveHandler.
func (l *LeaveHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	app, err := l.leaveService.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave application cancelled", app)
}

// ListTeam implements LeaveHandler.
func (l *LeaveHandlerImpl) ListTeam(w http.ResponseWriter, r *http.Request) {
	filter, err := leave.ParseApplicationFilter(r.URL.Query().Get("status"), r.URL.Query().Get("year"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	apps, err := l.leaveService.ListTeam(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, apps, &response.Meta{TotalItems: len(apps)})
}

// Approve implements LeaveHandler.
func (l *LeaveHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	app, err := l.leaveService.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		slog.Error("Approve leave service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave application approved", app)
}

// Reject implements LeaveHandler.
func (l *LeaveHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	var req leave.RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	app, err := l.leaveService.Reject(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		slog.Error("Reject leave service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave application rejected", app)
}
