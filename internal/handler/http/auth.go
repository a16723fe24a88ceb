package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/session"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/handler/http/response"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/jwt"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Restore(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	jwtService     jwt.Service
	sessionService session.Service
}

var _ AuthHandler = (*AuthHandlerImpl)(nil)

func NewAuthHandler(jwtService jwt.Service, sessionService session.Service) *AuthHandlerImpl {
	return &AuthHandlerImpl{
		jwtService:     jwtService,
		sessionService: sessionService,
	}
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq session.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		slog.Error("Login decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	tracking := session.TrackingInfo{
		UserAgent: r.UserAgent(),
		IPAddress: r.RemoteAddr,
	}
	authResponse, err := a.sessionService.Create(r.Context(), loginReq, tracking)
	if err != nil {
		// Never log the request body here: it carries the password.
		slog.Warn("Login failed", "error", err)
		response.HandleError(w, err)
		return
	}

	http.SetCookie(w, a.jwtService.RefreshTokenCookie(authResponse.Tokens.RefreshToken, authResponse.Tokens.RefreshTokenExpiresIn))
	slog.Info("User logged in", "user_id", authResponse.Session.UserID, "tenant_id", authResponse.Session.TenantID)
	response.Created(w, "Session created", authResponse)
}

// Restore implements AuthHandler. A stale reference clears the cookie.
func (a *AuthHandlerImpl) Restore(w http.ResponseWriter, r *http.Request) {
	refreshToken, err := a.refreshToken(r)
	if err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	authResponse, err := a.sessionService.Restore(r.Context(), refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) || errors.Is(err, session.ErrRefreshTokenMissing) {
			http.SetCookie(w, a.jwtService.ClearRefreshTokenCookie())
		}
		slog.Debug("Session restore failed", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, authResponse)
}

// Logout implements AuthHandler. It always succeeds for unknown references.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	refreshToken, err := a.refreshToken(r)
	if err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := a.sessionService.Destroy(r.Context(), refreshToken); err != nil {
		slog.Error("Logout service error", "error", err)
		response.HandleError(w, err)
		return
	}

	http.SetCookie(w, a.jwtService.ClearRefreshTokenCookie())
	response.SuccessWithMessage(w, "Logged out", nil)
}

// Me implements AuthHandler.
func (a *AuthHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		response.HandleError(w, session.ErrNoTenantContext)
		return
	}
	response.Success(w, session.NewSessionResponse(sess))
}

// refreshToken reads the reference from the cookie, falling back to the
// JSON body for clients that cannot hold cookies.
func (a *AuthHandlerImpl) refreshToken(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(jwt.RefreshTokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	var req session.RestoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return req.RefreshToken, nil
}
