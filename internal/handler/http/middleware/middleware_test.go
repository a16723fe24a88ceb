package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/session"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/user"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokens(t *testing.T) *jwt.JWTService {
	t.Helper()
	svc, err := jwt.NewJWTService("test-secret", "15m", "24h", false)
	require.NoError(t, err)
	return svc
}

func testSession(role user.Role) session.Session {
	employeeID := "emp-1"
	return session.Session{
		ID:         "sess-1",
		UserID:     "user-1",
		TenantID:   "tenant-1",
		EmployeeID: &employeeID,
		Email:      "rina@acme.test",
		Role:       role,
	}
}

// protected mirrors the router: verifier, session middleware, then h.
func protected(tokens *jwt.JWTService, h http.Handler) http.Handler {
	return jwtauth.Verifier(tokens.JWTAuth())(AuthRequired(tokens)(h))
}

func TestAuthRequired_PutsSessionInContext(t *testing.T) {
	tokens := newTokens(t)
	access, _, err := tokens.GenerateAccessToken(testSession(user.RoleEmployee))
	require.NoError(t, err)

	var got session.Session
	h := protected(tokens, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = session.FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tenant-1", got.TenantID)
	assert.Equal(t, "emp-1", *got.EmployeeID)
}

func TestAuthRequired_Rejections(t *testing.T) {
	tokens := newTokens(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not be reached")
	})
	h := protected(tokens, next)

	// No token
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Refresh token used as access token
	refresh, _, err := tokens.GenerateRefreshToken("sess-1", "user-1")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Logged-out session
	access, _, err := tokens.GenerateAccessToken(testSession(user.RoleEmployee))
	require.NoError(t, err)
	tokens.RevokeSession("sess-1")
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequirePermission(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := RequirePermission(user.PermissionLeaveApprove)(ok)

	serve := func(role user.Role) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(session.NewContext(req.Context(), testSession(role)))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusForbidden, serve(user.RoleEmployee))
	assert.Equal(t, http.StatusNoContent, serve(user.RoleManager))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireEmployee(t *testing.T) {
	h := RequireEmployee(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	owner := testSession(user.RoleOwner)
	owner.EmployeeID = nil
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(session.NewContext(req.Context(), owner))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
