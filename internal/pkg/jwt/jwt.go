package jwt

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/session"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	RefreshTokenCookieName = "refresh_token"
)

var ErrInvalidClaims = errors.New("token claims are invalid")

type Service interface {
	GenerateAccessToken(s session.Session) (token string, expiresAt int64, err error)
	GenerateRefreshToken(sessionID, userID string) (token string, expiresAt int64, err error)
	ParseRefreshToken(token string) (sessionID string, err error)
	SessionFromClaims(claims map[string]interface{}) (session.Session, error)
	JWTAuth() *jwtauth.JWTAuth
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
	ClearRefreshTokenCookie() *http.Cookie
	RevokeSession(sessionID string)
	IsSessionRevoked(sessionID string) bool
	PruneRevoked(ctx context.Context) error
}

type JWTService struct {
	accessTokenExpiration  time.Duration
	refreshTokenExpiration time.Duration
	cookieSecure           bool
	tokenAuth              *jwtauth.JWTAuth
	// session id -> unix time of revocation; an access token outlives its
	// session row until it expires, so logouts are remembered here.
	revokedSessions map[string]int64
	mu              sync.RWMutex
	now             func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string, refreshTokenExpirationTime string, cookieSecure bool) (*JWTService, error) {
	accessExp, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, err
	}
	refreshExp, err := time.ParseDuration(refreshTokenExpirationTime)
	if err != nil {
		return nil, err
	}
	return &JWTService{
		accessTokenExpiration:  accessExp,
		refreshTokenExpiration: refreshExp,
		cookieSecure:           cookieSecure,
		tokenAuth:              jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedSessions:        make(map[string]int64),
		now:                    time.Now,
	}, nil
}

func (j *JWTService) GenerateAccessToken(s session.Session) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenExpiration).Unix()

	claims := map[string]interface{}{
		"sid":         s.ID,
		"user_id":     s.UserID,
		"tenant_id":   s.TenantID,
		"tenant_name": s.TenantName,
		"email":       s.Email,
		"employee_id": returnValueOrNil(s.EmployeeID),
		"role":        string(s.Role),
		"type":        TokenTypeAccess,
		"exp":         expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) GenerateRefreshToken(sessionID, userID string) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.refreshTokenExpiration).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"sid":     sessionID,
		"user_id": userID,
		"exp":     expiresAt,
		"type":    TokenTypeRefresh,
	})
	return tokenString, expiresAt, err
}

// ParseRefreshToken checks signature, expiry and type and returns the session id.
func (j *JWTService) ParseRefreshToken(tokenString string) (string, error) {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return "", session.ErrInvalidToken
	}
	if err := jwt.Validate(token, jwt.WithAcceptableSkew(30*time.Second)); err != nil {
		return "", session.ErrInvalidToken
	}
	tokenType, ok := token.Get("type")
	if !ok || tokenType != TokenTypeRefresh {
		return "", session.ErrInvalidToken
	}
	sid, ok := token.Get("sid")
	if !ok {
		return "", session.ErrInvalidToken
	}
	sessionID, ok := sid.(string)
	if !ok || sessionID == "" {
		return "", session.ErrInvalidToken
	}
	return sessionID, nil
}

// SessionFromClaims rebuilds the session carried by an access token.
func (j *JWTService) SessionFromClaims(claims map[string]interface{}) (session.Session, error) {
	if t, _ := claims["type"].(string); t != TokenTypeAccess {
		return session.Session{}, ErrInvalidClaims
	}
	s := session.Session{}
	s.ID, _ = claims["sid"].(string)
	s.UserID, _ = claims["user_id"].(string)
	s.TenantID, _ = claims["tenant_id"].(string)
	s.TenantName, _ = claims["tenant_name"].(string)
	s.Email, _ = claims["email"].(string)
	role, _ := claims["role"].(string)
	s.Role = user.Role(role)
	if employeeID, ok := claims["employee_id"].(string); ok && employeeID != "" {
		s.EmployeeID = &employeeID
	}
	if s.ID == "" || s.UserID == "" || s.TenantID == "" || !s.Role.IsValid() {
		return session.Session{}, ErrInvalidClaims
	}
	return s, nil
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     RefreshTokenCookieName,
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   j.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	}
}

func (j *JWTService) ClearRefreshTokenCookie() *http.Cookie {
	return &http.Cookie{
		Name:     RefreshTokenCookieName,
		Value:    "",
		Path:     "/api/v1/auth",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   j.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	}
}

func (j *JWTService) RevokeSession(sessionID string) {
	if sessionID == "" {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.revokedSessions[sessionID] = j.now().Unix()
}

func (j *JWTService) IsSessionRevoked(sessionID string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedSessions[sessionID]
	return revoked
}

// PruneRevoked forgets revocations older than the access token lifetime,
// after which every token issued for that session has expired anyway.
func (j *JWTService) PruneRevoked(ctx context.Context) error {
	cutoff := j.now().Add(-j.accessTokenExpiration).Unix()
	j.mu.Lock()
	defer j.mu.Unlock()
	for id, revokedAt := range j.revokedSessions {
		if revokedAt < cutoff {
			delete(j.revokedSessions, id)
		}
	}
	return nil
}

func returnValueOrNil(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
