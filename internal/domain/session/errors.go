package session

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAccountLocked       = errors.New("account is locked, please try again later")
	ErrSessionNotFound     = errors.New("session not found or expired")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrNoTenantContext     = errors.New("no tenant in session context")
	ErrRefreshTokenMissing = errors.New("refresh token is required")
)
