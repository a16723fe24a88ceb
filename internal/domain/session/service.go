package session

import "context"

type Service interface {
	// Create verifies credentials and opens a new session.
	Create(ctx context.Context, req LoginRequest, tracking TrackingInfo) (AuthResponse, error)
	// Restore re-validates a persisted reference and returns the same session
	// with a fresh access token. A stale reference is revoked.
	Restore(ctx context.Context, refreshToken string) (AuthResponse, error)
	// Destroy revokes the reference. Unknown references are not an error.
	Destroy(ctx context.Context, refreshToken string) error
}
