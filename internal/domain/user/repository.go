package user

import (
	"context"
	"time"
)

// FailedLogin is the counter state left behind by RecordFailedLogin.
type FailedLogin struct {
	Attempts    int
	LockedUntil *time.Time
}

// UserRepository reads and writes login identities. Login happens before a
// tenant is known, so lookups by email are not tenant-scoped. One email may
// hold a membership in several tenants, one row each.
type UserRepository interface {
	ListByEmail(ctx context.Context, email string) ([]User, error)
	GetByID(ctx context.Context, id string) (User, error)
	Create(ctx context.Context, newUser User) (User, error)

	// RecordFailedLogin increments the attempt counter in place and opens a
	// lockout window of length window once maxAttempts is reached. A lock
	// that expired at or before now restarts the count at one.
	RecordFailedLogin(ctx context.Context, id string, now time.Time, maxAttempts int, window time.Duration) (FailedLogin, error)
	RecordSuccessfulLogin(ctx context.Context, id string, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id string, passwordHash string) error
}
