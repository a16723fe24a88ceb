package session

import (
	"context"
	"time"
)

// Repository persists session references keyed by a hash of the refresh token.
type Repository interface {
	Create(ctx context.Context, record Record, refreshToken string) error
	GetByToken(ctx context.Context, refreshToken string) (Record, error)
	Revoke(ctx context.Context, id string) error
	MarkRestored(ctx context.Context, id string, at time.Time) error
	PurgeInactive(ctx context.Context, before time.Time) (int64, error)
}
