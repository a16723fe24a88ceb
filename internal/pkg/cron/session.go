package cron

import (
	"context"
	"time"
)

// SessionPurger deletes persisted session references that can no longer be
// restored.
type SessionPurger interface {
	PurgeInactive(ctx context.Context, retention time.Duration) error
}

// RevocationPruner forgets in-memory revocations whose access tokens have
// expired.
type RevocationPruner interface {
	PruneRevoked(ctx context.Context) error
}

type SessionJobs struct {
	purger    SessionPurger
	pruner    RevocationPruner
	retention time.Duration
}

func NewSessionJobs(purger SessionPurger, pruner RevocationPruner, retention time.Duration) *SessionJobs {
	return &SessionJobs{
		purger:    purger,
		pruner:    pruner,
		retention: retention,
	}
}

func (j *SessionJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(Job{
		Name:       "purge_inactive_sessions",
		Interval:   6 * time.Hour,
		RunOnStart: true,
		Fn:         j.PurgeInactiveSessions,
	})
	scheduler.AddJob(Job{
		Name:     "prune_revoked_sessions",
		Interval: 15 * time.Minute,
		Fn:       j.pruner.PruneRevoked,
	})
}

func (j *SessionJobs) PurgeInactiveSessions(ctx context.Context) error {
	return j.purger.PurgeInactive(ctx, j.retention)
}
