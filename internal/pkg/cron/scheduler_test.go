package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakePurger struct {
	retention time.Duration
	calls     atomic.Int32
}

func (f *fakePurger) PurgeInactive(ctx context.Context, retention time.Duration) error {
	f.retention = retention
	f.calls.Add(1)
	return nil
}

type fakePruner struct{ calls atomic.Int32 }

func (f *fakePruner) PruneRevoked(ctx context.Context) error {
	f.calls.Add(1)
	return errors.New("failures are logged, not fatal")
}

func TestSessionJobs_RunOnce(t *testing.T) {
	purger, pruner := &fakePurger{}, &fakePruner{}
	s := NewScheduler()
	NewSessionJobs(purger, pruner, 720*time.Hour).RegisterJobs(s)

	s.RunOnce(context.Background())

	assert.EqualValues(t, 1, purger.calls.Load())
	assert.EqualValues(t, 1, pruner.calls.Load())
	assert.Equal(t, 720*time.Hour, purger.retention)
}

func TestScheduler_StartAndStop(t *testing.T) {
	var ticks atomic.Int32
	s := NewScheduler()
	s.AddJob(Job{Name: "tick", Interval: 5 * time.Millisecond, RunOnStart: true, Fn: func(ctx context.Context) error {
		ticks.Add(1)
		return nil
	}})
	s.AddJob(Job{Name: "ignored", Interval: 0, Fn: func(ctx context.Context) error {
		t.Error("job with zero interval must not run")
		return nil
	}})

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return ticks.Load() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()

	stopped := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, ticks.Load())
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	assert.NotPanics(t, func() { NewScheduler().Stop() })
}
