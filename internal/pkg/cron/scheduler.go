package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Job is a housekeeping task run on a fixed interval.
type Job struct {
	Name       string
	Interval   time.Duration
	RunOnStart bool
	Fn         func(ctx context.Context) error
}

// Scheduler runs each registered job in its own goroutine until stopped.
type Scheduler struct {
	mu      sync.Mutex
	jobs    []Job
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// AddJob registers a job. Jobs added after Start are not run.
func (s *Scheduler) AddJob(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if job.Interval <= 0 {
		slog.Warn("Cron job ignored, interval must be positive", "name", job.Name)
		return
	}
	s.jobs = append(s.jobs, job)
	slog.Info("Cron job registered", "name", job.Name, "interval", job.Interval)
}

// Start launches every job. The jobs stop when ctx is done or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)
	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.runJob(ctx, job)
	}

	slog.Info("Cron scheduler started", "job_count", len(s.jobs))
}

// Stop cancels all jobs and waits for running ones to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	slog.Info("Stopping cron scheduler...")
	cancel()
	s.wg.Wait()
	slog.Info("Cron scheduler stopped")
}

func (s *Scheduler) runJob(ctx context.Context, job Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	if job.RunOnStart {
		execute(ctx, job)
	}

	for {
		select {
		case <-ctx.Done():
			slog.Debug("Cron job stopping", "name", job.Name)
			return
		case <-ticker.C:
			execute(ctx, job)
		}
	}
}

func execute(ctx context.Context, job Job) {
	start := time.Now()
	if err := job.Fn(ctx); err != nil {
		slog.Error("Cron job failed", "name", job.Name, "error", err, "duration", time.Since(start))
		return
	}
	slog.Debug("Cron job completed", "name", job.Name, "duration", time.Since(start))
}

// RunOnce runs every job synchronously, ignoring intervals.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	jobs := append([]Job(nil), s.jobs...)
	s.mu.Unlock()

	for _, job := range jobs {
		execute(ctx, job)
	}
}
