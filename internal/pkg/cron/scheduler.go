package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type job struct {
	name     string
	interval time.Duration
	fn       func(ctx context.Context) error
}

// Scheduler runs registered jobs on fixed intervals, one goroutine per job.
// Register everything before Start; registration is not safe afterwards.
type Scheduler struct {
	mu     sync.Mutex
	jobs   []job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{ctx: ctx, cancel: cancel}
}

// AddJob registers a named job to run every interval, starting immediately
// when the scheduler starts.
func (s *Scheduler) AddJob(name string, interval time.Duration, fn func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job{name: name, interval: interval, fn: fn})
	slog.Info("Cron job registered", "name", name, "interval", interval)
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, j := range s.jobs {
		s.wg.Add(1)
		go s.loop(j)
	}
	slog.Info("Cron scheduler started", "job_count", len(s.jobs))
}

// Stop cancels all jobs and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	slog.Info("Cron scheduler stopped")
}

func (s *Scheduler) loop(j job) {
	defer s.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	s.run(j)
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.run(j)
		}
	}
}

func (s *Scheduler) run(j job) {
	// A panicking job must not take the scheduler down with it.
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Cron job panicked", "name", j.name, "panic", r)
		}
	}()

	start := time.Now()
	if err := j.fn(s.ctx); err != nil {
		slog.Error("Cron job failed", "name", j.name, "error", err, "duration", time.Since(start))
	}
}
