// Package runner drives the engine's periodic triggers: the sync attempt on
// a timer and routine generation on foreground re-entry. Jobs receive a
// context and must stop cleanly when it is cancelled; the work itself (sync,
// generation) carries its own re-entrancy guarantees.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nudgelabs/nudge-core/internal/logger"
)

var (
	ErrJobExists     = errors.New("runner: job already exists")
	ErrAlreadyActive = errors.New("runner: already started")
)

// Job is one periodic trigger.
type Job struct {
	Name       string
	Interval   time.Duration
	Timeout    time.Duration
	RunOnStart bool
	Run        func(context.Context) error
}

// Runner owns the job goroutines.
type Runner struct {
	mu      sync.Mutex
	jobs    map[string]Job
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func New() *Runner {
	return &Runner{jobs: make(map[string]Job)}
}

func (r *Runner) Register(job Job) error {
	if job.Name == "" || job.Run == nil || job.Interval <= 0 {
		return fmt.Errorf("runner: invalid job %q", job.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.jobs[job.Name]; exists {
		return fmt.Errorf("%w: %s", ErrJobExists, job.Name)
	}
	r.jobs[job.Name] = job
	return nil
}

// Start launches one loop per registered job.
func (r *Runner) Start(parent context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return ErrAlreadyActive
	}

	ctx, cancel := context.WithCancel(parent)
	r.cancel = cancel
	r.started = true

	for _, job := range r.jobs {
		r.wg.Add(1)
		go r.runLoop(ctx, job)
	}
	return nil
}

// Stop cancels every job and waits for the loops to exit, up to the timeout.
func (r *Runner) Stop(timeout time.Duration) error {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return nil
	}
	cancel := r.cancel
	r.started = false
	r.cancel = nil
	r.mu.Unlock()

	cancel()
	if timeout <= 0 {
		r.wg.Wait()
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.wg.Wait()
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("runner: stop timeout after %s", timeout)
	}
}

func (r *Runner) runLoop(ctx context.Context, job Job) {
	defer r.wg.Done()

	if job.RunOnStart {
		r.runOnce(ctx, job)
	}

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.runOnce(ctx, job)
		}
	}
}

func (r *Runner) runOnce(parent context.Context, job Job) {
	runCtx := parent
	cancel := func() {}
	if job.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(parent, job.Timeout)
	}
	defer cancel()

	if err := job.Run(runCtx); err != nil {
		// A failed attempt is retried on the next tick; never fatal here.
		logger.Warn("Background job failed", "job", job.Name, "error", err)
	}
}
