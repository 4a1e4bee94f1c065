// Package refresh coordinates ingestion runs triggered from the control
// surface. At most one run is active at a time.
package refresh

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/gemdocs"
	"github.com/google/uuid"
)

var _ gemdocs.Refresher = (*Coordinator)(nil)

// Coordinator runs a gemdocs.Runner in the background and tracks its
// state. The zero value is not usable; create one with NewCoordinator.
type Coordinator struct {
	runner gemdocs.Runner
	logger *slog.Logger

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	running atomic.Bool
	wg      sync.WaitGroup

	mu     sync.Mutex
	status gemdocs.RunStatus
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger used for run lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithClock sets the clock used for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		c.Now = now
	}
}

// NewCoordinator creates an idle Coordinator for runner.
func NewCoordinator(runner gemdocs.Runner, opts ...Option) *Coordinator {
	c := &Coordinator{
		runner: runner,
		logger: slog.New(slog.DiscardHandler),
		Now:    time.Now,
		status: gemdocs.RunStatus{State: gemdocs.RunIdle},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Trigger starts a run unless one is already active.
// The running flag and the reported state change under mu together, so a
// caller told in_progress never observes a terminal state.
func (c *Coordinator) Trigger() gemdocs.TriggerResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running.CompareAndSwap(false, true) {
		return gemdocs.TriggerInProgress
	}

	id := uuid.NewString()
	started := c.Now().UTC()
	c.status.RunID = id
	c.status.State = gemdocs.RunRunning
	c.status.StartedAt = &started
	c.status.Error = ""

	c.wg.Add(1)
	go c.run(id)

	return gemdocs.TriggerStarted
}

// Status returns a snapshot of the current state.
func (c *Coordinator) Status() gemdocs.RunStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Wait blocks until the active run, if any, has finished.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// run executes one ingestion under a context that outlives the trigger
// caller and records the outcome.
func (c *Coordinator) run(id string) {
	defer c.wg.Done()

	logger := c.logger.With("run_id", id)
	logger.Info("refresh started")

	summary, err := c.execute(context.Background())

	finished := c.Now().UTC()
	c.mu.Lock()
	c.status.LastRun = &finished
	if summary != nil {
		c.status.Summary = summary
	}
	if err != nil {
		c.status.State = gemdocs.RunFailed
		c.status.Error = err.Error()
	} else {
		c.status.State = gemdocs.RunCompleted
	}
	c.running.Store(false)
	c.mu.Unlock()

	if err != nil {
		logger.Error("refresh failed", "err", err)
		return
	}
	logger.Info("refresh completed",
		"inserted", summary.Inserted,
		"updated", summary.Updated,
		"unchanged", summary.Unchanged,
		"failed", summary.Failed,
		"removed", summary.Removed,
	)
}

// execute calls the runner, converting a panic into an EINTERNAL error.
func (c *Coordinator) execute(ctx context.Context) (summary *gemdocs.RunSummary, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("refresh panicked", "panic", r, "stack", string(debug.Stack()))
			summary = nil
			err = gemdocs.Errorf(gemdocs.EINTERNAL, "ingestion panicked: %v", r)
		}
	}()

	summary, err = c.runner.Run(ctx)
	if err == nil && summary == nil {
		err = gemdocs.Errorf(gemdocs.EINTERNAL, "runner returned no summary")
	}
	return summary, err
}
