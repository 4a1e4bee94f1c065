package mock

import (
	"context"

	"github.com/fwojciec/gemdocs"
)

// Compile-time interface verification.
var (
	_ gemdocs.Runner    = (*Runner)(nil)
	_ gemdocs.Refresher = (*Refresher)(nil)
)

// Runner is a mock implementation of gemdocs.Runner.
type Runner struct {
	RunFn func(ctx context.Context) (*gemdocs.RunSummary, error)
}

func (r *Runner) Run(ctx context.Context) (*gemdocs.RunSummary, error) {
	return r.RunFn(ctx)
}

// Refresher is a mock implementation of gemdocs.Refresher.
type Refresher struct {
	TriggerFn func() gemdocs.TriggerResult
	StatusFn  func() gemdocs.RunStatus
}

func (r *Refresher) Trigger() gemdocs.TriggerResult {
	return r.TriggerFn()
}

func (r *Refresher) Status() gemdocs.RunStatus {
	return r.StatusFn()
}
