package gemdocs

import (
	"context"
	"time"
)

// RunState is the lifecycle state of the ingestion run.
type RunState string

// Run states. Completed and failed are displayed until the next trigger.
const (
	RunIdle      RunState = "idle"
	RunRunning   RunState = "running"
	RunCompleted RunState = "completed"
	RunFailed    RunState = "failed"
)

// Failure records a page that could not be ingested.
type Failure struct {
	URL string `json:"url"`
	Err error  `json:"-"`
}

// RunSummary reports the outcome of one ingestion run.
type RunSummary struct {
	Discovered int       `json:"discovered"`
	Inserted   int       `json:"inserted"`
	Updated    int       `json:"updated"`
	Unchanged  int       `json:"unchanged"`
	Failed     int       `json:"failed"`
	Removed    int       `json:"removed"`
	Bytes      int       `json:"bytes"`
	Tokens     int       `json:"tokens"`
	Failures   []Failure `json:"-"`
}

// Runner executes one ingestion run.
type Runner interface {
	Run(ctx context.Context) (*RunSummary, error)
}

// RunStatus is a snapshot of the refresh state.
type RunStatus struct {
	RunID     string      `json:"runId,omitempty"`
	State     RunState    `json:"status"`
	StartedAt *time.Time  `json:"startedAt,omitempty"`
	LastRun   *time.Time  `json:"lastRun"`
	Error     string      `json:"error,omitempty"`
	Summary   *RunSummary `json:"summary,omitempty"`
}

// TriggerResult reports whether a trigger started a new run.
type TriggerResult string

const (
	TriggerStarted    TriggerResult = "started"
	TriggerInProgress TriggerResult = "in_progress"
)

// Refresher starts ingestion runs on demand and reports their status.
type Refresher interface {
	// Trigger starts a run unless one is already active. It never blocks
	// on the run itself.
	Trigger() TriggerResult

	// Status returns the current run state.
	Status() RunStatus
}
