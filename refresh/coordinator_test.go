package refresh_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/gemdocs"
	"github.com/fwojciec/gemdocs/mock"
	"github.com/fwojciec/gemdocs/refresh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinator(t *testing.T) {
	t.Parallel()

	t.Run("starts idle", func(t *testing.T) {
		t.Parallel()

		c := refresh.NewCoordinator(&mock.Runner{})
		status := c.Status()
		assert.Equal(t, gemdocs.RunIdle, status.State)
		assert.Nil(t, status.LastRun)
		assert.Empty(t, status.Error)
	})

	t.Run("completed run records summary and timestamp", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		c := refresh.NewCoordinator(&mock.Runner{
			RunFn: func(context.Context) (*gemdocs.RunSummary, error) {
				return &gemdocs.RunSummary{Discovered: 2, Inserted: 2}, nil
			},
		}, refresh.WithClock(func() time.Time { return now }))

		assert.Equal(t, gemdocs.TriggerStarted, c.Trigger())
		c.Wait()

		status := c.Status()
		assert.Equal(t, gemdocs.RunCompleted, status.State)
		require.NotNil(t, status.LastRun)
		assert.Equal(t, now, *status.LastRun)
		require.NotNil(t, status.Summary)
		assert.Equal(t, 2, status.Summary.Inserted)
		assert.NotEmpty(t, status.RunID)
	})

	t.Run("concurrent triggers start a single run", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		var runs atomic.Int32
		c := refresh.NewCoordinator(&mock.Runner{
			RunFn: func(context.Context) (*gemdocs.RunSummary, error) {
				runs.Add(1)
				<-release
				return &gemdocs.RunSummary{}, nil
			},
		})

		require.Equal(t, gemdocs.TriggerStarted, c.Trigger())

		var wg sync.WaitGroup
		var inProgress atomic.Int32
		for range 10 {
			wg.Go(func() {
				if c.Trigger() == gemdocs.TriggerInProgress {
					inProgress.Add(1)
				}
			})
		}
		wg.Wait()

		assert.Equal(t, int32(10), inProgress.Load())
		assert.Equal(t, gemdocs.RunRunning, c.Status().State)

		close(release)
		c.Wait()
		assert.Equal(t, int32(1), runs.Load())
		assert.Equal(t, gemdocs.RunCompleted, c.Status().State)
	})

	t.Run("triggered callers never observe the previous terminal state", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		release := make(chan struct{})
		c := refresh.NewCoordinator(&mock.Runner{
			RunFn: func(context.Context) (*gemdocs.RunSummary, error) {
				if calls.Add(1) > 1 {
					<-release
				}
				return &gemdocs.RunSummary{}, nil
			},
		})

		c.Trigger()
		c.Wait()
		require.Equal(t, gemdocs.RunCompleted, c.Status().State)

		var wg sync.WaitGroup
		start := make(chan struct{})
		for range 16 {
			wg.Go(func() {
				<-start
				result := c.Trigger()
				assert.Equal(t, gemdocs.RunRunning, c.Status().State, "after %s", result)
			})
		}
		close(start)
		wg.Wait()

		close(release)
		c.Wait()
		assert.Equal(t, int32(2), calls.Load())
		assert.Equal(t, gemdocs.RunCompleted, c.Status().State)
	})

	t.Run("failed run records the error", func(t *testing.T) {
		t.Parallel()

		c := refresh.NewCoordinator(&mock.Runner{
			RunFn: func(context.Context) (*gemdocs.RunSummary, error) {
				return nil, gemdocs.Errorf(gemdocs.EDISCOVERY, "manifest unreachable")
			},
		})

		c.Trigger()
		c.Wait()

		status := c.Status()
		assert.Equal(t, gemdocs.RunFailed, status.State)
		assert.Equal(t, "manifest unreachable", status.Error)
		assert.NotNil(t, status.LastRun)
	})

	t.Run("panic in runner is recorded as failure", func(t *testing.T) {
		t.Parallel()

		c := refresh.NewCoordinator(&mock.Runner{
			RunFn: func(context.Context) (*gemdocs.RunSummary, error) {
				panic("boom")
			},
		})

		c.Trigger()
		c.Wait()

		status := c.Status()
		assert.Equal(t, gemdocs.RunFailed, status.State)
		assert.Contains(t, status.Error, "boom")

		// The coordinator accepts new runs after a panic.
		assert.Equal(t, gemdocs.TriggerStarted, c.Trigger())
		c.Wait()
	})

	t.Run("a new trigger after failure clears the error", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		c := refresh.NewCoordinator(&mock.Runner{
			RunFn: func(context.Context) (*gemdocs.RunSummary, error) {
				if calls.Add(1) == 1 {
					return nil, errors.New("first run fails")
				}
				return &gemdocs.RunSummary{}, nil
			},
		})

		c.Trigger()
		c.Wait()
		require.Equal(t, gemdocs.RunFailed, c.Status().State)

		c.Trigger()
		c.Wait()
		status := c.Status()
		assert.Equal(t, gemdocs.RunCompleted, status.State)
		assert.Empty(t, status.Error)
	})

	t.Run("run context is not cancelled with the caller", func(t *testing.T) {
		t.Parallel()

		var runErr error
		c := refresh.NewCoordinator(&mock.Runner{
			RunFn: func(ctx context.Context) (*gemdocs.RunSummary, error) {
				runErr = ctx.Err()
				return &gemdocs.RunSummary{}, nil
			},
		})

		c.Trigger()
		c.Wait()
		assert.NoError(t, runErr)
	})
}
