package workers_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/firstloop/nomendex/internal/assert"
	"github.com/firstloop/nomendex/internal/workers"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestBackgroundWorker_PendingUntilStart(t *testing.T) {
	t.Parallel()

	var runs atomic.Int32
	bw := workers.NewBackgroundWorker(context.Background())
	bw.AddTask(workers.Task{Name: "once", Handler: func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}})

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, runs.Load(), int32(0))

	bw.Start()
	waitFor(t, func() bool { return runs.Load() == 1 })

	bw.Shutdown()
	assert.Equal(t, runs.Load(), int32(1))
}

func TestBackgroundWorker_PeriodicTask(t *testing.T) {
	t.Parallel()

	var runs atomic.Int32
	bw := workers.NewBackgroundWorker(context.Background())
	bw.Start()

	// Added after Start, so it runs right away
	bw.AddPeriodicTask("tick", 5*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	waitFor(t, func() bool { return runs.Load() >= 3 })
	bw.Shutdown()

	stopped := runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, runs.Load(), stopped)
}

func TestBackgroundWorker_ErrorsAndPanicsDoNotStopTask(t *testing.T) {
	t.Parallel()

	var runs atomic.Int32
	bw := workers.NewBackgroundWorker(context.Background())
	bw.AddPeriodicTask("flaky", 5*time.Millisecond, func(ctx context.Context) error {
		switch runs.Add(1) {
		case 1:
			return errors.New("boom")
		case 2:
			panic("worse")
		}
		return nil
	})
	bw.Start()

	waitFor(t, func() bool { return runs.Load() >= 3 })
	bw.Shutdown()
}

func TestBackgroundWorker_ParentCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	bw := workers.NewBackgroundWorker(ctx)

	done := make(chan struct{})
	bw.AddTask(workers.Task{Name: "wait", Handler: func(ctx context.Context) error {
		<-ctx.Done()
		close(done)
		return ctx.Err()
	}})
	bw.Start()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task did not see cancellation")
	}
	bw.Shutdown()
}
