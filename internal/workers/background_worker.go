package workers

import (
	"context"
	"log"
	"sync"
	"time"
)

// Task is a named unit of background work. Interval 0 means run once.
type Task struct {
	Name     string
	Handler  func(ctx context.Context) error
	Interval time.Duration
}

// BackgroundWorker runs background tasks until it is shut down.
// Tasks added before Start are held until Start; tasks added afterwards start right away.
type BackgroundWorker struct {
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	pending []Task
	started bool
}

// NewBackgroundWorker creates a worker whose tasks stop when ctx is cancelled or on Shutdown.
func NewBackgroundWorker(ctx context.Context) *BackgroundWorker {
	cctx, cancel := context.WithCancel(ctx)
	return &BackgroundWorker{
		ctx:    cctx,
		cancel: cancel,
	}
}

// AddTask schedules a task.
func (bw *BackgroundWorker) AddTask(task Task) {
	bw.mu.Lock()
	defer bw.mu.Unlock()

	if bw.started {
		bw.startTask(task)
		return
	}
	bw.pending = append(bw.pending, task)
}

// AddPeriodicTask schedules handler to run now and then every interval.
func (bw *BackgroundWorker) AddPeriodicTask(name string, interval time.Duration, handler func(ctx context.Context) error) {
	bw.AddTask(Task{Name: name, Handler: handler, Interval: interval})
}

// Start runs all pending tasks.
func (bw *BackgroundWorker) Start() {
	bw.mu.Lock()
	defer bw.mu.Unlock()

	if bw.started {
		return
	}
	bw.started = true

	for _, task := range bw.pending {
		bw.startTask(task)
	}
	bw.pending = nil
}

func (bw *BackgroundWorker) startTask(task Task) {
	bw.wg.Add(1)
	go func(t Task) {
		defer bw.wg.Done()

		bw.run(t)
		if t.Interval <= 0 {
			return
		}

		ticker := time.NewTicker(t.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-bw.ctx.Done():
				log.Printf("Background task '%s' stopping", t.Name)
				return
			case <-ticker.C:
				bw.run(t)
			}
		}
	}(task)
}

// run executes one invocation of a task, recovering from panics.
func (bw *BackgroundWorker) run(t Task) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic in task %s: %v", t.Name, r)
		}
	}()

	if err := t.Handler(bw.ctx); err != nil {
		log.Printf("Background task '%s' error: %v", t.Name, err)
	}
}

// Shutdown cancels all tasks and waits for them to return.
func (bw *BackgroundWorker) Shutdown() {
	log.Println("Shutting down background tasks...")
	bw.cancel()
	bw.wg.Wait()
	log.Println("All background tasks stopped.")
}
