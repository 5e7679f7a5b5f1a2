package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

var ErrQueueClosed = errors.New("task queue is closed")

// TaskObserver is told the result of every submitted task
type TaskObserver func(name, result string)

// Task results reported to the observer
const (
	TaskResultOK      = "ok"
	TaskResultError   = "error"
	TaskResultPanic   = "panic"
	TaskResultDropped = "dropped"
)

type queuedTask struct {
	name string
	fn   func(ctx context.Context) error
}

// TaskQueue runs best-effort background work on a fixed pool of workers.
// Submit never blocks; tasks are dropped when the buffer is full. Failed
// tasks are logged and never retried.
type TaskQueue struct {
	tasks    chan queuedTask
	workers  int
	observer TaskObserver

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewTaskQueue creates a queue with the given worker count and buffer size
func NewTaskQueue(workers, size int, observer TaskObserver) *TaskQueue {
	if workers < 1 {
		workers = 1
	}
	if size < 1 {
		size = 1
	}
	return &TaskQueue{
		tasks:    make(chan queuedTask, size),
		workers:  workers,
		observer: observer,
	}
}

// Start launches the workers. Tasks run with a context derived from ctx.
func (q *TaskQueue) Start(ctx context.Context) {
	q.ctx, q.cancel = context.WithCancel(context.WithoutCancel(ctx))

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.work(i)
	}

	log.WithField("workers", q.workers).Info("Task queue started")
}

// Submit enqueues a task and reports whether it was accepted
func (q *TaskQueue) Submit(name string, task func(ctx context.Context) error) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		log.WithField("task", name).Warn("Task queue closed, dropping task")
		q.observe(name, TaskResultDropped)
		return false
	}

	select {
	case q.tasks <- queuedTask{name: name, fn: task}:
		return true
	default:
		log.WithFields(log.Fields{
			"task":     name,
			"capacity": cap(q.tasks),
		}).Warn("Task queue full, dropping task")
		q.observe(name, TaskResultDropped)
		return false
	}
}

// Pending returns the number of tasks waiting for a worker
func (q *TaskQueue) Pending() int {
	return len(q.tasks)
}

// Close stops accepting tasks and waits for queued ones to finish. When
// ctx expires first, running tasks are cancelled and the rest are abandoned.
func (q *TaskQueue) Close(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.tasks)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		q.stop()
		log.Info("Task queue drained")
		return nil
	case <-ctx.Done():
		q.stop()
		abandoned := len(q.tasks)
		log.WithField("abandoned", abandoned).Warn("Task queue drain deadline reached")
		return fmt.Errorf("task queue drain interrupted with %d tasks pending: %w", abandoned, ctx.Err())
	}
}

func (q *TaskQueue) stop() {
	if q.cancel != nil {
		q.cancel()
	}
}

func (q *TaskQueue) work(id int) {
	defer q.wg.Done()

	for task := range q.tasks {
		if q.ctx.Err() != nil {
			q.observe(task.name, TaskResultDropped)
			continue
		}
		q.run(id, task)
	}
}

func (q *TaskQueue) run(worker int, task queuedTask) {
	fields := log.Fields{
		"task":   task.name,
		"worker": worker,
	}

	defer func() {
		if r := recover(); r != nil {
			log.WithFields(fields).WithField("panic", r).Error("Background task panicked")
			q.observe(task.name, TaskResultPanic)
		}
	}()

	start := time.Now()
	if err := task.fn(q.ctx); err != nil {
		log.WithError(err).WithFields(fields).Error("Background task failed")
		q.observe(task.name, TaskResultError)
		return
	}

	log.WithFields(fields).WithField("duration", time.Since(start)).Debug("Background task finished")
	q.observe(task.name, TaskResultOK)
}

func (q *TaskQueue) observe(name, result string) {
	if q.observer != nil {
		q.observer(name, result)
	}
}
