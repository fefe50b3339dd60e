// Package queue schedules delayed background jobs in-process. A job
// enqueued under a key supersedes any pending job with the same key, so
// rapid turns collapse to a single run of work like reflection updates.
package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/koopa0/canvas/internal/log"
)

// ErrClosed is returned by Enqueue after Close.
var ErrClosed = errors.New("queue: dispatcher closed")

// Job is a unit of delayed background work. Key groups jobs for
// supersession; an empty key means the job never supersedes or is
// superseded. Graph names the work for logging only.
type Job struct {
	Graph string
	Key   string
	Delay time.Duration
	Run   func(ctx context.Context) error
}

// Dispatcher schedules background jobs.
type Dispatcher interface {
	Enqueue(job Job) error
	Close()
}

type pendingJob struct {
	timer  *time.Timer
	cancel context.CancelFunc
}

// InProcess runs jobs on timers inside the current process.
type InProcess struct {
	logger log.Logger

	baseCtx context.Context
	cancel  context.CancelFunc

	mu      sync.Mutex
	pending map[string]*pendingJob
	closed  bool
	wg      sync.WaitGroup
}

// NewInProcess creates a dispatcher. Close must be called to release
// pending timers.
func NewInProcess(logger log.Logger) *InProcess {
	if logger == nil {
		logger = log.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &InProcess{
		logger:  logger.With("component", "queue"),
		baseCtx: ctx,
		cancel:  cancel,
		pending: make(map[string]*pendingJob),
	}
}

// Enqueue schedules the job after its delay. A pending job under the
// same key is cancelled and replaced.
func (d *InProcess) Enqueue(job Job) error {
	if job.Run == nil {
		return errors.New("queue: job has no run function")
	}
	key := job.Key
	if key == "" {
		key = uuid.NewString()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}

	if prev, ok := d.pending[key]; ok {
		prev.cancel()
		if prev.timer.Stop() {
			d.wg.Done()
		}
		delete(d.pending, key)
		d.logger.Debug("superseded pending job", "graph", job.Graph, "key", key)
	}

	jobCtx, jobCancel := context.WithCancel(d.baseCtx)
	p := &pendingJob{cancel: jobCancel}
	d.wg.Add(1)
	p.timer = time.AfterFunc(job.Delay, func() {
		defer d.wg.Done()
		defer jobCancel()

		d.mu.Lock()
		if d.pending[key] == p {
			delete(d.pending, key)
		}
		d.mu.Unlock()

		if jobCtx.Err() != nil {
			return
		}
		if err := job.Run(jobCtx); err != nil {
			d.logger.Error("background job failed", "graph", job.Graph, "key", key, "error", err)
		}
	})
	d.pending[key] = p

	d.logger.Debug("job scheduled", "graph", job.Graph, "key", key, "delay", job.Delay)
	return nil
}

// Close cancels pending jobs and waits for running ones to finish.
func (d *InProcess) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for key, p := range d.pending {
		p.cancel()
		if p.timer.Stop() {
			d.wg.Done()
		}
		delete(d.pending, key)
	}
	d.mu.Unlock()

	d.cancel()
	d.wg.Wait()
}
