package scheduler

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	ErrNilJob       = errors.New("job is nil")
	ErrJobDiscarded = errors.New("job discarded before execution")
)

// task is what travels through the channel. discard is called instead of
// run when the scheduler closes before any worker dequeued the task.
type task struct {
	run     Job
	discard func()
}

const (
	stateWaiting int32 = iota
	stateExecuting
	stateStopped
)

type worker struct {
	id    int
	state atomic.Int32
}

func (w *worker) State() WorkerState {
	switch w.state.Load() {
	case stateExecuting:
		return WorkerStateExecuting
	case stateStopped:
		return WorkerStateStopped
	default:
		return WorkerStateWaiting
	}
}

func (w *worker) loop(s *Scheduler) {
	defer func() {
		w.state.Store(stateStopped)
		s.wg.Done()
	}()

	for {
		t, ok := s.channel.Receive()
		if !ok {
			zap.S().Named("scheduler").Debugw("worker stopping", "worker", w.id)
			return
		}

		zap.S().Named("scheduler").Debugw("worker got a job; executing", "worker", w.id)
		w.state.Store(stateExecuting)
		s.busy.Add(1)

		s.runTask(w.id, t)

		s.busy.Add(-1)
		w.state.Store(stateWaiting)
	}
}

// Scheduler is a fixed-size pool of workers fed by an unbounded FIFO channel.
type Scheduler struct {
	channel    *Channel[task]
	workers    []*worker
	mainCtx    context.Context
	mainCancel context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once

	busy      atomic.Int64
	submitted atomic.Int64
	executed  atomic.Int64
	panicked  atomic.Int64
	discarded atomic.Int64
}

// NewScheduler starts nbWorkers workers. It panics if nbWorkers is not positive.
func NewScheduler(nbWorkers int) *Scheduler {
	if nbWorkers <= 0 {
		panic(fmt.Sprintf("scheduler: number of workers must be positive, got %d", nbWorkers))
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		channel:    NewChannel[task](),
		workers:    make([]*worker, 0, nbWorkers),
		mainCtx:    ctx,
		mainCancel: cancel,
	}

	s.wg.Add(nbWorkers)
	for id := range nbWorkers {
		w := &worker{id: id}
		s.workers = append(s.workers, w)
		go w.loop(s)
	}

	zap.S().Named("scheduler").Infow("scheduler started", "workers", nbWorkers)
	return s
}

// Execute queues job and returns without waiting for it to run.
// It returns ErrChannelClosed once Close has been called.
func (s *Scheduler) Execute(job Job) error {
	if job == nil {
		return ErrNilJob
	}
	return s.send(task{run: job})
}

// AddWork queues w and returns a future receiving exactly one result.
// The work context is cancelled by Future.Stop or by Close.
func (s *Scheduler) AddWork(w Work[any]) *Future[Result[any]] {
	c := make(chan Result[any], 1)
	ctx, cancel := context.WithCancel(s.mainCtx)

	t := task{
		run: func() {
			defer func() {
				if rec := recover(); rec != nil {
					s.panicked.Add(1)
					c <- Result[any]{Err: fmt.Errorf("worker panicked: %v", rec)}
				}
				cancel()
			}()

			v, err := w(ctx)
			c <- Result[any]{Data: v, Err: err}
		},
		discard: func() {
			c <- Result[any]{Err: ErrJobDiscarded}
			cancel()
		},
	}

	if err := s.send(t); err != nil {
		// we're closing here so send a result with an error
		c <- Result[any]{Err: err}
		cancel()
	}

	return NewFuture(c, cancel)
}

func (s *Scheduler) send(t task) error {
	s.submitted.Add(1)
	if err := s.channel.Send(t); err != nil {
		s.submitted.Add(-1)
		return err
	}
	return nil
}

func (s *Scheduler) runTask(workerID int, t task) {
	defer func() {
		if rec := recover(); rec != nil {
			s.panicked.Add(1)
			zap.S().Named("scheduler").Errorw("job panicked", "worker", workerID, "panic", rec, "stack", string(debug.Stack()))
		}
		s.executed.Add(1)
	}()

	t.run()
}

// Close stops accepting jobs, discards the ones no worker has dequeued yet
// and waits for in-flight jobs to return. It must not be called from a job.
func (s *Scheduler) Close() {
	s.once.Do(func() {
		s.mainCancel()

		pending := s.channel.Close()
		for _, t := range pending {
			if t.discard != nil {
				t.discard()
			}
		}
		s.discarded.Add(int64(len(pending)))

		s.wg.Wait()
		zap.S().Named("scheduler").Infow("scheduler stopped", "discarded", len(pending), "executed", s.executed.Load())
	})
}

// Size returns the number of workers. It never changes.
func (s *Scheduler) Size() int {
	return len(s.workers)
}

func (s *Scheduler) Workers() []WorkerInfo {
	infos := make([]WorkerInfo, 0, len(s.workers))
	for _, w := range s.workers {
		infos = append(infos, WorkerInfo{ID: w.id, State: w.State()})
	}
	return infos
}

func (s *Scheduler) Stats() Stats {
	return Stats{
		Workers:   len(s.workers),
		Busy:      int(s.busy.Load()),
		Queued:    s.channel.Len(),
		Submitted: s.submitted.Load(),
		Executed:  s.executed.Load(),
		Panicked:  s.panicked.Load(),
		Discarded: s.discarded.Load(),
	}
}
