package scheduler

import (
	"context"
)

// Job is a fire-and-forget unit of work. It runs at most once.
type Job func()

type Work[T any] func(ctx context.Context) (T, error)

type Result[T any] struct {
	Data T
	Err  error
}

type Future[T any] struct {
	input  chan T
	cancel context.CancelFunc
}

func NewFuture[T any](input chan T, cancel context.CancelFunc) *Future[T] {
	f := &Future[T]{
		input:  input,
		cancel: cancel,
	}

	return f
}

func (f *Future[T]) C() chan T {
	return f.input
}

func (f *Future[T]) Stop() {
	f.cancel()
}

type WorkerState string

const (
	WorkerStateWaiting   WorkerState = "waiting"
	WorkerStateExecuting WorkerState = "executing"
	WorkerStateStopped   WorkerState = "stopped"
)

type WorkerInfo struct {
	ID    int
	State WorkerState
}

// Stats is a snapshot of the scheduler counters. Fields are read
// independently and do not form a single consistent cut.
type Stats struct {
	Workers   int
	Busy      int
	Queued    int
	Submitted int64
	Executed  int64
	Panicked  int64
	Discarded int64
}

func (s Stats) Idle() int {
	return s.Workers - s.Busy
}
