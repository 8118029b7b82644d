// Package scheduler implements a fixed-size worker pool fed by an unbounded FIFO channel.
//
// A Scheduler owns N long-lived workers. Callers hand it zero-argument jobs with
// Execute; the call returns as soon as the job is queued and some idle worker
// eventually runs it exactly once. AddWork layers a per-job result channel on top
// of the same queue for callers that need a value back.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────────┐
//	│                           Scheduler                                 │
//	│                                                                     │
//	│      Execute(job)          AddWork(fn) ──► Future                   │
//	│           │                     │                                   │
//	│           └──────────┬──────────┘                                   │
//	│                      ▼                                              │
//	│  ┌─────────────────────────────────────────────────────────┐        │
//	│  │                 Channel[task] (unbounded)               │        │
//	│  │  [task1] [task2] [task3] ...                            │        │
//	│  └───────────────────────────┬─────────────────────────────┘        │
//	│                              │ Receive() under the channel mutex    │
//	│         ┌────────────────────┼─────────────────────┐                │
//	│         ▼                    ▼                     ▼                │
//	│  ┌──────────────┐     ┌──────────────┐      ┌──────────────┐        │
//	│  │   Worker 0   │     │   Worker 1   │      │  Worker N-1  │        │
//	│  └──────────────┘     └──────────────┘      └──────────────┘        │
//	└─────────────────────────────────────────────────────────────────────┘
//
// # Channel
//
// Channel is a mutex and condition variable around a slice queue:
//   - Send never blocks and fails with ErrChannelClosed after Close
//   - Receive blocks until an item is available or the channel is closed
//   - the mutex is the receive gate, so each item goes to exactly one receiver
//   - items from one sender come out in the order they went in
//
// # Worker Lifecycle
//
//	┌───────────┐    Receive() ok     ┌────────────┐
//	│  Waiting  │ ──────────────────► │ Executing  │
//	│           │                     │            │
//	└─────┬─────┘                     └─────┬──────┘
//	      │  ▲                              │
//	      │  └──────── job returned ────────┘
//	      │
//	      │ Receive() closed
//	      ▼
//	┌───────────┐
//	│  Stopped  │
//	└───────────┘
//
// Workers are started by NewScheduler and never replaced. The pool size is fixed
// for the lifetime of the scheduler.
//
// # Panic Recovery
//
// A job that panics is recovered at the job boundary. The panic and its stack are
// logged and the worker goes back to waiting, so a faulty job never costs the pool
// a worker. Jobs submitted through AddWork report the panic on their future:
//
//	Result{Err: fmt.Errorf("worker panicked: %v", rec)}
//
// # Ordering
//
// Jobs submitted by one goroutine are dequeued in submission order. With several
// workers the completion order is not defined, and nothing says which worker runs
// which job.
//
// # No Cancellation, No Backpressure
//
// Execute jobs cannot be withdrawn or time-bounded. A job that never returns holds
// its worker forever. The queue is unbounded: Execute accepts work however far the
// workers have fallen behind.
//
// # Shutdown
//
// Close() performs the teardown:
//
//  1. Cancels the main context (AddWork contexts observe it)
//  2. Closes the channel; blocked workers wake up with the closure signal
//  3. Drops every task no worker has dequeued yet. Execute jobs are never run,
//     AddWork futures receive ErrJobDiscarded
//  4. Waits for every worker to finish its current job and exit
//
// Close() is idempotent (uses sync.Once). Execute after Close returns
// ErrChannelClosed; AddWork after Close yields context.Canceled.
//
// # Usage Example
//
//	sched := scheduler.NewScheduler(4)
//	defer sched.Close()
//
//	if err := sched.Execute(func() { handle(conn) }); err != nil {
//	    conn.Close()
//	}
//
//	future := sched.AddWork(func(ctx context.Context) (any, error) {
//	    return compute(ctx)
//	})
//	result := <-future.C()
package scheduler
