package scheduler

import (
	"errors"
	"sync"
)

// ErrChannelClosed is returned by Send once the channel has been closed.
var ErrChannelClosed = errors.New("channel closed")

type queue[T any] []T

func (wq *queue[T]) Len() int { return len(*wq) }

func (wq *queue[T]) Pop() T {
	old := *wq
	x := old[0]
	var zero T
	old[0] = zero
	*wq = old[1:]
	return x
}

func (wq *queue[T]) Push(t T) {
	*wq = append(*wq, t)
}

// Channel is an unbounded FIFO shared by any number of senders and receivers.
// The mutex is the receive gate: a given item is handed to exactly one receiver.
type Channel[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  queue[T]
	closed bool
}

func NewChannel[T any]() *Channel[T] {
	c := &Channel[T]{}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Send enqueues item without waiting for a receiver.
func (c *Channel[T]) Send(item T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrChannelClosed
	}
	c.items.Push(item)
	c.cond.Signal()
	return nil
}

// Receive blocks until an item is available or the channel is closed.
// ok is false once the channel is closed.
func (c *Channel[T]) Receive() (item T, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.items.Len() == 0 && !c.closed {
		c.cond.Wait()
	}
	if c.closed {
		return item, false
	}
	return c.items.Pop(), true
}

// Close closes the channel and returns the items nobody received.
// Blocked receivers wake up with the closure signal. Calling Close
// more than once returns nil.
func (c *Channel[T]) Close() []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	pending := []T(c.items)
	c.items = nil
	c.cond.Broadcast()
	return pending
}

// Len returns the number of items waiting to be received.
func (c *Channel[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.Len()
}

func (c *Channel[T]) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
