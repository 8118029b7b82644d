package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kubev2v/poolserve/pkg/scheduler"
)

// Executor runs jobs somewhere else. *scheduler.Scheduler implements it.
type Executor interface {
	Execute(job scheduler.Job) error
}

// ConnHandler answers one connection. *services.Pages implements it.
type ConnHandler interface {
	Serve(rw io.ReadWriter) error
}

// DefaultAcceptTimeout is how long Accept may keep failing before Serve gives up.
const DefaultAcceptTimeout = time.Minute

// Listener accepts TCP connections and submits one job per connection.
// It never handles a connection itself.
type Listener struct {
	addr     string
	executor Executor
	handler  ConnHandler

	acceptTimeout time.Duration

	mu       sync.Mutex
	ln       net.Listener
	stopping atomic.Bool
}

func NewListener(addr string, executor Executor, handler ConnHandler) *Listener {
	return &Listener{
		addr:          addr,
		executor:      executor,
		handler:       handler,
		acceptTimeout: DefaultAcceptTimeout,
	}
}

// Start binds the address and runs the accept loop until Stop is called or
// ctx is done.
func (l *Listener) Start(ctx context.Context) error {
	if err := l.Listen(); err != nil {
		return err
	}
	return l.Serve(ctx)
}

// Listen binds the listener address.
func (l *Listener) Listen() error {
	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", l.addr, err)
	}

	l.mu.Lock()
	l.ln = ln
	l.mu.Unlock()

	zap.S().Named("listener").Infow("listener started", "address", ln.Addr().String())
	return nil
}

// Serve runs the accept loop on a bound listener. A closed listener ends the
// loop with a nil error. Accept failing for longer than DefaultAcceptTimeout
// ends it with an error.
func (l *Listener) Serve(ctx context.Context) error {
	l.mu.Lock()
	ln := l.ln
	l.mu.Unlock()
	if ln == nil {
		return errors.New("listener is not bound")
	}

	stop := context.AfterFunc(ctx, func() { _ = l.Stop() })
	defer stop()

	for {
		conn, err := l.accept(ctx, ln)
		if err != nil {
			if l.stopping.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("failed to accept connection: %w", err)
		}
		l.dispatch(conn)
	}
}

// accept retries failed Accept calls with exponential backoff for at most
// acceptTimeout. A closed listener is a permanent error.
func (l *Listener) accept(ctx context.Context, ln net.Listener) (net.Conn, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 5 * time.Millisecond
	b.MaxInterval = time.Second

	return backoff.Retry(ctx, func() (net.Conn, error) {
		conn, err := ln.Accept()
		if err == nil {
			return conn, nil
		}
		if l.stopping.Load() || errors.Is(err, net.ErrClosed) {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxElapsedTime(l.acceptTimeout),
		backoff.WithNotify(func(err error, next time.Duration) {
			zap.S().Named("listener").Warnw("accept failed; retrying", "error", err, "retry_in", next)
		}),
	)
}

func (l *Listener) dispatch(conn net.Conn) {
	log := zap.S().Named("listener").With("conn_id", uuid.NewString(), "remote", conn.RemoteAddr().String())

	err := l.executor.Execute(func() {
		defer conn.Close()

		if err := l.handler.Serve(conn); err != nil {
			log.Errorw("failed to serve connection", "error", err)
			return
		}
		log.Debugw("connection served")
	})
	if err != nil {
		log.Errorw("failed to schedule connection", "error", err)
		_ = conn.Close()
		return
	}

	log.Debugw("connection established")
}

// Addr returns the bound address, or "" before Listen.
func (l *Listener) Addr() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ln == nil {
		return ""
	}
	return l.ln.Addr().String()
}

// Stop closes the listener. Connections already handed to the executor are
// not affected.
func (l *Listener) Stop() error {
	l.stopping.Store(true)

	l.mu.Lock()
	ln := l.ln
	l.mu.Unlock()
	if ln == nil {
		return nil
	}

	if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}
