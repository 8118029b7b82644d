// Package server provides the two network front ends of poolserve.
//
// # Architecture Overview
//
//	┌───────────────────────────────────────────────────────────────┐
//	│                     Listener (raw TCP)                        │
//	├───────────────────────────────────────────────────────────────┤
//	│  Accept loop ──► one job per connection ──► Executor          │
//	│  (backoff on accept errors)                 (scheduler)       │
//	└───────────────────────────────────────────────────────────────┘
//
//	┌───────────────────────────────────────────────────────────────┐
//	│                     Admin Server (Gin)                        │
//	├───────────────────────────────────────────────────────────────┤
//	│                       Middleware Stack                        │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  Logger (ginzap.Ginzap, "http" logger name)             │  │
//	│  │  Recovery (ginzap.RecoveryWithZap with stack trace)     │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	├───────────────────────────────────────────────────────────────┤
//	│  /metrics          Prometheus handler                         │
//	│  /api/v1/*         Handlers (registered via callback)         │
//	│  anything else     404 JSON error                             │
//	└───────────────────────────────────────────────────────────────┘
//
// # Listener
//
// The listener is a pure producer. For every accepted connection it submits
// one job to its Executor and goes back to Accept; the job answers the
// connection through a ConnHandler and closes it. Each connection is tagged
// with a UUID in the logs.
//
// Failures stay inside the connection's job:
//   - a handler error is logged and the connection closed
//   - if the executor rejects the job (scheduler closed) the connection is
//     closed without an answer
//
// Accept errors are retried with exponential backoff (5ms up to 1s between
// attempts). A closed listener ends the loop cleanly. If Accept fails for
// DefaultAcceptTimeout without a single success, Serve returns the last error
// and the run command shuts down.
//
// Lifecycle:
//
//	l := server.NewListener(cfg.Server.ListenAddress, sched, pages)
//
//	// Blocks until Stop() or ctx is done
//	err := l.Start(ctx)
//
// Listen and Serve can be called separately when the caller needs the bound
// address (for example with port 0) before serving.
//
// # Admin Server
//
// Creation:
//
//	srv, err := server.NewServer(cfg, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), func(router *gin.RouterGroup) {
//	    handlers.RegisterHandlers(router, handlers.New(sched))
//	})
//
// The registerHandlerFn callback receives a RouterGroup prefixed with /api/v1.
// Gin runs in debug mode only when the log level is "debug".
//
// Starting:
//
//	// Blocks until error or shutdown
//	err := srv.Start(ctx)
//
// Stopping:
//
//	srv.Stop(ctx)
//
// Stop waits for in-flight admin requests to complete.
package server
