// Package handlers implements the admin HTTP API of poolserve.
//
// The admin API is read-only. It exposes what the scheduler is doing so an
// operator can see how far the workers have fallen behind; it never submits
// or cancels work.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     HTTP Request (Gin)                          │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Handler (this package)                     │
//	│  - Scheduler stats to API model conversion                      │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│              PoolInspector (*scheduler.Scheduler)               │
//	└─────────────────────────────────────────────────────────────────┘
//
// # API Endpoints
//
// Routes are registered under /api/v1 by the server:
//
//	┌────────┬──────────┬─────────────────────────────────────────────┐
//	│ Method │ Endpoint │ Description                                 │
//	├────────┼──────────┼─────────────────────────────────────────────┤
//	│ GET    │ /health  │ Liveness of the admin server                │
//	│ GET    │ /pool    │ Scheduler counters and worker states        │
//	└────────┴──────────┴─────────────────────────────────────────────┘
//
// # Pool Handler
//
// GET /pool - Returns the pool status:
//
//	{
//	    "workers": 4,
//	    "busy": 1,
//	    "idle": 3,
//	    "queued": 0,
//	    "submitted": 12,
//	    "executed": 11,
//	    "panicked": 0,
//	    "discarded": 0,
//	    "states": [
//	        { "id": 0, "state": "executing" },
//	        { "id": 1, "state": "waiting" }
//	    ]
//	}
//
// Counters are read one by one, so a response taken under load may show
// executed and busy from slightly different instants.
package handlers
