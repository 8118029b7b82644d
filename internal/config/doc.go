// Package config defines the configuration structure for poolserve.
//
// Configuration is organized into logical sections (Server, Pool) plus the
// logging settings. Defaults live in `default` struct tags and are applied with
// github.com/creasty/defaults.
//
// # Configuration Structure
//
//	Configuration
//	├── Server         - listener and admin server settings
//	├── Pool           - worker pool settings
//	├── LogFormat      - Logging format
//	└── LogLevel       - Logging verbosity
//
// # Server Configuration
//
//	┌──────────────────┬──────────────────┬──────────────────────────────────────┐
//	│ Field            │ Default          │ Description                          │
//	├──────────────────┼──────────────────┼──────────────────────────────────────┤
//	│ ListenAddress    │ "127.0.0.1:7878" │ Static page listener address         │
//	│ AdminAddress     │ "127.0.0.1:8080" │ Status API and /metrics ("" = off)   │
//	│ StaticsFolder    │ "static"         │ Folder holding index.html, 404.html  │
//	└──────────────────┴──────────────────┴──────────────────────────────────────┘
//
// # Pool Configuration
//
//	┌─────────────┬─────────┬───────────────────────────────────────────┐
//	│ Field       │ Default │ Description                               │
//	├─────────────┼─────────┼───────────────────────────────────────────┤
//	│ NumWorkers  │ 4       │ Number of scheduler workers (at least 1)  │
//	└─────────────┴─────────┴───────────────────────────────────────────┘
//
// # Logging
//
//	┌─────────────┬───────────┬─────────────────────────────────────────┐
//	│ Field       │ Default   │ Description                             │
//	├─────────────┼───────────┼─────────────────────────────────────────┤
//	│ LogFormat   │ "console" │ "console" or "json"                     │
//	│ LogLevel    │ "info"    │ Any level zapcore.ParseLevel accepts    │
//	└─────────────┴───────────┴─────────────────────────────────────────┘
//
// # Sources
//
// The run command layers, lowest priority first: struct defaults, an optional
// YAML file (--config), POOLSERVE_* environment variables, command-line flags.
//
// # Debug Logging
//
// DebugMap() returns the effective values for a startup log line:
//
//	log.Infow("configuration loaded", "config", cfg.DebugMap())
package config
