// Package metrics exports scheduler statistics to Prometheus.
//
// The collector holds no state of its own: every scrape calls Stats() on the
// scheduler and turns the snapshot into gauges (workers, busy workers, queued
// jobs) and counters (submitted, executed, panicked, discarded jobs).
package metrics
