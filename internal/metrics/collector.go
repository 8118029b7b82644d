package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/kubev2v/poolserve/pkg/scheduler"
)

const namespace = "poolserve"

type StatsProvider interface {
	Stats() scheduler.Stats
}

// Collector exports scheduler stats. Values are read at scrape time.
type Collector struct {
	provider StatsProvider

	workers   *prometheus.Desc
	busy      *prometheus.Desc
	queued    *prometheus.Desc
	submitted *prometheus.Desc
	executed  *prometheus.Desc
	panicked  *prometheus.Desc
	discarded *prometheus.Desc
}

func NewCollector(provider StatsProvider) *Collector {
	name := func(n string) string { return prometheus.BuildFQName(namespace, "scheduler", n) }
	return &Collector{
		provider:  provider,
		workers:   prometheus.NewDesc(name("workers"), "Number of scheduler workers.", nil, nil),
		busy:      prometheus.NewDesc(name("busy_workers"), "Number of workers executing a job.", nil, nil),
		queued:    prometheus.NewDesc(name("queued_jobs"), "Number of jobs waiting for a worker.", nil, nil),
		submitted: prometheus.NewDesc(name("jobs_submitted_total"), "Total number of jobs accepted by the scheduler.", nil, nil),
		executed:  prometheus.NewDesc(name("jobs_executed_total"), "Total number of jobs that ran to completion or panicked.", nil, nil),
		panicked:  prometheus.NewDesc(name("jobs_panicked_total"), "Total number of jobs that panicked.", nil, nil),
		discarded: prometheus.NewDesc(name("jobs_discarded_total"), "Total number of jobs dropped at shutdown without running.", nil, nil),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.workers
	ch <- c.busy
	ch <- c.queued
	ch <- c.submitted
	ch <- c.executed
	ch <- c.panicked
	ch <- c.discarded
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.provider.Stats()

	ch <- prometheus.MustNewConstMetric(c.workers, prometheus.GaugeValue, float64(s.Workers))
	ch <- prometheus.MustNewConstMetric(c.busy, prometheus.GaugeValue, float64(s.Busy))
	ch <- prometheus.MustNewConstMetric(c.queued, prometheus.GaugeValue, float64(s.Queued))
	ch <- prometheus.MustNewConstMetric(c.submitted, prometheus.CounterValue, float64(s.Submitted))
	ch <- prometheus.MustNewConstMetric(c.executed, prometheus.CounterValue, float64(s.Executed))
	ch <- prometheus.MustNewConstMetric(c.panicked, prometheus.CounterValue, float64(s.Panicked))
	ch <- prometheus.MustNewConstMetric(c.discarded, prometheus.CounterValue, float64(s.Discarded))
}

// NewRegistry returns a registry holding the scheduler collector plus the
// Go runtime and process collectors.
func NewRegistry(provider StatsProvider) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		NewCollector(provider),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
