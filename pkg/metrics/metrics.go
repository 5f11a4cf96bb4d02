// Package metrics provides Prometheus collectors for the connection pool and
// the command facade.
//
// # Basic Usage
//
//	timer := metrics.NewTimer("GET")
//	reply, err := handle.Do(ctx, "GET", key)
//	metrics.ObserveCommand("strings", "GET", metrics.StatusOK, timer.Stop())
//
// The collectors register on the default registry through promauto, so
// exposing promhttp.Handler() is enough to scrape them.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Command outcome labels.
const (
	StatusOK    = "ok"
	StatusNil   = "nil"
	StatusError = "error"
)

var (
	// CommandsTotal counts dispatched store commands.
	// Labels: group (keys, strings, ...), command (GET, SMOVE, ...), status (ok/nil/error)
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redisutil_commands_total",
			Help: "Total number of store commands dispatched",
		},
		[]string{"group", "command", "status"},
	)

	// CommandLatency tracks acquire + command + release time in seconds.
	CommandLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "redisutil_command_duration_seconds",
			Help: "Store command latency including pool acquisition",
			Buckets: []float64{
				0.0001, // 100μs - local socket round trip
				0.0005,
				0.001, // 1ms - typical LAN round trip
				0.005,
				0.01,
				0.05,
				0.1, // 100ms - pool wait territory
				0.5,
				1,
				5,
			},
		},
		[]string{"group", "command"},
	)

	// AcquireWait tracks how long Acquire blocked before a handle was available.
	AcquireWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "redisutil_pool_acquire_wait_seconds",
			Help:    "Time spent waiting for a pooled connection",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
	)

	// PoolExhausted counts acquisitions that gave up after max wait.
	PoolExhausted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "redisutil_pool_exhausted_total",
			Help: "Acquisitions that failed because no connection became available",
		},
	)

	// PoolConnections reports the connection counts by state (active, idle, leased).
	PoolConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "redisutil_pool_connections",
			Help: "Pooled connections by state",
		},
		[]string{"state"},
	)

	// EvictorRuns counts idle connection checks by outcome (kept/discarded/created).
	EvictorRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redisutil_pool_evictor_connections_total",
			Help: "Connections touched by the idle evictor",
		},
		[]string{"outcome"},
	)
)

// ObserveCommand records one dispatched command.
func ObserveCommand(group, command, status string, d time.Duration) {
	CommandsTotal.WithLabelValues(group, command, status).Inc()
	CommandLatency.WithLabelValues(group, command).Observe(d.Seconds())
}

// SetPoolConnections publishes a pool snapshot.
func SetPoolConnections(active, idle, leased int) {
	PoolConnections.WithLabelValues("active").Set(float64(active))
	PoolConnections.WithLabelValues("idle").Set(float64(idle))
	PoolConnections.WithLabelValues("leased").Set(float64(leased))
}

// Timer provides a simple timing mechanism for measuring operation durations.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Name returns the label the timer was created with.
func (t *Timer) Name() string {
	return t.name
}

// Stop returns the elapsed duration since creation. It can be called more
// than once.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}
