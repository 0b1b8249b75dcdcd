package pipeline

import (
	"sync/atomic"

	"firestige.xyz/pktparse/internal/metrics"
)

// Metrics contains per-pipeline counters.
type Metrics struct {
	Name string

	// Frame counters (using atomic for thread-safety)
	Received   atomic.Uint64
	Decoded    atomic.Uint64
	Incomplete atomic.Uint64
	Malformed  atomic.Uint64
	Errors     atomic.Uint64
	Emitted    atomic.Uint64
}

// NewMetrics creates a new metrics instance.
func NewMetrics(name string) *Metrics {
	return &Metrics{Name: name}
}

// add counts one decode result as labelled by metrics.ObserveFrame.
func (m *Metrics) add(result string) {
	switch result {
	case metrics.ResultDecoded:
		m.Decoded.Add(1)
	case metrics.ResultIncomplete:
		m.Incomplete.Add(1)
	case metrics.ResultMalformed:
		m.Malformed.Add(1)
	default:
		m.Errors.Add(1)
	}
}

// Reset resets all counters to zero.
func (m *Metrics) Reset() {
	m.Received.Store(0)
	m.Decoded.Store(0)
	m.Incomplete.Store(0)
	m.Malformed.Store(0)
	m.Errors.Store(0)
	m.Emitted.Store(0)
}
