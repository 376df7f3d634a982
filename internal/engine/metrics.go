package engine

import (
	"sync"
	"sync/atomic"
)

// AtomicMetrics is a lock-free-on-the-hot-path pipeline.RuntimeMetrics,
// grounded on the teacher's cache.MetricsCache: plain atomic int64
// counters for replay hit/miss, a small mutex-guarded map for the
// open-ended set of throughput labels (kernel_message,
// engine_watch_error, ...). It replaces pipeline.NoopMetrics as the
// Engine's default so Rebuild/Refresh/UpdateFiles/Watch runs leave a
// real, inspectable throughput and replay-success trail (spec §4.5).
type AtomicMetrics struct {
	throughput *labelCounters
	replayHit  int64
	replayMiss int64
}

type labelCounters struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newLabelCounters() *labelCounters {
	return &labelCounters{counts: make(map[string]int64)}
}

func (l *labelCounters) add(label string, n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counts[label] += int64(n)
}

func (l *labelCounters) snapshot() map[string]int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]int64, len(l.counts))
	for k, v := range l.counts {
		out[k] = v
	}
	return out
}

// NewAtomicMetrics creates a ready-to-use AtomicMetrics.
func NewAtomicMetrics() *AtomicMetrics {
	return &AtomicMetrics{throughput: newLabelCounters()}
}

func (m *AtomicMetrics) ObserveThroughput(label string, n int) {
	m.throughput.add(label, n)
}

func (m *AtomicMetrics) ObserveReplayResult(foundReady bool) {
	if foundReady {
		atomic.AddInt64(&m.replayHit, 1)
	} else {
		atomic.AddInt64(&m.replayMiss, 1)
	}
}

// ReplayHitRate returns the fraction of replay ticks that found at
// least one deferred message ready, or 0 if none have run yet.
func (m *AtomicMetrics) ReplayHitRate() float64 {
	hit := atomic.LoadInt64(&m.replayHit)
	miss := atomic.LoadInt64(&m.replayMiss)
	total := hit + miss
	if total == 0 {
		return 0
	}
	return float64(hit) / float64(total)
}

// Throughput returns a point-in-time copy of every observed label's
// running total.
func (m *AtomicMetrics) Throughput() map[string]int64 {
	return m.throughput.snapshot()
}
