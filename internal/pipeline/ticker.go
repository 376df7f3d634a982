package pipeline

import "time"

// replayTicker abstracts the kernel's replay-tick source so tests can
// drive ticks deterministically instead of racing a real time.Ticker.
type replayTicker interface {
	C() <-chan time.Time
	Stop()
}

func newReplayTicker(d time.Duration) replayTicker {
	if d <= 0 {
		d = 50 * time.Millisecond
	}
	return &stdTicker{time.NewTicker(d)}
}

type stdTicker struct{ t *time.Ticker }

func (s *stdTicker) C() <-chan time.Time { return s.t.C }
func (s *stdTicker) Stop()               { s.t.Stop() }

// manualTicker lets tests fire a replay tick on demand.
type manualTicker struct {
	ch chan time.Time
}

func newManualTicker() *manualTicker {
	return &manualTicker{ch: make(chan time.Time, 1)}
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }
func (m *manualTicker) Stop()               {}
func (m *manualTicker) Fire()                { m.ch <- time.Now() }
