package pipeline

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/naviscope/naviscope/internal/config"
)

// FlowControlConfig tunes the kernel's admission and replay behavior
// (spec §4.7): the in-flight semaphore cap, how many parked messages one
// replay tick reactivates, the replay ticker's period, and the intake/
// deferred channel capacities.
type FlowControlConfig struct {
	MaxInFlightMessages int
	DeferredPollLimit   int
	ReplayTick          time.Duration
	ChannelCapacity     int
	DeferredCapacity    int
}

// FlowControlConfigFromPipeline derives a FlowControlConfig from the
// merged Config's Pipeline section (internal/config), so the kernel's
// knobs live in one config file alongside the rest of Naviscope's
// tunables rather than being kernel-private constants.
func FlowControlConfigFromPipeline(p config.Pipeline) FlowControlConfig {
	pollLimit := p.MaxInFlightMessages / 4
	if pollLimit < 1 {
		pollLimit = 1
	}
	tick := time.Duration(p.ReplayTickMs) * time.Millisecond
	if tick <= 0 {
		tick = 50 * time.Millisecond
	}
	return FlowControlConfig{
		MaxInFlightMessages: p.MaxInFlightMessages,
		DeferredPollLimit:   pollLimit,
		ReplayTick:          tick,
		ChannelCapacity:     p.IntakeChannelSize,
		DeferredCapacity:    p.DeferredChannelSize,
	}
}

// FlowController is the kernel's admission semaphore: `max_concurrent_
// messages` in-flight workers at once (spec §4.7). Grounded on the
// teacher's back-pressure style in indexing/pipeline_processor.go (a
// buffered channel used as the concurrency gate), here backed by
// golang.org/x/sync/semaphore's weighted, context-aware Acquire instead
// of a hand-rolled `chan struct{}`, so the permit can be held across a
// whole worker goroutine's lifetime and released from any goroutine.
type FlowController struct {
	sem       *semaphore.Weighted
	pollLimit int
}

func NewFlowController(cfg FlowControlConfig) *FlowController {
	max := cfg.MaxInFlightMessages
	if max < 1 {
		max = 1
	}
	return &FlowController{sem: semaphore.NewWeighted(int64(max)), pollLimit: cfg.DeferredPollLimit}
}

// Acquire blocks until an in-flight slot is free or ctx is done. The
// returned release func must be called exactly once to free the slot.
func (f *FlowController) Acquire(ctx context.Context) (release func(), err error) {
	if err := f.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { f.sem.Release(1) }, nil
}

// DeferredPollLimit caps how many parked messages one replay tick
// reactivates.
func (f *FlowController) DeferredPollLimit() int {
	if f.pollLimit < 1 {
		return 1
	}
	return f.pollLimit
}

// BusChannels is the kernel's intake/deferred channel pair (spec §4.5's
// `BusChannels<P>`). Unlike the Rust kernel, which defines a PipelineBus
// trait so tests can swap in a deterministic bus implementation, a Go
// channel is already a concrete, mockable value -- tests construct their
// own BusChannels directly with whatever capacity they need, so no
// interface layer sits between this struct and `make(chan Message, n)`.
type BusChannels struct {
	Intake   chan Message
	Deferred chan Message
}

// NewBusChannels allocates a bus sized per cfg.
func NewBusChannels(cfg FlowControlConfig) BusChannels {
	intakeCap := cfg.ChannelCapacity
	if intakeCap < 1 {
		intakeCap = 1
	}
	deferredCap := cfg.DeferredCapacity
	if deferredCap < 1 {
		deferredCap = 1
	}
	return BusChannels{
		Intake:   make(chan Message, intakeCap),
		Deferred: make(chan Message, deferredCap),
	}
}
