package pipeline

import (
	"context"
	"fmt"
	"sort"
)

// Stats accumulates the kernel's run, merging per-message contributions
// (spec's `MessageRunStats`) into a whole-run total (`KernelRunStats`) --
// collapsed into a single type here since Go has no need for the two
// separate structs the Rust code merges field-by-field.
type Stats struct {
	RunnableMessages     int
	DeferredFromSchedule int
	DeferredFromExecute  int
	DeferredPersisted    int
	CommittedBatches     int
}

func (s *Stats) merge(other Stats) {
	s.RunnableMessages += other.RunnableMessages
	s.DeferredFromSchedule += other.DeferredFromSchedule
	s.DeferredFromExecute += other.DeferredFromExecute
	s.DeferredPersisted += other.DeferredPersisted
	s.CommittedBatches += other.CommittedBatches
}

type workerResult struct {
	stats Stats
	err   error
}

// RunPipeline drives the kernel's central event loop (spec §4.5): spawn
// a worker per runnable message, gate dependent messages through the
// DeferredStore, commit executed results by epoch, and replay parked
// messages on a fixed tick. It returns once bus.Intake is closed, every
// worker has finished, and the deferred channel has been drained.
//
// Branch priority mirrors kernel.rs's `tokio::select! { biased; ... }`
// top-to-bottom order: drain finished workers, persist deferred
// arrivals, replay ready messages, accept intake. Go's select has no
// `biased` equivalent (an unbiased select picks uniformly among ready
// cases), so each iteration checks the four sources in that order via
// non-blocking selects; only when none had anything ready does it fall
// through to one blocking select, so the loop doesn't busy-spin between
// ticks.
func RunPipeline(ctx context.Context, bus BusChannels, exec Executor, sink CommitSink, store DeferredStore, metrics RuntimeMetrics, tracker *EpochTracker, flow FlowControlConfig) (Stats, error) {
	ticker := newReplayTicker(flow.ReplayTick)
	defer ticker.Stop()
	return runPipeline(ctx, bus, exec, sink, store, metrics, tracker, flow, ticker)
}

func runPipeline(ctx context.Context, bus BusChannels, exec Executor, sink CommitSink, store DeferredStore, metrics RuntimeMetrics, tracker *EpochTracker, flow FlowControlConfig, ticker replayTicker) (Stats, error) {
	var stats Stats
	fc := NewFlowController(flow)
	doneCh := make(chan workerResult, flow.MaxInFlightMessages+1)
	outstanding := 0
	intakeClosed := false

	spawn := func(msg Message) error {
		release, err := fc.Acquire(ctx)
		if err != nil {
			return err
		}
		outstanding++
		go func() {
			defer release()
			mstats, err := processMessage(ctx, msg, exec, sink, store, bus.Deferred, metrics, tracker)
			doneCh <- workerResult{stats: mstats, err: err}
		}()
		return nil
	}

	for {
		progressed := false

		select {
		case res := <-doneCh:
			outstanding--
			if res.err != nil {
				return stats, res.err
			}
			stats.merge(res.stats)
			progressed = true
		default:
		}

		if intakeClosed && outstanding == 0 {
			break
		}

		if !progressed {
			select {
			case msg, ok := <-bus.Deferred:
				if ok {
					if err := store.Push(msg); err != nil {
						return stats, err
					}
					stats.DeferredPersisted++
					progressed = true
				}
			default:
			}
		}

		if !progressed && !intakeClosed {
			select {
			case <-ticker.C():
				ready, err := store.PopReady(fc.DeferredPollLimit())
				if err != nil {
					return stats, err
				}
				metrics.ObserveReplayResult(len(ready) > 0)
				for _, m := range ready {
					if err := spawn(m); err != nil {
						return stats, err
					}
				}
				progressed = true
			default:
			}
		}

		if !progressed && !intakeClosed {
			select {
			case msg, ok := <-bus.Intake:
				if ok {
					if err := spawn(msg); err != nil {
						return stats, err
					}
				} else {
					intakeClosed = true
				}
				progressed = true
			default:
			}
		}

		if progressed {
			continue
		}

		// Nothing was ready across any source; block on the first one
		// that becomes ready rather than busy-spinning.
		intakeCh := bus.Intake
		tickCh := ticker.C()
		if intakeClosed {
			intakeCh = nil
			tickCh = nil
		}
		select {
		case res := <-doneCh:
			outstanding--
			if res.err != nil {
				return stats, res.err
			}
			stats.merge(res.stats)

		case msg, ok := <-bus.Deferred:
			if ok {
				if err := store.Push(msg); err != nil {
					return stats, err
				}
				stats.DeferredPersisted++
			}

		case <-tickCh:
			ready, err := store.PopReady(fc.DeferredPollLimit())
			if err != nil {
				return stats, err
			}
			metrics.ObserveReplayResult(len(ready) > 0)
			for _, m := range ready {
				if err := spawn(m); err != nil {
					return stats, err
				}
			}

		case msg, ok := <-intakeCh:
			if ok {
				if err := spawn(msg); err != nil {
					return stats, err
				}
			} else {
				intakeClosed = true
			}

		case <-ctx.Done():
			return stats, ctx.Err()
		}
	}

	// Drain whatever arrived on the deferred channel during the final
	// stretch; messages still parked in the store afterward are left
	// there for a future run (spec §4.5 termination: "not fatal").
	for {
		select {
		case msg, ok := <-bus.Deferred:
			if !ok {
				return stats, nil
			}
			if err := store.Push(msg); err != nil {
				return stats, err
			}
			stats.DeferredPersisted++
		default:
			return stats, nil
		}
	}
}

func processMessage(ctx context.Context, msg Message, exec Executor, sink CommitSink, store DeferredStore, deferredCh chan<- Message, metrics RuntimeMetrics, tracker *EpochTracker) (Stats, error) {
	var stats Stats
	if len(msg.DependsOn) > 0 {
		stats.DeferredFromSchedule++
		select {
		case deferredCh <- msg:
		case <-ctx.Done():
			return stats, ctx.Err()
		}
	} else {
		stats.RunnableMessages++
		rstats, err := executeRunnable(ctx, msg, exec, sink, store, deferredCh, tracker)
		if err != nil {
			return stats, err
		}
		stats.DeferredFromExecute += rstats.DeferredFromExecute
		stats.CommittedBatches += rstats.CommittedBatches
	}
	metrics.ObserveThroughput("kernel_message", 1)
	return stats, nil
}

type runnableStats struct {
	DeferredFromExecute int
	CommittedBatches    int
}

func executeRunnable(ctx context.Context, msg Message, exec Executor, sink CommitSink, store DeferredStore, deferredCh chan<- Message, tracker *EpochTracker) (runnableStats, error) {
	var stats runnableStats

	events, err := exec.Execute(msg)
	if err != nil {
		return stats, err
	}

	byEpoch := make(map[uint64][]ExecutionResult)
	var epochOrder []uint64
	for _, ev := range events {
		switch ev.Kind {
		case EventExecuted:
			if _, seen := byEpoch[ev.Epoch]; !seen {
				epochOrder = append(epochOrder, ev.Epoch)
			}
			byEpoch[ev.Epoch] = append(byEpoch[ev.Epoch], ev.Result)

		case EventDeferred:
			if tracker != nil {
				if err := tracker.RecordInternalSubmit(ev.Deferred.Epoch); err != nil {
					return stats, err
				}
			}
			stats.DeferredFromExecute++
			select {
			case deferredCh <- ev.Deferred:
			case <-ctx.Done():
				return stats, ctx.Err()
			}

		case EventFatal:
			return stats, fmt.Errorf("fatal execute event for %s: %w", ev.FatalMsgID, fatalErr(ev.FatalErr))

		case EventRunnable:
			return stats, fmt.Errorf("executor emitted invalid event: Runnable at execute time")
		}
	}

	sort.Slice(epochOrder, func(i, j int) bool { return epochOrder[i] < epochOrder[j] })
	for _, epoch := range epochOrder {
		results := byEpoch[epoch]
		committed, err := sink.CommitEpoch(epoch, results)
		if err != nil {
			return stats, err
		}
		stats.CommittedBatches += committed

		for _, r := range results {
			if err := store.NotifyReady(MessageDependency(r.MsgID)); err != nil {
				return stats, err
			}
			for _, dep := range r.NextDependencies {
				if err := store.NotifyReady(dep); err != nil {
					return stats, err
				}
			}
		}
		if tracker != nil {
			if err := tracker.MarkCommitted(epoch); err != nil {
				return stats, err
			}
		}
	}

	return stats, nil
}

func fatalErr(err error) error {
	if err != nil {
		return err
	}
	return fmt.Errorf("unknown fatal error")
}
