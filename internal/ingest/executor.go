package ingest

import (
	"fmt"
	"sync"

	"github.com/naviscope/naviscope/internal/langplugin"
	"github.com/naviscope/naviscope/internal/pipeline"
	"github.com/naviscope/naviscope/internal/types"
)

// Executor is the staged per-file ingest executor (spec C7): it
// dispatches a WorkItem to the matching language plugin's collect/
// analyze/lower stages, chaining each stage to the next via
// pipeline.DeferredEvent, and implements pipeline.Executor.
//
// Grounded on executor.rs's IngestExecutor: the same four-stage
// dispatch (SourceCollect/SourceAnalyze/SourceLower/StubRequest), the
// same collect_cache/analyze_cache (here keyed by path, guarded by a
// plain mutex rather than Rust's separate Mutex<HashMap<...>> per
// cache), and the same lower-stage op assembly order (RemovePath,
// UpdateFile, the plugin's own ops, then stub-request ops).
type Executor struct {
	registry *langplugin.Registry
	ctx      *ProjectContext

	collectMu    sync.Mutex
	collectCache map[string]langplugin.CollectArtifact

	analyzeMu    sync.Mutex
	analyzeCache map[string]langplugin.AnalyzeArtifact

	planner StubPlanner
	stubs   StubExecutor
}

// NewExecutor builds an Executor. planner/stubs may be nil until
// internal/assets (C8) is wired in -- SourceLower then simply emits no
// stub-request ops.
func NewExecutor(registry *langplugin.Registry, ctx *ProjectContext, planner StubPlanner, stubs StubExecutor) *Executor {
	return &Executor{
		registry:     registry,
		ctx:          ctx,
		collectCache: make(map[string]langplugin.CollectArtifact),
		analyzeCache: make(map[string]langplugin.AnalyzeArtifact),
		planner:      planner,
		stubs:        stubs,
	}
}

func (e *Executor) Execute(msg pipeline.Message) ([]pipeline.Event, error) {
	item, ok := msg.Payload.(WorkItem)
	if !ok {
		return nil, fmt.Errorf("ingest executor: unexpected payload type %T", msg.Payload)
	}

	switch item.Kind {
	case WorkSourceCollect:
		return e.executeCollect(msg, item)
	case WorkSourceAnalyze:
		return e.executeAnalyze(msg, item)
	case WorkSourceLower:
		return e.executeLower(msg, item)
	case WorkStubRequest:
		return e.executeStubRequest(msg, item)
	default:
		return nil, fmt.Errorf("ingest executor: unknown work kind %d", item.Kind)
	}
}

func (e *Executor) fullPlugin(path string) (langplugin.FullPlugin, bool) {
	p, ok := e.registry.ForPath(path)
	if !ok {
		return nil, false
	}
	full, ok := p.(langplugin.FullPlugin)
	return full, ok
}

func (e *Executor) executeCollect(msg pipeline.Message, item WorkItem) ([]pipeline.Event, error) {
	var provided []langplugin.ProvidedSymbol
	var required []string

	if full, ok := e.fullPlugin(item.Path); ok {
		artifact, err := e.collectFor(full, item)
		if err != nil {
			return nil, err
		}
		provided = artifact.Provided
		required = artifact.Required
		for _, sym := range provided {
			e.ctx.Publish(sym)
		}
	}

	nextDeps := make([]pipeline.DependencyRef, 0, len(provided))
	for _, sym := range provided {
		nextDeps = append(nextDeps, pipeline.ResourceDependency(sym.Name))
	}
	dependsOn := make([]pipeline.DependencyRef, 0, len(required))
	for _, name := range required {
		dependsOn = append(dependsOn, pipeline.ResourceDependency(name))
	}

	analyzeMsg := pipeline.Message{
		ID:           nextStageMsgID(msg.ID, "collect", "analyze"),
		Topic:        "source-analyze",
		MessageGroup: item.Path,
		Version:      1,
		DependsOn:    dependsOn,
		Epoch:        msg.Epoch,
		Payload:      WorkItem{Kind: WorkSourceAnalyze, Path: item.Path, Content: item.Content, File: item.File},
	}

	return []pipeline.Event{
		pipeline.ExecutedEvent(msg.Epoch, pipeline.ExecutionResult{MsgID: msg.ID, NextDependencies: nextDeps}),
		pipeline.DeferredEvent(analyzeMsg),
	}, nil
}

// collectFor returns the cached CollectArtifact for item.Path, running
// CollectSource and populating the cache on a miss.
func (e *Executor) collectFor(full langplugin.FullPlugin, item WorkItem) (langplugin.CollectArtifact, error) {
	e.collectMu.Lock()
	if cached, ok := e.collectCache[item.Path]; ok {
		e.collectMu.Unlock()
		return cached, nil
	}
	e.collectMu.Unlock()

	artifact, err := full.SourceIndexer().CollectSource(item.Path, item.Content, e.ctx)
	if err != nil {
		return langplugin.CollectArtifact{}, err
	}

	e.collectMu.Lock()
	e.collectCache[item.Path] = artifact
	e.collectMu.Unlock()
	return artifact, nil
}

func (e *Executor) executeAnalyze(msg pipeline.Message, item WorkItem) ([]pipeline.Event, error) {
	full, ok := e.fullPlugin(item.Path)
	if !ok {
		return e.deferToLower(msg, item), nil
	}

	collected, err := e.takeOrCollect(full, item)
	if err != nil {
		return nil, err
	}

	analyzed, err := full.SourceIndexer().AnalyzeSource(collected, e.ctx)
	if err != nil {
		return nil, err
	}

	e.analyzeMu.Lock()
	e.analyzeCache[item.Path] = analyzed
	e.analyzeMu.Unlock()

	return e.deferToLower(msg, item), nil
}

// takeOrCollect removes and returns item.Path's cached CollectArtifact,
// re-running CollectSource if it was never cached (mirrors executor.rs's
// "cache.remove(path).unwrap_or_else(|| collect_source(...))" fallback).
func (e *Executor) takeOrCollect(full langplugin.FullPlugin, item WorkItem) (langplugin.CollectArtifact, error) {
	e.collectMu.Lock()
	if cached, ok := e.collectCache[item.Path]; ok {
		delete(e.collectCache, item.Path)
		e.collectMu.Unlock()
		return cached, nil
	}
	e.collectMu.Unlock()
	return full.SourceIndexer().CollectSource(item.Path, item.Content, e.ctx)
}

func (e *Executor) deferToLower(msg pipeline.Message, item WorkItem) []pipeline.Event {
	lowerMsg := pipeline.Message{
		ID:           nextStageMsgID(msg.ID, "analyze", "lower"),
		Topic:        "source-lower",
		MessageGroup: item.Path,
		Version:      1,
		DependsOn:    []pipeline.DependencyRef{pipeline.MessageDependency(msg.ID)},
		Epoch:        msg.Epoch,
		Payload:      WorkItem{Kind: WorkSourceLower, Path: item.Path, Content: item.Content, File: item.File},
	}
	return []pipeline.Event{
		pipeline.ExecutedEvent(msg.Epoch, pipeline.ExecutionResult{MsgID: msg.ID}),
		pipeline.DeferredEvent(lowerMsg),
	}
}

func (e *Executor) executeLower(msg pipeline.Message, item WorkItem) ([]pipeline.Event, error) {
	full, ok := e.fullPlugin(item.Path)
	if !ok {
		ops := []types.GraphOp{types.RemovePathOp(item.Path), types.UpdateFileOp(item.File)}
		return []pipeline.Event{pipeline.ExecutedEvent(msg.Epoch, pipeline.ExecutionResult{MsgID: msg.ID, Operations: ops})}, nil
	}

	analyzed, err := e.takeAnalyzedOrRecompute(full, item)
	if err != nil {
		return nil, err
	}

	unit, err := full.SourceIndexer().LowerSource(analyzed, e.ctx)
	if err != nil {
		return nil, err
	}

	ops := make([]types.GraphOp, 0, len(unit.Ops)+2)
	ops = append(ops, types.RemovePathOp(item.Path), types.UpdateFileOp(item.File))
	ops = append(ops, unit.Ops...)

	if e.planner != nil {
		for _, req := range e.planner.PlanStubRequests(ops) {
			ops = append(ops, e.executeStub(req)...)
		}
		for _, req := range e.planner.PlanDeferredStubRequests(unit.DeferredSymbols) {
			ops = append(ops, e.executeStub(req)...)
		}
	}

	return []pipeline.Event{pipeline.ExecutedEvent(msg.Epoch, pipeline.ExecutionResult{MsgID: msg.ID, Operations: ops})}, nil
}

func (e *Executor) takeAnalyzedOrRecompute(full langplugin.FullPlugin, item WorkItem) (langplugin.AnalyzeArtifact, error) {
	e.analyzeMu.Lock()
	if cached, ok := e.analyzeCache[item.Path]; ok {
		delete(e.analyzeCache, item.Path)
		e.analyzeMu.Unlock()
		return cached, nil
	}
	e.analyzeMu.Unlock()

	collected, err := full.SourceIndexer().CollectSource(item.Path, item.Content, e.ctx)
	if err != nil {
		return langplugin.AnalyzeArtifact{}, err
	}
	return full.SourceIndexer().AnalyzeSource(collected, e.ctx)
}

func (e *Executor) executeStubRequest(msg pipeline.Message, item WorkItem) ([]pipeline.Event, error) {
	ops := e.executeStub(item.Stub)
	return []pipeline.Event{pipeline.ExecutedEvent(msg.Epoch, pipeline.ExecutionResult{MsgID: msg.ID, Operations: ops})}, nil
}

func (e *Executor) executeStub(req StubRequest) []types.GraphOp {
	if e.stubs == nil {
		return nil
	}
	return e.stubs.ExecuteStub(req)
}
