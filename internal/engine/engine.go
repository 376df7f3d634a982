// Package engine implements the Engine façade (spec C11): the single
// entry point that owns the current graph snapshot, runs shell/LSP
// queries against it, and drives every mutation -- full rebuilds,
// incremental refreshes, explicit file updates, and filesystem
// watching -- through the ingest pipeline (C6/C7), committing each
// result through the RemovePath-before-AddNode invariant and swapping
// readers onto the new snapshot atomically.
//
// Grounded on the teacher's internal/indexing.MasterIndex (the
// IndexDirectory/UpdateFile/RemoveFile/startWatching shape this
// façade's Rebuild/UpdateFiles/Watch methods generalize) and
// internal/indexing/watcher.go (FileWatcher's debounce loop, which
// Watch's eventDebouncer below ports); the pipeline plumbing itself
// (GraphHolder/ProjectContext/CommitSink/DeferredStore/Executor) is
// internal/ingest (C7), already built and simply wired together here.
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/semaphore"

	"github.com/naviscope/naviscope/internal/assets"
	"github.com/naviscope/naviscope/internal/config"
	"github.com/naviscope/naviscope/internal/graph"
	"github.com/naviscope/naviscope/internal/ingest"
	"github.com/naviscope/naviscope/internal/langplugin"
	"github.com/naviscope/naviscope/internal/pipeline"
	"github.com/naviscope/naviscope/internal/query"
	"github.com/naviscope/naviscope/internal/types"
)

// Store persists and restores the committed graph across process
// restarts (spec §6's on-disk index file). internal/storage is the
// concrete implementation; Store is nil-safe here so the façade runs
// against an in-memory-only graph when no store is supplied.
type Store interface {
	Load() (*graph.CodeGraph, bool, error)
	Save(g *graph.CodeGraph) error
}

// Engine is the façade. One Engine owns one project's graph lifecycle;
// every exported method is safe for concurrent use except Watch, which
// should be started once.
type Engine struct {
	cfg      *config.Config
	registry *langplugin.Registry
	assets   *assets.Service
	store    Store

	holder  *ingest.GraphHolder
	flow    pipeline.FlowControlConfig
	metrics pipeline.RuntimeMetrics

	epochMu sync.Mutex
	epoch   uint64

	scanMu   sync.Mutex
	lastScan map[string]scannedFile

	// queryPool bounds how many Query calls run concurrently on the
	// "blocking pool" (spec §4.11/§5) -- sized from
	// Performance.ParallelFileWorkers the same way the ingest run sizes
	// its own concurrency. Backed by golang.org/x/sync/semaphore rather
	// than a hand-rolled `chan struct{}` gate.
	queryPool *semaphore.Weighted

	watchCancel context.CancelFunc
}

type scannedFile struct {
	modTime time.Time
	size    int64
}

// New builds an Engine over cfg and registry. assetSvc and store may be
// nil: a nil assetSvc disables stub hydration (lower stages simply
// produce zero stub ops, per internal/ingest's nil-planner contract); a
// nil store means the graph lives only for this process's lifetime.
func New(cfg *config.Config, registry *langplugin.Registry, assetSvc *assets.Service, store Store) (*Engine, error) {
	g := graph.Empty()
	if store != nil {
		loaded, ok, err := store.Load()
		if err != nil {
			return nil, fmt.Errorf("engine: loading index: %w", err)
		}
		if ok {
			g = loaded
		}
	}

	workers := cfg.Performance.ParallelFileWorkers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	return &Engine{
		cfg:       cfg,
		registry:  registry,
		assets:    assetSvc,
		store:     store,
		holder:    ingest.NewGraphHolder(g),
		flow:      pipeline.FlowControlConfigFromPipeline(cfg.Pipeline),
		metrics:   NewAtomicMetrics(),
		lastScan:  make(map[string]scannedFile),
		queryPool: semaphore.NewWeighted(int64(workers)),
	}, nil
}

// Snapshot returns the current committed graph -- a cheap shared-handle
// read, never blocked by an in-progress rebuild (spec §4.11
// "cheap shared-handle clone").
func (e *Engine) Snapshot() *graph.CodeGraph {
	return e.holder.Snapshot()
}

// Metrics returns the Engine's AtomicMetrics instance for callers that
// want to report throughput/replay counters (e.g. a status subcommand
// or an MCP "version"-style diagnostics tool).
func (e *Engine) Metrics() *AtomicMetrics {
	m, _ := e.metrics.(*AtomicMetrics)
	return m
}

// Verb names one of the four read-only shell/LSP query operations (spec
// §5) a GraphQuery can run.
type Verb int

const (
	VerbFind Verb = iota
	VerbLs
	VerbCat
	VerbDeps
)

// GraphQuery is the façade's uniform request shape for Query, shared by
// the CLI's find/ls/cat/deps subcommands and the MCP tool handlers --
// each fills in only the fields its verb uses.
type GraphQuery struct {
	Verb      Verb
	Pattern   string
	FQN       string
	Kinds     []types.NodeKind
	Limit     int
	Reverse   bool
	EdgeTypes []types.EdgeType
}

// Query runs a read-only query against the current snapshot, bounded by
// queryPool (spec §4.11/§5: queries run on a blocking pool sized off
// Performance.ParallelFileWorkers, independent of ingest concurrency).
func (e *Engine) Query(ctx context.Context, q GraphQuery) (*query.Result, error) {
	if err := e.queryPool.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer e.queryPool.Release(1)

	qe := query.NewWithRoot(e.Snapshot(), e.cfg.Project.Root)
	switch q.Verb {
	case VerbFind:
		return qe.Find(q.Pattern, q.Kinds, q.Limit)
	case VerbLs:
		return qe.Ls(q.FQN, q.Kinds)
	case VerbCat:
		return qe.Cat(q.FQN)
	case VerbDeps:
		return qe.Deps(q.FQN, q.Reverse, q.EdgeTypes)
	default:
		return nil, fmt.Errorf("engine: unknown query verb %v", q.Verb)
	}
}

func (e *Engine) nextEpoch() uint64 {
	e.epochMu.Lock()
	defer e.epochMu.Unlock()
	e.epoch++
	return e.epoch
}

func (e *Engine) saveSnapshot() error {
	if e.store == nil {
		return nil
	}
	return e.store.Save(e.holder.Snapshot())
}

// newRun builds a fresh ProjectContext/Executor/CommitSink/DeferredStore
// triple bound to the holder, the way one ingest run requires (spec §4.6:
// the shared symbol table is scoped to a single run, never carried
// across runs).
func (e *Engine) newRun() (*ingest.Executor, *ingest.CommitSink, *ingest.DeferredStore) {
	ctx := ingest.NewProjectContext(e.holder)
	var planner ingest.StubPlanner
	var stubs ingest.StubExecutor
	if e.assets != nil {
		planner, stubs = e.assets, e.assets
	}
	exec := ingest.NewExecutor(e.registry, ctx, planner, stubs)
	sink := ingest.NewCommitSink(e.holder)
	store := ingest.NewDeferredStore()
	return exec, sink, store
}

// runBatch drives one ingest pass over paths through the kernel (spec
// §4.5/§4.6): every path is seeded as a SourceCollect message under a
// fresh epoch, intake is closed once seeding completes, and the run
// blocks until RunPipeline drains.
func (e *Engine) runBatch(ctx context.Context, paths []string) (pipeline.Stats, error) {
	if len(paths) == 0 {
		return pipeline.Stats{}, nil
	}

	exec, sink, store := e.newRun()
	bus := pipeline.NewBusChannels(e.flow)
	epoch := e.nextEpoch()

	go func() {
		for i, path := range paths {
			content, file, err := readSourceFile(path)
			if err != nil {
				// Unreadable between scan and seed (e.g. raced deletion) --
				// treat as absent, handled by removePaths instead.
				continue
			}
			msg := pipeline.Message{
				ID:      fmt.Sprintf("engine:%s:%d:collect", path, i),
				Topic:   "source-collect",
				Version: 1,
				Epoch:   epoch,
				Payload: ingest.WorkItem{Kind: ingest.WorkSourceCollect, Path: path, Content: content, File: file},
			}
			select {
			case bus.Intake <- msg:
			case <-ctx.Done():
				return
			}
		}
		close(bus.Intake)
	}()

	return pipeline.RunPipeline(ctx, bus, exec, sink, store, e.metrics, nil, e.flow)
}

// removePaths commits a RemovePath-only op per path directly through the
// CommitSink, bypassing the collect/analyze/lower chain -- there is no
// content left to parse for a file that no longer exists (spec §4.11
// update_files, §8 scenario: "the graph loses exactly the nodes whose
// location was in A.java").
func (e *Engine) removePaths(paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	_, sink, _ := e.newRun()
	epoch := e.nextEpoch()
	results := make([]pipeline.ExecutionResult, len(paths))
	for i, p := range paths {
		results[i] = pipeline.ExecutionResult{MsgID: "engine:" + p + ":remove", Operations: []types.GraphOp{types.RemovePathOp(p)}}
	}
	_, err := sink.CommitEpoch(epoch, results)
	return err
}

func readSourceFile(path string) ([]byte, types.SourceFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, types.SourceFile{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, types.SourceFile{}, err
	}
	lineCount := countLines(content)
	file := types.NewSourceFile(path, info.Size(), lineCount)
	return content, file, nil
}

func countLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	n := 1
	for _, b := range content {
		if b == '\n' {
			n++
		}
	}
	return n
}

// partitionBuildVsSource splits paths into build-system files (handled
// by the "gradle" plugin) and everything else, so Rebuild/UpdateFiles can
// run build files to completion first -- Module/Project/Dependency nodes
// must exist before source files' Contains edges have anywhere to attach
// (spec §4.11 "partition into build vs source").
func (e *Engine) partitionBuildVsSource(paths []string) (build, source []string) {
	for _, p := range paths {
		if plugin, ok := e.registry.ForPath(p); ok && plugin.Name() == "gradle" {
			build = append(build, p)
			continue
		}
		source = append(source, p)
	}
	return build, source
}

// Rebuild performs a full scan and ingest run from scratch (spec §4.11
// rebuild): every relevant file under the project root is re-collected
// into a fresh graph, which then atomically replaces the current one.
func (e *Engine) Rebuild(ctx context.Context) (pipeline.Stats, error) {
	paths, err := e.scanProjectFiles()
	if err != nil {
		return pipeline.Stats{}, err
	}

	e.holder.Swap(graph.Empty())

	build, source := e.partitionBuildVsSource(paths)
	var total pipeline.Stats

	buildStats, err := e.runBatch(ctx, build)
	if err != nil {
		return total, err
	}
	mergeStats(&total, buildStats)

	sourceStats, err := e.runBatch(ctx, source)
	if err != nil {
		return total, err
	}
	mergeStats(&total, sourceStats)

	e.recordScan(paths)
	if err := e.saveSnapshot(); err != nil {
		return total, err
	}
	return total, nil
}

// Refresh scans for files added, modified, or removed since the last
// scan (Rebuild, a prior Refresh, or process start) and routes the
// result through UpdateFiles (spec §4.11 refresh).
func (e *Engine) Refresh(ctx context.Context) (pipeline.Stats, error) {
	paths, err := e.scanProjectFiles()
	if err != nil {
		return pipeline.Stats{}, err
	}

	changed := e.diffScan(paths)
	return e.UpdateFiles(ctx, changed)
}

// UpdateFiles applies an explicit set of changed paths (spec §4.11
// update_files): existing files are re-ingested (their lower stage
// emits RemovePath before its new ops, per internal/ingest's executor);
// paths that no longer exist on disk are removed directly. The result
// graph is swapped in atomically and persisted.
func (e *Engine) UpdateFiles(ctx context.Context, paths []string) (pipeline.Stats, error) {
	var present, removed []string
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			removed = append(removed, p)
		} else {
			present = append(present, p)
		}
	}

	if err := e.removePaths(removed); err != nil {
		return pipeline.Stats{}, err
	}

	build, source := e.partitionBuildVsSource(present)
	var total pipeline.Stats

	buildStats, err := e.runBatch(ctx, build)
	if err != nil {
		return total, err
	}
	mergeStats(&total, buildStats)

	sourceStats, err := e.runBatch(ctx, source)
	if err != nil {
		return total, err
	}
	mergeStats(&total, sourceStats)

	e.forgetScan(removed)
	e.recordScan(present)
	if err := e.saveSnapshot(); err != nil {
		return total, err
	}
	return total, nil
}

func mergeStats(total *pipeline.Stats, delta pipeline.Stats) {
	total.RunnableMessages += delta.RunnableMessages
	total.DeferredFromSchedule += delta.DeferredFromSchedule
	total.DeferredFromExecute += delta.DeferredFromExecute
	total.DeferredPersisted += delta.DeferredPersisted
	total.CommittedBatches += delta.CommittedBatches
}

// scanProjectFiles walks the project root, applying config.Include/
// Exclude and gitignore rules, returning every path a registered plugin
// supports.
func (e *Engine) scanProjectFiles() ([]string, error) {
	root := e.cfg.Project.Root
	if root == "" {
		root = "."
	}

	gi := config.NewGitignoreParser()
	if e.cfg.Index.RespectGitignore {
		_ = gi.LoadGitignore(root)
	}

	var paths []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if rel != "." && (matchesAny(e.cfg.Exclude, rel, path) || gi.ShouldIgnore(rel, true)) {
				return filepath.SkipDir
			}
			return nil
		}

		if !e.cfg.Index.FollowSymlinks && info.Mode()&os.ModeSymlink != 0 {
			return nil
		}
		if info.Size() > e.cfg.Index.MaxFileSize {
			return nil
		}
		if matchesAny(e.cfg.Exclude, rel, path) || gi.ShouldIgnore(rel, false) {
			return nil
		}
		if len(e.cfg.Include) > 0 && !matchesAny(e.cfg.Include, rel, path) {
			return nil
		}
		if _, ok := e.registry.ForPath(path); !ok {
			return nil
		}

		paths = append(paths, path)
		if e.cfg.Index.MaxFileCount > 0 && len(paths) >= e.cfg.Index.MaxFileCount {
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}

// matchesAny reports whether rel (the project-relative, slash-separated
// path) or abs's base name matches any of patterns. Patterns are
// doublestar globs -- unlike path/filepath.Match, "**" crosses
// directory boundaries, so an exclude like "**/node_modules/**" or
// "src/**/*.java" behaves the way gitignore-style config users expect
// (spec §6's Include/Exclude glob lists).
func matchesAny(patterns []string, rel, abs string) bool {
	base := filepath.Base(abs)
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// diffScan compares the freshly scanned paths against the last recorded
// scan (by mtime+size), returning every path that's new, modified, or
// vanished since.
func (e *Engine) diffScan(paths []string) []string {
	e.scanMu.Lock()
	defer e.scanMu.Unlock()

	seen := make(map[string]bool, len(paths))
	var changed []string
	for _, p := range paths {
		seen[p] = true
		info, err := os.Stat(p)
		if err != nil {
			changed = append(changed, p)
			continue
		}
		prev, ok := e.lastScan[p]
		cur := scannedFile{modTime: info.ModTime(), size: info.Size()}
		if !ok || prev != cur {
			changed = append(changed, p)
		}
	}
	for p := range e.lastScan {
		if !seen[p] {
			changed = append(changed, p)
		}
	}
	return changed
}

func (e *Engine) recordScan(paths []string) {
	e.scanMu.Lock()
	defer e.scanMu.Unlock()
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		e.lastScan[p] = scannedFile{modTime: info.ModTime(), size: info.Size()}
	}
}

func (e *Engine) forgetScan(paths []string) {
	e.scanMu.Lock()
	defer e.scanMu.Unlock()
	for _, p := range paths {
		delete(e.lastScan, p)
	}
}
