package ingest

import (
	"sync"

	"github.com/naviscope/naviscope/internal/graph"
	"github.com/naviscope/naviscope/internal/langplugin"
)

// ProjectContext is the shared symbol table scoped to one ingest run
// (spec §4.6: "all collect steps across a build complete, populating the
// shared symbol table, before any analyze step runs"). It implements
// langplugin.ProjectContext.
//
// Grounded on executor.rs's `project_context: Arc<RwLock<ProjectContext>>`
// and its `symbol_table.type_symbols`/`method_symbols` inserts performed
// from both the cache-hit and cache-miss collect paths.
type ProjectContext struct {
	mu      sync.RWMutex
	symbols map[string]langplugin.ProvidedSymbol
	holder  *GraphHolder
}

func NewProjectContext(holder *GraphHolder) *ProjectContext {
	return &ProjectContext{symbols: make(map[string]langplugin.ProvidedSymbol), holder: holder}
}

func (c *ProjectContext) Publish(sym langplugin.ProvidedSymbol) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.symbols[sym.Name] = sym
}

func (c *ProjectContext) Require(name string) (langplugin.ProvidedSymbol, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sym, ok := c.symbols[name]
	return sym, ok
}

func (c *ProjectContext) Snapshot() *graph.CodeGraph {
	return c.holder.Snapshot()
}
