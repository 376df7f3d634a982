package langplugin

import "sync"

// Registry resolves a file path to the Plugin that handles it, and a
// language name to its Plugin directly. Grounded on the teacher's
// TreeSitterParser extension-keyed parser/query maps
// (internal/parser/parser_language_setup.go): one lookup table built at
// startup from Config.Languages.Enabled, consulted on every parse.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]Plugin
	ordered []Plugin // registration order, used to break Supports() ties deterministically
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Plugin)}
}

// Register adds a plugin under its own Name(). Registering the same name
// twice replaces the previous plugin (last registration wins), matching
// the teacher's map-assignment style in setupJavaScript/setupTypeScript.
func (r *Registry) Register(p Plugin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[p.Name()]; !exists {
		r.ordered = append(r.ordered, p)
	} else {
		for i, old := range r.ordered {
			if old.Name() == p.Name() {
				r.ordered[i] = p
			}
		}
	}
	r.byName[p.Name()] = p
}

// Get returns the plugin registered under name, if any.
func (r *Registry) Get(name string) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byName[name]
	return p, ok
}

// ForPath returns the first registered plugin (in registration order)
// whose Matcher accepts path.
func (r *Registry) ForPath(path string) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.ordered {
		if p.Supports(path) {
			return p, true
		}
	}
	return nil, false
}

// All returns every registered plugin, in registration order. Used by
// internal/assets to probe each plugin for the optional AssetAwarePlugin
// capability when building the asset route table.
func (r *Registry) All() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Plugin, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Names returns every registered language name, in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.ordered))
	for i, p := range r.ordered {
		out[i] = p.Name()
	}
	return out
}
