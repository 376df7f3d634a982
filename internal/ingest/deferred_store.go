package ingest

import (
	"sync"

	"github.com/naviscope/naviscope/internal/pipeline"
)

// DeferredStore is the in-memory implementation of pipeline.DeferredStore
// (spec §4.5's gate): Push parks a message, NotifyReady marks a
// dependency resolved, PopReady returns (and clears the DependsOn of)
// every parked message whose dependencies are now all resolved.
//
// One ingest run builds one graph from one source tree in one pass, so
// an in-memory store is sufficient -- spec §4.5's termination rule
// already allows messages still parked at shutdown to come back as
// "pending" for a future run; persisting that pending set across runs is
// the caller's concern (index persistence, explicitly out of this
// spec's line-level detail), not this store's.
type DeferredStore struct {
	mu                sync.Mutex
	parked            []pipeline.Message
	resolvedMessages  map[string]bool
	resolvedResources map[string]bool
}

func NewDeferredStore() *DeferredStore {
	return &DeferredStore{
		resolvedMessages:  make(map[string]bool),
		resolvedResources: make(map[string]bool),
	}
}

func (s *DeferredStore) Push(msg pipeline.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parked = append(s.parked, msg)
	return nil
}

func (s *DeferredStore) PopReady(limit int) ([]pipeline.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit < 1 {
		limit = 1
	}

	var ready []pipeline.Message
	var stillParked []pipeline.Message
	for _, msg := range s.parked {
		if len(ready) >= limit {
			stillParked = append(stillParked, msg)
			continue
		}
		if s.allResolvedLocked(msg.DependsOn) {
			msg.DependsOn = nil
			ready = append(ready, msg)
		} else {
			stillParked = append(stillParked, msg)
		}
	}
	s.parked = stillParked
	return ready, nil
}

func (s *DeferredStore) NotifyReady(dep pipeline.DependencyRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if dep.Kind == pipeline.DependencyMessage {
		s.resolvedMessages[dep.Name] = true
	} else {
		s.resolvedResources[dep.Name] = true
	}
	return nil
}

// Pending reports how many messages remain parked -- the caller's
// signal for whether a run ended with unresolved work (spec §4.5's
// "returned as pending, not fatal").
func (s *DeferredStore) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.parked)
}

func (s *DeferredStore) allResolvedLocked(deps []pipeline.DependencyRef) bool {
	for _, d := range deps {
		var resolved bool
		if d.Kind == pipeline.DependencyMessage {
			resolved = s.resolvedMessages[d.Name]
		} else {
			resolved = s.resolvedResources[d.Name]
		}
		if !resolved {
			return false
		}
	}
	return true
}
