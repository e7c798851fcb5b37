package loader

import (
	"fmt"
	"sort"
	"sync"

	"github.com/zeusync/bt/internal/core/bt"
)

// LeafFactory creates a leaf behavior from configuration params.
type LeafFactory func(params map[string]any) (bt.Behavior, error)

// Registry maps leaf names used in tree documents to factories.
type Registry struct {
	mu     sync.RWMutex
	leaves map[string]LeafFactory
}

// NewRegistry returns a registry holding the built-in leaves.
func NewRegistry() *Registry {
	r := &Registry{leaves: make(map[string]LeafFactory)}
	registerBuiltins(r)
	return r
}

// Register adds or replaces a leaf factory.
func (r *Registry) Register(name string, factory LeafFactory) {
	r.mu.Lock()
	r.leaves[name] = factory
	r.mu.Unlock()
}

func (r *Registry) New(name string, params map[string]any) (bt.Behavior, error) {
	r.mu.RLock()
	f := r.leaves[name]
	r.mu.RUnlock()
	if f == nil {
		return nil, fmt.Errorf("unknown leaf: %s", name)
	}
	b, err := f(params)
	if err != nil {
		return nil, fmt.Errorf("leaf %s: %w", name, err)
	}
	return b, nil
}

// Names returns the registered leaf names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.leaves))
	for k := range r.leaves {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
