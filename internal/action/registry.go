package action

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Runner is the type-erased view of an Action used by transports.
type Runner interface {
	Name() string
	Run(ctx context.Context, raw []byte) Outcome
}

// Registry holds actions by name.
type Registry struct {
	mu      sync.RWMutex
	runners map[string]Runner
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{runners: make(map[string]Runner)}
}

// Register adds runners. A duplicate or empty name is a wiring bug and panics.
func (r *Registry) Register(runners ...Runner) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rn := range runners {
		name := rn.Name()
		if name == "" {
			panic("action: register runner with empty name")
		}
		if _, exists := r.runners[name]; exists {
			panic(fmt.Sprintf("action: duplicate runner %q", name))
		}
		r.runners[name] = rn
	}
}

// Lookup returns the runner registered under name.
func (r *Registry) Lookup(name string) (Runner, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rn, ok := r.runners[name]
	return rn, ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.runners))
	for name := range r.runners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
