package config

import (
	"fmt"
	"sync"

	"github.com/dcshock/runcurry/instrument"
	"github.com/dcshock/runcurry/pipeline"
)

// Registry maps step names to callables (plain functions, *pipeline.Curried or
// any pipeline.Callable). Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	steps map[string]any
}

// NewRegistry returns an empty step registry.
func NewRegistry() *Registry {
	return &Registry{steps: make(map[string]any)}
}

// Register adds a callable under the given name. Overwrites any existing
// registration. It returns an error if fn cannot run as a pipe step.
func (r *Registry) Register(name string, fn any) error {
	if !pipeline.IsCallable(fn) {
		return fmt.Errorf("config: step %q: %T is not callable", name, fn)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.steps == nil {
		r.steps = make(map[string]any)
	}
	r.steps[name] = fn
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, fn any) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Get returns the callable for name, or nil and false if not found.
func (r *Registry) Get(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.steps[name]
	return s, ok
}

// MustGet returns the callable for name, or panics if not found.
func (r *Registry) MustGet(name string) any {
	s, ok := r.Get(name)
	if !ok {
		panic(fmt.Sprintf("config: step %q not registered", name))
	}
	return s
}

// Names returns all registered step names (unordered).
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.steps))
	for n := range r.steps {
		names = append(names, n)
	}
	return names
}

// ObserverRegistry maps observer names to instrument.Observers referenced by
// PipelineConfig.Observers. Safe for concurrent use.
type ObserverRegistry struct {
	mu        sync.RWMutex
	observers map[string]instrument.Observer
}

// NewObserverRegistry returns an empty observer registry.
func NewObserverRegistry() *ObserverRegistry {
	return &ObserverRegistry{observers: make(map[string]instrument.Observer)}
}

// Register adds an observer under the given name.
func (r *ObserverRegistry) Register(name string, obs instrument.Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.observers == nil {
		r.observers = make(map[string]instrument.Observer)
	}
	r.observers[name] = obs
}

// Get returns the observer for name.
func (r *ObserverRegistry) Get(name string) (instrument.Observer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.observers[name]
	return o, ok
}
