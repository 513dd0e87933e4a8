package registry

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/stance/pkg/domain"
)

// Factory builds a mode for the given robot variant. It is called at most once
// per registry, on first activation of the mode.
type Factory func(robot domain.RobotType, ectx *domain.ExecutionContext) domain.ControlMode

// Entry declares one mode: its name, how to build it and which modes it may
// request through NextModeName.
type Entry struct {
	Name        domain.ModeName
	Factory     Factory
	Transitions []domain.ModeName
}

// Registry maps mode names to factories and caches built instances.
// Built modes persist across deactivation, so OnEnter must reset any state a
// mode wants fresh on re-entry.
type Registry struct {
	mu        sync.RWMutex
	entries   map[domain.ModeName]Entry
	instances map[domain.ModeName]domain.ControlMode
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries:   make(map[domain.ModeName]Entry),
		instances: make(map[domain.ModeName]domain.ControlMode),
	}
}

// Register adds a mode. Registering the same name twice is an error.
func (r *Registry) Register(e Entry) error {
	if e.Name == "" {
		return fmt.Errorf("register: empty mode name")
	}
	if e.Factory == nil {
		return fmt.Errorf("register %s: nil factory", e.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[e.Name]; ok {
		return fmt.Errorf("register %s: %w", e.Name, domain.ErrDuplicateMode)
	}
	e.Transitions = slices.Clone(e.Transitions)
	r.entries[e.Name] = e
	return nil
}

// MustRegister is Register for static setup code; it panics on error.
func (r *Registry) MustRegister(entries ...Entry) *Registry {
	for _, e := range entries {
		if err := r.Register(e); err != nil {
			panic(err)
		}
	}
	return r
}

// Has reports whether name is registered.
func (r *Registry) Has(name domain.ModeName) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

// Resolve returns the mode instance for name, building it on first use.
// Returns domain.ErrUnknownMode if the name is not registered.
func (r *Registry) Resolve(name domain.ModeName, robot domain.RobotType, ectx *domain.ExecutionContext) (domain.ControlMode, error) {
	r.mu.RLock()
	inst, ok := r.instances[name]
	r.mu.RUnlock()
	if ok {
		return inst, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if inst, ok := r.instances[name]; ok {
		return inst, nil
	}
	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("resolve %q: %w", name, domain.ErrUnknownMode)
	}
	inst = e.Factory(robot, ectx)
	if inst == nil {
		return nil, fmt.Errorf("resolve %q: factory returned nil", name)
	}
	if inst.Name() != name {
		return nil, fmt.Errorf("resolve %q: factory built mode named %q", name, inst.Name())
	}
	r.instances[name] = inst
	return inst, nil
}

// Names returns the registered mode names, sorted.
func (r *Registry) Names() []domain.ModeName {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]domain.ModeName, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Entries returns every entry sorted by name.
func (r *Registry) Entries() []Entry {
	names := r.Names()
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0, len(names))
	for _, n := range names {
		out = append(out, r.entries[n])
	}
	return out
}

// Validate checks that the start mode, the safe mode and every declared
// transition resolve to registered modes. All violations are reported.
func (r *Registry) Validate(start, safe domain.ModeName) error {
	var errs []error
	if !r.Has(start) {
		errs = append(errs, fmt.Errorf("start mode %q: %w", start, domain.ErrUnknownMode))
	}
	if !r.Has(safe) {
		errs = append(errs, fmt.Errorf("safe mode %q: %w", safe, domain.ErrUnknownMode))
	}
	for _, e := range r.Entries() {
		for _, to := range e.Transitions {
			if !r.Has(to) {
				errs = append(errs, fmt.Errorf("transition %s -> %s: %w", e.Name, to, domain.ErrUnknownMode))
			}
		}
	}
	return errors.Join(errs...)
}
