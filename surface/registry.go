// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
)

// RegistryEntry represents a registered surface backend.
type RegistryEntry struct {
	// Name is the unique identifier for this backend.
	Name string

	// Priority determines selection order (higher = preferred).
	Priority int

	// Factory creates surface instances.
	Factory Factory

	// Available reports if the backend can be used on this system.
	Available func() bool
}

// globalRegistry is the default registry.
var globalRegistry = &Registry{}

// Registry manages registered surface backends.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

// NewRegistry creates a new empty registry.
// Most code should use the global registry via Register and New.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*RegistryEntry)}
}

// Register adds a backend to the global registry. It panics if factory is
// nil or name is already registered.
func Register(name string, priority int, factory Factory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// Unregister removes a backend from the global registry.
func Unregister(name string) {
	globalRegistry.Unregister(name)
}

// List returns all registered backend names sorted by priority (highest first).
func List() []string {
	return globalRegistry.List()
}

// New creates a surface using the best available backend.
func New(width, height int) (Surface, error) {
	return globalRegistry.New(width, height)
}

// NewByName creates a surface using a specific named backend.
func NewByName(name string, width, height int) (Surface, error) {
	return globalRegistry.NewByName(name, width, height)
}

// DefaultFactory returns a Factory that creates surfaces with the best
// available backend of the global registry.
func DefaultFactory() Factory {
	return New
}

// Register adds a backend to this registry.
func (r *Registry) Register(name string, priority int, factory Factory, available func() bool) {
	if factory == nil {
		panic("surface: Register factory is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]*RegistryEntry)
	}
	if _, dup := r.entries[name]; dup {
		panic("surface: Register called twice for " + name)
	}
	if available == nil {
		available = func() bool { return true }
	}
	r.entries[name] = &RegistryEntry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Unregister removes a backend from this registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

// List returns all registered backend names sorted by priority.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames(false)
}

// New creates a surface using the best available backend.
func (r *Registry) New(width, height int) (Surface, error) {
	r.mu.RLock()
	available := r.sortedNames(true)
	r.mu.RUnlock()

	if len(available) == 0 {
		return nil, ErrNoBackendAvailable
	}
	var lastErr error
	for _, name := range available {
		s, err := r.NewByName(name, width, height)
		if err == nil {
			return s, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// NewByName creates a surface using a specific backend.
func (r *Registry) NewByName(name string, width, height int) (Surface, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.Wrapf(ErrUnknownBackend, "%q (forgotten import?)", name)
	}
	if !entry.Available() {
		return nil, errors.Wrapf(ErrBackendUnavailable, "%q", name)
	}
	s, err := entry.Factory(width, height)
	if err != nil {
		return nil, errors.Wrapf(err, "surface: create %q %dx%d", name, width, height)
	}
	return s, nil
}

// sortedNames returns backend names sorted by priority (highest first),
// then by name. Must be called with lock held.
func (r *Registry) sortedNames(onlyAvailable bool) []string {
	entries := make([]*RegistryEntry, 0, len(r.entries))
	for _, e := range r.entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Priority != entries[j].Priority {
			return entries[i].Priority > entries[j].Priority
		}
		return entries[i].Name < entries[j].Name
	})
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// Errors.
var (
	// ErrNoBackendAvailable is returned when no surface backends are
	// registered or available.
	ErrNoBackendAvailable = errors.New("surface: no backend available")

	// ErrUnknownBackend is returned for a name that was never registered.
	ErrUnknownBackend = errors.New("surface: unknown backend")

	// ErrBackendUnavailable is returned for a registered backend that
	// reports itself unavailable.
	ErrBackendUnavailable = errors.New("surface: backend unavailable")
)
