// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package event provides change notification for geometries, features,
// styles and sources.
//
// Listeners are registered under an owner key. Registering twice with the
// same owner replaces the first listener, and Unlisten removes it, so a
// renderer can subscribe to a pending icon from every feature that uses it
// and still be notified once.
package event

import "sync"

// Listener is called when the observed object changes.
type Listener func()

type entry struct {
	owner any
	fn    Listener
}

// Target holds the listeners of one observable object. The zero value is
// ready to use. Owners must be comparable.
type Target struct {
	mu        sync.Mutex
	listeners []entry
}

// Listen registers fn under owner, replacing any listener owner already
// registered.
func (t *Target) Listen(owner any, fn Listener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.listeners {
		if t.listeners[i].owner == owner {
			t.listeners[i].fn = fn
			return
		}
	}
	t.listeners = append(t.listeners, entry{owner: owner, fn: fn})
}

// Unlisten removes the listener registered under owner. It reports whether
// one was registered.
func (t *Target) Unlisten(owner any) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.listeners {
		if t.listeners[i].owner == owner {
			t.listeners = append(t.listeners[:i], t.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// ListenerCount returns the number of registered listeners.
func (t *Target) ListenerCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.listeners)
}

// HasListeners reports whether any listener is registered.
func (t *Target) HasListeners() bool {
	return t.ListenerCount() > 0
}

// Dispatch calls every listener in registration order. Listeners may
// register or remove listeners while being dispatched; such changes take
// effect on the next Dispatch.
func (t *Target) Dispatch() {
	t.mu.Lock()
	fns := make([]Listener, len(t.listeners))
	for i, e := range t.listeners {
		fns[i] = e.fn
	}
	t.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
