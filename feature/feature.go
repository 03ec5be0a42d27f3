// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package feature defines Feature, a geometry with an identity and
// attributes.
package feature

import (
	"maps"

	"github.com/google/uuid"

	"github.com/gogpu/ggmap/event"
	"github.com/gogpu/ggmap/geom"
)

// Feature couples an optional geometry with an id and a property map.
//
// Every feature carries a UID that is unique for the life of the process.
// Renderers use it to refer to the feature from compiled instructions and
// skip sets.
type Feature struct {
	id         string
	uid        uuid.UUID
	geometry   geom.Geometry
	properties map[string]any
	revision   uint64
	listeners  event.Target
}

// Option configures a Feature.
type Option func(*Feature)

// WithID sets the feature id.
func WithID(id string) Option {
	return func(f *Feature) { f.id = id }
}

// WithProperties sets the initial properties. The map is copied.
func WithProperties(props map[string]any) Option {
	return func(f *Feature) { f.properties = maps.Clone(props) }
}

// New creates a feature. g may be nil.
func New(g geom.Geometry, opts ...Option) *Feature {
	f := &Feature{uid: uuid.New(), properties: map[string]any{}}
	for _, opt := range opts {
		opt(f)
	}
	if f.properties == nil {
		f.properties = map[string]any{}
	}
	f.attach(g)
	return f
}

// ID returns the feature id, or "" if none was set.
func (f *Feature) ID() string { return f.id }

// SetID changes the id.
func (f *Feature) SetID(id string) {
	f.id = id
	f.Changed()
}

// UID returns the process-unique identifier.
func (f *Feature) UID() uuid.UUID { return f.uid }

// Geometry returns the geometry, which may be nil.
func (f *Feature) Geometry() geom.Geometry { return f.geometry }

// SetGeometry replaces the geometry.
func (f *Feature) SetGeometry(g geom.Geometry) {
	if f.geometry != nil {
		f.geometry.Unlisten(f)
	}
	f.attach(g)
	f.Changed()
}

func (f *Feature) attach(g geom.Geometry) {
	f.geometry = g
	if g != nil {
		g.Listen(f, f.Changed)
	}
}

// Get returns a property.
func (f *Feature) Get(key string) (any, bool) {
	v, ok := f.properties[key]
	return v, ok
}

// GetString returns a property if it is a string.
func (f *Feature) GetString(key string) string {
	s, _ := f.properties[key].(string)
	return s
}

// Set changes a property.
func (f *Feature) Set(key string, value any) {
	f.properties[key] = value
	f.Changed()
}

// Properties returns a copy of the property map.
func (f *Feature) Properties() map[string]any {
	return maps.Clone(f.properties)
}

// SetProperties replaces every property. The map is copied.
func (f *Feature) SetProperties(props map[string]any) {
	f.properties = maps.Clone(props)
	if f.properties == nil {
		f.properties = map[string]any{}
	}
	f.Changed()
}

// Revision increases whenever the feature or its geometry changes.
func (f *Feature) Revision() uint64 { return f.revision }

// Changed bumps the revision and notifies listeners.
func (f *Feature) Changed() {
	f.revision++
	f.listeners.Dispatch()
}

// Listen registers fn to be called on change.
func (f *Feature) Listen(owner any, fn event.Listener) { f.listeners.Listen(owner, fn) }

// Unlisten removes the listener registered by owner.
func (f *Feature) Unlisten(owner any) bool { return f.listeners.Unlisten(owner) }

// Clone returns a copy with a cloned geometry and a new UID.
func (f *Feature) Clone() *Feature {
	var g geom.Geometry
	if f.geometry != nil {
		g = f.geometry.Clone()
	}
	return New(g, WithID(f.id), WithProperties(f.properties))
}
