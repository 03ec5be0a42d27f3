// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package feature

import (
	"testing"

	"github.com/gogpu/ggmap/geom"
)

func TestNew(t *testing.T) {
	p := geom.NewPointFlat(geom.XY, []float64{1, 2})
	f := New(p, WithID("a"), WithProperties(map[string]any{"name": "x"}))
	if f.ID() != "a" {
		t.Errorf("ID() = %q, want a", f.ID())
	}
	if f.Geometry() != geom.Geometry(p) {
		t.Error("Geometry() is not the geometry passed to New")
	}
	if got := f.GetString("name"); got != "x" {
		t.Errorf("GetString(name) = %q, want x", got)
	}
	if New(nil).UID() == f.UID() {
		t.Error("UID() not unique")
	}
}

func TestGeometryChangePropagates(t *testing.T) {
	p := geom.NewPointFlat(geom.XY, []float64{1, 2})
	f := New(p)
	calls := 0
	f.Listen("test", func() { calls++ })

	r := f.Revision()
	p.MustSetCoordinates(geom.Coord{3, 4})
	if f.Revision() == r || calls != 1 {
		t.Errorf("after geometry change: revision %d (was %d), calls %d", f.Revision(), r, calls)
	}

	// The old geometry is detached by SetGeometry.
	other := geom.NewPointFlat(geom.XY, []float64{0, 0})
	f.SetGeometry(other)
	calls = 0
	p.MustSetCoordinates(geom.Coord{5, 6})
	if calls != 0 {
		t.Errorf("detached geometry still notifies: calls = %d", calls)
	}
	other.MustSetCoordinates(geom.Coord{1, 1})
	if calls != 1 {
		t.Errorf("new geometry calls = %d, want 1", calls)
	}
}

func TestPropertiesAreCopied(t *testing.T) {
	props := map[string]any{"k": 1}
	f := New(nil, WithProperties(props))
	props["k"] = 2
	if v, _ := f.Get("k"); v != 1 {
		t.Errorf("Get(k) = %v, want 1", v)
	}
	f.Properties()["k"] = 3
	if v, _ := f.Get("k"); v != 1 {
		t.Errorf("Get(k) after mutating Properties() = %v, want 1", v)
	}
	f.Set("k", 4)
	if v, _ := f.Get("k"); v != 4 {
		t.Errorf("Get(k) = %v, want 4", v)
	}
}

func TestClone(t *testing.T) {
	f := New(geom.NewPointFlat(geom.XY, []float64{1, 2}), WithID("a"))
	c := f.Clone()
	if c.ID() != "a" || c.UID() == f.UID() {
		t.Errorf("Clone() id %q uid equal %v", c.ID(), c.UID() == f.UID())
	}
	if c.Geometry() == f.Geometry() {
		t.Error("Clone() shares the geometry")
	}
}
