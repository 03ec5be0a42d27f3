// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package geom

import (
	"github.com/gogpu/ggmap/extent"
	"github.com/gogpu/ggmap/proj"
)

// GeometryCollection is a heterogeneous list of geometries. It owns its
// members: they are cloned on the way in and out, and changes made through
// Geometries() propagate as changes of the collection.
type GeometryCollection struct {
	simpleGeometry
	geometries []Geometry

	simplified         map[float64]Geometry
	simplifiedRevision uint64
	maxMinTolerance    float64
}

// NewGeometryCollection returns a collection holding clones of gs.
func NewGeometryCollection(gs ...Geometry) *GeometryCollection {
	gc := &GeometryCollection{}
	gc.setLayout(NoLayout, nil)
	gc.SetGeometries(gs)
	return gc
}

// SetGeometries replaces the members with clones of gs.
func (gc *GeometryCollection) SetGeometries(gs []Geometry) {
	owned := make([]Geometry, len(gs))
	for i, g := range gs {
		owned[i] = g.Clone()
	}
	gc.setGeometriesOwned(owned)
}

func (gc *GeometryCollection) setGeometriesOwned(gs []Geometry) {
	for _, g := range gc.geometries {
		g.Unlisten(gc)
	}
	gc.geometries = gs
	for _, g := range gs {
		g.Listen(gc, gc.Changed)
	}
	gc.Changed()
}

// Geometries returns clones of the members.
func (gc *GeometryCollection) Geometries() []Geometry {
	gs := make([]Geometry, len(gc.geometries))
	for i, g := range gc.geometries {
		gs[i] = g.Clone()
	}
	return gs
}

// GeometriesArray returns the members themselves. Mutating them changes
// the collection.
func (gc *GeometryCollection) GeometriesArray() []Geometry { return gc.geometries }

// IsEmpty reports whether the collection has no members.
func (gc *GeometryCollection) IsEmpty() bool { return len(gc.geometries) == 0 }

// Type returns TypeGeometryCollection.
func (gc *GeometryCollection) Type() Type { return TypeGeometryCollection }

// Extent returns the union of the member extents.
func (gc *GeometryCollection) Extent() extent.Extent {
	return gc.cachedExtent(func() extent.Extent {
		e := extent.CreateEmpty()
		for _, g := range gc.geometries {
			e.Extend(g.Extent())
		}
		return e
	})
}

// ClosestPointXY implements Geometry.
func (gc *GeometryCollection) ClosestPointXY(x, y float64, closest []float64, minSquaredDistance float64) float64 {
	if minSquaredDistance < closestSquaredDistanceToExtent(gc.Extent(), x, y) {
		return minSquaredDistance
	}
	for _, g := range gc.geometries {
		minSquaredDistance = g.ClosestPointXY(x, y, closest, minSquaredDistance)
	}
	return minSquaredDistance
}

// ContainsXY reports whether any member contains (x, y).
func (gc *GeometryCollection) ContainsXY(x, y float64) bool {
	for _, g := range gc.geometries {
		if g.ContainsXY(x, y) {
			return true
		}
	}
	return false
}

// SimplifiedGeometry simplifies every member. The collection itself is
// returned when no member changed.
func (gc *GeometryCollection) SimplifiedGeometry(squaredTolerance float64) Geometry {
	if gc.simplified == nil || gc.simplifiedRevision != gc.revision {
		gc.simplified = map[float64]Geometry{}
		gc.maxMinTolerance = 0
		gc.simplifiedRevision = gc.revision
	}
	if squaredTolerance < 0 || (gc.maxMinTolerance != 0 && squaredTolerance < gc.maxMinTolerance) {
		return gc
	}
	if s, ok := gc.simplified[squaredTolerance]; ok {
		return s
	}
	members := make([]Geometry, len(gc.geometries))
	changed := false
	for i, g := range gc.geometries {
		s := g.SimplifiedGeometry(squaredTolerance)
		members[i] = s
		if s != g {
			changed = true
		}
	}
	if !changed {
		gc.maxMinTolerance = squaredTolerance
		return gc
	}
	s := &GeometryCollection{}
	s.setLayout(NoLayout, nil)
	s.setGeometriesOwned(members)
	gc.simplified[squaredTolerance] = s
	return s
}

// Transform transforms every member.
func (gc *GeometryCollection) Transform(fn proj.TransformFunc) {
	for _, g := range gc.geometries {
		g.Unlisten(gc)
		g.Transform(fn)
		g.Listen(gc, gc.Changed)
	}
	gc.Changed()
}

// Clone returns a deep copy without listeners.
func (gc *GeometryCollection) Clone() Geometry {
	return NewGeometryCollection(gc.geometries...)
}
