// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package geom

import (
	"math"

	"github.com/gogpu/ggmap/extent"
	"github.com/gogpu/ggmap/geom/flat"
	"github.com/gogpu/ggmap/proj"
)

// LineString is a connected sequence of coordinates.
type LineString struct {
	simpleGeometry

	maxDelta         float64
	maxDeltaRevision uint64
	maxDeltaValid    bool

	midpoint         []float64
	midpointRevision uint64
}

// NewLineString returns an empty line string.
func NewLineString(layout Layout) *LineString {
	ls := &LineString{}
	ls.setLayout(layout, nil)
	return ls
}

// NewLineStringFlat returns a line string backed by flatCoords.
func NewLineStringFlat(layout Layout, flatCoords []float64) *LineString {
	return NewLineString(layout).SetFlatCoordinates(layout, flatCoords)
}

// SetCoordinates replaces the coordinates.
func (ls *LineString) SetCoordinates(cs []Coord) (*LineString, error) {
	layout := ls.layout
	if layout == NoLayout && len(cs) > 0 {
		layout = LayoutForStride(len(cs[0]))
	}
	flatCoords, err := flat.DeflateCoordinates(nil, cs, layout.Stride())
	if err != nil {
		return nil, err
	}
	ls.setLayout(layout, flatCoords)
	ls.Changed()
	return ls, nil
}

// MustSetCoordinates is SetCoordinates that panics on error.
func (ls *LineString) MustSetCoordinates(cs []Coord) *LineString {
	if _, err := ls.SetCoordinates(cs); err != nil {
		panic(err)
	}
	return ls
}

// SetFlatCoordinates replaces the coordinates with flatCoords.
func (ls *LineString) SetFlatCoordinates(layout Layout, flatCoords []float64) *LineString {
	ls.setLayout(layout, flatCoords)
	ls.Changed()
	return ls
}

// AppendCoordinate adds a coordinate at the end.
func (ls *LineString) AppendCoordinate(c Coord) error {
	flatCoords, err := flat.DeflateCoordinate(ls.flatCoordinates, c, ls.stride)
	if err != nil {
		return err
	}
	ls.flatCoordinates = flatCoords
	ls.Changed()
	return nil
}

// Coordinates returns a copy of the coordinates.
func (ls *LineString) Coordinates() []Coord {
	return flat.InflateCoordinates(ls.flatCoordinates, 0, len(ls.flatCoordinates), ls.stride)
}

// Length returns the planar length.
func (ls *LineString) Length() float64 {
	return flat.LineStringLength(ls.flatCoordinates, 0, len(ls.flatCoordinates), ls.stride)
}

// FlatMidpoint returns the XY point halfway along the line. It is cached
// until the next change.
func (ls *LineString) FlatMidpoint() []float64 {
	if ls.midpoint == nil || ls.midpointRevision != ls.revision {
		ls.midpoint = flat.Interpolate(ls.flatCoordinates, 0, len(ls.flatCoordinates), ls.stride, 0.5, ls.midpoint[:0])
		ls.midpointRevision = ls.revision
	}
	return ls.midpoint
}

// Type returns TypeLineString.
func (ls *LineString) Type() Type { return TypeLineString }

// Extent implements Geometry.
func (ls *LineString) Extent() extent.Extent {
	return ls.cachedExtent(ls.flatExtent)
}

// ClosestPointXY implements Geometry.
func (ls *LineString) ClosestPointXY(x, y float64, closest []float64, minSquaredDistance float64) float64 {
	if minSquaredDistance < closestSquaredDistanceToExtent(ls.Extent(), x, y) {
		return minSquaredDistance
	}
	if !ls.maxDeltaValid || ls.maxDeltaRevision != ls.revision {
		ls.maxDelta = math.Sqrt(flat.MaxSquaredDelta(ls.flatCoordinates, 0, len(ls.flatCoordinates), ls.stride, 0))
		ls.maxDeltaRevision = ls.revision
		ls.maxDeltaValid = true
	}
	return flat.AssignClosestPoint(ls.flatCoordinates, 0, len(ls.flatCoordinates), ls.stride,
		ls.maxDelta, false, x, y, closest, minSquaredDistance)
}

// ContainsXY reports false; lines have no interior.
func (ls *LineString) ContainsXY(float64, float64) bool { return false }

// SimplifiedGeometry simplifies with Douglas-Peucker.
func (ls *LineString) SimplifiedGeometry(squaredTolerance float64) Geometry {
	return ls.simplified(ls, squaredTolerance, func(sq float64) Geometry {
		simplified := flat.DouglasPeucker(ls.flatCoordinates, 0, len(ls.flatCoordinates), ls.stride, sq, nil)
		return NewLineStringFlat(XY, simplified)
	})
}

// Transform implements Geometry.
func (ls *LineString) Transform(fn proj.TransformFunc) { ls.transform(fn) }

// Clone returns a deep copy without listeners.
func (ls *LineString) Clone() Geometry {
	return NewLineStringFlat(ls.layout, ls.cloneFlat())
}

// LinearRing is a closed line used as a polygon ring. The closing
// coordinate is implied.
type LinearRing struct {
	simpleGeometry

	maxDelta         float64
	maxDeltaRevision uint64
	maxDeltaValid    bool
}

// NewLinearRing returns an empty ring.
func NewLinearRing(layout Layout) *LinearRing {
	lr := &LinearRing{}
	lr.setLayout(layout, nil)
	return lr
}

// NewLinearRingFlat returns a ring backed by flatCoords.
func NewLinearRingFlat(layout Layout, flatCoords []float64) *LinearRing {
	return NewLinearRing(layout).SetFlatCoordinates(layout, flatCoords)
}

// SetCoordinates replaces the coordinates.
func (lr *LinearRing) SetCoordinates(cs []Coord) (*LinearRing, error) {
	layout := lr.layout
	if layout == NoLayout && len(cs) > 0 {
		layout = LayoutForStride(len(cs[0]))
	}
	flatCoords, err := flat.DeflateCoordinates(nil, cs, layout.Stride())
	if err != nil {
		return nil, err
	}
	lr.setLayout(layout, flatCoords)
	lr.Changed()
	return lr, nil
}

// MustSetCoordinates is SetCoordinates that panics on error.
func (lr *LinearRing) MustSetCoordinates(cs []Coord) *LinearRing {
	if _, err := lr.SetCoordinates(cs); err != nil {
		panic(err)
	}
	return lr
}

// SetFlatCoordinates replaces the coordinates with flatCoords.
func (lr *LinearRing) SetFlatCoordinates(layout Layout, flatCoords []float64) *LinearRing {
	lr.setLayout(layout, flatCoords)
	lr.Changed()
	return lr
}

// Coordinates returns a copy of the coordinates.
func (lr *LinearRing) Coordinates() []Coord {
	return flat.InflateCoordinates(lr.flatCoordinates, 0, len(lr.flatCoordinates), lr.stride)
}

// Area returns the unsigned area enclosed by the ring.
func (lr *LinearRing) Area() float64 {
	return math.Abs(flat.LinearRingArea(lr.flatCoordinates, 0, len(lr.flatCoordinates), lr.stride))
}

// Type returns TypeLinearRing.
func (lr *LinearRing) Type() Type { return TypeLinearRing }

// Extent implements Geometry.
func (lr *LinearRing) Extent() extent.Extent {
	return lr.cachedExtent(lr.flatExtent)
}

// ClosestPointXY implements Geometry.
func (lr *LinearRing) ClosestPointXY(x, y float64, closest []float64, minSquaredDistance float64) float64 {
	if minSquaredDistance < closestSquaredDistanceToExtent(lr.Extent(), x, y) {
		return minSquaredDistance
	}
	if !lr.maxDeltaValid || lr.maxDeltaRevision != lr.revision {
		lr.maxDelta = math.Sqrt(flat.MaxSquaredDelta(lr.flatCoordinates, 0, len(lr.flatCoordinates), lr.stride, 0))
		lr.maxDeltaRevision = lr.revision
		lr.maxDeltaValid = true
	}
	return flat.AssignClosestPoint(lr.flatCoordinates, 0, len(lr.flatCoordinates), lr.stride,
		lr.maxDelta, true, x, y, closest, minSquaredDistance)
}

// ContainsXY reports whether (x, y) is inside the ring.
func (lr *LinearRing) ContainsXY(x, y float64) bool {
	if len(lr.flatCoordinates) == 0 {
		return false
	}
	return flat.LinearRingContainsXY(lr.flatCoordinates, 0, len(lr.flatCoordinates), lr.stride, x, y)
}

// SimplifiedGeometry simplifies with Douglas-Peucker.
func (lr *LinearRing) SimplifiedGeometry(squaredTolerance float64) Geometry {
	return lr.simplified(lr, squaredTolerance, func(sq float64) Geometry {
		simplified := flat.DouglasPeucker(lr.flatCoordinates, 0, len(lr.flatCoordinates), lr.stride, sq, nil)
		return NewLinearRingFlat(XY, simplified)
	})
}

// Transform implements Geometry.
func (lr *LinearRing) Transform(fn proj.TransformFunc) { lr.transform(fn) }

// Clone returns a deep copy without listeners.
func (lr *LinearRing) Clone() Geometry {
	return NewLinearRingFlat(lr.layout, lr.cloneFlat())
}
