// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package extent provides axis-aligned bounding boxes over map coordinates.
//
// An Extent is stored as [minX, minY, maxX, maxY]. The empty extent uses
// +Inf minimums and -Inf maximums so that extending it by any coordinate
// yields that coordinate's point extent.
package extent

import "math"

// Extent is an axis-aligned bounding box: [minX, minY, maxX, maxY].
type Extent [4]float64

// Relationship describes where a coordinate lies relative to an extent.
// Values are bit flags; a coordinate above and to the left of an extent
// reports Above|Left.
type Relationship uint8

const (
	// Unknown is the zero relationship, used before any coordinate is classified.
	Unknown Relationship = 0
	// Intersecting means the coordinate lies inside or on the extent.
	Intersecting Relationship = 1
	// Above means the coordinate's y is greater than the extent's maxY.
	Above Relationship = 2
	// Right means the coordinate's x is greater than the extent's maxX.
	Right Relationship = 4
	// Below means the coordinate's y is less than the extent's minY.
	Below Relationship = 8
	// Left means the coordinate's x is less than the extent's minX.
	Left Relationship = 16
)

// CreateEmpty returns the empty extent sentinel.
func CreateEmpty() Extent {
	return Extent{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
}

// New returns the extent [minX, minY, maxX, maxY].
func New(minX, minY, maxX, maxY float64) Extent {
	return Extent{minX, minY, maxX, maxY}
}

// BoundingExtent returns the smallest extent containing every point of a
// flat stride-2 coordinate list.
func BoundingExtent(flat []float64) Extent {
	e := CreateEmpty()
	for i := 0; i+1 < len(flat); i += 2 {
		e.ExtendXY(flat[i], flat[i+1])
	}
	return e
}

// FromFlatCoordinates returns the extent of flat[offset:end] with the given stride.
func FromFlatCoordinates(flat []float64, offset, end, stride int) Extent {
	e := CreateEmpty()
	e.ExtendFlatCoordinates(flat, offset, end, stride)
	return e
}

// IsEmpty reports whether the extent has no area and contains no point.
func (e Extent) IsEmpty() bool {
	return e[2] < e[0] || e[3] < e[1]
}

// MinX returns the minimum x.
func (e Extent) MinX() float64 { return e[0] }

// MinY returns the minimum y.
func (e Extent) MinY() float64 { return e[1] }

// MaxX returns the maximum x.
func (e Extent) MaxX() float64 { return e[2] }

// MaxY returns the maximum y.
func (e Extent) MaxY() float64 { return e[3] }

// Width returns maxX - minX.
func (e Extent) Width() float64 { return e[2] - e[0] }

// Height returns maxY - minY.
func (e Extent) Height() float64 { return e[3] - e[1] }

// Center returns the center point of the extent.
func (e Extent) Center() (x, y float64) {
	return (e[0] + e[2]) / 2, (e[1] + e[3]) / 2
}

// Area returns the extent's area, or 0 for an empty extent.
func (e Extent) Area() float64 {
	if e.IsEmpty() {
		return 0
	}
	return e.Width() * e.Height()
}

// Extend grows e in place to contain other.
func (e *Extent) Extend(other Extent) {
	if other[0] < e[0] {
		e[0] = other[0]
	}
	if other[1] < e[1] {
		e[1] = other[1]
	}
	if other[2] > e[2] {
		e[2] = other[2]
	}
	if other[3] > e[3] {
		e[3] = other[3]
	}
}

// ExtendXY grows e in place to contain the point (x, y).
func (e *Extent) ExtendXY(x, y float64) {
	e[0] = math.Min(e[0], x)
	e[1] = math.Min(e[1], y)
	e[2] = math.Max(e[2], x)
	e[3] = math.Max(e[3], y)
}

// ExtendFlatCoordinates grows e in place to contain every coordinate of
// flat[offset:end].
func (e *Extent) ExtendFlatCoordinates(flat []float64, offset, end, stride int) {
	for ; offset < end; offset += stride {
		e.ExtendXY(flat[offset], flat[offset+1])
	}
}

// Intersects reports whether e and other share at least one point.
func (e Extent) Intersects(other Extent) bool {
	return e[0] <= other[2] && e[2] >= other[0] &&
		e[1] <= other[3] && e[3] >= other[1]
}

// ContainsExtent reports whether other lies entirely within e.
func (e Extent) ContainsExtent(other Extent) bool {
	return e[0] <= other[0] && other[2] <= e[2] &&
		e[1] <= other[1] && other[3] <= e[3]
}

// ContainsXY reports whether (x, y) lies inside or on e.
func (e Extent) ContainsXY(x, y float64) bool {
	return e[0] <= x && x <= e[2] && e[1] <= y && y <= e[3]
}

// CoordinateRelationship classifies (x, y) against e.
func (e Extent) CoordinateRelationship(x, y float64) Relationship {
	rel := Unknown
	if x < e[0] {
		rel |= Left
	} else if x > e[2] {
		rel |= Right
	}
	if y < e[1] {
		rel |= Below
	} else if y > e[3] {
		rel |= Above
	}
	if rel == Unknown {
		rel = Intersecting
	}
	return rel
}

// Buffer returns e grown by value on every side.
func (e Extent) Buffer(value float64) Extent {
	return Extent{e[0] - value, e[1] - value, e[2] + value, e[3] + value}
}

// Intersection returns the overlap of e and other, or the empty extent.
func (e Extent) Intersection(other Extent) Extent {
	if !e.Intersects(other) {
		return CreateEmpty()
	}
	return Extent{
		math.Max(e[0], other[0]),
		math.Max(e[1], other[1]),
		math.Min(e[2], other[2]),
		math.Min(e[3], other[3]),
	}
}

// Equals reports whether both extents have identical bounds.
func (e Extent) Equals(other Extent) bool {
	return e == other
}

// Corners returns the four corners in the order bottom-left, top-left,
// top-right, bottom-right as a flat stride-2 list.
func (e Extent) Corners() []float64 {
	return []float64{e[0], e[1], e[0], e[3], e[2], e[3], e[2], e[1]}
}

// ForViewAndSize returns the extent covered by a view of the given center,
// resolution and rotation when rendered into a width x height pixel area.
func ForViewAndSize(cx, cy, resolution, rotation float64, width, height int) Extent {
	dx := resolution * float64(width) / 2
	dy := resolution * float64(height) / 2
	cos, sin := math.Cos(rotation), math.Sin(rotation)
	xs := [4]float64{-dx, -dx, dx, dx}
	ys := [4]float64{-dy, dy, -dy, dy}
	e := CreateEmpty()
	for i := range xs {
		x, y := xs[i], ys[i]
		e.ExtendXY(x*cos-y*sin+cx, x*sin+y*cos+cy)
	}
	return e
}
