// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package geom

import (
	"github.com/gogpu/ggmap/extent"
	"github.com/gogpu/ggmap/geom/flat"
	"github.com/gogpu/ggmap/proj"
)

// Point is a single coordinate.
type Point struct {
	simpleGeometry
}

// NewPoint returns an empty point with the given layout.
func NewPoint(layout Layout) *Point {
	p := &Point{}
	p.setLayout(layout, nil)
	return p
}

// NewPointFlat returns a point backed by flatCoords.
func NewPointFlat(layout Layout, flatCoords []float64) *Point {
	return NewPoint(layout).SetFlatCoordinates(layout, flatCoords)
}

// SetCoordinates replaces the coordinate.
func (p *Point) SetCoordinates(c Coord) (*Point, error) {
	layout := layoutFor(p.layout, len(c))
	flatCoords, err := flat.DeflateCoordinate(nil, c, layout.Stride())
	if err != nil {
		return nil, err
	}
	p.setLayout(layout, flatCoords)
	p.Changed()
	return p, nil
}

// MustSetCoordinates is SetCoordinates that panics on error.
func (p *Point) MustSetCoordinates(c Coord) *Point {
	if _, err := p.SetCoordinates(c); err != nil {
		panic(err)
	}
	return p
}

// SetFlatCoordinates replaces the coordinate with flatCoords.
func (p *Point) SetFlatCoordinates(layout Layout, flatCoords []float64) *Point {
	p.setLayout(layout, flatCoords)
	p.Changed()
	return p
}

// Coordinates returns a copy of the coordinate.
func (p *Point) Coordinates() Coord {
	if len(p.flatCoordinates) == 0 {
		return nil
	}
	return append(Coord(nil), p.flatCoordinates...)
}

// X returns the first ordinate.
func (p *Point) X() float64 { return p.flatCoordinates[0] }

// Y returns the second ordinate.
func (p *Point) Y() float64 { return p.flatCoordinates[1] }

// Type returns TypePoint.
func (p *Point) Type() Type { return TypePoint }

// Extent returns the degenerate extent of the point.
func (p *Point) Extent() extent.Extent {
	return p.cachedExtent(p.flatExtent)
}

// ClosestPointXY implements Geometry.
func (p *Point) ClosestPointXY(x, y float64, closest []float64, minSquaredDistance float64) float64 {
	return closestOfPoints(p.flatCoordinates, p.stride, x, y, closest, minSquaredDistance)
}

// ContainsXY reports whether (x, y) is the point itself.
func (p *Point) ContainsXY(x, y float64) bool {
	return len(p.flatCoordinates) >= 2 && p.flatCoordinates[0] == x && p.flatCoordinates[1] == y
}

// SimplifiedGeometry returns p.
func (p *Point) SimplifiedGeometry(float64) Geometry { return p }

// Transform implements Geometry.
func (p *Point) Transform(fn proj.TransformFunc) { p.transform(fn) }

// Clone returns a deep copy without listeners.
func (p *Point) Clone() Geometry {
	return NewPointFlat(p.layout, p.cloneFlat())
}

// MultiPoint is a set of points.
type MultiPoint struct {
	simpleGeometry
}

// NewMultiPoint returns an empty multi-point.
func NewMultiPoint(layout Layout) *MultiPoint {
	mp := &MultiPoint{}
	mp.setLayout(layout, nil)
	return mp
}

// NewMultiPointFlat returns a multi-point backed by flatCoords.
func NewMultiPointFlat(layout Layout, flatCoords []float64) *MultiPoint {
	return NewMultiPoint(layout).SetFlatCoordinates(layout, flatCoords)
}

// SetCoordinates replaces every point.
func (mp *MultiPoint) SetCoordinates(cs []Coord) (*MultiPoint, error) {
	layout := mp.layout
	if layout == NoLayout && len(cs) > 0 {
		layout = LayoutForStride(len(cs[0]))
	}
	flatCoords, err := flat.DeflateCoordinates(nil, cs, layout.Stride())
	if err != nil {
		return nil, err
	}
	mp.setLayout(layout, flatCoords)
	mp.Changed()
	return mp, nil
}

// MustSetCoordinates is SetCoordinates that panics on error.
func (mp *MultiPoint) MustSetCoordinates(cs []Coord) *MultiPoint {
	if _, err := mp.SetCoordinates(cs); err != nil {
		panic(err)
	}
	return mp
}

// SetFlatCoordinates replaces every point with flatCoords.
func (mp *MultiPoint) SetFlatCoordinates(layout Layout, flatCoords []float64) *MultiPoint {
	mp.setLayout(layout, flatCoords)
	mp.Changed()
	return mp
}

// AppendPoint adds a point with the same layout.
func (mp *MultiPoint) AppendPoint(p *Point) {
	if mp.layout == NoLayout {
		mp.setLayout(p.layout, nil)
	}
	mp.flatCoordinates = append(mp.flatCoordinates, p.flatCoordinates...)
	mp.Changed()
}

// Coordinates returns a copy of every point.
func (mp *MultiPoint) Coordinates() []Coord {
	return flat.InflateCoordinates(mp.flatCoordinates, 0, len(mp.flatCoordinates), mp.stride)
}

// NumPoints returns the number of points.
func (mp *MultiPoint) NumPoints() int {
	if mp.stride == 0 {
		return 0
	}
	return len(mp.flatCoordinates) / mp.stride
}

// Point returns a copy of the i-th point.
func (mp *MultiPoint) Point(i int) *Point {
	o := i * mp.stride
	return NewPointFlat(mp.layout, append([]float64(nil), mp.flatCoordinates[o:o+mp.stride]...))
}

// Points returns a copy of every point.
func (mp *MultiPoint) Points() []*Point {
	n := mp.NumPoints()
	ps := make([]*Point, n)
	for i := range ps {
		ps[i] = mp.Point(i)
	}
	return ps
}

// Type returns TypeMultiPoint.
func (mp *MultiPoint) Type() Type { return TypeMultiPoint }

// Extent implements Geometry.
func (mp *MultiPoint) Extent() extent.Extent {
	return mp.cachedExtent(mp.flatExtent)
}

// ClosestPointXY implements Geometry.
func (mp *MultiPoint) ClosestPointXY(x, y float64, closest []float64, minSquaredDistance float64) float64 {
	if minSquaredDistance < closestSquaredDistanceToExtent(mp.Extent(), x, y) {
		return minSquaredDistance
	}
	return closestOfPoints(mp.flatCoordinates, mp.stride, x, y, closest, minSquaredDistance)
}

// ContainsXY reports whether (x, y) is one of the points.
func (mp *MultiPoint) ContainsXY(x, y float64) bool {
	for i := 0; i < len(mp.flatCoordinates); i += mp.stride {
		if mp.flatCoordinates[i] == x && mp.flatCoordinates[i+1] == y {
			return true
		}
	}
	return false
}

// SimplifiedGeometry returns mp.
func (mp *MultiPoint) SimplifiedGeometry(float64) Geometry { return mp }

// Transform implements Geometry.
func (mp *MultiPoint) Transform(fn proj.TransformFunc) { mp.transform(fn) }

// Clone returns a deep copy without listeners.
func (mp *MultiPoint) Clone() Geometry {
	return NewMultiPointFlat(mp.layout, mp.cloneFlat())
}
