// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package geom

import (
	"math"

	"github.com/gogpu/ggmap/extent"
	"github.com/gogpu/ggmap/geom/flat"
	"github.com/gogpu/ggmap/proj"
)

// Polygon is an exterior ring followed by zero or more holes.
type Polygon struct {
	simpleGeometry
	ends []int

	maxDelta         float64
	maxDeltaRevision uint64
	maxDeltaValid    bool

	interior         []float64
	interiorRevision uint64

	oriented         []float64
	orientedRevision uint64
}

// NewPolygon returns an empty polygon.
func NewPolygon(layout Layout) *Polygon {
	p := &Polygon{}
	p.setLayout(layout, nil)
	return p
}

// NewPolygonFlat returns a polygon backed by flatCoords. It panics if ends
// does not describe flatCoords.
func NewPolygonFlat(layout Layout, flatCoords []float64, ends []int) *Polygon {
	return NewPolygon(layout).SetFlatCoordinates(layout, flatCoords, ends)
}

// SetCoordinates replaces every ring.
func (p *Polygon) SetCoordinates(css [][]Coord) (*Polygon, error) {
	layout := p.layout
	if layout == NoLayout {
		layout = layoutOfFirst2(css)
	}
	flatCoords, ends, err := flat.DeflateCoordinatess(nil, nil, css, layout.Stride())
	if err != nil {
		return nil, err
	}
	if err := ValidateEnds(ends, len(flatCoords), layout.Stride()); err != nil {
		return nil, err
	}
	p.setLayout(layout, flatCoords)
	p.ends = ends
	p.Changed()
	return p, nil
}

// MustSetCoordinates is SetCoordinates that panics on error.
func (p *Polygon) MustSetCoordinates(css [][]Coord) *Polygon {
	if _, err := p.SetCoordinates(css); err != nil {
		panic(err)
	}
	return p
}

// SetFlatCoordinates replaces every ring. It panics if ends does not
// describe flatCoords.
func (p *Polygon) SetFlatCoordinates(layout Layout, flatCoords []float64, ends []int) *Polygon {
	p.setLayout(layout, flatCoords)
	checkEnds(ends, len(flatCoords), p.stride)
	p.ends = ends
	p.Changed()
	return p
}

// AppendLinearRing adds a ring. Empty rings are ignored.
func (p *Polygon) AppendLinearRing(lr *LinearRing) {
	if len(lr.flatCoordinates) == 0 {
		return
	}
	if p.layout == NoLayout {
		p.setLayout(lr.layout, nil)
	}
	p.flatCoordinates = append(p.flatCoordinates, lr.flatCoordinates...)
	p.ends = append(p.ends, len(p.flatCoordinates))
	p.Changed()
}

// Ends returns the end offset of every ring.
func (p *Polygon) Ends() []int { return p.ends }

// Coordinates returns a copy of every ring.
func (p *Polygon) Coordinates() [][]Coord {
	return flat.InflateCoordinatess(p.flatCoordinates, 0, p.ends, p.stride)
}

// NumLinearRings returns the number of rings.
func (p *Polygon) NumLinearRings() int { return len(p.ends) }

// LinearRing returns a copy of the i-th ring. Ring 0 is the exterior.
func (p *Polygon) LinearRing(i int) *LinearRing {
	offset := 0
	if i > 0 {
		offset = p.ends[i-1]
	}
	return NewLinearRingFlat(p.layout, append([]float64(nil), p.flatCoordinates[offset:p.ends[i]]...))
}

// LinearRings returns a copy of every ring.
func (p *Polygon) LinearRings() []*LinearRing {
	lrs := make([]*LinearRing, len(p.ends))
	for i := range lrs {
		lrs[i] = p.LinearRing(i)
	}
	return lrs
}

// Area returns the exterior area minus the area of the holes.
func (p *Polygon) Area() float64 {
	return flat.LinearRingsArea(p.flatCoordinates, 0, p.ends, p.stride)
}

// FlatInteriorPoint returns an XY point guaranteed to be inside the
// polygon where one can be found on the horizontal line through the
// centre of its extent. It is cached until the next change.
func (p *Polygon) FlatInteriorPoint() []float64 {
	if p.interior == nil || p.interiorRevision != p.revision {
		cx, cy := p.Extent().Center()
		x, y := flat.InteriorPoint(p.flatCoordinates, 0, p.ends, p.stride, cx, cy)
		p.interior = append(p.interior[:0], x, y)
		p.interiorRevision = p.revision
	}
	return p.interior
}

// OrientedFlatCoordinates returns the coordinates with a clockwise
// exterior and counter-clockwise holes. If the polygon is already oriented
// its own slice is returned.
func (p *Polygon) OrientedFlatCoordinates() []float64 {
	if p.oriented == nil || p.orientedRevision != p.revision {
		if flat.LinearRingsAreOriented(p.flatCoordinates, 0, p.ends, p.stride) {
			p.oriented = p.flatCoordinates
		} else {
			p.oriented = append(p.oriented[:0:0], p.flatCoordinates...)
			flat.OrientLinearRings(p.oriented, 0, p.ends, p.stride)
		}
		p.orientedRevision = p.revision
	}
	return p.oriented
}

// Type returns TypePolygon.
func (p *Polygon) Type() Type { return TypePolygon }

// Extent implements Geometry.
func (p *Polygon) Extent() extent.Extent {
	return p.cachedExtent(p.flatExtent)
}

// ClosestPointXY implements Geometry.
func (p *Polygon) ClosestPointXY(x, y float64, closest []float64, minSquaredDistance float64) float64 {
	if minSquaredDistance < closestSquaredDistanceToExtent(p.Extent(), x, y) {
		return minSquaredDistance
	}
	if !p.maxDeltaValid || p.maxDeltaRevision != p.revision {
		p.maxDelta = math.Sqrt(flat.ArrayMaxSquaredDelta(p.flatCoordinates, 0, p.ends, p.stride, 0))
		p.maxDeltaRevision = p.revision
		p.maxDeltaValid = true
	}
	return flat.AssignClosestArrayPoint(p.flatCoordinates, 0, p.ends, p.stride,
		p.maxDelta, true, x, y, closest, minSquaredDistance)
}

// ContainsXY reports whether (x, y) is inside the exterior and outside
// every hole.
func (p *Polygon) ContainsXY(x, y float64) bool {
	return flat.LinearRingsContainsXY(p.flatCoordinates, 0, p.ends, p.stride, x, y)
}

// SimplifiedGeometry quantizes every ring to a grid of
// sqrt(squaredTolerance).
func (p *Polygon) SimplifiedGeometry(squaredTolerance float64) Geometry {
	return p.simplified(p, squaredTolerance, func(sq float64) Geometry {
		simplified, ends := flat.Quantizes(p.flatCoordinates, 0, p.ends, p.stride, math.Sqrt(sq), nil, nil)
		return NewPolygonFlat(XY, simplified, ends)
	})
}

// Transform implements Geometry.
func (p *Polygon) Transform(fn proj.TransformFunc) { p.transform(fn) }

// Clone returns a deep copy without listeners.
func (p *Polygon) Clone() Geometry {
	return NewPolygonFlat(p.layout, p.cloneFlat(), cloneEnds(p.ends))
}

// MultiPolygon is a set of polygons sharing one flat array.
type MultiPolygon struct {
	simpleGeometry
	endss [][]int

	maxDelta         float64
	maxDeltaRevision uint64
	maxDeltaValid    bool

	interiors         []float64
	interiorsRevision uint64

	oriented         []float64
	orientedRevision uint64
}

// NewMultiPolygon returns an empty multi-polygon.
func NewMultiPolygon(layout Layout) *MultiPolygon {
	mp := &MultiPolygon{}
	mp.setLayout(layout, nil)
	return mp
}

// NewMultiPolygonFlat returns a multi-polygon backed by flatCoords. It
// panics if endss does not describe flatCoords.
func NewMultiPolygonFlat(layout Layout, flatCoords []float64, endss [][]int) *MultiPolygon {
	return NewMultiPolygon(layout).SetFlatCoordinates(layout, flatCoords, endss)
}

// SetCoordinates replaces every polygon.
func (mp *MultiPolygon) SetCoordinates(csss [][][]Coord) (*MultiPolygon, error) {
	layout := mp.layout
	if layout == NoLayout {
		layout = layoutOfFirst3(csss)
	}
	flatCoords, endss, err := flat.DeflateCoordinatesss(nil, nil, csss, layout.Stride())
	if err != nil {
		return nil, err
	}
	if err := ValidateEndss(endss, len(flatCoords), layout.Stride()); err != nil {
		return nil, err
	}
	mp.setLayout(layout, flatCoords)
	mp.endss = endss
	mp.Changed()
	return mp, nil
}

// MustSetCoordinates is SetCoordinates that panics on error.
func (mp *MultiPolygon) MustSetCoordinates(csss [][][]Coord) *MultiPolygon {
	if _, err := mp.SetCoordinates(csss); err != nil {
		panic(err)
	}
	return mp
}

// SetFlatCoordinates replaces every polygon. It panics if endss does not
// describe flatCoords.
func (mp *MultiPolygon) SetFlatCoordinates(layout Layout, flatCoords []float64, endss [][]int) *MultiPolygon {
	mp.setLayout(layout, flatCoords)
	checkEndss(endss, len(flatCoords), mp.stride)
	mp.endss = endss
	mp.Changed()
	return mp
}

// AppendPolygon adds a polygon.
func (mp *MultiPolygon) AppendPolygon(p *Polygon) {
	if mp.layout == NoLayout {
		mp.setLayout(p.layout, nil)
	}
	offset := len(mp.flatCoordinates)
	mp.flatCoordinates = append(mp.flatCoordinates, p.flatCoordinates...)
	ends := make([]int, len(p.ends))
	for i, e := range p.ends {
		ends[i] = e + offset
	}
	mp.endss = append(mp.endss, ends)
	mp.Changed()
}

// Endss returns the ring ends of every polygon.
func (mp *MultiPolygon) Endss() [][]int { return mp.endss }

// Coordinates returns a copy of every polygon.
func (mp *MultiPolygon) Coordinates() [][][]Coord {
	return flat.InflateCoordinatesss(mp.flatCoordinates, 0, mp.endss, mp.stride)
}

// NumPolygons returns the number of polygons.
func (mp *MultiPolygon) NumPolygons() int { return len(mp.endss) }

// Polygon returns a copy of the i-th polygon.
func (mp *MultiPolygon) Polygon(i int) *Polygon {
	offset := 0
	for _, ends := range mp.endss[:i] {
		offset = flat.LastEnd(offset, ends)
	}
	ends := make([]int, len(mp.endss[i]))
	for j, e := range mp.endss[i] {
		ends[j] = e - offset
	}
	end := flat.LastEnd(offset, mp.endss[i])
	return NewPolygonFlat(mp.layout, append([]float64(nil), mp.flatCoordinates[offset:end]...), ends)
}

// Polygons returns a copy of every polygon.
func (mp *MultiPolygon) Polygons() []*Polygon {
	ps := make([]*Polygon, len(mp.endss))
	for i := range ps {
		ps[i] = mp.Polygon(i)
	}
	return ps
}

// Area returns the summed area of every polygon.
func (mp *MultiPolygon) Area() float64 {
	return flat.LinearRingssArea(mp.flatCoordinates, 0, mp.endss, mp.stride)
}

// FlatInteriorPoints returns one XY interior point per polygon. It is
// cached until the next change.
func (mp *MultiPolygon) FlatInteriorPoints() []float64 {
	if mp.interiors == nil || mp.interiorsRevision != mp.revision {
		centers := make([]float64, 0, 2*len(mp.endss))
		offset := 0
		for _, ends := range mp.endss {
			end := flat.LastEnd(offset, ends)
			cx, cy := extent.FromFlatCoordinates(mp.flatCoordinates, offset, end, mp.stride).Center()
			centers = append(centers, cx, cy)
			offset = end
		}
		mp.interiors = flat.InteriorPoints(mp.flatCoordinates, 0, mp.endss, mp.stride, centers, mp.interiors[:0])
		mp.interiorsRevision = mp.revision
	}
	return mp.interiors
}

// OrientedFlatCoordinates returns the coordinates with every polygon
// oriented as by Polygon.OrientedFlatCoordinates.
func (mp *MultiPolygon) OrientedFlatCoordinates() []float64 {
	if mp.oriented == nil || mp.orientedRevision != mp.revision {
		if flat.LinearRingssAreOriented(mp.flatCoordinates, 0, mp.endss, mp.stride) {
			mp.oriented = mp.flatCoordinates
		} else {
			mp.oriented = append(mp.oriented[:0:0], mp.flatCoordinates...)
			flat.OrientLinearRingss(mp.oriented, 0, mp.endss, mp.stride)
		}
		mp.orientedRevision = mp.revision
	}
	return mp.oriented
}

// Type returns TypeMultiPolygon.
func (mp *MultiPolygon) Type() Type { return TypeMultiPolygon }

// Extent implements Geometry.
func (mp *MultiPolygon) Extent() extent.Extent {
	return mp.cachedExtent(mp.flatExtent)
}

// ClosestPointXY implements Geometry.
func (mp *MultiPolygon) ClosestPointXY(x, y float64, closest []float64, minSquaredDistance float64) float64 {
	if minSquaredDistance < closestSquaredDistanceToExtent(mp.Extent(), x, y) {
		return minSquaredDistance
	}
	if !mp.maxDeltaValid || mp.maxDeltaRevision != mp.revision {
		mp.maxDelta = math.Sqrt(flat.MultiArrayMaxSquaredDelta(mp.flatCoordinates, 0, mp.endss, mp.stride, 0))
		mp.maxDeltaRevision = mp.revision
		mp.maxDeltaValid = true
	}
	return flat.AssignClosestMultiArrayPoint(mp.flatCoordinates, 0, mp.endss, mp.stride,
		mp.maxDelta, true, x, y, closest, minSquaredDistance)
}

// ContainsXY reports whether any polygon contains (x, y).
func (mp *MultiPolygon) ContainsXY(x, y float64) bool {
	return flat.LinearRingssContainsXY(mp.flatCoordinates, 0, mp.endss, mp.stride, x, y)
}

// SimplifiedGeometry quantizes every ring to a grid of
// sqrt(squaredTolerance).
func (mp *MultiPolygon) SimplifiedGeometry(squaredTolerance float64) Geometry {
	return mp.simplified(mp, squaredTolerance, func(sq float64) Geometry {
		simplified, endss := flat.Quantizess(mp.flatCoordinates, 0, mp.endss, mp.stride, math.Sqrt(sq), nil, nil)
		return NewMultiPolygonFlat(XY, simplified, endss)
	})
}

// Transform implements Geometry.
func (mp *MultiPolygon) Transform(fn proj.TransformFunc) { mp.transform(fn) }

// Clone returns a deep copy without listeners.
func (mp *MultiPolygon) Clone() Geometry {
	endss := make([][]int, len(mp.endss))
	for i, ends := range mp.endss {
		endss[i] = cloneEnds(ends)
	}
	return NewMultiPolygonFlat(mp.layout, mp.cloneFlat(), endss)
}
