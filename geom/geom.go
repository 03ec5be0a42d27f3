// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package geom implements the geometry model: every geometry stores its
// coordinates in one flat float64 slice, with an ends slice (or slice of
// ends slices) describing parts. The layout types are those of
// github.com/twpayne/go-geom so that decoded WKT and WKB geometries can be
// adopted without copying.
//
// Geometries are not safe for concurrent mutation.
package geom

import (
	"math"

	"github.com/cockroachdb/errors"
	gogeom "github.com/twpayne/go-geom"

	"github.com/gogpu/ggmap/event"
	"github.com/gogpu/ggmap/extent"
	"github.com/gogpu/ggmap/geom/flat"
	"github.com/gogpu/ggmap/proj"
)

// Layout describes the ordinates of each coordinate.
type Layout = gogeom.Layout

// Coordinate layouts.
const (
	NoLayout = gogeom.NoLayout
	XY       = gogeom.XY
	XYZ      = gogeom.XYZ
	XYM      = gogeom.XYM
	XYZM     = gogeom.XYZM
)

// Coord is a single coordinate.
type Coord = gogeom.Coord

// LayoutForStride returns the default layout for a coordinate size.
func LayoutForStride(stride int) Layout {
	switch stride {
	case 2:
		return XY
	case 3:
		return XYZ
	case 4:
		return XYZM
	}
	return NoLayout
}

// Type identifies a geometry variant.
type Type uint8

// Geometry types.
const (
	TypePoint Type = iota
	TypeLineString
	TypeLinearRing
	TypePolygon
	TypeMultiPoint
	TypeMultiLineString
	TypeMultiPolygon
	TypeGeometryCollection
	TypeCircle
)

var typeNames = [...]string{
	TypePoint:              "Point",
	TypeLineString:         "LineString",
	TypeLinearRing:         "LinearRing",
	TypePolygon:            "Polygon",
	TypeMultiPoint:         "MultiPoint",
	TypeMultiLineString:    "MultiLineString",
	TypeMultiPolygon:       "MultiPolygon",
	TypeGeometryCollection: "GeometryCollection",
	TypeCircle:             "Circle",
}

// String returns the name of the geometry type.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Geometry is implemented by *Point, *LineString, *LinearRing, *Polygon,
// *MultiPoint, *MultiLineString, *MultiPolygon, *GeometryCollection and
// *Circle. The set is closed; consumers dispatch with a type switch.
type Geometry interface {
	Type() Type
	Layout() Layout
	Stride() int
	FlatCoordinates() []float64
	// Extent is cached until the next change.
	Extent() extent.Extent
	// Revision increases on every change.
	Revision() uint64

	// ClosestPointXY writes the point of the geometry closest to (x, y) into
	// closest if it is nearer than minSquaredDistance, and returns the new
	// minimum squared distance.
	ClosestPointXY(x, y float64, closest []float64, minSquaredDistance float64) float64
	ContainsXY(x, y float64) bool
	// SimplifiedGeometry returns a simplified copy, or the geometry itself
	// when simplification would not remove any coordinate.
	SimplifiedGeometry(squaredTolerance float64) Geometry
	Transform(fn proj.TransformFunc)
	Clone() Geometry

	Listen(owner any, fn event.Listener)
	Unlisten(owner any) bool

	isGeometry()
}

// ClosestPoint returns the point of g closest to (x, y).
func ClosestPoint(g Geometry, x, y float64) Coord {
	closest := make(Coord, max(g.Stride(), 2))
	closest[0], closest[1] = math.NaN(), math.NaN()
	g.ClosestPointXY(x, y, closest, math.Inf(1))
	return closest
}

// simpleGeometry holds what every flat geometry shares.
type simpleGeometry struct {
	layout          Layout
	stride          int
	flatCoordinates []float64
	revision        uint64
	listeners       event.Target

	extent             extent.Extent
	extentRevision     uint64
	extentValid        bool
	extentComputations int

	simplifiedRevision     uint64
	simplifiedCache        map[float64]Geometry
	maxMinSquaredTolerance float64
}

func (g *simpleGeometry) Layout() Layout { return g.layout }

func (g *simpleGeometry) Stride() int { return g.stride }

func (g *simpleGeometry) FlatCoordinates() []float64 { return g.flatCoordinates }

func (g *simpleGeometry) Revision() uint64 { return g.revision }

func (g *simpleGeometry) Listen(owner any, fn event.Listener) { g.listeners.Listen(owner, fn) }

func (g *simpleGeometry) Unlisten(owner any) bool { return g.listeners.Unlisten(owner) }

func (g *simpleGeometry) isGeometry() {}

// Changed bumps the revision and notifies listeners. Call it after
// mutating the slice returned by FlatCoordinates in place.
func (g *simpleGeometry) Changed() {
	g.revision++
	g.listeners.Dispatch()
}

func (g *simpleGeometry) setLayout(layout Layout, flatCoords []float64) {
	stride := layout.Stride()
	if stride == 0 && len(flatCoords) > 0 {
		panic(errors.AssertionFailedf("geom: coordinates without a layout"))
	}
	if stride > 0 && len(flatCoords)%stride != 0 {
		panic(errors.AssertionFailedf("geom: %d ordinates is not a multiple of stride %d", len(flatCoords), stride))
	}
	g.layout = layout
	g.stride = stride
	g.flatCoordinates = flatCoords
}

// cachedExtent returns the cached extent, recomputing it with compute when
// the geometry changed since it was last computed.
func (g *simpleGeometry) cachedExtent(compute func() extent.Extent) extent.Extent {
	if !g.extentValid || g.extentRevision != g.revision {
		g.extent = compute()
		g.extentRevision = g.revision
		g.extentValid = true
		g.extentComputations++
	}
	return g.extent
}

func (g *simpleGeometry) flatExtent() extent.Extent {
	return extent.FromFlatCoordinates(g.flatCoordinates, 0, len(g.flatCoordinates), g.stride)
}

// simplified implements SimplifiedGeometry for self. internal computes an
// uncached simplification.
func (g *simpleGeometry) simplified(self Geometry, squaredTolerance float64, internal func(float64) Geometry) Geometry {
	if g.simplifiedCache == nil || g.simplifiedRevision != g.revision {
		g.simplifiedCache = map[float64]Geometry{}
		g.maxMinSquaredTolerance = 0
		g.simplifiedRevision = g.revision
	}
	if squaredTolerance < 0 ||
		(g.maxMinSquaredTolerance != 0 && squaredTolerance <= g.maxMinSquaredTolerance) {
		return self
	}
	if s, ok := g.simplifiedCache[squaredTolerance]; ok {
		return s
	}
	s := internal(squaredTolerance)
	if len(s.FlatCoordinates()) < len(g.flatCoordinates) {
		g.simplifiedCache[squaredTolerance] = s
		return s
	}
	// Nothing was removed, so no tolerance up to this one removes anything.
	g.maxMinSquaredTolerance = squaredTolerance
	return self
}

func (g *simpleGeometry) transform(fn proj.TransformFunc) {
	if len(g.flatCoordinates) > 0 {
		fn(g.flatCoordinates, g.flatCoordinates, g.stride)
	}
	g.Changed()
}

func (g *simpleGeometry) cloneFlat() []float64 {
	if g.flatCoordinates == nil {
		return nil
	}
	return append([]float64(nil), g.flatCoordinates...)
}

// ErrInvalidEnds reports ends that do not describe a coordinate buffer.
var ErrInvalidEnds = errors.New("geom: invalid ends")

// ValidateEnds checks that ends is strictly increasing, aligned to stride
// and ends at n, the length of the coordinate buffer. Every part must hold
// at least one coordinate.
func ValidateEnds(ends []int, n, stride int) error {
	prev, err := validateEnds(ends, 0, stride)
	if err != nil {
		return err
	}
	if prev != n {
		return errors.Wrapf(ErrInvalidEnds, "last end %d != %d ordinates", prev, n)
	}
	return nil
}

// ValidateEndss is ValidateEnds for the rings of several polygons. A
// polygon without rings has an empty ends slice.
func ValidateEndss(endss [][]int, n, stride int) error {
	prev := 0
	for i, ends := range endss {
		var err error
		if prev, err = validateEnds(ends, prev, stride); err != nil {
			return errors.Wrapf(err, "polygon %d", i)
		}
	}
	if prev != n {
		return errors.Wrapf(ErrInvalidEnds, "last end %d != %d ordinates", prev, n)
	}
	return nil
}

func validateEnds(ends []int, prev, stride int) (int, error) {
	for i, e := range ends {
		if e <= prev {
			return prev, errors.Wrapf(ErrInvalidEnds, "ends[%d] = %d after %d", i, e, prev)
		}
		if stride > 0 && e%stride != 0 {
			return prev, errors.Wrapf(ErrInvalidEnds, "ends[%d] = %d not a multiple of stride %d", i, e, stride)
		}
		prev = e
	}
	return prev, nil
}

func checkEnds(ends []int, n, stride int) {
	if err := ValidateEnds(ends, n, stride); err != nil {
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "geom"))
	}
}

func checkEndss(endss [][]int, n, stride int) {
	if err := ValidateEndss(endss, n, stride); err != nil {
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "geom"))
	}
}

// layoutFor returns current when set, otherwise the layout implied by the
// coordinate size.
func layoutFor(current Layout, coordLen int) Layout {
	if current != NoLayout {
		return current
	}
	return LayoutForStride(coordLen)
}

func closestOfPoints(flatCoords []float64, stride int, x, y float64, closest []float64, minSquaredDistance float64) float64 {
	for i := 0; i < len(flatCoords); i += stride {
		d := flat.SquaredDistance(x, y, flatCoords[i], flatCoords[i+1])
		if d < minSquaredDistance {
			minSquaredDistance = d
			copy(closest, flatCoords[i:i+stride])
		}
	}
	return minSquaredDistance
}

// closestSquaredDistanceToExtent returns the squared distance from (x, y)
// to the nearest point of e.
func closestSquaredDistanceToExtent(e extent.Extent, x, y float64) float64 {
	var dx, dy float64
	switch {
	case x < e[0]:
		dx = e[0] - x
	case x > e[2]:
		dx = x - e[2]
	}
	switch {
	case y < e[1]:
		dy = e[1] - y
	case y > e[3]:
		dy = y - e[3]
	}
	return dx*dx + dy*dy
}

// cloneEnds copies an ends slice.
func cloneEnds(ends []int) []int {
	if ends == nil {
		return nil
	}
	return append([]int(nil), ends...)
}
