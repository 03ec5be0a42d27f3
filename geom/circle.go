// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package geom

import (
	"math"

	"github.com/cockroachdb/errors"

	"github.com/gogpu/ggmap/extent"
	"github.com/gogpu/ggmap/geom/flat"
	"github.com/gogpu/ggmap/proj"
)

// Circle is stored as two coordinates: the centre and a point on the
// circumference east of the centre.
type Circle struct {
	simpleGeometry
}

// NewCircle returns an empty circle.
func NewCircle(layout Layout) *Circle {
	c := &Circle{}
	c.setLayout(layout, nil)
	return c
}

// NewCircleFlat returns a circle backed by flatCoords, which must hold
// exactly two coordinates.
func NewCircleFlat(layout Layout, flatCoords []float64) *Circle {
	return NewCircle(layout).SetFlatCoordinates(layout, flatCoords)
}

// SetCenterAndRadius replaces the circle.
func (c *Circle) SetCenterAndRadius(center Coord, radius float64) (*Circle, error) {
	layout := layoutFor(c.layout, len(center))
	stride := layout.Stride()
	flatCoords, err := flat.DeflateCoordinate(make([]float64, 0, 2*stride), center, stride)
	if err != nil {
		return nil, err
	}
	flatCoords = append(flatCoords, flatCoords...)
	flatCoords[stride] += radius
	c.setLayout(layout, flatCoords)
	c.Changed()
	return c, nil
}

// MustSetCenterAndRadius is SetCenterAndRadius that panics on error.
func (c *Circle) MustSetCenterAndRadius(center Coord, radius float64) *Circle {
	if _, err := c.SetCenterAndRadius(center, radius); err != nil {
		panic(err)
	}
	return c
}

// SetFlatCoordinates replaces the circle with flatCoords.
func (c *Circle) SetFlatCoordinates(layout Layout, flatCoords []float64) *Circle {
	if len(flatCoords) != 0 && len(flatCoords) != 2*layout.Stride() {
		panic(errors.AssertionFailedf("geom: circle needs 2 coordinates, got %d ordinates", len(flatCoords)))
	}
	c.setLayout(layout, flatCoords)
	c.Changed()
	return c
}

// Center returns a copy of the centre.
func (c *Circle) Center() Coord {
	if len(c.flatCoordinates) == 0 {
		return nil
	}
	return append(Coord(nil), c.flatCoordinates[:c.stride]...)
}

// SetCenter moves the circle, keeping its radius.
func (c *Circle) SetCenter(center Coord) {
	r := c.Radius()
	if _, err := c.SetCenterAndRadius(center, r); err != nil {
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "geom: set circle center"))
	}
}

// Radius returns the radius.
func (c *Circle) Radius() float64 {
	if len(c.flatCoordinates) == 0 {
		return 0
	}
	s := c.stride
	return math.Hypot(c.flatCoordinates[s]-c.flatCoordinates[0], c.flatCoordinates[s+1]-c.flatCoordinates[1])
}

// SetRadius changes the radius, keeping the centre.
func (c *Circle) SetRadius(radius float64) {
	s := c.stride
	c.flatCoordinates[s] = c.flatCoordinates[0] + radius
	c.flatCoordinates[s+1] = c.flatCoordinates[1]
	c.Changed()
}

// Type returns TypeCircle.
func (c *Circle) Type() Type { return TypeCircle }

// Extent returns the bounding square of the circle.
func (c *Circle) Extent() extent.Extent {
	return c.cachedExtent(func() extent.Extent {
		if len(c.flatCoordinates) == 0 {
			return extent.CreateEmpty()
		}
		r := c.Radius()
		x, y := c.flatCoordinates[0], c.flatCoordinates[1]
		return extent.New(x-r, y-r, x+r, y+r)
	})
}

// ClosestPointXY returns the nearest point on the circumference.
func (c *Circle) ClosestPointXY(x, y float64, closest []float64, minSquaredDistance float64) float64 {
	if len(c.flatCoordinates) == 0 {
		return minSquaredDistance
	}
	cx, cy := c.flatCoordinates[0], c.flatCoordinates[1]
	dx, dy := x-cx, y-cy
	centerDistance := math.Hypot(dx, dy)
	r := c.Radius()
	d := (centerDistance - r) * (centerDistance - r)
	if d >= minSquaredDistance {
		return minSquaredDistance
	}
	copy(closest, c.flatCoordinates[:c.stride])
	if centerDistance == 0 {
		closest[0] += r
	} else {
		closest[0] = cx + r*dx/centerDistance
		closest[1] = cy + r*dy/centerDistance
	}
	return d
}

// ContainsXY reports whether (x, y) lies in the disc.
func (c *Circle) ContainsXY(x, y float64) bool {
	if len(c.flatCoordinates) == 0 {
		return false
	}
	r := c.Radius()
	return flat.SquaredDistance(x, y, c.flatCoordinates[0], c.flatCoordinates[1]) <= r*r
}

// SimplifiedGeometry returns c.
func (c *Circle) SimplifiedGeometry(float64) Geometry { return c }

// Transform maps both the centre and the circumference point.
func (c *Circle) Transform(fn proj.TransformFunc) { c.transform(fn) }

// Clone returns a deep copy without listeners.
func (c *Circle) Clone() Geometry {
	return NewCircleFlat(c.layout, c.cloneFlat())
}
