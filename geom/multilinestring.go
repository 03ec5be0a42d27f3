// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package geom

import (
	"math"

	"github.com/gogpu/ggmap/extent"
	"github.com/gogpu/ggmap/geom/flat"
	"github.com/gogpu/ggmap/proj"
)

// MultiLineString is a set of line strings sharing one flat array.
type MultiLineString struct {
	simpleGeometry
	ends []int

	maxDelta         float64
	maxDeltaRevision uint64
	maxDeltaValid    bool
}

// NewMultiLineString returns an empty multi-line string.
func NewMultiLineString(layout Layout) *MultiLineString {
	mls := &MultiLineString{}
	mls.setLayout(layout, nil)
	return mls
}

// NewMultiLineStringFlat returns a multi-line string backed by flatCoords.
// It panics if ends does not describe flatCoords.
func NewMultiLineStringFlat(layout Layout, flatCoords []float64, ends []int) *MultiLineString {
	return NewMultiLineString(layout).SetFlatCoordinates(layout, flatCoords, ends)
}

// SetCoordinates replaces every line.
func (mls *MultiLineString) SetCoordinates(css [][]Coord) (*MultiLineString, error) {
	layout := mls.layout
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
	mls.setLayout(layout, flatCoords)
	mls.ends = ends
	mls.Changed()
	return mls, nil
}

// MustSetCoordinates is SetCoordinates that panics on error.
func (mls *MultiLineString) MustSetCoordinates(css [][]Coord) *MultiLineString {
	if _, err := mls.SetCoordinates(css); err != nil {
		panic(err)
	}
	return mls
}

// SetFlatCoordinates replaces every line. It panics if ends does not
// describe flatCoords.
func (mls *MultiLineString) SetFlatCoordinates(layout Layout, flatCoords []float64, ends []int) *MultiLineString {
	mls.setLayout(layout, flatCoords)
	checkEnds(ends, len(flatCoords), mls.stride)
	mls.ends = ends
	mls.Changed()
	return mls
}

// AppendLineString adds a line. Empty lines are ignored.
func (mls *MultiLineString) AppendLineString(ls *LineString) {
	if len(ls.flatCoordinates) == 0 {
		return
	}
	if mls.layout == NoLayout {
		mls.setLayout(ls.layout, nil)
	}
	mls.flatCoordinates = append(mls.flatCoordinates, ls.flatCoordinates...)
	mls.ends = append(mls.ends, len(mls.flatCoordinates))
	mls.Changed()
}

// Ends returns the end offset of every line.
func (mls *MultiLineString) Ends() []int { return mls.ends }

// Coordinates returns a copy of every line.
func (mls *MultiLineString) Coordinates() [][]Coord {
	return flat.InflateCoordinatess(mls.flatCoordinates, 0, mls.ends, mls.stride)
}

// NumLineStrings returns the number of lines.
func (mls *MultiLineString) NumLineStrings() int { return len(mls.ends) }

// LineString returns a copy of the i-th line.
func (mls *MultiLineString) LineString(i int) *LineString {
	offset := 0
	if i > 0 {
		offset = mls.ends[i-1]
	}
	return NewLineStringFlat(mls.layout, append([]float64(nil), mls.flatCoordinates[offset:mls.ends[i]]...))
}

// LineStrings returns a copy of every line.
func (mls *MultiLineString) LineStrings() []*LineString {
	lss := make([]*LineString, len(mls.ends))
	for i := range lss {
		lss[i] = mls.LineString(i)
	}
	return lss
}

// Length returns the summed length of every line.
func (mls *MultiLineString) Length() float64 {
	var length float64
	offset := 0
	for _, end := range mls.ends {
		length += flat.LineStringLength(mls.flatCoordinates, offset, end, mls.stride)
		offset = end
	}
	return length
}

// FlatMidpoints returns the XY midpoint of every line.
func (mls *MultiLineString) FlatMidpoints() []float64 {
	return flat.Midpoints(mls.flatCoordinates, 0, mls.ends, mls.stride, nil)
}

// Type returns TypeMultiLineString.
func (mls *MultiLineString) Type() Type { return TypeMultiLineString }

// Extent implements Geometry.
func (mls *MultiLineString) Extent() extent.Extent {
	return mls.cachedExtent(mls.flatExtent)
}

// ClosestPointXY implements Geometry.
func (mls *MultiLineString) ClosestPointXY(x, y float64, closest []float64, minSquaredDistance float64) float64 {
	if minSquaredDistance < closestSquaredDistanceToExtent(mls.Extent(), x, y) {
		return minSquaredDistance
	}
	if !mls.maxDeltaValid || mls.maxDeltaRevision != mls.revision {
		mls.maxDelta = math.Sqrt(flat.ArrayMaxSquaredDelta(mls.flatCoordinates, 0, mls.ends, mls.stride, 0))
		mls.maxDeltaRevision = mls.revision
		mls.maxDeltaValid = true
	}
	return flat.AssignClosestArrayPoint(mls.flatCoordinates, 0, mls.ends, mls.stride,
		mls.maxDelta, false, x, y, closest, minSquaredDistance)
}

// ContainsXY reports false; lines have no interior.
func (mls *MultiLineString) ContainsXY(float64, float64) bool { return false }

// SimplifiedGeometry simplifies every line with Douglas-Peucker.
func (mls *MultiLineString) SimplifiedGeometry(squaredTolerance float64) Geometry {
	return mls.simplified(mls, squaredTolerance, func(sq float64) Geometry {
		simplified, ends := flat.DouglasPeuckers(mls.flatCoordinates, 0, mls.ends, mls.stride, sq, nil, nil)
		return NewMultiLineStringFlat(XY, simplified, ends)
	})
}

// Transform implements Geometry.
func (mls *MultiLineString) Transform(fn proj.TransformFunc) { mls.transform(fn) }

// Clone returns a deep copy without listeners.
func (mls *MultiLineString) Clone() Geometry {
	return NewMultiLineStringFlat(mls.layout, mls.cloneFlat(), cloneEnds(mls.ends))
}

func layoutOfFirst2(css [][]Coord) Layout {
	for _, cs := range css {
		if len(cs) > 0 {
			return LayoutForStride(len(cs[0]))
		}
	}
	return NoLayout
}

func layoutOfFirst3(csss [][][]Coord) Layout {
	for _, css := range csss {
		if l := layoutOfFirst2(css); l != NoLayout {
			return l
		}
	}
	return NoLayout
}
