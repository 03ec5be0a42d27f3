// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package flat implements the geometry algorithms that operate directly on
// flat coordinate arrays.
//
// A flat array stores the ordinates of every coordinate of a geometry
// back to back, stride values per coordinate. Multi-part geometries carry
// an ends array: ends[i] is the exclusive end offset of part i, and part i
// starts at ends[i-1] (or at the geometry's offset for i == 0). Polygons
// of a multi-polygon are described by endss, one ends array per polygon.
//
// Functions take (flat, offset, end, stride) so that a ring inside a
// polygon, or a polygon inside a multi-polygon, can be processed without
// copying.
package flat

import (
	"fmt"

	gogeom "github.com/twpayne/go-geom"
)

// ErrStrideMismatch is returned when a coordinate does not have as many
// ordinates as the layout requires.
type ErrStrideMismatch struct {
	Got  int
	Want int
}

func (e ErrStrideMismatch) Error() string {
	return fmt.Sprintf("stride mismatch: got %d, want %d", e.Got, e.Want)
}

// DeflateCoordinate appends c to dst.
func DeflateCoordinate(dst []float64, c gogeom.Coord, stride int) ([]float64, error) {
	if len(c) != stride {
		return nil, ErrStrideMismatch{Got: len(c), Want: stride}
	}
	return append(dst, c...), nil
}

// DeflateCoordinates appends every coordinate of cs to dst.
func DeflateCoordinates(dst []float64, cs []gogeom.Coord, stride int) ([]float64, error) {
	for _, c := range cs {
		var err error
		dst, err = DeflateCoordinate(dst, c, stride)
		if err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// DeflateCoordinatess appends every part of css to dst and records the end
// offset of each part.
func DeflateCoordinatess(dst []float64, ends []int, css [][]gogeom.Coord, stride int) ([]float64, []int, error) {
	for _, cs := range css {
		var err error
		dst, err = DeflateCoordinates(dst, cs, stride)
		if err != nil {
			return nil, nil, err
		}
		ends = append(ends, len(dst))
	}
	return dst, ends, nil
}

// DeflateCoordinatesss appends every polygon of csss to dst and records an
// ends array per polygon.
func DeflateCoordinatesss(dst []float64, endss [][]int, csss [][][]gogeom.Coord, stride int) ([]float64, [][]int, error) {
	for _, css := range csss {
		var err error
		var ends []int
		dst, ends, err = DeflateCoordinatess(dst, ends, css, stride)
		if err != nil {
			return nil, nil, err
		}
		endss = append(endss, ends)
	}
	return dst, endss, nil
}

// InflateCoordinates returns the coordinates stored in flat[offset:end].
func InflateCoordinates(flat []float64, offset, end, stride int) []gogeom.Coord {
	cs := make([]gogeom.Coord, 0, (end-offset)/stride)
	for ; offset < end; offset += stride {
		c := make(gogeom.Coord, stride)
		copy(c, flat[offset:offset+stride])
		cs = append(cs, c)
	}
	return cs
}

// InflateCoordinatess returns one coordinate slice per part.
func InflateCoordinatess(flat []float64, offset int, ends []int, stride int) [][]gogeom.Coord {
	css := make([][]gogeom.Coord, 0, len(ends))
	for _, end := range ends {
		css = append(css, InflateCoordinates(flat, offset, end, stride))
		offset = end
	}
	return css
}

// InflateCoordinatesss returns one part list per polygon.
func InflateCoordinatesss(flat []float64, offset int, endss [][]int, stride int) [][][]gogeom.Coord {
	csss := make([][][]gogeom.Coord, 0, len(endss))
	for _, ends := range endss {
		csss = append(csss, InflateCoordinatess(flat, offset, ends, stride))
		if len(ends) > 0 {
			offset = ends[len(ends)-1]
		}
	}
	return csss
}

// ReverseCoordinates reverses the order of the coordinates in
// flat[offset:end] in place.
func ReverseCoordinates(flat []float64, offset, end, stride int) {
	for offset < end-stride {
		end -= stride
		for i := 0; i < stride; i++ {
			flat[offset+i], flat[end+i] = flat[end+i], flat[offset+i]
		}
		offset += stride
	}
}

// LastEnd returns the final end offset of ends, or offset if ends is empty.
func LastEnd(offset int, ends []int) int {
	if len(ends) == 0 {
		return offset
	}
	return ends[len(ends)-1]
}
