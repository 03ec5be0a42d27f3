// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package flat

import (
	"math"
	"sort"
)

// InteriorPoint returns a point inside the polygon described by ends. It
// scans the horizontal line y = centerY, collects its crossings with the
// exterior ring and picks the middle of the longest crossing span whose
// midpoint is inside the polygon. If no span qualifies, centerX is used.
//
// centerX and centerY are normally the centre of the polygon's extent.
func InteriorPoint(flat []float64, offset int, ends []int, stride int, centerX, centerY float64) (float64, float64) {
	if len(ends) == 0 {
		return math.NaN(), math.NaN()
	}
	y := centerY
	var crossings []float64
	end := ends[0]
	x1, y1 := flat[end-stride], flat[end-stride+1]
	for i := offset; i < end; i += stride {
		x2, y2 := flat[i], flat[i+1]
		if y1 != y2 && ((y <= y1 && y2 <= y) || (y1 <= y && y <= y2)) {
			crossings = append(crossings, (y-y1)/(y2-y1)*(x2-x1)+x1)
		}
		x1, y1 = x2, y2
	}

	pointX := math.NaN()
	maxSpan := math.Inf(-1)
	sort.Float64s(crossings)
	for i := 1; i < len(crossings); i++ {
		a, b := crossings[i-1], crossings[i]
		span := math.Abs(b - a)
		if span > maxSpan {
			x := (a + b) / 2
			if LinearRingsContainsXY(flat, offset, ends, stride, x, y) {
				pointX = x
				maxSpan = span
			}
		}
	}
	if math.IsNaN(pointX) {
		pointX = centerX
	}
	return pointX, y
}

// InteriorPoints appends one XY interior point per polygon to dst.
// centers holds the XY extent centre of each polygon.
func InteriorPoints(flat []float64, offset int, endss [][]int, stride int, centers []float64, dst []float64) []float64 {
	for i, ends := range endss {
		x, y := InteriorPoint(flat, offset, ends, stride, centers[2*i], centers[2*i+1])
		dst = append(dst, x, y)
		offset = LastEnd(offset, ends)
	}
	return dst
}
