// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package flat

import "math"

// LinearRingArea returns the signed area of the ring in flat[offset:end].
// Counter-clockwise rings (in a y-up frame) have a positive area.
func LinearRingArea(flat []float64, offset, end, stride int) float64 {
	if end-offset < 3*stride {
		return 0
	}
	var twiceArea float64
	x1, y1 := flat[end-stride], flat[end-stride+1]
	for ; offset < end; offset += stride {
		x2, y2 := flat[offset], flat[offset+1]
		twiceArea += x1*y2 - x2*y1
		x1, y1 = x2, y2
	}
	return twiceArea / 2
}

// LinearRingsArea returns the area of a polygon: the area of its exterior
// ring minus the areas of its holes, independent of ring orientation.
func LinearRingsArea(flat []float64, offset int, ends []int, stride int) float64 {
	var area float64
	for i, end := range ends {
		a := math.Abs(LinearRingArea(flat, offset, end, stride))
		if i == 0 {
			area += a
		} else {
			area -= a
		}
		offset = end
	}
	return area
}

// LinearRingssArea returns the summed area of every polygon.
func LinearRingssArea(flat []float64, offset int, endss [][]int, stride int) float64 {
	var area float64
	for _, ends := range endss {
		area += LinearRingsArea(flat, offset, ends, stride)
		offset = LastEnd(offset, ends)
	}
	return area
}
