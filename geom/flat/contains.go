// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package flat

// LinearRingContainsXY reports whether (x, y) lies inside the ring using
// the even-odd crossing rule. The ring need not be explicitly closed.
func LinearRingContainsXY(flat []float64, offset, end, stride int, x, y float64) bool {
	contains := false
	x1, y1 := flat[end-stride], flat[end-stride+1]
	for ; offset < end; offset += stride {
		x2, y2 := flat[offset], flat[offset+1]
		if (y1 > y) != (y2 > y) && x < (x2-x1)*(y-y1)/(y2-y1)+x1 {
			contains = !contains
		}
		x1, y1 = x2, y2
	}
	return contains
}

// LinearRingsContainsXY reports whether (x, y) lies inside the exterior
// ring and outside every hole.
func LinearRingsContainsXY(flat []float64, offset int, ends []int, stride int, x, y float64) bool {
	if len(ends) == 0 {
		return false
	}
	if !LinearRingContainsXY(flat, offset, ends[0], stride, x, y) {
		return false
	}
	for i := 1; i < len(ends); i++ {
		if LinearRingContainsXY(flat, ends[i-1], ends[i], stride, x, y) {
			return false
		}
	}
	return true
}

// LinearRingssContainsXY reports whether any polygon contains (x, y).
func LinearRingssContainsXY(flat []float64, offset int, endss [][]int, stride int, x, y float64) bool {
	for _, ends := range endss {
		if LinearRingsContainsXY(flat, offset, ends, stride, x, y) {
			return true
		}
		offset = LastEnd(offset, ends)
	}
	return false
}
