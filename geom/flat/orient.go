// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package flat

// LinearRingIsClockwise reports whether the ring winds clockwise in a
// y-up frame.
func LinearRingIsClockwise(flat []float64, offset, end, stride int) bool {
	var edge float64
	x1, y1 := flat[end-stride], flat[end-stride+1]
	for ; offset < end; offset += stride {
		x2, y2 := flat[offset], flat[offset+1]
		edge += (x2 - x1) * (y2 + y1)
		x1, y1 = x2, y2
	}
	return edge > 0
}

// LinearRingsAreOriented reports whether the exterior ring is clockwise
// and every hole counter-clockwise.
func LinearRingsAreOriented(flat []float64, offset int, ends []int, stride int) bool {
	for i, end := range ends {
		cw := LinearRingIsClockwise(flat, offset, end, stride)
		if (i == 0) != cw {
			return false
		}
		offset = end
	}
	return true
}

// LinearRingssAreOriented reports whether every polygon is oriented.
func LinearRingssAreOriented(flat []float64, offset int, endss [][]int, stride int) bool {
	for _, ends := range endss {
		if !LinearRingsAreOriented(flat, offset, ends, stride) {
			return false
		}
		offset = LastEnd(offset, ends)
	}
	return true
}

// OrientLinearRings rewinds rings in place so that the exterior ring is
// clockwise and holes are counter-clockwise. It returns the end offset.
func OrientLinearRings(flat []float64, offset int, ends []int, stride int) int {
	for i, end := range ends {
		cw := LinearRingIsClockwise(flat, offset, end, stride)
		if (i == 0) != cw {
			ReverseCoordinates(flat, offset, end, stride)
		}
		offset = end
	}
	return offset
}

// OrientLinearRingss orients every polygon in place.
func OrientLinearRingss(flat []float64, offset int, endss [][]int, stride int) int {
	for _, ends := range endss {
		offset = OrientLinearRings(flat, offset, ends, stride)
	}
	return offset
}
