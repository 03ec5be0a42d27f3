// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package flat

import "math"

// SquaredDistance returns the squared distance between two points.
func SquaredDistance(x1, y1, x2, y2 float64) float64 {
	dx, dy := x2-x1, y2-y1
	return dx*dx + dy*dy
}

// SquaredSegmentDistance returns the squared distance from (x, y) to the
// segment (x1, y1)-(x2, y2).
func SquaredSegmentDistance(x, y, x1, y1, x2, y2 float64) float64 {
	dx, dy := x2-x1, y2-y1
	if dx != 0 || dy != 0 {
		t := ((x-x1)*dx + (y-y1)*dy) / (dx*dx + dy*dy)
		switch {
		case t > 1:
			x1, y1 = x2, y2
		case t > 0:
			x1 += dx * t
			y1 += dy * t
		}
	}
	return SquaredDistance(x, y, x1, y1)
}

// MaxSquaredDelta returns the larger of max and the longest squared
// segment length in flat[offset:end].
func MaxSquaredDelta(flat []float64, offset, end, stride int, max float64) float64 {
	if offset >= end {
		return max
	}
	x1, y1 := flat[offset], flat[offset+1]
	for offset += stride; offset < end; offset += stride {
		x2, y2 := flat[offset], flat[offset+1]
		if d := SquaredDistance(x1, y1, x2, y2); d > max {
			max = d
		}
		x1, y1 = x2, y2
	}
	return max
}

// ArrayMaxSquaredDelta applies MaxSquaredDelta to every part.
func ArrayMaxSquaredDelta(flat []float64, offset int, ends []int, stride int, max float64) float64 {
	for _, end := range ends {
		max = MaxSquaredDelta(flat, offset, end, stride, max)
		offset = end
	}
	return max
}

// MultiArrayMaxSquaredDelta applies MaxSquaredDelta to every polygon.
func MultiArrayMaxSquaredDelta(flat []float64, offset int, endss [][]int, stride int, max float64) float64 {
	for _, ends := range endss {
		max = ArrayMaxSquaredDelta(flat, offset, ends, stride, max)
		offset = LastEnd(offset, ends)
	}
	return max
}

// closestOnSegment writes into closest the point of the segment between the
// coordinates at offset1 and offset2 that is nearest to (x, y).
func closestOnSegment(flat []float64, offset1, offset2, stride int, x, y float64, closest []float64) {
	x1, y1 := flat[offset1], flat[offset1+1]
	dx, dy := flat[offset2]-x1, flat[offset2+1]-y1
	offset := offset1
	if dx != 0 || dy != 0 {
		t := ((x-x1)*dx + (y-y1)*dy) / (dx*dx + dy*dy)
		switch {
		case t > 1:
			offset = offset2
		case t > 0:
			for i := 0; i < stride; i++ {
				closest[i] = lerp(flat[offset1+i], flat[offset2+i], t)
			}
			return
		}
	}
	copy(closest[:stride], flat[offset:offset+stride])
}

// AssignClosestPoint searches the line (or ring, when isRing is set) in
// flat[offset:end] for a point closer to (x, y) than minSquaredDistance.
// If one is found it is written to closest (which must hold stride values)
// and its squared distance returned; otherwise minSquaredDistance is
// returned unchanged.
//
// maxDelta is the square root of MaxSquaredDelta for the same coordinates.
// It bounds how far the search may skip ahead: no point within
// (sqrt(d) - sqrt(min)) / maxDelta segments of a point at squared distance
// d can be closer than min.
func AssignClosestPoint(flat []float64, offset, end, stride int, maxDelta float64, isRing bool,
	x, y float64, closest []float64, minSquaredDistance float64,
) float64 {
	if offset == end {
		return minSquaredDistance
	}
	if maxDelta == 0 {
		// Every point is identical, testing the first one is enough.
		d := SquaredDistance(x, y, flat[offset], flat[offset+1])
		if d < minSquaredDistance {
			copy(closest[:stride], flat[offset:offset+stride])
			return d
		}
		return minSquaredDistance
	}

	tmp := make([]float64, stride)
	index := offset + stride
	for index < end {
		closestOnSegment(flat, index-stride, index, stride, x, y, tmp)
		d := SquaredDistance(x, y, tmp[0], tmp[1])
		if d < minSquaredDistance {
			minSquaredDistance = d
			copy(closest[:stride], tmp)
			index += stride
			continue
		}
		skip := int((math.Sqrt(d) - math.Sqrt(minSquaredDistance)) / maxDelta)
		if skip < 1 {
			skip = 1
		}
		index += stride * skip
	}
	if isRing {
		closestOnSegment(flat, end-stride, offset, stride, x, y, tmp)
		d := SquaredDistance(x, y, tmp[0], tmp[1])
		if d < minSquaredDistance {
			minSquaredDistance = d
			copy(closest[:stride], tmp)
		}
	}
	return minSquaredDistance
}

// AssignClosestArrayPoint applies AssignClosestPoint to every part.
func AssignClosestArrayPoint(flat []float64, offset int, ends []int, stride int, maxDelta float64, isRing bool,
	x, y float64, closest []float64, minSquaredDistance float64,
) float64 {
	for _, end := range ends {
		minSquaredDistance = AssignClosestPoint(flat, offset, end, stride, maxDelta, isRing,
			x, y, closest, minSquaredDistance)
		offset = end
	}
	return minSquaredDistance
}

// AssignClosestMultiArrayPoint applies AssignClosestPoint to every ring of
// every polygon.
func AssignClosestMultiArrayPoint(flat []float64, offset int, endss [][]int, stride int, maxDelta float64, isRing bool,
	x, y float64, closest []float64, minSquaredDistance float64,
) float64 {
	for _, ends := range endss {
		minSquaredDistance = AssignClosestArrayPoint(flat, offset, ends, stride, maxDelta, isRing,
			x, y, closest, minSquaredDistance)
		offset = LastEnd(offset, ends)
	}
	return minSquaredDistance
}
