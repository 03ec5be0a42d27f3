// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package flat

import "math"

// The simplifiers below read coordinates of any stride and append XY
// output to dst.

// DouglasPeucker appends the Douglas-Peucker simplification of the line in
// flat[offset:end] to dst. Points whose squared distance from the
// simplified line exceeds squaredTolerance are kept.
func DouglasPeucker(flat []float64, offset, end, stride int, squaredTolerance float64, dst []float64) []float64 {
	n := (end - offset) / stride
	if n < 3 {
		for ; offset < end; offset += stride {
			dst = append(dst, flat[offset], flat[offset+1])
		}
		return dst
	}

	markers := make([]bool, n)
	markers[0] = true
	markers[n-1] = true
	stack := []int{offset, end - stride}
	for len(stack) > 0 {
		last := stack[len(stack)-1]
		first := stack[len(stack)-2]
		stack = stack[:len(stack)-2]

		var maxSquaredDistance float64
		index := first
		x1, y1 := flat[first], flat[first+1]
		x2, y2 := flat[last], flat[last+1]
		for i := first + stride; i < last; i += stride {
			d := SquaredSegmentDistance(flat[i], flat[i+1], x1, y1, x2, y2)
			if d > maxSquaredDistance {
				index = i
				maxSquaredDistance = d
			}
		}
		if maxSquaredDistance > squaredTolerance {
			markers[(index-offset)/stride] = true
			if first+stride < index {
				stack = append(stack, first, index)
			}
			if index+stride < last {
				stack = append(stack, index, last)
			}
		}
	}
	for i, keep := range markers {
		if keep {
			o := offset + i*stride
			dst = append(dst, flat[o], flat[o+1])
		}
	}
	return dst
}

// DouglasPeuckers simplifies every part and appends the new part ends.
func DouglasPeuckers(flat []float64, offset int, ends []int, stride int, squaredTolerance float64,
	dst []float64, dstEnds []int,
) ([]float64, []int) {
	for _, end := range ends {
		dst = DouglasPeucker(flat, offset, end, stride, squaredTolerance, dst)
		dstEnds = append(dstEnds, len(dst))
		offset = end
	}
	return dst, dstEnds
}

// RadialDistance drops every point closer than sqrt(squaredTolerance) to
// the previously kept point. The last point is always kept.
func RadialDistance(flat []float64, offset, end, stride int, squaredTolerance float64, dst []float64) []float64 {
	if end <= offset+stride {
		for ; offset < end; offset += stride {
			dst = append(dst, flat[offset], flat[offset+1])
		}
		return dst
	}
	x1, y1 := flat[offset], flat[offset+1]
	dst = append(dst, x1, y1)
	x2, y2 := x1, y1
	for offset += stride; offset < end; offset += stride {
		x2, y2 = flat[offset], flat[offset+1]
		if SquaredDistance(x1, y1, x2, y2) > squaredTolerance {
			dst = append(dst, x2, y2)
			x1, y1 = x2, y2
		}
	}
	if x2 != x1 || y2 != y1 {
		dst = append(dst, x2, y2)
	}
	return dst
}

// Snap rounds v to the nearest multiple of tolerance.
func Snap(v, tolerance float64) float64 {
	return tolerance * math.Round(v/tolerance)
}

// Quantize snaps every point to a grid of size tolerance, drops repeated
// points and removes interior points of collinear runs. A line that
// collapses to a point still yields two points.
func Quantize(flat []float64, offset, end, stride int, tolerance float64, dst []float64) []float64 {
	if offset == end {
		return dst
	}
	x1, y1 := Snap(flat[offset], tolerance), Snap(flat[offset+1], tolerance)
	offset += stride
	dst = append(dst, x1, y1)
	if offset == end {
		return dst
	}

	var x2, y2 float64
	for {
		x2, y2 = Snap(flat[offset], tolerance), Snap(flat[offset+1], tolerance)
		offset += stride
		if offset == end {
			return append(dst, x2, y2)
		}
		if x2 != x1 || y2 != y1 {
			break
		}
	}

	for offset < end {
		x3, y3 := Snap(flat[offset], tolerance), Snap(flat[offset+1], tolerance)
		offset += stride
		if x3 == x2 && y3 == y2 {
			continue
		}
		dx1, dy1 := x2-x1, y2-y1
		dx2, dy2 := x3-x1, y3-y1
		// P2 lies between P1 and P3 on a straight line: drop it.
		if dx1*dy2 == dy1*dx2 &&
			((dx1 < 0 && dx2 < dx1) || dx1 == dx2 || (dx1 > 0 && dx2 > dx1)) &&
			((dy1 < 0 && dy2 < dy1) || dy1 == dy2 || (dy1 > 0 && dy2 > dy1)) {
			x2, y2 = x3, y3
			continue
		}
		dst = append(dst, x2, y2)
		x1, y1 = x2, y2
		x2, y2 = x3, y3
	}
	return append(dst, x2, y2)
}

// Quantizes quantizes every part and appends the new part ends.
func Quantizes(flat []float64, offset int, ends []int, stride int, tolerance float64,
	dst []float64, dstEnds []int,
) ([]float64, []int) {
	for _, end := range ends {
		dst = Quantize(flat, offset, end, stride, tolerance, dst)
		dstEnds = append(dstEnds, len(dst))
		offset = end
	}
	return dst, dstEnds
}

// Quantizess quantizes every polygon and appends the new ends arrays.
func Quantizess(flat []float64, offset int, endss [][]int, stride int, tolerance float64,
	dst []float64, dstEndss [][]int,
) ([]float64, [][]int) {
	for _, ends := range endss {
		var dstEnds []int
		dst, dstEnds = Quantizes(flat, offset, ends, stride, tolerance, dst, dstEnds)
		dstEndss = append(dstEndss, dstEnds)
		offset = LastEnd(offset, ends)
	}
	return dst, dstEndss
}
