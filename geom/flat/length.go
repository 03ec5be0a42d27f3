// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package flat

import (
	"math"
	"sort"
)

// LineStringLength returns the planar length of the line in
// flat[offset:end].
func LineStringLength(flat []float64, offset, end, stride int) float64 {
	var length float64
	if end-offset < 2*stride {
		return 0
	}
	x1, y1 := flat[offset], flat[offset+1]
	for offset += stride; offset < end; offset += stride {
		x2, y2 := flat[offset], flat[offset+1]
		length += math.Hypot(x2-x1, y2-y1)
		x1, y1 = x2, y2
	}
	return length
}

// LinearRingLength returns the perimeter of the ring including the closing
// segment.
func LinearRingLength(flat []float64, offset, end, stride int) float64 {
	length := LineStringLength(flat, offset, end, stride)
	if end-offset >= 2*stride {
		length += math.Hypot(flat[end-stride]-flat[offset], flat[end-stride+1]-flat[offset+1])
	}
	return length
}

// Interpolate appends to dst the XY point that lies at fraction (0..1) of
// the length of the line in flat[offset:end]. A degenerate line yields its
// first point, an empty line yields NaN.
func Interpolate(flat []float64, offset, end, stride int, fraction float64, dst []float64) []float64 {
	n := (end - offset) / stride
	switch {
	case n == 0:
		return append(dst, math.NaN(), math.NaN())
	case n == 1:
		return append(dst, flat[offset], flat[offset+1])
	}

	cumulative := make([]float64, n)
	x1, y1 := flat[offset], flat[offset+1]
	for i := 1; i < n; i++ {
		o := offset + i*stride
		x2, y2 := flat[o], flat[o+1]
		cumulative[i] = cumulative[i-1] + math.Hypot(x2-x1, y2-y1)
		x1, y1 = x2, y2
	}
	total := cumulative[n-1]
	if total == 0 {
		return append(dst, flat[offset], flat[offset+1])
	}

	target := fraction * total
	i := sort.SearchFloat64s(cumulative, target)
	if i < len(cumulative) && cumulative[i] == target {
		o := offset + i*stride
		return append(dst, flat[o], flat[o+1])
	}
	if i == 0 {
		return append(dst, flat[offset], flat[offset+1])
	}
	if i >= n {
		o := end - stride
		return append(dst, flat[o], flat[o+1])
	}
	t := (target - cumulative[i-1]) / (cumulative[i] - cumulative[i-1])
	o := offset + (i-1)*stride
	return append(dst, lerp(flat[o], flat[o+stride], t), lerp(flat[o+1], flat[o+stride+1], t))
}

// Midpoints appends the midpoint of every part to dst.
func Midpoints(flat []float64, offset int, ends []int, stride int, dst []float64) []float64 {
	for _, end := range ends {
		dst = Interpolate(flat, offset, end, stride, 0.5, dst)
		offset = end
	}
	return dst
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}
