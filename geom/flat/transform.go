// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package flat

import "github.com/gogpu/ggmap/transform"

// Transform2D maps the XY part of every coordinate in flat[offset:end]
// through t and appends the results to dst with stride 2.
func Transform2D(flat []float64, offset, end, stride int, t transform.Transform, dst []float64) []float64 {
	for ; offset < end; offset += stride {
		x, y := t.Apply(flat[offset], flat[offset+1])
		dst = append(dst, x, y)
	}
	return dst
}

// Translate moves the XY part of every coordinate in place.
func Translate(flat []float64, offset, end, stride int, dx, dy float64) {
	for ; offset < end; offset += stride {
		flat[offset] += dx
		flat[offset+1] += dy
	}
}
