// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package view

import (
	"math"

	"github.com/gogpu/ggmap/extent"
)

// CenterConstraint adjusts a requested center.
type CenterConstraint func(x, y float64) (float64, float64)

// CenterNone accepts every center.
func CenterNone(x, y float64) (float64, float64) { return x, y }

// CenterInExtent keeps the center inside e.
func CenterInExtent(e extent.Extent) CenterConstraint {
	return func(x, y float64) (float64, float64) {
		return math.Max(e.MinX(), math.Min(e.MaxX(), x)), math.Max(e.MinY(), math.Min(e.MaxY(), y))
	}
}
