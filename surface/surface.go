// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"
	"image/color"

	"github.com/gogpu/ggmap/transform"
)

// Surface is a stateful 2D drawing target.
//
// Implementations may rasterise immediately (ggsurface) or record calls
// (recording). A freshly created surface is transparent, has the identity
// transform, a global alpha of 1, a black fill, DefaultStrokeStyle and
// DefaultFont centred on the middle baseline.
type Surface interface {
	// Width returns the surface width in pixels.
	Width() int

	// Height returns the surface height in pixels.
	Height() int

	// Save pushes the transform, styles, global alpha and clip.
	Save()

	// Restore pops the state pushed by the matching Save.
	Restore()

	// SetTransform replaces the current transform.
	SetTransform(t transform.Transform)

	// Transform returns the current transform.
	Transform() transform.Transform

	// BeginPath discards the current path.
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	// Arc adds a circular arc from startAngle to endAngle (radians,
	// clockwise in a y-down frame).
	Arc(x, y, radius, startAngle, endAngle float64)
	ClosePath()

	// Clip intersects the clip region with the current path.
	Clip()

	SetFillColor(c color.Color)
	SetStrokeStyle(s StrokeStyle)
	// Fill fills the current path with the non-zero rule. The path is kept.
	Fill()
	// Stroke strokes the current path. The path is kept.
	Stroke()

	SetGlobalAlpha(alpha float64)
	GlobalAlpha() float64

	// DrawImage draws img scaled into the rectangle (x, y, width, height)
	// under the current transform.
	DrawImage(img image.Image, x, y, width, height float64)

	SetTextStyle(t TextStyle)
	FillText(text string, x, y float64)
	StrokeText(text string, x, y float64)

	// Clear makes every pixel transparent, ignoring transform and clip.
	Clear()

	// AlphaAt returns the alpha of the pixel at (x, y), or 0 when the
	// surface keeps no pixels.
	AlphaAt(x, y int) uint8

	// Image returns the current contents.
	Image() image.Image
}

// Factory creates a surface of the given size.
type Factory func(width, height int) (Surface, error)
