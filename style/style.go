// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package style

import (
	"image/color"

	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/surface"
)

// Fill describes how to fill an area.
type Fill struct {
	// Color is the fill color. Nil means black.
	Color color.Color
}

// NewFill returns a fill of color c.
func NewFill(c color.Color) *Fill {
	return &Fill{Color: c}
}

// Stroke describes how to stroke a line or outline.
//
// The zero value of each field means "default": black, 1 pixel wide,
// miter limit 10, solid. NewStroke sets round caps and joins.
type Stroke struct {
	Color      color.Color
	Width      float64
	LineCap    surface.LineCap
	LineJoin   surface.LineJoin
	MiterLimit float64
	LineDash   []float64
}

// NewStroke returns a stroke with round caps and joins.
func NewStroke(c color.Color, width float64) *Stroke {
	return &Stroke{
		Color:      c,
		Width:      width,
		LineCap:    surface.LineCapRound,
		LineJoin:   surface.LineJoinRound,
		MiterLimit: 10,
	}
}

// SurfaceStyle resolves s into the stroke style a surface understands.
func (s *Stroke) SurfaceStyle() surface.StrokeStyle {
	st := surface.StrokeStyle{
		Color:      s.Color,
		Width:      s.Width,
		Cap:        s.LineCap,
		Join:       s.LineJoin,
		MiterLimit: s.MiterLimit,
		Dash:       append([]float64(nil), s.LineDash...),
	}
	if st.Color == nil {
		st.Color = color.Black
	}
	if st.Width == 0 {
		st.Width = 1
	}
	if st.MiterLimit == 0 {
		st.MiterLimit = 10
	}
	return st
}

// Text describes a label.
type Text struct {
	// Text is the label. An empty label is not drawn.
	Text string

	// Font is a CSS font shorthand. Empty means surface.DefaultFont.
	Font string

	Align    surface.TextAlign
	Baseline surface.TextBaseline

	// OffsetX and OffsetY move the label in pixels.
	OffsetX, OffsetY float64

	// Rotation in radians, clockwise.
	Rotation float64

	// Scale of the label. Zero means 1.
	Scale float64

	Fill   *Fill
	Stroke *Stroke
}

// TextStyle returns the surface text style of t.
func (t *Text) TextStyle() surface.TextStyle {
	font := t.Font
	if font == "" {
		font = surface.DefaultFont
	}
	return surface.TextStyle{Font: font, Align: t.Align, Baseline: t.Baseline}
}

// EffectiveScale returns Scale, or 1 when unset.
func (t *Text) EffectiveScale() float64 {
	if t.Scale == 0 {
		return 1
	}
	return t.Scale
}

// Style groups the fill, stroke, image and text used to render a
// feature, and the z-index that orders it against other styles.
type Style struct {
	Fill   *Fill
	Stroke *Stroke
	Image  Image
	Text   *Text
	ZIndex int
}

// StyleFunction returns the styles of a feature at a resolution. A nil or
// empty result leaves the feature undrawn.
type StyleFunction func(f *feature.Feature, resolution float64) []*Style

// StaticStyleFunction returns a StyleFunction that always yields styles.
func StaticStyleFunction(styles ...*Style) StyleFunction {
	return func(*feature.Feature, float64) []*Style {
		return styles
	}
}

var defaultStyles = func() []*Style {
	fill := NewFill(color.NRGBA{R: 255, G: 255, B: 255, A: 102})
	stroke := NewStroke(color.NRGBA{R: 0x33, G: 0x99, B: 0xCC, A: 255}, 1.25)
	return []*Style{{
		Fill:   fill,
		Stroke: stroke,
		Image:  NewCircle(5, fill, stroke),
	}}
}()

// DefaultStyleFunction styles every feature with a translucent white
// fill, a blue outline and a 5 pixel circle for points.
func DefaultStyleFunction(*feature.Feature, float64) []*Style {
	return defaultStyles
}
