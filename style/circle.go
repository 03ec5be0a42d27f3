// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package style

import (
	"image"
	"image/color"
	"math"

	"github.com/gogpu/gg"

	"github.com/gogpu/ggmap/event"
)

// Circle is an image style that draws a filled and stroked disc. The disc
// is rasterised once, at construction.
type Circle struct {
	imageOptions

	radius float64
	fill   *Fill
	stroke *Stroke

	size     float64
	img      image.Image
	hitImage image.Image

	listeners event.Target
}

var _ Image = (*Circle)(nil)

// CircleOption configures a Circle.
type CircleOption func(*Circle)

// WithCircleSnapToPixel sets whether the circle is drawn at whole pixels.
func WithCircleSnapToPixel(snap bool) CircleOption {
	return func(c *Circle) { c.snapToPixel = snap }
}

// NewCircle creates a circle symbol. fill and stroke may be nil.
func NewCircle(radius float64, fill *Fill, stroke *Stroke, opts ...CircleOption) *Circle {
	c := &Circle{
		imageOptions: defaultImageOptions(),
		radius:       radius,
		fill:         fill,
		stroke:       stroke,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.render()
	return c
}

// Radius returns the circle radius in pixels.
func (c *Circle) Radius() float64 { return c.radius }

// Fill returns the fill, or nil.
func (c *Circle) Fill() *Fill { return c.fill }

// Stroke returns the stroke, or nil.
func (c *Circle) Stroke() *Stroke { return c.stroke }

func (c *Circle) render() {
	var strokeWidth float64
	if c.stroke != nil {
		strokeWidth = c.stroke.SurfaceStyle().Width
	}
	c.size = 2*(c.radius+strokeWidth) + 1
	px := int(math.Ceil(c.size))

	c.img = c.draw(px, false)
	if c.fill != nil && opaque(c.fill.Color) {
		c.hitImage = c.img
	} else {
		c.hitImage = c.draw(px, true)
	}
}

// draw rasterises the disc. For hit detection the fill is opaque black
// regardless of the configured fill.
func (c *Circle) draw(px int, hit bool) image.Image {
	dc := gg.NewContext(px, px)
	center := c.size / 2
	dc.DrawCircle(center, center, c.radius)
	switch {
	case hit:
		setColor(dc, color.Black)
		_ = dc.FillPreserve()
	case c.fill != nil:
		setColor(dc, fillColor(c.fill))
		_ = dc.FillPreserve()
	}
	if c.stroke != nil {
		st := c.stroke.SurfaceStyle()
		if hit {
			setColor(dc, color.Black)
		} else {
			setColor(dc, st.Color)
		}
		dc.SetLineWidth(st.Width)
		if len(st.Dash) > 0 && !hit {
			dc.SetDash(st.Dash...)
		}
		_ = dc.StrokePreserve()
	}
	dc.ClearPath()
	return dc.Image()
}

// Anchor returns the centre of the disc.
func (c *Circle) Anchor() (x, y float64, ok bool) {
	return c.size / 2, c.size / 2, true
}

// Size returns the side of the square the disc is drawn in.
func (c *Circle) Size() (width, height float64, ok bool) {
	return c.size, c.size, true
}

// Image returns the rendered disc.
func (c *Circle) Image(float64) image.Image { return c.img }

// HitDetectionImage returns an opaque rendering of the disc.
func (c *Circle) HitDetectionImage(float64) image.Image { return c.hitImage }

// ImageState is always ImageStateLoaded.
func (c *Circle) ImageState() ImageState { return ImageStateLoaded }

// Load does nothing; circles are drawn at construction.
func (c *Circle) Load() {}

// Listen registers a state listener. Circles never change state.
func (c *Circle) Listen(owner any, fn event.Listener) { c.listeners.Listen(owner, fn) }

// Unlisten removes a state listener.
func (c *Circle) Unlisten(owner any) bool { return c.listeners.Unlisten(owner) }

// setColor sets c on dc. gg paints with straight alpha.
func setColor(dc *gg.Context, c color.Color) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	dc.SetRGBA(float64(n.R)/255, float64(n.G)/255, float64(n.B)/255, float64(n.A)/255)
}

func fillColor(f *Fill) color.Color {
	if f == nil || f.Color == nil {
		return color.Black
	}
	return f.Color
}

func opaque(c color.Color) bool {
	if c == nil {
		return true
	}
	_, _, _, a := c.RGBA()
	return a == 0xffff
}
