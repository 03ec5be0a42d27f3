// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package ggsurface implements surface.Surface on a gg.Context.
//
// Paths, fills, strokes and clips go straight to gg. Images and text
// under a rotating or skewing transform are resampled with
// golang.org/x/image/draw and then composited through gg, since gg only
// maps the corners of an image rectangle.
//
// # Example
//
//	// Import to register the backend
//	import _ "github.com/gogpu/ggmap/surface/ggsurface"
//
//	// Create via registry
//	s, _ := surface.NewByName("gg", 800, 600)
//
//	// Or create directly
//	s, _ := ggsurface.New(800, 600)
//	s.SavePNG("map.png")
package ggsurface

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/gogpu/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/gogpu/ggmap/surface"
	"github.com/gogpu/ggmap/transform"
)

func init() {
	surface.Register("gg", 100, func(width, height int) (surface.Surface, error) {
		return New(width, height)
	}, nil)
}

// state is the part of the canvas state gg does not track itself.
type state struct {
	transform transform.Transform
	fill      color.Color
	stroke    surface.StrokeStyle
	alpha     float64
	text      surface.TextStyle
}

// Surface draws into a gg.Pixmap.
type Surface struct {
	pixmap *gg.Pixmap
	ctx    *gg.Context
	width  int
	height int

	state state
	stack []state

	// pathLen counts path segments since the last BeginPath.
	pathLen int

	fonts *fontCache
}

var _ surface.Surface = (*Surface)(nil)

// New creates a transparent surface.
func New(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Newf("ggsurface: invalid size %dx%d", width, height)
	}
	pm := gg.NewPixmap(width, height)
	s := &Surface{
		pixmap: pm,
		ctx:    gg.NewContext(width, height, gg.WithPixmap(pm)),
		width:  width,
		height: height,
		state: state{
			transform: transform.Identity(),
			fill:      color.Black,
			stroke:    surface.DefaultStrokeStyle(),
			alpha:     1,
			text:      surface.TextStyle{Font: surface.DefaultFont},
		},
		fonts: defaultFonts,
	}
	s.ctx.SetFillRule(gg.FillRuleNonZero)
	return s, nil
}

// Width returns the surface width.
func (s *Surface) Width() int { return s.width }

// Height returns the surface height.
func (s *Surface) Height() int { return s.height }

// Save pushes the drawing state and the gg clip.
func (s *Surface) Save() {
	st := s.state
	st.stroke.Dash = append([]float64(nil), s.state.stroke.Dash...)
	s.stack = append(s.stack, st)
	s.ctx.Push()
}

// Restore pops the state pushed by Save. An unbalanced Restore is ignored.
func (s *Surface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.state = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.ctx.Pop()
	s.ctx.SetTransform(toMatrix(s.state.transform))
}

// SetTransform replaces the current transform.
func (s *Surface) SetTransform(t transform.Transform) {
	s.state.transform = t
	s.ctx.SetTransform(toMatrix(t))
}

// Transform returns the current transform.
func (s *Surface) Transform() transform.Transform { return s.state.transform }

// BeginPath discards the current path.
func (s *Surface) BeginPath() {
	s.ctx.ClearPath()
	s.pathLen = 0
}

// MoveTo starts a subpath.
func (s *Surface) MoveTo(x, y float64) {
	s.ctx.MoveTo(x, y)
	s.pathLen++
}

// LineTo adds a line to the current subpath, or starts one when the path
// is empty.
func (s *Surface) LineTo(x, y float64) {
	if s.pathLen == 0 {
		s.ctx.MoveTo(x, y)
	} else {
		s.ctx.LineTo(x, y)
	}
	s.pathLen++
}

// Arc adds a circular arc. When the path already has a current point a
// line joins it to the start of the arc.
func (s *Surface) Arc(x, y, radius, startAngle, endAngle float64) {
	t := s.state.transform
	r := radius * math.Sqrt(math.Abs(t.Determinant()))
	if s.pathLen > 0 {
		sx, sy := x+radius*math.Cos(startAngle), y+radius*math.Sin(startAngle)
		s.ctx.LineTo(sx, sy)
	}
	if endAngle-startAngle >= 2*math.Pi {
		endAngle = startAngle + 2*math.Pi
	}
	s.ctx.DrawArc(x, y, r, startAngle, endAngle)
	s.pathLen++
}

// ClosePath closes the current subpath.
func (s *Surface) ClosePath() {
	if s.pathLen > 0 {
		s.ctx.ClosePath()
	}
}

// Clip intersects the clip with the current path.
func (s *Surface) Clip() {
	s.ctx.ClipPreserve()
}

// SetFillColor sets the fill color.
func (s *Surface) SetFillColor(c color.Color) {
	if c == nil {
		c = color.Black
	}
	s.state.fill = c
}

// SetStrokeStyle sets the stroke style.
func (s *Surface) SetStrokeStyle(st surface.StrokeStyle) {
	if st.Color == nil {
		st.Color = color.Black
	}
	st.Dash = append([]float64(nil), st.Dash...)
	s.state.stroke = st
}

// Fill fills the current path with the non-zero rule.
func (s *Surface) Fill() {
	if s.pathLen == 0 || s.state.alpha <= 0 {
		return
	}
	s.setColor(s.state.fill)
	_ = s.ctx.FillPreserve()
}

// Stroke strokes the current path.
func (s *Surface) Stroke() {
	st := s.state.stroke
	if s.pathLen == 0 || s.state.alpha <= 0 || st.Width <= 0 {
		return
	}
	s.setColor(st.Color)
	s.ctx.SetLineWidth(st.Width)
	s.ctx.SetLineCap(lineCap(st.Cap))
	s.ctx.SetLineJoin(lineJoin(st.Join))
	s.ctx.SetMiterLimit(st.MiterLimit)
	if len(st.Dash) > 0 {
		s.ctx.SetDash(st.Dash...)
	} else {
		s.ctx.ClearDash()
	}
	_ = s.ctx.StrokePreserve()
}

// SetGlobalAlpha sets the alpha applied to every subsequent paint.
func (s *Surface) SetGlobalAlpha(alpha float64) {
	s.state.alpha = math.Max(0, math.Min(1, alpha))
}

// GlobalAlpha returns the current global alpha.
func (s *Surface) GlobalAlpha() float64 { return s.state.alpha }

// DrawImage draws img into the rectangle (x, y, width, height) under the
// current transform.
func (s *Surface) DrawImage(img image.Image, x, y, width, height float64) {
	if img == nil || width == 0 || height == 0 || s.state.alpha <= 0 {
		return
	}
	b := img.Bounds()
	if b.Empty() {
		return
	}
	t := s.state.transform
	if t.B == 0 && t.D == 0 && t.A > 0 && t.E > 0 && width > 0 && height > 0 {
		s.ctx.DrawImageEx(gg.ImageBufFromImage(img), gg.DrawImageOptions{
			X:             x,
			Y:             y,
			DstWidth:      width,
			DstHeight:     height,
			Interpolation: gg.InterpBilinear,
			Opacity:       s.state.alpha,
			BlendMode:     gg.BlendNormal,
		})
		return
	}
	s.drawAffine(img, t.Multiply(transform.Transform{
		A: width / float64(b.Dx()), C: x - float64(b.Min.X)*width/float64(b.Dx()),
		E: height / float64(b.Dy()), F: y - float64(b.Min.Y)*height/float64(b.Dy()),
	}))
}

// drawAffine maps img through m (image pixel space to device space) into
// a scratch buffer covering the destination bounds, then composites it.
func (s *Surface) drawAffine(img image.Image, m transform.Transform) {
	b := img.Bounds()
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range [4][2]float64{
		{float64(b.Min.X), float64(b.Min.Y)}, {float64(b.Max.X), float64(b.Min.Y)},
		{float64(b.Max.X), float64(b.Max.Y)}, {float64(b.Min.X), float64(b.Max.Y)},
	} {
		px, py := m.Apply(c[0], c[1])
		minX, minY = math.Min(minX, px), math.Min(minY, py)
		maxX, maxY = math.Max(maxX, px), math.Max(maxY, py)
	}
	dst := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY))).
		Intersect(image.Rect(0, 0, s.width, s.height))
	if dst.Empty() {
		return
	}
	scratch := image.NewRGBA(image.Rect(0, 0, dst.Dx(), dst.Dy()))
	aff := f64.Aff3{m.A, m.B, m.C - float64(dst.Min.X), m.D, m.E, m.F - float64(dst.Min.Y)}
	draw.BiLinear.Transform(scratch, aff, img, b, draw.Over, nil)

	s.ctx.Push()
	s.ctx.Identity()
	s.ctx.DrawImageEx(gg.ImageBufFromImage(scratch), gg.DrawImageOptions{
		X:             float64(dst.Min.X),
		Y:             float64(dst.Min.Y),
		Interpolation: gg.InterpNearest,
		Opacity:       s.state.alpha,
		BlendMode:     gg.BlendNormal,
	})
	s.ctx.Pop()
	s.ctx.SetTransform(toMatrix(s.state.transform))
}

// SetTextStyle sets font, alignment and baseline.
func (s *Surface) SetTextStyle(t surface.TextStyle) {
	if t.Font == "" {
		t.Font = surface.DefaultFont
	}
	s.state.text = t
}

// FillText draws text anchored at (x, y) in the fill color.
func (s *Surface) FillText(text string, x, y float64) {
	s.drawText(text, x, y, false)
}

// StrokeText draws a halo of the stroke width around text in the stroke
// color.
func (s *Surface) StrokeText(text string, x, y float64) {
	if s.state.stroke.Width <= 0 {
		return
	}
	s.drawText(text, x, y, true)
}

func (s *Surface) drawText(text string, x, y float64, stroke bool) {
	if text == "" || s.state.alpha <= 0 {
		return
	}
	var halo float64
	col := s.state.fill
	if stroke {
		halo = s.state.stroke.Width / 2
		col = s.state.stroke.Color
	}
	img, left, top := s.fonts.render(s.state.text, text, col, halo)
	if img == nil {
		return
	}
	b := img.Bounds()
	s.DrawImage(img, x+left, y+top, float64(b.Dx()), float64(b.Dy()))
}

// Clear makes every pixel transparent.
func (s *Surface) Clear() {
	s.ctx.Clear()
}

// AlphaAt returns the alpha of the pixel at (x, y).
func (s *Surface) AlphaAt(x, y int) uint8 {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return 0
	}
	return s.pixmap.Data()[(y*s.width+x)*4+3]
}

// Image returns the current contents.
func (s *Surface) Image() image.Image {
	return s.ctx.Image()
}

// Pixmap returns the backing pixmap.
func (s *Surface) Pixmap() *gg.Pixmap {
	return s.pixmap
}

// SavePNG writes the contents to a PNG file.
func (s *Surface) SavePNG(path string) error {
	if err := s.ctx.SavePNG(path); err != nil {
		return errors.Wrapf(err, "ggsurface: save %s", path)
	}
	return nil
}

// WriteTo writes the contents as PNG to w.
func (s *Surface) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := png.Encode(cw, s.ctx.Image())
	return cw.n, err
}

// setColor sets the gg paint to c with the global alpha applied. gg
// expects straight alpha.
func (s *Surface) setColor(c color.Color) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	s.ctx.SetRGBA(float64(n.R)/255, float64(n.G)/255, float64(n.B)/255, float64(n.A)/255*s.state.alpha)
}

// countingWriter wraps a writer and counts bytes written.
type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

func toMatrix(t transform.Transform) gg.Matrix {
	return gg.Matrix{A: t.A, B: t.B, C: t.C, D: t.D, E: t.E, F: t.F}
}

func lineCap(c surface.LineCap) gg.LineCap {
	switch c {
	case surface.LineCapRound:
		return gg.LineCapRound
	case surface.LineCapSquare:
		return gg.LineCapSquare
	default:
		return gg.LineCapButt
	}
}

func lineJoin(j surface.LineJoin) gg.LineJoin {
	switch j {
	case surface.LineJoinRound:
		return gg.LineJoinRound
	case surface.LineJoinBevel:
		return gg.LineJoinBevel
	default:
		return gg.LineJoinMiter
	}
}
