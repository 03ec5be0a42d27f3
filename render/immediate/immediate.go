// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package immediate draws geometries straight onto a surface, without
// compiling them first. It serves the pre- and post-compose hooks of
// layers, where callers draw overlays once per frame.
//
// Drawing calls made through DrawFeature and DrawAsync are deferred and
// run by Flush in ascending z-index order.
package immediate

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/google/btree"

	"github.com/gogpu/ggmap"
	"github.com/gogpu/ggmap/extent"
	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/geom/flat"
	"github.com/gogpu/ggmap/render/replay"
	"github.com/gogpu/ggmap/style"
	"github.com/gogpu/ggmap/surface"
	"github.com/gogpu/ggmap/transform"
)

type zCallbacks struct {
	z   int
	fns []func(*Renderer)
}

// Renderer draws onto a surface with the coordinate-to-pixel transform of
// one frame.
type Renderer struct {
	s            surface.Surface
	pixelRatio   float64
	extent       extent.Extent
	t            transform.Transform
	viewRotation float64

	callbacks *btree.BTreeG[*zCallbacks]

	// state already applied to the surface
	contextFill   *replay.FillState
	contextStroke *replay.StrokeState
	contextText   *replay.TextState

	fill   *replay.FillState
	stroke *replay.StrokeState

	image *image

	text       string
	textParams replay.TextParams
	textFill   *replay.FillState
	textStroke *replay.StrokeState
	textState  *replay.TextState

	pixelCoordinates []float64
}

type image struct {
	params replay.ImageParams
}

// New creates a renderer that draws geometries intersecting e onto s.
func New(s surface.Surface, pixelRatio float64, e extent.Extent, t transform.Transform, viewRotation float64) *Renderer {
	return &Renderer{
		s:            s,
		pixelRatio:   pixelRatio,
		extent:       e,
		t:            t,
		viewRotation: viewRotation,
		callbacks:    btree.NewG(4, func(a, b *zCallbacks) bool { return a.z < b.z }),
	}
}

// Surface returns the surface drawn onto.
func (r *Renderer) Surface() surface.Surface { return r.s }

// SetFillStrokeStyle sets the fill and stroke of subsequent lines,
// polygons and circles. Either may be nil.
func (r *Renderer) SetFillStrokeStyle(fill *style.Fill, stroke *style.Stroke) {
	r.fill = replay.NewFillState(fill)
	r.stroke = r.scaledStroke(stroke)
}

func (r *Renderer) scaledStroke(stroke *style.Stroke) *replay.StrokeState {
	st := replay.NewStrokeState(stroke)
	if st != nil {
		st.Style.Width *= r.pixelRatio
	}
	return st
}

// SetImageStyle sets the symbol of subsequent points. nil stops drawing
// symbols. An image that is not loaded yet is started and left out of
// this frame, and a failed one is left out.
func (r *Renderer) SetImageStyle(img style.Image) {
	r.image = nil
	if img == nil {
		return
	}
	switch state := img.ImageState(); state {
	case style.ImageStateLoaded:
	case style.ImageStateIdle:
		img.Load()
		return
	default:
		ggmap.Logger().Debug("immediate: image style skipped", "state", state)
		return
	}
	anchorX, anchorY, ok := img.Anchor()
	width, height, sizeOK := img.Size()
	pixels := img.Image(r.pixelRatio)
	if !ok || !sizeOK || pixels == nil {
		return
	}
	r.image = &image{params: replay.ImageParams{
		Image:          pixels,
		AnchorX:        r.pixelRatio * anchorX,
		AnchorY:        r.pixelRatio * anchorY,
		Width:          r.pixelRatio * width,
		Height:         r.pixelRatio * height,
		Opacity:        img.Opacity(),
		Rotation:       img.Rotation(),
		Scale:          img.Scale(),
		RotateWithView: img.RotateWithView(),
		SnapToPixel:    img.SnapToPixel(),
	}}
}

// SetTextStyle sets the label of subsequent geometries. nil stops drawing
// labels.
func (r *Renderer) SetTextStyle(t *style.Text) {
	if t == nil {
		r.text = ""
		return
	}
	r.textFill = replay.NewFillState(t.Fill)
	r.textStroke = r.scaledStroke(t.Stroke)
	r.textState = replay.NewTextState(t)
	r.text = t.Text
	r.textParams = replay.TextParams{
		Text:     t.Text,
		OffsetX:  r.pixelRatio * t.OffsetX,
		OffsetY:  r.pixelRatio * t.OffsetY,
		Rotation: t.Rotation,
		Scale:    r.pixelRatio * t.EffectiveScale(),
		Fill:     t.Fill != nil,
		Stroke:   t.Stroke != nil,
	}
}

// DrawAsync queues fn to run at z-index z when Flush is called.
func (r *Renderer) DrawAsync(z int, fn func(*Renderer)) {
	item, ok := r.callbacks.Get(&zCallbacks{z: z})
	if !ok {
		item = &zCallbacks{z: z}
		r.callbacks.ReplaceOrInsert(item)
	}
	item.fns = append(item.fns, fn)
}

// DrawFeature queues the feature to be drawn with st at the style's
// z-index. Features outside the frame are ignored.
func (r *Renderer) DrawFeature(f *feature.Feature, st *style.Style) {
	g := f.Geometry()
	if g == nil || !r.extent.Intersects(g.Extent()) {
		return
	}
	r.DrawAsync(st.ZIndex, func(r *Renderer) {
		r.SetFillStrokeStyle(st.Fill, st.Stroke)
		r.SetImageStyle(st.Image)
		r.SetTextStyle(st.Text)
		r.DrawGeometry(g)
	})
}

// Flush runs the queued callbacks in ascending z-index order, in the
// order they were queued within a z-index, and empties the queue.
func (r *Renderer) Flush() {
	callbacks := r.callbacks
	r.callbacks = btree.NewG(4, func(a, b *zCallbacks) bool { return a.z < b.z })
	callbacks.Ascend(func(item *zCallbacks) bool {
		for _, fn := range item.fns {
			fn(r)
		}
		return true
	})
}

// DrawGeometry draws g with the current styles.
func (r *Renderer) DrawGeometry(g geom.Geometry) {
	switch g := g.(type) {
	case *geom.Point:
		r.DrawPointGeometry(g)
	case *geom.MultiPoint:
		r.DrawMultiPointGeometry(g)
	case *geom.LineString:
		r.DrawLineStringGeometry(g)
	case *geom.MultiLineString:
		r.DrawMultiLineStringGeometry(g)
	case *geom.Polygon:
		r.DrawPolygonGeometry(g)
	case *geom.MultiPolygon:
		r.DrawMultiPolygonGeometry(g)
	case *geom.GeometryCollection:
		r.DrawGeometryCollectionGeometry(g)
	case *geom.Circle:
		r.DrawCircleGeometry(g)
	default:
		panic(errors.AssertionFailedf("immediate: cannot draw %T", g))
	}
}

// DrawPointGeometry draws the symbol and label at a point.
func (r *Renderer) DrawPointGeometry(g *geom.Point) {
	r.drawPoints(g.FlatCoordinates(), g.Stride())
}

// DrawMultiPointGeometry draws the symbol and label at every point.
func (r *Renderer) DrawMultiPointGeometry(g *geom.MultiPoint) {
	r.drawPoints(g.FlatCoordinates(), g.Stride())
}

func (r *Renderer) drawPoints(flatCoords []float64, stride int) {
	if len(flatCoords) == 0 {
		return
	}
	if r.image != nil {
		r.drawImages(flatCoords, stride)
	}
	if r.text != "" {
		r.drawText(flatCoords, stride)
	}
}

// DrawLineStringGeometry strokes a line string and labels its midpoint.
func (r *Renderer) DrawLineStringGeometry(g *geom.LineString) {
	if len(g.FlatCoordinates()) == 0 || !r.extent.Intersects(g.Extent()) {
		return
	}
	if r.stroke != nil {
		r.setContextStroke(r.stroke)
		px := r.toPixels(g.FlatCoordinates(), g.Stride())
		r.s.BeginPath()
		r.moveToLineTo(px, 0, len(px), false)
		r.s.Stroke()
	}
	if r.text != "" {
		r.drawText(g.FlatMidpoint(), 2)
	}
}

// DrawMultiLineStringGeometry strokes every line string as one path and
// labels each midpoint.
func (r *Renderer) DrawMultiLineStringGeometry(g *geom.MultiLineString) {
	if len(g.FlatCoordinates()) == 0 || !r.extent.Intersects(g.Extent()) {
		return
	}
	if r.stroke != nil {
		r.setContextStroke(r.stroke)
		px := r.toPixels(g.FlatCoordinates(), g.Stride())
		r.s.BeginPath()
		offset := 0
		for _, end := range g.Ends() {
			end = end / g.Stride() * 2
			offset = r.moveToLineTo(px, offset, end, false)
		}
		r.s.Stroke()
	}
	if r.text != "" {
		r.drawText(g.FlatMidpoints(), 2)
	}
}

// DrawPolygonGeometry fills and strokes a polygon and labels its interior
// point.
func (r *Renderer) DrawPolygonGeometry(g *geom.Polygon) {
	if len(g.FlatCoordinates()) == 0 || !r.extent.Intersects(g.Extent()) {
		return
	}
	if r.fill != nil || r.stroke != nil {
		r.setContextFillStroke()
		px := r.toPixels(g.FlatCoordinates(), g.Stride())
		r.s.BeginPath()
		r.drawRings(px, 0, g.Ends(), g.Stride())
		r.fillAndStroke()
	}
	if r.text != "" {
		r.drawText(g.FlatInteriorPoint(), 2)
	}
}

// DrawMultiPolygonGeometry draws every polygon and labels each interior
// point.
func (r *Renderer) DrawMultiPolygonGeometry(g *geom.MultiPolygon) {
	if len(g.FlatCoordinates()) == 0 || !r.extent.Intersects(g.Extent()) {
		return
	}
	if r.fill != nil || r.stroke != nil {
		r.setContextFillStroke()
		px := r.toPixels(g.FlatCoordinates(), g.Stride())
		offset := 0
		for _, ends := range g.Endss() {
			r.s.BeginPath()
			offset = r.drawRings(px, offset, ends, g.Stride())
			r.fillAndStroke()
		}
	}
	if r.text != "" {
		r.drawText(g.FlatInteriorPoints(), 2)
	}
}

// DrawGeometryCollectionGeometry draws every member geometry.
func (r *Renderer) DrawGeometryCollectionGeometry(g *geom.GeometryCollection) {
	for _, member := range g.GeometriesArray() {
		r.DrawGeometry(member)
	}
}

// DrawCircleGeometry fills and strokes a circle and labels its center.
func (r *Renderer) DrawCircleGeometry(g *geom.Circle) {
	if len(g.FlatCoordinates()) == 0 || !r.extent.Intersects(g.Extent()) {
		return
	}
	if r.fill != nil || r.stroke != nil {
		r.setContextFillStroke()
		px := r.toPixels(g.FlatCoordinates(), g.Stride())
		radius := math.Hypot(px[2]-px[0], px[3]-px[1])
		r.s.BeginPath()
		r.s.Arc(px[0], px[1], radius, 0, 2*math.Pi)
		r.fillAndStroke()
	}
	if r.text != "" {
		c := g.Center()
		r.drawText([]float64{c[0], c[1]}, 2)
	}
}

func (r *Renderer) toPixels(flatCoords []float64, stride int) []float64 {
	r.pixelCoordinates = flat.Transform2D(flatCoords, 0, len(flatCoords), stride, r.t, r.pixelCoordinates[:0])
	return r.pixelCoordinates
}

// moveToLineTo adds px[offset:end] as a subpath and returns end.
func (r *Renderer) moveToLineTo(px []float64, offset, end int, closed bool) int {
	r.s.MoveTo(px[offset], px[offset+1])
	for i := offset + 2; i < end; i += 2 {
		r.s.LineTo(px[i], px[i+1])
	}
	if closed {
		r.s.LineTo(px[offset], px[offset+1])
	}
	return end
}

// drawRings adds the rings ending at ends, which are offsets into the
// flat coordinates of the given stride.
func (r *Renderer) drawRings(px []float64, offset int, ends []int, stride int) int {
	for _, end := range ends {
		end = end / stride * 2
		if end > offset {
			offset = r.moveToLineTo(px, offset, end, true)
			r.s.ClosePath()
		}
		offset = end
	}
	return offset
}

func (r *Renderer) fillAndStroke() {
	if r.fill != nil {
		r.s.Fill()
	}
	if r.stroke != nil {
		r.s.Stroke()
	}
}

func (r *Renderer) setContextFillStroke() {
	if r.fill != nil {
		r.setContextFill(r.fill)
	}
	if r.stroke != nil {
		r.setContextStroke(r.stroke)
	}
}

func (r *Renderer) setContextFill(st *replay.FillState) {
	if r.contextFill == nil || !r.contextFill.Equal(*st) {
		r.s.SetFillColor(st.Color)
		r.contextFill = st
	}
}

func (r *Renderer) setContextStroke(st *replay.StrokeState) {
	if r.contextStroke == nil || !r.contextStroke.Equal(*st) {
		r.s.SetStrokeStyle(st.Style)
		r.contextStroke = st
	}
}

func (r *Renderer) setContextText(st *replay.TextState) {
	if r.contextText == nil || !r.contextText.Equal(*st) {
		r.s.SetTextStyle(st.Style)
		r.contextText = st
	}
}

func (r *Renderer) drawImages(flatCoords []float64, stride int) {
	p := &r.image.params
	px := r.toPixels(flatCoords, stride)
	base := r.s.Transform()
	alpha := r.s.GlobalAlpha()
	if p.Opacity != 1 {
		r.s.SetGlobalAlpha(alpha * p.Opacity)
	}
	rotation := p.Rotation
	if p.RotateWithView {
		rotation += r.viewRotation
	}
	local := rotation != 0 || p.Scale != 1
	for i := 0; i < len(px); i += 2 {
		x := px[i] - p.AnchorX
		y := px[i+1] - p.AnchorY
		if p.SnapToPixel {
			x = math.Floor(x + 0.5)
			y = math.Floor(y + 0.5)
		}
		if local {
			cx, cy := x+p.AnchorX, y+p.AnchorY
			r.s.SetTransform(base.Multiply(transform.Make2D(cx, cy, p.Scale, p.Scale, rotation, -cx, -cy)))
		}
		r.s.DrawImage(p.Image, x, y, p.Width, p.Height)
	}
	if local {
		r.s.SetTransform(base)
	}
	if p.Opacity != 1 {
		r.s.SetGlobalAlpha(alpha)
	}
}

func (r *Renderer) drawText(flatCoords []float64, stride int) {
	if r.textState == nil || (r.textFill == nil && r.textStroke == nil) {
		return
	}
	if r.textFill != nil {
		r.setContextFill(r.textFill)
	}
	if r.textStroke != nil {
		r.setContextStroke(r.textStroke)
	}
	r.setContextText(r.textState)
	p := &r.textParams
	px := r.toPixels(flatCoords, stride)
	base := r.s.Transform()
	local := p.Rotation != 0 || p.Scale != 1
	for i := 0; i < len(px); i += 2 {
		x := px[i] + p.OffsetX
		y := px[i+1] + p.OffsetY
		if local {
			r.s.SetTransform(base.Multiply(transform.Make2D(x, y, p.Scale, p.Scale, p.Rotation, -x, -y)))
		}
		if p.Stroke {
			r.s.StrokeText(r.text, x, y)
		}
		if p.Fill {
			r.s.FillText(r.text, x, y)
		}
	}
	if local {
		r.s.SetTransform(base)
	}
}
