// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package replay

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/gogpu/ggmap/extent"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/geom/flat"
	"github.com/gogpu/ggmap/style"
	"github.com/gogpu/ggmap/surface"
	"github.com/gogpu/ggmap/transform"
)

// Kind identifies the type of a batch.
type Kind uint8

// Batch kinds.
const (
	KindImage Kind = iota
	KindLineString
	KindPolygon
	KindText
)

// Order is the order in which the batches of one z-index are replayed.
var Order = [...]Kind{KindImage, KindLineString, KindPolygon, KindText}

var kindNames = [...]string{
	KindImage:      "Image",
	KindLineString: "LineString",
	KindPolygon:    "Polygon",
	KindText:       "Text",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Skip is a set of feature UIDs whose geometries are not drawn.
type Skip map[uuid.UUID]struct{}

// GeometryCallback is called at the end of each geometry during hit
// detection. A non-nil result stops the replay and is returned.
type GeometryCallback func(g geom.Geometry, data uuid.UUID) any

// Batch compiles draw calls of one kind into an instruction stream and a
// hit-detection stream, then replays them.
//
// A batch only accepts the draw calls of its kind; the others panic.
// Coordinates passed to the draw calls are in map units.
type Batch interface {
	Kind() Kind

	SetFillStrokeStyle(fill *style.Fill, stroke *style.Stroke)
	SetImageStyle(img style.Image)
	SetTextStyle(text *style.Text)

	DrawPoint(g *geom.Point, data uuid.UUID)
	DrawMultiPoint(g *geom.MultiPoint, data uuid.UUID)
	DrawLineString(g *geom.LineString, data uuid.UUID)
	DrawMultiLineString(g *geom.MultiLineString, data uuid.UUID)
	DrawPolygon(g *geom.Polygon, data uuid.UUID)
	DrawMultiPolygon(g *geom.MultiPolygon, data uuid.UUID)
	DrawCircle(g *geom.Circle, data uuid.UUID)
	DrawText(flatCoords []float64, offset, end, stride int, g geom.Geometry, data uuid.UUID)

	// Finish completes compilation. No draw call may follow.
	Finish()

	// Extent is the extent of everything drawn, in map units.
	Extent() extent.Extent

	Instructions() []Instruction
	HitDetectionInstructions() []Instruction

	// Replay executes the instruction stream.
	Replay(s surface.Surface, pixelRatio float64, t transform.Transform, viewRotation float64, skip Skip)

	// ReplayHitDetection executes the hit-detection stream at pixel ratio
	// 1 and calls cb at the end of every geometry.
	ReplayHitDetection(s surface.Surface, t transform.Transform, viewRotation float64, skip Skip, cb GeometryCallback) any
}

// batch holds the coordinate buffer and the two streams shared by every
// batch kind.
type batch struct {
	kind       Kind
	tolerance  float64
	maxExtent  extent.Extent
	resolution float64

	maxLineWidth      float64
	bufferedMaxExtent *extent.Extent

	extent                   extent.Extent
	coordinates              []float64
	instructions             []Instruction
	hitDetectionInstructions []Instruction

	// indices of the open BeginGeometry in each stream
	beginRender, beginHit int

	pixelCoordinates  []float64
	renderedTransform transform.Transform
	rendered          bool
}

func newBatch(kind Kind, tolerance float64, maxExtent extent.Extent, resolution float64) batch {
	return batch{
		kind:       kind,
		tolerance:  tolerance,
		maxExtent:  maxExtent,
		resolution: resolution,
		extent:     extent.CreateEmpty(),
	}
}

func (b *batch) Kind() Kind { return b.kind }

func (b *batch) Extent() extent.Extent { return b.extent }

func (b *batch) Instructions() []Instruction { return b.instructions }

func (b *batch) HitDetectionInstructions() []Instruction { return b.hitDetectionInstructions }

func (b *batch) unsupported(call string) {
	panic(errors.AssertionFailedf("replay: %s batch does not support %s", b.kind, call))
}

func (b *batch) SetFillStrokeStyle(*style.Fill, *style.Stroke) { b.unsupported("SetFillStrokeStyle") }
func (b *batch) SetImageStyle(style.Image)                     { b.unsupported("SetImageStyle") }
func (b *batch) SetTextStyle(*style.Text)                      { b.unsupported("SetTextStyle") }

func (b *batch) DrawPoint(*geom.Point, uuid.UUID)           { b.unsupported("DrawPoint") }
func (b *batch) DrawMultiPoint(*geom.MultiPoint, uuid.UUID) { b.unsupported("DrawMultiPoint") }
func (b *batch) DrawLineString(*geom.LineString, uuid.UUID) { b.unsupported("DrawLineString") }
func (b *batch) DrawMultiLineString(*geom.MultiLineString, uuid.UUID) {
	b.unsupported("DrawMultiLineString")
}
func (b *batch) DrawPolygon(*geom.Polygon, uuid.UUID)           { b.unsupported("DrawPolygon") }
func (b *batch) DrawMultiPolygon(*geom.MultiPolygon, uuid.UUID) { b.unsupported("DrawMultiPolygon") }
func (b *batch) DrawCircle(*geom.Circle, uuid.UUID)             { b.unsupported("DrawCircle") }
func (b *batch) DrawText([]float64, int, int, int, geom.Geometry, uuid.UUID) {
	b.unsupported("DrawText")
}

// setMaxLineWidth widens the clip buffer for strokes of width w.
func (b *batch) setMaxLineWidth(w float64) {
	if w > b.maxLineWidth {
		b.maxLineWidth = w
		b.bufferedMaxExtent = nil
	}
}

// getBufferedMaxExtent returns the max extent grown by half the widest
// stroke, so that clipped strokes never end visibly inside the frame.
func (b *batch) getBufferedMaxExtent() extent.Extent {
	if b.bufferedMaxExtent == nil {
		e := b.maxExtent
		if b.maxLineWidth > 0 {
			e = e.Buffer(b.resolution * (b.maxLineWidth + 1) / 2)
		}
		b.bufferedMaxExtent = &e
	}
	return *b.bufferedMaxExtent
}

// appendFlatCoordinates appends the 2D coordinates of
// flatCoords[offset:end] to the buffer and returns the new buffer length.
//
// Runs of coordinates that stay in the same region outside the buffered
// max extent are dropped, keeping the coordinates where a run enters or
// leaves a region, so the clipped path still crosses the extent in the
// same places.
func (b *batch) appendFlatCoordinates(flatCoords []float64, offset, end, stride int, closed bool) int {
	e := b.getBufferedMaxExtent()
	lastX, lastY := flatCoords[offset], flatCoords[offset+1]
	var lastRel extent.Relationship
	skipped := true
	i := offset + stride
	for ; i < end; i += stride {
		x, y := flatCoords[i], flatCoords[i+1]
		rel := e.CoordinateRelationship(x, y)
		switch {
		case rel != lastRel:
			if skipped {
				b.coordinates = append(b.coordinates, lastX, lastY)
			}
			b.coordinates = append(b.coordinates, x, y)
			skipped = false
		case rel == extent.Intersecting:
			b.coordinates = append(b.coordinates, x, y)
			skipped = false
		default:
			skipped = true
		}
		lastX, lastY, lastRel = x, y, rel
	}
	if i == offset+stride {
		b.coordinates = append(b.coordinates, lastX, lastY)
	}
	if closed {
		b.coordinates = append(b.coordinates, flatCoords[offset], flatCoords[offset+1])
	}
	return len(b.coordinates)
}

// beginGeometry opens a bracket in both streams.
func (b *batch) beginGeometry(g geom.Geometry, data uuid.UUID) {
	b.beginRender = len(b.instructions)
	b.instructions = append(b.instructions, Instruction{Op: OpBeginGeometry, Geometry: g, Data: data})
	b.beginHit = len(b.hitDetectionInstructions)
	b.hitDetectionInstructions = append(b.hitDetectionInstructions, Instruction{Op: OpBeginGeometry, Geometry: g, Data: data})
}

// endGeometry closes the bracket opened by beginGeometry and points the
// BeginGeometry of each stream at its EndGeometry.
func (b *batch) endGeometry(g geom.Geometry, data uuid.UUID) {
	b.instructions[b.beginRender].Skip = len(b.instructions)
	b.instructions = append(b.instructions, Instruction{Op: OpEndGeometry, Geometry: g, Data: data})
	b.hitDetectionInstructions[b.beginHit].Skip = len(b.hitDetectionInstructions)
	b.hitDetectionInstructions = append(b.hitDetectionInstructions, Instruction{Op: OpEndGeometry, Geometry: g, Data: data})
}

// pushBoth appends ins to both streams.
func (b *batch) pushBoth(ins ...Instruction) {
	b.instructions = append(b.instructions, ins...)
	b.hitDetectionInstructions = append(b.hitDetectionInstructions, ins...)
}

// reverseHitDetectionInstructions reverses the order of the geometries in
// the hit-detection stream while keeping the instructions of each
// geometry in order, so that hit detection visits the topmost geometry
// first.
func (b *batch) reverseHitDetectionInstructions() {
	hit := b.hitDetectionInstructions
	reverse(hit)
	begin := -1
	for i := range hit {
		switch hit[i].Op {
		case OpEndGeometry:
			begin = i
		case OpBeginGeometry:
			hit[i].Skip = i
			if begin >= 0 {
				reverse(hit[begin : i+1])
			}
			begin = -1
		}
	}
}

func reverse(s []Instruction) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func (b *batch) Replay(s surface.Surface, pixelRatio float64, t transform.Transform, viewRotation float64, skip Skip) {
	b.replay(s, pixelRatio, t, viewRotation, skip, b.instructions, nil)
}

func (b *batch) ReplayHitDetection(s surface.Surface, t transform.Transform, viewRotation float64, skip Skip, cb GeometryCallback) any {
	return b.replay(s, 1, t, viewRotation, skip, b.hitDetectionInstructions, cb)
}

// pixels returns the coordinate buffer mapped through t. The result is
// reused while t does not change.
func (b *batch) pixels(t transform.Transform) []float64 {
	if b.rendered && b.renderedTransform.Equal(t) && len(b.pixelCoordinates) == len(b.coordinates) {
		return b.pixelCoordinates
	}
	b.pixelCoordinates = flat.Transform2D(b.coordinates, 0, len(b.coordinates), 2, t, b.pixelCoordinates[:0])
	b.renderedTransform = t
	b.rendered = true
	return b.pixelCoordinates
}

func (b *batch) replay(s surface.Surface, pixelRatio float64, t transform.Transform, viewRotation float64,
	skip Skip, stream []Instruction, cb GeometryCallback) any {
	px := b.pixels(t)
	base := s.Transform()
	i := 0
	for i < len(stream) {
		ins := &stream[i]
		switch ins.Op {
		case OpBeginGeometry:
			if _, ok := skip[ins.Data]; ok {
				i = ins.Skip
				continue
			}
		case OpBeginPath:
			s.BeginPath()
		case OpCircle:
			d := ins.Begin
			x1, y1 := px[d], px[d+1]
			r := math.Hypot(px[d+2]-x1, px[d+3]-y1)
			s.Arc(x1, y1, r, 0, 2*math.Pi)
		case OpClosePath:
			s.ClosePath()
		case OpDrawImage:
			drawImage(s, base, px, ins, pixelRatio, viewRotation)
		case OpDrawText:
			drawText(s, base, px, ins, pixelRatio)
		case OpEndGeometry:
			if cb != nil {
				if result := cb(ins.Geometry, ins.Data); result != nil {
					return result
				}
			}
		case OpFill:
			s.Fill()
		case OpMoveToLineTo:
			d, dd := ins.Begin, ins.End
			s.MoveTo(px[d], px[d+1])
			for d += 2; d < dd; d += 2 {
				s.LineTo(px[d], px[d+1])
			}
		case OpSetFillStyle:
			s.SetFillColor(ins.FillColor)
		case OpSetStrokeStyle:
			st := ins.StrokeStyle
			st.Width *= pixelRatio
			s.SetStrokeStyle(st)
		case OpSetTextStyle:
			s.SetTextStyle(ins.TextStyle)
		case OpStroke:
			s.Stroke()
		default:
			panic(errors.AssertionFailedf("replay: unknown instruction %s", ins.Op))
		}
		i++
	}
	return nil
}

func drawImage(s surface.Surface, base transform.Transform, px []float64, ins *Instruction, pixelRatio, viewRotation float64) {
	p := ins.Image
	if p.Image == nil {
		return
	}
	anchorX := p.AnchorX * pixelRatio
	anchorY := p.AnchorY * pixelRatio
	width := p.Width * pixelRatio
	height := p.Height * pixelRatio
	rotation := p.Rotation
	if p.RotateWithView {
		rotation += viewRotation
	}
	local := p.Scale != 1 || rotation != 0
	for d := ins.Begin; d < ins.End; d += 2 {
		x := px[d] - anchorX
		y := px[d+1] - anchorY
		if p.SnapToPixel {
			x = math.Floor(x + 0.5)
			y = math.Floor(y + 0.5)
		}
		if local {
			cx, cy := x+anchorX, y+anchorY
			s.SetTransform(base.Multiply(transform.Make2D(cx, cy, p.Scale, p.Scale, rotation, -cx, -cy)))
		}
		alpha := s.GlobalAlpha()
		if p.Opacity != 1 {
			s.SetGlobalAlpha(alpha * p.Opacity)
		}
		s.DrawImage(p.Image, x, y, width, height)
		if p.Opacity != 1 {
			s.SetGlobalAlpha(alpha)
		}
		if local {
			s.SetTransform(base)
		}
	}
}

func drawText(s surface.Surface, base transform.Transform, px []float64, ins *Instruction, pixelRatio float64) {
	p := ins.Text
	offsetX := p.OffsetX * pixelRatio
	offsetY := p.OffsetY * pixelRatio
	scale := p.Scale * pixelRatio
	local := scale != 1 || p.Rotation != 0
	for d := ins.Begin; d < ins.End; d += 2 {
		x := px[d] + offsetX
		y := px[d+1] + offsetY
		if local {
			s.SetTransform(base.Multiply(transform.Make2D(x, y, scale, scale, p.Rotation, -x, -y)))
		}
		if p.Stroke {
			s.StrokeText(p.Text, x, y)
		}
		if p.Fill {
			s.FillText(p.Text, x, y)
		}
		if local {
			s.SetTransform(base)
		}
	}
}
