// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package replay

import (
	"github.com/google/uuid"

	"github.com/gogpu/ggmap/extent"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/geom/flat"
	"github.com/gogpu/ggmap/style"
)

// PolygonBatch fills and strokes polygons and circles.
//
// The hit-detection stream always fills, with an opaque color, so that a
// stroked-only polygon is hit anywhere inside.
type PolygonBatch struct {
	batch
	fill   tracker[FillState]
	stroke tracker[StrokeState]
}

// NewPolygonBatch creates an empty polygon batch.
func NewPolygonBatch(tolerance float64, maxExtent extent.Extent, resolution float64) *PolygonBatch {
	return &PolygonBatch{batch: newBatch(KindPolygon, tolerance, maxExtent, resolution)}
}

// SetFillStrokeStyle sets the fill and stroke of subsequent polygons.
// Either may be nil; with both nil nothing is drawn.
func (b *PolygonBatch) SetFillStrokeStyle(fill *style.Fill, stroke *style.Stroke) {
	b.fill.set(NewFillState(fill))
	st := NewStrokeState(stroke)
	b.stroke.set(st)
	if st != nil {
		b.setMaxLineWidth(st.Style.Width)
	}
}

func (b *PolygonBatch) drawable() bool {
	return b.fill.isSet() || b.stroke.isSet()
}

// DrawPolygon draws a polygon with holes.
func (b *PolygonBatch) DrawPolygon(g *geom.Polygon, data uuid.UUID) {
	if !b.drawable() || len(g.FlatCoordinates()) == 0 {
		return
	}
	b.extent.Extend(g.Extent())
	b.setFillStrokeStyles()
	b.beginGeometry(g, data)
	b.beginHitStyles()
	b.drawFlatCoordinatess(g.OrientedFlatCoordinates(), 0, g.Ends(), g.Stride())
	b.endGeometry(g, data)
}

// DrawMultiPolygon draws every polygon of g.
func (b *PolygonBatch) DrawMultiPolygon(g *geom.MultiPolygon, data uuid.UUID) {
	if !b.drawable() || len(g.FlatCoordinates()) == 0 {
		return
	}
	b.extent.Extend(g.Extent())
	b.setFillStrokeStyles()
	b.beginGeometry(g, data)
	b.beginHitStyles()
	flatCoords := g.OrientedFlatCoordinates()
	offset := 0
	for _, ends := range g.Endss() {
		offset = b.drawFlatCoordinatess(flatCoords, offset, ends, g.Stride())
	}
	b.endGeometry(g, data)
}

// DrawCircle draws a circle.
func (b *PolygonBatch) DrawCircle(g *geom.Circle, data uuid.UUID) {
	flatCoords := g.FlatCoordinates()
	if !b.drawable() || len(flatCoords) == 0 {
		return
	}
	b.extent.Extend(g.Extent())
	b.setFillStrokeStyles()
	b.beginGeometry(g, data)
	b.beginHitStyles()
	begin := len(b.coordinates)
	b.coordinates = append(b.coordinates,
		flatCoords[0], flatCoords[1],
		flatCoords[g.Stride()], flatCoords[g.Stride()+1])
	b.pushBoth(Instruction{Op: OpBeginPath}, Instruction{Op: OpCircle, Begin: begin, End: len(b.coordinates)})
	b.fillAndStroke()
	b.endGeometry(g, data)
}

// beginHitStyles sets the hit-detection fill and stroke of one geometry.
func (b *PolygonBatch) beginHitStyles() {
	b.hitDetectionInstructions = append(b.hitDetectionInstructions,
		FillState{Color: defaultFillColor}.instruction())
	if b.stroke.isSet() {
		b.hitDetectionInstructions = append(b.hitDetectionInstructions, b.stroke.pending.instruction())
	}
}

// drawFlatCoordinatess draws one polygon, given by its ring ends, as a
// single path.
func (b *PolygonBatch) drawFlatCoordinatess(flatCoords []float64, offset int, ends []int, stride int) int {
	b.pushBoth(Instruction{Op: OpBeginPath})
	for _, end := range ends {
		if end > offset {
			begin := len(b.coordinates)
			myEnd := b.appendFlatCoordinates(flatCoords, offset, end, stride, true)
			b.pushBoth(
				Instruction{Op: OpMoveToLineTo, Begin: begin, End: myEnd},
				Instruction{Op: OpClosePath},
			)
		}
		offset = end
	}
	b.fillAndStroke()
	return offset
}

func (b *PolygonBatch) fillAndStroke() {
	fill := Instruction{Op: OpFill}
	b.hitDetectionInstructions = append(b.hitDetectionInstructions, fill)
	if b.fill.isSet() {
		b.instructions = append(b.instructions, fill)
	}
	if b.stroke.isSet() {
		b.pushBoth(Instruction{Op: OpStroke})
	}
}

// setFillStrokeStyles emits the fill and stroke changes to the
// instruction stream.
func (b *PolygonBatch) setFillStrokeStyles() {
	if ins, ok := b.fill.change(); ok {
		b.instructions = append(b.instructions, ins)
		b.fill.commit()
	}
	if ins, ok := b.stroke.change(); ok {
		b.instructions = append(b.instructions, ins)
		b.stroke.commit()
	}
}

// Finish completes the batch and snaps every coordinate to the tolerance
// grid, so that polygons sharing an edge are drawn without a seam.
func (b *PolygonBatch) Finish() {
	b.reverseHitDetectionInstructions()
	b.fill.reset()
	b.stroke.reset()
	if b.tolerance != 0 {
		for i, v := range b.coordinates {
			b.coordinates[i] = flat.Snap(v, b.tolerance)
		}
	}
}
