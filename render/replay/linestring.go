// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package replay

import (
	"github.com/google/uuid"

	"github.com/gogpu/ggmap/extent"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/style"
)

// LineStringBatch strokes line strings.
//
// Consecutive line strings with the same stroke share one path in the
// instruction stream, which is stroked once when the stroke changes and
// once at Finish. The hit-detection stream strokes every geometry on its
// own.
type LineStringBatch struct {
	batch
	stroke tracker[StrokeState]
	// lastStroke is the length of the coordinate buffer at the last
	// Stroke of the instruction stream.
	lastStroke int
}

// NewLineStringBatch creates an empty line string batch.
func NewLineStringBatch(tolerance float64, maxExtent extent.Extent, resolution float64) *LineStringBatch {
	return &LineStringBatch{batch: newBatch(KindLineString, tolerance, maxExtent, resolution)}
}

// SetFillStrokeStyle sets the stroke of subsequent line strings. The fill
// is ignored. A nil stroke stops drawing.
func (b *LineStringBatch) SetFillStrokeStyle(_ *style.Fill, stroke *style.Stroke) {
	st := NewStrokeState(stroke)
	b.stroke.set(st)
	if st != nil {
		b.setMaxLineWidth(st.Style.Width)
	}
}

// DrawLineString strokes a line string.
func (b *LineStringBatch) DrawLineString(g *geom.LineString, data uuid.UUID) {
	flatCoords := g.FlatCoordinates()
	if !b.stroke.isSet() || len(flatCoords) == 0 {
		return
	}
	b.extent.Extend(g.Extent())
	b.setStrokeStyle()
	b.beginGeometry(g, data)
	b.beginHitStroke()
	b.drawFlatCoordinates(flatCoords, 0, len(flatCoords), g.Stride())
	b.hitDetectionInstructions = append(b.hitDetectionInstructions, Instruction{Op: OpStroke})
	b.endGeometry(g, data)
}

// DrawMultiLineString strokes every line string of g.
func (b *LineStringBatch) DrawMultiLineString(g *geom.MultiLineString, data uuid.UUID) {
	flatCoords := g.FlatCoordinates()
	if !b.stroke.isSet() || len(flatCoords) == 0 {
		return
	}
	b.extent.Extend(g.Extent())
	b.setStrokeStyle()
	b.beginGeometry(g, data)
	b.beginHitStroke()
	offset := 0
	for _, end := range g.Ends() {
		if end > offset {
			b.drawFlatCoordinates(flatCoords, offset, end, g.Stride())
		}
		offset = end
	}
	b.hitDetectionInstructions = append(b.hitDetectionInstructions, Instruction{Op: OpStroke})
	b.endGeometry(g, data)
}

func (b *LineStringBatch) beginHitStroke() {
	b.hitDetectionInstructions = append(b.hitDetectionInstructions,
		b.stroke.pending.instruction(), Instruction{Op: OpBeginPath})
}

func (b *LineStringBatch) drawFlatCoordinates(flatCoords []float64, offset, end, stride int) {
	begin := len(b.coordinates)
	myEnd := b.appendFlatCoordinates(flatCoords, offset, end, stride, false)
	b.pushBoth(Instruction{Op: OpMoveToLineTo, Begin: begin, End: myEnd})
}

// setStrokeStyle strokes the pending path and starts a new one when the
// stroke changes.
func (b *LineStringBatch) setStrokeStyle() {
	ins, ok := b.stroke.change()
	if !ok {
		return
	}
	if b.lastStroke != len(b.coordinates) {
		b.instructions = append(b.instructions, Instruction{Op: OpStroke})
		b.lastStroke = len(b.coordinates)
	}
	b.instructions = append(b.instructions, ins, Instruction{Op: OpBeginPath})
	b.stroke.commit()
}

// Finish strokes the pending path and completes the batch.
func (b *LineStringBatch) Finish() {
	if b.lastStroke != len(b.coordinates) {
		b.instructions = append(b.instructions, Instruction{Op: OpStroke})
		b.lastStroke = len(b.coordinates)
	}
	b.reverseHitDetectionInstructions()
	b.stroke.reset()
}
