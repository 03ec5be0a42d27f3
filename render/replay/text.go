// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package replay

import (
	"github.com/google/uuid"

	"github.com/gogpu/ggmap/extent"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/style"
)

// TextBatch draws labels.
type TextBatch struct {
	batch
	fill   tracker[FillState]
	stroke tracker[StrokeState]
	font   tracker[TextState]
	text   TextParams
}

// NewTextBatch creates an empty text batch.
func NewTextBatch(tolerance float64, maxExtent extent.Extent, resolution float64) *TextBatch {
	return &TextBatch{batch: newBatch(KindText, tolerance, maxExtent, resolution)}
}

// SetTextStyle sets the label of subsequent draws. nil stops drawing.
func (b *TextBatch) SetTextStyle(t *style.Text) {
	if t == nil {
		b.text = TextParams{}
		return
	}
	b.fill.set(NewFillState(t.Fill))
	b.stroke.set(NewStrokeState(t.Stroke))
	b.font.set(NewTextState(t))
	b.text = TextParams{
		Text:     t.Text,
		OffsetX:  t.OffsetX,
		OffsetY:  t.OffsetY,
		Rotation: t.Rotation,
		Scale:    t.EffectiveScale(),
		Fill:     t.Fill != nil,
		Stroke:   t.Stroke != nil,
	}
}

// DrawText draws the current label at every coordinate of
// flatCoords[offset:end]. g and data identify the labelled geometry.
func (b *TextBatch) DrawText(flatCoords []float64, offset, end, stride int, g geom.Geometry, data uuid.UUID) {
	if b.text.Text == "" || !b.font.isSet() || (!b.text.Fill && !b.text.Stroke) || end <= offset {
		return
	}
	b.extent.ExtendFlatCoordinates(flatCoords, offset, end, stride)
	b.setTextStyles()
	b.beginGeometry(g, data)
	// The hit-detection stream is reversed at Finish, so it carries the
	// full style inside every bracket.
	b.hitDetectionInstructions = append(b.hitDetectionInstructions, b.styleInstructions()...)
	begin := len(b.coordinates)
	myEnd := b.appendFlatCoordinates(flatCoords, offset, end, stride, false)
	params := b.text
	b.pushBoth(Instruction{Op: OpDrawText, Begin: begin, End: myEnd, Text: &params})
	b.endGeometry(g, data)
}

func (b *TextBatch) styleInstructions() []Instruction {
	var ins []Instruction
	if b.text.Fill {
		ins = append(ins, b.fill.pending.instruction())
	}
	if b.text.Stroke {
		ins = append(ins, b.stroke.pending.instruction())
	}
	return append(ins, b.font.pending.instruction())
}

func (b *TextBatch) setTextStyles() {
	if b.text.Fill {
		if ins, ok := b.fill.change(); ok {
			b.instructions = append(b.instructions, ins)
			b.fill.commit()
		}
	}
	if b.text.Stroke {
		if ins, ok := b.stroke.change(); ok {
			b.instructions = append(b.instructions, ins)
			b.stroke.commit()
		}
	}
	if ins, ok := b.font.change(); ok {
		b.instructions = append(b.instructions, ins)
		b.font.commit()
	}
}

// Finish completes the batch.
func (b *TextBatch) Finish() {
	b.reverseHitDetectionInstructions()
	b.fill.reset()
	b.stroke.reset()
	b.font.reset()
}
