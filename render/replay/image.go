// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package replay

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/gogpu/ggmap/extent"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/style"
)

// ImageBatch draws point symbols.
type ImageBatch struct {
	batch
	image    *ImageParams
	hitImage *ImageParams
}

// NewImageBatch creates an empty image batch.
func NewImageBatch(tolerance float64, maxExtent extent.Extent, resolution float64) *ImageBatch {
	return &ImageBatch{batch: newBatch(KindImage, tolerance, maxExtent, resolution)}
}

// SetImageStyle sets the symbol of subsequent points. The image must be
// loaded. nil stops drawing points.
func (b *ImageBatch) SetImageStyle(img style.Image) {
	if img == nil {
		b.image, b.hitImage = nil, nil
		return
	}
	anchorX, anchorY, ok := img.Anchor()
	if !ok {
		panic(errors.AssertionFailedf("replay: image style has no anchor"))
	}
	width, height, ok := img.Size()
	if !ok {
		panic(errors.AssertionFailedf("replay: image style has no size"))
	}
	p := ImageParams{
		Image:          img.Image(1),
		AnchorX:        anchorX,
		AnchorY:        anchorY,
		Width:          width,
		Height:         height,
		Opacity:        img.Opacity(),
		Rotation:       img.Rotation(),
		Scale:          img.Scale(),
		RotateWithView: img.RotateWithView(),
		SnapToPixel:    img.SnapToPixel(),
	}
	hit := p
	hit.Image = img.HitDetectionImage(1)
	b.image, b.hitImage = &p, &hit
}

// DrawPoint draws the symbol at a point.
func (b *ImageBatch) DrawPoint(g *geom.Point, data uuid.UUID) {
	b.drawPoints(g, data)
}

// DrawMultiPoint draws the symbol at every point.
func (b *ImageBatch) DrawMultiPoint(g *geom.MultiPoint, data uuid.UUID) {
	b.drawPoints(g, data)
}

func (b *ImageBatch) drawPoints(g geom.Geometry, data uuid.UUID) {
	flatCoords := g.FlatCoordinates()
	stride := g.Stride()
	if b.image == nil || b.image.Image == nil || len(flatCoords) < stride {
		return
	}
	b.extent.ExtendFlatCoordinates(flatCoords, 0, len(flatCoords), stride)
	b.beginGeometry(g, data)
	begin := len(b.coordinates)
	end := b.appendFlatCoordinates(flatCoords, 0, len(flatCoords), stride, false)
	b.instructions = append(b.instructions, Instruction{Op: OpDrawImage, Begin: begin, End: end, Image: b.image})
	b.hitDetectionInstructions = append(b.hitDetectionInstructions, Instruction{Op: OpDrawImage, Begin: begin, End: end, Image: b.hitImage})
	b.endGeometry(g, data)
}

// Finish completes the batch.
func (b *ImageBatch) Finish() {
	b.reverseHitDetectionInstructions()
	b.image, b.hitImage = nil, nil
}
