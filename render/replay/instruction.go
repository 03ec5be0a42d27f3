// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package replay

import (
	"image"
	"image/color"

	"github.com/google/uuid"

	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/surface"
)

// Op identifies a replay instruction.
type Op uint8

// Instruction opcodes. Each opcode uses the Instruction fields listed in
// its comment; every other field is zero.
const (
	// OpBeginGeometry opens the bracket of one geometry.
	// Fields: Geometry, Data, Skip.
	OpBeginGeometry Op = iota

	// OpBeginPath discards the current path.
	OpBeginPath

	// OpCircle adds a full circle. The pixel coordinates at Begin are the
	// center, the next two are a point on the circumference.
	// Fields: Begin.
	OpCircle

	// OpClosePath closes the current subpath.
	OpClosePath

	// OpDrawImage draws Image once per pixel coordinate in [Begin, End).
	// Fields: Begin, End, Image.
	OpDrawImage

	// OpDrawText draws Text once per pixel coordinate in [Begin, End).
	// Fields: Begin, End, Text.
	OpDrawText

	// OpEndGeometry closes the bracket of one geometry and runs the
	// geometry callback, if any.
	// Fields: Geometry, Data.
	OpEndGeometry

	// OpFill fills the current path.
	OpFill

	// OpMoveToLineTo moves to the first pixel coordinate in [Begin, End)
	// and draws lines through the others.
	// Fields: Begin, End.
	OpMoveToLineTo

	// OpSetFillStyle sets the fill color.
	// Fields: FillColor.
	OpSetFillStyle

	// OpSetStrokeStyle sets the stroke style. The width is in CSS pixels
	// and is multiplied by the pixel ratio at replay time.
	// Fields: StrokeStyle.
	OpSetStrokeStyle

	// OpSetTextStyle sets the font and text anchoring.
	// Fields: TextStyle.
	OpSetTextStyle

	// OpStroke strokes the current path.
	OpStroke
)

var opNames = [...]string{
	OpBeginGeometry:  "BeginGeometry",
	OpBeginPath:      "BeginPath",
	OpCircle:         "Circle",
	OpClosePath:      "ClosePath",
	OpDrawImage:      "DrawImage",
	OpDrawText:       "DrawText",
	OpEndGeometry:    "EndGeometry",
	OpFill:           "Fill",
	OpMoveToLineTo:   "MoveToLineTo",
	OpSetFillStyle:   "SetFillStyle",
	OpSetStrokeStyle: "SetStrokeStyle",
	OpSetTextStyle:   "SetTextStyle",
	OpStroke:         "Stroke",
}

// String returns the name of the opcode.
func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return "Unknown"
}

// Instruction is one step of a compiled batch.
type Instruction struct {
	Op Op

	Geometry geom.Geometry
	Data     uuid.UUID
	// Skip is the index of the matching OpEndGeometry in the same stream.
	Skip int

	// Begin and End delimit a range of the batch's coordinate buffer.
	Begin, End int

	FillColor   color.Color
	StrokeStyle surface.StrokeStyle
	TextStyle   surface.TextStyle

	Image *ImageParams
	Text  *TextParams
}

// ImageParams are the operands of OpDrawImage. Anchor and size are in CSS
// pixels.
type ImageParams struct {
	Image          image.Image
	AnchorX        float64
	AnchorY        float64
	Width          float64
	Height         float64
	Opacity        float64
	Rotation       float64
	Scale          float64
	RotateWithView bool
	SnapToPixel    bool
}

// TextParams are the operands of OpDrawText.
type TextParams struct {
	Text     string
	OffsetX  float64
	OffsetY  float64
	Rotation float64
	Scale    float64
	Fill     bool
	Stroke   bool
}

// Ops returns the opcodes of a stream, for logging and tests.
func Ops(stream []Instruction) []Op {
	ops := make([]Op, len(stream))
	for i := range stream {
		ops[i] = stream[i].Op
	}
	return ops
}
