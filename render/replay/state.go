// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package replay

import (
	"image/color"

	"github.com/gogpu/ggmap/style"
	"github.com/gogpu/ggmap/surface"
)

// defaultFillColor is used for fills without a color and for the fill that
// hit detection always draws inside polygons.
var defaultFillColor color.Color = color.Black

// FillState is the fill part of the surface state.
type FillState struct {
	Color color.Color
}

// StrokeState is the stroke part of the surface state.
type StrokeState struct {
	Style surface.StrokeStyle
}

// TextState is the font part of the surface state.
type TextState struct {
	Style surface.TextStyle
}

// Equal reports whether both fills use the same color.
func (s FillState) Equal(o FillState) bool {
	return colorEqual(s.Color, o.Color)
}

func (s FillState) instruction() Instruction {
	return Instruction{Op: OpSetFillStyle, FillColor: s.Color}
}

// Equal reports whether both strokes are identical.
func (s StrokeState) Equal(o StrokeState) bool { return s.Style.Equal(o.Style) }

func (s StrokeState) instruction() Instruction {
	return Instruction{Op: OpSetStrokeStyle, StrokeStyle: s.Style}
}

// Equal reports whether both fonts and anchors are identical.
func (s TextState) Equal(o TextState) bool { return s.Style == o.Style }

func (s TextState) instruction() Instruction {
	return Instruction{Op: OpSetTextStyle, TextStyle: s.Style}
}

// NewFillState resolves a fill style. It returns nil for a nil fill.
func NewFillState(f *style.Fill) *FillState {
	if f == nil {
		return nil
	}
	c := f.Color
	if c == nil {
		c = defaultFillColor
	}
	return &FillState{Color: c}
}

// NewStrokeState resolves a stroke style. It returns nil for a nil stroke.
func NewStrokeState(s *style.Stroke) *StrokeState {
	if s == nil {
		return nil
	}
	return &StrokeState{Style: s.SurfaceStyle()}
}

// NewTextState resolves the font of a text style.
func NewTextState(t *style.Text) *TextState {
	return &TextState{Style: t.TextStyle()}
}

type state[S any] interface {
	Equal(S) bool
	instruction() Instruction
}

// diff returns the instruction that moves a surface whose state is
// current to next. It reports false when nothing needs to change. A nil
// current state always differs.
func diff[S state[S]](current *S, next S) (Instruction, bool) {
	if current != nil && (*current).Equal(next) {
		return Instruction{}, false
	}
	return next.instruction(), true
}

// tracker holds the state last emitted to the render stream and the state
// requested by the most recent style call.
type tracker[S state[S]] struct {
	current *S
	pending *S
}

// set replaces the pending state. nil unsets it.
func (t *tracker[S]) set(s *S) { t.pending = s }

// isSet reports whether a pending state exists.
func (t *tracker[S]) isSet() bool { return t.pending != nil }

// change returns the instruction needed to apply the pending state.
func (t *tracker[S]) change() (Instruction, bool) {
	if t.pending == nil {
		return Instruction{}, false
	}
	return diff(t.current, *t.pending)
}

// commit records the pending state as emitted.
func (t *tracker[S]) commit() {
	s := *t.pending
	t.current = &s
}

// reset forgets both states.
func (t *tracker[S]) reset() {
	t.current, t.pending = nil, nil
}

func colorEqual(a, b color.Color) bool {
	if a == nil || b == nil {
		return a == b
	}
	r1, g1, b1, a1 := a.RGBA()
	r2, g2, b2, a2 := b.RGBA()
	return r1 == r2 && g1 == g2 && b1 == b2 && a1 == a2
}
