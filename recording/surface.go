// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package recording

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/gogpu/ggmap/surface"
	"github.com/gogpu/ggmap/transform"
)

// Option configures a recording Surface.
type Option func(*Surface)

// WithTarget forwards every call to target after recording it.
func WithTarget(target surface.Surface) Option {
	return func(s *Surface) {
		s.target = target
	}
}

// recorderState is the state a recording Surface needs to answer getters
// when it has no target.
type recorderState struct {
	transform transform.Transform
	alpha     float64
}

// Surface records surface calls as commands.
//
// Surface is not safe for concurrent use.
type Surface struct {
	width    int
	height   int
	commands []Command
	target   surface.Surface

	state recorderState
	stack []recorderState
}

var _ surface.Surface = (*Surface)(nil)

// New creates an empty recording surface.
func New(width, height int, opts ...Option) *Surface {
	s := &Surface{
		width:  width,
		height: height,
		state:  recorderState{transform: transform.Identity(), alpha: 1},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Factory returns a surface.Factory producing recording surfaces that
// forward to surfaces created by next. A nil next records only.
func Factory(next surface.Factory) surface.Factory {
	return func(width, height int) (surface.Surface, error) {
		if next == nil {
			return New(width, height), nil
		}
		target, err := next(width, height)
		if err != nil {
			return nil, err
		}
		return New(width, height, WithTarget(target)), nil
	}
}

func (s *Surface) record(cmd Command) {
	s.commands = append(s.commands, cmd)
	if s.target != nil {
		cmd.apply(s.target)
	}
}

// Commands returns the recorded commands.
func (s *Surface) Commands() []Command { return s.commands }

// Types returns the type of every recorded command in order.
func (s *Surface) Types() []CommandType {
	types := make([]CommandType, len(s.commands))
	for i, cmd := range s.commands {
		types[i] = cmd.Type()
	}
	return types
}

// Count returns the number of recorded commands of type t.
func (s *Surface) Count(t CommandType) int {
	n := 0
	for _, cmd := range s.commands {
		if cmd.Type() == t {
			n++
		}
	}
	return n
}

// Reset discards the recorded commands. The target is left untouched.
func (s *Surface) Reset() {
	s.commands = s.commands[:0]
}

// Playback replays every recorded command onto dst.
func (s *Surface) Playback(dst surface.Surface) {
	for _, cmd := range s.commands {
		cmd.apply(dst)
	}
}

// Dump writes one line per recorded command to w.
func (s *Surface) Dump(w io.Writer) error {
	for i, cmd := range s.commands {
		if _, err := fmt.Fprintf(w, "%4d %s\n", i, Format(cmd)); err != nil {
			return err
		}
	}
	return nil
}

// Target returns the surface calls are forwarded to, or nil.
func (s *Surface) Target() surface.Surface { return s.target }

// Width returns the surface width.
func (s *Surface) Width() int { return s.width }

// Height returns the surface height.
func (s *Surface) Height() int { return s.height }

// Save records a save.
func (s *Surface) Save() {
	s.stack = append(s.stack, s.state)
	s.record(SaveCommand{})
}

// Restore records a restore.
func (s *Surface) Restore() {
	if n := len(s.stack); n > 0 {
		s.state = s.stack[n-1]
		s.stack = s.stack[:n-1]
	}
	s.record(RestoreCommand{})
}

// SetTransform records a transform change.
func (s *Surface) SetTransform(t transform.Transform) {
	s.state.transform = t
	s.record(SetTransformCommand{Transform: t})
}

// Transform returns the current transform.
func (s *Surface) Transform() transform.Transform { return s.state.transform }

func (s *Surface) BeginPath()          { s.record(BeginPathCommand{}) }
func (s *Surface) MoveTo(x, y float64) { s.record(MoveToCommand{X: x, Y: y}) }
func (s *Surface) LineTo(x, y float64) { s.record(LineToCommand{X: x, Y: y}) }
func (s *Surface) ClosePath()          { s.record(ClosePathCommand{}) }
func (s *Surface) Clip()               { s.record(ClipCommand{}) }
func (s *Surface) Fill()               { s.record(FillCommand{}) }
func (s *Surface) Stroke()             { s.record(StrokeCommand{}) }
func (s *Surface) Clear()              { s.record(ClearCommand{}) }

// Arc records an arc.
func (s *Surface) Arc(x, y, radius, startAngle, endAngle float64) {
	s.record(ArcCommand{X: x, Y: y, Radius: radius, StartAngle: startAngle, EndAngle: endAngle})
}

// SetFillColor records a fill color change.
func (s *Surface) SetFillColor(c color.Color) {
	s.record(SetFillColorCommand{Color: c})
}

// SetStrokeStyle records a stroke style change. The dash slice is copied.
func (s *Surface) SetStrokeStyle(st surface.StrokeStyle) {
	st.Dash = append([]float64(nil), st.Dash...)
	s.record(SetStrokeStyleCommand{Style: st})
}

// SetGlobalAlpha records a global alpha change.
func (s *Surface) SetGlobalAlpha(alpha float64) {
	s.state.alpha = alpha
	s.record(SetGlobalAlphaCommand{Alpha: alpha})
}

// GlobalAlpha returns the current global alpha.
func (s *Surface) GlobalAlpha() float64 { return s.state.alpha }

// DrawImage records an image draw.
func (s *Surface) DrawImage(img image.Image, x, y, width, height float64) {
	s.record(DrawImageCommand{Image: img, X: x, Y: y, Width: width, Height: height})
}

// SetTextStyle records a text style change.
func (s *Surface) SetTextStyle(t surface.TextStyle) {
	s.record(SetTextStyleCommand{Style: t})
}

// FillText records filled text.
func (s *Surface) FillText(text string, x, y float64) {
	s.record(FillTextCommand{Text: text, X: x, Y: y})
}

// StrokeText records stroked text.
func (s *Surface) StrokeText(text string, x, y float64) {
	s.record(StrokeTextCommand{Text: text, X: x, Y: y})
}

// AlphaAt delegates to the target, or returns 0.
func (s *Surface) AlphaAt(x, y int) uint8 {
	if s.target == nil {
		return 0
	}
	return s.target.AlphaAt(x, y)
}

// Image delegates to the target, or returns a transparent image.
func (s *Surface) Image() image.Image {
	if s.target == nil {
		return image.NewNRGBA(image.Rect(0, 0, s.width, s.height))
	}
	return s.target.Image()
}
