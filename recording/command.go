// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package recording

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/ggmap/surface"
	"github.com/gogpu/ggmap/transform"
)

// CommandType identifies the type of a command.
// Each command type corresponds to one surface.Surface method.
type CommandType uint8

const (
	// State commands
	CmdSave         CommandType = iota // Save current state
	CmdRestore                         // Restore previous state
	CmdSetTransform                    // Set transformation matrix
	CmdClip                            // Clip to the current path

	// Path commands
	CmdBeginPath // Discard the current path
	CmdMoveTo    // Start a subpath
	CmdLineTo    // Add a line
	CmdArc       // Add an arc
	CmdClosePath // Close the subpath

	// Drawing commands
	CmdFill       // Fill the current path
	CmdStroke     // Stroke the current path
	CmdDrawImage  // Draw an image
	CmdFillText   // Fill text
	CmdStrokeText // Stroke text
	CmdClear      // Clear all pixels

	// Style commands
	CmdSetFillColor   // Set fill color
	CmdSetStrokeStyle // Set stroke style
	CmdSetGlobalAlpha // Set global alpha
	CmdSetTextStyle   // Set font, align and baseline
)

// commandTypeNames maps CommandType values to their string representation.
var commandTypeNames = [...]string{
	CmdSave:           "Save",
	CmdRestore:        "Restore",
	CmdSetTransform:   "SetTransform",
	CmdClip:           "Clip",
	CmdBeginPath:      "BeginPath",
	CmdMoveTo:         "MoveTo",
	CmdLineTo:         "LineTo",
	CmdArc:            "Arc",
	CmdClosePath:      "ClosePath",
	CmdFill:           "Fill",
	CmdStroke:         "Stroke",
	CmdDrawImage:      "DrawImage",
	CmdFillText:       "FillText",
	CmdStrokeText:     "StrokeText",
	CmdClear:          "Clear",
	CmdSetFillColor:   "SetFillColor",
	CmdSetStrokeStyle: "SetStrokeStyle",
	CmdSetGlobalAlpha: "SetGlobalAlpha",
	CmdSetTextStyle:   "SetTextStyle",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is the interface implemented by all command types.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType

	// apply replays the command onto s.
	apply(s surface.Surface)
}

// --------------------------------------------------------------------------
// State Commands
// --------------------------------------------------------------------------

// SaveCommand saves the current graphics state.
type SaveCommand struct{}

func (SaveCommand) Type() CommandType       { return CmdSave }
func (SaveCommand) apply(s surface.Surface) { s.Save() }

// RestoreCommand restores the previously saved graphics state.
type RestoreCommand struct{}

func (RestoreCommand) Type() CommandType       { return CmdRestore }
func (RestoreCommand) apply(s surface.Surface) { s.Restore() }

// SetTransformCommand sets the current transformation matrix.
type SetTransformCommand struct {
	Transform transform.Transform
}

func (SetTransformCommand) Type() CommandType         { return CmdSetTransform }
func (c SetTransformCommand) apply(s surface.Surface) { s.SetTransform(c.Transform) }

// ClipCommand clips to the current path.
type ClipCommand struct{}

func (ClipCommand) Type() CommandType       { return CmdClip }
func (ClipCommand) apply(s surface.Surface) { s.Clip() }

// --------------------------------------------------------------------------
// Path Commands
// --------------------------------------------------------------------------

// BeginPathCommand discards the current path.
type BeginPathCommand struct{}

func (BeginPathCommand) Type() CommandType       { return CmdBeginPath }
func (BeginPathCommand) apply(s surface.Surface) { s.BeginPath() }

// MoveToCommand starts a subpath.
type MoveToCommand struct {
	X, Y float64
}

func (MoveToCommand) Type() CommandType         { return CmdMoveTo }
func (c MoveToCommand) apply(s surface.Surface) { s.MoveTo(c.X, c.Y) }

// LineToCommand adds a line segment.
type LineToCommand struct {
	X, Y float64
}

func (LineToCommand) Type() CommandType         { return CmdLineTo }
func (c LineToCommand) apply(s surface.Surface) { s.LineTo(c.X, c.Y) }

// ArcCommand adds a circular arc.
type ArcCommand struct {
	X, Y       float64
	Radius     float64
	StartAngle float64
	EndAngle   float64
}

func (ArcCommand) Type() CommandType { return CmdArc }
func (c ArcCommand) apply(s surface.Surface) {
	s.Arc(c.X, c.Y, c.Radius, c.StartAngle, c.EndAngle)
}

// ClosePathCommand closes the current subpath.
type ClosePathCommand struct{}

func (ClosePathCommand) Type() CommandType       { return CmdClosePath }
func (ClosePathCommand) apply(s surface.Surface) { s.ClosePath() }

// --------------------------------------------------------------------------
// Drawing Commands
// --------------------------------------------------------------------------

// FillCommand fills the current path.
type FillCommand struct{}

func (FillCommand) Type() CommandType       { return CmdFill }
func (FillCommand) apply(s surface.Surface) { s.Fill() }

// StrokeCommand strokes the current path.
type StrokeCommand struct{}

func (StrokeCommand) Type() CommandType       { return CmdStroke }
func (StrokeCommand) apply(s surface.Surface) { s.Stroke() }

// DrawImageCommand draws an image into a rectangle.
type DrawImageCommand struct {
	Image         image.Image
	X, Y          float64
	Width, Height float64
}

func (DrawImageCommand) Type() CommandType { return CmdDrawImage }
func (c DrawImageCommand) apply(s surface.Surface) {
	s.DrawImage(c.Image, c.X, c.Y, c.Width, c.Height)
}

// FillTextCommand fills text at a position.
type FillTextCommand struct {
	Text string
	X, Y float64
}

func (FillTextCommand) Type() CommandType         { return CmdFillText }
func (c FillTextCommand) apply(s surface.Surface) { s.FillText(c.Text, c.X, c.Y) }

// StrokeTextCommand strokes text at a position.
type StrokeTextCommand struct {
	Text string
	X, Y float64
}

func (StrokeTextCommand) Type() CommandType         { return CmdStrokeText }
func (c StrokeTextCommand) apply(s surface.Surface) { s.StrokeText(c.Text, c.X, c.Y) }

// ClearCommand clears every pixel.
type ClearCommand struct{}

func (ClearCommand) Type() CommandType       { return CmdClear }
func (ClearCommand) apply(s surface.Surface) { s.Clear() }

// --------------------------------------------------------------------------
// Style Commands
// --------------------------------------------------------------------------

// SetFillColorCommand sets the fill color.
type SetFillColorCommand struct {
	Color color.Color
}

func (SetFillColorCommand) Type() CommandType         { return CmdSetFillColor }
func (c SetFillColorCommand) apply(s surface.Surface) { s.SetFillColor(c.Color) }

// SetStrokeStyleCommand sets the stroke style.
type SetStrokeStyleCommand struct {
	Style surface.StrokeStyle
}

func (SetStrokeStyleCommand) Type() CommandType         { return CmdSetStrokeStyle }
func (c SetStrokeStyleCommand) apply(s surface.Surface) { s.SetStrokeStyle(c.Style) }

// SetGlobalAlphaCommand sets the global alpha.
type SetGlobalAlphaCommand struct {
	Alpha float64
}

func (SetGlobalAlphaCommand) Type() CommandType         { return CmdSetGlobalAlpha }
func (c SetGlobalAlphaCommand) apply(s surface.Surface) { s.SetGlobalAlpha(c.Alpha) }

// SetTextStyleCommand sets font, alignment and baseline.
type SetTextStyleCommand struct {
	Style surface.TextStyle
}

func (SetTextStyleCommand) Type() CommandType         { return CmdSetTextStyle }
func (c SetTextStyleCommand) apply(s surface.Surface) { s.SetTextStyle(c.Style) }

// Format returns a one-line description of cmd for traces.
func Format(cmd Command) string {
	switch c := cmd.(type) {
	case SetTransformCommand:
		t := c.Transform
		return fmt.Sprintf("%s [%g %g %g %g %g %g]", c.Type(), t.A, t.B, t.C, t.D, t.E, t.F)
	case MoveToCommand:
		return fmt.Sprintf("%s %g,%g", c.Type(), c.X, c.Y)
	case LineToCommand:
		return fmt.Sprintf("%s %g,%g", c.Type(), c.X, c.Y)
	case ArcCommand:
		return fmt.Sprintf("%s %g,%g r=%g %g..%g", c.Type(), c.X, c.Y, c.Radius, c.StartAngle, c.EndAngle)
	case DrawImageCommand:
		return fmt.Sprintf("%s %g,%g %gx%g", c.Type(), c.X, c.Y, c.Width, c.Height)
	case FillTextCommand:
		return fmt.Sprintf("%s %q %g,%g", c.Type(), c.Text, c.X, c.Y)
	case StrokeTextCommand:
		return fmt.Sprintf("%s %q %g,%g", c.Type(), c.Text, c.X, c.Y)
	case SetFillColorCommand:
		return fmt.Sprintf("%s %v", c.Type(), c.Color)
	case SetStrokeStyleCommand:
		return fmt.Sprintf("%s %v w=%g %s/%s", c.Type(), c.Style.Color, c.Style.Width, c.Style.Cap, c.Style.Join)
	case SetGlobalAlphaCommand:
		return fmt.Sprintf("%s %g", c.Type(), c.Alpha)
	case SetTextStyleCommand:
		return fmt.Sprintf("%s %q", c.Type(), c.Style.Font)
	}
	return cmd.Type().String()
}
