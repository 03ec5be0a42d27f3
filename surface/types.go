// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image/color"
	"slices"
	"strconv"
	"strings"
)

// LineCap specifies the shape of line endpoints.
type LineCap uint8

const (
	// LineCapButt specifies a flat line cap (no extension).
	LineCapButt LineCap = iota

	// LineCapRound specifies a semicircular line cap.
	LineCapRound

	// LineCapSquare specifies a square line cap (extends by half width).
	LineCapSquare
)

var lineCapNames = [...]string{
	LineCapButt:   "butt",
	LineCapRound:  "round",
	LineCapSquare: "square",
}

func (c LineCap) String() string {
	if int(c) < len(lineCapNames) {
		return lineCapNames[c]
	}
	return "unknown"
}

// LineJoin specifies the shape of line joins.
type LineJoin uint8

const (
	// LineJoinMiter specifies a sharp (mitered) join.
	LineJoinMiter LineJoin = iota

	// LineJoinRound specifies a rounded join.
	LineJoinRound

	// LineJoinBevel specifies a beveled join.
	LineJoinBevel
)

var lineJoinNames = [...]string{
	LineJoinMiter: "miter",
	LineJoinRound: "round",
	LineJoinBevel: "bevel",
}

func (j LineJoin) String() string {
	if int(j) < len(lineJoinNames) {
		return lineJoinNames[j]
	}
	return "unknown"
}

// TextAlign is the horizontal anchor of text relative to its position.
type TextAlign uint8

const (
	TextAlignCenter TextAlign = iota
	TextAlignLeft
	TextAlignRight
	TextAlignStart
	TextAlignEnd
)

// Anchor returns the fraction of the text width that lies left of the
// anchor point, for left-to-right text.
func (a TextAlign) Anchor() float64 {
	switch a {
	case TextAlignLeft, TextAlignStart:
		return 0
	case TextAlignRight, TextAlignEnd:
		return 1
	}
	return 0.5
}

// TextBaseline is the vertical anchor of text relative to its position.
type TextBaseline uint8

const (
	TextBaselineMiddle TextBaseline = iota
	TextBaselineAlphabetic
	TextBaselineTop
	TextBaselineHanging
	TextBaselineBottom
	TextBaselineIdeographic
)

// StrokeStyle defines how to stroke a path.
type StrokeStyle struct {
	// Color is the stroke color.
	Color color.Color

	// Width is the line width in pixels.
	Width float64

	// Cap is the line cap style.
	Cap LineCap

	// Join is the line join style.
	Join LineJoin

	// MiterLimit is the limit for miter joins.
	MiterLimit float64

	// Dash defines the dash/gap pattern. Empty means solid.
	Dash []float64
}

// DefaultStrokeStyle returns the canvas default: 1px black, butt caps,
// miter joins, miter limit 10.
func DefaultStrokeStyle() StrokeStyle {
	return StrokeStyle{
		Color:      color.Black,
		Width:      1,
		Cap:        LineCapButt,
		Join:       LineJoinMiter,
		MiterLimit: 10,
	}
}

// Equal reports whether two stroke styles are identical.
func (s StrokeStyle) Equal(o StrokeStyle) bool {
	return colorEqual(s.Color, o.Color) && s.Width == o.Width && s.Cap == o.Cap &&
		s.Join == o.Join && s.MiterLimit == o.MiterLimit && slices.Equal(s.Dash, o.Dash)
}

// TextStyle holds the font and anchoring of text.
type TextStyle struct {
	// Font is a CSS font shorthand such as "bold 12px sans-serif".
	Font     string
	Align    TextAlign
	Baseline TextBaseline
}

// DefaultFont is used when a text style does not name one.
const DefaultFont = "10px sans-serif"

// FontSize returns the pixel size named by a CSS font shorthand, or 10
// if none can be found. Point sizes are converted at 96 dpi.
func FontSize(font string) float64 {
	for _, field := range strings.Fields(font) {
		field, _, _ = strings.Cut(field, "/")
		var unit float64
		var num string
		switch {
		case strings.HasSuffix(field, "px"):
			num, unit = strings.TrimSuffix(field, "px"), 1
		case strings.HasSuffix(field, "pt"):
			num, unit = strings.TrimSuffix(field, "pt"), 96.0/72
		case strings.HasSuffix(field, "em"):
			num, unit = strings.TrimSuffix(field, "em"), 16
		default:
			continue
		}
		if v, err := strconv.ParseFloat(num, 64); err == nil && v > 0 {
			return v * unit
		}
	}
	return 10
}

func colorEqual(a, b color.Color) bool {
	if a == nil || b == nil {
		return a == b
	}
	r1, g1, b1, a1 := a.RGBA()
	r2, g2, b2, a2 := b.RGBA()
	return r1 == r2 && g1 == g2 && b1 == b2 && a1 == a2
}
