// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package transform provides the 2D affine transform used to map map
// coordinates to surface pixels.
package transform

import "math"

// Transform is a 2D affine transform in row-major order:
//
//	| A  B  C |
//	| D  E  F |
//
// A point (x, y) is mapped to:
//
//	x' = A*x + B*y + C
//	y' = D*x + E*y + F
//
// The layout matches gg.Matrix so a Transform can be handed to a gg
// context without reordering.
type Transform struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{A: 1, E: 1}
}

// Translate creates a translation.
func Translate(x, y float64) Transform {
	return Transform{A: 1, C: x, E: 1, F: y}
}

// Scale creates a scaling transform.
func Scale(sx, sy float64) Transform {
	return Transform{A: sx, E: sy}
}

// Rotate creates a rotation (angle in radians, counter-clockwise in a
// y-up frame).
func Rotate(angle float64) Transform {
	cos, sin := math.Cos(angle), math.Sin(angle)
	return Transform{A: cos, B: -sin, D: sin, E: cos}
}

// Make2D composes translate(tx1, ty1) * scale(sx, sy) * rotate(rotation) *
// translate(tx2, ty2). Points are moved by (tx2, ty2) first, then rotated,
// then scaled and finally moved by (tx1, ty1).
//
// The frame transform of a view is
//
//	Make2D(w/2, h/2, 1/res, -1/res, -rotation, -cx, -cy)
func Make2D(tx1, ty1, sx, sy, rotation, tx2, ty2 float64) Transform {
	t := Identity()
	if tx1 != 0 || ty1 != 0 {
		t = t.Multiply(Translate(tx1, ty1))
	}
	if sx != 1 || sy != 1 {
		t = t.Multiply(Scale(sx, sy))
	}
	if rotation != 0 {
		t = t.Multiply(Rotate(rotation))
	}
	if tx2 != 0 || ty2 != 0 {
		t = t.Multiply(Translate(tx2, ty2))
	}
	return t
}

// Multiply returns t * other, which applies other first and t second.
func (t Transform) Multiply(other Transform) Transform {
	return Transform{
		A: t.A*other.A + t.B*other.D,
		B: t.A*other.B + t.B*other.E,
		C: t.A*other.C + t.B*other.F + t.C,
		D: t.D*other.A + t.E*other.D,
		E: t.D*other.B + t.E*other.E,
		F: t.D*other.C + t.E*other.F + t.F,
	}
}

// Apply maps a point.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return t.A*x + t.B*y + t.C, t.D*x + t.E*y + t.F
}

// Invert returns the inverse transform and false if t is singular.
func (t Transform) Invert() (Transform, bool) {
	det := t.Determinant()
	if math.Abs(det) < 1e-12 {
		return Identity(), false
	}
	inv := 1 / det
	return Transform{
		A: t.E * inv,
		B: -t.B * inv,
		C: (t.B*t.F - t.C*t.E) * inv,
		D: -t.D * inv,
		E: t.A * inv,
		F: (t.C*t.D - t.A*t.F) * inv,
	}, true
}

// Determinant returns the determinant of the linear part.
func (t Transform) Determinant() float64 {
	return t.A*t.E - t.B*t.D
}

// IsIdentity reports whether t is the identity transform.
func (t Transform) IsIdentity() bool {
	return t == Identity()
}

// Equal reports whether t and other are the same transform. Replay batches
// key their pixel coordinate cache on this comparison.
func (t Transform) Equal(other Transform) bool {
	return t == other
}
