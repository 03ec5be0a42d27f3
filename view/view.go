// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package view holds the center, resolution and rotation of a map and
// derives the per-frame state renderers draw with.
package view

import (
	"math"

	"github.com/cockroachdb/errors"

	"github.com/gogpu/ggmap/event"
	"github.com/gogpu/ggmap/extent"
	"github.com/gogpu/ggmap/proj"
	"github.com/gogpu/ggmap/render/replay"
	"github.com/gogpu/ggmap/transform"
)

// Hint marks a view that is changing continuously. Vector layers keep
// their compiled frame while a hint is active.
type Hint uint8

const (
	HintAnimating Hint = iota
	HintInteracting
	hintCount
)

// Option configures a View.
type Option func(*View)

// WithCenter sets the initial center.
func WithCenter(x, y float64) Option {
	return func(v *View) { v.center = [2]float64{x, y} }
}

// WithResolution sets the initial resolution in map units per pixel.
func WithResolution(r float64) Option {
	return func(v *View) { v.resolution = r }
}

// WithRotation sets the initial rotation in radians.
func WithRotation(r float64) Option {
	return func(v *View) { v.rotation = r }
}

// WithProjection sets the projection of the view coordinates.
func WithProjection(p *proj.Projection) Option {
	return func(v *View) { v.projection = p }
}

// WithCenterConstraint sets the constraint SetCenter applies.
func WithCenterConstraint(c CenterConstraint) Option {
	return func(v *View) { v.centerConstraint = c }
}

// WithResolutionBounds limits the resolutions SetResolution accepts.
func WithResolutionBounds(minRes, maxRes float64) Option {
	return func(v *View) { v.minResolution, v.maxResolution = minRes, maxRes }
}

// View is the viewing state of a map. Each group of fields has its own
// listeners. A View is not safe for concurrent use.
type View struct {
	center     [2]float64
	resolution float64
	rotation   float64
	projection *proj.Projection

	centerConstraint CenterConstraint
	minResolution    float64
	maxResolution    float64

	hints      [hintCount]int
	animations []*Animation

	centerListeners     event.Target
	resolutionListeners event.Target
	rotationListeners   event.Target
}

// New creates a view. The default is centered on the origin of
// EPSG:3857 at resolution 1.
func New(opts ...Option) *View {
	v := &View{
		resolution:    1,
		projection:    proj.EPSG3857,
		maxResolution: math.Inf(1),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.resolution = v.constrainResolution(v.resolution)
	v.center[0], v.center[1] = v.constrainCenter(v.center[0], v.center[1])
	return v
}

// Projection returns the projection of the view coordinates.
func (v *View) Projection() *proj.Projection { return v.projection }

// Center returns the center.
func (v *View) Center() (x, y float64) { return v.center[0], v.center[1] }

// SetCenter moves the view to (x, y) as adjusted by the center
// constraint.
func (v *View) SetCenter(x, y float64) {
	x, y = v.constrainCenter(x, y)
	if v.center == [2]float64{x, y} {
		return
	}
	v.center = [2]float64{x, y}
	v.centerListeners.Dispatch()
}

func (v *View) constrainCenter(x, y float64) (float64, float64) {
	if v.centerConstraint == nil {
		return x, y
	}
	return v.centerConstraint(x, y)
}

// Resolution returns the map units per pixel.
func (v *View) Resolution() float64 { return v.resolution }

// SetResolution changes the resolution, clamped to the view's bounds.
// It panics if r is not positive.
func (v *View) SetResolution(r float64) {
	if !(r > 0) {
		panic(errors.AssertionFailedf("view: resolution must be positive, got %v", r))
	}
	r = v.constrainResolution(r)
	if r == v.resolution {
		return
	}
	v.resolution = r
	v.resolutionListeners.Dispatch()
}

func (v *View) constrainResolution(r float64) float64 {
	return math.Max(v.minResolution, math.Min(v.maxResolution, r))
}

// Rotation returns the rotation in radians.
func (v *View) Rotation() float64 { return v.rotation }

// SetRotation changes the rotation.
func (v *View) SetRotation(r float64) {
	if r == v.rotation {
		return
	}
	v.rotation = r
	v.rotationListeners.Dispatch()
}

// ListenCenter registers fn to run when the center changes.
func (v *View) ListenCenter(owner any, fn event.Listener) { v.centerListeners.Listen(owner, fn) }

// ListenResolution registers fn to run when the resolution changes.
func (v *View) ListenResolution(owner any, fn event.Listener) { v.resolutionListeners.Listen(owner, fn) }

// ListenRotation registers fn to run when the rotation changes.
func (v *View) ListenRotation(owner any, fn event.Listener) { v.rotationListeners.Listen(owner, fn) }

// Unlisten removes every listener registered by owner.
func (v *View) Unlisten(owner any) {
	v.centerListeners.Unlisten(owner)
	v.resolutionListeners.Unlisten(owner)
	v.rotationListeners.Unlisten(owner)
}

// SetHint adds delta to the count of hint h.
func (v *View) SetHint(h Hint, delta int) {
	v.hints[h] += delta
	if v.hints[h] < 0 {
		panic(errors.AssertionFailedf("view: hint %d released more often than set", h))
	}
}

// Pan moves the content by (dx, dy) screen pixels.
func (v *View) Pan(dx, dy float64) {
	ddx, ddy := -v.resolution*dx, v.resolution*dy
	cos, sin := math.Cos(v.rotation), math.Sin(v.rotation)
	v.SetCenter(v.center[0]+ddx*cos-ddy*sin, v.center[1]+ddx*sin+ddy*cos)
}

// ZoomBy divides the resolution by factor, keeping the center fixed.
func (v *View) ZoomBy(factor float64) {
	v.ZoomAt(factor, v.center[0], v.center[1])
}

// ZoomAt divides the resolution by factor, keeping the map coordinate
// (x, y) at the same pixel.
func (v *View) ZoomAt(factor, x, y float64) {
	old := v.resolution
	v.SetResolution(old / factor)
	ratio := v.resolution / old
	v.SetCenter(x+(v.center[0]-x)*ratio, y+(v.center[1]-y)*ratio)
}

// RotateBy adds delta radians to the rotation.
func (v *View) RotateBy(delta float64) {
	v.SetRotation(math.Remainder(v.rotation+delta, 2*math.Pi))
}

// Fit centers the view on e and picks the smallest resolution at which e,
// rotated by the view rotation, fits in width x height pixels. An empty
// extent leaves the view unchanged.
func (v *View) Fit(e extent.Extent, width, height int) {
	if e.IsEmpty() || width <= 0 || height <= 0 {
		return
	}
	cos, sin := math.Abs(math.Cos(v.rotation)), math.Abs(math.Sin(v.rotation))
	w := e.Width()*cos + e.Height()*sin
	h := e.Width()*sin + e.Height()*cos
	res := math.Max(w/float64(width), h/float64(height))
	if res > 0 {
		v.SetResolution(res)
	}
	cx, cy := e.Center()
	v.SetCenter(cx, cy)
}

// Frame returns the state of a frame of width x height CSS pixels drawn
// at pixelRatio device pixels per CSS pixel.
func (v *View) Frame(width, height int, pixelRatio float64) *FrameState {
	cx, cy := v.center[0], v.center[1]
	toPixel := transform.Make2D(float64(width)/2, float64(height)/2,
		1/v.resolution, -1/v.resolution, -v.rotation, -cx, -cy)
	toCoord, _ := toPixel.Invert()
	return &FrameState{
		Width:             width,
		Height:            height,
		PixelRatio:        pixelRatio,
		CenterX:           cx,
		CenterY:           cy,
		Resolution:        v.resolution,
		Rotation:          v.rotation,
		Projection:        v.projection,
		Extent:            extent.ForViewAndSize(cx, cy, v.resolution, v.rotation, width, height),
		CoordinateToPixel: toPixel,
		PixelToCoordinate: toCoord,
		Animating:         v.hints[HintAnimating] > 0,
		Interacting:       v.hints[HintInteracting] > 0,
		Skipped:           replay.Skip{},
	}
}

// FrameState is everything a renderer needs to draw one frame.
type FrameState struct {
	// Width and Height are the frame size in CSS pixels.
	Width, Height int
	PixelRatio    float64

	CenterX, CenterY float64
	Resolution       float64
	Rotation         float64
	Projection       *proj.Projection

	// Extent is the area of the map covered by the frame.
	Extent extent.Extent

	// CoordinateToPixel maps map coordinates to CSS pixels.
	CoordinateToPixel transform.Transform
	// PixelToCoordinate is the inverse of CoordinateToPixel.
	PixelToCoordinate transform.Transform

	Animating   bool
	Interacting bool

	// Skipped holds the UIDs of features that are not drawn nor hit.
	Skipped replay.Skip
}

// Transform maps map coordinates to device pixels.
func (f *FrameState) Transform() transform.Transform {
	return transform.Make2D(f.PixelRatio*float64(f.Width)/2, f.PixelRatio*float64(f.Height)/2,
		f.PixelRatio/f.Resolution, -f.PixelRatio/f.Resolution, -f.Rotation, -f.CenterX, -f.CenterY)
}

// PixelToCoord returns the map coordinate at CSS pixel (x, y).
func (f *FrameState) PixelToCoord(x, y float64) (float64, float64) {
	return f.PixelToCoordinate.Apply(x, y)
}

// CoordToPixel returns the CSS pixel of map coordinate (x, y).
func (f *FrameState) CoordToPixel(x, y float64) (float64, float64) {
	return f.CoordinateToPixel.Apply(x, y)
}
