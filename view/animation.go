// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package view

import (
	"math"
	"time"
)

// DefaultAnimationDuration is the duration of an animation without
// WithDuration.
const DefaultAnimationDuration = time.Second

// Easing maps the elapsed fraction of an animation, from 0 to 1, to the
// fraction of the change applied.
type Easing func(t float64) float64

// EaseIn starts slow and speeds up.
func EaseIn(t float64) float64 { return t * t * t }

// EaseOut starts fast and slows down.
func EaseOut(t float64) float64 { return 1 - EaseIn(1-t) }

// InAndOut starts slow, speeds up and slows down again.
func InAndOut(t float64) float64 { return 3*t*t - 2*t*t*t }

// Linear changes at constant speed.
func Linear(t float64) float64 { return t }

// UpAndDown goes to the target and back to the start.
func UpAndDown(t float64) float64 {
	if t < 0.5 {
		return InAndOut(2 * t)
	}
	return 1 - InAndOut(2*(t-0.5))
}

// AnimationOption configures an Animation.
type AnimationOption func(*Animation)

// WithStart delays the animation until t. The default is the first Step.
func WithStart(t time.Time) AnimationOption {
	return func(a *Animation) { a.start = t }
}

// WithDuration sets the duration.
func WithDuration(d time.Duration) AnimationOption {
	return func(a *Animation) { a.duration = d }
}

// WithEasing sets the easing function.
func WithEasing(e Easing) AnimationOption {
	return func(a *Animation) { a.easing = e }
}

// Animation changes a view over time. It reads the view state it starts
// from on its first step after the start time.
type Animation struct {
	start    time.Time
	duration time.Duration
	easing   Easing

	begin func(v *View)
	apply func(v *View, f float64)
	begun bool
}

func newAnimation(easing Easing, opts []AnimationOption) *Animation {
	a := &Animation{duration: DefaultAnimationDuration, easing: easing}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// PanTo moves the center to (x, y).
func PanTo(x, y float64, opts ...AnimationOption) *Animation {
	a := newAnimation(InAndOut, opts)
	var fromX, fromY float64
	a.begin = func(v *View) { fromX, fromY = v.Center() }
	a.apply = func(v *View, f float64) {
		v.SetCenter(fromX+(x-fromX)*f, fromY+(y-fromY)*f)
	}
	return a
}

// ZoomTo changes the resolution to resolution.
func ZoomTo(resolution float64, opts ...AnimationOption) *Animation {
	return zoom(newAnimation(InAndOut, opts), resolution)
}

// Bounce changes the resolution to resolution and back.
func Bounce(resolution float64, opts ...AnimationOption) *Animation {
	return zoom(newAnimation(UpAndDown, opts), resolution)
}

func zoom(a *Animation, resolution float64) *Animation {
	var from float64
	a.begin = func(v *View) { from = v.Resolution() }
	a.apply = func(v *View, f float64) { v.SetResolution(from + (resolution-from)*f) }
	return a
}

// RotateTo changes the rotation to rotation, keeping the center.
func RotateTo(rotation float64, opts ...AnimationOption) *Animation {
	a := newAnimation(InAndOut, opts)
	var from float64
	a.begin = func(v *View) { from = v.Rotation() }
	a.apply = func(v *View, f float64) { v.SetRotation(from + (rotation-from)*f) }
	return a
}

// RotateAround changes the rotation to rotation, keeping the map
// coordinate (x, y) at the same pixel.
func RotateAround(rotation, x, y float64, opts ...AnimationOption) *Animation {
	a := newAnimation(InAndOut, opts)
	var from, cx, cy float64
	a.begin = func(v *View) {
		from = v.Rotation()
		cx, cy = v.Center()
	}
	a.apply = func(v *View, f float64) {
		delta := (rotation - from) * f
		v.SetRotation(from + delta)
		// turn the center about (x, y) with the view
		cos, sin := math.Cos(delta), math.Sin(delta)
		dx, dy := cx-x, cy-y
		v.SetCenter(x+dx*cos-dy*sin, y+dx*sin+dy*cos)
	}
	return a
}

// step applies the animation at now and reports whether it is still
// running.
func (a *Animation) step(v *View, now time.Time) bool {
	if a.start.IsZero() {
		a.start = now
	}
	if now.Before(a.start) {
		return true
	}
	if !a.begun {
		a.begin(v)
		a.begun = true
	}
	t := 1.0
	if a.duration > 0 {
		t = math.Min(1, float64(now.Sub(a.start))/float64(a.duration))
	}
	a.apply(v, a.easing(t))
	return t < 1
}

// Animate starts a. The view holds HintAnimating until a has finished.
func (v *View) Animate(a *Animation) {
	v.animations = append(v.animations, a)
	v.SetHint(HintAnimating, 1)
}

// Step advances every animation to now and reports whether any is still
// running. Callers draw a frame after every step.
func (v *View) Step(now time.Time) bool {
	running := v.animations[:0]
	for _, a := range v.animations {
		if a.step(v, now) {
			running = append(running, a)
		} else {
			v.SetHint(HintAnimating, -1)
		}
	}
	clear(v.animations[len(running):])
	v.animations = running
	return len(running) > 0
}

// Animating reports whether an animation is running.
func (v *View) Animating() bool { return len(v.animations) > 0 }

// CancelAnimations stops every animation where it is.
func (v *View) CancelAnimations() {
	v.SetHint(HintAnimating, -len(v.animations))
	clear(v.animations)
	v.animations = v.animations[:0]
}
