// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package style

import (
	"image"

	"github.com/gogpu/ggmap/event"
)

// ImageState is the load state of an image style.
type ImageState uint8

const (
	ImageStateIdle ImageState = iota
	ImageStateLoading
	ImageStateLoaded
	ImageStateError
)

var imageStateNames = [...]string{
	ImageStateIdle:    "idle",
	ImageStateLoading: "loading",
	ImageStateLoaded:  "loaded",
	ImageStateError:   "error",
}

func (s ImageState) String() string {
	if int(s) < len(imageStateNames) {
		return imageStateNames[s]
	}
	return "unknown"
}

// Image is a point symbol: an Icon or a rendered Circle.
type Image interface {
	// Anchor returns the anchor in pixels from the top-left corner of the
	// image. ok is false while the size is not yet known.
	Anchor() (x, y float64, ok bool)

	// Size returns the size in pixels. ok is false while the size is not
	// yet known.
	Size() (width, height float64, ok bool)

	// Image returns the pixels to draw, or nil if not loaded.
	Image(pixelRatio float64) image.Image

	// HitDetectionImage returns the pixels to draw for hit detection.
	HitDetectionImage(pixelRatio float64) image.Image

	Opacity() float64
	Rotation() float64
	Scale() float64
	RotateWithView() bool
	SnapToPixel() bool

	// ImageState reports the load state.
	ImageState() ImageState

	// Load starts loading an idle image. It returns immediately.
	Load()

	// Listen registers fn to run when the image state changes.
	Listen(owner any, fn event.Listener)

	// Unlisten removes the listener registered by owner.
	Unlisten(owner any) bool
}

// imageOptions holds the symbol parameters shared by every image style.
type imageOptions struct {
	opacity        float64
	rotation       float64
	scale          float64
	rotateWithView bool
	snapToPixel    bool
}

func defaultImageOptions() imageOptions {
	return imageOptions{opacity: 1, scale: 1, snapToPixel: true}
}

func (o *imageOptions) Opacity() float64     { return o.opacity }
func (o *imageOptions) Rotation() float64    { return o.rotation }
func (o *imageOptions) Scale() float64       { return o.scale }
func (o *imageOptions) RotateWithView() bool { return o.rotateWithView }
func (o *imageOptions) SnapToPixel() bool    { return o.snapToPixel }
