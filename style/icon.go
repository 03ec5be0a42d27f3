// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package style

import (
	"image"
	"math"
	"sync"

	"golang.org/x/image/draw"

	"github.com/gogpu/ggmap/event"
)

// AnchorUnits selects how an icon anchor ordinate is expressed.
type AnchorUnits uint8

const (
	// AnchorFraction expresses the anchor as a fraction of the icon size.
	AnchorFraction AnchorUnits = iota
	// AnchorPixels expresses the anchor in pixels.
	AnchorPixels
)

// AnchorOrigin is the corner the anchor is measured from.
type AnchorOrigin uint8

const (
	AnchorTopLeft AnchorOrigin = iota
	AnchorTopRight
	AnchorBottomLeft
	AnchorBottomRight
)

// iconOptions holds the construction parameters of an Icon.
type iconOptions struct {
	imageOptions

	anchor       [2]float64
	anchorXUnits AnchorUnits
	anchorYUnits AnchorUnits
	anchorOrigin AnchorOrigin
	size         [2]float64
	hasSize      bool
	offset       [2]float64
	crossOrigin  string
	cache        *IconImageCache
	loader       Loader
	img          image.Image
}

func defaultIconOptions() iconOptions {
	return iconOptions{
		imageOptions: defaultImageOptions(),
		anchor:       [2]float64{0.5, 0.5},
	}
}

// IconOption configures an Icon.
type IconOption func(*iconOptions)

// WithAnchor sets the anchor. The default is the centre, (0.5, 0.5) in
// fraction units.
func WithAnchor(x, y float64) IconOption {
	return func(o *iconOptions) { o.anchor = [2]float64{x, y} }
}

// WithAnchorUnits sets the units of the anchor ordinates.
func WithAnchorUnits(x, y AnchorUnits) IconOption {
	return func(o *iconOptions) {
		o.anchorXUnits = x
		o.anchorYUnits = y
	}
}

// WithAnchorOrigin sets the corner the anchor is measured from.
func WithAnchorOrigin(origin AnchorOrigin) IconOption {
	return func(o *iconOptions) { o.anchorOrigin = origin }
}

// WithIconSize sets the icon size in pixels. Together with WithIconOffset
// it selects a sprite from a larger image.
func WithIconSize(width, height float64) IconOption {
	return func(o *iconOptions) {
		o.size = [2]float64{width, height}
		o.hasSize = true
	}
}

// WithIconOffset sets the top-left corner of the sprite in the image.
func WithIconOffset(x, y float64) IconOption {
	return func(o *iconOptions) { o.offset = [2]float64{x, y} }
}

// WithIconOpacity sets the opacity.
func WithIconOpacity(opacity float64) IconOption {
	return func(o *iconOptions) { o.opacity = opacity }
}

// WithIconRotation sets the rotation in radians, clockwise.
func WithIconRotation(rotation float64) IconOption {
	return func(o *iconOptions) { o.rotation = rotation }
}

// WithIconScale sets the scale.
func WithIconScale(scale float64) IconOption {
	return func(o *iconOptions) { o.scale = scale }
}

// WithIconRotateWithView rotates the icon with the view.
func WithIconRotateWithView(rotate bool) IconOption {
	return func(o *iconOptions) { o.rotateWithView = rotate }
}

// WithIconSnapToPixel sets whether the icon is drawn at whole pixels.
// The default is true.
func WithIconSnapToPixel(snap bool) IconOption {
	return func(o *iconOptions) { o.snapToPixel = snap }
}

// WithCrossOrigin sets the cross-origin mode. Remote images loaded without
// one are hit-tested as opaque rectangles.
func WithCrossOrigin(mode string) IconOption {
	return func(o *iconOptions) { o.crossOrigin = mode }
}

// WithIconCache shares the icon pixels through cache.
func WithIconCache(cache *IconImageCache) IconOption {
	return func(o *iconOptions) { o.cache = cache }
}

// WithLoader sets the loader. The default is DefaultLoader.
func WithLoader(loader Loader) IconOption {
	return func(o *iconOptions) { o.loader = loader }
}

// WithIconImage supplies the pixels directly. The icon starts loaded.
func WithIconImage(img image.Image) IconOption {
	return func(o *iconOptions) { o.img = img }
}

// Icon is an image style drawn from a raster image.
type Icon struct {
	iconOptions

	src       string
	iconImage *IconImage

	mu       sync.Mutex
	sprite   image.Image
	spriteOf image.Image
}

var _ Image = (*Icon)(nil)

// NewIcon creates an icon for src.
func NewIcon(src string, opts ...IconOption) *Icon {
	o := defaultIconOptions()
	for _, opt := range opts {
		opt(&o)
	}
	ic := &Icon{iconOptions: o, src: src}
	switch {
	case o.img != nil:
		ic.iconImage = newLoadedIconImage(src, o.img)
	case o.cache != nil:
		ic.iconImage = o.cache.Get(src, o.crossOrigin)
		if ic.iconImage == nil {
			ic.iconImage = NewIconImage(src, o.crossOrigin, o.loader)
			o.cache.Set(src, o.crossOrigin, ic.iconImage)
		}
	default:
		ic.iconImage = NewIconImage(src, o.crossOrigin, o.loader)
	}
	return ic
}

// Src returns the image source.
func (ic *Icon) Src() string { return ic.src }

// IconImage returns the shared image holder.
func (ic *Icon) IconImage() *IconImage { return ic.iconImage }

// Size returns the explicit size, or the image size once loaded.
func (ic *Icon) Size() (width, height float64, ok bool) {
	if ic.hasSize {
		return ic.size[0], ic.size[1], true
	}
	return ic.iconImage.Size()
}

// Anchor returns the anchor in pixels from the top-left corner.
func (ic *Icon) Anchor() (x, y float64, ok bool) {
	x, y = ic.anchor[0], ic.anchor[1]
	needSize := ic.anchorXUnits == AnchorFraction || ic.anchorYUnits == AnchorFraction ||
		ic.anchorOrigin != AnchorTopLeft
	if !needSize {
		return x, y, true
	}
	w, h, ok := ic.Size()
	if !ok {
		return 0, 0, false
	}
	if ic.anchorXUnits == AnchorFraction {
		x *= w
	}
	if ic.anchorYUnits == AnchorFraction {
		y *= h
	}
	if ic.anchorOrigin == AnchorTopRight || ic.anchorOrigin == AnchorBottomRight {
		x = w - x
	}
	if ic.anchorOrigin == AnchorBottomLeft || ic.anchorOrigin == AnchorBottomRight {
		y = h - y
	}
	return x, y, true
}

// Image returns the icon pixels, cropped to the sprite when an offset or
// size is set.
func (ic *Icon) Image(float64) image.Image {
	return ic.crop(ic.iconImage.Image())
}

// HitDetectionImage returns the hit detection pixels, cropped like Image.
func (ic *Icon) HitDetectionImage(float64) image.Image {
	hit := ic.iconImage.HitDetectionImage()
	if hit == nil {
		return nil
	}
	if hit == ic.iconImage.Image() {
		return ic.Image(1)
	}
	return ic.cropRect(hit)
}

func (ic *Icon) crop(img image.Image) image.Image {
	if img == nil || (!ic.hasSize && ic.offset == [2]float64{}) {
		return img
	}
	ic.mu.Lock()
	defer ic.mu.Unlock()
	if ic.spriteOf != img {
		ic.sprite = ic.cropRect(img)
		ic.spriteOf = img
	}
	return ic.sprite
}

func (ic *Icon) cropRect(img image.Image) image.Image {
	if !ic.hasSize && ic.offset == [2]float64{} {
		return img
	}
	b := img.Bounds()
	origin := b.Min.Add(image.Pt(int(math.Round(ic.offset[0])), int(math.Round(ic.offset[1]))))
	r := image.Rectangle{Min: origin, Max: b.Max}
	if ic.hasSize {
		r.Max = origin.Add(image.Pt(int(math.Round(ic.size[0])), int(math.Round(ic.size[1]))))
	}
	r = r.Intersect(b)
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Copy(dst, image.Point{}, img, r, draw.Src, nil)
	return dst
}

// ImageState returns the load state of the underlying image.
func (ic *Icon) ImageState() ImageState { return ic.iconImage.State() }

// Load starts loading the underlying image if it is idle.
func (ic *Icon) Load() { ic.iconImage.Load() }

// Listen registers fn for state changes of the underlying image.
func (ic *Icon) Listen(owner any, fn event.Listener) { ic.iconImage.Listen(owner, fn) }

// Unlisten removes the listener registered by owner.
func (ic *Icon) Unlisten(owner any) bool { return ic.iconImage.Unlisten(owner) }
