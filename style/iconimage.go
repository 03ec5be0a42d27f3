// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package style

import (
	"context"
	"image"
	"sync"

	"github.com/cockroachdb/errors"
	"golang.org/x/image/draw"

	"github.com/gogpu/ggmap"
	"github.com/gogpu/ggmap/event"
)

// IconImage holds the pixels behind one or more icons. Icons with the same
// source and cross-origin mode share an IconImage through an
// IconImageCache.
//
// IconImage is safe for concurrent use.
type IconImage struct {
	src         string
	crossOrigin string
	loader      Loader

	mu       sync.Mutex
	state    ImageState
	img      image.Image
	hitImage image.Image
	err      error
	done     chan struct{}

	listeners event.Target
}

// NewIconImage creates an idle icon image.
func NewIconImage(src, crossOrigin string, loader Loader) *IconImage {
	if loader == nil {
		loader = DefaultLoader
	}
	return &IconImage{
		src:         src,
		crossOrigin: crossOrigin,
		loader:      loader,
		done:        make(chan struct{}),
	}
}

// newLoadedIconImage wraps pixels that are already in memory.
func newLoadedIconImage(src string, img image.Image) *IconImage {
	i := NewIconImage(src, "", nil)
	i.setLoaded(img)
	close(i.done)
	return i
}

// Src returns the image source.
func (i *IconImage) Src() string { return i.src }

// CrossOrigin returns the cross-origin mode.
func (i *IconImage) CrossOrigin() string { return i.crossOrigin }

// State returns the load state.
func (i *IconImage) State() ImageState {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}

// Err returns the load error once the state is ImageStateError.
func (i *IconImage) Err() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.err
}

// Image returns the decoded image, or nil before it is loaded.
func (i *IconImage) Image() image.Image {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.img
}

// HitDetectionImage returns the image used for hit detection. For a
// remote image fetched without a cross-origin mode this is an opaque
// rectangle of the same size, since its pixels are not trusted.
func (i *IconImage) HitDetectionImage() image.Image {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.hitImage
}

// Size returns the image size once loaded.
func (i *IconImage) Size() (width, height float64, ok bool) {
	img := i.Image()
	if img == nil {
		return 0, 0, false
	}
	b := img.Bounds()
	return float64(b.Dx()), float64(b.Dy()), true
}

// Load starts loading an idle image on a new goroutine.
func (i *IconImage) Load() {
	i.mu.Lock()
	if i.state != ImageStateIdle {
		i.mu.Unlock()
		return
	}
	i.state = ImageStateLoading
	i.mu.Unlock()
	i.listeners.Dispatch()

	go func() {
		img, err := i.loader.Load(context.Background(), i.src)
		i.finish(img, err)
	}()
}

func (i *IconImage) finish(img image.Image, err error) {
	if err == nil && img == nil {
		err = errors.Newf("style: loader returned no image for %s", i.src)
	}
	if err != nil {
		ggmap.Logger().Warn("style: icon load failed", "src", i.src, "err", err)
		i.mu.Lock()
		i.state = ImageStateError
		i.err = err
		i.mu.Unlock()
	} else {
		i.setLoaded(img)
	}
	close(i.done)
	i.listeners.Dispatch()
}

func (i *IconImage) setLoaded(img image.Image) {
	hit := img
	if isRemote(i.src) && i.crossOrigin == "" {
		b := img.Bounds()
		rect := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rect, rect.Bounds(), image.Black, image.Point{}, draw.Src)
		hit = rect
	}
	i.mu.Lock()
	i.state = ImageStateLoaded
	i.img = img
	i.hitImage = hit
	i.mu.Unlock()
}

// Wait blocks until a started load completes or ctx is done. It returns
// the load error, if any. Waiting on an idle image returns immediately.
func (i *IconImage) Wait(ctx context.Context) error {
	if i.State() == ImageStateIdle {
		return nil
	}
	select {
	case <-i.done:
		return i.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Listen registers fn to run on every state change.
func (i *IconImage) Listen(owner any, fn event.Listener) { i.listeners.Listen(owner, fn) }

// Unlisten removes the listener registered by owner.
func (i *IconImage) Unlisten(owner any) bool { return i.listeners.Unlisten(owner) }

// HasListeners reports whether anything listens to the image. The cache
// treats such images as referenced.
func (i *IconImage) HasListeners() bool { return i.listeners.HasListeners() }
