// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"slices"

	"github.com/gogpu/ggmap"
	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/layer"
	"github.com/gogpu/ggmap/render/immediate"
	"github.com/gogpu/ggmap/style"
	"github.com/gogpu/ggmap/surface"
	"github.com/gogpu/ggmap/view"
)

// MapOption configures a Map.
type MapOption func(*mapOptions)

type mapOptions struct {
	newSurface surface.Factory
	redraw     func()
	iconCache  *style.IconImageCache
	pixelRatio float64
}

func defaultMapOptions() mapOptions {
	return mapOptions{pixelRatio: 1}
}

// WithSurfaceFactory sets the factory of the layers' hit-detection
// surfaces.
func WithSurfaceFactory(f surface.Factory) MapOption {
	return func(o *mapOptions) { o.newSurface = f }
}

// WithRedraw sets a function called when the map needs to be drawn again
// because an icon finished loading. It may be called from any goroutine.
func WithRedraw(fn func()) MapOption {
	return func(o *mapOptions) { o.redraw = fn }
}

// WithIconCache sets a cache that is swept after every frame.
func WithIconCache(c *style.IconImageCache) MapOption {
	return func(o *mapOptions) { o.iconCache = c }
}

// WithPixelRatio sets the device pixels per CSS pixel used by Render.
func WithPixelRatio(ratio float64) MapOption {
	return func(o *mapOptions) { o.pixelRatio = ratio }
}

// Map draws an ordered stack of vector layers through a view.
//
// Layers draw back to front in the order they were added. Hit detection
// visits them front to back.
type Map struct {
	opts      mapOptions
	view      *view.View
	layers    []*layer.Vector
	renderers map[*layer.Vector]*layer.VectorRenderer
	skipped   map[*feature.Feature]struct{}

	preCompose  []layer.ComposeHook
	postCompose []layer.ComposeHook
}

// NewMap creates a map looking through v.
func NewMap(v *view.View, opts ...MapOption) *Map {
	o := defaultMapOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Map{
		opts:      o,
		view:      v,
		renderers: make(map[*layer.Vector]*layer.VectorRenderer),
		skipped:   make(map[*feature.Feature]struct{}),
	}
}

// View returns the view.
func (m *Map) View() *view.View { return m.view }

// Layers returns the layers, bottom first.
func (m *Map) Layers() []*layer.Vector { return slices.Clone(m.layers) }

// AddLayer puts l on top of the stack.
func (m *Map) AddLayer(l *layer.Vector) {
	if _, ok := m.renderers[l]; ok {
		return
	}
	m.layers = append(m.layers, l)
	m.renderers[l] = layer.NewVectorRenderer(l,
		layer.WithSurfaceFactory(m.opts.newSurface),
		layer.WithRedraw(m.opts.redraw))
}

// RemoveLayer removes l and disposes of its renderer. It reports whether
// l was on the map.
func (m *Map) RemoveLayer(l *layer.Vector) bool {
	r, ok := m.renderers[l]
	if !ok {
		return false
	}
	r.Dispose()
	delete(m.renderers, l)
	m.layers = slices.DeleteFunc(m.layers, func(x *layer.Vector) bool { return x == l })
	return true
}

// Renderer returns the renderer of l, or nil if l is not on the map.
func (m *Map) Renderer(l *layer.Vector) *layer.VectorRenderer { return m.renderers[l] }

// Skip hides f from drawing and hit detection.
func (m *Map) Skip(f *feature.Feature) { m.skipped[f] = struct{}{} }

// Unskip shows a feature hidden by Skip.
func (m *Map) Unskip(f *feature.Feature) { delete(m.skipped, f) }

// OnPreCompose adds a hook that draws before every layer.
func (m *Map) OnPreCompose(h layer.ComposeHook) { m.preCompose = append(m.preCompose, h) }

// OnPostCompose adds a hook that draws after every layer.
func (m *Map) OnPostCompose(h layer.ComposeHook) { m.postCompose = append(m.postCompose, h) }

// Frame returns the state of a frame of width x height CSS pixels, with
// the skipped features filled in.
func (m *Map) Frame(width, height int, pixelRatio float64) *view.FrameState {
	frame := m.view.Frame(width, height, pixelRatio)
	for f := range m.skipped {
		frame.Skipped[f.UID()] = struct{}{}
	}
	return frame
}

// Render clears s and draws a frame that fills it. It returns the frame
// so that hit detection can use the same state.
func (m *Map) Render(s surface.Surface) *view.FrameState {
	ratio := m.opts.pixelRatio
	frame := m.Frame(int(float64(s.Width())/ratio), int(float64(s.Height())/ratio), ratio)
	m.RenderFrame(s, frame)
	return frame
}

// RenderFrame clears s and draws every visible layer onto it.
func (m *Map) RenderFrame(s surface.Surface, frame *view.FrameState) {
	s.Clear()
	m.dispatchCompose(m.preCompose, s, frame)
	for _, l := range m.layers {
		if !l.Visible() {
			continue
		}
		r := m.renderers[l]
		if r.PrepareFrame(frame) {
			ggmap.Logger().Debug("render: layer compiled", "layer", l.Name(), "resolution", frame.Resolution)
		}
		r.ComposeFrame(s, frame)
	}
	m.dispatchCompose(m.postCompose, s, frame)
	if m.opts.iconCache != nil {
		if n := m.opts.iconCache.Sweep(); n > 0 {
			ggmap.Logger().Debug("render: icon cache swept", "evicted", n)
		}
	}
}

func (m *Map) dispatchCompose(hooks []layer.ComposeHook, s surface.Surface, frame *view.FrameState) {
	if len(hooks) == 0 {
		return
	}
	ir := immediate.New(s, frame.PixelRatio, frame.Extent, frame.Transform(), frame.Rotation)
	for _, h := range hooks {
		h(ir, frame)
	}
	ir.Flush()
}

// ForEachFeatureAtPixel calls cb for every feature drawn at CSS pixel
// (x, y) of frame, topmost layer first, until cb returns non-nil.
func (m *Map) ForEachFeatureAtPixel(x, y float64, frame *view.FrameState, cb layer.FeatureCallback) (any, error) {
	cx, cy := frame.PixelToCoord(x, y)
	for _, l := range slices.Backward(m.layers) {
		if !l.Visible() {
			continue
		}
		res, err := m.renderers[l].ForEachFeatureAtPixel(cx, cy, frame, cb)
		if err != nil || res != nil {
			return res, err
		}
	}
	return nil, nil
}

// FeaturesAtPixel returns every feature drawn at CSS pixel (x, y),
// topmost first.
func (m *Map) FeaturesAtPixel(x, y float64, frame *view.FrameState) ([]*feature.Feature, error) {
	var found []*feature.Feature
	_, err := m.ForEachFeatureAtPixel(x, y, frame, func(f *feature.Feature, _ *layer.Vector) any {
		found = append(found, f)
		return nil
	})
	return found, err
}
