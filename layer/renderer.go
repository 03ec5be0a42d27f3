// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package layer

import (
	"context"
	"log/slog"
	"math"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/gogpu/ggmap"
	"github.com/gogpu/ggmap/extent"
	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/render/immediate"
	"github.com/gogpu/ggmap/render/replay"
	"github.com/gogpu/ggmap/style"
	"github.com/gogpu/ggmap/surface"
	"github.com/gogpu/ggmap/transform"
	"github.com/gogpu/ggmap/view"
)

// FeatureCallback is called for each feature found at a pixel. A non-nil
// result stops the search and is returned.
type FeatureCallback func(f *feature.Feature, l *Vector) any

// RendererOption configures a VectorRenderer.
type RendererOption func(*VectorRenderer)

// WithSurfaceFactory sets the factory of the hit-detection surface.
func WithSurfaceFactory(f surface.Factory) RendererOption {
	return func(r *VectorRenderer) { r.newSurface = f }
}

// WithRedraw sets a function called when a pending icon finishes loading.
// It may be called from any goroutine.
func WithRedraw(fn func()) RendererOption {
	return func(r *VectorRenderer) { r.redraw = fn }
}

// VectorRenderer compiles and draws a Vector layer.
//
// PrepareFrame, ComposeFrame and ForEachFeatureAtPixel must be called
// from one goroutine. Icon load notifications may arrive from others.
type VectorRenderer struct {
	layer      *Vector
	newSurface surface.Factory
	redraw     func()

	// dirty is set while icons used by the compiled group are loading.
	dirty atomic.Bool

	prepared              bool
	renderedResolution    float64
	renderedRevision      uint64
	renderedOrderRevision uint64
	renderedExtent        extent.Extent

	group    *replay.Group
	features map[uuid.UUID]*feature.Feature

	mu        sync.Mutex
	listening map[style.Image]struct{}
}

// NewVectorRenderer creates a renderer for l.
func NewVectorRenderer(l *Vector, opts ...RendererOption) *VectorRenderer {
	r := &VectorRenderer{
		layer:              l,
		renderedResolution: math.NaN(),
		renderedExtent:     extent.CreateEmpty(),
		listening:          make(map[style.Image]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Layer returns the rendered layer.
func (r *VectorRenderer) Layer() *Vector { return r.layer }

// Group returns the compiled replay group, or nil before the first frame.
func (r *VectorRenderer) Group() *replay.Group { return r.group }

// Dirty reports whether the next PrepareFrame must recompile.
func (r *VectorRenderer) Dirty() bool { return r.dirty.Load() }

// PrepareFrame recompiles the replay group unless the one compiled for an
// earlier frame can still draw this one. It reports whether it
// recompiled.
//
// The group is reused when no icon was pending and the resolution, the
// layer revision and the render order are unchanged and the frame extent
// lies within the compiled extent. While the view is animating or being
// interacted with, an existing group is always reused.
func (r *VectorRenderer) PrepareFrame(frame *view.FrameState) bool {
	l := r.layer
	dirty := r.dirty.Load()
	if !dirty && r.group != nil && (frame.Animating || frame.Interacting) {
		return false
	}
	if !dirty && r.prepared &&
		r.renderedResolution == frame.Resolution &&
		r.renderedRevision == l.Revision() &&
		r.renderedOrderRevision == l.orderRevision &&
		r.renderedExtent.ContainsExtent(frame.Extent) {
		return false
	}

	xBuffer := frame.Extent.Width() / 4
	yBuffer := frame.Extent.Height() / 4
	e := extent.New(frame.Extent.MinX()-xBuffer, frame.Extent.MinY()-yBuffer,
		frame.Extent.MaxX()+xBuffer, frame.Extent.MaxY()+yBuffer)

	r.dispose()
	r.dirty.Store(false)

	resolution, pixelRatio := frame.Resolution, frame.PixelRatio
	styleFn := l.StyleFunction()
	group := replay.NewGroup(resolution/(2*pixelRatio), e, resolution, r.newSurface)
	features := make(map[uuid.UUID]*feature.Feature)
	l.source.LoadFeatures(e, resolution, frame.Projection)

	loading := false
	render := func(f *feature.Feature) bool {
		features[f.UID()] = f
		loading = r.renderFeature(f, resolution, pixelRatio, styleFn, group) || loading
		return true
	}
	if order := l.RenderOrder(); order != nil {
		var candidates []*feature.Feature
		l.source.ForEachFeatureInExtentAtResolution(e, resolution, func(f *feature.Feature) bool {
			candidates = append(candidates, f)
			return true
		})
		slices.SortStableFunc(candidates, order)
		for _, f := range candidates {
			render(f)
		}
	} else {
		l.source.ForEachFeatureInExtentAtResolution(e, resolution, render)
	}
	group.Finish()
	if loading {
		r.dirty.Store(true)
	}

	r.prepared = true
	r.renderedResolution = resolution
	r.renderedRevision = l.Revision()
	r.renderedOrderRevision = l.orderRevision
	r.renderedExtent = e
	r.group = group
	r.features = features

	if log := ggmap.Logger(); log.Enabled(context.Background(), slog.LevelDebug) {
		instructions, hits := group.InstructionCount()
		log.Debug("layer: compiled frame",
			"layer", l.Name(), "features", len(features), "zIndices", group.ZIndices(),
			"instructions", instructions, "hitInstructions", hits, "loading", loading)
	}
	return true
}

// renderFeature adds every style of f to group. It reports whether an icon
// used by f is still loading. A feature that panics is logged and skipped.
func (r *VectorRenderer) renderFeature(f *feature.Feature, resolution, pixelRatio float64, styleFn style.StyleFunction, group *replay.Group) (loading bool) {
	defer func() {
		if p := recover(); p != nil {
			ggmap.Logger().Warn("layer: feature not rendered",
				"layer", r.layer.Name(), "feature", f.ID(), "panic", p)
			loading = false
		}
	}()
	styles := styleFn(f, resolution)
	if len(styles) == 0 {
		return false
	}
	g := f.Geometry()
	if g == nil {
		return false
	}
	// half a device pixel
	squaredTolerance := resolution * resolution / (4 * pixelRatio * pixelRatio)
	simplified := g.SimplifiedGeometry(squaredTolerance)
	// nothing reaches the group unless the whole geometry can be drawn
	if err := checkRenderable(simplified); err != nil {
		ggmap.Logger().Warn("layer: feature not rendered",
			"layer", r.layer.Name(), "feature", f.ID(), "err", err)
		return false
	}
	for _, st := range styles {
		if st == nil {
			continue
		}
		loading = r.renderStyle(group, simplified, st, f.UID()) || loading
	}
	return loading
}

// renderStyle draws g with st unless st waits for an icon, in which case
// the renderer listens for the icon and reports true. A failed icon is
// left out and the rest of the style is drawn.
func (r *VectorRenderer) renderStyle(group *replay.Group, g geom.Geometry, st *style.Style, data uuid.UUID) bool {
	img := st.Image
	if img == nil {
		renderGeometry(group, g, st, data)
		return false
	}
	switch img.ImageState() {
	case style.ImageStateLoaded:
		r.unlistenImage(img)
		renderGeometry(group, g, st, data)
		return false
	case style.ImageStateError:
		r.unlistenImage(img)
		withoutImage := *st
		withoutImage.Image = nil
		renderGeometry(group, g, &withoutImage, data)
		return false
	case style.ImageStateIdle:
		img.Load()
	}
	r.listenImage(img)
	if state := img.ImageState(); state == style.ImageStateLoaded || state == style.ImageStateError {
		// finished before the listener was registered
		r.handleImageChange()
	}
	return true
}

func (r *VectorRenderer) listenImage(img style.Image) {
	r.mu.Lock()
	r.listening[img] = struct{}{}
	r.mu.Unlock()
	img.Listen(r, r.handleImageChange)
}

func (r *VectorRenderer) unlistenImage(img style.Image) {
	r.mu.Lock()
	_, ok := r.listening[img]
	delete(r.listening, img)
	r.mu.Unlock()
	if ok {
		img.Unlisten(r)
	}
}

func (r *VectorRenderer) handleImageChange() {
	r.dirty.Store(true)
	if r.redraw != nil {
		r.redraw()
	}
}

// ComposeFrame draws the compiled group onto s at the layer opacity,
// between the layer's pre- and post-compose hooks.
func (r *VectorRenderer) ComposeFrame(s surface.Surface, frame *view.FrameState) {
	t := frame.Transform()
	r.dispatchCompose(r.layer.preCompose, s, frame, t)
	if r.group != nil && !r.group.IsEmpty() {
		s.Save()
		s.SetGlobalAlpha(r.layer.Opacity())
		r.group.Replay(s, frame.Extent, frame.PixelRatio, t, frame.Rotation, frame.Skipped)
		s.Restore()
	}
	r.dispatchCompose(r.layer.postCompose, s, frame, t)
}

func (r *VectorRenderer) dispatchCompose(hooks []ComposeHook, s surface.Surface, frame *view.FrameState, t transform.Transform) {
	if len(hooks) == 0 {
		return
	}
	ir := immediate.New(s, frame.PixelRatio, frame.Extent, t, frame.Rotation)
	for _, h := range hooks {
		h(ir, frame)
	}
	ir.Flush()
}

// ForEachFeatureAtPixel calls cb for every feature drawn at map coordinate
// (x, y), topmost first, until cb returns non-nil.
func (r *VectorRenderer) ForEachFeatureAtPixel(x, y float64, frame *view.FrameState, cb FeatureCallback) (any, error) {
	if r.group == nil {
		return nil, nil
	}
	return r.group.ForEachGeometryAtPixel(frame.Extent, frame.Resolution, frame.Rotation, x, y, frame.Skipped,
		func(_ geom.Geometry, data uuid.UUID) any {
			f, ok := r.features[data]
			if !ok {
				return nil
			}
			return cb(f, r.layer)
		})
}

func (r *VectorRenderer) dispose() {
	r.mu.Lock()
	images := make([]style.Image, 0, len(r.listening))
	for img := range r.listening {
		images = append(images, img)
	}
	clear(r.listening)
	r.mu.Unlock()
	for _, img := range images {
		img.Unlisten(r)
	}
	r.group = nil
	r.features = nil
}

// Dispose releases the compiled group and stops listening to icons.
func (r *VectorRenderer) Dispose() {
	r.dispose()
	r.prepared = false
}
