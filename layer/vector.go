// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package layer provides vector layers and their renderer.
//
// A Vector layer pairs a feature source with a style function. Its
// VectorRenderer compiles the features around the frame into a replay
// group once and reuses it while the view only pans within the compiled
// area:
//
//	l := layer.NewVector(src, layer.WithStyleFunction(styleFn))
//	r := layer.NewVectorRenderer(l)
//	r.PrepareFrame(frame)
//	r.ComposeFrame(s, frame)
package layer

import (
	"github.com/gogpu/ggmap/event"
	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/render/immediate"
	"github.com/gogpu/ggmap/source"
	"github.com/gogpu/ggmap/style"
	"github.com/gogpu/ggmap/view"
)

// RenderOrder compares two features. Features that compare lower are
// drawn first.
type RenderOrder func(a, b *feature.Feature) int

// ComposeHook draws on top of, or below, a layer with an immediate
// renderer. Calls are flushed after the hook returns.
type ComposeHook func(r *immediate.Renderer, frame *view.FrameState)

// VectorOption configures a Vector layer.
type VectorOption func(*vectorOptions)

type vectorOptions struct {
	name          string
	styleFunction style.StyleFunction
	renderOrder   RenderOrder
	opacity       float64
	visible       bool
}

func defaultVectorOptions() vectorOptions {
	return vectorOptions{opacity: 1, visible: true}
}

// WithName names the layer in log output.
func WithName(name string) VectorOption {
	return func(o *vectorOptions) { o.name = name }
}

// WithStyleFunction sets the style function. The default is
// style.DefaultStyleFunction.
func WithStyleFunction(fn style.StyleFunction) VectorOption {
	return func(o *vectorOptions) { o.styleFunction = fn }
}

// WithRenderOrder sorts features before they are drawn.
func WithRenderOrder(order RenderOrder) VectorOption {
	return func(o *vectorOptions) { o.renderOrder = order }
}

// WithOpacity sets the layer opacity in [0, 1].
func WithOpacity(opacity float64) VectorOption {
	return func(o *vectorOptions) { o.opacity = opacity }
}

// WithVisible sets the initial visibility.
func WithVisible(visible bool) VectorOption {
	return func(o *vectorOptions) { o.visible = visible }
}

// Vector is a layer of features drawn from a vector source.
type Vector struct {
	name          string
	source        *source.Vector
	styleFunction style.StyleFunction
	renderOrder   RenderOrder
	opacity       float64
	visible       bool

	revision uint64
	// orderRevision changes with every SetRenderOrder, since functions
	// cannot be compared.
	orderRevision uint64

	preCompose  []ComposeHook
	postCompose []ComposeHook

	listeners event.Target
}

// NewVector creates a layer drawing the features of src.
func NewVector(src *source.Vector, opts ...VectorOption) *Vector {
	o := defaultVectorOptions()
	for _, opt := range opts {
		opt(&o)
	}
	l := &Vector{
		name:          o.name,
		source:        src,
		styleFunction: o.styleFunction,
		renderOrder:   o.renderOrder,
		opacity:       o.opacity,
		visible:       o.visible,
	}
	src.Listen(l, l.changed)
	return l
}

func (l *Vector) changed() {
	l.revision++
	l.listeners.Dispatch()
}

// Name returns the layer name.
func (l *Vector) Name() string { return l.name }

// Source returns the feature source.
func (l *Vector) Source() *source.Vector { return l.source }

// Revision increases when the features, styles or render order change.
func (l *Vector) Revision() uint64 { return l.revision }

// Listen registers fn to run on every change.
func (l *Vector) Listen(owner any, fn event.Listener) { l.listeners.Listen(owner, fn) }

// Unlisten removes the listener registered by owner.
func (l *Vector) Unlisten(owner any) bool { return l.listeners.Unlisten(owner) }

// StyleFunction returns the style function, falling back to
// style.DefaultStyleFunction.
func (l *Vector) StyleFunction() style.StyleFunction {
	if l.styleFunction == nil {
		return style.DefaultStyleFunction
	}
	return l.styleFunction
}

// SetStyleFunction replaces the style function.
func (l *Vector) SetStyleFunction(fn style.StyleFunction) {
	l.styleFunction = fn
	l.changed()
}

// RenderOrder returns the render order, or nil for source order.
func (l *Vector) RenderOrder() RenderOrder { return l.renderOrder }

// SetRenderOrder replaces the render order. nil draws in source order.
func (l *Vector) SetRenderOrder(order RenderOrder) {
	l.renderOrder = order
	l.orderRevision++
	l.changed()
}

// Opacity returns the layer opacity.
func (l *Vector) Opacity() float64 { return l.opacity }

// SetOpacity changes the layer opacity.
func (l *Vector) SetOpacity(opacity float64) {
	l.opacity = opacity
	l.listeners.Dispatch()
}

// Visible reports whether the layer is drawn.
func (l *Vector) Visible() bool { return l.visible }

// SetVisible shows or hides the layer.
func (l *Vector) SetVisible(visible bool) {
	l.visible = visible
	l.listeners.Dispatch()
}

// OnPreCompose adds a hook that draws before the layer.
func (l *Vector) OnPreCompose(h ComposeHook) { l.preCompose = append(l.preCompose, h) }

// OnPostCompose adds a hook that draws after the layer.
func (l *Vector) OnPostCompose(h ComposeHook) { l.postCompose = append(l.postCompose, h) }

// Dispose stops listening to the source.
func (l *Vector) Dispose() {
	l.source.Unlisten(l)
}
