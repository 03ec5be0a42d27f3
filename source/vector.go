// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package source provides feature sources for vector layers.
package source

import (
	"math"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/dhconnelly/rtreego"

	"github.com/gogpu/ggmap"
	"github.com/gogpu/ggmap/event"
	"github.com/gogpu/ggmap/extent"
	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/proj"
)

// Loader fetches the features of an extent. It is called by LoadFeatures
// at most once for any extent already covered by a successful load.
type Loader func(e extent.Extent, resolution float64, projection *proj.Projection) ([]*feature.Feature, error)

// Option configures a Vector source.
type Option func(*vectorOptions)

type vectorOptions struct {
	features   []*feature.Feature
	loader     Loader
	projection *proj.Projection
}

// WithFeatures adds features to the new source.
func WithFeatures(features ...*feature.Feature) Option {
	return func(o *vectorOptions) { o.features = append(o.features, features...) }
}

// WithLoader sets the function that loads features on demand.
func WithLoader(l Loader) Option {
	return func(o *vectorOptions) { o.loader = l }
}

// WithProjection sets the projection of the feature coordinates.
func WithProjection(p *proj.Projection) Option {
	return func(o *vectorOptions) { o.projection = p }
}

// minLength pads degenerate bounds, since rtreego rejects zero-sized
// rectangles.
const minLength = 1e-9

// item is a feature stored in the spatial index. rect is kept so the item
// can be found again after its geometry moved.
type item struct {
	f    *feature.Feature
	id   string
	seq  uint64
	rect rtreego.Rect
}

func (it *item) Bounds() rtreego.Rect { return it.rect }

// Vector is an in-memory feature source backed by an R-tree.
//
// Features without a geometry are kept but never returned by extent
// queries. Vector is not safe for concurrent use.
type Vector struct {
	tree     *rtreego.Rtree
	items    map[*feature.Feature]*item
	nullGeom map[*feature.Feature]*item
	byID     map[string]*feature.Feature

	seq      uint64
	revision uint64
	loaded   []extent.Extent

	loader     Loader
	projection *proj.Projection
	listeners  event.Target
}

// NewVector creates a source.
func NewVector(opts ...Option) *Vector {
	var o vectorOptions
	for _, opt := range opts {
		opt(&o)
	}
	v := &Vector{
		tree:       rtreego.NewTree(2, 25, 50),
		items:      make(map[*feature.Feature]*item),
		nullGeom:   make(map[*feature.Feature]*item),
		byID:       make(map[string]*feature.Feature),
		loader:     o.loader,
		projection: o.projection,
	}
	if v.projection == nil {
		v.projection = proj.EPSG3857
	}
	v.addFeatures(o.features)
	return v
}

// Projection returns the projection of the feature coordinates.
func (v *Vector) Projection() *proj.Projection { return v.projection }

// Revision increases whenever a feature is added, removed or changed.
func (v *Vector) Revision() uint64 { return v.revision }

// Listen registers fn to run on every change.
func (v *Vector) Listen(owner any, fn event.Listener) { v.listeners.Listen(owner, fn) }

// Unlisten removes the listener registered by owner.
func (v *Vector) Unlisten(owner any) bool { return v.listeners.Unlisten(owner) }

func (v *Vector) changed() {
	v.revision++
	v.listeners.Dispatch()
}

// AddFeature adds f. Adding a feature twice has no effect.
func (v *Vector) AddFeature(f *feature.Feature) {
	if v.addFeature(f) {
		v.changed()
	}
}

// AddFeatures adds every feature and notifies listeners once.
func (v *Vector) AddFeatures(features []*feature.Feature) {
	if v.addFeatures(features) {
		v.changed()
	}
}

func (v *Vector) addFeatures(features []*feature.Feature) bool {
	added := false
	for _, f := range features {
		added = v.addFeature(f) || added
	}
	return added
}

func (v *Vector) addFeature(f *feature.Feature) bool {
	if _, ok := v.items[f]; ok {
		return false
	}
	if _, ok := v.nullGeom[f]; ok {
		return false
	}
	v.seq++
	it := &item{f: f, seq: v.seq}
	v.index(it)
	v.setID(it)
	f.Listen(v, func() { v.featureChanged(f) })
	return true
}

func (v *Vector) index(it *item) {
	g := it.f.Geometry()
	if g == nil || g.Extent().IsEmpty() {
		v.nullGeom[it.f] = it
		return
	}
	it.rect = toRect(g.Extent())
	v.items[it.f] = it
	v.tree.Insert(it)
}

func (v *Vector) unindex(f *feature.Feature) (*item, bool) {
	if it, ok := v.nullGeom[f]; ok {
		delete(v.nullGeom, f)
		return it, true
	}
	it, ok := v.items[f]
	if !ok {
		return nil, false
	}
	delete(v.items, f)
	v.tree.Delete(it)
	return it, true
}

func (v *Vector) featureChanged(f *feature.Feature) {
	it, ok := v.unindex(f)
	if !ok {
		return
	}
	v.index(it)
	v.setID(it)
	v.changed()
}

func (v *Vector) setID(it *item) {
	if it.id != "" && v.byID[it.id] == it.f {
		delete(v.byID, it.id)
	}
	it.id = it.f.ID()
	if it.id != "" {
		v.byID[it.id] = it.f
	}
}

// RemoveFeature removes f. It reports whether f was in the source.
func (v *Vector) RemoveFeature(f *feature.Feature) bool {
	it, ok := v.unindex(f)
	if !ok {
		return false
	}
	f.Unlisten(v)
	if it.id != "" && v.byID[it.id] == f {
		delete(v.byID, it.id)
	}
	v.changed()
	return true
}

// Clear removes every feature and forgets which extents were loaded.
func (v *Vector) Clear() {
	for f := range v.items {
		f.Unlisten(v)
	}
	for f := range v.nullGeom {
		f.Unlisten(v)
	}
	v.tree = rtreego.NewTree(2, 25, 50)
	clear(v.items)
	clear(v.nullGeom)
	clear(v.byID)
	v.loaded = v.loaded[:0]
	v.changed()
}

// Len returns the number of features.
func (v *Vector) Len() int { return len(v.items) + len(v.nullGeom) }

// FeatureByID returns the feature with the given id.
func (v *Vector) FeatureByID(id string) (*feature.Feature, bool) {
	f, ok := v.byID[id]
	return f, ok
}

// Features returns every feature in insertion order.
func (v *Vector) Features() []*feature.Feature {
	its := make([]*item, 0, v.Len())
	for _, it := range v.items {
		its = append(its, it)
	}
	for _, it := range v.nullGeom {
		its = append(its, it)
	}
	return sortedFeatures(its)
}

// ForEachFeature calls fn for every feature in insertion order until fn
// returns false.
func (v *Vector) ForEachFeature(fn func(*feature.Feature) bool) {
	for _, f := range v.Features() {
		if !fn(f) {
			return
		}
	}
}

// ForEachFeatureInExtent calls fn for every feature whose geometry extent
// intersects e, in insertion order, until fn returns false.
func (v *Vector) ForEachFeatureInExtent(e extent.Extent, fn func(*feature.Feature) bool) {
	if e.IsEmpty() || v.tree.Size() == 0 {
		return
	}
	found := v.tree.SearchIntersect(toRect(e))
	its := make([]*item, 0, len(found))
	for _, s := range found {
		// index rectangles are padded, so recheck the exact extent
		if it := s.(*item); e.Intersects(it.f.Geometry().Extent()) {
			its = append(its, it)
		}
	}
	for _, f := range sortedFeatures(its) {
		if !fn(f) {
			return
		}
	}
}

// ForEachFeatureInExtentAtResolution is ForEachFeatureInExtent. The
// resolution is accepted for sources that vary content with scale.
func (v *Vector) ForEachFeatureInExtentAtResolution(e extent.Extent, _ float64, fn func(*feature.Feature) bool) {
	v.ForEachFeatureInExtent(e, fn)
}

// Extent returns the extent of every feature geometry.
func (v *Vector) Extent() extent.Extent {
	e := extent.CreateEmpty()
	for _, it := range v.items {
		e.Extend(it.f.Geometry().Extent())
	}
	return e
}

// LoadFeatures runs the loader for e unless an earlier successful load
// already covers it. Loader errors are logged and the extent is retried
// on the next call.
func (v *Vector) LoadFeatures(e extent.Extent, resolution float64, projection *proj.Projection) {
	if v.loader == nil {
		return
	}
	for _, done := range v.loaded {
		if done.ContainsExtent(e) {
			return
		}
	}
	features, err := v.loader(e, resolution, projection)
	if err != nil {
		ggmap.Logger().Warn("source: load features", "extent", e, "err", err)
		return
	}
	v.loaded = append(v.loaded, e)
	ggmap.Logger().Debug("source: loaded features", "extent", e, "count", len(features))
	v.AddFeatures(features)
}

func sortedFeatures(its []*item) []*feature.Feature {
	slices.SortFunc(its, func(a, b *item) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})
	features := make([]*feature.Feature, len(its))
	for i, it := range its {
		features[i] = it.f
	}
	return features
}

// maxOrdinate bounds query rectangles so that infinite extents keep
// finite widths.
const maxOrdinate = 1e300

func toRect(e extent.Extent) rtreego.Rect {
	minX, minY := clamp(e.MinX()), clamp(e.MinY())
	w := math.Max(clamp(e.MaxX())-minX, minLength)
	h := math.Max(clamp(e.MaxY())-minY, minLength)
	r, err := rtreego.NewRect(rtreego.Point{minX, minY}, []float64{w, h})
	if err != nil {
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "source: index extent %v", e))
	}
	return r
}

func clamp(v float64) float64 {
	return math.Max(-maxOrdinate, math.Min(maxOrdinate, v))
}
