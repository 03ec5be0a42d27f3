// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package format reads features from GeoJSON, WKT and WKB.
//
// Readers skip records they cannot decode and log them at Warn level;
// only input that cannot be read at all is an error. When a feature
// projection is set, geometries are transformed from the data projection
// into it.
package format

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/proj"
)

// Format decodes features.
type Format interface {
	// ReadFeatures decodes every supported record in data.
	ReadFeatures(data []byte) ([]*feature.Feature, error)
	// ReadProjection returns the projection of data, or nil if neither
	// the data nor the reader options name one.
	ReadProjection(data []byte) (*proj.Projection, error)
}

// ErrUnsupportedGeometry is returned for geometry types the geometry model
// has no counterpart for.
var ErrUnsupportedGeometry = errors.New("format: unsupported geometry")

// Option configures a reader.
type Option func(*options)

type options struct {
	dataProjection    *proj.Projection
	featureProjection *proj.Projection
	splitCollection   bool
}

// WithDataProjection sets the projection of the input, overriding any the
// data declares.
func WithDataProjection(p *proj.Projection) Option {
	return func(o *options) { o.dataProjection = p }
}

// WithFeatureProjection sets the projection geometries are transformed
// into.
func WithFeatureProjection(p *proj.Projection) Option {
	return func(o *options) { o.featureProjection = p }
}

// WithSplitCollection makes the WKT and WKB readers return one feature per
// member of a top-level GEOMETRYCOLLECTION.
func WithSplitCollection(split bool) Option {
	return func(o *options) { o.splitCollection = split }
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// transformer returns the function mapping data coordinates to feature
// coordinates, or nil when no transformation is needed.
func (o options) transformer(data *proj.Projection) (proj.TransformFunc, error) {
	if data == nil || o.featureProjection == nil || proj.Equivalent(data, o.featureProjection) {
		return nil, nil
	}
	return proj.Transform(data, o.featureProjection)
}

// ForPath returns the reader for a file name, chosen by its extension.
func ForPath(path string, opts ...Option) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".geojson", ".json":
		return NewGeoJSON(opts...), nil
	case ".wkt":
		return NewWKT(opts...), nil
	case ".wkb", ".hex":
		return NewWKB(opts...), nil
	default:
		return nil, errors.Newf("format: no reader for %q files", ext)
	}
}

func reproject(g geom.Geometry, fn proj.TransformFunc) {
	if g != nil && fn != nil {
		g.Transform(fn)
	}
}
