// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package proj provides the projection registry and the coordinate
// transform contract used by geometries and format readers.
//
// Only geographic WGS84 (EPSG:4326) and spherical Web Mercator
// (EPSG:3857) are built in. The projection math itself is delegated to
// github.com/paulmach/orb/project.
package proj

import (
	"math"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"

	"github.com/gogpu/ggmap/extent"
)

// TransformFunc transforms the coordinates in in, dimension values per
// coordinate, and writes the result to out. If out is nil a new slice is
// allocated. out may alias in. Only the first two ordinates of every
// coordinate are changed. The output slice is returned.
type TransformFunc func(in, out []float64, dimension int) []float64

// Units are the units of a projection's coordinates.
type Units string

// Supported units.
const (
	UnitsDegrees Units = "degrees"
	UnitsMeters  Units = "m"
)

// Projection describes a coordinate reference system.
type Projection struct {
	code   string
	units  Units
	extent extent.Extent
}

// New creates a projection.
func New(code string, units Units, validExtent extent.Extent) *Projection {
	return &Projection{code: code, units: units, extent: validExtent}
}

// Code returns the projection code, for example "EPSG:3857".
func (p *Projection) Code() string { return p.code }

// Units returns the coordinate units.
func (p *Projection) Units() Units { return p.units }

// Extent returns the validity extent of the projection.
func (p *Projection) Extent() extent.Extent { return p.extent }

const mercatorHalfSize = 20037508.342789244

// Built-in projections.
var (
	EPSG4326 = New("EPSG:4326", UnitsDegrees, extent.New(-180, -90, 180, 90))
	EPSG3857 = New("EPSG:3857", UnitsMeters,
		extent.New(-mercatorHalfSize, -mercatorHalfSize, mercatorHalfSize, mercatorHalfSize))
)

// ErrUnknownProjection is returned by Get for an unregistered code.
var ErrUnknownProjection = errors.New("proj: unknown projection")

var (
	registryMu  sync.RWMutex
	projections = map[string]*Projection{}
	transforms  = map[[2]string]TransformFunc{}
)

func init() {
	AddEquivalent(EPSG4326, "CRS:84", "urn:ogc:def:crs:EPSG::4326", "urn:ogc:def:crs:OGC:1.3:CRS84",
		"http://www.opengis.net/gml/srs/epsg.xml#4326")
	AddEquivalent(EPSG3857, "EPSG:102100", "EPSG:102113", "EPSG:900913",
		"urn:ogc:def:crs:EPSG::3857", "urn:ogc:def:crs:EPSG:6.18:3:3857")
	AddTransform(EPSG4326, EPSG3857, orbTransform(project.WGS84.ToMercator))
	AddTransform(EPSG3857, EPSG4326, orbTransform(project.Mercator.ToWGS84))
}

// Add registers p under its code.
func Add(p *Projection) {
	registryMu.Lock()
	defer registryMu.Unlock()
	projections[p.code] = p
}

// AddEquivalent registers p under its own code and every alias. Transforms
// between equivalent codes are the identity.
func AddEquivalent(p *Projection, aliases ...string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	projections[p.code] = p
	for _, a := range aliases {
		projections[a] = p
	}
}

// AddTransform registers the transform from one projection to another.
func AddTransform(from, to *Projection, fn TransformFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	transforms[[2]string{from.code, to.code}] = fn
}

// Get returns the projection registered under code.
func Get(code string) (*Projection, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	p, ok := projections[code]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownProjection, "%q", code)
	}
	return p, nil
}

// Codes returns every registered code in sorted order.
func Codes() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	codes := make([]string, 0, len(projections))
	for c := range projections {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// Equivalent reports whether two projections describe the same system.
func Equivalent(a, b *Projection) bool {
	return a == b || a.code == b.code
}

// Transform returns the function that maps coordinates from one projection
// to another.
func Transform(from, to *Projection) (TransformFunc, error) {
	if Equivalent(from, to) {
		return Identity, nil
	}
	registryMu.RLock()
	fn, ok := transforms[[2]string{from.code, to.code}]
	registryMu.RUnlock()
	if !ok {
		return nil, errors.Newf("proj: no transform from %s to %s", from.code, to.code)
	}
	return fn, nil
}

// TransformCodes is Transform for projection codes.
func TransformCodes(from, to string) (TransformFunc, error) {
	src, err := Get(from)
	if err != nil {
		return nil, err
	}
	dst, err := Get(to)
	if err != nil {
		return nil, err
	}
	return Transform(src, dst)
}

// Identity copies in to out.
func Identity(in, out []float64, dimension int) []float64 {
	out = ensure(in, out)
	copy(out, in)
	return out
}

// orbTransform adapts a point projection from orb to a TransformFunc.
func orbTransform(fn orb.Projection) TransformFunc {
	return func(in, out []float64, dimension int) []float64 {
		out = ensure(in, out)
		if dimension < 2 {
			dimension = 2
		}
		for i := 0; i+1 < len(in); i += dimension {
			p := project.Point(orb.Point{in[i], in[i+1]}, fn)
			if &out[0] != &in[0] {
				copy(out[i:i+dimension], in[i:i+dimension])
			}
			out[i], out[i+1] = clampInf(p[0]), clampInf(p[1])
		}
		return out
	}
}

func ensure(in, out []float64) []float64 {
	if out == nil || len(out) < len(in) {
		return make([]float64, len(in))
	}
	return out[:len(in)]
}

// clampInf keeps the poles finite so extents stay usable.
func clampInf(v float64) float64 {
	switch {
	case math.IsInf(v, 1):
		return mercatorHalfSize
	case math.IsInf(v, -1):
		return -mercatorHalfSize
	}
	return v
}
