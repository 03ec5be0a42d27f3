// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package format

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/gogpu/ggmap"
	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/proj"
)

// GeoJSON reads GeoJSON feature collections, features and bare
// geometries. The data projection defaults to EPSG:4326 unless the
// document has a crs member.
type GeoJSON struct {
	opts options
}

// NewGeoJSON creates a GeoJSON reader.
func NewGeoJSON(opts ...Option) *GeoJSON {
	return &GeoJSON{opts: newOptions(opts)}
}

// envelope holds the members needed to split a document into records
// before handing each to orb.
type envelope struct {
	Type     string            `json:"type"`
	Features []json.RawMessage `json:"features"`
	CRS      *crs              `json:"crs"`
}

type crs struct {
	Type       string `json:"type"`
	Properties struct {
		Name string `json:"name"`
		Code any    `json:"code"`
	} `json:"properties"`
}

// ReadFeatures implements Format.
func (r *GeoJSON) ReadFeatures(data []byte) ([]*feature.Feature, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(err, "format: reading GeoJSON")
	}
	dataProj, err := r.projection(&env)
	if err != nil {
		return nil, err
	}
	fn, err := r.opts.transformer(dataProj)
	if err != nil {
		return nil, err
	}

	switch env.Type {
	case "FeatureCollection":
		features := make([]*feature.Feature, 0, len(env.Features))
		for i, raw := range env.Features {
			f, err := readGeoJSONFeature(raw, fn)
			if err != nil {
				ggmap.Logger().Warn("format: GeoJSON feature skipped", "index", i, "error", err)
				continue
			}
			features = append(features, f)
		}
		return features, nil
	case "Feature":
		f, err := readGeoJSONFeature(data, fn)
		if err != nil {
			return nil, err
		}
		return []*feature.Feature{f}, nil
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, errors.Wrap(err, "format: reading GeoJSON geometry")
		}
		out, err := fromOrb(g.Geometry())
		if err != nil {
			return nil, err
		}
		reproject(out, fn)
		return []*feature.Feature{feature.New(out)}, nil
	}
}

// ReadProjection implements Format.
func (r *GeoJSON) ReadProjection(data []byte) (*proj.Projection, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(err, "format: reading GeoJSON")
	}
	return r.projection(&env)
}

func (r *GeoJSON) projection(env *envelope) (*proj.Projection, error) {
	if r.opts.dataProjection != nil {
		return r.opts.dataProjection, nil
	}
	if env.CRS == nil {
		return proj.EPSG4326, nil
	}
	switch env.CRS.Type {
	case "name":
		return proj.Get(env.CRS.Properties.Name)
	case "EPSG":
		return proj.Get(fmt.Sprintf("EPSG:%v", env.CRS.Properties.Code))
	default:
		return nil, errors.Newf("format: unknown GeoJSON crs type %q", env.CRS.Type)
	}
}

func readGeoJSONFeature(data []byte, fn proj.TransformFunc) (*feature.Feature, error) {
	gf, err := geojson.UnmarshalFeature(data)
	if err != nil {
		return nil, errors.Wrap(err, "format: reading GeoJSON feature")
	}
	var g geom.Geometry
	if gf.Geometry != nil {
		if g, err = fromOrb(gf.Geometry); err != nil {
			return nil, err
		}
		reproject(g, fn)
	}
	opts := []feature.Option{feature.WithProperties(gf.Properties)}
	if id := featureID(gf.ID); id != "" {
		opts = append(opts, feature.WithID(id))
	}
	return feature.New(g, opts...), nil
}

func featureID(id any) string {
	switch id := id.(type) {
	case nil:
		return ""
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return fmt.Sprint(id)
	}
}

// fromOrb converts an orb geometry into the flat geometry model.
func fromOrb(g orb.Geometry) (geom.Geometry, error) {
	switch g := g.(type) {
	case orb.Point:
		return geom.NewPointFlat(geom.XY, []float64{g[0], g[1]}), nil
	case orb.MultiPoint:
		return geom.NewMultiPointFlat(geom.XY, appendPoints(nil, g)), nil
	case orb.LineString:
		return geom.NewLineStringFlat(geom.XY, appendPoints(nil, g)), nil
	case orb.MultiLineString:
		var flatCoords []float64
		ends := make([]int, 0, len(g))
		for _, ls := range g {
			if len(ls) == 0 {
				continue
			}
			flatCoords = appendPoints(flatCoords, ls)
			ends = append(ends, len(flatCoords))
		}
		return geom.NewMultiLineStringFlat(geom.XY, flatCoords, ends), nil
	case orb.Polygon:
		flatCoords, ends := appendRings(nil, g)
		return geom.NewPolygonFlat(geom.XY, flatCoords, ends), nil
	case orb.MultiPolygon:
		var flatCoords []float64
		endss := make([][]int, 0, len(g))
		for _, p := range g {
			var ends []int
			flatCoords, ends = appendRings(flatCoords, p)
			endss = append(endss, ends)
		}
		return geom.NewMultiPolygonFlat(geom.XY, flatCoords, endss), nil
	case orb.Collection:
		members := make([]geom.Geometry, 0, len(g))
		for _, m := range g {
			out, err := fromOrb(m)
			if err != nil {
				return nil, err
			}
			members = append(members, out)
		}
		return geom.NewGeometryCollection(members...), nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedGeometry, "%T", g)
	}
}

func appendPoints[P ~[]orb.Point](flatCoords []float64, points P) []float64 {
	for _, p := range points {
		flatCoords = append(flatCoords, p[0], p[1])
	}
	return flatCoords
}

func appendRings(flatCoords []float64, p orb.Polygon) ([]float64, []int) {
	ends := make([]int, 0, len(p))
	for _, ring := range p {
		if len(ring) == 0 {
			continue
		}
		flatCoords = appendPoints(flatCoords, ring)
		ends = append(ends, len(flatCoords))
	}
	return flatCoords, ends
}
