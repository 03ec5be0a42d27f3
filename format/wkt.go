// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package format

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	gogeom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"

	"github.com/gogpu/ggmap"
	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/proj"
)

// WKT reads well-known text, one geometry per line. Blank lines and lines
// starting with '#' are ignored. A line may carry an EWKT "SRID=n;" prefix
// naming its projection.
type WKT struct {
	opts options
}

// NewWKT creates a WKT reader.
func NewWKT(opts ...Option) *WKT {
	return &WKT{opts: newOptions(opts)}
}

// ReadFeatures implements Format.
func (r *WKT) ReadFeatures(data []byte) ([]*feature.Feature, error) {
	var features []*feature.Feature
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(nil, len(data)+1)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fs, err := r.readRecord(text)
		if err != nil {
			ggmap.Logger().Warn("format: WKT record skipped", "line", line, "error", err)
			continue
		}
		features = append(features, fs...)
	}
	if err := sc.Err(); err != nil {
		return features, errors.Wrap(err, "format: reading WKT")
	}
	return features, nil
}

func (r *WKT) readRecord(text string) ([]*feature.Feature, error) {
	srid, body, err := splitSRID(text)
	if err != nil {
		return nil, err
	}
	t, err := wkt.Unmarshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "format: reading WKT")
	}
	dataProj, err := r.recordProjection(srid)
	if err != nil {
		return nil, err
	}
	fn, err := r.opts.transformer(dataProj)
	if err != nil {
		return nil, err
	}
	return readGoGeom(t, r.opts.splitCollection, fn)
}

// ReadProjection implements Format. It returns the projection named by the
// first record's SRID prefix, if any.
func (r *WKT) ReadProjection(data []byte) (*proj.Projection, error) {
	if r.opts.dataProjection != nil {
		return r.opts.dataProjection, nil
	}
	for line := range strings.Lines(string(data)) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		srid, _, err := splitSRID(line)
		if err != nil {
			return nil, err
		}
		return sridProjection(srid)
	}
	return nil, nil
}

func (r *WKT) recordProjection(srid int) (*proj.Projection, error) {
	if r.opts.dataProjection != nil {
		return r.opts.dataProjection, nil
	}
	return sridProjection(srid)
}

// splitSRID separates an EWKT "SRID=n;" prefix from the geometry text.
func splitSRID(text string) (int, string, error) {
	rest, ok := strings.CutPrefix(text, "SRID=")
	if !ok {
		return 0, text, nil
	}
	num, body, ok := strings.Cut(rest, ";")
	if !ok {
		return 0, "", errors.Newf("format: malformed SRID prefix in %q", text)
	}
	srid, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil {
		return 0, "", errors.Wrapf(err, "format: malformed SRID prefix in %q", text)
	}
	return srid, strings.TrimSpace(body), nil
}

// sridProjection returns the EPSG projection for srid, or nil for 0.
func sridProjection(srid int) (*proj.Projection, error) {
	if srid == 0 {
		return nil, nil
	}
	return proj.Get("EPSG:" + strconv.Itoa(srid))
}

// readGoGeom turns a decoded go-geom geometry into features. Unsupported
// members of a split collection are skipped.
func readGoGeom(t gogeom.T, split bool, fn proj.TransformFunc) ([]*feature.Feature, error) {
	if gc, ok := t.(*gogeom.GeometryCollection); ok && split {
		var features []*feature.Feature
		for i, m := range gc.Geoms() {
			g, err := fromGoGeom(m)
			if err != nil {
				ggmap.Logger().Warn("format: collection member skipped", "index", i, "error", err)
				continue
			}
			reproject(g, fn)
			features = append(features, feature.New(g))
		}
		return features, nil
	}
	g, err := fromGoGeom(t)
	if err != nil {
		return nil, err
	}
	reproject(g, fn)
	return []*feature.Feature{feature.New(g)}, nil
}

// fromGoGeom adopts the flat buffers of a go-geom geometry. The ends
// layouts of both models agree, so no coordinates are copied.
func fromGoGeom(t gogeom.T) (geom.Geometry, error) {
	switch t := t.(type) {
	case *gogeom.Point:
		return geom.NewPointFlat(t.Layout(), t.FlatCoords()), nil
	case *gogeom.MultiPoint:
		return geom.NewMultiPointFlat(t.Layout(), t.FlatCoords()), nil
	case *gogeom.LineString:
		return geom.NewLineStringFlat(t.Layout(), t.FlatCoords()), nil
	case *gogeom.MultiLineString:
		ends := dropEmptyParts(t.Ends(), 0)
		if err := geom.ValidateEnds(ends, len(t.FlatCoords()), t.Stride()); err != nil {
			return nil, err
		}
		return geom.NewMultiLineStringFlat(t.Layout(), t.FlatCoords(), ends), nil
	case *gogeom.Polygon:
		ends := dropEmptyParts(t.Ends(), 0)
		if err := geom.ValidateEnds(ends, len(t.FlatCoords()), t.Stride()); err != nil {
			return nil, err
		}
		return geom.NewPolygonFlat(t.Layout(), t.FlatCoords(), ends), nil
	case *gogeom.MultiPolygon:
		endss := make([][]int, len(t.Endss()))
		prev := 0
		for i, ends := range t.Endss() {
			endss[i] = dropEmptyParts(ends, prev)
			if n := len(endss[i]); n > 0 {
				prev = endss[i][n-1]
			}
		}
		if err := geom.ValidateEndss(endss, len(t.FlatCoords()), t.Stride()); err != nil {
			return nil, err
		}
		return geom.NewMultiPolygonFlat(t.Layout(), t.FlatCoords(), endss), nil
	case *gogeom.GeometryCollection:
		members := make([]geom.Geometry, 0, t.NumGeoms())
		for _, m := range t.Geoms() {
			g, err := fromGoGeom(m)
			if err != nil {
				return nil, err
			}
			members = append(members, g)
		}
		return geom.NewGeometryCollection(members...), nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedGeometry, "%T", t)
	}
}

// dropEmptyParts returns ends without the parts that hold no coordinates.
// prev is the end of the part before ends[0].
func dropEmptyParts(ends []int, prev int) []int {
	out := make([]int, 0, len(ends))
	for _, e := range ends {
		if e > prev {
			out = append(out, e)
			prev = e
		}
	}
	return out
}
