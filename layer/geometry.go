// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package layer

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/render/replay"
	"github.com/gogpu/ggmap/style"
)

// checkRenderable returns an error for the first part of g that
// renderGeometry cannot draw.
func checkRenderable(g geom.Geometry) error {
	switch g := g.(type) {
	case *geom.Point, *geom.MultiPoint, *geom.LineString, *geom.MultiLineString,
		*geom.Polygon, *geom.MultiPolygon, *geom.Circle:
		return nil
	case *geom.GeometryCollection:
		for _, member := range g.GeometriesArray() {
			if err := checkRenderable(member); err != nil {
				return err
			}
		}
		return nil
	default:
		return errors.Newf("layer: cannot render %T", g)
	}
}

// renderGeometry feeds g into the batches of group that st asks for.
func renderGeometry(group *replay.Group, g geom.Geometry, st *style.Style, data uuid.UUID) {
	switch g := g.(type) {
	case *geom.Point:
		renderPoints(group, st, g.FlatCoordinates(), g.Stride(), g, data,
			func(b replay.Batch) { b.DrawPoint(g, data) })
	case *geom.MultiPoint:
		renderPoints(group, st, g.FlatCoordinates(), g.Stride(), g, data,
			func(b replay.Batch) { b.DrawMultiPoint(g, data) })
	case *geom.LineString:
		if st.Stroke != nil {
			b := group.Batch(st.ZIndex, replay.KindLineString)
			b.SetFillStrokeStyle(nil, st.Stroke)
			b.DrawLineString(g, data)
		}
		renderText(group, st, g.FlatMidpoint(), 2, g, data)
	case *geom.MultiLineString:
		if st.Stroke != nil {
			b := group.Batch(st.ZIndex, replay.KindLineString)
			b.SetFillStrokeStyle(nil, st.Stroke)
			b.DrawMultiLineString(g, data)
		}
		renderText(group, st, g.FlatMidpoints(), 2, g, data)
	case *geom.Polygon:
		if st.Fill != nil || st.Stroke != nil {
			b := group.Batch(st.ZIndex, replay.KindPolygon)
			b.SetFillStrokeStyle(st.Fill, st.Stroke)
			b.DrawPolygon(g, data)
		}
		renderText(group, st, g.FlatInteriorPoint(), 2, g, data)
	case *geom.MultiPolygon:
		if st.Fill != nil || st.Stroke != nil {
			b := group.Batch(st.ZIndex, replay.KindPolygon)
			b.SetFillStrokeStyle(st.Fill, st.Stroke)
			b.DrawMultiPolygon(g, data)
		}
		renderText(group, st, g.FlatInteriorPoints(), 2, g, data)
	case *geom.Circle:
		if st.Fill != nil || st.Stroke != nil {
			b := group.Batch(st.ZIndex, replay.KindPolygon)
			b.SetFillStrokeStyle(st.Fill, st.Stroke)
			b.DrawCircle(g, data)
		}
		if center := g.FlatCoordinates(); len(center) > 0 {
			renderText(group, st, center[:g.Stride()], g.Stride(), g, data)
		}
	case *geom.GeometryCollection:
		for _, member := range g.GeometriesArray() {
			renderGeometry(group, member, st, data)
		}
	default:
		panic(errors.AssertionFailedf("layer: cannot render %T", g))
	}
}

func renderPoints(group *replay.Group, st *style.Style, flatCoords []float64, stride int, g geom.Geometry, data uuid.UUID, draw func(replay.Batch)) {
	if st.Image != nil && st.Image.ImageState() == style.ImageStateLoaded {
		b := group.Batch(st.ZIndex, replay.KindImage)
		b.SetImageStyle(st.Image)
		draw(b)
	}
	renderText(group, st, flatCoords, stride, g, data)
}

func renderText(group *replay.Group, st *style.Style, flatCoords []float64, stride int, g geom.Geometry, data uuid.UUID) {
	if st.Text == nil || len(flatCoords) == 0 {
		return
	}
	b := group.Batch(st.ZIndex, replay.KindText)
	b.SetTextStyle(st.Text)
	b.DrawText(flatCoords, 0, len(flatCoords), stride, g, data)
}
