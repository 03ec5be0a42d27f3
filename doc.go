// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package ggmap renders vector map data with a two-phase replay renderer
// built on gg.
//
// # Overview
//
// Styled geometries are compiled into compact instruction streams, one batch
// per z-index and geometry kind, and later executed against a drawing
// surface. Every batch keeps a second, style-independent instruction stream
// that is executed against a 1x1 surface to find which feature covers a
// pixel.
//
// # Quick Start
//
//	src := source.NewVector(source.WithFeatures(features...))
//	lyr := layer.NewVector(src, layer.WithStyleFunction(style.DefaultStyleFunction))
//
//	m := render.NewMap(lyr)
//	v := view.New(view.WithCenter(0, 0), view.WithResolution(1000))
//	frame := v.Frame(800, 600, 1)
//
//	s := ggsurface.New(800, 600)
//	m.RenderFrame(s, frame)
//	s.SavePNG("map.png")
//
// # Architecture
//
// The module is organized into:
//   - geom, geom/flat, extent: flat coordinate geometries and their algorithms
//   - style: fill, stroke, text and image styles, icon image cache
//   - render/replay: instruction compiler, replay group, hit detection
//   - render/immediate: direct drawing for compose hooks
//   - layer, source, view, render: per-frame orchestration
//   - surface, surface/ggsurface, recording: drawing surfaces
//   - format, proj: GeoJSON/WKT/WKB readers and coordinate transforms
//
// # Logging
//
// ggmap is silent by default. Call [SetLogger] to route diagnostics to a
// [log/slog] handler.
package ggmap
