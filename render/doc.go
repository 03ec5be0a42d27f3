// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render draws maps.
//
// A Map stacks vector layers over a view and draws them onto any
// surface.Surface. Each layer keeps a compiled replay group between frames
// (see the replay subpackage), so panning within the compiled area only
// replays instructions. Overlays are drawn with the immediate subpackage
// from compose hooks.
//
// # Usage
//
//	v := view.New(view.WithCenter(x, y), view.WithResolution(res))
//	m := render.NewMap(v)
//	m.AddLayer(layer.NewVector(src, layer.WithStyleFunction(styleFn)))
//
//	s, _ := ggsurface.New(800, 600)
//	frame := m.Render(s)
//	features, _ := m.FeaturesAtPixel(400, 300, frame)
//
// # Subpackages
//
//   - replay: compiled instruction streams, replay groups and hit detection
//   - immediate: direct drawing for compose hooks
package render
