// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface defines the drawing target of the map renderers.
//
// Surface is a stateful 2D canvas: it owns a current path, fill and stroke
// styles, a text style, a global alpha and an affine transform, all of
// which are saved and restored together. Path coordinates are mapped by the
// transform that is current when they are added.
//
// Implementations register themselves by name, following the database/sql
// driver pattern:
//
//	import _ "github.com/gogpu/ggmap/surface/ggsurface"
//
//	s, err := surface.New(800, 600)             // best available backend
//	s, err := surface.NewByName("gg", 800, 600) // explicit backend
//
// Surfaces are not safe for concurrent use.
package surface
