// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package replay compiles vector geometries into instruction streams that
// can be drawn repeatedly, at any transform, without revisiting the
// features they came from.
//
// # Batches
//
// A Batch collects the draw calls of one kind (points, lines, polygons or
// labels). Every draw call appends the geometry's coordinates, clipped
// against the frame, to a flat buffer and appends instructions that refer
// to ranges of that buffer. Style changes are emitted only when the style
// actually differs from the one already in effect.
//
// Each batch keeps two streams:
//
//   - the instruction stream, which draws the frame;
//   - the hit-detection stream, which draws each geometry on its own in
//     an opaque style and is stored topmost geometry first.
//
// Every geometry is bracketed by OpBeginGeometry and OpEndGeometry in both
// streams. OpBeginGeometry records the index of its OpEndGeometry, so a
// geometry whose feature is in the skip set is jumped over.
//
// # Groups
//
// A Group owns the batches of a frame keyed by z-index and kind, replays
// them in z order and answers which geometries cover a pixel:
//
//	g := replay.NewGroup(tolerance, maxExtent, resolution, nil)
//	b := g.Batch(0, replay.KindPolygon)
//	b.SetFillStrokeStyle(fill, stroke)
//	b.DrawPolygon(polygon, f.UID())
//	g.Finish()
//	g.Replay(s, frameExtent, pixelRatio, frameTransform, rotation, nil)
package replay
