// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package recording provides a surface that records drawing calls.
//
// A recording Surface implements surface.Surface by appending one typed
// command per call. Commands can be inspected, counted, printed for
// tracing, or played back onto another surface.
//
// # Basic Usage
//
//	rec := recording.New(256, 256)
//	rec.BeginPath()
//	rec.MoveTo(0, 0)
//	rec.LineTo(10, 10)
//	rec.Stroke()
//
//	rec.Count(recording.CmdStroke) // 1
//
// # Forwarding
//
// WithTarget forwards every call to another surface as it is recorded, so
// pixel readback (AlphaAt, Image) keeps working while the calls are traced:
//
//	gs, _ := ggsurface.New(800, 600)
//	rec := recording.New(800, 600, recording.WithTarget(gs))
//
// # Playback
//
//	rec.Playback(gs)
package recording
