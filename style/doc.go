// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package style defines the immutable style values consumed by the
// renderers: Fill, Stroke, Text, the Image styles Icon and Circle, and
// Style, which groups them with a z-index.
//
// A StyleFunction resolves a feature to zero or more styles at a given
// resolution. Styles are plain values; renderers translate them into
// surface state and apply defaults for unset fields.
//
// Icons load asynchronously. Their pixels live in an IconImage, which an
// IconImageCache shares between icons with the same source and
// cross-origin mode. The cache is owned by the caller and is swept
// explicitly.
package style
