// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package replay

import (
	"github.com/cockroachdb/errors"
	"github.com/google/btree"
	"github.com/google/uuid"

	"github.com/gogpu/ggmap/extent"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/surface"
	"github.com/gogpu/ggmap/transform"
)

// zBucket holds the batches of one z-index, indexed by Kind.
type zBucket struct {
	z       int
	batches [len(Order)]Batch
}

func lessZ(a, b *zBucket) bool { return a.z < b.z }

// Group owns the batches of one rendered frame, keyed by z-index and kind.
type Group struct {
	tolerance  float64
	maxExtent  extent.Extent
	resolution float64

	buckets *btree.BTreeG[*zBucket]

	newSurface surface.Factory
	hitSurface surface.Surface
}

// NewGroup creates an empty group. Geometries are clipped to maxExtent.
// newSurface creates the 1x1 surface used for hit detection; nil selects
// the best registered surface backend.
func NewGroup(tolerance float64, maxExtent extent.Extent, resolution float64, newSurface surface.Factory) *Group {
	if newSurface == nil {
		newSurface = surface.DefaultFactory()
	}
	return &Group{
		tolerance:  tolerance,
		maxExtent:  maxExtent,
		resolution: resolution,
		buckets:    btree.NewG(8, lessZ),
		newSurface: newSurface,
	}
}

// Batch returns the batch of kind at z-index z, creating it on first use.
func (g *Group) Batch(z int, kind Kind) Batch {
	if int(kind) >= len(Order) {
		panic(errors.AssertionFailedf("replay: unknown batch kind %d", kind))
	}
	bucket, ok := g.buckets.Get(&zBucket{z: z})
	if !ok {
		bucket = &zBucket{z: z}
		g.buckets.ReplaceOrInsert(bucket)
	}
	if bucket.batches[kind] == nil {
		bucket.batches[kind] = g.newBatch(kind)
	}
	return bucket.batches[kind]
}

func (g *Group) newBatch(kind Kind) Batch {
	switch kind {
	case KindImage:
		return NewImageBatch(g.tolerance, g.maxExtent, g.resolution)
	case KindLineString:
		return NewLineStringBatch(g.tolerance, g.maxExtent, g.resolution)
	case KindPolygon:
		return NewPolygonBatch(g.tolerance, g.maxExtent, g.resolution)
	default:
		return NewTextBatch(g.tolerance, g.maxExtent, g.resolution)
	}
}

// IsEmpty reports whether no batch was created.
func (g *Group) IsEmpty() bool { return g.buckets.Len() == 0 }

// Finish completes every batch.
func (g *Group) Finish() {
	g.buckets.Ascend(func(b *zBucket) bool {
		for _, rb := range b.batches {
			if rb != nil {
				rb.Finish()
			}
		}
		return true
	})
}

// ZIndices returns the z-indices in use, ascending.
func (g *Group) ZIndices() []int {
	zs := make([]int, 0, g.buckets.Len())
	g.buckets.Ascend(func(b *zBucket) bool {
		zs = append(zs, b.z)
		return true
	})
	return zs
}

// InstructionCount returns the total length of the instruction and
// hit-detection streams.
func (g *Group) InstructionCount() (render, hit int) {
	g.buckets.Ascend(func(b *zBucket) bool {
		for _, rb := range b.batches {
			if rb != nil {
				render += len(rb.Instructions())
				hit += len(rb.HitDetectionInstructions())
			}
		}
		return true
	})
	return render, hit
}

// Replay draws every batch whose extent intersects e, clipped to the max
// extent. z-indices are drawn in ascending order; within a z-index the
// kinds are drawn in Order.
func (g *Group) Replay(s surface.Surface, e extent.Extent, pixelRatio float64, t transform.Transform, viewRotation float64, skip Skip) {
	clip := g.maxExtent.Corners()
	for i := 0; i < len(clip); i += 2 {
		clip[i], clip[i+1] = t.Apply(clip[i], clip[i+1])
	}
	s.Save()
	defer s.Restore()
	s.BeginPath()
	s.MoveTo(clip[0], clip[1])
	s.LineTo(clip[2], clip[3])
	s.LineTo(clip[4], clip[5])
	s.LineTo(clip[6], clip[7])
	s.ClosePath()
	s.Clip()

	g.buckets.Ascend(func(b *zBucket) bool {
		for _, kind := range Order {
			rb := b.batches[kind]
			if rb != nil && e.Intersects(rb.Extent()) {
				rb.Replay(s, pixelRatio, t, viewRotation, skip)
			}
		}
		return true
	})
}

// ForEachGeometryAtPixel calls cb for every geometry drawn at coordinate
// (x, y), topmost first. It stops at the first non-nil result of cb and
// returns it.
//
// Each candidate is drawn onto a 1x1 surface centred on the coordinate and
// counts as hit when the pixel is no longer transparent.
func (g *Group) ForEachGeometryAtPixel(e extent.Extent, resolution, rotation, x, y float64, skip Skip, cb GeometryCallback) (any, error) {
	hs, err := g.hitDetectionSurface()
	if err != nil {
		return nil, err
	}
	t := transform.Make2D(0.5, 0.5, 1/resolution, -1/resolution, -rotation, -x, -y)
	hs.Clear()
	hs.Save()
	defer hs.Restore()

	var result any
	g.buckets.Descend(func(b *zBucket) bool {
		for i := len(Order) - 1; i >= 0; i-- {
			rb := b.batches[Order[i]]
			if rb == nil || !e.Intersects(rb.Extent()) {
				continue
			}
			result = rb.ReplayHitDetection(hs, t, rotation, skip, func(geometry geom.Geometry, data uuid.UUID) any {
				if hs.AlphaAt(0, 0) == 0 {
					return nil
				}
				if r := cb(geometry, data); r != nil {
					return r
				}
				hs.Clear()
				return nil
			})
			if result != nil {
				return false
			}
		}
		return true
	})
	return result, nil
}

func (g *Group) hitDetectionSurface() (surface.Surface, error) {
	if g.hitSurface == nil {
		s, err := g.newSurface(1, 1)
		if err != nil {
			return nil, errors.Wrap(err, "replay: create hit detection surface")
		}
		g.hitSurface = s
	}
	return g.hitSurface, nil
}
