// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package source

import (
	"slices"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/gogpu/ggmap/extent"
	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/proj"
)

func pointFeature(id string, x, y float64) *feature.Feature {
	return feature.New(geom.NewPointFlat(geom.XY, []float64{x, y}), feature.WithID(id))
}

func ids(features []*feature.Feature) []string {
	out := make([]string, len(features))
	for i, f := range features {
		out[i] = f.ID()
	}
	return out
}

func collect(v *Vector, e extent.Extent) []string {
	var got []string
	v.ForEachFeatureInExtent(e, func(f *feature.Feature) bool {
		got = append(got, f.ID())
		return true
	})
	return got
}

func TestForEachFeatureInExtent(t *testing.T) {
	v := NewVector(WithFeatures(
		pointFeature("c", 5, 5),
		pointFeature("a", 50, 50),
		pointFeature("b", 6, 6),
	))

	tests := []struct {
		name string
		e    extent.Extent
		want []string
	}{
		{"all", extent.New(0, 0, 100, 100), []string{"c", "a", "b"}},
		{"corner", extent.New(0, 0, 10, 10), []string{"c", "b"}},
		{"none", extent.New(200, 200, 300, 300), nil},
		{"empty", extent.CreateEmpty(), nil},
		{"touching", extent.New(6, 6, 7, 7), []string{"b"}},
		{"within padding", extent.New(6+5e-10, 6+5e-10, 7, 7), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := collect(v, tt.e); !slices.Equal(got, tt.want) {
				t.Errorf("ForEachFeatureInExtent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestForEachFeatureStops(t *testing.T) {
	v := NewVector(WithFeatures(pointFeature("a", 1, 1), pointFeature("b", 2, 2)))
	n := 0
	v.ForEachFeatureInExtent(extent.New(0, 0, 10, 10), func(*feature.Feature) bool {
		n++
		return false
	})
	if n != 1 {
		t.Errorf("visited %d features, want 1", n)
	}
}

func TestRevisionAndListeners(t *testing.T) {
	v := NewVector()
	notified := 0
	v.Listen(t, func() { notified++ })

	f := pointFeature("a", 1, 1)
	v.AddFeature(f)
	v.AddFeature(f)
	if v.Revision() != 1 || notified != 1 {
		t.Errorf("after add: revision %d notified %d, want 1 1", v.Revision(), notified)
	}

	f.Set("name", "moved")
	if v.Revision() != 2 {
		t.Errorf("after feature change: revision %d, want 2", v.Revision())
	}

	if !v.RemoveFeature(f) {
		t.Fatal("RemoveFeature() = false, want true")
	}
	if v.RemoveFeature(f) {
		t.Error("second RemoveFeature() = true, want false")
	}
	f.Set("name", "again")
	if v.Revision() != 3 {
		t.Errorf("removed feature still bumps revision: %d", v.Revision())
	}
}

func TestGeometryChangeReindexes(t *testing.T) {
	f := pointFeature("a", 1, 1)
	v := NewVector(WithFeatures(f))

	f.Geometry().(*geom.Point).MustSetCoordinates(geom.Coord{500, 500})
	if got := collect(v, extent.New(0, 0, 10, 10)); len(got) != 0 {
		t.Errorf("old location still returns %v", got)
	}
	if got := collect(v, extent.New(400, 400, 600, 600)); !slices.Equal(got, []string{"a"}) {
		t.Errorf("new location returns %v, want [a]", got)
	}
}

func TestNullGeometryFeatures(t *testing.T) {
	f := feature.New(nil, feature.WithID("empty"))
	v := NewVector(WithFeatures(f))
	if v.Len() != 1 {
		t.Errorf("Len() = %d, want 1", v.Len())
	}
	if got := collect(v, extent.New(-1e9, -1e9, 1e9, 1e9)); len(got) != 0 {
		t.Errorf("extent query returned %v", got)
	}

	f.SetGeometry(geom.NewPointFlat(geom.XY, []float64{3, 3}))
	if got := collect(v, extent.New(0, 0, 10, 10)); !slices.Equal(got, []string{"empty"}) {
		t.Errorf("after SetGeometry = %v, want [empty]", got)
	}
}

func TestFeatureByID(t *testing.T) {
	f := pointFeature("a", 1, 1)
	v := NewVector(WithFeatures(f))
	if got, ok := v.FeatureByID("a"); !ok || got != f {
		t.Fatalf("FeatureByID(a) = %v, %v", got, ok)
	}
	f.SetID("b")
	if _, ok := v.FeatureByID("a"); ok {
		t.Error("old id still resolves")
	}
	if got, ok := v.FeatureByID("b"); !ok || got != f {
		t.Errorf("FeatureByID(b) = %v, %v", got, ok)
	}
}

func TestClear(t *testing.T) {
	v := NewVector(WithFeatures(pointFeature("a", 1, 1), feature.New(nil)))
	v.Clear()
	if v.Len() != 0 {
		t.Errorf("Len() = %d after Clear", v.Len())
	}
	if got := v.Extent(); !got.IsEmpty() {
		t.Errorf("Extent() = %v after Clear", got)
	}
}

func TestExtent(t *testing.T) {
	v := NewVector(WithFeatures(pointFeature("a", 1, 2), pointFeature("b", 5, -3)))
	want := extent.New(1, -3, 5, 2)
	if got := v.Extent(); !got.Equals(want) {
		t.Errorf("Extent() = %v, want %v", got, want)
	}
}

func TestLoadFeaturesOncePerExtent(t *testing.T) {
	calls := 0
	loader := func(e extent.Extent, _ float64, _ *proj.Projection) ([]*feature.Feature, error) {
		calls++
		return []*feature.Feature{pointFeature("loaded", 1, 1)}, nil
	}
	v := NewVector(WithLoader(loader))

	v.LoadFeatures(extent.New(0, 0, 100, 100), 1, proj.EPSG3857)
	v.LoadFeatures(extent.New(10, 10, 20, 20), 1, proj.EPSG3857)
	if calls != 1 {
		t.Errorf("loader called %d times, want 1", calls)
	}
	if !slices.Equal(ids(v.Features()), []string{"loaded"}) {
		t.Errorf("Features() = %v", ids(v.Features()))
	}

	v.LoadFeatures(extent.New(90, 90, 200, 200), 1, proj.EPSG3857)
	if calls != 2 {
		t.Errorf("loader called %d times for a new extent, want 2", calls)
	}
}

func TestLoadFeaturesErrorRetries(t *testing.T) {
	calls := 0
	loader := func(extent.Extent, float64, *proj.Projection) ([]*feature.Feature, error) {
		calls++
		return nil, errors.New("unreachable")
	}
	v := NewVector(WithLoader(loader))
	e := extent.New(0, 0, 1, 1)
	v.LoadFeatures(e, 1, nil)
	v.LoadFeatures(e, 1, nil)
	if calls != 2 {
		t.Errorf("loader called %d times, want 2", calls)
	}
	if v.Revision() != 0 {
		t.Errorf("Revision() = %d after failed loads, want 0", v.Revision())
	}
}
