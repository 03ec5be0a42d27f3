// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package geom

import (
	"math"
	"slices"
	"testing"

	"github.com/gogpu/ggmap/extent"
	"github.com/gogpu/ggmap/geom/flat"
)

func TestTypeString(t *testing.T) {
	if got := TypeMultiPolygon.String(); got != "MultiPolygon" {
		t.Errorf("String() = %q, want MultiPolygon", got)
	}
	if got := Type(200).String(); got != "Unknown" {
		t.Errorf("String() = %q, want Unknown", got)
	}
}

func TestLayoutForStride(t *testing.T) {
	tests := []struct {
		stride int
		want   Layout
	}{
		{2, XY}, {3, XYZ}, {4, XYZM}, {5, NoLayout},
	}
	for _, tt := range tests {
		if got := LayoutForStride(tt.stride); got != tt.want {
			t.Errorf("LayoutForStride(%d) = %v, want %v", tt.stride, got, tt.want)
		}
	}
}

func TestPointSetCoordinates(t *testing.T) {
	p := NewPoint(NoLayout).MustSetCoordinates(Coord{1, 2, 3})
	if p.Layout() != XYZ || p.Stride() != 3 {
		t.Errorf("Layout() = %v, Stride() = %d, want XYZ, 3", p.Layout(), p.Stride())
	}
	if got := p.Coordinates(); !slices.Equal(got, Coord{1, 2, 3}) {
		t.Errorf("Coordinates() = %v", got)
	}
	if _, err := p.SetCoordinates(Coord{1, 2}); err == nil {
		t.Error("SetCoordinates() with wrong stride error = nil")
	}
	if !p.ContainsXY(1, 2) || p.ContainsXY(1, 3) {
		t.Error("ContainsXY() mismatch")
	}
}

func TestLineStringRoundTripLayouts(t *testing.T) {
	tests := []struct {
		layout Layout
		coords []Coord
	}{
		{XY, []Coord{{0, 0}, {1, 1}}},
		{XYZ, []Coord{{0, 0, 5}, {1, 1, 6}}},
		{XYM, []Coord{{0, 0, 7}, {1, 1, 8}}},
		{XYZM, []Coord{{0, 0, 5, 7}, {1, 1, 6, 8}}},
	}
	for _, tt := range tests {
		ls, err := NewLineString(tt.layout).SetCoordinates(tt.coords)
		if err != nil {
			t.Fatalf("SetCoordinates(%v) error = %v", tt.layout, err)
		}
		if got, want := len(ls.FlatCoordinates()), len(tt.coords)*tt.layout.Stride(); got != want {
			t.Errorf("%v: len(FlatCoordinates()) = %d, want %d", tt.layout, got, want)
		}
		got := ls.Coordinates()
		for i := range tt.coords {
			if !slices.Equal(got[i], tt.coords[i]) {
				t.Errorf("%v: Coordinates()[%d] = %v, want %v", tt.layout, i, got[i], tt.coords[i])
			}
		}
	}
}

func TestRevisionAndExtentCache(t *testing.T) {
	ls := NewLineString(XY).MustSetCoordinates([]Coord{{0, 0}, {10, 5}})
	r0 := ls.Revision()
	e := ls.Extent()
	ls.Extent()
	ls.Extent()
	if ls.extentComputations != 1 {
		t.Errorf("extentComputations = %d after 3 calls, want 1", ls.extentComputations)
	}
	if !e.Equals(extent.New(0, 0, 10, 5)) {
		t.Errorf("Extent() = %v", e)
	}

	if err := ls.AppendCoordinate(Coord{-5, 20}); err != nil {
		t.Fatal(err)
	}
	if ls.Revision() <= r0 {
		t.Errorf("Revision() = %d, want > %d", ls.Revision(), r0)
	}
	if got := ls.Extent(); !got.Equals(extent.New(-5, 0, 10, 20)) {
		t.Errorf("Extent() after change = %v", got)
	}
	if ls.extentComputations != 2 {
		t.Errorf("extentComputations = %d, want 2", ls.extentComputations)
	}
}

func TestChangedAfterInPlaceEdit(t *testing.T) {
	ls := NewLineStringFlat(XY, []float64{0, 0, 1, 1})
	ls.Extent()
	ls.FlatCoordinates()[2] = 100
	ls.Changed()
	if got := ls.Extent().MaxX(); got != 100 {
		t.Errorf("MaxX() = %v, want 100", got)
	}
}

func TestListenOnChange(t *testing.T) {
	p := NewPointFlat(XY, []float64{1, 1})
	calls := 0
	owner := new(int)
	p.Listen(owner, func() { calls++ })
	p.MustSetCoordinates(Coord{2, 2})
	p.Unlisten(owner)
	p.MustSetCoordinates(Coord{3, 3})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func expectPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", name)
		}
	}()
	fn()
}

func TestEndsAssertions(t *testing.T) {
	expectPanic(t, "short ends", func() {
		NewMultiLineStringFlat(XY, []float64{0, 0, 1, 1, 2, 2}, []int{4})
	})
	expectPanic(t, "ends without coordinates", func() {
		NewPolygonFlat(XY, nil, []int{4})
	})
	expectPanic(t, "coordinates without ends", func() {
		NewPolygonFlat(XY, []float64{0, 0, 1, 1}, nil)
	})
	expectPanic(t, "decreasing ends", func() {
		NewPolygonFlat(XY, []float64{0, 0, 1, 1, 2, 2}, []int{4, 2, 6})
	})
	expectPanic(t, "misaligned", func() {
		NewLineStringFlat(XYZ, []float64{0, 0, 1, 1})
	})
	expectPanic(t, "multipolygon endss", func() {
		NewMultiPolygonFlat(XY, []float64{0, 0, 1, 0, 1, 1}, [][]int{{4}})
	})
	expectPanic(t, "circle", func() {
		NewCircleFlat(XY, []float64{0, 0})
	})
}

func TestValidateEnds(t *testing.T) {
	tests := []struct {
		name   string
		ends   []int
		n      int
		stride int
		ok     bool
	}{
		{"empty", nil, 0, 2, true},
		{"single", []int{4}, 4, 2, true},
		{"increasing", []int{4, 8}, 8, 2, true},
		{"equal ends", []int{4, 4, 8}, 8, 2, false},
		{"empty first part", []int{0, 4}, 4, 2, false},
		{"decreasing", []int{6, 4}, 6, 2, false},
		{"misaligned", []int{3, 6}, 6, 2, false},
		{"short", []int{4}, 6, 2, false},
		{"no ends", nil, 4, 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEnds(tt.ends, tt.n, tt.stride)
			if (err == nil) != tt.ok {
				t.Errorf("ValidateEnds(%v, %d) error = %v, want ok %v", tt.ends, tt.n, err, tt.ok)
			}
		})
	}
}

func TestValidateEndss(t *testing.T) {
	if err := ValidateEndss([][]int{{4}, {}, {8, 12}}, 12, 2); err != nil {
		t.Errorf("ValidateEndss() error = %v, want nil for a polygon without rings", err)
	}
	if err := ValidateEndss([][]int{{4}, {4, 8}}, 8, 2); err == nil {
		t.Error("ValidateEndss() accepted an empty ring across polygons")
	}
}

func TestEmptyPartsRejected(t *testing.T) {
	expectPanic(t, "equal ends", func() {
		NewMultiLineStringFlat(XY, []float64{0, 0, 1, 1, 2, 2, 3, 3}, []int{4, 4, 8})
	})
	if _, err := NewMultiLineString(XY).SetCoordinates([][]Coord{{}, {{0, 0}, {1, 1}}}); err == nil {
		t.Error("SetCoordinates() accepted an empty line")
	}
	mls := NewMultiLineString(XY)
	mls.AppendLineString(NewLineString(XY))
	if len(mls.Ends()) != 0 {
		t.Errorf("Ends() = %v after appending an empty line, want none", mls.Ends())
	}
}

var (
	outer = []Coord{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}
	hole  = []Coord{{2, 2}, {4, 2}, {4, 4}, {2, 4}, {2, 2}}
)

func TestPolygon(t *testing.T) {
	p := NewPolygon(XY).MustSetCoordinates([][]Coord{outer, hole})
	if want := []int{10, 20}; !slices.Equal(p.Ends(), want) {
		t.Errorf("Ends() = %v, want %v", p.Ends(), want)
	}
	if got := p.Area(); got != 96 {
		t.Errorf("Area() = %v, want 96", got)
	}
	if !p.ContainsXY(5, 5) || p.ContainsXY(3, 3) {
		t.Error("ContainsXY() mismatch")
	}
	ip := p.FlatInteriorPoint()
	if !p.ContainsXY(ip[0], ip[1]) {
		t.Errorf("FlatInteriorPoint() = %v, not inside", ip)
	}
	if p.NumLinearRings() != 2 || p.LinearRing(1).Area() != 4 {
		t.Errorf("LinearRing(1).Area() = %v, want 4", p.LinearRing(1).Area())
	}
}

func TestPolygonOrientedFlatCoordinates(t *testing.T) {
	p := NewPolygon(XY).MustSetCoordinates([][]Coord{outer, hole})
	oriented := p.OrientedFlatCoordinates()
	if !flat.LinearRingsAreOriented(oriented, 0, p.Ends(), 2) {
		t.Error("OrientedFlatCoordinates() not oriented")
	}
	// The source winding is untouched.
	if flat.LinearRingIsClockwise(p.FlatCoordinates(), 0, p.Ends()[0], 2) {
		t.Error("FlatCoordinates() was rewound in place")
	}
	if &p.OrientedFlatCoordinates()[0] != &oriented[0] {
		t.Error("OrientedFlatCoordinates() not cached")
	}
}

func TestMultiPolygon(t *testing.T) {
	shifted := make([]Coord, len(outer))
	for i, c := range outer {
		shifted[i] = Coord{c[0] + 20, c[1]}
	}
	mp := NewMultiPolygon(XY).MustSetCoordinates([][][]Coord{{outer, hole}, {shifted}})
	if got := mp.Area(); got != 196 {
		t.Errorf("Area() = %v, want 196", got)
	}
	if mp.NumPolygons() != 2 {
		t.Fatalf("NumPolygons() = %d, want 2", mp.NumPolygons())
	}
	second := mp.Polygon(1)
	if want := []int{10}; !slices.Equal(second.Ends(), want) {
		t.Errorf("Polygon(1).Ends() = %v, want %v", second.Ends(), want)
	}
	if got := second.Extent(); !got.Equals(extent.New(20, 0, 30, 10)) {
		t.Errorf("Polygon(1).Extent() = %v", got)
	}
	pts := mp.FlatInteriorPoints()
	if len(pts) != 4 || !mp.ContainsXY(pts[0], pts[1]) || !mp.ContainsXY(pts[2], pts[3]) {
		t.Errorf("FlatInteriorPoints() = %v", pts)
	}
	if mp.ContainsXY(15, 5) {
		t.Error("ContainsXY(15, 5) = true between polygons")
	}

	var rebuilt MultiPolygon
	rebuilt.setLayout(XY, nil)
	for _, p := range mp.Polygons() {
		rebuilt.AppendPolygon(p)
	}
	if !slices.Equal(rebuilt.FlatCoordinates(), mp.FlatCoordinates()) {
		t.Error("AppendPolygon() did not rebuild the same coordinates")
	}
	if !slices.Equal(rebuilt.Endss()[1], mp.Endss()[1]) {
		t.Errorf("Endss()[1] = %v, want %v", rebuilt.Endss()[1], mp.Endss()[1])
	}
}

func TestMultiLineString(t *testing.T) {
	mls := NewMultiLineString(XY).MustSetCoordinates([][]Coord{{{0, 0}, {4, 0}}, {{0, 10}, {0, 20}}})
	if got := mls.Length(); got != 14 {
		t.Errorf("Length() = %v, want 14", got)
	}
	if got := mls.FlatMidpoints(); !slices.Equal(got, []float64{2, 0, 0, 15}) {
		t.Errorf("FlatMidpoints() = %v", got)
	}
	if got := mls.LineString(1).Coordinates(); !slices.Equal(got[1], Coord{0, 20}) {
		t.Errorf("LineString(1) = %v", got)
	}
}

func TestSimplifiedGeometryCache(t *testing.T) {
	coords := []Coord{{0, 0}, {1, 0.01}, {2, 0}, {3, 0.01}, {4, 0}}
	ls := NewLineString(XY).MustSetCoordinates(coords)

	s1 := ls.SimplifiedGeometry(1)
	if got := len(s1.FlatCoordinates()); got != 4 {
		t.Errorf("len(simplified) = %d, want 4", got)
	}
	if s2 := ls.SimplifiedGeometry(1); s2 != s1 {
		t.Error("SimplifiedGeometry() not cached")
	}

	// A tolerance that removes nothing records the shortcut.
	if s := ls.SimplifiedGeometry(1e-9); s != Geometry(ls) {
		t.Error("SimplifiedGeometry(tiny) != self")
	}
	if ls.maxMinSquaredTolerance != 1e-9 {
		t.Errorf("maxMinSquaredTolerance = %v, want 1e-9", ls.maxMinSquaredTolerance)
	}
	if s := ls.SimplifiedGeometry(1e-10); s != Geometry(ls) {
		t.Error("SimplifiedGeometry(below shortcut) != self")
	}
	if s := ls.SimplifiedGeometry(-1); s != Geometry(ls) {
		t.Error("SimplifiedGeometry(negative) != self")
	}

	// Changing the geometry drops the cache.
	ls.MustSetCoordinates(coords)
	if s3 := ls.SimplifiedGeometry(1); s3 == s1 {
		t.Error("SimplifiedGeometry() served stale cache after change")
	}
}

func TestSimplifiedGeometryIdempotent(t *testing.T) {
	ls := NewLineString(XY).MustSetCoordinates([]Coord{
		{0, 0}, {1, 0.1}, {2, -0.1}, {3, 5}, {4, 6}, {5, 7}, {6, 8.1}, {7, 9}, {8, 9}, {9, 9},
	})
	once := ls.SimplifiedGeometry(0.25)
	twice := once.SimplifiedGeometry(0.25)
	if !slices.Equal(once.FlatCoordinates(), twice.FlatCoordinates()) {
		t.Errorf("simplify twice = %v, once = %v", twice.FlatCoordinates(), once.FlatCoordinates())
	}
}

func TestPolygonSimplifiedQuantizes(t *testing.T) {
	p := NewPolygon(XY).MustSetCoordinates([][]Coord{{{0.1, 0.1}, {5, 0.2}, {10.2, 0}, {10, 9.9}, {0, 10}, {0.1, 0.1}}})
	s := p.SimplifiedGeometry(1).(*Polygon)
	want := []float64{0, 0, 10, 0, 10, 10, 0, 10, 0, 0}
	if !slices.Equal(s.FlatCoordinates(), want) {
		t.Errorf("simplified = %v, want %v", s.FlatCoordinates(), want)
	}
	if s.Ends()[0] != len(want) {
		t.Errorf("Ends() = %v", s.Ends())
	}
}

func TestCircle(t *testing.T) {
	c := NewCircle(XY).MustSetCenterAndRadius(Coord{5, 5}, 2)
	if got := c.Radius(); got != 2 {
		t.Errorf("Radius() = %v, want 2", got)
	}
	if got := c.Extent(); !got.Equals(extent.New(3, 3, 7, 7)) {
		t.Errorf("Extent() = %v", got)
	}
	if !c.ContainsXY(6, 6) || c.ContainsXY(7, 7) {
		t.Error("ContainsXY() mismatch")
	}
	cp := ClosestPoint(c, 15, 5)
	if cp[0] != 7 || cp[1] != 5 {
		t.Errorf("ClosestPoint() = %v, want [7 5]", cp)
	}
	c.SetCenter(Coord{0, 0})
	if got := c.Radius(); math.Abs(got-2) > 1e-12 {
		t.Errorf("Radius() after SetCenter = %v", got)
	}
	c.SetRadius(3)
	if got := c.Extent(); !got.Equals(extent.New(-3, -3, 3, 3)) {
		t.Errorf("Extent() after SetRadius = %v", got)
	}
}

func TestClosestPoint(t *testing.T) {
	ls := NewLineString(XY).MustSetCoordinates([]Coord{{0, 0}, {10, 0}})
	if got := ClosestPoint(ls, 3, 4); !slices.Equal(got, Coord{3, 0}) {
		t.Errorf("ClosestPoint(line) = %v", got)
	}
	p := NewPolygon(XY).MustSetCoordinates([][]Coord{outer})
	if got := ClosestPoint(p, 5, 12); !slices.Equal(got, Coord{5, 10}) {
		t.Errorf("ClosestPoint(polygon) = %v", got)
	}
	mp := NewMultiPoint(XY).MustSetCoordinates([]Coord{{0, 0}, {5, 5}})
	if got := ClosestPoint(mp, 4, 4); !slices.Equal(got, Coord{5, 5}) {
		t.Errorf("ClosestPoint(multipoint) = %v", got)
	}
}

func TestTransform(t *testing.T) {
	ls := NewLineString(XYZ).MustSetCoordinates([]Coord{{1, 2, 3}, {4, 5, 6}})
	r := ls.Revision()
	ls.Transform(func(in, out []float64, dim int) []float64 {
		for i := 0; i < len(in); i += dim {
			out[i], out[i+1] = in[i]*2, in[i+1]*2
		}
		return out
	})
	if want := []float64{2, 4, 3, 8, 10, 6}; !slices.Equal(ls.FlatCoordinates(), want) {
		t.Errorf("FlatCoordinates() = %v, want %v", ls.FlatCoordinates(), want)
	}
	if ls.Revision() == r {
		t.Error("Transform() did not bump the revision")
	}
}

func TestTransformEmpty(t *testing.T) {
	ls := NewLineString(XY)
	r := ls.Revision()
	calls := 0
	ls.Listen(t, func() { calls++ })
	ls.Transform(func(in, out []float64, _ int) []float64 {
		t.Error("transform called for an empty geometry")
		return out
	})
	if ls.Revision() == r || calls != 1 {
		t.Errorf("revision %d -> %d, %d change events; want a bump and 1 event", r, ls.Revision(), calls)
	}
}

func TestGeometryCollection(t *testing.T) {
	p := NewPointFlat(XY, []float64{1, 1})
	ls := NewLineStringFlat(XY, []float64{5, 5, 10, 10})
	gc := NewGeometryCollection(p, ls)

	if got := gc.Extent(); !got.Equals(extent.New(1, 1, 10, 10)) {
		t.Errorf("Extent() = %v", got)
	}
	// Members are clones.
	p.MustSetCoordinates(Coord{-100, -100})
	if got := gc.Extent(); !got.Equals(extent.New(1, 1, 10, 10)) {
		t.Errorf("Extent() after mutating original = %v", got)
	}

	r := gc.Revision()
	gc.GeometriesArray()[0].(*Point).MustSetCoordinates(Coord{0, 0})
	if gc.Revision() == r {
		t.Error("member change did not bump the collection revision")
	}
	if got := gc.Extent(); !got.Equals(extent.New(0, 0, 10, 10)) {
		t.Errorf("Extent() after member change = %v", got)
	}
	if got := ClosestPoint(gc, 6, 5); math.Abs(got[0]-5.5) > 1e-12 || math.Abs(got[1]-5.5) > 1e-12 {
		t.Errorf("ClosestPoint() = %v, want [5.5 5.5]", got)
	}

	clone := gc.Clone().(*GeometryCollection)
	if len(clone.GeometriesArray()) != 2 || clone.GeometriesArray()[0] == gc.GeometriesArray()[0] {
		t.Error("Clone() shares members")
	}
}

func TestEmptyGeometries(t *testing.T) {
	for _, g := range []Geometry{
		NewPoint(XY), NewLineString(XY), NewPolygon(XY), NewMultiPolygon(XY),
		NewMultiLineString(XY), NewMultiPoint(XY), NewCircle(XY), NewGeometryCollection(),
	} {
		if !g.Extent().IsEmpty() {
			t.Errorf("%v: Extent() = %v, want empty", g.Type(), g.Extent())
		}
		if g.ContainsXY(0, 0) {
			t.Errorf("%v: ContainsXY() = true", g.Type())
		}
	}
	if NewLineString(XY).Length() != 0 || NewPolygon(XY).Area() != 0 {
		t.Error("empty length/area != 0")
	}
}
