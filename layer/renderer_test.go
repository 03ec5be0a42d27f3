// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package layer

import (
	"context"
	"image"
	"image/color"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/recording"
	"github.com/gogpu/ggmap/render/immediate"
	"github.com/gogpu/ggmap/render/replay"
	"github.com/gogpu/ggmap/source"
	"github.com/gogpu/ggmap/style"
	"github.com/gogpu/ggmap/surface"
	"github.com/gogpu/ggmap/surface/ggsurface"
	"github.com/gogpu/ggmap/view"
)

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

func ggFactory(w, h int) (surface.Surface, error) { return ggsurface.New(w, h) }

func newView() *view.View {
	return view.New(view.WithCenter(50, 50), view.WithResolution(1))
}

func square(id string, minX, minY, size float64) *feature.Feature {
	maxX, maxY := minX+size, minY+size
	g := geom.NewPolygonFlat(geom.XY, []float64{minX, minY, minX, maxY, maxX, maxY, maxX, minY, minX, minY}, []int{10})
	return feature.New(g, feature.WithID(id))
}

func point(id string, x, y float64) *feature.Feature {
	return feature.New(geom.NewPointFlat(geom.XY, []float64{x, y}), feature.WithID(id))
}

func fillStyle(c color.Color) style.StyleFunction {
	return style.StaticStyleFunction(&style.Style{Fill: style.NewFill(c)})
}

func hitIDs(t *testing.T, r *VectorRenderer, frame *view.FrameState, x, y float64) []string {
	t.Helper()
	var got []string
	_, err := r.ForEachFeatureAtPixel(x, y, frame, func(f *feature.Feature, _ *Vector) any {
		got = append(got, f.ID())
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachFeatureAtPixel() error = %v", err)
	}
	return got
}

func TestPrepareFrameReusesGroup(t *testing.T) {
	src := source.NewVector(source.WithFeatures(square("a", 10, 10, 20)))
	l := NewVector(src, WithStyleFunction(fillStyle(red)))
	r := NewVectorRenderer(l, WithSurfaceFactory(ggFactory))
	v := newView()

	if !r.PrepareFrame(v.Frame(100, 100, 1)) {
		t.Fatal("first PrepareFrame() = false, want true")
	}
	tests := []struct {
		name    string
		change  func()
		rebuild bool
	}{
		{"unchanged", func() {}, false},
		{"small pan", func() { v.Pan(10, 0) }, false},
		{"large pan", func() { v.Pan(200, 0) }, true},
		{"zoom", func() { v.ZoomBy(2) }, true},
		{"source change", func() { src.AddFeature(square("b", 0, 0, 5)) }, true},
		{"style change", func() { l.SetStyleFunction(fillStyle(blue)) }, true},
		{"render order", func() { l.SetRenderOrder(nil) }, true},
		{"opacity", func() { l.SetOpacity(0.5) }, false},
	}
	for _, tt := range tests {
		tt.change()
		if got := r.PrepareFrame(v.Frame(100, 100, 1)); got != tt.rebuild {
			t.Errorf("%s: PrepareFrame() = %v, want %v", tt.name, got, tt.rebuild)
		}
	}
}

func TestPrepareFrameKeepsGroupWhileInteracting(t *testing.T) {
	src := source.NewVector(source.WithFeatures(square("a", 10, 10, 20)))
	r := NewVectorRenderer(NewVector(src), WithSurfaceFactory(ggFactory))
	v := newView()
	r.PrepareFrame(v.Frame(100, 100, 1))

	v.SetHint(view.HintInteracting, 1)
	v.ZoomBy(4)
	if r.PrepareFrame(v.Frame(100, 100, 1)) {
		t.Error("PrepareFrame() rebuilt while interacting")
	}
	v.SetHint(view.HintInteracting, -1)
	if !r.PrepareFrame(v.Frame(100, 100, 1)) {
		t.Error("PrepareFrame() did not rebuild after the interaction ended")
	}
}

func TestForEachFeatureAtPixel(t *testing.T) {
	src := source.NewVector(source.WithFeatures(
		square("bottom", 10, 10, 40),
		square("top", 20, 20, 40),
	))
	l := NewVector(src, WithStyleFunction(fillStyle(red)))
	r := NewVectorRenderer(l, WithSurfaceFactory(ggFactory))
	frame := newView().Frame(100, 100, 1)
	r.PrepareFrame(frame)

	if got, want := hitIDs(t, r, frame, 30, 30), []string{"top", "bottom"}; !slices.Equal(got, want) {
		t.Errorf("overlap hits = %v, want %v", got, want)
	}
	if got, want := hitIDs(t, r, frame, 15, 15), []string{"bottom"}; !slices.Equal(got, want) {
		t.Errorf("bottom-only hits = %v, want %v", got, want)
	}
	if got := hitIDs(t, r, frame, 90, 5); len(got) != 0 {
		t.Errorf("empty area hits = %v", got)
	}

	top, _ := src.FeatureByID("top")
	frame.Skipped[top.UID()] = struct{}{}
	if got, want := hitIDs(t, r, frame, 30, 30), []string{"bottom"}; !slices.Equal(got, want) {
		t.Errorf("hits with top skipped = %v, want %v", got, want)
	}

	res, err := r.ForEachFeatureAtPixel(15, 15, frame, func(f *feature.Feature, got *Vector) any {
		if got != l {
			t.Errorf("callback layer = %p, want %p", got, l)
		}
		return f
	})
	if err != nil || res.(*feature.Feature).ID() != "bottom" {
		t.Errorf("ForEachFeatureAtPixel() = %v, %v", res, err)
	}
}

func TestForEachFeatureAtPixelBeforePrepare(t *testing.T) {
	r := NewVectorRenderer(NewVector(source.NewVector()))
	res, err := r.ForEachFeatureAtPixel(0, 0, newView().Frame(10, 10, 1), func(*feature.Feature, *Vector) any {
		t.Error("callback called without a compiled group")
		return nil
	})
	if res != nil || err != nil {
		t.Errorf("ForEachFeatureAtPixel() = %v, %v, want nil, nil", res, err)
	}
}

func TestRenderOrder(t *testing.T) {
	src := source.NewVector(source.WithFeatures(
		square("b", 20, 20, 20),
		square("a", 20, 20, 20),
	))
	byID := func(a, b *feature.Feature) int {
		switch {
		case a.ID() < b.ID():
			return -1
		case a.ID() > b.ID():
			return 1
		}
		return 0
	}
	l := NewVector(src, WithStyleFunction(fillStyle(red)))
	r := NewVectorRenderer(l, WithSurfaceFactory(ggFactory))
	frame := newView().Frame(100, 100, 1)

	r.PrepareFrame(frame)
	if got := hitIDs(t, r, frame, 30, 30); len(got) == 0 || got[0] != "a" {
		t.Errorf("source order: topmost = %v, want a", got)
	}

	l.SetRenderOrder(func(a, b *feature.Feature) int { return -byID(a, b) })
	r.PrepareFrame(frame)
	if got := hitIDs(t, r, frame, 30, 30); len(got) == 0 || got[0] != "a" {
		t.Errorf("descending order: topmost = %v, want a", got)
	}

	l.SetRenderOrder(byID)
	r.PrepareFrame(frame)
	if got := hitIDs(t, r, frame, 30, 30); len(got) == 0 || got[0] != "b" {
		t.Errorf("ascending order: topmost = %v, want b", got)
	}
}

func TestZIndexOrder(t *testing.T) {
	src := source.NewVector(source.WithFeatures(point("high", 50, 50), point("low", 50, 50)))
	circle := style.NewCircle(5, style.NewFill(red), nil)
	styleFn := func(f *feature.Feature, _ float64) []*style.Style {
		z := 0
		if f.ID() == "high" {
			z = 1
		}
		return []*style.Style{{Image: circle, ZIndex: z}}
	}
	r := NewVectorRenderer(NewVector(src, WithStyleFunction(styleFn)), WithSurfaceFactory(ggFactory))
	frame := newView().Frame(100, 100, 1)
	r.PrepareFrame(frame)

	if got, want := hitIDs(t, r, frame, 50, 50), []string{"high", "low"}; !slices.Equal(got, want) {
		t.Errorf("hits = %v, want %v", got, want)
	}
	if got, want := r.Group().ZIndices(), []int{0, 1}; !slices.Equal(got, want) {
		t.Errorf("ZIndices() = %v, want %v", got, want)
	}
}

func TestFeaturePanicIsolated(t *testing.T) {
	src := source.NewVector(source.WithFeatures(square("bad", 10, 10, 10), square("good", 50, 50, 10)))
	styleFn := func(f *feature.Feature, _ float64) []*style.Style {
		if f.ID() == "bad" {
			panic(errors.New("no style for you"))
		}
		return []*style.Style{{Fill: style.NewFill(red)}}
	}
	r := NewVectorRenderer(NewVector(src, WithStyleFunction(styleFn)), WithSurfaceFactory(ggFactory))
	frame := newView().Frame(100, 100, 1)
	r.PrepareFrame(frame)

	if got := hitIDs(t, r, frame, 55, 55); !slices.Equal(got, []string{"good"}) {
		t.Errorf("hits = %v, want [good]", got)
	}
}

func TestUnrenderableCollectionLeavesNoTrace(t *testing.T) {
	ring := geom.NewLinearRingFlat(geom.XY, []float64{40, 40, 40, 60, 60, 60, 40, 40})
	bad := feature.New(geom.NewGeometryCollection(square("", 40, 40, 20).Geometry(), ring), feature.WithID("bad"))
	good := square("good", 0, 0, 10)
	frame := newView().Frame(100, 100, 1)

	r := NewVectorRenderer(NewVector(source.NewVector(source.WithFeatures(bad, good)),
		WithStyleFunction(fillStyle(red))), WithSurfaceFactory(ggFactory))
	r.PrepareFrame(frame)
	if got := hitIDs(t, r, frame, 50, 50); len(got) != 0 {
		t.Errorf("hits at (50, 50) = %v, want none", got)
	}

	only := NewVectorRenderer(NewVector(source.NewVector(source.WithFeatures(good)),
		WithStyleFunction(fillStyle(red))), WithSurfaceFactory(ggFactory))
	only.PrepareFrame(frame)
	gotRender, gotHit := r.Group().InstructionCount()
	wantRender, wantHit := only.Group().InstructionCount()
	if gotRender != wantRender || gotHit != wantHit {
		t.Errorf("InstructionCount() = %d, %d, want %d, %d", gotRender, gotHit, wantRender, wantHit)
	}
}

func TestPendingIconMarksDirty(t *testing.T) {
	release := make(chan struct{})
	loader := style.LoaderFunc(func(ctx context.Context, src string) (image.Image, error) {
		<-release
		img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
		for i := range img.Pix {
			img.Pix[i] = 255
		}
		return img, nil
	})
	icon := style.NewIcon("pin.png", style.WithLoader(loader))
	src := source.NewVector(source.WithFeatures(point("p", 50, 50)))
	l := NewVector(src, WithStyleFunction(style.StaticStyleFunction(&style.Style{Image: icon})))

	var redraws atomic.Int32
	r := NewVectorRenderer(l, WithSurfaceFactory(ggFactory), WithRedraw(func() { redraws.Add(1) }))
	frame := newView().Frame(100, 100, 1)
	r.PrepareFrame(frame)
	if !r.Dirty() {
		t.Fatal("Dirty() = false while the icon loads")
	}
	if n, _ := r.Group().InstructionCount(); n != 0 {
		t.Errorf("compiled %d instructions for a pending icon", n)
	}

	close(release)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := icon.IconImage().Wait(ctx); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	// listeners run right after the load completes
	deadline := time.Now().Add(5 * time.Second)
	for redraws.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if redraws.Load() == 0 {
		t.Fatal("redraw not requested after the icon loaded")
	}

	if !r.PrepareFrame(frame) {
		t.Fatal("PrepareFrame() did not rebuild after the icon loaded")
	}
	if r.Dirty() {
		t.Error("Dirty() = true after rebuilding with a loaded icon")
	}
	if got := hitIDs(t, r, frame, 50, 50); !slices.Equal(got, []string{"p"}) {
		t.Errorf("hits = %v, want [p]", got)
	}
}

func TestErroredIconDrawsRestOfStyle(t *testing.T) {
	icon := style.NewIcon("missing.png", style.WithLoader(style.NewMemoryLoader()))
	icon.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := icon.IconImage().Wait(ctx); err == nil {
		t.Fatal("Wait() error = nil, want a load error")
	}

	src := source.NewVector(source.WithFeatures(square("s", 40, 40, 20)))
	st := &style.Style{Fill: style.NewFill(red), Image: icon}
	r := NewVectorRenderer(NewVector(src, WithStyleFunction(style.StaticStyleFunction(st))), WithSurfaceFactory(ggFactory))
	frame := newView().Frame(100, 100, 1)
	r.PrepareFrame(frame)

	if r.Dirty() {
		t.Error("Dirty() = true for a failed icon")
	}
	if got := hitIDs(t, r, frame, 50, 50); !slices.Equal(got, []string{"s"}) {
		t.Errorf("hits = %v, want [s]", got)
	}
}

func TestComposeFrame(t *testing.T) {
	src := source.NewVector(source.WithFeatures(square("a", 10, 10, 20)))
	l := NewVector(src, WithStyleFunction(fillStyle(red)), WithOpacity(0.25))
	var order []string
	l.OnPreCompose(func(ir *immediate.Renderer, _ *view.FrameState) {
		order = append(order, "pre")
		ir.SetFillStrokeStyle(nil, style.NewStroke(blue, 1))
		ir.DrawLineStringGeometry(geom.NewLineStringFlat(geom.XY, []float64{0, 0, 100, 100}))
	})
	l.OnPostCompose(func(*immediate.Renderer, *view.FrameState) { order = append(order, "post") })

	r := NewVectorRenderer(l, WithSurfaceFactory(ggFactory))
	frame := newView().Frame(100, 100, 1)
	r.PrepareFrame(frame)
	s := recording.New(100, 100)
	r.ComposeFrame(s, frame)

	if !slices.Equal(order, []string{"pre", "post"}) {
		t.Errorf("hooks ran in order %v", order)
	}
	var alpha []float64
	for _, cmd := range s.Commands() {
		if a, ok := cmd.(recording.SetGlobalAlphaCommand); ok {
			alpha = append(alpha, a.Alpha)
		}
	}
	if !slices.Contains(alpha, 0.25) {
		t.Errorf("global alpha changes = %v, want 0.25 among them", alpha)
	}
	if s.Count(recording.CmdFill) != 1 || s.Count(recording.CmdStroke) != 1 {
		t.Errorf("Fill=%d Stroke=%d, want 1 and 1", s.Count(recording.CmdFill), s.Count(recording.CmdStroke))
	}
	if s.GlobalAlpha() != 1 {
		t.Errorf("global alpha after compose = %v, want 1", s.GlobalAlpha())
	}
}

func TestComposeFrameSkipsFeatures(t *testing.T) {
	a := square("a", 10, 10, 20)
	src := source.NewVector(source.WithFeatures(a, square("b", 50, 50, 20)))
	r := NewVectorRenderer(NewVector(src, WithStyleFunction(fillStyle(red))), WithSurfaceFactory(ggFactory))
	frame := newView().Frame(100, 100, 1)
	frame.Skipped = replay.Skip{a.UID(): {}}
	r.PrepareFrame(frame)

	s := recording.New(100, 100)
	r.ComposeFrame(s, frame)
	if n := s.Count(recording.CmdFill); n != 1 {
		t.Errorf("Fill count = %d, want 1", n)
	}
}

func TestDisposeUnlistensIcons(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	loader := style.LoaderFunc(func(ctx context.Context, src string) (image.Image, error) {
		<-block
		return nil, errors.New("cancelled")
	})
	icon := style.NewIcon("slow.png", style.WithLoader(loader))
	src := source.NewVector(source.WithFeatures(point("p", 50, 50)))
	r := NewVectorRenderer(NewVector(src, WithStyleFunction(style.StaticStyleFunction(&style.Style{Image: icon}))))
	r.PrepareFrame(newView().Frame(100, 100, 1))

	if !icon.IconImage().HasListeners() {
		t.Fatal("renderer does not listen to the pending icon")
	}
	r.Dispose()
	if icon.IconImage().HasListeners() {
		t.Error("icon still has listeners after Dispose")
	}
	if r.Group() != nil {
		t.Error("Group() != nil after Dispose")
	}
}
