// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package style

import (
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/gogpu/ggmap/surface"
)

func rgba8(c color.Color) [4]uint32 {
	r, g, b, a := c.RGBA()
	return [4]uint32{r >> 8, g >> 8, b >> 8, a >> 8}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want [4]uint32
	}{
		{"#ff0000", [4]uint32{255, 0, 0, 255}},
		{"#0F0", [4]uint32{0, 255, 0, 255}},
		{"rgb(0, 0, 255)", [4]uint32{0, 0, 255, 255}},
		{"rgba(255,255,255,0)", [4]uint32{0, 0, 0, 0}},
		{"black", [4]uint32{0, 0, 0, 255}},
	}
	for _, tt := range tests {
		c, err := ParseColor(tt.in)
		if err != nil {
			t.Errorf("ParseColor(%q) error = %v", tt.in, err)
			continue
		}
		if got := rgba8(c); got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	for _, bad := range []string{"#12", "#zzzzzz", "rgb(1,2)", "hsl(1,2,3)", ""} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("ParseColor(%q) error = nil, want error", bad)
		}
	}
}

func TestStrokeSurfaceStyleDefaults(t *testing.T) {
	st := (&Stroke{}).SurfaceStyle()
	if st.Width != 1 || st.MiterLimit != 10 || rgba8(st.Color) != [4]uint32{0, 0, 0, 255} {
		t.Errorf("SurfaceStyle() = %+v, want width 1, miter 10, black", st)
	}
	st = NewStroke(color.White, 3).SurfaceStyle()
	if st.Cap != surface.LineCapRound || st.Join != surface.LineJoinRound || st.Width != 3 {
		t.Errorf("NewStroke().SurfaceStyle() = %+v, want round caps and joins, width 3", st)
	}
}

func TestTextDefaults(t *testing.T) {
	txt := &Text{Text: "a"}
	if ts := txt.TextStyle(); ts.Font != surface.DefaultFont || ts.Align != surface.TextAlignCenter {
		t.Errorf("TextStyle() = %+v, want default font centred", ts)
	}
	if txt.EffectiveScale() != 1 {
		t.Errorf("EffectiveScale() = %v, want 1", txt.EffectiveScale())
	}
}

func TestDefaultStyleFunction(t *testing.T) {
	styles := DefaultStyleFunction(nil, 1)
	if len(styles) != 1 || styles[0].Fill == nil || styles[0].Stroke == nil || styles[0].Image == nil {
		t.Fatalf("DefaultStyleFunction() = %+v, want fill, stroke and image", styles)
	}
}

func TestCircle(t *testing.T) {
	c := NewCircle(5, NewFill(color.NRGBA{A: 10}), NewStroke(color.Black, 1.25))
	w, h, ok := c.Size()
	if !ok || w != 13.5 || h != 13.5 {
		t.Errorf("Size() = %v, %v, %v, want 13.5, 13.5, true", w, h, ok)
	}
	if x, y, _ := c.Anchor(); x != 6.75 || y != 6.75 {
		t.Errorf("Anchor() = %v, %v, want 6.75, 6.75", x, y)
	}
	if b := c.Image(1).Bounds(); b.Dx() != 14 || b.Dy() != 14 {
		t.Errorf("Image bounds = %v, want 14x14", b)
	}
	if _, _, _, a := c.HitDetectionImage(1).At(7, 7).RGBA(); a != 0xffff {
		t.Errorf("hit detection centre alpha = %#x, want opaque", a)
	}
	if c.ImageState() != ImageStateLoaded {
		t.Errorf("ImageState() = %v, want loaded", c.ImageState())
	}
}

func TestIconAnchor(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 8))
	tests := []struct {
		name         string
		opts         []IconOption
		wantX, wantY float64
	}{
		{"default", nil, 8, 4},
		{"pixels", []IconOption{WithAnchor(2, 3), WithAnchorUnits(AnchorPixels, AnchorPixels)}, 2, 3},
		{"bottom right", []IconOption{
			WithAnchor(2, 3), WithAnchorUnits(AnchorPixels, AnchorPixels), WithAnchorOrigin(AnchorBottomRight),
		}, 14, 5},
		{"mixed", []IconOption{WithAnchor(0.25, 1), WithAnchorUnits(AnchorFraction, AnchorPixels)}, 4, 1},
		{"explicit size", []IconOption{WithIconSize(4, 4)}, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ic := NewIcon("mem", append([]IconOption{WithIconImage(img)}, tt.opts...)...)
			x, y, ok := ic.Anchor()
			if !ok || x != tt.wantX || y != tt.wantY {
				t.Errorf("Anchor() = %v, %v, %v, want %v, %v, true", x, y, ok, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestIconAnchorBeforeLoad(t *testing.T) {
	ic := NewIcon("missing", WithLoader(NewMemoryLoader()))
	if _, _, ok := ic.Anchor(); ok {
		t.Error("Anchor() ok = true before the image size is known")
	}
	if ic.Image(1) != nil {
		t.Error("Image() != nil before load")
	}
}

func TestIconSprite(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	img.Set(12, 1, color.White)
	ic := NewIcon("sprite", WithIconImage(img), WithIconOffset(10, 0), WithIconSize(5, 5))
	sprite := ic.Image(1)
	if b := sprite.Bounds(); b.Dx() != 5 || b.Dy() != 5 {
		t.Fatalf("sprite bounds = %v, want 5x5", b)
	}
	if _, _, _, a := sprite.At(2, 1).RGBA(); a != 0xffff {
		t.Errorf("sprite pixel (2, 1) alpha = %#x, want opaque", a)
	}
	if ic.Image(1) != sprite {
		t.Error("Image() cropped again instead of reusing the sprite")
	}
}

func waitState(t *testing.T, ic *Icon) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = ic.IconImage().Wait(ctx)
}

func TestIconLoad(t *testing.T) {
	loader := NewMemoryLoader()
	loader.Add("a.png", image.NewRGBA(image.Rect(0, 0, 3, 2)))
	ic := NewIcon("a.png", WithLoader(loader))
	if ic.ImageState() != ImageStateIdle {
		t.Fatalf("ImageState() = %v, want idle", ic.ImageState())
	}

	changed := make(chan ImageState, 4)
	ic.Listen(t, func() { changed <- ic.ImageState() })
	ic.Load()
	waitState(t, ic)

	if ic.ImageState() != ImageStateLoaded {
		t.Fatalf("ImageState() = %v, want loaded", ic.ImageState())
	}
	if w, h, ok := ic.Size(); !ok || w != 3 || h != 2 {
		t.Errorf("Size() = %v, %v, %v, want 3, 2, true", w, h, ok)
	}
	if len(changed) == 0 {
		t.Error("listener not notified")
	}
	if !ic.Unlisten(t) {
		t.Error("Unlisten() = false, want true")
	}
}

func TestIconLoadError(t *testing.T) {
	ic := NewIcon("nope.png", WithLoader(NewMemoryLoader()))
	ic.Load()
	waitState(t, ic)
	if ic.ImageState() != ImageStateError {
		t.Fatalf("ImageState() = %v, want error", ic.ImageState())
	}
	if err := ic.IconImage().Err(); !errors.Is(err, ErrImageNotFound) {
		t.Errorf("Err() = %v, want ErrImageNotFound", err)
	}
}

func TestTaintedHitDetectionImage(t *testing.T) {
	const src = "https://example.com/icon.png"
	loader := NewMemoryLoader()
	loader.Add(src, image.NewRGBA(image.Rect(0, 0, 4, 4)))

	ic := NewIcon(src, WithLoader(loader))
	ic.Load()
	waitState(t, ic)
	if _, _, _, a := ic.HitDetectionImage(1).At(1, 1).RGBA(); a != 0xffff {
		t.Errorf("tainted hit image alpha = %#x, want opaque", a)
	}

	trusted := NewIcon(src, WithLoader(loader), WithCrossOrigin("anonymous"))
	trusted.Load()
	waitState(t, trusted)
	if _, _, _, a := trusted.HitDetectionImage(1).At(1, 1).RGBA(); a != 0 {
		t.Errorf("cross-origin hit image alpha = %#x, want transparent", a)
	}
}

func TestIconCacheShares(t *testing.T) {
	cache := NewIconImageCache()
	a := NewIcon("x.png", WithIconCache(cache))
	b := NewIcon("x.png", WithIconCache(cache))
	c := NewIcon("x.png", WithIconCache(cache), WithCrossOrigin("anonymous"))
	if a.IconImage() != b.IconImage() {
		t.Error("icons with the same source do not share an IconImage")
	}
	if a.IconImage() == c.IconImage() {
		t.Error("icons with different cross-origin modes share an IconImage")
	}
	st := cache.Stats()
	if st.Len != 2 || st.Hits != 1 || st.Misses != 2 || st.MaxSize != DefaultIconCacheSize {
		t.Errorf("Stats() = %+v, want len 2, 1 hit, 2 misses", st)
	}
}

func fillCache(cache *IconImageCache, srcs ...string) []*IconImage {
	imgs := make([]*IconImage, len(srcs))
	for i, src := range srcs {
		imgs[i] = NewIconImage(src, "", nil)
		cache.Set(src, "", imgs[i])
	}
	return imgs
}

func TestSweepStrategies(t *testing.T) {
	t.Run("full", func(t *testing.T) {
		cache := NewIconImageCache(WithMaxSize(2))
		imgs := fillCache(cache, "a", "b", "c", "d")
		imgs[1].Listen(t, func() {})
		if n := cache.Sweep(); n != 3 {
			t.Errorf("Sweep() = %d, want 3", n)
		}
		if cache.Get("b", "") == nil {
			t.Error("referenced entry was evicted")
		}
		if n := cache.Sweep(); n != 0 {
			t.Errorf("Sweep() under max size = %d, want 0", n)
		}
	})
	t.Run("partial", func(t *testing.T) {
		cache := NewIconImageCache(WithMaxSize(2), WithSweepStrategy(PartialSweep(4)))
		fillCache(cache, "a", "b", "c", "d", "e", "f", "g", "h")
		if n := cache.Sweep(); n != 2 {
			t.Errorf("Sweep() = %d, want 2", n)
		}
		if cache.Get("a", "") != nil || cache.Get("e", "") != nil {
			t.Error("entries at positions 0 and 4 survived")
		}
	})
	t.Run("lru", func(t *testing.T) {
		cache := NewIconImageCache(WithMaxSize(2), WithSweepStrategy(LRUSweep{}))
		fillCache(cache, "a", "b", "c", "d")
		cache.Get("a", "")
		cache.Get("b", "")
		if n := cache.Sweep(); n != 2 {
			t.Errorf("Sweep() = %d, want 2", n)
		}
		if cache.Len() != 2 || cache.Get("a", "") == nil || cache.Get("b", "") == nil {
			t.Error("recently used entries were evicted")
		}
	})
}

func TestCacheClear(t *testing.T) {
	cache := NewIconImageCache()
	fillCache(cache, "a", "b")
	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", cache.Len())
	}
}
