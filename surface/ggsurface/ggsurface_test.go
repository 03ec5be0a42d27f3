// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ggsurface

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/gogpu/ggmap/surface"
	"github.com/gogpu/ggmap/transform"
)

func newSurface(t *testing.T, w, h int) *Surface {
	t.Helper()
	s, err := New(w, h)
	if err != nil {
		t.Fatalf("New(%d, %d) error = %v", w, h, err)
	}
	return s
}

func rect(s *Surface, x0, y0, x1, y1 float64) {
	s.BeginPath()
	s.MoveTo(x0, y0)
	s.LineTo(x1, y0)
	s.LineTo(x1, y1)
	s.LineTo(x0, y1)
	s.ClosePath()
}

func coverage(s *Surface) int {
	n := 0
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.AlphaAt(x, y) > 0 {
				n++
			}
		}
	}
	return n
}

func TestNewInvalidSize(t *testing.T) {
	if _, err := New(0, 10); err == nil {
		t.Error("New(0, 10) error = nil, want error")
	}
}

func TestRegistered(t *testing.T) {
	s, err := surface.NewByName("gg", 4, 3)
	if err != nil {
		t.Fatalf("NewByName(gg) error = %v", err)
	}
	if s.Width() != 4 || s.Height() != 3 {
		t.Errorf("size = %dx%d, want 4x3", s.Width(), s.Height())
	}
}

func TestFillAndClear(t *testing.T) {
	s := newSurface(t, 10, 10)
	rect(s, 2, 2, 8, 8)
	s.SetFillColor(color.NRGBA{R: 255, A: 255})
	s.Fill()

	if a := s.AlphaAt(5, 5); a != 255 {
		t.Errorf("AlphaAt(5, 5) = %d, want 255", a)
	}
	if a := s.AlphaAt(0, 0); a != 0 {
		t.Errorf("AlphaAt(0, 0) = %d, want 0", a)
	}
	if a := s.AlphaAt(-1, 20); a != 0 {
		t.Errorf("AlphaAt out of bounds = %d, want 0", a)
	}

	s.Clear()
	if a := s.AlphaAt(5, 5); a != 0 {
		t.Errorf("AlphaAt(5, 5) after Clear = %d, want 0", a)
	}
}

func TestFillKeepsPath(t *testing.T) {
	s := newSurface(t, 20, 20)
	rect(s, 5, 5, 15, 15)
	s.SetGlobalAlpha(0)
	s.Fill()
	s.SetGlobalAlpha(1)
	s.SetStrokeStyle(surface.StrokeStyle{Color: color.Black, Width: 2, MiterLimit: 10})
	s.Stroke()
	if a := s.AlphaAt(5, 10); a == 0 {
		t.Error("stroke after fill drew nothing on the outline")
	}
	if a := s.AlphaAt(10, 10); a != 0 {
		t.Errorf("AlphaAt(10, 10) = %d, want 0 for a transparent fill", a)
	}
}

func TestGlobalAlpha(t *testing.T) {
	s := newSurface(t, 4, 4)
	s.SetGlobalAlpha(0.5)
	rect(s, 0, 0, 4, 4)
	s.Fill()
	if a := s.AlphaAt(1, 1); a < 100 || a > 160 {
		t.Errorf("AlphaAt(1, 1) = %d, want about 128", a)
	}
}

func TestTransformAppliesToPath(t *testing.T) {
	s := newSurface(t, 20, 20)
	s.SetTransform(transform.Translate(10, 10))
	rect(s, 0, 0, 5, 5)
	s.Fill()
	if a := s.AlphaAt(12, 12); a != 255 {
		t.Errorf("AlphaAt(12, 12) = %d, want 255", a)
	}
	if a := s.AlphaAt(2, 2); a != 0 {
		t.Errorf("AlphaAt(2, 2) = %d, want 0", a)
	}
}

func TestSaveRestore(t *testing.T) {
	s := newSurface(t, 4, 4)
	s.Save()
	s.SetTransform(transform.Scale(2, 2))
	s.SetGlobalAlpha(0.25)
	s.Restore()
	if !s.Transform().IsIdentity() {
		t.Errorf("Transform() = %+v, want identity", s.Transform())
	}
	if s.GlobalAlpha() != 1 {
		t.Errorf("GlobalAlpha() = %v, want 1", s.GlobalAlpha())
	}
	s.Restore()
}

func TestArc(t *testing.T) {
	s := newSurface(t, 21, 21)
	s.BeginPath()
	s.Arc(10, 10, 5, 0, 2*math.Pi)
	s.Fill()
	if a := s.AlphaAt(10, 10); a != 255 {
		t.Errorf("AlphaAt(centre) = %d, want 255", a)
	}
	if a := s.AlphaAt(1, 1); a != 0 {
		t.Errorf("AlphaAt(corner) = %d, want 0", a)
	}
}

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i-3] = 255
		img.Pix[i] = 255
	}
	return img
}

func TestDrawImage(t *testing.T) {
	s := newSurface(t, 20, 20)
	s.DrawImage(solid(4, 4), 2, 2, 8, 8)
	if a := s.AlphaAt(6, 6); a == 0 {
		t.Error("AlphaAt(6, 6) = 0 inside the drawn image")
	}
	if a := s.AlphaAt(15, 15); a != 0 {
		t.Errorf("AlphaAt(15, 15) = %d, want 0", a)
	}
}

func TestDrawImageRotated(t *testing.T) {
	s := newSurface(t, 20, 20)
	s.SetTransform(transform.Translate(10, 10).Multiply(transform.Rotate(math.Pi / 2)))
	// A 8x2 bar turned upright.
	s.DrawImage(solid(8, 2), -4, -1, 8, 2)
	if a := s.AlphaAt(10, 6); a == 0 {
		t.Error("AlphaAt(10, 6) = 0 on the rotated bar")
	}
	if a := s.AlphaAt(5, 10); a != 0 {
		t.Errorf("AlphaAt(5, 10) = %d, want 0 off the rotated bar", a)
	}
}

func TestText(t *testing.T) {
	s := newSurface(t, 60, 30)
	s.SetTextStyle(surface.TextStyle{Font: "16px sans-serif"})
	s.FillText("WW", 30, 15)
	filled := coverage(s)
	if filled == 0 {
		t.Fatal("FillText drew nothing")
	}

	s.Clear()
	s.SetStrokeStyle(surface.StrokeStyle{Color: color.White, Width: 4})
	s.StrokeText("WW", 30, 15)
	if halo := coverage(s); halo <= filled {
		t.Errorf("StrokeText coverage = %d, want more than fill coverage %d", halo, filled)
	}
}
