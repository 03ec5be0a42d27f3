// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package view

import (
	"math"
	"testing"
	"time"

	"github.com/gogpu/ggmap/extent"
)

func TestEasing(t *testing.T) {
	tests := []struct {
		name   string
		easing Easing
		mid    float64
		end    float64
	}{
		{"EaseIn", EaseIn, 0.125, 1},
		{"EaseOut", EaseOut, 0.875, 1},
		{"InAndOut", InAndOut, 0.5, 1},
		{"Linear", Linear, 0.5, 1},
		{"UpAndDown", UpAndDown, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.easing(0); !near(got, 0) {
				t.Errorf("%s(0) = %v, want 0", tt.name, got)
			}
			if got := tt.easing(0.5); !near(got, tt.mid) {
				t.Errorf("%s(0.5) = %v, want %v", tt.name, got, tt.mid)
			}
			if got := tt.easing(1); !near(got, tt.end) {
				t.Errorf("%s(1) = %v, want %v", tt.name, got, tt.end)
			}
		})
	}
}

func TestAnimateZoomHoldsHint(t *testing.T) {
	v := New(WithResolution(4))
	start := time.Unix(100, 0)
	v.Animate(ZoomTo(2, WithStart(start), WithDuration(time.Second), WithEasing(Linear)))

	if !v.Frame(1, 1, 1).Animating {
		t.Error("Animating = false while an animation is queued")
	}
	if !v.Step(start.Add(-time.Second)) || v.Resolution() != 4 {
		t.Errorf("before start: Resolution() = %v, want 4", v.Resolution())
	}
	if !v.Step(start.Add(500*time.Millisecond)) || !near(v.Resolution(), 3) {
		t.Errorf("halfway: Resolution() = %v, want 3", v.Resolution())
	}
	if v.Step(start.Add(2*time.Second)) {
		t.Error("Step() after the end = true")
	}
	if v.Resolution() != 2 {
		t.Errorf("end: Resolution() = %v, want 2", v.Resolution())
	}
	if v.Animating() || v.Frame(1, 1, 1).Animating {
		t.Error("still animating after the end")
	}
}

func TestAnimatePanAndBounce(t *testing.T) {
	v := New(WithCenter(0, 0), WithResolution(1))
	start := time.Unix(100, 0)
	v.Animate(PanTo(10, 20, WithDuration(time.Second)))
	v.Animate(Bounce(5, WithDuration(time.Second)))
	v.Step(start)
	v.Step(start.Add(500 * time.Millisecond))
	if x, y := v.Center(); !near(x, 5) || !near(y, 10) {
		t.Errorf("halfway: Center() = (%v, %v), want (5, 10)", x, y)
	}
	if !near(v.Resolution(), 5) {
		t.Errorf("bounce peak: Resolution() = %v, want 5", v.Resolution())
	}
	v.Step(start.Add(time.Second))
	if x, y := v.Center(); x != 10 || y != 20 || !near(v.Resolution(), 1) {
		t.Errorf("end: Center() = (%v, %v) Resolution() = %v", x, y, v.Resolution())
	}
}

func TestRotateAroundKeepsAnchor(t *testing.T) {
	v := New(WithCenter(50, 50), WithResolution(1))
	anchorX, anchorY := 60.0, 40.0
	px, py := v.Frame(100, 100, 1).CoordToPixel(anchorX, anchorY)

	start := time.Unix(0, 0)
	v.Animate(RotateAround(math.Pi/2, anchorX, anchorY, WithDuration(time.Second)))
	v.Step(start)
	v.Step(start.Add(300 * time.Millisecond))
	v.Step(start.Add(time.Second))

	if !near(v.Rotation(), math.Pi/2) {
		t.Errorf("Rotation() = %v, want π/2", v.Rotation())
	}
	if gx, gy := v.Frame(100, 100, 1).CoordToPixel(anchorX, anchorY); math.Abs(gx-px) > 1e-6 || math.Abs(gy-py) > 1e-6 {
		t.Errorf("anchor moved from (%v, %v) to (%v, %v)", px, py, gx, gy)
	}
}

func TestCancelAnimations(t *testing.T) {
	v := New()
	v.Animate(RotateTo(1))
	v.Animate(ZoomTo(3))
	v.CancelAnimations()
	if v.Animating() || v.Frame(1, 1, 1).Animating {
		t.Error("animating after CancelAnimations()")
	}
	if v.Step(time.Now()) {
		t.Error("Step() = true with no animation")
	}
}

func TestCenterInExtent(t *testing.T) {
	v := New(WithCenter(500, -500), WithCenterConstraint(CenterInExtent(extent.New(0, 0, 100, 100))))
	if x, y := v.Center(); x != 100 || y != 0 {
		t.Errorf("initial Center() = (%v, %v), want (100, 0)", x, y)
	}
	v.Pan(-1000, 0)
	if x, _ := v.Center(); x != 100 {
		t.Errorf("after Pan: x = %v, want 100", x)
	}
	v.SetCenter(40, 60)
	if x, y := v.Center(); x != 40 || y != 60 {
		t.Errorf("Center() = (%v, %v), want (40, 60)", x, y)
	}
	if x, y := CenterNone(-1, 2); x != -1 || y != 2 {
		t.Errorf("CenterNone() = (%v, %v)", x, y)
	}
}
