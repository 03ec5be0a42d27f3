// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package recording

import (
	"image/color"
	"slices"
	"strings"
	"testing"

	"github.com/gogpu/ggmap/surface"
	"github.com/gogpu/ggmap/transform"
)

func TestCommandTypeString(t *testing.T) {
	tests := []struct {
		t    CommandType
		want string
	}{
		{CmdSave, "Save"},
		{CmdMoveTo, "MoveTo"},
		{CmdSetTextStyle, "SetTextStyle"},
		{CommandType(200), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("CommandType(%d).String() = %q, want %q", tt.t, got, tt.want)
		}
	}
}

func TestRecordAndCount(t *testing.T) {
	rec := New(10, 10)
	rec.BeginPath()
	rec.MoveTo(0, 0)
	rec.LineTo(5, 0)
	rec.LineTo(5, 5)
	rec.Stroke()

	want := []CommandType{CmdBeginPath, CmdMoveTo, CmdLineTo, CmdLineTo, CmdStroke}
	if got := rec.Types(); !slices.Equal(got, want) {
		t.Errorf("Types() = %v, want %v", got, want)
	}
	if n := rec.Count(CmdLineTo); n != 2 {
		t.Errorf("Count(LineTo) = %d, want 2", n)
	}
	if a := rec.AlphaAt(0, 0); a != 0 {
		t.Errorf("AlphaAt without target = %d, want 0", a)
	}

	rec.Reset()
	if len(rec.Commands()) != 0 {
		t.Errorf("Commands() after Reset = %d, want 0", len(rec.Commands()))
	}
}

func TestStateGetters(t *testing.T) {
	rec := New(1, 1)
	rec.Save()
	rec.SetTransform(transform.Scale(2, 2))
	rec.SetGlobalAlpha(0.5)
	if rec.GlobalAlpha() != 0.5 {
		t.Errorf("GlobalAlpha() = %v, want 0.5", rec.GlobalAlpha())
	}
	rec.Restore()
	if !rec.Transform().IsIdentity() || rec.GlobalAlpha() != 1 {
		t.Errorf("state after Restore = %+v alpha %v, want identity alpha 1", rec.Transform(), rec.GlobalAlpha())
	}
}

func TestPlaybackAndForward(t *testing.T) {
	src := New(4, 4)
	src.SetFillColor(color.Black)
	src.SetStrokeStyle(surface.StrokeStyle{Width: 2, Dash: []float64{1, 1}})
	src.BeginPath()
	src.Arc(2, 2, 1, 0, 1)
	src.Fill()
	src.FillText("a", 1, 1)

	inner := New(4, 4)
	outer := New(4, 4, WithTarget(inner))
	src.Playback(outer)

	if !slices.Equal(outer.Types(), src.Types()) {
		t.Errorf("outer Types() = %v, want %v", outer.Types(), src.Types())
	}
	if !slices.Equal(inner.Types(), src.Types()) {
		t.Errorf("forwarded Types() = %v, want %v", inner.Types(), src.Types())
	}
}

func TestFactory(t *testing.T) {
	s, err := Factory(nil)(3, 2)
	if err != nil {
		t.Fatalf("Factory(nil)() error = %v", err)
	}
	if s.Width() != 3 || s.Height() != 2 {
		t.Errorf("size = %dx%d, want 3x2", s.Width(), s.Height())
	}
}

func TestDump(t *testing.T) {
	rec := New(1, 1)
	rec.MoveTo(1, 2)
	rec.FillText("hi", 3, 4)
	var b strings.Builder
	if err := rec.Dump(&b); err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	out := b.String()
	for _, want := range []string{"MoveTo 1,2", `FillText "hi" 3,4`} {
		if !strings.Contains(out, want) {
			t.Errorf("Dump() = %q, missing %q", out, want)
		}
	}
}
