// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"testing"

	"github.com/cockroachdb/errors"
)

type stubSurface struct {
	Surface
	w, h int
}

func stubFactory(width, height int) (Surface, error) {
	return &stubSurface{w: width, h: height}, nil
}

func TestRegistryPriority(t *testing.T) {
	r := NewRegistry()
	r.Register("low", 10, stubFactory, nil)
	r.Register("high", 100, stubFactory, nil)
	r.Register("off", 1000, stubFactory, func() bool { return false })

	want := []string{"off", "high", "low"}
	got := r.List()
	if len(got) != len(want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	s, err := r.New(3, 4)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if st := s.(*stubSurface); st.w != 3 || st.h != 4 {
		t.Errorf("New() size = %dx%d, want 3x4", st.w, st.h)
	}
}

func TestRegistryErrors(t *testing.T) {
	r := NewRegistry()
	if _, err := r.New(1, 1); !errors.Is(err, ErrNoBackendAvailable) {
		t.Errorf("New() on empty registry error = %v, want ErrNoBackendAvailable", err)
	}
	if _, err := r.NewByName("nope", 1, 1); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("NewByName(nope) error = %v, want ErrUnknownBackend", err)
	}
	r.Register("off", 1, stubFactory, func() bool { return false })
	if _, err := r.NewByName("off", 1, 1); !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("NewByName(off) error = %v, want ErrBackendUnavailable", err)
	}
	failing := errors.New("boom")
	r.Register("bad", 1, func(int, int) (Surface, error) { return nil, failing }, nil)
	if _, err := r.NewByName("bad", 1, 1); !errors.Is(err, failing) {
		t.Errorf("NewByName(bad) error = %v, want wrapped boom", err)
	}
}

func TestRegisterTwicePanics(t *testing.T) {
	r := NewRegistry()
	r.Register("x", 1, stubFactory, nil)
	defer func() {
		if recover() == nil {
			t.Error("second Register did not panic")
		}
	}()
	r.Register("x", 1, stubFactory, nil)
}

func TestFontSize(t *testing.T) {
	tests := []struct {
		font string
		want float64
	}{
		{"10px sans-serif", 10},
		{"bold 14px Arial", 14},
		{"italic 12pt serif", 16},
		{"12px/1.5 monospace", 12},
		{"sans-serif", 10},
	}
	for _, tt := range tests {
		if got := FontSize(tt.font); got != tt.want {
			t.Errorf("FontSize(%q) = %v, want %v", tt.font, got, tt.want)
		}
	}
}

func TestTextAlignAnchor(t *testing.T) {
	if TextAlignCenter.Anchor() != 0.5 || TextAlignLeft.Anchor() != 0 || TextAlignEnd.Anchor() != 1 {
		t.Error("Anchor() mismatch")
	}
}

func TestStrokeStyleEqual(t *testing.T) {
	a := DefaultStrokeStyle()
	b := DefaultStrokeStyle()
	if !a.Equal(b) {
		t.Error("Equal() = false for defaults")
	}
	b.Dash = []float64{2, 2}
	if a.Equal(b) {
		t.Error("Equal() = true with different dash")
	}
}
