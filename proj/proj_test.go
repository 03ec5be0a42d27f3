// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package proj

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestGet(t *testing.T) {
	tests := []struct {
		code string
		want *Projection
	}{
		{"EPSG:4326", EPSG4326},
		{"CRS:84", EPSG4326},
		{"EPSG:3857", EPSG3857},
		{"EPSG:900913", EPSG3857},
	}
	for _, tt := range tests {
		got, err := Get(tt.code)
		if err != nil {
			t.Errorf("Get(%q) error = %v", tt.code, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Get(%q) = %s, want %s", tt.code, got.Code(), tt.want.Code())
		}
	}

	_, err := Get("EPSG:27700")
	if !errors.Is(err, ErrUnknownProjection) {
		t.Errorf("Get(unknown) error = %v, want ErrUnknownProjection", err)
	}
}

func TestTransformRoundTrip(t *testing.T) {
	fwd, err := Transform(EPSG4326, EPSG3857)
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	inv, err := Transform(EPSG3857, EPSG4326)
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}

	in := []float64{0, 0, 7, 180, 0, 8, 13.4, 52.5, 9}
	merc := fwd(in, nil, 3)
	if math.Abs(merc[3]-mercatorHalfSize) > 1e-3 {
		t.Errorf("x(180) = %v, want %v", merc[3], mercatorHalfSize)
	}
	if merc[2] != 7 || merc[5] != 8 {
		t.Errorf("third ordinate changed: %v", merc)
	}
	back := inv(merc, nil, 3)
	for i := range in {
		if math.Abs(back[i]-in[i]) > 1e-9 {
			t.Errorf("round trip [%d] = %v, want %v", i, back[i], in[i])
		}
	}
}

func TestTransformInPlace(t *testing.T) {
	fwd, _ := TransformCodes("EPSG:4326", "EPSG:3857")
	buf := []float64{10, 10}
	out := fwd(buf, buf, 2)
	if &out[0] != &buf[0] {
		t.Error("in-place transform allocated a new slice")
	}
	if buf[0] < 1e6 {
		t.Errorf("buf = %v, not transformed", buf)
	}
}

func TestTransformEquivalentIsIdentity(t *testing.T) {
	p, _ := Get("CRS:84")
	fn, err := Transform(p, EPSG4326)
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	got := fn([]float64{1, 2}, nil, 2)
	if got[0] != 1 || got[1] != 2 {
		t.Errorf("identity = %v, want [1 2]", got)
	}
}

func TestTransformMissing(t *testing.T) {
	other := New("EPSG:2056", UnitsMeters, EPSG3857.Extent())
	if _, err := Transform(other, EPSG4326); err == nil {
		t.Error("Transform() error = nil, want error")
	}
}
