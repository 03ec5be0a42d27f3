package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/style"
)

func TestParsePoint(t *testing.T) {
	tests := []struct {
		in      string
		x, y    float64
		wantErr bool
	}{
		{"10,20", 10, 20, false},
		{" 1.5 , -2 ", 1.5, -2, false},
		{"10", 0, 0, true},
		{"a,1", 0, 0, true},
	}
	for _, tt := range tests {
		x, y, err := parsePoint(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parsePoint(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if x != tt.x || y != tt.y {
			t.Errorf("parsePoint(%q) = (%v, %v), want (%v, %v)", tt.in, x, y, tt.x, tt.y)
		}
	}
}

func newCommonFlags(t *testing.T, args ...string) *commonFlags {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	return c
}

func TestStyleFunctionLabel(t *testing.T) {
	c := newCommonFlags(t, "-label", "pop")
	fn, err := c.styleFunction(style.NewIconImageCache())
	if err != nil {
		t.Fatal(err)
	}
	labelled := feature.New(nil, feature.WithProperties(map[string]any{"pop": 1200.0}))
	if st := fn(labelled, 1); st[0].Text == nil || st[0].Text.Text != "1200" {
		t.Errorf("label = %+v, want 1200", st[0].Text)
	}
	if st := fn(feature.New(nil), 1); st[0].Text != nil {
		t.Errorf("unlabelled feature got text %q", st[0].Text.Text)
	}
}

func TestStyleFunctionBadColor(t *testing.T) {
	c := newCommonFlags(t, "-fill", "#zzz")
	if _, err := c.styleFunction(style.NewIconImageCache()); err == nil {
		t.Error("styleFunction() accepted an invalid color")
	}
}

func TestLoadLayers(t *testing.T) {
	dir := t.TempDir()
	geojson := filepath.Join(dir, "points.geojson")
	wkt := filepath.Join(dir, "shapes.wkt")
	if err := os.WriteFile(geojson, []byte(`{"type": "FeatureCollection", "features": [
		{"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [0, 0]}},
		{"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [10, 10]}}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(wkt, []byte("SRID=3857;POINT (-1000 -1000)\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := newCommonFlags(t)
	layers, home, err := c.loadLayers([]string{geojson, wkt}, style.NewIconImageCache())
	if err != nil {
		t.Fatalf("loadLayers() error = %v", err)
	}
	if len(layers) != 2 || layers[0].Name() != "points.geojson" || layers[1].Name() != "shapes.wkt" {
		t.Fatalf("layers = %v", layers)
	}
	if home.MinX() != -1000 || home.MinY() != -1000 || home.MaxX() < 1e6 {
		t.Errorf("home = %v, want from (-1000, -1000) to past 1e6", home)
	}

	if _, _, err := c.loadLayers(nil, style.NewIconImageCache()); err == nil {
		t.Error("loadLayers(nil) succeeded")
	}
}
