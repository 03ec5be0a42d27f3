package main

import (
	"flag"
	"fmt"
	"log"
	"maps"
	"math"
	"os"
	"slices"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/layer"
	"github.com/gogpu/ggmap/proj"
	"github.com/gogpu/ggmap/recording"
	"github.com/gogpu/ggmap/render"
	"github.com/gogpu/ggmap/style"
	"github.com/gogpu/ggmap/surface"
	"github.com/gogpu/ggmap/surface/ggsurface"
	"github.com/gogpu/ggmap/view"
)

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	common := addCommonFlags(fs)
	var (
		width      = fs.Int("width", 800, "image width in CSS pixels")
		height     = fs.Int("height", 600, "image height in CSS pixels")
		ratio      = fs.Float64("ratio", 1, "device pixels per CSS pixel")
		output     = fs.String("output", "map.png", "output file")
		center     = fs.String("center", "", "view center as x,y in view coordinates (default: fit the data)")
		resolution = fs.Float64("resolution", 0, "map units per CSS pixel (default: fit the data)")
		rotation   = fs.Float64("rotation", 0, "view rotation in degrees")
		hit        = fs.String("hit", "", "list the features drawn at CSS pixel x,y")
		trace      = fs.String("trace", "", "write every surface call to this file")
	)
	_ = fs.Parse(args)
	common.setupLogging(os.Stderr)

	cache := style.NewIconImageCache()
	layers, home, err := common.loadLayers(fs.Args(), cache)
	if err != nil {
		return err
	}
	viewProj, err := proj.Get(common.projection)
	if err != nil {
		return err
	}

	v := view.New(view.WithProjection(viewProj), view.WithRotation(*rotation*math.Pi/180))
	v.Fit(home, *width, *height)
	if *center != "" {
		x, y, err := parsePoint(*center)
		if err != nil {
			return errors.Wrap(err, "-center")
		}
		v.SetCenter(x, y)
	}
	if *resolution > 0 {
		v.SetResolution(*resolution)
	}

	m := render.NewMap(v, render.WithPixelRatio(*ratio), render.WithIconCache(cache))
	for _, l := range layers {
		m.AddLayer(l)
	}
	common.waitForIcon(10 * time.Second)

	s, err := ggsurface.New(int(float64(*width)**ratio), int(float64(*height)**ratio))
	if err != nil {
		return err
	}
	var target surface.Surface = s
	var rec *recording.Surface
	if *trace != "" {
		rec = recording.New(s.Width(), s.Height(), recording.WithTarget(s))
		target = rec
	}
	frame := m.Render(target)

	if err := s.SavePNG(*output); err != nil {
		return errors.Wrapf(err, "saving %s", *output)
	}
	log.Printf("Map saved to %s (%dx%d)", *output, s.Width(), s.Height())

	if rec != nil {
		if err := writeTrace(*trace, rec); err != nil {
			return err
		}
	}
	if *hit != "" {
		x, y, err := parsePoint(*hit)
		if err != nil {
			return errors.Wrap(err, "-hit")
		}
		_, err = m.ForEachFeatureAtPixel(x, y, frame, func(f *feature.Feature, l *layer.Vector) any {
			printFeature(l, f)
			return nil
		})
		return err
	}
	return nil
}

func writeTrace(path string, rec *recording.Surface) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	if err := rec.Dump(f); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	return f.Close()
}

// printFeature writes one tab-separated line per feature: layer, id,
// geometry type and properties.
func printFeature(l *layer.Vector, f *feature.Feature) {
	kind := "none"
	if g := f.Geometry(); g != nil {
		kind = g.Type().String()
	}
	fmt.Printf("%s\t%s\t%s", l.Name(), f.ID(), kind)
	props := f.Properties()
	for _, k := range slices.Sorted(maps.Keys(props)) {
		fmt.Printf("\t%s=%v", k, props[k])
	}
	fmt.Println()
}
