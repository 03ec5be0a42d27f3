package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/gogpu/ggmap"
	"github.com/gogpu/ggmap/extent"
	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/format"
	"github.com/gogpu/ggmap/layer"
	"github.com/gogpu/ggmap/proj"
	"github.com/gogpu/ggmap/source"
	"github.com/gogpu/ggmap/style"
	"github.com/gogpu/ggmap/surface"
)

// commonFlags are shared by every command.
type commonFlags struct {
	projection     string
	dataProjection string
	split          bool

	fill        string
	stroke      string
	strokeWidth float64
	pointRadius float64
	icon        string
	label       string

	verbose bool

	// pointIcon is the icon built from -icon, if any.
	pointIcon *style.Icon
}

func addCommonFlags(fs *flag.FlagSet) *commonFlags {
	c := &commonFlags{}
	fs.StringVar(&c.projection, "proj", "EPSG:3857", "view projection")
	fs.StringVar(&c.dataProjection, "data-proj", "", "projection of the input, overriding what the files declare")
	fs.BoolVar(&c.split, "split", false, "read each member of a WKT/WKB geometry collection as its own feature")
	fs.StringVar(&c.fill, "fill", "rgba(255,255,255,0.4)", "polygon fill color")
	fs.StringVar(&c.stroke, "stroke", "#3399CC", "line and outline color")
	fs.Float64Var(&c.strokeWidth, "stroke-width", 1.25, "line width in pixels")
	fs.Float64Var(&c.pointRadius, "point-radius", 5, "radius of point markers in pixels")
	fs.StringVar(&c.icon, "icon", "", "image file or URL drawn at points instead of a circle")
	fs.StringVar(&c.label, "label", "", "feature property drawn as a label")
	fs.BoolVar(&c.verbose, "v", false, "log debug output")
	return c
}

// setupLogging sends debug output to w when verbose is set.
func (c *commonFlags) setupLogging(w io.Writer) {
	if c.verbose {
		ggmap.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
}

// loadLayers reads every path into its own layer, styled by c, and returns
// the layers with the extent of their features.
func (c *commonFlags) loadLayers(paths []string, cache *style.IconImageCache) ([]*layer.Vector, extent.Extent, error) {
	home := extent.CreateEmpty()
	if len(paths) == 0 {
		return nil, home, errors.New("no input files")
	}
	viewProj, err := proj.Get(c.projection)
	if err != nil {
		return nil, home, err
	}
	opts := []format.Option{format.WithFeatureProjection(viewProj), format.WithSplitCollection(c.split)}
	if c.dataProjection != "" {
		p, err := proj.Get(c.dataProjection)
		if err != nil {
			return nil, home, err
		}
		opts = append(opts, format.WithDataProjection(p))
	}
	styleFn, err := c.styleFunction(cache)
	if err != nil {
		return nil, home, err
	}

	layers := make([]*layer.Vector, 0, len(paths))
	for _, path := range paths {
		r, err := format.ForPath(path, opts...)
		if err != nil {
			return nil, home, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, home, errors.Wrapf(err, "reading %s", path)
		}
		features, err := r.ReadFeatures(data)
		if err != nil {
			return nil, home, errors.Wrapf(err, "reading %s", path)
		}
		src := source.NewVector(source.WithFeatures(features...), source.WithProjection(viewProj))
		home.Extend(src.Extent())
		ggmap.Logger().Info("ggmap: loaded", "path", path, "features", len(features))
		layers = append(layers, layer.NewVector(src,
			layer.WithName(filepath.Base(path)),
			layer.WithStyleFunction(styleFn)))
	}
	return layers, home, nil
}

// styleFunction builds the style of every feature from the flags. Icons go
// through cache so that the map can sweep it.
func (c *commonFlags) styleFunction(cache *style.IconImageCache) (style.StyleFunction, error) {
	fillColor, err := style.ParseColor(c.fill)
	if err != nil {
		return nil, errors.Wrap(err, "-fill")
	}
	strokeColor, err := style.ParseColor(c.stroke)
	if err != nil {
		return nil, errors.Wrap(err, "-stroke")
	}
	fill := style.NewFill(fillColor)
	stroke := style.NewStroke(strokeColor, c.strokeWidth)

	base := &style.Style{Fill: fill, Stroke: stroke}
	if c.icon != "" {
		c.pointIcon = style.NewIcon(c.icon, style.WithIconCache(cache))
		base.Image = c.pointIcon
	} else {
		base.Image = style.NewCircle(c.pointRadius, fill, stroke)
	}
	if c.label == "" {
		return style.StaticStyleFunction(base), nil
	}

	label := c.label
	textFill := style.NewFill(strokeColor)
	halo := style.NewStroke(style.MustParseColor("#fff"), 3)
	return func(f *feature.Feature, _ float64) []*style.Style {
		v, ok := f.Get(label)
		if !ok || v == nil {
			return []*style.Style{base}
		}
		st := *base
		st.Text = &style.Text{
			Text:     fmt.Sprint(v),
			Baseline: surface.TextBaselineMiddle,
			Align:    surface.TextAlignCenter,
			Fill:     textFill,
			Stroke:   halo,
		}
		return []*style.Style{&st}
	}, nil
}

// waitForIcon blocks until the point icon has loaded or failed, so that a
// single render shows it.
func (c *commonFlags) waitForIcon(timeout time.Duration) {
	if c.pointIcon == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	c.pointIcon.Load()
	if err := c.pointIcon.IconImage().Wait(ctx); err != nil {
		ggmap.Logger().Warn("ggmap: icon not loaded", "src", c.pointIcon.Src(), "error", err)
	}
}

// parsePoint parses "x,y".
func parsePoint(s string) (x, y float64, err error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, errors.Newf("%q is not x,y", s)
	}
	if x, err = strconv.ParseFloat(strings.TrimSpace(xs), 64); err != nil {
		return 0, 0, errors.Wrapf(err, "%q is not x,y", s)
	}
	if y, err = strconv.ParseFloat(strings.TrimSpace(ys), 64); err != nil {
		return 0, 0, errors.Wrapf(err, "%q is not x,y", s)
	}
	return x, y, nil
}
