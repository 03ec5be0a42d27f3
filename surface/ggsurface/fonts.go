// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ggsurface

import (
	"image"
	"image/color"
	"math"
	"strings"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/ggmap"
	"github.com/gogpu/ggmap/surface"
)

// fontCache maps CSS font strings to gg faces backed by the Go fonts.
type fontCache struct {
	once    sync.Once
	sources map[string]*text.FontSource

	mu    sync.Mutex
	faces map[string]text.Face
}

var defaultFonts = &fontCache{}

func (fc *fontCache) load() {
	fc.sources = make(map[string]*text.FontSource)
	fc.faces = make(map[string]text.Face)
	for name, data := range map[string][]byte{
		"regular": goregular.TTF,
		"bold":    gobold.TTF,
		"mono":    gomono.TTF,
	} {
		src, err := text.NewFontSource(data)
		if err != nil {
			ggmap.Logger().Warn("ggsurface: font unavailable", "font", name, "err", err)
			continue
		}
		fc.sources[name] = src
	}
}

// face returns the face for a CSS font shorthand.
func (fc *fontCache) face(font string) text.Face {
	fc.once.Do(fc.load)

	fc.mu.Lock()
	defer fc.mu.Unlock()
	if f, ok := fc.faces[font]; ok {
		return f
	}
	family := "regular"
	lower := strings.ToLower(font)
	switch {
	case strings.Contains(lower, "monospace") || strings.Contains(lower, "courier"):
		family = "mono"
	case strings.Contains(lower, "bold"):
		family = "bold"
	}
	src, ok := fc.sources[family]
	if !ok {
		src, ok = fc.sources["regular"]
	}
	if !ok {
		return nil
	}
	f := src.Face(surface.FontSize(font))
	fc.faces[font] = f
	return f
}

// render rasterises s into a tight RGBA image. left and top give the
// position of the image's top-left corner relative to the text anchor.
// A positive halo draws the glyphs repeatedly around a circle of that
// radius, which is how text strokes are approximated.
func (fc *fontCache) render(style surface.TextStyle, s string, col color.Color, halo float64) (img *image.RGBA, left, top float64) {
	face := fc.face(style.Font)
	if face == nil {
		return nil, 0, 0
	}
	m := face.Metrics()
	w := face.Advance(s)
	h := m.Ascent + m.Descent
	pad := math.Ceil(halo) + 1

	img = image.NewRGBA(image.Rect(0, 0, int(math.Ceil(w+2*pad)), int(math.Ceil(h+2*pad))))
	baseX, baseY := pad, pad+m.Ascent
	if halo > 0 {
		const steps = 16
		for i := 0; i < steps; i++ {
			a := 2 * math.Pi * float64(i) / steps
			text.Draw(img, s, face, baseX+halo*math.Cos(a), baseY+halo*math.Sin(a), col)
		}
	}
	text.Draw(img, s, face, baseX, baseY, col)

	left = -w*style.Align.Anchor() - pad
	switch style.Baseline {
	case surface.TextBaselineAlphabetic:
		top = -m.Ascent
	case surface.TextBaselineTop, surface.TextBaselineHanging:
		top = 0
	case surface.TextBaselineBottom, surface.TextBaselineIdeographic:
		top = -h
	default:
		top = -h / 2
	}
	return img, left, top - pad
}
