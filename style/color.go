// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package style

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gogpu/gg"
)

var namedColors = map[string]color.Color{
	"black":       color.Black,
	"white":       color.White,
	"transparent": color.Transparent,
	"red":         color.NRGBA{R: 255, A: 255},
	"green":       color.NRGBA{G: 128, A: 255},
	"blue":        color.NRGBA{B: 255, A: 255},
	"yellow":      color.NRGBA{R: 255, G: 255, A: 255},
	"orange":      color.NRGBA{R: 255, G: 165, A: 255},
	"gray":        color.NRGBA{R: 128, G: 128, B: 128, A: 255},
	"grey":        color.NRGBA{R: 128, G: 128, B: 128, A: 255},
}

// ParseColor parses a CSS color: a name, #rgb, #rgba, #rrggbb, #rrggbbaa,
// rgb(r, g, b) or rgba(r, g, b, a) with a in [0, 1].
func ParseColor(s string) (color.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") {
		switch len(s) {
		case 4, 5, 7, 9:
			if _, err := strconv.ParseUint(s[1:], 16, 32); err != nil {
				return nil, errors.Wrapf(err, "style: invalid color %q", s)
			}
			return gg.Hex(s).Color(), nil
		}
		return nil, errors.Newf("style: invalid color %q", s)
	}

	var args string
	var wantAlpha bool
	switch {
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		args, wantAlpha = s[5:len(s)-1], true
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		args = s[4 : len(s)-1]
	default:
		return nil, errors.Newf("style: invalid color %q", s)
	}
	parts := strings.Split(args, ",")
	if (wantAlpha && len(parts) != 4) || (!wantAlpha && len(parts) != 3) {
		return nil, errors.Newf("style: invalid color %q", s)
	}
	var v [4]float64
	v[3] = 1
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "style: invalid color %q", s)
		}
		if i < 3 {
			f /= 255
		}
		v[i] = min(max(f, 0), 1)
	}
	return gg.RGBA2(v[0], v[1], v[2], v[3]).Color(), nil
}

// MustParseColor is like ParseColor but panics on error.
func MustParseColor(s string) color.Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}
