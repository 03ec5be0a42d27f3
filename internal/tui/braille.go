// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tui

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Each terminal cell shows a 2x4 grid of braille dots.
const (
	dotsX = 2
	dotsY = 4
)

// dotBits maps a dot position within a cell to its bit in the braille
// pattern, indexed [y][x].
var dotBits = [dotsY][dotsX]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// alphaThreshold is the 16-bit alpha from which a pixel lights its dot.
const alphaThreshold = 0x8000

// brailleLines turns img into rows x cols braille cells, one dot per
// pixel. Each cell takes the average color of its lit pixels, quantized
// so that neighbouring cells share a style run.
func brailleLines(img image.Image, cols, rows int) []string {
	b := img.Bounds()
	out := make([]string, rows)
	for cy := range rows {
		var sb strings.Builder
		var run strings.Builder
		runColor := ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runColor == "" {
				sb.WriteString(run.String())
			} else {
				sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(runColor)).Render(run.String()))
			}
			run.Reset()
		}
		for cx := range cols {
			var mask uint8
			var r, g, bl, n uint32
			for dy := range dotsY {
				for dx := range dotsX {
					x, y := b.Min.X+cx*dotsX+dx, b.Min.Y+cy*dotsY+dy
					if x >= b.Max.X || y >= b.Max.Y {
						continue
					}
					pr, pg, pb, pa := img.At(x, y).RGBA()
					if pa < alphaThreshold {
						continue
					}
					mask |= dotBits[dy][dx]
					// un-premultiply
					r += pr * 0xffff / pa
					g += pg * 0xffff / pa
					bl += pb * 0xffff / pa
					n++
				}
			}
			cell, color := " ", runColor
			if mask != 0 {
				cell = string(rune(0x2800 + int(mask)))
				color = quantize(r/n, g/n, bl/n)
			}
			if color != runColor {
				flush()
				runColor = color
			}
			run.WriteString(cell)
		}
		flush()
		out[cy] = sb.String()
	}
	return out
}

// quantize reduces 16-bit channels to a 12-bit hex color.
func quantize(r, g, b uint32) string {
	q := func(v uint32) uint32 { return (v >> 12) * 0x11 }
	return fmt.Sprintf("#%02X%02X%02X", q(r), q(g), q(b))
}
