// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package tui is a terminal map viewer. It draws a render.Map with the gg
// surface and shows the result as braille dots, two by four per cell.
package tui

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gogpu/ggmap"
	"github.com/gogpu/ggmap/extent"
	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/proj"
	"github.com/gogpu/ggmap/render"
	"github.com/gogpu/ggmap/surface/ggsurface"
	"github.com/gogpu/ggmap/view"
)

const (
	panelWidth = 34
	zoomFactor = 1.5
	rotateStep = math.Pi / 12

	animationDuration = 250 * time.Millisecond
	frameInterval     = time.Second / 30
	// interactionIdle ends a key-driven pan after the last key
	interactionIdle = 300 * time.Millisecond
)

// Option configures a Model.
type Option func(*Model)

// WithTitle sets the header text.
func WithTitle(title string) Option {
	return func(m *Model) { m.title = title }
}

// WithHome sets the extent the view is fitted to on start and by the home
// key.
func WithHome(e extent.Extent) Option {
	return func(m *Model) { m.home = e }
}

// WithRedraw sets a channel that receives a value whenever the map needs
// to be drawn again, typically from render.WithRedraw.
func WithRedraw(ch <-chan struct{}) Option {
	return func(m *Model) { m.redraw = ch }
}

// WithPointerProjection sets the projection the pointer position is shown
// in. nil shows view coordinates.
func WithPointerProjection(p *proj.Projection) Option {
	return func(m *Model) { m.pointerProj = p }
}

// WithCoordinateDigits sets the fraction digits of the pointer position.
func WithCoordinateDigits(n int) Option {
	return func(m *Model) { m.coordDigits = n }
}

// WithClock sets the time source of animations.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

type (
	redrawMsg         struct{}
	animationFrameMsg struct{}
	interactionEndMsg struct{ seq int }
)

// Model is the bubbletea model of the viewer.
type Model struct {
	m      *render.Map
	title  string
	home   extent.Extent
	redraw <-chan struct{}

	keys keyMap
	help help.Model

	width, height int
	mapW, mapH    int
	fitted        bool

	now         func() time.Time
	animating   bool
	interacting bool
	interaction int

	pointerProj *proj.Projection
	coordDigits int
	pointer     string

	surface  *ggsurface.Surface
	frame    *view.FrameState
	canvas   []string
	selected []*feature.Feature
	status   string
}

// New creates a viewer of m.
func New(m *render.Map, opts ...Option) Model {
	model := Model{
		m:      m,
		title:  "ggmap",
		home:   extent.CreateEmpty(),
		keys:   defaultKeyMap(),
		help:   help.New(),
		status: "ready",
		now:    time.Now,

		pointerProj: proj.EPSG4326,
		coordDigits: 4,
	}
	for _, opt := range opts {
		opt(&model)
	}
	return model
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return waitRedraw(m.redraw) }

func waitRedraw(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		<-ch
		return redrawMsg{}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		if !m.fitted {
			m.m.View().Fit(m.home, m.mapW*dotsX, m.mapH*dotsY)
			m.fitted = true
		}
		m.render()
	case redrawMsg:
		m.render()
		return m, waitRedraw(m.redraw)
	case animationFrameMsg:
		running := m.m.View().Step(m.now())
		m.render()
		if !running {
			m.animating = false
			return m, nil
		}
		return m, animationFrame()
	case interactionEndMsg:
		if msg.seq == m.interaction && m.interacting {
			m.m.View().SetHint(view.HintInteracting, -1)
			m.interacting = false
			m.render()
		}
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func animationFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return animationFrameMsg{} })
}

// animate replaces any running animation with a and returns the command
// driving its frames.
func (m *Model) animate(a *view.Animation) tea.Cmd {
	v := m.m.View()
	v.CancelAnimations()
	v.Animate(a)
	v.Step(m.now())
	if m.animating {
		return nil
	}
	m.animating = true
	return animationFrame()
}

// interact marks the view as interacting until no pan key arrived for
// interactionIdle.
func (m *Model) interact() tea.Cmd {
	if !m.interacting {
		m.m.View().SetHint(view.HintInteracting, 1)
		m.interacting = true
	}
	m.interaction++
	seq := m.interaction
	return tea.Tick(interactionIdle, func(time.Time) tea.Msg { return interactionEndMsg{seq: seq} })
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.m.View()
	stepX := float64(m.mapW*dotsX) / 8
	stepY := float64(m.mapH*dotsY) / 8
	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
	case key.Matches(msg, m.keys.Up):
		v.Pan(0, stepY)
		cmd = m.interact()
	case key.Matches(msg, m.keys.Down):
		v.Pan(0, -stepY)
		cmd = m.interact()
	case key.Matches(msg, m.keys.Left):
		v.Pan(stepX, 0)
		cmd = m.interact()
	case key.Matches(msg, m.keys.Right):
		v.Pan(-stepX, 0)
		cmd = m.interact()
	case key.Matches(msg, m.keys.ZoomIn):
		cmd = m.animate(view.ZoomTo(v.Resolution()/zoomFactor, view.WithDuration(animationDuration)))
	case key.Matches(msg, m.keys.ZoomOut):
		cmd = m.animate(view.ZoomTo(v.Resolution()*zoomFactor, view.WithDuration(animationDuration)))
	case key.Matches(msg, m.keys.RotateLeft):
		cmd = m.animate(view.RotateTo(v.Rotation()+rotateStep, view.WithDuration(animationDuration)))
	case key.Matches(msg, m.keys.RotateRight):
		cmd = m.animate(view.RotateTo(v.Rotation()-rotateStep, view.WithDuration(animationDuration)))
	case key.Matches(msg, m.keys.Home):
		v.CancelAnimations()
		v.SetRotation(0)
		v.Fit(m.home, m.mapW*dotsX, m.mapH*dotsY)
	case key.Matches(msg, m.keys.Clear):
		m.selected = nil
		m.status = "selection cleared"
		m.layout()
	default:
		return m, nil
	}
	m.status = fmt.Sprintf("resolution %.4g  rotation %.0f°", v.Resolution(), v.Rotation()*180/math.Pi)
	m.render()
	return m, cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	// the map starts below the one-line header
	cx, cy := msg.X, msg.Y-1
	if cx < 0 || cy < 0 || cx >= m.mapW || cy >= m.mapH || m.frame == nil {
		m.pointer = ""
		return
	}
	px, py := float64(cx*dotsX)+dotsX/2, float64(cy*dotsY)+dotsY/2
	m.pointer = m.pointerPosition(px, py)
	switch {
	case msg.Action != tea.MouseActionPress:
		return
	case msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown:
		factor := zoomFactor
		if msg.Button == tea.MouseButtonWheelDown {
			factor = 1 / zoomFactor
		}
		x, y := m.frame.PixelToCoord(px, py)
		m.m.View().ZoomAt(factor, x, y)
		m.render()
	case msg.Button == tea.MouseButtonLeft:
		m.selectAt(px, py)
	}
}

// pointerPosition formats the map coordinate at pixel (px, py) in the
// pointer projection.
func (m *Model) pointerPosition(px, py float64) string {
	x, y := m.frame.PixelToCoord(px, py)
	if m.pointerProj != nil && m.frame.Projection != nil {
		fn, err := proj.Transform(m.frame.Projection, m.pointerProj)
		if err != nil {
			return ""
		}
		xy := fn([]float64{x, y}, nil, 2)
		x, y = xy[0], xy[1]
	}
	return strconv.FormatFloat(x, 'f', m.coordDigits, 64) + ", " + strconv.FormatFloat(y, 'f', m.coordDigits, 64)
}

// selectAt replaces the selection with the features drawn at pixel
// (px, py) of the map.
func (m *Model) selectAt(px, py float64) {
	found, err := m.m.FeaturesAtPixel(px, py, m.frame)
	if err != nil {
		ggmap.Logger().Warn("tui: hit detection failed", "error", err)
		m.status = "hit detection failed: " + err.Error()
		return
	}
	m.selected = found
	x, y := m.frame.PixelToCoord(px, py)
	m.status = fmt.Sprintf("%d feature(s) at (%.6g, %.6g)", len(found), x, y)
	m.layout()
	m.render()
}

// layout sizes the map area from the window and the panels around it.
func (m *Model) layout() {
	footer := 1
	if m.help.ShowAll {
		footer = lipgloss.Height(m.help.View(m.keys))
	}
	w := m.width
	if len(m.selected) > 0 {
		w -= panelWidth
	}
	m.mapW, m.mapH = max(w, 1), max(m.height-1-footer, 1)
	m.help.Width = m.width
}

// render draws the map into the braille canvas.
func (m *Model) render() {
	w, h := m.mapW*dotsX, m.mapH*dotsY
	if m.surface == nil || m.surface.Width() != w || m.surface.Height() != h {
		s, err := ggsurface.New(w, h)
		if err != nil {
			m.status = "surface: " + err.Error()
			return
		}
		m.surface = s
	}
	m.frame = m.m.Render(m.surface)
	m.canvas = brailleLines(m.surface.Image(), m.mapW, m.mapH)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := titleStyle.Render(" "+m.title+" ") + dimStyle.Render(" "+m.status)
	if m.pointer != "" {
		header += "  " + keyStyle.Render(m.pointer)
	}
	header = lipgloss.NewStyle().Width(m.width).MaxHeight(1).Render(header)

	body := lipgloss.NewStyle().Width(m.mapW).Height(m.mapH).Render(strings.Join(m.canvas, "\n"))
	if len(m.selected) > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.propertyPanel())
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.help.View(m.keys))
}

// propertyPanel lists the selected features, topmost first.
func (m Model) propertyPanel() string {
	var b strings.Builder
	for i, f := range m.selected {
		if i > 0 {
			b.WriteString("\n\n")
		}
		id := f.ID()
		if id == "" {
			id = "(no id)"
		}
		b.WriteString(titleStyle.Render(id))
		if g := f.Geometry(); g != nil {
			b.WriteString(dimStyle.Render(" " + g.Type().String()))
		}
		props := f.Properties()
		for _, k := range slices.Sorted(maps.Keys(props)) {
			fmt.Fprintf(&b, "\n%s %v", keyStyle.Render(k+":"), props[k])
		}
	}
	return panelStyle.Width(panelWidth - 2).MaxHeight(m.mapH).Render(b.String())
}
