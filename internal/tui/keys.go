// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	ZoomIn      key.Binding
	ZoomOut     key.Binding
	RotateLeft  key.Binding
	RotateRight key.Binding
	Home        key.Binding
	Clear       key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "pan up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "pan down")),
		Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "pan left")),
		Right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "pan right")),
		ZoomIn:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:     key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
		RotateLeft:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rotate left")),
		RotateRight: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "rotate right")),
		Home:        key.NewBinding(key.WithKeys("0", "home"), key.WithHelp("0", "fit data")),
		Clear:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear selection")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.ZoomIn, k.ZoomOut, k.RotateLeft, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.ZoomIn, k.ZoomOut, k.RotateLeft, k.RotateRight},
		{k.Home, k.Clear, k.Help, k.Quit},
	}
}
