package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings shared by all modes.
type keyMap struct {
	quit     key.Binding
	nextTab  key.Binding
	prevTab  key.Binding
	submit   key.Binding
	listMode key.Binding

	// list mode
	nextPage  key.Binding
	prevPage  key.Binding
	jumpTab   key.Binding
	up        key.Binding
	down      key.Binding
	swipeNext key.Binding
	swipePrev key.Binding
	remove    key.Binding
	move      key.Binding
	copy      key.Binding
	edit      key.Binding
	cancel    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		nextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		prevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev tab"),
		),
		nextPage: key.NewBinding(
			key.WithKeys("]"),
		),
		prevPage: key.NewBinding(
			key.WithKeys("["),
		),
		jumpTab: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-4", "tab"),
		),
		submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "add"),
		),
		listMode: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "notes"),
		),
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/↓", "navigate"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
		),
		swipeNext: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("←/→", "swipe"),
		),
		swipePrev: key.NewBinding(
			key.WithKeys("left", "h"),
		),
		remove: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		move: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "move"),
		),
		copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy"),
		),
		edit: key.NewBinding(
			key.WithKeys("i", "enter", "esc"),
			key.WithHelp("i", "write"),
		),
		cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// help renders a binding as a help entry.
func help(b key.Binding) string {
	h := b.Help()
	return helpEntry(h.Key, h.Desc)
}

// digit returns the 0-based tab index for keys "1".."9", or -1.
func digit(s string) int {
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return -1
	}
	return int(s[0] - '1')
}
