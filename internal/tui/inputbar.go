package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const noteCharLimit = 500

// inputBar is the single-line field new notes are typed into.
type inputBar struct {
	input textinput.Model
}

func newInputBar() inputBar {
	ti := textinput.New()
	ti.Placeholder = "New note..."
	ti.Prompt = ""
	ti.CharLimit = noteCharLimit
	ti.Focus()
	return inputBar{input: ti}
}

func (b *inputBar) setWidth(w int) {
	// border (2) + padding (2) + add marker (2) + cursor (1)
	b.input.Width = max(1, w-7)
}

func (b *inputBar) focus() tea.Cmd {
	b.input.Focus()
	return textinput.Blink
}

func (b *inputBar) blur() { b.input.Blur() }

func (b *inputBar) focused() bool { return b.input.Focused() }

// empty reports whether there is nothing worth submitting.
func (b *inputBar) empty() bool {
	return strings.TrimSpace(b.input.Value()) == ""
}

// take returns the typed text and clears the field.
func (b *inputBar) take() string {
	v := b.input.Value()
	b.input.Reset()
	return v
}

func (b *inputBar) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)
	return cmd
}

// View renders the field with an add marker that dims while the field is
// empty.
func (b *inputBar) View(width int) string {
	marker := addMarkerStyle.Render("+")
	if b.empty() {
		marker = mutedStyle.Render("+")
	}
	style := inputStyle
	if b.focused() {
		style = focusedInputStyle
	}
	return style.Width(max(1, width-2)).Render(b.input.View() + " " + marker)
}
