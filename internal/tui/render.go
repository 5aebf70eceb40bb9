package tui

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/gabrielfornes/notetabs/internal/storage"
)

// maxCachedNotes bounds the render cache; it is dropped wholesale when full.
const maxCachedNotes = 512

// noteRenderer turns note text into styled bubble bodies. Markdown output is
// cached by a digest of width and text since glamour is slow.
type noteRenderer struct {
	markdown bool
	cache    map[uint64]string
}

func newNoteRenderer(markdown bool) *noteRenderer {
	return &noteRenderer{
		markdown: markdown,
		cache:    make(map[uint64]string),
	}
}

func cacheKey(width int, text string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(strconv.Itoa(width))
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(text)
	return d.Sum64()
}

// body renders text wrapped to width.
func (r *noteRenderer) body(width int, text string) string {
	if !r.markdown {
		return lipgloss.NewStyle().Width(width).Render(text)
	}
	k := cacheKey(width, text)
	if out, ok := r.cache[k]; ok {
		return out
	}
	if len(r.cache) >= maxCachedNotes {
		clear(r.cache)
	}
	out := renderMarkdown(width, text)
	r.cache[k] = out
	return out
}

// bubble renders a note as a bordered bubble of the given outer width.
func (r *noteRenderer) bubble(n storage.Note, width int, selected bool) string {
	style := bubbleStyle
	if selected {
		style = selectedBubbleStyle
	}
	// Width includes padding but not the border.
	inner := width - style.GetHorizontalFrameSize()
	if inner < 1 {
		inner = 1
	}
	content := r.body(inner, n.Text) + "\n" + timestampStyle.Render(n.Timestamp.Format("Jan 2 15:04"))
	return style.Width(width - style.GetHorizontalBorderSize()).Render(content)
}

// preview shortens note text for status messages.
func preview(text string) string {
	return runewidth.Truncate(text, statusPreviewWidth, "…")
}
