package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/gabrielfornes/notetabs/internal/anim"
	"github.com/gabrielfornes/notetabs/internal/app"
	"github.com/gabrielfornes/notetabs/internal/mouse"
	"github.com/gabrielfornes/notetabs/internal/storage"
)

const regionTab = "tab" // Data: category index

// tabStrip is the horizontally scrolling row of category tabs. It keeps the
// active tab centered, scrolling with a spring whenever the selection moves.
type tabStrip struct {
	app    *app.App
	width  int
	spring anim.Spring
}

func newTabStrip(a *app.App, params anim.Params) *tabStrip {
	return &tabStrip{app: a, spring: anim.NewSpring(params)}
}

// tabs renders every tab, highlighting the selected one.
func (t *tabStrip) tabs() []string {
	active := t.app.Nav().Active()
	out := make([]string, len(storage.AllCategories))
	for i, c := range storage.AllCategories {
		style := tabStyle
		if i == active {
			style = activeTabStyle
		}
		out[i] = style.Render(storage.CategoryLabel(c))
	}
	return out
}

func tabWidths(tabs []string) []int {
	widths := make([]int, len(tabs))
	for i, tab := range tabs {
		widths[i] = lipgloss.Width(tab)
	}
	return widths
}

// tabScrollTarget returns the scroll position that centers tab active in a
// window of the given width, clamped so the strip never scrolls past its
// ends.
func tabScrollTarget(widths []int, active, window int) int {
	total, start := 0, 0
	for i, w := range widths {
		if i == active {
			start = total
		}
		total += w
	}
	if active < 0 || active >= len(widths) || total <= window {
		return 0
	}
	target := start + widths[active]/2 - window/2
	return max(0, min(target, total-window))
}

func (t *tabStrip) target() float64 {
	return float64(tabScrollTarget(tabWidths(t.tabs()), t.app.Nav().Active(), t.width))
}

func (t *tabStrip) setWidth(w int) {
	t.width = w
	t.spring.JumpTo(t.target())
}

func (t *tabStrip) onCategoryChange(ev app.CategoryChange) {
	if !ev.Changed() {
		return
	}
	t.spring.AnimateTo(t.target())
}

func (t *tabStrip) step() bool      { return t.spring.Step() }
func (t *tabStrip) animating() bool { return !t.spring.Settled() }

func (t *tabStrip) scroll() int {
	return int(math.Round(t.spring.Position()))
}

// View renders the visible window of the strip.
func (t *tabStrip) View() string {
	row := lipgloss.JoinHorizontal(lipgloss.Top, t.tabs()...)
	s := t.scroll()
	lines := strings.Split(row, "\n")
	for i, line := range lines {
		lines[i] = ansi.Cut(line, s, s+t.width)
	}
	return strings.Join(lines, "\n")
}

// registerHits adds a click region per visible tab. x and y locate the
// strip on screen.
func (t *tabStrip) registerHits(hm *mouse.HitMap, x, y int) {
	s := t.scroll()
	pos := 0
	for i, w := range tabWidths(t.tabs()) {
		left := max(pos, s)
		right := min(pos+w, s+t.width)
		if right > left {
			hm.AddRect(regionTab, x+left-s, y, right-left, 3, i)
		}
		pos += w
	}
}
