package tui

import (
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/gabrielfornes/notetabs/internal/anim"
	"github.com/gabrielfornes/notetabs/internal/app"
	"github.com/gabrielfornes/notetabs/internal/nav"
	"github.com/gabrielfornes/notetabs/internal/storage"
)

const regionPager = "pager"

// rubberBand damps drags past the first or last page.
const rubberBand = 3

// scrollToBottomMsg fires after a note was appended. seq must still match
// the pager's sequence for the scroll to happen.
type scrollToBottomMsg struct {
	category storage.Category
	seq      int
}

// pager lays out one scrollable page per category side by side and shows
// the horizontal slice at the animated offset.
type pager struct {
	app    *app.App
	render *noteRenderer

	pages   []viewport.Model
	starts  [][]int // first line of each bubble, per page
	lengths [][]int

	width  int
	height int

	spring  anim.Spring
	tracker nav.Tracker

	// highlight is the cursor row on highlightPage, -1 for none.
	highlight     int
	highlightPage int

	scrollDelay time.Duration
	scrollSeq   int

	cmds []tea.Cmd
}

func newPager(a *app.App, r *noteRenderer, params anim.Params, scrollDelay time.Duration) *pager {
	p := &pager{
		app:         a,
		render:      r,
		pages:       make([]viewport.Model, len(storage.AllCategories)),
		starts:      make([][]int, len(storage.AllCategories)),
		lengths:     make([][]int, len(storage.AllCategories)),
		spring:      anim.NewSpring(params),
		highlight:   -1,
		scrollDelay: scrollDelay,
	}
	for i := range p.pages {
		p.pages[i] = viewport.New(0, 0)
	}
	return p
}

// setSize resizes every page and re-renders it scrolled to the bottom.
func (p *pager) setSize(w, h int) {
	resized := w != p.width
	p.width, p.height = w, h
	for i, c := range storage.AllCategories {
		p.pages[i].Width = w
		p.pages[i].Height = h
		p.refresh(c)
		if resized {
			p.pages[i].GotoBottom()
		}
	}
	p.spring.JumpTo(p.app.Nav().Offset(float64(w)))
}

// refresh rebuilds the content of c's page, keeping its scroll position.
func (p *pager) refresh(c storage.Category) {
	i := c.Index()
	notes := p.app.Notes(c)
	if len(notes) == 0 {
		p.starts[i], p.lengths[i] = nil, nil
		p.pages[i].SetContent(emptyPageStyle.Render("No notes in " + c.Label() + " yet."))
		return
	}

	highlight := -1
	if i == p.highlightPage {
		highlight = p.highlight
	}
	var b strings.Builder
	starts := make([]int, len(notes))
	lengths := make([]int, len(notes))
	line := 0
	for j, n := range notes {
		bubble := p.render.bubble(n, p.width, j == highlight)
		if j > 0 {
			b.WriteString("\n")
		}
		b.WriteString(bubble)
		starts[j] = line
		lengths[j] = strings.Count(bubble, "\n") + 1
		line += lengths[j]
	}
	p.starts[i], p.lengths[i] = starts, lengths
	p.pages[i].SetContent(b.String())
}

// setHighlight moves the cursor on the active page and scrolls it into view.
func (p *pager) setHighlight(row int) {
	active := p.app.Nav().Active()
	if row == p.highlight && active == p.highlightPage {
		return
	}
	p.highlight, p.highlightPage = row, active
	p.refresh(storage.At(active))
	if row < 0 || row >= len(p.starts[active]) {
		return
	}
	vp := &p.pages[active]
	top, bottom := p.starts[active][row], p.starts[active][row]+p.lengths[active][row]
	switch {
	case top < vp.YOffset:
		vp.SetYOffset(top)
	case bottom > vp.YOffset+vp.Height:
		vp.SetYOffset(bottom - vp.Height)
	}
}

func (p *pager) onCategoryChange(ev app.CategoryChange) {
	p.scrollSeq++
	if ev.Changed() && p.highlight >= 0 {
		p.highlight = -1
		p.refresh(ev.From)
	}
	target := p.app.Nav().Offset(float64(p.width))
	if ev.Transition.Animated {
		p.spring.AnimateTo(target)
	} else {
		p.spring.JumpTo(target)
	}
}

func (p *pager) onNotesChange(ev app.NotesChange) {
	p.scrollSeq++
	for _, c := range ev.Categories {
		p.refresh(c)
	}
	if ev.Kind != app.NoteAdded {
		return
	}
	msg := scrollToBottomMsg{category: ev.Note.Category, seq: p.scrollSeq}
	p.cmds = append(p.cmds, tea.Tick(p.scrollDelay, func(time.Time) tea.Msg { return msg }))
}

// handleScrollToBottom scrolls a page down unless a later event superseded
// the request.
func (p *pager) handleScrollToBottom(msg scrollToBottomMsg) bool {
	if msg.seq != p.scrollSeq {
		return false
	}
	p.pages[msg.category.Index()].GotoBottom()
	return true
}

// takeCmds returns and clears the commands queued by event handlers.
func (p *pager) takeCmds() []tea.Cmd {
	cmds := p.cmds
	p.cmds = nil
	return cmds
}

// scrollBy scrolls the active page vertically.
func (p *pager) scrollBy(delta int) {
	vp := &p.pages[p.app.Nav().Active()]
	vp.SetYOffset(vp.YOffset + delta)
}

// --- Drag ---

func (p *pager) beginDrag(x int, now time.Time) {
	p.tracker.Begin(float64(x), now)
}

func (p *pager) dragging() bool { return p.tracker.Active() }

// drag makes the pages follow the pointer, damped past either end.
func (p *pager) drag(x int, now time.Time) {
	d := p.tracker.Move(float64(x), now)
	active, last := p.app.Nav().Active(), p.app.Nav().Count()-1
	if (active == 0 && d > 0) || (active == last && d < 0) {
		d /= rubberBand
	}
	p.spring.Nudge(d)
}

// cancelDrag lets go of the pages without a gesture; they spring back to the
// active page.
func (p *pager) cancelDrag() {
	p.tracker.Cancel()
}

func (p *pager) endDrag(x int, now time.Time) nav.Gesture {
	return p.tracker.End(float64(x), now, float64(p.width))
}

// --- Animation ---

// The spring holds still while the pointer owns the offset.
func (p *pager) step() bool {
	if p.dragging() {
		return false
	}
	return p.spring.Step()
}

func (p *pager) animating() bool {
	return !p.dragging() && !p.spring.Settled()
}

// View renders the window at the current offset.
func (p *pager) View() string {
	x := -int(math.Round(p.spring.Position()))
	return slicePages(func(i int) string { return p.pages[i].View() }, len(p.pages), p.width, p.height, x)
}

// slicePages renders the window of width w starting at x over count pages
// of width w laid side by side. Positions outside the strip are blank.
func slicePages(page func(int) string, count, w, h, x int) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	first := floorDiv(x, w)
	blank := strings.Repeat(" ", w)

	var cols [2][]string
	for k := range cols {
		i := first + k
		lines := make([]string, h)
		var src []string
		if i >= 0 && i < count {
			src = strings.Split(page(i), "\n")
		}
		for row := range lines {
			line := blank
			if row < len(src) {
				line = padRight(src[row], w)
			}
			lines[row] = line
		}
		cols[k] = lines
	}

	from := x - first*w
	out := make([]string, h)
	for row := range out {
		out[row] = ansi.Cut(cols[0][row]+cols[1][row], from, from+w)
	}
	return strings.Join(out, "\n")
}

func padRight(s string, w int) string {
	width := ansi.StringWidth(s)
	if width >= w {
		return ansi.Truncate(s, w, "")
	}
	return s + strings.Repeat(" ", w-width)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
