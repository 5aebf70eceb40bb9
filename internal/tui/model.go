package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/gabrielfornes/notetabs/internal/anim"
	"github.com/gabrielfornes/notetabs/internal/app"
	"github.com/gabrielfornes/notetabs/internal/mouse"
	"github.com/gabrielfornes/notetabs/internal/nav"
	"github.com/gabrielfornes/notetabs/internal/storage"
)

const regionInput = "input"

// mode represents what keys currently act on.
type mode int

const (
	modeInput mode = iota // typing a new note
	modeList              // cursor over the notes of the active page
	modeMove              // picking a category for the note under the cursor
)

// Options configure the root model.
type Options struct {
	Spring      anim.Params
	Markdown    bool
	ScrollDelay time.Duration

	// StoreChanges, when set, delivers a value whenever the persisted notes
	// changed outside the program.
	StoreChanges <-chan struct{}
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Spring:      anim.DefaultParams,
		Markdown:    true,
		ScrollDelay: 120 * time.Millisecond,
	}
}

// Model is the root Bubble Tea model for notetabs.
type Model struct {
	app *app.App
	ctx context.Context

	// Terminal dimensions
	width  int
	height int

	mode mode

	// Cursor over the notes of cursorPage, used in list and move mode
	cursor     int
	cursorPage int

	tabs  *tabStrip
	pager *pager
	input inputBar

	keys  keyMap
	mouse *mouse.Handler

	frame   time.Duration
	ticking bool // a frame tick is in flight
	changes <-chan struct{}
	now     func() time.Time

	// Status message (shown until the next one)
	statusMsg string
	statusErr bool
}

// NewModel creates the root model and subscribes its views to a.
func NewModel(ctx context.Context, a *app.App, opts Options) Model {
	r := newNoteRenderer(opts.Markdown)
	tabs := newTabStrip(a, opts.Spring)
	pg := newPager(a, r, opts.Spring, opts.ScrollDelay)

	a.OnCategoryChange(func(ev app.CategoryChange) {
		tabs.onCategoryChange(ev)
		pg.onCategoryChange(ev)
	})
	a.OnNotesChange(pg.onNotesChange)

	m := Model{
		app:        a,
		ctx:        ctx,
		mode:       modeInput,
		cursorPage: a.Nav().Active(),
		tabs:       tabs,
		pager:      pg,
		input:      newInputBar(),
		keys:       newKeyMap(),
		mouse:      mouse.NewHandler(),
		frame:      opts.Spring.Frame(),
		changes:    opts.StoreChanges,
		now:        time.Now,
	}
	m.resize(defaultTerminalWidth, defaultTerminalHeight)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("📒 notetabs"),
		m.input.focus(),
		m.watchStore(),
	)
}

// layout returns the page width and height left after the fixed chrome.
func (m Model) layout() (int, int) {
	w := max(minPageWidth, m.width-appStyle.GetHorizontalPadding())
	h := max(minPageHeight, m.height-appStyle.GetVerticalPadding()-chromeHeight)
	return w, h
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	w, h := m.layout()
	m.tabs.setWidth(w)
	m.pager.setSize(w, h)
	m.input.setWidth(w)
	m.registerHits()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case frameMsg:
		return m.stepFrame()

	case scrollToBottomMsg:
		m.pager.handleScrollToBottom(msg)
		return m, nil

	case storeChangedMsg:
		if m.app.Reload(m.ctx) {
			m.setStatus("Notes reloaded from disk", false)
		}
		cmds = append(cmds, m.watchStore())

	case noteCopiedMsg:
		if msg.err != nil {
			m.setStatus("Error copying note: "+msg.err.Error(), true)
		} else {
			m.setStatus("Copied “"+preview(msg.text)+"” ✓", false)
		}

	case tea.MouseMsg:
		cmds = append(cmds, m.handleMouse(msg))

	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd = m.handleKey(msg)
		cmds = append(cmds, cmd)

	default:
		// Cursor blink and other textinput messages
		if m.mode == modeInput {
			cmds = append(cmds, m.input.update(msg))
		}
	}

	return m.flush(cmds...)
}

// flush brings the views in line with the state after an update and starts
// the frame loop if anything is left to animate.
func (m Model) flush(cmds ...tea.Cmd) (tea.Model, tea.Cmd) {
	m.syncCursor()
	cmds = append(cmds, m.pager.takeCmds()...)
	if !m.ticking && (m.tabs.animating() || m.pager.animating()) {
		m.ticking = true
		cmds = append(cmds, m.tick())
	}
	m.registerHits()
	return m, tea.Batch(cmds...)
}

func (m Model) stepFrame() (tea.Model, tea.Cmd) {
	tabsMoving := m.tabs.step()
	pagerMoving := m.pager.step()
	m.registerHits()
	if tabsMoving || pagerMoving {
		return m, m.tick()
	}
	m.ticking = false
	return m, nil
}

// syncCursor keeps the cursor on a valid note of the active page. Arriving
// on a new page puts it on the newest note.
func (m *Model) syncCursor() {
	active := m.app.Nav().Active()
	n := m.app.Store().Count(storage.At(active))
	if active != m.cursorPage {
		m.cursorPage = active
		m.cursor = n - 1
	}
	m.cursor = max(0, min(m.cursor, n-1))

	row := -1
	if m.mode != modeInput && n > 0 {
		row = m.cursor
	}
	m.pager.setHighlight(row)
}

// selectedNote returns the note under the cursor.
func (m Model) selectedNote() (storage.Note, bool) {
	notes := m.app.Notes(m.app.Selected())
	if m.cursor < 0 || m.cursor >= len(notes) {
		return storage.Note{}, false
	}
	return notes[m.cursor], true
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.statusMsg = msg
	m.statusErr = isErr
}

// --- Keys ---

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) {
		return m, tea.Quit
	}

	// A key press takes the pages back from the pointer.
	if m.mouse.IsDragging() {
		m.mouse.EndDrag()
		m.pager.cancelDrag()
	}

	// The picker acts on the note under the cursor, so the page stays put
	// until it is closed.
	if m.mode != modeMove {
		switch {
		case key.Matches(msg, m.keys.nextTab):
			m.selectRelative(1)
			return m, nil
		case key.Matches(msg, m.keys.prevTab):
			m.selectRelative(-1)
			return m, nil
		}
	}

	switch m.mode {
	case modeList:
		return m.updateList(msg)
	case modeMove:
		return m.updateMovePicker(msg)
	}
	return m.updateInput(msg)
}

// selectRelative cycles through the tabs, wrapping at either end.
func (m Model) selectRelative(delta int) {
	count := m.app.Nav().Count()
	m.app.SelectIndex((m.app.Nav().Active() + delta + count) % count)
}

func (m Model) updateInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.submit):
		if m.input.empty() {
			return m, nil
		}
		if n, ok := m.app.AddNote(m.ctx, m.input.take()); ok {
			m.setStatus("Added to "+storage.CategoryLabel(n.Category)+" ✓", false)
		}
		return m, nil
	case key.Matches(msg, m.keys.listMode):
		m.mode = modeList
		m.input.blur()
		m.cursor = m.app.Store().Count(m.app.Selected()) - 1
		return m, nil
	}
	return m, m.input.update(msg)
}

func (m Model) updateList(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.edit):
		m.mode = modeInput
		return m, m.input.focus()
	case key.Matches(msg, m.keys.nextPage):
		m.app.SelectIndex(m.app.Nav().Active() + 1)
	case key.Matches(msg, m.keys.prevPage):
		m.app.SelectIndex(m.app.Nav().Active() - 1)
	case key.Matches(msg, m.keys.jumpTab):
		if i := digit(msg.String()); i >= 0 && i < m.app.Nav().Count() {
			m.app.SelectIndex(i)
		}
	case key.Matches(msg, m.keys.up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.down):
		m.cursor++
	case key.Matches(msg, m.keys.swipeNext):
		m.app.Swipe(m.fling(-1))
	case key.Matches(msg, m.keys.swipePrev):
		m.app.Swipe(m.fling(1))
	case key.Matches(msg, m.keys.remove):
		if n, ok := m.selectedNote(); ok && m.app.DeleteNote(m.ctx, n.ID) {
			m.setStatus("Deleted “"+preview(n.Text)+"”", false)
		}
	case key.Matches(msg, m.keys.move):
		if _, ok := m.selectedNote(); ok {
			m.mode = modeMove
		}
	case key.Matches(msg, m.keys.copy):
		if n, ok := m.selectedNote(); ok {
			return m, copyNote(n)
		}
	}
	return m, nil
}

// fling builds a gesture that clears the navigator's velocity threshold in
// direction dir (negative moves to the next page).
func (m Model) fling(dir float64) nav.Gesture {
	w, _ := m.layout()
	return nav.Gesture{Velocity: dir * 2 * m.app.Nav().FlingVelocity(), PageWidth: float64(w)}
}

func (m Model) updateMovePicker(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.cancel) {
		m.mode = modeList
		return m, nil
	}
	i := digit(msg.String())
	if i < 0 || i >= len(storage.AllCategories) {
		return m, nil
	}
	m.mode = modeList
	n, ok := m.selectedNote()
	if !ok {
		return m, nil
	}
	target := storage.At(i)
	if m.app.MoveNote(m.ctx, n.ID, target) {
		m.setStatus("Moved “"+preview(n.Text)+"” to "+storage.CategoryLabel(target)+" ✓", false)
	} else {
		m.setStatus("Already in "+storage.CategoryLabel(target), false)
	}
	return m, nil
}

// --- Mouse ---

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	action := m.mouse.HandleMouse(msg)
	now := m.now()

	switch action.Type {
	case mouse.ActionClick:
		switch action.Region.ID {
		case regionTab:
			m.app.SelectIndex(action.Region.Data.(int))
		case regionPager:
			m.mouse.StartDrag(action.X, action.Y, regionPager)
			m.pager.beginDrag(action.X, now)
		case regionInput:
			if m.mode != modeInput {
				m.mode = modeInput
				return m.input.focus()
			}
		}
	case mouse.ActionDrag:
		if m.mouse.DragRegion() == regionPager && m.pager.dragging() {
			m.pager.drag(action.X, now)
		}
	case mouse.ActionDragEnd:
		if m.pager.dragging() {
			m.app.Swipe(m.pager.endDrag(action.X, now))
		}
	case mouse.ActionScrollUp, mouse.ActionScrollDown:
		if action.Region != nil && action.Region.ID == regionPager {
			m.pager.scrollBy(action.Delta)
		}
	}
	return nil
}

// registerHits records where the clickable parts of the frame are.
func (m Model) registerHits() {
	w, h := m.layout()
	m.mouse.Clear()
	m.mouse.HitMap.AddRect(regionPager, frameLeft, pagerTop, w, h, nil)
	m.tabs.registerHits(m.mouse.HitMap, frameLeft, tabStripTop)
	m.mouse.HitMap.AddRect(regionInput, frameLeft, pagerTop+h, w, 3, nil)
}

// --- View ---

// View implements tea.Model.
func (m Model) View() string {
	w, _ := m.layout()

	title := titleStyle.Render(fmt.Sprintf("📒 notetabs · %d notes", m.app.Store().Len()))

	var bottom string
	if m.mode == modeMove {
		bottom = m.viewMovePicker(w)
	} else {
		bottom = m.input.View(w)
	}

	status := ""
	if m.statusMsg != "" {
		if m.statusErr {
			status = errorStyle.Render(m.statusMsg)
		} else {
			status = successStyle.Render(m.statusMsg)
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.tabs.View(),
		m.pager.View(),
		bottom,
		status,
		m.viewHelp(),
	)
	return appStyle.MaxWidth(m.width).MaxHeight(m.height).Render(content)
}

func (m Model) viewMovePicker(width int) string {
	s := "Move to:"
	for i, c := range storage.AllCategories {
		s += "  " + pickerKeyStyle.Render(fmt.Sprint(i+1)) + " " + storage.CategoryLabel(c)
	}
	inner := width - focusedInputStyle.GetHorizontalFrameSize()
	return focusedInputStyle.Width(width - 2).Render(ansi.Truncate(s, inner, "…"))
}

func (m Model) viewHelp() string {
	var s string
	switch m.mode {
	case modeInput:
		s = help(m.keys.submit) + "  " +
			help(m.keys.nextTab) + "  " +
			help(m.keys.listMode) + "  " +
			help(m.keys.quit)
	case modeList:
		s = help(m.keys.up) + "  " +
			help(m.keys.swipeNext) + "  " +
			help(m.keys.jumpTab) + "  " +
			help(m.keys.remove) + "  " +
			help(m.keys.move) + "  " +
			help(m.keys.copy) + "  " +
			help(m.keys.edit)
	case modeMove:
		s = helpEntry("1-4", "category") + "  " + help(m.keys.cancel)
	}
	maxWidth := max(20, m.width-appStyle.GetHorizontalPadding())
	return helpBarStyle.MaxWidth(maxWidth).Render(s)
}

// --- Commands (async operations) ---

type frameMsg time.Time

type storeChangedMsg struct{}

type noteCopiedMsg struct {
	text string
	err  error
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// watchStore waits for the next external change of the persisted notes.
func (m Model) watchStore() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	changes := m.changes
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

func copyNote(n storage.Note) tea.Cmd {
	return func() tea.Msg {
		err := clipboard.WriteAll(n.Text)
		return noteCopiedMsg{text: n.Text, err: err}
	}
}
