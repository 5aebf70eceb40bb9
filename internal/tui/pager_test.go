package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gabrielfornes/notetabs/internal/anim"
	"github.com/gabrielfornes/notetabs/internal/app"
	"github.com/gabrielfornes/notetabs/internal/kv"
	"github.com/gabrielfornes/notetabs/internal/storage"
)

func TestSlicePages(t *testing.T) {
	pages := []string{"aaaa", "bbbb", "cccc"}
	page := func(i int) string { return pages[i] }

	tests := []struct {
		name string
		x    int
		want string
	}{
		{"first page", 0, "aaaa"},
		{"between first and second", 2, "aabb"},
		{"second page", 4, "bbbb"},
		{"last page", 8, "cccc"},
		{"rubber band before first", -2, "  aa"},
		{"rubber band after last", 10, "cc  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := slicePages(page, len(pages), 4, 1, tt.x); got != tt.want {
				t.Errorf("slicePages(x=%d) = %q, want %q", tt.x, got, tt.want)
			}
		})
	}
}

func TestSlicePages_PadsShortPages(t *testing.T) {
	pages := []string{"a\nab", "xyz"}
	got := slicePages(func(i int) string { return pages[i] }, 2, 3, 3, 1)
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %q", len(lines), got)
	}
	expect := []string{"  x", "b  ", "   "}
	for i := range expect {
		if lines[i] != expect[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], expect[i])
		}
	}
}

func TestFloorDiv(t *testing.T) {
	tests := []struct{ a, b, want int }{
		{0, 4, 0}, {3, 4, 0}, {4, 4, 1}, {-1, 4, -1}, {-4, 4, -1}, {-5, 4, -2},
	}
	for _, tt := range tests {
		if got := floorDiv(tt.a, tt.b); got != tt.want {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func newTestPager(t *testing.T, delay time.Duration) (*pager, *app.App) {
	t.Helper()
	store := storage.New(kv.NewMemoryStore())
	store.Load(context.Background())
	a := app.New(store)
	p := newPager(a, newNoteRenderer(false), anim.DefaultParams, delay)
	a.OnCategoryChange(p.onCategoryChange)
	a.OnNotesChange(p.onNotesChange)
	p.setSize(30, 4)
	return p, a
}

func TestPager_ScrollsToBottomAfterAdd(t *testing.T) {
	ctx := context.Background()
	p, a := newTestPager(t, time.Millisecond)

	for i := 0; i < 5; i++ {
		a.AddNote(ctx, "note")
	}
	p.takeCmds()
	p.pages[0].GotoTop()

	a.AddNote(ctx, "newest")
	cmds := p.takeCmds()
	if len(cmds) != 1 {
		t.Fatalf("expected one delayed scroll, got %d", len(cmds))
	}
	msg, ok := cmds[0]().(scrollToBottomMsg)
	if !ok {
		t.Fatal("delayed command should produce scrollToBottomMsg")
	}
	if p.pages[0].AtBottom() {
		t.Fatal("page should not scroll before the delay fires")
	}
	if !p.handleScrollToBottom(msg) || !p.pages[0].AtBottom() {
		t.Error("page should be at the bottom after the delayed scroll")
	}
}

func TestPager_LaterEventCancelsPendingScroll(t *testing.T) {
	ctx := context.Background()
	p, a := newTestPager(t, time.Millisecond)

	for i := 0; i < 5; i++ {
		a.AddNote(ctx, "note")
	}
	p.takeCmds()
	p.pages[0].GotoTop()

	a.AddNote(ctx, "newest")
	msg := p.takeCmds()[0]().(scrollToBottomMsg)

	a.SelectIndex(1)

	if p.handleScrollToBottom(msg) {
		t.Error("scroll should be cancelled by the category change")
	}
	if p.pages[0].AtBottom() {
		t.Error("cancelled scroll moved the page")
	}
}

func TestPager_OffsetFollowsTransitions(t *testing.T) {
	p, a := newTestPager(t, time.Millisecond)

	a.SelectIndex(2)
	if p.animating() || p.spring.Position() != -60 {
		t.Errorf("jump should land at once, pos=%v", p.spring.Position())
	}

	a.SelectIndex(3)
	if !p.animating() {
		t.Fatal("adjacent selection should animate")
	}
	for i := 0; i < 600 && p.step(); i++ {
	}
	if p.spring.Position() != -90 {
		t.Errorf("position after animation = %v, want -90", p.spring.Position())
	}
}

func TestPager_DragFollowsPointer(t *testing.T) {
	p, a := newTestPager(t, time.Millisecond)
	t0 := time.Unix(0, 0)

	p.beginDrag(20, t0)
	p.drag(10, t0.Add(20*time.Millisecond))
	if p.spring.Position() != -10 {
		t.Errorf("position while dragging = %v, want -10", p.spring.Position())
	}
	if p.animating() || p.step() {
		t.Error("spring should hold still while dragging")
	}

	// Past the first page the pointer is damped.
	p.drag(29, t0.Add(40*time.Millisecond))
	if p.spring.Position() != 3 {
		t.Errorf("rubber band position = %v, want 3", p.spring.Position())
	}

	g := p.endDrag(5, t0.Add(60*time.Millisecond))
	if g.Displacement != -15 || g.PageWidth != 30 {
		t.Errorf("gesture = %+v", g)
	}
	if ev := a.Swipe(g); ev.To != storage.CategoryWords {
		t.Errorf("swipe landed on %s, want Words", ev.To)
	}
	if !p.animating() {
		t.Error("release should animate to the new page")
	}
}

func TestPager_HighlightScrollsIntoView(t *testing.T) {
	ctx := context.Background()
	p, a := newTestPager(t, time.Millisecond)
	for i := 0; i < 4; i++ {
		a.AddNote(ctx, "note")
	}
	p.pages[0].GotoBottom()

	p.setHighlight(0)
	if p.pages[0].YOffset != 0 {
		t.Errorf("YOffset = %d, want 0 for the first bubble", p.pages[0].YOffset)
	}
	if !strings.Contains(p.pages[0].View(), "note") {
		t.Error("page should show the highlighted note")
	}
}

func TestPager_EmptyPage(t *testing.T) {
	p, _ := newTestPager(t, time.Millisecond)
	if !strings.Contains(p.View(), "No notes in Inbox yet.") {
		t.Errorf("empty page view = %q", p.View())
	}
}
