package app

import (
	"context"
	"fmt"
	"slices"
	"testing"

	"github.com/gabrielfornes/notetabs/internal/kv"
	"github.com/gabrielfornes/notetabs/internal/nav"
	"github.com/gabrielfornes/notetabs/internal/storage"
)

func newTestApp(t *testing.T, opts ...nav.Option) (*App, kv.Store) {
	t.Helper()
	backend := kv.NewMemoryStore()
	var seq int
	store := storage.New(backend, storage.WithIDs(func() string {
		seq++
		return fmt.Sprintf("n%d", seq)
	}))
	store.Load(context.Background())
	return New(store, opts...), backend
}

func TestSelectedFollowsNavigation(t *testing.T) {
	a, _ := newTestApp(t)

	if a.Selected() != storage.CategoryInbox {
		t.Fatalf("initial selection = %s, want Inbox", a.Selected())
	}

	ev := a.SelectCategory(storage.CategoryIdeas)
	if a.Selected() != storage.CategoryIdeas || a.Nav().Active() != 2 {
		t.Errorf("selected=%s active=%d", a.Selected(), a.Nav().Active())
	}
	if ev.From != storage.CategoryInbox || ev.To != storage.CategoryIdeas {
		t.Errorf("event = %+v", ev)
	}
	if ev.Transition.Animated {
		t.Error("jump of two tabs should not animate")
	}

	ev = a.SelectIndex(3)
	if !ev.Transition.Animated || a.Selected() != storage.CategoryTrip {
		t.Errorf("adjacent select: %+v selected=%s", ev, a.Selected())
	}
}

func TestSelectCategory_UnknownStays(t *testing.T) {
	a, _ := newTestApp(t, nav.WithStart(1))
	ev := a.SelectCategory(storage.Category("Recipes"))
	if ev.Changed() || a.Selected() != storage.CategoryWords {
		t.Errorf("unknown category moved selection: %+v", ev)
	}
}

func TestSwipe(t *testing.T) {
	a, _ := newTestApp(t, nav.WithStart(1))

	ev := a.Swipe(nav.Gesture{Displacement: -120, Velocity: -50, PageWidth: 400})
	if a.Selected() != storage.CategoryIdeas || !ev.Transition.Swipe {
		t.Errorf("swipe left: selected=%s ev=%+v", a.Selected(), ev)
	}

	ev = a.Swipe(nav.Gesture{Displacement: -30, Velocity: -100, PageWidth: 400})
	if ev.Changed() || !ev.Transition.Animated {
		t.Errorf("short drag should snap back with animation: %+v", ev)
	}
}

func TestCategoryEvents_FireForEveryTransition(t *testing.T) {
	a, _ := newTestApp(t)

	var got []CategoryChange
	a.OnCategoryChange(func(ev CategoryChange) { got = append(got, ev) })

	a.SelectIndex(1)
	a.SelectIndex(1)
	a.Swipe(nav.Gesture{Displacement: 5, PageWidth: 400})

	if len(got) != 3 {
		t.Fatalf("got %d events, want 3", len(got))
	}
	changed := []bool{got[0].Changed(), got[1].Changed(), got[2].Changed()}
	if !slices.Equal(changed, []bool{true, false, false}) {
		t.Errorf("Changed() = %v", changed)
	}
}

func TestSubscriptions_OrderAndUnsubscribe(t *testing.T) {
	a, _ := newTestApp(t)

	var order []string
	unsubA := a.OnNotesChange(func(NotesChange) { order = append(order, "a") })
	a.OnNotesChange(func(NotesChange) { order = append(order, "b") })

	a.AddNote(context.Background(), "first")
	unsubA()
	unsubA()
	a.AddNote(context.Background(), "second")

	if want := []string{"a", "b", "b"}; !slices.Equal(order, want) {
		t.Errorf("listener calls = %v, want %v", order, want)
	}
}

func TestAddNote_UsesSelectedCategory(t *testing.T) {
	a, _ := newTestApp(t)
	a.SelectCategory(storage.CategoryWords)

	var events []NotesChange
	a.OnNotesChange(func(ev NotesChange) { events = append(events, ev) })

	n, ok := a.AddNote(context.Background(), "  serendipity ")
	if !ok || n.Category != storage.CategoryWords || n.Text != "serendipity" {
		t.Fatalf("AddNote = %+v, %v", n, ok)
	}
	if _, ok := a.AddNote(context.Background(), "   "); ok {
		t.Error("blank note should be ignored")
	}
	if len(events) != 1 || events[0].Kind != NoteAdded || !events[0].Touches(storage.CategoryWords) {
		t.Errorf("events = %+v", events)
	}
	if got := a.Notes(storage.CategoryWords); len(got) != 1 {
		t.Errorf("Words has %d notes", len(got))
	}
}

func TestDeleteAndMove(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestApp(t)

	n, _ := a.AddNote(ctx, "pack passport")

	var events []NotesChange
	a.OnNotesChange(func(ev NotesChange) { events = append(events, ev) })

	if !a.MoveNote(ctx, n.ID, storage.CategoryTrip) {
		t.Fatal("MoveNote failed")
	}
	if a.MoveNote(ctx, n.ID, storage.CategoryTrip) {
		t.Error("moving to the same category should be a no-op")
	}
	if a.MoveNote(ctx, "missing", storage.CategoryIdeas) {
		t.Error("moving a missing note should be a no-op")
	}
	if !a.DeleteNote(ctx, n.ID) {
		t.Fatal("DeleteNote failed")
	}
	if a.DeleteNote(ctx, n.ID) {
		t.Error("second delete should be a no-op")
	}

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	move := events[0]
	if move.Kind != NoteMoved || !move.Touches(storage.CategoryInbox) || !move.Touches(storage.CategoryTrip) {
		t.Errorf("move event = %+v", move)
	}
	if events[1].Kind != NoteDeleted || events[1].Note.ID != n.ID {
		t.Errorf("delete event = %+v", events[1])
	}
}

func TestReload(t *testing.T) {
	ctx := context.Background()
	a, backend := newTestApp(t)
	a.AddNote(ctx, "local")

	var events []NotesChange
	a.OnNotesChange(func(ev NotesChange) { events = append(events, ev) })

	if a.Reload(ctx) {
		t.Error("reload of our own write should report no change")
	}

	payload := `[{"id":"x1","text":"from elsewhere","category":"Ideas","timestamp":"2025-02-05T10:00:00Z"}]`
	if err := backend.Set(ctx, storage.DefaultKey, []byte(payload)); err != nil {
		t.Fatal(err)
	}
	if !a.Reload(ctx) {
		t.Fatal("external change should be detected")
	}
	if len(events) != 1 || events[0].Kind != NotesReloaded || len(events[0].Categories) != len(storage.AllCategories) {
		t.Errorf("events = %+v", events)
	}
	if got := a.Notes(storage.CategoryIdeas); len(got) != 1 || got[0].Text != "from elsewhere" {
		t.Errorf("Ideas = %+v", got)
	}
}
