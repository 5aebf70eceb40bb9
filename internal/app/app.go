// Package app holds the application state shared by the views: the note
// store and the navigation controller. Every mutation goes through an App
// method, which publishes an event to the subscribed views.
package app

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/gabrielfornes/notetabs/internal/nav"
	"github.com/gabrielfornes/notetabs/internal/storage"
)

// CategoryChange is published after every navigation input, including ones
// that leave the index where it was.
type CategoryChange struct {
	Transition nav.Transition
	From       storage.Category
	To         storage.Category
}

// Changed reports whether the selected category moved.
func (c CategoryChange) Changed() bool { return c.Transition.Changed() }

// NotesChangeKind identifies what happened to the collection.
type NotesChangeKind int

const (
	NoteAdded NotesChangeKind = iota
	NoteDeleted
	NoteMoved
	NotesReloaded
)

func (k NotesChangeKind) String() string {
	switch k {
	case NoteAdded:
		return "added"
	case NoteDeleted:
		return "deleted"
	case NoteMoved:
		return "moved"
	case NotesReloaded:
		return "reloaded"
	}
	return "unknown"
}

// NotesChange is published after the collection changed. Categories lists
// the pages whose content differs; a move touches two, a reload all of them.
type NotesChange struct {
	Kind       NotesChangeKind
	Note       storage.Note
	Categories []storage.Category
}

// Touches reports whether c is among the affected categories.
func (n NotesChange) Touches(c storage.Category) bool {
	for _, cat := range n.Categories {
		if cat == c {
			return true
		}
	}
	return false
}

// App is the explicit state object. It is used from the UI event loop only.
type App struct {
	store *storage.Store
	nav   *nav.Controller

	nextID          int
	categoryWatches []categoryWatch
	notesWatches    []notesWatch
}

type categoryWatch struct {
	id int
	fn func(CategoryChange)
}

type notesWatch struct {
	id int
	fn func(NotesChange)
}

// New wires a loaded store to a controller over AllCategories.
func New(store *storage.Store, navOpts ...nav.Option) *App {
	return &App{
		store: store,
		nav:   nav.New(len(storage.AllCategories), navOpts...),
	}
}

// Store returns the note store for read access.
func (a *App) Store() *storage.Store { return a.store }

// Nav returns the navigation controller for read access.
func (a *App) Nav() *nav.Controller { return a.nav }

// Selected returns the category of the active page.
func (a *App) Selected() storage.Category {
	return storage.At(a.nav.Active())
}

// Notes returns the notes of category in insertion order.
func (a *App) Notes(category storage.Category) []storage.Note {
	var out []storage.Note
	for n := range a.store.FilteredBy(category) {
		out = append(out, n)
	}
	return out
}

// --- Navigation ---

// SelectCategory makes c the selected category.
func (a *App) SelectCategory(c storage.Category) CategoryChange {
	i := storage.IndexOf(c)
	if i < 0 {
		i = a.nav.Active()
	}
	return a.SelectIndex(i)
}

// SelectIndex selects the page at i, clamped.
func (a *App) SelectIndex(i int) CategoryChange {
	return a.publishCategory(a.nav.Select(i))
}

// Swipe applies a finished drag gesture.
func (a *App) Swipe(g nav.Gesture) CategoryChange {
	return a.publishCategory(a.nav.Release(g))
}

func (a *App) publishCategory(tr nav.Transition) CategoryChange {
	ev := CategoryChange{
		Transition: tr,
		From:       storage.At(tr.From),
		To:         storage.At(tr.To),
	}
	log.WithFields(log.Fields{
		"from":     ev.From,
		"to":       ev.To,
		"animated": tr.Animated,
		"swipe":    tr.Swipe,
	}).Debug("navigation")
	for _, w := range append([]categoryWatch(nil), a.categoryWatches...) {
		w.fn(ev)
	}
	return ev
}

// --- Notes ---

// AddNote files text under the selected category. Blank text is ignored.
func (a *App) AddNote(ctx context.Context, text string) (storage.Note, bool) {
	n, ok := a.store.Add(ctx, text, a.Selected())
	if ok {
		a.publishNotes(NotesChange{Kind: NoteAdded, Note: n, Categories: []storage.Category{n.Category}})
	}
	return n, ok
}

// DeleteNote removes the note with id.
func (a *App) DeleteNote(ctx context.Context, id string) bool {
	n, ok := a.store.Delete(ctx, id)
	if ok {
		a.publishNotes(NotesChange{Kind: NoteDeleted, Note: n, Categories: []storage.Category{n.Category}})
	}
	return ok
}

// MoveNote files the note with id under c.
func (a *App) MoveNote(ctx context.Context, id string, c storage.Category) bool {
	before, ok := a.store.Get(id)
	if !ok {
		return false
	}
	n, ok := a.store.MoveToCategory(ctx, id, c)
	if ok {
		a.publishNotes(NotesChange{Kind: NoteMoved, Note: n, Categories: []storage.Category{before.Category, c}})
	}
	return ok
}

// Reload re-reads persisted notes and reports whether anything changed.
func (a *App) Reload(ctx context.Context) bool {
	if !a.store.Reload(ctx) {
		return false
	}
	cats := append([]storage.Category(nil), storage.AllCategories...)
	a.publishNotes(NotesChange{Kind: NotesReloaded, Categories: cats})
	return true
}

func (a *App) publishNotes(ev NotesChange) {
	log.WithFields(log.Fields{"kind": ev.Kind, "id": ev.Note.ID}).Debug("notes changed")
	for _, w := range append([]notesWatch(nil), a.notesWatches...) {
		w.fn(ev)
	}
}

// --- Subscriptions ---

// OnCategoryChange registers fn and returns a function that removes it.
func (a *App) OnCategoryChange(fn func(CategoryChange)) func() {
	a.nextID++
	id := a.nextID
	a.categoryWatches = append(a.categoryWatches, categoryWatch{id, fn})
	return func() {
		for i, w := range a.categoryWatches {
			if w.id == id {
				a.categoryWatches = append(a.categoryWatches[:i], a.categoryWatches[i+1:]...)
				return
			}
		}
	}
}

// OnNotesChange registers fn and returns a function that removes it.
func (a *App) OnNotesChange(fn func(NotesChange)) func() {
	a.nextID++
	id := a.nextID
	a.notesWatches = append(a.notesWatches, notesWatch{id, fn})
	return func() {
		for i, w := range a.notesWatches {
			if w.id == id {
				a.notesWatches = append(a.notesWatches[:i], a.notesWatches[i+1:]...)
				return
			}
		}
	}
}
