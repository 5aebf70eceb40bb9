package storage

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/gabrielfornes/notetabs/internal/kv"
)

// failingStore accepts reads from an inner store but rejects every write.
type failingStore struct {
	kv.Store
}

func (f failingStore) Set(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func newTestStore(backend kv.Store) *Store {
	var seq int
	clock := time.Date(2025, 2, 5, 10, 0, 0, 0, time.UTC)
	return New(backend,
		WithIDs(func() string {
			seq++
			return fmt.Sprintf("n%d", seq)
		}),
		WithClock(func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		}),
	)
}

func texts(seq func(func(Note) bool)) []string {
	var out []string
	for n := range seq {
		out = append(out, n.Text)
	}
	return out
}

func TestAdd_IgnoresBlankText(t *testing.T) {
	s := newTestStore(kv.NewMemoryStore())
	ctx := context.Background()

	for _, text := range []string{"", "   ", "\t\n"} {
		if _, ok := s.Add(ctx, text, CategoryInbox); ok {
			t.Errorf("Add(%q) should be ignored", text)
		}
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestAdd_TrimsAndPersists(t *testing.T) {
	backend := kv.NewMemoryStore()
	s := newTestStore(backend)
	ctx := context.Background()

	n, ok := s.Add(ctx, "  buy milk  ", CategoryInbox)
	if !ok {
		t.Fatal("Add should succeed")
	}
	if n.Text != "buy milk" {
		t.Errorf("Text = %q, want trimmed", n.Text)
	}
	if n.ID == "" || n.Timestamp.IsZero() {
		t.Errorf("note should have id and timestamp: %+v", n)
	}
	if _, err := backend.Get(ctx, DefaultKey); err != nil {
		t.Errorf("Add should persist: %v", err)
	}
}

func TestAddThenDelete_RestoresCollection(t *testing.T) {
	s := newTestStore(kv.NewMemoryStore())
	ctx := context.Background()
	s.Add(ctx, "a", CategoryInbox)
	s.Add(ctx, "b", CategoryIdeas)
	before := slices.Clone(s.notes)

	n, _ := s.Add(ctx, "x", CategoryWords)
	if _, ok := s.Delete(ctx, n.ID); !ok {
		t.Fatal("Delete should remove the added note")
	}

	if !slices.Equal(s.notes, before) {
		t.Errorf("collection after add+delete = %+v, want %+v", s.notes, before)
	}
}

func TestDelete_MissingIsNoop(t *testing.T) {
	s := newTestStore(kv.NewMemoryStore())
	ctx := context.Background()
	s.Add(ctx, "a", CategoryInbox)

	if _, ok := s.Delete(ctx, "nope"); ok {
		t.Error("Delete of unknown id should report false")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestFilteredBy_InsertionOrder(t *testing.T) {
	s := newTestStore(kv.NewMemoryStore())
	ctx := context.Background()
	s.Add(ctx, "i1", CategoryInbox)
	s.Add(ctx, "d1", CategoryIdeas)
	s.Add(ctx, "i2", CategoryInbox)
	s.Add(ctx, "t1", CategoryTrip)
	s.Add(ctx, "i3", CategoryInbox)

	tests := []struct {
		cat  Category
		want []string
	}{
		{CategoryInbox, []string{"i1", "i2", "i3"}},
		{CategoryIdeas, []string{"d1"}},
		{CategoryTrip, []string{"t1"}},
		{CategoryWords, nil},
	}
	for _, tt := range tests {
		t.Run(string(tt.cat), func(t *testing.T) {
			got := texts(s.FilteredBy(tt.cat))
			if !slices.Equal(got, tt.want) {
				t.Errorf("FilteredBy(%s) = %v, want %v", tt.cat, got, tt.want)
			}
			if s.Count(tt.cat) != len(tt.want) {
				t.Errorf("Count(%s) = %d, want %d", tt.cat, s.Count(tt.cat), len(tt.want))
			}
		})
	}
}

func TestFilteredBy_StopsEarly(t *testing.T) {
	s := newTestStore(kv.NewMemoryStore())
	ctx := context.Background()
	s.Add(ctx, "a", CategoryInbox)
	s.Add(ctx, "b", CategoryInbox)

	var seen int
	for range s.FilteredBy(CategoryInbox) {
		seen++
		break
	}
	if seen != 1 {
		t.Errorf("seen = %d, want 1", seen)
	}
}

func TestMoveToCategory_KeepsPositionAndTimestamp(t *testing.T) {
	s := newTestStore(kv.NewMemoryStore())
	ctx := context.Background()
	s.Add(ctx, "ideas-1", CategoryIdeas)
	moved, _ := s.Add(ctx, "inbox-1", CategoryInbox)
	s.Add(ctx, "ideas-2", CategoryIdeas)

	got, ok := s.MoveToCategory(ctx, moved.ID, CategoryIdeas)
	if !ok {
		t.Fatal("MoveToCategory should succeed")
	}
	if got.ID != moved.ID || !got.Timestamp.Equal(moved.Timestamp) {
		t.Errorf("moved note changed identity: %+v vs %+v", got, moved)
	}
	if inbox := texts(s.FilteredBy(CategoryInbox)); len(inbox) != 0 {
		t.Errorf("Inbox = %v, want empty", inbox)
	}
	if ideas := texts(s.FilteredBy(CategoryIdeas)); !slices.Equal(ideas, []string{"ideas-1", "inbox-1", "ideas-2"}) {
		t.Errorf("Ideas = %v, want note in its original position", ideas)
	}
}

func TestMoveToCategory_Noops(t *testing.T) {
	s := newTestStore(kv.NewMemoryStore())
	ctx := context.Background()
	n, _ := s.Add(ctx, "a", CategoryInbox)

	if _, ok := s.MoveToCategory(ctx, "missing", CategoryTrip); ok {
		t.Error("move of unknown id should report false")
	}
	if _, ok := s.MoveToCategory(ctx, n.ID, CategoryInbox); ok {
		t.Error("move to the same category should report false")
	}
	if _, ok := s.MoveToCategory(ctx, n.ID, Category("Work")); ok {
		t.Error("move to an unknown category should report false")
	}
	if got, _ := s.Get(n.ID); got.Category != CategoryInbox {
		t.Errorf("category = %s, want Inbox", got.Category)
	}
}

func TestAdd_RejectsUnknownCategory(t *testing.T) {
	backend := kv.NewMemoryStore()
	ctx := context.Background()
	s := newTestStore(backend)

	if _, ok := s.Add(ctx, "lost", Category("Work")); ok {
		t.Error("Add to an unknown category should report false")
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
	if _, err := backend.Get(ctx, DefaultKey); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("nothing should be persisted, got err=%v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	backend := kv.NewMemoryStore()
	ctx := context.Background()
	s := newTestStore(backend)
	s.Add(ctx, "one", CategoryInbox)
	s.Add(ctx, "two", CategoryTrip)
	s.Add(ctx, "three", CategoryInbox)

	loaded := New(backend)
	loaded.Load(ctx)

	if loaded.Len() != 3 {
		t.Fatalf("Len after load = %d, want 3", loaded.Len())
	}
	for _, cat := range []Category{CategoryInbox, CategoryTrip} {
		want := collect(s.FilteredBy(cat))
		got := collect(loaded.FilteredBy(cat))
		if len(got) != len(want) {
			t.Fatalf("%s: got %d notes, want %d", cat, len(got), len(want))
		}
		for i := range want {
			if got[i].ID != want[i].ID || got[i].Text != want[i].Text || !got[i].Timestamp.Equal(want[i].Timestamp) {
				t.Errorf("%s[%d] = %+v, want %+v", cat, i, got[i], want[i])
			}
		}
	}
}

func collect(seq func(func(Note) bool)) []Note {
	var out []Note
	for n := range seq {
		out = append(out, n)
	}
	return out
}

func TestLoad_MissingOrMalformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    int
	}{
		{"missing", "", 0},
		{"not json", "{{{", 0},
		{"wrong shape", `{"id":"x"}`, 0},
		{"unknown category skipped", `[{"id":"a","text":"x","category":"Work","timestamp":"2025-02-05T10:00:00Z"},{"id":"b","text":"y","category":"Trip","timestamp":"2025-02-05T10:00:00Z"}]`, 1},
		{"blank text skipped", `[{"id":"a","text":"  ","category":"Inbox","timestamp":"2025-02-05T10:00:00Z"}]`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := kv.NewMemoryStore()
			if tt.payload != "" {
				_ = backend.Set(context.Background(), DefaultKey, []byte(tt.payload))
			}
			s := New(backend)
			s.Load(context.Background())
			if s.Len() != tt.want {
				t.Errorf("Len = %d, want %d", s.Len(), tt.want)
			}
		})
	}
}

func TestPersistFailureIsSwallowed(t *testing.T) {
	s := newTestStore(failingStore{kv.NewMemoryStore()})
	ctx := context.Background()

	n, ok := s.Add(ctx, "kept in memory", CategoryInbox)
	if !ok {
		t.Fatal("Add should succeed even when persistence fails")
	}
	if _, found := s.Get(n.ID); !found {
		t.Error("note should stay in the collection")
	}
}

func TestReload_DetectsChanges(t *testing.T) {
	backend := kv.NewMemoryStore()
	ctx := context.Background()
	s := newTestStore(backend)
	s.Add(ctx, "mine", CategoryInbox)

	if s.Reload(ctx) {
		t.Error("Reload right after our own write should report no change")
	}

	other := New(backend, WithKey(DefaultKey))
	other.Load(ctx)
	other.Add(ctx, "theirs", CategoryWords)

	if !s.Reload(ctx) {
		t.Fatal("Reload should pick up the external write")
	}
	if s.Count(CategoryWords) != 1 {
		t.Errorf("Words count = %d, want 1", s.Count(CategoryWords))
	}
}

func TestReload_KeepsNotesOnMalformedPayload(t *testing.T) {
	ctx := context.Background()
	backend, err := kv.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s := newTestStore(backend)
	s.Add(ctx, "a", CategoryInbox)
	s.Add(ctx, "b", CategoryIdeas)

	// Truncated by another writer.
	if err := backend.Set(ctx, DefaultKey, []byte("")); err != nil {
		t.Fatal(err)
	}
	if s.Reload(ctx) {
		t.Error("a malformed payload should not count as a change")
	}
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}

	s.Add(ctx, "c", CategoryInbox)

	persisted := New(backend)
	persisted.Load(ctx)
	if persisted.Len() != 3 {
		t.Errorf("persisted Len = %d, want 3", persisted.Len())
	}

	// Once the file is valid again it is picked up.
	other := New(backend)
	other.Load(ctx)
	other.Add(ctx, "d", CategoryTrip)
	if !s.Reload(ctx) || s.Len() != 4 {
		t.Errorf("Reload after repair: Len = %d, want 4", s.Len())
	}
}

func TestWithKey(t *testing.T) {
	backend := kv.NewMemoryStore()
	ctx := context.Background()
	s := New(backend, WithKey("work-notes"))
	s.Add(ctx, "a", CategoryInbox)

	if _, err := backend.Get(ctx, "work-notes"); err != nil {
		t.Errorf("notes should be stored under the custom key: %v", err)
	}
	if _, err := backend.Get(ctx, DefaultKey); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("default key should be untouched, got %v", err)
	}
}
