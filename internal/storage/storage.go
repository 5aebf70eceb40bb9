package storage

import (
	"bytes"
	"context"
	"errors"
	"iter"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/gabrielfornes/notetabs/internal/kv"
)

// DefaultKey is the key the notes blob is stored under.
const DefaultKey = "notes"

// Note is a single short text note.
type Note struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Category  Category  `json:"category"` // persisted by label
	Timestamp time.Time `json:"timestamp"`
}

// Store owns the note collection and its persistence round-trip. It is not
// safe for concurrent use; callers mutate it from a single event loop.
type Store struct {
	backend kv.Store
	key     string

	notes    []Note
	lastHash uint64 // digest of the payload last read or written

	now   func() time.Time
	newID func() string
}

// Option customizes a Store.
type Option func(*Store)

// WithKey overrides DefaultKey.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDs overrides the id generator.
func WithIDs(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// New creates an empty Store over backend. Call Load to read persisted notes.
func New(backend kv.Store, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		key:     DefaultKey,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// --- Loading ---

// Load replaces the collection with the persisted notes. Missing or
// malformed data yields an empty collection; nothing is reported to the
// caller.
func (s *Store) Load(ctx context.Context) {
	data, ok := s.read(ctx)
	if !ok {
		s.notes = nil
		return
	}
	s.lastHash = xxhash.Sum64(data)
	notes, err := decodeNotes(data)
	if err != nil {
		log.WithError(err).Warn("malformed notes payload, starting empty")
	}
	s.notes = notes
}

// Reload re-reads the persisted notes and reports whether the collection
// changed. A payload identical to the last one read or written is ignored.
// A malformed payload, such as a file caught mid-write, leaves the
// collection untouched so the next write does not drop it.
func (s *Store) Reload(ctx context.Context) bool {
	data, ok := s.read(ctx)
	if !ok {
		return false
	}
	h := xxhash.Sum64(data)
	if h == s.lastHash {
		return false
	}
	notes, err := decodeNotes(data)
	if err != nil {
		log.WithError(err).Warn("malformed notes payload, keeping current notes")
		return false
	}
	s.lastHash = h
	s.notes = notes
	return true
}

func (s *Store) read(ctx context.Context) ([]byte, bool) {
	data, err := s.backend.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			log.WithError(err).WithField("key", s.key).Warn("could not read notes")
		}
		return nil, false
	}
	return data, true
}

var errEmptyPayload = errors.New("empty notes payload")

func decodeNotes(data []byte) ([]Note, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errEmptyPayload
	}
	var raw []Note
	if err := sonic.ConfigStd.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	notes := make([]Note, 0, len(raw))
	for _, n := range raw {
		if _, ok := ParseCategory(string(n.Category)); !ok || strings.TrimSpace(n.Text) == "" || n.ID == "" {
			log.WithFields(log.Fields{"id": n.ID, "category": n.Category}).Warn("skipping invalid note")
			continue
		}
		notes = append(notes, n)
	}
	return notes, nil
}

// --- Mutations ---

// Add appends a note to category. Text that is empty after trimming, or a
// category outside AllCategories, is ignored and reported with ok == false.
func (s *Store) Add(ctx context.Context, text string, category Category) (Note, bool) {
	text = strings.TrimSpace(text)
	if text == "" || IndexOf(category) < 0 {
		return Note{}, false
	}
	n := Note{
		ID:        s.newID(),
		Text:      text,
		Category:  category,
		Timestamp: s.now(),
	}
	s.notes = append(s.notes, n)
	s.persist(ctx)
	return n, true
}

// Delete removes the note with id. It reports whether a note was removed.
func (s *Store) Delete(ctx context.Context, id string) (Note, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return Note{}, false
	}
	removed := s.notes[i]
	s.notes = append(s.notes[:i], s.notes[i+1:]...)
	s.persist(ctx)
	return removed, true
}

// MoveToCategory files the note with id under category. The note keeps its
// id, timestamp and position in the collection.
func (s *Store) MoveToCategory(ctx context.Context, id string, category Category) (Note, bool) {
	i := s.indexOf(id)
	if i < 0 || IndexOf(category) < 0 || s.notes[i].Category == category {
		return Note{}, false
	}
	s.notes[i].Category = category
	s.persist(ctx)
	return s.notes[i], true
}

// persist writes the full collection. Failures are logged and dropped.
func (s *Store) persist(ctx context.Context) {
	data, err := s.Encode()
	if err != nil {
		log.WithError(err).Warn("could not encode notes")
		return
	}
	if err := s.backend.Set(ctx, s.key, data); err != nil {
		log.WithError(err).WithField("key", s.key).Warn("could not persist notes")
		return
	}
	s.lastHash = xxhash.Sum64(data)
}

// Encode serializes the collection in its persisted form.
func (s *Store) Encode() ([]byte, error) {
	notes := s.notes
	if notes == nil {
		notes = []Note{}
	}
	return sonic.ConfigStd.Marshal(notes)
}

// --- Queries ---

// FilteredBy yields the notes filed under category in insertion order.
func (s *Store) FilteredBy(category Category) iter.Seq[Note] {
	return func(yield func(Note) bool) {
		for _, n := range s.notes {
			if n.Category != category {
				continue
			}
			if !yield(n) {
				return
			}
		}
	}
}

// Count returns the number of notes filed under category.
func (s *Store) Count(category Category) int {
	count := 0
	for range s.FilteredBy(category) {
		count++
	}
	return count
}

// Get returns the note with id.
func (s *Store) Get(id string) (Note, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.notes[i], true
	}
	return Note{}, false
}

// Len returns the size of the collection.
func (s *Store) Len() int {
	return len(s.notes)
}

func (s *Store) indexOf(id string) int {
	for i, n := range s.notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}
