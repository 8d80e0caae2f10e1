package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"llm-workbench/internal/storage"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrNotConfirmed = errors.New("removal not confirmed")
)

// Record is anything a CollectionStore can hold.
type Record interface {
	RecordID() string
}

const collectionSchemaVersion = 1

// envelope is the persisted shape of a collection. SchemaVersion exists so
// future field additions can migrate older blobs instead of failing to parse.
type envelope[T Record] struct {
	SchemaVersion int `json:"schema_version"`
	Items         []T `json:"items"`
}

// CollectionStore keeps an ordered, newest-first collection fully in memory
// and rewrites the whole persisted blob inside every mutation, so the
// in-memory and persisted forms never diverge. Mutations are read-modify-write
// under one lock: two rapid inserts both land.
type CollectionStore[T Record] struct {
	mu         sync.Mutex
	blobs      *storage.BlobStore
	key        string
	items      []T
	selectedID string
	selected   bool
	listeners  map[int]func([]T)
	nextSubID  int
}

func NewCollectionStore[T Record](blobs *storage.BlobStore, key string) *CollectionStore[T] {
	return &CollectionStore[T]{
		blobs:     blobs,
		key:       key,
		items:     loadItems[T](blobs, key),
		listeners: make(map[int]func([]T)),
	}
}

// loadItems deserializes the persisted collection. An absent blob is an empty
// collection; a corrupt blob is discarded and the collection resets to empty.
func loadItems[T Record](blobs *storage.BlobStore, key string) []T {
	raw, ok, err := blobs.Get(key)
	if err != nil {
		slog.Warn("load collection failed, starting empty", "key", key, "error", err)
		return nil
	}
	if !ok {
		return nil
	}

	var env envelope[T]
	if err := json.Unmarshal(raw, &env); err == nil && env.SchemaVersion >= 1 {
		return env.Items
	}

	// Older blobs are a bare JSON array without the version envelope.
	// They migrate to the envelope on the next write.
	var legacy []T
	if err := json.Unmarshal(raw, &legacy); err != nil {
		slog.Warn("corrupt collection blob discarded", "key", key, "error", err)
		return nil
	}
	return legacy
}

// Items returns a copy of the collection, newest-first.
func (s *CollectionStore[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), s.items...)
}

func (s *CollectionStore[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Get returns the record with the given id.
func (s *CollectionStore[T]) Get(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.RecordID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Insert prepends the item and persists the full collection. Memory is only
// updated after the write succeeds, so a persist failure leaves the store
// unchanged.
func (s *CollectionStore[T]) Insert(item T) error {
	s.mu.Lock()
	next := make([]T, 0, len(s.items)+1)
	next = append(next, item)
	next = append(next, s.items...)
	if err := s.persistLocked(next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.items = next
	snapshot, listeners := s.notifyArgsLocked()
	s.mu.Unlock()

	notifyAll(listeners, snapshot)
	return nil
}

// Update replaces the matching item in place; ordering and the other items
// are untouched.
func (s *CollectionStore[T]) Update(id string, transform func(T) T) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("update %q: %w", id, ErrNotFound)
	}
	next := append([]T(nil), s.items...)
	next[idx] = transform(next[idx])
	if err := s.persistLocked(next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.items = next
	snapshot, listeners := s.notifyArgsLocked()
	s.mu.Unlock()

	notifyAll(listeners, snapshot)
	return nil
}

// Remove filters the item out and persists. The confirmed flag is the
// caller's yes/no gate: an unconfirmed removal fails and mutates nothing.
// Removing the selected item clears the selection.
func (s *CollectionStore[T]) Remove(id string, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("remove %q: %w", id, ErrNotFound)
	}
	next := make([]T, 0, len(s.items)-1)
	next = append(next, s.items[:idx]...)
	next = append(next, s.items[idx+1:]...)
	if err := s.persistLocked(next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.items = next
	if s.selected && s.selectedID == id {
		s.selected = false
		s.selectedID = ""
	}
	snapshot, listeners := s.notifyArgsLocked()
	s.mu.Unlock()

	notifyAll(listeners, snapshot)
	return nil
}

// Select is a pure in-memory pointer change, never persisted. Selecting an
// id that does not exist yields a well-defined "nothing selected" state.
func (s *CollectionStore[T]) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(id) < 0 {
		s.selected = false
		s.selectedID = ""
		return
	}
	s.selected = true
	s.selectedID = id
}

// ClearSelection drops the selection pointer.
func (s *CollectionStore[T]) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = false
	s.selectedID = ""
}

// Selected returns the currently selected record, if any.
func (s *CollectionStore[T]) Selected() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected {
		if idx := s.indexLocked(s.selectedID); idx >= 0 {
			return s.items[idx], true
		}
	}
	var zero T
	return zero, false
}

// Subscribe registers a listener called with a snapshot after every
// mutation. The returned function unregisters it.
func (s *CollectionStore[T]) Subscribe(fn func([]T)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *CollectionStore[T]) indexLocked(id string) int {
	for i, item := range s.items {
		if item.RecordID() == id {
			return i
		}
	}
	return -1
}

func (s *CollectionStore[T]) persistLocked(items []T) error {
	env := envelope[T]{
		SchemaVersion: collectionSchemaVersion,
		Items:         items,
	}
	if env.Items == nil {
		env.Items = []T{}
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal collection %q failed: %w", s.key, err)
	}
	return s.blobs.Set(s.key, payload)
}

func (s *CollectionStore[T]) notifyArgsLocked() ([]T, []func([]T)) {
	snapshot := append([]T(nil), s.items...)
	listeners := make([]func([]T), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	return snapshot, listeners
}

func notifyAll[T Record](listeners []func([]T), snapshot []T) {
	for _, fn := range listeners {
		fn(snapshot)
	}
}
