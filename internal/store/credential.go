package store

import (
	"errors"
	"log/slog"
	"strings"
	"sync"

	"llm-workbench/internal/storage"
)

var ErrEmptyCredential = errors.New("credential is empty")

// CredentialStore owns the provider API key. The value is read once at
// startup and overwritten wholesale on save; an absent entry is an empty
// credential, never an error.
type CredentialStore struct {
	mu        sync.Mutex
	blobs     *storage.BlobStore
	current   string
	listeners map[int]func(string)
	nextSubID int
}

func NewCredentialStore(blobs *storage.BlobStore) *CredentialStore {
	s := &CredentialStore{
		blobs:     blobs,
		listeners: make(map[int]func(string)),
	}
	raw, ok, err := blobs.Get(storage.KeyCredential)
	if err != nil {
		slog.Warn("load credential failed, starting empty", "error", err)
		return s
	}
	if ok {
		s.current = string(raw)
	}
	return s
}

func (s *CredentialStore) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Save rejects values that trim to empty and otherwise persists the value
// as-is, leaving the previous credential untouched on failure.
func (s *CredentialStore) Save(value string) error {
	if strings.TrimSpace(value) == "" {
		return ErrEmptyCredential
	}

	s.mu.Lock()
	if err := s.blobs.Set(storage.KeyCredential, []byte(value)); err != nil {
		s.mu.Unlock()
		return err
	}
	s.current = value
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	for _, notify := range listeners {
		notify(value)
	}
	return nil
}

// Masked returns the credential safe for display.
func (s *CredentialStore) Masked() string {
	return maskSecret(s.Current())
}

// Subscribe registers a listener called after every successful save. The
// returned function unregisters it.
func (s *CredentialStore) Subscribe(fn func(string)) func() {
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

func (s *CredentialStore) snapshotListeners() []func(string) {
	out := make([]func(string), 0, len(s.listeners))
	for _, fn := range s.listeners {
		out = append(out, fn)
	}
	return out
}

func maskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + strings.Repeat("*", len(secret)-8) + secret[len(secret)-4:]
}
