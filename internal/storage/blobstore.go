package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Storage keys for the persisted blobs.
const (
	KeyCredential    = "user_api_key"
	KeyConversations = "chat_conversations"
	KeyDocuments     = "rag_documents"
)

// BlobStore persists string-keyed blobs as one file per key. Writes replace
// the whole blob; there is no partial update.
type BlobStore struct {
	dir string
}

func New(dir string) (*BlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir failed: %w", err)
	}
	return &BlobStore{dir: dir}, nil
}

// Get returns the stored blob; the second result is false when the key has
// never been written.
func (s *BlobStore) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read blob %q failed: %w", key, err)
	}
	return data, true, nil
}

func (s *BlobStore) Set(key string, data []byte) error {
	if err := atomicWriteFile(s.path(key), data, 0o644); err != nil {
		return fmt.Errorf("write blob %q failed: %w", key, err)
	}
	return nil
}

func (s *BlobStore) Delete(key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob %q failed: %w", key, err)
	}
	return nil
}

// Ping reports whether the backing directory is still reachable.
func (s *BlobStore) Ping() error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("stat storage dir failed: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("storage path %q is not a directory", s.dir)
	}
	return nil
}

func (s *BlobStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// atomicWriteFile writes to a temp file in the same directory, syncs it, and
// renames over the target, so a crash leaves either the old blob or the new
// complete one, never a partial write.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".tmp-")
	if err != nil {
		return err
	}
	tmpPath := f.Name()

	committed := false
	defer func() {
		if !committed {
			f.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}
	committed = true
	return nil
}
