// Package blob stores page content outside the database, keyed by opaque
// generated references.
package blob

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no blob exists at the given reference.
var ErrNotFound = errors.New("blob not found")

// Store is the content blob collaborator. A filesystem today; the interface
// is where an object store would slot in.
type Store interface {
	// Write persists content at ref, replacing any existing blob. The write
	// is atomic: a reader never observes a partially written blob.
	Write(ref string, content []byte) error
	// Read returns the content stored at ref, or ErrNotFound.
	Read(ref string) ([]byte, error)
	// Delete removes the blob at ref. Deleting a missing blob is success.
	Delete(ref string) error
}

// NewRef generates a candidate content reference. Uniqueness is probabilistic;
// callers must verify the reference is unused and retry on collision.
func NewRef() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// FileStore keeps blobs as flat files under a single directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir, creating the directory if
// it does not exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create blob directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Write persists content with a temp-file write, fsync, then atomic rename.
// An update overwrites the blob in place at the same reference. Each call
// gets its own temp file; concurrent writes to one ref each publish only
// their own complete bytes, and the last rename wins.
func (s *FileStore) Write(ref string, content []byte) error {
	fullPath := filepath.Join(s.dir, ref)

	f, err := os.CreateTemp(s.dir, ref+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp blob: %w", err)
	}
	tmpPath := f.Name()

	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write blob: %w", err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync blob: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close blob: %w", err)
	}

	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename blob: %w", err)
	}

	return nil
}

// Read returns the blob content at ref.
func (s *FileStore) Read(ref string) ([]byte, error) {
	content, err := os.ReadFile(filepath.Join(s.dir, ref))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read blob %s: %w", ref, err)
	}
	return content, nil
}

// Delete removes the blob at ref. A missing blob is treated as success so
// page deletion stays retryable after partial prior failures.
func (s *FileStore) Delete(ref string) error {
	if err := os.Remove(filepath.Join(s.dir, ref)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete blob %s: %w", ref, err)
	}
	return nil
}
