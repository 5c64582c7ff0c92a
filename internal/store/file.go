package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Iron-Ham/elitectl/internal/errors"
)

// FileStore keeps each key in its own file inside a base directory.
// Writes are atomic (temp file + rename) so a concurrent reader never sees a
// partial value.
type FileStore struct {
	baseDir string
	mu      sync.RWMutex
}

// NewFileStore creates a FileStore rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.NewValidationError("file store directory is required").WithField("store.dir")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.NewStoreError("failed to create store directory", err).WithBackend(BackendFile)
	}
	return &FileStore{baseDir: dir}, nil
}

// Dir returns the directory holding the key files.
func (fs *FileStore) Dir() string {
	return fs.baseDir
}

// Get reads the value stored under key.
func (fs *FileStore) Get(ctx context.Context, key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	data, err := os.ReadFile(fs.keyToPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", errors.NewStoreError("failed to read value", err).WithBackend(BackendFile).WithKey(key)
	}
	return strings.TrimSpace(string(data)), nil
}

// Set writes value under key.
func (fs *FileStore) Set(ctx context.Context, key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := atomicWriteFile(fs.keyToPath(key), []byte(value), 0644); err != nil {
		return errors.NewStoreError("failed to write value", err).WithBackend(BackendFile).WithKey(key)
	}
	return nil
}

// Close is a no-op for the file backend.
func (fs *FileStore) Close() error {
	return nil
}

func (fs *FileStore) keyToPath(key string) string {
	return filepath.Join(fs.baseDir, key)
}

// atomicWriteFile writes data to a temp file in the target directory and
// renames it into place.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}
