package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	appErrors "github.com/zenops/zen-ops-console/pkg/errors"
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// LocalStorage is a small key/value store persisted as one file per key under
// a base directory. It backs the CLI session the way browser local storage
// backs the SPA.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./.zenops"
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// Get returns the stored value or ErrCacheMiss when the key was never written.
func (s *LocalStorage) Get(_ context.Context, key string) ([]byte, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, appErrors.ErrCacheMiss
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Set writes the value atomically through a temp file rename.
func (s *LocalStorage) Set(_ context.Context, key string, value []byte) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.baseDir, "."+key+".*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", key, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", key, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

// Delete removes a stored key if present.
func (s *LocalStorage) Delete(_ context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Path exposes the file backing key (useful for debugging).
func (s *LocalStorage) Path(key string) string {
	path, _ := s.resolve(key)
	return path
}

func (s *LocalStorage) resolve(key string) (string, error) {
	if !keyPattern.MatchString(key) {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid storage key %q", key))
	}
	return filepath.Join(s.baseDir, key+".json"), nil
}
