// Package storage provides a create-only object store over an afero
// filesystem. Objects are written once and served under a public base URL;
// an existing key is never overwritten in place.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/spf13/afero"
)

// ErrObjectExists is returned when a key is already present in the store.
var ErrObjectExists = errors.New("object already exists")

// LocalStore stores blobs on an afero filesystem rooted at root and issues
// public URLs under baseURL. Tests inject an in-memory filesystem.
type LocalStore struct {
	fs      afero.Fs
	root    string
	baseURL string
}

// NewLocalStore creates a LocalStore. baseURL must be the externally
// reachable prefix the stored objects are served from.
func NewLocalStore(fs afero.Fs, root, baseURL string) *LocalStore {
	return &LocalStore{
		fs:      fs,
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Put writes data under key. A key that already exists fails with
// ErrObjectExists (no upsert).
func (s *LocalStore) Put(ctx context.Context, key string, data []byte) error {
	full := path.Join(s.root, key)

	exists, err := afero.Exists(s.fs, full)
	if err != nil {
		return fmt.Errorf("failed to stat object %q: %w", key, err)
	}
	if exists {
		return ErrObjectExists
	}

	if err := s.fs.MkdirAll(path.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}
	if err := afero.WriteFile(s.fs, full, data, 0o644); err != nil {
		return fmt.Errorf("failed to write object %q: %w", key, err)
	}
	return nil
}

// PublicURL returns the durable public URL for a stored key.
func (s *LocalStore) PublicURL(key string) string {
	return s.baseURL + "/" + strings.TrimLeft(key, "/")
}
