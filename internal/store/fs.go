package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/avk-dev/librarium/internal/errs"
)

// FSStore writes files into a local content root directory.
type FSStore struct {
	root string
}

// NewFSStore constructs a filesystem-backed content store rooted at dir.
func NewFSStore(dir string) *FSStore { return &FSStore{root: dir} }

// Ensure creates the content root recursively. No error if already present.
func (s *FSStore) Ensure(_ context.Context) error {
	return os.MkdirAll(s.root, 0o755)
}

// Save writes data to <root>/<name>. No cleanup is attempted on failure.
func (s *FSStore) Save(_ context.Context, name string, data []byte, _ string) error {
	if err := os.WriteFile(filepath.Join(s.root, name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// Get reads the stored bytes for name.
func (s *FSStore) Get(_ context.Context, name string) ([]byte, error) {
	// reject path traversal in externally supplied names
	if filepath.Base(name) != name {
		return nil, errs.ErrNotFound
	}
	b, err := os.ReadFile(filepath.Join(s.root, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}
