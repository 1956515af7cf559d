package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go-storefront/pkg/apierror"
)

var _ BlobStore = (*Local)(nil)

// Local stores blobs as files directly under a root directory.
type Local struct {
	rootAbs string
}

func NewLocal(root string) (*Local, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("root path cannot be empty")
	}

	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}

	if err := os.MkdirAll(rootAbs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}

	return &Local{rootAbs: rootAbs}, nil
}

func (s *Local) RootAbs() string {
	return s.rootAbs
}

func (s *Local) resolve(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}

	return filepath.Join(s.rootAbs, name), nil
}

// Save writes to a temp file first and renames it into place, so a reader
// never observes a partially written blob.
func (s *Local) Save(_ context.Context, name string, r io.Reader) (int64, error) {
	target, err := s.resolve(name)
	if err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(s.rootAbs, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	written, err := io.CopyBuffer(tmp, r, make([]byte, 32*1024))
	if err != nil {
		_ = tmp.Close()
		return 0, fmt.Errorf("write %q: %w", name, err)
	}

	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close %q: %w", name, err)
	}

	if err := os.Chmod(tmpName, 0o644); err != nil {
		return 0, fmt.Errorf("chmod %q: %w", name, err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		return 0, fmt.Errorf("rename %q: %w", name, err)
	}

	return written, nil
}

func (s *Local) Open(_ context.Context, name string) (io.ReadCloser, error) {
	target, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(target)
	if errors.Is(err, os.ErrNotExist) {
		return nil, apierror.NotFound("file", name)
	}
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", name, err)
	}

	return file, nil
}

// Remove is idempotent: removing a missing blob succeeds.
func (s *Local) Remove(_ context.Context, name string) error {
	target, err := s.resolve(name)
	if err != nil {
		return err
	}

	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %q: %w", name, err)
	}

	return nil
}
