// Package imagestore stores profile image bytes and hands back opaque references.
// A reference is a bare file name; each backend maps it to its own location.
package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	// ErrImageNotFound is returned when no image exists for a reference.
	ErrImageNotFound = errors.New("image not found")

	// ErrInvalidReference is returned for references that are not bare file names.
	ErrInvalidReference = errors.New("invalid image reference")
)

// LocalStore keeps images as files in a single directory.
type LocalStore struct {
	dir        string
	defaultRef string
}

// NewLocalStore creates dir if needed and returns a store rooted there.
func NewLocalStore(dir, defaultRef string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	return &LocalStore{dir: dir, defaultRef: defaultRef}, nil
}

// Store writes data under a fresh random name and returns that name.
func (s *LocalStore) Store(_ context.Context, data []byte) (string, error) {
	ref := newReference(data)
	if err := os.WriteFile(filepath.Join(s.dir, ref), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return ref, nil
}

// Load reads the image named by ref.
// The default reference falls back to the built-in image when no file overrides it.
func (s *LocalStore) Load(_ context.Context, ref string) ([]byte, error) {
	if err := validateReference(ref); err != nil {
		return nil, err
	}
	data, err := s.read(ref)
	return withDefault(ref, s.defaultRef, data, err)
}

func (s *LocalStore) read(ref string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, ref))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrImageNotFound, ref)
		}
		return nil, fmt.Errorf("read image: %w", err)
	}
	return data, nil
}

// DefaultReference returns the reference of the image shown when none is set.
func (s *LocalStore) DefaultReference() string {
	return s.defaultRef
}

// newReference returns a random file name with an extension matching the content.
func newReference(data []byte) string {
	return uuid.NewString() + mimetype.Detect(data).Extension()
}

func validateReference(ref string) error {
	if ref == "" || ref == "." || ref == ".." || strings.ContainsAny(ref, `/\`) || filepath.Base(ref) != ref {
		return fmt.Errorf("%w: %q", ErrInvalidReference, ref)
	}
	return nil
}
