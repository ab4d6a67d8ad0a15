// Package billy provides a filesystem-backed objectstore.Store built on
// go-billy. Objects live at {bucket}/{key} below the filesystem root.
//
// The local variant suits development without an S3 endpoint; the memory
// variant is used by tests that need a real filesystem layout.
package billy

import (
	"context"
	"os"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/oscarhermoso/cubecache/errors"
	"github.com/oscarhermoso/cubecache/internal/keyutil"
)

// Store implements objectstore.Store on a billy.Filesystem.
type Store struct {
	bfs billy.Filesystem
}

// New wraps an existing billy filesystem.
func New(bfs billy.Filesystem) *Store {
	return &Store{bfs: bfs}
}

// NewLocal creates a store rooted at the given directory on disk.
func NewLocal(root string) *Store {
	return &Store{bfs: osfs.New(root)}
}

// NewMemory creates a store on an empty in-memory filesystem.
func NewMemory() *Store {
	return &Store{bfs: memfs.New()}
}

// Unwrap returns the underlying billy.Filesystem.
func (s *Store) Unwrap() billy.Filesystem {
	return s.bfs
}

// objectPath maps bucket and key to a filesystem path.
func objectPath(bucket, key string) (string, error) {
	if bucket == "" || strings.ContainsAny(bucket, "/\\") || bucket == "." || bucket == ".." {
		return "", errors.Newf(errors.CodeInvalidInput, "invalid bucket name %q", bucket)
	}
	if !keyutil.Valid(key) {
		return "", errors.Newf(errors.CodeInvalidInput, "invalid object key %q", key)
	}
	return path.Join(bucket, key), nil
}

// GetObject reads the file backing key.
func (s *Store) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeTimeout, "get object cancelled")
	}

	name, err := objectPath(bucket, key)
	if err != nil {
		return nil, err
	}

	body, err := util.ReadFile(s.bfs, name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.CodeNotFound, "object %s not found", name)
		}
		return nil, errors.Wrapf(err, errors.CodeUnavailable, "failed to read object %s", name)
	}

	return body, nil
}

// PutObject writes body to the file backing key, creating parent directories.
func (s *Store) PutObject(ctx context.Context, bucket, key string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.CodeTimeout, "put object cancelled")
	}

	name, err := objectPath(bucket, key)
	if err != nil {
		return err
	}

	if err := s.bfs.MkdirAll(path.Dir(name), 0o755); err != nil {
		return errors.Wrapf(err, errors.CodeStoreWriteFailed, "failed to create directory for %s", name)
	}
	if err := util.WriteFile(s.bfs, name, body, 0o644); err != nil {
		return errors.Wrapf(err, errors.CodeStoreWriteFailed, "failed to write object %s", name)
	}

	return nil
}

// DeleteObject removes the file backing key. Missing files are ignored.
func (s *Store) DeleteObject(ctx context.Context, bucket, key string) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.CodeTimeout, "delete object cancelled")
	}

	name, err := objectPath(bucket, key)
	if err != nil {
		return err
	}

	if err := s.bfs.Remove(name); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.CodeStoreWriteFailed, "failed to delete object %s", name)
	}

	return nil
}
